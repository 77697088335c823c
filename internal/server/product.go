package server

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	productdomain "github.com/ynmsafety/ynmops/internal/product/domain"
	"github.com/ynmsafety/ynmops/internal/providers/extract"
)

const entityProduct = "Product"

func (s *Server) CreateProduct(c *gin.Context) {
	var req productdomain.CreateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		AbortWithError(c, ErrInvalidRequest)
		return
	}

	resp, err := s.productSvc.Create(c.Request.Context(), req)
	if err != nil {
		AbortWithError(c, withEntity(entityProduct, err))
		return
	}

	respondCreated(c, resp)
}

func (s *Server) ListProducts(c *gin.Context) {
	var req productdomain.ListRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		AbortWithError(c, ErrInvalidRequest)
		return
	}
	req.Name = strings.TrimSpace(req.Name)
	req.Unit = strings.TrimSpace(req.Unit)

	resp, err := s.productSvc.List(c.Request.Context(), req)
	if err != nil {
		AbortWithError(c, err)
		return
	}

	respondOK(c, resp)
}

func (s *Server) GetProduct(c *gin.Context) {
	resp, err := s.productSvc.Get(c.Request.Context(), strings.TrimSpace(c.Param("id")))
	if err != nil {
		AbortWithError(c, withEntity(entityProduct, err))
		return
	}

	respondOK(c, resp)
}

func (s *Server) UpdateProduct(c *gin.Context) {
	var req productdomain.UpdateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		AbortWithError(c, ErrInvalidRequest)
		return
	}
	req.ID = strings.TrimSpace(c.Param("id"))

	resp, err := s.productSvc.Update(c.Request.Context(), req)
	if err != nil {
		AbortWithError(c, withEntity(entityProduct, err))
		return
	}

	respondOK(c, resp)
}

func (s *Server) DeleteProduct(c *gin.Context) {
	id := strings.TrimSpace(c.Param("id"))
	if err := s.productSvc.Delete(c.Request.Context(), id); err != nil {
		AbortWithError(c, withEntity(entityProduct, err))
		return
	}

	respondOK(c, gin.H{"id": id})
}

// ExtractProduct forwards an uploaded datasheet to the extraction service and
// returns its suggested fields. Nothing is saved.
func (s *Server) ExtractProduct(c *gin.Context) {
	c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, extract.MaxUploadSize+(1<<20))
	header, err := c.FormFile("file")
	if err != nil {
		AbortWithError(c, ErrInvalidRequest)
		return
	}
	if header.Size > extract.MaxUploadSize {
		AbortWithError(c, ErrInvalidRequest)
		return
	}
	file, err := header.Open()
	if err != nil {
		AbortWithError(c, ErrInvalidRequest)
		return
	}
	defer file.Close()

	out, err := s.extractor.Extract(c.Request.Context(), header.Filename, file)
	if err != nil {
		AbortWithError(c, err)
		return
	}

	respondOK(c, out)
}
