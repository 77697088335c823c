package server

import (
	"strings"

	"github.com/gin-gonic/gin"
	manufacturerdomain "github.com/ynmsafety/ynmops/internal/manufacturer/domain"
)

const entityManufacturer = "Manufacturer"

func (s *Server) CreateManufacturer(c *gin.Context) {
	var req manufacturerdomain.CreateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		AbortWithError(c, ErrInvalidRequest)
		return
	}

	resp, err := s.manufacturerSvc.Create(c.Request.Context(), req)
	if err != nil {
		AbortWithError(c, withEntity(entityManufacturer, err))
		return
	}

	respondCreated(c, resp)
}

func (s *Server) ListManufacturers(c *gin.Context) {
	var req manufacturerdomain.ListRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		AbortWithError(c, ErrInvalidRequest)
		return
	}
	req.Name = strings.TrimSpace(req.Name)
	req.Location = strings.TrimSpace(req.Location)

	resp, err := s.manufacturerSvc.List(c.Request.Context(), req)
	if err != nil {
		AbortWithError(c, err)
		return
	}

	respondOK(c, resp)
}

func (s *Server) GetManufacturer(c *gin.Context) {
	resp, err := s.manufacturerSvc.Get(c.Request.Context(), strings.TrimSpace(c.Param("id")))
	if err != nil {
		AbortWithError(c, withEntity(entityManufacturer, err))
		return
	}

	respondOK(c, resp)
}

func (s *Server) UpdateManufacturer(c *gin.Context) {
	var req manufacturerdomain.UpdateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		AbortWithError(c, ErrInvalidRequest)
		return
	}
	req.ID = strings.TrimSpace(c.Param("id"))

	resp, err := s.manufacturerSvc.Update(c.Request.Context(), req)
	if err != nil {
		AbortWithError(c, withEntity(entityManufacturer, err))
		return
	}

	respondOK(c, resp)
}

func (s *Server) DeleteManufacturer(c *gin.Context) {
	id := strings.TrimSpace(c.Param("id"))
	if err := s.manufacturerSvc.Delete(c.Request.Context(), id); err != nil {
		AbortWithError(c, withEntity(entityManufacturer, err))
		return
	}

	respondOK(c, gin.H{"id": id})
}
