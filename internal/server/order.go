package server

import (
	"bytes"
	"fmt"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	orderdomain "github.com/ynmsafety/ynmops/internal/order/domain"
)

const entityOrder = "Order"

func (s *Server) CreateOrder(c *gin.Context) {
	var req orderdomain.CreateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		AbortWithError(c, ErrInvalidRequest)
		return
	}

	resp, err := s.orderSvc.Create(c.Request.Context(), req)
	if err != nil {
		AbortWithError(c, withEntity(entityOrder, err))
		return
	}

	respondCreated(c, resp)
}

func (s *Server) ListOrders(c *gin.Context) {
	var req orderdomain.ListRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		AbortWithError(c, ErrInvalidRequest)
		return
	}
	req.Manufacturer = strings.TrimSpace(req.Manufacturer)
	req.Product = strings.TrimSpace(req.Product)

	resp, err := s.orderSvc.List(c.Request.Context(), req)
	if err != nil {
		AbortWithError(c, err)
		return
	}

	respondOK(c, resp)
}

func (s *Server) GetOrder(c *gin.Context) {
	resp, err := s.orderSvc.Get(c.Request.Context(), strings.TrimSpace(c.Param("id")))
	if err != nil {
		AbortWithError(c, withEntity(entityOrder, err))
		return
	}

	respondOK(c, resp)
}

func (s *Server) UpdateOrder(c *gin.Context) {
	var req orderdomain.UpdateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		AbortWithError(c, ErrInvalidRequest)
		return
	}
	req.ID = strings.TrimSpace(c.Param("id"))

	resp, err := s.orderSvc.Update(c.Request.Context(), req)
	if err != nil {
		AbortWithError(c, withEntity(entityOrder, err))
		return
	}

	respondOK(c, resp)
}

func (s *Server) DeleteOrder(c *gin.Context) {
	id := strings.TrimSpace(c.Param("id"))
	if err := s.orderSvc.Delete(c.Request.Context(), id); err != nil {
		AbortWithError(c, withEntity(entityOrder, err))
		return
	}

	respondOK(c, gin.H{"id": id})
}

func (s *Server) ExportOrders(c *gin.Context) {
	var buf bytes.Buffer
	if err := s.orderSvc.ExportCSV(c.Request.Context(), &buf); err != nil {
		AbortWithError(c, err)
		return
	}

	c.Header("Content-Disposition", `attachment; filename="orders.csv"`)
	c.Data(http.StatusOK, "text/csv; charset=utf-8", buf.Bytes())
}

func (s *Server) QuoteOrder(c *gin.Context) {
	id := strings.TrimSpace(c.Param("id"))
	doc, err := s.orderSvc.Quote(c.Request.Context(), id)
	if err != nil {
		AbortWithError(c, withEntity(entityOrder, err))
		return
	}

	c.Header("Content-Disposition", fmt.Sprintf(`inline; filename="quote-%s.pdf"`, id))
	c.Data(http.StatusOK, "application/pdf", doc)
}
