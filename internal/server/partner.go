package server

import (
	"strings"

	"github.com/gin-gonic/gin"
	partnerdomain "github.com/ynmsafety/ynmops/internal/partner/domain"
)

// Partner handlers are built per kind so dealers, importers and customers
// share one implementation.

func (s *Server) CreatePartner(kind partnerdomain.Kind) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req partnerdomain.CreateRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			AbortWithError(c, ErrInvalidRequest)
			return
		}

		resp, err := s.partnerSvc.Create(c.Request.Context(), kind, req)
		if err != nil {
			AbortWithError(c, withEntity(kind.Label(), err))
			return
		}

		respondCreated(c, resp)
	}
}

func (s *Server) ListPartners(kind partnerdomain.Kind) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req partnerdomain.ListRequest
		if err := c.ShouldBindQuery(&req); err != nil {
			AbortWithError(c, ErrInvalidRequest)
			return
		}
		req.Name = strings.TrimSpace(req.Name)
		req.Location = strings.TrimSpace(req.Location)

		resp, err := s.partnerSvc.List(c.Request.Context(), kind, req)
		if err != nil {
			AbortWithError(c, err)
			return
		}

		respondOK(c, resp)
	}
}

func (s *Server) GetPartner(kind partnerdomain.Kind) gin.HandlerFunc {
	return func(c *gin.Context) {
		resp, err := s.partnerSvc.Get(c.Request.Context(), kind, strings.TrimSpace(c.Param("id")))
		if err != nil {
			AbortWithError(c, withEntity(kind.Label(), err))
			return
		}

		respondOK(c, resp)
	}
}

func (s *Server) UpdatePartner(kind partnerdomain.Kind) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req partnerdomain.UpdateRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			AbortWithError(c, ErrInvalidRequest)
			return
		}
		req.ID = strings.TrimSpace(c.Param("id"))

		resp, err := s.partnerSvc.Update(c.Request.Context(), kind, req)
		if err != nil {
			AbortWithError(c, withEntity(kind.Label(), err))
			return
		}

		respondOK(c, resp)
	}
}

func (s *Server) DeletePartner(kind partnerdomain.Kind) gin.HandlerFunc {
	return func(c *gin.Context) {
		id := strings.TrimSpace(c.Param("id"))
		if err := s.partnerSvc.Delete(c.Request.Context(), kind, id); err != nil {
			AbortWithError(c, withEntity(kind.Label(), err))
			return
		}

		respondOK(c, gin.H{"id": id})
	}
}
