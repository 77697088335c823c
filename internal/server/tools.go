package server

import (
	"github.com/gin-gonic/gin"
	"github.com/ynmsafety/ynmops/internal/assistant"
	"github.com/ynmsafety/ynmops/internal/transport"
)

func (s *Server) EstimateTransport(c *gin.Context) {
	var req transport.EstimateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		AbortWithError(c, ErrInvalidRequest)
		return
	}

	est, err := s.estimator.Estimate(c.Request.Context(), req)
	if err != nil {
		AbortWithError(c, err)
		return
	}

	respondOK(c, est)
}

func (s *Server) AskAssistant(c *gin.Context) {
	var req assistant.AskRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		AbortWithError(c, ErrInvalidRequest)
		return
	}

	ans, err := s.assistant.Ask(c.Request.Context(), req)
	if err != nil {
		AbortWithError(c, err)
		return
	}

	respondOK(c, ans)
}
