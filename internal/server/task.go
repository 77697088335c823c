package server

import (
	"strings"

	"github.com/gin-gonic/gin"
	taskdomain "github.com/ynmsafety/ynmops/internal/task/domain"
)

const entityTask = "Task"

func (s *Server) CreateTask(c *gin.Context) {
	var req taskdomain.CreateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		AbortWithError(c, ErrInvalidRequest)
		return
	}

	resp, err := s.taskSvc.Create(c.Request.Context(), req)
	if err != nil {
		AbortWithError(c, withEntity(entityTask, err))
		return
	}

	respondCreated(c, resp)
}

func (s *Server) ListTasks(c *gin.Context) {
	var req taskdomain.ListRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		AbortWithError(c, ErrInvalidRequest)
		return
	}
	req.AssignedTo = strings.TrimSpace(req.AssignedTo)
	req.Date = strings.TrimSpace(req.Date)
	req.Status = strings.TrimSpace(req.Status)

	resp, err := s.taskSvc.List(c.Request.Context(), req)
	if err != nil {
		AbortWithError(c, err)
		return
	}

	respondOK(c, resp)
}

func (s *Server) GetTask(c *gin.Context) {
	resp, err := s.taskSvc.Get(c.Request.Context(), strings.TrimSpace(c.Param("id")))
	if err != nil {
		AbortWithError(c, withEntity(entityTask, err))
		return
	}

	respondOK(c, resp)
}

func (s *Server) UpdateTask(c *gin.Context) {
	var req taskdomain.UpdateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		AbortWithError(c, ErrInvalidRequest)
		return
	}
	req.ID = strings.TrimSpace(c.Param("id"))

	resp, err := s.taskSvc.Update(c.Request.Context(), req)
	if err != nil {
		AbortWithError(c, withEntity(entityTask, err))
		return
	}

	respondOK(c, resp)
}

func (s *Server) UpdateTaskStatus(c *gin.Context) {
	var req taskdomain.UpdateStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		AbortWithError(c, ErrInvalidRequest)
		return
	}
	req.ID = strings.TrimSpace(c.Param("id"))

	resp, err := s.taskSvc.UpdateStatus(c.Request.Context(), req)
	if err != nil {
		AbortWithError(c, withEntity(entityTask, err))
		return
	}

	respondOK(c, resp)
}

func (s *Server) DeleteTask(c *gin.Context) {
	id := strings.TrimSpace(c.Param("id"))
	if err := s.taskSvc.Delete(c.Request.Context(), id); err != nil {
		AbortWithError(c, withEntity(entityTask, err))
		return
	}

	respondOK(c, gin.H{"id": id})
}
