package handler

import (
	"grievance/backend/internal/api/middleware"
	"grievance/backend/internal/feedback"

	"github.com/gin-gonic/gin"
)

// POST /api/complaints/:id/feedback
func (h *Handler) SubmitFeedback(c *gin.Context) {
	var req feedback.Input
	if err := c.ShouldBindJSON(&req); err != nil {
		bindError(c, err)
		return
	}
	out, err := h.Feedback.Submit(c.Request.Context(), c.Param("id"), middleware.ActorFrom(c), req)
	if err != nil {
		writeError(c, err)
		return
	}
	ok(c, out)
}

// GET /api/complaints/:id/feedback
func (h *Handler) GetFeedback(c *gin.Context) {
	out, err := h.Feedback.ForComplaint(c.Request.Context(), c.Param("id"), middleware.ActorFrom(c))
	if err != nil {
		writeError(c, err)
		return
	}
	ok(c, out)
}

// GET /api/feedback
func (h *Handler) ListFeedback(c *gin.Context) {
	out, err := h.Feedback.List(c.Request.Context(), middleware.ActorFrom(c))
	if err != nil {
		writeError(c, err)
		return
	}
	ok(c, out)
}
