package handler

import (
	"grievance/backend/internal/api/middleware"
	"grievance/backend/internal/complaint"

	"github.com/gin-gonic/gin"
)

type assignRequest struct {
	OfficerID string `json:"officerId"`
}

// POST /api/complaints
func (h *Handler) CreateComplaint(c *gin.Context) {
	var req complaint.SubmitInput
	if err := c.ShouldBindJSON(&req); err != nil {
		bindError(c, err)
		return
	}
	out, err := h.Complaints.Submit(c.Request.Context(), middleware.ActorFrom(c), req)
	if err != nil {
		writeError(c, err)
		return
	}
	created(c, out)
}

// GET /api/complaints
func (h *Handler) ListComplaints(c *gin.Context) {
	var opts complaint.ListOptions
	if err := c.ShouldBindQuery(&opts); err != nil {
		bindError(c, err)
		return
	}
	page, err := h.Complaints.List(c.Request.Context(), middleware.ActorFrom(c), opts)
	if err != nil {
		writeError(c, err)
		return
	}
	ok(c, page)
}

// GET /api/complaints/:id
func (h *Handler) GetComplaint(c *gin.Context) {
	out, err := h.Complaints.Get(c.Request.Context(), middleware.ActorFrom(c), c.Param("id"))
	if err != nil {
		writeError(c, err)
		return
	}
	ok(c, out)
}

// PATCH /api/complaints/:id/assign
func (h *Handler) AssignComplaint(c *gin.Context) {
	var req assignRequest
	// Officers assign themselves and may send no body at all.
	if c.Request.ContentLength != 0 {
		if err := c.ShouldBindJSON(&req); err != nil {
			bindError(c, err)
			return
		}
	}
	out, err := h.Complaints.Assign(c.Request.Context(), c.Param("id"), middleware.ActorFrom(c), req.OfficerID)
	if err != nil {
		writeError(c, err)
		return
	}
	ok(c, out)
}

// PATCH /api/complaints/:id/status
func (h *Handler) UpdateComplaintStatus(c *gin.Context) {
	var req complaint.StatusInput
	if err := c.ShouldBindJSON(&req); err != nil {
		bindError(c, err)
		return
	}
	out, err := h.Complaints.UpdateStatus(c.Request.Context(), c.Param("id"), middleware.ActorFrom(c), req.Status, req.Resolution)
	if err != nil {
		writeError(c, err)
		return
	}
	ok(c, out)
}
