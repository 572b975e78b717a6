package handler

import (
	"grievance/backend/internal/apperr"
	"grievance/backend/internal/models"

	"github.com/gin-gonic/gin"
)

// GET /api/admin/stats
func (h *Handler) GetStats(c *gin.Context) {
	out, err := h.Stats.Compute(c.Request.Context())
	if err != nil {
		writeError(c, err)
		return
	}
	ok(c, out)
}

// GET /api/admin/users?role=Officer
func (h *Handler) ListUsers(c *gin.Context) {
	var role *models.Role
	if v := c.Query("role"); v != "" {
		r := models.Role(v)
		if !r.Valid() {
			writeError(c, apperr.Validation("unknown role %q", v))
			return
		}
		role = &r
	}
	out, err := h.Users.ListUsers(c.Request.Context(), role)
	if err != nil {
		writeError(c, err)
		return
	}
	if out == nil {
		out = []models.User{}
	}
	ok(c, out)
}
