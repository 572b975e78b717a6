package handler

import (
	"grievance/backend/internal/department"

	"github.com/gin-gonic/gin"
)

// GET /api/departments
func (h *Handler) ListDepartments(c *gin.Context) {
	out, err := h.Departments.List(c.Request.Context())
	if err != nil {
		writeError(c, err)
		return
	}
	ok(c, out)
}

// GET /api/departments/:id
func (h *Handler) GetDepartment(c *gin.Context) {
	out, err := h.Departments.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		writeError(c, err)
		return
	}
	ok(c, out)
}

// POST /api/departments
func (h *Handler) CreateDepartment(c *gin.Context) {
	var req department.CreateInput
	if err := c.ShouldBindJSON(&req); err != nil {
		bindError(c, err)
		return
	}
	out, err := h.Departments.Create(c.Request.Context(), req)
	if err != nil {
		writeError(c, err)
		return
	}
	created(c, out)
}
