package handler

import (
	"grievance/backend/internal/api/middleware"
	"grievance/backend/internal/auth"

	"github.com/gin-gonic/gin"
)

type loginRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

// POST /api/auth/register
func (h *Handler) Register(c *gin.Context) {
	var req auth.RegisterInput
	if err := c.ShouldBindJSON(&req); err != nil {
		bindError(c, err)
		return
	}
	user, token, err := h.Auth.Register(c.Request.Context(), req)
	if err != nil {
		writeError(c, err)
		return
	}
	created(c, gin.H{"token": token, "user": user})
}

// POST /api/auth/login
func (h *Handler) Login(c *gin.Context) {
	var req loginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		bindError(c, err)
		return
	}
	user, token, err := h.Auth.Login(c.Request.Context(), req.Email, req.Password)
	if err != nil {
		writeError(c, err)
		return
	}
	ok(c, gin.H{"token": token, "user": user})
}

// GET /api/auth/me
func (h *Handler) Me(c *gin.Context) {
	user, err := h.Auth.Me(c.Request.Context(), middleware.ActorFrom(c).ID)
	if err != nil {
		writeError(c, err)
		return
	}
	ok(c, user)
}

// GET /api/auth/telegram-link
func (h *Handler) TelegramLink(c *gin.Context) {
	token, err := h.Auth.LinkToken(middleware.ActorFrom(c).ID)
	if err != nil {
		writeError(c, err)
		return
	}
	ok(c, gin.H{"token": token, "command": "/link " + token})
}
