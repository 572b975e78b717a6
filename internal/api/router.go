// Package api assembles the HTTP routes of the grievance service.
package api

import (
	"grievance/backend/internal/api/handler"
	"grievance/backend/internal/api/middleware"
	"grievance/backend/internal/models"

	"github.com/gin-gonic/gin"
)

// NewRouter registers every route on a fresh gin engine.
func NewRouter(h *handler.Handler, tokens middleware.TokenParser, origins []string) *gin.Engine {
	r := gin.Default()
	r.Use(middleware.CORS(origins))

	r.GET("/health", h.Health)
	r.GET("/ws", middleware.WSAuth(tokens), h.ServeWebSocket)

	api := r.Group("/api")

	authGroup := api.Group("/auth")
	authGroup.POST("/register", h.Register)
	authGroup.POST("/login", h.Login)
	authGroup.GET("/me", middleware.Auth(tokens), h.Me)
	authGroup.GET("/telegram-link", middleware.Auth(tokens), h.TelegramLink)

	staff := middleware.Roles(models.RoleOfficer, models.RoleAdmin)

	complaints := api.Group("/complaints", middleware.Auth(tokens))
	complaints.POST("", middleware.Roles(models.RoleCitizen), h.CreateComplaint)
	complaints.GET("", h.ListComplaints)
	complaints.GET("/:id", h.GetComplaint)
	complaints.PATCH("/:id/assign", staff, h.AssignComplaint)
	complaints.PATCH("/:id/status", staff, h.UpdateComplaintStatus)
	complaints.POST("/:id/feedback", middleware.Roles(models.RoleCitizen), h.SubmitFeedback)
	complaints.GET("/:id/feedback", h.GetFeedback)

	departments := api.Group("/departments", middleware.Auth(tokens))
	departments.GET("", h.ListDepartments)
	departments.GET("/:id", h.GetDepartment)
	departments.POST("", middleware.Roles(models.RoleAdmin), h.CreateDepartment)

	api.GET("/feedback", middleware.Auth(tokens, models.RoleAdmin, models.RoleCitizen), h.ListFeedback)

	admin := api.Group("/admin", middleware.Auth(tokens, models.RoleAdmin))
	admin.GET("/stats", h.GetStats)
	admin.GET("/users", h.ListUsers)

	return r
}
