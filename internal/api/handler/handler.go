// Package handler exposes the grievance services over HTTP.
package handler

import (
	"context"

	"grievance/backend/internal/auth"
	"grievance/backend/internal/complaint"
	"grievance/backend/internal/department"
	"grievance/backend/internal/feedback"
	"grievance/backend/internal/hub"
	"grievance/backend/internal/models"
	"grievance/backend/internal/stats"

	"github.com/gin-gonic/gin"
)

type AuthService interface {
	Register(ctx context.Context, in auth.RegisterInput) (*models.User, string, error)
	Login(ctx context.Context, email, password string) (*models.User, string, error)
	Me(ctx context.Context, userID string) (*models.User, error)
	LinkToken(userID string) (string, error)
}

type ComplaintService interface {
	Submit(ctx context.Context, actor models.Actor, in complaint.SubmitInput) (*models.Complaint, error)
	List(ctx context.Context, actor models.Actor, opts complaint.ListOptions) (*complaint.Page, error)
	Get(ctx context.Context, actor models.Actor, id string) (*models.Complaint, error)
	Assign(ctx context.Context, id string, actor models.Actor, targetOfficerID string) (*models.Complaint, error)
	UpdateStatus(ctx context.Context, id string, actor models.Actor, status models.Status, resolution *string) (*models.Complaint, error)
}

type DepartmentService interface {
	List(ctx context.Context) ([]models.Department, error)
	Get(ctx context.Context, id string) (*models.Department, error)
	Create(ctx context.Context, in department.CreateInput) (*models.Department, error)
}

type FeedbackService interface {
	Submit(ctx context.Context, complaintID string, actor models.Actor, in feedback.Input) (*models.Feedback, error)
	ForComplaint(ctx context.Context, complaintID string, actor models.Actor) (*models.Feedback, error)
	List(ctx context.Context, actor models.Actor) ([]models.Feedback, error)
}

type StatsService interface {
	Compute(ctx context.Context) (*stats.Stats, error)
}

type UserLister interface {
	ListUsers(ctx context.Context, role *models.Role) ([]models.User, error)
}

// Handler holds the services behind the HTTP routes.
type Handler struct {
	Auth        AuthService
	Complaints  ComplaintService
	Departments DepartmentService
	Feedback    FeedbackService
	Stats       StatsService
	Users       UserLister
	Hub         *hub.ManagerService
}

func (h *Handler) Health(c *gin.Context) {
	ok(c, gin.H{"status": "ok", "realtime": h.Hub != nil && h.Hub.Ready()})
}
