// Package complaint implements complaint intake, role-scoped reads,
// assignment and status transitions.
package complaint

import (
	"context"
	"errors"
	"log"
	"strings"
	"time"

	"grievance/backend/internal/analysis"
	"grievance/backend/internal/apperr"
	"grievance/backend/internal/config"
	"grievance/backend/internal/hub"
	"grievance/backend/internal/models"
	"grievance/backend/internal/storage"
	"grievance/backend/internal/visibility"
)

// Store is the persistence the complaint service needs.
type Store interface {
	CreateComplaint(ctx context.Context, c *models.Complaint) error
	GetComplaint(ctx context.Context, id string) (*models.Complaint, error)
	UpdateComplaint(ctx context.Context, c *models.Complaint, columns ...string) error
	ListComplaints(ctx context.Context, q visibility.Query, f storage.ComplaintFilter) ([]models.Complaint, int64, error)
	GetUserByID(ctx context.Context, id string) (*models.User, error)
}

// DepartmentResolver finds or creates the department for a category.
type DepartmentResolver interface {
	Resolve(ctx context.Context, category models.Category) (*models.Department, error)
}

// Service handles the business logic for complaints.
type Service struct {
	Store       Store
	Classifier  analysis.Classifier
	Departments DepartmentResolver
	Notifier    hub.Dispatcher

	// Now is the clock used for resolvedAt; time.Now when nil.
	Now func() time.Time
}

// NewService creates a new complaint service.
func NewService(s Store, c analysis.Classifier, d DepartmentResolver, n hub.Dispatcher) *Service {
	return &Service{Store: s, Classifier: c, Departments: d, Notifier: n}
}

func (s *Service) now() time.Time {
	if s.Now != nil {
		return s.Now()
	}
	return time.Now()
}

// SubmitInput is the body of a new complaint.
type SubmitInput struct {
	Title       string `json:"title" binding:"required,max=200"`
	Description string `json:"description" binding:"required"`
}

// Submit classifies a citizen's complaint, routes it to the department for
// its category and stores it as Submitted.
func (s *Service) Submit(ctx context.Context, actor models.Actor, in SubmitInput) (*models.Complaint, error) {
	if actor.Role != models.RoleCitizen {
		return nil, apperr.Forbidden("only citizens can submit complaints")
	}
	title := strings.TrimSpace(in.Title)
	description := strings.TrimSpace(in.Description)
	if title == "" || description == "" {
		return nil, apperr.Validation("title and description are required")
	}

	result := s.Classifier.Classify(ctx, title, description)

	dept, err := s.Departments.Resolve(ctx, result.Category)
	if err != nil {
		return nil, err
	}

	c := &models.Complaint{
		Title:        title,
		Description:  description,
		Category:     result.Category,
		Status:       models.StatusSubmitted,
		Priority:     result.Priority,
		Sentiment:    result.Sentiment,
		CitizenID:    actor.ID,
		DepartmentID: dept.ID,
		Analysis:     result,
	}
	if err := s.Store.CreateComplaint(ctx, c); err != nil {
		return nil, err
	}
	log.Printf("INFO: Complaint %s filed under %s (%s, %s)", c.ID, dept.Name, c.Priority, c.Sentiment)

	s.Notifier.ToDepartment(dept.ID, models.EventNewComplaint, models.NewComplaintEvent(c))
	return s.reload(ctx, c), nil
}

// ListOptions filters and paginates a listing. Page is 1-based.
type ListOptions struct {
	Status   models.Status   `form:"status"`
	Category models.Category `form:"category"`
	Priority models.Priority `form:"priority"`
	Page     int             `form:"page"`
	Limit    int             `form:"limit"`
}

// Page is one page of a listing.
type Page struct {
	Items []models.Complaint `json:"items"`
	Total int64              `json:"total"`
	Page  int                `json:"page"`
	Limit int                `json:"limit"`
}

// List returns the complaints visible to actor, newest first.
func (s *Service) List(ctx context.Context, actor models.Actor, opts ListOptions) (*Page, error) {
	if opts.Status != "" && !opts.Status.Valid() {
		return nil, apperr.Validation("unknown status %q", opts.Status)
	}
	if opts.Priority != "" && !opts.Priority.Valid() {
		return nil, apperr.Validation("unknown priority %q", opts.Priority)
	}

	page, limit := opts.Page, opts.Limit
	if page < 1 {
		page = 1
	}
	if limit < 1 {
		limit = config.DefaultPageSize
	}
	if limit > config.MaxPageSize {
		limit = config.MaxPageSize
	}
	out := &Page{Items: []models.Complaint{}, Page: page, Limit: limit}

	q := visibility.Build(actor)
	if q.None() {
		return out, nil
	}

	items, total, err := s.Store.ListComplaints(ctx, q, storage.ComplaintFilter{
		Status:   opts.Status,
		Category: opts.Category,
		Priority: opts.Priority,
		Offset:   (page - 1) * limit,
		Limit:    limit,
	})
	if err != nil {
		return nil, err
	}
	if items != nil {
		out.Items = items
	}
	out.Total = total
	return out, nil
}

// Get returns one complaint if actor may see it. The check is the same one
// used to scope listings.
func (s *Service) Get(ctx context.Context, actor models.Actor, id string) (*models.Complaint, error) {
	c, err := s.load(ctx, id)
	if err != nil {
		return nil, err
	}
	if !visibility.CanSee(actor, c) {
		return nil, apperr.Forbidden("not allowed to view complaint %s", id)
	}
	return c, nil
}

func (s *Service) load(ctx context.Context, id string) (*models.Complaint, error) {
	c, err := s.Store.GetComplaint(ctx, id)
	if errors.Is(err, storage.ErrNotFound) {
		return nil, apperr.NotFound("complaint %s not found", id)
	}
	return c, err
}

// reload fetches c again so the associations are populated. The write has
// already succeeded, so a failed read returns c as it stands.
func (s *Service) reload(ctx context.Context, c *models.Complaint) *models.Complaint {
	fresh, err := s.Store.GetComplaint(ctx, c.ID)
	if err != nil {
		log.Printf("WARN: Failed to reload complaint %s: %v", c.ID, err)
		return c
	}
	return fresh
}

// detach clears loaded associations so a save only writes the complaint's own columns.
func detach(c *models.Complaint) {
	c.Citizen = nil
	c.AssignedOfficer = nil
	c.Department = nil
	c.Feedback = nil
}
