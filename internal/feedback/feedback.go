// Package feedback stores the single rating a citizen leaves on a complaint.
package feedback

import (
	"context"
	"errors"
	"log"

	"grievance/backend/internal/apperr"
	"grievance/backend/internal/models"
	"grievance/backend/internal/storage"
	"grievance/backend/internal/visibility"
)

type Store interface {
	GetComplaint(ctx context.Context, id string) (*models.Complaint, error)
	GetFeedbackByComplaint(ctx context.Context, complaintID string) (*models.Feedback, error)
	CreateFeedback(ctx context.Context, f *models.Feedback) error
	UpdateFeedback(ctx context.Context, f *models.Feedback) error
	LinkFeedback(ctx context.Context, complaintID, feedbackID string) error
	ListFeedback(ctx context.Context, citizenID *string) ([]models.Feedback, error)
}

type Service struct {
	Store Store
}

func NewService(s Store) *Service {
	return &Service{Store: s}
}

// Input is the body of a feedback submission.
type Input struct {
	Rating  int    `json:"rating" binding:"required"`
	Comment string `json:"comment"`
}

// Submit records the citizen's rating of a complaint. Repeated calls update
// the same record, so a complaint never has more than one feedback.
func (s *Service) Submit(ctx context.Context, complaintID string, actor models.Actor, in Input) (*models.Feedback, error) {
	c, err := s.complaint(ctx, complaintID)
	if err != nil {
		return nil, err
	}
	if actor.Role != models.RoleCitizen || c.CitizenID != actor.ID {
		return nil, apperr.Forbidden("only the complaint's citizen can leave feedback")
	}
	if !models.ValidRating(in.Rating) {
		return nil, apperr.Validation("rating must be between %d and %d", models.MinRating, models.MaxRating)
	}

	existing, err := s.Store.GetFeedbackByComplaint(ctx, complaintID)
	switch {
	case err == nil:
		return s.update(ctx, c, existing, in)
	case !errors.Is(err, storage.ErrNotFound):
		return nil, err
	}

	f := &models.Feedback{
		Rating:      in.Rating,
		Comment:     in.Comment,
		CitizenID:   actor.ID,
		ComplaintID: complaintID,
	}
	if err := s.Store.CreateFeedback(ctx, f); err != nil {
		if !errors.Is(err, storage.ErrDuplicate) {
			return nil, err
		}
		// Lost a race with a concurrent submission; update the winner.
		existing, err := s.Store.GetFeedbackByComplaint(ctx, complaintID)
		if err != nil {
			return nil, err
		}
		return s.update(ctx, c, existing, in)
	}
	if err := s.link(ctx, c, f); err != nil {
		return nil, err
	}
	log.Printf("INFO: Feedback %s (%d/5) left on complaint %s", f.ID, f.Rating, complaintID)
	return f, nil
}

func (s *Service) update(ctx context.Context, c *models.Complaint, f *models.Feedback, in Input) (*models.Feedback, error) {
	f.Rating = in.Rating
	f.Comment = in.Comment
	if err := s.Store.UpdateFeedback(ctx, f); err != nil {
		return nil, err
	}
	if err := s.link(ctx, c, f); err != nil {
		return nil, err
	}
	return f, nil
}

// link points c at f unless it already does.
func (s *Service) link(ctx context.Context, c *models.Complaint, f *models.Feedback) error {
	if c.FeedbackID != nil && *c.FeedbackID == f.ID {
		return nil
	}
	if err := s.Store.LinkFeedback(ctx, c.ID, f.ID); err != nil {
		log.Printf("ERROR: Failed to link feedback %s to complaint %s: %v", f.ID, c.ID, err)
		return err
	}
	c.FeedbackID = &f.ID
	return nil
}

// ForComplaint returns the feedback of a complaint the actor can see.
func (s *Service) ForComplaint(ctx context.Context, complaintID string, actor models.Actor) (*models.Feedback, error) {
	c, err := s.complaint(ctx, complaintID)
	if err != nil {
		return nil, err
	}
	if !visibility.CanSee(actor, c) {
		return nil, apperr.Forbidden("not allowed to view complaint %s", complaintID)
	}
	f, err := s.Store.GetFeedbackByComplaint(ctx, complaintID)
	if errors.Is(err, storage.ErrNotFound) {
		return nil, apperr.NotFound("complaint %s has no feedback", complaintID)
	}
	return f, err
}

// List returns every feedback for admins and the actor's own for citizens.
func (s *Service) List(ctx context.Context, actor models.Actor) ([]models.Feedback, error) {
	var citizenID *string
	switch actor.Role {
	case models.RoleAdmin:
	case models.RoleCitizen:
		citizenID = &actor.ID
	default:
		return nil, apperr.Forbidden("officers cannot list feedback")
	}
	out, err := s.Store.ListFeedback(ctx, citizenID)
	if err != nil {
		return nil, err
	}
	if out == nil {
		out = []models.Feedback{}
	}
	return out, nil
}

func (s *Service) complaint(ctx context.Context, id string) (*models.Complaint, error) {
	c, err := s.Store.GetComplaint(ctx, id)
	if errors.Is(err, storage.ErrNotFound) {
		return nil, apperr.NotFound("complaint %s not found", id)
	}
	return c, err
}
