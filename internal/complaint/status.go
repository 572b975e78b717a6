package complaint

import (
	"context"
	"log"

	"grievance/backend/internal/apperr"
	"grievance/backend/internal/models"
	"grievance/backend/internal/visibility"
)

// StatusInput is the body of a status change.
type StatusInput struct {
	Status     models.Status `json:"status" binding:"required"`
	Resolution *string       `json:"resolution"`
}

// UpdateStatus moves a complaint to status. Any of the five statuses may be
// set in any order; only authorization is checked. A resolution text is
// stored whatever the status.
func (s *Service) UpdateStatus(ctx context.Context, id string, actor models.Actor, status models.Status, resolution *string) (*models.Complaint, error) {
	if !status.Valid() {
		return nil, apperr.Validation("unknown status %q", status)
	}

	c, err := s.load(ctx, id)
	if err != nil {
		return nil, err
	}

	switch actor.Role {
	case models.RoleAdmin:
	case models.RoleOfficer:
		// Assigned to them, or unassigned in their department.
		if !visibility.CanSee(actor, c) {
			return nil, apperr.Forbidden("not allowed to update complaint %s", id)
		}
	default:
		return nil, apperr.Forbidden("only officers and admins can update status")
	}

	detach(c)
	columns := []string{"status"}
	if resolution != nil {
		c.Resolution = *resolution
		columns = append(columns, "resolution")
	}
	c.Status = status
	if status == models.StatusResolved {
		at := s.now()
		if at.Before(c.CreatedAt) {
			at = c.CreatedAt
		}
		c.ResolvedAt = &at
		columns = append(columns, "resolved_at")
	}

	if err := s.Store.UpdateComplaint(ctx, c, columns...); err != nil {
		log.Printf("ERROR: Failed to update status of complaint %s: %v", id, err)
		return nil, err
	}
	log.Printf("INFO: Complaint %s is now %s", id, status)

	event := models.NewComplaintEvent(c)
	s.Notifier.ToUser(c.CitizenID, models.EventStatusChanged, event)
	if status == models.StatusResolved {
		s.Notifier.ToUser(c.CitizenID, models.EventResolved, event)
	}
	// Escalation follows the stored priority, the new status does not change it.
	if c.Priority.Escalates() {
		s.Notifier.ToRole(models.RoleAdmin, models.EventPriorityEscalation, event)
	}
	return s.reload(ctx, c), nil
}
