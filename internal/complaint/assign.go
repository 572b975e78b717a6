package complaint

import (
	"context"
	"errors"
	"log"
	"strings"

	"grievance/backend/internal/apperr"
	"grievance/backend/internal/models"
	"grievance/backend/internal/storage"
)

// Assign hands a complaint to an officer. Officers can only take complaints
// of their own department for themselves; admins pick any officer.
func (s *Service) Assign(ctx context.Context, id string, actor models.Actor, targetOfficerID string) (*models.Complaint, error) {
	c, err := s.load(ctx, id)
	if err != nil {
		return nil, err
	}

	var officerID string
	switch actor.Role {
	case models.RoleOfficer:
		if !actor.HasDepartment() {
			return nil, apperr.Forbidden("officer has no department")
		}
		if *actor.DepartmentID != c.DepartmentID {
			return nil, apperr.Forbidden("complaint %s belongs to another department", id)
		}
		officerID = actor.ID
	case models.RoleAdmin:
		officerID = strings.TrimSpace(targetOfficerID)
		if officerID == "" {
			return nil, apperr.BadRequest("officerId is required")
		}
		if err := s.requireOfficer(ctx, officerID); err != nil {
			return nil, err
		}
	case models.RoleCitizen:
		return nil, apperr.Forbidden("citizens cannot assign complaints")
	default:
		return nil, apperr.Forbidden("unknown role %q", actor.Role)
	}

	detach(c)
	c.AssignedOfficerID = &officerID
	c.Status = models.StatusAssigned
	if err := s.Store.UpdateComplaint(ctx, c, "assigned_officer_id", "status"); err != nil {
		log.Printf("ERROR: Failed to assign complaint %s to %s: %v", id, officerID, err)
		return nil, err
	}
	log.Printf("INFO: Complaint %s assigned to officer %s", id, officerID)

	s.Notifier.ToUser(officerID, models.EventNewAssignment, models.NewComplaintEvent(c))
	return s.reload(ctx, c), nil
}

func (s *Service) requireOfficer(ctx context.Context, id string) error {
	u, err := s.Store.GetUserByID(ctx, id)
	if errors.Is(err, storage.ErrNotFound) || (err == nil && u.Role != models.RoleOfficer) {
		return apperr.NotFound("officer %s not found", id)
	}
	return err
}
