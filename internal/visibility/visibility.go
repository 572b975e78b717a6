// Package visibility decides which complaints an actor may see. The same
// Query drives list queries in storage and single-record access checks.
package visibility

import "grievance/backend/internal/models"

// Query is the role-scoped complaint filter.
//
//	All                      -> every complaint
//	CitizenID                -> citizen == CitizenID
//	OfficerID                -> assignedOfficer == OfficerID
//	OfficerID + DepartmentID -> assignedOfficer == OfficerID OR (unassigned AND department == DepartmentID)
//	zero value               -> nothing
type Query struct {
	All          bool
	CitizenID    string
	OfficerID    string
	DepartmentID string
}

// None reports whether the query can match no complaint at all.
func (q Query) None() bool {
	return !q.All && q.CitizenID == "" && q.OfficerID == ""
}

// Build returns the complaint filter for actor.
func Build(actor models.Actor) Query {
	switch actor.Role {
	case models.RoleCitizen:
		return Query{CitizenID: actor.ID}
	case models.RoleOfficer:
		q := Query{OfficerID: actor.ID}
		if actor.HasDepartment() {
			q.DepartmentID = *actor.DepartmentID
		}
		return q
	case models.RoleAdmin:
		return Query{All: true}
	default:
		return Query{}
	}
}

// Matches evaluates the query against a fetched complaint.
func (q Query) Matches(c *models.Complaint) bool {
	switch {
	case c == nil:
		return false
	case q.All:
		return true
	case q.CitizenID != "":
		return c.CitizenID == q.CitizenID
	case q.OfficerID != "":
		if c.AssignedTo(q.OfficerID) {
			return true
		}
		return q.DepartmentID != "" && !c.IsAssigned() && c.DepartmentID == q.DepartmentID
	default:
		return false
	}
}

// CanSee is Build(actor).Matches(c).
func CanSee(actor models.Actor, c *models.Complaint) bool {
	return Build(actor).Matches(c)
}
