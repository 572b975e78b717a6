package visibility_test

import (
	"testing"

	"grievance/backend/internal/models"
	"grievance/backend/internal/visibility"

	"github.com/stretchr/testify/assert"
)

func strPtr(s string) *string { return &s }

func TestBuild(t *testing.T) {
	dept := strPtr("dept-1")

	tests := []struct {
		name  string
		actor models.Actor
		want  visibility.Query
	}{
		{"citizen", models.Actor{ID: "c1", Role: models.RoleCitizen}, visibility.Query{CitizenID: "c1"}},
		{"officer with department", models.Actor{ID: "o1", Role: models.RoleOfficer, DepartmentID: dept},
			visibility.Query{OfficerID: "o1", DepartmentID: "dept-1"}},
		{"officer without department", models.Actor{ID: "o2", Role: models.RoleOfficer}, visibility.Query{OfficerID: "o2"}},
		{"officer with empty department", models.Actor{ID: "o3", Role: models.RoleOfficer, DepartmentID: strPtr("")},
			visibility.Query{OfficerID: "o3"}},
		{"admin", models.Actor{ID: "a1", Role: models.RoleAdmin}, visibility.Query{All: true}},
		{"unknown role", models.Actor{ID: "x", Role: models.Role("Guest")}, visibility.Query{}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, visibility.Build(tt.actor))
		})
	}
	assert.True(t, visibility.Build(models.Actor{Role: "Guest"}).None())
}

// complaints used by the officer scenarios:
// mine-in-D, mine-elsewhere, unassigned-in-D, other-officer-in-D, unassigned-elsewhere.
func fixture() []*models.Complaint {
	return []*models.Complaint{
		{ID: "mine-in-D", DepartmentID: "D", AssignedOfficerID: strPtr("o1"), CitizenID: "c1"},
		{ID: "mine-elsewhere", DepartmentID: "E", AssignedOfficerID: strPtr("o1"), CitizenID: "c2"},
		{ID: "unassigned-in-D", DepartmentID: "D", CitizenID: "c1"},
		{ID: "other-officer-in-D", DepartmentID: "D", AssignedOfficerID: strPtr("o2"), CitizenID: "c2"},
		{ID: "unassigned-elsewhere", DepartmentID: "E", CitizenID: "c2"},
	}
}

func visibleIDs(actor models.Actor) []string {
	var ids []string
	for _, c := range fixture() {
		if visibility.CanSee(actor, c) {
			ids = append(ids, c.ID)
		}
	}
	return ids
}

func TestMatches_OfficerWithDepartment(t *testing.T) {
	actor := models.Actor{ID: "o1", Role: models.RoleOfficer, DepartmentID: strPtr("D")}
	assert.ElementsMatch(t, []string{"mine-in-D", "mine-elsewhere", "unassigned-in-D"}, visibleIDs(actor))
}

func TestMatches_OfficerWithoutDepartment(t *testing.T) {
	actor := models.Actor{ID: "o1", Role: models.RoleOfficer}
	assert.ElementsMatch(t, []string{"mine-in-D", "mine-elsewhere"}, visibleIDs(actor))
}

func TestMatches_Citizen(t *testing.T) {
	actor := models.Actor{ID: "c1", Role: models.RoleCitizen}
	assert.ElementsMatch(t, []string{"mine-in-D", "unassigned-in-D"}, visibleIDs(actor))
}

func TestMatches_Admin(t *testing.T) {
	actor := models.Actor{ID: "a1", Role: models.RoleAdmin}
	assert.Len(t, visibleIDs(actor), len(fixture()))
}

func TestMatches_NilComplaint(t *testing.T) {
	assert.False(t, visibility.Query{All: true}.Matches(nil))
}

func TestMatches_EmptyAssignedOfficerCountsAsUnassigned(t *testing.T) {
	actor := models.Actor{ID: "o1", Role: models.RoleOfficer, DepartmentID: strPtr("D")}
	c := &models.Complaint{DepartmentID: "D", AssignedOfficerID: strPtr("")}
	assert.True(t, visibility.CanSee(actor, c))
}
