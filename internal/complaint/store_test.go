package complaint_test

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"sync"
	"time"

	"grievance/backend/internal/models"
	"grievance/backend/internal/storage"
	"grievance/backend/internal/visibility"

	"github.com/stretchr/testify/mock"
)

// memStore keeps complaints, users and departments in maps. It satisfies
// both complaint.Store and department.Store.
type memStore struct {
	mu          sync.Mutex
	seq         int
	complaints  map[string]models.Complaint
	users       map[string]models.User
	departments map[string]models.Department
	failUpdate  error

	// beforeUpdate runs inside UpdateComplaint, as a concurrent writer would.
	beforeUpdate func(rows map[string]models.Complaint)
}

func newMemStore() *memStore {
	return &memStore{
		complaints:  make(map[string]models.Complaint),
		users:       make(map[string]models.User),
		departments: make(map[string]models.Department),
	}
}

func (s *memStore) nextID(prefix string) string {
	s.seq++
	return fmt.Sprintf("%s-%d", prefix, s.seq)
}

func (s *memStore) addUser(u models.User) models.Actor {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.users[u.ID] = u
	return models.ActorFor(&u)
}

func (s *memStore) addComplaint(c models.Complaint) *models.Complaint {
	s.mu.Lock()
	defer s.mu.Unlock()
	if c.CreatedAt.IsZero() {
		c.CreatedAt = time.Now()
	}
	s.complaints[c.ID] = c
	return &c
}

func (s *memStore) CreateComplaint(ctx context.Context, c *models.Complaint) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	c.ID = s.nextID("complaint")
	c.CreatedAt = time.Now()
	c.UpdatedAt = c.CreatedAt
	s.complaints[c.ID] = *c
	return nil
}

func (s *memStore) GetComplaint(ctx context.Context, id string) (*models.Complaint, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	c, ok := s.complaints[id]
	if !ok {
		return nil, storage.ErrNotFound
	}
	if d, ok := s.departments[c.DepartmentID]; ok {
		c.Department = &d
	}
	if c.AssignedOfficerID != nil {
		if u, ok := s.users[*c.AssignedOfficerID]; ok {
			c.AssignedOfficer = &u
		}
	}
	return &c, nil
}

// UpdateComplaint copies only the named columns onto the stored row.
func (s *memStore) UpdateComplaint(ctx context.Context, c *models.Complaint, columns ...string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.failUpdate != nil {
		return s.failUpdate
	}
	if s.beforeUpdate != nil {
		s.beforeUpdate(s.complaints)
	}
	row, ok := s.complaints[c.ID]
	if !ok {
		return storage.ErrNotFound
	}
	for _, col := range columns {
		switch col {
		case "status":
			row.Status = c.Status
		case "resolution":
			row.Resolution = c.Resolution
		case "resolved_at":
			row.ResolvedAt = c.ResolvedAt
		case "assigned_officer_id":
			row.AssignedOfficerID = c.AssignedOfficerID
		default:
			return fmt.Errorf("unexpected column %q", col)
		}
	}
	row.UpdatedAt = time.Now()
	c.UpdatedAt = row.UpdatedAt
	s.complaints[c.ID] = row
	return nil
}

func (s *memStore) ListComplaints(ctx context.Context, q visibility.Query, f storage.ComplaintFilter) ([]models.Complaint, int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []models.Complaint
	for _, c := range s.complaints {
		c := c
		if !q.Matches(&c) {
			continue
		}
		if f.Status != "" && c.Status != f.Status {
			continue
		}
		out = append(out, c)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	total := int64(len(out))
	if f.Offset >= len(out) {
		return nil, total, nil
	}
	out = out[f.Offset:]
	if len(out) > f.Limit {
		out = out[:f.Limit]
	}
	return out, total, nil
}

func (s *memStore) GetUserByID(ctx context.Context, id string) (*models.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	u, ok := s.users[id]
	if !ok {
		return nil, storage.ErrNotFound
	}
	return &u, nil
}

func (s *memStore) CreateDepartment(ctx context.Context, d *models.Department) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, existing := range s.departments {
		if existing.Category == d.Category {
			return storage.ErrDuplicate
		}
	}
	d.ID = s.nextID("dept")
	s.departments[d.ID] = *d
	return nil
}

func (s *memStore) GetDepartmentByID(ctx context.Context, id string) (*models.Department, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if d, ok := s.departments[id]; ok {
		return &d, nil
	}
	return nil, storage.ErrNotFound
}

func (s *memStore) GetDepartmentByCategory(ctx context.Context, category models.Category) (*models.Department, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, d := range s.departments {
		if d.Category == category {
			return &d, nil
		}
	}
	return nil, storage.ErrNotFound
}

func (s *memStore) ListDepartments(ctx context.Context) ([]models.Department, error) {
	return nil, errors.New("not used")
}

func (s *memStore) AddDepartmentOfficer(ctx context.Context, departmentID, officerID string) error {
	return errors.New("not used")
}

// MockDispatcher records notifications.
type MockDispatcher struct {
	mock.Mock
}

func (m *MockDispatcher) ToUser(userID string, event models.EventName, payload any) {
	m.Called(userID, event, payload)
}

func (m *MockDispatcher) ToRole(role models.Role, event models.EventName, payload any) {
	m.Called(role, event, payload)
}

func (m *MockDispatcher) ToDepartment(departmentID string, event models.EventName, payload any) {
	m.Called(departmentID, event, payload)
}

// fixedClassifier returns the same analysis for every complaint.
type fixedClassifier struct {
	result models.Analysis
	calls  int
}

func (f *fixedClassifier) Classify(ctx context.Context, title, description string) models.Analysis {
	f.calls++
	return f.result
}
