package api_test

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"grievance/backend/internal/api"
	"grievance/backend/internal/api/handler"
	"grievance/backend/internal/apperr"
	"grievance/backend/internal/auth"
	"grievance/backend/internal/complaint"
	"grievance/backend/internal/models"
	"grievance/backend/internal/stats"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func init() {
	gin.SetMode(gin.TestMode)
}

type MockComplaints struct {
	mock.Mock
}

func (m *MockComplaints) Submit(ctx context.Context, actor models.Actor, in complaint.SubmitInput) (*models.Complaint, error) {
	return m.result(m.Called(actor, in))
}

func (m *MockComplaints) List(ctx context.Context, actor models.Actor, opts complaint.ListOptions) (*complaint.Page, error) {
	args := m.Called(actor, opts)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*complaint.Page), args.Error(1)
}

func (m *MockComplaints) Get(ctx context.Context, actor models.Actor, id string) (*models.Complaint, error) {
	return m.result(m.Called(actor, id))
}

func (m *MockComplaints) Assign(ctx context.Context, id string, actor models.Actor, target string) (*models.Complaint, error) {
	return m.result(m.Called(id, actor, target))
}

func (m *MockComplaints) UpdateStatus(ctx context.Context, id string, actor models.Actor, status models.Status, resolution *string) (*models.Complaint, error) {
	return m.result(m.Called(id, actor, status, resolution))
}

func (m *MockComplaints) result(args mock.Arguments) (*models.Complaint, error) {
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Complaint), args.Error(1)
}

type MockStats struct {
	mock.Mock
}

func (m *MockStats) Compute(ctx context.Context) (*stats.Stats, error) {
	args := m.Called()
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*stats.Stats), args.Error(1)
}

type envelope struct {
	OK    bool            `json:"ok"`
	Data  json.RawMessage `json:"data"`
	Error string          `json:"error"`
}

type testServer struct {
	router     *gin.Engine
	tokens     *auth.Tokens
	complaints *MockComplaints
	stats      *MockStats
}

func newServer(t *testing.T) *testServer {
	t.Helper()
	tokens := auth.NewTokens("secret", time.Hour)
	srv := &testServer{tokens: tokens, complaints: new(MockComplaints), stats: new(MockStats)}
	h := &handler.Handler{
		Auth:       auth.NewService(nil, nil, tokens),
		Complaints: srv.complaints,
		Stats:      srv.stats,
	}
	srv.router = api.NewRouter(h, tokens, []string{"*"})
	return srv
}

func (s *testServer) token(t *testing.T, id string, role models.Role, dept string) string {
	t.Helper()
	u := &models.User{ID: id, Role: role}
	if dept != "" {
		u.DepartmentID = &dept
	}
	token, err := s.tokens.Issue(u)
	require.NoError(t, err)
	return token
}

func (s *testServer) do(t *testing.T, method, path, token, body string) (int, envelope) {
	t.Helper()
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	w := httptest.NewRecorder()
	s.router.ServeHTTP(w, req)

	var env envelope
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &env), w.Body.String())
	return w.Code, env
}

func TestHealth(t *testing.T) {
	srv := newServer(t)
	code, env := srv.do(t, http.MethodGet, "/health", "", "")
	assert.Equal(t, http.StatusOK, code)
	assert.True(t, env.OK)
}

func TestCreateComplaint(t *testing.T) {
	srv := newServer(t)
	citizen := models.Actor{ID: "c1", Role: models.RoleCitizen}
	in := complaint.SubmitInput{Title: "Pothole on Main St", Description: "urgent, emergency repair needed"}
	srv.complaints.On("Submit", citizen, in).Return(&models.Complaint{ID: "x1", Category: models.CategoryOther}, nil)

	code, env := srv.do(t, http.MethodPost, "/api/complaints", srv.token(t, "c1", models.RoleCitizen, ""),
		`{"title":"Pothole on Main St","description":"urgent, emergency repair needed"}`)
	require.Equal(t, http.StatusCreated, code)
	assert.True(t, env.OK)

	var c models.Complaint
	require.NoError(t, json.Unmarshal(env.Data, &c))
	assert.Equal(t, "x1", c.ID)
	srv.complaints.AssertExpectations(t)
}

func TestCreateComplaint_RoleAndBodyChecks(t *testing.T) {
	srv := newServer(t)

	code, env := srv.do(t, http.MethodPost, "/api/complaints", "", `{}`)
	assert.Equal(t, http.StatusUnauthorized, code)
	assert.False(t, env.OK)

	code, _ = srv.do(t, http.MethodPost, "/api/complaints", srv.token(t, "o1", models.RoleOfficer, "d1"),
		`{"title":"a","description":"b"}`)
	assert.Equal(t, http.StatusForbidden, code)

	code, env = srv.do(t, http.MethodPost, "/api/complaints", srv.token(t, "c1", models.RoleCitizen, ""), `{"title":"a"}`)
	assert.Equal(t, http.StatusBadRequest, code)
	assert.Contains(t, env.Error, "description is required")

	srv.complaints.AssertNotCalled(t, "Submit", mock.Anything, mock.Anything)
}

func TestServiceErrorsMapToStatus(t *testing.T) {
	srv := newServer(t)
	admin := srv.token(t, "a1", models.RoleAdmin, "")

	tests := []struct {
		id   string
		err  error
		code int
	}{
		{"forbidden", apperr.Forbidden("not allowed"), http.StatusForbidden},
		{"missing", apperr.NotFound("complaint missing not found"), http.StatusNotFound},
		{"broken", errors.New("pq: connection reset"), http.StatusInternalServerError},
	}
	for _, tt := range tests {
		t.Run(tt.id, func(t *testing.T) {
			srv.complaints.On("Get", mock.Anything, tt.id).Return(nil, tt.err).Once()
			code, env := srv.do(t, http.MethodGet, "/api/complaints/"+tt.id, admin, "")
			assert.Equal(t, tt.code, code)
			assert.False(t, env.OK)
			assert.NotContains(t, env.Error, "pq:")
		})
	}
}

func TestAssign_OfficerWithoutBody(t *testing.T) {
	srv := newServer(t)
	dept := "d1"
	officer := models.Actor{ID: "o1", Role: models.RoleOfficer, DepartmentID: &dept}
	srv.complaints.On("Assign", "x1", officer, "").Return(&models.Complaint{ID: "x1", Status: models.StatusAssigned}, nil)

	code, env := srv.do(t, http.MethodPatch, "/api/complaints/x1/assign", srv.token(t, "o1", models.RoleOfficer, "d1"), "")
	assert.Equal(t, http.StatusOK, code)
	assert.True(t, env.OK)

	code, _ = srv.do(t, http.MethodPatch, "/api/complaints/x1/assign", srv.token(t, "c1", models.RoleCitizen, ""), "")
	assert.Equal(t, http.StatusForbidden, code)
	srv.complaints.AssertNumberOfCalls(t, "Assign", 1)
}

func TestUpdateStatus(t *testing.T) {
	srv := newServer(t)
	admin := srv.token(t, "a1", models.RoleAdmin, "")
	resolution := "Filled"
	srv.complaints.On("UpdateStatus", "x1", mock.Anything, models.StatusResolved, &resolution).
		Return(&models.Complaint{ID: "x1", Status: models.StatusResolved}, nil)
	srv.complaints.On("UpdateStatus", "x1", mock.Anything, models.Status("Reopened"), (*string)(nil)).
		Return(nil, apperr.Validation("unknown status %q", "Reopened"))

	code, _ := srv.do(t, http.MethodPatch, "/api/complaints/x1/status", admin, `{"status":"Resolved","resolution":"Filled"}`)
	assert.Equal(t, http.StatusOK, code)

	code, env := srv.do(t, http.MethodPatch, "/api/complaints/x1/status", admin, `{"status":"Reopened"}`)
	assert.Equal(t, http.StatusBadRequest, code)
	assert.Contains(t, env.Error, "Reopened")

	code, _ = srv.do(t, http.MethodPatch, "/api/complaints/x1/status", admin, `{`)
	assert.Equal(t, http.StatusBadRequest, code)
}

func TestAdminStats(t *testing.T) {
	srv := newServer(t)
	srv.stats.On("Compute").Return(&stats.Stats{TotalComplaints: 0}, nil)

	code, _ := srv.do(t, http.MethodGet, "/api/admin/stats", srv.token(t, "c1", models.RoleCitizen, ""), "")
	assert.Equal(t, http.StatusForbidden, code)

	code, env := srv.do(t, http.MethodGet, "/api/admin/stats", srv.token(t, "a1", models.RoleAdmin, ""), "")
	require.Equal(t, http.StatusOK, code)

	var st stats.Stats
	require.NoError(t, json.Unmarshal(env.Data, &st))
	assert.Zero(t, st.ResolutionRate)
	assert.Zero(t, st.AvgResolutionTime)
}

func TestTelegramLink(t *testing.T) {
	srv := newServer(t)
	code, env := srv.do(t, http.MethodGet, "/api/auth/telegram-link", srv.token(t, "c1", models.RoleCitizen, ""), "")
	require.Equal(t, http.StatusOK, code)

	var body struct {
		Token   string `json:"token"`
		Command string `json:"command"`
	}
	require.NoError(t, json.Unmarshal(env.Data, &body))
	id, err := srv.tokens.ParseLink(body.Token)
	require.NoError(t, err)
	assert.Equal(t, "c1", id)
	assert.Equal(t, "/link "+body.Token, body.Command)
}

func TestWebSocket_RequiresReadyHub(t *testing.T) {
	srv := newServer(t)
	code, _ := srv.do(t, http.MethodGet, "/ws", "", "")
	assert.Equal(t, http.StatusUnauthorized, code)

	code, env := srv.do(t, http.MethodGet, "/ws?token="+srv.token(t, "c1", models.RoleCitizen, ""), "", "")
	assert.Equal(t, http.StatusServiceUnavailable, code)
	assert.False(t, env.OK)
}
