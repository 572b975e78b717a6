package hub_test

import (
	"sync"

	"grievance/backend/internal/models"
)

type MockClient struct {
	userID       string
	role         models.Role
	departmentID string
	RecvChannel  chan models.Envelope

	mu     sync.Mutex
	closed int
}

func newMockClient(userID string, role models.Role, departmentID string) *MockClient {
	return &MockClient{
		userID:       userID,
		role:         role,
		departmentID: departmentID,
		RecvChannel:  make(chan models.Envelope, 10),
	}
}

func (c *MockClient) GetUserID() string                      { return c.userID }
func (c *MockClient) GetRole() models.Role                   { return c.role }
func (c *MockClient) GetDepartmentID() string                { return c.departmentID }
func (c *MockClient) GetSendChannel() chan<- models.Envelope { return c.RecvChannel }
func (c *MockClient) Run()                                    {}

func (c *MockClient) Close() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.closed++
}

func (c *MockClient) Closed() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.closed
}
