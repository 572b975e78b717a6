package hub

import "grievance/backend/internal/models"

// Client is the interface for any subscriber connection (e.g., WebSocket, Telegram).
// The hub joins each client to its user, role and (for officers) department groups.
type Client interface {
	// GetUserID returns the id of the authenticated user behind the connection.
	GetUserID() string
	// GetRole returns the user's role; the client joins that role's group.
	GetRole() models.Role
	// GetDepartmentID returns the department group to join, or "" for none.
	GetDepartmentID() string

	// GetSendChannel returns the channel the hub pushes envelopes to.
	GetSendChannel() chan<- models.Envelope

	// Run starts the client's pumps.
	Run()
	// Close shuts the connection down. It is safe to call more than once.
	Close()
}
