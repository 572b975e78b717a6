package models

import (
	"encoding/json"
	"time"
)

// EventName identifies a real-time notification.
type EventName string

const (
	EventStatusChanged      EventName = "status-changed"
	EventNewAssignment      EventName = "new-assignment"
	EventPriorityEscalation EventName = "priority-escalation"
	EventResolved           EventName = "resolved"
	EventNewComplaint       EventName = "new-complaint"
	EventStatsUpdated       EventName = "stats-updated"
)

// AudienceKind selects which subscriber group an envelope is delivered to.
type AudienceKind string

const (
	AudienceUser       AudienceKind = "user"
	AudienceRole       AudienceKind = "role"
	AudienceDepartment AudienceKind = "department"
)

// Envelope is the unit pushed to subscribers and, between instances, through Redis.
type Envelope struct {
	Audience AudienceKind    `json:"audience"`
	Target   string          `json:"target"`
	Event    EventName       `json:"event"`
	Payload  json.RawMessage `json:"payload"`
	SentAt   time.Time       `json:"sentAt"`
}

// ComplaintEvent is the payload carried by complaint lifecycle events.
type ComplaintEvent struct {
	ComplaintID string   `json:"complaintId"`
	Title       string   `json:"title"`
	Status      Status   `json:"status"`
	Priority    Priority `json:"priority"`
	Category    Category `json:"category"`
	Resolution  string   `json:"resolution,omitempty"`
}

// NewComplaintEvent snapshots the fields subscribers need from c.
func NewComplaintEvent(c *Complaint) ComplaintEvent {
	return ComplaintEvent{
		ComplaintID: c.ID,
		Title:       c.Title,
		Status:      c.Status,
		Priority:    c.Priority,
		Category:    c.Category,
		Resolution:  c.Resolution,
	}
}
