package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Status is a step in the complaint lifecycle. The order below is the usual
// progression but any value may be set by an authorized actor.
type Status string

const (
	StatusSubmitted  Status = "Submitted"
	StatusAssigned   Status = "Assigned"
	StatusInProgress Status = "InProgress"
	StatusResolved   Status = "Resolved"
	StatusClosed     Status = "Closed"
)

var Statuses = []Status{StatusSubmitted, StatusAssigned, StatusInProgress, StatusResolved, StatusClosed}

func (s Status) Valid() bool {
	for _, known := range Statuses {
		if s == known {
			return true
		}
	}
	return false
}

type Priority string

const (
	PriorityLow      Priority = "Low"
	PriorityMedium   Priority = "Medium"
	PriorityHigh     Priority = "High"
	PriorityCritical Priority = "Critical"
)

var Priorities = []Priority{PriorityLow, PriorityMedium, PriorityHigh, PriorityCritical}

func (p Priority) Valid() bool {
	for _, known := range Priorities {
		if p == known {
			return true
		}
	}
	return false
}

// Escalates reports whether admins must be told about complaints of this priority.
func (p Priority) Escalates() bool {
	return p == PriorityHigh || p == PriorityCritical
}

type Sentiment string

const (
	SentimentPositive Sentiment = "Positive"
	SentimentNeutral  Sentiment = "Neutral"
	SentimentNegative Sentiment = "Negative"
)

var Sentiments = []Sentiment{SentimentPositive, SentimentNeutral, SentimentNegative}

func (s Sentiment) Valid() bool {
	for _, known := range Sentiments {
		if s == known {
			return true
		}
	}
	return false
}

// Analysis is the classifier output stored alongside the complaint.
type Analysis struct {
	Category   Category  `json:"category"`
	Sentiment  Sentiment `json:"sentiment"`
	Priority   Priority  `json:"priority"`
	Confidence float64   `json:"confidence"`

	// Fallback is set when the classifier could not be reached.
	Fallback bool `json:"fallback,omitempty"`
}

// Complaint is a grievance submitted by a citizen.
type Complaint struct {
	ID                string     `gorm:"primaryKey;type:uuid" json:"id"`
	Title             string     `gorm:"type:text;not null" json:"title"`
	Description       string     `gorm:"type:text;not null" json:"description"`
	Category          Category   `gorm:"type:text;not null;index" json:"category"`
	Status            Status     `gorm:"type:text;not null;index;default:'Submitted'" json:"status"`
	Priority          Priority   `gorm:"type:text;not null;index" json:"priority"`
	Sentiment         Sentiment  `gorm:"type:text;not null" json:"sentiment"`
	CitizenID         string     `gorm:"type:uuid;not null;index" json:"citizenId"`
	AssignedOfficerID *string    `gorm:"type:uuid;index" json:"assignedOfficerId"`
	DepartmentID      string     `gorm:"type:uuid;not null;index" json:"departmentId"`
	Resolution        string     `gorm:"type:text" json:"resolution,omitempty"`
	ResolvedAt        *time.Time `json:"resolvedAt,omitempty"`
	FeedbackID        *string    `gorm:"type:uuid" json:"feedbackId,omitempty"`
	Analysis          Analysis   `gorm:"serializer:json;type:jsonb" json:"analysis"`

	Citizen         *User       `gorm:"foreignKey:CitizenID" json:"citizen,omitempty"`
	AssignedOfficer *User       `gorm:"foreignKey:AssignedOfficerID" json:"assignedOfficer,omitempty"`
	Department      *Department `gorm:"foreignKey:DepartmentID" json:"department,omitempty"`
	Feedback        *Feedback   `gorm:"foreignKey:FeedbackID" json:"feedback,omitempty"`

	CreatedAt time.Time `gorm:"index" json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// BeforeCreate generates the UUID when the ID is not set yet.
func (c *Complaint) BeforeCreate(tx *gorm.DB) (err error) {
	if c.ID == "" {
		c.ID = uuid.New().String()
	}
	return
}

// IsAssigned reports whether an officer currently holds the complaint.
func (c *Complaint) IsAssigned() bool {
	return c.AssignedOfficerID != nil && *c.AssignedOfficerID != ""
}

// AssignedTo reports whether the complaint is held by officerID.
func (c *Complaint) AssignedTo(officerID string) bool {
	return c.IsAssigned() && *c.AssignedOfficerID == officerID
}
