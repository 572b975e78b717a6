package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

const (
	MinRating = 1
	MaxRating = 5
)

// Feedback is the citizen's rating of a handled complaint. There is at most
// one per complaint.
type Feedback struct {
	ID          string `gorm:"primaryKey;type:uuid" json:"id"`
	Rating      int    `gorm:"not null" json:"rating"`
	Comment     string `gorm:"type:text" json:"comment,omitempty"`
	CitizenID   string `gorm:"type:uuid;not null;index" json:"citizenId"`
	ComplaintID string `gorm:"type:uuid;not null;uniqueIndex" json:"complaintId"`

	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

func (f *Feedback) BeforeCreate(tx *gorm.DB) (err error) {
	if f.ID == "" {
		f.ID = uuid.New().String()
	}
	return
}

// ValidRating reports whether r lies in the accepted 1..5 range.
func ValidRating(r int) bool {
	return r >= MinRating && r <= MaxRating
}
