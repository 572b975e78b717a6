package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/lib/pq"
	"gorm.io/gorm"
)

// Category is the classifier label a complaint and its department share.
type Category string

const (
	CategoryMunicipal  Category = "Municipal"
	CategoryHealthcare Category = "Healthcare"
	CategoryEducation  Category = "Education"
	CategoryTransport  Category = "Transport"
	CategoryUtilities  Category = "Utilities"
	CategoryOther      Category = "Other"
)

// Categories lists the six known categories.
var Categories = []Category{
	CategoryMunicipal, CategoryHealthcare, CategoryEducation,
	CategoryTransport, CategoryUtilities, CategoryOther,
}

// Valid reports whether c is one of the known categories.
func (c Category) Valid() bool {
	for _, known := range Categories {
		if c == known {
			return true
		}
	}
	return false
}

// Department groups the officers handling one category.
type Department struct {
	ID           string         `gorm:"primaryKey;type:uuid" json:"id"`
	Name         string         `gorm:"uniqueIndex;not null" json:"name"`
	Category     Category       `gorm:"type:text;uniqueIndex;not null" json:"category"`
	Description  string         `gorm:"type:text" json:"description,omitempty"`
	ContactEmail string         `json:"contactEmail,omitempty"`
	ContactPhone string         `json:"contactPhone,omitempty"`
	OfficerIDs   pq.StringArray `gorm:"type:text[]" json:"officerIds"`

	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// BeforeCreate generates the UUID when the ID is not set yet.
func (d *Department) BeforeCreate(tx *gorm.DB) (err error) {
	if d.ID == "" {
		d.ID = uuid.New().String()
	}
	return
}

// HasOfficer reports whether officerID is already listed on the department.
func (d *Department) HasOfficer(officerID string) bool {
	for _, id := range d.OfficerIDs {
		if id == officerID {
			return true
		}
	}
	return false
}
