package config

import (
	"time"

	"grievance/backend/internal/models"
)

const (
	// Classifier fallback, used whenever the analysis service cannot answer.
	FallbackCategory   = models.CategoryOther
	FallbackSentiment  = models.SentimentNeutral
	FallbackPriority   = models.PriorityMedium
	FallbackConfidence = 0.5

	DefaultAnalysisTimeout = 5 * time.Second

	// Listing
	DefaultPageSize      = 20
	MaxPageSize          = 100
	RecentComplaintsSize = 10

	// Realtime
	SubscriberBuffer = 256
	EventsChannel    = "grievance:events"
	PublishTimeout   = 2 * time.Second

	// Telegram link tokens are short lived.
	TelegramLinkTTL = 10 * time.Minute
)

// DepartmentNames maps each category to the name given to its lazily created department.
var DepartmentNames = map[models.Category]string{
	models.CategoryMunicipal:  "Municipal Department",
	models.CategoryHealthcare: "Healthcare Department",
	models.CategoryEducation:  "Education Department",
	models.CategoryTransport:  "Transport Department",
	models.CategoryUtilities:  "Utilities Department",
	models.CategoryOther:      "General Department",
}

// DepartmentName returns the department name for a category, falling back to
// the raw category string when it is not one of the known values.
func DepartmentName(category models.Category) string {
	if name, ok := DepartmentNames[category]; ok {
		return name
	}
	return string(category)
}
