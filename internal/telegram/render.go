package telegram

import (
	"encoding/json"
	"fmt"
	"log"

	"grievance/backend/internal/localization"
	"grievance/backend/internal/models"
)

type statsSummary struct {
	TotalComplaints int64   `json:"totalComplaints"`
	ResolutionRate  float64 `json:"resolutionRate"`
}

// Render turns an envelope into the chat text for lang. It reports false for
// payloads it cannot decode.
func Render(l *localization.Localizer, lang string, env models.Envelope) (string, bool) {
	key := "event." + string(env.Event)

	if env.Event == models.EventStatsUpdated {
		var s statsSummary
		if err := json.Unmarshal(env.Payload, &s); err != nil {
			log.Printf("WARN: cannot decode %s payload: %v", env.Event, err)
			return "", false
		}
		return l.Render(lang, key, map[string]string{
			"total": fmt.Sprint(s.TotalComplaints),
			"rate":  fmt.Sprintf("%.0f", s.ResolutionRate*100),
		}), true
	}

	var e models.ComplaintEvent
	if err := json.Unmarshal(env.Payload, &e); err != nil {
		log.Printf("WARN: cannot decode %s payload: %v", env.Event, err)
		return "", false
	}
	return l.Render(lang, key, map[string]string{
		"title":      e.Title,
		"status":     string(e.Status),
		"priority":   string(e.Priority),
		"category":   string(e.Category),
		"resolution": e.Resolution,
	}), true
}
