// Package analysis talks to the complaint analysis service and holds the
// keyword rules that service applies.
package analysis

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"net/http"
	"strings"
	"time"

	"grievance/backend/internal/apperr"
	"grievance/backend/internal/config"
	"grievance/backend/internal/models"
)

// Classifier labels complaint text. Implementations never fail: they degrade
// to Fallback instead.
type Classifier interface {
	Classify(ctx context.Context, title, description string) models.Analysis
}

// Request is the body sent to the analysis service.
type Request struct {
	Title       string `json:"title"`
	Description string `json:"description"`
}

// Response is the body returned by the analysis service.
type Response struct {
	Category   string  `json:"category"`
	Sentiment  string  `json:"sentiment"`
	Priority   string  `json:"priority"`
	Confidence float64 `json:"confidence"`
}

// Fallback is the analysis used whenever the service cannot be reached.
func Fallback() models.Analysis {
	return models.Analysis{
		Category:   config.FallbackCategory,
		Sentiment:  config.FallbackSentiment,
		Priority:   config.FallbackPriority,
		Confidence: config.FallbackConfidence,
		Fallback:   true,
	}
}

// Gateway is the HTTP client of the analysis service.
type Gateway struct {
	BaseURL string
	Client  *http.Client
}

// NewGateway creates a gateway with the given per-request timeout.
func NewGateway(baseURL string, timeout time.Duration) *Gateway {
	return &Gateway{
		BaseURL: strings.TrimRight(baseURL, "/"),
		Client:  &http.Client{Timeout: timeout},
	}
}

// Classify asks the service for labels and substitutes Fallback on any failure.
func (g *Gateway) Classify(ctx context.Context, title, description string) models.Analysis {
	result, err := g.analyze(ctx, title, description)
	if err != nil {
		log.Printf("WARN: analysis service unavailable, using fallback: %v", err)
		return Fallback()
	}
	return result
}

func (g *Gateway) analyze(ctx context.Context, title, description string) (models.Analysis, error) {
	body, err := json.Marshal(Request{Title: title, Description: description})
	if err != nil {
		return models.Analysis{}, err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, g.BaseURL+"/api/analyze", bytes.NewReader(body))
	if err != nil {
		return models.Analysis{}, fmt.Errorf("%w: %v", apperr.ErrUpstreamUnavailable, err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := g.Client.Do(req)
	if err != nil {
		return models.Analysis{}, fmt.Errorf("%w: %v", apperr.ErrUpstreamUnavailable, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		io.Copy(io.Discard, resp.Body)
		return models.Analysis{}, fmt.Errorf("%w: status %d", apperr.ErrUpstreamUnavailable, resp.StatusCode)
	}

	var out Response
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return models.Analysis{}, fmt.Errorf("%w: decode: %v", apperr.ErrUpstreamUnavailable, err)
	}
	return out.toAnalysis()
}

// toAnalysis validates the labels. An unknown category is kept as-is; the
// department resolver names such departments after the raw label.
func (r Response) toAnalysis() (models.Analysis, error) {
	a := models.Analysis{
		Category:   models.Category(strings.TrimSpace(r.Category)),
		Sentiment:  models.Sentiment(r.Sentiment),
		Priority:   models.Priority(r.Priority),
		Confidence: r.Confidence,
	}
	if a.Category == "" {
		return models.Analysis{}, fmt.Errorf("%w: empty category", apperr.ErrUpstreamUnavailable)
	}
	if !a.Sentiment.Valid() {
		return models.Analysis{}, fmt.Errorf("%w: unknown sentiment %q", apperr.ErrUpstreamUnavailable, r.Sentiment)
	}
	if !a.Priority.Valid() {
		return models.Analysis{}, fmt.Errorf("%w: unknown priority %q", apperr.ErrUpstreamUnavailable, r.Priority)
	}
	return a, nil
}
