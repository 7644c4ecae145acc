// Package estimation - Advisory corrector
package estimation

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"time"

	"github.com/shopspring/decimal"

	"sow-estimator/core/types"
	"sow-estimator/internal/errors"
	"sow-estimator/internal/logging"

	"go.uber.org/zap"
)

// Suggestion is a schema-valid advisory correction
type Suggestion struct {
	// AdjustedTotalCost is the suggested replacement total
	AdjustedTotalCost decimal.Decimal `json:"adjusted_total_cost"`

	// Rationale explains the correction, optional
	Rationale string `json:"rationale,omitempty"`
}

// Corrector is the optional external collaborator that may override the
// heuristic cost. Implementations are expected to be fallible; the engine
// degrades silently on any error.
type Corrector interface {
	// Suggest proposes an adjusted total for the given request context.
	// A nil suggestion with nil error means the corrector abstained.
	Suggest(ctx context.Context, text string, answers []types.AnswerItem, breakdown []types.RoleAllocation, card types.RateCard) (*Suggestion, error)
}

// HTTPCorrector calls an external advisory service over HTTP with bounded
// retries and linear backoff
type HTTPCorrector struct {
	endpoint    string
	client      *http.Client
	maxAttempts int
	backoff     time.Duration
	timeout     time.Duration
}

// HTTPCorrectorOption configures an HTTPCorrector
type HTTPCorrectorOption func(*HTTPCorrector)

// WithMaxAttempts caps the retry count
func WithMaxAttempts(n int) HTTPCorrectorOption {
	return func(c *HTTPCorrector) {
		if n > 0 {
			c.maxAttempts = n
		}
	}
}

// WithTimeout sets the per-attempt timeout
func WithTimeout(d time.Duration) HTTPCorrectorOption {
	return func(c *HTTPCorrector) {
		if d > 0 {
			c.timeout = d
		}
	}
}

// WithHTTPClient injects the HTTP client (tests)
func WithHTTPClient(client *http.Client) HTTPCorrectorOption {
	return func(c *HTTPCorrector) {
		c.client = client
	}
}

// NewHTTPCorrector creates a corrector against the given endpoint
func NewHTTPCorrector(endpoint string, opts ...HTTPCorrectorOption) *HTTPCorrector {
	c := &HTTPCorrector{
		endpoint:    endpoint,
		client:      http.DefaultClient,
		maxAttempts: 3,
		backoff:     500 * time.Millisecond,
		timeout:     15 * time.Second,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// suggestRequest is the advisory request payload
type suggestRequest struct {
	Text      string                 `json:"text"`
	Answers   []types.AnswerItem     `json:"answers"`
	Breakdown []types.RoleAllocation `json:"breakdown"`
	RateCard  map[string]string      `json:"rate_card"`
}

// Suggest calls the advisory endpoint, retrying up to maxAttempts with
// linear backoff. Every failure mode returns an error; none panic.
func (c *HTTPCorrector) Suggest(ctx context.Context, text string, answers []types.AnswerItem, breakdown []types.RoleAllocation, card types.RateCard) (*Suggestion, error) {
	payload := suggestRequest{
		Text:      text,
		Answers:   answers,
		Breakdown: breakdown,
		RateCard:  make(map[string]string, len(card)),
	}
	for role, rate := range card {
		payload.RateCard[role] = rate.String()
	}

	body, err := json.Marshal(payload)
	if err != nil {
		return nil, errors.Advisory("encoding advisory request", err)
	}

	var lastErr error
	for attempt := 1; attempt <= c.maxAttempts; attempt++ {
		suggestion, err := c.attempt(ctx, body)
		if err == nil {
			return suggestion, nil
		}
		lastErr = err
		logging.Debug("advisory attempt failed",
			zap.Int("attempt", attempt),
			zap.Error(err))

		if attempt < c.maxAttempts {
			select {
			case <-time.After(c.backoff * time.Duration(attempt)):
			case <-ctx.Done():
				return nil, errors.Advisory("advisory call cancelled", ctx.Err())
			}
		}
	}
	return nil, lastErr
}

func (c *HTTPCorrector) attempt(ctx context.Context, body []byte) (*Suggestion, error) {
	attemptCtx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	req, err := http.NewRequestWithContext(attemptCtx, http.MethodPost, c.endpoint, bytes.NewReader(body))
	if err != nil {
		return nil, errors.Advisory("building advisory request", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.client.Do(req)
	if err != nil {
		return nil, errors.Advisory("calling advisory service", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, errors.Newf(errors.TypeAdvisory, "advisory service returned %d", resp.StatusCode)
	}

	var raw struct {
		AdjustedTotalCost *float64 `json:"adjusted_total_cost"`
		Rationale         string   `json:"rationale"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&raw); err != nil {
		return nil, errors.Advisory("decoding advisory response", err)
	}
	return validateSuggestion(raw.AdjustedTotalCost, raw.Rationale)
}

// validateSuggestion enforces the advisory response schema: a numeric,
// positive adjusted_total_cost is required. A schema-invalid response is
// treated identically to a missing one by the caller.
func validateSuggestion(adjusted *float64, rationale string) (*Suggestion, error) {
	if adjusted == nil {
		return nil, errors.Validation("advisory response missing adjusted_total_cost")
	}
	cost := decimal.NewFromFloat(*adjusted)
	if !cost.IsPositive() {
		return nil, errors.Validation("advisory adjusted_total_cost must be positive")
	}
	return &Suggestion{AdjustedTotalCost: cost, Rationale: rationale}, nil
}
