// Package estimation - advisory corrector tests
package estimation

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/shopspring/decimal"

	"sow-estimator/core/types"
)

// TestHTTPCorrectorSuccess verifies a valid response becomes a suggestion
func TestHTTPCorrectorSuccess(t *testing.T) {
	var gotPayload suggestRequest
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if err := json.NewDecoder(r.Body).Decode(&gotPayload); err != nil {
			t.Errorf("failed to decode request: %v", err)
		}
		json.NewEncoder(w).Encode(map[string]any{
			"adjusted_total_cost": 7200.50,
			"rationale":           "adjusted for market rates",
		})
	}))
	defer server.Close()

	c := NewHTTPCorrector(server.URL)
	card := types.RateCard{"Software Developer": decimal.NewFromInt(80)}
	answers := []types.AnswerItem{{Question: "Timeline?", Answer: "Q3"}}

	suggestion, err := c.Suggest(context.Background(), "a web app", answers, nil, card)
	if err != nil {
		t.Fatalf("Suggest failed: %v", err)
	}
	if !suggestion.AdjustedTotalCost.Equal(decimal.RequireFromString("7200.5")) {
		t.Errorf("AdjustedTotalCost = %s, want 7200.5", suggestion.AdjustedTotalCost)
	}
	if suggestion.Rationale != "adjusted for market rates" {
		t.Errorf("Rationale = %q", suggestion.Rationale)
	}

	if gotPayload.Text != "a web app" {
		t.Errorf("request text = %q", gotPayload.Text)
	}
	if gotPayload.RateCard["Software Developer"] != "80" {
		t.Errorf("request rate card = %v", gotPayload.RateCard)
	}
}

// TestHTTPCorrectorSchemaValidation verifies invalid responses are errors
func TestHTTPCorrectorSchemaValidation(t *testing.T) {
	tests := []struct {
		name string
		body string
	}{
		{"missing cost", `{"rationale": "no number"}`},
		{"zero cost", `{"adjusted_total_cost": 0}`},
		{"negative cost", `{"adjusted_total_cost": -100}`},
		{"non-numeric cost", `{"adjusted_total_cost": "lots"}`},
		{"not json", `the price feels right`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.Write([]byte(tt.body))
			}))
			defer server.Close()

			c := NewHTTPCorrector(server.URL, WithMaxAttempts(1))
			if _, err := c.Suggest(context.Background(), "text", nil, nil, types.RateCard{}); err == nil {
				t.Errorf("response %q accepted, want error", tt.body)
			}
		})
	}
}

// TestHTTPCorrectorRetries verifies transient failures are retried
func TestHTTPCorrectorRetries(t *testing.T) {
	var calls atomic.Int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if calls.Add(1) < 3 {
			w.WriteHeader(http.StatusInternalServerError)
			return
		}
		json.NewEncoder(w).Encode(map[string]any{"adjusted_total_cost": 5000})
	}))
	defer server.Close()

	c := NewHTTPCorrector(server.URL, WithMaxAttempts(3))
	c.backoff = time.Millisecond

	suggestion, err := c.Suggest(context.Background(), "text", nil, nil, types.RateCard{})
	if err != nil {
		t.Fatalf("Suggest failed after retries: %v", err)
	}
	if !suggestion.AdjustedTotalCost.Equal(decimal.NewFromInt(5000)) {
		t.Errorf("AdjustedTotalCost = %s, want 5000", suggestion.AdjustedTotalCost)
	}
	if calls.Load() != 3 {
		t.Errorf("server called %d times, want 3", calls.Load())
	}
}

// TestHTTPCorrectorExhaustsAttempts verifies the attempt cap
func TestHTTPCorrectorExhaustsAttempts(t *testing.T) {
	var calls atomic.Int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		w.WriteHeader(http.StatusBadGateway)
	}))
	defer server.Close()

	c := NewHTTPCorrector(server.URL, WithMaxAttempts(2))
	c.backoff = time.Millisecond

	if _, err := c.Suggest(context.Background(), "text", nil, nil, types.RateCard{}); err == nil {
		t.Fatal("Suggest succeeded against an always-failing server")
	}
	if calls.Load() != 2 {
		t.Errorf("server called %d times, want 2", calls.Load())
	}
}

// TestHTTPCorrectorHonorsCancellation verifies a cancelled context stops
// the retry loop
func TestHTTPCorrectorHonorsCancellation(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer server.Close()

	c := NewHTTPCorrector(server.URL, WithMaxAttempts(3))
	c.backoff = time.Minute

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() {
		_, err := c.Suggest(ctx, "text", nil, nil, types.RateCard{})
		done <- err
	}()

	cancel()
	select {
	case err := <-done:
		if err == nil {
			t.Error("Suggest returned nil error after cancellation")
		}
	case <-time.After(5 * time.Second):
		t.Fatal("Suggest did not return after context cancellation")
	}
}
