// Package api - API types for the estimation service.
// These types define the JSON contract for the message, followup,
// rate card administration and ingestion endpoints.
package api

import (
	"sow-estimator/core/engine"
	"sow-estimator/core/types"
)

// MessageRequest is the input to POST /api/message
type MessageRequest struct {
	// Text is the raw client message describing the project
	Text string `json:"text"`

	// Client identifies the requester (optional)
	Client types.ClientInfo `json:"client"`
}

// FollowupRequest is the input to POST /api/followup
type FollowupRequest struct {
	// Text is the original project description
	Text string `json:"text"`

	// Answers pairs each asked question with the client's reply
	Answers []types.AnswerItem `json:"answers,omitempty"`

	// Structured carries pre-classified answer fields, when the caller
	// has already bucketed replies
	Structured *types.Answers `json:"structured,omitempty"`

	// Client identifies the requester (optional)
	Client types.ClientInfo `json:"client"`
}

// MessageResponse is the output of POST /api/message
type MessageResponse struct {
	RequiresClarification bool              `json:"requires_clarification"`
	Questions             []string          `json:"questions,omitempty"`
	Proposal              *ProposalResponse `json:"proposal,omitempty"`
}

// ProposalResponse is the serialized proposal. The SOW document travels
// base64-encoded so markdown survives any transport intact.
type ProposalResponse struct {
	Status    string               `json:"status"`
	Summary   string               `json:"summary"`
	Scope     *types.ProjectScope  `json:"scope"`
	Estimate  *types.Estimate      `json:"estimate"`
	SOWBase64 string               `json:"sow_base64"`
	Review    *ReviewResponse      `json:"review,omitempty"`
}

// ReviewResponse reports the review gate outcome
type ReviewResponse struct {
	Approved bool     `json:"approved"`
	Issues   []string `json:"issues,omitempty"`
}

// RateCardRequest is the input to PUT /api/admin/ratecard. Rates are
// decimal strings keyed by role; the update replaces the whole card.
type RateCardRequest struct {
	Rates map[string]string `json:"rates"`
}

// RateCardResponse is the output of GET /api/admin/ratecard
type RateCardResponse struct {
	Rates map[string]string `json:"rates"`
}

// IngestSOWRequest is the input to POST /api/ingest/sow
type IngestSOWRequest struct {
	// Text is the raw SOW document
	Text string `json:"text"`

	// Filename labels the source document (optional)
	Filename string `json:"filename,omitempty"`

	// Metadata is free-form context stored with the record
	Metadata map[string]any `json:"metadata,omitempty"`
}

// IngestChatRequest is the input to POST /api/ingest/chat
type IngestChatRequest struct {
	Messages []types.ChatMessage `json:"messages"`
	Metadata map[string]any      `json:"metadata,omitempty"`
}

// IngestResponse acknowledges a stored record
type IngestResponse struct {
	Status string `json:"status"`
}

func toProposalResponse(p *engine.Proposal) *ProposalResponse {
	if p == nil {
		return nil
	}
	resp := &ProposalResponse{
		Status:    p.Status,
		Summary:   p.Summary,
		Scope:     p.Scope,
		Estimate:  p.Estimate,
		SOWBase64: encodeSOW(p.SOW),
	}
	if p.Review != nil {
		resp.Review = &ReviewResponse{
			Approved: p.Review.Approved,
			Issues:   p.Review.Issues,
		}
	}
	return resp
}
