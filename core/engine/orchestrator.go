// Package engine wires the estimation pipeline together: extraction,
// questionnaire planning, scope building, estimation, SOW rendering, and
// review, composed by one explicit orchestration type.
//
// The orchestrator owns no estimation logic. It takes one snapshot of the
// rate card and the knowledge base per call and feeds the pure core
// components; store failures degrade to catalog defaults and are never
// surfaced to the caller of an estimate.
package engine

import (
	"context"
	"regexp"
	"strings"
	"time"

	"go.uber.org/zap"

	"sow-estimator/core/catalog"
	"sow-estimator/core/estimation"
	"sow-estimator/core/intent"
	"sow-estimator/core/knowledge"
	"sow-estimator/core/questionnaire"
	"sow-estimator/core/review"
	"sow-estimator/core/scope"
	"sow-estimator/core/sow"
	"sow-estimator/core/types"
	"sow-estimator/internal/errors"
	"sow-estimator/internal/logging"
)

// directEstimateLength is the description length beyond which the
// orchestrator skips clarification and estimates immediately
const directEstimateLength = 400

var budgetSignal = regexp.MustCompile(`\$\d+`)

// Orchestrator composes the core components into the estimation pipeline
type Orchestrator struct {
	catalog   *catalog.Catalog
	extractor *intent.Extractor
	planner   *questionnaire.Planner
	builder   *scope.Builder
	estimator *estimation.Engine
	renderer  *sow.Renderer
	gate      *review.Gate

	rateStore knowledge.RateCardStore
	kb        knowledge.Store
}

// New creates an orchestrator over a catalog, an estimation engine, and
// the persistence collaborators. Stores may be nil; the pipeline then runs
// on catalog defaults with no historical signal.
func New(cat *catalog.Catalog, estimator *estimation.Engine, rateStore knowledge.RateCardStore, kb knowledge.Store) *Orchestrator {
	return &Orchestrator{
		catalog:   cat,
		extractor: intent.NewExtractor(cat),
		planner:   questionnaire.NewPlanner(cat),
		builder:   scope.NewBuilder(),
		estimator: estimator,
		renderer:  sow.NewRenderer(),
		gate:      review.NewGate(),
		rateStore: rateStore,
		kb:        kb,
	}
}

// Response is the outcome of processing one client message
type Response struct {
	// RequiresClarification is true when questions must be answered first
	RequiresClarification bool `json:"requires_clarification"`

	// Questions are the clarifying questions to ask, when required
	Questions []string `json:"questions,omitempty"`

	// Proposal is the finished proposal, when no clarification is needed
	Proposal *Proposal `json:"proposal,omitempty"`
}

// Proposal bundles everything produced for one estimate
type Proposal struct {
	// Status is "completed" or "requires_review"
	Status string `json:"status"`

	// Summary is a one-line recap of the estimate
	Summary string `json:"summary"`

	// Scope is the canonical project scope
	Scope *types.ProjectScope `json:"scope"`

	// Estimate is the cost breakdown
	Estimate *types.Estimate `json:"estimate"`

	// SOW is the rendered Statement of Work document
	SOW string `json:"sow"`

	// Review is the validation outcome
	Review *review.Result `json:"review"`
}

// ExtractFeatures runs feature/type extraction over client text
func (o *Orchestrator) ExtractFeatures(text string) *types.Intent {
	return o.extractor.Extract(text)
}

// PlanQuestions plans the clarifying questions for client text, blending
// in historically common questions from similar past projects
func (o *Orchestrator) PlanQuestions(ctx context.Context, text string) []string {
	detected := o.extractor.Extract(text)
	insights := o.insightsSnapshot(ctx, detected.Features)
	return o.planner.Plan(detected.ProjectType, detected.MissingFields, insights.CommonQuestions)
}

// ProcessClientInput handles the first client message: it returns
// clarifying questions, or estimates immediately when the description is
// long or carries a budget signal.
func (o *Orchestrator) ProcessClientInput(ctx context.Context, text string, client types.ClientInfo) (*Response, error) {
	text = strings.TrimSpace(text)
	if text == "" {
		return nil, errors.Input("text is required")
	}

	if len(text) > directEstimateLength || budgetSignal.MatchString(text) || strings.Contains(strings.ToLower(text), "budget") {
		proposal, err := o.ProcessFollowup(ctx, text, nil, nil, client)
		if err != nil {
			return nil, err
		}
		return &Response{Proposal: proposal}, nil
	}

	return &Response{
		RequiresClarification: true,
		Questions:             o.PlanQuestions(ctx, text),
	}, nil
}

// ProcessFollowup builds the full proposal from the original text plus the
// collected answers. The finished SOW is ingested back into the knowledge
// base, best effort.
func (o *Orchestrator) ProcessFollowup(ctx context.Context, text string, answers []types.AnswerItem, structured *types.Answers, client types.ClientInfo) (*Proposal, error) {
	detected := o.extractor.Extract(text)
	projectScope := o.builder.Build(detected, structured)

	card := o.rateCardSnapshot(ctx)
	insights := o.insightsSnapshot(ctx, projectScope.Features)

	estimate, err := o.estimator.Estimate(ctx, &estimation.Request{
		Scope:    projectScope,
		RateCard: card,
		Insights: insights,
		Text:     text,
		Answers:  answers,
	})
	if err != nil {
		return nil, err
	}

	document := o.renderer.Render(projectScope, estimate, client)
	result := o.gate.Validate(projectScope, estimate)

	status := "completed"
	if !result.Approved {
		status = "requires_review"
	}

	o.ingestProposal(ctx, projectScope, estimate)

	return &Proposal{
		Status:   status,
		Summary:  detected.Summary,
		Scope:    projectScope,
		Estimate: estimate,
		SOW:      document,
		Review:   result,
	}, nil
}

// IngestSOW parses a SOW document and appends it to the knowledge base
func (o *Orchestrator) IngestSOW(ctx context.Context, text, filename string, metadata map[string]any) error {
	if o.kb == nil {
		return errors.Storage("knowledge store not configured", nil)
	}
	parsed := sow.Parse(text)
	return o.kb.Insert(ctx, &types.KnowledgeRecord{
		Filename:   filename,
		Features:   parsed.Features,
		FinalPrice: parsed.FinalPrice,
		Metadata:   metadata,
	})
}

// IngestChat appends a chat transcript to the knowledge base so past
// clarifications can inform future question plans
func (o *Orchestrator) IngestChat(ctx context.Context, messages []types.ChatMessage, metadata map[string]any) error {
	if o.kb == nil {
		return errors.Storage("knowledge store not configured", nil)
	}
	parsed := sow.ParseChat(messages)

	meta := make(map[string]any, len(metadata)+1)
	for k, v := range metadata {
		meta[k] = v
	}
	meta["chat"] = messages

	filename, _ := meta["name"].(string)
	if filename == "" {
		filename = "chat-" + time.Now().UTC().Format("20060102T150405") + ".txt"
	}

	return o.kb.Insert(ctx, &types.KnowledgeRecord{
		Filename:   filename,
		Features:   parsed.Features,
		FinalPrice: parsed.FinalPrice,
		Metadata:   meta,
	})
}

// RateCard returns the current rate card snapshot
func (o *Orchestrator) RateCard(ctx context.Context) types.RateCard {
	return o.rateCardSnapshot(ctx)
}

// UpdateRateCard validates and replaces the whole rate card. Roles absent
// from the new card are removed.
func (o *Orchestrator) UpdateRateCard(ctx context.Context, card types.RateCard) error {
	if len(card) == 0 {
		return errors.Input("rate card must not be empty")
	}
	if err := card.Validate(o.catalog.CanonicalRoles); err != nil {
		return err
	}
	if o.rateStore == nil {
		return errors.Storage("rate card store not configured", nil)
	}
	return o.rateStore.Replace(ctx, card)
}

// Validate re-runs the review gate over a scope/estimate pair
func (o *Orchestrator) Validate(projectScope *types.ProjectScope, estimate *types.Estimate) *review.Result {
	return o.gate.Validate(projectScope, estimate)
}

// RenderSOW renders the SOW document for a finished estimate
func (o *Orchestrator) RenderSOW(projectScope *types.ProjectScope, estimate *types.Estimate, client types.ClientInfo) string {
	return o.renderer.Render(projectScope, estimate, client)
}

// rateCardSnapshot reads the card once per call, falling back to the
// catalog default when the store is missing or unreachable
func (o *Orchestrator) rateCardSnapshot(ctx context.Context) types.RateCard {
	if o.rateStore == nil {
		return o.catalog.DefaultRateCard.Clone()
	}
	card, err := o.rateStore.Get(ctx)
	if err != nil || len(card) == 0 {
		if err != nil {
			logging.Warn("rate card store unavailable, using defaults", zap.Error(err))
		}
		return o.catalog.DefaultRateCard.Clone()
	}
	return card
}

// insightsSnapshot reads the knowledge base once per call; failures yield
// neutral insights
func (o *Orchestrator) insightsSnapshot(ctx context.Context, features []types.FeatureTag) *knowledge.Insights {
	if o.kb == nil {
		return knowledge.Compute(nil, features)
	}
	records, err := o.kb.All(ctx)
	if err != nil {
		logging.Warn("knowledge store unavailable, using neutral insights", zap.Error(err))
		return knowledge.Compute(nil, features)
	}
	return knowledge.Compute(records, features)
}

// ingestProposal records the finished estimate in the knowledge base so
// future estimates can blend against it. Best effort.
func (o *Orchestrator) ingestProposal(ctx context.Context, projectScope *types.ProjectScope, estimate *types.Estimate) {
	if o.kb == nil {
		return
	}
	err := o.kb.Insert(ctx, &types.KnowledgeRecord{
		Filename:   "generated-" + estimate.ID + ".txt",
		Features:   projectScope.Features,
		FinalPrice: estimate.TotalCost,
		Metadata:   map[string]any{"source": "estimate", "confidence": estimate.Confidence.String()},
	})
	if err != nil {
		logging.Warn("failed to ingest generated proposal", zap.Error(err))
	}
}
