// Package estimation implements the cost engine: the pipeline that turns a
// project scope, a rate card, and historical knowledge into a deterministic,
// auditable hours/cost breakdown by role and phase.
//
// The engine is stateless per call and pure over its inputs, except for the
// single bounded suspend point: the optional advisory corrector call in
// lightweight mode. Rate card and knowledge snapshots are taken by the
// caller and never refreshed mid-calculation.
package estimation

import (
	"context"
	"math"
	"strings"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"sow-estimator/core/catalog"
	"sow-estimator/core/knowledge"
	"sow-estimator/core/types"
	"sow-estimator/internal/logging"
)

// Engine computes estimates from scopes, rate cards, and insights
type Engine struct {
	catalog   *catalog.Catalog
	config    Config
	corrector Corrector
}

// EngineOption configures an Engine
type EngineOption func(*Engine)

// WithCorrector attaches the optional advisory corrector
func WithCorrector(c Corrector) EngineOption {
	return func(e *Engine) {
		e.corrector = c
	}
}

// NewEngine creates an engine over a catalog and a mode configuration
func NewEngine(cat *catalog.Catalog, cfg Config, opts ...EngineOption) *Engine {
	e := &Engine{catalog: cat, config: cfg}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Request carries the inputs of one estimate call
type Request struct {
	// Scope is the canonical project scope
	Scope *types.ProjectScope

	// RateCard is the rate snapshot for this call
	RateCard types.RateCard

	// Insights is the historical knowledge snapshot; nil means no data
	Insights *knowledge.Insights

	// Text is the original client description (lightweight mode)
	Text string

	// Answers are the collected clarification rounds (lightweight mode)
	Answers []types.AnswerItem
}

// Estimate runs the configured estimation mode. The only error returned is
// a malformed scope; collaborator failures degrade to the heuristic path.
func (e *Engine) Estimate(ctx context.Context, req *Request) (*types.Estimate, error) {
	if err := req.Scope.Validate(); err != nil {
		return nil, err
	}

	insights := req.Insights
	if insights == nil {
		insights = &knowledge.Insights{SimilarityScore: knowledge.DefaultSimilarity}
	}

	var est *types.Estimate
	if e.config.Mode == ModeLightweight {
		est = e.estimateLightweight(ctx, req, insights)
	} else {
		est = e.estimateTemplate(req.Scope, req.RateCard, insights)
	}

	est.ID = uuid.NewString()
	logging.Debug("estimate computed",
		zap.String("id", est.ID),
		zap.String("mode", string(e.config.Mode)),
		zap.Int("total_hours", est.TotalHours),
		zap.String("total_cost", est.TotalCost.String()),
		zap.String("confidence", est.Confidence.String()))
	return est, nil
}

// estimateTemplate is the template-driven multi-role model
func (e *Engine) estimateTemplate(scope *types.ProjectScope, card types.RateCard, insights *knowledge.Insights) *types.Estimate {
	rawHours := e.rawHours(scope)
	totalHours := int(math.Round(rawHours * e.complexityMultiplier(scope)))

	roles, totalCost := e.allocateRoles(totalHours, scope, card)
	level := confidenceLevel(confidenceScore(scope, insights.SimilarityScore))

	return &types.Estimate{
		Roles:      roles,
		Phases:     e.allocatePhases(totalHours, scope.ProjectType, card),
		TotalHours: totalHours,
		TotalCost:  e.roundCost(totalCost),
		Confidence: level,
		Variance:   level.Variance(),
		Source:     types.CostSourceHeuristic,
	}
}

// rawHours is base + feature + integration hours, before complexity
func (e *Engine) rawHours(scope *types.ProjectScope) float64 {
	baseHours := e.catalog.DefaultBaseHours
	featureHours := 0
	if tpl := e.catalog.TemplateFor(scope.ProjectType); tpl != nil {
		baseHours = tpl.BaseHours
		for _, feature := range scope.Features {
			// Features outside the table contribute nothing
			featureHours += tpl.FeatureHours[feature]
		}
	}
	integrationHours := e.catalog.IntegrationHours * len(scope.Integrations)
	return float64(baseHours + featureHours + integrationHours)
}

// complexityMultiplier starts at 1.0 and accumulates the integration,
// security, compliance, and management contributions
func (e *Engine) complexityMultiplier(scope *types.ProjectScope) float64 {
	multiplier := 1.0
	multiplier += e.config.IntegrationFactor * float64(len(scope.Integrations))
	if scope.Security != "" && scope.Security != types.SecurityBasic {
		multiplier += e.config.SecurityFactor
	}
	if scope.Compliance != "" {
		multiplier += e.config.ComplianceFactor
	}
	multiplier += e.config.ManagementBuffer
	return multiplier
}

// allocateRoles splits total hours across the type's team composition.
// Untemplated types get no role breakdown and cost from the average rate.
func (e *Engine) allocateRoles(totalHours int, scope *types.ProjectScope, card types.RateCard) ([]types.RoleAllocation, decimal.Decimal) {
	tpl := e.catalog.TemplateFor(scope.ProjectType)
	if tpl == nil {
		cost := card.Average().Mul(decimal.NewFromInt(int64(totalHours))).Round(0)
		return []types.RoleAllocation{}, cost
	}
	return e.allocateTeam(totalHours, tpl.Team, card, e.catalog.DefaultRate)
}

// allocateTeam applies a role-fraction table against the rate card
func (e *Engine) allocateTeam(totalHours int, team []catalog.RoleFraction, card types.RateCard, fallbackRate decimal.Decimal) ([]types.RoleAllocation, decimal.Decimal) {
	roles := make([]types.RoleAllocation, 0, len(team))
	totalCost := decimal.Zero
	for _, rf := range team {
		hours := int(math.Round(float64(totalHours) * rf.Fraction))
		rate := card.Get(rf.Role, fallbackRate)
		cost := rate.Mul(decimal.NewFromInt(int64(hours))).Round(0)
		roles = append(roles, types.RoleAllocation{
			Name:  rf.Role,
			Hours: hours,
			Rate:  rate,
			Cost:  cost,
		})
		totalCost = totalCost.Add(cost)
	}
	return roles, totalCost
}

// allocatePhases splits total hours across the phase distribution at the
// average card rate. Independent of role allocation.
func (e *Engine) allocatePhases(totalHours int, projectType types.ProjectType, card types.RateCard) []types.PhaseAllocation {
	avgRate := card.Average()
	phases := []types.PhaseAllocation{}
	for _, pf := range e.catalog.PhasesFor(projectType) {
		hours := int(math.Round(float64(totalHours) * pf.Fraction))
		phases = append(phases, types.PhaseAllocation{
			Phase: pf.Phase,
			Hours: hours,
			Cost:  avgRate.Mul(decimal.NewFromInt(int64(hours))).Round(0),
		})
	}
	return phases
}

// estimateLightweight is the flat-fraction additive model with
// historical/advisory cost blending
func (e *Engine) estimateLightweight(ctx context.Context, req *Request, insights *knowledge.Insights) *types.Estimate {
	scope := req.Scope

	calc := e.config.BaseHours +
		e.config.HoursPerFeature*len(scope.Features) +
		e.config.HoursPerIntegration*countAnswerIntegrations(req.Answers) -
		e.config.ClarityReduction*len(req.Answers)
	totalHours := calc
	if totalHours < e.config.MinimumHours {
		totalHours = e.config.MinimumHours
	}

	roles, rawCost := e.allocateTeam(totalHours, e.catalog.LightweightTeam, req.RateCard, e.catalog.LightweightDefaultRate)

	totalCost, source, note := e.resolveCost(ctx, req, roles, rawCost, insights)
	level := confidenceLevel(confidenceScore(scope, insights.SimilarityScore))

	return &types.Estimate{
		Roles:        roles,
		Phases:       e.allocatePhases(totalHours, scope.ProjectType, req.RateCard),
		TotalHours:   totalHours,
		TotalCost:    e.roundCost(totalCost),
		Confidence:   level,
		Variance:     level.Variance(),
		Source:       source,
		AdvisoryNote: note,
	}
}

// resolveCost applies the advisory correction when available and valid,
// falls back to historical blending, and finally to the raw heuristic.
// This never returns an error: every failure mode degrades silently.
func (e *Engine) resolveCost(ctx context.Context, req *Request, roles []types.RoleAllocation, rawCost decimal.Decimal, insights *knowledge.Insights) (decimal.Decimal, types.CostSource, string) {
	if e.corrector != nil {
		suggestion, err := e.corrector.Suggest(ctx, req.Text, req.Answers, roles, req.RateCard)
		if err != nil {
			logging.Warn("advisory corrector unavailable, using heuristic path", zap.Error(err))
		} else if suggestion != nil {
			return suggestion.AdjustedTotalCost, types.CostSourceAdvisory, suggestion.Rationale
		}
	}

	if insights.HasAveragePrice {
		blended := rawCost.Mul(decimal.NewFromFloat(e.config.BlendHeuristicWeight)).
			Add(insights.AveragePrice.Mul(decimal.NewFromFloat(e.config.BlendHistoricalWeight))).
			Round(2)
		return blended, types.CostSourceBlended, ""
	}

	return rawCost, types.CostSourceHeuristic, ""
}

// roundCost applies the presentation rounding configured for the mode
func (e *Engine) roundCost(cost decimal.Decimal) decimal.Decimal {
	if e.config.CostRounding <= 0 {
		return cost.Round(2)
	}
	unit := decimal.NewFromInt(e.config.CostRounding)
	return cost.Div(unit).Round(0).Mul(unit)
}

// countAnswerIntegrations counts extra integrations named in answers to
// integration questions: one per listed system beyond the first
func countAnswerIntegrations(answers []types.AnswerItem) int {
	extra := 0
	for _, a := range answers {
		q := strings.ToLower(a.Question)
		ans := strings.ToLower(a.Answer)
		if !strings.Contains(q, "integrat") && !strings.Contains(ans, "integrat") {
			continue
		}
		items := 0
		for _, part := range strings.FieldsFunc(a.Answer, func(r rune) bool {
			return r == ',' || r == ';' || r == '\n'
		}) {
			if strings.TrimSpace(part) != "" {
				items++
			}
		}
		if items > 1 {
			extra += items - 1
		}
	}
	return extra
}
