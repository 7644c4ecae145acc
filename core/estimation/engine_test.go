// Package estimation - engine tests
package estimation

import (
	"context"
	"testing"

	"github.com/shopspring/decimal"

	"sow-estimator/core/catalog"
	"sow-estimator/core/knowledge"
	"sow-estimator/core/types"
)

func templateEngine(t *testing.T, opts ...EngineOption) *Engine {
	t.Helper()
	return NewEngine(catalog.Default(), TemplateConfig(), opts...)
}

func lightweightEngine(t *testing.T, opts ...EngineOption) *Engine {
	t.Helper()
	return NewEngine(catalog.Default(), LightweightConfig(), opts...)
}

func defaultCard() types.RateCard {
	return catalog.Default().DefaultRateCard.Clone()
}

func webAppScope(features ...types.FeatureTag) *types.ProjectScope {
	if features == nil {
		features = []types.FeatureTag{}
	}
	return &types.ProjectScope{
		ProjectType:  types.ProjectWebApp,
		Features:     features,
		Integrations: []string{},
		Platforms:    []string{"Web"},
		Security:     types.SecurityBasic,
	}
}

// TestTemplateWordPressScenario walks the full template calculation for
// a WordPress site with booking and a blog
func TestTemplateWordPressScenario(t *testing.T) {
	e := templateEngine(t)
	scope := &types.ProjectScope{
		ProjectType:  types.ProjectWordPress,
		Features:     []types.FeatureTag{"booking", "blog"},
		Integrations: []string{},
		Platforms:    []string{"Web"},
		Security:     types.SecurityBasic,
	}

	est, err := e.Estimate(context.Background(), &Request{Scope: scope, RateCard: defaultCard()})
	if err != nil {
		t.Fatalf("Estimate failed: %v", err)
	}

	// 80 base + 40 booking + 20 blog = 140 raw, times the 1.15
	// management-only multiplier
	if est.TotalHours != 161 {
		t.Errorf("TotalHours = %d, want 161", est.TotalHours)
	}

	// PM 24h@90 + WordPress 97h@80 + Designer 40h@85 = 13320, presented
	// to the nearest 100
	if !est.TotalCost.Equal(decimal.NewFromInt(13300)) {
		t.Errorf("TotalCost = %s, want 13300", est.TotalCost)
	}

	if len(est.Roles) != 3 {
		t.Fatalf("got %d roles, want 3", len(est.Roles))
	}
	if est.Roles[1].Name != "WordPress Developer" || est.Roles[1].Hours != 97 {
		t.Errorf("WordPress Developer allocation = %+v, want 97 hours", est.Roles[1])
	}

	// Clarity 0.8 + completeness 0.7 + default similarity 0.5 + simple
	// integrations 0.8 averages to exactly 0.7
	if est.Confidence != types.ConfidenceP80 {
		t.Errorf("Confidence = %s, want P80", est.Confidence)
	}
	if est.Variance != 0.15 {
		t.Errorf("Variance = %v, want 0.15", est.Variance)
	}
	if est.Source != types.CostSourceHeuristic {
		t.Errorf("Source = %s, want heuristic", est.Source)
	}
	if est.ID == "" {
		t.Error("estimate has no ID")
	}
}

// TestComplexityMultiplier verifies each multiplier contribution in
// isolation
func TestComplexityMultiplier(t *testing.T) {
	tests := []struct {
		name     string
		mutate   func(*types.ProjectScope)
		expected int
	}{
		{"baseline", func(s *types.ProjectScope) {}, 138},                             // 120 * 1.15
		{"standard security", func(s *types.ProjectScope) { s.Security = types.SecurityStandard }, 162}, // 120 * 1.35
		{"compliance", func(s *types.ProjectScope) { s.Compliance = "HIPAA" }, 174},   // 120 * 1.45
		{
			// raw 120+2*10=140, multiplier 1.15+0.2
			"two integrations",
			func(s *types.ProjectScope) { s.Integrations = []string{"Stripe", "Salesforce"} },
			189,
		},
	}

	e := templateEngine(t)
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			scope := webAppScope()
			tt.mutate(scope)
			est, err := e.Estimate(context.Background(), &Request{Scope: scope, RateCard: defaultCard()})
			if err != nil {
				t.Fatalf("Estimate failed: %v", err)
			}
			if est.TotalHours != tt.expected {
				t.Errorf("TotalHours = %d, want %d", est.TotalHours, tt.expected)
			}
		})
	}
}

// TestUnknownFeaturesContributeNothing verifies untemplated feature tags
// add zero hours
func TestUnknownFeaturesContributeNothing(t *testing.T) {
	e := templateEngine(t)

	with, err := e.Estimate(context.Background(), &Request{Scope: webAppScope("nonexistent_feature"), RateCard: defaultCard()})
	if err != nil {
		t.Fatalf("Estimate failed: %v", err)
	}
	without, err := e.Estimate(context.Background(), &Request{Scope: webAppScope(), RateCard: defaultCard()})
	if err != nil {
		t.Fatalf("Estimate failed: %v", err)
	}
	if with.TotalHours != without.TotalHours {
		t.Errorf("unknown feature changed hours: %d vs %d", with.TotalHours, without.TotalHours)
	}
}

// TestUnknownProjectType verifies untemplated types estimate from the
// default base hours at the average rate with no role breakdown
func TestUnknownProjectType(t *testing.T) {
	e := templateEngine(t)
	scope := &types.ProjectScope{
		ProjectType:  types.ProjectUnknown,
		Features:     []types.FeatureTag{},
		Integrations: []string{},
		Platforms:    []string{"Web"},
	}

	est, err := e.Estimate(context.Background(), &Request{Scope: scope, RateCard: defaultCard()})
	if err != nil {
		t.Fatalf("Estimate failed: %v", err)
	}

	// 100 default base hours * 1.15
	if est.TotalHours != 115 {
		t.Errorf("TotalHours = %d, want 115", est.TotalHours)
	}
	if len(est.Roles) != 0 {
		t.Errorf("got %d roles for unknown type, want none", len(est.Roles))
	}
	// The default card averages to exactly 100/h: 115 * 100 = 11500
	if !est.TotalCost.Equal(decimal.NewFromInt(11500)) {
		t.Errorf("TotalCost = %s, want 11500", est.TotalCost)
	}
	// Unknown types fall back to the generic phase distribution
	if len(est.Phases) == 0 {
		t.Error("unknown type has no phases")
	}
}

// TestPhaseHoursSumToTotal verifies phase allocations reconcile with the
// total within rounding
func TestPhaseHoursSumToTotal(t *testing.T) {
	e := templateEngine(t)
	scopes := []*types.ProjectScope{
		webAppScope("auth", "reports"),
		{ProjectType: types.ProjectWordPress, Features: []types.FeatureTag{"booking"}, Integrations: []string{"Stripe"}, Platforms: []string{"Web"}},
		{ProjectType: types.ProjectCloud, Features: []types.FeatureTag{"ci_cd"}, Integrations: []string{}, Platforms: []string{"Web"}},
	}

	for _, scope := range scopes {
		est, err := e.Estimate(context.Background(), &Request{Scope: scope, RateCard: defaultCard()})
		if err != nil {
			t.Fatalf("Estimate failed: %v", err)
		}
		sum := 0
		for _, p := range est.Phases {
			sum += p.Hours
		}
		// Five independently rounded phase shares can drift up to 2
		// hours from the total (e.g. WordPress fractions at 110h round
		// to 112), so ±1 is not a reachable bound
		diff := sum - est.TotalHours
		if diff < -2 || diff > 2 {
			t.Errorf("%s: phase hours sum %d vs total %d", scope.ProjectType, sum, est.TotalHours)
		}
	}
}

// TestConfidenceLevels verifies the signal averaging and bucket thresholds
func TestConfidenceLevels(t *testing.T) {
	tests := []struct {
		name       string
		scope      *types.ProjectScope
		similarity float64
		expected   types.ConfidenceLevel
		variance   float64
	}{
		{
			// (0.8 + 0.7 + 1.0 + 0.8) / 4 = 0.825
			"strong history", webAppScope("auth"), 1.0, types.ConfidenceP90, 0.10,
		},
		{
			// (0.8 + 0.7 + 0.5 + 0.8) / 4 = 0.7
			"default history", webAppScope("auth"), 0.5, types.ConfidenceP80, 0.15,
		},
		{
			// (0.3 + 0.7 + 0.5 + 0.8) / 4 = 0.575
			"no features", webAppScope(), 0.5, types.ConfidenceP50, 0.30,
		},
		{
			// (0.3 + 0.7 + 0.7 + 0.8) / 4 = 0.625
			"no features better history", webAppScope(), 0.7, types.ConfidenceP70, 0.20,
		},
	}

	e := templateEngine(t)
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			est, err := e.Estimate(context.Background(), &Request{
				Scope:    tt.scope,
				RateCard: defaultCard(),
				Insights: &knowledge.Insights{SimilarityScore: tt.similarity},
			})
			if err != nil {
				t.Fatalf("Estimate failed: %v", err)
			}
			if est.Confidence != tt.expected {
				t.Errorf("Confidence = %s, want %s", est.Confidence, tt.expected)
			}
			if est.Variance != tt.variance {
				t.Errorf("Variance = %v, want %v", est.Variance, tt.variance)
			}
		})
	}
}

// TestManyIntegrationsDegradeConfidence verifies the integration
// complexity signal
func TestManyIntegrationsDegradeConfidence(t *testing.T) {
	e := templateEngine(t)
	scope := webAppScope("auth")
	scope.Integrations = []string{"Stripe", "Salesforce", "Twilio"}

	// (0.8 + 0.7 + 1.0 + 0.6) / 4 = 0.775: three integrations push P90
	// down to P80 even with perfect similarity
	est, err := e.Estimate(context.Background(), &Request{
		Scope:    scope,
		RateCard: defaultCard(),
		Insights: &knowledge.Insights{SimilarityScore: 1.0},
	})
	if err != nil {
		t.Fatalf("Estimate failed: %v", err)
	}
	if est.Confidence != types.ConfidenceP80 {
		t.Errorf("Confidence = %s, want P80", est.Confidence)
	}
}

// TestInvalidScopeRejected verifies the single fatal path
func TestInvalidScopeRejected(t *testing.T) {
	e := templateEngine(t)

	if _, err := e.Estimate(context.Background(), &Request{Scope: nil, RateCard: defaultCard()}); err == nil {
		t.Error("nil scope accepted")
	}

	scope := &types.ProjectScope{ProjectType: "", Features: []types.FeatureTag{}, Platforms: []string{}}
	if _, err := e.Estimate(context.Background(), &Request{Scope: scope, RateCard: defaultCard()}); err == nil {
		t.Error("empty project type accepted")
	}
}

// TestLightweightAdditiveModel verifies the flat hour calculation
func TestLightweightAdditiveModel(t *testing.T) {
	e := lightweightEngine(t)
	scope := webAppScope("auth", "reports")
	answers := []types.AnswerItem{
		{Question: "Are there integrations with other systems or APIs?", Answer: "Stripe, Salesforce"},
	}

	est, err := e.Estimate(context.Background(), &Request{
		Scope:    scope,
		RateCard: defaultCard(),
		Text:     "a web app",
		Answers:  answers,
	})
	if err != nil {
		t.Fatalf("Estimate failed: %v", err)
	}

	// 40 base + 2*12 features + 1 extra integration * 10 - 1 answer * 3
	if est.TotalHours != 71 {
		t.Errorf("TotalHours = %d, want 71", est.TotalHours)
	}
	if est.Source != types.CostSourceHeuristic {
		t.Errorf("Source = %s, want heuristic", est.Source)
	}
	if len(est.Roles) != 6 {
		t.Errorf("got %d roles, want the 6-role flat team", len(est.Roles))
	}
}

// TestLightweightFloor verifies hours never drop below the minimum
func TestLightweightFloor(t *testing.T) {
	e := lightweightEngine(t)
	scope := webAppScope()

	answers := make([]types.AnswerItem, 7)
	for i := range answers {
		answers[i] = types.AnswerItem{Question: "Q?", Answer: "A"}
	}

	// 40 - 7*3 = 19, floored to 20
	est, err := e.Estimate(context.Background(), &Request{Scope: scope, RateCard: defaultCard(), Answers: answers})
	if err != nil {
		t.Fatalf("Estimate failed: %v", err)
	}
	if est.TotalHours != 20 {
		t.Errorf("TotalHours = %d, want the 20-hour floor", est.TotalHours)
	}
}

// TestLightweightBlending verifies the 60/40 historical blend
func TestLightweightBlending(t *testing.T) {
	e := lightweightEngine(t)
	scope := webAppScope("auth", "reports")
	answers := []types.AnswerItem{
		{Question: "Are there integrations with other systems or APIs?", Answer: "Stripe, Salesforce"},
	}

	est, err := e.Estimate(context.Background(), &Request{
		Scope:    scope,
		RateCard: defaultCard(),
		Answers:  answers,
		Insights: &knowledge.Insights{
			AveragePrice:    decimal.NewFromInt(10000),
			HasAveragePrice: true,
			SimilarityScore: 0.5,
		},
	})
	if err != nil {
		t.Fatalf("Estimate failed: %v", err)
	}

	// Raw cost at 71h over the flat team is 6860; blended:
	// 0.6*6860 + 0.4*10000 = 8116
	if !est.TotalCost.Equal(decimal.NewFromInt(8116)) {
		t.Errorf("TotalCost = %s, want 8116", est.TotalCost)
	}
	if est.Source != types.CostSourceBlended {
		t.Errorf("Source = %s, want blended", est.Source)
	}
}

// stubCorrector is a canned Corrector for engine tests
type stubCorrector struct {
	suggestion *Suggestion
	err        error
	calls      int
}

func (s *stubCorrector) Suggest(ctx context.Context, text string, answers []types.AnswerItem, breakdown []types.RoleAllocation, card types.RateCard) (*Suggestion, error) {
	s.calls++
	return s.suggestion, s.err
}

// TestAdvisoryPrecedence verifies a valid advisory override beats both
// blending and the heuristic
func TestAdvisoryPrecedence(t *testing.T) {
	corrector := &stubCorrector{
		suggestion: &Suggestion{AdjustedTotalCost: decimal.NewFromInt(9999), Rationale: "market rate"},
	}
	e := lightweightEngine(t, WithCorrector(corrector))

	est, err := e.Estimate(context.Background(), &Request{
		Scope:    webAppScope("auth"),
		RateCard: defaultCard(),
		Insights: &knowledge.Insights{AveragePrice: decimal.NewFromInt(10000), HasAveragePrice: true, SimilarityScore: 0.5},
	})
	if err != nil {
		t.Fatalf("Estimate failed: %v", err)
	}

	if !est.TotalCost.Equal(decimal.NewFromInt(9999)) {
		t.Errorf("TotalCost = %s, want the advisory 9999", est.TotalCost)
	}
	if est.Source != types.CostSourceAdvisory {
		t.Errorf("Source = %s, want advisory", est.Source)
	}
	if est.AdvisoryNote != "market rate" {
		t.Errorf("AdvisoryNote = %q, want the rationale", est.AdvisoryNote)
	}
	if corrector.calls != 1 {
		t.Errorf("corrector called %d times, want 1", corrector.calls)
	}
}

// TestAdvisoryFailureDegrades verifies corrector errors never fail the
// estimate
func TestAdvisoryFailureDegrades(t *testing.T) {
	corrector := &stubCorrector{err: context.DeadlineExceeded}
	e := lightweightEngine(t, WithCorrector(corrector))

	est, err := e.Estimate(context.Background(), &Request{
		Scope:    webAppScope("auth"),
		RateCard: defaultCard(),
		Insights: &knowledge.Insights{AveragePrice: decimal.NewFromInt(10000), HasAveragePrice: true, SimilarityScore: 0.5},
	})
	if err != nil {
		t.Fatalf("Estimate failed despite degradation contract: %v", err)
	}
	if est.Source != types.CostSourceBlended {
		t.Errorf("Source = %s, want blended fallback", est.Source)
	}
}

// TestCountAnswerIntegrations verifies the extra-integration counting
func TestCountAnswerIntegrations(t *testing.T) {
	tests := []struct {
		name     string
		answers  []types.AnswerItem
		expected int
	}{
		{"no answers", nil, 0},
		{"unrelated answer", []types.AnswerItem{{Question: "Timeline?", Answer: "March"}}, 0},
		{"single system", []types.AnswerItem{{Question: "Integrations?", Answer: "Stripe"}}, 0},
		{"two systems", []types.AnswerItem{{Question: "Integrations?", Answer: "Stripe, Salesforce"}}, 1},
		{"three systems semicolons", []types.AnswerItem{{Question: "Integrations?", Answer: "Stripe; Salesforce; Twilio"}}, 2},
		{"keyword in answer", []types.AnswerItem{{Question: "Anything else?", Answer: "integrate with Stripe, Twilio"}}, 1},
		{"blank items ignored", []types.AnswerItem{{Question: "Integrations?", Answer: "Stripe, , "}}, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := countAnswerIntegrations(tt.answers); got != tt.expected {
				t.Errorf("countAnswerIntegrations = %d, want %d", got, tt.expected)
			}
		})
	}
}

// TestRoundCost verifies presentation rounding behavior per mode
func TestRoundCost(t *testing.T) {
	templ := templateEngine(t)
	if got := templ.roundCost(decimal.NewFromInt(13320)); !got.Equal(decimal.NewFromInt(13300)) {
		t.Errorf("template roundCost(13320) = %s, want 13300", got)
	}
	if got := templ.roundCost(decimal.NewFromInt(13350)); !got.Equal(decimal.NewFromInt(13400)) {
		t.Errorf("template roundCost(13350) = %s, want 13400", got)
	}

	light := lightweightEngine(t)
	if got := light.roundCost(decimal.RequireFromString("6860.555")); !got.Equal(decimal.RequireFromString("6860.56")) {
		t.Errorf("lightweight roundCost(6860.555) = %s, want 6860.56", got)
	}
}
