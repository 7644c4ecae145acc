// Package knowledge - insight computation tests
package knowledge

import (
	"encoding/json"
	"testing"

	"github.com/shopspring/decimal"

	"sow-estimator/core/types"
)

func record(id string, price int64, features ...types.FeatureTag) *types.KnowledgeRecord {
	return &types.KnowledgeRecord{
		ID:         id,
		Features:   features,
		FinalPrice: decimal.NewFromInt(price),
	}
}

// TestComputeNeutralDefaults verifies an empty snapshot yields neutral
// insights
func TestComputeNeutralDefaults(t *testing.T) {
	ins := Compute(nil, []types.FeatureTag{"booking"})

	if ins.SimilarityScore != DefaultSimilarity {
		t.Errorf("SimilarityScore = %v, want %v", ins.SimilarityScore, DefaultSimilarity)
	}
	if ins.HasAveragePrice {
		t.Error("HasAveragePrice = true with no records")
	}
	if len(ins.Similar) != 0 {
		t.Errorf("Similar = %v, want empty", ins.Similar)
	}
}

// TestFindSimilarOrdering verifies overlap-descending order with stable
// ties and the result cap
func TestFindSimilarOrdering(t *testing.T) {
	records := []*types.KnowledgeRecord{
		record("one-overlap", 1000, "booking"),
		record("no-overlap", 2000, "reports"),
		record("two-overlap", 3000, "booking", "blog"),
		record("also-one", 4000, "blog"),
	}

	similar := FindSimilar(records, []types.FeatureTag{"booking", "blog"})

	if len(similar) != 3 {
		t.Fatalf("got %d similar records, want 3", len(similar))
	}
	if similar[0].ID != "two-overlap" {
		t.Errorf("best match = %s, want two-overlap", similar[0].ID)
	}
	// Equal overlap keeps snapshot order
	if similar[1].ID != "one-overlap" || similar[2].ID != "also-one" {
		t.Errorf("tie order = %s, %s; want one-overlap, also-one", similar[1].ID, similar[2].ID)
	}
}

// TestFindSimilarCap verifies at most five records return
func TestFindSimilarCap(t *testing.T) {
	records := []*types.KnowledgeRecord{}
	for i := 0; i < 8; i++ {
		records = append(records, record("r", 1000, "booking"))
	}

	similar := FindSimilar(records, []types.FeatureTag{"booking"})
	if len(similar) != maxSimilar {
		t.Errorf("got %d similar records, want %d", len(similar), maxSimilar)
	}
}

// TestSimilarityScore verifies best-overlap over requested features
func TestSimilarityScore(t *testing.T) {
	records := []*types.KnowledgeRecord{
		record("full", 1000, "booking", "blog"),
	}

	ins := Compute(records, []types.FeatureTag{"booking", "blog"})
	if ins.SimilarityScore != 1.0 {
		t.Errorf("SimilarityScore = %v, want 1.0", ins.SimilarityScore)
	}

	ins = Compute(records, []types.FeatureTag{"booking", "blog", "auth", "reports"})
	if ins.SimilarityScore != 0.5 {
		t.Errorf("SimilarityScore = %v, want 0.5", ins.SimilarityScore)
	}

	// No requested features keeps the neutral default
	ins = Compute(records, nil)
	if ins.SimilarityScore != DefaultSimilarity {
		t.Errorf("SimilarityScore = %v, want %v", ins.SimilarityScore, DefaultSimilarity)
	}
}

// TestAveragePrice verifies only positive prices count
func TestAveragePrice(t *testing.T) {
	records := []*types.KnowledgeRecord{
		record("a", 10000, "booking"),
		record("b", 0, "blog"),
		record("c", 20000, "auth"),
	}

	ins := Compute(records, []types.FeatureTag{"booking"})
	if !ins.HasAveragePrice {
		t.Fatal("HasAveragePrice = false")
	}
	if !ins.AveragePrice.Equal(decimal.NewFromInt(15000)) {
		t.Errorf("AveragePrice = %s, want 15000", ins.AveragePrice)
	}

	unpriced := []*types.KnowledgeRecord{record("z", 0, "booking")}
	if ins := Compute(unpriced, nil); ins.HasAveragePrice {
		t.Error("HasAveragePrice = true with only unpriced records")
	}
}

// TestCommonQuestions verifies bot question mining and frequency ordering
func TestCommonQuestions(t *testing.T) {
	chatA := []types.ChatMessage{
		{From: "bot", Text: "Do you need a booking system?"},
		{From: "user", Text: "Yes"},
		{From: "bot", Text: "Thanks, noted."},
		{From: "bot", Text: "What is your budget?"},
	}
	chatB := []types.ChatMessage{
		{From: "bot", Text: "What is your budget?"},
		{From: "user", Text: "Around 10k?"},
	}

	records := []*types.KnowledgeRecord{
		{ID: "a", Features: []types.FeatureTag{"booking"}, FinalPrice: decimal.NewFromInt(1), Metadata: map[string]any{"chat": chatA}},
		{ID: "b", Features: []types.FeatureTag{"booking"}, FinalPrice: decimal.NewFromInt(1), Metadata: map[string]any{"chat": chatB}},
	}

	ins := Compute(records, []types.FeatureTag{"booking"})

	if len(ins.CommonQuestions) != 2 {
		t.Fatalf("CommonQuestions = %v, want 2 entries", ins.CommonQuestions)
	}
	// Budget question appears in both chats, so it sorts first; user
	// messages and non-questions never qualify
	if ins.CommonQuestions[0] != "What is your budget?" {
		t.Errorf("CommonQuestions[0] = %q, want the budget question", ins.CommonQuestions[0])
	}
	if ins.CommonQuestions[1] != "Do you need a booking system?" {
		t.Errorf("CommonQuestions[1] = %q", ins.CommonQuestions[1])
	}
}

// TestChatQuestionsSurviveJSONRoundTrip verifies mining works on metadata
// that came back from storage as generic JSON
func TestChatQuestionsSurviveJSONRoundTrip(t *testing.T) {
	original := map[string]any{
		"chat": []types.ChatMessage{
			{From: "bot", Text: "Which CMS do you prefer?"},
			{From: "user", Text: "WordPress"},
		},
	}
	data, err := json.Marshal(original)
	if err != nil {
		t.Fatalf("marshal failed: %v", err)
	}
	var restored map[string]any
	if err := json.Unmarshal(data, &restored); err != nil {
		t.Fatalf("unmarshal failed: %v", err)
	}

	r := &types.KnowledgeRecord{
		Features:   []types.FeatureTag{"booking"},
		FinalPrice: decimal.NewFromInt(1),
		Metadata:   restored,
	}
	ins := Compute([]*types.KnowledgeRecord{r}, []types.FeatureTag{"booking"})

	if len(ins.CommonQuestions) != 1 || ins.CommonQuestions[0] != "Which CMS do you prefer?" {
		t.Errorf("CommonQuestions = %v, want the CMS question", ins.CommonQuestions)
	}
}

// TestFeatureOverlap verifies duplicate requested features count once
func TestFeatureOverlap(t *testing.T) {
	r := record("r", 0, "booking", "blog")

	if got := r.FeatureOverlap([]types.FeatureTag{"booking", "booking", "blog"}); got != 2 {
		t.Errorf("FeatureOverlap = %d, want 2", got)
	}
	if got := r.FeatureOverlap(nil); got != 0 {
		t.Errorf("FeatureOverlap(nil) = %d, want 0", got)
	}
}
