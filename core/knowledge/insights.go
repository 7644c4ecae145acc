// Package knowledge - Historical insight computation
package knowledge

import (
	"sort"
	"strings"

	"github.com/shopspring/decimal"

	"sow-estimator/core/types"
)

// maxSimilar caps the similar-project list returned by an insight query
const maxSimilar = 5

// DefaultSimilarity is the similarity score assumed when no historical
// data is available
const DefaultSimilarity = 0.5

// Insights summarizes what the knowledge base knows about projects similar
// to the one being estimated
type Insights struct {
	// Similar holds the most overlapping past records, best first
	Similar []*types.KnowledgeRecord

	// AveragePrice is the mean recorded final price across the whole base
	AveragePrice decimal.Decimal

	// HasAveragePrice reports whether any priced records exist
	HasAveragePrice bool

	// CommonQuestions are past clarifying questions seen in similar
	// chats, most frequent first
	CommonQuestions []string

	// SimilarityScore in [0,1] expresses how well the best past record
	// covers the current feature set
	SimilarityScore float64
}

// Compute derives insights for a feature set from a record snapshot.
// A nil or empty snapshot yields the neutral defaults.
func Compute(records []*types.KnowledgeRecord, features []types.FeatureTag) *Insights {
	ins := &Insights{SimilarityScore: DefaultSimilarity}
	if len(records) == 0 {
		return ins
	}

	ins.AveragePrice, ins.HasAveragePrice = averagePrice(records)
	ins.Similar = FindSimilar(records, features)

	if len(features) > 0 && len(ins.Similar) > 0 {
		best := ins.Similar[0].FeatureOverlap(features)
		ins.SimilarityScore = float64(best) / float64(len(features))
	}

	ins.CommonQuestions = commonQuestions(ins.Similar)
	return ins
}

// FindSimilar returns up to maxSimilar records sharing at least one
// feature, highest overlap first. Ties keep snapshot order.
func FindSimilar(records []*types.KnowledgeRecord, features []types.FeatureTag) []*types.KnowledgeRecord {
	type scored struct {
		overlap int
		record  *types.KnowledgeRecord
	}
	matches := []scored{}
	for _, r := range records {
		if overlap := r.FeatureOverlap(features); overlap > 0 {
			matches = append(matches, scored{overlap: overlap, record: r})
		}
	}
	sort.SliceStable(matches, func(i, j int) bool {
		return matches[i].overlap > matches[j].overlap
	})

	out := []*types.KnowledgeRecord{}
	for i, m := range matches {
		if i >= maxSimilar {
			break
		}
		out = append(out, m.record)
	}
	return out
}

func averagePrice(records []*types.KnowledgeRecord) (decimal.Decimal, bool) {
	sum := decimal.Zero
	count := 0
	for _, r := range records {
		if r.FinalPrice.IsPositive() {
			sum = sum.Add(r.FinalPrice)
			count++
		}
	}
	if count == 0 {
		return decimal.Zero, false
	}
	return sum.Div(decimal.NewFromInt(int64(count))), true
}

// commonQuestions mines bot messages ending in "?" from the chat
// transcripts of similar records and returns them most frequent first
func commonQuestions(similar []*types.KnowledgeRecord) []string {
	counts := make(map[string]int)
	order := []string{}
	for _, r := range similar {
		for _, q := range chatQuestions(r) {
			if counts[q] == 0 {
				order = append(order, q)
			}
			counts[q]++
		}
	}
	sort.SliceStable(order, func(i, j int) bool {
		return counts[order[i]] > counts[order[j]]
	})
	return order
}

// chatQuestions extracts question-shaped bot messages from a record's
// metadata chat transcript
func chatQuestions(r *types.KnowledgeRecord) []string {
	raw, ok := r.Metadata["chat"]
	if !ok {
		return nil
	}

	out := []string{}
	appendMsg := func(from, text string) {
		text = strings.TrimSpace(text)
		if from == "bot" && strings.HasSuffix(text, "?") {
			out = append(out, text)
		}
	}

	switch chat := raw.(type) {
	case []types.ChatMessage:
		for _, m := range chat {
			appendMsg(m.From, m.Text)
		}
	case []any:
		// Metadata round-tripped through JSON
		for _, entry := range chat {
			m, ok := entry.(map[string]any)
			if !ok {
				continue
			}
			from, _ := m["from"].(string)
			text, _ := m["text"].(string)
			appendMsg(from, text)
		}
	}
	return out
}
