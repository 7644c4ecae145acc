// Package types - Knowledge base records
package types

import "github.com/shopspring/decimal"

// KnowledgeRecord is one persisted past SOW or chat transcript. The core
// only ever reads these; ingestion is append-only.
type KnowledgeRecord struct {
	// ID uniquely identifies the record
	ID string `json:"id,omitempty"`

	// Filename is the source document name, when known
	Filename string `json:"filename,omitempty"`

	// Features are the feature tags extracted from the document
	Features []FeatureTag `json:"features"`

	// FinalPrice is the recorded final price, zero when unknown
	FinalPrice decimal.Decimal `json:"final_price"`

	// Metadata is an opaque blob carried through ingestion (may include
	// a "chat" transcript used for historical question mining)
	Metadata map[string]any `json:"metadata,omitempty"`
}

// FeatureOverlap counts features shared with the given set
func (r *KnowledgeRecord) FeatureOverlap(features []FeatureTag) int {
	have := make(map[FeatureTag]bool, len(r.Features))
	for _, f := range r.Features {
		have[f] = true
	}
	overlap := 0
	seen := make(map[FeatureTag]bool, len(features))
	for _, f := range features {
		if have[f] && !seen[f] {
			overlap++
			seen[f] = true
		}
	}
	return overlap
}

// ChatMessage is one message of an ingested chat transcript
type ChatMessage struct {
	// From identifies the sender ("bot" or "user")
	From string `json:"from"`

	// Text is the message body
	Text string `json:"text"`
}
