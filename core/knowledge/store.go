// Package knowledge defines the knowledge-base collaborator interfaces and
// the historical insight computations built on top of them.
//
// The core only ever reads records; ingestion is append-only. Stores are
// owned by the persistence layer and passed in as snapshots, so a single
// estimate call never refreshes mid-calculation.
package knowledge

import (
	"context"

	"github.com/shopspring/decimal"

	"sow-estimator/core/types"
)

// RateCardStore owns the mutable rate card. Replace is whole-document:
// roles absent from the new card are removed.
type RateCardStore interface {
	// Get returns the current rate card
	Get(ctx context.Context) (types.RateCard, error)

	// Replace swaps the entire card for the given one
	Replace(ctx context.Context, card types.RateCard) error
}

// Store persists knowledge records extracted from past SOWs and chats
type Store interface {
	// Insert appends one record
	Insert(ctx context.Context, record *types.KnowledgeRecord) error

	// All returns every stored record
	All(ctx context.Context) ([]*types.KnowledgeRecord, error)

	// FindSimilar returns records sharing at least one feature with the
	// given set, highest overlap first
	FindSimilar(ctx context.Context, features []types.FeatureTag) ([]*types.KnowledgeRecord, error)

	// AveragePrice returns the mean recorded final price, and false when
	// no priced records exist
	AveragePrice(ctx context.Context) (decimal.Decimal, bool, error)
}
