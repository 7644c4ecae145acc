// Package postgres implements the rate card and knowledge stores on
// PostgreSQL for shared deployments. Semantics mirror the sqlite store:
// whole-document rate card replacement and append-only knowledge records.
package postgres

import (
	"context"
	"encoding/json"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"

	"sow-estimator/core/knowledge"
	"sow-estimator/core/types"
	"sow-estimator/internal/errors"
)

const schema = `
CREATE TABLE IF NOT EXISTS rate_card (
	role TEXT PRIMARY KEY,
	rate NUMERIC NOT NULL
);
CREATE TABLE IF NOT EXISTS sow_kb (
	id TEXT PRIMARY KEY,
	filename TEXT,
	features_json JSONB NOT NULL,
	final_price NUMERIC NOT NULL,
	metadata_json JSONB
);
`

// Store is the PostgreSQL-backed persistence collaborator. It implements
// both knowledge.RateCardStore and knowledge.Store.
type Store struct {
	pool *pgxpool.Pool
}

var (
	_ knowledge.RateCardStore = (*Store)(nil)
	_ knowledge.Store         = (*Store)(nil)
)

// Open connects to the database at dsn, verifies the connection, creates
// the schema and seeds the rate card with seedCard when the table is empty
func Open(ctx context.Context, dsn string, seedCard types.RateCard) (*Store, error) {
	pool, err := pgxpool.New(ctx, dsn)
	if err != nil {
		return nil, errors.Storage("creating connection pool", err)
	}
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, errors.Storage("pinging database", err)
	}
	if _, err := pool.Exec(ctx, schema); err != nil {
		pool.Close()
		return nil, errors.Storage("creating schema", err)
	}

	s := &Store{pool: pool}
	if err := s.seed(ctx, seedCard); err != nil {
		pool.Close()
		return nil, err
	}
	return s, nil
}

// Close releases the connection pool
func (s *Store) Close() {
	s.pool.Close()
}

func (s *Store) seed(ctx context.Context, card types.RateCard) error {
	var count int
	if err := s.pool.QueryRow(ctx, `SELECT COUNT(*) FROM rate_card`).Scan(&count); err != nil {
		return errors.Storage("counting rate card rows", err)
	}
	if count > 0 || len(card) == 0 {
		return nil
	}
	return s.Replace(ctx, card)
}

// Get returns the current rate card
func (s *Store) Get(ctx context.Context) (types.RateCard, error) {
	rows, err := s.pool.Query(ctx, `SELECT role, rate::text FROM rate_card`)
	if err != nil {
		return nil, errors.Storage("reading rate card", err)
	}
	defer rows.Close()

	card := types.RateCard{}
	for rows.Next() {
		var role, rate string
		if err := rows.Scan(&role, &rate); err != nil {
			return nil, errors.Storage("scanning rate card row", err)
		}
		value, err := decimal.NewFromString(rate)
		if err != nil {
			return nil, errors.Storage("parsing stored rate", err)
		}
		card[role] = value
	}
	return card, rows.Err()
}

// Replace swaps the entire rate card inside one transaction
func (s *Store) Replace(ctx context.Context, card types.RateCard) error {
	tx, err := s.pool.Begin(ctx)
	if err != nil {
		return errors.Storage("starting rate card transaction", err)
	}
	defer tx.Rollback(ctx)

	if _, err := tx.Exec(ctx, `DELETE FROM rate_card`); err != nil {
		return errors.Storage("clearing rate card", err)
	}
	for role, rate := range card {
		if _, err := tx.Exec(ctx,
			`INSERT INTO rate_card (role, rate) VALUES ($1, $2)`, role, rate.String()); err != nil {
			return errors.Storage("writing rate card row", err)
		}
	}
	return tx.Commit(ctx)
}

// Insert appends one knowledge record
func (s *Store) Insert(ctx context.Context, record *types.KnowledgeRecord) error {
	if record.ID == "" {
		record.ID = uuid.NewString()
	}

	featuresJSON, err := json.Marshal(record.Features)
	if err != nil {
		return errors.Storage("encoding features", err)
	}
	metadataJSON, err := json.Marshal(record.Metadata)
	if err != nil {
		return errors.Storage("encoding metadata", err)
	}

	_, err = s.pool.Exec(ctx,
		`INSERT INTO sow_kb (id, filename, features_json, final_price, metadata_json)
		 VALUES ($1, $2, $3, $4, $5)`,
		record.ID, record.Filename, featuresJSON, record.FinalPrice.String(), metadataJSON)
	if err != nil {
		return errors.Storage("inserting knowledge record", err)
	}
	return nil
}

// All returns every stored knowledge record
func (s *Store) All(ctx context.Context) ([]*types.KnowledgeRecord, error) {
	rows, err := s.pool.Query(ctx,
		`SELECT id, filename, features_json, final_price::text, metadata_json FROM sow_kb`)
	if err != nil {
		return nil, errors.Storage("reading knowledge records", err)
	}
	defer rows.Close()

	records := []*types.KnowledgeRecord{}
	for rows.Next() {
		record, err := scanRecord(rows)
		if err != nil {
			return nil, err
		}
		records = append(records, record)
	}
	return records, rows.Err()
}

// FindSimilar returns records sharing at least one feature, highest
// overlap first
func (s *Store) FindSimilar(ctx context.Context, features []types.FeatureTag) ([]*types.KnowledgeRecord, error) {
	records, err := s.All(ctx)
	if err != nil {
		return nil, err
	}
	return knowledge.FindSimilar(records, features), nil
}

// AveragePrice returns the mean recorded final price across priced records
func (s *Store) AveragePrice(ctx context.Context) (decimal.Decimal, bool, error) {
	var avg *string
	err := s.pool.QueryRow(ctx,
		`SELECT AVG(final_price)::text FROM sow_kb WHERE final_price > 0`).Scan(&avg)
	if err != nil {
		return decimal.Zero, false, errors.Storage("averaging final prices", err)
	}
	if avg == nil {
		return decimal.Zero, false, nil
	}
	price, err := decimal.NewFromString(*avg)
	if err != nil {
		return decimal.Zero, false, errors.Storage("parsing averaged price", err)
	}
	return price, true, nil
}

func scanRecord(rows pgx.Rows) (*types.KnowledgeRecord, error) {
	var (
		record       types.KnowledgeRecord
		featuresJSON []byte
		priceText    string
		metadataJSON []byte
		filename     *string
	)
	if err := rows.Scan(&record.ID, &filename, &featuresJSON, &priceText, &metadataJSON); err != nil {
		return nil, errors.Storage("scanning knowledge record", err)
	}
	if filename != nil {
		record.Filename = *filename
	}

	if err := json.Unmarshal(featuresJSON, &record.Features); err != nil {
		return nil, errors.Storage("decoding features", err)
	}
	price, err := decimal.NewFromString(priceText)
	if err != nil {
		return nil, errors.Storage("parsing stored price", err)
	}
	record.FinalPrice = price

	if len(metadataJSON) > 0 {
		if err := json.Unmarshal(metadataJSON, &record.Metadata); err != nil {
			return nil, errors.Storage("decoding metadata", err)
		}
	}
	return &record, nil
}
