// Package sqlite implements the rate card and knowledge stores on SQLite.
//
// The database is a single local file; the store seeds the default rate
// card on first open. Rate card replacement is whole-document: one
// transaction deletes every row and inserts the new card.
package sqlite

import (
	"context"
	"database/sql"
	"encoding/json"
	"os"
	"path/filepath"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	_ "modernc.org/sqlite"

	"sow-estimator/core/knowledge"
	"sow-estimator/core/types"
	"sow-estimator/internal/errors"
)

// openDB is a package-level var to allow test injection.
var openDB = sql.Open

const schema = `
CREATE TABLE IF NOT EXISTS rate_card (
	role TEXT PRIMARY KEY,
	rate TEXT NOT NULL
);
CREATE TABLE IF NOT EXISTS sow_kb (
	id TEXT PRIMARY KEY,
	filename TEXT,
	features_json TEXT NOT NULL,
	final_price TEXT NOT NULL,
	metadata_json TEXT
);
`

// Store is the SQLite-backed persistence collaborator. It implements both
// knowledge.RateCardStore and knowledge.Store.
type Store struct {
	db *sql.DB
}

var (
	_ knowledge.RateCardStore = (*Store)(nil)
	_ knowledge.Store         = (*Store)(nil)
)

// Open opens (creating if needed) the database at path and seeds the
// rate card with seedCard when the table is empty
func Open(path string, seedCard types.RateCard) (*Store, error) {
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return nil, errors.Storage("creating database directory", err)
		}
	}

	db, err := openDB("sqlite", path)
	if err != nil {
		return nil, errors.Storage("opening sqlite database", err)
	}
	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, errors.Storage("creating schema", err)
	}

	s := &Store{db: db}
	if err := s.seed(seedCard); err != nil {
		db.Close()
		return nil, err
	}
	return s, nil
}

// Close releases the database handle
func (s *Store) Close() error {
	return s.db.Close()
}

// seed inserts the default rate card when the table is empty
func (s *Store) seed(card types.RateCard) error {
	var count int
	if err := s.db.QueryRow(`SELECT COUNT(*) FROM rate_card`).Scan(&count); err != nil {
		return errors.Storage("counting rate card rows", err)
	}
	if count > 0 || len(card) == 0 {
		return nil
	}
	return s.Replace(context.Background(), card)
}

// Get returns the current rate card
func (s *Store) Get(ctx context.Context) (types.RateCard, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT role, rate FROM rate_card`)
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

// Replace swaps the entire rate card. Roles absent from the new card are
// removed.
func (s *Store) Replace(ctx context.Context, card types.RateCard) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return errors.Storage("starting rate card transaction", err)
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, `DELETE FROM rate_card`); err != nil {
		return errors.Storage("clearing rate card", err)
	}
	for role, rate := range card {
		if _, err := tx.ExecContext(ctx,
			`INSERT INTO rate_card (role, rate) VALUES (?, ?)`, role, rate.String()); err != nil {
			return errors.Storage("writing rate card row", err)
		}
	}
	return tx.Commit()
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

	_, err = s.db.ExecContext(ctx,
		`INSERT INTO sow_kb (id, filename, features_json, final_price, metadata_json)
		 VALUES (?, ?, ?, ?, ?)`,
		record.ID, record.Filename, string(featuresJSON), record.FinalPrice.String(), string(metadataJSON))
	if err != nil {
		return errors.Storage("inserting knowledge record", err)
	}
	return nil
}

// All returns every stored knowledge record
func (s *Store) All(ctx context.Context) ([]*types.KnowledgeRecord, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, filename, features_json, final_price, metadata_json FROM sow_kb`)
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
	records, err := s.All(ctx)
	if err != nil {
		return decimal.Zero, false, err
	}

	sum := decimal.Zero
	count := 0
	for _, r := range records {
		if r.FinalPrice.IsPositive() {
			sum = sum.Add(r.FinalPrice)
			count++
		}
	}
	if count == 0 {
		return decimal.Zero, false, nil
	}
	return sum.Div(decimal.NewFromInt(int64(count))), true, nil
}

func scanRecord(rows *sql.Rows) (*types.KnowledgeRecord, error) {
	var (
		record       types.KnowledgeRecord
		featuresJSON string
		priceText    string
		metadataJSON sql.NullString
		filename     sql.NullString
	)
	if err := rows.Scan(&record.ID, &filename, &featuresJSON, &priceText, &metadataJSON); err != nil {
		return nil, errors.Storage("scanning knowledge record", err)
	}
	record.Filename = filename.String

	if err := json.Unmarshal([]byte(featuresJSON), &record.Features); err != nil {
		return nil, errors.Storage("decoding features", err)
	}
	price, err := decimal.NewFromString(priceText)
	if err != nil {
		return nil, errors.Storage("parsing stored price", err)
	}
	record.FinalPrice = price

	if metadataJSON.Valid && metadataJSON.String != "" {
		if err := json.Unmarshal([]byte(metadataJSON.String), &record.Metadata); err != nil {
			return nil, errors.Storage("decoding metadata", err)
		}
	}
	return &record, nil
}
