package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/abhisek/learnai/internal/learner"
)

// RecordRepo persists learner records as JSON documents keyed by
// learner id. Implements learner.Store.
type RecordRepo struct {
	db *sql.DB
}

// Load returns the record for learnerID, or learner.ErrNotFound.
func (r *RecordRepo) Load(ctx context.Context, learnerID string) (*learner.Record, error) {
	var doc string
	err := r.db.QueryRowContext(ctx,
		`SELECT record FROM learner_records WHERE learner_id = ?`, learnerID,
	).Scan(&doc)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, learner.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("load learner record: %w", err)
	}

	var rec learner.Record
	if err := json.Unmarshal([]byte(doc), &rec); err != nil {
		return nil, fmt.Errorf("decode learner record: %w", err)
	}
	return &rec, nil
}

// Save upserts the record, refreshing LastActive.
func (r *RecordRepo) Save(ctx context.Context, rec *learner.Record) error {
	if rec.LearnerID == "" {
		return errors.New("learner record has no learner id")
	}

	now := time.Now().UTC()
	rec.LastActive = now

	doc, err := json.Marshal(rec)
	if err != nil {
		return fmt.Errorf("encode learner record: %w", err)
	}

	_, err = r.db.ExecContext(ctx,
		`INSERT INTO learner_records (learner_id, record, created_at, updated_at)
		 VALUES (?, ?, ?, ?)
		 ON CONFLICT (learner_id) DO UPDATE SET record = excluded.record, updated_at = excluded.updated_at`,
		rec.LearnerID, string(doc), now, now)
	if err != nil {
		return fmt.Errorf("save learner record: %w", err)
	}
	return nil
}

// Delete removes the record for learnerID. Missing records are not an
// error; reset of a fresh learner is a no-op.
func (r *RecordRepo) Delete(ctx context.Context, learnerID string) error {
	_, err := r.db.ExecContext(ctx,
		`DELETE FROM learner_records WHERE learner_id = ?`, learnerID)
	if err != nil {
		return fmt.Errorf("delete learner record: %w", err)
	}
	return nil
}
