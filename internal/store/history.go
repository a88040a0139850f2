package store

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/kAtharva4/buyer-lead-intake/internal/buyer"
)

// AppendHistory records one change to a lead. Entries are never updated or
// deleted; they only go away when the lead itself is removed (cascade).
func (s *Store) AppendHistory(ctx context.Context, entry *buyer.HistoryEntry) error {
	query := `INSERT INTO buyer_history (id, buyer_id, changed_by_user_id, changed_by, diff)
		VALUES ($1, $2, $3, $4, $5)`

	_, err := s.pool.Exec(ctx, query,
		uuid.New(), entry.BuyerID, entry.ChangedByUserID, entry.ChangedBy,
		json.RawMessage(entry.Diff),
	)
	if err != nil {
		return fmt.Errorf("append history: %w", err)
	}
	return nil
}

// ListHistory returns the most recent limit entries for a lead, newest first.
func (s *Store) ListHistory(ctx context.Context, buyerID uuid.UUID, limit int) ([]buyer.HistoryEntry, error) {
	query := `SELECT id, buyer_id, changed_by_user_id, changed_by, changed_at, diff
		FROM buyer_history
		WHERE buyer_id = $1
		ORDER BY changed_at DESC
		LIMIT $2`

	rows, err := s.pool.Query(ctx, query, buyerID, limit)
	if err != nil {
		return nil, fmt.Errorf("query history: %w", err)
	}
	defer rows.Close()

	entries := make([]buyer.HistoryEntry, 0, limit)
	for rows.Next() {
		var e buyer.HistoryEntry
		if err := scanHistory(rows, &e); err != nil {
			return nil, fmt.Errorf("scan history: %w", err)
		}
		entries = append(entries, e)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("history rows: %w", err)
	}
	return entries, nil
}

func scanHistory(row pgx.Row, e *buyer.HistoryEntry) error {
	var diff []byte
	if err := row.Scan(&e.ID, &e.BuyerID, &e.ChangedByUserID, &e.ChangedBy, &e.ChangedAt, &diff); err != nil {
		return err
	}
	e.Diff = json.RawMessage(diff)
	return nil
}
