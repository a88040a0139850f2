package store

import (
	"context"
	"fmt"

	"github.com/google/uuid"
)

// EnsureUser upserts the acting user so leads can reference it as owner.
// An existing row matched by email keeps its id; when the session id already
// exists under a different email the row's email is updated in place, since
// the id comes from a trusted header and is authoritative for that session.
// Returns the canonical user id.
func (s *Store) EnsureUser(ctx context.Context, id uuid.UUID, email string) (uuid.UUID, error) {
	query := `INSERT INTO users (id, email) VALUES ($1, $2)
		ON CONFLICT (email) DO UPDATE SET email = EXCLUDED.email
		RETURNING id`

	var got uuid.UUID
	err := s.pool.QueryRow(ctx, query, id, email).Scan(&got)
	if isUniqueViolation(err) {
		// The id exists with another email. Move the row to the new email;
		// a collision here means two live sessions claim the same address,
		// which the trusted-header model rules out.
		update := `UPDATE users SET email = $2 WHERE id = $1 RETURNING id`
		err = s.pool.QueryRow(ctx, update, id, email).Scan(&got)
	}
	if err != nil {
		return uuid.Nil, fmt.Errorf("ensure user: %w", err)
	}
	return got, nil
}
