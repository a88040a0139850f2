package store

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/kAtharva4/buyer-lead-intake/internal/buyer"
)

const buyerColumns = `id, full_name, email, phone, city, property_type, bhk, purpose,
	budget_min, budget_max, timeline, source, status, notes, tags,
	owner_id, created_at, updated_at`

// scanBuyer scans one buyers row into the domain model.
func scanBuyer(row pgx.Row) (*buyer.Buyer, error) {
	var (
		b    buyer.Buyer
		bhk  *string
		tags []string
	)
	err := row.Scan(
		&b.ID, &b.FullName, &b.Email, &b.Phone, &b.City, &b.PropertyType, &bhk, &b.Purpose,
		&b.BudgetMin, &b.BudgetMax, &b.Timeline, &b.Source, &b.Status, &b.Notes, &tags,
		&b.OwnerID, &b.CreatedAt, &b.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	if bhk != nil {
		v := buyer.BHK(*bhk)
		b.BHK = &v
	}
	b.Tags = tags
	if b.Tags == nil {
		b.Tags = []string{}
	}
	return &b, nil
}

// CreateBuyer inserts a new lead owned by ownerID and returns the stored row.
func (s *Store) CreateBuyer(ctx context.Context, rec *buyer.Record, ownerID uuid.UUID) (*buyer.Buyer, error) {
	return createBuyer(ctx, s.pool, rec, ownerID)
}

func createBuyer(ctx context.Context, db DBTX, rec *buyer.Record, ownerID uuid.UUID) (*buyer.Buyer, error) {
	query := `INSERT INTO buyers (
			id, full_name, email, phone, city, property_type, bhk, purpose,
			budget_min, budget_max, timeline, source, status, notes, tags, owner_id
		) VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11,$12,$13,$14,$15,$16)
		RETURNING ` + buyerColumns

	b, err := scanBuyer(db.QueryRow(ctx, query,
		uuid.New(), rec.FullName, rec.Email, rec.Phone, string(rec.City),
		string(rec.PropertyType), bhkValue(rec.BHK), string(rec.Purpose),
		rec.BudgetMin, rec.BudgetMax, string(rec.Timeline), string(rec.Source),
		string(rec.Status), rec.Notes, rec.Tags, ownerID,
	))
	if err != nil {
		if isUniqueViolation(err) {
			return nil, ErrConflict
		}
		return nil, fmt.Errorf("insert buyer: %w", err)
	}
	return b, nil
}

// GetBuyer returns the lead with the given id, or ErrNotFound.
func (s *Store) GetBuyer(ctx context.Context, id uuid.UUID) (*buyer.Buyer, error) {
	query := `SELECT ` + buyerColumns + ` FROM buyers WHERE id = $1`

	b, err := scanBuyer(s.pool.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("get buyer: %w", err)
	}
	return b, nil
}

// ListBuyers returns one page of leads matching f, newest change first, plus
// the total match count.
func (s *Store) ListBuyers(ctx context.Context, f buyer.Filter, limit, offset int) ([]buyer.Buyer, int64, error) {
	where, args := buildBuyerFilter(f)

	var total int64
	countQuery := `SELECT COUNT(*) FROM buyers` + where
	if err := s.pool.QueryRow(ctx, countQuery, args...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("count buyers: %w", err)
	}

	query := fmt.Sprintf(
		`SELECT %s FROM buyers%s ORDER BY updated_at DESC LIMIT $%d OFFSET $%d`,
		buyerColumns, where, len(args)+1, len(args)+2,
	)
	args = append(args, limit, offset)

	items, err := s.queryBuyers(ctx, query, args)
	if err != nil {
		return nil, 0, err
	}
	return items, total, nil
}

// ListAllBuyers returns every lead matching f without pagination, newest
// change first. Used by the CSV export.
func (s *Store) ListAllBuyers(ctx context.Context, f buyer.Filter) ([]buyer.Buyer, error) {
	where, args := buildBuyerFilter(f)
	query := `SELECT ` + buyerColumns + ` FROM buyers` + where + ` ORDER BY updated_at DESC`
	return s.queryBuyers(ctx, query, args)
}

func (s *Store) queryBuyers(ctx context.Context, query string, args []any) ([]buyer.Buyer, error) {
	rows, err := s.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query buyers: %w", err)
	}
	defer rows.Close()

	items := make([]buyer.Buyer, 0)
	for rows.Next() {
		b, err := scanBuyer(rows)
		if err != nil {
			return nil, fmt.Errorf("scan buyer: %w", err)
		}
		items = append(items, *b)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("buyer rows: %w", err)
	}
	return items, nil
}

// buildBuyerFilter renders f as a WHERE clause with positional args.
func buildBuyerFilter(f buyer.Filter) (string, []any) {
	var (
		conds []string
		args  []any
	)
	arg := func(v any) string {
		args = append(args, v)
		return fmt.Sprintf("$%d", len(args))
	}

	if f.Query != "" {
		p := arg("%" + f.Query + "%")
		conds = append(conds, fmt.Sprintf(
			"(full_name ILIKE %s OR phone ILIKE %s OR email ILIKE %s)", p, p, p))
	}
	if f.City != "" {
		conds = append(conds, "city = "+arg(f.City))
	}
	if f.PropertyType != "" {
		conds = append(conds, "property_type = "+arg(f.PropertyType))
	}
	if f.Status != "" {
		conds = append(conds, "status = "+arg(f.Status))
	}
	if f.Timeline != "" {
		conds = append(conds, "timeline = "+arg(f.Timeline))
	}

	if len(conds) == 0 {
		return "", nil
	}
	return " WHERE " + strings.Join(conds, " AND "), args
}

// UpdateBuyer applies patch to the lead with the given id, but only when the
// row's updated_at still equals prevUpdatedAt. Returns ErrStale when another
// writer advanced the timestamp (or the row vanished) in between.
func (s *Store) UpdateBuyer(ctx context.Context, id uuid.UUID, prevUpdatedAt time.Time, p *buyer.Patch) (*buyer.Buyer, error) {
	sets, args := buildPatchSets(p)
	sets = append(sets, "updated_at = now()")

	args = append(args, id, prevUpdatedAt)
	query := fmt.Sprintf(
		`UPDATE buyers SET %s WHERE id = $%d AND updated_at = $%d RETURNING %s`,
		strings.Join(sets, ", "), len(args)-1, len(args), buyerColumns,
	)

	b, err := scanBuyer(s.pool.QueryRow(ctx, query, args...))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrStale
		}
		if isUniqueViolation(err) {
			return nil, ErrConflict
		}
		return nil, fmt.Errorf("update buyer: %w", err)
	}
	return b, nil
}

// buildPatchSets renders the supplied patch fields as SET clauses.
func buildPatchSets(p *buyer.Patch) ([]string, []any) {
	var (
		sets []string
		args []any
	)
	set := func(column string, v any) {
		args = append(args, v)
		sets = append(sets, fmt.Sprintf("%s = $%d", column, len(args)))
	}

	if p.FullName != nil {
		set("full_name", *p.FullName)
	}
	if p.Email != nil {
		set("email", *p.Email)
	}
	if p.Phone != nil {
		set("phone", *p.Phone)
	}
	if p.City != nil {
		set("city", string(*p.City))
	}
	if p.PropertyType != nil {
		set("property_type", string(*p.PropertyType))
	}
	if p.BHK != nil {
		set("bhk", string(*p.BHK))
	}
	if p.Purpose != nil {
		set("purpose", string(*p.Purpose))
	}
	if p.BudgetMin != nil {
		set("budget_min", *p.BudgetMin)
	}
	if p.BudgetMax != nil {
		set("budget_max", *p.BudgetMax)
	}
	if p.Timeline != nil {
		set("timeline", string(*p.Timeline))
	}
	if p.Source != nil {
		set("source", string(*p.Source))
	}
	if p.Status != nil {
		set("status", string(*p.Status))
	}
	if p.Notes != nil {
		set("notes", *p.Notes)
	}
	if p.Tags != nil {
		set("tags", p.Tags)
	}
	return sets, args
}

// DeleteBuyer removes the lead with the given id. History rows cascade.
func (s *Store) DeleteBuyer(ctx context.Context, id uuid.UUID) error {
	tag, err := s.pool.Exec(ctx, `DELETE FROM buyers WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete buyer: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

// InsertBuyers inserts all records in a single transaction, each owned by
// ownerID. Either every row commits or none do.
func (s *Store) InsertBuyers(ctx context.Context, recs []*buyer.Record, ownerID uuid.UUID) (int, error) {
	inserted := 0
	err := s.RunInTx(ctx, func(tx pgx.Tx) error {
		for _, rec := range recs {
			if _, err := createBuyer(ctx, tx, rec, ownerID); err != nil {
				return err
			}
			inserted++
		}
		return nil
	})
	if err != nil {
		return 0, err
	}
	return inserted, nil
}

// bhkValue unwraps an optional BHK for binding; nil stays NULL.
func bhkValue(v *buyer.BHK) *string {
	if v == nil {
		return nil
	}
	s := string(*v)
	return &s
}
