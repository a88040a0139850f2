// Package core provides the business logic for the buyer lead intake
// application: validation-backed CRUD with ownership checks, optimistic
// concurrency on updates, bulk CSV import, and filtered CSV export.
package core

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/kAtharva4/buyer-lead-intake/internal/buyer"
	"github.com/kAtharva4/buyer-lead-intake/internal/config"
	"github.com/kAtharva4/buyer-lead-intake/internal/store"
)

// PageSize is the fixed page size for lead listings.
const PageSize = 10

// HistoryLimit is how many recent history entries are surfaced per lead.
const HistoryLimit = 5

// Session identifies the acting user, as supplied by the session collaborator.
type Session struct {
	UserID uuid.UUID
	Email  string
}

// Store is the persistence surface the service needs. *store.Store satisfies
// it; tests substitute an in-memory fake.
type Store interface {
	CreateBuyer(ctx context.Context, rec *buyer.Record, ownerID uuid.UUID) (*buyer.Buyer, error)
	GetBuyer(ctx context.Context, id uuid.UUID) (*buyer.Buyer, error)
	ListBuyers(ctx context.Context, f buyer.Filter, limit, offset int) ([]buyer.Buyer, int64, error)
	ListAllBuyers(ctx context.Context, f buyer.Filter) ([]buyer.Buyer, error)
	UpdateBuyer(ctx context.Context, id uuid.UUID, prevUpdatedAt time.Time, p *buyer.Patch) (*buyer.Buyer, error)
	DeleteBuyer(ctx context.Context, id uuid.UUID) error
	InsertBuyers(ctx context.Context, recs []*buyer.Record, ownerID uuid.UUID) (int, error)
	EnsureUser(ctx context.Context, id uuid.UUID, email string) (uuid.UUID, error)
	AppendHistory(ctx context.Context, entry *buyer.HistoryEntry) error
	ListHistory(ctx context.Context, buyerID uuid.UUID, limit int) ([]buyer.HistoryEntry, error)
}

// Service implements the lead intake operations.
type Service struct {
	store       Store
	maxFileSize int64
	maxRows     int
}

// NewService creates a Service with the import ceilings from cfg.
func NewService(st Store, cfg *config.Config) *Service {
	return &Service{
		store:       st,
		maxFileSize: cfg.Import.MaxFileSize,
		maxRows:     cfg.Import.MaxRows,
	}
}

// CreateLead validates in as a full record and inserts it owned by the
// session user. A history entry with a full snapshot diff is recorded.
func (s *Service) CreateLead(ctx context.Context, sess Session, in buyer.Input) (*buyer.Buyer, error) {
	rec, fe := buyer.ValidateCreate(in)
	if fe.Any() {
		return nil, &ValidationError{Fields: fe}
	}

	ownerID, err := s.store.EnsureUser(ctx, sess.UserID, sess.Email)
	if err != nil {
		return nil, fmt.Errorf("ensure user: %w", err)
	}

	b, err := s.store.CreateBuyer(ctx, rec, ownerID)
	if err != nil {
		if errors.Is(err, store.ErrConflict) {
			return nil, ErrDuplicatePhone
		}
		return nil, err
	}

	s.recordHistory(ctx, b.ID, sess, snapshotDiff(b))

	return b, nil
}

// LeadDetail is a lead together with its recent change history.
type LeadDetail struct {
	Buyer   *buyer.Buyer         `json:"buyer"`
	History []buyer.HistoryEntry `json:"history"`
}

// GetLead returns the lead and its 5 most recent history entries. Reads are
// not ownership-restricted.
func (s *Service) GetLead(ctx context.Context, id uuid.UUID) (*LeadDetail, error) {
	b, err := s.store.GetBuyer(ctx, id)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}

	history, err := s.store.ListHistory(ctx, id, HistoryLimit)
	if err != nil {
		return nil, err
	}

	return &LeadDetail{Buyer: b, History: history}, nil
}

// LeadPage is one page of the lead listing.
type LeadPage struct {
	Items []buyer.Buyer `json:"items"`
	Total int64         `json:"total"`
}

// ListLeads returns the page-th page (1-based) of leads matching f, most
// recently modified first.
func (s *Service) ListLeads(ctx context.Context, f buyer.Filter, page int) (*LeadPage, error) {
	if page < 1 {
		page = 1
	}
	items, total, err := s.store.ListBuyers(ctx, f, PageSize, (page-1)*PageSize)
	if err != nil {
		return nil, err
	}
	return &LeadPage{Items: items, Total: total}, nil
}

// UpdateLead applies a validated patch to the lead, guarded by the
// caller-supplied last-known modification timestamp. The checks run in
// order, each with its own outcome: existence, ownership, staleness,
// validation. The apply step is a conditional write keyed on both id and the
// prior timestamp, so a concurrent writer between check and apply still
// surfaces as ErrStaleWrite rather than a lost update.
func (s *Service) UpdateLead(ctx context.Context, sess Session, id uuid.UUID, prevUpdatedAt time.Time, in buyer.Input) (*buyer.Buyer, error) {
	current, err := s.store.GetBuyer(ctx, id)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}

	if current.OwnerID != sess.UserID {
		return nil, ErrForbidden
	}

	if !prevUpdatedAt.Equal(current.UpdatedAt) {
		return nil, ErrStaleWrite
	}

	patch, fe := buyer.ValidateUpdate(in)
	if fe.Any() {
		return nil, &ValidationError{Fields: fe}
	}

	updated, err := s.store.UpdateBuyer(ctx, id, current.UpdatedAt, patch)
	if err != nil {
		switch {
		case errors.Is(err, store.ErrStale):
			return nil, ErrStaleWrite
		case errors.Is(err, store.ErrConflict):
			return nil, ErrDuplicatePhone
		}
		return nil, err
	}

	s.recordHistory(ctx, id, sess, deltaDiff(current, updated, patch))

	return updated, nil
}

// DeleteLead removes the lead after the same existence and ownership checks
// as update. There is no timestamp check on delete.
func (s *Service) DeleteLead(ctx context.Context, sess Session, id uuid.UUID) error {
	current, err := s.store.GetBuyer(ctx, id)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return ErrNotFound
		}
		return err
	}

	if current.OwnerID != sess.UserID {
		return ErrForbidden
	}

	if err := s.store.DeleteBuyer(ctx, id); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return ErrNotFound
		}
		return err
	}
	return nil
}

// recordHistory appends a history entry for the change. History is
// best-effort relative to the primary write: a failure here is logged, not
// surfaced, since the lead mutation has already committed.
func (s *Service) recordHistory(ctx context.Context, buyerID uuid.UUID, sess Session, d Diff) {
	raw, err := marshalDiff(d)
	if err != nil {
		slog.Error("marshal history diff", "buyer_id", buyerID, "error", err)
		return
	}

	changedBy := sess.Email
	if changedBy == "" {
		changedBy = "unknown"
	}

	entry := &buyer.HistoryEntry{
		BuyerID:         buyerID,
		ChangedByUserID: sess.UserID,
		ChangedBy:       changedBy,
		Diff:            raw,
	}
	if err := s.store.AppendHistory(ctx, entry); err != nil {
		slog.Error("append history", "buyer_id", buyerID, "error", err)
	}
}
