package core

// import.go is the bulk import orchestrator. The policy is all-or-nothing:
// every data row is validated first (collecting every row error, never
// stopping early) and rows are only inserted, in a single transaction,
// when the whole batch is clean.

import (
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/kAtharva4/buyer-lead-intake/internal/buyer"
	"github.com/kAtharva4/buyer-lead-intake/internal/logging"
	"github.com/kAtharva4/buyer-lead-intake/internal/store"
)

// ImportResult is the outcome of a bulk import. Either Inserted > 0 with no
// errors, or Inserted == 0 with every row error found.
type ImportResult struct {
	Inserted int        `json:"inserted"`
	Errors   []RowError `json:"errors"`
}

// ImportCSV parses and validates the uploaded file and, when every row
// passes, inserts all rows in one transaction owned by the session user.
// size is the declared file size; it is checked against the configured
// ceiling before any parsing (the row-count ceiling is the authoritative
// check after parsing).
func (s *Service) ImportCSV(ctx context.Context, sess Session, file io.Reader, size int64) (*ImportResult, error) {
	if file == nil {
		return nil, ErrNoFile
	}
	if size > s.maxFileSize {
		return nil, ErrFileTooLarge
	}

	rows, err := parseCSV(file)
	if err != nil {
		return nil, err
	}

	if len(rows) > s.maxRows {
		return nil, ErrTooManyRows
	}

	recs := make([]*buyer.Record, 0, len(rows))
	var rowErrors []RowError

	for i, row := range rows {
		patch, fe := TransformRow(row)
		if fe.Any() {
			rowErrors = append(rowErrors, RowError{Row: i + 1, Message: fe})
			continue
		}
		rec, fe := patch.Complete()
		if fe.Any() {
			rowErrors = append(rowErrors, RowError{Row: i + 1, Message: fe})
			continue
		}
		recs = append(recs, rec)
	}

	if len(rowErrors) > 0 {
		return &ImportResult{Inserted: 0, Errors: rowErrors}, nil
	}

	ownerID, err := s.store.EnsureUser(ctx, sess.UserID, sess.Email)
	if err != nil {
		return nil, fmt.Errorf("ensure user: %w", err)
	}

	inserted, err := s.store.InsertBuyers(ctx, recs, ownerID)
	if err != nil {
		if errors.Is(err, store.ErrConflict) {
			return nil, ErrDuplicatePhone
		}
		return nil, fmt.Errorf("insert buyers: %w", err)
	}

	logging.WithFields(ctx, "user", sess.Email).Info("csv import committed", "rows", inserted)

	return &ImportResult{Inserted: inserted, Errors: []RowError{}}, nil
}

// parseCSV reads delimited text with a header row into header-keyed row
// maps. Headers are matched against CSVColumns case-insensitively; unknown
// columns are ignored. Blank lines are skipped by the reader.
func parseCSV(file io.Reader) ([]map[string]string, error) {
	r := csv.NewReader(file)
	r.FieldsPerRecord = -1 // tolerate ragged rows; missing cells read as absent

	header, err := r.Read()
	if err != nil {
		if err == io.EOF {
			return nil, ErrInvalidCSV
		}
		return nil, fmt.Errorf("%w: %v", ErrInvalidCSV, err)
	}

	canonical := make(map[string]string, len(CSVColumns))
	for _, name := range CSVColumns {
		canonical[strings.ToLower(name)] = name
	}

	columns := make([]string, len(header))
	for i, h := range header {
		columns[i] = canonical[strings.ToLower(strings.TrimSpace(h))]
	}

	var rows []map[string]string
	for {
		record, err := r.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("%w: %v", ErrInvalidCSV, err)
		}

		row := make(map[string]string, len(columns))
		for i, cell := range record {
			if i < len(columns) && columns[i] != "" {
				row[columns[i]] = cell
			}
		}
		rows = append(rows, row)
	}

	return rows, nil
}
