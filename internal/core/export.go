package core

// export.go streams the filtered lead set as CSV. The full filtered set is
// emitted without pagination, most recently modified first. Quoting and
// escaping (doubled quotes) follow RFC 4180 via encoding/csv, so the output
// reparses with any standard reader.

import (
	"context"
	"encoding/csv"
	"fmt"
	"io"
	"strconv"

	"github.com/kAtharva4/buyer-lead-intake/internal/buyer"
)

// ExportFileName is the suggested download name for the export.
const ExportFileName = "buyers_export.csv"

// ExportCSV writes all leads matching f to w as delimited text with a fixed
// header row. Absent optional fields render as empty strings; tags render
// joined by semicolons.
func (s *Service) ExportCSV(ctx context.Context, f buyer.Filter, w io.Writer) error {
	items, err := s.store.ListAllBuyers(ctx, f)
	if err != nil {
		return fmt.Errorf("list buyers for export: %w", err)
	}

	cw := csv.NewWriter(w)

	if err := cw.Write(CSVColumns); err != nil {
		return fmt.Errorf("write export header: %w", err)
	}

	for i := range items {
		if err := cw.Write(exportRow(&items[i])); err != nil {
			return fmt.Errorf("write export row: %w", err)
		}
	}

	cw.Flush()
	return cw.Error()
}

// exportRow renders one lead in CSVColumns order.
func exportRow(b *buyer.Buyer) []string {
	return []string{
		b.FullName,
		strDeref(b.Email),
		b.Phone,
		string(b.City),
		string(b.PropertyType),
		bhkString(b.BHK),
		string(b.Purpose),
		intString(b.BudgetMin),
		intString(b.BudgetMax),
		string(b.Timeline),
		string(b.Source),
		strDeref(b.Notes),
		JoinTags(b.Tags),
		string(b.Status),
	}
}

func strDeref(p *string) string {
	if p == nil {
		return ""
	}
	return *p
}

func bhkString(p *buyer.BHK) string {
	if p == nil {
		return ""
	}
	return string(*p)
}

func intString(p *int64) string {
	if p == nil {
		return ""
	}
	return strconv.FormatInt(*p, 10)
}
