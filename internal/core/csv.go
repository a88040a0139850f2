package core

// csv.go converts raw CSV rows into candidate records. A row arrives as a
// header-keyed map of string cells; the transform splits the tags column
// before handing the row to the validator in csv-row mode.

import (
	"strings"

	"github.com/kAtharva4/buyer-lead-intake/internal/buyer"
)

// CSVColumns is the canonical column set, in export order. Import matches
// headers against these names case-insensitively.
var CSVColumns = []string{
	"fullName", "email", "phone", "city", "propertyType", "bhk", "purpose",
	"budgetMin", "budgetMax", "timeline", "source", "notes", "tags", "status",
}

// RowError reports why one CSV data row was rejected. Row is 1-based and
// counts data rows only (the header row is excluded).
type RowError struct {
	Row     int               `json:"row"`
	Message buyer.FieldErrors `json:"message"`
}

// TransformRow converts one raw CSV row into a validated partial record.
// The tags cell is split on commas with each piece trimmed; an absent or
// empty cell yields an empty tag list. Cells are trimmed of surrounding
// whitespace before validation.
func TransformRow(row map[string]string) (*buyer.Patch, buyer.FieldErrors) {
	cell := func(name string) string {
		return strings.TrimSpace(row[name])
	}

	in := buyer.Input{
		FullName:     cell("fullName"),
		Email:        cell("email"),
		Phone:        cell("phone"),
		City:         cell("city"),
		PropertyType: cell("propertyType"),
		BHK:          cell("bhk"),
		Purpose:      cell("purpose"),
		BudgetMin:    buyer.Number(cell("budgetMin")),
		BudgetMax:    buyer.Number(cell("budgetMax")),
		Timeline:     cell("timeline"),
		Source:       cell("source"),
		Status:       cell("status"),
		Notes:        cell("notes"),
		Tags:         splitTags(cell("tags")),
	}

	return buyer.ValidateCSVRow(in)
}

// splitTags turns a delimited cell into a tag list, trimming each piece.
// Hand-written cells use commas; the export writes semicolons so tag
// elements may themselves contain commas. When a semicolon is present it
// wins as the delimiter, which keeps export-then-reimport faithful for
// multi-tag lists. Known caveat: a list of exactly one tag that itself
// contains a comma exports without any semicolon, so reimport splits it
// on the commas. Empty cells become an empty list, never nil, so imported
// leads always carry a concrete tag list.
func splitTags(cell string) []string {
	if cell == "" {
		return []string{}
	}
	sep := ","
	if strings.Contains(cell, ";") {
		sep = ";"
	}
	parts := strings.Split(cell, sep)
	tags := make([]string, 0, len(parts))
	for _, p := range parts {
		tags = append(tags, strings.TrimSpace(p))
	}
	return tags
}

// JoinTags renders a tag list for export: elements joined by a semicolon.
func JoinTags(tags []string) string {
	return strings.Join(tags, ";")
}
