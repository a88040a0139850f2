package core

import (
	"bytes"
	"context"
	"encoding/csv"
	"strings"
	"testing"

	"github.com/kAtharva4/buyer-lead-intake/internal/buyer"
)

func TestExportCSV_HeaderAndRows(t *testing.T) {
	f := newFakeStore()
	svc := newTestService(f)
	sess := testSession()
	ctx := context.Background()

	in := validLeadInput("9876543210")
	in.Email = "asha@example.com"
	in.BudgetMin = "4000000"
	in.BudgetMax = "5000000"
	in.Notes = `Prefers "corner" units`
	in.Tags = []string{"hot", "verified"}
	if _, err := svc.CreateLead(ctx, sess, in); err != nil {
		t.Fatalf("create: %v", err)
	}

	var buf bytes.Buffer
	if err := svc.ExportCSV(ctx, buyer.Filter{}, &buf); err != nil {
		t.Fatalf("ExportCSV() error = %v", err)
	}

	records, err := csv.NewReader(&buf).ReadAll()
	if err != nil {
		t.Fatalf("reparse export: %v", err)
	}
	if len(records) != 2 {
		t.Fatalf("records = %d, want header + 1 row", len(records))
	}

	if got, want := strings.Join(records[0], ","), strings.Join(CSVColumns, ","); got != want {
		t.Errorf("header = %q, want %q", got, want)
	}

	row := records[1]
	if row[0] != "Asha Verma" {
		t.Errorf("fullName = %q", row[0])
	}
	if row[2] != "9876543210" {
		t.Errorf("phone = %q", row[2])
	}
	if row[7] != "4000000" || row[8] != "5000000" {
		t.Errorf("budgets = %q/%q", row[7], row[8])
	}
	if row[11] != `Prefers "corner" units` {
		t.Errorf("notes = %q, quotes not preserved", row[11])
	}
	if row[12] != "hot;verified" {
		t.Errorf("tags = %q, want semicolon join", row[12])
	}
}

func TestExportCSV_AbsentOptionalsAreEmpty(t *testing.T) {
	f := newFakeStore()
	svc := newTestService(f)
	ctx := context.Background()

	in := validLeadInput("9876543210")
	in.PropertyType = "Plot"
	in.BHK = ""
	if _, err := svc.CreateLead(ctx, testSession(), in); err != nil {
		t.Fatalf("create: %v", err)
	}

	var buf bytes.Buffer
	if err := svc.ExportCSV(ctx, buyer.Filter{}, &buf); err != nil {
		t.Fatalf("ExportCSV() error = %v", err)
	}

	records, err := csv.NewReader(&buf).ReadAll()
	if err != nil {
		t.Fatalf("reparse export: %v", err)
	}
	row := records[1]
	// email, bhk, budgetMin, budgetMax, notes, tags all absent
	for _, idx := range []int{1, 5, 7, 8, 11, 12} {
		if row[idx] != "" {
			t.Errorf("column %s = %q, want empty", CSVColumns[idx], row[idx])
		}
	}
}

func TestExportCSV_Filtered(t *testing.T) {
	f := newFakeStore()
	svc := newTestService(f)
	sess := testSession()
	ctx := context.Background()

	a := validLeadInput("9876543210")
	b := validLeadInput("9876543211")
	b.City = "Mohali"
	if _, err := svc.CreateLead(ctx, sess, a); err != nil {
		t.Fatalf("create a: %v", err)
	}
	if _, err := svc.CreateLead(ctx, sess, b); err != nil {
		t.Fatalf("create b: %v", err)
	}

	var buf bytes.Buffer
	if err := svc.ExportCSV(ctx, buyer.Filter{City: "Mohali"}, &buf); err != nil {
		t.Fatalf("ExportCSV() error = %v", err)
	}

	records, err := csv.NewReader(&buf).ReadAll()
	if err != nil {
		t.Fatalf("reparse export: %v", err)
	}
	if len(records) != 2 {
		t.Fatalf("records = %d, want header + 1 filtered row", len(records))
	}
	if records[1][3] != "Mohali" {
		t.Errorf("city = %q, want Mohali", records[1][3])
	}
}

// TestExportReimportRoundTrip exports a lead whose tags contain commas and
// whose notes contain quotes, then imports the output into a fresh store and
// checks nothing was lost or reshaped.
func TestExportReimportRoundTrip(t *testing.T) {
	src := newFakeStore()
	svc := newTestService(src)
	sess := testSession()
	ctx := context.Background()

	in := validLeadInput("9876543210")
	in.Notes = `Said "call after 6pm", gate no. 4`
	in.Tags = []string{"corner plot, park facing", "urgent"}
	if _, err := svc.CreateLead(ctx, sess, in); err != nil {
		t.Fatalf("create: %v", err)
	}

	var buf bytes.Buffer
	if err := svc.ExportCSV(ctx, buyer.Filter{}, &buf); err != nil {
		t.Fatalf("export: %v", err)
	}

	dst := newFakeStore()
	svc2 := newTestService(dst)
	result, err := svc2.ImportCSV(ctx, sess, &buf, int64(buf.Len()))
	if err != nil {
		t.Fatalf("reimport: %v", err)
	}
	if result.Inserted != 1 {
		t.Fatalf("Inserted = %d, want 1 (errors: %v)", result.Inserted, result.Errors)
	}

	var got *buyer.Buyer
	for _, b := range dst.buyers {
		got = b
	}
	if got.Notes == nil || *got.Notes != in.Notes {
		t.Errorf("notes = %v, want %q", got.Notes, in.Notes)
	}
	if len(got.Tags) != 2 || got.Tags[0] != "corner plot, park facing" || got.Tags[1] != "urgent" {
		t.Errorf("tags = %v, want original list", got.Tags)
	}
}
