package buyer

import (
	"strings"
	"testing"
)

// validInput returns a minimal input that passes create validation.
func validInput() Input {
	return Input{
		FullName:     "Asha Verma",
		Phone:        "9876543210",
		City:         "Chandigarh",
		PropertyType: "Plot",
		Purpose:      "Buy",
		Timeline:     "ZERO_TO_3M",
		Source:       "Website",
	}
}

func TestValidateCreate_Valid(t *testing.T) {
	rec, fe := ValidateCreate(validInput())
	if fe.Any() {
		t.Fatalf("ValidateCreate() errors = %v", fe)
	}
	if rec.FullName != "Asha Verma" {
		t.Errorf("FullName = %q, want %q", rec.FullName, "Asha Verma")
	}
	if rec.Status != StatusNew {
		t.Errorf("Status = %q, want default %q", rec.Status, StatusNew)
	}
	if rec.Tags == nil || len(rec.Tags) != 0 {
		t.Errorf("Tags = %v, want empty non-nil slice", rec.Tags)
	}
	if rec.Email != nil {
		t.Errorf("Email = %v, want nil for absent field", *rec.Email)
	}
}

func TestValidateCreate_MissingRequired(t *testing.T) {
	_, fe := ValidateCreate(Input{})
	if !fe.Any() {
		t.Fatal("ValidateCreate() expected errors for empty input")
	}

	for _, field := range []string{"fullName", "phone", "city", "propertyType", "purpose", "timeline", "source"} {
		if len(fe[field]) == 0 {
			t.Errorf("missing error for required field %q: %v", field, fe)
		}
	}
	if len(fe["email"]) != 0 {
		t.Errorf("email is optional, got error %v", fe["email"])
	}
	if len(fe["bhk"]) != 0 {
		t.Errorf("bhk not required without property type, got error %v", fe["bhk"])
	}
}

func TestValidateCreate_FieldRules(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Input)
		field   string
		message string
	}{
		{
			name:    "name too short",
			mutate:  func(in *Input) { in.FullName = "A" },
			field:   "fullName",
			message: "Full name must be at least 2 characters.",
		},
		{
			name:    "name too long",
			mutate:  func(in *Input) { in.FullName = strings.Repeat("x", 81) },
			field:   "fullName",
			message: "Full name must be at most 80 characters.",
		},
		{
			name:    "phone not numeric",
			mutate:  func(in *Input) { in.Phone = "98765abc10" },
			field:   "phone",
			message: "Phone number must be numeric.",
		},
		{
			name:    "phone too short",
			mutate:  func(in *Input) { in.Phone = "12345" },
			field:   "phone",
			message: "Phone must be 10 to 15 digits.",
		},
		{
			name:    "phone too long",
			mutate:  func(in *Input) { in.Phone = "1234567890123456" },
			field:   "phone",
			message: "Phone must be 10 to 15 digits.",
		},
		{
			name:    "bad email",
			mutate:  func(in *Input) { in.Email = "not-an-email" },
			field:   "email",
			message: "Invalid email address.",
		},
		{
			name:    "unknown city",
			mutate:  func(in *Input) { in.City = "Delhi" },
			field:   "city",
			message: "Value must be one of: Chandigarh, Mohali, Zirakpur, Panchkula, Other.",
		},
		{
			name:    "unknown timeline",
			mutate:  func(in *Input) { in.Timeline = "SOMEDAY" },
			field:   "timeline",
			message: "Value must be one of: ZERO_TO_3M, THREE_TO_6M, MORE_THAN_6M, EXPLORING.",
		},
		{
			name:    "negative budget",
			mutate:  func(in *Input) { in.BudgetMin = "-5" },
			field:   "budgetMin",
			message: "Budget must be a non-negative whole number.",
		},
		{
			name:    "fractional budget",
			mutate:  func(in *Input) { in.BudgetMax = "10.5" },
			field:   "budgetMax",
			message: "Budget must be a non-negative whole number.",
		},
		{
			name:    "notes too long",
			mutate:  func(in *Input) { in.Notes = strings.Repeat("n", 1001) },
			field:   "notes",
			message: "Notes must be 1000 characters or less.",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			in := validInput()
			tt.mutate(&in)

			_, fe := ValidateCreate(in)
			if len(fe[tt.field]) == 0 {
				t.Fatalf("expected error on %q, got %v", tt.field, fe)
			}
			if fe[tt.field][0] != tt.message {
				t.Errorf("message = %q, want %q", fe[tt.field][0], tt.message)
			}
		})
	}
}

func TestValidateCreate_BHKCoupling(t *testing.T) {
	tests := []struct {
		name         string
		propertyType string
		bhk          string
		wantError    bool
	}{
		{"apartment without bhk", "Apartment", "", true},
		{"villa without bhk", "Villa", "", true},
		{"apartment with bhk", "Apartment", "TWO", false},
		{"plot without bhk", "Plot", "", false},
		{"office without bhk", "Office", "", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			in := validInput()
			in.PropertyType = tt.propertyType
			in.BHK = tt.bhk

			_, fe := ValidateCreate(in)
			hasErr := len(fe["bhk"]) > 0
			if hasErr != tt.wantError {
				t.Errorf("bhk errors = %v, wantError = %v", fe["bhk"], tt.wantError)
			}
		})
	}
}

func TestValidateCreate_BudgetOrder(t *testing.T) {
	in := validInput()
	in.BudgetMin = "5000000"
	in.BudgetMax = "4000000"

	_, fe := ValidateCreate(in)
	if len(fe["budgetMax"]) == 0 {
		t.Fatalf("expected budgetMax error, got %v", fe)
	}
	if fe["budgetMax"][0] != "Max budget must be greater than or equal to min budget." {
		t.Errorf("message = %q", fe["budgetMax"][0])
	}

	// Equal bounds pass
	in.BudgetMax = "5000000"
	if _, fe := ValidateCreate(in); fe.Any() {
		t.Errorf("equal bounds should pass, got %v", fe)
	}
}

func TestValidateCreate_CollectsAllErrors(t *testing.T) {
	in := Input{
		FullName: "A",
		Phone:    "abc",
		Email:    "bad",
		City:     "Nowhere",
	}

	_, fe := ValidateCreate(in)
	for _, field := range []string{"fullName", "phone", "email", "city"} {
		if len(fe[field]) == 0 {
			t.Errorf("expected error on %q, got %v", field, fe)
		}
	}
}

func TestValidateUpdate_PartialAllowed(t *testing.T) {
	// An update patch may omit required create fields entirely.
	p, fe := ValidateUpdate(Input{Status: "Qualified"})
	if fe.Any() {
		t.Fatalf("ValidateUpdate() errors = %v", fe)
	}
	if p.Status == nil || *p.Status != StatusQualified {
		t.Errorf("Status = %v, want Qualified", p.Status)
	}
	if p.FullName != nil {
		t.Errorf("FullName = %v, want nil for absent field", *p.FullName)
	}
}

func TestValidateUpdate_BudgetOrderWhenBothPresent(t *testing.T) {
	_, fe := ValidateUpdate(Input{BudgetMin: "100", BudgetMax: "50"})
	if len(fe["budgetMax"]) == 0 {
		t.Fatalf("expected budgetMax error, got %v", fe)
	}

	// A single bound passes
	if _, fe := ValidateUpdate(Input{BudgetMax: "50"}); fe.Any() {
		t.Errorf("single bound should pass, got %v", fe)
	}
}

func TestValidateCSVRow_NoCompletenessCheck(t *testing.T) {
	// Row validation only applies per-field rules; a row missing required
	// fields passes here and fails at Complete.
	p, fe := ValidateCSVRow(Input{FullName: "Ravi Kumar"})
	if fe.Any() {
		t.Fatalf("ValidateCSVRow() errors = %v", fe)
	}

	_, fe = p.Complete()
	if !fe.Any() {
		t.Fatal("Complete() expected errors for incomplete row")
	}
	if len(fe["phone"]) == 0 {
		t.Errorf("expected phone completeness error, got %v", fe)
	}
}

func TestValidEmail(t *testing.T) {
	tests := []struct {
		email string
		want  bool
	}{
		{"user@example.com", true},
		{"a.b+c@sub.domain.org", true},
		{"no-at-sign", false},
		{"@example.com", false},
		{"user@", false},
		{"user@nodot", false},
		{"user@domain.", false},
		{"two@@example.com", false},
		{"has space@example.com", false},
	}

	for _, tt := range tests {
		if got := validEmail(tt.email); got != tt.want {
			t.Errorf("validEmail(%q) = %v, want %v", tt.email, got, tt.want)
		}
	}
}
