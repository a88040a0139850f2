package buyer

// validate.go checks candidate records field by field and collects every
// violation instead of stopping at the first one. Three modes share the same
// per-field rules:
//
//   - create:  all required fields must be present, plus the cross-field rules
//   - update:  only supplied fields are checked; the budget ordering rule
//     applies when both bounds appear in the patch
//   - csv-row: per-field rules only; completeness is the importer's concern
//
// Empty strings are treated as absent throughout, so optional fields can be
// cleared-to-default on forms without tripping format checks.

import (
	"fmt"
	"strconv"
	"strings"
)

// FieldErrors maps a field name to the list of human-readable problems found
// with it. An empty map means the input passed.
type FieldErrors map[string][]string

// Add appends a message for the named field.
func (fe FieldErrors) Add(field, message string) {
	fe[field] = append(fe[field], message)
}

// Any reports whether at least one field has an error.
func (fe FieldErrors) Any() bool {
	return len(fe) > 0
}

func (fe FieldErrors) Error() string {
	if len(fe) == 0 {
		return "no field errors"
	}
	var parts []string
	for field, msgs := range fe {
		parts = append(parts, fmt.Sprintf("%s: %s", field, strings.Join(msgs, "; ")))
	}
	return strings.Join(parts, ", ")
}

const (
	minNameLen  = 2
	maxNameLen  = 80
	minPhoneLen = 10
	maxPhoneLen = 15
	maxNotesLen = 1000
)

// ValidateCreate validates in as a full record. All required fields must be
// present, BHK must accompany Apartment/Villa, and budgetMax must not be
// below budgetMin. On success the returned record has defaults applied
// (status New, empty tag list).
func ValidateCreate(in Input) (*Record, FieldErrors) {
	p, fe := validateFields(in)
	if fe.Any() {
		return nil, fe
	}
	return p.Complete()
}

// ValidateUpdate validates in as a partial record. Only supplied fields are
// checked; the budget ordering rule applies when both bounds are in the patch.
func ValidateUpdate(in Input) (*Patch, FieldErrors) {
	p, fe := validateFields(in)
	if fe.Any() {
		return nil, fe
	}
	checkBudgetOrder(p, fe)
	if fe.Any() {
		return nil, fe
	}
	return p, nil
}

// ValidateCSVRow validates in as one CSV data row. Per-field rules match
// create mode but every field is optional here; the import orchestrator
// enforces row completeness via Patch.Complete.
func ValidateCSVRow(in Input) (*Patch, FieldErrors) {
	p, fe := validateFields(in)
	if fe.Any() {
		return nil, fe
	}
	return p, nil
}

// Complete enforces the create-mode cross-field rules on a patch and, when
// they hold, returns the full record with defaults applied.
func (p *Patch) Complete() (*Record, FieldErrors) {
	fe := FieldErrors{}

	if p.FullName == nil {
		fe.Add("fullName", "Full name is required.")
	}
	if p.Phone == nil {
		fe.Add("phone", "Phone is required.")
	}
	if p.City == nil {
		fe.Add("city", "City is required.")
	}
	if p.PropertyType == nil {
		fe.Add("propertyType", "Property type is required.")
	}
	if p.Purpose == nil {
		fe.Add("purpose", "Purpose is required.")
	}
	if p.Timeline == nil {
		fe.Add("timeline", "Timeline is required.")
	}
	if p.Source == nil {
		fe.Add("source", "Source is required.")
	}

	if p.PropertyType != nil && p.BHK == nil &&
		(*p.PropertyType == PropertyApartment || *p.PropertyType == PropertyVilla) {
		fe.Add("bhk", "BHK is required when property type is Apartment or Villa.")
	}

	checkBudgetOrder(p, fe)

	if fe.Any() {
		return nil, fe
	}

	rec := &Record{
		FullName:     *p.FullName,
		Email:        p.Email,
		Phone:        *p.Phone,
		City:         *p.City,
		PropertyType: *p.PropertyType,
		BHK:          p.BHK,
		Purpose:      *p.Purpose,
		BudgetMin:    p.BudgetMin,
		BudgetMax:    p.BudgetMax,
		Timeline:     *p.Timeline,
		Source:       *p.Source,
		Status:       StatusNew,
		Notes:        p.Notes,
		Tags:         p.Tags,
	}
	if p.Status != nil {
		rec.Status = *p.Status
	}
	if rec.Tags == nil {
		rec.Tags = []string{}
	}
	return rec, nil
}

// validateFields applies the per-field rules and builds the normalized patch.
// All violations are collected; the patch is only meaningful when fe is empty.
func validateFields(in Input) (*Patch, FieldErrors) {
	fe := FieldErrors{}
	p := &Patch{Tags: in.Tags}

	if in.FullName != "" {
		n := len([]rune(in.FullName))
		switch {
		case n < minNameLen:
			fe.Add("fullName", "Full name must be at least 2 characters.")
		case n > maxNameLen:
			fe.Add("fullName", "Full name must be at most 80 characters.")
		default:
			p.FullName = ptr(in.FullName)
		}
	}

	if in.Email != "" {
		if !validEmail(in.Email) {
			fe.Add("email", "Invalid email address.")
		} else {
			p.Email = ptr(in.Email)
		}
	}

	if in.Phone != "" {
		if !allDigits(in.Phone) {
			fe.Add("phone", "Phone number must be numeric.")
		} else if len(in.Phone) < minPhoneLen || len(in.Phone) > maxPhoneLen {
			fe.Add("phone", "Phone must be 10 to 15 digits.")
		} else {
			p.Phone = ptr(in.Phone)
		}
	}

	if in.City != "" {
		if v, ok := parseEnum(in.City, CityValues); ok {
			p.City = &v
		} else {
			fe.Add("city", enumMessage(CityValues))
		}
	}

	if in.PropertyType != "" {
		if v, ok := parseEnum(in.PropertyType, PropertyTypeValues); ok {
			p.PropertyType = &v
		} else {
			fe.Add("propertyType", enumMessage(PropertyTypeValues))
		}
	}

	if in.BHK != "" {
		if v, ok := parseEnum(in.BHK, BHKValues); ok {
			p.BHK = &v
		} else {
			fe.Add("bhk", enumMessage(BHKValues))
		}
	}

	if in.Purpose != "" {
		if v, ok := parseEnum(in.Purpose, PurposeValues); ok {
			p.Purpose = &v
		} else {
			fe.Add("purpose", enumMessage(PurposeValues))
		}
	}

	if in.BudgetMin != "" {
		if v, ok := parseBudget(string(in.BudgetMin)); ok {
			p.BudgetMin = &v
		} else {
			fe.Add("budgetMin", "Budget must be a non-negative whole number.")
		}
	}

	if in.BudgetMax != "" {
		if v, ok := parseBudget(string(in.BudgetMax)); ok {
			p.BudgetMax = &v
		} else {
			fe.Add("budgetMax", "Budget must be a non-negative whole number.")
		}
	}

	if in.Timeline != "" {
		if v, ok := parseEnum(in.Timeline, TimelineValues); ok {
			p.Timeline = &v
		} else {
			fe.Add("timeline", enumMessage(TimelineValues))
		}
	}

	if in.Source != "" {
		if v, ok := parseEnum(in.Source, SourceValues); ok {
			p.Source = &v
		} else {
			fe.Add("source", enumMessage(SourceValues))
		}
	}

	if in.Status != "" {
		if v, ok := parseEnum(in.Status, StatusValues); ok {
			p.Status = &v
		} else {
			fe.Add("status", enumMessage(StatusValues))
		}
	}

	if in.Notes != "" {
		if len([]rune(in.Notes)) > maxNotesLen {
			fe.Add("notes", "Notes must be 1000 characters or less.")
		} else {
			p.Notes = ptr(in.Notes)
		}
	}

	if fe.Any() {
		return nil, fe
	}
	return p, fe
}

// checkBudgetOrder adds the budgetMax error when both bounds are present and
// out of order. Absent bounds pass.
func checkBudgetOrder(p *Patch, fe FieldErrors) {
	if p.BudgetMin != nil && p.BudgetMax != nil && *p.BudgetMax < *p.BudgetMin {
		fe.Add("budgetMax", "Max budget must be greater than or equal to min budget.")
	}
}

func parseEnum[T ~string](raw string, values []T) (T, bool) {
	for _, v := range values {
		if string(v) == raw {
			return v, true
		}
	}
	var zero T
	return zero, false
}

func enumMessage[T ~string](values []T) string {
	parts := make([]string, len(values))
	for i, v := range values {
		parts[i] = string(v)
	}
	return "Value must be one of: " + strings.Join(parts, ", ") + "."
}

func parseBudget(raw string) (int64, bool) {
	v, err := strconv.ParseInt(strings.TrimSpace(raw), 10, 64)
	if err != nil || v < 0 {
		return 0, false
	}
	return v, true
}

func allDigits(s string) bool {
	if s == "" {
		return false
	}
	for _, r := range s {
		if r < '0' || r > '9' {
			return false
		}
	}
	return true
}

// validEmail applies the usual lightweight shape check: one @ with a
// non-empty local part and a domain containing a dot, no whitespace.
func validEmail(s string) bool {
	at := strings.IndexByte(s, '@')
	if at <= 0 || at == len(s)-1 {
		return false
	}
	if strings.ContainsAny(s, " \t\n") {
		return false
	}
	domain := s[at+1:]
	dot := strings.IndexByte(domain, '.')
	if dot <= 0 || dot == len(domain)-1 {
		return false
	}
	return !strings.Contains(s[at+1:], "@")
}

func ptr[T any](v T) *T { return &v }
