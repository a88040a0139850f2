package core

// audit.go builds the structured diff payload stored with each history
// entry. The payload is a tagged variant: creates store a full snapshot
// (field "all fields", null old value, the whole record as new value);
// updates store one delta per changed field.

import (
	"encoding/json"

	"github.com/kAtharva4/buyer-lead-intake/internal/buyer"
)

// Diff kinds.
const (
	DiffFullSnapshot = "full_snapshot"
	DiffFieldDelta   = "field_delta"
)

// FieldDelta describes one changed field.
type FieldDelta struct {
	Field    string `json:"field"`
	OldValue any    `json:"oldValue"`
	NewValue any    `json:"newValue"`
}

// Diff is the change payload attached to a history entry.
type Diff struct {
	Kind     string       `json:"kind"`
	Field    string       `json:"field,omitempty"`
	OldValue any          `json:"oldValue,omitempty"`
	NewValue any          `json:"newValue,omitempty"`
	Fields   []FieldDelta `json:"fields,omitempty"`
}

// snapshotDiff builds the creation diff: all fields, from nothing.
func snapshotDiff(b *buyer.Buyer) Diff {
	return Diff{
		Kind:     DiffFullSnapshot,
		Field:    "all fields",
		OldValue: nil,
		NewValue: b,
	}
}

// deltaDiff builds the update diff from the fields the patch supplied,
// recording old and new values only where they actually differ.
func deltaDiff(old, updated *buyer.Buyer, p *buyer.Patch) Diff {
	var deltas []FieldDelta
	add := func(field string, oldV, newV any) {
		deltas = append(deltas, FieldDelta{Field: field, OldValue: oldV, NewValue: newV})
	}

	if p.FullName != nil && old.FullName != updated.FullName {
		add("fullName", old.FullName, updated.FullName)
	}
	if p.Email != nil && !eqPtr(old.Email, updated.Email) {
		add("email", deref(old.Email), deref(updated.Email))
	}
	if p.Phone != nil && old.Phone != updated.Phone {
		add("phone", old.Phone, updated.Phone)
	}
	if p.City != nil && old.City != updated.City {
		add("city", old.City, updated.City)
	}
	if p.PropertyType != nil && old.PropertyType != updated.PropertyType {
		add("propertyType", old.PropertyType, updated.PropertyType)
	}
	if p.BHK != nil && !eqPtr(old.BHK, updated.BHK) {
		add("bhk", deref(old.BHK), deref(updated.BHK))
	}
	if p.Purpose != nil && old.Purpose != updated.Purpose {
		add("purpose", old.Purpose, updated.Purpose)
	}
	if p.BudgetMin != nil && !eqPtr(old.BudgetMin, updated.BudgetMin) {
		add("budgetMin", deref(old.BudgetMin), deref(updated.BudgetMin))
	}
	if p.BudgetMax != nil && !eqPtr(old.BudgetMax, updated.BudgetMax) {
		add("budgetMax", deref(old.BudgetMax), deref(updated.BudgetMax))
	}
	if p.Timeline != nil && old.Timeline != updated.Timeline {
		add("timeline", old.Timeline, updated.Timeline)
	}
	if p.Source != nil && old.Source != updated.Source {
		add("source", old.Source, updated.Source)
	}
	if p.Status != nil && old.Status != updated.Status {
		add("status", old.Status, updated.Status)
	}
	if p.Notes != nil && !eqPtr(old.Notes, updated.Notes) {
		add("notes", deref(old.Notes), deref(updated.Notes))
	}
	if p.Tags != nil && !eqSlice(old.Tags, updated.Tags) {
		add("tags", old.Tags, updated.Tags)
	}

	return Diff{Kind: DiffFieldDelta, Fields: deltas}
}

// marshalDiff serializes a diff for storage. A payload that cannot marshal
// is a programming error; the caller logs and skips the entry.
func marshalDiff(d Diff) (json.RawMessage, error) {
	return json.Marshal(d)
}

func eqPtr[T comparable](a, b *T) bool {
	if a == nil || b == nil {
		return a == b
	}
	return *a == *b
}

func deref[T any](p *T) any {
	if p == nil {
		return nil
	}
	return *p
}

func eqSlice(a, b []string) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}
