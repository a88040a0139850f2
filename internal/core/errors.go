package core

import (
	"errors"
	"fmt"

	"github.com/kAtharva4/buyer-lead-intake/internal/buyer"
)

// Sentinel errors for the failure modes callers must tell apart. The web
// layer maps each to its HTTP status.
var (
	// ErrNoSession means no caller identity was supplied.
	ErrNoSession = errors.New("authentication required")

	// ErrNotFound means the lead id did not resolve to a record.
	ErrNotFound = errors.New("buyer not found")

	// ErrForbidden means the caller is not the lead's owner. Mapping this to
	// 403 rather than 404 reveals that the record exists; that trade-off is
	// intentional since reads are not ownership-restricted anyway.
	ErrForbidden = errors.New("only the owner can modify this buyer")

	// ErrStaleWrite means the record changed since the caller last read it.
	ErrStaleWrite = errors.New("record changed, please refresh")

	// ErrDuplicatePhone means a lead with the same phone already exists.
	ErrDuplicatePhone = errors.New("a record with this phone number already exists")

	// ErrNoFile means the import request carried no file.
	ErrNoFile = errors.New("no file uploaded")

	// ErrFileTooLarge means the uploaded file exceeds the size ceiling.
	ErrFileTooLarge = errors.New("csv file exceeds the maximum size")

	// ErrTooManyRows means the CSV has more data rows than the ceiling.
	ErrTooManyRows = errors.New("csv file has more than the maximum number of rows")

	// ErrInvalidCSV means the file could not be parsed as delimited text.
	ErrInvalidCSV = errors.New("file is not a valid csv")
)

// ValidationError carries the exhaustive field → messages mapping for a
// rejected record or patch.
type ValidationError struct {
	Fields buyer.FieldErrors
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("validation failed: %s", e.Fields.Error())
}
