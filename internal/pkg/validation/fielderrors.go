package validation

import "wealthdesk-backend/internal/pkg/apperr"

// FieldErrors collects field-level violations so callers can report them together.
type FieldErrors map[string]string

// Add records msg for field, keeping the first message per field.
func (f FieldErrors) Add(field, msg string) {
	if _, ok := f[field]; !ok {
		f[field] = msg
	}
}

// Check adds msg when ok is false.
func (f FieldErrors) Check(ok bool, field, msg string) {
	if !ok {
		f.Add(field, msg)
	}
}

// Err returns a Validation error, or nil when nothing was collected.
func (f FieldErrors) Err() error {
	if len(f) == 0 {
		return nil
	}
	return apperr.Validation(map[string]string(f))
}
