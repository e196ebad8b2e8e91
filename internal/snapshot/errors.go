// internal/snapshot/errors.go
package snapshot

import "fmt"

// MissingFieldError reports a required field absent from a checkpoint.
// Well is empty when the missing field is the checkpoint time.
type MissingFieldError struct {
	Well  string
	Field string
}

func (e *MissingFieldError) Error() string {
	if e.Well == "" {
		return fmt.Sprintf("snapshot: missing field %s", e.Field)
	}
	return fmt.Sprintf("snapshot: well %q: missing field %s", e.Well, e.Field)
}

// InvalidFieldError reports a field that is present but unusable.
type InvalidFieldError struct {
	Well   string
	Field  string
	Reason string
}

func (e *InvalidFieldError) Error() string {
	if e.Well == "" {
		return fmt.Sprintf("snapshot: invalid %s: %s", e.Field, e.Reason)
	}
	return fmt.Sprintf("snapshot: well %q: invalid %s: %s", e.Well, e.Field, e.Reason)
}
