package catalog

import (
	"errors"

	"github.com/joestump/catalog-core/internal/schema"
)

// FieldError is a validation failure attributable to one input field.
type FieldError interface {
	error
	Field() string
}

// InputError is a field-keyed failure raised by the service itself.
type InputError struct {
	Name    string
	Message string
}

func (e *InputError) Error() string { return e.Name + ": " + e.Message }

// Field names the input the error belongs to.
func (e *InputError) Field() string { return e.Name }

func inputErr(field, msg string) *InputError {
	return &InputError{Name: field, Message: msg}
}

// FieldMessages maps err to messages keyed by field name. It returns nil when
// err is not a validation failure.
func FieldMessages(err error) map[string][]string {
	var aerr *schema.AttributeValidationError
	if errors.As(err, &aerr) {
		msgs := make([]string, 0, len(aerr.Violations))
		for _, v := range aerr.Violations {
			msgs = append(msgs, v.Path+": "+v.Message)
		}
		return map[string][]string{aerr.Field(): msgs}
	}
	var ierr *InputError
	if errors.As(err, &ierr) {
		return map[string][]string{ierr.Name: {ierr.Message}}
	}
	var ferr FieldError
	if errors.As(err, &ferr) {
		return map[string][]string{ferr.Field(): {ferr.Error()}}
	}
	return nil
}
