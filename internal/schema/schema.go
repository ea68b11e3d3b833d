// Package schema declares, per record kind, the ordered field definitions the
// edit pipeline validates against. Create and edit flows share one schema; the
// flows differ only in which fields arrive pre-filled.
package schema

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/orbitcrm/record_console_app/internal/apperrors"
)

// validate backs the URL/email shape rules. A single instance is safe for
// concurrent use.
var validate = validator.New(validator.WithRequiredStructEnabled())

// FieldError is one field-level validation failure.
type FieldError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

// Errors aggregates validation failures. It keeps both a path-keyed map for
// inline messages and a slice in field-declaration order for the banner, so
// message ordering is stable.
type Errors struct {
	byPath  map[string]string
	ordered []FieldError
}

// NewErrors returns an empty aggregate.
func NewErrors() *Errors {
	return &Errors{byPath: make(map[string]string)}
}

// Add records a failure for a field path. The first message per path wins.
func (e *Errors) Add(path, message string) {
	if _, dup := e.byPath[path]; dup {
		return
	}
	e.byPath[path] = message
	e.ordered = append(e.ordered, FieldError{Field: path, Message: message})
}

// Empty reports whether no failures were recorded.
func (e *Errors) Empty() bool {
	return len(e.ordered) == 0
}

// Field returns the message for a field path, or "".
func (e *Errors) Field(path string) string {
	return e.byPath[path]
}

// FieldMap returns the path-keyed message map.
func (e *Errors) FieldMap() map[string]string {
	out := make(map[string]string, len(e.byPath))
	for k, v := range e.byPath {
		out[k] = v
	}
	return out
}

// Ordered returns the failures in field-declaration order.
func (e *Errors) Ordered() []FieldError {
	return append([]FieldError(nil), e.ordered...)
}

// Error implements error.
func (e *Errors) Error() string {
	msgs := make([]string, len(e.ordered))
	for i, fe := range e.ordered {
		msgs[i] = fe.Message
	}
	return fmt.Sprintf("validation failed: %s", strings.Join(msgs, "; "))
}

// Unwrap ties Errors into the sentinel taxonomy so callers can use
// errors.Is(err, apperrors.ErrValidation).
func (e *Errors) Unwrap() error {
	return apperrors.ErrValidation
}

// Kind selects the static rule applied to a field's string value.
type Kind int

const (
	KindString Kind = iota
	KindURL
	KindEmail
	KindNumber
)

// Field is one declarative field definition. Value extracts the candidate's
// raw string; nested shapes use dotted paths.
type Field[F any] struct {
	Path     string
	Label    string
	Kind     Kind
	Required bool
	Enum     []string // closed membership; unknown values are rejected, never coerced
	Min, Max float64
	HasRange bool
	Value    func(*F) string
}

// runFields applies every static per-field rule in declaration order.
func runFields[F any](form *F, fields []Field[F], errs *Errors) {
	for _, fd := range fields {
		val := strings.TrimSpace(fd.Value(form))
		if val == "" {
			if fd.Required {
				errs.Add(fd.Path, fmt.Sprintf("%s is required", fd.Label))
			}
			// Empty and absent are intentionally conflated for optional
			// fields; no URL/enum/range nagging on blank input.
			continue
		}
		switch fd.Kind {
		case KindURL:
			if validate.Var(val, "url") != nil {
				errs.Add(fd.Path, fmt.Sprintf("%s must be a valid URL", fd.Label))
				continue
			}
		case KindEmail:
			if validate.Var(val, "email") != nil {
				errs.Add(fd.Path, fmt.Sprintf("%s must be a valid email address", fd.Label))
				continue
			}
		case KindNumber:
			n, err := strconv.ParseFloat(val, 64)
			if err != nil {
				// Unparsable numerics are treated as absent by the
				// transformer; the schema stays silent to match.
				continue
			}
			if fd.HasRange && (n < fd.Min || n > fd.Max) {
				errs.Add(fd.Path, rangeMessage(fd.Label, fd.Min, fd.Max))
				continue
			}
		}
		if len(fd.Enum) > 0 && !contains(fd.Enum, val) {
			errs.Add(fd.Path, fmt.Sprintf("%s must be one of [%s]", fd.Label, strings.Join(fd.Enum, ", ")))
		}
	}
}

func rangeMessage(label string, min, max float64) string {
	return fmt.Sprintf("%s must be between %s and %s",
		label, strconv.FormatFloat(min, 'f', -1, 64), strconv.FormatFloat(max, 'f', -1, 64))
}

func contains(members []string, v string) bool {
	for _, m := range members {
		if m == v {
			return true
		}
	}
	return false
}
