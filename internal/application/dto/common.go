package dto

import (
	"fmt"
	"strings"
	"time"

	"github.com/jhoicas/yarn-inventory/internal/domain"
	"github.com/jhoicas/yarn-inventory/pkg/validator"
)

// DateLayout format of every calendar date exchanged with clients.
const DateLayout = "2006-01-02"

// ErrorResponse HTTP error body.
type ErrorResponse struct {
	Code     string                  `json:"code"`
	Message  string                  `json:"message"`
	Fields   []*validator.FieldError `json:"fields,omitempty"`
	LoginURL string                  `json:"login_url,omitempty"`
}

// MessageResponse plain acknowledgement.
type MessageResponse struct {
	Message string `json:"message"`
}

// ParseDay parses an optional YYYY-MM-DD query value. Empty input yields nil.
func ParseDay(field, s string) (*time.Time, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil, nil
	}
	t, err := time.ParseInLocation(DateLayout, s, time.UTC)
	if err != nil {
		return nil, fmt.Errorf("%w: %s must be a date (YYYY-MM-DD)", domain.ErrInvalidInput, field)
	}
	return &t, nil
}

// ValidationError carries the failed field rules. It matches domain.ErrInvalidInput.
type ValidationError struct {
	Fields []*validator.FieldError
}

func (e *ValidationError) Error() string {
	names := make([]string, 0, len(e.Fields))
	for _, f := range e.Fields {
		names = append(names, f.Field)
	}
	return fmt.Sprintf("invalid input: %s", strings.Join(names, ", "))
}

func (e *ValidationError) Unwrap() error { return domain.ErrInvalidInput }

// FieldInvalid reports a single failed rule.
func FieldInvalid(field, tag, param string) *ValidationError {
	return &ValidationError{Fields: []*validator.FieldError{{Field: field, Tag: tag, Param: param}}}
}

// Validate runs the struct's validate tags.
func Validate(v interface{}) error {
	if errs := validator.ValidateStruct(v); len(errs) > 0 {
		return &ValidationError{Fields: errs}
	}
	return nil
}
