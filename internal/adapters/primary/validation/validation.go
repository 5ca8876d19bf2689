package validation

import (
	"encoding/json"
	"io"
	"net/http"
	"strconv"
	"strings"

	"github.com/lorrc/coordination-backend/internal/core/domain"
	apperrors "github.com/lorrc/coordination-backend/internal/core/errors"
)

// MaxBodyBytes caps request bodies decoded by DecodeAndValidate.
const MaxBodyBytes = 1 << 20

// Validator validates request data
type Validator struct {
	errors *apperrors.ValidationErrors
}

// NewValidator creates a new validator
func NewValidator() *Validator {
	return &Validator{
		errors: apperrors.NewValidationErrors(),
	}
}

// HasErrors returns true if there are validation errors
func (v *Validator) HasErrors() bool {
	return v.errors.HasErrors()
}

// Errors returns the validation errors
func (v *Validator) Errors() *apperrors.ValidationErrors {
	return v.errors
}

// Required validates that a string is not empty
func (v *Validator) Required(field, value string) *Validator {
	if strings.TrimSpace(value) == "" {
		v.errors.Add(field, "This field is required")
	}
	return v
}

// MaxItems validates the length of a list.
func (v *Validator) MaxItems(field string, n, max int) *Validator {
	if n > max {
		v.errors.Add(field, "Must contain at most "+strconv.Itoa(max)+" items")
	}
	return v
}

// NotNil validates that a decoded list was present in the body.
func (v *Validator) NotNil(field string, present bool) *Validator {
	if !present {
		v.errors.Add(field, "This field is required")
	}
	return v
}

// Custom adds a custom validation
func (v *Validator) Custom(field string, valid bool, message string) *Validator {
	if !valid {
		v.errors.Add(field, message)
	}
	return v
}

// DecodeAndValidate decodes a JSON request body, rejecting unknown fields.
func DecodeAndValidate[T any](r *http.Request) (*T, error) {
	var req T

	dec := json.NewDecoder(io.LimitReader(r.Body, MaxBodyBytes))
	dec.DisallowUnknownFields()
	if err := dec.Decode(&req); err != nil {
		return nil, apperrors.NewBadRequestError(err, "Invalid request body")
	}

	return &req, nil
}

// SplitList splits a comma-separated list, trimming blanks.
func SplitList(raw string) []string {
	parts := strings.Split(raw, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}

// ParseTeamSelection reads the teams query parameter. An absent parameter
// yields nil (every team); a present but empty one yields an empty selection.
func ParseTeamSelection(r *http.Request) domain.TeamSelection {
	values, ok := r.URL.Query()["teams"]
	if !ok {
		return nil
	}

	sel := domain.NewTeamSelection()
	for _, raw := range values {
		for _, id := range SplitList(raw) {
			sel[domain.TeamID(id)] = struct{}{}
		}
	}
	return sel
}

// ParseSprintID parses a sprint id path value.
func ParseSprintID(raw string) (domain.SprintID, error) {
	id, err := strconv.Atoi(raw)
	if err != nil || id <= 0 {
		v := NewValidator()
		v.Custom("sprintID", false, "Must be a positive integer")
		return 0, v.Errors()
	}
	return domain.SprintID(id), nil
}

// ParseBoolQueryParam safely parses a boolean query parameter
func ParseBoolQueryParam(r *http.Request, key string, defaultValue bool) bool {
	valueStr := r.URL.Query().Get(key)
	if valueStr == "" {
		return defaultValue
	}

	value, err := strconv.ParseBool(valueStr)
	if err != nil {
		return defaultValue
	}

	return value
}
