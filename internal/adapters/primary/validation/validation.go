package validation

import (
	"net/http"
	"strings"
	"time"

	"github.com/marcosaraujo-dev/RelatorioProjetos/internal/core/domain"
	apperrors "github.com/marcosaraujo-dev/RelatorioProjetos/internal/core/errors"
)

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

// Err returns the collected errors, or nil when there are none.
func (v *Validator) Err() error {
	if v.HasErrors() {
		return v.errors
	}
	return nil
}

// Date parses an optional YYYY-MM-DD value. A blank value yields nil.
func (v *Validator) Date(field, value string) *time.Time {
	value = strings.TrimSpace(value)
	if value == "" {
		return nil
	}
	t, err := time.Parse(domain.DateLayout, value)
	if err != nil {
		v.errors.Add(field, "Must be a date in YYYY-MM-DD format")
		return nil
	}
	return &t
}

// DateOrder checks that start is not after end when both are set.
func (v *Validator) DateOrder(startField string, start, end *time.Time) *Validator {
	inverted := start != nil && end != nil && start.After(*end)
	return v.Custom(startField, !inverted, "Must not be after the end date")
}

// RecordType parses an optional record type name. Blank means every type.
func (v *Validator) RecordType(field, value string) domain.RecordType {
	allowed := make([]string, 0, len(domain.RecordTypes))
	for _, t := range domain.RecordTypes {
		allowed = append(allowed, t.String())
	}
	v.OneOf(field, value, allowed)
	return domain.ParseRecordType(value)
}

// OneOf validates value is one of the allowed values
func (v *Validator) OneOf(field, value string, allowed []string) *Validator {
	if value == "" {
		return v
	}

	for _, a := range allowed {
		if value == a {
			return v
		}
	}

	v.errors.Add(field, "Must be one of: "+strings.Join(allowed, ", "))
	return v
}

// Custom adds a custom validation
func (v *Validator) Custom(field string, valid bool, message string) *Validator {
	if !valid {
		v.errors.Add(field, message)
	}
	return v
}

// FilterParams is the common filter bar shared by every read endpoint.
type FilterParams struct {
	Team    string
	Product string
	Status  string
	Type    string
	Stage   string
	Search  string
	Period  domain.PeriodKey
	Start   *time.Time
	End     *time.Time

	// RecordType narrows the Gantt chart. RecordTypeUnknown keeps every type.
	RecordType domain.RecordType
}

// ParseFilterParams reads the filter query parameters. Unparsable dates
// are reported as validation errors; unknown period keys pass through and
// resolve to no date filter.
func ParseFilterParams(r *http.Request) (FilterParams, error) {
	q := r.URL.Query()
	v := NewValidator()

	p := FilterParams{
		Team:       ParseStringQueryParam(r, "team"),
		Product:    ParseStringQueryParam(r, "product"),
		Status:     ParseStringQueryParam(r, "status"),
		Type:       ParseStringQueryParam(r, "type"),
		Stage:      ParseStringQueryParam(r, "stage"),
		Search:     ParseStringQueryParam(r, "search"),
		Period:     domain.ParsePeriodKey(q.Get("period")),
		Start:      v.Date("start", q.Get("start")),
		End:        v.Date("end", q.Get("end")),
		RecordType: v.RecordType("record_type", ParseStringQueryParam(r, "record_type")),
	}
	v.DateOrder("start", p.Start, p.End)

	return p, v.Err()
}

// Bounds returns the explicit start/end pair.
func (p FilterParams) Bounds() domain.Bounds {
	return domain.Bounds{Start: p.Start, End: p.End}
}

// ParseStringQueryParam returns the trimmed query parameter, treating the
// "all" placeholder the dashboard sends as absent.
func ParseStringQueryParam(r *http.Request, key string) string {
	value := strings.TrimSpace(r.URL.Query().Get(key))
	if strings.EqualFold(value, "all") || strings.EqualFold(value, "todos") {
		return ""
	}
	return value
}
