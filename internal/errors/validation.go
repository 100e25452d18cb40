package errors

import (
	"fmt"
	"sort"
	"strings"
)

// MetaValidationErrors is the meta key holding the per-field messages of a
// failed validation, as a map[string][]string.
const MetaValidationErrors = "validation_errors"

// ValidationBuilder collects field problems for a config, an entity or CLI
// input and turns them into one InvalidArgument error.
type ValidationBuilder struct {
	fields map[string][]string
}

// NewValidationBuilder creates an empty builder
func NewValidationBuilder() *ValidationBuilder {
	return &ValidationBuilder{fields: make(map[string][]string)}
}

// Field records a message for a field
func (vb *ValidationBuilder) Field(field, message string) *ValidationBuilder {
	vb.fields[field] = append(vb.fields[field], message)
	return vb
}

// Fieldf records a formatted message for a field
func (vb *ValidationBuilder) Fieldf(field, format string, args ...interface{}) *ValidationBuilder {
	return vb.Field(field, fmt.Sprintf(format, args...))
}

// RequiredField records a missing dependency or value
func (vb *ValidationBuilder) RequiredField(field string) *ValidationBuilder {
	return vb.Field(field, "is required")
}

// InvalidField records a value that is present but unusable
func (vb *ValidationBuilder) InvalidField(field, reason string) *ValidationBuilder {
	return vb.Fieldf(field, "is invalid: %s", reason)
}

// HasErrors reports whether any field was recorded
func (vb *ValidationBuilder) HasErrors() bool {
	return len(vb.fields) > 0
}

// Build returns nil when nothing was recorded. Otherwise the error message
// lists the fields in name order and the meta carries the full map.
func (vb *ValidationBuilder) Build() error {
	if !vb.HasErrors() {
		return nil
	}

	names := make([]string, 0, len(vb.fields))
	for name := range vb.fields {
		names = append(names, name)
	}
	sort.Strings(names)

	parts := make([]string, len(names))
	for i, name := range names {
		parts[i] = name + ": " + strings.Join(vb.fields[name], ", ")
	}

	return InvalidArgument("validation failed: "+strings.Join(parts, "; ")).
		WithMeta(MetaValidationErrors, vb.fields)
}

// ValidationErrors returns the per-field messages of a validation failure,
// or nil when err did not come from a ValidationBuilder.
func ValidationErrors(err error) map[string][]string {
	fields, _ := GetMeta(err)[MetaValidationErrors].(map[string][]string)
	return fields
}

// ValidateRequired flags a blank string field
func ValidateRequired(field, value string, vb *ValidationBuilder) {
	if strings.TrimSpace(value) == "" {
		vb.RequiredField(field)
	}
}

// ValidateID flags a user or entity id that is not positive
func ValidateID(field string, id int64, vb *ValidationBuilder) {
	if id <= 0 {
		vb.InvalidField(field, "must be a positive id")
	}
}

// ValidateNonNegative flags amounts such as gold, damage or HP below zero
func ValidateNonNegative(field string, value int, vb *ValidationBuilder) {
	if value < 0 {
		vb.InvalidField(field, "must not be negative")
	}
}

// ValidateRange flags a value outside [minValue, maxValue]
func ValidateRange(field string, value, minValue, maxValue int, vb *ValidationBuilder) {
	if value < minValue || value > maxValue {
		vb.Fieldf(field, "must be between %d and %d", minValue, maxValue)
	}
}

// ValidateEnum flags a value missing from allowed
func ValidateEnum(field, value string, allowed []string, vb *ValidationBuilder) {
	for _, a := range allowed {
		if value == a {
			return
		}
	}
	vb.Fieldf(field, "must be one of: %s", strings.Join(allowed, ", "))
}
