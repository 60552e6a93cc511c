// Package consistency scores claim completeness and detects conflicts
// between claimant-supplied and document-extracted values.
package consistency

import (
	"fmt"
	"math"
	"strings"

	"github.com/ppiankov/claimflow/internal/model"
	"github.com/ppiankov/claimflow/internal/schema"
)

// placeholder tokens that count as empty alongside nil and "".
var placeholderValues = map[string]bool{
	"":             true,
	"unknown":      true,
	"not provided": true,
}

// Empty reports whether a field value carries no real information. A value
// is empty when it is nil, an empty string, or a reserved placeholder
// token. Booleans and numbers are never empty once set.
func Empty(value any) bool {
	if value == nil {
		return true
	}
	if s, ok := value.(string); ok {
		return placeholderValues[s]
	}
	return false
}

// Completeness returns the filled-required / total-required ratio, rounded
// to 2 decimals. The curated optional subset is excluded from the
// denominator entirely. Zero truly-required fields scores 1.0.
func Completeness(rec *model.ClaimRecord, requiredFields []string) float64 {
	truly := schema.TrulyRequired(requiredFields)
	if len(truly) == 0 {
		return 1.0
	}
	filled := 0
	for _, field := range truly {
		value, _ := rec.Field(field)
		if !Empty(value) {
			filled++
		}
	}
	return math.Round(float64(filled)/float64(len(truly))*100) / 100
}

// MissingFields returns the truly-required fields still holding no real
// value, in schema order.
func MissingFields(rec *model.ClaimRecord, requiredFields []string) []string {
	var missing []string
	for _, field := range schema.TrulyRequired(requiredFields) {
		value, _ := rec.Field(field)
		if Empty(value) {
			missing = append(missing, field)
		}
	}
	return missing
}

// checkableFields is the fixed checklist of fields cross-checked between
// the record and document extraction.
var checkableFields = []string{
	model.FieldDate,
	model.FieldTime,
	model.FieldLocation,
	model.FieldInjuries,
	model.FieldOtherVehiclePlate,
}

// FindConflicts flags a conflict only when both the record value and the
// document value are present, non-placeholder, and their trimmed string
// forms differ. Absence on either side is never a conflict. Output order
// follows the checklist, so repeated calls on unchanged inputs are
// identical.
func FindConflicts(rec *model.ClaimRecord, docFields map[string]string) []string {
	flags := []string{}
	for _, field := range checkableFields {
		docValue, ok := docFields[field]
		if !ok || Empty(docValue) {
			continue
		}
		recValue, _ := rec.Field(field)
		if Empty(recValue) {
			continue
		}
		recText := fmt.Sprintf("%v", recValue)
		if strings.TrimSpace(docValue) != strings.TrimSpace(recText) {
			flags = append(flags, field+"_mismatch")
		}
	}
	return flags
}

// ConflictField recovers the field name from a "<field>_mismatch" tag.
func ConflictField(flag string) string {
	return strings.TrimSuffix(flag, "_mismatch")
}
