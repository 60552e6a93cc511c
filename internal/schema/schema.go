// Package schema maps a claim type to its required field list.
package schema

import "github.com/ppiankov/claimflow/internal/model"

// DefaultFields is the fallback schema for unknown claim types.
var DefaultFields = []string{
	model.FieldDate,
	model.FieldTime,
	model.FieldLocation,
	model.FieldOtherVehicle,
	model.FieldInjuries,
	model.FieldDescription,
}

var claimTypeSchemas = map[string][]string{
	"motor_accident": append(append([]string{}, DefaultFields...),
		model.FieldOtherVehiclePlate, model.FieldEstimatedDamageCost),
	"theft": {
		model.FieldDate,
		model.FieldLocation,
		model.FieldDescription,
		model.FieldEstimatedDamageCost,
	},
}

// optional fields never count toward completeness and are skipped during
// initial collection.
var optionalFields = map[string]bool{
	model.FieldOtherVehiclePlate:   true,
	model.FieldEstimatedDamageCost: true,
}

// RequiredFields returns the ordered field list for a claim type. Unknown
// types degrade to the default schema rather than failing.
func RequiredFields(claimType string) []string {
	if fields, ok := claimTypeSchemas[claimType]; ok {
		return fields
	}
	return DefaultFields
}

// Optional reports whether a field belongs to the curated optional subset.
func Optional(field string) bool {
	return optionalFields[field]
}

// TrulyRequired filters the optional subset out of a required field list.
func TrulyRequired(fields []string) []string {
	out := make([]string, 0, len(fields))
	for _, f := range fields {
		if !optionalFields[f] {
			out = append(out, f)
		}
	}
	return out
}
