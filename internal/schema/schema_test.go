package schema

import (
	"testing"

	"github.com/ppiankov/claimflow/internal/model"
)

func TestRequiredFields_KnownTypes(t *testing.T) {
	motor := RequiredFields("motor_accident")
	if len(motor) != 8 {
		t.Fatalf("Expected 8 fields for motor_accident, got %d", len(motor))
	}
	if motor[len(motor)-1] != model.FieldEstimatedDamageCost {
		t.Errorf("Expected estimated_damage_cost last, got %s", motor[len(motor)-1])
	}

	theft := RequiredFields("theft")
	if len(theft) != 4 {
		t.Fatalf("Expected 4 fields for theft, got %d", len(theft))
	}
	for _, field := range theft {
		if field == model.FieldTime {
			t.Error("theft schema should not require time")
		}
	}
}

func TestRequiredFields_UnknownTypeDegradesToDefault(t *testing.T) {
	got := RequiredFields("alien_abduction")
	if len(got) != len(DefaultFields) {
		t.Fatalf("Expected default schema, got %v", got)
	}
	for i, field := range DefaultFields {
		if got[i] != field {
			t.Errorf("Field %d: expected %s, got %s", i, field, got[i])
		}
	}
}

func TestTrulyRequired_ExcludesOptionalSubset(t *testing.T) {
	truly := TrulyRequired(RequiredFields("motor_accident"))
	for _, field := range truly {
		if Optional(field) {
			t.Errorf("Optional field %s should be excluded", field)
		}
	}
	if len(truly) != 6 {
		t.Errorf("Expected 6 truly required fields, got %d", len(truly))
	}
}
