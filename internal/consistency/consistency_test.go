package consistency

import (
	"testing"

	"github.com/ppiankov/claimflow/internal/model"
	"github.com/ppiankov/claimflow/internal/schema"
)

func TestEmpty(t *testing.T) {
	tests := []struct {
		name  string
		value any
		want  bool
	}{
		{"nil", nil, true},
		{"empty string", "", true},
		{"unknown placeholder", "unknown", true},
		{"not provided placeholder", "not provided", true},
		{"real value", "2025-01-12", false},
		{"false boolean", false, false},
		{"zero float", 0.0, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Empty(tt.value); got != tt.want {
				t.Errorf("Empty(%v) = %v, want %v", tt.value, got, tt.want)
			}
		})
	}
}

func TestCompleteness_MonotonicAsPlaceholdersFill(t *testing.T) {
	rec := model.NewClaimRecord("motor_accident")
	required := schema.RequiredFields(rec.ClaimType)

	prev := Completeness(rec, required)
	if prev != 0.0 {
		t.Fatalf("Expected 0.0 for empty record, got %v", prev)
	}

	fills := []struct {
		field string
		value any
	}{
		{model.FieldDate, "2025-01-12"},
		{model.FieldTime, "18:45"},
		{model.FieldLocation, "Bellevue Square, Zurich"},
		{model.FieldOtherVehicle, true},
		{model.FieldInjuries, "minor"},
		{model.FieldDescription, "Rear-end collision"},
	}
	for _, f := range fills {
		rec.SetField(f.field, f.value, model.SourceUser)
		score := Completeness(rec, required)
		if score < prev {
			t.Errorf("Completeness decreased from %v to %v after filling %s", prev, score, f.field)
		}
		prev = score
	}

	if prev != 1.0 {
		t.Errorf("Expected 1.0 with all truly-required fields filled, got %v", prev)
	}
}

func TestCompleteness_PlaceholdersCountAsEmpty(t *testing.T) {
	rec := model.NewClaimRecord("motor_accident")
	rec.SetField(model.FieldDate, "not provided", model.SourceDefault)
	rec.SetField(model.FieldTime, "unknown", model.SourceDefault)
	rec.SetField(model.FieldLocation, "Zurich", model.SourceUser)

	score := Completeness(rec, schema.RequiredFields(rec.ClaimType))
	if score != 0.17 {
		t.Errorf("Expected 0.17 (1/6 rounded), got %v", score)
	}
}

func TestCompleteness_OptionalFieldsExcluded(t *testing.T) {
	rec := model.NewClaimRecord("motor_accident")
	// Filling only the optional subset must not move the score.
	rec.SetField(model.FieldOtherVehiclePlate, "ZH 223014", model.SourceUser)
	rec.SetField(model.FieldEstimatedDamageCost, 3000.0, model.SourceUser)

	if score := Completeness(rec, schema.RequiredFields(rec.ClaimType)); score != 0.0 {
		t.Errorf("Expected 0.0, got %v", score)
	}
}

func TestCompleteness_ZeroRequiredFields(t *testing.T) {
	rec := model.NewClaimRecord("motor_accident")
	if score := Completeness(rec, nil); score != 1.0 {
		t.Errorf("Expected 1.0 for zero required fields, got %v", score)
	}
}

func TestFindConflicts_RequiresBothSidesPresent(t *testing.T) {
	rec := model.NewClaimRecord("motor_accident")
	rec.SetField(model.FieldDate, "2024-05-18", model.SourceUser)

	// Document silent on date: no conflict.
	if flags := FindConflicts(rec, map[string]string{}); len(flags) != 0 {
		t.Errorf("Expected no conflicts, got %v", flags)
	}

	// Record empty on time: no conflict even though document has one.
	if flags := FindConflicts(rec, map[string]string{"time": "18:45"}); len(flags) != 0 {
		t.Errorf("Expected no conflicts, got %v", flags)
	}

	// Placeholder on the record side: no conflict.
	rec.SetField(model.FieldInjuries, "not provided", model.SourceDefault)
	if flags := FindConflicts(rec, map[string]string{"injuries": "minor"}); len(flags) != 0 {
		t.Errorf("Expected no conflicts for placeholder value, got %v", flags)
	}

	// Both sides present and different: conflict.
	flags := FindConflicts(rec, map[string]string{"date": "2024-05-19"})
	if len(flags) != 1 || flags[0] != "date_mismatch" {
		t.Errorf("Expected [date_mismatch], got %v", flags)
	}
}

func TestFindConflicts_TrimmedValuesMatch(t *testing.T) {
	rec := model.NewClaimRecord("motor_accident")
	rec.SetField(model.FieldLocation, "  Bellevue Square, Zurich ", model.SourceUser)

	flags := FindConflicts(rec, map[string]string{"location": "Bellevue Square, Zurich"})
	if len(flags) != 0 {
		t.Errorf("Expected whitespace-only differences to match, got %v", flags)
	}

	// Case differences are a mismatch: comparison is exact post-trim.
	flags = FindConflicts(rec, map[string]string{"location": "bellevue square, zurich"})
	if len(flags) != 1 {
		t.Errorf("Expected case difference to conflict, got %v", flags)
	}
}

func TestFindConflicts_Idempotent(t *testing.T) {
	rec := model.NewClaimRecord("motor_accident")
	rec.SetField(model.FieldDate, "2024-05-18", model.SourceUser)
	rec.SetField(model.FieldTime, "18:45", model.SourceUser)
	doc := map[string]string{"date": "2024-05-19", "time": "19:00"}

	first := FindConflicts(rec, doc)
	second := FindConflicts(rec, doc)
	if len(first) != len(second) {
		t.Fatalf("Expected identical results, got %v vs %v", first, second)
	}
	for i := range first {
		if first[i] != second[i] {
			t.Errorf("Flag %d differs: %s vs %s", i, first[i], second[i])
		}
	}
}

func TestConflictField(t *testing.T) {
	if got := ConflictField("date_mismatch"); got != "date" {
		t.Errorf("Expected date, got %s", got)
	}
}
