package model

import (
	"encoding/json"
	"testing"
)

func TestSetFieldAndProvenance(t *testing.T) {
	rec := NewClaimRecord("motor_accident")

	rec.SetField(FieldDate, "2024-05-18", SourceUser)
	if rec.Date != "2024-05-18" {
		t.Errorf("Expected date set, got %q", rec.Date)
	}
	if rec.FieldsSource[FieldDate] != SourceUser {
		t.Errorf("Expected user provenance, got %q", rec.FieldsSource[FieldDate])
	}

	rec.SetField(FieldOtherVehicle, true, SourceUser)
	if rec.OtherVehicleInvolved == nil || !*rec.OtherVehicleInvolved {
		t.Error("Expected involvement stored as true")
	}

	rec.SetField(FieldEstimatedDamageCost, 3200.50, SourceUser)
	if rec.EstimatedDamageCost != 3200.50 {
		t.Errorf("Expected numeric cost, got %v", rec.EstimatedDamageCost)
	}

	// Unknown fields are ignored, not stored.
	rec.SetField("bogus", "x", SourceUser)
	if _, ok := rec.FieldsSource["bogus"]; ok {
		t.Error("Unknown field must not get a provenance tag")
	}
}

func TestFieldReturnsNilForUnset(t *testing.T) {
	rec := NewClaimRecord("motor_accident")

	value, ok := rec.Field(FieldLocation)
	if !ok || value != nil {
		t.Errorf("Unset field should be (nil, true), got (%v, %v)", value, ok)
	}
	if _, ok := rec.Field("bogus"); ok {
		t.Error("Unknown field should report ok=false")
	}

	rec.SetField(FieldLocation, "Zurich", SourceUser)
	value, _ = rec.Field(FieldLocation)
	if value != "Zurich" {
		t.Errorf("Expected stored value, got %v", value)
	}
}

func TestKnownField(t *testing.T) {
	for _, field := range []string{FieldDate, FieldTime, FieldLocation, FieldOtherVehicle, FieldOtherVehiclePlate, FieldInjuries, FieldDescription, FieldEstimatedDamageCost} {
		if !KnownField(field) {
			t.Errorf("Expected %s to be known", field)
		}
	}
	if KnownField("claim_type") {
		t.Error("claim_type is not a domain field")
	}
}

func TestRecordJSONKeys(t *testing.T) {
	rec := NewClaimRecord("motor_accident")
	rec.SetField(FieldDate, "2024-05-18", SourceUser)
	rec.AddMessage("assistant", "What date was the incident?")
	rec.AddReasoning("Collected date from user.")

	data, err := json.Marshal(rec)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	var m map[string]any
	if err := json.Unmarshal(data, &m); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}

	for _, key := range []string{"claim_type", "date", "fields_source", "documents", "completeness_score", "consistency_flags", "reasoning_trace", "messages", "doc_extracted_fields", "collection_attempts", "validation_cycles", "previous_completeness"} {
		if _, ok := m[key]; !ok {
			t.Errorf("Expected JSON key %q", key)
		}
	}
	if _, ok := m["summary"]; ok {
		t.Error("Empty summary should be omitted")
	}
}

func TestQuestionDisplayText(t *testing.T) {
	q := Question{Field: FieldDate, Text: "What date was the incident?"}
	if q.DisplayText() != q.Text {
		t.Errorf("Expected Text fallback, got %q", q.DisplayText())
	}
	q.Display = "You said X, report says Y. Which is correct?"
	if q.DisplayText() != q.Display {
		t.Errorf("Expected Display preferred, got %q", q.DisplayText())
	}
}
