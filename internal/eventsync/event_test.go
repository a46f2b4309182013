package eventsync_test

import (
	"encoding/json"
	"testing"

	"ewms/internal/eventsync"
)

func TestNewAnnotatesDiagnosisWithNotes(t *testing.T) {
	patient := eventsync.PatientSnapshot{Name: "B", MRN: "002", Diagnosis: "fracture"}

	plain := eventsync.New(eventsync.ActionAdmit, 1, patient, "", "")
	if plain.Diagnosis != "fracture" {
		t.Fatalf("diagnosis without notes = %q", plain.Diagnosis)
	}

	annotated := eventsync.New(eventsync.ActionTransfer, 1, patient, "", "To Bed 4")
	if annotated.Diagnosis != "fracture (To Bed 4)" {
		t.Fatalf("annotated diagnosis = %q", annotated.Diagnosis)
	}
}

func TestEventPayloadFieldNames(t *testing.T) {
	ev := eventsync.New(eventsync.ActionDischarge, 3, eventsync.PatientSnapshot{
		Name:      "A",
		MRN:       "001",
		Diagnosis: "flu",
		VisitDate: "3/1/2026",
		VisitTime: "8:00:00 AM",
	}, "00:01:01:01", "")

	payload, err := json.Marshal(ev)
	if err != nil {
		t.Fatalf("marshal event: %v", err)
	}

	var fields map[string]any
	if err := json.Unmarshal(payload, &fields); err != nil {
		t.Fatalf("unmarshal payload: %v", err)
	}
	for _, key := range []string{"action", "bedId", "name", "mrn", "diagnosis", "visitDate", "visitTime", "duration"} {
		if _, ok := fields[key]; !ok {
			t.Fatalf("payload missing %q: %s", key, payload)
		}
	}
	if fields["action"] != "DISCHARGE" || fields["duration"] != "00:01:01:01" {
		t.Fatalf("payload values wrong: %s", payload)
	}
}
