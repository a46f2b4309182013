package api_test

import (
	"testing"
	"time"

	"ewms/internal/api"
	"ewms/internal/ward"
)

func TestFromBedClassifiesOccupiedBedsOnly(t *testing.T) {
	now := time.Date(2026, time.March, 1, 12, 0, 0, 0, time.UTC)

	emptyView := api.FromBed(ward.Bed{ID: 1, Status: ward.StatusEmpty}, now)
	if emptyView.Patient != nil || emptyView.Stay != nil {
		t.Fatalf("empty bed view = %+v, want no patient and no stay", emptyView)
	}

	occupied := ward.Bed{
		ID:     2,
		Status: ward.StatusOccupied,
		Patient: &ward.Patient{
			Name:             "A",
			MRN:              "001",
			Diagnosis:        "flu",
			AdmittedAtMillis: now.Add(-3 * time.Hour).UnixMilli(),
		},
	}
	view := api.FromBed(occupied, now)
	if view.Patient == nil || view.Stay == nil {
		t.Fatalf("occupied bed view = %+v, want patient and stay", view)
	}
	if view.Stay.Text != "00:03:00:00" {
		t.Fatalf("stay text = %q, want 00:03:00:00", view.Stay.Text)
	}
	if view.Stay.Severity != "warning" {
		t.Fatalf("three hour stay severity = %q, want warning", view.Stay.Severity)
	}
}

func TestFromBedsShareOneInstant(t *testing.T) {
	now := time.Date(2026, time.March, 1, 12, 0, 0, 0, time.UTC)
	beds := ward.NewCollection(3)
	beds[0].Status = ward.StatusOccupied
	beds[0].Patient = &ward.Patient{Name: "A", MRN: "001", Diagnosis: "flu", AdmittedAtMillis: now.UnixMilli()}
	beds[2].Status = ward.StatusOccupied
	beds[2].Patient = &ward.Patient{Name: "B", MRN: "002", Diagnosis: "flu", AdmittedAtMillis: now.Add(-time.Minute).UnixMilli()}

	views := api.FromBeds(beds, now)
	if len(views) != 3 {
		t.Fatalf("views = %d, want 3", len(views))
	}
	if views[0].Stay.Text != "00:00:00:00" {
		t.Fatalf("bed 1 stay = %q", views[0].Stay.Text)
	}
	if views[2].Stay.Text != "00:00:01:00" {
		t.Fatalf("bed 3 stay = %q", views[2].Stay.Text)
	}
	if views[1].Stay != nil {
		t.Fatal("empty bed acquired a stay clock")
	}
}
