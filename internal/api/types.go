package api

import (
	"time"

	"ewms/internal/stay"
	"ewms/internal/ward"
)

// PatientView is the rendered patient record.
type PatientView struct {
	Name             string `json:"name"`
	MRN              string `json:"mrn"`
	Diagnosis        string `json:"diagnosis"`
	VisitDate        string `json:"visitDate"`
	VisitTime        string `json:"visitTime"`
	AdmittedAtMillis int64  `json:"admittedAtMillis"`
}

// BedView is the rendering contract for one bed. Stay is present only for
// occupied beds and reflects the instant the view was built.
type BedView struct {
	ID      int                  `json:"id"`
	Status  string               `json:"status"`
	Patient *PatientView         `json:"patient,omitempty"`
	Stay    *stay.Classification `json:"stay,omitempty"`
}

// AdmitRequest carries the validated admission form fields.
type AdmitRequest struct {
	Name      string `json:"name"`
	MRN       string `json:"mrn"`
	Diagnosis string `json:"diagnosis"`
}

// TransferRequest names the destination bed.
type TransferRequest struct {
	To int `json:"to"`
}

// BedResponse returns the affected bed after a transition. Warning is set
// when the transition applied but the durable write failed.
type BedResponse struct {
	Bed     BedView `json:"bed"`
	Warning string  `json:"warning,omitempty"`
}

// BedsResponse lists the full collection in id order.
type BedsResponse struct {
	Beds []BedView `json:"beds"`
}

// EmptyBedsResponse lists empty bed ids ascending.
type EmptyBedsResponse struct {
	BedIDs []int `json:"bedIds"`
}

// DischargeResponse reports the released patient and the final stay clock.
type DischargeResponse struct {
	Patient  PatientView `json:"patient"`
	Duration string      `json:"duration"`
	Warning  string      `json:"warning,omitempty"`
}

// StatusResponse summarizes daemon and ward health.
type StatusResponse struct {
	Running     bool   `json:"running"`
	PID         int    `json:"pid"`
	TotalBeds   int    `json:"totalBeds"`
	Occupied    int    `json:"occupied"`
	Empty       int    `json:"empty"`
	SyncStatus  string `json:"syncStatus"`
	OutboxDepth int    `json:"outboxDepth"`
	StateDBPath string `json:"stateDbPath"`
}

// ErrorResponse carries a failure message.
type ErrorResponse struct {
	Error string `json:"error"`
}

// FromPatient converts a ward patient into its view.
func FromPatient(p ward.Patient) PatientView {
	return PatientView{
		Name:             p.Name,
		MRN:              p.MRN,
		Diagnosis:        p.Diagnosis,
		VisitDate:        p.VisitDate,
		VisitTime:        p.VisitTime,
		AdmittedAtMillis: p.AdmittedAtMillis,
	}
}

// FromBed converts a ward bed into its view, classifying the stay against
// now when the bed is occupied.
func FromBed(bed ward.Bed, now time.Time) BedView {
	view := BedView{ID: bed.ID, Status: string(bed.Status)}
	if bed.Patient != nil {
		patient := FromPatient(*bed.Patient)
		view.Patient = &patient
		classification := stay.Classify(now, bed.Patient.AdmittedAt())
		view.Stay = &classification
	}
	return view
}

// FromBeds converts a collection snapshot at a single instant.
func FromBeds(beds []ward.Bed, now time.Time) []BedView {
	views := make([]BedView, len(beds))
	for i, bed := range beds {
		views[i] = FromBed(bed, now)
	}
	return views
}
