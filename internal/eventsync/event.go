package eventsync

import "fmt"

// Action identifies the bed transition an outbound event records.
type Action string

const (
	ActionAdmit     Action = "ADMIT"
	ActionDischarge Action = "DISCHARGE"
	ActionTransfer  Action = "TRANSFER"
)

// Event is the flat record forwarded to the remote logging endpoint once per
// completed transition. Duration is empty except on discharge, where it
// carries the final stay clock.
type Event struct {
	Action    Action `json:"action"`
	BedID     int    `json:"bedId"`
	Name      string `json:"name"`
	MRN       string `json:"mrn"`
	Diagnosis string `json:"diagnosis"`
	VisitDate string `json:"visitDate"`
	VisitTime string `json:"visitTime"`
	Duration  string `json:"duration"`
}

// PatientSnapshot carries the display fields an event forwards. The store
// hands the dispatcher a copy; no live state is shared.
type PatientSnapshot struct {
	Name      string
	MRN       string
	Diagnosis string
	VisitDate string
	VisitTime string
}

// New builds an event record. Notes, when present, are appended to the
// diagnosis in parentheses; transfers use this to annotate the destination
// bed.
func New(action Action, bedID int, patient PatientSnapshot, duration, notes string) Event {
	diagnosis := patient.Diagnosis
	if notes != "" {
		diagnosis = fmt.Sprintf("%s (%s)", diagnosis, notes)
	}
	return Event{
		Action:    action,
		BedID:     bedID,
		Name:      patient.Name,
		MRN:       patient.MRN,
		Diagnosis: diagnosis,
		VisitDate: patient.VisitDate,
		VisitTime: patient.VisitTime,
		Duration:  duration,
	}
}
