package ward

import "time"

// Status describes whether a bed currently holds a patient.
type Status string

const (
	StatusEmpty    Status = "empty"
	StatusOccupied Status = "occupied"
)

// Patient is the record attached to an occupied bed. The display fields are
// opaque strings captured at admission; AdmittedAtMillis is the canonical
// admission instant and is the only input to stay computation. A transfer
// moves the record verbatim, so the instant survives bed changes.
type Patient struct {
	Name             string `json:"name"`
	MRN              string `json:"mrn"`
	Diagnosis        string `json:"diagnosis"`
	VisitDate        string `json:"visitDate"`
	VisitTime        string `json:"visitTime"`
	AdmittedAtMillis int64  `json:"admittedAtMillis"`
}

// AdmittedAt returns the admission instant.
func (p Patient) AdmittedAt() time.Time {
	return time.UnixMilli(p.AdmittedAtMillis)
}

// Bed is one fixed-identity occupancy slot. Invariant: Status is occupied
// exactly when Patient is non-nil.
type Bed struct {
	ID      int      `json:"id"`
	Status  Status   `json:"status"`
	Patient *Patient `json:"patient,omitempty"`
}

// Occupied reports whether the bed currently holds a patient.
func (b Bed) Occupied() bool {
	return b.Status == StatusOccupied
}

// Clone returns a deep copy so callers cannot alias store-internal state.
func (b Bed) Clone() Bed {
	out := b
	if b.Patient != nil {
		patient := *b.Patient
		out.Patient = &patient
	}
	return out
}

// NewCollection returns n fresh empty beds with ids 1..n in order.
func NewCollection(n int) []Bed {
	beds := make([]Bed, n)
	for i := range beds {
		beds[i] = Bed{ID: i + 1, Status: StatusEmpty}
	}
	return beds
}

func cloneBeds(beds []Bed) []Bed {
	out := make([]Bed, len(beds))
	for i, bed := range beds {
		out[i] = bed.Clone()
	}
	return out
}
