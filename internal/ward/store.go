package ward

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"sync"
	"time"

	"ewms/internal/eventsync"
	"ewms/internal/stay"
)

// Visit display fields mirror what the admission form captured in the
// original ward board; they are never recomputed after admission.
const (
	visitDateLayout = "1/2/2006"
	visitTimeLayout = "3:04:05 PM"
)

// Persister stores the full bed collection durably after each transition.
type Persister interface {
	Save(ctx context.Context, beds []Bed) error
}

// Store owns the bed collection and applies the admit, discharge, and
// transfer transitions. All operations are atomic with respect to the
// collection; a mutex serializes concurrent API callers.
type Store struct {
	mu         sync.Mutex
	beds       []Bed
	persister  Persister
	dispatcher eventsync.Dispatcher
	logger     *slog.Logger
	now        func() time.Time
}

// Option customizes Store construction.
type Option func(*Store)

// WithClock overrides the time source, used by tests.
func WithClock(now func() time.Time) Option {
	return func(s *Store) {
		s.now = now
	}
}

// WithDispatcher attaches the outbound event dispatcher. Without one,
// transitions apply locally and no events leave the process.
func WithDispatcher(d eventsync.Dispatcher) Option {
	return func(s *Store) {
		s.dispatcher = d
	}
}

// New assembles a store around an existing collection, typically one
// restored from the state database. The collection must carry contiguous
// ids 1..N and satisfy the occupancy invariant.
func New(beds []Bed, persister Persister, logger *slog.Logger, opts ...Option) (*Store, error) {
	if len(beds) == 0 {
		return nil, fmt.Errorf("ward store requires at least one bed")
	}
	for i, bed := range beds {
		if bed.ID != i+1 {
			return nil, fmt.Errorf("bed at index %d has id %d, want %d", i, bed.ID, i+1)
		}
		if bed.Occupied() != (bed.Patient != nil) {
			return nil, fmt.Errorf("bed %d violates occupancy invariant", bed.ID)
		}
	}
	if logger == nil {
		logger = slog.Default()
	}
	s := &Store{
		beds:      cloneBeds(beds),
		persister: persister,
		logger:    logger,
		now:       time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s, nil
}

// Admission carries the validated form fields for a new patient.
type Admission struct {
	Name      string
	MRN       string
	Diagnosis string
}

func (a Admission) validate() error {
	for _, field := range []struct {
		name, value string
	}{
		{"name", a.Name},
		{"mrn", a.MRN},
		{"diagnosis", a.Diagnosis},
	} {
		if strings.TrimSpace(field.value) == "" {
			return fmt.Errorf("%w: %s is required", ErrInvalidAdmission, field.name)
		}
	}
	return nil
}

// Admit places a new patient into an empty bed, stamping the admission
// instant and the visit display fields from the current clock. One ADMIT
// event is dispatched on success.
func (s *Store) Admit(ctx context.Context, bedID int, adm Admission) (*Patient, error) {
	if err := adm.validate(); err != nil {
		return nil, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	bed, err := s.bed(bedID)
	if err != nil {
		return nil, err
	}
	if bed.Occupied() {
		return nil, &InvalidStateError{Op: "admit", BedID: bedID, Reason: "bed is occupied"}
	}

	now := s.now()
	patient := &Patient{
		Name:             adm.Name,
		MRN:              adm.MRN,
		Diagnosis:        adm.Diagnosis,
		VisitDate:        now.Format(visitDateLayout),
		VisitTime:        now.Format(visitTimeLayout),
		AdmittedAtMillis: now.UnixMilli(),
	}
	bed.Status = StatusOccupied
	bed.Patient = patient

	persistErr := s.persist(ctx)
	s.dispatch(eventsync.New(eventsync.ActionAdmit, bedID, snapshot(*patient), "", ""))

	committed := *patient
	return &committed, persistErr
}

// DischargeResult reports the patient removed from a bed and the final stay
// clock computed at discharge time.
type DischargeResult struct {
	Patient Patient
	Elapsed string
}

// Discharge clears an occupied bed and dispatches one DISCHARGE event
// carrying the final stay duration. The caller is trusted to have obtained
// any confirmation; the store executes unconditionally.
func (s *Store) Discharge(ctx context.Context, bedID int) (DischargeResult, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	bed, err := s.bed(bedID)
	if err != nil {
		return DischargeResult{}, err
	}
	if !bed.Occupied() {
		return DischargeResult{}, &InvalidStateError{Op: "discharge", BedID: bedID, Reason: "bed is empty"}
	}

	patient := *bed.Patient
	elapsed := stay.Classify(s.now(), patient.AdmittedAt()).Text

	bed.Status = StatusEmpty
	bed.Patient = nil

	persistErr := s.persist(ctx)
	s.dispatch(eventsync.New(eventsync.ActionDischarge, bedID, snapshot(patient), elapsed, ""))

	return DischargeResult{Patient: patient, Elapsed: elapsed}, persistErr
}

// Transfer moves a patient from an occupied bed to an empty one as a single
// atomic cross-bed operation. The patient record, including the admission
// instant, moves verbatim. One TRANSFER event is dispatched, keyed to the
// source bed with the destination annotated in the diagnosis notes.
func (s *Store) Transfer(ctx context.Context, fromID, toID int) (*Patient, error) {
	if fromID == toID {
		return nil, &InvalidStateError{Op: "transfer", BedID: fromID, Reason: "source and destination are the same bed"}
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	from, err := s.bed(fromID)
	if err != nil {
		return nil, err
	}
	to, err := s.bed(toID)
	if err != nil {
		return nil, err
	}
	if !from.Occupied() {
		return nil, &InvalidStateError{Op: "transfer", BedID: fromID, Reason: "source bed is empty"}
	}
	if to.Occupied() {
		return nil, &InvalidStateError{Op: "transfer", BedID: toID, Reason: "destination bed is occupied"}
	}

	to.Patient = from.Patient
	to.Status = StatusOccupied
	from.Patient = nil
	from.Status = StatusEmpty

	persistErr := s.persist(ctx)
	s.dispatch(eventsync.New(eventsync.ActionTransfer, fromID, snapshot(*to.Patient), "", fmt.Sprintf("To Bed %d", toID)))

	committed := *to.Patient
	return &committed, persistErr
}

// EmptyBeds returns the ids of currently empty beds in ascending order. A
// fully occupied ward yields an empty slice, not an error.
func (s *Store) EmptyBeds() []int {
	s.mu.Lock()
	defer s.mu.Unlock()

	ids := make([]int, 0, len(s.beds))
	for _, bed := range s.beds {
		if !bed.Occupied() {
			ids = append(ids, bed.ID)
		}
	}
	return ids
}

// Beds returns a deep-copied snapshot of the collection for rendering.
func (s *Store) Beds() []Bed {
	s.mu.Lock()
	defer s.mu.Unlock()
	return cloneBeds(s.beds)
}

// Len returns the fixed bed count.
func (s *Store) Len() int {
	return len(s.beds)
}

func (s *Store) bed(id int) (*Bed, error) {
	if id < 1 || id > len(s.beds) {
		return nil, fmt.Errorf("%w: %d", ErrNoSuchBed, id)
	}
	return &s.beds[id-1], nil
}

// persist writes the full collection after a transition. On failure the
// in-memory state remains authoritative for the session; the error is logged
// and returned so callers can surface the restart risk.
func (s *Store) persist(ctx context.Context) error {
	if s.persister == nil {
		return nil
	}
	if err := s.persister.Save(ctx, cloneBeds(s.beds)); err != nil {
		s.logger.Error("persist ward state", slog.String("error", err.Error()))
		return fmt.Errorf("persist ward state: %w", err)
	}
	return nil
}

func (s *Store) dispatch(ev eventsync.Event) {
	if s.dispatcher == nil {
		return
	}
	s.dispatcher.Dispatch(ev)
}

func snapshot(p Patient) eventsync.PatientSnapshot {
	return eventsync.PatientSnapshot{
		Name:      p.Name,
		MRN:       p.MRN,
		Diagnosis: p.Diagnosis,
		VisitDate: p.VisitDate,
		VisitTime: p.VisitTime,
	}
}
