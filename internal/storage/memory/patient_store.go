package memory

import (
	"sort"
	"sync"

	"github.com/rs/zerolog"

	"github.com/openclintech/patient-registry/internal/fhir"
	"github.com/openclintech/patient-registry/internal/storage"
)

var _ storage.PatientStore = (*PatientStore)(nil)

// PatientStore is a process-lifetime, in-memory storage.PatientStore.
// Records are copied on the way in and out so callers never share state with
// the store.
type PatientStore struct {
	mu     sync.RWMutex
	data   map[int]*fhir.Patient
	nextID int
	log    zerolog.Logger
}

type Option func(*PatientStore)

// WithLogger makes the store log writes at debug level.
func WithLogger(l zerolog.Logger) Option {
	return func(s *PatientStore) { s.log = l }
}

func NewPatientStore(opts ...Option) *PatientStore {
	s := &PatientStore{
		data:   make(map[int]*fhir.Patient),
		nextID: 1,
		log:    zerolog.Nop(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

func (s *PatientStore) Create(p *fhir.Patient) (int, *fhir.Patient) {
	record := copyPatient(p)

	s.mu.Lock()
	id := s.nextID
	s.nextID++
	record.Identifier = identifierFor(id)
	s.data[id] = record
	s.mu.Unlock()

	s.log.Debug().Int("id", id).Msg("patient created")
	return id, copyPatient(record)
}

func (s *PatientStore) Read(id int) (*fhir.Patient, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	p, ok := s.data[id]
	if !ok {
		return nil, false
	}
	return copyPatient(p), true
}

// Update replaces the record at id. The stored identifier is always
// [{value: "<id>"}], whatever the caller sent.
func (s *PatientStore) Update(id int, p *fhir.Patient) bool {
	record := copyPatient(p)
	record.Identifier = identifierFor(id)

	s.mu.Lock()
	_, ok := s.data[id]
	if ok {
		s.data[id] = record
	}
	s.mu.Unlock()

	if !ok {
		s.log.Debug().Int("id", id).Msg("patient update ignored: not found")
		return false
	}
	s.log.Debug().Int("id", id).Msg("patient updated")
	return true
}

func (s *PatientStore) Remove(id int) {
	s.mu.Lock()
	delete(s.data, id)
	s.mu.Unlock()

	s.log.Debug().Int("id", id).Msg("patient removed")
}

// ListIDs returns the ids currently stored, in ascending order.
func (s *PatientStore) ListIDs() []int {
	s.mu.RLock()
	ids := make([]int, 0, len(s.data))
	for id := range s.data {
		ids = append(ids, id)
	}
	s.mu.RUnlock()

	sort.Ints(ids)
	return ids
}

// Reset drops every record and restarts ids at 1. Meant for tests.
func (s *PatientStore) Reset() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.data = make(map[int]*fhir.Patient)
	s.nextID = 1
}

func identifierFor(id int) []any {
	return []any{map[string]any{"value": fhir.FormatID(id)}}
}

func copyPatient(p *fhir.Patient) *fhir.Patient {
	if p == nil {
		return &fhir.Patient{}
	}
	out, err := p.Clone()
	if err != nil {
		// A Patient built from decoded JSON always encodes.
		panic("memory: copy patient: " + err.Error())
	}
	return out
}
