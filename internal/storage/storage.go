package storage

import "github.com/openclintech/patient-registry/internal/fhir"

// PatientStore holds validated Patients keyed by a store-assigned positive
// integer id. It never validates: callers run fhir.ValidateForCreate or
// fhir.ValidateForUpdate first.
type PatientStore interface {
	// Create assigns the next id, sets identifier to [{value: "<id>"}] and
	// stores the record. Ids start at 1 and are never reused.
	Create(p *fhir.Patient) (id int, record *fhir.Patient)
	// Read reports false when id is absent or was removed.
	Read(id int) (*fhir.Patient, bool)
	// Update replaces the record at id and resets identifier to
	// [{value: "<id>"}]. It does nothing and reports false when id is absent.
	Update(id int, p *fhir.Patient) bool
	Remove(id int)
	ListIDs() []int
}
