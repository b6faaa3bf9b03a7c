package fhir

import "github.com/goccy/go-json"

// ResourceTypePatient is the only resourceType this server accepts.
const ResourceTypePatient = "Patient"

// Gender codes accepted on Patient.gender.
const (
	GenderMale    = "male"
	GenderFemale  = "female"
	GenderOther   = "other"
	GenderUnknown = "unknown"
)

// HumanName is one entry of Patient.name. At least one field is set on every
// entry produced by Normalize.
type HumanName struct {
	Text   string   `json:"text,omitempty"`
	Family string   `json:"family,omitempty"`
	Given  []string `json:"given,omitempty"`
}

func (n HumanName) empty() bool {
	return n.Text == "" && n.Family == "" && len(n.Given) == 0
}

// Patient is the canonical in-memory form of a Patient resource.
//
// Telecom, Address and Identifier are opaque pass-through arrays. A nil slice
// means the field was absent; a non-nil empty slice is kept and encoded as [].
type Patient struct {
	ResourceType string      `json:"resourceType"`
	Name         []HumanName `json:"name"`
	Gender       string      `json:"gender"`
	BirthDate    string      `json:"birthDate"`
	Active       *bool       `json:"active,omitempty"`
	Telecom      []any       `json:"telecom,omitempty"`
	Address      []any       `json:"address,omitempty"`
	Identifier   []any       `json:"identifier,omitempty"`
}

// MarshalJSON keeps present-but-empty pass-through arrays in the output.
func (p Patient) MarshalJSON() ([]byte, error) {
	type wire struct {
		ResourceType string      `json:"resourceType"`
		Name         []HumanName `json:"name"`
		Gender       string      `json:"gender"`
		BirthDate    string      `json:"birthDate"`
		Active       *bool       `json:"active,omitempty"`
		Telecom      *[]any      `json:"telecom,omitempty"`
		Address      *[]any      `json:"address,omitempty"`
		Identifier   *[]any      `json:"identifier,omitempty"`
	}
	name := p.Name
	if name == nil {
		name = []HumanName{}
	}
	return json.Marshal(wire{
		ResourceType: p.ResourceType,
		Name:         name,
		Gender:       p.Gender,
		BirthDate:    p.BirthDate,
		Active:       p.Active,
		Telecom:      present(p.Telecom),
		Address:      present(p.Address),
		Identifier:   present(p.Identifier),
	})
}

func present(s []any) *[]any {
	if s == nil {
		return nil
	}
	return &s
}

// IdentifierValue returns identifier[0].value, or nil when there is none.
func (p *Patient) IdentifierValue() any {
	if len(p.Identifier) == 0 {
		return nil
	}
	entry, ok := p.Identifier[0].(map[string]any)
	if !ok {
		return nil
	}
	return entry["value"]
}

// Clone returns a deep copy of p.
func (p *Patient) Clone() (*Patient, error) {
	b, err := json.Marshal(p)
	if err != nil {
		return nil, err
	}
	var out Patient
	if err := json.Unmarshal(b, &out); err != nil {
		return nil, err
	}
	return &out, nil
}
