package fhir

import (
	"errors"
	"net/http"
	"time"
)

// Validation failure messages.
const (
	MsgBodyNotObject      = "Body must be a JSON object."
	MsgURLIDInvalid       = "URL id must be a positive integer."
	MsgIdentifierRequired = "Patient.identifier is required for update."
	MsgIdentifierInvalid  = "Patient.identifier[0].value must be a positive integer."
	MsgIdentifierMismatch = "Patient.identifier[0].value must match the id in the URL."
	MsgResourceType       = "resourceType must be 'Patient'."
	MsgNameRequired       = "Patient must have at least one name."
	MsgGenderRequired     = "Patient.gender is required."
	MsgGenderInvalid      = "Patient.gender must be male, female, other, or unknown."
	MsgBirthDateRequired  = "Patient.birthDate is required."
	MsgBirthDateInvalid   = "Patient.birthDate must be a valid past date in YYYY-MM-DD."
)

// ValidationError is a rejected Patient body. Status is 400 for requests that
// are malformed or address the wrong resource, and 422 for well-formed
// requests whose content breaks a business rule. Callers branch on Status.
type ValidationError struct {
	Status  int
	Message string
}

func (e *ValidationError) Error() string {
	return e.Message
}

func malformed(msg string) *ValidationError {
	return &ValidationError{Status: http.StatusBadRequest, Message: msg}
}

func unprocessable(msg string) *ValidationError {
	return &ValidationError{Status: http.StatusUnprocessableEntity, Message: msg}
}

// IsMalformed reports whether err is a 400 validation failure.
func IsMalformed(err error) bool {
	var ve *ValidationError
	return errors.As(err, &ve) && ve.Status == http.StatusBadRequest
}

// IsBusinessRule reports whether err is a 422 validation failure.
func IsBusinessRule(err error) bool {
	var ve *ValidationError
	return errors.As(err, &ve) && ve.Status == http.StatusUnprocessableEntity
}

var genders = map[string]bool{
	GenderMale:    true,
	GenderFemale:  true,
	GenderOther:   true,
	GenderUnknown: true,
}

// Validator checks Patient bodies for create and update. The zero value uses
// the wall clock for the birthDate check.
type Validator struct {
	Now func() time.Time
}

var defaultValidator Validator

// ValidateForCreate validates a POST body with the default Validator.
func ValidateForCreate(input any) (*Patient, error) {
	return defaultValidator.ValidateForCreate(input)
}

// ValidateForUpdate validates a PUT body with the default Validator.
func ValidateForUpdate(input any, idFromURL string) (*Patient, error) {
	return defaultValidator.ValidateForUpdate(input, idFromURL)
}

// ValidateForCreate normalizes input and checks the minimal fields. Any
// client-supplied identifier is dropped; the store assigns one.
func (v Validator) ValidateForCreate(input any) (*Patient, error) {
	p := Normalize(input)
	if p == nil {
		return nil, malformed(MsgBodyNotObject)
	}
	p.Identifier = nil

	if err := v.checkMinimal(p); err != nil {
		return nil, err
	}
	return p, nil
}

// ValidateForUpdate normalizes input and checks that its identifier names the
// resource at idFromURL before applying the create rules. It does not check
// that the resource exists.
func (v Validator) ValidateForUpdate(input any, idFromURL string) (*Patient, error) {
	p := Normalize(input)
	if p == nil {
		return nil, malformed(MsgBodyNotObject)
	}

	urlID, ok := ParseID(idFromURL)
	if !ok {
		return nil, malformed(MsgURLIDInvalid)
	}
	if len(p.Identifier) == 0 {
		return nil, malformed(MsgIdentifierRequired)
	}
	bodyID, ok := ParseID(p.IdentifierValue())
	if !ok {
		return nil, malformed(MsgIdentifierInvalid)
	}
	if bodyID != urlID {
		return nil, malformed(MsgIdentifierMismatch)
	}

	if err := v.checkMinimal(p); err != nil {
		return nil, err
	}
	return p, nil
}

// checkMinimal applies the business rules in order: resourceType, name,
// gender, birthDate. The first failure wins.
func (v Validator) checkMinimal(p *Patient) error {
	if p.ResourceType != ResourceTypePatient {
		return unprocessable(MsgResourceType)
	}
	if len(p.Name) == 0 {
		return unprocessable(MsgNameRequired)
	}
	if p.Gender == "" {
		return unprocessable(MsgGenderRequired)
	}
	if !genders[p.Gender] {
		return unprocessable(MsgGenderInvalid)
	}
	if p.BirthDate == "" {
		return unprocessable(MsgBirthDateRequired)
	}
	if !validBirthDate(p.BirthDate, v.now()) {
		return unprocessable(MsgBirthDateInvalid)
	}
	return nil
}

func (v Validator) now() time.Time {
	if v.Now != nil {
		return v.Now()
	}
	return time.Now()
}
