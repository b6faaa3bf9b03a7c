package fhir

import (
	"strings"

	"github.com/goccy/go-json"
)

// Normalize reshapes a decoded JSON value into a canonical Patient. It does
// not validate: bad field shapes degrade to empty or omitted fields. The only
// failure is a nil result, returned when input is not a JSON object or cannot
// be copied.
//
// The input is deep-copied first, so the result never aliases the caller's
// maps or slices.
func Normalize(input any) *Patient {
	obj, ok := copyObject(input)
	if !ok {
		return nil
	}

	p := &Patient{
		ResourceType: trimmed(obj["resourceType"]),
		Name:         classifyName(obj["name"]).entries(),
		Gender:       strings.ToLower(trimmed(obj["gender"])),
		BirthDate:    trimmed(obj["birthDate"]),
	}

	switch v := obj["active"].(type) {
	case bool:
		p.Active = &v
	case string:
		b := strings.ToLower(strings.TrimSpace(v)) == "true"
		p.Active = &b
	}

	if v, ok := obj["telecom"].([]any); ok {
		p.Telecom = v
	}
	if v, ok := obj["address"].([]any); ok {
		p.Address = v
	}
	if v, ok := obj["identifier"].([]any); ok {
		p.Identifier = v
	}

	return p
}

// copyObject round-trips v through JSON and reports whether the copy is an
// object.
func copyObject(v any) (map[string]any, bool) {
	if v == nil {
		return nil, false
	}
	b, err := json.Marshal(v)
	if err != nil {
		return nil, false
	}
	var out any
	if err := json.Unmarshal(b, &out); err != nil {
		return nil, false
	}
	obj, ok := out.(map[string]any)
	return obj, ok
}

func trimmed(v any) string {
	s, ok := v.(string)
	if !ok {
		return ""
	}
	return strings.TrimSpace(s)
}

type nameKind int

const (
	nameUnrecognized nameKind = iota
	nameText
	nameObject
	nameList
)

// nameShape is the set of layouts accepted for Patient.name.
type nameShape struct {
	kind   nameKind
	text   string
	object map[string]any
	list   []any
}

func classifyName(v any) nameShape {
	switch x := v.(type) {
	case string:
		return nameShape{kind: nameText, text: x}
	case map[string]any:
		return nameShape{kind: nameObject, object: x}
	case []any:
		return nameShape{kind: nameList, list: x}
	default:
		return nameShape{kind: nameUnrecognized}
	}
}

// entries flattens the shape into HumanName entries, dropping any that end up
// empty. The result is never nil.
func (s nameShape) entries() []HumanName {
	out := []HumanName{}
	switch s.kind {
	case nameText:
		if t := strings.TrimSpace(s.text); t != "" {
			out = append(out, HumanName{Text: t})
		}
	case nameObject:
		if n := humanName(s.object); !n.empty() {
			out = append(out, n)
		}
	case nameList:
		for _, item := range s.list {
			// Nested lists are not a name layout.
			inner := classifyName(item)
			if inner.kind == nameList {
				continue
			}
			out = append(out, inner.entries()...)
		}
	}
	return out
}

func humanName(obj map[string]any) HumanName {
	n := HumanName{
		Text:   trimmed(obj["text"]),
		Family: trimmed(obj["family"]),
	}
	if given, ok := obj["given"].([]any); ok {
		for _, g := range given {
			if t := trimmed(g); t != "" {
				n.Given = append(n.Given, t)
			}
		}
	}
	return n
}
