package model

import (
	"fmt"

	"github.com/pilacorp/go-credential-engine/credential/common/jsonmap"
)

// JSON field names shared by typed descriptors.
const (
	jsonFldID   = "id"
	jsonFldType = "type"
)

// TypedID is a descriptor identified by a type and an optional id, used for
// refreshService, termsOfUse and credentialSchema entries. Keys other than id
// and type are kept in CustomFields.
type TypedID struct {
	ID           string
	Type         string
	CustomFields jsonmap.JSONMap
}

// RefreshService points to where an expired credential can be renewed.
type RefreshService = TypedID

// TermsOfUse is a policy governing permitted use of a document.
type TermsOfUse = TypedID

// Schema references a JSON Schema for the credential subject.
type Schema = TypedID

// ParseTypedID reads a descriptor from a JSON object. type is required and
// must be a non-empty string; id is optional but must be a string when
// present.
func ParseTypedID(obj jsonmap.JSONMap) (TypedID, error) {
	if obj == nil {
		return TypedID{}, fmt.Errorf("descriptor is nil")
	}

	typ, err := obj.RequireString(jsonFldType)
	if err != nil {
		return TypedID{}, err
	}
	id, _, err := obj.GetString(jsonFldID)
	if err != nil {
		return TypedID{}, err
	}

	var custom jsonmap.JSONMap
	if rest := obj.Without(jsonFldID, jsonFldType); len(rest) > 0 {
		custom = rest.Clone()
	}
	return TypedID{ID: id, Type: typ, CustomFields: custom}, nil
}

// Clone returns a deep copy of t.
func (t TypedID) Clone() TypedID {
	t.CustomFields = t.CustomFields.Clone()
	return t
}

// ToJSON converts the descriptor to a JSON object. An empty id is omitted.
func (t TypedID) ToJSON() jsonmap.JSONMap {
	obj := t.CustomFields.Clone()
	if obj == nil {
		obj = make(jsonmap.JSONMap)
	}
	if t.ID != "" {
		obj[jsonFldID] = t.ID
	}
	obj[jsonFldType] = t.Type
	return obj
}

// ParseTypedIDs reads one descriptor or an array of them, the two shapes a
// JSON-LD document may use.
func ParseTypedIDs(raw interface{}) ([]TypedID, error) {
	if raw == nil {
		return nil, nil
	}

	if obj, ok := jsonmap.FromValue(raw); ok {
		parsed, err := ParseTypedID(obj)
		if err != nil {
			return nil, err
		}
		return []TypedID{parsed}, nil
	}

	items, ok := raw.([]interface{})
	if !ok {
		return nil, fmt.Errorf("unsupported descriptor format: %T", raw)
	}
	result := make([]TypedID, 0, len(items))
	for i, item := range items {
		obj, ok := jsonmap.FromValue(item)
		if !ok {
			return nil, fmt.Errorf("descriptor at index %d: unsupported format: %T", i, item)
		}
		parsed, err := ParseTypedID(obj)
		if err != nil {
			return nil, fmt.Errorf("descriptor at index %d: %w", i, err)
		}
		result = append(result, parsed)
	}
	return result, nil
}

// SerializeTypedIDs converts descriptors to a single object when there is
// one, an array otherwise.
func SerializeTypedIDs(ids []TypedID) interface{} {
	switch len(ids) {
	case 0:
		return nil
	case 1:
		return ids[0].ToJSON()
	}
	result := make([]interface{}, 0, len(ids))
	for _, id := range ids {
		result = append(result, id.ToJSON())
	}
	return result
}
