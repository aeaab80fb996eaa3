package model

import (
	"fmt"

	"github.com/pilacorp/go-credential-engine/credential/common/jsonmap"
)

// Subject is the credentialSubject: the subject id plus the claims made about
// it. Claims is the escape hatch for claim sets the engine does not
// interpret.
type Subject struct {
	ID     string
	Claims jsonmap.JSONMap
}

// SubjectFromJSON creates a credential subject from a JSON object. The id key
// is required.
func SubjectFromJSON(obj jsonmap.JSONMap) (Subject, error) {
	if obj == nil {
		return Subject{}, fmt.Errorf("subject is nil")
	}
	id, err := obj.RequireString(jsonFldID)
	if err != nil {
		return Subject{}, err
	}

	var claims jsonmap.JSONMap
	if rest := obj.Without(jsonFldID); len(rest) > 0 {
		claims = rest.Clone()
	}
	return Subject{ID: id, Claims: claims}, nil
}

// Clone returns a deep copy of s.
func (s Subject) Clone() Subject {
	s.Claims = s.Claims.Clone()
	return s
}

// ToJSON converts the subject back to a JSON object.
func (s Subject) ToJSON() jsonmap.JSONMap {
	obj := s.Claims.Clone()
	if obj == nil {
		obj = make(jsonmap.JSONMap)
	}
	if s.ID != "" {
		obj[jsonFldID] = s.ID
	}
	return obj
}
