package vp

import (
	"fmt"

	"github.com/pilacorp/go-credential-engine/credential/common/jsonmap"
	"github.com/pilacorp/go-credential-engine/credential/common/model"
	"github.com/pilacorp/go-credential-engine/credential/common/util"
	"github.com/pilacorp/go-credential-engine/credential/vc"
)

// serializePresentation converts a Presentation into its JSON-LD object.
func serializePresentation(p Presentation, withProof bool) jsonmap.JSONMap {
	vpJSON := make(jsonmap.JSONMap)

	if len(p.contexts) > 0 {
		vpJSON[jsonFldContext] = util.SerializeContexts(p.contexts)
	}
	if p.id != "" {
		vpJSON[jsonFldID] = p.id
	}
	if len(p.types) > 0 {
		vpJSON[jsonFldType] = util.SerializeTypes(p.types)
	}
	if p.holder != "" {
		vpJSON[jsonFldHolder] = p.holder
	}
	if len(p.credentials) > 0 {
		vpJSON[jsonFldCredentials] = util.MapSlice(p.credentials, func(v vc.VerifiableCredential) interface{} {
			return v.ToJSONMap()
		})
	}
	if p.refreshService != nil {
		vpJSON[jsonFldRefreshService] = p.refreshService.ToJSON()
	}
	if len(p.termsOfUse) > 0 {
		vpJSON[jsonFldTermsOfUse] = model.SerializeTypedIDs(p.termsOfUse)
	}
	if withProof && len(p.proof) > 0 {
		vpJSON[jsonFldProof] = p.proof.Clone()
	}

	return vpJSON
}

// presentationParser reads one field of a JSON presentation into p.
type presentationParser func(obj jsonmap.JSONMap, p *Presentation) error

var presentationParsers = []presentationParser{
	parseContext,
	parseID,
	parseTypes,
	parseHolder,
	parseVerifiableCredentials,
	parseRefreshService,
	parseTermsOfUse,
	parseProof,
}

// parseContext extracts the @context field from a Presentation.
func parseContext(obj jsonmap.JSONMap, p *Presentation) error {
	contexts, err := util.ParseStrings(jsonFldContext, obj[jsonFldContext])
	if err != nil {
		return err
	}
	p.contexts = contexts
	return nil
}

// parseID extracts the ID field from a Presentation.
func parseID(obj jsonmap.JSONMap, p *Presentation) error {
	id, _, err := obj.GetString(jsonFldID)
	if err != nil {
		return err
	}
	p.id = id
	return nil
}

// parseTypes extracts the type field from a Presentation.
func parseTypes(obj jsonmap.JSONMap, p *Presentation) error {
	types, err := util.ParseStrings(jsonFldType, obj[jsonFldType])
	if err != nil {
		return err
	}
	p.types = types
	return nil
}

// parseHolder extracts the holder field from a Presentation.
func parseHolder(obj jsonmap.JSONMap, p *Presentation) error {
	holder, _, err := obj.GetString(jsonFldHolder)
	if err != nil {
		return err
	}
	p.holder = holder
	return nil
}

// parseVerifiableCredentials extracts the verifiableCredential field, a
// single object or an array of them.
func parseVerifiableCredentials(obj jsonmap.JSONMap, p *Presentation) error {
	raw := obj[jsonFldCredentials]
	if raw == nil {
		return nil
	}

	items, ok := raw.([]interface{})
	if !ok {
		items = []interface{}{raw}
	}
	for i, item := range items {
		credObj, ok := jsonmap.FromValue(item)
		if !ok {
			return fmt.Errorf("credential at index %d: unsupported format: %T", i, item)
		}
		credential, err := vc.VerifiableCredentialFromJSON(credObj)
		if err != nil {
			return fmt.Errorf("credential at index %d: %w", i, err)
		}
		p.credentials = append(p.credentials, credential)
	}
	return nil
}

// parseRefreshService extracts the refreshService field.
func parseRefreshService(obj jsonmap.JSONMap, p *Presentation) error {
	services, err := model.ParseTypedIDs(obj[jsonFldRefreshService])
	if err != nil {
		return fmt.Errorf("failed to parse refresh service: %w", err)
	}
	switch len(services) {
	case 0:
	case 1:
		p.refreshService = &services[0]
	default:
		return fmt.Errorf("failed to parse refresh service: %d entries, expected one", len(services))
	}
	return nil
}

// parseTermsOfUse extracts the termsOfUse field.
func parseTermsOfUse(obj jsonmap.JSONMap, p *Presentation) error {
	terms, err := model.ParseTypedIDs(obj[jsonFldTermsOfUse])
	if err != nil {
		return fmt.Errorf("failed to parse terms of use: %w", err)
	}
	p.termsOfUse = terms
	return nil
}

// parseProof extracts the opaque proof object.
func parseProof(obj jsonmap.JSONMap, p *Presentation) error {
	raw := obj[jsonFldProof]
	if raw == nil {
		return nil
	}
	proof, ok := jsonmap.FromValue(raw)
	if !ok {
		return fmt.Errorf("unsupported proof format: %T", raw)
	}
	p.proof = proof.Clone()
	return nil
}
