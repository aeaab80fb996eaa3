package vc

import (
	"fmt"
	"time"

	"github.com/pilacorp/go-credential-engine/credential/common/jsonmap"
	"github.com/pilacorp/go-credential-engine/credential/common/model"
	"github.com/pilacorp/go-credential-engine/credential/common/util"
)

// serializeCredential converts a Credential into its JSON-LD object.
func serializeCredential(c Credential) jsonmap.JSONMap {
	vcJSON := make(jsonmap.JSONMap)
	if len(c.contexts) > 0 {
		vcJSON[jsonFldContext] = util.SerializeContexts(c.contexts)
	}
	if c.id != "" {
		vcJSON[jsonFldID] = c.id
	}
	if len(c.types) > 0 {
		vcJSON[jsonFldType] = util.SerializeTypes(c.types)
	}
	if c.issuer != "" {
		vcJSON[jsonFldIssuer] = c.issuer
	}
	if !c.issuanceDate.IsZero() {
		vcJSON[jsonFldIssuanceDate] = c.issuanceDate.UTC().Format(time.RFC3339)
	}
	if !c.expirationDate.IsZero() {
		vcJSON[jsonFldExpirationDate] = c.expirationDate.UTC().Format(time.RFC3339)
	}
	if c.subject.ID != "" || len(c.subject.Claims) > 0 {
		vcJSON[jsonFldSubject] = c.subject.ToJSON()
	}
	if c.refreshService != nil {
		vcJSON[jsonFldRefreshService] = c.refreshService.ToJSON()
	}
	if len(c.termsOfUse) > 0 {
		vcJSON[jsonFldTermsOfUse] = model.SerializeTypedIDs(c.termsOfUse)
	}
	if len(c.schemas) > 0 {
		vcJSON[jsonFldSchema] = model.SerializeTypedIDs(c.schemas)
	}
	return vcJSON
}

// credentialParser reads one field of a JSON credential into c.
type credentialParser func(obj jsonmap.JSONMap, c *Credential) error

var credentialParsers = []credentialParser{
	parseContext,
	parseID,
	parseTypes,
	parseIssuer,
	parseDates,
	parseSubject,
	parseRefreshService,
	parseTermsOfUse,
	parseSchemas,
}

// parseCredential decodes the credential part of a JSON object. It checks
// the JSON shape of each field only; the builder invariants are left to the
// validator.
func parseCredential(obj jsonmap.JSONMap) (Credential, error) {
	var c Credential
	for _, parse := range credentialParsers {
		if err := parse(obj, &c); err != nil {
			return Credential{}, err
		}
	}
	return c, nil
}

// parseContext extracts the @context field.
func parseContext(obj jsonmap.JSONMap, c *Credential) error {
	contexts, err := util.ParseStrings(jsonFldContext, obj[jsonFldContext])
	if err != nil {
		return err
	}
	c.contexts = contexts
	return nil
}

// parseID extracts the id field.
func parseID(obj jsonmap.JSONMap, c *Credential) error {
	id, _, err := obj.GetString(jsonFldID)
	if err != nil {
		return err
	}
	c.id = id
	return nil
}

// parseTypes extracts the type field.
func parseTypes(obj jsonmap.JSONMap, c *Credential) error {
	types, err := util.ParseStrings(jsonFldType, obj[jsonFldType])
	if err != nil {
		return err
	}
	c.types = types
	return nil
}

// parseIssuer extracts the issuer, given either as a string or as an object
// with an id.
func parseIssuer(obj jsonmap.JSONMap, c *Credential) error {
	switch issuer := obj[jsonFldIssuer].(type) {
	case nil:
	case string:
		c.issuer = issuer
	default:
		issuerObj, ok := jsonmap.FromValue(issuer)
		if !ok {
			return fmt.Errorf("unsupported issuer format: %T", issuer)
		}
		id, _, err := issuerObj.GetString(jsonFldID)
		if err != nil {
			return fmt.Errorf("failed to parse issuer: %w", err)
		}
		c.issuer = id
	}
	return nil
}

// parseDates extracts issuanceDate and expirationDate.
func parseDates(obj jsonmap.JSONMap, c *Credential) error {
	issued, err := parseTime(obj, jsonFldIssuanceDate)
	if err != nil {
		return err
	}
	expires, err := parseTime(obj, jsonFldExpirationDate)
	if err != nil {
		return err
	}
	c.issuanceDate = issued
	c.expirationDate = expires
	return nil
}

func parseTime(obj jsonmap.JSONMap, field string) (time.Time, error) {
	value, ok, err := obj.GetString(field)
	if err != nil || !ok {
		return time.Time{}, err
	}
	t, err := time.Parse(time.RFC3339, value)
	if err != nil {
		return time.Time{}, fmt.Errorf("failed to parse %s: %w", field, err)
	}
	return t, nil
}

// parseSubject extracts the credentialSubject field.
func parseSubject(obj jsonmap.JSONMap, c *Credential) error {
	raw := obj[jsonFldSubject]
	if raw == nil {
		return nil
	}

	switch subject := raw.(type) {
	case string:
		c.subject = model.Subject{ID: subject}
	case []interface{}:
		return fmt.Errorf("unsupported subject format: %d subjects, expected one", len(subject))
	default:
		subjectObj, ok := jsonmap.FromValue(subject)
		if !ok {
			return fmt.Errorf("unsupported subject format: %T", subject)
		}
		// A subject without id is kept so the validator can report on the
		// rest of the document.
		id, _, err := subjectObj.GetString(jsonFldID)
		if err != nil {
			return fmt.Errorf("failed to parse subject: %w", err)
		}
		var claims jsonmap.JSONMap
		if rest := subjectObj.Without(jsonFldID); len(rest) > 0 {
			claims = rest.Clone()
		}
		c.subject = model.Subject{ID: id, Claims: claims}
	}
	return nil
}

// parseRefreshService extracts the refreshService field.
func parseRefreshService(obj jsonmap.JSONMap, c *Credential) error {
	services, err := model.ParseTypedIDs(obj[jsonFldRefreshService])
	if err != nil {
		return fmt.Errorf("failed to parse refresh service: %w", err)
	}
	switch len(services) {
	case 0:
	case 1:
		c.refreshService = &services[0]
	default:
		return fmt.Errorf("failed to parse refresh service: %d entries, expected one", len(services))
	}
	return nil
}

// parseTermsOfUse extracts the termsOfUse field.
func parseTermsOfUse(obj jsonmap.JSONMap, c *Credential) error {
	terms, err := model.ParseTypedIDs(obj[jsonFldTermsOfUse])
	if err != nil {
		return fmt.Errorf("failed to parse terms of use: %w", err)
	}
	c.termsOfUse = terms
	return nil
}

// parseSchemas extracts the credentialSchema field.
func parseSchemas(obj jsonmap.JSONMap, c *Credential) error {
	schemas, err := model.ParseTypedIDs(obj[jsonFldSchema])
	if err != nil {
		return fmt.Errorf("failed to parse credential schema: %w", err)
	}
	c.schemas = schemas
	return nil
}

// parseProof extracts the opaque proof object.
func parseProof(obj jsonmap.JSONMap) (jsonmap.JSONMap, error) {
	raw := obj[jsonFldProof]
	if raw == nil {
		return nil, nil
	}
	proof, ok := jsonmap.FromValue(raw)
	if !ok {
		return nil, fmt.Errorf("unsupported proof format: %T", raw)
	}
	return proof.Clone(), nil
}
