package validator

import (
	"fmt"
	"time"

	"github.com/xeipuuv/gojsonschema"
	"golang.org/x/exp/slices"

	"github.com/pilacorp/go-credential-engine/credential/common/errs"
	"github.com/pilacorp/go-credential-engine/credential/common/util"
	"github.com/pilacorp/go-credential-engine/credential/vc"
	"github.com/pilacorp/go-credential-engine/credential/vp"
	"github.com/pilacorp/go-credential-engine/did"
)

type rule func(p vp.Presentation, now time.Time) []errs.Violation

func (v *Validator) rules() []rule {
	return []rule{
		checkCredentialCount,
		v.checkIssuanceDates,
		v.checkExpirationDates,
		checkContextURIs,
		checkBaseContexts,
		checkIssuerDIDs,
		checkDuplicates,
		v.checkSubjectSchemas,
	}
}

func violation(ruleID, format string, args ...interface{}) errs.Violation {
	return errs.Violation{RuleID: ruleID, Message: fmt.Sprintf(format, args...)}
}

// credentialLabel names a credential in messages by position and id.
func credentialLabel(i int, c vc.Credential) string {
	if c.ID() == "" {
		return fmt.Sprintf("credential[%d]", i)
	}
	return fmt.Sprintf("credential[%d] (%s)", i, c.ID())
}

// checkCredentialCount is R1.
func checkCredentialCount(p vp.Presentation, _ time.Time) []errs.Violation {
	if len(p.Credentials()) == 0 {
		return []errs.Violation{violation(RuleCredentialCount, "presentation must contain at least one verifiable credential")}
	}
	return nil
}

// checkIssuanceDates is R2.
func (v *Validator) checkIssuanceDates(p vp.Presentation, now time.Time) []errs.Violation {
	var out []errs.Violation
	latest := now.Add(v.skew)
	for i, credential := range p.Credentials() {
		c := credential.Credential()
		if c.IssuanceDate().After(latest) {
			out = append(out, violation(RuleIssuanceDate, "%s: issuance date %s is in the future",
				credentialLabel(i, c), c.IssuanceDate().UTC().Format(time.RFC3339)))
		}
	}
	return out
}

// checkExpirationDates is R3.
func (v *Validator) checkExpirationDates(p vp.Presentation, now time.Time) []errs.Violation {
	var out []errs.Violation
	earliest := now.Add(-v.skew)
	for i, credential := range p.Credentials() {
		c := credential.Credential()
		if expires, ok := c.ExpirationDate(); ok && expires.Before(earliest) {
			out = append(out, violation(RuleExpirationDate, "%s: expired at %s",
				credentialLabel(i, c), expires.UTC().Format(time.RFC3339)))
		}
	}
	return out
}

// checkContextURIs is R4.
func checkContextURIs(p vp.Presentation, _ time.Time) []errs.Violation {
	var out []errs.Violation
	for _, ctx := range p.Contexts() {
		if !util.IsURI(ctx) {
			out = append(out, violation(RuleContextURI, "presentation: context %q is not a valid URI", ctx))
		}
	}
	for i, credential := range p.Credentials() {
		c := credential.Credential()
		for _, ctx := range c.Contexts() {
			if !util.IsURI(ctx) {
				out = append(out, violation(RuleContextURI, "%s: context %q is not a valid URI", credentialLabel(i, c), ctx))
			}
		}
	}
	return out
}

// checkBaseContexts is R5. Every credential requires the base credentials
// context, both in its own contexts and in the presentation's.
func checkBaseContexts(p vp.Presentation, _ time.Time) []errs.Violation {
	var out []errs.Violation
	inPresentation := slices.Contains(p.Contexts(), vc.BaseContext)
	for i, credential := range p.Credentials() {
		c := credential.Credential()
		if !slices.Contains(c.Contexts(), vc.BaseContext) {
			out = append(out, violation(RuleBaseContext, "%s: required base context %q is missing from the credential contexts",
				credentialLabel(i, c), vc.BaseContext))
		}
		if !inPresentation {
			out = append(out, violation(RuleBaseContext, "%s: required base context %q is missing from the presentation contexts",
				credentialLabel(i, c), vc.BaseContext))
		}
	}
	return out
}

// checkIssuerDIDs is R6.
func checkIssuerDIDs(p vp.Presentation, _ time.Time) []errs.Violation {
	var out []errs.Violation
	for i, credential := range p.Credentials() {
		c := credential.Credential()
		if !did.IsDID(c.Issuer()) {
			continue
		}
		if _, err := did.Parse(c.Issuer()); err != nil {
			out = append(out, violation(RuleIssuerDID, "%s: issuer %q: %v", credentialLabel(i, c), c.Issuer(), err))
		}
	}
	return out
}

// checkDuplicates is R7. Credentials are the same when they share an id or,
// lacking one, encode to identical JSON.
func checkDuplicates(p vp.Presentation, _ time.Time) []errs.Violation {
	var out []errs.Violation
	seen := make(map[string]int)
	for i, credential := range p.Credentials() {
		key := credential.Credential().ID()
		if key == "" {
			data, err := credential.MarshalJSON()
			if err != nil {
				continue
			}
			key = string(data)
		}
		if first, ok := seen[key]; ok {
			out = append(out, violation(RuleDuplicate, "%s: duplicates credential[%d]",
				credentialLabel(i, credential.Credential()), first))
			continue
		}
		seen[key] = i
	}
	return out
}

// checkSubjectSchemas is R8.
func (v *Validator) checkSubjectSchemas(p vp.Presentation, _ time.Time) []errs.Violation {
	out := append([]errs.Violation(nil), v.loadErrors...)
	for i, credential := range p.Credentials() {
		c := credential.Credential()
		for _, ref := range c.Schemas() {
			schema, ok := v.schemas[ref.ID]
			if !ok {
				continue
			}
			subject := map[string]interface{}(c.Subject().ToJSON())
			result, err := schema.Validate(gojsonschema.NewGoLoader(subject))
			if err != nil {
				out = append(out, violation(RuleSubjectSchema, "%s: failed to check schema %q: %v", credentialLabel(i, c), ref.ID, err))
				continue
			}
			for _, resultErr := range result.Errors() {
				out = append(out, violation(RuleSubjectSchema, "%s: subject does not match schema %q: %s",
					credentialLabel(i, c), ref.ID, resultErr.String()))
			}
		}
	}
	return out
}
