package validator

import (
	"github.com/pilacorp/go-credential-engine/credential/common/errs"
)

// Rule identifiers reported in violations.
const (
	RuleCredentialCount = "R1"
	RuleIssuanceDate    = "R2"
	RuleExpirationDate  = "R3"
	RuleContextURI      = "R4"
	RuleBaseContext     = "R5"
	RuleIssuerDID       = "R6"
	RuleDuplicate       = "R7"
	RuleSubjectSchema   = "R8"
)

// Report is the outcome of validating a presentation. Valid is true exactly
// when Errors is empty.
type Report struct {
	Valid  bool             `json:"valid"`
	Errors []errs.Violation `json:"errors"`
}

// Err returns nil for a valid report and an *errs.ValidationFailedError
// carrying the violations otherwise.
func (r Report) Err() error {
	if r.Valid {
		return nil
	}
	return &errs.ValidationFailedError{Violations: append([]errs.Violation(nil), r.Errors...)}
}

// RuleIDs returns the rule id of every violation, in report order.
func (r Report) RuleIDs() []string {
	ids := make([]string, 0, len(r.Errors))
	for _, v := range r.Errors {
		ids = append(ids, v.RuleID)
	}
	return ids
}

func newReport(violations []errs.Violation) Report {
	if violations == nil {
		violations = []errs.Violation{}
	}
	return Report{Valid: len(violations) == 0, Errors: violations}
}
