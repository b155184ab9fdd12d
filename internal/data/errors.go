package data

import (
	"errors"
	"fmt"
	"strings"
)

var (
	ErrEmployeeNotFound = errors.New("employee not found")
	ErrEmployeeInactive = errors.New("employee not active")
	ErrMutationDisabled = errors.New("mutation disabled")
	ErrMalformedRequest = errors.New("malformed request")
)

const (
	RuleMinimumAge           string = "minimum_age"
	RuleBirthBeforeHire      string = "birth_before_hire"
	RuleDeductionWithinGross string = "deduction_within_gross"
	ReasonRequired           string = "is required"
	ReasonAlreadyTaken       string = "has already been taken"
	ReasonInvalidDate        string = "must be a valid date in YYYY-MM-DD format"
	ReasonInvalidNationalId  string = "must match the format ########-#"
	ReasonMustBeNonNegative  string = "must be greater than or equal to 0"
	ReasonMustBeOneOf        string = "must be one of: %s"
	ReasonMustBeAtMost       string = "must not be greater than %s characters"
	ReasonMustNotExceed      string = "must not be greater than %s"
	ReasonMustBeEmail        string = "must be a valid email address"
	ReasonInvalid            string = "is invalid"
	FieldGeneral             string = "_"
)

type FieldIssue struct {
	Field  string `json:"field"`
	Reason string `json:"reason"`
}

// ValidationError is returned when input is malformed, missing, out of
// range or conflicts with another employee's contact fields
type ValidationError struct {
	Issues []FieldIssue `json:"fields"`
}

func (v *ValidationError) Add(field, reason string) {
	v.Issues = append(v.Issues, FieldIssue{Field: field, Reason: reason})
}

func (v *ValidationError) HasIssues() bool {
	return v != nil && len(v.Issues) > 0
}

func (v *ValidationError) Has(field string) bool {
	for _, issue := range v.Issues {
		if issue.Field == field {
			return true
		}
	}
	return false
}

func (v *ValidationError) Error() string {
	var issues []string

	for _, issue := range v.Issues {
		issues = append(issues, issue.Field+" "+issue.Reason)
	}
	return "validation failed: " + strings.Join(issues, "; ")
}

// BusinessRuleError is returned when well formed input violates one of
// the employee invariants
type BusinessRuleError struct {
	Rule    string `json:"rule"`
	Message string `json:"message"`
}

func (b *BusinessRuleError) Error() string {
	return b.Message
}

// IntegrityError is returned when a stored employee breaks an invariant
// at read time
type IntegrityError struct {
	EmployeeId int64  `json:"employee_id"`
	Message    string `json:"message"`
}

func (i *IntegrityError) Error() string {
	return fmt.Sprintf("employee (%d) integrity error: %s", i.EmployeeId, i.Message)
}
