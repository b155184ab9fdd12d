package logic

import (
	"context"
	"fmt"
	"reflect"
	"regexp"
	"sort"
	"strings"
	"time"

	"github.com/antonio-alexander/go-employee-stats/internal/data"
	"github.com/antonio-alexander/go-employee-stats/internal/sql"

	"github.com/go-playground/validator/v10"
	"github.com/go-playground/validator/v10/non-standard/validators"
	"github.com/pkg/errors"
	"github.com/shopspring/decimal"
)

const minimumAge int = 18

var regexNationalId = regexp.MustCompile(`^\d{8}-\d$`)

func newValidator() *validator.Validate {
	validate := validator.New(validator.WithRequiredStructEnabled())
	validate.RegisterTagNameFunc(func(field reflect.StructField) string {
		name := strings.SplitN(field.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})
	validate.RegisterCustomTypeFunc(func(field reflect.Value) any {
		if d, ok := field.Interface().(decimal.Decimal); ok {
			return d.InexactFloat64()
		}
		return nil
	}, decimal.Decimal{})
	_ = validate.RegisterValidation("notblank", validators.NotBlank)
	_ = validate.RegisterValidation("dui", func(fl validator.FieldLevel) bool {
		return regexNationalId.MatchString(fl.Field().String())
	})
	return validate
}

// validatePartial checks the fields that were provided, when create is
// true the fields needed to create an employee must be present
func validatePartial(validate *validator.Validate, p data.EmployeePartial, create bool) error {
	validationErr := &data.ValidationError{}
	if create {
		for field, missing := range map[string]bool{
			"nombre":             p.Name == nil,
			"departamento":       p.Department == nil,
			"puesto":             p.JobTitle == nil,
			"salario_base":       p.BaseSalary == nil,
			"fecha_contratacion": p.HireDate == nil,
			"fecha_nacimiento":   p.BirthDate == nil,
			"sexo":               p.Sex == nil,
		} {
			if missing {
				validationErr.Add(field, data.ReasonRequired)
			}
		}
	}
	if err := validate.Struct(&p); err != nil {
		var fieldErrs validator.ValidationErrors

		if !errors.As(err, &fieldErrs) {
			return err
		}
		for _, fieldErr := range fieldErrs {
			validationErr.Add(fieldErr.Field(), reason(fieldErr))
		}
	}
	if validationErr.HasIssues() {
		sortIssues(validationErr)
		return validationErr
	}
	return nil
}

func reason(fieldErr validator.FieldError) string {
	switch fieldErr.Tag() {
	default:
		return data.ReasonInvalid
	case "required", "notblank":
		return data.ReasonRequired
	case "max":
		if fieldErr.Kind() == reflect.String {
			return fmt.Sprintf(data.ReasonMustBeAtMost, fieldErr.Param())
		}
		return fmt.Sprintf(data.ReasonMustNotExceed, fieldErr.Param())
	case "min":
		return data.ReasonMustBeNonNegative
	case "email":
		return data.ReasonMustBeEmail
	case "datetime":
		return data.ReasonInvalidDate
	case "dui":
		return data.ReasonInvalidNationalId
	case "oneof":
		return fmt.Sprintf(data.ReasonMustBeOneOf,
			strings.Join(strings.Fields(fieldErr.Param()), ", "))
	}
}

// issues are reported in the order the fields appear in the payload
func sortIssues(validationErr *data.ValidationError) {
	order := make(map[string]int)
	t := reflect.TypeOf(data.EmployeePartial{})
	for i := 0; i < t.NumField(); i++ {
		order[strings.SplitN(t.Field(i).Tag.Get("json"), ",", 2)[0]] = i
	}
	sort.SliceStable(validationErr.Issues, func(i, j int) bool {
		return order[validationErr.Issues[i].Field] < order[validationErr.Issues[j].Field]
	})
}

// validateContacts verifies that the contact fields provided aren't
// already used by another employee (active or not)
func validateContacts(ctx context.Context, store sql.Sql, p data.EmployeePartial, excludeId int64) error {
	validationErr := &data.ValidationError{}
	for _, contact := range []struct {
		field string
		value *string
	}{
		{"dui", p.NationalId},
		{"telefono", p.Phone},
		{"correo", p.Email},
	} {
		if contact.value == nil || *contact.value == "" {
			continue
		}
		exists, err := store.ContactExists(ctx, contact.field, *contact.value, excludeId)
		if err != nil {
			return err
		}
		if exists {
			validationErr.Add(contact.field, data.ReasonAlreadyTaken)
		}
	}
	if validationErr.HasIssues() {
		return validationErr
	}
	return nil
}

// validateBusinessRules checks the invariants of an employee against
// its final (merged) state
func validateBusinessRules(employee *data.Employee, now time.Time) error {
	birthDate, hireDate := employee.BirthDate.Time, employee.HireDate.Time
	if birthDate.After(now) || data.YearsBetween(birthDate, now) < minimumAge {
		return &data.BusinessRuleError{
			Rule:    data.RuleMinimumAge,
			Message: "employee must be at least 18 years old",
		}
	}
	if birthDate.After(hireDate) {
		return &data.BusinessRuleError{
			Rule:    data.RuleBirthBeforeHire,
			Message: "birth date must be on or before the hire date",
		}
	}
	if gross := employee.GrossSalary(); employee.Deduction.GreaterThan(gross) {
		return &data.BusinessRuleError{
			Rule: data.RuleDeductionWithinGross,
			Message: "deduction (" + employee.Deduction.StringFixed(2) +
				") must not exceed the gross salary (" + gross.StringFixed(2) + ")",
		}
	}
	return nil
}
