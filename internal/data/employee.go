package data

import (
	"encoding/json"
	"math"
	"time"

	"github.com/shopspring/decimal"
)

func init() {
	//money is serialized as a json number rather than a string
	decimal.MarshalJSONWithoutQuotes = true
}

type Employee struct {
	Id         int64            `json:"id_empleado"`
	Name       string           `json:"nombre"`
	Department string           `json:"departamento"`
	JobTitle   string           `json:"puesto"`
	NationalId *string          `json:"dui"`
	Phone      *string          `json:"telefono"`
	Email      *string          `json:"correo"`
	BaseSalary decimal.Decimal  `json:"salario_base"`
	Bonus      decimal.Decimal  `json:"bonificacion"`
	Deduction  decimal.Decimal  `json:"descuento"`
	HireDate   Date             `json:"fecha_contratacion"`
	BirthDate  Date             `json:"fecha_nacimiento"`
	Sex        string           `json:"sexo"`
	Evaluation *decimal.Decimal `json:"evaluacion_desempeno"`
	Status     int              `json:"estado"`
	CreatedAt  int64            `json:"created_at,omitempty"`
	UpdatedAt  int64            `json:"updated_at,omitempty"`

	asOf time.Time
}

// MarshalJSON appends the derived attributes, they're computed on
// every read and never stored
func (e Employee) MarshalJSON() ([]byte, error) {
	type employee Employee

	now := e.asOf
	if now.IsZero() {
		now = time.Now()
	}
	return json.Marshal(&struct {
		employee
		GrossSalary      decimal.Decimal `json:"salario_bruto"`
		NetSalary        decimal.Decimal `json:"salario_neto"`
		Age              int             `json:"edad"`
		Tenure           int             `json:"antiguedad"`
		PerformanceRatio *float64        `json:"ratio_desempeno_salario"`
	}{
		employee:         employee(e),
		GrossSalary:      e.GrossSalary(),
		NetSalary:        e.NetSalary(),
		Age:              e.Age(now),
		Tenure:           e.Tenure(now),
		PerformanceRatio: e.PerformanceRatio(),
	})
}

func (e *Employee) MarshalBinary() ([]byte, error) {
	return json.Marshal(e)
}

func (e *Employee) UnmarshalBinary(data []byte) error {
	return json.Unmarshal(data, e)
}

// AsOf sets the point in time edad and antiguedad are serialized
// against, the current time is used when it's not set
func (e *Employee) AsOf(t time.Time) {
	e.asOf = t
}

func (e *Employee) Active() bool {
	return e.Status == StatusActive
}

// GrossSalary is base salary + bonus
func (e *Employee) GrossSalary() decimal.Decimal {
	return e.BaseSalary.Add(e.Bonus).Round(2)
}

// NetSalary is gross salary - deduction
func (e *Employee) NetSalary() decimal.Decimal {
	return e.GrossSalary().Sub(e.Deduction).Round(2)
}

func (e *Employee) Age(now time.Time) int {
	if e.BirthDate.IsZero() {
		return 0
	}
	return YearsBetween(e.BirthDate.Time, now)
}

func (e *Employee) Tenure(now time.Time) int {
	if e.HireDate.IsZero() {
		return 0
	}
	return YearsBetween(e.HireDate.Time, now)
}

// PerformanceRatio is evaluation / base salary, it's nil when there's
// no evaluation or the base salary is zero
func (e *Employee) PerformanceRatio() *float64 {
	if e.Evaluation == nil || e.BaseSalary.IsZero() {
		return nil
	}
	ratio := e.Evaluation.InexactFloat64() / e.BaseSalary.InexactFloat64()
	ratio = math.Round(ratio*1e6) / 1e6
	return &ratio
}

// Apply overwrites the fields of the employee with the non-nil fields
// of the partial
func (e *Employee) Apply(p EmployeePartial) error {
	if p.Name != nil {
		e.Name = *p.Name
	}
	if p.Department != nil {
		e.Department = *p.Department
	}
	if p.JobTitle != nil {
		e.JobTitle = *p.JobTitle
	}
	if p.NationalId != nil {
		e.NationalId = contactPtr(*p.NationalId)
	}
	if p.Phone != nil {
		e.Phone = contactPtr(*p.Phone)
	}
	if p.Email != nil {
		e.Email = contactPtr(*p.Email)
	}
	if p.BaseSalary != nil {
		e.BaseSalary = *p.BaseSalary
	}
	if p.Bonus != nil {
		e.Bonus = *p.Bonus
	}
	if p.Deduction != nil {
		e.Deduction = *p.Deduction
	}
	if p.HireDate != nil {
		hireDate, err := ParseDate(*p.HireDate)
		if err != nil {
			return err
		}
		e.HireDate = hireDate
	}
	if p.BirthDate != nil {
		birthDate, err := ParseDate(*p.BirthDate)
		if err != nil {
			return err
		}
		e.BirthDate = birthDate
	}
	if p.Sex != nil {
		e.Sex = *p.Sex
	}
	switch {
	case p.Evaluation != nil:
		evaluation := *p.Evaluation
		e.Evaluation = &evaluation
	case p.ClearEvaluation:
		e.Evaluation = nil
	}
	if p.Status != nil {
		e.Status = *p.Status
	}
	return nil
}

func CopyEmployee(e *Employee) *Employee {
	employee := &Employee{}
	*employee = *e
	if e.NationalId != nil {
		employee.NationalId = stringPtr(*e.NationalId)
	}
	if e.Phone != nil {
		employee.Phone = stringPtr(*e.Phone)
	}
	if e.Email != nil {
		employee.Email = stringPtr(*e.Email)
	}
	if e.Evaluation != nil {
		evaluation := *e.Evaluation
		employee.Evaluation = &evaluation
	}
	return employee
}

func stringPtr(s string) *string {
	return &s
}

// contactPtr stores an empty contact field as null, like the table does
func contactPtr(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}
