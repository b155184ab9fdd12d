package data

import (
	"time"

	"github.com/shopspring/decimal"
)

type EmployeeCalculations struct {
	Id               int64            `json:"id"`
	Name             string           `json:"nombre"`
	BaseSalary       decimal.Decimal  `json:"salario_base"`
	Bonus            decimal.Decimal  `json:"bonificacion"`
	Deduction        decimal.Decimal  `json:"descuento"`
	GrossSalary      decimal.Decimal  `json:"salario_bruto"`
	NetSalary        decimal.Decimal  `json:"salario_neto"`
	Age              int              `json:"edad"`
	Tenure           int              `json:"antiguedad"`
	Evaluation       *decimal.Decimal `json:"evaluacion_desempeno"`
	PerformanceRatio *float64         `json:"ratio_desempeno_salario"`
}

// NewEmployeeCalculations builds the calculation view of an employee, a
// deduction larger than the gross salary is reported as an integrity
// error rather than yielding a negative net salary
func NewEmployeeCalculations(e *Employee, now time.Time) (*EmployeeCalculations, error) {
	gross := e.GrossSalary()
	if e.Deduction.GreaterThan(gross) {
		return nil, &IntegrityError{
			EmployeeId: e.Id,
			Message: "deduction (" + e.Deduction.StringFixed(2) +
				") exceeds gross salary (" + gross.StringFixed(2) + ")",
		}
	}
	return &EmployeeCalculations{
		Id:               e.Id,
		Name:             e.Name,
		BaseSalary:       e.BaseSalary.Round(2),
		Bonus:            e.Bonus.Round(2),
		Deduction:        e.Deduction.Round(2),
		GrossSalary:      gross,
		NetSalary:        e.NetSalary(),
		Age:              e.Age(now),
		Tenure:           e.Tenure(now),
		Evaluation:       e.Evaluation,
		PerformanceRatio: e.PerformanceRatio(),
	}, nil
}
