package data

import (
	"encoding/json"

	"github.com/shopspring/decimal"
)

const fieldEvaluation string = "evaluacion_desempeno"

// EmployeePartial is used for both create and update, only the non-nil
// fields are considered
type EmployeePartial struct {
	Name       *string          `json:"nombre,omitempty" validate:"omitnil,notblank,max=100"`
	Department *string          `json:"departamento,omitempty" validate:"omitnil,notblank,max=50"`
	JobTitle   *string          `json:"puesto,omitempty" validate:"omitnil,notblank,max=50"`
	NationalId *string          `json:"dui,omitempty" validate:"omitnil,max=15,dui"`
	Phone      *string          `json:"telefono,omitempty" validate:"omitnil,max=30"`
	Email      *string          `json:"correo,omitempty" validate:"omitnil,max=100,email"`
	BaseSalary *decimal.Decimal `json:"salario_base,omitempty" validate:"omitnil,min=0,max=99999999.99"`
	Bonus      *decimal.Decimal `json:"bonificacion,omitempty" validate:"omitnil,min=0,max=99999999.99"`
	Deduction  *decimal.Decimal `json:"descuento,omitempty" validate:"omitnil,min=0,max=99999999.99"`
	HireDate   *string          `json:"fecha_contratacion,omitempty" validate:"omitnil,datetime=2006-01-02"`
	BirthDate  *string          `json:"fecha_nacimiento,omitempty" validate:"omitnil,datetime=2006-01-02"`
	Sex        *string          `json:"sexo,omitempty" validate:"omitnil,oneof=M F O"`
	Evaluation *decimal.Decimal `json:"evaluacion_desempeno,omitempty" validate:"omitnil,min=0,max=999.99"`
	Status     *int             `json:"estado,omitempty" validate:"omitnil,oneof=0 1"`

	// ClearEvaluation resets the evaluation to null, it's set when the
	// payload carries an explicit "evaluacion_desempeno": null
	ClearEvaluation bool `json:"-"`
}

func (e EmployeePartial) MarshalJSON() ([]byte, error) {
	type employeePartial EmployeePartial

	bytes, err := json.Marshal(employeePartial(e))
	if err != nil || !e.ClearEvaluation || e.Evaluation != nil {
		return bytes, err
	}
	fields := make(map[string]json.RawMessage)
	if err := json.Unmarshal(bytes, &fields); err != nil {
		return nil, err
	}
	fields[fieldEvaluation] = json.RawMessage("null")
	return json.Marshal(fields)
}

func (e *EmployeePartial) UnmarshalJSON(bytes []byte) error {
	type employeePartial EmployeePartial

	var fields map[string]json.RawMessage
	var partial employeePartial

	if err := json.Unmarshal(bytes, &partial); err != nil {
		return err
	}
	if err := json.Unmarshal(bytes, &fields); err != nil {
		return err
	}
	*e = EmployeePartial(partial)
	if value, ok := fields[fieldEvaluation]; ok && string(value) == "null" {
		e.ClearEvaluation = true
	}
	return nil
}

func (e *EmployeePartial) MarshalBinary() ([]byte, error) {
	return json.Marshal(e)
}

func (e *EmployeePartial) UnmarshalBinary(data []byte) error {
	return json.Unmarshal(data, e)
}

// Empty returns true if no field is set
func (e *EmployeePartial) Empty() bool {
	return e.Name == nil && e.Department == nil && e.JobTitle == nil &&
		e.NationalId == nil && e.Phone == nil && e.Email == nil &&
		e.BaseSalary == nil && e.Bonus == nil && e.Deduction == nil &&
		e.HireDate == nil && e.BirthDate == nil && e.Sex == nil &&
		e.Evaluation == nil && e.Status == nil && !e.ClearEvaluation
}
