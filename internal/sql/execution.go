package sql

import (
	"database/sql"
	"fmt"
	"strings"
	"time"

	"github.com/antonio-alexander/go-employee-stats/internal/data"

	"github.com/go-sql-driver/mysql"
	"github.com/pkg/errors"
	"github.com/shopspring/decimal"
)

const mysqlErrDuplicateEntry uint16 = 1062

var contactColumns = map[string]string{
	"dui":      "dui",
	"telefono": "telefono",
	"correo":   "correo",
}

var schema = []string{
	`CREATE TABLE IF NOT EXISTS empleados (
		id_empleado BIGINT UNSIGNED NOT NULL AUTO_INCREMENT,
		nombre VARCHAR(100) NOT NULL,
		departamento VARCHAR(50) NOT NULL,
		puesto VARCHAR(50) NOT NULL,
		dui VARCHAR(15) NULL,
		telefono VARCHAR(30) NULL,
		correo VARCHAR(100) NULL,
		salario_base DECIMAL(10,2) NOT NULL DEFAULT 0,
		bonificacion DECIMAL(10,2) NOT NULL DEFAULT 0,
		descuento DECIMAL(10,2) NOT NULL DEFAULT 0,
		fecha_contratacion DATE NOT NULL,
		fecha_nacimiento DATE NOT NULL,
		sexo CHAR(1) NOT NULL,
		evaluacion_desempeno DECIMAL(5,2) NULL,
		estado INT NOT NULL DEFAULT 1,
		created_at TIMESTAMP NULL,
		updated_at TIMESTAMP NULL,
		PRIMARY KEY (id_empleado),
		UNIQUE KEY empleados_dui_unique (dui),
		UNIQUE KEY empleados_telefono_unique (telefono),
		UNIQUE KEY empleados_correo_unique (correo),
		KEY empleados_estado_index (estado)
	) ENGINE=InnoDB DEFAULT CHARSET=utf8mb4;`,
}

func employeeAssignments(p data.EmployeePartial) ([]string, []any, error) {
	var columns []string
	var args []any

	if p.Name != nil {
		columns, args = append(columns, "nombre"), append(args, *p.Name)
	}
	if p.Department != nil {
		columns, args = append(columns, "departamento"), append(args, *p.Department)
	}
	if p.JobTitle != nil {
		columns, args = append(columns, "puesto"), append(args, *p.JobTitle)
	}
	if p.NationalId != nil {
		columns, args = append(columns, "dui"), append(args, nullString(*p.NationalId))
	}
	if p.Phone != nil {
		columns, args = append(columns, "telefono"), append(args, nullString(*p.Phone))
	}
	if p.Email != nil {
		columns, args = append(columns, "correo"), append(args, nullString(*p.Email))
	}
	if p.BaseSalary != nil {
		columns, args = append(columns, "salario_base"), append(args, p.BaseSalary.StringFixed(2))
	}
	if p.Bonus != nil {
		columns, args = append(columns, "bonificacion"), append(args, p.Bonus.StringFixed(2))
	}
	if p.Deduction != nil {
		columns, args = append(columns, "descuento"), append(args, p.Deduction.StringFixed(2))
	}
	if p.HireDate != nil {
		hireDate, err := data.ParseDate(*p.HireDate)
		if err != nil {
			return nil, nil, errors.Wrap(err, "fecha_contratacion")
		}
		columns, args = append(columns, "fecha_contratacion"), append(args, hireDate.String())
	}
	if p.BirthDate != nil {
		birthDate, err := data.ParseDate(*p.BirthDate)
		if err != nil {
			return nil, nil, errors.Wrap(err, "fecha_nacimiento")
		}
		columns, args = append(columns, "fecha_nacimiento"), append(args, birthDate.String())
	}
	if p.Sex != nil {
		columns, args = append(columns, "sexo"), append(args, *p.Sex)
	}
	switch {
	case p.Evaluation != nil:
		columns, args = append(columns, "evaluacion_desempeno"), append(args, p.Evaluation.StringFixed(2))
	case p.ClearEvaluation:
		columns, args = append(columns, "evaluacion_desempeno"), append(args, nil)
	}
	if p.Status != nil {
		columns, args = append(columns, "estado"), append(args, *p.Status)
	}
	return columns, args, nil
}

func employeeCriteria(search data.EmployeeSearch) (string, []any) {
	var args []any
	var criteria []string

	if ids := search.Ids; len(ids) > 0 {
		var parameters []string

		for _, id := range ids {
			args = append(args, id)
			parameters = append(parameters, "?")
		}
		criteria = append(criteria, fmt.Sprintf("id_empleado IN(%s)", strings.Join(parameters, ",")))
	}
	if !search.WithInactive {
		args = append(args, data.StatusActive)
		criteria = append(criteria, "estado = ?")
	}
	if search.Department != "" {
		args = append(args, search.Department)
		criteria = append(criteria, "departamento = ?")
	}
	if search.Sex != "" {
		args = append(args, search.Sex)
		criteria = append(criteria, "sexo = ?")
	}
	if len(criteria) <= 0 {
		return "", nil
	}
	return "WHERE " + strings.Join(criteria, " AND "), args
}

func employeeScan(scanFx func(...any) error) (*data.Employee, error) {
	var nationalId, phone, email sql.NullString
	var hireDate, birthDate time.Time
	var createdAt, updatedAt sql.NullTime
	var evaluation decimal.NullDecimal

	employee := new(data.Employee)
	if err := scanFx(
		&employee.Id,
		&employee.Name,
		&employee.Department,
		&employee.JobTitle,
		&nationalId,
		&phone,
		&email,
		&employee.BaseSalary,
		&employee.Bonus,
		&employee.Deduction,
		&hireDate,
		&birthDate,
		&employee.Sex,
		&evaluation,
		&employee.Status,
		&createdAt,
		&updatedAt,
	); err != nil {
		return nil, err
	}
	if nationalId.Valid {
		employee.NationalId = &nationalId.String
	}
	if phone.Valid {
		employee.Phone = &phone.String
	}
	if email.Valid {
		employee.Email = &email.String
	}
	if evaluation.Valid {
		employee.Evaluation = &evaluation.Decimal
	}
	employee.HireDate = data.DateFromTime(hireDate)
	employee.BirthDate = data.DateFromTime(birthDate)
	if createdAt.Valid {
		employee.CreatedAt = createdAt.Time.Unix()
	}
	if updatedAt.Valid {
		employee.UpdatedAt = updatedAt.Time.Unix()
	}
	return employee, nil
}

// mysqlError converts unique key violations into validation errors so
// that a race between the uniqueness check and the write is still
// reported against the offending field
func mysqlError(err error) error {
	var mysqlErr *mysql.MySQLError

	if !errors.As(err, &mysqlErr) || mysqlErr.Number != mysqlErrDuplicateEntry {
		return err
	}
	validationErr := &data.ValidationError{}
	for field, column := range contactColumns {
		if strings.Contains(mysqlErr.Message, "empleados_"+column+"_unique") {
			validationErr.Add(field, data.ReasonAlreadyTaken)
		}
	}
	if !validationErr.HasIssues() {
		validationErr.Add(data.FieldGeneral, data.ReasonAlreadyTaken)
	}
	return validationErr
}

// empty optional strings are stored as NULL so that they don't collide
// with the unique indexes
func nullString(s string) sql.NullString {
	if s == "" {
		return sql.NullString{}
	}
	return sql.NullString{String: s, Valid: true}
}
