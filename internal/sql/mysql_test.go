package sql_test

import (
	"context"
	"testing"
	"time"

	"github.com/antonio-alexander/go-employee-stats/internal/data"
	"github.com/antonio-alexander/go-employee-stats/internal/sql"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/go-sql-driver/mysql"
	"github.com/stretchr/testify/assert"
)

var employeeRowColumns = []string{
	"id_empleado", "nombre", "departamento", "puesto", "dui",
	"telefono", "correo", "salario_base", "bonificacion", "descuento",
	"fecha_contratacion", "fecha_nacimiento", "sexo", "evaluacion_desempeno",
	"estado", "created_at", "updated_at",
}

func employeeRows(ids ...int64) *sqlmock.Rows {
	timestamp := time.Date(2024, 1, 2, 3, 4, 5, 0, time.UTC)
	rows := sqlmock.NewRows(employeeRowColumns)
	for _, id := range ids {
		var evaluation any = "88.50"
		if id%2 == 0 {
			evaluation = nil
		}
		rows.AddRow(id, "Ana", "Ventas", "Gerente", "01234567-8",
			"7000-0000", nil, "1000.00", "100.00", "50.00",
			time.Date(2015, 3, 1, 0, 0, 0, 0, time.UTC),
			time.Date(1990, 7, 20, 0, 0, 0, 0, time.UTC),
			"F", evaluation, int64(1), timestamp, timestamp)
	}
	return rows
}

func newMock(t *testing.T) (interface {
	sql.Sql
	Close(context.Context) error
}, sqlmock.Sqlmock) {
	db, mock, err := sqlmock.New()
	if !assert.Nil(t, err) {
		assert.FailNow(t, "unable to create sqlmock")
	}
	mySql := sql.NewMySql(db)
	if !assert.Nil(t, mySql.Configure(map[string]string{"DATABASE_QUERY_TIMEOUT": "5"})) {
		assert.FailNow(t, "unable to configure mysql")
	}
	if !assert.Nil(t, mySql.Open(context.TODO())) {
		assert.FailNow(t, "unable to open mysql")
	}
	return mySql, mock
}

func TestMySqlMigrate(t *testing.T) {
	db, mock, err := sqlmock.New()
	assert.Nil(t, err)
	mock.ExpectExec(`CREATE TABLE IF NOT EXISTS empleados .+ telefono VARCHAR\(30\) NULL,`).
		WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectClose()

	mySql := sql.NewMySql(db)
	err = mySql.Configure(map[string]string{"DATABASE_MIGRATE": "true"})
	assert.Nil(t, err)
	err = mySql.Open(context.TODO())
	assert.Nil(t, err)
	err = mySql.Close(context.TODO())
	assert.Nil(t, err)
	assert.Nil(t, mock.ExpectationsWereMet())
}

func TestMySqlConfigure(t *testing.T) {
	mySql := sql.NewMySql()
	err := mySql.Configure(map[string]string{"DATABASE_QUERY_TIMEOUT": "ten"})
	assert.NotNil(t, err)
	err = mySql.Configure(map[string]string{"DATABASE_CONNECT_RETRIES": "-1"})
	assert.NotNil(t, err)
}

func TestMySqlEmployeeRead(t *testing.T) {
	mySql, mock := newMock(t)
	ctx := context.TODO()

	mock.ExpectQuery(`SELECT (.+) FROM empleados WHERE id_empleado = \?`).
		WithArgs(int64(1)).
		WillReturnRows(employeeRows(1))
	employee, err := mySql.EmployeeRead(ctx, 1)
	if assert.Nil(t, err) {
		assert.Equal(t, int64(1), employee.Id)
		assert.Equal(t, "Ana", employee.Name)
		assert.Equal(t, "01234567-8", *employee.NationalId)
		assert.Nil(t, employee.Email)
		assert.Equal(t, "1100", employee.GrossSalary().String())
		assert.Equal(t, "1050", employee.NetSalary().String())
		assert.Equal(t, "2015-03-01", employee.HireDate.String())
		assert.Equal(t, "1990-07-20", employee.BirthDate.String())
		if assert.NotNil(t, employee.Evaluation) {
			assert.Equal(t, "88.5", employee.Evaluation.String())
		}
		assert.Equal(t, int64(1704164645), employee.CreatedAt)
	}

	mock.ExpectQuery(`SELECT (.+) FROM empleados WHERE id_empleado = \?`).
		WithArgs(int64(2)).
		WillReturnRows(sqlmock.NewRows(employeeRowColumns))
	_, err = mySql.EmployeeRead(ctx, 2)
	assert.ErrorIs(t, err, data.ErrEmployeeNotFound)
	assert.Nil(t, mock.ExpectationsWereMet())
}

func TestMySqlEmployeeCreate(t *testing.T) {
	mySql, mock := newMock(t)
	ctx := context.TODO()

	mock.ExpectExec(`INSERT INTO empleados \((.+)\) VALUES \((.+)\)`).
		WillReturnResult(sqlmock.NewResult(7, 1))
	mock.ExpectQuery(`SELECT (.+) FROM empleados WHERE id_empleado = \?`).
		WithArgs(int64(7)).
		WillReturnRows(employeeRows(7))
	employee, err := mySql.EmployeeCreate(ctx, newPartial("Ventas", "F"))
	if assert.Nil(t, err) {
		assert.Equal(t, int64(7), employee.Id)
	}

	// a unique key violation is reported against the field
	mock.ExpectExec(`INSERT INTO empleados`).
		WillReturnError(&mysql.MySQLError{
			Number:  1062,
			Message: "Duplicate entry 'a@b.com' for key 'empleados.empleados_correo_unique'",
		})
	_, err = mySql.EmployeeCreate(ctx, newPartial("Ventas", "F"))
	validationErr := &data.ValidationError{}
	if assert.ErrorAs(t, err, &validationErr) {
		assert.True(t, validationErr.Has("correo"))
	}
	assert.Nil(t, mock.ExpectationsWereMet())
}

func TestMySqlEmployeesSearch(t *testing.T) {
	mySql, mock := newMock(t)
	ctx := context.TODO()

	mock.ExpectQuery(`SELECT COUNT\(\*\) FROM empleados WHERE estado = \? AND departamento = \?`).
		WithArgs(data.StatusActive, "Ventas").
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(17))
	mock.ExpectQuery(`SELECT (.+) FROM empleados WHERE estado = \? AND departamento = \? ORDER BY id_empleado LIMIT \? OFFSET \?`).
		WithArgs(data.StatusActive, "Ventas", 15, 15).
		WillReturnRows(employeeRows(16, 17))
	employees, total, err := mySql.EmployeesSearch(ctx, data.EmployeeSearch{
		Department: "Ventas",
		Page:       2,
		PerPage:    data.DefaultPerPage,
	})
	assert.Nil(t, err)
	assert.Equal(t, int64(17), total)
	if assert.Len(t, employees, 2) {
		assert.Nil(t, employees[0].Evaluation)
		assert.NotNil(t, employees[1].Evaluation)
	}

	// without pagination or filters everything is returned
	mock.ExpectQuery(`SELECT COUNT\(\*\) FROM empleados\s*;`).
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(0))
	mock.ExpectQuery(`SELECT (.+) FROM empleados ORDER BY id_empleado;`).
		WillReturnRows(sqlmock.NewRows(employeeRowColumns))
	employees, total, err = mySql.EmployeesSearch(ctx, data.EmployeeSearch{
		WithInactive: true,
	})
	assert.Nil(t, err)
	assert.Zero(t, total)
	assert.NotNil(t, employees)
	assert.Empty(t, employees)
	assert.Nil(t, mock.ExpectationsWereMet())
}

func TestMySqlEmployeeUpdateDelete(t *testing.T) {
	mySql, mock := newMock(t)
	ctx := context.TODO()

	mock.ExpectExec(`UPDATE empleados SET bonificacion = \?, updated_at = NOW\(\) WHERE id_empleado = \?`).
		WithArgs("250.00", int64(3)).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectQuery(`SELECT (.+) FROM empleados WHERE id_empleado = \?`).
		WithArgs(int64(3)).
		WillReturnRows(employeeRows(3))
	_, err := mySql.EmployeeUpdate(ctx, 3, data.EmployeePartial{Bonus: decimalPtr("250")})
	assert.Nil(t, err)

	mock.ExpectExec(`DELETE FROM empleados WHERE id_empleado = \?`).
		WithArgs(int64(3)).
		WillReturnResult(sqlmock.NewResult(0, 1))
	err = mySql.EmployeeDelete(ctx, 3)
	assert.Nil(t, err)

	mock.ExpectExec(`DELETE FROM empleados WHERE id_empleado = \?`).
		WithArgs(int64(3)).
		WillReturnResult(sqlmock.NewResult(0, 0))
	err = mySql.EmployeeDelete(ctx, 3)
	assert.ErrorIs(t, err, data.ErrEmployeeNotFound)
	assert.Nil(t, mock.ExpectationsWereMet())
}

func TestMySqlContactExists(t *testing.T) {
	mySql, mock := newMock(t)
	ctx := context.TODO()

	mock.ExpectQuery(`SELECT COUNT\(\*\) FROM empleados WHERE correo = \? AND id_empleado <> \?`).
		WithArgs("ana@example.com", int64(4)).
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(1))
	exists, err := mySql.ContactExists(ctx, "correo", "ana@example.com", 4)
	assert.Nil(t, err)
	assert.True(t, exists)

	_, err = mySql.ContactExists(ctx, "nombre; DROP TABLE empleados", "x", 0)
	assert.NotNil(t, err)
	assert.Nil(t, mock.ExpectationsWereMet())
}

func TestMySqlEmployeeUpdateNulls(t *testing.T) {
	mySql, mock := newMock(t)
	ctx := context.TODO()

	// an empty phone and a cleared evaluation are written as NULL
	mock.ExpectExec(`UPDATE empleados SET telefono = \?, evaluacion_desempeno = \?, updated_at = NOW\(\) WHERE id_empleado = \?`).
		WithArgs(nil, nil, int64(2)).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectQuery(`SELECT (.+) FROM empleados WHERE id_empleado = \?`).
		WithArgs(int64(2)).
		WillReturnRows(employeeRows(2))
	employee, err := mySql.EmployeeUpdate(ctx, 2, data.EmployeePartial{
		Phone:           stringPtr(""),
		ClearEvaluation: true,
	})
	assert.Nil(t, err)
	if assert.NotNil(t, employee) {
		assert.Nil(t, employee.Evaluation)
	}
	assert.Nil(t, mock.ExpectationsWereMet())
}
