package logic_test

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/antonio-alexander/go-employee-stats/internal"
	"github.com/antonio-alexander/go-employee-stats/internal/cache"
	"github.com/antonio-alexander/go-employee-stats/internal/data"
	"github.com/antonio-alexander/go-employee-stats/internal/logic"
	"github.com/antonio-alexander/go-employee-stats/internal/sql"
	"github.com/antonio-alexander/go-employee-stats/internal/utilities"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

var nationalIds int64

var envs = map[string]string{
	"LOGIC_CACHE_ENABLED": "true",
	"MUTATE_DISABLED":     "false",
}

func now() time.Time {
	return time.Date(2025, time.June, 15, 12, 0, 0, 0, time.UTC)
}

func stringPtr(s string) *string {
	return &s
}

func intPtr(i int) *int {
	return &i
}

func decimalPtr(s string) *decimal.Decimal {
	d := decimal.RequireFromString(s)
	return &d
}

func validPartial() data.EmployeePartial {
	id := internal.GenerateId()
	return data.EmployeePartial{
		Name:       stringPtr("Ana Lopez"),
		Department: stringPtr("Ventas"),
		JobTitle:   stringPtr("Analista"),
		NationalId: stringPtr(fmt.Sprintf("%08d-%d", atomic.AddInt64(&nationalIds, 1), 7)),
		Phone:      stringPtr(id[:14]),
		Email:      stringPtr(id[:8] + "@example.com"),
		BaseSalary: decimalPtr("1000"),
		HireDate:   stringPtr("2015-03-01"),
		BirthDate:  stringPtr("1990-07-20"),
		Sex:        stringPtr(data.SexFemale),
	}
}

type publisher struct {
	sync.Mutex
	events []*data.EmployeeEvent
	err    error
}

func (p *publisher) Publish(ctx context.Context, event *data.EmployeeEvent) error {
	p.Lock()
	defer p.Unlock()

	p.events = append(p.events, event)
	return p.err
}

func (p *publisher) types() []data.EventType {
	p.Lock()
	defer p.Unlock()

	var types []data.EventType
	for _, event := range p.events {
		types = append(types, event.Type)
	}
	return types
}

type logicTest struct {
	logic interface {
		internal.Configurer
		internal.Opener
	}
	logic.Logic
	counter   utilities.Counter
	publisher *publisher
}

func newLogicTest(parameters ...any) *logicTest {
	counter, publisher := utilities.NewCounter(), &publisher{}
	parameters = append(parameters, counter, publisher, now)
	l := logic.NewLogic(parameters...)
	return &logicTest{
		logic:     l,
		Logic:     l,
		counter:   counter,
		publisher: publisher,
	}
}

func (l *logicTest) create(t *testing.T, p data.EmployeePartial) *data.Employee {
	employee, err := l.EmployeeCreate(context.TODO(), p)
	if !assert.Nil(t, err) {
		assert.FailNow(t, "unable to create employee")
	}
	return employee
}

func (l *logicTest) TestEmployeeCreate(t *testing.T) {
	ctx := context.TODO()

	employee := l.create(t, validPartial())
	assert.NotZero(t, employee.Id)
	assert.Equal(t, data.StatusActive, employee.Status)
	assert.True(t, employee.Bonus.IsZero())
	assert.True(t, employee.Deduction.IsZero())
	assert.Nil(t, employee.Evaluation)

	// missing fields are reported by name
	_, err := l.EmployeeCreate(ctx, data.EmployeePartial{Name: stringPtr("Ana")})
	validationErr := &data.ValidationError{}
	if assert.ErrorAs(t, err, &validationErr) {
		for _, field := range []string{"departamento", "puesto",
			"salario_base", "fecha_contratacion", "fecha_nacimiento", "sexo"} {
			assert.True(t, validationErr.Has(field), field)
		}
		assert.False(t, validationErr.Has("nombre"))
		assert.False(t, validationErr.Has("telefono"))
		assert.Equal(t, "departamento", validationErr.Issues[0].Field)
	}

	// blank strings don't count as present
	p := validPartial()
	p.Name = stringPtr("")
	p.Department = stringPtr("   ")
	p.JobTitle = stringPtr("")
	_, err = l.EmployeeCreate(ctx, p)
	validationErr = &data.ValidationError{}
	if assert.ErrorAs(t, err, &validationErr) {
		assert.Equal(t, []data.FieldIssue{
			{Field: "nombre", Reason: data.ReasonRequired},
			{Field: "departamento", Reason: data.ReasonRequired},
			{Field: "puesto", Reason: data.ReasonRequired},
		}, validationErr.Issues)
	}

	// contact fields are optional, empty ones are stored as null
	p = validPartial()
	p.NationalId, p.Phone, p.Email = nil, nil, nil
	withoutContacts := l.create(t, p)
	assert.Nil(t, withoutContacts.NationalId)
	assert.Nil(t, withoutContacts.Phone)
	assert.Nil(t, withoutContacts.Email)
	p = validPartial()
	p.Phone = stringPtr("")
	withoutPhone := l.create(t, p)
	assert.Nil(t, withoutPhone.Phone)
	p.NationalId, p.Email = nil, nil
	_ = l.create(t, p)

	// malformed fields
	p = validPartial()
	p.NationalId = stringPtr("1234-5")
	p.Email = stringPtr("not-an-email")
	p.Sex = stringPtr("X")
	p.HireDate = stringPtr("2015-02-30")
	p.Bonus = decimalPtr("-1")
	p.Status = intPtr(3)
	_, err = l.EmployeeCreate(ctx, p)
	validationErr = &data.ValidationError{}
	if assert.ErrorAs(t, err, &validationErr) {
		assert.Equal(t, []data.FieldIssue{
			{Field: "dui", Reason: data.ReasonInvalidNationalId},
			{Field: "correo", Reason: data.ReasonMustBeEmail},
			{Field: "bonificacion", Reason: data.ReasonMustBeNonNegative},
			{Field: "fecha_contratacion", Reason: data.ReasonInvalidDate},
			{Field: "sexo", Reason: "must be one of: M, F, O"},
			{Field: "estado", Reason: "must be one of: 0, 1"},
		}, validationErr.Issues)
	}

	// contact fields must be unique
	p = validPartial()
	p.Phone = employee.Phone
	p.Email = employee.Email
	_, err = l.EmployeeCreate(ctx, p)
	validationErr = &data.ValidationError{}
	if assert.ErrorAs(t, err, &validationErr) {
		assert.True(t, validationErr.Has("telefono"))
		assert.True(t, validationErr.Has("correo"))
		assert.False(t, validationErr.Has("dui"))
	}
}

func (l *logicTest) TestBusinessRules(t *testing.T) {
	ctx := context.TODO()

	for _, test := range []struct {
		name   string
		mutate func(p *data.EmployeePartial)
		rule   string
	}{
		{
			name: "underage",
			mutate: func(p *data.EmployeePartial) {
				p.BirthDate = stringPtr("2008-01-01")
				p.HireDate = stringPtr("2025-01-01")
			},
			rule: data.RuleMinimumAge,
		},
		{
			name: "turns 18 tomorrow",
			mutate: func(p *data.EmployeePartial) {
				p.BirthDate = stringPtr("2007-06-16")
				p.HireDate = stringPtr("2025-06-01")
			},
			rule: data.RuleMinimumAge,
		},
		{
			name: "birth in the future",
			mutate: func(p *data.EmployeePartial) {
				p.BirthDate = stringPtr("2050-01-01")
			},
			rule: data.RuleMinimumAge,
		},
		{
			name: "birth after hire",
			mutate: func(p *data.EmployeePartial) {
				p.BirthDate = stringPtr("1990-01-01")
				p.HireDate = stringPtr("1985-01-01")
			},
			rule: data.RuleBirthBeforeHire,
		},
		{
			name: "deduction exceeds gross",
			mutate: func(p *data.EmployeePartial) {
				p.BaseSalary = decimalPtr("1000")
				p.Bonus = decimalPtr("100")
				p.Deduction = decimalPtr("1100.01")
			},
			rule: data.RuleDeductionWithinGross,
		},
	} {
		t.Run(test.name, func(t *testing.T) {
			p := validPartial()
			test.mutate(&p)
			_, err := l.EmployeeCreate(ctx, p)
			businessErr := &data.BusinessRuleError{}
			if assert.ErrorAs(t, err, &businessErr) {
				assert.Equal(t, test.rule, businessErr.Rule)
			}
		})
	}

	// exactly 18 and deduction equal to gross are allowed
	p := validPartial()
	p.BirthDate = stringPtr("2007-06-15")
	p.HireDate = stringPtr("2025-06-15")
	p.Bonus = decimalPtr("100")
	p.Deduction = decimalPtr("1100")
	employee := l.create(t, p)
	assert.True(t, employee.NetSalary().IsZero())
}

func (l *logicTest) TestEmployeeUpdate(t *testing.T) {
	ctx := context.TODO()

	p := validPartial()
	p.BaseSalary = decimalPtr("1000")
	p.Bonus = decimalPtr("100")
	p.Deduction = decimalPtr("1000")
	employee := l.create(t, p)

	// a single field is validated against the stored values
	updated, err := l.EmployeeUpdate(ctx, employee.Id, data.EmployeePartial{
		Bonus: decimalPtr("0"),
	})
	assert.Nil(t, err)
	assert.True(t, updated.Bonus.IsZero())
	assert.True(t, updated.Deduction.Equal(decimal.RequireFromString("1000")))
	_, err = l.EmployeeUpdate(ctx, employee.Id, data.EmployeePartial{
		BaseSalary: decimalPtr("999.99"),
	})
	businessErr := &data.BusinessRuleError{}
	if assert.ErrorAs(t, err, &businessErr) {
		assert.Equal(t, data.RuleDeductionWithinGross, businessErr.Rule)
	}
	_, err = l.EmployeeUpdate(ctx, employee.Id, data.EmployeePartial{
		BirthDate: stringPtr("2015-01-01"),
	})
	if assert.ErrorAs(t, err, &businessErr) {
		assert.Equal(t, data.RuleMinimumAge, businessErr.Rule)
	}

	// the employee's own contact fields aren't a conflict
	updated, err = l.EmployeeUpdate(ctx, employee.Id, data.EmployeePartial{
		Phone: employee.Phone,
		Name:  stringPtr("Ana Maria Lopez"),
	})
	assert.Nil(t, err)
	assert.Equal(t, "Ana Maria Lopez", updated.Name)

	// another employee's contact fields are
	other := l.create(t, validPartial())
	_, err = l.EmployeeUpdate(ctx, other.Id, data.EmployeePartial{
		Phone: employee.Phone,
	})
	validationErr := &data.ValidationError{}
	if assert.ErrorAs(t, err, &validationErr) {
		assert.True(t, validationErr.Has("telefono"))
	}

	// empty values are validated too
	_, err = l.EmployeeUpdate(ctx, employee.Id, data.EmployeePartial{
		Name: stringPtr(""),
	})
	if assert.ErrorAs(t, err, &validationErr) {
		assert.Equal(t, []data.FieldIssue{{Field: "nombre", Reason: data.ReasonRequired}},
			validationErr.Issues)
	}

	// unknown employees can't be updated
	_, err = l.EmployeeUpdate(ctx, 999999, data.EmployeePartial{Name: stringPtr("x")})
	assert.ErrorIs(t, err, data.ErrEmployeeNotFound)
}

func (l *logicTest) TestEmployeeEvaluation(t *testing.T) {
	ctx := context.TODO()

	p := validPartial()
	p.Evaluation = decimalPtr("80")
	employee := l.create(t, p)
	if assert.NotNil(t, employee.Evaluation) {
		assert.Equal(t, "80", employee.Evaluation.String())
	}

	// the evaluation fits in DECIMAL(5,2)
	_, err := l.EmployeeUpdate(ctx, employee.Id, data.EmployeePartial{
		Evaluation: decimalPtr("1000"),
	})
	validationErr := &data.ValidationError{}
	if assert.ErrorAs(t, err, &validationErr) {
		assert.Equal(t, []data.FieldIssue{{
			Field:  "evaluacion_desempeno",
			Reason: "must not be greater than 999.99",
		}}, validationErr.Issues)
	}
	updated, err := l.EmployeeUpdate(ctx, employee.Id, data.EmployeePartial{
		Evaluation: decimalPtr("999.99"),
	})
	assert.Nil(t, err)
	if assert.NotNil(t, updated) && assert.NotNil(t, updated.Evaluation) {
		assert.Equal(t, "999.99", updated.Evaluation.String())
	}

	// an explicit null clears the evaluation
	var clear data.EmployeePartial
	err = json.Unmarshal([]byte(`{"evaluacion_desempeno":null}`), &clear)
	assert.Nil(t, err)
	updated, err = l.EmployeeUpdate(ctx, employee.Id, clear)
	assert.Nil(t, err)
	if assert.NotNil(t, updated) {
		assert.Nil(t, updated.Evaluation)
		assert.Nil(t, updated.PerformanceRatio())
	}
	employeeRead, err := l.EmployeeRead(ctx, employee.Id)
	assert.Nil(t, err)
	if assert.NotNil(t, employeeRead) {
		assert.Nil(t, employeeRead.Evaluation)
	}
}

func (l *logicTest) TestEmployeeUpdateEmpty(t *testing.T) {
	ctx := context.TODO()

	employee := l.create(t, validPartial())
	nEvents := len(l.publisher.types())
	updated, err := l.EmployeeUpdate(ctx, employee.Id, data.EmployeePartial{})
	assert.Nil(t, err)
	if assert.NotNil(t, updated) {
		assert.Equal(t, employee.Id, updated.Id)
		assert.Equal(t, employee.UpdatedAt, updated.UpdatedAt)
	}
	assert.Len(t, l.publisher.types(), nEvents)

	// derived attributes are serialized against the logic clock
	bytes, err := json.Marshal(updated)
	assert.Nil(t, err)
	values := make(map[string]any)
	err = json.Unmarshal(bytes, &values)
	assert.Nil(t, err)
	assert.Equal(t, float64(34), values["edad"])
	assert.Equal(t, float64(10), values["antiguedad"])

	_, err = l.EmployeeUpdate(ctx, 999999, data.EmployeePartial{})
	assert.ErrorIs(t, err, data.ErrEmployeeNotFound)
}

func (l *logicTest) TestEmployeeDelete(t *testing.T) {
	ctx := context.TODO()

	employee := l.create(t, validPartial())
	employeeRead, err := l.EmployeeRead(ctx, employee.Id)
	assert.Nil(t, err)
	assert.Equal(t, employee.Id, employeeRead.Id)

	// soft delete
	response, err := l.EmployeeDelete(ctx, employee.Id, false)
	assert.Nil(t, err)
	assert.Equal(t, &data.DeleteResponse{SoftDeleted: true}, response)
	_, err = l.EmployeeRead(ctx, employee.Id)
	assert.ErrorIs(t, err, data.ErrEmployeeInactive)
	_, err = l.EmployeeCalculations(ctx, employee.Id)
	assert.ErrorIs(t, err, data.ErrEmployeeInactive)
	page, err := l.EmployeesSearch(ctx, data.EmployeeSearch{Ids: []int64{employee.Id}})
	assert.Nil(t, err)
	assert.Empty(t, page.Data)
	page, err = l.EmployeesSearch(ctx, data.EmployeeSearch{
		Ids:          []int64{employee.Id},
		WithInactive: true,
	})
	assert.Nil(t, err)
	assert.Len(t, page.Data, 1)

	// inactive employees can still be updated (e.g. re-activated)
	updated, err := l.EmployeeUpdate(ctx, employee.Id, data.EmployeePartial{
		Status: intPtr(data.StatusActive),
	})
	assert.Nil(t, err)
	assert.True(t, updated.Active())

	// hard delete
	response, err = l.EmployeeDelete(ctx, employee.Id, true)
	assert.Nil(t, err)
	assert.Equal(t, &data.DeleteResponse{Deleted: true}, response)
	_, err = l.EmployeeRead(ctx, employee.Id)
	assert.ErrorIs(t, err, data.ErrEmployeeNotFound)
	_, err = l.EmployeeDelete(ctx, employee.Id, true)
	assert.ErrorIs(t, err, data.ErrEmployeeNotFound)
	_, err = l.EmployeeDelete(ctx, employee.Id, false)
	assert.ErrorIs(t, err, data.ErrEmployeeNotFound)
}

func (l *logicTest) TestEmployeeCalculations(t *testing.T) {
	ctx := context.TODO()

	p := validPartial()
	p.BaseSalary = decimalPtr("1200.10")
	p.Bonus = decimalPtr("150.20")
	p.Deduction = decimalPtr("75.05")
	p.Evaluation = decimalPtr("90")
	employee := l.create(t, p)

	calculations, err := l.EmployeeCalculations(ctx, employee.Id)
	if assert.Nil(t, err) {
		assert.Equal(t, employee.Id, calculations.Id)
		assert.Equal(t, "1350.3", calculations.GrossSalary.String())
		assert.Equal(t, "1275.25", calculations.NetSalary.String())
		assert.Equal(t, 34, calculations.Age)
		assert.Equal(t, 10, calculations.Tenure)
		if assert.NotNil(t, calculations.PerformanceRatio) {
			assert.Equal(t, 0.074994, *calculations.PerformanceRatio)
		}
	}
	_, err = l.EmployeeCalculations(ctx, 999999)
	assert.ErrorIs(t, err, data.ErrEmployeeNotFound)
}

func (l *logicTest) TestEmployeesSearch(t *testing.T) {
	ctx := context.TODO()

	var ids []int64
	for i := 0; i < 17; i++ {
		p := validPartial()
		p.Department = stringPtr("Paginacion")
		ids = append(ids, l.create(t, p).Id)
	}

	page, err := l.EmployeesSearch(ctx, data.EmployeeSearch{Department: "Paginacion"})
	assert.Nil(t, err)
	assert.Equal(t, 1, page.CurrentPage)
	assert.Equal(t, data.DefaultPerPage, page.PerPage)
	assert.Equal(t, int64(17), page.Total)
	assert.Equal(t, 2, page.LastPage)
	assert.Len(t, page.Data, 15)

	page, err = l.EmployeesSearch(ctx, data.EmployeeSearch{
		Department: "Paginacion",
		Page:       2,
	})
	assert.Nil(t, err)
	if assert.Len(t, page.Data, 2) {
		assert.Equal(t, ids[15], page.Data[0].Id)
		assert.Equal(t, ids[16], page.Data[1].Id)
	}

	page, err = l.EmployeesSearch(ctx, data.EmployeeSearch{
		Department: "Paginacion",
		PerPage:    5,
		Page:       4,
	})
	assert.Nil(t, err)
	assert.Equal(t, 4, page.LastPage)
	assert.Len(t, page.Data, 2)
}

func testLogic(t *testing.T, l *logicTest) {
	ctx := context.TODO()
	err := l.logic.Configure(envs)
	if !assert.Nil(t, err) {
		assert.FailNow(t, "unable to configure logic")
	}
	err = l.logic.Open(ctx)
	if !assert.Nil(t, err) {
		assert.FailNow(t, "unable to open logic")
	}
	defer func() {
		_ = l.logic.Close(ctx)
	}()
	t.Run("Employee Create", l.TestEmployeeCreate)
	t.Run("Business Rules", l.TestBusinessRules)
	t.Run("Employee Update", l.TestEmployeeUpdate)
	t.Run("Employee Update Empty", l.TestEmployeeUpdateEmpty)
	t.Run("Employee Evaluation", l.TestEmployeeEvaluation)
	t.Run("Employee Delete", l.TestEmployeeDelete)
	t.Run("Employee Calculations", l.TestEmployeeCalculations)
	t.Run("Employees Search", l.TestEmployeesSearch)
}

func TestLogic(t *testing.T) {
	testLogic(t, newLogicTest(sql.NewMemory(now)))
}

func TestLogicCache(t *testing.T) {
	testLogic(t, newLogicTest(sql.NewMemory(now), cache.NewMemory()))
}

func TestLogicCacheCounters(t *testing.T) {
	ctx := context.TODO()
	employeeCache := cache.NewMemory()
	l := newLogicTest(sql.NewMemory(now), employeeCache)
	assert.Nil(t, l.logic.Configure(map[string]string{"LOGIC_CACHE_ENABLED": "true"}))
	assert.Nil(t, l.logic.Open(ctx))

	employee := l.create(t, validPartial())
	_, err := l.EmployeeRead(ctx, employee.Id)
	assert.Nil(t, err)
	_, err = l.EmployeeRead(ctx, employee.Id)
	assert.Nil(t, err)
	hit, miss := l.counter.Read("employee_read")
	assert.Equal(t, 1, hit)
	assert.Equal(t, 1, miss)

	// updates evict the cached employee
	_, err = l.EmployeeUpdate(ctx, employee.Id, data.EmployeePartial{Name: stringPtr("Ana B")})
	assert.Nil(t, err)
	_, err = employeeCache.EmployeeRead(ctx, employee.Id)
	assert.ErrorIs(t, err, cache.ErrEmployeeNotCached)
	employeeRead, err := l.EmployeeRead(ctx, employee.Id)
	assert.Nil(t, err)
	assert.Equal(t, "Ana B", employeeRead.Name)
	_, miss = l.counter.Read("employee_read")
	assert.Equal(t, 2, miss)

	// deactivation evicts too
	_, err = l.EmployeeDelete(ctx, employee.Id, false)
	assert.Nil(t, err)
	_, err = l.EmployeeRead(ctx, employee.Id)
	assert.ErrorIs(t, err, data.ErrEmployeeInactive)
}

func TestLogicIntegrity(t *testing.T) {
	ctx := context.TODO()
	phone := "7000-0001"
	store := sql.NewMemory(now, &data.Employee{
		Id:         1,
		Name:       "Importado",
		Department: "Ventas",
		JobTitle:   "Analista",
		Phone:      &phone,
		BaseSalary: decimal.RequireFromString("500"),
		Bonus:      decimal.RequireFromString("0"),
		Deduction:  decimal.RequireFromString("600"),
		HireDate:   data.NewDate(2020, time.January, 1),
		BirthDate:  data.NewDate(1990, time.January, 1),
		Sex:        data.SexMale,
		Status:     data.StatusActive,
	})
	l := newLogicTest(store)
	assert.Nil(t, l.logic.Configure(map[string]string{}))
	assert.Nil(t, l.logic.Open(ctx))

	_, err := l.EmployeeCalculations(ctx, 1)
	integrityErr := &data.IntegrityError{}
	if assert.ErrorAs(t, err, &integrityErr) {
		assert.Equal(t, int64(1), integrityErr.EmployeeId)
	}

	// the record can still be read and fixed
	_, err = l.EmployeeRead(ctx, 1)
	assert.Nil(t, err)
	_, err = l.EmployeeUpdate(ctx, 1, data.EmployeePartial{Deduction: decimalPtr("500")})
	assert.Nil(t, err)
	_, err = l.EmployeeCalculations(ctx, 1)
	assert.Nil(t, err)
}

func TestLogicStatistics(t *testing.T) {
	ctx := context.TODO()
	l := newLogicTest(sql.NewMemory(now))
	assert.Nil(t, l.logic.Configure(map[string]string{}))
	assert.Nil(t, l.logic.Open(ctx))

	statistics, err := l.StatisticsRead(ctx)
	assert.Nil(t, err)
	assert.Zero(t, statistics.ActiveEmployees)
	assert.Nil(t, statistics.SalaryPerformanceCorrelation.Coefficient)

	for _, p := range []struct {
		department string
		salary     string
		evaluation string
	}{
		{"Ventas", "1000", "60"},
		{"Ventas", "2000", "80"},
		{"TI", "3000", "100"},
	} {
		partial := validPartial()
		partial.Department = stringPtr(p.department)
		partial.BaseSalary = decimalPtr(p.salary)
		partial.Evaluation = decimalPtr(p.evaluation)
		l.create(t, partial)
	}
	inactive := l.create(t, validPartial())
	_, err = l.EmployeeDelete(ctx, inactive.Id, false)
	assert.Nil(t, err)

	statistics, err = l.StatisticsRead(ctx)
	assert.Nil(t, err)
	assert.Equal(t, 3, statistics.ActiveEmployees)
	assert.Equal(t, now().Unix(), statistics.GeneratedAt)
	assert.Equal(t, []data.DepartmentAverage{
		{Department: "TI", Average: 3000},
		{Department: "Ventas", Average: 1500},
	}, statistics.AverageSalaryByDepartment)
	assert.Equal(t, 2000.0, statistics.AverageBaseSalary)
	if assert.NotNil(t, statistics.SalaryPerformanceCorrelation.Coefficient) {
		assert.Equal(t, 1.0, *statistics.SalaryPerformanceCorrelation.Coefficient)
	}
	assert.Equal(t, 3, statistics.SalaryPerformanceCorrelation.SampleSize)
}

func TestLogicMutateDisabled(t *testing.T) {
	ctx := context.TODO()
	l := newLogicTest(sql.NewMemory(now))
	assert.Nil(t, l.logic.Configure(map[string]string{"MUTATE_DISABLED": "true"}))
	assert.Nil(t, l.logic.Open(ctx))

	_, err := l.EmployeeCreate(ctx, validPartial())
	assert.ErrorIs(t, err, data.ErrMutationDisabled)
	_, err = l.EmployeeUpdate(ctx, 1, validPartial())
	assert.ErrorIs(t, err, data.ErrMutationDisabled)
	_, err = l.EmployeeDelete(ctx, 1, true)
	assert.ErrorIs(t, err, data.ErrMutationDisabled)
	page, err := l.EmployeesSearch(ctx, data.EmployeeSearch{})
	assert.Nil(t, err)
	assert.Empty(t, page.Data)
}

func TestLogicEvents(t *testing.T) {
	ctx := context.TODO()
	l := newLogicTest(sql.NewMemory(now))
	assert.Nil(t, l.logic.Configure(map[string]string{}))
	assert.Nil(t, l.logic.Open(ctx))

	employee := l.create(t, validPartial())
	_, err := l.EmployeeUpdate(ctx, employee.Id, data.EmployeePartial{Name: stringPtr("Ana C")})
	assert.Nil(t, err)
	_, err = l.EmployeeDelete(ctx, employee.Id, false)
	assert.Nil(t, err)
	_, err = l.EmployeeDelete(ctx, employee.Id, true)
	assert.Nil(t, err)
	assert.Equal(t, []data.EventType{
		data.EventEmployeeCreated,
		data.EventEmployeeUpdated,
		data.EventEmployeeDeactivated,
		data.EventEmployeeDeleted,
	}, l.publisher.types())

	// publish failures don't fail the mutation
	l.publisher.err = errors.New("broker unavailable")
	_, err = l.EmployeeCreate(ctx, validPartial())
	assert.Nil(t, err)
}
