package logic

import (
	"context"
	"strconv"
	"sync"
	"time"

	"github.com/antonio-alexander/go-employee-stats/internal"
	"github.com/antonio-alexander/go-employee-stats/internal/cache"
	"github.com/antonio-alexander/go-employee-stats/internal/data"
	"github.com/antonio-alexander/go-employee-stats/internal/events"
	"github.com/antonio-alexander/go-employee-stats/internal/sql"
	"github.com/antonio-alexander/go-employee-stats/internal/statistics"
	"github.com/antonio-alexander/go-employee-stats/internal/utilities"

	"github.com/go-playground/validator/v10"
	"github.com/pkg/errors"
)

const (
	counterEmployeeRead         string = "employee_read"
	counterEmployeeCalculations string = "employee_calculations"
)

type Logic interface {
	EmployeeCreate(ctx context.Context, employeePartial data.EmployeePartial) (*data.Employee, error)
	EmployeeRead(ctx context.Context, id int64) (*data.Employee, error)
	EmployeesSearch(ctx context.Context, search data.EmployeeSearch) (*data.EmployeePage, error)
	EmployeeUpdate(ctx context.Context, id int64, employeePartial data.EmployeePartial) (*data.Employee, error)
	EmployeeDelete(ctx context.Context, id int64, force bool) (*data.DeleteResponse, error)
	EmployeeCalculations(ctx context.Context, id int64) (*data.EmployeeCalculations, error)
	StatisticsRead(ctx context.Context) (*data.Statistics, error)
}

type logic struct {
	sync.RWMutex
	sql.Sql
	cache      cache.Cache
	publisher  events.Publisher
	statistics statistics.Engine
	validate   *validator.Validate
	now        func() time.Time
	config     struct {
		cacheEnabled   bool
		mutateDisabled bool
	}
	utilities.Counter
	utilities.Logger
}

// NewLogic wires the store with the optional cache, publisher and
// statistics engine; the store is required
func NewLogic(parameters ...any) interface {
	internal.Configurer
	internal.Opener
	Logic
} {
	l := &logic{
		validate: newValidator(),
		now:      time.Now,
	}
	for _, parameter := range parameters {
		switch v := parameter.(type) {
		case sql.Sql:
			l.Sql = v
		case cache.Cache:
			l.cache = v
		case events.Publisher:
			l.publisher = v
		case statistics.Engine:
			l.statistics = v
		case utilities.Counter:
			l.Counter = v
		case func() time.Time:
			l.now = v
		case utilities.Logger:
			l.Logger = v
		}
	}
	if l.statistics == nil {
		l.statistics = statistics.NewEngine()
	}
	if l.Counter == nil {
		l.Counter = utilities.NewCounter()
	}
	if l.Logger == nil {
		l.Logger = utilities.NewLogger()
	}
	return l
}

func (l *logic) Configure(envs map[string]string) error {
	l.Lock()
	defer l.Unlock()

	if cacheEnabled, ok := envs["LOGIC_CACHE_ENABLED"]; ok {
		l.config.cacheEnabled, _ = strconv.ParseBool(cacheEnabled)
	}
	if mutateDisabled, ok := envs["MUTATE_DISABLED"]; ok {
		l.config.mutateDisabled, _ = strconv.ParseBool(mutateDisabled)
	}
	return nil
}

func (l *logic) Open(ctx context.Context) error {
	l.Lock()
	defer l.Unlock()

	if l.Sql == nil {
		return errors.New("no store provided")
	}
	if l.config.cacheEnabled && l.cache == nil {
		l.Info(ctx, "cache enabled but no cache provided, caching disabled")
		l.config.cacheEnabled = false
	}
	if l.config.cacheEnabled {
		l.Info(ctx, "cache enabled")
	}
	if l.config.mutateDisabled {
		l.Info(ctx, "mutations disabled")
	}
	return nil
}

func (l *logic) Close(ctx context.Context) error {
	return nil
}

func (l *logic) cacheEnabled() bool {
	l.RLock()
	defer l.RUnlock()
	return l.config.cacheEnabled
}

func (l *logic) mutateDisabled() bool {
	l.RLock()
	defer l.RUnlock()
	return l.config.mutateDisabled
}

func (l *logic) cacheDelete(ctx context.Context, id int64) {
	if !l.cacheEnabled() {
		return
	}
	if err := l.cache.EmployeesDelete(ctx, id); err != nil {
		l.Error(ctx, "error while deleting employee (%d) from cache: %s", id, err)
	}
}

func (l *logic) publish(ctx context.Context, eventType data.EventType, id int64, employee *data.Employee) {
	if l.publisher == nil {
		return
	}
	event := events.NewEmployeeEvent(ctx, eventType, id, employee)
	if err := l.publisher.Publish(ctx, event); err != nil {
		l.Error(ctx, "error while publishing %s for employee (%d): %s",
			eventType, id, err)
	}
}

// asOf stamps the employees with the logic clock so their derived
// attributes are serialized against it
func (l *logic) asOf(employees ...*data.Employee) {
	now := l.now()
	for _, employee := range employees {
		employee.AsOf(now)
	}
}

// employeeRead reads an employee regardless of its status, going
// through the cache when enabled
func (l *logic) employeeRead(ctx context.Context, id int64, counterKey string) (*data.Employee, error) {
	if l.cacheEnabled() {
		employee, err := l.cache.EmployeeRead(ctx, id)
		if err == nil {
			l.IncrementHit(counterKey)
			return employee, nil
		}
		l.IncrementMiss(counterKey)
		if !errors.Is(err, cache.ErrEmployeeNotCached) {
			l.Error(ctx, "error while reading employee (%d) from cache: %s", id, err)
		}
	}
	employee, err := l.Sql.EmployeeRead(ctx, id)
	if err != nil {
		return nil, err
	}
	if l.cacheEnabled() {
		if err := l.cache.EmployeesWrite(ctx, employee); err != nil {
			l.Error(ctx, "error while writing employee (%d) to cache: %s", id, err)
		}
	}
	return employee, nil
}

func (l *logic) EmployeeCreate(ctx context.Context, employeePartial data.EmployeePartial) (*data.Employee, error) {
	if l.mutateDisabled() {
		return nil, data.ErrMutationDisabled
	}
	if err := validatePartial(l.validate, employeePartial, true); err != nil {
		return nil, err
	}
	if err := validateContacts(ctx, l.Sql, employeePartial, 0); err != nil {
		return nil, err
	}
	employee := &data.Employee{Status: data.StatusActive}
	if err := employee.Apply(employeePartial); err != nil {
		return nil, errors.Wrap(data.ErrMalformedRequest, err.Error())
	}
	if err := validateBusinessRules(employee, l.now()); err != nil {
		return nil, err
	}
	employee, err := l.Sql.EmployeeCreate(ctx, employeePartial)
	if err != nil {
		return nil, err
	}
	l.asOf(employee)
	l.Debug(ctx, "employee (%d) created", employee.Id)
	l.publish(ctx, data.EventEmployeeCreated, employee.Id, employee)
	return employee, nil
}

func (l *logic) EmployeeRead(ctx context.Context, id int64) (*data.Employee, error) {
	employee, err := l.employeeRead(ctx, id, counterEmployeeRead)
	if err != nil {
		return nil, err
	}
	if !employee.Active() {
		return nil, data.ErrEmployeeInactive
	}
	l.asOf(employee)
	return employee, nil
}

func (l *logic) EmployeesSearch(ctx context.Context, search data.EmployeeSearch) (*data.EmployeePage, error) {
	if search.Page < 1 {
		search.Page = 1
	}
	if search.PerPage <= 0 {
		search.PerPage = data.DefaultPerPage
	}
	employees, total, err := l.Sql.EmployeesSearch(ctx, search)
	if err != nil {
		return nil, err
	}
	l.asOf(employees...)
	return data.NewEmployeePage(employees, search, total), nil
}

func (l *logic) EmployeeUpdate(ctx context.Context, id int64, employeePartial data.EmployeePartial) (*data.Employee, error) {
	if l.mutateDisabled() {
		return nil, data.ErrMutationDisabled
	}
	if err := validatePartial(l.validate, employeePartial, false); err != nil {
		return nil, err
	}
	stored, err := l.Sql.EmployeeRead(ctx, id)
	if err != nil {
		return nil, err
	}
	if employeePartial.Empty() {
		l.asOf(stored)
		return stored, nil
	}
	if err := validateContacts(ctx, l.Sql, employeePartial, id); err != nil {
		return nil, err
	}
	merged := data.CopyEmployee(stored)
	if err := merged.Apply(employeePartial); err != nil {
		return nil, errors.Wrap(data.ErrMalformedRequest, err.Error())
	}
	if err := validateBusinessRules(merged, l.now()); err != nil {
		return nil, err
	}
	employee, err := l.Sql.EmployeeUpdate(ctx, id, employeePartial)
	if err != nil {
		return nil, err
	}
	l.asOf(employee)
	l.cacheDelete(ctx, id)
	l.Debug(ctx, "employee (%d) updated", id)
	switch {
	default:
		l.publish(ctx, data.EventEmployeeUpdated, id, employee)
	case stored.Active() && !employee.Active():
		l.publish(ctx, data.EventEmployeeDeactivated, id, employee)
	}
	return employee, nil
}

func (l *logic) EmployeeDelete(ctx context.Context, id int64, force bool) (*data.DeleteResponse, error) {
	if l.mutateDisabled() {
		return nil, data.ErrMutationDisabled
	}
	if force {
		if err := l.Sql.EmployeeDelete(ctx, id); err != nil {
			return nil, err
		}
		l.cacheDelete(ctx, id)
		l.Debug(ctx, "employee (%d) deleted", id)
		l.publish(ctx, data.EventEmployeeDeleted, id, nil)
		return &data.DeleteResponse{Deleted: true}, nil
	}
	inactive := data.StatusInactive
	employee, err := l.Sql.EmployeeUpdate(ctx, id, data.EmployeePartial{Status: &inactive})
	if err != nil {
		return nil, err
	}
	l.cacheDelete(ctx, id)
	l.Debug(ctx, "employee (%d) deactivated", id)
	l.publish(ctx, data.EventEmployeeDeactivated, id, employee)
	return &data.DeleteResponse{SoftDeleted: true}, nil
}

func (l *logic) EmployeeCalculations(ctx context.Context, id int64) (*data.EmployeeCalculations, error) {
	employee, err := l.employeeRead(ctx, id, counterEmployeeCalculations)
	if err != nil {
		return nil, err
	}
	if !employee.Active() {
		return nil, data.ErrEmployeeInactive
	}
	return data.NewEmployeeCalculations(employee, l.now())
}

func (l *logic) StatisticsRead(ctx context.Context) (*data.Statistics, error) {
	employees, _, err := l.Sql.EmployeesSearch(ctx, data.EmployeeSearch{})
	if err != nil {
		return nil, err
	}
	statistics := l.statistics.Compute(employees, l.now())
	l.Debug(ctx, "statistics computed over %d active employees",
		statistics.ActiveEmployees)
	return statistics, nil
}
