package sql

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/antonio-alexander/go-employee-stats/internal"
	"github.com/antonio-alexander/go-employee-stats/internal/data"

	"github.com/pkg/errors"
	"github.com/shopspring/decimal"
)

type memory struct {
	sync.RWMutex
	employees map[int64]*data.Employee
	lastId    int64
	now       func() time.Time
}

// NewMemory creates an in-process store with the same semantics as the
// mysql store (defaults, unique contact fields, ordering by id), any
// *data.Employee provided as a parameter is seeded as is
func NewMemory(parameters ...any) interface {
	internal.Configurer
	internal.Opener
	internal.Clearer
	Sql
} {
	m := &memory{
		employees: make(map[int64]*data.Employee),
		now:       time.Now,
	}
	for _, parameter := range parameters {
		switch v := parameter.(type) {
		case func() time.Time:
			m.now = v
		case *data.Employee:
			m.seed(v)
		case []*data.Employee:
			for _, employee := range v {
				m.seed(employee)
			}
		}
	}
	return m
}

func (m *memory) seed(employee *data.Employee) {
	employee = data.CopyEmployee(employee)
	if employee.Id <= 0 {
		employee.Id = m.lastId + 1
	}
	if employee.Id > m.lastId {
		m.lastId = employee.Id
	}
	m.employees[employee.Id] = employee
}

func (m *memory) Configure(envs map[string]string) error {
	return nil
}

func (m *memory) Open(ctx context.Context) error {
	return nil
}

func (m *memory) Close(ctx context.Context) error {
	return nil
}

func (m *memory) Clear(ctx context.Context) error {
	m.Lock()
	defer m.Unlock()

	m.employees = make(map[int64]*data.Employee)
	m.lastId = 0
	return nil
}

// contactTaken must be called while holding the lock
func (m *memory) contactTaken(p data.EmployeePartial, excludeId int64) error {
	validationErr := &data.ValidationError{}
	for field, value := range map[string]*string{
		"dui":      p.NationalId,
		"telefono": p.Phone,
		"correo":   p.Email,
	} {
		if value == nil || *value == "" {
			continue
		}
		if m.contactExists(field, *value, excludeId) {
			validationErr.Add(field, data.ReasonAlreadyTaken)
		}
	}
	if validationErr.HasIssues() {
		return validationErr
	}
	return nil
}

func (m *memory) contactExists(field, value string, excludeId int64) bool {
	for id, employee := range m.employees {
		if id == excludeId {
			continue
		}
		var stored *string
		switch field {
		case "dui":
			stored = employee.NationalId
		case "telefono":
			stored = employee.Phone
		case "correo":
			stored = employee.Email
		}
		if stored != nil && *stored == value {
			return true
		}
	}
	return false
}

func (m *memory) EmployeeCreate(ctx context.Context, employeePartial data.EmployeePartial) (*data.Employee, error) {
	m.Lock()
	defer m.Unlock()

	if err := m.contactTaken(employeePartial, 0); err != nil {
		return nil, err
	}
	now := m.now().Unix()
	employee := &data.Employee{
		BaseSalary: decimal.Zero,
		Bonus:      decimal.Zero,
		Deduction:  decimal.Zero,
		Status:     data.StatusActive,
		CreatedAt:  now,
		UpdatedAt:  now,
	}
	if err := employee.Apply(employeePartial); err != nil {
		return nil, err
	}
	normalize(employee)
	m.lastId++
	employee.Id = m.lastId
	m.employees[employee.Id] = employee
	return data.CopyEmployee(employee), nil
}

func (m *memory) EmployeeRead(ctx context.Context, id int64) (*data.Employee, error) {
	m.RLock()
	defer m.RUnlock()

	employee, found := m.employees[id]
	if !found {
		return nil, data.ErrEmployeeNotFound
	}
	return data.CopyEmployee(employee), nil
}

func (m *memory) EmployeesSearch(ctx context.Context, search data.EmployeeSearch) ([]*data.Employee, int64, error) {
	m.RLock()
	defer m.RUnlock()

	var matches []*data.Employee
	ids := make(map[int64]struct{}, len(search.Ids))
	for _, id := range search.Ids {
		ids[id] = struct{}{}
	}
	for id, employee := range m.employees {
		if _, found := ids[id]; len(ids) > 0 && !found {
			continue
		}
		if !search.WithInactive && !employee.Active() {
			continue
		}
		if search.Department != "" && employee.Department != search.Department {
			continue
		}
		if search.Sex != "" && employee.Sex != search.Sex {
			continue
		}
		matches = append(matches, employee)
	}
	sort.Slice(matches, func(i, j int) bool {
		return matches[i].Id < matches[j].Id
	})
	total := int64(len(matches))
	if search.PerPage > 0 {
		offset := search.Offset()
		if offset > len(matches) {
			offset = len(matches)
		}
		end := offset + search.PerPage
		if end > len(matches) {
			end = len(matches)
		}
		matches = matches[offset:end]
	}
	employees := make([]*data.Employee, 0, len(matches))
	for _, employee := range matches {
		employees = append(employees, data.CopyEmployee(employee))
	}
	return employees, total, nil
}

func (m *memory) EmployeeUpdate(ctx context.Context, id int64, employeePartial data.EmployeePartial) (*data.Employee, error) {
	m.Lock()
	defer m.Unlock()

	stored, found := m.employees[id]
	if !found {
		return nil, data.ErrEmployeeNotFound
	}
	if err := m.contactTaken(employeePartial, id); err != nil {
		return nil, err
	}
	employee := data.CopyEmployee(stored)
	if err := employee.Apply(employeePartial); err != nil {
		return nil, errors.Wrap(err, "unable to apply update")
	}
	normalize(employee)
	employee.UpdatedAt = m.now().Unix()
	m.employees[id] = employee
	return data.CopyEmployee(employee), nil
}

func (m *memory) EmployeeDelete(ctx context.Context, id int64) error {
	m.Lock()
	defer m.Unlock()

	if _, found := m.employees[id]; !found {
		return data.ErrEmployeeNotFound
	}
	delete(m.employees, id)
	return nil
}

func (m *memory) ContactExists(ctx context.Context, field, value string, excludeId int64) (bool, error) {
	m.RLock()
	defer m.RUnlock()

	if _, ok := contactColumns[field]; !ok {
		return false, errors.Errorf("unsupported contact field: %s", field)
	}
	return m.contactExists(field, value, excludeId), nil
}

// normalize mirrors what the mysql columns do to a written value: money
// is kept at two decimals and empty optional strings become NULL
func normalize(employee *data.Employee) {
	employee.BaseSalary = employee.BaseSalary.Round(2)
	employee.Bonus = employee.Bonus.Round(2)
	employee.Deduction = employee.Deduction.Round(2)
	if employee.Evaluation != nil {
		evaluation := employee.Evaluation.Round(2)
		employee.Evaluation = &evaluation
	}
}
