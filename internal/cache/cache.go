package cache

import (
	"context"
	"errors"

	"github.com/antonio-alexander/go-employee-stats/internal/data"
)

var ErrEmployeeNotCached = errors.New("employee not cached")

// Cache holds single employee records keyed by id, searches and
// statistics are always read from the store
type Cache interface {
	EmployeeRead(ctx context.Context, id int64) (*data.Employee, error)
	EmployeesWrite(ctx context.Context, employees ...*data.Employee) error
	EmployeesDelete(ctx context.Context, ids ...int64) error
}
