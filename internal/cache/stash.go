package cache

import (
	"context"
	"strconv"

	"github.com/antonio-alexander/go-employee-stats/internal"
	"github.com/antonio-alexander/go-employee-stats/internal/data"
	"github.com/antonio-alexander/go-employee-stats/internal/utilities"

	"github.com/antonio-alexander/go-stash"
)

type stashCache struct {
	utilities.Logger
	stash interface {
		stash.Configurer
		stash.Parameterizer
		stash.Initializer
		stash.Shutdowner
	}
	stash.Stasher
}

// NewStash adapts a go-stash implementation (memory or redis) to the
// employee cache, the stash must be provided as a parameter
func NewStash(parameters ...any) interface {
	internal.Configurer
	internal.Opener
	internal.Clearer
	Cache
} {
	c := &stashCache{Logger: utilities.NewLogger()}
	for _, p := range parameters {
		switch p := p.(type) {
		case utilities.Logger:
			c.Logger = p
		case interface {
			stash.Configurer
			stash.Parameterizer
			stash.Initializer
			stash.Shutdowner
			stash.Stasher
		}:
			c.stash = p
			c.Stasher = p
		}
	}
	if c.stash != nil {
		c.stash.SetParameters(parameters...)
	}
	return c
}

func (c *stashCache) Configure(envs map[string]string) error {
	if c.stash != nil {
		if err := c.stash.Configure(envs); err != nil {
			return err
		}
	}
	return nil
}

func (c *stashCache) Open(ctx context.Context) error {
	if c.stash != nil {
		return c.stash.Initialize()
	}
	return nil
}

func (c *stashCache) Close(ctx context.Context) error {
	if c.stash != nil {
		return c.stash.Shutdown()
	}
	return nil
}

func (c *stashCache) Clear(ctx context.Context) error {
	return c.Stasher.Clear()
}

func (c *stashCache) EmployeeRead(ctx context.Context, id int64) (*data.Employee, error) {
	employee := &data.Employee{}
	if err := c.Stasher.Read(strconv.FormatInt(id, 10), employee); err != nil {
		c.Trace(ctx, "cache miss for employee (%d): %s", id, err)
		return nil, ErrEmployeeNotCached
	}
	c.Trace(ctx, "cache hit for employee: %d", id)
	return employee, nil
}

func (c *stashCache) EmployeesWrite(ctx context.Context, employees ...*data.Employee) error {
	for _, employee := range employees {
		if _, err := c.Stasher.Write(strconv.FormatInt(employee.Id, 10), employee); err != nil {
			c.Error(ctx, "error while writing employee (%d): %s", employee.Id, err)
			return err
		}
		c.Trace(ctx, "cached employee: %d", employee.Id)
	}
	return nil
}

func (c *stashCache) EmployeesDelete(ctx context.Context, ids ...int64) error {
	for _, id := range ids {
		if err := c.Stasher.Delete(strconv.FormatInt(id, 10)); err != nil {
			//deleting something that isn't cached isn't an error
			c.Trace(ctx, "unable to evict employee (%d): %s", id, err)
			continue
		}
		c.Trace(ctx, "evicted cached employee: %d", id)
	}
	return nil
}
