package cache

import (
	"context"
	"strconv"
	"sync"
	"time"

	"github.com/antonio-alexander/go-employee-stats/internal"
	"github.com/antonio-alexander/go-employee-stats/internal/data"
	"github.com/antonio-alexander/go-employee-stats/internal/utilities"
)

type cachedEmployee struct {
	employee *data.Employee
	expires  int64 //unix nano, zero never expires
}

type memoryCache struct {
	sync.RWMutex
	sync.WaitGroup
	employees map[int64]*cachedEmployee
	config    struct {
		ttl           time.Duration
		pruneInterval time.Duration
	}
	ctx       context.Context
	ctxCancel context.CancelFunc
	utilities.Logger
}

func NewMemory(parameters ...any) interface {
	internal.Configurer
	internal.Opener
	internal.Clearer
	Cache
} {
	c := &memoryCache{
		employees: make(map[int64]*cachedEmployee),
		Logger:    utilities.NewLogger(),
	}
	c.config.pruneInterval = 10 * time.Second
	for _, parameter := range parameters {
		switch p := parameter.(type) {
		case utilities.Logger:
			c.Logger = p
		}
	}
	return c
}

func (c *memoryCache) launchPrune() {
	ctx := c.ctx
	started := make(chan struct{})
	c.Add(1)
	go func() {
		defer c.Done()

		pruneFx := func() {
			c.Lock()
			defer c.Unlock()

			tNow := time.Now().UnixNano()
			for id, cached := range c.employees {
				if cached.expires > 0 && cached.expires < tNow {
					delete(c.employees, id)
				}
			}
		}
		tPrune := time.NewTicker(c.config.pruneInterval)
		defer tPrune.Stop()
		close(started)
		for {
			select {
			case <-ctx.Done():
				return
			case <-tPrune.C:
				pruneFx()
			}
		}
	}()
	<-started
}

func (c *memoryCache) Configure(envs map[string]string) error {
	c.Lock()
	defer c.Unlock()

	if s, ok := envs["CACHE_PRUNE_INTERVAL"]; ok {
		pruneInterval, _ := strconv.Atoi(s)
		c.config.pruneInterval = time.Second * time.Duration(pruneInterval)
	}
	if c.config.pruneInterval <= 0 {
		c.config.pruneInterval = 10 * time.Second
	}
	if s, ok := envs["CACHE_TTL"]; ok {
		ttl, _ := strconv.Atoi(s)
		c.config.ttl = time.Second * time.Duration(ttl)
	}
	return nil
}

func (c *memoryCache) Open(ctx context.Context) error {
	c.Lock()
	defer c.Unlock()

	if c.ctx != nil {
		return nil
	}
	c.employees = make(map[int64]*cachedEmployee)
	c.ctx, c.ctxCancel = context.WithCancel(context.Background())
	if c.config.ttl > 0 {
		c.launchPrune()
	}
	return nil
}

func (c *memoryCache) Close(ctx context.Context) error {
	c.Lock()
	if c.ctxCancel != nil {
		c.ctxCancel()
	}
	c.ctx, c.ctxCancel = nil, nil
	c.Unlock()
	c.Wait()
	return nil
}

func (c *memoryCache) Clear(ctx context.Context) error {
	c.Lock()
	defer c.Unlock()

	c.employees = make(map[int64]*cachedEmployee)
	c.Trace(ctx, "memory cache cleared")
	return nil
}

func (c *memoryCache) EmployeeRead(ctx context.Context, id int64) (*data.Employee, error) {
	c.RLock()
	defer c.RUnlock()

	cached, ok := c.employees[id]
	if !ok || (cached.expires > 0 && cached.expires < time.Now().UnixNano()) {
		return nil, ErrEmployeeNotCached
	}
	return data.CopyEmployee(cached.employee), nil
}

func (c *memoryCache) EmployeesWrite(ctx context.Context, employees ...*data.Employee) error {
	c.Lock()
	defer c.Unlock()

	var expires int64
	if c.config.ttl > 0 {
		expires = time.Now().Add(c.config.ttl).UnixNano()
	}
	for _, employee := range employees {
		c.employees[employee.Id] = &cachedEmployee{
			employee: data.CopyEmployee(employee),
			expires:  expires,
		}
	}
	return nil
}

func (c *memoryCache) EmployeesDelete(ctx context.Context, ids ...int64) error {
	c.Lock()
	defer c.Unlock()

	for _, id := range ids {
		delete(c.employees, id)
	}
	return nil
}
