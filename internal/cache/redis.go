package cache

import (
	"context"
	"errors"
	"fmt"
	"net"
	"strconv"
	"sync"
	"time"

	"github.com/antonio-alexander/go-employee-stats/internal"
	"github.com/antonio-alexander/go-employee-stats/internal/data"
	"github.com/antonio-alexander/go-employee-stats/internal/utilities"

	"github.com/cenkalti/backoff/v5"
	"github.com/redis/go-redis/v9"
)

const keyPrefixEmployee string = "empleado:"

type redisCache struct {
	sync.RWMutex
	redisClient *redis.Client
	config      struct {
		address        string
		port           string
		password       string
		database       int
		timeout        time.Duration
		ttl            time.Duration
		connectRetries uint
	}
	utilities.Logger
}

func NewRedis(parameters ...any) interface {
	internal.Configurer
	internal.Opener
	internal.Clearer
	Cache
} {
	c := &redisCache{Logger: utilities.NewLogger()}
	c.config.address = "localhost"
	c.config.port = "6379"
	c.config.timeout = 10 * time.Second
	c.config.connectRetries = 5
	for _, parameter := range parameters {
		switch p := parameter.(type) {
		case utilities.Logger:
			c.Logger = p
		}
	}
	return c
}

func employeeKey(id int64) string {
	return keyPrefixEmployee + strconv.FormatInt(id, 10)
}

func (c *redisCache) Configure(envs map[string]string) error {
	c.Lock()
	defer c.Unlock()

	if redisAddress, ok := envs["REDIS_ADDRESS"]; ok && redisAddress != "" {
		c.config.address = redisAddress
	}
	if redisPort, ok := envs["REDIS_PORT"]; ok && redisPort != "" {
		c.config.port = redisPort
	}
	if redisPassword, ok := envs["REDIS_PASSWORD"]; ok {
		c.config.password = redisPassword
	}
	if redisDatabase, ok := envs["REDIS_DATABASE"]; ok {
		i, err := strconv.ParseInt(redisDatabase, 10, 64)
		if err != nil {
			return fmt.Errorf("REDIS_DATABASE: %w", err)
		}
		c.config.database = int(i)
	}
	if redisTimeout, ok := envs["REDIS_TIMEOUT"]; ok {
		i, _ := strconv.ParseInt(redisTimeout, 10, 64)
		c.config.timeout = time.Duration(i) * time.Second
	}
	if c.config.timeout <= 0 {
		c.config.timeout = 10 * time.Second
	}
	if s, ok := envs["REDIS_CONNECT_RETRIES"]; ok {
		i, _ := strconv.ParseUint(s, 10, 32)
		c.config.connectRetries = uint(i)
	}
	if s, ok := envs["CACHE_TTL"]; ok {
		ttl, _ := strconv.Atoi(s)
		c.config.ttl = time.Second * time.Duration(ttl)
	}
	return nil
}

func (c *redisCache) Open(ctx context.Context) error {
	c.Lock()
	defer c.Unlock()

	if c.redisClient != nil {
		return nil
	}
	redisClient := redis.NewClient(&redis.Options{
		Addr:     net.JoinHostPort(c.config.address, c.config.port),
		Password: c.config.password,
		DB:       c.config.database,
	})
	if _, err := backoff.Retry(ctx, func() (string, error) {
		result, err := redisClient.Ping(ctx).Result()
		if err != nil {
			c.Debug(ctx, "unable to ping redis (%s:%s): %s",
				c.config.address, c.config.port, err)
		}
		return result, err
	}, backoff.WithBackOff(backoff.NewExponentialBackOff()),
		backoff.WithMaxTries(c.config.connectRetries+1)); err != nil {
		_ = redisClient.Close()
		return fmt.Errorf("unable to connect to redis: %w", err)
	}
	c.redisClient = redisClient
	return nil
}

func (c *redisCache) Close(ctx context.Context) error {
	c.Lock()
	defer c.Unlock()

	if c.redisClient == nil {
		return nil
	}
	if err := c.redisClient.Close(); err != nil {
		c.Error(ctx, "error while shutting down redis client: %s", err)
	}
	c.redisClient = nil
	return nil
}

func (c *redisCache) Clear(ctx context.Context) error {
	c.RLock()
	defer c.RUnlock()

	var keys []string

	ctx, cancel := context.WithTimeout(ctx, c.config.timeout)
	defer cancel()
	iter := c.redisClient.Scan(ctx, 0, keyPrefixEmployee+"*", 0).Iterator()
	for iter.Next(ctx) {
		keys = append(keys, iter.Val())
	}
	if err := iter.Err(); err != nil {
		return err
	}
	if len(keys) == 0 {
		return nil
	}
	if _, err := c.redisClient.Del(ctx, keys...).Result(); err != nil {
		return err
	}
	c.Trace(ctx, "redis cache cleared (%d keys)", len(keys))
	return nil
}

func (c *redisCache) EmployeeRead(ctx context.Context, id int64) (*data.Employee, error) {
	c.RLock()
	defer c.RUnlock()

	ctx, cancel := context.WithTimeout(ctx, c.config.timeout)
	defer cancel()
	value, err := c.redisClient.Get(ctx, employeeKey(id)).Result()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, ErrEmployeeNotCached
		}
		return nil, err
	}
	employee := &data.Employee{}
	if err := employee.UnmarshalBinary([]byte(value)); err != nil {
		return nil, err
	}
	return employee, nil
}

func (c *redisCache) EmployeesWrite(ctx context.Context, employees ...*data.Employee) error {
	c.RLock()
	defer c.RUnlock()

	ctx, cancel := context.WithTimeout(ctx, c.config.timeout)
	defer cancel()
	for _, employee := range employees {
		bytes, err := employee.MarshalBinary()
		if err != nil {
			return err
		}
		if _, err := c.redisClient.Set(ctx, employeeKey(employee.Id),
			string(bytes), c.config.ttl).Result(); err != nil {
			return err
		}
	}
	return nil
}

func (c *redisCache) EmployeesDelete(ctx context.Context, ids ...int64) error {
	c.RLock()
	defer c.RUnlock()

	var keys []string

	if len(ids) <= 0 {
		return nil
	}
	for _, id := range ids {
		keys = append(keys, employeeKey(id))
	}
	ctx, cancel := context.WithTimeout(ctx, c.config.timeout)
	defer cancel()
	if _, err := c.redisClient.Del(ctx, keys...).Result(); err != nil {
		return err
	}
	return nil
}
