package client

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net"
	"net/http"
	"net/url"
	"strconv"
	"sync"
	"time"

	"github.com/antonio-alexander/go-employee-stats/internal"
	"github.com/antonio-alexander/go-employee-stats/internal/cache"
	"github.com/antonio-alexander/go-employee-stats/internal/data"
	"github.com/antonio-alexander/go-employee-stats/internal/utilities"

	"github.com/pkg/errors"
)

type Client interface {
	EmployeeCreate(ctx context.Context,
		employeePartial data.EmployeePartial) (*data.Employee, error)
	EmployeeRead(ctx context.Context, id int64) (*data.Employee, error)
	EmployeesSearch(ctx context.Context,
		search data.EmployeeSearch) (*data.EmployeePage, error)
	EmployeeUpdate(ctx context.Context, id int64,
		employeePartial data.EmployeePartial) (*data.Employee, error)
	EmployeeDelete(ctx context.Context, id int64, force bool) (*data.DeleteResponse, error)
	EmployeeCalculations(ctx context.Context, id int64) (*data.EmployeeCalculations, error)
	StatisticsRead(ctx context.Context) (*data.Statistics, error)
	StatisticsPdf(ctx context.Context) ([]byte, error)
	CacheClear(ctx context.Context) error
	CacheCountersRead(ctx context.Context) (*data.CacheCounters, error)
	CacheCountersClear(ctx context.Context) error
	TimersRead(ctx context.Context) (*data.Timers, error)
	TimersClear(ctx context.Context) error
}

type client struct {
	sync.RWMutex
	config struct {
		protocol      string
		address       string
		port          string
		timeout       int64
		sslCaFile     string
		sslCrtFile    string
		sslKeyFile    string
		cacheDisabled bool
	}
	address string
	cache   cache.Cache
	utilities.Logger
	*http.Client
}

// NewClient creates a client for the service, when a cache is provided
// single employee reads go through it
func NewClient(parameters ...any) interface {
	internal.Configurer
	internal.Opener
	Client
} {
	c := &client{Client: &http.Client{}}
	c.config.protocol = "http"
	c.config.address = "localhost"
	c.config.port = "8080"
	c.config.timeout = 10
	for _, parameter := range parameters {
		switch p := parameter.(type) {
		case cache.Cache:
			c.cache = p
		case utilities.Logger:
			c.Logger = p
		}
	}
	if c.Logger == nil {
		c.Logger = utilities.NewLogger()
	}
	return c
}

// statusError converts an error response back into the typed error the
// service started from
func statusError(statusCode int, bytes []byte) error {
	var e data.ErrorResponse

	if err := json.Unmarshal(bytes, &e); err != nil || e.Error == "" {
		return errors.Errorf("status code: %d; %s", statusCode, string(bytes))
	}
	switch statusCode {
	default:
		return errors.Errorf("status code: %d; %s", statusCode, e.Error)
	case http.StatusBadRequest:
		return errors.Wrap(data.ErrMalformedRequest, e.Error)
	case http.StatusForbidden:
		return data.ErrMutationDisabled
	case http.StatusNotFound:
		if e.Error == data.ErrEmployeeInactive.Error() {
			return data.ErrEmployeeInactive
		}
		return data.ErrEmployeeNotFound
	case http.StatusConflict:
		return &data.IntegrityError{EmployeeId: e.EmployeeId, Message: e.Error}
	case http.StatusUnprocessableEntity:
		if e.Rule != "" {
			return &data.BusinessRuleError{Rule: e.Rule, Message: e.Error}
		}
		return &data.ValidationError{Issues: e.Fields}
	}
}

func (c *client) doRequest(ctx context.Context, uri, method string, item any) ([]byte, error) {
	var body io.Reader

	switch d := item.(type) {
	case []byte:
		body = bytes.NewBuffer(d)
	case url.Values:
		if len(d) > 0 {
			uri = uri + "?" + d.Encode()
		}
	}
	request, err := http.NewRequestWithContext(ctx, method, uri, body)
	if err != nil {
		return nil, err
	}
	if body != nil {
		request.Header.Set("Content-Type", "application/json")
	}
	if correlationId := internal.CorrelationIdFromCtx(ctx); correlationId != "" {
		request.Header.Set(internal.HeaderCorrelationId, correlationId)
	}
	response, err := c.Do(request)
	if err != nil {
		return nil, err
	}
	bytes, err := io.ReadAll(response.Body)
	defer response.Body.Close()
	if err != nil {
		return nil, err
	}
	switch response.StatusCode {
	default:
		return nil, statusError(response.StatusCode, bytes)
	case http.StatusOK, http.StatusCreated, http.StatusNoContent:
		return bytes, nil
	}
}

func (c *client) doJson(ctx context.Context, uri, method string, item, v any) error {
	if item != nil {
		if _, ok := item.(url.Values); !ok {
			bytes, err := json.Marshal(item)
			if err != nil {
				return err
			}
			item = bytes
		}
	}
	bytes, err := c.doRequest(ctx, uri, method, item)
	if err != nil {
		return err
	}
	if v == nil || len(bytes) == 0 {
		return nil
	}
	return json.Unmarshal(bytes, v)
}

func (c *client) cacheEnabled() bool {
	c.RLock()
	defer c.RUnlock()
	return c.cache != nil && !c.config.cacheDisabled
}

func (c *client) cacheDelete(ctx context.Context, id int64) {
	if !c.cacheEnabled() {
		return
	}
	if err := c.cache.EmployeesDelete(ctx, id); err != nil {
		c.Error(ctx, "error while deleting employee (%d) from cache: %s", id, err)
	}
}

func (c *client) Configure(envs map[string]string) error {
	c.Lock()
	defer c.Unlock()

	if address, ok := envs["CLIENT_ADDRESS"]; ok {
		c.config.address = address
	}
	if port, ok := envs["CLIENT_PORT"]; ok {
		c.config.port = port
	}
	if protocol, ok := envs["CLIENT_PROTOCOL"]; ok && protocol != "" {
		c.config.protocol = protocol
	}
	if timeout, ok := envs["CLIENT_TIMEOUT"]; ok && timeout != "" {
		i, err := strconv.ParseInt(timeout, 10, 64)
		if err != nil {
			return err
		}
		c.config.timeout = i
	}
	if sslCaFile, ok := envs["SSL_CA_FILE"]; ok {
		c.config.sslCaFile = sslCaFile
	}
	if sslKeyFile, ok := envs["SSL_KEY_FILE"]; ok {
		c.config.sslKeyFile = sslKeyFile
	}
	if sslCrtFile, ok := envs["SSL_CRT_FILE"]; ok {
		c.config.sslCrtFile = sslCrtFile
	}
	if cacheDisabled, ok := envs["CLIENT_CACHE_DISABLED"]; ok {
		c.config.cacheDisabled, _ = strconv.ParseBool(cacheDisabled)
	}
	return nil
}

func (c *client) Open(ctx context.Context) error {
	c.Lock()
	defer c.Unlock()

	switch c.config.protocol {
	default:
		return errors.Errorf("unsupported protocol: %s", c.config.protocol)
	case "http", "https":
		c.address = fmt.Sprintf("%s://%s", c.config.protocol,
			net.JoinHostPort(c.config.address, c.config.port))
	}
	if c.cache == nil || c.config.cacheDisabled {
		c.Info(ctx, "client: cache disabled")
	}
	c.Client.Timeout = time.Duration(c.config.timeout) * time.Second
	transport, err := sslFiles{
		caFile:  c.config.sslCaFile,
		crtFile: c.config.sslCrtFile,
		keyFile: c.config.sslKeyFile,
	}.transport()
	if err != nil {
		return err
	}
	c.Client.Transport = transport
	return nil
}

func (c *client) Close(ctx context.Context) error {
	c.Lock()
	defer c.Unlock()

	c.Client.CloseIdleConnections()
	return nil
}

func (c *client) EmployeeCreate(ctx context.Context, employeePartial data.EmployeePartial) (*data.Employee, error) {
	employee := &data.Employee{}
	uri := c.address + data.RouteEmpleados
	if err := c.doJson(ctx, uri, http.MethodPost, &employeePartial, employee); err != nil {
		return nil, err
	}
	return employee, nil
}

func (c *client) EmployeeRead(ctx context.Context, id int64) (*data.Employee, error) {
	if c.cacheEnabled() {
		employee, err := c.cache.EmployeeRead(ctx, id)
		if err == nil {
			return employee, nil
		}
		if !errors.Is(err, cache.ErrEmployeeNotCached) {
			c.Error(ctx, "error while reading employee (%d) from cache: %s", id, err)
		}
	}
	employee := &data.Employee{}
	uri := fmt.Sprintf(c.address+data.RouteEmpleadosIdf, id)
	if err := c.doJson(ctx, uri, http.MethodGet, nil, employee); err != nil {
		return nil, err
	}
	if c.cacheEnabled() {
		if err := c.cache.EmployeesWrite(ctx, employee); err != nil {
			c.Error(ctx, "error while writing employee (%d) to cache: %s", id, err)
		}
	}
	return employee, nil
}

func (c *client) EmployeesSearch(ctx context.Context, search data.EmployeeSearch) (*data.EmployeePage, error) {
	page := &data.EmployeePage{}
	uri := c.address + data.RouteEmpleados
	if err := c.doJson(ctx, uri, http.MethodGet, search.ToParams(), page); err != nil {
		return nil, err
	}
	return page, nil
}

func (c *client) EmployeeUpdate(ctx context.Context, id int64, employeePartial data.EmployeePartial) (*data.Employee, error) {
	employee := &data.Employee{}
	uri := fmt.Sprintf(c.address+data.RouteEmpleadosIdf, id)
	if err := c.doJson(ctx, uri, http.MethodPatch, &employeePartial, employee); err != nil {
		return nil, err
	}
	c.cacheDelete(ctx, id)
	return employee, nil
}

func (c *client) EmployeeDelete(ctx context.Context, id int64, force bool) (*data.DeleteResponse, error) {
	var params url.Values

	if force {
		params = url.Values{data.ParameterForce: []string{"true"}}
	}
	response := &data.DeleteResponse{}
	uri := fmt.Sprintf(c.address+data.RouteEmpleadosIdf, id)
	if err := c.doJson(ctx, uri, http.MethodDelete, params, response); err != nil {
		return nil, err
	}
	c.cacheDelete(ctx, id)
	return response, nil
}

func (c *client) EmployeeCalculations(ctx context.Context, id int64) (*data.EmployeeCalculations, error) {
	calculations := &data.EmployeeCalculations{}
	uri := fmt.Sprintf(c.address+data.RouteEmpleadosIdCalculosf, id)
	if err := c.doJson(ctx, uri, http.MethodGet, nil, calculations); err != nil {
		return nil, err
	}
	return calculations, nil
}

func (c *client) StatisticsRead(ctx context.Context) (*data.Statistics, error) {
	statistics := &data.Statistics{}
	uri := c.address + data.RouteEmpleadosEstadisticas
	if err := c.doJson(ctx, uri, http.MethodGet, nil, statistics); err != nil {
		return nil, err
	}
	return statistics, nil
}

func (c *client) StatisticsPdf(ctx context.Context) ([]byte, error) {
	uri := c.address + data.RouteEmpleadosEstadisticasPdf
	return c.doRequest(ctx, uri, http.MethodGet, nil)
}

func (c *client) CacheClear(ctx context.Context) error {
	uri := c.address + data.RouteCache
	if _, err := c.doRequest(ctx, uri, http.MethodDelete, nil); err != nil {
		return err
	}
	return nil
}

func (c *client) CacheCountersRead(ctx context.Context) (*data.CacheCounters, error) {
	counters := &data.CacheCounters{}
	uri := c.address + data.RouteCacheCounters
	if err := c.doJson(ctx, uri, http.MethodGet, nil, counters); err != nil {
		return nil, err
	}
	return counters, nil
}

func (c *client) CacheCountersClear(ctx context.Context) error {
	uri := c.address + data.RouteCacheCounters
	if _, err := c.doRequest(ctx, uri, http.MethodDelete, nil); err != nil {
		return err
	}
	return nil
}

func (c *client) TimersRead(ctx context.Context) (*data.Timers, error) {
	timers := &data.Timers{}
	uri := c.address + data.RouteTimers
	if err := c.doJson(ctx, uri, http.MethodGet, nil, timers); err != nil {
		return nil, err
	}
	return timers, nil
}

func (c *client) TimersClear(ctx context.Context) error {
	uri := c.address + data.RouteTimers
	if _, err := c.doRequest(ctx, uri, http.MethodDelete, nil); err != nil {
		return err
	}
	return nil
}
