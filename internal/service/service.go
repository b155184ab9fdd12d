package service

import (
	"bytes"
	"context"
	"fmt"
	"net"
	"net/http"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/antonio-alexander/go-employee-stats/internal"
	"github.com/antonio-alexander/go-employee-stats/internal/cache"
	"github.com/antonio-alexander/go-employee-stats/internal/data"
	"github.com/antonio-alexander/go-employee-stats/internal/logic"
	"github.com/antonio-alexander/go-employee-stats/internal/report"
	"github.com/antonio-alexander/go-employee-stats/internal/utilities"

	"github.com/gorilla/mux"
	"github.com/pkg/errors"
	"github.com/rs/cors"
)

var (
	Version   string
	GitCommit string
	GitBranch string
)

func init() {
	if Version = data.Version; Version == "" {
		Version = "<no_version_provided>"
	}
	if GitCommit = data.GitCommit; GitCommit == "" {
		GitCommit = "<no_git_commit>"
	}
	if GitBranch = data.GitBranch; GitBranch == "" {
		GitBranch = "<no_git_branch>"
	}
}

type service struct {
	sync.RWMutex
	sync.WaitGroup
	config struct {
		address          string
		port             string
		shutdownTimeout  time.Duration
		allowedOrigins   []string
		allowedMethods   []string
		allowedHeaders   []string
		allowCredentials bool
		corsDisabled     bool
		corsDebug        bool
		timersEnabled    bool
	}
	ctx    context.Context
	cancel context.CancelFunc
	*mux.Router
	*http.Server
	cache internal.Clearer
	utilities.Logger
	utilities.Counter
	utilities.Timers
	logic.Logic
}

// NewService builds the http surface over the provided logic, the routes
// are registered immediately so the returned value can also be used as
// an http.Handler without being opened
func NewService(parameters ...any) interface {
	internal.Configurer
	internal.Opener
	http.Handler
} {
	router := mux.NewRouter()
	s := &service{
		Router: router,
		Server: &http.Server{
			Handler: router,
		},
	}
	s.config.port = "8080"
	s.config.shutdownTimeout = 10 * time.Second
	for _, parameter := range parameters {
		switch p := parameter.(type) {
		case interface {
			cache.Cache
			internal.Clearer
		}:
			s.cache = p
		case logic.Logic:
			s.Logic = p
		case utilities.Counter:
			s.Counter = p
		case utilities.Timers:
			s.Timers = p
		case utilities.Logger:
			s.Logger = p
		}
	}
	if s.Logger == nil {
		s.Logger = utilities.NewLogger()
	}
	if s.Counter == nil {
		s.Counter = utilities.NewCounter()
	}
	if s.Timers == nil {
		s.Timers = utilities.NewTimers()
	}
	s.buildRoutes()
	return s
}

func (s *service) launchServer() error {
	started := make(chan struct{})
	chErr := make(chan error, 1)
	s.Add(1)
	go func() {
		defer s.WaitGroup.Done()
		defer close(chErr)

		close(started)
		if err := s.Server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			chErr <- err
		}
	}()
	<-started
	select {
	case err := <-chErr:
		//KIM: a server that fails quickly (e.g. the port is in use) is
		// reported as an error from Open
		return err
	case <-time.After(time.Second):
		address := net.JoinHostPort(s.config.address, s.config.port)
		s.Info(s.ctx, "started server: %s", address)
		return nil
	}
}

// requestContext attaches the request correlation id (or a new one) to
// the context and echoes it back in the response
func (s *service) requestContext(writer http.ResponseWriter, request *http.Request) context.Context {
	ctx := internal.CtxWithCorrelationId(request.Context(),
		getCorrelationId(request))
	writer.Header().Set(internal.HeaderCorrelationId,
		internal.CorrelationIdFromCtx(ctx))
	return ctx
}

// timer starts a timer for the group when timers are enabled, the returned
// function stops it
func (s *service) timer(ctx context.Context, group string) func() {
	if !s.config.timersEnabled {
		return func() {}
	}
	timerIndex := s.Start(group)
	return func() {
		elapsedTime := s.Stop(group, timerIndex)
		s.Trace(ctx, "%s took %v", group,
			time.Duration(elapsedTime)*time.Nanosecond)
	}
}

func (s *service) endpointDefault() func(http.ResponseWriter, *http.Request) {
	return func(writer http.ResponseWriter, request *http.Request) {
		fmt.Fprintf(writer,
			"go-employee-stats\n"+
				"Version: \"%s\"\n"+
				"Git Commit: \"%s\"\n"+
				"Git Branch: \"%s\"\n",
			Version, GitCommit, GitBranch)
	}
}

func (s *service) endpointEmployeeCreate(writer http.ResponseWriter, request *http.Request) {
	ctx := s.requestContext(writer, request)
	defer s.timer(ctx, "employee_create")()
	employeePartial, err := employeePartialFromBody(request)
	if err != nil {
		s.handleResponse(ctx, writer, err)
		return
	}
	employee, err := s.EmployeeCreate(ctx, employeePartial)
	if err != nil {
		s.handleResponse(ctx, writer, err)
		return
	}
	s.handleResponseStatus(ctx, writer, http.StatusCreated, nil, employee)
	s.Trace(ctx, "executed employee_create: %d", employee.Id)
}

func (s *service) endpointEmployeeRead(writer http.ResponseWriter, request *http.Request) {
	ctx := s.requestContext(writer, request)
	defer s.timer(ctx, "employee_read")()
	id, err := idFromPath(mux.Vars(request))
	if err != nil {
		s.handleResponse(ctx, writer, err)
		return
	}
	employee, err := s.EmployeeRead(ctx, id)
	if err != nil {
		s.handleResponse(ctx, writer, err)
		return
	}
	s.handleResponse(ctx, writer, nil, employee)
	s.Trace(ctx, "executed employee_read: %d", id)
}

func (s *service) endpointEmployeesSearch(writer http.ResponseWriter, request *http.Request) {
	var search data.EmployeeSearch

	ctx := s.requestContext(writer, request)
	defer s.timer(ctx, "employees_search")()
	if err := request.ParseForm(); err != nil {
		s.handleResponse(ctx, writer, malformed(err))
		return
	}
	search.FromParams(request.Form)
	page, err := s.EmployeesSearch(ctx, search)
	if err != nil {
		s.handleResponse(ctx, writer, err)
		return
	}
	s.handleResponse(ctx, writer, nil, page)
	s.Trace(ctx, "executed employees_search: %d of %d", len(page.Data), page.Total)
}

func (s *service) endpointEmployeeUpdate(writer http.ResponseWriter, request *http.Request) {
	ctx := s.requestContext(writer, request)
	defer s.timer(ctx, "employee_update")()
	id, err := idFromPath(mux.Vars(request))
	if err != nil {
		s.handleResponse(ctx, writer, err)
		return
	}
	employeePartial, err := employeePartialFromBody(request)
	if err != nil {
		s.handleResponse(ctx, writer, err)
		return
	}
	employee, err := s.EmployeeUpdate(ctx, id, employeePartial)
	if err != nil {
		s.handleResponse(ctx, writer, err)
		return
	}
	s.handleResponse(ctx, writer, nil, employee)
	s.Trace(ctx, "executed employee_update: %d", id)
}

func (s *service) endpointEmployeeDelete(writer http.ResponseWriter, request *http.Request) {
	ctx := s.requestContext(writer, request)
	defer s.timer(ctx, "employee_delete")()
	id, err := idFromPath(mux.Vars(request))
	if err != nil {
		s.handleResponse(ctx, writer, err)
		return
	}
	force := data.ParseBool(request.URL.Query().Get(data.ParameterForce))
	response, err := s.EmployeeDelete(ctx, id, force)
	if err != nil {
		s.handleResponse(ctx, writer, err)
		return
	}
	s.handleResponse(ctx, writer, nil, response)
	s.Trace(ctx, "executed employee_delete: %d (force: %t)", id, force)
}

func (s *service) endpointEmployeeCalculations(writer http.ResponseWriter, request *http.Request) {
	ctx := s.requestContext(writer, request)
	defer s.timer(ctx, "employee_calculations")()
	id, err := idFromPath(mux.Vars(request))
	if err != nil {
		s.handleResponse(ctx, writer, err)
		return
	}
	calculations, err := s.EmployeeCalculations(ctx, id)
	if err != nil {
		s.handleResponse(ctx, writer, err)
		return
	}
	s.handleResponse(ctx, writer, nil, calculations)
	s.Trace(ctx, "executed employee_calculations: %d", id)
}

func (s *service) endpointStatisticsRead(writer http.ResponseWriter, request *http.Request) {
	ctx := s.requestContext(writer, request)
	defer s.timer(ctx, "statistics_read")()
	statistics, err := s.StatisticsRead(ctx)
	if err != nil {
		s.handleResponse(ctx, writer, err)
		return
	}
	s.handleResponse(ctx, writer, nil, statistics)
	s.Trace(ctx, "executed statistics_read")
}

func (s *service) endpointStatisticsPdf(writer http.ResponseWriter, request *http.Request) {
	var buffer bytes.Buffer

	ctx := s.requestContext(writer, request)
	defer s.timer(ctx, "statistics_pdf")()
	statistics, err := s.StatisticsRead(ctx)
	if err != nil {
		s.handleResponse(ctx, writer, err)
		return
	}
	if err := report.StatisticsPdf(statistics, &buffer); err != nil {
		s.handleResponse(ctx, writer, err)
		return
	}
	writer.Header().Set("Content-Type", "application/pdf")
	writer.Header().Set("Content-Disposition", `attachment; filename="estadisticas.pdf"`)
	writer.Header().Set("Content-Length", strconv.Itoa(buffer.Len()))
	if _, err := buffer.WriteTo(writer); err != nil {
		s.Error(ctx, "error while writing statistics pdf: %s", err)
		return
	}
	s.Trace(ctx, "executed statistics_pdf")
}

func (s *service) endpointCacheClear(writer http.ResponseWriter, request *http.Request) {
	ctx := s.requestContext(writer, request)
	if s.cache != nil {
		if err := s.cache.Clear(ctx); err != nil {
			s.handleResponse(ctx, writer, err)
			return
		}
		s.Trace(ctx, "executed cache_clear")
	}
	s.handleResponse(ctx, writer, nil)
}

func (s *service) endpointCacheCountersRead(writer http.ResponseWriter, request *http.Request) {
	ctx := s.requestContext(writer, request)
	s.handleResponse(ctx, writer, nil, s.Counter.ReadAll())
}

func (s *service) endpointCacheCountersClear(writer http.ResponseWriter, request *http.Request) {
	ctx := s.requestContext(writer, request)
	s.Counter.Reset()
	s.handleResponse(ctx, writer, nil)
	s.Trace(ctx, "executed cache_counters_clear")
}

func (s *service) endpointTimersRead(writer http.ResponseWriter, request *http.Request) {
	ctx := s.requestContext(writer, request)
	s.handleResponse(ctx, writer, nil, s.Timers.ReadAll())
}

func (s *service) endpointTimersClear(writer http.ResponseWriter, request *http.Request) {
	ctx := s.requestContext(writer, request)
	s.Timers.Clear()
	s.handleResponse(ctx, writer, nil)
	s.Trace(ctx, "executed timers_clear")
}

func (s *service) buildRoutes() {
	s.Router.HandleFunc("/", s.endpointDefault())
	s.Router.HandleFunc(data.RouteEmpleados, func(w http.ResponseWriter, r *http.Request) {
		switch r.Method {
		default:
			w.WriteHeader(http.StatusMethodNotAllowed)
		case http.MethodGet:
			s.endpointEmployeesSearch(w, r)
		case http.MethodPost:
			s.endpointEmployeeCreate(w, r)
		}
	})
	s.Router.HandleFunc(data.RouteEmpleadosEstadisticas, func(w http.ResponseWriter, r *http.Request) {
		switch r.Method {
		default:
			w.WriteHeader(http.StatusMethodNotAllowed)
		case http.MethodGet:
			s.endpointStatisticsRead(w, r)
		}
	})
	s.Router.HandleFunc(data.RouteEmpleadosEstadisticasPdf, func(w http.ResponseWriter, r *http.Request) {
		switch r.Method {
		default:
			w.WriteHeader(http.StatusMethodNotAllowed)
		case http.MethodGet:
			s.endpointStatisticsPdf(w, r)
		}
	})
	s.Router.HandleFunc(data.RouteEmpleadosId, func(w http.ResponseWriter, r *http.Request) {
		switch r.Method {
		default:
			w.WriteHeader(http.StatusMethodNotAllowed)
		case http.MethodGet:
			s.endpointEmployeeRead(w, r)
		case http.MethodPut, http.MethodPatch:
			s.endpointEmployeeUpdate(w, r)
		case http.MethodDelete:
			s.endpointEmployeeDelete(w, r)
		}
	})
	s.Router.HandleFunc(data.RouteEmpleadosIdCalculos, func(w http.ResponseWriter, r *http.Request) {
		switch r.Method {
		default:
			w.WriteHeader(http.StatusMethodNotAllowed)
		case http.MethodGet:
			s.endpointEmployeeCalculations(w, r)
		}
	})
	s.Router.HandleFunc(data.RouteCacheCounters, func(w http.ResponseWriter, r *http.Request) {
		switch r.Method {
		default:
			w.WriteHeader(http.StatusMethodNotAllowed)
		case http.MethodGet:
			s.endpointCacheCountersRead(w, r)
		case http.MethodDelete:
			s.endpointCacheCountersClear(w, r)
		}
	})
	s.Router.HandleFunc(data.RouteCache, func(w http.ResponseWriter, r *http.Request) {
		switch r.Method {
		default:
			w.WriteHeader(http.StatusMethodNotAllowed)
		case http.MethodDelete:
			s.endpointCacheClear(w, r)
		}
	})
	s.Router.HandleFunc(data.RouteTimers, func(w http.ResponseWriter, r *http.Request) {
		switch r.Method {
		default:
			w.WriteHeader(http.StatusMethodNotAllowed)
		case http.MethodGet:
			s.endpointTimersRead(w, r)
		case http.MethodDelete:
			s.endpointTimersClear(w, r)
		}
	})
}

func (s *service) Configure(envs map[string]string) error {
	s.Lock()
	defer s.Unlock()

	if address, ok := envs["SERVICE_ADDRESS"]; ok {
		s.config.address = address
	}
	if port, ok := envs["SERVICE_PORT"]; ok && port != "" {
		s.config.port = port
	}
	if shutdownTimeoutString, ok := envs["SERVICE_SHUTDOWN_TIMEOUT"]; ok {
		if shutdownTimeoutInt, err := strconv.Atoi(shutdownTimeoutString); err == nil {
			if timeout := time.Duration(shutdownTimeoutInt) * time.Second; timeout > 0 {
				s.config.shutdownTimeout = timeout
			}
		}
	}
	if allowCredentialsString, ok := envs["SERVICE_CORS_ALLOW_CREDENTIALS"]; ok {
		if allowCredentials, err := strconv.ParseBool(allowCredentialsString); err == nil {
			s.config.allowCredentials = allowCredentials
		}
	}
	if allowedOrigins := envs["SERVICE_CORS_ALLOWED_ORIGINS"]; allowedOrigins != "" {
		s.config.allowedOrigins = strings.Split(allowedOrigins, ",")
	}
	if allowedMethods := envs["SERVICE_CORS_ALLOWED_METHODS"]; allowedMethods != "" {
		s.config.allowedMethods = strings.Split(allowedMethods, ",")
	}
	if allowedHeaders := envs["SERVICE_CORS_ALLOWED_HEADERS"]; allowedHeaders != "" {
		s.config.allowedHeaders = strings.Split(allowedHeaders, ",")
	}
	if corsDisabledString, ok := envs["SERVICE_CORS_DISABLED"]; ok {
		if corsDisabled, err := strconv.ParseBool(corsDisabledString); err == nil {
			s.config.corsDisabled = corsDisabled
		}
	}
	if corsDebug, ok := envs["SERVICE_CORS_DEBUG"]; ok {
		if corsDebug, err := strconv.ParseBool(corsDebug); err == nil {
			s.config.corsDebug = corsDebug
		}
	}
	if timersEnabled := envs["SERVICE_TIMERS_ENABLED"]; timersEnabled != "" {
		s.config.timersEnabled, _ = strconv.ParseBool(timersEnabled)
	}
	return nil
}

func (s *service) Open(ctx context.Context) error {
	s.Lock()
	defer s.Unlock()

	if s.Logic == nil {
		return errors.New("no logic provided")
	}
	s.ctx, s.cancel = context.WithCancel(context.Background())
	s.Server.Addr = net.JoinHostPort(s.config.address, s.config.port)
	s.Server.Handler = s.Router
	if !s.config.corsDisabled {
		s.Server.Handler = cors.New(cors.Options{
			AllowedOrigins:   s.config.allowedOrigins,
			AllowCredentials: s.config.allowCredentials,
			AllowedMethods:   s.config.allowedMethods,
			AllowedHeaders:   s.config.allowedHeaders,
			Debug:            s.config.corsDebug,
		}).Handler(s.Router)
	}
	if err := s.launchServer(); err != nil {
		s.cancel()
		return err
	}
	return nil
}

func (s *service) Close(ctx context.Context) error {
	s.Lock()
	defer s.Unlock()

	if s.cancel == nil {
		return nil
	}
	ctx, cancel := context.WithTimeout(ctx, s.config.shutdownTimeout)
	defer cancel()
	if err := s.Server.Shutdown(ctx); err != nil {
		s.Error(ctx, "error while shutting down the server: %s", err)
	}
	s.cancel()
	s.Wait()
	s.cancel = nil
	return nil
}
