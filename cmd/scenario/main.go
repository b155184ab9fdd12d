package main

import (
	"context"
	"fmt"
	"math/rand/v2"
	"os"
	"os/signal"
	"strconv"
	"sync"
	"syscall"
	"time"

	"github.com/antonio-alexander/go-employee-stats/internal"
	"github.com/antonio-alexander/go-employee-stats/internal/client"
	"github.com/antonio-alexander/go-employee-stats/internal/data"
	"github.com/antonio-alexander/go-employee-stats/internal/utilities"

	"github.com/pkg/errors"
	"github.com/shopspring/decimal"
)

var (
	Version   string
	GitCommit string
	GitBranch string
)

var (
	departments = []string{"Ventas", "TI", "Finanzas", "Recursos Humanos", "Operaciones"}
	jobTitles   = []string{"Analista", "Asistente", "Gerente", "Director", "Tecnico"}
	names       = []string{"Ana", "Carlos", "Maria", "Jose", "Lucia", "Pedro", "Sofia", "Luis"}
	sexes       = []string{data.SexMale, data.SexFemale, data.SexOther}
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

func main() {
	args := os.Args[1:]
	envs := internal.EnvsFromOs(nil)
	osSignal := make(chan os.Signal, 1)
	signal.Notify(osSignal, syscall.SIGINT, syscall.SIGTERM)
	if err := Main(args, envs, osSignal); err != nil {
		os.Stderr.WriteString(err.Error())
		os.Exit(1)
	}
}

func durationFromEnvs(envs map[string]string, key string, duration time.Duration) time.Duration {
	if s := envs[key]; s != "" {
		if i, err := strconv.Atoi(s); err == nil && i > 0 {
			return time.Duration(i) * time.Second
		}
	}
	return duration
}

// randomEmployee generates an employee that satisfies every business
// rule: at least 18 years old at hire and deduction within gross
func randomEmployee(now time.Time) data.EmployeePartial {
	id := internal.GenerateId()
	birthDate := now.AddDate(-(22 + rand.IntN(40)), -rand.IntN(12), -rand.IntN(28))
	hireDate := birthDate.AddDate(18+rand.IntN(now.Year()-birthDate.Year()-18), 0, 0)
	if hireDate.After(now) {
		hireDate = now
	}
	name := names[rand.IntN(len(names))] + " " + id[:6]
	department := departments[rand.IntN(len(departments))]
	jobTitle := jobTitles[rand.IntN(len(jobTitles))]
	phone := id[:14]
	email := id[:8] + "@example.com"
	baseSalary := decimal.NewFromInt(int64(400 + rand.IntN(4600)))
	bonus := decimal.NewFromInt(int64(rand.IntN(500)))
	deduction := baseSalary.Mul(decimal.NewFromFloat(0.1)).Round(2)
	evaluation := decimal.NewFromInt(int64(50 + rand.IntN(51)))
	sex := sexes[rand.IntN(len(sexes))]
	hire, birth := hireDate.Format(time.DateOnly), birthDate.Format(time.DateOnly)
	return data.EmployeePartial{
		Name:       &name,
		Department: &department,
		JobTitle:   &jobTitle,
		Phone:      &phone,
		Email:      &email,
		BaseSalary: &baseSalary,
		Bonus:      &bonus,
		Deduction:  &deduction,
		HireDate:   &hire,
		BirthDate:  &birth,
		Sex:        &sex,
		Evaluation: &evaluation,
	}
}

// scenarioSeed creates random employees spread over the clients and
// logs a summary of the resulting statistics report
func scenarioSeed(ctx context.Context, envs map[string]string, logger utilities.Logger,
	clients ...client.Client) error {
	const correlationId string = "scenario_seed"

	var wg sync.WaitGroup
	var mu sync.Mutex
	var created, failed int

	nEmployees := 50
	if s := envs["SCENARIO_EMPLOYEES"]; s != "" {
		nEmployees, _ = strconv.Atoi(s)
	}
	if len(clients) == 0 {
		return errors.New("no clients provided")
	}
	ctx = internal.CtxWithCorrelationId(ctx, correlationId)
	for i, c := range clients {
		wg.Add(1)
		go func(client client.Client, n int) {
			defer wg.Done()

			for j := 0; j < n; j++ {
				_, err := client.EmployeeCreate(ctx, randomEmployee(time.Now()))
				mu.Lock()
				if err != nil {
					failed++
					logger.Error(ctx, "error while creating employee: %s", err)
				} else {
					created++
				}
				mu.Unlock()
			}
		}(c, nEmployees/len(clients)+boolToInt(i < nEmployees%len(clients)))
	}
	wg.Wait()
	logger.Info(ctx, "created %d employees (%d failed)", created, failed)

	statistics, err := clients[0].StatisticsRead(ctx)
	if err != nil {
		return err
	}
	logger.Info(ctx, "active employees: %d, average base salary: %.2f, average age: %.2f",
		statistics.ActiveEmployees, statistics.AverageBaseSalary, statistics.AverageAge)
	if c := statistics.SalaryPerformanceCorrelation.Coefficient; c != nil {
		logger.Info(ctx, "salary/performance correlation: %.2f (n=%d)", *c,
			statistics.SalaryPerformanceCorrelation.SampleSize)
	}
	return nil
}

func boolToInt(b bool) int {
	if b {
		return 1
	}
	return 0
}

// scenarioReadHeavy reads an employee (and its calculations) from several
// clients while another client updates it, and reports the hit ratio of
// the service cache
func scenarioReadHeavy(ctx context.Context, envs map[string]string, logger utilities.Logger,
	clients ...client.Client) error {
	const correlationId string = "scenario_read_heavy"
	const minClients int = 2

	var wg sync.WaitGroup

	readInterval := durationFromEnvs(envs, "SCENARIO_READ_INTERVAL", time.Second)
	updateInterval := durationFromEnvs(envs, "SCENARIO_UPDATE_INTERVAL", 2*time.Second)
	scenarioDuration := durationFromEnvs(envs, "SCENARIO_DURATION", 10*time.Second)
	if len(clients) < minClients {
		return errors.New("not enough clients provided")
	}
	ctx = internal.CtxWithCorrelationId(ctx, correlationId)

	// create employee using the first client
	employeeCreated, err := clients[0].EmployeeCreate(ctx, randomEmployee(time.Now()))
	if err != nil {
		return err
	}
	id := employeeCreated.Id
	defer func(id int64) {
		if _, err := clients[0].EmployeeDelete(ctx, id, true); err != nil {
			logger.Error(ctx, "error while deleting employee (%d): %s", id, err)
			return
		}
		logger.Info(ctx, "deleted employee: %d", id)
	}(id)
	logger.Info(ctx, "created employee: %d", id)

	start, stop := make(chan struct{}), make(chan struct{})

	// writer
	wg.Add(1)
	go func(client client.Client) {
		defer wg.Done()

		tUpdate := time.NewTicker(updateInterval)
		defer tUpdate.Stop()
		<-start
		for {
			select {
			case <-stop:
				return
			case <-tUpdate.C:
				bonus := decimal.NewFromInt(int64(rand.IntN(500)))
				if _, err := client.EmployeeUpdate(ctx, id, data.EmployeePartial{
					Bonus: &bonus,
				}); err != nil {
					logger.Error(ctx, "error while updating employee: %s", err)
				}
			}
		}
	}(clients[0])

	// readers
	for i := 1; i < len(clients); i++ {
		wg.Add(1)
		go func(clientNumber int, client client.Client) {
			defer wg.Done()

			ctx := internal.CtxWithCorrelationId(ctx,
				fmt.Sprintf("%s_%d", correlationId, clientNumber))
			tRead := time.NewTicker(readInterval)
			defer tRead.Stop()
			<-start
			for {
				select {
				case <-stop:
					return
				case <-tRead.C:
					if _, err := client.EmployeeRead(ctx, id); err != nil {
						logger.Error(ctx, "error while reading employee: %s", err)
					}
					if _, err := client.EmployeeCalculations(ctx, id); err != nil {
						logger.Error(ctx, "error while reading calculations: %s", err)
					}
				}
			}
		}(i, clients[i])
	}

	//clear cache counters and start the go routines
	if err := clients[0].CacheClear(ctx); err != nil {
		return err
	}
	if err := clients[0].CacheCountersClear(ctx); err != nil {
		return err
	}
	close(start)
	select {
	case <-ctx.Done():
	case <-time.After(scenarioDuration):
	}
	close(stop)
	wg.Wait()

	cacheCounters, err := clients[0].CacheCountersRead(ctx)
	if err != nil {
		return err
	}
	for _, key := range []string{"employee_read", "employee_calculations"} {
		hit, miss := cacheCounters.CounterHits[key], cacheCounters.CounterMisses[key]
		if total := hit + miss; total > 0 {
			logger.Info(ctx, "%s cache hit ratio (%d/%d): %0.2f%%",
				key, hit, total, float64(hit)/float64(total)*100)
		}
	}
	return nil
}

func Main(args []string, envs map[string]string, osSignal chan os.Signal) error {
	var clients []client.Client
	var wg sync.WaitGroup

	//create context
	ctx, cancel := internal.LaunchContext(&wg, osSignal)
	defer cancel()

	// create logger
	logger := utilities.NewLogger()
	if err := logger.Configure(envs); err != nil {
		return err
	}

	//print version info
	logger.Info(ctx, "scenarios: go-employee-stats v%s (%s) built from: %s",
		Version, GitCommit, GitBranch)

	nClients, _ := strconv.Atoi(envs["N_CLIENTS"])
	if nClients <= 0 {
		nClients = 2
	}
	for range nClients {
		client := client.NewClient(logger)
		if err := client.Configure(envs); err != nil {
			return err
		}
		if err := client.Open(ctx); err != nil {
			return err
		}
		defer func() {
			if err := client.Close(context.Background()); err != nil {
				logger.Error(ctx, "error while closing client: %s", err)
			}
		}()
		clients = append(clients, client)
	}

	// execute scenario
	scenario := envs["SCENARIO"]
	if len(args) > 0 {
		scenario = args[0]
	}
	switch scenario {
	default:
		return errors.Errorf("unsupported scenario: %s", scenario)
	case "seed":
		logger.Info(ctx, "executing %s scenario", scenario)
		if err := scenarioSeed(ctx, envs, logger, clients...); err != nil {
			logger.Error(ctx, "error while executing %s scenario: %s", scenario, err)
		}
	case "read_heavy":
		logger.Info(ctx, "executing %s scenario", scenario)
		if err := scenarioReadHeavy(ctx, envs, logger, clients...); err != nil {
			logger.Error(ctx, "error while executing %s scenario: %s", scenario, err)
		}
	}
	cancel()
	wg.Wait()
	return nil
}
