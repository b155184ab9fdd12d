package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"os/signal"
	"strconv"
	"strings"
	"syscall"

	"github.com/antonio-alexander/go-employee-stats/internal"
	"github.com/antonio-alexander/go-employee-stats/internal/cache"
	"github.com/antonio-alexander/go-employee-stats/internal/client"
	"github.com/antonio-alexander/go-employee-stats/internal/data"

	"github.com/pkg/errors"
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

func main() {
	args := os.Args[1:]
	envs := internal.EnvsFromOs(nil)
	osSignal := make(chan os.Signal, 1)
	signal.Notify(osSignal, syscall.SIGINT, syscall.SIGTERM)
	if err := Main(args, envs, osSignal); err != nil {
		os.Stderr.WriteString(err.Error() + "\n")
		os.Exit(1)
	}
}

func createCache(envs map[string]string) interface {
	internal.Configurer
	internal.Opener
	cache.Cache
} {
	switch envs["CLIENT_CACHE_TYPE"] {
	default:
		return nil
	case "memory":
		return cache.NewMemory()
	case "redis":
		return cache.NewRedis()
	}
}

func printJson(v any) error {
	bytes, err := json.MarshalIndent(v, "", " ")
	if err != nil {
		return err
	}
	fmt.Println(string(bytes))
	return nil
}

// employeePartial reads the partial from PAYLOAD, either inline json or
// @path to a json file
func employeePartial(envs map[string]string) (data.EmployeePartial, error) {
	var employeePartial data.EmployeePartial

	payload := envs["PAYLOAD"]
	if strings.HasPrefix(payload, "@") {
		bytes, err := os.ReadFile(strings.TrimPrefix(payload, "@"))
		if err != nil {
			return data.EmployeePartial{}, err
		}
		payload = string(bytes)
	}
	if payload == "" {
		return data.EmployeePartial{}, errors.New("PAYLOAD is required")
	}
	if err := json.Unmarshal([]byte(payload), &employeePartial); err != nil {
		return data.EmployeePartial{}, errors.Wrap(err, "unable to parse PAYLOAD")
	}
	return employeePartial, nil
}

func employeeSearch(envs map[string]string) data.EmployeeSearch {
	var search data.EmployeeSearch

	params := make(map[string][]string)
	for _, key := range []string{data.ParameterIds, data.ParameterDepartment,
		data.ParameterSex, data.ParameterWithInactive, data.ParameterPage,
		data.ParameterPerPage} {
		if value := envs[strings.ToUpper(key)]; value != "" {
			params[key] = []string{value}
		}
	}
	search.FromParams(params)
	return search
}

func Main(args []string, envs map[string]string, osSignal chan os.Signal) error {
	fmt.Printf("client: go-employee-stats v%s (%s) built from: %s\n",
		Version, GitCommit, GitBranch)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go func() {
		select {
		case <-ctx.Done():
		case <-osSignal:
			cancel()
		}
	}()
	ctx = internal.CtxWithCorrelationId(ctx, envs["CORRELATION_ID"])

	//create cache
	parameters := []any{}
	if cache := createCache(envs); cache != nil {
		if err := cache.Configure(envs); err != nil {
			return err
		}
		if err := cache.Open(ctx); err != nil {
			return err
		}
		defer func() {
			if err := cache.Close(context.Background()); err != nil {
				fmt.Printf("error while closing cache: %s\n", err)
			}
		}()
		parameters = append(parameters, cache)
	}

	//create client
	client := client.NewClient(parameters...)
	if err := client.Configure(envs); err != nil {
		return err
	}
	if err := client.Open(ctx); err != nil {
		return err
	}
	defer func() {
		if err := client.Close(context.Background()); err != nil {
			fmt.Printf("error while closing client: %s\n", err)
		}
	}()

	// execute command
	command := envs["COMMAND"]
	if len(args) > 0 {
		command = args[0]
	}
	id, _ := strconv.ParseInt(envs["ID"], 10, 64)
	switch command {
	default:
		return errors.Errorf("unsupported command: %s", command)
	case "employee_create":
		partial, err := employeePartial(envs)
		if err != nil {
			return err
		}
		employee, err := client.EmployeeCreate(ctx, partial)
		if err != nil {
			return err
		}
		return printJson(employee)
	case "employee_read":
		employee, err := client.EmployeeRead(ctx, id)
		if err != nil {
			return err
		}
		return printJson(employee)
	case "employees_search":
		page, err := client.EmployeesSearch(ctx, employeeSearch(envs))
		if err != nil {
			return err
		}
		return printJson(page)
	case "employee_update":
		partial, err := employeePartial(envs)
		if err != nil {
			return err
		}
		employee, err := client.EmployeeUpdate(ctx, id, partial)
		if err != nil {
			return err
		}
		return printJson(employee)
	case "employee_delete":
		response, err := client.EmployeeDelete(ctx, id, data.ParseBool(envs["FORCE"]))
		if err != nil {
			return err
		}
		return printJson(response)
	case "employee_calculations":
		calculations, err := client.EmployeeCalculations(ctx, id)
		if err != nil {
			return err
		}
		return printJson(calculations)
	case "statistics_read":
		statistics, err := client.StatisticsRead(ctx)
		if err != nil {
			return err
		}
		return printJson(statistics)
	case "statistics_pdf":
		output := envs["OUTPUT"]
		if output == "" {
			output = "estadisticas.pdf"
		}
		bytes, err := client.StatisticsPdf(ctx)
		if err != nil {
			return err
		}
		if err := os.WriteFile(output, bytes, 0644); err != nil {
			return err
		}
		fmt.Printf("statistics written to: %s\n", output)
	case "cache_clear":
		return client.CacheClear(ctx)
	case "cache_counters_read":
		counters, err := client.CacheCountersRead(ctx)
		if err != nil {
			return err
		}
		return printJson(counters)
	case "timers_read":
		timers, err := client.TimersRead(ctx)
		if err != nil {
			return err
		}
		return printJson(timers)
	}
	return nil
}
