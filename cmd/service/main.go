package main

import (
	"context"
	"os"
	"os/signal"
	"path/filepath"
	"sync"
	"syscall"

	"github.com/antonio-alexander/go-employee-stats/internal"
	"github.com/antonio-alexander/go-employee-stats/internal/cache"
	"github.com/antonio-alexander/go-employee-stats/internal/data"
	"github.com/antonio-alexander/go-employee-stats/internal/events"
	"github.com/antonio-alexander/go-employee-stats/internal/logic"
	"github.com/antonio-alexander/go-employee-stats/internal/service"
	"github.com/antonio-alexander/go-employee-stats/internal/sql"
	"github.com/antonio-alexander/go-employee-stats/internal/statistics"
	"github.com/antonio-alexander/go-employee-stats/internal/utilities"

	"github.com/antonio-alexander/go-stash/memory"
	"github.com/antonio-alexander/go-stash/redis"
	"github.com/joho/godotenv"
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
	pwd, _ := os.Getwd()
	args := os.Args[1:]
	envs, err := readEnvs(pwd)
	if err != nil {
		os.Stderr.WriteString(err.Error())
		os.Exit(1)
	}
	osSignal := make(chan os.Signal, 1)
	signal.Notify(osSignal, syscall.SIGINT, syscall.SIGTERM)
	if err := Main(pwd, args, envs, osSignal); err != nil {
		os.Stderr.WriteString(err.Error())
		os.Exit(1)
	}
}

// readEnvs reads the dotenv file (ENV_FILE or .env in the working
// directory when present), variables from the environment take
// precedence over the file
func readEnvs(pwd string) (map[string]string, error) {
	envFile, explicit := os.LookupEnv("ENV_FILE")
	if !explicit {
		envFile = filepath.Join(pwd, ".env")
	}
	envs := make(map[string]string)
	if _, err := os.Stat(envFile); err == nil {
		fileEnvs, err := godotenv.Read(envFile)
		if err != nil {
			return nil, errors.Wrapf(err, "unable to read env file: %s", envFile)
		}
		envs = fileEnvs
	} else if explicit {
		return nil, errors.Wrapf(err, "unable to read env file: %s", envFile)
	}
	return internal.EnvsFromOs(envs), nil
}

func createSql(envs map[string]string, parameters ...any) (interface {
	internal.Configurer
	internal.Opener
	sql.Sql
}, error) {
	switch databaseType := envs["DATABASE_TYPE"]; databaseType {
	default:
		return nil, errors.Errorf("unsupported database type: %s", databaseType)
	case "", "mysql":
		return sql.NewMySql(parameters...), nil
	case "memory":
		return sql.NewMemory(parameters...), nil
	}
}

func createCache(envs map[string]string, parameters ...any) interface {
	internal.Configurer
	internal.Opener
	internal.Clearer
	cache.Cache
} {
	switch envs["CACHE_TYPE"] {
	default:
		return nil
	case "memory":
		return cache.NewMemory(parameters...)
	case "redis":
		return cache.NewRedis(parameters...)
	case "stash-memory":
		parameters = append(parameters, memory.New())
		return cache.NewStash(parameters...)
	case "stash-redis":
		parameters = append(parameters, redis.New())
		return cache.NewStash(parameters...)
	}
}

func Main(pwd string, args []string, envs map[string]string, osSignal chan os.Signal) error {
	var wg sync.WaitGroup

	//create context
	ctx, cancel := internal.LaunchContext(&wg, osSignal)
	defer cancel()

	// create utilities
	logger := utilities.NewLogger()
	if err := logger.Configure(envs); err != nil {
		return err
	}
	timers := utilities.NewTimers()
	counter := utilities.NewCounter()

	//print version info
	logger.Info(ctx, "server: go-employee-stats v%s (%s) built from: %s",
		Version, GitCommit, GitBranch)

	//create sql, configure and open
	sql, err := createSql(envs, logger)
	if err != nil {
		return err
	}
	if err := sql.Configure(envs); err != nil {
		return err
	}
	if err := sql.Open(ctx); err != nil {
		return err
	}
	defer func() {
		if err := sql.Close(context.Background()); err != nil {
			logger.Error(context.Background(), "error while closing sql: %s", err)
		}
	}()

	// create cache
	cache := createCache(envs, logger)
	if cache != nil {
		if err := cache.Configure(envs); err != nil {
			return err
		}
		if err := cache.Open(ctx); err != nil {
			return err
		}
		defer func() {
			if err := cache.Close(context.Background()); err != nil {
				logger.Error(context.Background(), "error while closing cache: %s", err)
			}
		}()
	}

	// create event publisher, it's disabled without brokers
	kafka := events.NewKafka(logger)
	if err := kafka.Configure(envs); err != nil {
		return err
	}
	if err := kafka.Open(ctx); err != nil {
		return err
	}
	defer func() {
		if err := kafka.Close(context.Background()); err != nil {
			logger.Error(context.Background(), "error while closing kafka: %s", err)
		}
	}()

	// create statistics engine
	engine := statistics.NewEngine()
	if err := engine.Configure(envs); err != nil {
		return err
	}

	//create logic, configure and open
	logicParameters := []any{sql, kafka, engine, counter, logger}
	if cache != nil {
		logicParameters = append(logicParameters, cache)
	}
	logic := logic.NewLogic(logicParameters...)
	if err := logic.Configure(envs); err != nil {
		return err
	}
	if err := logic.Open(ctx); err != nil {
		return err
	}
	defer func() {
		if err := logic.Close(context.Background()); err != nil {
			logger.Error(context.Background(), "error while closing logic: %s", err)
		}
	}()

	//create service, configure and open
	serviceParameters := []any{logic, logger, counter, timers}
	if cache != nil {
		serviceParameters = append(serviceParameters, cache)
	}
	service := service.NewService(serviceParameters...)
	if err := service.Configure(envs); err != nil {
		return err
	}
	if err := service.Open(ctx); err != nil {
		return err
	}
	<-ctx.Done()
	wg.Wait()
	if err := service.Close(context.Background()); err != nil {
		logger.Error(context.Background(), "error while closing service: %s", err)
	}
	return nil
}
