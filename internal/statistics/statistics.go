package statistics

import (
	"strings"
	"sync"
	"time"

	"github.com/antonio-alexander/go-employee-stats/internal"
	"github.com/antonio-alexander/go-employee-stats/internal/data"

	"github.com/shopspring/decimal"
)

const (
	HighPerformerThreshold  int64 = 95
	SolidPerformerThreshold int64 = 70
	LongTenureYears         int   = 10
)

var (
	DefaultManagerialTitles       = []string{"Director", "Gerente", "Jefe", "Chief", "CEO", "CTO", "CFO"}
	DefaultOperationalDepartments = []string{"Operaciones", "Producción", "Taller", "Línea", "TI"}
)

// Cohorts can be provided to NewEngine to replace the default
// allowlists, matching is exact
type Cohorts struct {
	ManagerialTitles       []string
	OperationalDepartments []string
}

type Engine interface {
	// Compute builds the statistics report over the active employees,
	// inactive employees in the slice are ignored
	Compute(employees []*data.Employee, now time.Time) *data.Statistics
}

type engine struct {
	sync.RWMutex
	config struct {
		managerialTitles       map[string]struct{}
		operationalDepartments map[string]struct{}
	}
}

func NewEngine(parameters ...any) interface {
	internal.Configurer
	Engine
} {
	e := &engine{}
	e.config.managerialTitles = toSet(DefaultManagerialTitles)
	e.config.operationalDepartments = toSet(DefaultOperationalDepartments)
	for _, parameter := range parameters {
		switch p := parameter.(type) {
		case Cohorts:
			if len(p.ManagerialTitles) > 0 {
				e.config.managerialTitles = toSet(p.ManagerialTitles)
			}
			if len(p.OperationalDepartments) > 0 {
				e.config.operationalDepartments = toSet(p.OperationalDepartments)
			}
		}
	}
	return e
}

func toSet(items []string) map[string]struct{} {
	set := make(map[string]struct{}, len(items))
	for _, item := range items {
		if item = strings.TrimSpace(item); item != "" {
			set[item] = struct{}{}
		}
	}
	return set
}

func (e *engine) Configure(envs map[string]string) error {
	e.Lock()
	defer e.Unlock()

	if s := envs["STATISTICS_MANAGERIAL_TITLES"]; s != "" {
		e.config.managerialTitles = toSet(strings.Split(s, ","))
	}
	if s := envs["STATISTICS_OPERATIONAL_DEPARTMENTS"]; s != "" {
		e.config.operationalDepartments = toSet(strings.Split(s, ","))
	}
	return nil
}

func (e *engine) Compute(employees []*data.Employee, now time.Time) *data.Statistics {
	e.RLock()
	defer e.RUnlock()

	active := filter(employees, func(employee *data.Employee) bool {
		return employee.Active()
	})
	managerial := filter(active, func(employee *data.Employee) bool {
		_, ok := e.config.managerialTitles[employee.JobTitle]
		return ok
	})
	operational := filter(active, func(employee *data.Employee) bool {
		_, ok := e.config.operationalDepartments[employee.Department]
		return ok
	})
	statistics := &data.Statistics{
		GeneratedAt:                   now.Unix(),
		ActiveEmployees:               len(active),
		AverageSalaryByDepartment:     averageSalaryByDepartment(active),
		NetSalaryTrendByHireYear:      netSalaryTrendByHireYear(active),
		TotalMonthlyBonuses:           sum(active, func(e *data.Employee) decimal.Decimal { return e.Bonus }),
		TotalMonthlyDeductions:        sum(active, func(e *data.Employee) decimal.Decimal { return e.Deduction }),
		AverageBaseSalary:             average(active, func(e *data.Employee) decimal.Decimal { return e.BaseSalary }),
		NetSalaryGrowth:               netSalaryGrowth(active, now),
		AverageAge:                    averageAge(active, now),
		SexDistribution:               sexDistribution(active),
		AverageAgeManagerial:          averageAge(managerial, now),
		AverageAgeOperational:         averageAge(operational, now),
		AverageEvaluationByDepartment: averageEvaluationByDepartment(active),
		SalaryPerformanceCorrelation:  salaryPerformanceCorrelation(active),
		EvaluationAbove95:             performersAbove(active, HighPerformerThreshold),
		EvaluationAbove70:             performersAbove(active, SolidPerformerThreshold),
		AverageTenure:                 averageTenure(active, now),
		TenureSalaryCorrelation:       tenureSalaryCorrelation(active, now),
		TenureAbove10:                 tenureAbove(active, now, LongTenureYears),
	}
	statistics.AveragePermanence = statistics.AverageTenure
	return statistics
}
