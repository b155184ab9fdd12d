package statistics

import (
	"sort"
	"time"

	"github.com/antonio-alexander/go-employee-stats/internal/data"

	"github.com/shopspring/decimal"
)

func filter(employees []*data.Employee, fx func(*data.Employee) bool) []*data.Employee {
	filtered := make([]*data.Employee, 0, len(employees))
	for _, employee := range employees {
		if employee != nil && fx(employee) {
			filtered = append(filtered, employee)
		}
	}
	return filtered
}

func toFloat(d decimal.Decimal) float64 {
	return d.Round(2).InexactFloat64()
}

func mean(values []decimal.Decimal) decimal.Decimal {
	if len(values) == 0 {
		return decimal.Zero
	}
	return decimal.Avg(values[0], values[1:]...)
}

func sum(employees []*data.Employee, fx func(*data.Employee) decimal.Decimal) float64 {
	total := decimal.Zero
	for _, employee := range employees {
		total = total.Add(fx(employee))
	}
	return toFloat(total)
}

func average(employees []*data.Employee, fx func(*data.Employee) decimal.Decimal) float64 {
	values := make([]decimal.Decimal, 0, len(employees))
	for _, employee := range employees {
		values = append(values, fx(employee))
	}
	return toFloat(mean(values))
}

func averageInt(values []int) float64 {
	var total int

	if len(values) == 0 {
		return 0
	}
	for _, value := range values {
		total += value
	}
	return Round(float64(total)/float64(len(values)), 2)
}

func groupByDepartment(employees []*data.Employee) ([]string, map[string][]*data.Employee) {
	var departments []string

	groups := make(map[string][]*data.Employee)
	for _, employee := range employees {
		if _, ok := groups[employee.Department]; !ok {
			departments = append(departments, employee.Department)
		}
		groups[employee.Department] = append(groups[employee.Department], employee)
	}
	sort.Strings(departments)
	return departments, groups
}

func averageSalaryByDepartment(employees []*data.Employee) []data.DepartmentAverage {
	departments, groups := groupByDepartment(employees)
	averages := make([]data.DepartmentAverage, 0, len(departments))
	for _, department := range departments {
		averages = append(averages, data.DepartmentAverage{
			Department: department,
			Average: average(groups[department], func(e *data.Employee) decimal.Decimal {
				return e.BaseSalary
			}),
		})
	}
	return averages
}

func averageEvaluationByDepartment(employees []*data.Employee) []data.DepartmentEvaluation {
	departments, groups := groupByDepartment(employees)
	averages := make([]data.DepartmentEvaluation, 0, len(departments))
	for _, department := range departments {
		var evaluations []decimal.Decimal

		for _, employee := range groups[department] {
			if employee.Evaluation != nil {
				evaluations = append(evaluations, *employee.Evaluation)
			}
		}
		evaluation := data.DepartmentEvaluation{Department: department}
		if len(evaluations) > 0 {
			value := toFloat(mean(evaluations))
			evaluation.Average = &value
		}
		averages = append(averages, evaluation)
	}
	return averages
}

func netSalaryTrendByHireYear(employees []*data.Employee) []data.HireYearAverage {
	var years []int

	groups := make(map[int][]decimal.Decimal)
	for _, employee := range employees {
		year := employee.HireDate.Year()
		if _, ok := groups[year]; !ok {
			years = append(years, year)
		}
		groups[year] = append(groups[year], employee.NetSalary())
	}
	sort.Ints(years)
	trend := make([]data.HireYearAverage, 0, len(years))
	for _, year := range years {
		trend = append(trend, data.HireYearAverage{
			Year:             year,
			AverageNetSalary: toFloat(mean(groups[year])),
		})
	}
	return trend
}

func netSalaryGrowth(employees []*data.Employee, now time.Time) data.NetSalaryGrowth {
	var current, previous []decimal.Decimal

	growth := data.NetSalaryGrowth{
		CurrentYear:  now.Year(),
		PreviousYear: now.Year() - 1,
	}
	for _, employee := range employees {
		switch employee.HireDate.Year() {
		case growth.CurrentYear:
			current = append(current, employee.NetSalary())
		case growth.PreviousYear:
			previous = append(previous, employee.NetSalary())
		}
	}
	currentAverage, previousAverage := mean(current), mean(previous)
	growth.CurrentCount, growth.PreviousCount = len(current), len(previous)
	growth.CurrentAverage, growth.PreviousAverage = toFloat(currentAverage), toFloat(previousAverage)
	if len(current) == 0 || len(previous) == 0 || !previousAverage.IsPositive() {
		return growth
	}
	growth.Percentage = currentAverage.Sub(previousAverage).
		Div(previousAverage).
		Mul(decimal.NewFromInt(100)).
		Round(2).
		InexactFloat64()
	growth.Available = true
	return growth
}

func averageAge(employees []*data.Employee, now time.Time) float64 {
	ages := make([]int, 0, len(employees))
	for _, employee := range employees {
		ages = append(ages, employee.Age(now))
	}
	return averageInt(ages)
}

func averageTenure(employees []*data.Employee, now time.Time) float64 {
	tenures := make([]int, 0, len(employees))
	for _, employee := range employees {
		tenures = append(tenures, employee.Tenure(now))
	}
	return averageInt(tenures)
}

func sexDistribution(employees []*data.Employee) []data.SexCount {
	var sexes []string

	counts := make(map[string]int)
	for _, employee := range employees {
		if _, ok := counts[employee.Sex]; !ok {
			sexes = append(sexes, employee.Sex)
		}
		counts[employee.Sex]++
	}
	sort.Strings(sexes)
	distribution := make([]data.SexCount, 0, len(sexes))
	for _, sex := range sexes {
		distribution = append(distribution, data.SexCount{
			Sex:   sex,
			Total: counts[sex],
		})
	}
	return distribution
}

func correlation(x, y []float64) data.Correlation {
	c := data.Correlation{SampleSize: min(len(x), len(y))}
	if coefficient, ok := Pearson(x, y); ok {
		c.Coefficient = &coefficient
	}
	return c
}

// salaryPerformanceCorrelation only considers evaluated employees, the
// salary and evaluation of each pair come from the same employee
func salaryPerformanceCorrelation(employees []*data.Employee) data.Correlation {
	var salaries, evaluations []float64

	for _, employee := range employees {
		if employee.Evaluation == nil {
			continue
		}
		salaries = append(salaries, employee.BaseSalary.InexactFloat64())
		evaluations = append(evaluations, employee.Evaluation.InexactFloat64())
	}
	return correlation(salaries, evaluations)
}

func tenureSalaryCorrelation(employees []*data.Employee, now time.Time) data.Correlation {
	tenures := make([]float64, 0, len(employees))
	salaries := make([]float64, 0, len(employees))
	for _, employee := range employees {
		tenures = append(tenures, float64(employee.Tenure(now)))
		salaries = append(salaries, employee.BaseSalary.InexactFloat64())
	}
	return correlation(tenures, salaries)
}

func performersAbove(employees []*data.Employee, threshold int64) []data.PerformerSummary {
	limit := decimal.NewFromInt(threshold)
	performers := make([]data.PerformerSummary, 0)
	for _, employee := range employees {
		if employee.Evaluation == nil || !employee.Evaluation.GreaterThan(limit) {
			continue
		}
		performers = append(performers, data.PerformerSummary{
			Id:         employee.Id,
			Name:       employee.Name,
			Evaluation: toFloat(*employee.Evaluation),
		})
	}
	return performers
}

func tenureAbove(employees []*data.Employee, now time.Time, years int) []data.TenureSummary {
	summaries := make([]data.TenureSummary, 0)
	for _, employee := range employees {
		if tenure := employee.Tenure(now); tenure > years {
			summaries = append(summaries, data.TenureSummary{
				Id:     employee.Id,
				Name:   employee.Name,
				Tenure: tenure,
			})
		}
	}
	return summaries
}
