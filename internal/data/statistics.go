package data

type DepartmentAverage struct {
	Department string  `json:"departamento"`
	Average    float64 `json:"promedio"`
}

// DepartmentEvaluation average is nil when none of the employees in the
// department have been evaluated
type DepartmentEvaluation struct {
	Department string   `json:"departamento"`
	Average    *float64 `json:"promedio"`
}

type HireYearAverage struct {
	Year             int     `json:"anio"`
	AverageNetSalary float64 `json:"promedio_salario_neto"`
}

type SexCount struct {
	Sex   string `json:"sexo"`
	Total int    `json:"total"`
}

// NetSalaryGrowth compares the average net salary of the employees hired
// in the current year against those hired the previous year
type NetSalaryGrowth struct {
	Percentage      float64 `json:"porcentaje"`
	Available       bool    `json:"disponible"`
	CurrentYear     int     `json:"anio_actual"`
	PreviousYear    int     `json:"anio_anterior"`
	CurrentCount    int     `json:"total_anio_actual"`
	PreviousCount   int     `json:"total_anio_anterior"`
	CurrentAverage  float64 `json:"promedio_anio_actual"`
	PreviousAverage float64 `json:"promedio_anio_anterior"`
}

// Correlation coefficient is nil when it's undefined (less than two
// observations or no variance)
type Correlation struct {
	Coefficient *float64 `json:"coeficiente"`
	SampleSize  int      `json:"n"`
}

type PerformerSummary struct {
	Id         int64   `json:"id_empleado"`
	Name       string  `json:"nombre"`
	Evaluation float64 `json:"evaluacion_desempeno"`
}

type TenureSummary struct {
	Id     int64  `json:"id_empleado"`
	Name   string `json:"nombre"`
	Tenure int    `json:"antiguedad"`
}

type Statistics struct {
	GeneratedAt                   int64                  `json:"generado"`
	ActiveEmployees               int                    `json:"total_empleados_activos"`
	AverageSalaryByDepartment     []DepartmentAverage    `json:"promedio_salario_por_departamento"`
	NetSalaryTrendByHireYear      []HireYearAverage      `json:"tendencia_salario_neto_por_anio"`
	TotalMonthlyBonuses           float64                `json:"total_bonificaciones_mensuales"`
	TotalMonthlyDeductions        float64                `json:"total_descuentos_mensuales"`
	AverageBaseSalary             float64                `json:"promedio_salario_base"`
	NetSalaryGrowth               NetSalaryGrowth        `json:"crecimiento_salario_neto"`
	AverageAge                    float64                `json:"edad_promedio"`
	SexDistribution               []SexCount             `json:"distribucion_sexo"`
	AverageAgeManagerial          float64                `json:"edad_promedio_directivo"`
	AverageAgeOperational         float64                `json:"edad_promedio_operativo"`
	AverageEvaluationByDepartment []DepartmentEvaluation `json:"evaluacion_promedio_por_departamento"`
	SalaryPerformanceCorrelation  Correlation            `json:"correlacion_salario_desempeno"`
	EvaluationAbove95             []PerformerSummary     `json:"empleados_con_eval_gt_95"`
	EvaluationAbove70             []PerformerSummary     `json:"personal_eval_gt_70"`
	AverageTenure                 float64                `json:"antiguedad_promedio"`
	TenureSalaryCorrelation       Correlation            `json:"correlacion_antiguedad_salario"`
	AveragePermanence             float64                `json:"tiempo_promedio_permanencia"`
	TenureAbove10                 []TenureSummary        `json:"personal_mas_10_anos"`
}
