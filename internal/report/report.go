package report

import (
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/antonio-alexander/go-employee-stats/internal/data"

	"github.com/jung-kurt/gofpdf"
)

const (
	fontFamily  string  = "Helvetica"
	lineHeight  float64 = 7
	labelWidth  float64 = 110
	columnWidth float64 = 60
)

type statisticsPdf struct {
	*gofpdf.Fpdf
	translate func(string) string
}

// StatisticsPdf renders the statistics report as an A4 document
func StatisticsPdf(statistics *data.Statistics, w io.Writer) error {
	pdf := &statisticsPdf{Fpdf: gofpdf.New("P", "mm", "A4", "")}
	pdf.translate = pdf.UnicodeTranslatorFromDescriptor("")
	pdf.SetTitle("Estadisticas de empleados", true)
	pdf.AddPage()

	pdf.SetFont(fontFamily, "B", 16)
	pdf.Cell(0, 10, pdf.translate("Estadísticas de empleados"))
	pdf.Ln(10)
	pdf.SetFont(fontFamily, "", 10)
	pdf.Cell(0, lineHeight, fmt.Sprintf("Generado: %s",
		time.Unix(statistics.GeneratedAt, 0).UTC().Format(time.RFC3339)))
	pdf.Ln(lineHeight + 3)

	pdf.section("Resumen")
	pdf.row("Empleados activos", fmt.Sprint(statistics.ActiveEmployees))
	pdf.row("Salario base promedio", money(statistics.AverageBaseSalary))
	pdf.row("Total bonificaciones mensuales", money(statistics.TotalMonthlyBonuses))
	pdf.row("Total descuentos mensuales", money(statistics.TotalMonthlyDeductions))
	pdf.row("Edad promedio", number(statistics.AverageAge))
	pdf.row("Edad promedio (directivo)", number(statistics.AverageAgeManagerial))
	pdf.row("Edad promedio (operativo)", number(statistics.AverageAgeOperational))
	pdf.row("Antigüedad promedio", number(statistics.AverageTenure))
	pdf.row("Tiempo promedio de permanencia", number(statistics.AveragePermanence))
	growth := "no disponible"
	if statistics.NetSalaryGrowth.Available {
		growth = fmt.Sprintf("%.2f%% (%d vs %d)", statistics.NetSalaryGrowth.Percentage,
			statistics.NetSalaryGrowth.CurrentYear, statistics.NetSalaryGrowth.PreviousYear)
	}
	pdf.row("Crecimiento salario neto", growth)
	pdf.row("Correlación salario / desempeño", correlation(statistics.SalaryPerformanceCorrelation))
	pdf.row("Correlación antigüedad / salario", correlation(statistics.TenureSalaryCorrelation))

	pdf.section("Salario promedio por departamento")
	for _, average := range statistics.AverageSalaryByDepartment {
		pdf.row(average.Department, money(average.Average))
	}

	pdf.section("Evaluación promedio por departamento")
	for _, average := range statistics.AverageEvaluationByDepartment {
		value := "sin evaluaciones"
		if average.Average != nil {
			value = number(*average.Average)
		}
		pdf.row(average.Department, value)
	}

	pdf.section("Tendencia del salario neto por año de contratación")
	for _, average := range statistics.NetSalaryTrendByHireYear {
		pdf.row(fmt.Sprint(average.Year), money(average.AverageNetSalary))
	}

	pdf.section("Distribución por sexo")
	for _, count := range statistics.SexDistribution {
		pdf.row(count.Sex, fmt.Sprint(count.Total))
	}

	pdf.section("Evaluación mayor a 95")
	pdf.performers(statistics.EvaluationAbove95)
	pdf.section("Evaluación mayor a 70")
	pdf.performers(statistics.EvaluationAbove70)

	pdf.section("Más de 10 años de antigüedad")
	if len(statistics.TenureAbove10) == 0 {
		pdf.row("-", "")
	}
	for _, tenure := range statistics.TenureAbove10 {
		pdf.row(fmt.Sprintf("%d - %s", tenure.Id, tenure.Name),
			fmt.Sprintf("%d años", tenure.Tenure))
	}
	if err := pdf.Error(); err != nil {
		return err
	}
	return pdf.Output(w)
}

func (p *statisticsPdf) section(title string) {
	p.Ln(3)
	p.SetFont(fontFamily, "B", 12)
	p.Cell(0, lineHeight+1, p.translate(title))
	p.Ln(lineHeight + 1)
	p.SetFont(fontFamily, "", 10)
}

func (p *statisticsPdf) row(label, value string) {
	p.CellFormat(labelWidth, lineHeight, p.translate(label), "", 0, "L", false, 0, "")
	p.CellFormat(columnWidth, lineHeight, p.translate(value), "", 0, "R", false, 0, "")
	p.Ln(lineHeight)
}

func (p *statisticsPdf) performers(performers []data.PerformerSummary) {
	if len(performers) == 0 {
		p.row("-", "")
	}
	for _, performer := range performers {
		p.row(fmt.Sprintf("%d - %s", performer.Id, performer.Name),
			number(performer.Evaluation))
	}
}

func money(f float64) string {
	return "$" + number(f)
}

func number(f float64) string {
	return strings.TrimSuffix(strings.TrimRight(fmt.Sprintf("%.2f", f), "0"), ".")
}

func correlation(c data.Correlation) string {
	if c.Coefficient == nil {
		return fmt.Sprintf("no definida (n=%d)", c.SampleSize)
	}
	return fmt.Sprintf("%.2f (n=%d)", *c.Coefficient, c.SampleSize)
}
