package swagger

import "github.com/antonio-alexander/go-employee-stats/internal/data"

// swagger:route GET /v1/empleados/estadisticas Statistics ReadStatistics
// Computes the statistics report over the active employees.
//
//     Produces:
//     - application/json
//
// responses:
//   200: StatisticsReadResponseOk

// swagger:response StatisticsReadResponseOk
type StatisticsReadResponseOk struct {
	// in:body
	Statistics data.Statistics
}

// swagger:parameters ReadStatistics
type StatisticsReadParams struct {
	// in:header
	CorrelationId string `json:"Correlation-Id"`
}
