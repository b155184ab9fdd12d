package swagger

// swagger:route GET /v1/empleados/estadisticas/pdf Statistics ReadStatisticsPdf
// Renders the statistics report as a pdf document.
//
//     Produces:
//     - application/pdf
//
// responses:
//   200: StatisticsPdfResponseOk

// swagger:response StatisticsPdfResponseOk
type StatisticsPdfResponseOk struct {
	// in:body
	Pdf []byte
}

// swagger:parameters ReadStatisticsPdf
type StatisticsPdfParams struct {
	// in:header
	CorrelationId string `json:"Correlation-Id"`
}
