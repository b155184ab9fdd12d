package swagger

import "github.com/antonio-alexander/go-employee-stats/internal/data"

// swagger:route GET /v1/empleados/{id}/calculos Employee ReadEmployeeCalculations
// Reads the salary and performance calculations of an active employee.
//
//     Produces:
//     - application/json
//
// responses:
//   200: EmployeeCalculationsResponseOk
//   404: ErrorResponseNotFound
//   409: ErrorResponseConflict

// swagger:response EmployeeCalculationsResponseOk
type EmployeeCalculationsResponseOk struct {
	// in:body
	Calculations data.EmployeeCalculations
}

// swagger:parameters ReadEmployeeCalculations
type EmployeeCalculationsParams struct {
	// in:path
	Id int64 `json:"id"`

	// in:header
	CorrelationId string `json:"Correlation-Id"`
}
