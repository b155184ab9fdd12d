package swagger

import "github.com/antonio-alexander/go-employee-stats/internal/data"

// swagger:route GET /v1/empleados/{id} Employee ReadEmployee
// Reads an active employee using its id.
//
//     Produces:
//     - application/json
//
// responses:
//   200: EmployeeReadResponseOk
//   404: ErrorResponseNotFound

// swagger:response EmployeeReadResponseOk
type EmployeeReadResponseOk struct {
	// in:body
	Employee data.Employee
}

// swagger:parameters ReadEmployee
type EmployeeReadParams struct {
	// in:path
	Id int64 `json:"id"`

	// in:header
	CorrelationId string `json:"Correlation-Id"`
}
