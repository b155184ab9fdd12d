package swagger

import "github.com/antonio-alexander/go-employee-stats/internal/data"

// swagger:route GET /v1/empleados Employee SearchEmployees
// Lists employees (active only unless with_inactive is set), paginated.
//
//     Produces:
//     - application/json
//
// responses:
//   200: EmployeesSearchResponseOk

// swagger:response EmployeesSearchResponseOk
type EmployeesSearchResponseOk struct {
	// in:body
	Page data.EmployeePage
}

// swagger:parameters SearchEmployees
type EmployeesSearchParams struct {
	// in:query
	data.EmployeeSearch

	// in:header
	CorrelationId string `json:"Correlation-Id"`
}
