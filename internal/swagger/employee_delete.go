package swagger

import "github.com/antonio-alexander/go-employee-stats/internal/data"

// swagger:route DELETE /v1/empleados/{id} Employee DeleteEmployee
// Deactivates an employee, with force=true the employee is deleted.
//
//     Produces:
//     - application/json
//
// responses:
//   200: EmployeeDeleteResponseOk
//   403: ErrorResponseForbidden
//   404: ErrorResponseNotFound

// swagger:response EmployeeDeleteResponseOk
type EmployeeDeleteResponseOk struct {
	// in:body
	DeleteResponse data.DeleteResponse
}

// swagger:parameters DeleteEmployee
type EmployeeDeleteParams struct {
	// in:path
	Id int64 `json:"id"`

	// in:query
	Force bool `json:"force"`

	// in:header
	CorrelationId string `json:"Correlation-Id"`
}
