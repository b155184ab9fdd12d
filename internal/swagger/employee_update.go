package swagger

import "github.com/antonio-alexander/go-employee-stats/internal/data"

// swagger:route PATCH /v1/empleados/{id} Employee UpdateEmployee
// Updates the provided fields of an employee, the business rules are
// checked against the merged employee. PUT is accepted as well.
//
//     Consumes:
//     - application/json
//
//     Produces:
//     - application/json
//
// responses:
//   200: EmployeeUpdateResponseOk
//   400: ErrorResponseBadRequest
//   403: ErrorResponseForbidden
//   404: ErrorResponseNotFound
//   422: ErrorResponseUnprocessableEntity

// swagger:response EmployeeUpdateResponseOk
type EmployeeUpdateResponseOk struct {
	// in:body
	Employee data.Employee
}

// swagger:parameters UpdateEmployee
type EmployeeUpdateParams struct {
	// in:path
	Id int64 `json:"id"`

	// in:body
	EmployeePartial data.EmployeePartial

	// in:header
	CorrelationId string `json:"Correlation-Id"`
}
