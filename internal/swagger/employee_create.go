package swagger

import "github.com/antonio-alexander/go-employee-stats/internal/data"

// swagger:route POST /v1/empleados Employee CreateEmployee
// Creates an employee, all fields are validated and the business rules
// (minimum age, birth before hire, deduction within gross) are checked.
//
//     Consumes:
//     - application/json
//
//     Produces:
//     - application/json
//
// responses:
//   201: EmployeeCreateResponseCreated
//   400: ErrorResponseBadRequest
//   403: ErrorResponseForbidden
//   422: ErrorResponseUnprocessableEntity

// swagger:response EmployeeCreateResponseCreated
type EmployeeCreateResponseCreated struct {
	// in:body
	Employee data.Employee
}

// swagger:parameters CreateEmployee
type EmployeeCreateParams struct {
	// in:body
	EmployeePartial data.EmployeePartial

	// in:header
	CorrelationId string `json:"Correlation-Id"`
}
