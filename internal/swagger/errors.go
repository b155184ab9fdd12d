package swagger

import "github.com/antonio-alexander/go-employee-stats/internal/data"

// Malformed request (e.g. invalid json)
// swagger:response ErrorResponseBadRequest
type ErrorResponseBadRequest struct {
	// in:body
	Error data.ErrorResponse
}

// Mutations are disabled
// swagger:response ErrorResponseForbidden
type ErrorResponseForbidden struct {
	// in:body
	Error data.ErrorResponse
}

// Employee not found or not active
// swagger:response ErrorResponseNotFound
type ErrorResponseNotFound struct {
	// in:body
	Error data.ErrorResponse
}

// Stored employee breaks an invariant (employee_id is set)
// swagger:response ErrorResponseConflict
type ErrorResponseConflict struct {
	// in:body
	Error data.ErrorResponse
}

// Validation error (fields is set) or business rule violation (rule is set)
// swagger:response ErrorResponseUnprocessableEntity
type ErrorResponseUnprocessableEntity struct {
	// in:body
	Error data.ErrorResponse
}
