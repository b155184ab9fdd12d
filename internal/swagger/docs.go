// Package Swagger go-employee-stats
//
// An API to manage employee records and read their salary and
// performance statistics.
//
//   Schemes: http, https
//   Version: 1.0
//   Host: localhost:8080
//   BasePath:/
//
//   Consumes:
//   - application/json
//
//   Produces:
//   - application/json
//
// swagger:meta
package swagger
