package service

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"strconv"

	"github.com/antonio-alexander/go-employee-stats/internal"
	"github.com/antonio-alexander/go-employee-stats/internal/data"

	"github.com/pkg/errors"
)

func getCorrelationId(request *http.Request) string {
	return request.Header.Get(internal.HeaderCorrelationId)
}

func malformed(err error) error {
	return errors.Wrap(data.ErrMalformedRequest, err.Error())
}

func idFromPath(pathVariables map[string]string) (int64, error) {
	id, err := strconv.ParseInt(pathVariables[data.PathId], 10, 64)
	if err != nil {
		return 0, malformed(err)
	}
	return id, nil
}

func employeePartialFromBody(request *http.Request) (data.EmployeePartial, error) {
	var employeePartial data.EmployeePartial

	bytes, err := io.ReadAll(request.Body)
	defer request.Body.Close()
	if err != nil {
		return data.EmployeePartial{}, malformed(err)
	}
	if err := json.Unmarshal(bytes, &employeePartial); err != nil {
		return data.EmployeePartial{}, malformed(err)
	}
	return employeePartial, nil
}

// errorStatus maps the error taxonomy to an http status code
func errorStatus(err error) int {
	var validationErr *data.ValidationError
	var businessErr *data.BusinessRuleError
	var integrityErr *data.IntegrityError

	switch {
	default:
		return http.StatusInternalServerError
	case errors.Is(err, data.ErrMalformedRequest):
		return http.StatusBadRequest
	case errors.Is(err, data.ErrMutationDisabled):
		return http.StatusForbidden
	case errors.Is(err, data.ErrEmployeeNotFound),
		errors.Is(err, data.ErrEmployeeInactive):
		return http.StatusNotFound
	case errors.As(err, &integrityErr):
		return http.StatusConflict
	case errors.As(err, &validationErr),
		errors.As(err, &businessErr):
		return http.StatusUnprocessableEntity
	}
}

func errorResponse(err error) *data.ErrorResponse {
	var validationErr *data.ValidationError
	var businessErr *data.BusinessRuleError
	var integrityErr *data.IntegrityError

	response := &data.ErrorResponse{Error: err.Error()}
	switch {
	case errors.As(err, &validationErr):
		response.Fields = validationErr.Issues
	case errors.As(err, &businessErr):
		response.Error, response.Rule = businessErr.Message, businessErr.Rule
	case errors.As(err, &integrityErr):
		response.Error, response.EmployeeId = integrityErr.Message, integrityErr.EmployeeId
	}
	return response
}

func (s *service) handleResponse(ctx context.Context, writer http.ResponseWriter, err error, items ...any) {
	s.handleResponseStatus(ctx, writer, http.StatusOK, err, items...)
}

func (s *service) handleResponseStatus(ctx context.Context, writer http.ResponseWriter, statusCode int, err error, items ...any) {
	var bytes []byte

	if err == nil {
		if len(items) <= 0 {
			writer.WriteHeader(http.StatusNoContent)
			return
		}
		bytes, err = json.Marshal(items[0])
	}
	if err != nil {
		statusCode = errorStatus(err)
		switch {
		default:
			s.Debug(ctx, "request failed (%d): %s", statusCode, err)
		case statusCode >= http.StatusInternalServerError:
			s.Error(ctx, "request failed (%d): %s", statusCode, err)
		}
		if bytes, err = json.Marshal(errorResponse(err)); err != nil {
			s.Error(ctx, "error handling response: %s", err)
			writer.WriteHeader(http.StatusInternalServerError)
			return
		}
	}
	writer.Header().Set("Content-Type", "application/json; charset=utf-8")
	writer.WriteHeader(statusCode)
	if _, err := writer.Write(bytes); err != nil {
		s.Error(ctx, "error handling response: %s", err)
	}
}
