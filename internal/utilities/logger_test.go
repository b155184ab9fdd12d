package utilities_test

import (
	"bytes"
	"context"
	"testing"

	"github.com/antonio-alexander/go-employee-stats/internal"
	"github.com/antonio-alexander/go-employee-stats/internal/utilities"

	"github.com/stretchr/testify/assert"
)

func TestLogger(t *testing.T) {
	buffer := &bytes.Buffer{}
	logger := utilities.NewLogger(buffer)
	err := logger.Configure(map[string]string{"LOG_LEVEL": "info"})
	assert.Nil(t, err)

	ctx := internal.CtxWithCorrelationId(context.TODO(), "abc123")
	logger.Debug(ctx, "this is filtered")
	assert.Empty(t, buffer.String())

	logger.Info(ctx, "employee %d created", 42)
	assert.Contains(t, buffer.String(), `"level":"info"`)
	assert.Contains(t, buffer.String(), `"correlation_id":"abc123"`)
	assert.Contains(t, buffer.String(), `employee 42 created`)

	buffer.Reset()
	logger.Error(context.TODO(), "failure")
	assert.Contains(t, buffer.String(), `"level":"error"`)
	assert.NotContains(t, buffer.String(), "correlation_id")
}
