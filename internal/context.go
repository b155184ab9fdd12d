package internal

import "context"

// HeaderCorrelationId is the http header used to propagate a correlation id
const HeaderCorrelationId string = "Correlation-Id"

type ctxKeyCorrelationId struct{}

func CtxWithCorrelationId(ctx context.Context, correlationId string) context.Context {
	if correlationId == "" {
		correlationId = GenerateId()
	}
	return context.WithValue(ctx, ctxKeyCorrelationId{}, correlationId)
}

func CorrelationIdFromCtx(ctx context.Context) string {
	if ctx == nil {
		return ""
	}
	if correlationId, ok := ctx.Value(ctxKeyCorrelationId{}).(string); ok {
		return correlationId
	}
	return ""
}
