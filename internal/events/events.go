package events

import (
	"context"
	"time"

	"github.com/antonio-alexander/go-employee-stats/internal"
	"github.com/antonio-alexander/go-employee-stats/internal/data"
)

// Publisher announces employee mutations, a failure to publish never
// fails the mutation itself
type Publisher interface {
	Publish(ctx context.Context, event *data.EmployeeEvent) error
}

// NewEmployeeEvent populates the id, correlation id and timestamp of an
// event, employee is nil for deletions
func NewEmployeeEvent(ctx context.Context, eventType data.EventType, id int64, employee *data.Employee) *data.EmployeeEvent {
	event := &data.EmployeeEvent{
		Id:            internal.GenerateId(),
		Type:          eventType,
		EmployeeId:    id,
		CorrelationId: internal.CorrelationIdFromCtx(ctx),
		Timestamp:     time.Now().UnixNano(),
	}
	if employee != nil {
		event.Employee = data.CopyEmployee(employee)
	}
	return event
}
