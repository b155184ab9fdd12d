package data

import "encoding/json"

type EventType string

const (
	EventEmployeeCreated     EventType = "employee_created"
	EventEmployeeUpdated     EventType = "employee_updated"
	EventEmployeeDeactivated EventType = "employee_deactivated"
	EventEmployeeDeleted     EventType = "employee_deleted"
)

type EmployeeEvent struct {
	Id            string    `json:"id"`
	Type          EventType `json:"type"`
	EmployeeId    int64     `json:"employee_id"`
	Employee      *Employee `json:"employee,omitempty"`
	CorrelationId string    `json:"correlation_id,omitempty"`
	Timestamp     int64     `json:"timestamp"` //unix nano
}

func (e *EmployeeEvent) MarshalBinary() ([]byte, error) {
	return json.Marshal(e)
}

func (e *EmployeeEvent) UnmarshalBinary(data []byte) error {
	return json.Unmarshal(data, e)
}
