package data

const (
	RouteEmpleados                string = "/v1/empleados"
	RouteEmpleadosEstadisticas    string = RouteEmpleados + "/estadisticas"
	RouteEmpleadosEstadisticasPdf string = RouteEmpleadosEstadisticas + "/pdf"
	RouteEmpleadosId              string = RouteEmpleados + "/{" + PathId + ":[0-9]+}"
	RouteEmpleadosIdf             string = RouteEmpleados + "/%d"
	RouteEmpleadosIdCalculos      string = RouteEmpleadosId + "/calculos"
	RouteEmpleadosIdCalculosf     string = RouteEmpleadosIdf + "/calculos"
	RouteCache                    string = "/cache"
	RouteCacheCounters            string = RouteCache + "/counters"
	RouteTimers                   string = "/timers"
)

const PathId string = "id"

const (
	ParameterIds          string = "ids"
	ParameterDepartment   string = "departamento"
	ParameterSex          string = "sexo"
	ParameterWithInactive string = "with_inactive"
	ParameterPage         string = "page"
	ParameterPerPage      string = "per_page"
	ParameterForce        string = "force"
)

const (
	StatusInactive int = 0
	StatusActive   int = 1
)

const (
	SexMale   string = "M"
	SexFemale string = "F"
	SexOther  string = "O"
)

type DeleteResponse struct {
	Deleted     bool `json:"deleted,omitempty"`
	SoftDeleted bool `json:"soft_deleted,omitempty"`
}

type ErrorResponse struct {
	Error      string       `json:"error"`
	Fields     []FieldIssue `json:"fields,omitempty"`
	Rule       string       `json:"rule,omitempty"`
	EmployeeId int64        `json:"employee_id,omitempty"`
}
