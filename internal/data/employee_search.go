package data

import (
	"fmt"
	"net/url"
	"strconv"
	"strings"
)

const DefaultPerPage int = 15

type EmployeeSearch struct {
	Ids          []int64 `json:"ids,omitempty"`
	Department   string  `json:"departamento,omitempty"`
	Sex          string  `json:"sexo,omitempty"`
	WithInactive bool    `json:"with_inactive,omitempty"`
	Page         int     `json:"page,omitempty"`
	PerPage      int     `json:"per_page,omitempty"` //zero means no pagination
}

type EmployeePage struct {
	Data        []*Employee `json:"data"`
	CurrentPage int         `json:"current_page"`
	PerPage     int         `json:"per_page"`
	Total       int64       `json:"total"`
	LastPage    int         `json:"last_page"`
}

func NewEmployeePage(employees []*Employee, search EmployeeSearch, total int64) *EmployeePage {
	page := &EmployeePage{
		Data:        employees,
		CurrentPage: search.Page,
		PerPage:     search.PerPage,
		Total:       total,
		LastPage:    1,
	}
	if page.Data == nil {
		page.Data = []*Employee{}
	}
	if page.CurrentPage < 1 {
		page.CurrentPage = 1
	}
	if search.PerPage > 0 && total > 0 {
		page.LastPage = int((total + int64(search.PerPage) - 1) / int64(search.PerPage))
	}
	return page
}

// Offset returns the number of rows to skip for the configured page
func (e *EmployeeSearch) Offset() int {
	if e.PerPage <= 0 || e.Page <= 1 {
		return 0
	}
	return (e.Page - 1) * e.PerPage
}

func (e *EmployeeSearch) ToParams() url.Values {
	params := make(url.Values)
	if len(e.Ids) > 0 {
		var ids []string
		for _, id := range e.Ids {
			ids = append(ids, fmt.Sprint(id))
		}
		params.Set(ParameterIds, strings.Join(ids, ","))
	}
	if e.Department != "" {
		params.Set(ParameterDepartment, e.Department)
	}
	if e.Sex != "" {
		params.Set(ParameterSex, e.Sex)
	}
	if e.WithInactive {
		params.Set(ParameterWithInactive, "true")
	}
	if e.Page > 0 {
		params.Set(ParameterPage, strconv.Itoa(e.Page))
	}
	if e.PerPage > 0 {
		params.Set(ParameterPerPage, strconv.Itoa(e.PerPage))
	}
	return params
}

func (e *EmployeeSearch) FromParams(params url.Values) {
	for key, value := range params {
		if len(value) == 0 {
			continue
		}
		switch strings.ToLower(key) {
		case ParameterIds:
			for _, value := range value {
				for _, v := range strings.Split(value, ",") {
					if id, err := strconv.ParseInt(v, 10, 64); err == nil {
						e.Ids = append(e.Ids, id)
					}
				}
			}
		case ParameterDepartment:
			e.Department = value[0]
		case ParameterSex:
			e.Sex = value[0]
		case ParameterWithInactive:
			e.WithInactive = ParseBool(value[0])
		case ParameterPage:
			e.Page, _ = strconv.Atoi(value[0])
		case ParameterPerPage:
			e.PerPage, _ = strconv.Atoi(value[0])
		}
	}
}

// ParseBool is lenient in the same way query string booleans usually
// are: 1, true, on and yes are all true
func ParseBool(s string) bool {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "1", "true", "on", "yes":
		return true
	}
	return false
}
