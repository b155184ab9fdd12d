package sql

import (
	"context"
	"database/sql"
	"fmt"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/antonio-alexander/go-employee-stats/internal"
	"github.com/antonio-alexander/go-employee-stats/internal/data"
	"github.com/antonio-alexander/go-employee-stats/internal/utilities"

	"github.com/cenkalti/backoff/v5"
	"github.com/pkg/errors"
)

const tableEmployees = "empleados"

const employeeColumns = `id_empleado, nombre, departamento, puesto, dui,
		telefono, correo, salario_base, bonificacion, descuento,
		fecha_contratacion, fecha_nacimiento, sexo, evaluacion_desempeno,
		estado, created_at, updated_at`

// Sql is the persistence contract for employee records, EmployeesSearch
// returns the matching page along with the total number of matches
type Sql interface {
	EmployeeCreate(ctx context.Context, employeePartial data.EmployeePartial) (*data.Employee, error)
	EmployeeRead(ctx context.Context, id int64) (*data.Employee, error)
	EmployeesSearch(ctx context.Context, search data.EmployeeSearch) ([]*data.Employee, int64, error)
	EmployeeUpdate(ctx context.Context, id int64, employeePartial data.EmployeePartial) (*data.Employee, error)
	EmployeeDelete(ctx context.Context, id int64) error
	ContactExists(ctx context.Context, field, value string, excludeId int64) (bool, error)
}

type mySql struct {
	sync.RWMutex
	config struct {
		Hostname       string        `json:"hostname"`
		Port           string        `json:"port"`
		Username       string        `json:"username"`
		Password       string        `json:"password"`
		Database       string        `json:"database"`
		QueryTimeout   time.Duration `json:"query_timeout"`
		ParseTime      bool          `json:"parse_time"`
		ConnectRetries uint          `json:"connect_retries"`
		Migrate        bool          `json:"migrate"`
	}
	*sql.DB
	utilities.Logger
	opened bool
}

// NewMySql creates a mysql backed store, a *sql.DB can be provided as
// a parameter in which case Open won't connect on its own
func NewMySql(parameters ...any) interface {
	internal.Configurer
	internal.Opener
	Sql
} {
	m := &mySql{Logger: utilities.NewLogger()}
	m.config.Hostname = "localhost"
	m.config.Port = "3306"
	m.config.Database = "empleados"
	m.config.QueryTimeout = 10 * time.Second
	m.config.ParseTime = true
	m.config.ConnectRetries = 5
	for _, parameter := range parameters {
		switch v := parameter.(type) {
		case utilities.Logger:
			m.Logger = v
		case *sql.DB:
			m.DB = v
		}
	}
	return m
}

func (s *mySql) Configure(envs map[string]string) error {
	s.Lock()
	defer s.Unlock()

	if databaseHost := envs["DATABASE_HOST"]; databaseHost != "" {
		s.config.Hostname = databaseHost
	}
	if databasePort := envs["DATABASE_PORT"]; databasePort != "" {
		s.config.Port = databasePort
	}
	if database := envs["DATABASE_NAME"]; database != "" {
		s.config.Database = database
	}
	if username := envs["DATABASE_USER"]; username != "" {
		s.config.Username = username
	}
	if password := envs["DATABASE_PASSWORD"]; password != "" {
		s.config.Password = password
	}
	if queryTimeout := envs["DATABASE_QUERY_TIMEOUT"]; queryTimeout != "" {
		i, err := strconv.ParseInt(queryTimeout, 10, 64)
		if err != nil {
			return errors.Wrap(err, "DATABASE_QUERY_TIMEOUT")
		}
		s.config.QueryTimeout = time.Duration(i) * time.Second
	}
	if parseTime := envs["DATABASE_PARSE_TIME"]; parseTime != "" {
		s.config.ParseTime, _ = strconv.ParseBool(parseTime)
	}
	if connectRetries := envs["DATABASE_CONNECT_RETRIES"]; connectRetries != "" {
		i, err := strconv.ParseUint(connectRetries, 10, 32)
		if err != nil {
			return errors.Wrap(err, "DATABASE_CONNECT_RETRIES")
		}
		s.config.ConnectRetries = uint(i)
	}
	if migrate := envs["DATABASE_MIGRATE"]; migrate != "" {
		s.config.Migrate, _ = strconv.ParseBool(migrate)
	}
	return nil
}

func (s *mySql) Open(ctx context.Context) error {
	s.Lock()
	defer s.Unlock()

	if s.opened {
		return nil
	}
	if s.DB == nil {
		dataSourceName := fmt.Sprintf("%s:%s@tcp(%s:%s)/%s?parseTime=%t",
			s.config.Username, s.config.Password, s.config.Hostname,
			s.config.Port, s.config.Database, s.config.ParseTime)
		db, err := backoff.Retry(ctx, func() (*sql.DB, error) {
			db, err := sql.Open("mysql", dataSourceName)
			if err != nil {
				return nil, backoff.Permanent(err)
			}
			if err := db.PingContext(ctx); err != nil {
				s.Debug(ctx, "unable to ping mysql (%s:%s): %s",
					s.config.Hostname, s.config.Port, err)
				_ = db.Close()
				return nil, err
			}
			return db, nil
		}, backoff.WithBackOff(backoff.NewExponentialBackOff()),
			backoff.WithMaxTries(s.config.ConnectRetries+1))
		if err != nil {
			return errors.Wrap(err, "unable to connect to mysql")
		}
		s.DB = db
	}
	if s.config.Migrate {
		for _, statement := range schema {
			if _, err := s.ExecContext(ctx, statement); err != nil {
				return errors.Wrap(err, "unable to migrate schema")
			}
		}
		s.Info(ctx, "schema for %s migrated", tableEmployees)
	}
	s.opened = true
	return nil
}

func (s *mySql) Close(ctx context.Context) error {
	s.Lock()
	defer s.Unlock()

	if !s.opened {
		return nil
	}
	if err := s.DB.Close(); err != nil {
		s.Error(ctx, "error while closing sql: %s", err)
	}
	s.opened = false
	return nil
}

func (s *mySql) queryContext(ctx context.Context) (context.Context, context.CancelFunc) {
	if s.config.QueryTimeout <= 0 {
		return context.WithCancel(ctx)
	}
	return context.WithTimeout(ctx, s.config.QueryTimeout)
}

func (s *mySql) EmployeeCreate(ctx context.Context, employeePartial data.EmployeePartial) (*data.Employee, error) {
	var values []string

	columns, args, err := employeeAssignments(employeePartial)
	if err != nil {
		return nil, err
	}
	for range columns {
		values = append(values, "?")
	}
	columns = append(columns, "created_at", "updated_at")
	values = append(values, "NOW()", "NOW()")
	query := fmt.Sprintf("INSERT INTO %s (%s) VALUES (%s);", tableEmployees,
		strings.Join(columns, ", "), strings.Join(values, ", "))
	queryCtx, cancel := s.queryContext(ctx)
	defer cancel()
	result, err := s.ExecContext(queryCtx, query, args...)
	if err != nil {
		return nil, mysqlError(err)
	}
	id, err := result.LastInsertId()
	if err != nil {
		return nil, err
	}
	return s.EmployeeRead(ctx, id)
}

func (s *mySql) EmployeeRead(ctx context.Context, id int64) (*data.Employee, error) {
	query := fmt.Sprintf(`SELECT %s FROM %s WHERE id_empleado = ?;`,
		employeeColumns, tableEmployees)
	queryCtx, cancel := s.queryContext(ctx)
	defer cancel()
	row := s.QueryRowContext(queryCtx, query, id)
	employee, err := employeeScan(row.Scan)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, data.ErrEmployeeNotFound
		}
		return nil, err
	}
	return employee, nil
}

func (s *mySql) EmployeesSearch(ctx context.Context, search data.EmployeeSearch) ([]*data.Employee, int64, error) {
	var total int64

	employees := []*data.Employee{}
	criteria, args := employeeCriteria(search)
	queryCtx, cancel := s.queryContext(ctx)
	defer cancel()
	query := fmt.Sprintf(`SELECT COUNT(*) FROM %s %s;`, tableEmployees, criteria)
	if err := s.QueryRowContext(queryCtx, query, args...).Scan(&total); err != nil {
		return nil, 0, err
	}
	query = fmt.Sprintf(`SELECT %s FROM %s %s ORDER BY id_empleado`,
		employeeColumns, tableEmployees, criteria)
	if search.PerPage > 0 {
		query += " LIMIT ? OFFSET ?"
		args = append(args, search.PerPage, search.Offset())
	}
	rows, err := s.QueryContext(queryCtx, query+";", args...)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()
	for rows.Next() {
		employee, err := employeeScan(rows.Scan)
		if err != nil {
			return nil, 0, err
		}
		employees = append(employees, employee)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, err
	}
	return employees, total, nil
}

func (s *mySql) EmployeeUpdate(ctx context.Context, id int64, employeePartial data.EmployeePartial) (*data.Employee, error) {
	var updates []string

	columns, args, err := employeeAssignments(employeePartial)
	if err != nil {
		return nil, err
	}
	for _, column := range columns {
		updates = append(updates, column+" = ?")
	}
	updates = append(updates, "updated_at = NOW()")
	query := fmt.Sprintf("UPDATE %s SET %s WHERE id_empleado = ?;", tableEmployees,
		strings.Join(updates, ", "))
	args = append(args, id)
	queryCtx, cancel := s.queryContext(ctx)
	defer cancel()
	result, err := s.ExecContext(queryCtx, query, args...)
	if err != nil {
		return nil, mysqlError(err)
	}
	//rows affected is zero when nothing changed, so existence is
	// confirmed by the read that follows
	if _, err := result.RowsAffected(); err != nil {
		return nil, err
	}
	return s.EmployeeRead(ctx, id)
}

func (s *mySql) EmployeeDelete(ctx context.Context, id int64) error {
	query := fmt.Sprintf(`DELETE FROM %s WHERE id_empleado = ?;`,
		tableEmployees)
	queryCtx, cancel := s.queryContext(ctx)
	defer cancel()
	result, err := s.ExecContext(queryCtx, query, id)
	if err != nil {
		return err
	}
	n, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return data.ErrEmployeeNotFound
	}
	return nil
}

func (s *mySql) ContactExists(ctx context.Context, field, value string, excludeId int64) (bool, error) {
	var count int64

	column, ok := contactColumns[field]
	if !ok {
		return false, errors.Errorf("unsupported contact field: %s", field)
	}
	query := fmt.Sprintf(`SELECT COUNT(*) FROM %s WHERE %s = ? AND id_empleado <> ?;`,
		tableEmployees, column)
	queryCtx, cancel := s.queryContext(ctx)
	defer cancel()
	if err := s.QueryRowContext(queryCtx, query, value, excludeId).Scan(&count); err != nil {
		return false, err
	}
	return count > 0, nil
}
