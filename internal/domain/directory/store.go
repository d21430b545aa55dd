package directory

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

var ErrNotFound = errors.New("employee not found")

type Store struct {
	DB *pgxpool.Pool
}

func NewStore(db *pgxpool.Pool) *Store {
	return &Store{DB: db}
}

func (s *Store) GetEmployee(ctx context.Context, employeeID string) (Employee, error) {
	var e Employee
	err := s.DB.QueryRow(ctx, `
    SELECT id, COALESCE(user_id::text, ''), first_name, last_name, email,
           COALESCE(department, ''), COALESCE(manager_id::text, ''), status
    FROM employees
    WHERE id = $1
  `, employeeID).Scan(&e.ID, &e.UserID, &e.FirstName, &e.LastName, &e.Email, &e.Department, &e.ManagerID, &e.Status)
	if errors.Is(err, pgx.ErrNoRows) {
		return Employee{}, fmt.Errorf("employee %s: %w", employeeID, ErrNotFound)
	}
	if err != nil {
		return Employee{}, err
	}
	e.DisplayName = e.FirstName + " " + e.LastName
	return e, nil
}

func (s *Store) ListEmployees(ctx context.Context, status string) ([]Employee, error) {
	query := `
    SELECT id, COALESCE(user_id::text, ''), first_name, last_name, email,
           COALESCE(department, ''), COALESCE(manager_id::text, ''), status
    FROM employees`
	var args []any
	if status != "" {
		query += " WHERE status = $1"
		args = append(args, status)
	}
	query += " ORDER BY last_name, first_name"

	rows, err := s.DB.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []Employee
	for rows.Next() {
		var e Employee
		if err := rows.Scan(&e.ID, &e.UserID, &e.FirstName, &e.LastName, &e.Email, &e.Department, &e.ManagerID, &e.Status); err != nil {
			return nil, err
		}
		e.DisplayName = e.FirstName + " " + e.LastName
		out = append(out, e)
	}
	return out, rows.Err()
}

// EmployeeManager returns the manager recorded on the employee row, "" when
// unset or the employee does not exist.
func (s *Store) EmployeeManager(ctx context.Context, employeeID string) (string, error) {
	var managerID string
	err := s.DB.QueryRow(ctx, `
    SELECT COALESCE(manager_id::text, '')
    FROM employees
    WHERE id = $1
  `, employeeID).Scan(&managerID)
	if errors.Is(err, pgx.ErrNoRows) {
		return "", nil
	}
	if err != nil {
		return "", err
	}
	return managerID, nil
}

// TeamManager returns the manager on the employee's team membership, "" when
// the employee belongs to no team or the team has no manager.
func (s *Store) TeamManager(ctx context.Context, employeeID string) (string, error) {
	var managerID string
	err := s.DB.QueryRow(ctx, `
    SELECT COALESCE(t.manager_id::text, '')
    FROM team_members tm
    JOIN teams t ON tm.team_id = t.id
    WHERE tm.employee_id = $1
    LIMIT 1
  `, employeeID).Scan(&managerID)
	if errors.Is(err, pgx.ErrNoRows) {
		return "", nil
	}
	if err != nil {
		return "", err
	}
	return managerID, nil
}

func (s *Store) EmployeeUserID(ctx context.Context, employeeID string) (string, error) {
	var userID string
	err := s.DB.QueryRow(ctx, `
    SELECT COALESCE(user_id::text, '')
    FROM employees
    WHERE id = $1
  `, employeeID).Scan(&userID)
	if errors.Is(err, pgx.ErrNoRows) {
		return "", nil
	}
	if err != nil {
		return "", err
	}
	return userID, nil
}

// EmployeeDepartments maps employee ids to department names, omitting
// employees without one.
func (s *Store) EmployeeDepartments(ctx context.Context, employeeIDs []string) (map[string]string, error) {
	out := map[string]string{}
	if len(employeeIDs) == 0 {
		return out, nil
	}
	rows, err := s.DB.Query(ctx, `
    SELECT id, department
    FROM employees
    WHERE id = ANY($1) AND department IS NOT NULL AND department <> ''
  `, employeeIDs)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	for rows.Next() {
		var id, department string
		if err := rows.Scan(&id, &department); err != nil {
			return nil, err
		}
		out[id] = department
	}
	return out, rows.Err()
}
