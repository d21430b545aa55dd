package appraisal

import "context"

// Directory provides the identity lookups the engine needs. Implementations
// return empty strings for missing data rather than errors; only real store
// failures propagate.
type Directory interface {
	// EmployeeManager returns the manager id recorded on the employee, or ""
	// when unset or the employee is unknown.
	EmployeeManager(ctx context.Context, employeeID string) (string, error)
	// TeamManager returns the manager recorded on the employee's team
	// membership, or "" when none exists.
	TeamManager(ctx context.Context, employeeID string) (string, error)
	// EmployeeUserID maps an employee to their login user for notifications,
	// or "" when no user is linked.
	EmployeeUserID(ctx context.Context, employeeID string) (string, error)
	// EmployeeDepartments maps employee ids to department names. Employees
	// without a department are omitted.
	EmployeeDepartments(ctx context.Context, employeeIDs []string) (map[string]string, error)
}

// ResolveManager determines the manager for an employee: the employee's own
// manager field wins, then the team membership's manager, then the employee
// themselves (self-managed). Missing data always falls through to the next
// source, so the result is total.
func ResolveManager(ctx context.Context, dir Directory, employeeID string) (string, error) {
	managerID, err := dir.EmployeeManager(ctx, employeeID)
	if err != nil {
		return "", err
	}
	if managerID != "" {
		return managerID, nil
	}

	managerID, err = dir.TeamManager(ctx, employeeID)
	if err != nil {
		return "", err
	}
	if managerID != "" {
		return managerID, nil
	}

	return employeeID, nil
}
