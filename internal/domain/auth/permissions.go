package auth

const (
	RoleAdmin    = "admin"
	RoleHR       = "hr"
	RoleManager  = "manager"
	RoleEmployee = "employee"
)

const (
	PermEmployeesRead    = "directory.employees.read"
	PermAppraisalsRead   = "appraisals.read"
	PermAppraisalsWrite  = "appraisals.write"
	PermAppraisalsReview = "appraisals.review"
	PermAppraisalsHR     = "appraisals.hr"
	PermCyclesManage     = "appraisals.cycles.manage"
	PermTemplatesManage  = "appraisals.templates.manage"
	PermAnalyticsRead    = "appraisals.analytics.read"
	PermReportsRead      = "reports.read"
	PermMaintenanceRun   = "maintenance.run"
	PermAuditRead        = "audit.read"
	PermSystemAdmin      = "admin.system"
)

var RolePermissions = map[string][]string{
	RoleEmployee: {
		PermEmployeesRead,
		PermAppraisalsRead,
		PermAppraisalsWrite,
	},
	RoleManager: {
		PermEmployeesRead,
		PermAppraisalsRead,
		PermAppraisalsWrite,
		PermAppraisalsReview,
		PermAnalyticsRead,
		PermReportsRead,
	},
	RoleHR: {
		PermEmployeesRead,
		PermAppraisalsRead,
		PermAppraisalsWrite,
		PermAppraisalsReview,
		PermAppraisalsHR,
		PermCyclesManage,
		PermTemplatesManage,
		PermAnalyticsRead,
		PermReportsRead,
		PermMaintenanceRun,
		PermAuditRead,
	},
	RoleAdmin: {
		PermEmployeesRead,
		PermAppraisalsRead,
		PermAppraisalsWrite,
		PermAppraisalsReview,
		PermAppraisalsHR,
		PermCyclesManage,
		PermTemplatesManage,
		PermAnalyticsRead,
		PermReportsRead,
		PermMaintenanceRun,
		PermAuditRead,
		PermSystemAdmin,
	},
}

func HasPermission(role, perm string) bool {
	for _, p := range RolePermissions[role] {
		if p == perm {
			return true
		}
	}
	return false
}
