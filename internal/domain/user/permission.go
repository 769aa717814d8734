package user

type Permission string

const (
	// Self service
	PermissionViewOwnProfile    Permission = "profile.view_own"
	PermissionEditOwnProfile    Permission = "profile.edit_own"
	PermissionAttendanceClock   Permission = "attendance.clock"
	PermissionAttendanceViewOwn Permission = "attendance.view_own"
	PermissionPayrollViewOwn    Permission = "payroll.view_own"
	PermissionQRScan            Permission = "qr.scan"

	// Employee Management
	PermissionEmployeeViewAll Permission = "employee.view_all"
	PermissionEmployeeManage  Permission = "employee.manage"

	// Payroll Management
	PermissionPayrollManage Permission = "payroll.manage"

	// Attendance Management
	PermissionAttendanceViewAll Permission = "attendance.view_all"
	PermissionAttendanceManage  Permission = "attendance.manage"
	PermissionAttendanceDelete  Permission = "attendance.delete"

	// Time management & locations
	PermissionTimePolicyManage Permission = "timepolicy.manage"
	PermissionLocationManage   Permission = "location.manage"
	PermissionQRGenerate       Permission = "qr.generate"

	// Reports
	PermissionReportsView Permission = "reports.view"

	// User Management
	PermissionUserManage Permission = "user.manage"
	PermissionUserDelete Permission = "user.delete"
)

var selfService = []Permission{
	PermissionViewOwnProfile,
	PermissionEditOwnProfile,
	PermissionAttendanceClock,
	PermissionAttendanceViewOwn,
	PermissionPayrollViewOwn,
	PermissionQRScan,
}

var management = []Permission{
	PermissionEmployeeViewAll,
	PermissionEmployeeManage,
	PermissionPayrollManage,
	PermissionAttendanceViewAll,
	PermissionAttendanceManage,
	PermissionTimePolicyManage,
	PermissionLocationManage,
	PermissionQRGenerate,
	PermissionReportsView,
}

// RolePermissions maps roles to their permissions
var RolePermissions = map[Role][]Permission{
	RoleAdmin: concat(selfService, management, []Permission{
		PermissionAttendanceDelete,
		PermissionUserManage,
		PermissionUserDelete,
	}),
	RoleHR:       concat(selfService, management),
	RoleEmployee: concat(selfService),
}

// HasPermission checks if a role has a specific permission
func HasPermission(role Role, permission Permission) bool {
	permissions, exists := RolePermissions[role]
	if !exists {
		return false
	}

	for _, p := range permissions {
		if p == permission {
			return true
		}
	}

	return false
}

func concat(groups ...[]Permission) []Permission {
	var out []Permission
	for _, g := range groups {
		out = append(out, g...)
	}
	return out
}
