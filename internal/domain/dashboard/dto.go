package dashboard

import (
	"github.com/shopspring/decimal"

	"github.com/cmlabs-hris/payroll-backend-go/internal/domain/attendance"
)

// ========== ADMIN/HR DASHBOARD ==========

// DashboardResponse is the combined response for the main dashboard endpoint
type DashboardResponse struct {
	EmployeeSummary EmployeeSummaryResponse `json:"employee_summary"`
	PayrollStats    PayrollStatsResponse    `json:"payroll_stats"`
	RecentPayrolls  []RecentPayrollItem     `json:"recent_payrolls"`
	Departments     []DepartmentStatItem    `json:"departments"`
	PayrollTrends   []PayrollTrendItem      `json:"payroll_trends"`
	TodayAttendance AttendanceStatsResponse `json:"today_attendance"`
	ActiveLocations int64                   `json:"active_locations"`
}

type EmployeeSummaryResponse struct {
	ActiveEmployees int64 `json:"active_employees"`
	TotalUsers      int64 `json:"total_users"`
	NewEmployees    int64 `json:"new_employees"` // hired within 30 days
}

type PayrollStatsResponse struct {
	Total       int64           `json:"total"`
	Pending     int64           `json:"pending"`
	Processed   int64           `json:"processed"`
	Paid        int64           `json:"paid"`
	TotalPayout decimal.Decimal `json:"total_payout"` // net of processed and paid
}

type RecentPayrollItem struct {
	ID             string          `json:"id"`
	EmployeeName   string          `json:"employee_name"`
	PayPeriodStart string          `json:"pay_period_start"`
	PayPeriodEnd   string          `json:"pay_period_end"`
	NetSalary      decimal.Decimal `json:"net_salary"`
	Status         string          `json:"status"`
}

type DepartmentStatItem struct {
	Department string          `json:"department"`
	Count      int64           `json:"count"`
	AvgSalary  decimal.Decimal `json:"avg_salary"`
}

type PayrollTrendItem struct {
	Month    string          `json:"month"` // Format: "YYYY-MM"
	Count    int64           `json:"count"`
	TotalNet decimal.Decimal `json:"total_net"`
}

// AttendanceStatsResponse represents attendance counts for a specific day
type AttendanceStatsResponse struct {
	Present int64  `json:"present"`
	Late    int64  `json:"late"`
	Absent  int64  `json:"absent"`
	HalfDay int64  `json:"half_day"`
	Total   int64  `json:"total"`
	Date    string `json:"date"` // Format: "YYYY-MM-DD"
}

// ========== EMPLOYEE DASHBOARD ==========

type EmployeeDashboardResponse struct {
	EmployeeID       string                          `json:"employee_id"`
	EmployeeCode     string                          `json:"employee_code"`
	FullName         string                          `json:"full_name"`
	Department       *string                         `json:"department,omitempty"`
	Position         *string                         `json:"position,omitempty"`
	Today            attendance.StatusResponse       `json:"today"`
	MonthStats       MonthStatsResponse              `json:"month_stats"`
	RecentAttendance []attendance.AttendanceResponse `json:"recent_attendance"`
	RecentPayslips   []RecentPayrollItem             `json:"recent_payslips"`
}

type MonthStatsResponse struct {
	Month         string  `json:"month"` // Format: "YYYY-MM"
	Present       int64   `json:"present"`
	Late          int64   `json:"late"`
	Absent        int64   `json:"absent"`
	HalfDay       int64   `json:"half_day"`
	TotalHours    float64 `json:"total_hours"`
	TotalOvertime float64 `json:"total_overtime"`
}
