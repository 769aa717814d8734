package dashboard

import (
	"context"
	"fmt"
	"time"

	"github.com/cmlabs-hris/payroll-backend-go/internal/domain/attendance"
	"github.com/cmlabs-hris/payroll-backend-go/internal/domain/dashboard"
	"github.com/cmlabs-hris/payroll-backend-go/internal/domain/employee"
	"github.com/cmlabs-hris/payroll-backend-go/internal/domain/user"
	"golang.org/x/sync/errgroup"
)

const (
	recentLimit  = 5
	trendMonths  = 6
	newHireDays  = 30
	monthPattern = "2006-01"
)

type DashboardServiceImpl struct {
	dashboard.DashboardRepository
	employees  employee.EmployeeRepository
	attendance attendance.AttendanceService
	loc        *time.Location
	now        func() time.Time
}

func NewDashboardService(
	repo dashboard.DashboardRepository,
	employeeRepository employee.EmployeeRepository,
	attendanceService attendance.AttendanceService,
	loc *time.Location,
) dashboard.DashboardService {
	return &DashboardServiceImpl{
		DashboardRepository: repo,
		employees:           employeeRepository,
		attendance:          attendanceService,
		loc:                 loc,
		now:                 time.Now,
	}
}

func (s *DashboardServiceImpl) today() time.Time {
	n := s.now().In(s.loc)
	return time.Date(n.Year(), n.Month(), n.Day(), 0, 0, 0, 0, s.loc)
}

func recentItems(rows []dashboard.RecentPayroll) []dashboard.RecentPayrollItem {
	items := make([]dashboard.RecentPayrollItem, 0, len(rows))
	for _, p := range rows {
		items = append(items, dashboard.RecentPayrollItem{
			ID:             p.ID,
			EmployeeName:   p.EmployeeName,
			PayPeriodStart: p.PayPeriodStart.Format("2006-01-02"),
			PayPeriodEnd:   p.PayPeriodEnd.Format("2006-01-02"),
			NetSalary:      p.NetSalary,
			Status:         p.Status,
		})
	}
	return items
}

// GetDashboard returns combined dashboard data using parallel goroutines
func (s *DashboardServiceImpl) GetDashboard(ctx context.Context) (*dashboard.DashboardResponse, error) {
	p, err := user.PrincipalFromContext(ctx)
	if err != nil {
		return nil, err
	}
	if err := p.Require(user.PermissionEmployeeViewAll); err != nil {
		return nil, err
	}

	today := s.today()
	trendsSince := time.Date(today.Year(), today.Month()-trendMonths+1, 1, 0, 0, 0, 0, s.loc)

	var resp dashboard.DashboardResponse
	g, gCtx := errgroup.WithContext(ctx)

	// 1. Employee summary
	g.Go(func() error {
		stats, err := s.GetEmployeeSummary(gCtx, today.AddDate(0, 0, -newHireDays))
		if err != nil {
			return err
		}
		resp.EmployeeSummary = dashboard.EmployeeSummaryResponse{
			ActiveEmployees: stats.Active,
			TotalUsers:      stats.TotalUsers,
			NewEmployees:    stats.New,
		}
		return nil
	})

	// 2. Payroll counts and payout
	g.Go(func() error {
		stats, err := s.GetPayrollStats(gCtx)
		if err != nil {
			return err
		}
		resp.PayrollStats = dashboard.PayrollStatsResponse(stats)
		return nil
	})

	// 3. Recent payrolls
	g.Go(func() error {
		rows, err := s.GetRecentPayrolls(gCtx, nil, recentLimit)
		if err != nil {
			return err
		}
		resp.RecentPayrolls = recentItems(rows)
		return nil
	})

	// 4. Departments
	g.Go(func() error {
		stats, err := s.GetDepartmentStats(gCtx)
		if err != nil {
			return err
		}
		resp.Departments = make([]dashboard.DepartmentStatItem, 0, len(stats))
		for _, d := range stats {
			resp.Departments = append(resp.Departments, dashboard.DepartmentStatItem(d))
		}
		return nil
	})

	// 5. Monthly payroll trend
	g.Go(func() error {
		trends, err := s.GetPayrollTrends(gCtx, trendsSince)
		if err != nil {
			return err
		}
		resp.PayrollTrends = make([]dashboard.PayrollTrendItem, 0, len(trends))
		for _, t := range trends {
			resp.PayrollTrends = append(resp.PayrollTrends, dashboard.PayrollTrendItem{
				Month:    t.Month.Format(monthPattern),
				Count:    t.Count,
				TotalNet: t.TotalNet,
			})
		}
		return nil
	})

	// 6. Today's attendance
	g.Go(func() error {
		stats, err := s.GetAttendanceStats(gCtx, nil, today, today.AddDate(0, 0, 1))
		if err != nil {
			return err
		}
		resp.TodayAttendance = dashboard.AttendanceStatsResponse{
			Present: stats.Present,
			Late:    stats.Late,
			Absent:  stats.Absent,
			HalfDay: stats.HalfDay,
			Total:   stats.Present + stats.Late + stats.Absent + stats.HalfDay,
			Date:    today.Format("2006-01-02"),
		}
		return nil
	})

	// 7. Locations
	g.Go(func() error {
		count, err := s.CountActiveLocations(gCtx)
		if err != nil {
			return err
		}
		resp.ActiveLocations = count
		return nil
	})

	if err := g.Wait(); err != nil {
		return nil, fmt.Errorf("failed to build dashboard: %w", err)
	}
	return &resp, nil
}

// GetEmployeeDashboard returns the caller's profile, today's clock state,
// this month's attendance and the latest payslips.
func (s *DashboardServiceImpl) GetEmployeeDashboard(ctx context.Context) (*dashboard.EmployeeDashboardResponse, error) {
	p, err := user.PrincipalFromContext(ctx)
	if err != nil {
		return nil, err
	}
	employeeID, err := p.RequireEmployee()
	if err != nil {
		return nil, err
	}

	emp, err := s.employees.GetByID(ctx, employeeID)
	if err != nil {
		return nil, err
	}

	today := s.today()
	monthStart := time.Date(today.Year(), today.Month(), 1, 0, 0, 0, 0, s.loc)

	resp := dashboard.EmployeeDashboardResponse{
		EmployeeID:   emp.ID,
		EmployeeCode: emp.EmployeeCode,
		FullName:     emp.FullName(),
		Department:   emp.Department,
		Position:     emp.Position,
	}
	g, gCtx := errgroup.WithContext(ctx)

	g.Go(func() error {
		status, err := s.attendance.Status(gCtx)
		if err != nil {
			return err
		}
		resp.Today = status
		return nil
	})

	g.Go(func() error {
		stats, err := s.GetAttendanceStats(gCtx, &employeeID, monthStart, monthStart.AddDate(0, 1, 0))
		if err != nil {
			return err
		}
		resp.MonthStats = dashboard.MonthStatsResponse{
			Month:         monthStart.Format(monthPattern),
			Present:       stats.Present,
			Late:          stats.Late,
			Absent:        stats.Absent,
			HalfDay:       stats.HalfDay,
			TotalHours:    stats.TotalHours,
			TotalOvertime: stats.TotalOvertime,
		}
		return nil
	})

	g.Go(func() error {
		records, err := s.attendance.History(gCtx, attendance.HistoryFilter{Limit: recentLimit})
		if err != nil {
			return err
		}
		resp.RecentAttendance = records
		return nil
	})

	g.Go(func() error {
		rows, err := s.GetRecentPayrolls(gCtx, &employeeID, recentLimit)
		if err != nil {
			return err
		}
		resp.RecentPayslips = recentItems(rows)
		return nil
	})

	if err := g.Wait(); err != nil {
		return nil, fmt.Errorf("failed to build employee dashboard: %w", err)
	}
	return &resp, nil
}
