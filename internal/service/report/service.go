package report

import (
	"context"
	"errors"
	"fmt"
	"math"
	"time"

	"github.com/cmlabs-hris/payroll-backend-go/internal/domain/attendance"
	"github.com/cmlabs-hris/payroll-backend-go/internal/domain/report"
	"github.com/cmlabs-hris/payroll-backend-go/internal/domain/timepolicy"
	"github.com/cmlabs-hris/payroll-backend-go/internal/domain/user"
	"github.com/shopspring/decimal"
)

type ReportServiceImpl struct {
	reportRepo  report.ReportRepository
	officeHours timepolicy.OfficeHoursRepository
	loc         *time.Location
	now         func() time.Time
}

func NewReportService(reportRepo report.ReportRepository, officeHours timepolicy.OfficeHoursRepository, loc *time.Location) report.ReportService {
	return &ReportServiceImpl{
		reportRepo:  reportRepo,
		officeHours: officeHours,
		loc:         loc,
		now:         time.Now,
	}
}

func requireReports(ctx context.Context) error {
	p, err := user.PrincipalFromContext(ctx)
	if err != nil {
		return err
	}
	return p.Require(user.PermissionReportsView)
}

// AttendanceReport implements report.ReportService.
func (s *ReportServiceImpl) AttendanceReport(ctx context.Context, req report.DateRangeRequest) (report.AttendanceReport, error) {
	if err := requireReports(ctx); err != nil {
		return report.AttendanceReport{}, err
	}
	from, to, err := req.Range(s.now(), s.loc)
	if err != nil {
		return report.AttendanceReport{}, err
	}

	var oh *timepolicy.OfficeHours
	def, err := s.officeHours.GetDefault(ctx)
	switch {
	case err == nil:
		oh = &def
	case !errors.Is(err, timepolicy.ErrNoDefaultOfficeHours):
		return report.AttendanceReport{}, fmt.Errorf("failed to get default office hours: %w", err)
	}

	rows, err := s.reportRepo.AttendanceByEmployee(ctx, from, to)
	if err != nil {
		return report.AttendanceReport{}, err
	}
	clocks, err := s.reportRepo.ClockRecords(ctx, from, to)
	if err != nil {
		return report.AttendanceReport{}, err
	}

	resp := report.AttendanceReport{
		DateFrom:    req.DateFrom,
		DateTo:      req.DateTo,
		GeneratedAt: s.now().In(s.loc).Format(time.RFC3339),
		TotalDays:   int(math.Round(to.Sub(from).Hours()/24)) + 1,
		Employees:   make([]report.EmployeeAttendanceItem, 0, len(rows)),
	}
	if oh != nil {
		resp.DefaultOfficeHours = fmt.Sprintf("%s %s-%s", oh.Name, oh.OfficialClockIn, oh.OfficialClockOut)
	}

	for _, r := range rows {
		resp.TotalRecords += r.Present + r.Late + r.Absent + r.HalfDay
		resp.Employees = append(resp.Employees, report.NewEmployeeAttendanceItem(r))
	}

	// Stored statuses may predate the current office hours
	for _, c := range clocks {
		in := c.CheckIn.In(s.loc)
		var out *time.Time
		if c.CheckOut != nil {
			o := c.CheckOut.In(s.loc)
			out = &o
		}
		cls := attendance.Classify(in, out, oh)
		if cls.LateMinutes > 0 {
			resp.LateArrivals++
		}
		if cls.EarlyMinutes > 0 {
			resp.EarlyDepartures++
		}
	}
	return resp, nil
}

// PayrollReport implements report.ReportService.
func (s *ReportServiceImpl) PayrollReport(ctx context.Context, req report.DateRangeRequest) (report.PayrollReport, error) {
	if err := requireReports(ctx); err != nil {
		return report.PayrollReport{}, err
	}
	from, to, err := req.Range(s.now(), s.loc)
	if err != nil {
		return report.PayrollReport{}, err
	}

	rows, err := s.reportRepo.PayrollRows(ctx, from, to)
	if err != nil {
		return report.PayrollReport{}, err
	}

	resp := report.PayrollReport{
		DateFrom:         req.DateFrom,
		DateTo:           req.DateTo,
		GeneratedAt:      s.now().In(s.loc).Format(time.RFC3339),
		TotalGrossPayout: decimal.Zero,
		TotalDeductions:  decimal.Zero,
		TotalNetPayout:   decimal.Zero,
		Rows:             make([]report.PayrollItem, 0, len(rows)),
	}
	employees := make(map[string]struct{})
	for _, r := range rows {
		employees[r.EmployeeID] = struct{}{}
		resp.TotalGrossPayout = resp.TotalGrossPayout.Add(r.GrossSalary)
		resp.TotalDeductions = resp.TotalDeductions.Add(r.TotalDeductions)
		resp.TotalNetPayout = resp.TotalNetPayout.Add(r.NetSalary)
		resp.Rows = append(resp.Rows, report.PayrollItem(r))
	}
	resp.TotalEmployees = len(employees)
	return resp, nil
}
