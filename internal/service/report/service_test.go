package report

import (
	"context"
	"testing"
	"time"

	"github.com/cmlabs-hris/payroll-backend-go/internal/domain/report"
	"github.com/cmlabs-hris/payroll-backend-go/internal/domain/timepolicy"
	"github.com/cmlabs-hris/payroll-backend-go/internal/domain/user"
	"github.com/cmlabs-hris/payroll-backend-go/internal/pkg/validator"
	"github.com/cmlabs-hris/payroll-backend-go/internal/service/servicetest"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var wib = time.FixedZone("WIB", 7*3600)

type stubRepo struct {
	from, to time.Time
	clocks   []report.ClockRecord
	payrolls []report.PayrollRow
}

func (r *stubRepo) AttendanceByEmployee(_ context.Context, from, to time.Time) ([]report.EmployeeAttendanceRow, error) {
	r.from, r.to = from, to
	return []report.EmployeeAttendanceRow{
		{EmployeeID: "e1", EmployeeCode: "EMP00000001", EmployeeName: "Jane Doe", Present: 3, Late: 1, TotalHours: 32},
		{EmployeeID: "e2", EmployeeCode: "EMP00000002", EmployeeName: "John Roe", Absent: 2},
	}, nil
}

func (r *stubRepo) ClockRecords(context.Context, time.Time, time.Time) ([]report.ClockRecord, error) {
	return r.clocks, nil
}

func (r *stubRepo) PayrollRows(context.Context, time.Time, time.Time) ([]report.PayrollRow, error) {
	return r.payrolls, nil
}

func at(day, hour, min int) *time.Time {
	t := time.Date(2024, 3, day, hour, min, 0, 0, wib).UTC()
	return &t
}

func newService(repo *stubRepo, hours ...timepolicy.OfficeHours) *ReportServiceImpl {
	svc := NewReportService(repo, servicetest.NewOfficeHours(hours...), wib).(*ReportServiceImpl)
	svc.now = func() time.Time { return time.Date(2024, 3, 31, 12, 0, 0, 0, wib) }
	return svc
}

func hrCtx() context.Context {
	return servicetest.As(context.Background(), "hr", user.RoleHR, nil)
}

func clockRecords() []report.ClockRecord {
	return []report.ClockRecord{
		{EmployeeID: "e1", CheckIn: at(4, 8, 50), CheckOut: at(4, 17, 0)},
		{EmployeeID: "e1", CheckIn: at(5, 9, 10), CheckOut: at(5, 16, 0)},
		{EmployeeID: "e1", CheckIn: at(6, 9, 30)},
	}
}

func TestReportService_AttendanceReport_DefaultOfficeHours(t *testing.T) {
	repo := &stubRepo{clocks: clockRecords()}
	svc := newService(repo, timepolicy.OfficeHours{
		Name:             "Regular",
		OfficialClockIn:  timepolicy.MustClockTime("09:00"),
		OfficialClockOut: timepolicy.MustClockTime("17:00"),
		GracePeriodIn:    15,
		GracePeriodOut:   15,
		IsActive:         true,
		IsDefault:        true,
	})

	resp, err := svc.AttendanceReport(hrCtx(), report.DateRangeRequest{DateFrom: "2024-03-01", DateTo: "2024-03-31"})
	require.NoError(t, err)

	assert.Equal(t, 31, resp.TotalDays)
	assert.Equal(t, 6, resp.TotalRecords)
	// 09:10 is within grace, 09:30 is not; 16:00 is an early departure
	assert.Equal(t, 1, resp.LateArrivals)
	assert.Equal(t, 1, resp.EarlyDepartures)
	assert.Equal(t, "Regular 09:00-17:00", resp.DefaultOfficeHours)
	require.Len(t, resp.Employees, 2)
	assert.Equal(t, "Jane Doe", resp.Employees[0].EmployeeName)
	assert.True(t, repo.from.Equal(time.Date(2024, 3, 1, 0, 0, 0, 0, wib)))
}

func TestReportService_AttendanceReport_WithoutOfficeHours(t *testing.T) {
	repo := &stubRepo{clocks: clockRecords()}
	svc := newService(repo)

	resp, err := svc.AttendanceReport(hrCtx(), report.DateRangeRequest{})
	require.NoError(t, err)

	assert.Equal(t, "2024-03-01", resp.DateFrom)
	assert.Equal(t, "2024-03-31", resp.DateTo)
	assert.Empty(t, resp.DefaultOfficeHours)
	// judged against 09:00 with no grace and no early-departure check
	assert.Equal(t, 2, resp.LateArrivals)
	assert.Zero(t, resp.EarlyDepartures)
}

func TestReportService_AttendanceReport_Errors(t *testing.T) {
	svc := newService(&stubRepo{})

	_, err := svc.AttendanceReport(servicetest.As(context.Background(), "u", user.RoleEmployee, nil), report.DateRangeRequest{})
	assert.ErrorIs(t, err, user.ErrInsufficientPermissions)

	_, err = svc.AttendanceReport(hrCtx(), report.DateRangeRequest{DateFrom: "2024-03-10", DateTo: "2024-03-01"})
	assert.ErrorIs(t, err, report.ErrInvalidDateRange)

	_, err = svc.AttendanceReport(hrCtx(), report.DateRangeRequest{DateFrom: "2022-01-01", DateTo: "2024-03-01"})
	assert.ErrorIs(t, err, report.ErrRangeTooLong)

	_, err = svc.AttendanceReport(hrCtx(), report.DateRangeRequest{DateTo: "31/03/2024"})
	var errs validator.ValidationErrors
	require.ErrorAs(t, err, &errs)
	assert.Contains(t, errs.ToMap(), "date_to")
}

func TestReportService_PayrollReport(t *testing.T) {
	d := decimal.NewFromInt
	repo := &stubRepo{payrolls: []report.PayrollRow{
		{EmployeeID: "e1", EmployeeName: "Jane Doe", Status: "paid", GrossSalary: d(75000), TotalDeductions: d(11000), NetSalary: d(64000)},
		{EmployeeID: "e1", EmployeeName: "Jane Doe", Status: "processed", GrossSalary: d(75000), TotalDeductions: d(11000), NetSalary: d(64000)},
		{EmployeeID: "e2", EmployeeName: "John Roe", Status: "processed", GrossSalary: d(40000), TotalDeductions: d(4000), NetSalary: d(36000)},
	}}
	svc := newService(repo)

	resp, err := svc.PayrollReport(hrCtx(), report.DateRangeRequest{DateFrom: "2024-01-01", DateTo: "2024-03-31"})
	require.NoError(t, err)
	assert.Equal(t, 2, resp.TotalEmployees)
	assert.True(t, resp.TotalGrossPayout.Equal(d(190000)))
	assert.True(t, resp.TotalDeductions.Equal(d(26000)))
	assert.True(t, resp.TotalNetPayout.Equal(d(164000)))
	assert.Len(t, resp.Rows, 3)

	empty, err := newService(&stubRepo{}).PayrollReport(hrCtx(), report.DateRangeRequest{})
	require.NoError(t, err)
	assert.NotNil(t, empty.Rows)
	assert.True(t, empty.TotalNetPayout.IsZero())
}
