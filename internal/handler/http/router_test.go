package http

import (
	"bytes"
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/cmlabs-hris/payroll-backend-go/internal/domain/dashboard"
	"github.com/cmlabs-hris/payroll-backend-go/internal/domain/employee"
	"github.com/cmlabs-hris/payroll-backend-go/internal/domain/payroll"
	"github.com/cmlabs-hris/payroll-backend-go/internal/domain/qrattendance"
	"github.com/cmlabs-hris/payroll-backend-go/internal/domain/report"
	"github.com/cmlabs-hris/payroll-backend-go/internal/domain/user"
	"github.com/cmlabs-hris/payroll-backend-go/internal/handler/http/response"
	"github.com/cmlabs-hris/payroll-backend-go/internal/pkg/jwt"
	attendanceService "github.com/cmlabs-hris/payroll-backend-go/internal/service/attendance"
	authService "github.com/cmlabs-hris/payroll-backend-go/internal/service/auth"
	employeeService "github.com/cmlabs-hris/payroll-backend-go/internal/service/employee"
	locationService "github.com/cmlabs-hris/payroll-backend-go/internal/service/location"
	payrollService "github.com/cmlabs-hris/payroll-backend-go/internal/service/payroll"
	timePolicyService "github.com/cmlabs-hris/payroll-backend-go/internal/service/timepolicy"
	userService "github.com/cmlabs-hris/payroll-backend-go/internal/service/user"
	"github.com/cmlabs-hris/payroll-backend-go/internal/service/servicetest"
	"github.com/go-chi/chi/v5"
	"github.com/goccy/go-json"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const (
	handlerTestSecret = "test-secret-key-for-jwt"
	adminID           = "00000000-0000-0000-0000-00000000000a"
	employeeUserID    = "00000000-0000-0000-0000-00000000000b"
	employeeID        = "00000000-0000-0000-0000-0000000000e1"
)

var wib = time.FixedZone("WIB", 7*3600)

// Services outside the scope of these tests; calling them panics.
type (
	unusedQR        struct{ qrattendance.QRAttendanceService }
	unusedDashboard struct{ dashboard.DashboardService }
	unusedReport    struct{ report.ReportService }
)

type handlerFixture struct {
	router     *chi.Mux
	jwt        jwt.Service
	users      *servicetest.Users
	tokens     *servicetest.RefreshTokens
	attendance *attendanceHandlerImpl
}

func newHandlerFixture(t *testing.T) *handlerFixture {
	t.Helper()

	jwtService, err := jwt.NewJWTService(handlerTestSecret, "1h", "24h", false)
	require.NoError(t, err)

	hash, err := authService.HashPassword("password123")
	require.NoError(t, err)
	empID := employeeID

	users := servicetest.NewUsers(
		user.User{ID: adminID, Username: "admin", Email: "admin@example.com", PasswordHash: &hash, Role: user.RoleAdmin, IsActive: true},
		user.User{ID: employeeUserID, Username: "jane.doe", Email: "jane@example.com", PasswordHash: &hash, Role: user.RoleEmployee, IsActive: true, EmployeeID: &empID},
	)
	employees := servicetest.NewEmployees(users, employee.Employee{
		ID:           employeeID,
		UserID:       employeeUserID,
		EmployeeCode: "EMP00000001",
		FirstName:    "Jane",
		LastName:     "Doe",
		Salary:       decimal.NewFromInt(50000),
		IsActive:     true,
	})
	tokens := servicetest.NewRefreshTokens()
	officeHours := servicetest.NewOfficeHours()
	policies := servicetest.NewPolicies()
	tx := &servicetest.Tx{}

	attendanceSvc := attendanceService.NewAttendanceService(tx, servicetest.NewAttendances(), officeHours, employees, wib)
	attendanceH := NewAttendanceHandler(attendanceSvc, wib).(*attendanceHandlerImpl)

	h := Handlers{
		Auth:         NewAuthHandler(jwtService, authService.NewAuthService(tx, users, employees, tokens, jwtService, false), nil, "http://localhost:3000"),
		User:         NewUserHandler(userService.NewUserService(tx, users, tokens)),
		Employee:     NewEmployeeHandler(employeeService.NewEmployeeService(tx, employees, users, tokens, wib)),
		Payroll:      NewPayrollHandler(payrollService.NewPayrollService(tx, servicetest.NewPayrolls(), employees, policies, payroll.Rates{})),
		Attendance:   attendanceH,
		TimePolicy:   NewTimePolicyHandler(timePolicyService.NewTimePolicyService(tx, officeHours, policies)),
		Location:     NewLocationHandler(locationService.NewLocationService(servicetest.NewLocations())),
		QRAttendance: NewQRAttendanceHandler(unusedQR{}),
		Dashboard:    NewDashboardHandler(unusedDashboard{}),
		Report:       NewReportHandler(unusedReport{}),
	}

	return &handlerFixture{
		router:     NewRouter(jwtService, h, RouterOptions{AllowedOrigins: []string{"http://localhost:3000"}}),
		jwt:        jwtService,
		users:      users,
		tokens:     tokens,
		attendance: attendanceH,
	}
}

func (f *handlerFixture) token(t *testing.T, userID string) string {
	t.Helper()
	u, err := f.users.GetByID(context.Background(), userID)
	require.NoError(t, err)
	token, _, err := f.jwt.GenerateAccessToken(user.Principal{
		UserID:     u.ID,
		Username:   u.Username,
		EmployeeID: u.EmployeeID,
		Role:       u.Role,
	})
	require.NoError(t, err)
	return token
}

// do sends body (marshalled unless it is already a string) with an optional
// bearer token.
func (f *handlerFixture) do(t *testing.T, method, path, token string, body interface{}) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	switch b := body.(type) {
	case nil:
	case string:
		buf.WriteString(b)
	default:
		require.NoError(t, json.NewEncoder(&buf).Encode(b))
	}

	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	rec := httptest.NewRecorder()
	f.router.ServeHTTP(rec, req)
	return rec
}

type envelope struct {
	Success bool                  `json:"success"`
	Message string                `json:"message"`
	Data    json.RawMessage       `json:"data"`
	Error   *response.ErrorDetail `json:"error"`
}

func decodeEnvelope(t *testing.T, rec *httptest.ResponseRecorder) envelope {
	t.Helper()
	var env envelope
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &env), rec.Body.String())
	return env
}

func TestRouter_RequiresAuthentication(t *testing.T) {
	f := newHandlerFixture(t)

	for _, path := range []string{"/api/v1/payrolls", "/api/v1/employees", "/api/v1/auth/me", "/api/v1/dashboard"} {
		rec := f.do(t, http.MethodGet, path, "", nil)
		assert.Equal(t, http.StatusUnauthorized, rec.Code, path)
		env := decodeEnvelope(t, rec)
		assert.False(t, env.Success)
		assert.Equal(t, "UNAUTHORIZED", env.Error.Code)
	}

	rec := f.do(t, http.MethodGet, "/api/v1/payrolls", "not-a-jwt", nil)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestRouter_RejectsRefreshTokenAsAccessToken(t *testing.T) {
	f := newHandlerFixture(t)
	refresh, _, err := f.jwt.GenerateRefreshToken(adminID)
	require.NoError(t, err)

	rec := f.do(t, http.MethodGet, "/api/v1/users", refresh, nil)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestRouter_PermissionGates(t *testing.T) {
	f := newHandlerFixture(t)
	employeeToken := f.token(t, employeeUserID)
	adminToken := f.token(t, adminID)

	forbidden := []struct{ method, path string }{
		{http.MethodGet, "/api/v1/users"},
		{http.MethodGet, "/api/v1/employees"},
		{http.MethodPost, "/api/v1/payrolls/bulk"},
		{http.MethodGet, "/api/v1/attendance"},
		{http.MethodPost, "/api/v1/locations"},
		{http.MethodGet, "/api/v1/time-management/policies"},
		{http.MethodGet, "/api/v1/time-management/report"},
		{http.MethodPost, "/api/v1/qr/generate"},
		{http.MethodGet, "/api/v1/dashboard"},
	}
	for _, tc := range forbidden {
		rec := f.do(t, tc.method, tc.path, employeeToken, nil)
		assert.Equal(t, http.StatusForbidden, rec.Code, tc.method+" "+tc.path)
	}

	// admin has no employee profile
	rec := f.do(t, http.MethodPost, "/api/v1/attendance/clock-in", adminToken, nil)
	assert.Equal(t, http.StatusForbidden, rec.Code)

	rec = f.do(t, http.MethodGet, "/api/v1/users", adminToken, nil)
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestRouter_EmployeeSeesOwnRecordOnly(t *testing.T) {
	f := newHandlerFixture(t)
	token := f.token(t, employeeUserID)

	rec := f.do(t, http.MethodGet, "/api/v1/employees/"+employeeID, token, nil)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	var emp struct {
		ID           string `json:"id"`
		EmployeeCode string `json:"employee_code"`
	}
	require.NoError(t, json.Unmarshal(decodeEnvelope(t, rec).Data, &emp))
	assert.Equal(t, employeeID, emp.ID)
	assert.Equal(t, "EMP00000001", emp.EmployeeCode)

	rec = f.do(t, http.MethodGet, "/api/v1/payrolls", token, nil)
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestAttendanceHandler_ClockFlow(t *testing.T) {
	f := newHandlerFixture(t)
	token := f.token(t, employeeUserID)

	at := time.Date(2024, 3, 4, 8, 50, 0, 0, wib)
	f.attendance.now = func() time.Time { return at }

	rec := f.do(t, http.MethodPost, "/api/v1/attendance/clock-in", token, nil)
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())

	var in struct {
		Date    string `json:"date"`
		CheckIn string `json:"check_in"`
		Status  string `json:"status"`
		State   string `json:"state"`
	}
	require.NoError(t, json.Unmarshal(decodeEnvelope(t, rec).Data, &in))
	assert.Equal(t, "2024-03-04", in.Date)
	assert.Equal(t, "2024-03-04T08:50:00+07:00", in.CheckIn)
	assert.Equal(t, "present", in.Status)
	assert.Equal(t, "clocked_in", in.State)

	rec = f.do(t, http.MethodPost, "/api/v1/attendance/clock-in", token, nil)
	assert.Equal(t, http.StatusConflict, rec.Code)
	assert.Equal(t, "CONFLICT", decodeEnvelope(t, rec).Error.Code)

	at = at.Add(9 * time.Hour)
	rec = f.do(t, http.MethodPost, "/api/v1/attendance/clock-out", token, nil)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	var out struct {
		HoursWorked   float64 `json:"hours_worked"`
		OvertimeHours float64 `json:"overtime_hours"`
	}
	require.NoError(t, json.Unmarshal(decodeEnvelope(t, rec).Data, &out))
	assert.InDelta(t, 9.0, out.HoursWorked, 0.001)
	assert.InDelta(t, 1.0, out.OvertimeHours, 0.001)

	rec = f.do(t, http.MethodPost, "/api/v1/attendance/clock-out", token, nil)
	assert.Equal(t, http.StatusConflict, rec.Code)
}

func TestLocationHandler_Validation(t *testing.T) {
	f := newHandlerFixture(t)
	token := f.token(t, adminID)

	rec := f.do(t, http.MethodPost, "/api/v1/locations", token, map[string]interface{}{})
	require.Equal(t, http.StatusUnprocessableEntity, rec.Code)
	env := decodeEnvelope(t, rec)
	assert.Equal(t, "VALIDATION_ERROR", env.Error.Code)
	assert.Contains(t, env.Error.Details, "name")

	rec = f.do(t, http.MethodPost, "/api/v1/locations", token, "{not json")
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = f.do(t, http.MethodPost, "/api/v1/locations", token, map[string]interface{}{
		"name":          "HQ",
		"address":       "Jl. Sudirman 1",
		"latitude":      -6.2,
		"longitude":     106.8,
		"radius_meters": 100,
	})
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())

	var created struct {
		ID string `json:"id"`
	}
	require.NoError(t, json.Unmarshal(decodeEnvelope(t, rec).Data, &created))

	rec = f.do(t, http.MethodGet, "/api/v1/locations/"+created.ID, f.token(t, employeeUserID), nil)
	assert.Equal(t, http.StatusOK, rec.Code)

	rec = f.do(t, http.MethodGet, "/api/v1/locations/00000000-0000-0000-0000-000000000404", token, nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestRouter_Heartbeat(t *testing.T) {
	f := newHandlerFixture(t)
	rec := f.do(t, http.MethodGet, "/", "", nil)
	assert.Equal(t, http.StatusOK, rec.Code)
}
