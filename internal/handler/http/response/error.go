package response

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/cmlabs-hris/payroll-backend-go/internal/domain/attendance"
	"github.com/cmlabs-hris/payroll-backend-go/internal/domain/auth"
	"github.com/cmlabs-hris/payroll-backend-go/internal/domain/employee"
	"github.com/cmlabs-hris/payroll-backend-go/internal/domain/location"
	"github.com/cmlabs-hris/payroll-backend-go/internal/domain/payroll"
	"github.com/cmlabs-hris/payroll-backend-go/internal/domain/qrattendance"
	"github.com/cmlabs-hris/payroll-backend-go/internal/domain/report"
	"github.com/cmlabs-hris/payroll-backend-go/internal/domain/timepolicy"
	"github.com/cmlabs-hris/payroll-backend-go/internal/domain/user"
	"github.com/cmlabs-hris/payroll-backend-go/internal/pkg/validator"
)

// HandleError maps domain errors to HTTP responses
func HandleError(w http.ResponseWriter, err error) {
	var validationErrs validator.ValidationErrors
	if errors.As(err, &validationErrs) {
		ValidationError(w, validationErrs.ToMap())
		return
	}

	switch {
	// Authentication
	case errors.Is(err, user.ErrUnauthenticated),
		errors.Is(err, auth.ErrInvalidCredentials),
		errors.Is(err, auth.ErrInvalidToken),
		errors.Is(err, auth.ErrRefreshTokenRevoked),
		errors.Is(err, auth.ErrRefreshTokenCookieNotFound):
		Unauthorized(w, err.Error())

	// Permission
	case errors.Is(err, user.ErrInsufficientPermissions),
		errors.Is(err, user.ErrNoEmployeeProfile),
		errors.Is(err, user.ErrCannotDeleteSelf),
		errors.Is(err, user.ErrCannotChangeOwnRole),
		errors.Is(err, auth.ErrAccountInactive),
		errors.Is(err, auth.ErrGoogleAccountNotLinked),
		errors.Is(err, employee.ErrCannotDeactivateSelf),
		errors.Is(err, employee.ErrRoleNotAssignable):
		Forbidden(w, err.Error())

	// Not found
	case errors.Is(err, user.ErrUserNotFound),
		errors.Is(err, employee.ErrEmployeeNotFound),
		errors.Is(err, payroll.ErrEmployeeNotFound),
		errors.Is(err, payroll.ErrPayrollNotFound),
		errors.Is(err, attendance.ErrAttendanceNotFound),
		errors.Is(err, timepolicy.ErrOfficeHoursNotFound),
		errors.Is(err, timepolicy.ErrAttendancePolicyNotFound),
		errors.Is(err, location.ErrLocationNotFound),
		errors.Is(err, auth.ErrGoogleLoginDisabled):
		NotFound(w, err.Error())

	// Conflict
	case errors.Is(err, user.ErrUserEmailExists),
		errors.Is(err, user.ErrUsernameExists),
		errors.Is(err, user.ErrLastAdmin),
		errors.Is(err, employee.ErrEmployeeCodeExists),
		errors.Is(err, employee.ErrEmployeeAlreadyInactive),
		errors.Is(err, payroll.ErrPayrollAlreadyExists),
		errors.Is(err, payroll.ErrPayrollAlreadyPaid),
		errors.Is(err, payroll.ErrPayrollNotProcessed),
		errors.Is(err, attendance.ErrAlreadyClockedIn),
		errors.Is(err, attendance.ErrNotClockedIn),
		errors.Is(err, attendance.ErrAlreadyClockedOut),
		errors.Is(err, attendance.ErrAttendanceExists),
		errors.Is(err, timepolicy.ErrInactive),
		errors.Is(err, location.ErrLocationInactive),
		errors.Is(err, qrattendance.ErrQRAlreadyUsed):
		Conflict(w, err.Error())

	// QR
	case errors.Is(err, qrattendance.ErrQRExpired):
		Gone(w, "QR_EXPIRED", err.Error())
	case errors.Is(err, qrattendance.ErrInvalidLocation):
		errorJSON(w, http.StatusBadRequest, "INVALID_LOCATION", err.Error(), nil)
	case errors.Is(err, qrattendance.ErrInvalidQRToken):
		errorJSON(w, http.StatusBadRequest, "INVALID_QR", err.Error(), nil)
	case errors.Is(err, qrattendance.ErrOutsideRadius):
		errorJSON(w, http.StatusBadRequest, "OUTSIDE_RADIUS", err.Error(), nil)

	// Bad request
	case errors.Is(err, user.ErrInvalidRole),
		errors.Is(err, auth.ErrWrongCurrentPassword),
		errors.Is(err, auth.ErrInvalidOAuthState),
		errors.Is(err, payroll.ErrNoEmployeesToProcess),
		errors.Is(err, report.ErrInvalidDateRange),
		errors.Is(err, report.ErrRangeTooLong):
		BadRequest(w, err.Error(), nil)

	default:
		slog.Error("unhandled error", "error", err)
		InternalServerError(w, "An unexpected error occurred")
	}
}
