package http

import (
	"log/slog"

	"github.com/cmlabs-hris/payroll-backend-go/internal/domain/user"
	"github.com/cmlabs-hris/payroll-backend-go/internal/handler/http/middleware"
	"github.com/cmlabs-hris/payroll-backend-go/internal/pkg/jwt"
	"github.com/go-chi/chi/v5"
	chiMiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/go-chi/httplog/v3"
	"github.com/go-chi/jwtauth/v5"
)

// Handlers groups every HTTP handler mounted by NewRouter.
type Handlers struct {
	Auth         AuthHandler
	User         UserHandler
	Employee     EmployeeHandler
	Payroll      PayrollHandler
	Attendance   AttendanceHandler
	TimePolicy   TimePolicyHandler
	Location     LocationHandler
	QRAttendance QRAttendanceHandler
	Dashboard    DashboardHandler
	Report       ReportHandler
}

type RouterOptions struct {
	AllowedOrigins []string
	// Logger receives request logs; nil disables request logging.
	Logger *slog.Logger
}

func NewRouter(JWTService jwt.Service, h Handlers, opts RouterOptions) *chi.Mux {
	r := chi.NewRouter()

	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   opts.AllowedOrigins,
		AllowCredentials: true,
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type", "X-CSRF-Token"},
		ExposedHeaders:   []string{"Link"},
		MaxAge:           300,
	}))

	if opts.Logger != nil {
		r.Use(httplog.RequestLogger(opts.Logger, &httplog.Options{
			Level:  slog.LevelInfo,
			Schema: httplog.SchemaECS,
		}))
	}

	r.Use(chiMiddleware.AllowContentEncoding("application/json"))
	r.Use(chiMiddleware.CleanPath)
	r.Use(chiMiddleware.Recoverer)
	r.Use(chiMiddleware.Heartbeat("/"))

	r.Route("/api/v1", func(r chi.Router) {

		r.Route("/auth", func(r chi.Router) {
			r.Post("/login", h.Auth.Login)
			r.Post("/refresh", h.Auth.RefreshToken)
			r.Post("/logout", h.Auth.Logout)
			r.Get("/oauth/google", h.Auth.LoginWithGoogle)
			r.Get("/oauth/callback/google", h.Auth.OAuthCallbackGoogle)

			r.Group(func(r chi.Router) {
				r.Use(jwtauth.Verifier(JWTService.JWTAuth()))
				r.Use(middleware.AuthRequired)
				r.Get("/me", h.Auth.Me)
				r.Put("/me", h.Auth.UpdateMe)
				r.Put("/me/password", h.Auth.ChangePassword)
			})
		})

		// Requires authentication
		r.Group(func(r chi.Router) {
			r.Use(jwtauth.Verifier(JWTService.JWTAuth()))
			r.Use(middleware.AuthRequired)

			r.Route("/users", func(r chi.Router) {
				r.Use(middleware.RequirePermission(user.PermissionUserManage))
				r.Get("/", h.User.ListUsers)
				r.Post("/", h.User.CreateUser)
				r.Put("/{id}/role", h.User.UpdateRole)
				r.Delete("/{id}", h.User.DeleteUser)
				r.Post("/bulk-delete", h.User.BulkDelete)
			})

			r.Route("/employees", func(r chi.Router) {
				// employees may read their own record
				r.Get("/{id}", h.Employee.GetEmployee)

				r.Group(func(r chi.Router) {
					r.Use(middleware.RequirePermission(user.PermissionEmployeeViewAll))
					r.Get("/", h.Employee.ListEmployees)
					r.Get("/departments", h.Employee.Departments)
				})

				r.Group(func(r chi.Router) {
					r.Use(middleware.RequirePermission(user.PermissionEmployeeManage))
					r.Post("/", h.Employee.CreateEmployee)
					r.Put("/{id}", h.Employee.UpdateEmployee)
					r.Delete("/{id}", h.Employee.DeactivateEmployee)
					r.Post("/{id}/reset-password", h.Employee.ResetPassword)
				})
			})

			r.Route("/payrolls", func(r chi.Router) {
				// scoped to the caller's own payslips without payroll.manage
				r.Get("/", h.Payroll.List)
				r.Get("/{id}", h.Payroll.Get)

				r.Group(func(r chi.Router) {
					r.Use(middleware.RequirePermission(user.PermissionPayrollManage))
					r.Post("/", h.Payroll.Create)
					r.Post("/bulk", h.Payroll.BulkProcess)
					r.Get("/summary", h.Payroll.Summary)
					r.Post("/{id}/pay", h.Payroll.MarkPaid)
				})

				r.With(middleware.RequirePermission(user.PermissionReportsView)).
					Get("/report", h.Report.PayrollReport)
			})

			r.Route("/attendance", func(r chi.Router) {
				r.Group(func(r chi.Router) {
					r.Use(middleware.RequireEmployeeProfile)
					r.Post("/clock-in", h.Attendance.ClockIn)
					r.Post("/clock-out", h.Attendance.ClockOut)
					r.Get("/status", h.Attendance.Status)
				})
				r.Get("/history", h.Attendance.History)
				r.Get("/stats", h.Attendance.Stats)

				r.Group(func(r chi.Router) {
					r.Use(middleware.RequirePermission(user.PermissionAttendanceViewAll))
					r.Get("/", h.Attendance.List)
				})

				r.Group(func(r chi.Router) {
					r.Use(middleware.RequirePermission(user.PermissionAttendanceManage))
					r.Post("/", h.Attendance.CreateManual)
					r.Put("/{id}", h.Attendance.Update)
				})

				r.With(middleware.RequirePermission(user.PermissionAttendanceDelete)).
					Delete("/{id}", h.Attendance.Delete)
			})

			r.Route("/time-management", func(r chi.Router) {
				r.Route("/office-hours", func(r chi.Router) {
					r.Get("/", h.TimePolicy.ListOfficeHours)
					r.Get("/{id}", h.TimePolicy.GetOfficeHours)

					r.Group(func(r chi.Router) {
						r.Use(middleware.RequirePermission(user.PermissionTimePolicyManage))
						r.Post("/", h.TimePolicy.CreateOfficeHours)
						r.Put("/{id}", h.TimePolicy.UpdateOfficeHours)
						r.Delete("/{id}", h.TimePolicy.DeleteOfficeHours)
						r.Post("/{id}/default", h.TimePolicy.SetDefaultOfficeHours)
					})
				})

				r.Route("/policies", func(r chi.Router) {
					r.Use(middleware.RequirePermission(user.PermissionTimePolicyManage))
					r.Get("/", h.TimePolicy.ListPolicies)
					r.Post("/", h.TimePolicy.CreatePolicy)
					r.Get("/{id}", h.TimePolicy.GetPolicy)
					r.Put("/{id}", h.TimePolicy.UpdatePolicy)
					r.Delete("/{id}", h.TimePolicy.DeletePolicy)
					r.Post("/{id}/default", h.TimePolicy.SetDefaultPolicy)
				})

				r.With(middleware.RequirePermission(user.PermissionReportsView)).
					Get("/report", h.Report.AttendanceReport)
			})

			r.Route("/locations", func(r chi.Router) {
				r.Get("/", h.Location.List)
				r.Get("/{id}", h.Location.Get)

				r.Group(func(r chi.Router) {
					r.Use(middleware.RequirePermission(user.PermissionLocationManage))
					r.Post("/", h.Location.Create)
					r.Put("/{id}", h.Location.Update)
					r.Delete("/{id}", h.Location.Deactivate)
				})
			})

			r.Route("/qr", func(r chi.Router) {
				r.With(middleware.RequirePermission(user.PermissionQRGenerate)).
					Post("/generate", h.QRAttendance.Generate)

				r.Group(func(r chi.Router) {
					r.Use(middleware.RequirePermission(user.PermissionQRScan))
					r.With(middleware.RequireEmployeeProfile).Post("/scan", h.QRAttendance.Scan)
					r.Post("/validate-location", h.QRAttendance.ValidateLocation)
					r.Get("/history", h.QRAttendance.History)
				})
			})

			r.Route("/dashboard", func(r chi.Router) {
				r.With(middleware.RequirePermission(user.PermissionEmployeeViewAll)).
					Get("/", h.Dashboard.GetDashboard)
				r.With(middleware.RequireEmployeeProfile).
					Get("/employee", h.Dashboard.GetEmployeeDashboard)
			})
		})
	})
	return r
}
