package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/cmlabs-hris/payroll-backend-go/internal/config"
	"github.com/cmlabs-hris/payroll-backend-go/internal/domain/payroll"
	appHTTP "github.com/cmlabs-hris/payroll-backend-go/internal/handler/http"
	"github.com/cmlabs-hris/payroll-backend-go/internal/pkg/database"
	"github.com/cmlabs-hris/payroll-backend-go/internal/pkg/jwt"
	"github.com/cmlabs-hris/payroll-backend-go/internal/pkg/oauth"
	"github.com/cmlabs-hris/payroll-backend-go/internal/repository/postgresql"
	"github.com/cmlabs-hris/payroll-backend-go/internal/repository/redis"
	attendanceService "github.com/cmlabs-hris/payroll-backend-go/internal/service/attendance"
	authService "github.com/cmlabs-hris/payroll-backend-go/internal/service/auth"
	dashboardService "github.com/cmlabs-hris/payroll-backend-go/internal/service/dashboard"
	employeeService "github.com/cmlabs-hris/payroll-backend-go/internal/service/employee"
	locationService "github.com/cmlabs-hris/payroll-backend-go/internal/service/location"
	payrollService "github.com/cmlabs-hris/payroll-backend-go/internal/service/payroll"
	qrAttendanceService "github.com/cmlabs-hris/payroll-backend-go/internal/service/qrattendance"
	reportService "github.com/cmlabs-hris/payroll-backend-go/internal/service/report"
	timePolicyService "github.com/cmlabs-hris/payroll-backend-go/internal/service/timepolicy"
	userService "github.com/cmlabs-hris/payroll-backend-go/internal/service/user"
	"github.com/spf13/cobra"
)

const shutdownTimeout = 15 * time.Second

func newServeCmd() *cobra.Command {
	var migrateFirst bool
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Start the HTTP API server",
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := config.Load()
			if err != nil {
				return err
			}
			ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
			defer stop()

			if migrateFirst {
				if err := database.Migrate(ctx, cfg.DatabaseURL(), "up"); err != nil {
					return err
				}
			}
			return serve(ctx, cfg)
		},
	}
	cmd.Flags().BoolVar(&migrateFirst, "migrate", false, "apply pending migrations before serving")
	return cmd
}

func serve(ctx context.Context, cfg *config.Config) error {
	logger := newLogger(cfg)
	loc := cfg.Location()

	db, err := database.NewPostgreSQLDB(ctx, cfg.DatabaseURL())
	if err != nil {
		return fmt.Errorf("connect to database: %w", err)
	}
	defer db.Close()

	redisClient, err := redis.NewClient(ctx, cfg.Redis.Addr, cfg.Redis.Password, cfg.Redis.DB)
	if err != nil {
		return err
	}
	defer redisClient.Close()

	JWTService, err := jwt.NewJWTService(cfg.JWT.Secret, cfg.JWT.AccessExpiration, cfg.JWT.RefreshExpiration, cfg.IsProduction())
	if err != nil {
		return fmt.Errorf("configure jwt: %w", err)
	}
	var googleService oauth.GoogleService
	if cfg.OAuth2Google.Enabled() {
		googleService = oauth.NewGoogleService(cfg.OAuth2Google.ClientID, cfg.OAuth2Google.ClientSecret, cfg.OAuth2Google.RedirectURL, cfg.OAuth2Google.Scopes)
	}

	tx := postgresql.NewTransactor(db)
	userRepo := postgresql.NewUserRepository(db)
	refreshTokenRepo := postgresql.NewRefreshTokenRepository(db)
	employeeRepo := postgresql.NewEmployeeRepository(db)
	attendanceRepo := postgresql.NewAttendanceRepository(db)
	officeHoursRepo := postgresql.NewOfficeHoursRepository(db)
	policyRepo := postgresql.NewAttendancePolicyRepository(db)
	locationRepo := postgresql.NewLocationRepository(db)
	payrollRepo := postgresql.NewPayrollRepository(db)
	dashboardRepo := postgresql.NewDashboardRepository(db)
	reportRepo := postgresql.NewReportRepository(db)
	qrTokenStore := redis.NewQRTokenStore(redisClient)

	authSvc := authService.NewAuthService(tx, userRepo, employeeRepo, refreshTokenRepo, JWTService, cfg.OAuth2Google.Enabled())
	userSvc := userService.NewUserService(tx, userRepo, refreshTokenRepo)
	employeeSvc := employeeService.NewEmployeeService(tx, employeeRepo, userRepo, refreshTokenRepo, loc)
	attendanceSvc := attendanceService.NewAttendanceService(tx, attendanceRepo, officeHoursRepo, employeeRepo, loc)
	timePolicySvc := timePolicyService.NewTimePolicyService(tx, officeHoursRepo, policyRepo)
	locationSvc := locationService.NewLocationService(locationRepo)
	qrSvc := qrAttendanceService.NewQRAttendanceService(locationRepo, qrTokenStore, attendanceSvc, cfg.QR.Validity, loc)
	payrollSvc := payrollService.NewPayrollService(tx, payrollRepo, employeeRepo, policyRepo, payroll.Rates{
		AllowanceRate: cfg.Payroll.AllowanceRate,
		TaxRate:       cfg.Payroll.TaxRate,
		PensionRate:   cfg.Payroll.PensionRate,
	})
	dashboardSvc := dashboardService.NewDashboardService(dashboardRepo, employeeRepo, attendanceSvc, loc)
	reportSvc := reportService.NewReportService(reportRepo, officeHoursRepo, loc)

	router := appHTTP.NewRouter(JWTService, appHTTP.Handlers{
		Auth:         appHTTP.NewAuthHandler(JWTService, authSvc, googleService, cfg.App.FrontendURL),
		User:         appHTTP.NewUserHandler(userSvc),
		Employee:     appHTTP.NewEmployeeHandler(employeeSvc),
		Payroll:      appHTTP.NewPayrollHandler(payrollSvc),
		Attendance:   appHTTP.NewAttendanceHandler(attendanceSvc, loc),
		TimePolicy:   appHTTP.NewTimePolicyHandler(timePolicySvc),
		Location:     appHTTP.NewLocationHandler(locationSvc),
		QRAttendance: appHTTP.NewQRAttendanceHandler(qrSvc),
		Dashboard:    appHTTP.NewDashboardHandler(dashboardSvc),
		Report:       appHTTP.NewReportHandler(reportSvc),
	}, appHTTP.RouterOptions{
		AllowedOrigins: cfg.App.AllowedOrigins,
		Logger:         logger,
	})

	srv := &http.Server{
		Addr:              fmt.Sprintf(":%d", cfg.App.Port),
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		slog.Info("server listening", "addr", srv.Addr, "timezone", loc.String())
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	slog.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	return srv.Shutdown(shutdownCtx)
}
