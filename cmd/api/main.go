package main

import (
	"log/slog"
	"os"

	"github.com/cmlabs-hris/payroll-backend-go/internal/config"
	"github.com/go-chi/httplog/v3"
	"github.com/spf13/cobra"
)

const (
	appName    = "payroll-backend"
	appVersion = "v1.0.0"
)

func main() {
	root := &cobra.Command{
		Use:           "payroll-api",
		Short:         "Payroll and attendance backend",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.AddCommand(newServeCmd(), newMigrateCmd(), newSeedAdminCmd())

	if err := root.Execute(); err != nil {
		slog.Error("command failed", "error", err)
		os.Exit(1)
	}
}

// newLogger builds the ECS-formatted JSON logger and installs it as the
// slog default.
func newLogger(cfg *config.Config) *slog.Logger {
	logFormat := httplog.SchemaECS.Concise(!cfg.IsProduction())
	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		Level:       cfg.SlogLevel(),
		ReplaceAttr: logFormat.ReplaceAttr,
	})).With(
		slog.String("app", appName),
		slog.String("version", appVersion),
		slog.String("env", cfg.App.Env),
	)
	slog.SetDefault(logger)
	return logger
}
