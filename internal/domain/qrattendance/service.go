package qrattendance

import (
	"context"
	"time"

	"github.com/cmlabs-hris/payroll-backend-go/internal/domain/attendance"
)

type QRAttendanceService interface {
	// Generate issues a token for an active location and renders the QR image
	Generate(ctx context.Context, req GenerateRequest) (GenerateResponse, error)

	// ValidatePayload checks freshness first, then the location, then the
	// token, and returns the location ID
	ValidatePayload(ctx context.Context, p Payload, now time.Time) (string, error)

	// Scan clocks the calling employee in or out from a scanned payload
	Scan(ctx context.Context, req ScanRequest) (ScanResponse, error)

	ValidateLocation(ctx context.Context, req ValidateLocationRequest) (ValidateLocationResponse, error)

	History(ctx context.Context, filter attendance.HistoryFilter) ([]attendance.AttendanceResponse, error)
}
