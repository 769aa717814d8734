package qrattendance

import (
	"time"

	"github.com/cmlabs-hris/payroll-backend-go/internal/pkg/validator"
)

type GenerateRequest struct {
	LocationID string `json:"location_id" validate:"required,uuid"`
	// ValidityMinutes overrides the configured validity window
	ValidityMinutes *int `json:"validity_minutes,omitempty" validate:"omitempty,gt=0,lte=10080"`
}

func (r *GenerateRequest) Validate() error {
	return validator.Struct(r)
}

type GenerateResponse struct {
	Payload Payload `json:"payload"`
	// QRData is the encoded payload, the exact content of the QR image
	QRData   string `json:"qr_data"`
	ImagePNG string `json:"image_png_base64"`
}

type ScanRequest struct {
	QRData    string   `json:"qr_data" validate:"required"`
	Latitude  *float64 `json:"latitude,omitempty" validate:"omitempty,latitude"`
	Longitude *float64 `json:"longitude,omitempty" validate:"omitempty,longitude"`
}

func (r *ScanRequest) Validate() error {
	var errs validator.ValidationErrors
	if err := validator.Struct(r); err != nil {
		fieldErrs, ok := err.(validator.ValidationErrors)
		if !ok {
			return err
		}
		errs = fieldErrs
	}
	if (r.Latitude == nil) != (r.Longitude == nil) {
		errs.Add("coordinates", "latitude and longitude must be given together")
	}
	return errs.Err()
}

type ScanResponse struct {
	Action        Action   `json:"action"`
	Time          string   `json:"time"`
	Location      string   `json:"location"`
	Status        string   `json:"status"`
	HoursWorked   *float64 `json:"hours_worked,omitempty"`
	OvertimeHours *float64 `json:"overtime_hours,omitempty"`
	Notes         *string  `json:"notes,omitempty"`
}

func NewScanResponse(action Action, at time.Time, locationName, status string) ScanResponse {
	return ScanResponse{
		Action:   action,
		Time:     at.Format("15:04:05"),
		Location: locationName,
		Status:   status,
	}
}

type ValidateLocationRequest struct {
	LocationID string  `json:"location_id" validate:"required,uuid"`
	Latitude   float64 `json:"latitude" validate:"latitude"`
	Longitude  float64 `json:"longitude" validate:"longitude"`
}

func (r *ValidateLocationRequest) Validate() error {
	return validator.Struct(r)
}

type ValidateLocationResponse struct {
	IsWithinRadius bool    `json:"is_within_radius"`
	DistanceMeters float64 `json:"distance_meters"`
	RequiredRadius int     `json:"required_radius"`
	LocationName   string  `json:"location_name"`
	Message        string  `json:"message,omitempty"`
}
