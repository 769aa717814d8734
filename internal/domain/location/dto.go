package location

import (
	"time"

	"github.com/cmlabs-hris/payroll-backend-go/internal/pkg/validator"
)

type LocationRequest struct {
	ID           string   `json:"-"`
	Name         string   `json:"name" validate:"required,max=100"`
	Address      string   `json:"address" validate:"required,max=500"`
	Latitude     *float64 `json:"latitude,omitempty" validate:"omitempty,latitude"`
	Longitude    *float64 `json:"longitude,omitempty" validate:"omitempty,longitude"`
	RadiusMeters *int     `json:"radius_meters,omitempty" validate:"omitempty,gt=0,lte=100000"`
	IsActive     *bool    `json:"is_active,omitempty"`
}

func (r *LocationRequest) Validate() error {
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

// Entity applies defaults; call after Validate.
func (r *LocationRequest) Entity() OfficeLocation {
	l := OfficeLocation{
		ID:           r.ID,
		Name:         r.Name,
		Address:      r.Address,
		Latitude:     r.Latitude,
		Longitude:    r.Longitude,
		RadiusMeters: DefaultRadiusMeters,
		IsActive:     true,
	}
	if r.RadiusMeters != nil {
		l.RadiusMeters = *r.RadiusMeters
	}
	if r.IsActive != nil {
		l.IsActive = *r.IsActive
	}
	return l
}

type Coordinates struct {
	Lat float64 `json:"lat"`
	Lng float64 `json:"lng"`
}

type LocationResponse struct {
	ID           string       `json:"id"`
	Name         string       `json:"name"`
	Address      string       `json:"address"`
	Coordinates  *Coordinates `json:"coordinates"`
	RadiusMeters int          `json:"radius_meters"`
	IsActive     bool         `json:"is_active"`
	CreatedAt    string       `json:"created_at"`
	UpdatedAt    string       `json:"updated_at"`
}

func NewLocationResponse(l OfficeLocation) LocationResponse {
	resp := LocationResponse{
		ID:           l.ID,
		Name:         l.Name,
		Address:      l.Address,
		RadiusMeters: l.RadiusMeters,
		IsActive:     l.IsActive,
		CreatedAt:    l.CreatedAt.Format(time.RFC3339),
		UpdatedAt:    l.UpdatedAt.Format(time.RFC3339),
	}
	if l.HasCoordinates() {
		resp.Coordinates = &Coordinates{Lat: *l.Latitude, Lng: *l.Longitude}
	}
	return resp
}
