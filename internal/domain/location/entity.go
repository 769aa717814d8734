package location

import (
	"time"

	"github.com/cmlabs-hris/payroll-backend-go/internal/pkg/utils"
)

const DefaultRadiusMeters = 100

type OfficeLocation struct {
	ID           string
	Name         string
	Address      string
	Latitude     *float64
	Longitude    *float64
	RadiusMeters int
	IsActive     bool
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

func (l OfficeLocation) HasCoordinates() bool {
	return l.Latitude != nil && l.Longitude != nil
}

type DistanceCheck struct {
	DistanceMeters float64
	IsWithinRadius bool
	RadiusMeters   int
	// GPSRequired is false for locations without coordinates
	GPSRequired bool
}

// CheckDistance measures (lat, lng) against the location using distance.
// Locations without coordinates are always within radius at distance 0.
func (l OfficeLocation) CheckDistance(lat, lng float64, distance utils.DistanceFunc) DistanceCheck {
	if !l.HasCoordinates() {
		return DistanceCheck{IsWithinRadius: true, RadiusMeters: l.RadiusMeters}
	}
	meters := utils.RoundTo(distance(lat, lng, *l.Latitude, *l.Longitude), 2)
	return DistanceCheck{
		DistanceMeters: meters,
		IsWithinRadius: meters <= float64(l.RadiusMeters),
		RadiusMeters:   l.RadiusMeters,
		GPSRequired:    true,
	}
}
