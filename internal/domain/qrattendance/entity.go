package qrattendance

import (
	"context"
	"strings"
	"time"

	"github.com/goccy/go-json"
)

const DefaultValidity = 24 * time.Hour

// Payload is the JSON embedded in a generated QR code.
type Payload struct {
	LocationID   string    `json:"location_id"`
	LocationName string    `json:"location_name"`
	IssuedAt     time.Time `json:"issued_at"`
	ExpiresAt    time.Time `json:"expires_at"`
	Token        string    `json:"token"`
}

// CheckFreshness rejects a payload whose expiry has passed.
func (p Payload) CheckFreshness(now time.Time) error {
	if now.After(p.ExpiresAt) {
		return ErrQRExpired
	}
	return nil
}

func (p Payload) Encode() (string, error) {
	b, err := json.Marshal(p)
	if err != nil {
		return "", err
	}
	return string(b), nil
}

// ParsePayload decodes scanned QR content. Malformed content is ErrInvalidQRToken.
func ParsePayload(raw string) (Payload, error) {
	var p Payload
	if err := json.Unmarshal([]byte(strings.TrimSpace(raw)), &p); err != nil {
		return Payload{}, ErrInvalidQRToken
	}
	if p.LocationID == "" || p.Token == "" || p.ExpiresAt.IsZero() {
		return Payload{}, ErrInvalidQRToken
	}
	return p, nil
}

type Action string

const (
	ActionClockIn  Action = "clock_in"
	ActionClockOut Action = "clock_out"
)

// TokenStore remembers issued tokens until they expire and records which
// (token, employee, action) scans have already been used.
type TokenStore interface {
	Issue(ctx context.Context, token, locationID string, ttl time.Duration) error
	// Lookup returns the location a live token was issued for and its
	// remaining lifetime, or ErrInvalidQRToken.
	Lookup(ctx context.Context, token string) (locationID string, ttl time.Duration, err error)
	// Consume marks the scan used; it returns false if it already was.
	Consume(ctx context.Context, token, employeeID string, action Action, ttl time.Duration) (bool, error)
	// Release undoes a Consume whose clock event was not recorded.
	Release(ctx context.Context, token, employeeID string, action Action) error
}
