package qrattendance

import "errors"

var (
	ErrQRExpired       = errors.New("QR code has expired")
	ErrInvalidLocation = errors.New("invalid location")
	ErrInvalidQRToken  = errors.New("invalid QR code")
	ErrOutsideRadius   = errors.New("you are outside the allowed radius for this location")
	ErrQRAlreadyUsed   = errors.New("QR code already used for this action")
)
