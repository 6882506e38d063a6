package device

import "errors"

var (
	ErrBookingNotFound = errors.New("booking not found on device")

	ErrUnauthorized = errors.New("device rejected credentials")
)
