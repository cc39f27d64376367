package crypto

import "errors"

var (
	// ErrInvalidKeySize is returned when a CEK has the wrong length.
	ErrInvalidKeySize = errors.New("invalid content key size")

	// ErrPayloadTooShort is returned when an encrypted payload is too short
	// to contain an IV and an authentication tag.
	ErrPayloadTooShort = errors.New("encrypted payload too short")

	// ErrAuthenticationFailed is returned when the AEAD tag does not verify.
	ErrAuthenticationFailed = errors.New("payload authentication failed")
)
