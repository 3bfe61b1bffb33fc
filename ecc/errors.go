// Package ecc provides the forward-error-correction interface, its
// sentinel errors, and the name registry shared by all schemes.
package ecc

import "errors"

var (
	// ErrUnknownECC is returned when a name has no registered scheme.
	ErrUnknownECC = errors.New("ecc: unknown scheme")

	// ErrInvalidLength is returned when input to Encode or Decode is not
	// a multiple of the scheme's required block size.
	ErrInvalidLength = errors.New("ecc: bit length not aligned to block size")
)
