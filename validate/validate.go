// Package validate centralizes the predicates used by both the writer
// and the reader to reject malformed payloads, geometry, and voxel
// values before they can violate a StoragePattern invariant.
package validate

import (
	"errors"
	"math"
	"math/bits"
)

// ErrInvalidParameter is returned by every predicate in this package on
// failure.
var ErrInvalidParameter = errors.New("validate: invalid parameter")

// MaxPayloadBytes bounds the payload accepted by the writer.
const MaxPayloadBytes = 1 << 20 // 1 MiB

// MaxGridDimension bounds each axis of a grid.
const MaxGridDimension = 10000

// Bytes rejects a payload larger than max bytes.
func Bytes(b []byte, max int) error {
	if len(b) > max {
		return ErrInvalidParameter
	}
	return nil
}

// Grid rejects non-positive or oversize dimensions.
func Grid(nx, ny, nz, max int) error {
	if nx <= 0 || ny <= 0 || nz <= 0 {
		return ErrInvalidParameter
	}
	if nx > max || ny > max || nz > max {
		return ErrInvalidParameter
	}
	return nil
}

// Range rejects a non-finite or ill-ordered (lo, hi) pair.
func Range(lo, hi float64) error {
	if !Finite(lo) || !Finite(hi) {
		return ErrInvalidParameter
	}
	if !(lo < hi) {
		return ErrInvalidParameter
	}
	return nil
}

// PowerOfTwo rejects a level count that is not a positive power of two.
func PowerOfTwo(levels int) error {
	if levels <= 0 || bits.OnesCount(uint(levels)) != 1 {
		return ErrInvalidParameter
	}
	return nil
}

// Finite reports whether v is neither NaN nor infinite.
func Finite(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0)
}
