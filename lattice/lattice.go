// Package lattice is the single source of truth for the voxel index to
// (x, y, z) coordinate mapping used by both the writer and the reader.
// No other package may derive coordinates any other way.
package lattice

import "github.com/aionix/optical5d-codec/voxel"

// Coordinate maps a voxel index i in [0, grid.Volume()) to its (x, y, z)
// position, with x fastest, then y, then z.
func Coordinate(i int, grid voxel.GridSize) (x, y, z int) {
	x = i % grid.NX
	y = (i / grid.NX) % grid.NY
	z = i / (grid.NX * grid.NY)
	return
}

// Index is the inverse of Coordinate.
func Index(x, y, z int, grid voxel.GridSize) int {
	return z*grid.NX*grid.NY + y*grid.NX + x
}
