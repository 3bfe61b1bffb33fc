// Package reader implements the read half of the codec pipeline: a
// (possibly perturbed) StoragePattern back to quantised levels, a
// bitstream, ECC-decoded bits, and the original payload bytes.
package reader

import (
	"context"
	"errors"

	"golang.org/x/sync/errgroup"

	"github.com/aionix/optical5d-codec/bitio"
	"github.com/aionix/optical5d-codec/ecc"
	"github.com/aionix/optical5d-codec/lattice"
	"github.com/aionix/optical5d-codec/pattern"
)

// ErrCorruptPattern is returned when a pattern fails invariant
// revalidation, when a voxel's reported coordinates disagree with its
// index-derived position, or when ECC decoding yields a bitstream of
// the wrong length.
var ErrCorruptPattern = errors.New("reader: corrupt pattern")

// Result is the outcome of a successful Read.
type Result struct {
	Payload               []byte
	CorrectedErrors       int
	DetectedUncorrectable int
	VoxelsProcessed       int
}

// voxelChunk mirrors writer.voxelChunk: the number of voxels assigned to
// each goroutine when parallelising level extraction (the last goroutine
// may get fewer); at or below this count the work is not parallelised.
const voxelChunk = 4096

// Read reconstructs the original payload from p, resolving p.ECCName
// through the registry. It is a pure function of p: running it twice on
// the same (possibly noised) pattern produces byte-identical results.
func Read(p pattern.StoragePattern) (Result, error) {
	scheme, err := ecc.Get(p.ECCName)
	if err != nil {
		return Result{}, err
	}

	if err := p.Validate(scheme); err != nil {
		return Result{}, ErrCorruptPattern
	}

	bitsPerVoxel := p.BitsPerVoxel()
	padded := make([]byte, len(p.Voxels)*bitsPerVoxel)
	if err := extractBits(padded, p, bitsPerVoxel); err != nil {
		return Result{}, err
	}

	if len(padded) < p.PaddingBits {
		return Result{}, ErrCorruptPattern
	}
	encoded := padded[:len(padded)-p.PaddingBits]
	if len(encoded) != p.EncodedBitLength {
		return Result{}, ErrCorruptPattern
	}

	decoded, err := scheme.Decode(encoded)
	if err != nil {
		return Result{}, ErrCorruptPattern
	}

	wantBits := p.DataLengthBytes * 8
	if len(decoded.Bits) < wantBits {
		return Result{}, ErrCorruptPattern
	}

	payload, err := bitio.BitsToBytes(decoded.Bits[:wantBits])
	if err != nil {
		return Result{}, ErrCorruptPattern
	}

	return Result{
		Payload:               payload,
		CorrectedErrors:       decoded.CorrectedErrors,
		DetectedUncorrectable: decoded.DetectedUncorrectable,
		VoxelsProcessed:       len(p.Voxels),
	}, nil
}

// extractBits walks p's voxels in index order, recomputing each one's
// expected coordinate and rejecting any mismatch (§4.6 coordinate
// trust), then quantises its intensity/polarization back to levels and
// packs them MSB-first into padded.
func extractBits(padded []byte, p pattern.StoragePattern, bitsPerVoxel int) error {
	n := len(p.Voxels)
	if n <= voxelChunk {
		return extractRange(padded, p, bitsPerVoxel, 0, n)
	}

	g, _ := errgroup.WithContext(context.Background())
	for start := 0; start < n; start += voxelChunk {
		end := start + voxelChunk
		if end > n {
			end = n
		}
		start, end := start, end
		g.Go(func() error {
			return extractRange(padded, p, bitsPerVoxel, start, end)
		})
	}
	return g.Wait()
}

func extractRange(padded []byte, p pattern.StoragePattern, bitsPerVoxel, start, end int) error {
	intensityBits := p.IntensityAxis.Bits()
	polarizationBits := p.PolarizationAxis.Bits()

	for i := start; i < end; i++ {
		v := p.Voxels[i]
		wantX, wantY, wantZ := lattice.Coordinate(i, p.GridSize)
		if v.X != wantX || v.Y != wantY || v.Z != wantZ {
			return ErrCorruptPattern
		}

		intensityLevel := p.IntensityAxis.PhysicalToLevel(v.Intensity)
		polarizationLevel := p.PolarizationAxis.PhysicalToLevel(v.Polarization)

		field := padded[i*bitsPerVoxel : (i+1)*bitsPerVoxel]
		copy(field[:intensityBits], bitio.UintToBits(uint64(intensityLevel), intensityBits))
		copy(field[intensityBits:], bitio.UintToBits(uint64(polarizationLevel), polarizationBits))
	}
	return nil
}
