// Package writer implements the write half of the codec pipeline: bytes
// to bits to ECC-encoded bits to padded bitstream to quantised voxel
// levels to a StoragePattern.
package writer

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"github.com/aionix/optical5d-codec/bitio"
	"github.com/aionix/optical5d-codec/ecc"
	"github.com/aionix/optical5d-codec/lattice"
	"github.com/aionix/optical5d-codec/pattern"
	"github.com/aionix/optical5d-codec/quant"
	"github.com/aionix/optical5d-codec/validate"
	"github.com/aionix/optical5d-codec/voxel"
)

// ErrCapacityExceeded is returned when the required voxel count exceeds
// the grid's volume.
var ErrCapacityExceeded = errors.New("writer: required voxels exceed grid volume")

// Config bundles the geometry and axis parameters for a write. Scheme
// must be non-nil; callers typically resolve it via ecc.Get.
type Config struct {
	GridSize         voxel.GridSize
	VoxelPitch       voxel.VoxelPitch
	IntensityAxis    quant.QuantisationAxis
	PolarizationAxis quant.QuantisationAxis
	Scheme           ecc.Codec
}

// voxelChunk is the number of voxels assigned to each goroutine when
// parallelising quantisation across the lattice (the last goroutine may
// get fewer); at or below this count the work runs on the calling
// goroutine, since the per-goroutine overhead would outweigh the benefit.
const voxelChunk = 4096

// Write encodes payload into a StoragePattern per cfg. Apart from
// PatternID, which is a fresh random UUID on every call, the output
// depends only on payload and cfg: for a fixed payload and cfg, the
// voxels and metadata are byte-for-byte identical regardless of how many
// goroutines the runtime schedules, because each goroutine only ever
// writes to the disjoint voxel-index range it was assigned.
func Write(payload []byte, cfg Config) (pattern.StoragePattern, error) {
	if err := validate.Bytes(payload, validate.MaxPayloadBytes); err != nil {
		return pattern.StoragePattern{}, err
	}
	if err := validate.Grid(cfg.GridSize.NX, cfg.GridSize.NY, cfg.GridSize.NZ, validate.MaxGridDimension); err != nil {
		return pattern.StoragePattern{}, err
	}
	if err := validate.PowerOfTwo(cfg.IntensityAxis.Levels); err != nil {
		return pattern.StoragePattern{}, err
	}
	if err := validate.PowerOfTwo(cfg.PolarizationAxis.Levels); err != nil {
		return pattern.StoragePattern{}, err
	}
	if err := validate.Range(cfg.IntensityAxis.Range.Lo, cfg.IntensityAxis.Range.Hi); err != nil {
		return pattern.StoragePattern{}, err
	}
	if err := validate.Range(cfg.PolarizationAxis.Range.Lo, cfg.PolarizationAxis.Range.Hi); err != nil {
		return pattern.StoragePattern{}, err
	}

	bitsPerVoxel := cfg.IntensityAxis.Bits() + cfg.PolarizationAxis.Bits()
	if bitsPerVoxel < 1 {
		return pattern.StoragePattern{}, validate.ErrInvalidParameter
	}

	rawBits := len(payload) * 8
	encodedBits := cfg.Scheme.EncodedLen(rawBits)
	voxelCount := ceilDiv(encodedBits, bitsPerVoxel)
	padding := voxelCount*bitsPerVoxel - encodedBits

	if voxelCount > cfg.GridSize.Volume() {
		return pattern.StoragePattern{}, ErrCapacityExceeded
	}

	rawBitstream := bitio.BytesToBits(payload)
	encoded, err := cfg.Scheme.Encode(rawBitstream)
	if err != nil {
		return pattern.StoragePattern{}, err
	}
	if len(encoded) != encodedBits {
		return pattern.StoragePattern{}, validate.ErrInvalidParameter
	}

	padded := make([]byte, voxelCount*bitsPerVoxel)
	copy(padded, encoded)

	voxels := make([]voxel.Voxel, voxelCount)
	if err := fillVoxels(voxels, padded, cfg, bitsPerVoxel); err != nil {
		return pattern.StoragePattern{}, err
	}

	return pattern.StoragePattern{
		PatternID:        uuid.New(),
		Voxels:           voxels,
		GridSize:         cfg.GridSize,
		VoxelPitch:       cfg.VoxelPitch,
		IntensityAxis:    cfg.IntensityAxis,
		PolarizationAxis: cfg.PolarizationAxis,
		ECCName:          cfg.Scheme.Name(),
		DataLengthBytes:  len(payload),
		EncodedBitLength: encodedBits,
		PaddingBits:      padding,
	}, nil
}

// fillVoxels quantises padded into one Voxel per index, parallelising
// across contiguous chunks when there are enough voxels to make it
// worthwhile. Every goroutine writes only to its own chunk of voxels, so
// the result is identical to running strictly sequentially.
func fillVoxels(voxels []voxel.Voxel, padded []byte, cfg Config, bitsPerVoxel int) error {
	n := len(voxels)
	if n <= voxelChunk {
		return fillRange(voxels, padded, cfg, bitsPerVoxel, 0, n)
	}

	g, _ := errgroup.WithContext(context.Background())
	for start := 0; start < n; start += voxelChunk {
		end := start + voxelChunk
		if end > n {
			end = n
		}
		start, end := start, end
		g.Go(func() error {
			return fillRange(voxels, padded, cfg, bitsPerVoxel, start, end)
		})
	}
	return g.Wait()
}

func fillRange(voxels []voxel.Voxel, padded []byte, cfg Config, bitsPerVoxel, start, end int) error {
	intensityBits := cfg.IntensityAxis.Bits()
	for i := start; i < end; i++ {
		field := padded[i*bitsPerVoxel : (i+1)*bitsPerVoxel]
		intensityLevel := bitio.BitsToUint(field[:intensityBits])
		polarizationLevel := bitio.BitsToUint(field[intensityBits:])

		intensity := cfg.IntensityAxis.LevelToPhysical(int(intensityLevel))
		polarization := cfg.PolarizationAxis.LevelToPhysical(int(polarizationLevel))

		x, y, z := lattice.Coordinate(i, cfg.GridSize)
		v, err := voxel.New(x, y, z, intensity, polarization)
		if err != nil {
			return err
		}
		voxels[i] = v
	}
	return nil
}

func ceilDiv(a, b int) int {
	return (a + b - 1) / b
}
