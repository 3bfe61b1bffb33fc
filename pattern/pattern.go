// Package pattern defines StoragePattern, the immutable metadata bundle
// that binds a writer's parameters to a reader's reconstruction, plus
// the invariant checks both sides share and the dictionary projection
// used by the out-of-scope persistence collaborator.
package pattern

import (
	"errors"

	"github.com/google/uuid"

	"github.com/aionix/optical5d-codec/ecc"
	"github.com/aionix/optical5d-codec/quant"
	"github.com/aionix/optical5d-codec/validate"
	"github.com/aionix/optical5d-codec/voxel"
)

// ErrCorrupt is returned when a pattern fails invariant revalidation,
// typically because its voxel list was perturbed between write and read
// in a way that broke structure rather than just physical values.
var ErrCorrupt = errors.New("pattern: invariants violated")

// StoragePattern is the complete, self-describing record produced by the
// writer and consumed by the reader. Every field is set at construction
// and never mutated afterward; the voxel slice itself may be replaced by
// an external noise model between write and read (§ noise collaborator),
// but the metadata fields are fixed for the lifetime of the pattern.
type StoragePattern struct {
	PatternID uuid.UUID

	Voxels     []voxel.Voxel
	GridSize   voxel.GridSize
	VoxelPitch voxel.VoxelPitch

	IntensityAxis    quant.QuantisationAxis
	PolarizationAxis quant.QuantisationAxis

	ECCName string

	DataLengthBytes  int
	EncodedBitLength int
	PaddingBits      int
}

// BitsPerVoxel is log2(L_intensity) + log2(L_polarization).
func (p StoragePattern) BitsPerVoxel() int {
	return p.IntensityAxis.Bits() + p.PolarizationAxis.Bits()
}

// CapacityBits is nx*ny*nz * BitsPerVoxel().
func (p StoragePattern) CapacityBits() int {
	return p.GridSize.Volume() * p.BitsPerVoxel()
}

// VoxelCount is the number of voxels that carry payload, i.e. len(Voxels).
func (p StoragePattern) VoxelCount() int {
	return len(p.Voxels)
}

// Validate checks the invariants of § 3 against the pattern's current
// metadata and voxel list. scheme must be the ECC codec named by
// ECCName; the caller resolves it so this package stays independent of
// how the registry reports an unknown name.
func (p StoragePattern) Validate(scheme ecc.Codec) error {
	if err := validate.PowerOfTwo(p.IntensityAxis.Levels); err != nil {
		return ErrCorrupt
	}
	if err := validate.PowerOfTwo(p.PolarizationAxis.Levels); err != nil {
		return ErrCorrupt
	}

	bitsPerVoxel := p.BitsPerVoxel()
	if bitsPerVoxel < 1 {
		return ErrCorrupt
	}

	if p.EncodedBitLength+p.PaddingBits != p.VoxelCount()*bitsPerVoxel {
		return ErrCorrupt
	}

	if p.VoxelCount() > p.GridSize.Volume() {
		return ErrCorrupt
	}

	for _, v := range p.Voxels {
		if !p.GridSize.Contains(v.X, v.Y, v.Z) {
			return ErrCorrupt
		}
	}

	if scheme.EncodedLen(p.DataLengthBytes*8) != p.EncodedBitLength {
		return ErrCorrupt
	}

	return nil
}

// Dict is the structural projection of a StoragePattern used by the
// out-of-scope persistence collaborator (§6 pattern dictionary
// projection). Field names and shapes match the spec exactly so a plain
// JSON/CBOR/etc. encoder downstream needs no further massaging.
type Dict struct {
	PatternID string `json:"pattern_id"`

	GridSize   [3]int     `json:"grid_size"`
	VoxelPitch [3]float64 `json:"voxel_pitch"`

	IntensityRange     [2]float64 `json:"intensity_range"`
	PolarizationRange  [2]float64 `json:"polarization_range"`
	IntensityLevels    int        `json:"intensity_levels"`
	PolarizationStates int        `json:"polarization_states"`

	ErrorCorrection string `json:"error_correction"`

	DataLengthBytes  int `json:"data_length_bytes"`
	EncodedBitLength int `json:"encoded_bit_length"`
	PaddingBits      int `json:"padding_bits"`

	Voxels [][5]float64 `json:"voxels"`
}

// ToDict projects p into its structural dictionary form.
func ToDict(p StoragePattern) Dict {
	voxels := make([][5]float64, len(p.Voxels))
	for i, v := range p.Voxels {
		voxels[i] = [5]float64{float64(v.X), float64(v.Y), float64(v.Z), v.Intensity, v.Polarization}
	}
	return Dict{
		PatternID:          p.PatternID.String(),
		GridSize:           [3]int{p.GridSize.NX, p.GridSize.NY, p.GridSize.NZ},
		VoxelPitch:         [3]float64{p.VoxelPitch.PX, p.VoxelPitch.PY, p.VoxelPitch.PZ},
		IntensityRange:     [2]float64{p.IntensityAxis.Range.Lo, p.IntensityAxis.Range.Hi},
		PolarizationRange:  [2]float64{p.PolarizationAxis.Range.Lo, p.PolarizationAxis.Range.Hi},
		IntensityLevels:    p.IntensityAxis.Levels,
		PolarizationStates: p.PolarizationAxis.Levels,
		ErrorCorrection:    p.ECCName,
		DataLengthBytes:    p.DataLengthBytes,
		EncodedBitLength:   p.EncodedBitLength,
		PaddingBits:        p.PaddingBits,
		Voxels:             voxels,
	}
}

// FromDict reconstructs a StoragePattern from its dictionary projection.
// FromDict(ToDict(p)) reproduces p structurally, including voxel order.
func FromDict(d Dict) (StoragePattern, error) {
	id, err := uuid.Parse(d.PatternID)
	if err != nil {
		return StoragePattern{}, ErrCorrupt
	}

	intensityAxis, err := quant.New(d.IntensityLevels, quant.Range{Lo: d.IntensityRange[0], Hi: d.IntensityRange[1]})
	if err != nil {
		return StoragePattern{}, ErrCorrupt
	}
	polarizationAxis, err := quant.New(d.PolarizationStates, quant.Range{Lo: d.PolarizationRange[0], Hi: d.PolarizationRange[1]})
	if err != nil {
		return StoragePattern{}, ErrCorrupt
	}

	voxels := make([]voxel.Voxel, len(d.Voxels))
	for i, raw := range d.Voxels {
		v, err := voxel.New(int(raw[0]), int(raw[1]), int(raw[2]), raw[3], raw[4])
		if err != nil {
			return StoragePattern{}, ErrCorrupt
		}
		voxels[i] = v
	}

	return StoragePattern{
		PatternID:        id,
		Voxels:           voxels,
		GridSize:         voxel.GridSize{NX: d.GridSize[0], NY: d.GridSize[1], NZ: d.GridSize[2]},
		VoxelPitch:       voxel.VoxelPitch{PX: d.VoxelPitch[0], PY: d.VoxelPitch[1], PZ: d.VoxelPitch[2]},
		IntensityAxis:    intensityAxis,
		PolarizationAxis: polarizationAxis,
		ECCName:          d.ErrorCorrection,
		DataLengthBytes:  d.DataLengthBytes,
		EncodedBitLength: d.EncodedBitLength,
		PaddingBits:      d.PaddingBits,
	}, nil
}
