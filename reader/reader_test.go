package reader_test

import (
	"bytes"
	"testing"

	"github.com/aionix/optical5d-codec/bitio"
	"github.com/aionix/optical5d-codec/ecc/hamming74"
	"github.com/aionix/optical5d-codec/ecc/identity"
	"github.com/aionix/optical5d-codec/ecc/parity8"
	"github.com/aionix/optical5d-codec/pattern"
	"github.com/aionix/optical5d-codec/quant"
	"github.com/aionix/optical5d-codec/reader"
	"github.com/aionix/optical5d-codec/voxel"
	"github.com/aionix/optical5d-codec/writer"
)

func mustAxis(t *testing.T, levels int, lo, hi float64) quant.QuantisationAxis {
	t.Helper()
	axis, err := quant.New(levels, quant.Range{Lo: lo, Hi: hi})
	if err != nil {
		t.Fatalf("quant.New error: %v", err)
	}
	return axis
}

func baseConfig(t *testing.T, scheme interface {
	Name() string
}) writer.Config {
	t.Helper()
	cfg := writer.Config{
		GridSize:         voxel.GridSize{NX: 64, NY: 64, NZ: 8},
		VoxelPitch:       voxel.VoxelPitch{PX: 5.0, PY: 5.0, PZ: 15.0},
		IntensityAxis:    mustAxis(t, 16, 0, 1),
		PolarizationAxis: mustAxis(t, 8, 0, 3.14159265358979),
	}
	switch s := scheme.(type) {
	case *hamming74.Codec:
		cfg.Scheme = s
	case *identity.Codec:
		cfg.Scheme = s
	case *parity8.Codec:
		cfg.Scheme = s
	}
	return cfg
}

func TestNoiseFreeRoundTrip(t *testing.T) {
	payloads := [][]byte{
		[]byte("5D optical storage with femtosecond lasers!"),
		{},
		{0x00},
		{0xFF, 0x00, 0xAB, 0xCD},
	}

	for _, payload := range payloads {
		for _, scheme := range []interface{ Name() string }{identity.New(), hamming74.New(), parity8.New()} {
			cfg := baseConfig(t, scheme)

			p, err := writer.Write(payload, cfg)
			if err != nil {
				t.Fatalf("scheme=%s payload=%v: Write error: %v", scheme.Name(), payload, err)
			}
			result, err := reader.Read(p)
			if err != nil {
				t.Fatalf("scheme=%s payload=%v: Read error: %v", scheme.Name(), payload, err)
			}
			if !bytes.Equal(result.Payload, payload) {
				t.Fatalf("scheme=%s payload=%v: got %v", scheme.Name(), payload, result.Payload)
			}
			if result.CorrectedErrors != 0 || result.DetectedUncorrectable != 0 {
				t.Fatalf("scheme=%s payload=%v: unexpected counters %+v", scheme.Name(), payload, result)
			}
		}
	}
}

// TestScenarioS2 mirrors the noisy-Hamming scenario: flipping exactly one
// encoded bit per Hamming block must still recover the exact payload,
// with CorrectedErrors equal to the number of Hamming blocks.
func TestScenarioS2(t *testing.T) {
	payload := []byte("5D optical storage with femtosecond lasers!")
	cfg := baseConfig(t, hamming74.New())

	p, err := writer.Write(payload, cfg)
	if err != nil {
		t.Fatalf("Write error: %v", err)
	}

	flipped := flipOneBitPerHammingBlock(t, p)
	result, err := reader.Read(flipped)
	if err != nil {
		t.Fatalf("Read error: %v", err)
	}
	if !bytes.Equal(result.Payload, payload) {
		t.Fatalf("got %v, want %v", result.Payload, payload)
	}

	wantBlocks := p.EncodedBitLength / 7
	if result.CorrectedErrors != wantBlocks {
		t.Fatalf("CorrectedErrors = %d, want %d", result.CorrectedErrors, wantBlocks)
	}
}

// TestScenarioS5 mirrors the Parity8 detection scenario: flipping one
// bit in the first codeword must be detected, not corrected, and the
// returned bytes must equal the corrupted bits rather than the original.
func TestScenarioS5(t *testing.T) {
	payload := []byte{0x12, 0x34} // 16 bits, two parity8 blocks
	cfg := baseConfig(t, parity8.New())
	cfg.GridSize = voxel.GridSize{NX: 32, NY: 1, NZ: 1}
	cfg.IntensityAxis = mustAxis(t, 2, 0, 1)
	cfg.PolarizationAxis = mustAxis(t, 1, 0, 1)

	p, err := writer.Write(payload, cfg)
	if err != nil {
		t.Fatalf("Write error: %v", err)
	}

	// flip the first data bit of the first codeword (voxel index 0).
	flipped := p
	flipped.Voxels = append([]voxel.Voxel{}, p.Voxels...)
	bit0 := flipped.Voxels[0]
	newIntensity := 1 - bit0.Intensity
	v, err := voxel.New(bit0.X, bit0.Y, bit0.Z, newIntensity, bit0.Polarization)
	if err != nil {
		t.Fatalf("voxel.New error: %v", err)
	}
	flipped.Voxels[0] = v

	result, err := reader.Read(flipped)
	if err != nil {
		t.Fatalf("Read error: %v", err)
	}
	if result.DetectedUncorrectable != 1 {
		t.Fatalf("DetectedUncorrectable = %d, want 1", result.DetectedUncorrectable)
	}
	if result.CorrectedErrors != 0 {
		t.Fatalf("CorrectedErrors = %d, want 0", result.CorrectedErrors)
	}
	wantCorrupted := []byte{0x92, 0x34} // 0x12 with its most significant bit flipped
	if !bytes.Equal(result.Payload, wantCorrupted) {
		t.Fatalf("payload = %x, want the uncorrected bits %x", result.Payload, wantCorrupted)
	}
}

// TestScenarioS6 mirrors the coordinate-trust scenario: altering one
// voxel's reported coordinates to an inconsistent value must fail Read
// with ErrCorruptPattern.
func TestScenarioS6(t *testing.T) {
	cfg := baseConfig(t, identity.New())
	cfg.GridSize = voxel.GridSize{NX: 8, NY: 1, NZ: 1}
	cfg.IntensityAxis = mustAxis(t, 2, 0, 1)
	cfg.PolarizationAxis = mustAxis(t, 1, 0, 1)

	p, err := writer.Write([]byte{0xA5}, cfg)
	if err != nil {
		t.Fatalf("Write error: %v", err)
	}

	tampered := p
	tampered.Voxels = append([]voxel.Voxel{}, p.Voxels...)
	v, err := voxel.New(7, 0, 0, tampered.Voxels[0].Intensity, tampered.Voxels[0].Polarization)
	if err != nil {
		t.Fatalf("voxel.New error: %v", err)
	}
	tampered.Voxels[0] = v // voxel 0 now claims to be at the coordinate that belongs to voxel 7

	if _, err := reader.Read(tampered); err != reader.ErrCorruptPattern {
		t.Fatalf("Read err = %v, want ErrCorruptPattern", err)
	}
}

// flipOneBitPerHammingBlock re-quantises every voxel, flips bit 0 of
// every 7-bit Hamming block in the recovered bitstream, then re-derives
// physical intensity/polarization values -- exactly the kind of
// perturbation the noise collaborator interface (§6) is allowed to
// apply: only intensity/polarization change, coordinates and metadata
// are untouched.
func flipOneBitPerHammingBlock(t *testing.T, p pattern.StoragePattern) pattern.StoragePattern {
	t.Helper()
	bitsPerVoxel := p.BitsPerVoxel()
	intensityBits := p.IntensityAxis.Bits()

	padded := make([]byte, len(p.Voxels)*bitsPerVoxel)
	for i, v := range p.Voxels {
		intensityLevel := p.IntensityAxis.PhysicalToLevel(v.Intensity)
		polarizationLevel := p.PolarizationAxis.PhysicalToLevel(v.Polarization)
		field := padded[i*bitsPerVoxel : (i+1)*bitsPerVoxel]
		copy(field[:intensityBits], bitio.UintToBits(uint64(intensityLevel), intensityBits))
		copy(field[intensityBits:], bitio.UintToBits(uint64(polarizationLevel), bitsPerVoxel-intensityBits))
	}

	for i := 0; i+7 <= p.EncodedBitLength; i += 7 {
		padded[i] ^= 1
	}

	voxels := make([]voxel.Voxel, len(p.Voxels))
	for i := range p.Voxels {
		field := padded[i*bitsPerVoxel : (i+1)*bitsPerVoxel]
		intensityLevel := bitio.BitsToUint(field[:intensityBits])
		polarizationLevel := bitio.BitsToUint(field[intensityBits:])
		v, err := voxel.New(
			p.Voxels[i].X, p.Voxels[i].Y, p.Voxels[i].Z,
			p.IntensityAxis.LevelToPhysical(int(intensityLevel)),
			p.PolarizationAxis.LevelToPhysical(int(polarizationLevel)),
		)
		if err != nil {
			t.Fatalf("voxel.New error: %v", err)
		}
		voxels[i] = v
	}
	p.Voxels = voxels
	return p
}
