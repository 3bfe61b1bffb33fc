// storagesim is an illustrative command-line entry point for the 5D
// optical storage codec: it writes a payload to a simulated voxel
// lattice, optionally perturbs it, reads it back, and reports the
// diagnostic counters. It is not part of the core codec (§1 scope).
package main

import (
	"encoding/json"
	"flag"
	"fmt"
	"log/slog"
	"os"

	"github.com/aionix/optical5d-codec/ecc"
	_ "github.com/aionix/optical5d-codec/ecc/hamming74"
	_ "github.com/aionix/optical5d-codec/ecc/identity"
	_ "github.com/aionix/optical5d-codec/ecc/parity8"
	"github.com/aionix/optical5d-codec/noise"
	"github.com/aionix/optical5d-codec/pattern"
	"github.com/aionix/optical5d-codec/quant"
	"github.com/aionix/optical5d-codec/reader"
	"github.com/aionix/optical5d-codec/voxel"
	"github.com/aionix/optical5d-codec/writer"
)

func main() {
	var (
		inputPath     = flag.String("in", "", "path to the payload file to write (required)")
		nx            = flag.Int("nx", 64, "grid dimension along x")
		ny            = flag.Int("ny", 64, "grid dimension along y")
		nz            = flag.Int("nz", 8, "grid dimension along z")
		intensityBits = flag.Int("intensity-levels", 16, "number of intensity levels (power of two)")
		polarBits     = flag.Int("polarization-levels", 8, "number of polarization states (power of two)")
		eccName       = flag.String("ecc", "hamming74", "error-correction scheme: none, hamming74, parity8")
		seed          = flag.Int64("noise-seed", 0, "seed for the demo noise model; 0 disables perturbation")
		sigma         = flag.Float64("noise-sigma", 0.02, "Gaussian jitter, as a fraction of each axis's span")
		dictOut       = flag.String("dict-out", "", "optional path to write the pattern's dictionary projection as JSON")
	)
	flag.Parse()

	logger := slog.New(slog.NewTextHandler(os.Stdout, nil))

	if *inputPath == "" {
		logger.Error("missing required flag", "flag", "-in")
		os.Exit(2)
	}

	if err := run(logger, *inputPath, *nx, *ny, *nz, *intensityBits, *polarBits, *eccName, *seed, *sigma, *dictOut); err != nil {
		logger.Error("run failed", "error", err)
		os.Exit(1)
	}
}

func run(logger *slog.Logger, inputPath string, nx, ny, nz, intensityLevels, polarizationLevels int, eccName string, seed int64, sigma float64, dictOut string) error {
	payload, err := os.ReadFile(inputPath)
	if err != nil {
		return fmt.Errorf("read payload: %w", err)
	}

	scheme, err := ecc.Get(eccName)
	if err != nil {
		return fmt.Errorf("resolve ecc scheme %q: %w", eccName, err)
	}

	intensityAxis, err := quant.New(intensityLevels, quant.Range{Lo: 0, Hi: 1})
	if err != nil {
		return fmt.Errorf("build intensity axis: %w", err)
	}
	polarizationAxis, err := quant.New(polarizationLevels, quant.Range{Lo: 0, Hi: 3.14159265358979})
	if err != nil {
		return fmt.Errorf("build polarization axis: %w", err)
	}

	cfg := writer.Config{
		GridSize:         voxel.GridSize{NX: nx, NY: ny, NZ: nz},
		VoxelPitch:       voxel.VoxelPitch{PX: 5, PY: 5, PZ: 15},
		IntensityAxis:    intensityAxis,
		PolarizationAxis: polarizationAxis,
		Scheme:           scheme,
	}

	p, err := writer.Write(payload, cfg)
	if err != nil {
		return fmt.Errorf("write: %w", err)
	}
	logger.Info("wrote pattern",
		"pattern_id", p.PatternID,
		"voxel_count", p.VoxelCount(),
		"bits_per_voxel", p.BitsPerVoxel(),
		"encoded_bit_length", p.EncodedBitLength,
		"padding_bits", p.PaddingBits,
	)

	toRead := p
	if seed != 0 {
		toRead, err = noise.Perturb(p, seed, noise.Gaussian(sigma))
		if err != nil {
			return fmt.Errorf("perturb: %w", err)
		}
		logger.Info("applied simulated measurement noise", "seed", seed, "sigma_fraction", sigma)
	}

	result, err := reader.Read(toRead)
	if err != nil {
		return fmt.Errorf("read: %w", err)
	}
	logger.Info("read pattern",
		"voxels_processed", result.VoxelsProcessed,
		"corrected_errors", result.CorrectedErrors,
		"detected_uncorrectable", result.DetectedUncorrectable,
		"payload_matches", string(result.Payload) == string(payload),
	)

	if dictOut != "" {
		dict := pattern.ToDict(p)
		data, err := json.MarshalIndent(dict, "", "  ")
		if err != nil {
			return fmt.Errorf("marshal dictionary: %w", err)
		}
		if err := os.WriteFile(dictOut, data, 0o644); err != nil {
			return fmt.Errorf("write dictionary: %w", err)
		}
		logger.Info("wrote pattern dictionary", "path", dictOut)
	}

	return nil
}
