// Package noise is the out-of-scope noise collaborator (§6): it
// perturbs a StoragePattern's intensity and polarization values to
// simulate measurement error, leaving coordinates and metadata
// untouched. The core codec makes no assumption about the perturbation
// distribution; this package supplies two illustrative ones so the
// round-trip-under-perturbation scenarios can be exercised end to end.
package noise

import (
	"math/rand"

	"github.com/aionix/optical5d-codec/pattern"
	"github.com/aionix/optical5d-codec/voxel"
)

// Perturb returns a new StoragePattern with the same metadata and a
// voxel list of the same length and coordinates as p, with intensity
// and polarization values perturbed by apply. seed makes the run
// reproducible; apply receives the rng, the axis range, and the current
// value, and returns the perturbed value.
func Perturb(p pattern.StoragePattern, seed int64, apply func(rng *rand.Rand, lo, hi, v float64) float64) (pattern.StoragePattern, error) {
	rng := rand.New(rand.NewSource(seed))

	voxels := make([]voxel.Voxel, len(p.Voxels))
	for i, v := range p.Voxels {
		intensity := apply(rng, p.IntensityAxis.Range.Lo, p.IntensityAxis.Range.Hi, v.Intensity)
		polarization := apply(rng, p.PolarizationAxis.Range.Lo, p.PolarizationAxis.Range.Hi, v.Polarization)
		nv, err := voxel.New(v.X, v.Y, v.Z, intensity, polarization)
		if err != nil {
			return pattern.StoragePattern{}, err
		}
		voxels[i] = nv
	}

	out := p
	out.Voxels = voxels
	return out, nil
}

// Gaussian perturbs every value by additive Gaussian jitter with the
// given standard deviation, expressed as a fraction of the axis span.
// Values are free to drift outside [lo, hi]; the reader's quantiser
// clamps them on the way back in, modeling detector saturation.
func Gaussian(sigmaFraction float64) func(rng *rand.Rand, lo, hi, v float64) float64 {
	return func(rng *rand.Rand, lo, hi, v float64) float64 {
		sigma := sigmaFraction * (hi - lo)
		return v + rng.NormFloat64()*sigma
	}
}

// BitFlipChance perturbs a value by snapping it to the opposite
// extreme of its axis range with probability p, leaving it unchanged
// otherwise. It is a crude model of a detector misread, useful for
// exercising ECC correction paths deterministically under a fixed seed.
func BitFlipChance(p float64) func(rng *rand.Rand, lo, hi, v float64) float64 {
	return func(rng *rand.Rand, lo, hi, v float64) float64 {
		if rng.Float64() >= p {
			return v
		}
		mid := (lo + hi) / 2
		if v < mid {
			return hi
		}
		return lo
	}
}
