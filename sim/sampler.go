package sim

import (
	"fmt"
	"math"
	"math/rand"

	"gonum.org/v1/gonum/stat/distuv"
)

// SkillSampler draws raw player skills in [0, 1].
type SkillSampler interface {
	Sample(rng *rand.Rand) float64
}

// BetaSampler draws skills from Beta(alpha, beta).
type BetaSampler struct {
	alpha, beta float64
}

func (s *BetaSampler) Sample(rng *rand.Rand) float64 {
	// *rand.Rand exposes Uint64, which is all distuv needs from its source.
	d := distuv.Beta{Alpha: s.alpha, Beta: s.beta, Src: rng}
	return d.Rand()
}

// UniformSampler draws skills uniformly from [min, max].
type UniformSampler struct {
	min, max float64
}

func (s *UniformSampler) Sample(rng *rand.Rand) float64 {
	d := distuv.Uniform{Min: s.min, Max: s.max, Src: rng}
	return d.Rand()
}

// ConstantSampler always returns the same skill. Useful for tie-heavy scenarios.
type ConstantSampler struct {
	value float64
}

func (s *ConstantSampler) Sample(_ *rand.Rand) float64 {
	return s.value
}

// requireParam checks that all required keys exist in a params map.
func requireParam(params map[string]float64, keys ...string) error {
	for _, k := range keys {
		if _, ok := params[k]; !ok {
			return fmt.Errorf("distribution requires parameter %q", k)
		}
	}
	return nil
}

// NewSkillSampler creates a SkillSampler from a DistSpec.
func NewSkillSampler(spec DistSpec) (SkillSampler, error) {
	switch spec.Type {
	case "beta":
		if err := requireParam(spec.Params, "alpha", "beta"); err != nil {
			return nil, err
		}
		a, b := spec.Params["alpha"], spec.Params["beta"]
		if a <= 0 || b <= 0 {
			return nil, fmt.Errorf("beta distribution requires positive alpha and beta, got %f, %f", a, b)
		}
		return &BetaSampler{alpha: a, beta: b}, nil

	case "uniform":
		if err := requireParam(spec.Params, "min", "max"); err != nil {
			return nil, err
		}
		lo, hi := spec.Params["min"], spec.Params["max"]
		if lo < 0 || hi > 1 || hi < lo {
			return nil, fmt.Errorf("uniform skill bounds must satisfy 0 <= min <= max <= 1, got [%f, %f]", lo, hi)
		}
		return &UniformSampler{min: lo, max: hi}, nil

	case "constant":
		if err := requireParam(spec.Params, "value"); err != nil {
			return nil, err
		}
		v := spec.Params["value"]
		if v < 0 || v > 1 {
			return nil, fmt.Errorf("constant skill must be in [0, 1], got %f", v)
		}
		return &ConstantSampler{value: v}, nil

	default:
		return nil, fmt.Errorf("unknown distribution type %q", spec.Type)
	}
}

// roundTo rounds v to the given number of decimal places.
func roundTo(v float64, places int) float64 {
	scale := math.Pow(10, float64(places))
	return math.Round(v*scale) / scale
}
