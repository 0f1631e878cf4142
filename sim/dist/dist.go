// Package dist provides delay samplers for models: think times,
// inter-arrival gaps, service durations. Samplers are built from a DistSpec
// that scenario YAML files embed directly.
package dist

import (
	"fmt"
	"math"
	"math/rand"
	"sort"
	"strings"
)

// Sampler draws nonnegative delays.
type Sampler interface {
	// Sample returns a delay >= 0 drawn from rng.
	Sample(rng *rand.Rand) float64
	// Mean returns the distribution mean (before clamping at zero).
	Mean() float64
}

// DistSpec parameterizes a delay distribution.
//
//	think:
//	  type: exponential
//	  params: {mean: 10}
type DistSpec struct {
	Type   string             `yaml:"type"`
	Params map[string]float64 `yaml:"params,omitempty"`
}

func (s DistSpec) String() string {
	keys := make([]string, 0, len(s.Params))
	for k := range s.Params {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	parts := make([]string, len(keys))
	for i, k := range keys {
		parts[i] = fmt.Sprintf("%s=%g", k, s.Params[k])
	}
	return fmt.Sprintf("%s(%s)", s.Type, strings.Join(parts, ","))
}

// Constant returns a spec that always yields v.
func Constant(v float64) DistSpec {
	return DistSpec{Type: "constant", Params: map[string]float64{"value": v}}
}

// Exponential returns a spec for an exponential distribution with the given mean.
func Exponential(mean float64) DistSpec {
	return DistSpec{Type: "exponential", Params: map[string]float64{"mean": mean}}
}

// ConstantSampler always returns the same value.
type ConstantSampler struct {
	value float64
}

func (s *ConstantSampler) Sample(_ *rand.Rand) float64 { return s.value }
func (s *ConstantSampler) Mean() float64               { return s.value }

// ExponentialSampler produces exponentially-distributed delays (CV=1).
type ExponentialSampler struct {
	mean float64
}

func (s *ExponentialSampler) Sample(rng *rand.Rand) float64 {
	return rng.ExpFloat64() * s.mean
}
func (s *ExponentialSampler) Mean() float64 { return s.mean }

// UniformSampler produces delays uniform on [min, max).
type UniformSampler struct {
	min, max float64
}

func (s *UniformSampler) Sample(rng *rand.Rand) float64 {
	return s.min + rng.Float64()*(s.max-s.min)
}
func (s *UniformSampler) Mean() float64 { return (s.min + s.max) / 2 }

// GaussianSampler produces normal delays clamped at zero.
type GaussianSampler struct {
	mean, stdDev float64
}

func (s *GaussianSampler) Sample(rng *rand.Rand) float64 {
	return math.Max(0, rng.NormFloat64()*s.stdDev+s.mean)
}
func (s *GaussianSampler) Mean() float64 { return s.mean }

// GammaSampler produces Gamma-distributed delays with a given mean and
// coefficient of variation. CV > 1 gives bursty arrivals, CV < 1 regular ones.
type GammaSampler struct {
	shape float64 // 1/CV²
	scale float64 // mean·CV²
}

func (s *GammaSampler) Sample(rng *rand.Rand) float64 {
	return gammaRand(rng, s.shape, s.scale)
}
func (s *GammaSampler) Mean() float64 { return s.shape * s.scale }

// gammaRand samples from Gamma(shape, scale) using Marsaglia-Tsang.
// For shape < 1: Gamma(shape) = Gamma(shape+1) * U^(1/shape).
func gammaRand(rng *rand.Rand, shape, scale float64) float64 {
	if shape < 1.0 {
		u := rng.Float64()
		return gammaRand(rng, shape+1.0, scale) * math.Pow(u, 1.0/shape)
	}

	d := shape - 1.0/3.0
	c := 1.0 / math.Sqrt(9.0*d)
	for {
		var x, v float64
		for {
			x = rng.NormFloat64()
			v = 1.0 + c*x
			if v > 0 {
				break
			}
		}
		v = v * v * v
		u := rng.Float64()
		if u < 1.0-0.0331*(x*x)*(x*x) {
			return d * v * scale
		}
		if math.Log(u) < 0.5*x*x+d*(1.0-v+math.Log(v)) {
			return d * v * scale
		}
	}
}

// requireParam checks that all required keys exist and are finite.
func requireParam(spec DistSpec, keys ...string) error {
	for _, k := range keys {
		v, ok := spec.Params[k]
		if !ok {
			return fmt.Errorf("%s distribution requires parameter %q", spec.Type, k)
		}
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return fmt.Errorf("%s distribution parameter %q must be finite, got %v", spec.Type, k, v)
		}
	}
	return nil
}

// NewSampler creates a Sampler from a DistSpec. Parameters that would
// produce negative delays are rejected.
func NewSampler(spec DistSpec) (Sampler, error) {
	switch spec.Type {
	case "constant":
		if err := requireParam(spec, "value"); err != nil {
			return nil, err
		}
		v := spec.Params["value"]
		if v < 0 {
			return nil, fmt.Errorf("constant distribution value must be >= 0, got %v", v)
		}
		return &ConstantSampler{value: v}, nil

	case "exponential":
		if err := requireParam(spec, "mean"); err != nil {
			return nil, err
		}
		mean := spec.Params["mean"]
		if mean <= 0 {
			return nil, fmt.Errorf("exponential distribution mean must be > 0, got %v", mean)
		}
		return &ExponentialSampler{mean: mean}, nil

	case "uniform":
		if err := requireParam(spec, "min", "max"); err != nil {
			return nil, err
		}
		lo, hi := spec.Params["min"], spec.Params["max"]
		if lo < 0 || hi < lo {
			return nil, fmt.Errorf("uniform distribution needs 0 <= min <= max, got [%v, %v]", lo, hi)
		}
		return &UniformSampler{min: lo, max: hi}, nil

	case "gaussian":
		if err := requireParam(spec, "mean", "std_dev"); err != nil {
			return nil, err
		}
		mean, sd := spec.Params["mean"], spec.Params["std_dev"]
		if sd < 0 {
			return nil, fmt.Errorf("gaussian distribution std_dev must be >= 0, got %v", sd)
		}
		return &GaussianSampler{mean: mean, stdDev: sd}, nil

	case "gamma":
		if err := requireParam(spec, "mean", "cv"); err != nil {
			return nil, err
		}
		mean, cv := spec.Params["mean"], spec.Params["cv"]
		if mean <= 0 || cv <= 0 {
			return nil, fmt.Errorf("gamma distribution needs mean > 0 and cv > 0, got mean=%v cv=%v", mean, cv)
		}
		return &GammaSampler{shape: 1 / (cv * cv), scale: mean * cv * cv}, nil

	case "":
		return nil, fmt.Errorf("distribution type is required")

	default:
		return nil, fmt.Errorf("unknown distribution type %q", spec.Type)
	}
}
