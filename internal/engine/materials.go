package engine

import (
	"errors"
	"fmt"
	"math"
	"math/rand/v2"

	"gonum.org/v1/gonum/spatial/r3"
)

// ErrInvalidIOR is returned for a dielectric whose refractive index is not positive.
var ErrInvalidIOR = errors.New("refractive index must be positive")

type MaterialKind int

const (
	MaterialLambertian MaterialKind = iota
	MaterialMetal
	MaterialDielectric
)

func (k MaterialKind) String() string {
	switch k {
	case MaterialLambertian:
		return "lambertian"
	case MaterialMetal:
		return "metal"
	case MaterialDielectric:
		return "dielectric"
	}
	return fmt.Sprintf("MaterialKind(%d)", int(k))
}

// Material is a small value type stored inline in every primitive that uses it.
// Which fields are meaningful depends on Kind: Albedo for lambertian and metal,
// Fuzz for metal, IR for dielectric.
type Material struct {
	Kind   MaterialKind
	Albedo Color
	Fuzz   float64
	IR     float64
}

func NewLambertian(albedo Color) Material {
	return Material{Kind: MaterialLambertian, Albedo: albedo}
}

// NewMetal clamps fuzz into [0, 1].
func NewMetal(albedo Color, fuzz float64) Material {
	return Material{Kind: MaterialMetal, Albedo: albedo, Fuzz: clamp(fuzz, 0, 1)}
}

func NewDielectric(ir float64) (Material, error) {
	if !(ir > 0) || math.IsInf(ir, 0) {
		return Material{}, fmt.Errorf("dielectric ir=%v: %w", ir, ErrInvalidIOR)
	}
	return Material{Kind: MaterialDielectric, IR: ir}, nil
}

func clamp(x, minVal, maxVal float64) float64 {
	if x < minVal {
		return minVal
	}
	if x > maxVal {
		return maxVal
	}
	return x
}

// Scatter samples an outgoing ray at rec. ok is false when the ray is absorbed;
// the scattered ray is still returned in that case.
func (m Material) Scatter(rIn Ray, rec *HitRecord, rng *rand.Rand) (attenuation Color, scattered Ray, ok bool) {
	switch m.Kind {
	case MaterialLambertian:
		dir := r3.Add(rec.Normal, randomUnitVector(rng))
		if nearZero(dir) {
			dir = rec.Normal
		}
		return m.Albedo, NewRay(rec.P, dir), true

	case MaterialMetal:
		reflected := reflectVec(unit(rIn.Dir), rec.Normal)
		dir := r3.Add(reflected, r3.Scale(m.Fuzz, randomInUnitSphere(rng)))
		return m.Albedo, NewRay(rec.P, dir), r3.Dot(dir, rec.Normal) > 0

	case MaterialDielectric:
		refractionRatio := m.IR
		if rec.FrontFace {
			refractionRatio = 1.0 / m.IR
		}

		unitDir := unit(rIn.Dir)
		cosTheta := math.Min(-r3.Dot(unitDir, rec.Normal), 1.0)
		sinTheta := math.Sqrt(1.0 - cosTheta*cosTheta)

		cannotRefract := refractionRatio*sinTheta > 1.0
		var dir r3.Vec
		if cannotRefract || reflectance(cosTheta, m.IR) > rng.Float64() {
			dir = reflectVec(unitDir, rec.Normal)
		} else {
			dir = refractVec(unitDir, rec.Normal, refractionRatio)
		}
		return v(1, 1, 1), NewRay(rec.P, dir), true
	}
	return Color{}, Ray{}, false
}

func reflectance(cosine, refIdx float64) float64 {
	// Schlick approximation
	r0 := (1 - refIdx) / (1 + refIdx)
	r0 = r0 * r0
	return r0 + (1-r0)*math.Pow(1-cosine, 5)
}
