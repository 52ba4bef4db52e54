package engine

import (
	"errors"
	"fmt"
	"math"

	"gonum.org/v1/gonum/spatial/r3"
)

// ErrInvalidRadius is returned when a sphere is built with a radius that is not
// a positive finite number.
var ErrInvalidRadius = errors.New("sphere radius must be positive")

// HitRecord describes a ray-surface intersection. Normal is unit length and
// always points against the incoming ray.
type HitRecord struct {
	P         r3.Vec
	Normal    r3.Vec
	T         float64
	FrontFace bool
	Mat       Material
}

func (h *HitRecord) setFaceNormal(r Ray, outwardNormal r3.Vec) {
	h.FrontFace = r3.Dot(r.Dir, outwardNormal) < 0
	if h.FrontFace {
		h.Normal = outwardNormal
	} else {
		h.Normal = r3.Scale(-1, outwardNormal)
	}
}

// Sphere primitive. Immutable after construction.
type Sphere struct {
	center r3.Vec
	radius float64
	mat    Material
	bbox   AABB
}

func NewSphere(center r3.Vec, radius float64, mat Material) (Sphere, error) {
	if !(radius > 0) || math.IsInf(radius, 0) {
		return Sphere{}, fmt.Errorf("radius %v: %w", radius, ErrInvalidRadius)
	}
	if !finite(center) {
		return Sphere{}, fmt.Errorf("sphere center %v is not finite", center)
	}
	rv := v(radius, radius, radius)
	return Sphere{
		center: center,
		radius: radius,
		mat:    mat,
		bbox:   AABB{Min: r3.Sub(center, rv), Max: r3.Add(center, rv)},
	}, nil
}

func finite(a r3.Vec) bool {
	for _, c := range [3]float64{a.X, a.Y, a.Z} {
		if math.IsNaN(c) || math.IsInf(c, 0) {
			return false
		}
	}
	return true
}

func (s Sphere) Center() r3.Vec     { return s.center }
func (s Sphere) Radius() float64    { return s.radius }
func (s Sphere) Material() Material { return s.mat }
func (s Sphere) BoundingBox() AABB  { return s.bbox }

// Hit reports the nearest intersection with tMin < t <= tMax.
func (s Sphere) Hit(r Ray, tMin, tMax float64) (HitRecord, bool) {
	oc := r3.Sub(r.Orig, s.center)
	a := r3.Norm2(r.Dir)
	if a == 0 {
		return HitRecord{}, false
	}
	halfB := r3.Dot(oc, r.Dir)
	c := r3.Norm2(oc) - s.radius*s.radius

	discriminant := halfB*halfB - a*c
	if discriminant < 0 {
		return HitRecord{}, false
	}
	sqrtD := math.Sqrt(discriminant)

	root := (-halfB - sqrtD) / a
	if !(root > tMin && root <= tMax) {
		root = (-halfB + sqrtD) / a
		if !(root > tMin && root <= tMax) {
			return HitRecord{}, false
		}
	}

	rec := HitRecord{T: root, P: r.At(root), Mat: s.mat}
	outwardNormal := r3.Scale(1/s.radius, r3.Sub(rec.P, s.center))
	rec.setFaceNormal(r, outwardNormal)
	return rec, true
}

// AABB is an axis-aligned bounding box.
type AABB struct {
	Min r3.Vec
	Max r3.Vec
}

// surroundingBox returns the smallest box enclosing both a and b.
func surroundingBox(a, b AABB) AABB {
	return AABB{
		Min: v(math.Min(a.Min.X, b.Min.X), math.Min(a.Min.Y, b.Min.Y), math.Min(a.Min.Z, b.Min.Z)),
		Max: v(math.Max(a.Max.X, b.Max.X), math.Max(a.Max.Y, b.Max.Y), math.Max(a.Max.Z, b.Max.Z)),
	}
}

// Hit is the slab test. A zero direction component means the ray is parallel
// to that slab: it then overlaps the slab only when its origin lies inside it.
func (b AABB) Hit(r Ray, tMin, tMax float64) bool {
	t0 := tMin
	t1 := tMax
	for i := 0; i < 3; i++ {
		var d, orig, minV, maxV float64
		switch i {
		case 0:
			d, orig, minV, maxV = r.Dir.X, r.Orig.X, b.Min.X, b.Max.X
		case 1:
			d, orig, minV, maxV = r.Dir.Y, r.Orig.Y, b.Min.Y, b.Max.Y
		default:
			d, orig, minV, maxV = r.Dir.Z, r.Orig.Z, b.Min.Z, b.Max.Z
		}

		if d == 0 {
			if orig < minV || orig > maxV {
				return false
			}
			continue
		}

		invD := 1 / d
		tNear := (minV - orig) * invD
		tFar := (maxV - orig) * invD
		if invD < 0 {
			tNear, tFar = tFar, tNear
		}
		if tNear > t0 {
			t0 = tNear
		}
		if tFar < t1 {
			t1 = tFar
		}
		if t1 < t0 {
			return false
		}
	}
	return true
}
