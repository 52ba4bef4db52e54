package engine

import (
	"math"
	"math/rand/v2"

	"gonum.org/v1/gonum/spatial/r3"
)

// Color is a linear RGB triple stored as X=R, Y=G, Z=B.
type Color = r3.Vec

func v(x, y, z float64) r3.Vec { return r3.Vec{X: x, Y: y, Z: z} }

// unit returns a scaled to length one. The zero vector is returned unchanged.
func unit(a r3.Vec) r3.Vec {
	l := r3.Norm(a)
	if l == 0 {
		return a
	}
	return r3.Scale(1/l, a)
}

// mulVec is the component-wise product.
func mulVec(a, b r3.Vec) r3.Vec {
	return r3.Vec{X: a.X * b.X, Y: a.Y * b.Y, Z: a.Z * b.Z}
}

func nearZero(a r3.Vec) bool {
	const s = 1e-8
	return math.Abs(a.X) < s && math.Abs(a.Y) < s && math.Abs(a.Z) < s
}

func reflectVec(d, n r3.Vec) r3.Vec {
	return r3.Sub(d, r3.Scale(2*r3.Dot(d, n), n))
}

func refractVec(uv, n r3.Vec, etaiOverEtat float64) r3.Vec {
	cosTheta := math.Min(-r3.Dot(uv, n), 1.0)
	rOutPerp := r3.Scale(etaiOverEtat, r3.Add(uv, r3.Scale(cosTheta, n)))
	rOutParallel := r3.Scale(-math.Sqrt(math.Abs(1.0-r3.Norm2(rOutPerp))), n)
	return r3.Add(rOutPerp, rOutParallel)
}

func randomInUnitSphere(rng *rand.Rand) r3.Vec {
	for {
		p := v(rng.Float64()*2-1, rng.Float64()*2-1, rng.Float64()*2-1)
		if r3.Norm2(p) < 1 {
			return p
		}
	}
}

func randomUnitVector(rng *rand.Rand) r3.Vec {
	for {
		p := v(rng.Float64()*2-1, rng.Float64()*2-1, rng.Float64()*2-1)
		lenSq := r3.Norm2(p)
		if lenSq < 1 && lenSq > 1e-160 {
			return r3.Scale(1/math.Sqrt(lenSq), p)
		}
	}
}

func randomInUnitDisk(rng *rand.Rand) r3.Vec {
	for {
		p := v(rng.Float64()*2-1, rng.Float64()*2-1, 0)
		if r3.Norm2(p) < 1 {
			return p
		}
	}
}

// Ray is a half-line; Dir does not need to be normalized.
type Ray struct {
	Orig r3.Vec
	Dir  r3.Vec
}

func NewRay(orig, dir r3.Vec) Ray { return Ray{Orig: orig, Dir: dir} }

func (r Ray) At(t float64) r3.Vec {
	return r3.Add(r.Orig, r3.Scale(t, r.Dir))
}
