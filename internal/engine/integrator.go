package engine

import (
	"math"
	"math/rand/v2"

	"gonum.org/v1/gonum/spatial/r3"
)

// tMin keeps secondary rays from re-hitting the surface they start on.
const tMin = 0.001

// Sky is the background gradient, standing in for an environment light.
// It blends from Horizon (looking straight down) to Zenith (straight up).
type Sky struct {
	Horizon Color
	Zenith  Color
}

func DefaultSky() Sky {
	return Sky{
		Horizon: v(1, 1, 1),
		Zenith:  v(0.5, 0.7, 1.0),
	}
}

func (s Sky) Color(r Ray) Color {
	t := 0.5 * (unit(r.Dir).Y + 1.0)
	return r3.Add(r3.Scale(1-t, s.Horizon), r3.Scale(t, s.Zenith))
}

// RayColor estimates the radiance arriving along r with at most depth bounces.
//
// It evaluates color(r) = attenuation ⊙ color(scattered, depth-1) as a loop,
// carrying the running product of attenuations instead of recursing.
func RayColor(r Ray, w *World, sky Sky, depth int, rng *rand.Rand) Color {
	throughput := v(1, 1, 1)
	for ; depth > 0; depth-- {
		rec, ok := w.Hit(r, tMin, math.Inf(1))
		if !ok {
			return mulVec(throughput, sky.Color(r))
		}

		attenuation, scattered, ok := rec.Mat.Scatter(r, &rec, rng)
		if !ok {
			return Color{}
		}
		throughput = mulVec(throughput, attenuation)
		r = scattered
	}
	return Color{}
}

// NormalColor maps the normal at the nearest hit to 0.5*(n+1); misses get the sky.
func NormalColor(r Ray, w *World, sky Sky) Color {
	rec, ok := w.Hit(r, tMin, math.Inf(1))
	if !ok {
		return sky.Color(r)
	}
	return r3.Scale(0.5, r3.Add(rec.Normal, v(1, 1, 1)))
}
