package engine

import (
	"math/rand/v2"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gonum.org/v1/gonum/spatial/r3"
)

func TestRayColorZeroDepthIsBlack(t *testing.T) {
	rng := rand.New(rand.NewPCG(1, 1))
	glass, err := NewDielectric(1.5)
	require.NoError(t, err)

	worlds := map[string]*World{
		"empty":   NewWorld(),
		"diffuse": NewWorld(mustSphere(t, v(0, 0, -2), 1, gray())),
		"glass":   NewWorld(mustSphere(t, v(0, 0, -2), 1, glass)),
	}
	for name, w := range worlds {
		t.Run(name, func(t *testing.T) {
			for i := 0; i < 50; i++ {
				r := NewRay(v(0, 0, 0), randomUnitVector(rng))
				assert.Equal(t, Color{}, RayColor(r, w, DefaultSky(), 0, rng))
			}
		})
	}
}

func TestSkyGradient(t *testing.T) {
	sky := DefaultSky()
	assert.Equal(t, sky.Zenith, sky.Color(NewRay(v(0, 0, 0), v(0, 3, 0))))
	assert.Equal(t, sky.Horizon, sky.Color(NewRay(v(0, 0, 0), v(0, -0.5, 0))))

	mid := sky.Color(NewRay(v(0, 0, 0), v(1, 0, 0)))
	assert.InDelta(t, 0.75, mid.X, 1e-12)
	assert.InDelta(t, 0.85, mid.Y, 1e-12)
	assert.InDelta(t, 1.0, mid.Z, 1e-12)
}

func TestRayColorMissReturnsSky(t *testing.T) {
	rng := rand.New(rand.NewPCG(1, 2))
	w := NewWorld(mustSphere(t, v(0, 0, -5), 1, gray()))
	r := NewRay(v(0, 0, 0), v(0, 1, -0.2))
	assert.Equal(t, DefaultSky().Color(r), RayColor(r, w, DefaultSky(), 5, rng))
}

func TestRayColorDepthExhaustedInsideSphere(t *testing.T) {
	// Every bounce stays inside the sphere, so no path reaches the sky.
	rng := rand.New(rand.NewPCG(6, 6))
	w := NewWorld(mustSphere(t, v(0, 0, 0), 10, NewLambertian(v(0.9, 0.9, 0.9))))
	for i := 0; i < 100; i++ {
		r := NewRay(v(0, 0, 0), randomUnitVector(rng))
		assert.Equal(t, Color{}, RayColor(r, w, DefaultSky(), 8, rng))
	}
}

func TestRayColorThroughIndexOneGlass(t *testing.T) {
	// A dielectric with index 1 neither bends nor reflects at normal
	// incidence, so the ray leaves through the back and sees the sky.
	rng := rand.New(rand.NewPCG(3, 3))
	glass, err := NewDielectric(1)
	require.NoError(t, err)
	w := NewWorld(mustSphere(t, v(0, 0, -3), 1, glass))
	sky := DefaultSky()

	r := NewRay(v(0, 0, 0), v(0, 0, -1))
	got := RayColor(r, w, sky, 3, rng)
	want := sky.Color(r)
	assert.InDelta(t, want.X, got.X, 1e-12)
	assert.InDelta(t, want.Y, got.Y, 1e-12)
	assert.InDelta(t, want.Z, got.Z, 1e-12)

	// Two bounces are spent on the glass surfaces.
	assert.Equal(t, Color{}, RayColor(r, w, sky, 2, rng))
}

func TestRayColorAttenuates(t *testing.T) {
	// A mirror facing up reflects a downward ray straight back to the zenith.
	rng := rand.New(rand.NewPCG(1, 1))
	w := NewWorld(mustSphere(t, v(0, -100, 0), 99, NewMetal(v(0.5, 0.25, 1), 0)))
	sky := DefaultSky()

	got := RayColor(NewRay(v(0, 0, 0), v(0, -1, 0)), w, sky, 2, rng)
	want := mulVec(v(0.5, 0.25, 1), sky.Zenith)
	assert.InDelta(t, want.X, got.X, 1e-9)
	assert.InDelta(t, want.Y, got.Y, 1e-9)
	assert.InDelta(t, want.Z, got.Z, 1e-9)
}

func TestNormalColor(t *testing.T) {
	w := NewWorld(mustSphere(t, v(0, 0, -3), 1, gray()))
	sky := DefaultSky()

	got := NormalColor(NewRay(v(0, 0, 0), v(0, 0, -1)), w, sky)
	assert.InDelta(t, 0.5, got.X, 1e-12)
	assert.InDelta(t, 0.5, got.Y, 1e-12)
	assert.InDelta(t, 1.0, got.Z, 1e-12)

	miss := NewRay(v(0, 0, 0), v(0, 1, 0))
	assert.Equal(t, sky.Color(miss), NormalColor(miss, w, sky))
}

func TestMulVec(t *testing.T) {
	assert.Equal(t, r3.Vec{X: 2, Y: -3, Z: 0}, mulVec(v(1, 3, 5), v(2, -1, 0)))
}
