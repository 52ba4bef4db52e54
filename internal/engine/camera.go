package engine

import (
	"errors"
	"math"
	"math/rand/v2"

	"gonum.org/v1/gonum/spatial/r3"
)

// Camera maps normalized viewport coordinates u, v in [0,1] (origin at the
// bottom-left) to a primary ray. rng may only be used for lens sampling.
type Camera interface {
	Ray(u, v float64, rng *rand.Rand) Ray
}

// CameraConfig describes a thin-lens camera. VFOV is in degrees. A zero
// FocusDist focuses on LookAt; a zero Aperture gives a pinhole.
type CameraConfig struct {
	LookFrom  r3.Vec
	LookAt    r3.Vec
	Up        r3.Vec
	VFOV      float64
	Aperture  float64
	FocusDist float64
}

// LensCamera implements Camera. With a zero aperture it never touches rng.
type LensCamera struct {
	origin          r3.Vec
	lowerLeftCorner r3.Vec
	horizontal      r3.Vec
	vertical        r3.Vec
	u, v            r3.Vec
	lensRadius      float64
}

func NewCamera(cfg CameraConfig, aspect float64) (LensCamera, error) {
	if !(aspect > 0) {
		return LensCamera{}, errors.New("camera aspect ratio must be positive")
	}
	if !(cfg.VFOV > 0 && cfg.VFOV < 180) {
		return LensCamera{}, errors.New("camera fov must be in (0, 180) degrees")
	}
	if cfg.Aperture < 0 {
		return LensCamera{}, errors.New("camera aperture must not be negative")
	}

	theta := cfg.VFOV * math.Pi / 180
	h := math.Tan(theta / 2)
	viewportHeight := 2.0 * h
	viewportWidth := aspect * viewportHeight

	back := r3.Sub(cfg.LookFrom, cfg.LookAt)
	if r3.Norm(back) == 0 {
		return LensCamera{}, errors.New("camera position and target coincide")
	}
	w := unit(back)
	u := unit(r3.Cross(cfg.Up, w))
	if r3.Norm(u) == 0 {
		return LensCamera{}, errors.New("camera up vector is parallel to the view direction")
	}
	vVec := r3.Cross(w, u)

	focusDist := cfg.FocusDist
	if focusDist == 0 {
		focusDist = r3.Norm(back)
	}

	horizontal := r3.Scale(viewportWidth*focusDist, u)
	vertical := r3.Scale(viewportHeight*focusDist, vVec)
	lowerLeftCorner := r3.Sub(r3.Sub(r3.Sub(cfg.LookFrom, r3.Scale(0.5, horizontal)), r3.Scale(0.5, vertical)), r3.Scale(focusDist, w))

	return LensCamera{
		origin:          cfg.LookFrom,
		lowerLeftCorner: lowerLeftCorner,
		horizontal:      horizontal,
		vertical:        vertical,
		u:               u,
		v:               vVec,
		lensRadius:      cfg.Aperture / 2,
	}, nil
}

func (c LensCamera) Ray(s, t float64, rng *rand.Rand) Ray {
	target := r3.Add(c.lowerLeftCorner, r3.Add(r3.Scale(s, c.horizontal), r3.Scale(t, c.vertical)))
	if c.lensRadius > 0 {
		rd := r3.Scale(c.lensRadius, randomInUnitDisk(rng))
		offset := r3.Add(r3.Scale(rd.X, c.u), r3.Scale(rd.Y, c.v))
		orig := r3.Add(c.origin, offset)
		return NewRay(orig, r3.Sub(target, orig))
	}
	return NewRay(c.origin, r3.Sub(target, c.origin))
}
