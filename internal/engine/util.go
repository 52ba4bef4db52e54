package engine

import (
	"context"
	"fmt"
	"image/png"
	"os"

	"gonum.org/v1/gonum/spatial/r3"

	"github.com/user/pathtracer/internal/scene"
)

// RenderScene builds the world and camera described by sc and renders it.
// Image size and quality come from cfg; scene settings are not consulted here.
// progress may be nil, see RenderInto.
func RenderScene(ctx context.Context, sc *scene.Scene, cfg RenderConfig, progress func(done, total int)) (*Frame, error) {
	world, err := BuildWorld(sc)
	if err != nil {
		return nil, fmt.Errorf("build world: %w", err)
	}
	if err := cfg.validate(); err != nil {
		return nil, err
	}
	cam, err := CameraFromScene(sc.Camera, cfg.Width, cfg.Height)
	if err != nil {
		return nil, fmt.Errorf("build camera: %w", err)
	}
	if sc.Sky != nil {
		cfg.Sky = &Sky{Horizon: colorOf(sc.Sky.Horizon), Zenith: colorOf(sc.Sky.Zenith)}
	}
	frame := NewFrame(cfg.Width, cfg.Height)
	if err := RenderInto(ctx, world, cam, cfg, frame, progress); err != nil {
		return nil, err
	}
	return frame, nil
}

// BuildWorld converts a scene description into a World. Invalid radii or
// refractive indices fail here, before any rendering starts.
func BuildWorld(sc *scene.Scene) (*World, error) {
	if err := sc.Validate(); err != nil {
		return nil, err
	}

	materials := make(map[string]Material, len(sc.Materials))
	for _, m := range sc.Materials {
		mat, err := convertMaterial(m)
		if err != nil {
			return nil, fmt.Errorf("material %q: %w", m.ID, err)
		}
		materials[m.ID] = mat
	}

	world := &World{objects: make([]Sphere, 0, len(sc.Objects))}
	for i, o := range sc.Objects {
		s, err := NewSphere(vecOf(o.Position), o.Radius, materials[o.MaterialID])
		if err != nil {
			return nil, fmt.Errorf("object %d (%s): %w", i, o.ID, err)
		}
		world.Add(s)
	}
	return world, nil
}

func convertMaterial(m scene.Material) (Material, error) {
	switch m.Type {
	case scene.MaterialMetal:
		return NewMetal(colorOf(m.Albedo), m.Fuzz), nil
	case scene.MaterialDielectric:
		return NewDielectric(m.IOR)
	case scene.MaterialLambert:
		return NewLambertian(colorOf(m.Albedo)), nil
	}
	return Material{}, fmt.Errorf("%w %q", scene.ErrUnknownType, m.Type)
}

// CameraFromScene builds a LensCamera. The aspect ratio follows the image
// unless the scene sets one explicitly.
func CameraFromScene(c scene.Camera, width, height int) (LensCamera, error) {
	aspect := float64(width) / float64(height)
	if c.AspectRatio != 0 {
		aspect = c.AspectRatio
	}
	up := vecOf(c.Up)
	if up == (r3.Vec{}) {
		up = v(0, 1, 0)
	}
	return NewCamera(CameraConfig{
		LookFrom:  vecOf(c.Position),
		LookAt:    vecOf(c.Target),
		Up:        up,
		VFOV:      c.FOV,
		Aperture:  c.Aperture,
		FocusDist: c.FocusDist,
	}, aspect)
}

func vecOf(p scene.Vec3) r3.Vec    { return v(p.X, p.Y, p.Z) }
func colorOf(c scene.Color) Color { return v(c.R, c.G, c.B) }

// RenderSettingsForMode returns reasonable defaults for preview/final modes.
func RenderSettingsForMode(mode string) scene.RenderSettings {
	switch mode {
	case "final":
		return scene.RenderSettings{
			Width:        1200,
			Height:       800,
			SamplesPerPx: 500,
			MaxDepth:     50,
		}
	default:
		return scene.RenderSettings{
			Width:        400,
			Height:       225,
			SamplesPerPx: 20,
			MaxDepth:     20,
		}
	}
}

// MergeSettings overlays the non-zero fields of each override onto base, in order.
func MergeSettings(base scene.RenderSettings, overrides ...scene.RenderSettings) scene.RenderSettings {
	for _, o := range overrides {
		if o.Width != 0 {
			base.Width = o.Width
		}
		if o.Height != 0 {
			base.Height = o.Height
		}
		if o.SamplesPerPx != 0 {
			base.SamplesPerPx = o.SamplesPerPx
		}
		if o.MaxDepth != 0 {
			base.MaxDepth = o.MaxDepth
		}
	}
	return base
}

// SettingsOverride holds explicitly requested settings. Nil fields keep the
// base value; a set field always wins, zero included.
type SettingsOverride struct {
	Width        *int
	Height       *int
	SamplesPerPx *int
	MaxDepth     *int
}

func (o SettingsOverride) Apply(base scene.RenderSettings) scene.RenderSettings {
	if o.Width != nil {
		base.Width = *o.Width
	}
	if o.Height != nil {
		base.Height = *o.Height
	}
	if o.SamplesPerPx != nil {
		base.SamplesPerPx = *o.SamplesPerPx
	}
	if o.MaxDepth != nil {
		base.MaxDepth = *o.MaxDepth
	}
	return base
}

// SavePNG writes a frame to a PNG file.
func SavePNG(path string, f *Frame) error {
	out, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create png: %w", err)
	}
	if err := png.Encode(out, f.Image()); err != nil {
		out.Close()
		return fmt.Errorf("encode png: %w", err)
	}
	if err := out.Close(); err != nil {
		return fmt.Errorf("close png: %w", err)
	}
	return nil
}
