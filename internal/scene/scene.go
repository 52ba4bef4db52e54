package scene

import (
	"errors"
	"fmt"
)

var (
	// ErrUnknownMaterial is returned when an object references a material id
	// that the scene does not define.
	ErrUnknownMaterial = errors.New("unknown material")
	// ErrUnknownType is returned for unsupported object or material types.
	ErrUnknownType = errors.New("unknown type")
)

// Vec3 represents a simple 3D vector or point.
type Vec3 struct {
	X float64 `json:"x" yaml:"x"`
	Y float64 `json:"y" yaml:"y"`
	Z float64 `json:"z" yaml:"z"`
}

// Camera describes the viewpoint for the renderer.
type Camera struct {
	Position Vec3    `json:"position" yaml:"position"`
	Target   Vec3    `json:"target" yaml:"target"`
	Up       Vec3    `json:"up" yaml:"up"`
	FOV      float64 `json:"fov" yaml:"fov"`

	Aperture    float64 `json:"aperture,omitempty" yaml:"aperture,omitempty"`
	FocusDist   float64 `json:"focus_dist,omitempty" yaml:"focus_dist,omitempty"`
	AspectRatio float64 `json:"aspect_ratio,omitempty" yaml:"aspect_ratio,omitempty"`
}

// MaterialType enumerates supported material kinds.
type MaterialType string

const (
	MaterialLambert    MaterialType = "lambert"
	MaterialMetal      MaterialType = "metal"
	MaterialDielectric MaterialType = "dielectric"
)

// Material describes surface properties.
type Material struct {
	ID   string       `json:"id" yaml:"id"`
	Type MaterialType `json:"type" yaml:"type"`

	Albedo Color   `json:"albedo" yaml:"albedo"`
	Fuzz   float64 `json:"fuzz,omitempty" yaml:"fuzz,omitempty"` // metal only, clamped to [0,1]
	IOR    float64 `json:"ior,omitempty" yaml:"ior,omitempty"`   // dielectric only
}

// ObjectType enumerates supported geometric primitives.
type ObjectType string

const (
	ObjectSphere ObjectType = "sphere"
)

// Object is a single entity in the scene.
type Object struct {
	ID   string     `json:"id,omitempty" yaml:"id,omitempty"`
	Type ObjectType `json:"type" yaml:"type"`

	Position Vec3    `json:"position" yaml:"position"`
	Radius   float64 `json:"radius" yaml:"radius"`

	MaterialID string `json:"material_id" yaml:"material_id"`
}

// RenderSettings defines quality/performance parameters. Zero fields are
// left to the render preset.
type RenderSettings struct {
	Width        int `json:"width,omitempty" yaml:"width,omitempty"`
	Height       int `json:"height,omitempty" yaml:"height,omitempty"`
	SamplesPerPx int `json:"samples_per_px,omitempty" yaml:"samples_per_px,omitempty"`
	MaxDepth     int `json:"max_depth,omitempty" yaml:"max_depth,omitempty"`
}

// Sky is a vertical gradient from Horizon (looking down) to Zenith (looking up).
type Sky struct {
	Horizon Color `json:"horizon" yaml:"horizon"`
	Zenith  Color `json:"zenith" yaml:"zenith"`
}

// Scene holds everything needed to render an image.
type Scene struct {
	Name      string         `json:"name" yaml:"name"`
	Camera    Camera         `json:"camera" yaml:"camera"`
	Objects   []Object       `json:"objects" yaml:"objects"`
	Materials []Material     `json:"materials" yaml:"materials"`
	Settings  RenderSettings `json:"settings" yaml:"settings"`

	// Sky defaults to white → (0.5, 0.7, 1.0) when omitted.
	Sky *Sky `json:"sky,omitempty" yaml:"sky,omitempty"`
}

// Validate checks references and types. Numeric checks such as positive radii
// happen when the engine builds the world.
func (sc *Scene) Validate() error {
	ids := make(map[string]struct{}, len(sc.Materials))
	for _, m := range sc.Materials {
		if m.ID == "" {
			return fmt.Errorf("material without id")
		}
		if _, dup := ids[m.ID]; dup {
			return fmt.Errorf("duplicate material id %q", m.ID)
		}
		switch m.Type {
		case MaterialLambert, MaterialMetal, MaterialDielectric:
		default:
			return fmt.Errorf("material %q: %w %q", m.ID, ErrUnknownType, m.Type)
		}
		ids[m.ID] = struct{}{}
	}

	for i, o := range sc.Objects {
		if o.Type != ObjectSphere {
			return fmt.Errorf("object %d: %w %q", i, ErrUnknownType, o.Type)
		}
		if _, ok := ids[o.MaterialID]; !ok {
			return fmt.Errorf("object %d: %w %q", i, ErrUnknownMaterial, o.MaterialID)
		}
	}
	return nil
}

// Material returns the material with the given id.
func (sc *Scene) Material(id string) (Material, bool) {
	for _, m := range sc.Materials {
		if m.ID == id {
			return m, true
		}
	}
	return Material{}, false
}
