package engine

import "fmt"

// Shading selects what the renderer evaluates for every camera ray.
type Shading int

const (
	// ShadingPath is the Monte Carlo path tracer.
	ShadingPath Shading = iota
	// ShadingNormals colors hits by their surface normal and ignores materials.
	// Useful for checking geometry and camera setup.
	ShadingNormals
)

func (s Shading) String() string {
	switch s {
	case ShadingPath:
		return "path"
	case ShadingNormals:
		return "normals"
	}
	return fmt.Sprintf("Shading(%d)", int(s))
}

// ParseShading accepts the names returned by String. Unknown names fall back to
// path tracing.
func ParseShading(name string) Shading {
	switch name {
	case "normals":
		return ShadingNormals
	default:
		return ShadingPath
	}
}
