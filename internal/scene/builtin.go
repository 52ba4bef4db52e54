package scene

import (
	"fmt"
	"math"
	"math/rand/v2"
	"sort"
)

// builtins maps names accepted by Builtin to their generators.
var builtins = map[string]func(seed uint64) *Scene{
	"random":  Random,
	"simple":  Simple,
	"normals": Normals,
}

// BuiltinNames lists the scenes Builtin knows, sorted.
func BuiltinNames() []string {
	names := make([]string, 0, len(builtins))
	for name := range builtins {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Builtin returns a generated scene by name. Only "random" uses the seed.
func Builtin(name string, seed uint64) (*Scene, error) {
	gen, ok := builtins[name]
	if !ok {
		return nil, fmt.Errorf("builtin scene %q: %w (have %v)", name, ErrUnknownType, BuiltinNames())
	}
	return gen(seed), nil
}

// Random is the classic cover scene: a ground sphere, a 22x22 grid of small
// spheres with random materials and three large spheres.
func Random(seed uint64) *Scene {
	rng := rand.New(rand.NewPCG(seed, 0))

	sc := &Scene{
		Name: "random",
		Camera: Camera{
			Position:  Vec3{13, 2, 3},
			Target:    Vec3{0, 0, 0},
			Up:        Vec3{0, 1, 0},
			FOV:       20,
			Aperture:  0.1,
			FocusDist: 10,
		},
		Settings: RenderSettings{Width: 600, Height: 400},
	}

	sc.Materials = append(sc.Materials, Material{ID: "ground", Type: MaterialLambert, Albedo: Color{0.5, 0.5, 0.5}})
	sc.Objects = append(sc.Objects, Object{Type: ObjectSphere, Position: Vec3{0, -1000, 0}, Radius: 1000, MaterialID: "ground"})

	for a := -11; a < 11; a++ {
		for b := -11; b < 11; b++ {
			chooseMat := rng.Float64()
			center := Vec3{float64(a) + 0.9*rng.Float64(), 0.2, float64(b) + 0.9*rng.Float64()}

			dx, dy, dz := center.X-4, center.Y-0.2, center.Z
			if math.Sqrt(dx*dx+dy*dy+dz*dz) <= 0.9 {
				continue
			}

			id := fmt.Sprintf("small_%d_%d", a+11, b+11)
			var m Material
			switch {
			case chooseMat < 0.7:
				m = Material{ID: id, Type: MaterialLambert, Albedo: Color{
					R: rng.Float64() * rng.Float64(),
					G: rng.Float64() * rng.Float64(),
					B: rng.Float64() * rng.Float64(),
				}}
			case chooseMat < 0.8:
				m = Material{ID: id, Type: MaterialMetal, Albedo: Color{
					R: 0.5 + 0.5*rng.Float64(),
					G: 0.5 + 0.5*rng.Float64(),
					B: 0.5 + 0.5*rng.Float64(),
				}, Fuzz: 0.5 * rng.Float64()}
			default:
				m = Material{ID: id, Type: MaterialDielectric, IOR: 1.5}
			}
			sc.Materials = append(sc.Materials, m)
			sc.Objects = append(sc.Objects, Object{Type: ObjectSphere, Position: center, Radius: 0.2, MaterialID: id})
		}
	}

	sc.Materials = append(sc.Materials,
		Material{ID: "glass", Type: MaterialDielectric, IOR: 1.5},
		Material{ID: "brown", Type: MaterialLambert, Albedo: Color{0.4, 0.2, 0.1}},
		Material{ID: "bronze", Type: MaterialMetal, Albedo: Color{0.7, 0.6, 0.5}},
	)
	sc.Objects = append(sc.Objects,
		Object{ID: "glass", Type: ObjectSphere, Position: Vec3{0, 1, 0}, Radius: 1, MaterialID: "glass"},
		Object{ID: "diffuse", Type: ObjectSphere, Position: Vec3{-4, 1, 0}, Radius: 1, MaterialID: "brown"},
		Object{ID: "mirror", Type: ObjectSphere, Position: Vec3{4, 1, 0}, Radius: 1, MaterialID: "bronze"},
	)
	return sc
}

// Simple is three spheres (diffuse, glass, metal) on a large ground sphere,
// seen from the origin.
func Simple(uint64) *Scene {
	return &Scene{
		Name:   "simple",
		Camera: originCamera(),
		Materials: []Material{
			{ID: "ground", Type: MaterialLambert, Albedo: Color{0.8, 0.8, 0.0}},
			{ID: "center", Type: MaterialLambert, Albedo: Color{0.1, 0.2, 0.5}},
			{ID: "left", Type: MaterialDielectric, IOR: 1.5},
			{ID: "right", Type: MaterialMetal, Albedo: Color{0.8, 0.6, 0.2}},
		},
		Objects: []Object{
			{ID: "ground", Type: ObjectSphere, Position: Vec3{0, -100.5, -1}, Radius: 100, MaterialID: "ground"},
			{ID: "center", Type: ObjectSphere, Position: Vec3{0, 0, -1}, Radius: 0.5, MaterialID: "center"},
			{ID: "left", Type: ObjectSphere, Position: Vec3{-1, 0, -1}, Radius: 0.5, MaterialID: "left"},
			{ID: "right", Type: ObjectSphere, Position: Vec3{1, 0, -1}, Radius: 0.5, MaterialID: "right"},
		},
		Settings: RenderSettings{Width: 400, Height: 225, SamplesPerPx: 100, MaxDepth: 50},
	}
}

// Normals is a single large sphere below the camera, meant for normal shading.
func Normals(uint64) *Scene {
	return &Scene{
		Name:   "normals",
		Camera: originCamera(),
		Materials: []Material{
			{ID: "ground", Type: MaterialLambert, Albedo: Color{0.5, 0.5, 0.5}},
		},
		Objects: []Object{
			{ID: "ground", Type: ObjectSphere, Position: Vec3{0, -100.5, -1}, Radius: 100, MaterialID: "ground"},
		},
		Settings: RenderSettings{Width: 400, Height: 225, SamplesPerPx: 10, MaxDepth: 1},
	}
}

func originCamera() Camera {
	return Camera{
		Position: Vec3{0, 0, 0},
		Target:   Vec3{0, 0, -1},
		Up:       Vec3{0, 1, 0},
		FOV:      90,
	}
}
