package engine

// World is a flat list of spheres. It is filled during scene construction and
// only read while rendering, so it can be shared by every worker without locks.
type World struct {
	objects []Sphere
	bbox    AABB
}

func NewWorld(objects ...Sphere) *World {
	w := &World{}
	for _, o := range objects {
		w.Add(o)
	}
	return w
}

// Add appends a primitive. It must not be called while a render is running.
func (w *World) Add(s Sphere) {
	if len(w.objects) == 0 {
		w.bbox = s.BoundingBox()
	} else {
		w.bbox = surroundingBox(w.bbox, s.BoundingBox())
	}
	w.objects = append(w.objects, s)
}

func (w *World) Len() int { return len(w.objects) }

func (w *World) Objects() []Sphere { return w.objects }

// BoundingBox returns the box enclosing every primitive, or false for an empty world.
func (w *World) BoundingBox() (AABB, bool) {
	if len(w.objects) == 0 {
		return AABB{}, false
	}
	return w.bbox, true
}

// Hit returns the closest intersection in (tMin, tMax]. The scan lowers its
// upper bound to every accepted hit, so only nearer surfaces can replace it.
func (w *World) Hit(r Ray, tMin, tMax float64) (HitRecord, bool) {
	if len(w.objects) == 0 || !w.bbox.Hit(r, tMin, tMax) {
		return HitRecord{}, false
	}

	var rec HitRecord
	hitAnything := false
	closest := tMax
	for i := range w.objects {
		if tmp, ok := w.objects[i].Hit(r, tMin, closest); ok {
			hitAnything = true
			closest = tmp.T
			rec = tmp
		}
	}
	return rec, hitAnything
}
