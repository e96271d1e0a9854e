package gizmo

import (
	"sort"

	"github.com/chewxy/math32"
	"github.com/go-gl/mathgl/mgl32"
)

// Ray is a half line. Dir is normalized by the constructors in this package.
type Ray struct {
	Origin mgl32.Vec3
	Dir    mgl32.Vec3
}

func (r Ray) At(t float32) mgl32.Vec3 { return r.Origin.Add(r.Dir.Mul(t)) }

// RayFromCamera builds the pick ray through a point in normalized device coordinates.
func RayFromCamera(camera Camera, ndc mgl32.Vec2) Ray {
	world := camera.WorldMatrix()
	cam := DecomposeMatrix(world)
	unproject := world.Mul4(camera.ProjectionMatrix().Inv())
	point := func(z float32) mgl32.Vec3 {
		v := unproject.Mul4x1(mgl32.Vec4{ndc.X(), ndc.Y(), z, 1})
		if v.W() != 0 {
			v = v.Mul(1 / v.W())
		}
		return v.Vec3()
	}
	forward := normalizeOr(cam.Rotation.Rotate(mgl32.Vec3{0, 0, -1}), mgl32.Vec3{0, 0, -1})

	if camera.Lens().Projection == ProjectionOrthographic {
		// start on the camera plane so geometry between camera and near plane is hit
		origin := point(-1)
		origin = origin.Sub(forward.Mul(origin.Sub(cam.Position).Dot(forward)))
		return Ray{Origin: origin, Dir: forward}
	}
	return Ray{
		Origin: cam.Position,
		Dir:    normalizeOr(point(0.5).Sub(cam.Position), forward),
	}
}

type Hit struct {
	Handle   *Handle
	Distance float32
	Point    mgl32.Vec3
}

// Raycaster returns every hit of r against handles, nearest first. Visibility is left to the
// caller.
type Raycaster interface {
	Intersect(r Ray, handles []*Handle) []Hit
}

// GeometryRaycaster tests baked picker triangles and, for line-only handles, segments
// within LineThreshold world units of the ray.
type GeometryRaycaster struct {
	LineThreshold float32
}

func NewGeometryRaycaster() *GeometryRaycaster {
	return &GeometryRaycaster{LineThreshold: 0.05}
}

func (g *GeometryRaycaster) Intersect(r Ray, handles []*Handle) []Hit {
	var hits []Hit
	for _, h := range handles {
		m := h.Matrix()
		if t, ok := g.nearest(r, h, m); ok {
			hits = append(hits, Hit{Handle: h, Distance: t, Point: r.At(t)})
		}
	}
	sort.SliceStable(hits, func(i, j int) bool { return hits[i].Distance < hits[j].Distance })
	return hits
}

func (g *GeometryRaycaster) nearest(r Ray, h *Handle, m mgl32.Mat4) (float32, bool) {
	best := math32.Inf(1)
	tris := h.Geometry.Triangles
	for i := 0; i+2 < len(tris); i += 3 {
		a := m.Mul4x1(tris[i].Vec4(1)).Vec3()
		b := m.Mul4x1(tris[i+1].Vec4(1)).Vec3()
		c := m.Mul4x1(tris[i+2].Vec4(1)).Vec3()
		if t, ok := intersectTriangle(r, a, b, c); ok && t < best {
			best = t
		}
	}
	if len(tris) == 0 && g.LineThreshold > 0 {
		lines := h.Geometry.Lines
		for i := 0; i+1 < len(lines); i += 2 {
			a := m.Mul4x1(lines[i].Vec4(1)).Vec3()
			b := m.Mul4x1(lines[i+1].Vec4(1)).Vec3()
			t, s, d := closestPoints(r.Origin, r.Dir, a, b.Sub(a))
			if t > 0 && s >= 0 && s <= 1 && d < g.LineThreshold && t < best {
				best = t
			}
		}
	}
	return best, !math32.IsInf(best, 1)
}

// intersectTriangle is a double-sided Moller-Trumbore test.
func intersectTriangle(r Ray, a, b, c mgl32.Vec3) (float32, bool) {
	e1, e2 := b.Sub(a), c.Sub(a)
	p := r.Dir.Cross(e2)
	det := e1.Dot(p)
	if math32.Abs(det) < 1e-12 {
		return 0, false
	}
	inv := 1 / det
	s := r.Origin.Sub(a)
	u := s.Dot(p) * inv
	if u < 0 || u > 1 {
		return 0, false
	}
	q := s.Cross(e1)
	v := r.Dir.Dot(q) * inv
	if v < 0 || u+v > 1 {
		return 0, false
	}
	t := e2.Dot(q) * inv
	if t < 0 {
		return 0, false
	}
	return t, true
}

// closestPoints returns the ray parameter t, the segment parameter s and the distance between
// the closest points of the ray ro+t*rd and the line ao+s*ad.
func closestPoints(ro, rd, ao, ad mgl32.Vec3) (float32, float32, float32) {
	r := ro.Sub(ao)
	a := rd.Dot(rd)
	b := rd.Dot(ad)
	e := ad.Dot(ad)
	f := ad.Dot(r)

	det := a*e - b*b
	if det < 1e-12 {
		return 0, 0, r.Len()
	}

	c := rd.Dot(r)
	t := (b*f - c*e) / det
	s := (a*f - b*c) / det

	p1 := ro.Add(rd.Mul(t))
	p2 := ao.Add(ad.Mul(s))
	return t, s, p1.Sub(p2).Len()
}

// firstVisible picks the nearest hit whose handle is visible.
func firstVisible(hits []Hit) (Hit, bool) {
	for _, h := range hits {
		if h.Handle.Visible {
			return h, true
		}
	}
	return Hit{}, false
}
