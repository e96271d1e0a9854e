package gizmo

import (
	"github.com/chewxy/math32"
	"github.com/go-gl/mathgl/mgl32"
)

// DrawKind selects the generator used to bake a handle's geometry.
type DrawKind int

const (
	DrawLine        DrawKind = iota // unit segment along +X
	DrawDelta                       // unit diagonal (0,0,0)-(1,1,1)
	DrawCylinder                    // Dims: top radius, bottom radius, height, radial segments
	DrawBox                         // Dims: width, height, depth
	DrawOctahedron                  // Dims: radius
	DrawArc                         // Dims: radius, arc fraction of a full turn; XY plane centred on +X
	DrawTorus                       // Dims: radius, tube, radial segments, tubular segments
	DrawSphere                      // Dims: radius, segments
	DrawLabel                       // Dims: glyph size
)

// Shape describes a primitive before placement. Shift is applied before the handle's static
// rotation, matching a geometry-space translate.
type Shape struct {
	Kind  DrawKind
	Dims  [4]float32
	Shift mgl32.Vec3
	Glyph byte
}

// Geometry is baked handle geometry. Visual handles use line lists, pickers use triangles.
type Geometry struct {
	Lines     []mgl32.Vec3
	Triangles []mgl32.Vec3
}

func (g Geometry) Empty() bool { return len(g.Lines) == 0 && len(g.Triangles) == 0 }

const (
	circleSteps = 32
	lineRadius  = 0.01
)

func (s Shape) lines() []mgl32.Vec3 {
	switch s.Kind {
	case DrawLine:
		return []mgl32.Vec3{{0, 0, 0}, {1, 0, 0}}
	case DrawDelta:
		return []mgl32.Vec3{{0, 0, 0}, {1, 1, 1}}
	case DrawCylinder:
		return cylinderLines(s.Dims[0], s.Dims[1], s.Dims[2], int(s.Dims[3]))
	case DrawBox:
		return boxLines(s.Dims[0], s.Dims[1], s.Dims[2])
	case DrawOctahedron:
		return edgesOf(octahedronTriangles(s.Dims[0]))
	case DrawArc:
		return arcLines(s.Dims[0], s.Dims[1])
	case DrawTorus:
		return arcLines(s.Dims[0], 1)
	case DrawSphere:
		return sphereLines(s.Dims[0])
	case DrawLabel:
		return glyphLines(s.Glyph, s.Dims[0])
	}
	return nil
}

func (s Shape) triangles() []mgl32.Vec3 {
	switch s.Kind {
	case DrawCylinder:
		return cylinderTriangles(s.Dims[0], s.Dims[1], s.Dims[2], int(s.Dims[3]))
	case DrawBox:
		return boxTriangles(s.Dims[0], s.Dims[1], s.Dims[2])
	case DrawOctahedron:
		return octahedronTriangles(s.Dims[0])
	case DrawTorus:
		return torusTriangles(s.Dims[0], s.Dims[1], int(s.Dims[2]), int(s.Dims[3]))
	case DrawSphere:
		return sphereTriangles(s.Dims[0], int(s.Dims[1]))
	}
	return nil
}

// bake places the shape with the static offset, Euler XYZ rotation and scale.
func bake(s Shape, category Category, offset, euler, scale mgl32.Vec3) Geometry {
	if scale == zero3 {
		scale = mgl32.Vec3{1, 1, 1}
	}
	static := Transform{Position: offset, Rotation: quatFromEuler(euler), Scale: scale}.Matrix()
	place := func(pts []mgl32.Vec3) []mgl32.Vec3 {
		out := make([]mgl32.Vec3, len(pts))
		for i, p := range pts {
			out[i] = static.Mul4x1(p.Add(s.Shift).Vec4(1)).Vec3()
		}
		return out
	}
	if category == CategoryPicker {
		return Geometry{Triangles: place(s.triangles())}
	}
	return Geometry{Lines: place(s.lines())}
}

func ring(radius, y float32, steps int, from, span float32) []mgl32.Vec3 {
	pts := make([]mgl32.Vec3, steps+1)
	for i := 0; i <= steps; i++ {
		a := from + span*float32(i)/float32(steps)
		pts[i] = mgl32.Vec3{radius * math32.Cos(a), y, radius * math32.Sin(a)}
	}
	return pts
}

func polyline(pts []mgl32.Vec3) []mgl32.Vec3 {
	out := make([]mgl32.Vec3, 0, 2*len(pts))
	for i := 0; i+1 < len(pts); i++ {
		out = append(out, pts[i], pts[i+1])
	}
	return out
}

// cylinderLines draws thin cylinders as a centre line and wider ones as a wire cone.
func cylinderLines(top, bottom, height float32, segments int) []mgl32.Vec3 {
	h := height / 2
	if top < lineRadius && bottom < lineRadius {
		return []mgl32.Vec3{{0, -h, 0}, {0, h, 0}}
	}
	if segments < 3 {
		segments = 3
	}
	var out []mgl32.Vec3
	for _, r := range []struct{ radius, y float32 }{{top, h}, {bottom, -h}} {
		if r.radius > 0 {
			out = append(out, polyline(ring(r.radius, r.y, segments, 0, 2*math32.Pi))...)
		}
	}
	for i := 0; i < segments; i++ {
		a := 2 * math32.Pi * float32(i) / float32(segments)
		c, s := math32.Cos(a), math32.Sin(a)
		out = append(out, mgl32.Vec3{top * c, h, top * s}, mgl32.Vec3{bottom * c, -h, bottom * s})
	}
	return out
}

func cylinderTriangles(top, bottom, height float32, segments int) []mgl32.Vec3 {
	if segments < 3 {
		segments = 3
	}
	h := height / 2
	topRing := ring(top, h, segments, 0, 2*math32.Pi)
	bottomRing := ring(bottom, -h, segments, 0, 2*math32.Pi)
	var out []mgl32.Vec3
	for i := 0; i < segments; i++ {
		t0, t1 := topRing[i], topRing[i+1]
		b0, b1 := bottomRing[i], bottomRing[i+1]
		out = append(out, t0, b0, t1, t1, b0, b1)
		if top > 0 {
			out = append(out, mgl32.Vec3{0, h, 0}, t1, t0)
		}
		if bottom > 0 {
			out = append(out, mgl32.Vec3{0, -h, 0}, b0, b1)
		}
	}
	return out
}

func boxCorners(w, h, d float32) [8]mgl32.Vec3 {
	x, y, z := w/2, h/2, d/2
	return [8]mgl32.Vec3{
		{-x, -y, -z}, {x, -y, -z}, {x, -y, z}, {-x, -y, z},
		{-x, y, -z}, {x, y, -z}, {x, y, z}, {-x, y, z},
	}
}

func boxLines(w, h, d float32) []mgl32.Vec3 {
	c := boxCorners(w, h, d)
	edges := [12][2]int{
		{0, 1}, {1, 2}, {2, 3}, {3, 0},
		{4, 5}, {5, 6}, {6, 7}, {7, 4},
		{0, 4}, {1, 5}, {2, 6}, {3, 7},
	}
	out := make([]mgl32.Vec3, 0, 24)
	for _, e := range edges {
		out = append(out, c[e[0]], c[e[1]])
	}
	return out
}

func boxTriangles(w, h, d float32) []mgl32.Vec3 {
	c := boxCorners(w, h, d)
	faces := [6][4]int{
		{0, 1, 2, 3}, {4, 7, 6, 5},
		{0, 4, 5, 1}, {1, 5, 6, 2},
		{2, 6, 7, 3}, {3, 7, 4, 0},
	}
	out := make([]mgl32.Vec3, 0, 36)
	for _, f := range faces {
		out = append(out, c[f[0]], c[f[1]], c[f[2]], c[f[0]], c[f[2]], c[f[3]])
	}
	return out
}

func octahedronTriangles(r float32) []mgl32.Vec3 {
	px, nx := mgl32.Vec3{r, 0, 0}, mgl32.Vec3{-r, 0, 0}
	py, ny := mgl32.Vec3{0, r, 0}, mgl32.Vec3{0, -r, 0}
	pz, nz := mgl32.Vec3{0, 0, r}, mgl32.Vec3{0, 0, -r}
	return []mgl32.Vec3{
		px, py, pz, pz, py, nx, nx, py, nz, nz, py, px,
		px, pz, ny, pz, nx, ny, nx, nz, ny, nz, px, ny,
	}
}

// edgesOf returns the unique edges of a triangle list as line pairs.
func edgesOf(tris []mgl32.Vec3) []mgl32.Vec3 {
	seen := make(map[[2]mgl32.Vec3]bool)
	var out []mgl32.Vec3
	for i := 0; i+2 < len(tris); i += 3 {
		for _, e := range [3][2]mgl32.Vec3{{tris[i], tris[i+1]}, {tris[i+1], tris[i+2]}, {tris[i+2], tris[i]}} {
			if seen[e] || seen[[2]mgl32.Vec3{e[1], e[0]}] {
				continue
			}
			seen[e] = true
			out = append(out, e[0], e[1])
		}
	}
	return out
}

func arcLines(radius, fraction float32) []mgl32.Vec3 {
	span := 2 * math32.Pi * fraction
	steps := int(math32.Ceil(circleSteps * fraction))
	if steps < 2 {
		steps = 2
	}
	pts := make([]mgl32.Vec3, steps+1)
	for i := 0; i <= steps; i++ {
		a := -span/2 + span*float32(i)/float32(steps)
		pts[i] = mgl32.Vec3{radius * math32.Cos(a), radius * math32.Sin(a), 0}
	}
	return polyline(pts)
}

func torusTriangles(radius, tube float32, radial, tubular int) []mgl32.Vec3 {
	if radial < 2 {
		radial = 2
	}
	if tubular < 3 {
		tubular = 3
	}
	point := func(i, j int) mgl32.Vec3 {
		u := 2 * math32.Pi * float32(i) / float32(tubular)
		v := 2 * math32.Pi * float32(j) / float32(radial)
		r := radius + tube*math32.Cos(v)
		return mgl32.Vec3{r * math32.Cos(u), r * math32.Sin(u), tube * math32.Sin(v)}
	}
	var out []mgl32.Vec3
	for i := 0; i < tubular; i++ {
		for j := 0; j < radial; j++ {
			a, b := point(i, j), point(i+1, j)
			c, d := point(i+1, j+1), point(i, j+1)
			out = append(out, a, b, d, b, c, d)
		}
	}
	return out
}

func sphereLines(r float32) []mgl32.Vec3 {
	var out []mgl32.Vec3
	for i := 0; i < circleSteps; i++ {
		a1 := 2 * math32.Pi * float32(i) / circleSteps
		a2 := 2 * math32.Pi * float32(i+1) / circleSteps
		c1, s1 := r*math32.Cos(a1), r*math32.Sin(a1)
		c2, s2 := r*math32.Cos(a2), r*math32.Sin(a2)
		out = append(out,
			mgl32.Vec3{c1, s1, 0}, mgl32.Vec3{c2, s2, 0},
			mgl32.Vec3{c1, 0, s1}, mgl32.Vec3{c2, 0, s2},
			mgl32.Vec3{0, c1, s1}, mgl32.Vec3{0, c2, s2},
		)
	}
	return out
}

func sphereTriangles(r float32, segments int) []mgl32.Vec3 {
	if segments < 4 {
		segments = 4
	}
	rings := segments / 2
	point := func(i, j int) mgl32.Vec3 {
		theta := math32.Pi * float32(j) / float32(rings)
		phi := 2 * math32.Pi * float32(i) / float32(segments)
		return mgl32.Vec3{
			r * math32.Sin(theta) * math32.Cos(phi),
			r * math32.Cos(theta),
			r * math32.Sin(theta) * math32.Sin(phi),
		}
	}
	var out []mgl32.Vec3
	for i := 0; i < segments; i++ {
		for j := 0; j < rings; j++ {
			a, b := point(i, j), point(i+1, j)
			c, d := point(i+1, j+1), point(i, j+1)
			out = append(out, a, d, b, b, d, c)
		}
	}
	return out
}

// glyphLines strokes an axis letter inside a size x size square in the XY plane.
func glyphLines(glyph byte, size float32) []mgl32.Vec3 {
	h := size / 2
	var strokes [][2][2]float32
	switch glyph {
	case 'X':
		strokes = [][2][2]float32{{{-h, -h}, {h, h}}, {{-h, h}, {h, -h}}}
	case 'Y':
		strokes = [][2][2]float32{{{-h, h}, {0, 0}}, {{h, h}, {0, 0}}, {{0, 0}, {0, -h}}}
	case 'Z':
		strokes = [][2][2]float32{{{-h, h}, {h, h}}, {{h, h}, {-h, -h}}, {{-h, -h}, {h, -h}}}
	}
	out := make([]mgl32.Vec3, 0, 2*len(strokes))
	for _, s := range strokes {
		out = append(out, mgl32.Vec3{s[0][0], s[0][1], 0}, mgl32.Vec3{s[1][0], s[1][1], 0})
	}
	return out
}
