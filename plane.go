package gizmo

import (
	"github.com/chewxy/math32"
	"github.com/go-gl/mathgl/mgl32"
)

// Plane is the invisible surface the pointer ray is projected onto while dragging.
// Its normal is Rotation applied to +Z.
type Plane struct {
	Position mgl32.Vec3
	Rotation mgl32.Quat
}

func (p Plane) Normal() mgl32.Vec3 { return p.Rotation.Rotate(unitZ) }

// Intersect hits either side of the plane. Rays parallel to it or pointing away miss.
func (p Plane) Intersect(r Ray) (mgl32.Vec3, bool) {
	n := p.Normal()
	denom := n.Dot(r.Dir)
	if math32.Abs(denom) < 1e-8 {
		if math32.Abs(p.Position.Sub(r.Origin).Dot(n)) < 1e-8 {
			return r.Origin, true
		}
		return mgl32.Vec3{}, false
	}
	t := p.Position.Sub(r.Origin).Dot(n) / denom
	if t < 0 {
		return mgl32.Vec3{}, false
	}
	return r.At(t), true
}

// orientPlane places the picking plane at the object for the given mode, axis and space.
func orientPlane(mode Mode, axis Axis, space Space, f *frame) Plane {
	if mode == ModeScale {
		space = SpaceLocal
	}
	ref := mgl32.QuatIdent()
	if space == SpaceLocal {
		ref = f.world.Rotation
	}
	ax, ay, az := ref.Rotate(unitX), ref.Rotate(unitY), ref.Rotate(unitZ)

	align := ay
	var dir mgl32.Vec3
	if mode == ModeTranslate || mode == ModeScale {
		switch axis {
		case AxisX:
			align = f.eye.Cross(ax)
			dir = ax.Cross(align)
		case AxisY:
			align = f.eye.Cross(ay)
			dir = ay.Cross(align)
		case AxisZ:
			align = f.eye.Cross(az)
			dir = az.Cross(align)
		case AxisXY:
			dir = az
		case AxisYZ:
			dir = ax
		case AxisXZ:
			align = az
			dir = ay
		}
	}

	plane := Plane{Position: f.world.Position, Rotation: f.camera.Rotation}
	if dir.Len() < 1e-8 {
		return plane
	}
	plane.Rotation = lookAtQuat(zero3, dir, align)
	return plane
}
