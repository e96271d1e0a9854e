package gizmo

import (
	"github.com/chewxy/math32"
	"github.com/go-gl/mathgl/mgl32"
)

// Transform is a position/rotation/scale triple. Matrix composition is T * R * S.
type Transform struct {
	Position mgl32.Vec3
	Rotation mgl32.Quat
	Scale    mgl32.Vec3
}

func NewTransform() Transform {
	return Transform{
		Position: mgl32.Vec3{0, 0, 0},
		Rotation: mgl32.QuatIdent(),
		Scale:    mgl32.Vec3{1, 1, 1},
	}
}

func (t Transform) Matrix() mgl32.Mat4 {
	translate := mgl32.Translate3D(t.Position.X(), t.Position.Y(), t.Position.Z())
	rotate := t.Rotation.Mat4()
	scale := mgl32.Scale3D(t.Scale.X(), t.Scale.Y(), t.Scale.Z())
	return translate.Mul4(rotate).Mul4(scale)
}

// DecomposeMatrix splits an affine matrix back into position, rotation and scale.
// A negative determinant is folded into the X scale so the rotation stays proper.
func DecomposeMatrix(m mgl32.Mat4) Transform {
	c0, c1, c2 := m.Col(0).Vec3(), m.Col(1).Vec3(), m.Col(2).Vec3()
	sx, sy, sz := c0.Len(), c1.Len(), c2.Len()
	if m.Det() < 0 {
		sx = -sx
	}

	rot := mgl32.QuatIdent()
	if sx != 0 && sy != 0 && sz != 0 {
		basis := mgl32.Mat4FromCols(
			c0.Mul(1/sx).Vec4(0),
			c1.Mul(1/sy).Vec4(0),
			c2.Mul(1/sz).Vec4(0),
			mgl32.Vec4{0, 0, 0, 1},
		)
		rot = mgl32.Mat4ToQuat(basis).Normalize()
	}

	return Transform{
		Position: m.Col(3).Vec3(),
		Rotation: rot,
		Scale:    mgl32.Vec3{sx, sy, sz},
	}
}

// eulerFromQuat returns intrinsic XYZ angles (R = Rx * Ry * Rz) in radians.
func eulerFromQuat(q mgl32.Quat) mgl32.Vec3 {
	m := q.Normalize().Mat4()
	m13 := mgl32.Clamp(m.At(0, 2), -1, 1)
	y := math32.Asin(m13)
	var x, z float32
	if math32.Abs(m13) < 0.9999999 {
		x = math32.Atan2(-m.At(1, 2), m.At(2, 2))
		z = math32.Atan2(-m.At(0, 1), m.At(0, 0))
	} else {
		x = math32.Atan2(m.At(2, 1), m.At(1, 1))
		z = 0
	}
	return mgl32.Vec3{x, y, z}
}

func quatFromEuler(e mgl32.Vec3) mgl32.Quat {
	qx := mgl32.QuatRotate(e.X(), unitX)
	qy := mgl32.QuatRotate(e.Y(), unitY)
	qz := mgl32.QuatRotate(e.Z(), unitZ)
	return qx.Mul(qy).Mul(qz).Normalize()
}

func divideVec(a, b mgl32.Vec3) mgl32.Vec3 {
	var out mgl32.Vec3
	for i := 0; i < 3; i++ {
		if math32.Abs(b[i]) < 1e-12 {
			continue
		}
		out[i] = a[i] / b[i]
	}
	return out
}

func mulVec(a, b mgl32.Vec3) mgl32.Vec3 {
	return mgl32.Vec3{a[0] * b[0], a[1] * b[1], a[2] * b[2]}
}
