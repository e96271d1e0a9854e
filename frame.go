package gizmo

import (
	"errors"

	"github.com/chewxy/math32"
	"github.com/go-gl/mathgl/mgl32"
)

var (
	unitX = mgl32.Vec3{1, 0, 0}
	unitY = mgl32.Vec3{0, 1, 0}
	unitZ = mgl32.Vec3{0, 0, 1}
	zero3 = mgl32.Vec3{0, 0, 0}
)

// ErrMissingParent is reported when the attached node has no parent frame. Interaction
// continues with an identity parent.
var ErrMissingParent = errors.New("gizmo: attached node has no parent")

// frame is the per-frame decomposition of the attached node, its parent and the camera.
type frame struct {
	parent        Transform
	parentQuatInv mgl32.Quat
	hasParent     bool

	world        Transform
	worldQuatInv mgl32.Quat

	camera     Transform
	cameraLens Lens
	eye        mgl32.Vec3
}

func newFrame() frame {
	return frame{
		parent:        NewTransform(),
		parentQuatInv: mgl32.QuatIdent(),
		world:         NewTransform(),
		worldQuatInv:  mgl32.QuatIdent(),
		camera:        NewTransform(),
		eye:           unitZ,
	}
}

// refreshObject decomposes the node's world transform from its local transform and the
// parent's world matrix. A nil node leaves the object part untouched.
func (f *frame) refreshObject(node Node) {
	if node == nil {
		return
	}
	parentMatrix, ok := node.ParentWorldMatrix()
	if !ok {
		parentMatrix = mgl32.Ident4()
	}
	f.hasParent = ok
	f.parent = DecomposeMatrix(parentMatrix)
	f.parentQuatInv = f.parent.Rotation.Inverse()

	f.world = DecomposeMatrix(parentMatrix.Mul4(node.LocalTransform().Matrix()))
	f.worldQuatInv = f.world.Rotation.Inverse()
}

func (f *frame) refreshCamera(camera Camera) {
	if camera == nil {
		return
	}
	f.camera = DecomposeMatrix(camera.WorldMatrix())
	f.cameraLens = camera.Lens()

	backward := f.camera.Rotation.Rotate(unitZ)
	if f.cameraLens.Projection == ProjectionOrthographic {
		f.eye = normalizeOr(backward, unitZ)
		return
	}
	f.eye = normalizeOr(f.camera.Position.Sub(f.world.Position), normalizeOr(backward, unitZ))
}

func (f *frame) cameraDistance() float32 {
	return f.world.Position.Sub(f.camera.Position).Len()
}

// sizeFactor keeps the gizmo at a constant apparent size on screen.
func (f *frame) sizeFactor(size float32) float32 {
	var factor float32
	lens := f.cameraLens
	zoom := lens.Zoom
	if zoom <= 0 {
		zoom = 1
	}
	if lens.Projection == ProjectionOrthographic {
		factor = (lens.Top - lens.Bottom) / zoom
	} else {
		factor = f.cameraDistance() * math32.Min(1.9*math32.Tan(math32.Pi*lens.FovY/360)/zoom, 7)
	}
	return factor * size / sizeNormalization
}

const sizeNormalization = 4

func normalizeOr(v, fallback mgl32.Vec3) mgl32.Vec3 {
	l := v.Len()
	if l < 1e-8 || math32.IsNaN(l) || math32.IsInf(l, 0) {
		return fallback
	}
	return v.Mul(1 / l)
}

// signedAngle returns the angle from u to v measured around axis.
func signedAngle(u, v, axis mgl32.Vec3) float32 {
	return math32.Atan2(u.Cross(v).Dot(axis), u.Dot(v))
}

// angleBetween is the unsigned angle between two vectors, zero when either is degenerate.
func angleBetween(a, b mgl32.Vec3) float32 {
	denom := a.Len() * b.Len()
	if denom < 1e-12 {
		return 0
	}
	return math32.Acos(mgl32.Clamp(a.Dot(b)/denom, -1, 1))
}

func projectOnPlane(v, normal mgl32.Vec3) mgl32.Vec3 {
	return v.Sub(normal.Mul(v.Dot(normal)))
}

// lookAtQuat builds the orientation whose +Z axis points from target towards eye.
func lookAtQuat(eye, target, up mgl32.Vec3) mgl32.Quat {
	z := eye.Sub(target)
	if z.LenSqr() == 0 {
		z = unitZ
	}
	z = z.Normalize()
	x := up.Cross(z)
	if x.LenSqr() == 0 {
		if math32.Abs(up.Z()) == 1 {
			z[0] += 0.0001
		} else {
			z[2] += 0.0001
		}
		z = z.Normalize()
		x = up.Cross(z)
	}
	x = normalizeOr(x, unitX)
	y := z.Cross(x)
	basis := mgl32.Mat4FromCols(x.Vec4(0), y.Vec4(0), z.Vec4(0), mgl32.Vec4{0, 0, 0, 1})
	return mgl32.Mat4ToQuat(basis).Normalize()
}

func axisAngle(axis mgl32.Vec3, angle float32) mgl32.Quat {
	return mgl32.QuatRotate(angle, normalizeOr(axis, unitZ))
}
