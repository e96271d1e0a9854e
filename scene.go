package gizmo

import (
	"github.com/chewxy/math32"
	"github.com/go-gl/mathgl/mgl32"
)

// Node is the target a TransformControls manipulates. The host scene graph owns it; while a
// drag is active the controls are its only writer.
type Node interface {
	LocalTransform() Transform
	SetLocalTransform(Transform)
	// ParentWorldMatrix reports false when the node has no parent.
	ParentWorldMatrix() (mgl32.Mat4, bool)
}

// SceneNode is a minimal hierarchical Node: a local transform plus a parent pointer.
type SceneNode struct {
	Name      string
	Transform Transform

	parent   *SceneNode
	children []*SceneNode
}

func NewSceneNode(name string) *SceneNode {
	return &SceneNode{Name: name, Transform: NewTransform()}
}

// AddChild reparents child under n, keeping the child's local transform.
func (n *SceneNode) AddChild(child *SceneNode) {
	if child.parent != nil {
		child.parent.removeChild(child)
	}
	child.parent = n
	n.children = append(n.children, child)
}

func (n *SceneNode) removeChild(child *SceneNode) {
	for i, c := range n.children {
		if c == child {
			n.children = append(n.children[:i], n.children[i+1:]...)
			return
		}
	}
}

func (n *SceneNode) Parent() *SceneNode        { return n.parent }
func (n *SceneNode) Children() []*SceneNode    { return n.children }
func (n *SceneNode) LocalTransform() Transform { return n.Transform }

func (n *SceneNode) SetLocalTransform(t Transform) { n.Transform = t }

func (n *SceneNode) WorldMatrix() mgl32.Mat4 {
	local := n.Transform.Matrix()
	if n.parent == nil {
		return local
	}
	return n.parent.WorldMatrix().Mul4(local)
}

func (n *SceneNode) ParentWorldMatrix() (mgl32.Mat4, bool) {
	if n.parent == nil {
		return mgl32.Ident4(), false
	}
	return n.parent.WorldMatrix(), true
}

type Projection int

const (
	ProjectionPerspective Projection = iota
	ProjectionOrthographic
)

// Lens carries the projection parameters the gizmo needs for screen-constant sizing.
// FovY is in degrees.
type Lens struct {
	Projection Projection
	FovY       float32
	Zoom       float32
	Top        float32
	Bottom     float32
}

type Camera interface {
	WorldMatrix() mgl32.Mat4
	ProjectionMatrix() mgl32.Mat4
	Lens() Lens
}

type PerspectiveCamera struct {
	Transform Transform
	FovY      float32
	Aspect    float32
	Near      float32
	Far       float32
	Zoom      float32
}

func NewPerspectiveCamera(fovY, aspect, near, far float32) *PerspectiveCamera {
	return &PerspectiveCamera{
		Transform: NewTransform(),
		FovY:      fovY,
		Aspect:    aspect,
		Near:      near,
		Far:       far,
		Zoom:      1,
	}
}

// LookAt points the camera's -Z axis at target.
func (c *PerspectiveCamera) LookAt(target, up mgl32.Vec3) {
	c.Transform.Rotation = lookAtQuat(c.Transform.Position, target, up)
}

func (c *PerspectiveCamera) WorldMatrix() mgl32.Mat4 { return c.Transform.Matrix() }

func (c *PerspectiveCamera) ProjectionMatrix() mgl32.Mat4 {
	zoom := c.Zoom
	if zoom <= 0 {
		zoom = 1
	}
	fov := 2 * math32.Atan(math32.Tan(mgl32.DegToRad(c.FovY)*0.5)/zoom)
	aspect := c.Aspect
	if aspect == 0 {
		aspect = 1.0
	}
	return mgl32.Perspective(fov, aspect, c.Near, c.Far)
}

func (c *PerspectiveCamera) Lens() Lens {
	return Lens{Projection: ProjectionPerspective, FovY: c.FovY, Zoom: c.Zoom}
}

type OrthographicCamera struct {
	Transform                Transform
	Left, Right, Top, Bottom float32
	Near, Far                float32
	Zoom                     float32
}

func NewOrthographicCamera(left, right, top, bottom, near, far float32) *OrthographicCamera {
	return &OrthographicCamera{
		Transform: NewTransform(),
		Left:      left,
		Right:     right,
		Top:       top,
		Bottom:    bottom,
		Near:      near,
		Far:       far,
		Zoom:      1,
	}
}

func (c *OrthographicCamera) LookAt(target, up mgl32.Vec3) {
	c.Transform.Rotation = lookAtQuat(c.Transform.Position, target, up)
}

func (c *OrthographicCamera) WorldMatrix() mgl32.Mat4 { return c.Transform.Matrix() }

func (c *OrthographicCamera) ProjectionMatrix() mgl32.Mat4 {
	zoom := c.Zoom
	if zoom <= 0 {
		zoom = 1
	}
	dx := (c.Right - c.Left) / (2 * zoom)
	dy := (c.Top - c.Bottom) / (2 * zoom)
	cx := (c.Right + c.Left) / 2
	cy := (c.Top + c.Bottom) / 2
	return mgl32.Ortho(cx-dx, cx+dx, cy-dy, cy+dy, c.Near, c.Far)
}

func (c *OrthographicCamera) Lens() Lens {
	return Lens{Projection: ProjectionOrthographic, Zoom: c.Zoom, Top: c.Top, Bottom: c.Bottom}
}
