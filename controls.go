package gizmo

import (
	"fmt"

	"github.com/go-gl/mathgl/mgl32"
)

// TransformControls translates, rotates or scales an attached Node through on-screen handles.
// It is not safe for concurrent use; drive it from the thread that owns the scene.
type TransformControls struct {
	camera    Camera
	node      Node
	logger    Logger
	raycaster Raycaster
	registry  *Registry

	mode     Mode
	space    Space
	axis     Axis
	enabled  bool
	visible  bool
	showX    bool
	showY    bool
	showZ    bool
	size     float32
	fade     bool
	fadeFPS  int
	viewport Viewport

	translationSnap float32
	rotationSnap    float32
	scaleSnap       float32

	frame frame
	plane Plane
	// non-nil exactly while dragging
	drag *dragSession

	listeners    []listener
	warnedParent bool
}

type Option func(*TransformControls)

func WithLogger(l Logger) Option {
	return func(c *TransformControls) {
		if l != nil {
			c.logger = l
		}
	}
}

func WithRaycaster(r Raycaster) Option {
	return func(c *TransformControls) {
		if r != nil {
			c.raycaster = r
		}
	}
}

func WithMode(m Mode) Option { return func(c *TransformControls) { c.mode = m } }

func WithSpace(s Space) Option { return func(c *TransformControls) { c.space = s } }

func WithSize(size float32) Option { return func(c *TransformControls) { c.size = size } }

func WithViewport(v Viewport) Option { return func(c *TransformControls) { c.viewport = v } }

// WithSettings applies a persisted settings document at construction.
func WithSettings(s Settings) Option {
	return func(c *TransformControls) { c.applySettings(s) }
}

func New(camera Camera, opts ...Option) *TransformControls {
	c := &TransformControls{
		camera:    camera,
		logger:    NewNopLogger(),
		raycaster: NewGeometryRaycaster(),
		registry:  NewRegistry(),
		mode:      ModeTranslate,
		space:     SpaceWorld,
		enabled:   true,
		showX:     true,
		showY:     true,
		showZ:     true,
		size:      1,
		fadeFPS:   60,
		frame:     newFrame(),
		plane:     Plane{Rotation: mgl32.QuatIdent()},
	}
	for _, opt := range opts {
		opt(c)
	}
	if !c.mode.valid() {
		c.mode = ModeTranslate
	}
	c.Update()
	return c
}

// Attach makes node the manipulation target. A node without a parent is still attached and
// the returned error wraps ErrMissingParent.
func (c *TransformControls) Attach(node Node) error {
	if node == nil {
		c.Detach()
		return nil
	}
	c.node = node
	c.visible = true
	c.refresh()

	var err error
	if !c.frame.hasParent {
		err = fmt.Errorf("attach: %w", ErrMissingParent)
		if !c.warnedParent {
			c.logger.Warnf("attached node has no parent; using an identity parent frame")
			c.warnedParent = true
		}
	}
	c.changed(PropObject, node)
	return err
}

// Detach drops the target. An active drag ends without a dragEnd event.
func (c *TransformControls) Detach() {
	if c.drag != nil {
		c.logger.Debugf("drag dropped: %s %s target detached", c.mode, c.axis)
	}
	c.node = nil
	c.visible = false
	c.drag = nil
	if c.axis != AxisNone {
		c.axis = AxisNone
		c.emitProperty(PropAxis, c.axis)
	}
	c.changed(PropObject, nil)
}

func (c *TransformControls) Object() Node { return c.node }

func (c *TransformControls) Visible() bool { return c.visible }

func (c *TransformControls) Mode() Mode { return c.mode }

func (c *TransformControls) Space() Space { return c.space }

func (c *TransformControls) Axis() Axis { return c.axis }

func (c *TransformControls) Dragging() bool { return c.drag != nil }

func (c *TransformControls) Enabled() bool { return c.enabled }

func (c *TransformControls) Size() float32 { return c.size }

func (c *TransformControls) ShowX() bool { return c.showX }

func (c *TransformControls) ShowY() bool { return c.showY }

func (c *TransformControls) ShowZ() bool { return c.showZ }

func (c *TransformControls) Plane() Plane { return c.plane }

func (c *TransformControls) Camera() Camera { return c.camera }

func (c *TransformControls) SetMode(m Mode) error {
	if !m.valid() {
		return fmt.Errorf("set mode: %w: %d", ErrUnknownMode, int(m))
	}
	if c.mode == m {
		return nil
	}
	c.mode = m
	c.changed(PropMode, m)
	return nil
}

func (c *TransformControls) SetSpace(s Space) error {
	if s != SpaceWorld && s != SpaceLocal {
		return fmt.Errorf("set space: %w: %d", ErrUnknownSpace, int(s))
	}
	if c.space == s {
		return nil
	}
	c.space = s
	c.changed(PropSpace, s)
	return nil
}

// SetTranslationSnap sets the translation increment; zero disables snapping.
func (c *TransformControls) SetTranslationSnap(step float32) {
	c.translationSnap = step
	c.changed(PropTranslationSnap, step)
}

// SetRotationSnap sets the rotation increment in radians; zero disables snapping.
func (c *TransformControls) SetRotationSnap(step float32) {
	c.rotationSnap = step
	c.changed(PropRotationSnap, step)
}

func (c *TransformControls) SetScaleSnap(step float32) {
	c.scaleSnap = step
	c.changed(PropScaleSnap, step)
}

func (c *TransformControls) SetSize(size float32) {
	c.size = size
	c.changed(PropSize, size)
}

func (c *TransformControls) SetEnabled(enabled bool) {
	c.enabled = enabled
	c.changed(PropEnabled, enabled)
}

func (c *TransformControls) SetShowX(show bool) {
	c.showX = show
	c.changed(PropShowX, show)
}

func (c *TransformControls) SetShowY(show bool) {
	c.showY = show
	c.changed(PropShowY, show)
}

func (c *TransformControls) SetShowZ(show bool) {
	c.showZ = show
	c.changed(PropShowZ, show)
}

func (c *TransformControls) SetCamera(camera Camera) {
	c.camera = camera
	c.changed(PropCamera, camera)
}

func (c *TransformControls) SetViewport(v Viewport) { c.viewport = v }

// Update refreshes frame math and the picking plane, then every handle. Call it once per
// frame before drawing.
func (c *TransformControls) Update() {
	c.refresh()
	c.updateHandles()
}

// refresh recomputes the object, parent and camera frames and re-orients the plane.
func (c *TransformControls) refresh() {
	c.frame.refreshObject(c.node)
	c.frame.refreshCamera(c.camera)
	c.plane = orientPlane(c.mode, c.axis, c.space, &c.frame)
}

// Handles returns every handle of the current mode with its per-frame state.
func (c *TransformControls) Handles() []*Handle {
	return c.registry.ForMode(c.mode)
}

// DrawItem is one visible handle ready for a line renderer.
type DrawItem struct {
	Name      Axis
	Lines     []mgl32.Vec3
	Model     mgl32.Mat4
	Color     [4]float32
	Dashed    bool
	DashScale float32
}

// DrawList returns the visible visual and helper handles of the current mode. Pickers are
// never drawn.
func (c *TransformControls) DrawList() []DrawItem {
	if !c.visible {
		return nil
	}
	var out []DrawItem
	for _, h := range c.registry.ForMode(c.mode) {
		if !h.Visible || h.Desc.Category == CategoryPicker {
			continue
		}
		out = append(out, DrawItem{
			Name:      h.Desc.Name,
			Lines:     h.Geometry.Lines,
			Model:     h.Matrix(),
			Color:     h.Color,
			Dashed:    h.Desc.Dashed,
			DashScale: h.DashScale,
		})
	}
	return out
}
