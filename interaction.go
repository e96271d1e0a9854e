package gizmo

import (
	"github.com/chewxy/math32"
	"github.com/go-gl/mathgl/mgl32"
)

const (
	ButtonNone      = -1
	ButtonPrimary   = 0
	ButtonMiddle    = 1
	ButtonSecondary = 2
)

// PointerEvent is a pointer sample in normalized device coordinates.
type PointerEvent struct {
	X, Y   float32
	Button int
}

func (p PointerEvent) ndc() mgl32.Vec2 { return mgl32.Vec2{p.X, p.Y} }

// dragSession is the scratch and snapshot state of one drag.
type dragSession struct {
	pointStart mgl32.Vec3
	pointEnd   mgl32.Vec3
	offset     mgl32.Vec3

	rotationAxis  mgl32.Vec3
	rotationAngle float32

	positionStart   mgl32.Vec3
	quaternionStart mgl32.Quat
	scaleStart      mgl32.Vec3

	worldPositionStart   mgl32.Vec3
	worldQuaternionStart mgl32.Quat
	worldScaleStart      mgl32.Vec3
}

func (c *TransformControls) setAxis(a Axis) {
	if c.axis == a {
		return
	}
	c.axis = a
	c.emitProperty(PropAxis, a)
}

// Hover updates the active axis from the pickers under the pointer. It does nothing while
// dragging or detached.
func (c *TransformControls) Hover(p PointerEvent) {
	if c.node == nil || c.drag != nil {
		return
	}
	c.refresh()
	c.poseHandles(c.registry.Handles(c.mode, CategoryPicker))

	ray := RayFromCamera(c.camera, p.ndc())
	hit, ok := firstVisible(c.raycaster.Intersect(ray, c.registry.Handles(c.mode, CategoryPicker)))
	if !ok {
		c.setAxis(AxisNone)
		return
	}
	c.setAxis(hit.Handle.Desc.Name)
}

// PointerDown starts a drag on the active axis when the pointer ray meets the picking plane.
func (c *TransformControls) PointerDown(p PointerEvent) {
	if c.node == nil || c.drag != nil || p.Button != ButtonPrimary || c.axis == AxisNone {
		return
	}
	c.refresh()
	point, ok := c.plane.Intersect(RayFromCamera(c.camera, p.ndc()))
	if !ok {
		c.logger.Debugf("pointer down on %s missed the picking plane", c.axis)
		return
	}

	if c.space == SpaceLocal && c.mode == ModeRotate && c.rotationSnap > 0 && c.axis.single() {
		local := c.node.LocalTransform()
		euler := eulerFromQuat(local.Rotation)
		i := axisIndex(c.axis)
		euler[i] = roundTo(euler[i], c.rotationSnap)
		local.Rotation = quatFromEuler(euler)
		c.node.SetLocalTransform(local)
		c.frame.refreshObject(c.node)
	}

	local := c.node.LocalTransform()
	d := &dragSession{
		positionStart:        local.Position,
		quaternionStart:      local.Rotation.Normalize(),
		scaleStart:           local.Scale,
		worldPositionStart:   c.frame.world.Position,
		worldQuaternionStart: c.frame.world.Rotation,
		worldScaleStart:      c.frame.world.Scale,
	}
	d.pointStart = point.Sub(d.worldPositionStart)
	d.pointEnd = d.pointStart
	c.drag = d
	c.logger.Debugf("drag start: %s %s in %s space", c.mode, c.axis, c.space)

	c.emitProperty(PropDragging, true)
	c.emit(Event{Kind: EventDragStart})
}

// PointerMove applies the drag to the attached node. Misses of the picking plane are ignored.
func (c *TransformControls) PointerMove(p PointerEvent) {
	d := c.drag
	if c.node == nil || d == nil || c.axis == AxisNone {
		return
	}
	c.refresh()
	point, ok := c.plane.Intersect(RayFromCamera(c.camera, p.ndc()))
	if !ok {
		return
	}
	d.pointEnd = point.Sub(d.worldPositionStart)

	space := c.space
	if c.mode == ModeScale {
		space = SpaceLocal
	} else if c.axis == AxisE || c.axis == AxisXYZE || c.axis == AxisXYZ {
		space = SpaceWorld
	}

	local := c.node.LocalTransform()
	switch c.mode {
	case ModeTranslate:
		local.Position = c.translate(d, space)
	case ModeScale:
		local.Scale = c.scale(d)
	case ModeRotate:
		local.Rotation = c.rotate(d, space)
	}
	c.node.SetLocalTransform(local)
	c.emitTransform()
}

func (c *TransformControls) translate(d *dragSession, space Space) mgl32.Vec3 {
	f := &c.frame
	axis := c.axis
	offset := d.pointEnd.Sub(d.pointStart)
	inLocal := space == SpaceLocal && axis != AxisXYZ
	if inLocal {
		offset = f.worldQuatInv.Rotate(offset)
	}
	mask := axis.letters()
	for i := range mask {
		if !mask[i] {
			offset[i] = 0
		}
	}
	if inLocal {
		offset = d.quaternionStart.Rotate(offset)
	} else {
		offset = f.parentQuatInv.Rotate(offset)
	}
	offset = divideVec(offset, f.parent.Scale)
	d.offset = offset

	pos := d.positionStart.Add(offset)
	step := c.translationSnap
	if step <= 0 {
		return pos
	}
	if space == SpaceLocal {
		pos = d.quaternionStart.Inverse().Rotate(pos)
		pos = snapMasked(pos, mask, step)
		return d.quaternionStart.Rotate(pos)
	}
	parentPos := f.parent.Position
	pos = snapMasked(pos.Add(parentPos), mask, step)
	return pos.Sub(parentPos)
}

func (c *TransformControls) scale(d *dragSession) mgl32.Vec3 {
	axis := c.axis
	var ratio mgl32.Vec3
	if axis.Has('X') && axis.Has('Y') && axis.Has('Z') {
		r := float32(1)
		if startLen := d.pointStart.Len(); startLen > 1e-12 {
			r = d.pointEnd.Len() / startLen
		}
		if d.pointEnd.Dot(d.pointStart) < 0 {
			r = -r
		}
		ratio = mgl32.Vec3{r, r, r}
	} else {
		start := c.frame.worldQuatInv.Rotate(d.pointStart)
		end := c.frame.worldQuatInv.Rotate(d.pointEnd)
		mask := axis.letters()
		for i := 0; i < 3; i++ {
			if !mask[i] || math32.Abs(start[i]) < 1e-12 {
				ratio[i] = 1
				continue
			}
			ratio[i] = end[i] / start[i]
		}
	}

	s := mulVec(d.scaleStart, ratio)
	if step := c.scaleSnap; step > 0 {
		mask := axis.letters()
		for i := 0; i < 3; i++ {
			if !mask[i] {
				continue
			}
			s[i] = roundTo(s[i], step)
			if s[i] == 0 {
				s[i] = step
			}
		}
	}
	return s
}

func (c *TransformControls) rotate(d *dragSession, space Space) mgl32.Quat {
	f := &c.frame
	axis := c.axis
	eye := f.eye
	d.offset = d.pointEnd.Sub(d.pointStart)

	speed := float32(0)
	if dist := f.cameraDistance(); dist > 1e-12 {
		speed = 20 / dist
	}

	inPlane := axis == AxisE
	switch axis {
	case AxisXYZE:
		d.rotationAxis = normalizeOr(d.offset.Cross(eye), unitX)
		d.rotationAngle = d.offset.Dot(d.rotationAxis.Cross(eye)) * speed
	case AxisX, AxisY, AxisZ:
		unit := axisUnits[axisIndex(axis)]
		d.rotationAxis = unit
		dir := unit
		if space == SpaceLocal {
			dir = f.world.Rotation.Rotate(dir)
		}
		cross := dir.Cross(eye)
		if cross.Len() < 1e-12 {
			inPlane = true
		} else {
			d.rotationAngle = d.offset.Dot(cross.Normalize()) * speed
		}
	}
	if inPlane {
		d.rotationAxis = eye
		d.rotationAngle = angleBetween(d.pointEnd, d.pointStart)
		startNorm := normalizeOr(d.pointStart, zero3)
		endNorm := normalizeOr(d.pointEnd, zero3)
		if endNorm.Cross(startNorm).Dot(eye) >= 0 {
			d.rotationAngle = -d.rotationAngle
		}
	}

	if step := c.rotationSnap; step > 0 {
		d.rotationAngle = roundTo(d.rotationAngle, step)
	}

	if space == SpaceLocal && axis != AxisE && axis != AxisXYZE {
		return d.quaternionStart.Mul(axisAngle(d.rotationAxis, d.rotationAngle)).Normalize()
	}
	d.rotationAxis = f.parentQuatInv.Rotate(d.rotationAxis)
	return axisAngle(d.rotationAxis, d.rotationAngle).Mul(d.quaternionStart).Normalize()
}

// PointerUp ends a drag. Only the primary button is honoured.
func (c *TransformControls) PointerUp(p PointerEvent) {
	if p.Button != ButtonPrimary {
		return
	}
	wasDragging := c.drag != nil
	if wasDragging && c.axis != AxisNone {
		c.logger.Debugf("drag end: %s %s", c.mode, c.axis)
		c.emit(Event{Kind: EventDragEnd})
	}
	c.drag = nil
	if wasDragging {
		c.emitProperty(PropDragging, false)
	}
	c.setAxis(AxisNone)
}

// Reset restores the node to its drag-start transform. The drag continues from the current
// pointer position. It is a no-op when disabled or not dragging.
func (c *TransformControls) Reset() {
	if !c.enabled || c.drag == nil || c.node == nil {
		return
	}
	d := c.drag
	local := c.node.LocalTransform()
	local.Position = d.positionStart
	local.Rotation = d.quaternionStart
	local.Scale = d.scaleStart
	c.node.SetLocalTransform(local)
	c.emitTransform()
	d.pointStart = d.pointEnd
	c.logger.Debugf("drag reset: %s %s", c.mode, c.axis)
}

// roundTo snaps v to the nearest multiple of step, halves rounding up.
func roundTo(v, step float32) float32 {
	return math32.Floor(v/step+0.5) * step
}

func snapMasked(v mgl32.Vec3, mask [3]bool, step float32) mgl32.Vec3 {
	for i := 0; i < 3; i++ {
		if mask[i] {
			v[i] = roundTo(v[i], step)
		}
	}
	return v
}
