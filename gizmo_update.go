package gizmo

import (
	"github.com/charmbracelet/harmonica"
	"github.com/chewxy/math32"
	"github.com/go-gl/mathgl/mgl32"
)

const (
	axisHideThreshold  = 0.99
	planeHideThreshold = 0.2
	axisFlipThreshold  = 0.0
	helperAxisHide     = 0.9
	hiddenScale        = 1e-10
	dimFactor          = 0.25
)

var (
	axisUnits = [3]mgl32.Vec3{unitX, unitY, unitZ}
	// flat glyphs of each axis face this local direction before the camera twist
	faceNormals = [3]mgl32.Vec3{unitZ, unitZ, unitY}
	axisLetters = [3]byte{'X', 'Y', 'Z'}
)

// opacityFade eases a handle's opacity with a critically damped spring.
type opacityFade struct {
	spring   harmonica.Spring
	pos, vel float64
	started  bool
}

func newOpacityFade(fps int) *opacityFade {
	if fps <= 0 {
		fps = 60
	}
	return &opacityFade{spring: harmonica.NewSpring(harmonica.FPS(fps), 12.0, 1.0)}
}

func (f *opacityFade) step(target float32) float32 {
	if !f.started {
		f.pos, f.started = float64(target), true
		return target
	}
	f.pos, f.vel = f.spring.Update(f.pos, f.vel, float64(target))
	return float32(f.pos)
}

// referenceQuat is the frame the handles are aligned to. Scale is always local.
func (c *TransformControls) referenceQuat() mgl32.Quat {
	if c.space == SpaceLocal || c.mode == ModeScale {
		return c.frame.world.Rotation
	}
	return mgl32.QuatIdent()
}

// updateHandles recomputes scale, orientation, visibility and colour of every handle.
func (c *TransformControls) updateHandles() {
	for m := Mode(0); m < modeCount; m++ {
		if m == c.mode {
			continue
		}
		for _, h := range c.registry.ForMode(m) {
			h.Visible = false
		}
	}

	handles := c.registry.ForMode(c.mode)
	c.poseHandles(handles)
	for _, h := range handles {
		c.highlight(h)
		if h.Desc.Dashed {
			h.DashScale = dashScale(h)
		}
	}
}

// poseHandles sets position, orientation, scale and visibility of handles of the current mode.
func (c *TransformControls) poseHandles(handles []*Handle) {
	ref := c.referenceQuat()
	factor := c.frame.sizeFactor(c.size)
	for _, h := range handles {
		h.Visible = c.visible
		h.Position = c.frame.world.Position
		h.Rotation = mgl32.QuatIdent()
		h.Scale = mgl32.Vec3{factor, factor, factor}
		h.DashScale = 1

		if h.Desc.Category == CategoryHelper {
			c.updateHelper(h, ref)
			continue
		}
		c.updateVisual(h, ref)
		c.gate(h)
	}
}

func (c *TransformControls) updateVisual(h *Handle, ref mgl32.Quat) {
	eye := c.frame.eye
	name := h.Desc.Name
	h.Rotation = ref

	switch c.mode {
	case ModeTranslate, ModeScale:
		var axes [3]mgl32.Vec3
		for i, u := range axisUnits {
			axes[i] = ref.Rotate(u)
		}
		hide := func() {
			h.Visible = false
			h.Scale = mgl32.Vec3{hiddenScale, hiddenScale, hiddenScale}
		}

		switch {
		case name.single():
			if math32.Abs(axes[axisIndex(name)].Dot(eye)) > axisHideThreshold {
				hide()
			}
		case name.plane():
			// the normal is the letter the plane name leaves out
			for i, has := range name.letters() {
				if !has && math32.Abs(axes[i].Dot(eye)) < planeHideThreshold {
					hide()
				}
			}
		}

		for i, letter := range axisLetters {
			if !name.Has(letter) {
				continue
			}
			if axes[i].Dot(eye) < axisFlipThreshold {
				switch h.Desc.Tag {
				case TagFwd:
					h.Visible = false
				case TagLabel:
					// labels stay at the positive end
				default:
					h.Scale[i] = -h.Scale[i]
				}
			} else if h.Desc.Tag == TagBwd {
				h.Visible = false
			}
		}

		if c.mode == ModeTranslate && h.Desc.Category == CategoryGizmo && name.single() {
			i := axisIndex(name)
			u := projectOnPlane(ref.Rotate(faceNormals[i]), axes[i])
			v := projectOnPlane(eye, axes[i])
			if u.Len() > 1e-6 && v.Len() > 1e-6 {
				twist := axisAngle(axes[i], signedAngle(u, v, axes[i]))
				h.Rotation = twist.Mul(ref).Normalize()
			}
		}

	case ModeRotate:
		align := ref.Inverse().Rotate(eye)
		if name.Has('E') {
			h.Rotation = lookAtQuat(eye, zero3, unitY)
		}
		switch name {
		case AxisX:
			h.Rotation = ref.Mul(axisAngle(unitX, math32.Atan2(-align.Y(), align.Z()))).Normalize()
		case AxisY:
			h.Rotation = ref.Mul(axisAngle(unitY, math32.Atan2(align.X(), align.Z()))).Normalize()
		case AxisZ:
			h.Rotation = ref.Mul(axisAngle(unitZ, math32.Atan2(align.Y(), align.X()))).Normalize()
		}
	}
}

// gate hides handles whose axis letters are switched off.
func (c *TransformControls) gate(h *Handle) {
	name := h.Desc.Name
	show := [3]bool{c.showX, c.showY, c.showZ}
	for i, letter := range axisLetters {
		if name.Has(letter) && !show[i] {
			h.Visible = false
		}
	}
	if name.Has('E') && !(c.showX && c.showY && c.showZ) {
		h.Visible = false
	}
}

func (c *TransformControls) updateHelper(h *Handle, ref mgl32.Quat) {
	d := c.drag
	if d == nil || !c.visible {
		h.Visible = false
		return
	}

	switch h.Desc.Name {
	case AxisLine:
		h.Visible = c.axis != AxisNone
		switch c.axis {
		case AxisX, AxisY, AxisZ:
			i := axisIndex(c.axis)
			h.Rotation = ref.Mul(quatFromEuler(axisLineEuler[i])).Normalize()
			if math32.Abs(ref.Rotate(axisUnits[i]).Dot(c.frame.eye)) > helperAxisHide {
				h.Visible = false
			}
		case AxisXYZE:
			dir := normalizeOr(d.rotationAxis, unitX)
			h.Rotation = lookAtQuat(zero3, dir, unitY).Mul(quatFromEuler(mgl32.Vec3{0, halfPi, 0})).Normalize()
		case AxisE:
			h.Visible = false
		}
	case AxisStart:
		h.Position = d.worldPositionStart
	case AxisEnd:
		h.Position = c.frame.world.Position
	case AxisDelta:
		h.Position = d.worldPositionStart
		h.Rotation = d.worldQuaternionStart
		delta := c.frame.world.Position.Sub(d.worldPositionStart).Sub(mgl32.Vec3{hiddenScale, hiddenScale, hiddenScale})
		h.Scale = d.worldQuaternionStart.Inverse().Rotate(delta)
	default:
		h.Rotation = ref
		h.Position = d.worldPositionStart
		h.Visible = c.axis != AxisNone && c.axis.Has(h.Desc.Name[0])
	}
}

// line helper orientation per axis, applied on top of the reference frame
var axisLineEuler = [3]mgl32.Vec3{{0, 0, 0}, {0, 0, halfPi}, {0, halfPi, 0}}

func (c *TransformControls) highlight(h *Handle) {
	base := h.Desc.Color
	col := base
	switch {
	case !c.enabled:
		col = desaturate(base)
		col[3] = base[3] * dimFactor
	case c.axis != AxisNone:
		if h.Desc.Name == c.axis || c.axis.Contains(h.Desc.Name) {
			col = blend(base, white, 0.5)
			col[3] = 1
		} else {
			col[3] = base[3] * dimFactor
		}
	}

	if c.fade {
		if h.fade == nil {
			h.fade = newOpacityFade(c.fadeFPS)
		}
		col[3] = h.fade.step(col[3])
	} else {
		h.fade = nil
	}
	h.Color = col
}

// dashScale keeps dash length constant in world units under the handle's stretch.
func dashScale(h *Handle) float32 {
	lines := h.Geometry.Lines
	if len(lines) < 2 {
		return 1
	}
	local := lines[1].Sub(lines[0]).Len()
	if local < 1e-12 {
		return 1
	}
	m := h.Matrix()
	a := m.Mul4x1(lines[0].Vec4(1)).Vec3()
	b := m.Mul4x1(lines[1].Vec4(1)).Vec3()
	return b.Sub(a).Len() / local
}

func axisIndex(a Axis) int {
	switch a {
	case AxisY:
		return 1
	case AxisZ:
		return 2
	}
	return 0
}
