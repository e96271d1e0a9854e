package gizmo

import (
	"testing"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func handlesNamed(c *TransformControls, category Category, name Axis) []*Handle {
	var out []*Handle
	for _, h := range c.registry.Handles(c.mode, category) {
		if h.Desc.Name == name {
			out = append(out, h)
		}
	}
	return out
}

func handleTagged(t *testing.T, c *TransformControls, name Axis, tag Tag) *Handle {
	t.Helper()
	for _, h := range handlesNamed(c, CategoryGizmo, name) {
		if h.Desc.Tag == tag {
			return h
		}
	}
	require.FailNow(t, "handle not found", "%s tag %d", name, tag)
	return nil
}

func lookFrom(cam *PerspectiveCamera, pos mgl32.Vec3) {
	cam.Transform.Position = pos
	up := unitY
	if pos.Normalize().Sub(unitY).Len() < 1e-3 {
		up = unitZ
	}
	cam.LookAt(zero3, up)
}

func TestHandlesScaleWithCameraDistance(t *testing.T) {
	c, _, cam := newTestRig(t)
	for _, h := range c.Handles() {
		if h.Desc.Category == CategoryHelper || !h.Visible {
			continue
		}
		assert.InDelta(t, 4.75, abs32(h.Scale.Y()), eps, "%s", h.Desc.Name)
	}

	cam.Transform.Position = mgl32.Vec3{0, 0, 20}
	c.SetSize(2)
	c.Update()
	h := handleTagged(t, c, AxisX, TagFwd)
	assert.InDelta(t, 19, h.Scale.Y(), eps)
}

func abs32(v float32) float32 {
	if v < 0 {
		return -v
	}
	return v
}

func TestEdgeOnAxisHidden(t *testing.T) {
	c, _, cam := newTestRig(t)
	lookFrom(cam, mgl32.Vec3{10, 0, 0})
	c.Update()

	for _, h := range handlesNamed(c, CategoryGizmo, AxisX) {
		assert.False(t, h.Visible)
		assertVec3(t, mgl32.Vec3{hiddenScale, hiddenScale, hiddenScale}, mgl32.Vec3{abs32(h.Scale.X()), h.Scale.Y(), h.Scale.Z()})
	}
	for _, h := range handlesNamed(c, CategoryPicker, AxisX) {
		assert.False(t, h.Visible)
	}
	assert.True(t, handlesNamed(c, CategoryGizmo, AxisYZ)[0].Visible)
	assert.False(t, handlesNamed(c, CategoryGizmo, AxisXY)[0].Visible, "XY plane is edge-on")
	assert.False(t, handlesNamed(c, CategoryGizmo, AxisXZ)[0].Visible, "XZ plane is edge-on")
}

func TestAxisFlipTowardViewer(t *testing.T) {
	c, _, cam := newTestRig(t)
	lookFrom(cam, mgl32.Vec3{-6, 4, 7})
	c.Update()

	fwd := handleTagged(t, c, AxisX, TagFwd)
	bwd := handleTagged(t, c, AxisX, TagBwd)
	shaft := handleTagged(t, c, AxisX, TagNone)
	assert.False(t, fwd.Visible)
	assert.True(t, bwd.Visible)
	assert.Less(t, bwd.Scale.X(), float32(0))
	assert.Less(t, shaft.Scale.X(), float32(0))

	yFwd := handleTagged(t, c, AxisY, TagFwd)
	yBwd := handleTagged(t, c, AxisY, TagBwd)
	assert.True(t, yFwd.Visible)
	assert.False(t, yBwd.Visible)
	assert.Greater(t, yFwd.Scale.Y(), float32(0))
}

func TestTranslateArrowTwistFacesCamera(t *testing.T) {
	c, _, cam := newTestRig(t)
	lookFrom(cam, mgl32.Vec3{10, 0, 0.5})
	c.Update()

	eye := c.frame.eye
	shaft := handleTagged(t, c, AxisY, TagNone)
	face := shaft.Rotation.Rotate(unitZ)
	want := projectOnPlane(eye, unitY).Normalize()
	assertVec3(t, want, face)

	// pickers keep the reference orientation
	for _, h := range handlesNamed(c, CategoryPicker, AxisY) {
		assert.InDelta(t, 1, abs32(h.Rotation.W), eps)
	}
}

func TestRotateRingsFaceCamera(t *testing.T) {
	c, _, cam := newTestRig(t)
	require.NoError(t, c.SetMode(ModeRotate))
	lookFrom(cam, mgl32.Vec3{0, 10, 0})
	c.Update()

	x := handlesNamed(c, CategoryGizmo, AxisX)[0]
	assertVec3(t, unitY, x.Rotation.Rotate(unitZ), "the X half ring bulges toward the eye")

	lookFrom(cam, mgl32.Vec3{10, 0, 0})
	c.Update()
	e := handlesNamed(c, CategoryGizmo, AxisE)[0]
	assertVec3(t, unitX, e.Rotation.Rotate(unitZ))
	z := handlesNamed(c, CategoryGizmo, AxisZ)[0]
	assertVec3(t, unitX, z.Rotation.Rotate(unitX))
}

func TestShowFlagsGate(t *testing.T) {
	c, _, _ := newTestRig(t)
	c.SetShowX(false)
	c.Update()
	for _, h := range c.Handles() {
		if h.Desc.Category != CategoryHelper && h.Desc.Name.Has('X') {
			assert.False(t, h.Visible, "%s", h.Desc.Name)
		}
	}
	assert.True(t, handlesNamed(c, CategoryGizmo, AxisY)[0].Visible)

	require.NoError(t, c.SetMode(ModeRotate))
	c.Update()
	assert.False(t, handlesNamed(c, CategoryGizmo, AxisE)[0].Visible, "E needs every axis shown")
}

func TestHighlight(t *testing.T) {
	c, _, _ := newTestRig(t)
	c.setAxis(AxisXY)
	c.Update()

	plane := handlesNamed(c, CategoryGizmo, AxisXY)[0]
	assert.Equal(t, float32(1), plane.Color[3])
	lit := blend(plane.Desc.Color, white, 0.5)
	assert.Equal(t, lit[:3], plane.Color[:3])

	x := handleTagged(t, c, AxisX, TagNone)
	assert.Equal(t, float32(1), x.Color[3], "single letter contained in the active axis")

	z := handleTagged(t, c, AxisZ, TagNone)
	assert.InDelta(t, z.Desc.Color[3]*dimFactor, z.Color[3], eps)
	assert.Equal(t, z.Desc.Color[:3], z.Color[:3])

	xyz := handlesNamed(c, CategoryGizmo, AxisXYZ)[0]
	assert.InDelta(t, xyz.Desc.Color[3]*dimFactor, xyz.Color[3], eps, "XYZ is not a single letter")

	c.setAxis(AxisNone)
	c.Update()
	assert.Equal(t, z.Desc.Color, z.Color)
}

func TestDisabledDims(t *testing.T) {
	c, _, _ := newTestRig(t)
	c.SetEnabled(false)
	c.setAxis(AxisX)
	c.Update()
	x := handleTagged(t, c, AxisX, TagNone)
	assert.InDelta(t, x.Desc.Color[3]*dimFactor, x.Color[3], eps)
	assert.Equal(t, x.Color[0], x.Color[1])
	assert.Equal(t, x.Color[1], x.Color[2])
}

func TestHelpersOnlyWhileDragging(t *testing.T) {
	c, node, _ := newTestRig(t)
	c.setAxis(AxisX)
	c.Update()
	for _, h := range c.registry.Handles(ModeTranslate, CategoryHelper) {
		assert.False(t, h.Visible, "%s", h.Desc.Name)
	}

	c.PointerDown(primary(0, 0))
	c.PointerMove(move(0.3, 0))
	c.Update()
	require.InDelta(t, 3, node.Transform.Position.X(), eps)

	start := handlesNamed(c, CategoryHelper, AxisStart)[0]
	end := handlesNamed(c, CategoryHelper, AxisEnd)[0]
	delta := handlesNamed(c, CategoryHelper, AxisDelta)[0]
	guideX := handlesNamed(c, CategoryHelper, AxisX)[0]
	guideY := handlesNamed(c, CategoryHelper, AxisY)[0]

	assert.True(t, start.Visible)
	assertVec3(t, zero3, start.Position)
	assertVec3(t, mgl32.Vec3{3, 0, 0}, end.Position)
	assert.True(t, delta.Visible)
	assert.InDelta(t, 3, delta.Scale.X(), eps)
	assert.InDelta(t, 3, delta.DashScale*mgl32.Vec3{1, 1, 1}.Len(), 1e-3)
	assert.True(t, guideX.Visible)
	assert.False(t, guideY.Visible)
	assertVec3(t, zero3, guideX.Position)

	var drawn []Axis
	for _, item := range c.DrawList() {
		drawn = append(drawn, item.Name)
	}
	assert.Contains(t, drawn, AxisDelta)
}

func TestRotateAxisHelper(t *testing.T) {
	c, _, _ := newTestRig(t)
	require.NoError(t, c.SetMode(ModeRotate))
	c.setAxis(AxisY)
	c.PointerDown(primary(0, 0))
	c.PointerMove(move(0.05, 0))
	c.Update()

	line := handlesNamed(c, CategoryHelper, AxisLine)[0]
	assert.True(t, line.Visible)
	assertVec3(t, unitY, line.Rotation.Rotate(unitX))
}

func TestOtherModesHidden(t *testing.T) {
	c, _, _ := newTestRig(t)
	require.NoError(t, c.SetMode(ModeScale))
	c.Update()
	for _, h := range c.registry.ForMode(ModeTranslate) {
		assert.False(t, h.Visible)
	}
	for _, item := range c.DrawList() {
		assert.NotEmpty(t, item.Lines)
	}
}

func TestFadeEasesOpacity(t *testing.T) {
	s := DefaultSettings()
	s.Fade = true
	c, _, _ := newTestRig(t, WithSettings(s))
	z := handleTagged(t, c, AxisZ, TagNone)
	require.Equal(t, z.Desc.Color[3], z.Color[3])

	c.setAxis(AxisX)
	c.Update()
	target := z.Desc.Color[3] * dimFactor
	assert.Greater(t, z.Color[3], target+0.01, "the first frame only starts the fade")

	for i := 0; i < 240; i++ {
		c.Update()
	}
	assert.InDelta(t, target, z.Color[3], 1e-3)
}

func TestLabelStaysOnPositiveEnd(t *testing.T) {
	c, _, cam := newTestRig(t)
	lookFrom(cam, mgl32.Vec3{-6, 4, 7})
	c.Update()

	label := handleTagged(t, c, AxisX, TagLabel)
	require.True(t, label.Visible)
	assert.Greater(t, label.Scale.X(), float32(0))
	mid := label.Matrix().Mul4x1(centroid(label.Geometry.Lines).Vec4(1)).Vec3()
	assert.Greater(t, mid.X(), float32(1), "the X label marks +X even when the axis faces away")

	shaft := handleTagged(t, c, AxisX, TagNone)
	assert.Less(t, shaft.Scale.X(), float32(0), "the rest of the axis still mirrors")
}
