package gizmo

import (
	"testing"

	"github.com/chewxy/math32"
	"github.com/go-gl/mathgl/mgl32"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// newTestRig returns controls attached to a node under a root, viewed by a 90 degree camera
// at (0,0,10). At that distance one NDC unit spans ten world units on the z=0 plane.
func newTestRig(t *testing.T, opts ...Option) (*TransformControls, *SceneNode, *PerspectiveCamera) {
	t.Helper()
	cam := NewPerspectiveCamera(90, 1, 0.1, 1000)
	cam.Transform.Position = mgl32.Vec3{0, 0, 10}
	root := NewSceneNode("root")
	node := NewSceneNode("node")
	root.AddChild(node)

	c := New(cam, opts...)
	require.NoError(t, c.Attach(node))
	c.Update()
	return c, node, cam
}

func primary(x, y float32) PointerEvent { return PointerEvent{X: x, Y: y, Button: ButtonPrimary} }

func move(x, y float32) PointerEvent { return PointerEvent{X: x, Y: y, Button: ButtonNone} }

type eventLog struct {
	kinds []EventKind
	props []string
}

func recordEvents(c *TransformControls) *eventLog {
	log := &eventLog{}
	for _, k := range []EventKind{EventChange, EventProperty, EventDragStart, EventDragEnd, EventTransformChanged} {
		c.On(k, func(e Event) {
			log.kinds = append(log.kinds, e.Kind)
			if e.Kind == EventProperty {
				log.props = append(log.props, e.Property)
			}
		})
	}
	return log
}

func (l *eventLog) count(kind EventKind) int {
	n := 0
	for _, k := range l.kinds {
		if k == kind {
			n++
		}
	}
	return n
}

func TestTranslateEndToEnd(t *testing.T) {
	c, node, _ := newTestRig(t)

	c.Hover(primary(0.16, 0))
	require.Equal(t, AxisX, c.Axis())

	c.PointerDown(primary(0.16, 0))
	require.True(t, c.Dragging())
	c.PointerMove(move(0.66, 0))

	assertVec3(t, mgl32.Vec3{5, 0, 0}, node.Transform.Position)
	c.PointerUp(primary(0.66, 0))
	assert.False(t, c.Dragging())
	assert.Equal(t, AxisNone, c.Axis())
}

func TestTranslateIgnoresOtherAxes(t *testing.T) {
	c, node, _ := newTestRig(t)
	c.setAxis(AxisX)
	c.PointerDown(primary(0, 0))
	c.PointerMove(move(0.3, 0.4))
	assertVec3(t, mgl32.Vec3{3, 0, 0}, node.Transform.Position)
}

func TestTranslateSnapWorld(t *testing.T) {
	c, node, cam := newTestRig(t)
	node.Transform.Position = mgl32.Vec3{12, 0, 0}
	cam.Transform.Position = mgl32.Vec3{12, 0, 10}
	c.SetTranslationSnap(5)
	c.setAxis(AxisX)

	c.PointerDown(primary(0, 0))
	c.PointerMove(move(0.32, 0))
	assert.InDelta(t, 15, node.Transform.Position.X(), eps)
	assert.InDelta(t, 0, node.Transform.Position.Y(), eps)
}

func TestTranslateDividesParentScale(t *testing.T) {
	c, node, _ := newTestRig(t)
	node.Parent().Transform.Scale = mgl32.Vec3{2, 2, 2}
	c.setAxis(AxisX)

	c.PointerDown(primary(0, 0))
	c.PointerMove(move(0.5, 0))
	assertVec3(t, mgl32.Vec3{2.5, 0, 0}, node.Transform.Position)
}

func TestTranslateLocalSpace(t *testing.T) {
	c, node, _ := newTestRig(t)
	node.Transform.Rotation = mgl32.QuatRotate(halfPi, unitZ)
	require.NoError(t, c.SetSpace(SpaceLocal))
	c.setAxis(AxisX)

	c.PointerDown(primary(0, 0))
	c.PointerMove(move(0.3, 0.4))
	// local X points along world Y, so only the world Y part of the drag survives
	assertVec3(t, mgl32.Vec3{0, 4, 0}, node.Transform.Position)
}

func TestScaleUniform(t *testing.T) {
	c, node, _ := newTestRig(t)
	require.NoError(t, c.SetMode(ModeScale))
	c.setAxis(AxisXYZ)

	c.PointerDown(primary(0.2, 0))
	c.PointerMove(move(0.1, 0))
	assertVec3(t, mgl32.Vec3{0.5, 0.5, 0.5}, node.Transform.Scale)

	c.PointerMove(move(-0.1, 0))
	assertVec3(t, mgl32.Vec3{-0.5, -0.5, -0.5}, node.Transform.Scale)
}

func TestScaleSingleAxisWithSnap(t *testing.T) {
	c, node, _ := newTestRig(t)
	require.NoError(t, c.SetMode(ModeScale))
	c.SetScaleSnap(0.5)
	c.setAxis(AxisX)

	c.PointerDown(primary(0.1, 0))
	c.PointerMove(move(0.27, 0))
	// raw ratio 2.7
	assertVec3(t, mgl32.Vec3{2.5, 1, 1}, node.Transform.Scale)

	c.PointerMove(move(0.01, 0))
	assert.InDelta(t, 0.5, node.Transform.Scale.X(), eps, "a zero snap result becomes one increment")
}

func TestRotateWorldYSnap(t *testing.T) {
	c, node, _ := newTestRig(t)
	require.NoError(t, c.SetMode(ModeRotate))
	c.SetRotationSnap(mgl32.DegToRad(15))
	c.setAxis(AxisY)

	// speed is 20/10, so 0.148353 world units is 17 degrees
	c.PointerDown(primary(0, 0))
	c.PointerMove(move(0.0148353, 0))

	q := node.Transform.Rotation
	assert.InDelta(t, 1, q.Len(), eps)
	want := mgl32.QuatRotate(mgl32.DegToRad(15), unitY)
	assert.InDelta(t, 1, math32.Abs(q.Dot(want)), eps)
}

func TestRotateWorldYRaw(t *testing.T) {
	c, node, _ := newTestRig(t)
	require.NoError(t, c.SetMode(ModeRotate))
	c.setAxis(AxisY)

	c.PointerDown(primary(0, 0))
	c.PointerMove(move(0.0148353, 0))
	want := mgl32.QuatRotate(mgl32.DegToRad(17), unitY)
	assert.InDelta(t, 1, math32.Abs(node.Transform.Rotation.Dot(want)), 1e-3)
}

func TestRotateKeepsUnitQuaternion(t *testing.T) {
	for _, axis := range []Axis{AxisX, AxisY, AxisZ, AxisE, AxisXYZE} {
		t.Run(string(axis), func(t *testing.T) {
			c, node, _ := newTestRig(t)
			require.NoError(t, c.SetMode(ModeRotate))
			c.setAxis(axis)
			c.PointerDown(primary(0.05, 0.03))
			for i := 1; i <= 5; i++ {
				c.PointerMove(move(0.05+0.04*float32(i), 0.03-0.02*float32(i)))
				assert.InDelta(t, 1, node.Transform.Rotation.Len(), eps)
			}
		})
	}
}

func TestRotateScreenRingSign(t *testing.T) {
	c, node, _ := newTestRig(t)
	require.NoError(t, c.SetMode(ModeRotate))
	c.setAxis(AxisE)

	c.PointerDown(primary(0.2, 0))
	c.PointerMove(move(0, 0.2))
	// dragging from +X to +Y turns counter-clockwise about the view axis
	assertVec3(t, unitY, node.Transform.Rotation.Rotate(unitX))
}

func TestRotateLocalPreAlignsToSnap(t *testing.T) {
	c, node, _ := newTestRig(t)
	node.Transform.Rotation = mgl32.QuatRotate(mgl32.DegToRad(10), unitX)
	require.NoError(t, c.SetMode(ModeRotate))
	require.NoError(t, c.SetSpace(SpaceLocal))
	c.SetRotationSnap(mgl32.DegToRad(15))
	c.setAxis(AxisX)

	c.PointerDown(primary(0, 0))
	require.True(t, c.Dragging())
	e := eulerFromQuat(node.Transform.Rotation)
	assert.InDelta(t, mgl32.DegToRad(15), e.X(), eps)
}

func TestPointerDownRequirements(t *testing.T) {
	c, _, _ := newTestRig(t)
	c.PointerDown(primary(0, 0))
	assert.False(t, c.Dragging(), "no axis")

	c.setAxis(AxisX)
	c.PointerDown(PointerEvent{Button: ButtonSecondary})
	assert.False(t, c.Dragging(), "secondary button")

	c.Detach()
	c.setAxis(AxisX)
	c.PointerDown(primary(0, 0))
	assert.False(t, c.Dragging(), "detached")
}

func TestPointerDownMissesPlane(t *testing.T) {
	c, _, cam := newTestRig(t)
	c.setAxis(AxisXY)
	// looking away from the object, the XY plane is behind the camera
	cam.Transform.Rotation = mgl32.QuatRotate(math32.Pi, unitY)
	c.PointerDown(primary(0, 0))
	assert.False(t, c.Dragging())
}

func TestDragEvents(t *testing.T) {
	c, _, _ := newTestRig(t)
	log := recordEvents(c)
	c.setAxis(AxisX)

	c.PointerDown(primary(0, 0))
	assert.Equal(t, 1, log.count(EventDragStart))
	assert.Contains(t, log.props, PropDragging)

	c.PointerMove(move(0.1, 0))
	assert.Equal(t, 1, log.count(EventTransformChanged))

	c.PointerUp(PointerEvent{Button: ButtonSecondary})
	assert.True(t, c.Dragging(), "secondary release is ignored")

	c.PointerUp(primary(0.1, 0))
	assert.Equal(t, 1, log.count(EventDragEnd))
	assert.False(t, c.Dragging())
}

func TestPointerUpWithoutDragHasNoDragEnd(t *testing.T) {
	c, _, _ := newTestRig(t)
	log := recordEvents(c)
	c.setAxis(AxisX)
	c.PointerUp(primary(0, 0))
	assert.Zero(t, log.count(EventDragEnd))
	assert.Equal(t, AxisNone, c.Axis())
}

func TestResetWithoutDragIsNoop(t *testing.T) {
	c, node, _ := newTestRig(t)
	node.Transform.Position = mgl32.Vec3{1, 2, 3}
	log := recordEvents(c)

	c.Reset()
	assertVec3(t, mgl32.Vec3{1, 2, 3}, node.Transform.Position)
	assert.Empty(t, log.kinds)
}

func TestResetRestoresAndRebaselines(t *testing.T) {
	c, node, _ := newTestRig(t)
	c.setAxis(AxisX)
	c.PointerDown(primary(0, 0))
	c.PointerMove(move(0.5, 0))
	assertVec3(t, mgl32.Vec3{5, 0, 0}, node.Transform.Position)

	c.Reset()
	assertVec3(t, mgl32.Vec3{0, 0, 0}, node.Transform.Position)
	assert.True(t, c.Dragging())

	c.PointerMove(move(0.7, 0))
	assertVec3(t, mgl32.Vec3{2, 0, 0}, node.Transform.Position)
}

func TestResetDisabledIsNoop(t *testing.T) {
	c, node, _ := newTestRig(t)
	c.setAxis(AxisX)
	c.PointerDown(primary(0, 0))
	c.PointerMove(move(0.5, 0))
	c.SetEnabled(false)
	c.Reset()
	assertVec3(t, mgl32.Vec3{5, 0, 0}, node.Transform.Position)
}

func TestHoverFrozenWhileDragging(t *testing.T) {
	c, _, _ := newTestRig(t)
	c.Hover(primary(0.16, 0))
	require.Equal(t, AxisX, c.Axis())
	c.PointerDown(primary(0.16, 0))

	c.Hover(primary(0, 0.16))
	assert.Equal(t, AxisX, c.Axis())
}

func TestHoverClearsAxisOnMiss(t *testing.T) {
	c, _, _ := newTestRig(t)
	c.Hover(primary(0, 0.16))
	assert.Equal(t, AxisY, c.Axis())
	c.Hover(primary(0.9, 0.9))
	assert.Equal(t, AxisNone, c.Axis())
}

func TestDetachDuringDrag(t *testing.T) {
	c, _, _ := newTestRig(t)
	log := recordEvents(c)
	c.setAxis(AxisX)
	c.PointerDown(primary(0, 0))

	c.Detach()
	assert.False(t, c.Visible())
	assert.Equal(t, AxisNone, c.Axis())
	assert.False(t, c.Dragging())
	assert.Zero(t, log.count(EventDragEnd))
	assert.Empty(t, c.DrawList())
}

func TestMoveMissKeepsNode(t *testing.T) {
	c, node, cam := newTestRig(t)
	c.setAxis(AxisXY)
	c.PointerDown(primary(0.1, 0))
	c.PointerMove(move(0.2, 0))
	before := node.Transform.Position

	cam.Transform.Rotation = mgl32.QuatRotate(math32.Pi, unitY)
	c.PointerMove(move(0.5, 0))
	assertVec3(t, before, node.Transform.Position)
}

func TestTranslateSnapLocal(t *testing.T) {
	c, node, _ := newTestRig(t)
	node.Transform.Rotation = mgl32.QuatRotate(halfPi, unitZ)
	require.NoError(t, c.SetSpace(SpaceLocal))
	c.SetTranslationSnap(5)
	c.setAxis(AxisX)

	c.PointerDown(primary(0, 0))
	c.PointerMove(move(0, 0.32))
	// 3.2 along local X rounds to 5 in the node frame, which is world +Y
	assertVec3(t, mgl32.Vec3{0, 5, 0}, node.Transform.Position)
}

func TestDragLifecycleIsLogged(t *testing.T) {
	logger := &recordingLogger{}
	c, _, _ := newTestRig(t, WithLogger(logger))
	c.setAxis(AxisX)

	c.PointerDown(primary(0, 0))
	c.PointerMove(move(0.2, 0))
	c.Reset()
	c.PointerUp(primary(0.2, 0))

	debugs := logger.Debugs()
	require.Len(t, debugs, 3)
	assert.Equal(t, "drag start: translate X in world space", debugs[0])
	assert.Equal(t, "drag reset: translate X", debugs[1])
	assert.Equal(t, "drag end: translate X", debugs[2])

	c.setAxis(AxisY)
	c.PointerDown(primary(0, 0))
	c.Detach()
	assert.Equal(t, "drag dropped: translate Y target detached", logger.Debugs()[4])
}
