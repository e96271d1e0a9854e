package gizmo

import (
	"github.com/chewxy/math32"
	"github.com/go-gl/mathgl/mgl32"
)

type Category int

const (
	CategoryGizmo Category = iota
	CategoryPicker
	CategoryHelper
	categoryCount
)

func (c Category) String() string {
	switch c {
	case CategoryGizmo:
		return "gizmo"
	case CategoryPicker:
		return "picker"
	case CategoryHelper:
		return "helper"
	}
	return "unknown"
}

type Tag int

const (
	TagNone Tag = iota
	TagFwd
	TagBwd
	TagLabel
	TagHelper
)

// HandleDesc is one static row of the handle table.
type HandleDesc struct {
	Mode     Mode
	Category Category
	Name     Axis
	Tag      Tag
	Shape    Shape
	Offset   mgl32.Vec3
	Rotation mgl32.Vec3 // Euler XYZ, radians
	Scale    mgl32.Vec3 // zero means unit
	Color    [4]float32
	Dashed   bool
}

// Handle is a baked handle plus the state the visual updater writes every frame.
type Handle struct {
	Desc     HandleDesc
	Geometry Geometry

	Visible   bool
	Position  mgl32.Vec3
	Rotation  mgl32.Quat
	Scale     mgl32.Vec3
	Color     [4]float32
	DashScale float32

	fade *opacityFade
}

func newHandle(d HandleDesc) *Handle {
	return &Handle{
		Desc:      d,
		Geometry:  bake(d.Shape, d.Category, d.Offset, d.Rotation, d.Scale),
		Rotation:  mgl32.QuatIdent(),
		Scale:     mgl32.Vec3{1, 1, 1},
		Color:     d.Color,
		DashScale: 1,
	}
}

func (h *Handle) Name() Axis { return h.Desc.Name }

func (h *Handle) Matrix() mgl32.Mat4 {
	return Transform{Position: h.Position, Rotation: h.Rotation, Scale: h.Scale}.Matrix()
}

// Registry holds every handle, indexed by mode and category. It is built once.
type Registry struct {
	byCategory [modeCount][categoryCount][]*Handle
	byMode     [modeCount][]*Handle
}

func NewRegistry() *Registry {
	r := &Registry{}
	for _, d := range handleTable() {
		h := newHandle(d)
		r.byCategory[d.Mode][d.Category] = append(r.byCategory[d.Mode][d.Category], h)
	}
	for m := Mode(0); m < modeCount; m++ {
		for _, c := range []Category{CategoryPicker, CategoryGizmo, CategoryHelper} {
			r.byMode[m] = append(r.byMode[m], r.byCategory[m][c]...)
		}
	}
	return r
}

func (r *Registry) Handles(mode Mode, category Category) []*Handle {
	if !mode.valid() || category < 0 || category >= categoryCount {
		return nil
	}
	return r.byCategory[mode][category]
}

// ForMode returns pickers, visuals and helpers of a mode, in that order.
func (r *Registry) ForMode(mode Mode) []*Handle {
	if !mode.valid() {
		return nil
	}
	return r.byMode[mode]
}

const halfPi = math32.Pi / 2

var (
	arrowShape    = Shape{Kind: DrawCylinder, Dims: [4]float32{0, 0.04, 0.1, 12}, Shift: mgl32.Vec3{0, 0.05, 0}}
	shaftShape    = Shape{Kind: DrawCylinder, Dims: [4]float32{0.0075, 0.0075, 0.5, 3}, Shift: mgl32.Vec3{0, 0.25, 0}}
	scaleTipShape = Shape{Kind: DrawBox, Dims: [4]float32{0.08, 0.08, 0.08}, Shift: mgl32.Vec3{0, 0.04, 0}}
	pickConeShape = Shape{Kind: DrawCylinder, Dims: [4]float32{0.2, 0, 0.6, 4}}
	lineShape     = Shape{Kind: DrawLine}
)

func labelShape(glyph byte) Shape {
	return Shape{Kind: DrawLabel, Dims: [4]float32{0.08}, Glyph: glyph}
}

type row struct {
	name   Axis
	tag    Tag
	shape  Shape
	offset mgl32.Vec3
	euler  mgl32.Vec3
	scale  mgl32.Vec3
	color  [4]float32
	dashed bool
}

func appendRows(out []HandleDesc, mode Mode, category Category, rows ...row) []HandleDesc {
	for _, r := range rows {
		out = append(out, HandleDesc{
			Mode:     mode,
			Category: category,
			Name:     r.name,
			Tag:      r.tag,
			Shape:    r.shape,
			Offset:   r.offset,
			Rotation: r.euler,
			Scale:    r.scale,
			Color:    r.color,
			Dashed:   r.dashed,
		})
	}
	return out
}

// infinite axis guides shared by translate and scale
func axisGuideRows() []row {
	long := mgl32.Vec3{1e6, 1, 1}
	return []row{
		{name: AxisX, tag: TagHelper, shape: lineShape, offset: mgl32.Vec3{-1e3, 0, 0}, scale: long, color: colorHelper, dashed: true},
		{name: AxisY, tag: TagHelper, shape: lineShape, offset: mgl32.Vec3{0, -1e3, 0}, euler: mgl32.Vec3{0, 0, halfPi}, scale: long, color: colorHelper, dashed: true},
		{name: AxisZ, tag: TagHelper, shape: lineShape, offset: mgl32.Vec3{0, 0, -1e3}, euler: mgl32.Vec3{0, -halfPi, 0}, scale: long, color: colorHelper, dashed: true},
	}
}

// axis cone pickers shared by translate and scale
func axisPickerRows() []row {
	return []row{
		{name: AxisX, shape: pickConeShape, offset: mgl32.Vec3{0.3, 0, 0}, euler: mgl32.Vec3{0, 0, -halfPi}, color: colorPicker},
		{name: AxisX, shape: pickConeShape, offset: mgl32.Vec3{-0.3, 0, 0}, euler: mgl32.Vec3{0, 0, halfPi}, color: colorPicker},
		{name: AxisY, shape: pickConeShape, offset: mgl32.Vec3{0, 0.3, 0}, color: colorPicker},
		{name: AxisY, shape: pickConeShape, offset: mgl32.Vec3{0, -0.3, 0}, euler: mgl32.Vec3{0, 0, math32.Pi}, color: colorPicker},
		{name: AxisZ, shape: pickConeShape, offset: mgl32.Vec3{0, 0, 0.3}, euler: mgl32.Vec3{halfPi, 0, 0}, color: colorPicker},
		{name: AxisZ, shape: pickConeShape, offset: mgl32.Vec3{0, 0, -0.3}, euler: mgl32.Vec3{-halfPi, 0, 0}, color: colorPicker},
	}
}

func planeRows(shape Shape, colors [3][4]float32) []row {
	return []row{
		{name: AxisXY, shape: shape, offset: mgl32.Vec3{0.15, 0.15, 0}, color: colors[0]},
		{name: AxisYZ, shape: shape, offset: mgl32.Vec3{0, 0.15, 0.15}, euler: mgl32.Vec3{0, halfPi, 0}, color: colors[1]},
		{name: AxisXZ, shape: shape, offset: mgl32.Vec3{0.15, 0, 0.15}, euler: mgl32.Vec3{-halfPi, 0, 0}, color: colors[2]},
	}
}

// axisTipRows places an outward (fwd) and an inward (bwd) tip at the positive end of each
// axis, plus the shaft. The updater shows one of the pair and mirrors the rest toward the
// viewer.
func axisTipRows(tip Shape) []row {
	return []row{
		{name: AxisX, tag: TagFwd, shape: tip, offset: mgl32.Vec3{0.5, 0, 0}, euler: mgl32.Vec3{0, 0, -halfPi}, color: colorRed},
		{name: AxisX, tag: TagBwd, shape: tip, offset: mgl32.Vec3{0.5, 0, 0}, euler: mgl32.Vec3{0, 0, halfPi}, color: colorRed},
		{name: AxisX, shape: shaftShape, euler: mgl32.Vec3{0, 0, -halfPi}, color: colorRed},
		{name: AxisY, tag: TagFwd, shape: tip, offset: mgl32.Vec3{0, 0.5, 0}, color: colorGreen},
		{name: AxisY, tag: TagBwd, shape: tip, offset: mgl32.Vec3{0, 0.5, 0}, euler: mgl32.Vec3{math32.Pi, 0, 0}, color: colorGreen},
		{name: AxisY, shape: shaftShape, color: colorGreen},
		{name: AxisZ, tag: TagFwd, shape: tip, offset: mgl32.Vec3{0, 0, 0.5}, euler: mgl32.Vec3{halfPi, 0, 0}, color: colorBlue},
		{name: AxisZ, tag: TagBwd, shape: tip, offset: mgl32.Vec3{0, 0, 0.5}, euler: mgl32.Vec3{-halfPi, 0, 0}, color: colorBlue},
		{name: AxisZ, shape: shaftShape, euler: mgl32.Vec3{halfPi, 0, 0}, color: colorBlue},
	}
}

func handleTable() []HandleDesc {
	var out []HandleDesc
	slab := Shape{Kind: DrawBox, Dims: [4]float32{0.2, 0.2, 0.01}}
	square := Shape{Kind: DrawBox, Dims: [4]float32{0.15, 0.15, 0.01}}
	planeColors := [3][4]float32{colorBluePlane, colorRedPlane, colorGreenPlane}
	pickerColors := [3][4]float32{colorPicker, colorPicker, colorPicker}

	// translate
	out = appendRows(out, ModeTranslate, CategoryGizmo, axisTipRows(arrowShape)...)
	out = appendRows(out, ModeTranslate, CategoryGizmo,
		row{name: AxisX, tag: TagLabel, shape: labelShape('X'), offset: mgl32.Vec3{0.75, 0, 0}, color: colorRed},
		row{name: AxisY, tag: TagLabel, shape: labelShape('Y'), offset: mgl32.Vec3{0, 0.75, 0}, color: colorGreen},
		row{name: AxisZ, tag: TagLabel, shape: labelShape('Z'), offset: mgl32.Vec3{0, 0, 0.75}, euler: mgl32.Vec3{-halfPi, 0, 0}, color: colorBlue},
		row{name: AxisXYZ, shape: Shape{Kind: DrawOctahedron, Dims: [4]float32{0.1}}, color: colorWhite},
	)
	out = appendRows(out, ModeTranslate, CategoryGizmo, planeRows(square, planeColors)...)
	out = appendRows(out, ModeTranslate, CategoryPicker, axisPickerRows()...)
	out = appendRows(out, ModeTranslate, CategoryPicker, planeRows(slab, pickerColors)...)
	out = appendRows(out, ModeTranslate, CategoryPicker,
		row{name: AxisXYZ, shape: Shape{Kind: DrawOctahedron, Dims: [4]float32{0.2}}, color: colorPicker},
	)
	out = appendRows(out, ModeTranslate, CategoryHelper,
		row{name: AxisStart, tag: TagHelper, shape: Shape{Kind: DrawOctahedron, Dims: [4]float32{0.01}}, color: colorHelper},
		row{name: AxisEnd, tag: TagHelper, shape: Shape{Kind: DrawOctahedron, Dims: [4]float32{0.01}}, color: colorHelper},
		row{name: AxisDelta, tag: TagHelper, shape: Shape{Kind: DrawDelta}, color: colorHelper, dashed: true},
	)
	out = appendRows(out, ModeTranslate, CategoryHelper, axisGuideRows()...)

	// rotate
	halfRing := Shape{Kind: DrawArc, Dims: [4]float32{0.5, 0.5}}
	pickTorus := Shape{Kind: DrawTorus, Dims: [4]float32{0.5, 0.1, 4, 24}}
	out = appendRows(out, ModeRotate, CategoryGizmo,
		row{name: AxisXYZE, shape: Shape{Kind: DrawArc, Dims: [4]float32{0.5, 1}}, color: colorGray},
		row{name: AxisX, shape: halfRing, euler: mgl32.Vec3{0, -halfPi, 0}, color: colorRed},
		row{name: AxisY, shape: halfRing, euler: mgl32.Vec3{halfPi, 0, halfPi}, color: colorGreen},
		row{name: AxisZ, shape: halfRing, color: colorBlue},
		row{name: AxisE, shape: Shape{Kind: DrawArc, Dims: [4]float32{0.75, 1}}, color: colorYellow},
	)
	out = appendRows(out, ModeRotate, CategoryPicker,
		row{name: AxisXYZE, shape: Shape{Kind: DrawSphere, Dims: [4]float32{0.25, 10}}, color: colorPicker},
		row{name: AxisX, shape: pickTorus, euler: mgl32.Vec3{0, -halfPi, -halfPi}, color: colorPicker},
		row{name: AxisY, shape: pickTorus, euler: mgl32.Vec3{halfPi, 0, 0}, color: colorPicker},
		row{name: AxisZ, shape: pickTorus, euler: mgl32.Vec3{0, 0, -halfPi}, color: colorPicker},
		row{name: AxisE, shape: Shape{Kind: DrawTorus, Dims: [4]float32{0.75, 0.1, 2, 24}}, color: colorPicker},
	)
	out = appendRows(out, ModeRotate, CategoryHelper,
		row{name: AxisLine, tag: TagHelper, shape: lineShape, offset: mgl32.Vec3{-1e3, 0, 0}, scale: mgl32.Vec3{1e6, 1, 1}, color: colorHelper, dashed: true},
	)

	// scale
	out = appendRows(out, ModeScale, CategoryGizmo, axisTipRows(scaleTipShape)...)
	out = appendRows(out, ModeScale, CategoryGizmo, planeRows(square, planeColors)...)
	out = appendRows(out, ModeScale, CategoryGizmo,
		row{name: AxisXYZ, shape: Shape{Kind: DrawBox, Dims: [4]float32{0.1, 0.1, 0.1}}, color: colorWhite},
	)
	out = appendRows(out, ModeScale, CategoryPicker, axisPickerRows()...)
	out = appendRows(out, ModeScale, CategoryPicker, planeRows(slab, pickerColors)...)
	out = appendRows(out, ModeScale, CategoryPicker,
		row{name: AxisXYZ, shape: Shape{Kind: DrawBox, Dims: [4]float32{0.2, 0.2, 0.2}}, color: colorPicker},
	)
	out = appendRows(out, ModeScale, CategoryHelper, axisGuideRows()...)
	return out
}
