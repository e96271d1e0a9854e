// Package gpu draws transform-control handles with WebGPU.
package gpu

import (
	_ "embed"
	"fmt"
	"unsafe"

	"github.com/cogentcore/webgpu/wgpu"
	"github.com/gekko3d/gizmo"
	"github.com/go-gl/mathgl/mgl32"
)

//go:embed handle.wgsl
var handleWGSL string

// Vertex matches VertexInput in handle.wgsl. Dist is the length along the line from the
// segment start, used for dashing.
type Vertex struct {
	Pos  [3]float32
	Dist float32
}

// Instance matches InstanceInput in handle.wgsl.
type Instance struct {
	Model mgl32.Mat4
	Color [4]float32
	Dash  [4]float32
}

type cameraUniform struct {
	ViewProj mgl32.Mat4
}

// drawRange is one handle: a slice of the vertex buffer drawn with one instance.
type drawRange struct {
	first, count uint32
}

// HandlePass renders a TransformControls draw list as instanced line lists over the scene,
// without depth testing so the handles stay on top.
type HandlePass struct {
	Device   *wgpu.Device
	Pipeline *wgpu.RenderPipeline

	CameraBuffer *wgpu.Buffer
	BindGroup    *wgpu.BindGroup

	VertexBuffer   *wgpu.Buffer
	VertexCap      uint32
	InstanceBuffer *wgpu.Buffer
	InstanceCap    uint32

	ranges []drawRange
}

func NewHandlePass(device *wgpu.Device, format wgpu.TextureFormat) (*HandlePass, error) {
	module, err := device.CreateShaderModule(&wgpu.ShaderModuleDescriptor{
		Label:          "HandleShader",
		WGSLDescriptor: &wgpu.ShaderModuleWGSLDescriptor{Code: handleWGSL},
	})
	if err != nil {
		return nil, fmt.Errorf("handle shader: %w", err)
	}
	defer module.Release()

	cameraSize := uint64(unsafe.Sizeof(cameraUniform{}))
	bgl, err := device.CreateBindGroupLayout(&wgpu.BindGroupLayoutDescriptor{
		Label: "HandleCameraBGL",
		Entries: []wgpu.BindGroupLayoutEntry{
			{
				Binding:    0,
				Visibility: wgpu.ShaderStageVertex,
				Buffer: wgpu.BufferBindingLayout{
					Type:           wgpu.BufferBindingTypeUniform,
					MinBindingSize: cameraSize,
				},
			},
		},
	})
	if err != nil {
		return nil, fmt.Errorf("handle bind group layout: %w", err)
	}

	layout, err := device.CreatePipelineLayout(&wgpu.PipelineLayoutDescriptor{
		Label:            "HandlePipelineLayout",
		BindGroupLayouts: []*wgpu.BindGroupLayout{bgl},
	})
	if err != nil {
		return nil, fmt.Errorf("handle pipeline layout: %w", err)
	}

	instanceAttrs := make([]wgpu.VertexAttribute, 0, 6)
	for i := 0; i < 6; i++ {
		instanceAttrs = append(instanceAttrs, wgpu.VertexAttribute{
			Format:         wgpu.VertexFormatFloat32x4,
			Offset:         uint64(16 * i),
			ShaderLocation: uint32(2 + i),
		})
	}

	pipeline, err := device.CreateRenderPipeline(&wgpu.RenderPipelineDescriptor{
		Label:  "HandlePipeline",
		Layout: layout,
		Vertex: wgpu.VertexState{
			Module:     module,
			EntryPoint: "vs_main",
			Buffers: []wgpu.VertexBufferLayout{
				{
					ArrayStride: uint64(unsafe.Sizeof(Vertex{})),
					StepMode:    wgpu.VertexStepModeVertex,
					Attributes: []wgpu.VertexAttribute{
						{Format: wgpu.VertexFormatFloat32x3, Offset: 0, ShaderLocation: 0},
						{Format: wgpu.VertexFormatFloat32, Offset: 12, ShaderLocation: 1},
					},
				},
				{
					ArrayStride: uint64(unsafe.Sizeof(Instance{})),
					StepMode:    wgpu.VertexStepModeInstance,
					Attributes:  instanceAttrs,
				},
			},
		},
		Fragment: &wgpu.FragmentState{
			Module:     module,
			EntryPoint: "fs_main",
			Targets: []wgpu.ColorTargetState{
				{
					Format:    format,
					WriteMask: wgpu.ColorWriteMaskAll,
					Blend: &wgpu.BlendState{
						Color: wgpu.BlendComponent{
							Operation: wgpu.BlendOperationAdd,
							SrcFactor: wgpu.BlendFactorSrcAlpha,
							DstFactor: wgpu.BlendFactorOneMinusSrcAlpha,
						},
						Alpha: wgpu.BlendComponent{
							Operation: wgpu.BlendOperationAdd,
							SrcFactor: wgpu.BlendFactorOne,
							DstFactor: wgpu.BlendFactorOneMinusSrcAlpha,
						},
					},
				},
			},
		},
		Primitive: wgpu.PrimitiveState{
			Topology:  wgpu.PrimitiveTopologyLineList,
			FrontFace: wgpu.FrontFaceCCW,
			CullMode:  wgpu.CullModeNone,
		},
		Multisample: wgpu.MultisampleState{
			Count: 1,
			Mask:  0xFFFFFFFF,
		},
	})
	if err != nil {
		return nil, fmt.Errorf("handle pipeline: %w", err)
	}

	cameraBuffer, err := device.CreateBuffer(&wgpu.BufferDescriptor{
		Label: "HandleCameraBuffer",
		Size:  cameraSize,
		Usage: wgpu.BufferUsageUniform | wgpu.BufferUsageCopyDst,
	})
	if err != nil {
		return nil, fmt.Errorf("handle camera buffer: %w", err)
	}

	bindGroup, err := device.CreateBindGroup(&wgpu.BindGroupDescriptor{
		Label:  "HandleCameraBG",
		Layout: bgl,
		Entries: []wgpu.BindGroupEntry{
			{Binding: 0, Buffer: cameraBuffer, Size: cameraSize},
		},
	})
	if err != nil {
		return nil, fmt.Errorf("handle bind group: %w", err)
	}

	return &HandlePass{
		Device:       device,
		Pipeline:     pipeline,
		CameraBuffer: cameraBuffer,
		BindGroup:    bindGroup,
	}, nil
}

// pack flattens a draw list into one vertex array and one instance per item.
func pack(items []gizmo.DrawItem) ([]Vertex, []Instance, []drawRange) {
	var (
		verts  []Vertex
		insts  []Instance
		ranges []drawRange
	)
	for _, item := range items {
		if len(item.Lines) < 2 {
			continue
		}
		first := uint32(len(verts))
		for i := 0; i+1 < len(item.Lines); i += 2 {
			a, b := item.Lines[i], item.Lines[i+1]
			verts = append(verts,
				Vertex{Pos: a},
				Vertex{Pos: b, Dist: b.Sub(a).Len()},
			)
		}
		dash := [4]float32{0, 1, 0, 0}
		if item.Dashed {
			dash[0], dash[1] = 1, item.DashScale
		}
		insts = append(insts, Instance{Model: item.Model, Color: item.Color, Dash: dash})
		ranges = append(ranges, drawRange{first: first, count: uint32(len(verts)) - first})
	}
	return verts, insts, ranges
}

// ensure grows buf to hold n elements of stride bytes, keeping 128 elements of headroom.
func (p *HandlePass) ensure(buf **wgpu.Buffer, capacity *uint32, n uint32, stride uintptr, label string) error {
	if *buf != nil && *capacity >= n {
		return nil
	}
	if *buf != nil {
		(*buf).Release()
	}
	*capacity = n + 128
	b, err := p.Device.CreateBuffer(&wgpu.BufferDescriptor{
		Label: label,
		Size:  uint64(*capacity) * uint64(stride),
		Usage: wgpu.BufferUsageVertex | wgpu.BufferUsageCopyDst,
	})
	if err != nil {
		*buf, *capacity = nil, 0
		return fmt.Errorf("%s: %w", label, err)
	}
	*buf = b
	return nil
}

func bytesOf[T any](s []T) []byte {
	if len(s) == 0 {
		return nil
	}
	var zero T
	return unsafe.Slice((*byte)(unsafe.Pointer(&s[0])), len(s)*int(unsafe.Sizeof(zero)))
}

// Update uploads the camera matrix and the current draw list.
func (p *HandlePass) Update(queue *wgpu.Queue, viewProj mgl32.Mat4, items []gizmo.DrawItem) error {
	cam := []cameraUniform{{ViewProj: viewProj}}
	if err := queue.WriteBuffer(p.CameraBuffer, 0, bytesOf(cam)); err != nil {
		return fmt.Errorf("handle camera upload: %w", err)
	}

	verts, insts, ranges := pack(items)
	p.ranges = ranges
	if len(ranges) == 0 {
		return nil
	}
	if err := p.ensure(&p.VertexBuffer, &p.VertexCap, uint32(len(verts)), unsafe.Sizeof(Vertex{}), "HandleVertexBuffer"); err != nil {
		return err
	}
	if err := p.ensure(&p.InstanceBuffer, &p.InstanceCap, uint32(len(insts)), unsafe.Sizeof(Instance{}), "HandleInstanceBuffer"); err != nil {
		return err
	}
	if err := queue.WriteBuffer(p.VertexBuffer, 0, bytesOf(verts)); err != nil {
		return fmt.Errorf("handle vertex upload: %w", err)
	}
	if err := queue.WriteBuffer(p.InstanceBuffer, 0, bytesOf(insts)); err != nil {
		return fmt.Errorf("handle instance upload: %w", err)
	}
	return nil
}

// Draw records the handles into an open render pass.
func (p *HandlePass) Draw(pass *wgpu.RenderPassEncoder) {
	if len(p.ranges) == 0 || p.VertexBuffer == nil || p.InstanceBuffer == nil {
		return
	}
	pass.SetPipeline(p.Pipeline)
	pass.SetBindGroup(0, p.BindGroup, nil)
	pass.SetVertexBuffer(0, p.VertexBuffer, 0, p.VertexBuffer.GetSize())
	pass.SetVertexBuffer(1, p.InstanceBuffer, 0, p.InstanceBuffer.GetSize())
	for i, r := range p.ranges {
		pass.Draw(r.count, 1, r.first, uint32(i))
	}
}

func (p *HandlePass) Release() {
	for _, b := range []*wgpu.Buffer{p.VertexBuffer, p.InstanceBuffer, p.CameraBuffer} {
		if b != nil {
			b.Release()
		}
	}
	if p.BindGroup != nil {
		p.BindGroup.Release()
	}
	if p.Pipeline != nil {
		p.Pipeline.Release()
	}
}
