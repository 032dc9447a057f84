package gpu

import (
	"math"
	"unsafe"

	"github.com/cogentcore/webgpu/wgpu"
	"github.com/gekko3d/lightviz/render/shaders"
	"github.com/gekko3d/lightviz/scene"
	"github.com/go-gl/mathgl/mgl32"
)

// GizmoVertex matches the WGSL VertexInput
type GizmoVertex struct {
	Pos [3]float32
}

// GizmoInstance matches the WGSL instance attributes
type GizmoInstance struct {
	ModelMat mgl32.Mat4
	Color    [4]float32
	EndColor [4]float32
}

var gizmoShapes = []scene.GizmoType{scene.GizmoLine, scene.GizmoCircle}

type gizmoRange struct {
	shape scene.GizmoType
	first uint32
	count uint32
}

// GizmoRenderPass draws wireframe lines and circles. Depth tested gizmos and
// overlay gizmos share one instance buffer but use separate pipelines.
type GizmoRenderPass struct {
	Pipeline        *wgpu.RenderPipeline
	OverlayPipeline *wgpu.RenderPipeline
	VertexBuffer    *wgpu.Buffer
	ShapeOffsets    map[scene.GizmoType]uint32
	ShapeCounts     map[scene.GizmoType]uint32
	Device          *wgpu.Device

	instances     instanceBuffer
	depthRanges   []gizmoRange
	overlayRanges []gizmoRange
	scratch       []GizmoInstance
}

func NewGizmoRenderPass(device *wgpu.Device, format wgpu.TextureFormat) (*GizmoRenderPass, error) {
	shaderModule, err := device.CreateShaderModule(&wgpu.ShaderModuleDescriptor{
		Label:          "GizmoShader",
		WGSLDescriptor: &wgpu.ShaderModuleWGSLDescriptor{Code: shaders.GizmoWGSL},
	})
	if err != nil {
		return nil, err
	}

	bgl, err := device.CreateBindGroupLayout(&wgpu.BindGroupLayoutDescriptor{
		Label:   "GizmoCameraBGL",
		Entries: []wgpu.BindGroupLayoutEntry{cameraLayoutEntry()},
	})
	if err != nil {
		return nil, err
	}

	pipelineLayout, err := device.CreatePipelineLayout(&wgpu.PipelineLayoutDescriptor{
		BindGroupLayouts: []*wgpu.BindGroupLayout{bgl},
	})
	if err != nil {
		return nil, err
	}

	newPipeline := func(label string, depth *wgpu.DepthStencilState) (*wgpu.RenderPipeline, error) {
		return device.CreateRenderPipeline(&wgpu.RenderPipelineDescriptor{
			Label:  label,
			Layout: pipelineLayout,
			Vertex: wgpu.VertexState{
				Module:     shaderModule,
				EntryPoint: "vs_main",
				Buffers: []wgpu.VertexBufferLayout{
					{
						ArrayStride: uint64(unsafe.Sizeof(GizmoVertex{})),
						StepMode:    wgpu.VertexStepModeVertex,
						Attributes: []wgpu.VertexAttribute{
							{Format: wgpu.VertexFormatFloat32x3, Offset: 0, ShaderLocation: 0},
						},
					},
					{
						ArrayStride: uint64(unsafe.Sizeof(GizmoInstance{})),
						StepMode:    wgpu.VertexStepModeInstance,
						Attributes: []wgpu.VertexAttribute{
							{Format: wgpu.VertexFormatFloat32x4, Offset: 0, ShaderLocation: 2},
							{Format: wgpu.VertexFormatFloat32x4, Offset: 16, ShaderLocation: 3},
							{Format: wgpu.VertexFormatFloat32x4, Offset: 32, ShaderLocation: 4},
							{Format: wgpu.VertexFormatFloat32x4, Offset: 48, ShaderLocation: 5},
							{Format: wgpu.VertexFormatFloat32x4, Offset: 64, ShaderLocation: 6},
							{Format: wgpu.VertexFormatFloat32x4, Offset: 80, ShaderLocation: 7},
						},
					},
				},
			},
			Fragment: &wgpu.FragmentState{
				Module:     shaderModule,
				EntryPoint: "fs_main",
				Targets: []wgpu.ColorTargetState{
					{
						Format:    format,
						WriteMask: wgpu.ColorWriteMaskAll,
						Blend:     alphaBlend,
					},
				},
			},
			Primitive: wgpu.PrimitiveState{
				Topology:  wgpu.PrimitiveTopologyLineList,
				FrontFace: wgpu.FrontFaceCCW,
				CullMode:  wgpu.CullModeNone,
			},
			DepthStencil: depth,
			Multisample: wgpu.MultisampleState{
				Count: 1,
				Mask:  0xFFFFFFFF,
			},
		})
	}

	pipeline, err := newPipeline("GizmoPipeline", depthState(true, true))
	if err != nil {
		return nil, err
	}
	overlay, err := newPipeline("GizmoOverlayPipeline", depthState(false, false))
	if err != nil {
		return nil, err
	}

	p := &GizmoRenderPass{
		Pipeline:        pipeline,
		OverlayPipeline: overlay,
		Device:          device,
		ShapeOffsets:    make(map[scene.GizmoType]uint32),
		ShapeCounts:     make(map[scene.GizmoType]uint32),
		instances:       instanceBuffer{label: "GizmoInstanceBuffer", device: device},
	}

	vertices := p.buildUnitShapes()
	p.VertexBuffer, err = device.CreateBuffer(&wgpu.BufferDescriptor{
		Label: "GizmoUnitVertexBuffer",
		Size:  uint64(len(vertices)) * uint64(unsafe.Sizeof(GizmoVertex{})),
		Usage: wgpu.BufferUsageVertex | wgpu.BufferUsageCopyDst,
	})
	if err != nil {
		return nil, err
	}
	device.GetQueue().WriteBuffer(p.VertexBuffer, 0, asBytes(vertices))

	return p, nil
}

func (p *GizmoRenderPass) buildUnitShapes() []GizmoVertex {
	var vertices []GizmoVertex
	addShape := func(t scene.GizmoType, shapeVertices []GizmoVertex) {
		p.ShapeOffsets[t] = uint32(len(vertices))
		p.ShapeCounts[t] = uint32(len(shapeVertices))
		vertices = append(vertices, shapeVertices...)
	}

	// Unit line (0,0,0) to (0,0,1); instances stretch it from P1 to P2
	addShape(scene.GizmoLine, []GizmoVertex{
		{Pos: [3]float32{0, 0, 0}},
		{Pos: [3]float32{0, 0, 1}},
	})

	// Unit circle (XY plane)
	steps := 32
	angleStep := 2.0 * math.Pi / float64(steps)
	var circleVerts []GizmoVertex
	for i := 0; i < steps; i++ {
		a1, a2 := float64(i)*angleStep, float64(i+1)*angleStep
		circleVerts = append(circleVerts,
			GizmoVertex{Pos: [3]float32{float32(math.Cos(a1)), float32(math.Sin(a1)), 0}},
			GizmoVertex{Pos: [3]float32{float32(math.Cos(a2)), float32(math.Sin(a2)), 0}})
	}
	addShape(scene.GizmoCircle, circleVerts)

	return vertices
}

// gizmoInstance turns a gizmo into a model matrix over the unit shape.
// Degenerate lines report false.
func gizmoInstance(g scene.Gizmo) (GizmoInstance, bool) {
	inst := GizmoInstance{Color: g.Color, EndColor: g.EndColor}
	if g.Type != scene.GizmoLine {
		inst.ModelMat = g.ModelMatrix
		return inst, true
	}

	wp1 := g.ModelMatrix.Mul4x1(g.P1.Vec4(1.0)).Vec3()
	wp2 := g.ModelMatrix.Mul4x1(g.P2.Vec4(1.0)).Vec3()
	diff := wp2.Sub(wp1)
	dist := diff.Len()
	if dist < 0.0001 {
		return inst, false
	}

	// Rotation that maps Z+ (unit line axis) to dir
	rot := mgl32.QuatBetweenVectors(mgl32.Vec3{0, 0, 1}, diff.Mul(1/dist))
	inst.ModelMat = mgl32.Translate3D(wp1.X(), wp1.Y(), wp1.Z()).
		Mul4(rot.Mat4()).
		Mul4(mgl32.Scale3D(1, 1, dist))
	return inst, true
}

// packGizmos appends instances grouped by shape and returns the draw ranges.
func packGizmos(dst []GizmoInstance, gizmos []scene.Gizmo) ([]GizmoInstance, []gizmoRange) {
	var ranges []gizmoRange
	for _, shape := range gizmoShapes {
		first := uint32(len(dst))
		for _, g := range gizmos {
			if g.Type != shape {
				continue
			}
			if inst, ok := gizmoInstance(g); ok {
				dst = append(dst, inst)
			}
		}
		if n := uint32(len(dst)) - first; n > 0 {
			ranges = append(ranges, gizmoRange{shape: shape, first: first, count: n})
		}
	}
	return dst, ranges
}

func (p *GizmoRenderPass) Update(queue *wgpu.Queue, depthTested, overlay []scene.Gizmo) error {
	p.scratch = p.scratch[:0]
	p.scratch, p.depthRanges = packGizmos(p.scratch, depthTested)
	p.scratch, p.overlayRanges = packGizmos(p.scratch, overlay)
	return p.instances.write(queue, asBytes(p.scratch))
}

// Draw records the depth tested gizmos.
func (p *GizmoRenderPass) Draw(pass *wgpu.RenderPassEncoder, cameraBindGroup *wgpu.BindGroup) {
	p.draw(pass, cameraBindGroup, p.Pipeline, p.depthRanges)
}

// DrawOverlay records the gizmos that ignore depth. Record it last.
func (p *GizmoRenderPass) DrawOverlay(pass *wgpu.RenderPassEncoder, cameraBindGroup *wgpu.BindGroup) {
	p.draw(pass, cameraBindGroup, p.OverlayPipeline, p.overlayRanges)
}

func (p *GizmoRenderPass) draw(pass *wgpu.RenderPassEncoder, cameraBindGroup *wgpu.BindGroup, pipeline *wgpu.RenderPipeline, ranges []gizmoRange) {
	if p.instances.buffer == nil || len(ranges) == 0 {
		return
	}

	pass.SetPipeline(pipeline)
	pass.SetBindGroup(0, cameraBindGroup, nil)
	pass.SetVertexBuffer(0, p.VertexBuffer, 0, p.VertexBuffer.GetSize())
	pass.SetVertexBuffer(1, p.instances.buffer, 0, p.instances.buffer.GetSize())

	for _, r := range ranges {
		pass.Draw(p.ShapeCounts[r.shape], r.count, p.ShapeOffsets[r.shape], r.first)
	}
}

func (p *GizmoRenderPass) CreateBindGroup(camera *CameraBuffer) (*wgpu.BindGroup, error) {
	return camera.BindGroup(p.Device, p.Pipeline, "GizmoCameraBG")
}

func (p *GizmoRenderPass) Release() {
	p.instances.release()
	if p.VertexBuffer != nil {
		p.VertexBuffer.Release()
	}
}
