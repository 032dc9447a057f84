package gpu

import (
	"unsafe"

	"github.com/cogentcore/webgpu/wgpu"
	"github.com/gekko3d/lightviz/render/shaders"
	"github.com/gekko3d/lightviz/scene"
)

// RingInstance matches the WGSL RingInstance attributes.
type RingInstance struct {
	CenterSize     [4]float32
	ColorIntensity [4]float32
	Radii          [4]float32
}

// RingRenderPass draws falloff rings as camera-facing quads.
type RingRenderPass struct {
	Pipeline *wgpu.RenderPipeline
	Device   *wgpu.Device

	instances instanceBuffer
	count     uint32
	scratch   []RingInstance
}

func NewRingRenderPass(device *wgpu.Device, format wgpu.TextureFormat) (*RingRenderPass, error) {
	shaderModule, err := device.CreateShaderModule(&wgpu.ShaderModuleDescriptor{
		Label:          "RingShader",
		WGSLDescriptor: &wgpu.ShaderModuleWGSLDescriptor{Code: shaders.RingWGSL},
	})
	if err != nil {
		return nil, err
	}

	bgl, err := device.CreateBindGroupLayout(&wgpu.BindGroupLayoutDescriptor{
		Label:   "RingCameraBGL",
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

	pipeline, err := device.CreateRenderPipeline(&wgpu.RenderPipelineDescriptor{
		Label:  "RingPipeline",
		Layout: pipelineLayout,
		Vertex: wgpu.VertexState{
			Module:     shaderModule,
			EntryPoint: "vs_main",
			Buffers: []wgpu.VertexBufferLayout{
				{
					ArrayStride: uint64(unsafe.Sizeof(RingInstance{})),
					StepMode:    wgpu.VertexStepModeInstance,
					Attributes: []wgpu.VertexAttribute{
						{Format: wgpu.VertexFormatFloat32x4, Offset: 0, ShaderLocation: 0},
						{Format: wgpu.VertexFormatFloat32x4, Offset: 16, ShaderLocation: 1},
						{Format: wgpu.VertexFormatFloat32x4, Offset: 32, ShaderLocation: 2},
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
			Topology:  wgpu.PrimitiveTopologyTriangleList,
			FrontFace: wgpu.FrontFaceCCW,
			CullMode:  wgpu.CullModeNone,
		},
		// rings are translucent: test against depth but never occlude
		DepthStencil: depthState(true, false),
		Multisample: wgpu.MultisampleState{
			Count: 1,
			Mask:  0xFFFFFFFF,
		},
	})
	if err != nil {
		return nil, err
	}

	return &RingRenderPass{
		Pipeline:  pipeline,
		Device:    device,
		instances: instanceBuffer{label: "RingInstanceBuffer", device: device},
	}, nil
}

func ringInstance(r scene.RingDraw) RingInstance {
	return RingInstance{
		CenterSize:     [4]float32{r.Center.X(), r.Center.Y(), r.Center.Z(), r.Size},
		ColorIntensity: [4]float32{r.Params.Color[0], r.Params.Color[1], r.Params.Color[2], r.Params.IntensityFactor},
		Radii:          [4]float32{r.Params.InnerRadius, r.Params.OuterRadius, 0, 0},
	}
}

func (p *RingRenderPass) Update(queue *wgpu.Queue, rings []scene.RingDraw) error {
	p.scratch = p.scratch[:0]
	for _, r := range rings {
		p.scratch = append(p.scratch, ringInstance(r))
	}
	p.count = uint32(len(p.scratch))
	return p.instances.write(queue, asBytes(p.scratch))
}

func (p *RingRenderPass) Draw(pass *wgpu.RenderPassEncoder, cameraBindGroup *wgpu.BindGroup) {
	if p.count == 0 || p.instances.buffer == nil {
		return
	}
	pass.SetPipeline(p.Pipeline)
	pass.SetBindGroup(0, cameraBindGroup, nil)
	pass.SetVertexBuffer(0, p.instances.buffer, 0, p.instances.buffer.GetSize())
	pass.Draw(6, p.count, 0, 0)
}

func (p *RingRenderPass) CreateBindGroup(camera *CameraBuffer) (*wgpu.BindGroup, error) {
	return camera.BindGroup(p.Device, p.Pipeline, "RingCameraBG")
}

func (p *RingRenderPass) Release() {
	p.instances.release()
}
