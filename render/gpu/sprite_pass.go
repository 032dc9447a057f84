package gpu

import (
	"fmt"
	"unsafe"

	"github.com/cogentcore/webgpu/wgpu"
	"github.com/gekko3d/lightviz/assets"
	"github.com/gekko3d/lightviz/render/shaders"
	"github.com/gekko3d/lightviz/scene"
	"github.com/go-gl/mathgl/mgl32"
)

// SpriteInstance matches the WGSL SpriteInstance attributes.
type SpriteInstance struct {
	Model mgl32.Mat4
	Color [4]float32
	Flags [4]float32 // x: billboard
}

type gpuTexture struct {
	texture   *wgpu.Texture
	view      *wgpu.TextureView
	bindGroup *wgpu.BindGroup
	version   uint
}

func (t *gpuTexture) release() {
	if t.bindGroup != nil {
		t.bindGroup.Release()
	}
	if t.view != nil {
		t.view.Release()
	}
	if t.texture != nil {
		t.texture.Release()
	}
}

type spriteBatch struct {
	texture *assets.Texture
	first   uint32
	count   uint32
}

// SpritePass draws icons, badges and projected map planes. Textures are
// uploaded on first use and again whenever their asset version changes.
type SpritePass struct {
	Pipeline *wgpu.RenderPipeline
	Sampler  *wgpu.Sampler
	Device   *wgpu.Device

	textures  map[assets.AssetId]*gpuTexture
	instances instanceBuffer
	batches   []spriteBatch
	scratch   []SpriteInstance
}

func NewSpritePass(device *wgpu.Device, format wgpu.TextureFormat) (*SpritePass, error) {
	shaderModule, err := device.CreateShaderModule(&wgpu.ShaderModuleDescriptor{
		Label:          "SpriteShader",
		WGSLDescriptor: &wgpu.ShaderModuleWGSLDescriptor{Code: shaders.SpriteWGSL},
	})
	if err != nil {
		return nil, err
	}

	cameraBGL, err := device.CreateBindGroupLayout(&wgpu.BindGroupLayoutDescriptor{
		Label:   "SpriteCameraBGL",
		Entries: []wgpu.BindGroupLayoutEntry{cameraLayoutEntry()},
	})
	if err != nil {
		return nil, err
	}
	textureBGL, err := device.CreateBindGroupLayout(&wgpu.BindGroupLayoutDescriptor{
		Label: "SpriteTextureBGL",
		Entries: []wgpu.BindGroupLayoutEntry{
			{
				Binding:    0,
				Visibility: wgpu.ShaderStageFragment,
				Texture: wgpu.TextureBindingLayout{
					SampleType:    wgpu.TextureSampleTypeFloat,
					ViewDimension: wgpu.TextureViewDimension2D,
				},
			},
			{
				Binding:    1,
				Visibility: wgpu.ShaderStageFragment,
				Sampler: wgpu.SamplerBindingLayout{
					Type: wgpu.SamplerBindingTypeFiltering,
				},
			},
		},
	})
	if err != nil {
		return nil, err
	}

	pipelineLayout, err := device.CreatePipelineLayout(&wgpu.PipelineLayoutDescriptor{
		BindGroupLayouts: []*wgpu.BindGroupLayout{cameraBGL, textureBGL},
	})
	if err != nil {
		return nil, err
	}

	pipeline, err := device.CreateRenderPipeline(&wgpu.RenderPipelineDescriptor{
		Label:  "SpritePipeline",
		Layout: pipelineLayout,
		Vertex: wgpu.VertexState{
			Module:     shaderModule,
			EntryPoint: "vs_main",
			Buffers: []wgpu.VertexBufferLayout{
				{
					ArrayStride: uint64(unsafe.Sizeof(SpriteInstance{})),
					StepMode:    wgpu.VertexStepModeInstance,
					Attributes: []wgpu.VertexAttribute{
						{Format: wgpu.VertexFormatFloat32x4, Offset: 0, ShaderLocation: 0},
						{Format: wgpu.VertexFormatFloat32x4, Offset: 16, ShaderLocation: 1},
						{Format: wgpu.VertexFormatFloat32x4, Offset: 32, ShaderLocation: 2},
						{Format: wgpu.VertexFormatFloat32x4, Offset: 48, ShaderLocation: 3},
						{Format: wgpu.VertexFormatFloat32x4, Offset: 64, ShaderLocation: 4},
						{Format: wgpu.VertexFormatFloat32x4, Offset: 80, ShaderLocation: 5},
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
		DepthStencil: depthState(true, false),
		Multisample: wgpu.MultisampleState{
			Count: 1,
			Mask:  0xFFFFFFFF,
		},
	})
	if err != nil {
		return nil, err
	}

	sampler, err := device.CreateSampler(&wgpu.SamplerDescriptor{
		Label:         "SpriteSampler",
		AddressModeU:  wgpu.AddressModeClampToEdge,
		AddressModeV:  wgpu.AddressModeClampToEdge,
		AddressModeW:  wgpu.AddressModeClampToEdge,
		MagFilter:     wgpu.FilterModeLinear,
		MinFilter:     wgpu.FilterModeLinear,
		MipmapFilter:  wgpu.MipmapFilterModeNearest,
		MaxAnisotropy: 1,
	})
	if err != nil {
		return nil, err
	}

	return &SpritePass{
		Pipeline:  pipeline,
		Sampler:   sampler,
		Device:    device,
		textures:  make(map[assets.AssetId]*gpuTexture),
		instances: instanceBuffer{label: "SpriteInstanceBuffer", device: device},
	}, nil
}

func spriteInstance(d scene.SpriteDraw) SpriteInstance {
	inst := SpriteInstance{Model: d.Model, Color: d.Color}
	if d.Billboard {
		inst.Flags[0] = 1
	}
	return inst
}

// batchSprites groups draws by texture in order of first appearance.
func batchSprites(dst []SpriteInstance, draws []scene.SpriteDraw) ([]SpriteInstance, []spriteBatch) {
	var order []*assets.Texture
	groups := make(map[*assets.Texture][]scene.SpriteDraw)
	for _, d := range draws {
		if d.Texture == nil {
			continue
		}
		if _, ok := groups[d.Texture]; !ok {
			order = append(order, d.Texture)
		}
		groups[d.Texture] = append(groups[d.Texture], d)
	}

	batches := make([]spriteBatch, 0, len(order))
	for _, tex := range order {
		first := uint32(len(dst))
		for _, d := range groups[tex] {
			dst = append(dst, spriteInstance(d))
		}
		batches = append(batches, spriteBatch{texture: tex, first: first, count: uint32(len(dst)) - first})
	}
	return dst, batches
}

func (p *SpritePass) Update(queue *wgpu.Queue, draws []scene.SpriteDraw) error {
	p.scratch = p.scratch[:0]
	p.scratch, p.batches = batchSprites(p.scratch, draws)
	for _, b := range p.batches {
		if _, err := p.upload(queue, b.texture); err != nil {
			return err
		}
	}
	return p.instances.write(queue, asBytes(p.scratch))
}

func (p *SpritePass) upload(queue *wgpu.Queue, tex *assets.Texture) (*gpuTexture, error) {
	cached, ok := p.textures[tex.Id]
	if ok && cached.version == tex.Version {
		return cached, nil
	}
	if tex.Format != assets.TextureFormatRGBA8Unorm {
		return nil, fmt.Errorf("texture %s: unsupported format %#x", tex.Id, uint32(tex.Format))
	}
	if ok {
		cached.release()
	}

	extent := wgpu.Extent3D{Width: tex.Width, Height: tex.Height, DepthOrArrayLayers: 1}
	gt := &gpuTexture{version: tex.Version}
	var err error
	gt.texture, err = p.Device.CreateTexture(&wgpu.TextureDescriptor{
		Label:         "SpriteTexture",
		Usage:         wgpu.TextureUsageTextureBinding | wgpu.TextureUsageCopyDst,
		Dimension:     wgpu.TextureDimension2D,
		Size:          extent,
		Format:        wgpu.TextureFormatRGBA8Unorm,
		MipLevelCount: 1,
		SampleCount:   1,
	})
	if err != nil {
		return nil, fmt.Errorf("create texture %s: %w", tex.Id, err)
	}
	queue.WriteTexture(
		&wgpu.ImageCopyTexture{
			Texture:  gt.texture,
			MipLevel: 0,
			Origin:   wgpu.Origin3D{},
			Aspect:   wgpu.TextureAspectAll,
		},
		tex.Texels,
		&wgpu.TextureDataLayout{
			Offset:       0,
			BytesPerRow:  tex.Width * 4,
			RowsPerImage: tex.Height,
		},
		&extent,
	)
	gt.view, err = gt.texture.CreateView(nil)
	if err != nil {
		gt.release()
		return nil, fmt.Errorf("create view %s: %w", tex.Id, err)
	}
	gt.bindGroup, err = p.Device.CreateBindGroup(&wgpu.BindGroupDescriptor{
		Label:  "SpriteTextureBG",
		Layout: p.Pipeline.GetBindGroupLayout(1),
		Entries: []wgpu.BindGroupEntry{
			{Binding: 0, TextureView: gt.view},
			{Binding: 1, Sampler: p.Sampler},
		},
	})
	if err != nil {
		gt.release()
		return nil, fmt.Errorf("bind texture %s: %w", tex.Id, err)
	}

	p.textures[tex.Id] = gt
	return gt, nil
}

func (p *SpritePass) Draw(pass *wgpu.RenderPassEncoder, cameraBindGroup *wgpu.BindGroup) {
	if len(p.batches) == 0 || p.instances.buffer == nil {
		return
	}
	pass.SetPipeline(p.Pipeline)
	pass.SetBindGroup(0, cameraBindGroup, nil)
	pass.SetVertexBuffer(0, p.instances.buffer, 0, p.instances.buffer.GetSize())
	for _, b := range p.batches {
		gt, ok := p.textures[b.texture.Id]
		if !ok {
			continue
		}
		pass.SetBindGroup(1, gt.bindGroup, nil)
		pass.Draw(6, b.count, 0, b.first)
	}
}

func (p *SpritePass) CreateBindGroup(camera *CameraBuffer) (*wgpu.BindGroup, error) {
	return camera.BindGroup(p.Device, p.Pipeline, "SpriteCameraBG")
}

func (p *SpritePass) Release() {
	for id, t := range p.textures {
		t.release()
		delete(p.textures, id)
	}
	p.instances.release()
	if p.Sampler != nil {
		p.Sampler.Release()
	}
}
