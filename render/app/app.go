package app

import (
	"fmt"

	"github.com/cogentcore/webgpu/wgpu"
	"github.com/cogentcore/webgpu/wgpuglfw"
	"github.com/gekko3d/lightviz"
	"github.com/gekko3d/lightviz/render/gpu"
	"github.com/gekko3d/lightviz/scene"
	"github.com/go-gl/glfw/v3.3/glfw"
)

// App owns the WebGPU device and draws a scene.DrawList into a glfw window.
type App struct {
	Window   *glfw.Window
	Instance *wgpu.Instance
	Adapter  *wgpu.Adapter
	Device   *wgpu.Device
	Queue    *wgpu.Queue
	Surface  *wgpu.Surface
	Config   *wgpu.SurfaceConfiguration

	DepthTexture *wgpu.Texture
	DepthView    *wgpu.TextureView

	Camera      *gpu.CameraBuffer
	GizmoPass   *gpu.GizmoRenderPass
	RingPass    *gpu.RingRenderPass
	SpritePass  *gpu.SpritePass
	GizmoBG     *wgpu.BindGroup
	RingBG      *wgpu.BindGroup
	SpriteBG    *wgpu.BindGroup
	ClearColor  wgpu.Color
	Profiler    *Profiler
	FrameCount  int
	FPS         float64
	fpsTime     float64
	lastRender  float64
	logger      lightviz.Logger
	frameFailed bool
}

func NewApp(window *glfw.Window, logger lightviz.Logger) *App {
	if logger == nil {
		logger = lightviz.NewNopLogger()
	}
	return &App{
		Window:     window,
		ClearColor: wgpu.Color{R: 0.08, G: 0.08, B: 0.1, A: 1},
		Profiler:   NewProfiler(),
		logger:     logger,
	}
}

func (a *App) Init() error {
	a.Instance = wgpu.CreateInstance(nil)
	a.Surface = a.Instance.CreateSurface(wgpuglfw.GetSurfaceDescriptor(a.Window))

	adapter, err := a.Instance.RequestAdapter(&wgpu.RequestAdapterOptions{
		CompatibleSurface: a.Surface,
		PowerPreference:   wgpu.PowerPreferenceHighPerformance,
	})
	if err != nil {
		return fmt.Errorf("request adapter: %w", err)
	}
	a.Adapter = adapter

	a.Device, err = adapter.RequestDevice(nil)
	if err != nil {
		return fmt.Errorf("request device: %w", err)
	}
	a.Queue = a.Device.GetQueue()

	width, height := a.Window.GetFramebufferSize()
	caps := a.Surface.GetCapabilities(adapter)
	if len(caps.Formats) == 0 || len(caps.AlphaModes) == 0 {
		return fmt.Errorf("surface reports no formats")
	}
	format := caps.Formats[0]

	a.Config = &wgpu.SurfaceConfiguration{
		Usage:       wgpu.TextureUsageRenderAttachment,
		Format:      format,
		Width:       uint32(width),
		Height:      uint32(height),
		PresentMode: wgpu.PresentModeFifo,
		AlphaMode:   caps.AlphaModes[0],
	}
	a.Surface.Configure(adapter, a.Device, a.Config)

	if err := a.setupDepth(uint32(width), uint32(height)); err != nil {
		return err
	}

	a.Camera, err = gpu.NewCameraBuffer(a.Device)
	if err != nil {
		return fmt.Errorf("camera buffer: %w", err)
	}
	if a.GizmoPass, err = gpu.NewGizmoRenderPass(a.Device, format); err != nil {
		return fmt.Errorf("gizmo pass: %w", err)
	}
	if a.RingPass, err = gpu.NewRingRenderPass(a.Device, format); err != nil {
		return fmt.Errorf("ring pass: %w", err)
	}
	if a.SpritePass, err = gpu.NewSpritePass(a.Device, format); err != nil {
		return fmt.Errorf("sprite pass: %w", err)
	}

	if a.GizmoBG, err = a.GizmoPass.CreateBindGroup(a.Camera); err != nil {
		return fmt.Errorf("gizmo bind group: %w", err)
	}
	if a.RingBG, err = a.RingPass.CreateBindGroup(a.Camera); err != nil {
		return fmt.Errorf("ring bind group: %w", err)
	}
	if a.SpriteBG, err = a.SpritePass.CreateBindGroup(a.Camera); err != nil {
		return fmt.Errorf("sprite bind group: %w", err)
	}

	a.logger.Infof("renderer ready: %dx%d format %v", width, height, format)
	return nil
}

func (a *App) setupDepth(w, h uint32) error {
	if a.DepthView != nil {
		a.DepthView.Release()
		a.DepthView = nil
	}
	if a.DepthTexture != nil {
		a.DepthTexture.Release()
		a.DepthTexture = nil
	}

	tex, err := a.Device.CreateTexture(&wgpu.TextureDescriptor{
		Label:         "DepthTexture",
		Usage:         wgpu.TextureUsageRenderAttachment,
		Dimension:     wgpu.TextureDimension2D,
		Size:          wgpu.Extent3D{Width: w, Height: h, DepthOrArrayLayers: 1},
		Format:        gpu.DepthFormat,
		MipLevelCount: 1,
		SampleCount:   1,
	})
	if err != nil {
		return fmt.Errorf("depth texture: %w", err)
	}
	view, err := tex.CreateView(nil)
	if err != nil {
		tex.Release()
		return fmt.Errorf("depth view: %w", err)
	}
	a.DepthTexture, a.DepthView = tex, view
	return nil
}

func (a *App) Resize(w, h int) {
	if w <= 0 || h <= 0 {
		return
	}
	a.Config.Width = uint32(w)
	a.Config.Height = uint32(h)
	a.Surface.Configure(a.Adapter, a.Device, a.Config)
	if err := a.setupDepth(uint32(w), uint32(h)); err != nil {
		a.logger.Errorf("resize %dx%d: %v", w, h, err)
	}
}

func (a *App) Aspect() float32 {
	if a.Config == nil || a.Config.Height == 0 {
		return 1
	}
	return float32(a.Config.Width) / float32(a.Config.Height)
}

// Render draws depth tested gizmos, rings, sprites and finally the overlay
// gizmos on top.
func (a *App) Render(dl *scene.DrawList, cam *scene.Camera) {
	if a.DepthView == nil {
		return
	}

	a.Profiler.CountDrawList(dl)
	a.Profiler.BeginScope("upload")
	err := a.upload(dl, cam)
	a.Profiler.EndScope("upload")
	if err != nil {
		a.logger.Errorf("%v", err)
		return
	}

	a.Profiler.BeginScope("encode")
	defer a.Profiler.EndScope("encode")

	nextTexture, err := a.Surface.GetCurrentTexture()
	if err != nil {
		// log once per failure streak
		if !a.frameFailed {
			a.logger.Warnf("GetCurrentTexture failed: %v", err)
		}
		a.frameFailed = true
		return
	}
	a.frameFailed = false
	defer nextTexture.Release()

	view, err := nextTexture.CreateView(nil)
	if err != nil {
		a.logger.Errorf("CreateView failed: %v", err)
		return
	}
	defer view.Release()

	encoder, err := a.Device.CreateCommandEncoder(nil)
	if err != nil {
		a.logger.Errorf("CreateCommandEncoder failed: %v", err)
		return
	}

	pass := encoder.BeginRenderPass(&wgpu.RenderPassDescriptor{
		ColorAttachments: []wgpu.RenderPassColorAttachment{{
			View:       view,
			LoadOp:     wgpu.LoadOpClear,
			StoreOp:    wgpu.StoreOpStore,
			ClearValue: a.ClearColor,
		}},
		DepthStencilAttachment: &wgpu.RenderPassDepthStencilAttachment{
			View:            a.DepthView,
			DepthLoadOp:     wgpu.LoadOpClear,
			DepthStoreOp:    wgpu.StoreOpStore,
			DepthClearValue: 1.0,
		},
	})
	a.GizmoPass.Draw(pass, a.GizmoBG)
	a.RingPass.Draw(pass, a.RingBG)
	a.SpritePass.Draw(pass, a.SpriteBG)
	a.GizmoPass.DrawOverlay(pass, a.GizmoBG)
	if err := pass.End(); err != nil {
		a.logger.Errorf("render pass End failed: %v", err)
	}

	cmd, err := encoder.Finish(nil)
	if err != nil {
		a.logger.Errorf("encoder Finish failed: %v", err)
		return
	}
	a.Queue.Submit(cmd)
	a.Surface.Present()

	now := glfw.GetTime()
	if a.lastRender > 0 {
		a.FrameCount++
		a.fpsTime += now - a.lastRender
		if a.fpsTime >= 1.0 {
			a.FPS = float64(a.FrameCount) / a.fpsTime
			a.logger.Debugf("fps %.1f %s", a.FPS, a.Profiler)
			a.FrameCount = 0
			a.fpsTime = 0
		}
	}
	a.lastRender = now
}

func (a *App) upload(dl *scene.DrawList, cam *scene.Camera) error {
	a.Camera.Update(a.Queue, gpu.NewCameraUniform(cam, a.Aspect()))
	if err := a.GizmoPass.Update(a.Queue, dl.Gizmos, dl.Overlay); err != nil {
		return fmt.Errorf("gizmo upload: %w", err)
	}
	if err := a.RingPass.Update(a.Queue, dl.Rings); err != nil {
		return fmt.Errorf("ring upload: %w", err)
	}
	if err := a.SpritePass.Update(a.Queue, dl.Sprites); err != nil {
		return fmt.Errorf("sprite upload: %w", err)
	}
	return nil
}

func (a *App) Release() {
	for _, bg := range []*wgpu.BindGroup{a.GizmoBG, a.RingBG, a.SpriteBG} {
		if bg != nil {
			bg.Release()
		}
	}
	if a.SpritePass != nil {
		a.SpritePass.Release()
	}
	if a.RingPass != nil {
		a.RingPass.Release()
	}
	if a.GizmoPass != nil {
		a.GizmoPass.Release()
	}
	if a.Camera != nil {
		a.Camera.Release()
	}
	if a.DepthView != nil {
		a.DepthView.Release()
	}
	if a.DepthTexture != nil {
		a.DepthTexture.Release()
	}
	if a.Device != nil {
		a.Device.Release()
	}
	if a.Surface != nil {
		a.Surface.Release()
	}
	if a.Instance != nil {
		a.Instance.Release()
	}
}
