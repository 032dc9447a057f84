package gpu

import (
	"unsafe"

	"github.com/cogentcore/webgpu/wgpu"
	"github.com/gekko3d/lightviz/scene"
	"github.com/go-gl/mathgl/mgl32"
)

// CameraUniform matches the Camera struct shared by all shaders.
type CameraUniform struct {
	ViewProj mgl32.Mat4
	Right    [4]float32
	Up       [4]float32
	Position [4]float32
}

const cameraUniformSize = uint64(unsafe.Sizeof(CameraUniform{}))

// clipCorrection maps OpenGL style depth [-1,1] into WebGPU's [0,1].
var clipCorrection = mgl32.Mat4{
	1, 0, 0, 0,
	0, 1, 0, 0,
	0, 0, 0.5, 0,
	0, 0, 0.5, 1,
}

func NewCameraUniform(cam *scene.Camera, aspect float32) CameraUniform {
	vp := clipCorrection.Mul4(cam.GetProjectionMatrix(aspect)).Mul4(cam.GetViewMatrix())
	r, u, p := cam.GetRight(), cam.GetUp(), cam.Position()
	return CameraUniform{
		ViewProj: vp,
		Right:    [4]float32{r.X(), r.Y(), r.Z(), 0},
		Up:       [4]float32{u.X(), u.Y(), u.Z(), 0},
		Position: [4]float32{p.X(), p.Y(), p.Z(), 1},
	}
}

// CameraBuffer owns the uniform buffer bound at group 0 of every pass.
type CameraBuffer struct {
	Buffer *wgpu.Buffer
}

func NewCameraBuffer(device *wgpu.Device) (*CameraBuffer, error) {
	buf, err := device.CreateBuffer(&wgpu.BufferDescriptor{
		Label: "CameraUniform",
		Size:  cameraUniformSize,
		Usage: wgpu.BufferUsageUniform | wgpu.BufferUsageCopyDst,
	})
	if err != nil {
		return nil, err
	}
	return &CameraBuffer{Buffer: buf}, nil
}

func (c *CameraBuffer) Update(queue *wgpu.Queue, u CameraUniform) {
	queue.WriteBuffer(c.Buffer, 0, asBytes([]CameraUniform{u}))
}

// BindGroup binds the camera buffer against group 0 of pipeline.
func (c *CameraBuffer) BindGroup(device *wgpu.Device, pipeline *wgpu.RenderPipeline, label string) (*wgpu.BindGroup, error) {
	return device.CreateBindGroup(&wgpu.BindGroupDescriptor{
		Label:  label,
		Layout: pipeline.GetBindGroupLayout(0),
		Entries: []wgpu.BindGroupEntry{
			{
				Binding: 0,
				Buffer:  c.Buffer,
				Size:    cameraUniformSize,
			},
		},
	})
}

func (c *CameraBuffer) Release() {
	if c.Buffer != nil {
		c.Buffer.Release()
	}
}
