package gpu

import (
	"unsafe"

	"github.com/cogentcore/webgpu/wgpu"
)

// DepthFormat is the format of the depth attachment every pass renders with.
const DepthFormat = wgpu.TextureFormatDepth24Plus

var alphaBlend = &wgpu.BlendState{
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
}

// depthState tests against the shared depth buffer. Passing test=false
// draws on top of everything.
func depthState(test, write bool) *wgpu.DepthStencilState {
	compare := wgpu.CompareFunctionLess
	if !test {
		compare = wgpu.CompareFunctionAlways
	}
	return &wgpu.DepthStencilState{
		Format:            DepthFormat,
		DepthWriteEnabled: write,
		DepthCompare:      compare,
		StencilFront: wgpu.StencilFaceState{
			Compare: wgpu.CompareFunctionAlways,
		},
		StencilBack: wgpu.StencilFaceState{
			Compare: wgpu.CompareFunctionAlways,
		},
	}
}

func cameraLayoutEntry() wgpu.BindGroupLayoutEntry {
	return wgpu.BindGroupLayoutEntry{
		Binding:    0,
		Visibility: wgpu.ShaderStageVertex,
		Buffer: wgpu.BufferBindingLayout{
			Type:           wgpu.BufferBindingTypeUniform,
			MinBindingSize: cameraUniformSize,
		},
	}
}

func asBytes[T any](items []T) []byte {
	if len(items) == 0 {
		return nil
	}
	size := len(items) * int(unsafe.Sizeof(items[0]))
	return unsafe.Slice((*byte)(unsafe.Pointer(&items[0])), size)
}

// instanceBuffer grows to fit and never shrinks.
type instanceBuffer struct {
	label  string
	device *wgpu.Device
	buffer *wgpu.Buffer
	cap    uint64
}

func (b *instanceBuffer) write(queue *wgpu.Queue, data []byte) error {
	if len(data) == 0 {
		return nil
	}
	size := uint64(len(data))
	if b.buffer == nil || b.cap < size {
		if b.buffer != nil {
			b.buffer.Release()
		}
		b.cap = size + size/2 + 256
		buf, err := b.device.CreateBuffer(&wgpu.BufferDescriptor{
			Label: b.label,
			Size:  b.cap,
			Usage: wgpu.BufferUsageVertex | wgpu.BufferUsageCopyDst,
		})
		if err != nil {
			b.buffer = nil
			b.cap = 0
			return err
		}
		b.buffer = buf
	}
	queue.WriteBuffer(b.buffer, 0, data)
	return nil
}

func (b *instanceBuffer) release() {
	if b.buffer != nil {
		b.buffer.Release()
		b.buffer = nil
		b.cap = 0
	}
}
