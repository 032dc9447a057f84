package scene

import (
	"github.com/gekko3d/lightviz"
	"github.com/gekko3d/lightviz/assets"
)

// Engine builds scene objects for light helpers. Textures come from the
// asset server.
type Engine struct {
	Assets *assets.Server
	logger lightviz.Logger
}

func NewEngine(server *assets.Server, logger lightviz.Logger) *Engine {
	if logger == nil {
		logger = lightviz.NewNopLogger()
	}
	return &Engine{Assets: server, logger: logger}
}

var _ lightviz.Engine = (*Engine)(nil)

func (e *Engine) LoadTexture(path string) (lightviz.Texture, error) {
	tex, err := e.Assets.LoadTexture(path)
	if err != nil {
		return nil, err
	}
	e.logger.Debugf("loaded texture %s (%dx%d)", path, tex.Width, tex.Height)
	return tex, nil
}

// assetTexture unwraps a texture handle; foreign or nil handles draw blank.
func (e *Engine) assetTexture(tex lightviz.Texture) *assets.Texture {
	if tex == nil {
		return nil
	}
	t, ok := tex.(*assets.Texture)
	if !ok {
		e.logger.Warnf("texture %T was not created by this engine, drawing blank", tex)
		return nil
	}
	return t
}

func (e *Engine) CreateGroup(name string) lightviz.Node {
	return NewGroup(name)
}

func (e *Engine) CreateBillboardSprite(tex lightviz.Texture, scale float32) lightviz.Sprite {
	return NewSprite(e.assetTexture(tex), scale)
}

func (e *Engine) CreateRingOverlay(size float32, params lightviz.RingParams) lightviz.RingOverlay {
	return NewRing(size, params)
}

func (e *Engine) CreateDirectionIndicator(length, headSize, thickness float32) lightviz.DirectionIndicator {
	return NewArrow(length, headSize, thickness)
}

func (e *Engine) CreateCone(radius, height float32, segments int, apexColor, baseColor [3]float32) lightviz.Node {
	return NewCone(radius, height, segments, apexColor, baseColor)
}

func (e *Engine) CreateTexturePlane(tex lightviz.Texture, size float32) lightviz.Node {
	return NewPlane(e.assetTexture(tex), size)
}

func (e *Engine) CreateTargetMarker(radius float32) lightviz.Node {
	return NewMarker(radius)
}

func (e *Engine) AttachChild(parent, child lightviz.Node) {
	p, c := objectOf(parent), objectOf(child)
	if p == nil || c == nil {
		e.logger.Errorf("attach %T to %T: not a scene object", child, parent)
		return
	}
	p.Add(c)
}

func (e *Engine) RemoveChild(parent, child lightviz.Node) {
	p, c := objectOf(parent), objectOf(child)
	if p == nil || c == nil {
		return
	}
	p.Remove(c)
}
