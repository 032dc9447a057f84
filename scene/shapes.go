package scene

import (
	"math"

	"github.com/gekko3d/lightviz"
	"github.com/gekko3d/lightviz/assets"
	"github.com/go-gl/mathgl/mgl32"
)

var (
	up    = mgl32.Vec3{0, 1, 0}
	white = [4]float32{1, 1, 1, 1}
)

// Sprite is a camera-facing textured quad Scale units wide.
type Sprite struct {
	*Object
	Texture *assets.Texture
	Scale   float32
	Opacity float32
	Tint    [4]float32
}

func NewSprite(tex *assets.Texture, scale float32) *Sprite {
	s := &Sprite{
		Object:  NewGroup("sprite"),
		Texture: tex,
		Scale:   scale,
		Opacity: 1,
		Tint:    white,
	}
	s.drawable = s
	return s
}

func (s *Sprite) SetOpacity(opacity float32) { s.Opacity = opacity }
func (s *Sprite) SetTint(rgba [4]float32)    { s.Tint = rgba }

func (s *Sprite) collect(world Transform, overlay bool, dl *DrawList) bool {
	if s.Texture == nil {
		return overlay
	}
	half := s.Scale * 0.5 * world.Scale.X()
	model := mgl32.Translate3D(world.Position.X(), world.Position.Y(), world.Position.Z()).
		Mul4(mgl32.Scale3D(half, half, half))
	color := s.Tint
	color[3] *= clamp01(s.Opacity)
	dl.Sprites = append(dl.Sprites, SpriteDraw{
		Texture:   s.Texture,
		Model:     model,
		Color:     color,
		Billboard: true,
	})
	return overlay
}

// Ring is the billboarded falloff ring; Size is its world radius.
type Ring struct {
	*Object
	Size   float32
	Params lightviz.RingParams
}

func NewRing(size float32, params lightviz.RingParams) *Ring {
	r := &Ring{Object: NewGroup("ring"), Size: size, Params: params}
	r.drawable = r
	return r
}

func (r *Ring) SetSize(size float32)                 { r.Size = size }
func (r *Ring) SetParams(params lightviz.RingParams) { r.Params = params }

func (r *Ring) collect(world Transform, overlay bool, dl *DrawList) bool {
	if !(r.Size > 0) {
		return overlay
	}
	dl.Rings = append(dl.Rings, RingDraw{
		Center: world.Position,
		Size:   r.Size * world.Scale.X(),
		Params: r.Params,
	})
	return overlay
}

// Arrow is a line arrow along +Y. Turning off depth testing moves it and its
// children to the overlay list.
type Arrow struct {
	*Object
	Length    float32
	HeadSize  float32
	Thickness float32
	Color     [4]float32
	ShowArrow bool
	DepthTest bool
}

func NewArrow(length, headSize, thickness float32) *Arrow {
	a := &Arrow{
		Object:    NewGroup("arrow"),
		Length:    length,
		HeadSize:  headSize,
		Thickness: thickness,
		Color:     white,
		ShowArrow: true,
		DepthTest: true,
	}
	a.drawable = a
	return a
}

func (a *Arrow) SetOrientation(q mgl32.Quat)  { a.Transform.Rotation = q }
func (a *Arrow) SetArrowVisible(visible bool) { a.ShowArrow = visible }
func (a *Arrow) SetDepthTest(enabled bool)    { a.DepthTest = enabled }

func (a *Arrow) collect(world Transform, overlay bool, dl *DrawList) bool {
	overlay = overlay || !a.DepthTest
	if !a.ShowArrow || !(a.Length > 0) {
		return overlay
	}
	m := world.ObjectToWorld()
	at := func(p mgl32.Vec3) mgl32.Vec3 { return m.Mul4x1(p.Vec4(1)).Vec3() }

	head := a.HeadSize
	if head > a.Length {
		head = a.Length
	}
	tip := up.Mul(a.Length)
	neck := up.Mul(a.Length - head)

	// the shaft is drawn as a bundle of parallel lines Thickness apart
	dl.addLine(overlay, at(mgl32.Vec3{}), at(neck), a.Color, a.Color)
	if a.Thickness > 0 {
		for _, off := range []mgl32.Vec3{{a.Thickness, 0, 0}, {-a.Thickness, 0, 0}, {0, 0, a.Thickness}, {0, 0, -a.Thickness}} {
			dl.addLine(overlay, at(off), at(neck.Add(off)), a.Color, a.Color)
		}
	}
	for _, side := range []mgl32.Vec3{{1, 0, 0}, {-1, 0, 0}, {0, 0, 1}, {0, 0, -1}} {
		dl.addLine(overlay, at(tip), at(neck.Add(side.Mul(head*0.5))), a.Color, a.Color)
	}
	return overlay
}

// Cone is a wireframe cone along +Y with its apex at the origin.
type Cone struct {
	*Object
	Radius    float32
	Height    float32
	Segments  int
	ApexColor [3]float32
	BaseColor [3]float32
}

func NewCone(radius, height float32, segments int, apex, base [3]float32) *Cone {
	if segments < 3 {
		segments = 3
	}
	c := &Cone{
		Object:    NewGroup("cone"),
		Radius:    radius,
		Height:    height,
		Segments:  segments,
		ApexColor: apex,
		BaseColor: base,
	}
	c.drawable = c
	return c
}

// BasePoints returns the rim vertices in local space.
func (c *Cone) BasePoints() []mgl32.Vec3 {
	pts := make([]mgl32.Vec3, c.Segments)
	step := 2 * math.Pi / float64(c.Segments)
	for i := range pts {
		a := float64(i) * step
		pts[i] = mgl32.Vec3{
			c.Radius * float32(math.Cos(a)),
			c.Height,
			c.Radius * float32(math.Sin(a)),
		}
	}
	return pts
}

func (c *Cone) collect(world Transform, overlay bool, dl *DrawList) bool {
	m := world.ObjectToWorld()
	at := func(p mgl32.Vec3) mgl32.Vec3 { return m.Mul4x1(p.Vec4(1)).Vec3() }
	apex, base := rgba(c.ApexColor, 1), rgba(c.BaseColor, 1)

	origin := at(mgl32.Vec3{})
	pts := c.BasePoints()
	for i, p := range pts {
		next := pts[(i+1)%len(pts)]
		dl.addLine(overlay, origin, at(p), apex, base)
		dl.addLine(overlay, at(p), at(next), base, base)
	}
	return overlay
}

// Plane is a textured square Size units wide in the local XY plane.
type Plane struct {
	*Object
	Texture *assets.Texture
	Size    float32
}

func NewPlane(tex *assets.Texture, size float32) *Plane {
	p := &Plane{Object: NewGroup("plane"), Texture: tex, Size: size}
	p.drawable = p
	return p
}

func (p *Plane) collect(world Transform, overlay bool, dl *DrawList) bool {
	if p.Texture == nil || !(p.Size > 0) {
		return overlay
	}
	half := p.Size * 0.5
	dl.Sprites = append(dl.Sprites, SpriteDraw{
		Texture: p.Texture,
		Model:   world.ObjectToWorld().Mul4(mgl32.Scale3D(half, half, 1)),
		Color:   white,
	})
	return overlay
}

// Marker is a circle of Radius in the local XY plane.
type Marker struct {
	*Object
	Radius float32
	Color  [4]float32
}

func NewMarker(radius float32) *Marker {
	m := &Marker{Object: NewGroup("marker"), Radius: radius, Color: white}
	m.drawable = m
	return m
}

func (m *Marker) collect(world Transform, overlay bool, dl *DrawList) bool {
	model := world.ObjectToWorld().Mul4(mgl32.Scale3D(m.Radius, m.Radius, m.Radius))
	dl.addCircle(overlay, model, m.Color)
	return overlay
}

func clamp01(v float32) float32 {
	if !(v > 0) {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}
