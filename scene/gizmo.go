package scene

import (
	"github.com/gekko3d/lightviz"
	"github.com/gekko3d/lightviz/assets"
	"github.com/go-gl/mathgl/mgl32"
)

type GizmoType int

const (
	GizmoLine GizmoType = iota
	GizmoCircle
)

// Gizmo is a debug wireframe shape.
type Gizmo struct {
	Type GizmoType
	// Color applies at P1 and EndColor at P2; circles use Color only.
	Color       [4]float32
	EndColor    [4]float32
	ModelMatrix mgl32.Mat4

	// For Line: P1 is Start, P2 is End, both in world space.
	P1, P2 mgl32.Vec3
}

// SpriteDraw is a textured quad. Billboards face the camera and are centered
// at Model's translation with Model's X scale as half size; planes use Model
// as is over the unit quad in the XY plane.
type SpriteDraw struct {
	Texture   *assets.Texture
	Model     mgl32.Mat4
	Color     [4]float32
	Billboard bool
}

type RingDraw struct {
	Center mgl32.Vec3
	Size   float32
	Params lightviz.RingParams
}

// DrawList is everything the renderer needs for one frame.
type DrawList struct {
	Sprites []SpriteDraw
	Rings   []RingDraw
	Gizmos  []Gizmo // depth tested
	Overlay []Gizmo // drawn above everything else
}

// Reset keeps the backing arrays for the next frame.
func (dl *DrawList) Reset() {
	dl.Sprites = dl.Sprites[:0]
	dl.Rings = dl.Rings[:0]
	dl.Gizmos = dl.Gizmos[:0]
	dl.Overlay = dl.Overlay[:0]
}

func (dl *DrawList) addLine(overlay bool, p1, p2 mgl32.Vec3, c1, c2 [4]float32) {
	g := Gizmo{Type: GizmoLine, Color: c1, EndColor: c2, ModelMatrix: mgl32.Ident4(), P1: p1, P2: p2}
	if overlay {
		dl.Overlay = append(dl.Overlay, g)
	} else {
		dl.Gizmos = append(dl.Gizmos, g)
	}
}

func (dl *DrawList) addCircle(overlay bool, model mgl32.Mat4, c [4]float32) {
	g := Gizmo{Type: GizmoCircle, Color: c, EndColor: c, ModelMatrix: model}
	if overlay {
		dl.Overlay = append(dl.Overlay, g)
	} else {
		dl.Gizmos = append(dl.Gizmos, g)
	}
}

func rgba(c [3]float32, a float32) [4]float32 {
	return [4]float32{c[0], c[1], c[2], a}
}
