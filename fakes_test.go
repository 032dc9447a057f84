package lightviz

import (
	"errors"
	"testing"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/stretchr/testify/assert"
)

type fakeTexture struct {
	path string
}

func (t *fakeTexture) Size() (uint32, uint32) { return 16, 16 }

type fakeNode struct {
	kind     string
	name     string
	position mgl32.Vec3
	rotation mgl32.Quat
	parent   *fakeNode
	children []*fakeNode

	// sprite
	texture Texture
	scale   float32
	opacity float32
	tint    [4]float32

	// ring
	size   float32
	params RingParams

	// indicator
	length, headSize, thickness float32
	arrowVisible                bool
	depthTest                   bool

	// cone
	radius, height float32
	segments       int
	apex, base     [3]float32
}

func newFakeNode(kind string) *fakeNode {
	return &fakeNode{kind: kind, rotation: mgl32.QuatIdent()}
}

func (n *fakeNode) SetLocalPosition(p mgl32.Vec3) { n.position = p }
func (n *fakeNode) SetLocalRotation(q mgl32.Quat) { n.rotation = q }
func (n *fakeNode) SetOpacity(o float32)          { n.opacity = o }
func (n *fakeNode) SetTint(rgba [4]float32)       { n.tint = rgba }
func (n *fakeNode) SetSize(s float32)             { n.size = s }
func (n *fakeNode) SetParams(p RingParams)        { n.params = p }
func (n *fakeNode) SetOrientation(q mgl32.Quat)   { n.rotation = q }
func (n *fakeNode) SetArrowVisible(v bool)        { n.arrowVisible = v }
func (n *fakeNode) SetDepthTest(v bool)           { n.depthTest = v }

func (n *fakeNode) childrenOfKind(kind string) []*fakeNode {
	var res []*fakeNode
	for _, c := range n.children {
		if c.kind == kind {
			res = append(res, c)
		}
	}
	return res
}

// fakeEngine records every node it hands out.
type fakeEngine struct {
	loads   map[string]int
	missing map[string]bool
	created int
}

func newFakeEngine() *fakeEngine {
	return &fakeEngine{loads: make(map[string]int), missing: make(map[string]bool)}
}

func (e *fakeEngine) LoadTexture(path string) (Texture, error) {
	e.loads[path]++
	if e.missing[path] {
		return nil, errors.New("file not found")
	}
	return &fakeTexture{path: path}, nil
}

func (e *fakeEngine) node(kind string) *fakeNode {
	e.created++
	return newFakeNode(kind)
}

func (e *fakeEngine) CreateGroup(name string) Node {
	n := e.node("group")
	n.name = name
	return n
}

func (e *fakeEngine) CreateBillboardSprite(tex Texture, scale float32) Sprite {
	n := e.node("sprite")
	n.texture = tex
	n.scale = scale
	n.opacity = 1
	n.tint = [4]float32{1, 1, 1, 1}
	return n
}

func (e *fakeEngine) CreateRingOverlay(size float32, params RingParams) RingOverlay {
	n := e.node("ring")
	n.size = size
	n.params = params
	return n
}

func (e *fakeEngine) CreateDirectionIndicator(length, headSize, thickness float32) DirectionIndicator {
	n := e.node("arrow")
	n.length, n.headSize, n.thickness = length, headSize, thickness
	n.arrowVisible = true
	n.depthTest = true
	return n
}

func (e *fakeEngine) CreateCone(radius, height float32, segments int, apex, base [3]float32) Node {
	n := e.node("cone")
	n.radius, n.height, n.segments = radius, height, segments
	n.apex, n.base = apex, base
	return n
}

func (e *fakeEngine) CreateTexturePlane(tex Texture, size float32) Node {
	n := e.node("plane")
	n.texture = tex
	n.size = size
	return n
}

func (e *fakeEngine) CreateTargetMarker(radius float32) Node {
	n := e.node("marker")
	n.radius = radius
	return n
}

func (e *fakeEngine) AttachChild(parent, child Node) {
	p, c := parent.(*fakeNode), child.(*fakeNode)
	c.parent = p
	p.children = append(p.children, c)
}

func (e *fakeEngine) RemoveChild(parent, child Node) {
	p, c := parent.(*fakeNode), child.(*fakeNode)
	for i, n := range p.children {
		if n == c {
			p.children = append(p.children[:i], p.children[i+1:]...)
			c.parent = nil
			return
		}
	}
}

type fakeTarget struct {
	parent       *fakeNode
	position     mgl32.Vec3
	matrixWrites int
}

func (t *fakeTarget) Parent() Node {
	if t.parent == nil {
		return nil
	}
	return t.parent
}
func (t *fakeTarget) LocalPosition() mgl32.Vec3 { return t.position }
func (t *fakeTarget) UpdateWorldMatrix()        { t.matrixWrites++ }

type fakeLight struct {
	snap   LightSnapshot
	target *fakeTarget
}

func (l *fakeLight) Snapshot() LightSnapshot {
	s := l.snap
	if l.target != nil {
		s.HasTarget = true
		s.TargetPosition = l.target.position
	}
	return s
}

func (l *fakeLight) Target() Target {
	if l.target == nil {
		return nil
	}
	return l.target
}

func newPointLight(intensity float32) *fakeLight {
	return &fakeLight{snap: LightSnapshot{
		Type:      LightTypePoint,
		Rotation:  mgl32.QuatIdent(),
		Color:     [3]float32{1, 0.5, 0.25},
		Intensity: intensity,
	}}
}

func newTargetedLight(t LightType, targetPos mgl32.Vec3) *fakeLight {
	return &fakeLight{
		snap: LightSnapshot{
			Type:      t,
			Rotation:  mgl32.QuatIdent(),
			Color:     [3]float32{0.2, 0.4, 1},
			Intensity: 1,
			Angle:     mgl32.DegToRad(30),
		},
		target: &fakeTarget{parent: newFakeNode("group"), position: targetPos},
	}
}

func assertVecNear(t *testing.T, want, got mgl32.Vec3, delta float64, msgAndArgs ...any) {
	t.Helper()
	for i := range want {
		assert.InDelta(t, want[i], got[i], delta, msgAndArgs...)
	}
}

// assertQuatNear treats q and -q as the same rotation.
func assertQuatNear(t *testing.T, want, got mgl32.Quat, delta float64, msgAndArgs ...any) {
	t.Helper()
	if want.Dot(got) < 0 {
		got = got.Scale(-1)
	}
	assert.InDelta(t, want.W, got.W, delta, msgAndArgs...)
	assertVecNear(t, want.V, got.V, delta, msgAndArgs...)
}
