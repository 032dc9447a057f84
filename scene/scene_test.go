package scene

import (
	"image/color"
	"testing"

	"github.com/gekko3d/lightviz"
	"github.com/gekko3d/lightviz/assets"
	"github.com/go-gl/mathgl/mgl32"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestScene(t *testing.T) (*Scene, *assets.Server) {
	t.Helper()
	server := assets.NewServer(t.TempDir())
	for _, icon := range []lightviz.Icon{
		lightviz.PointIcon, lightviz.DirectionalIcon, lightviz.SpotIcon,
		lightviz.ShadowBadgeIcon, lightviz.TargetBadgeIcon,
	} {
		server.Register(icon.Path, server.CreateDisc(8, 0, 1, color.RGBA{255, 255, 255, 255}))
	}
	return New(NewEngine(server, nil), nil), server
}

func vecNear(a, b mgl32.Vec3, delta float32) bool {
	for i := range a {
		if d := a[i] - b[i]; d > delta || d < -delta {
			return false
		}
	}
	return true
}

func assertVecNear(t *testing.T, want, got mgl32.Vec3, delta float32, msgAndArgs ...any) {
	t.Helper()
	assert.True(t, vecNear(want, got, delta), append([]any{"want %v got %v", want, got}, msgAndArgs...)...)
}

func testOpts() []lightviz.Option {
	return []lightviz.Option{lightviz.WithTextureCache(lightviz.NewTextureCache())}
}

func TestCompose(t *testing.T) {
	parent := NewTransform()
	parent.Position = mgl32.Vec3{1, 0, 0}
	parent.Rotation = mgl32.QuatRotate(mgl32.DegToRad(90), mgl32.Vec3{0, 1, 0})
	parent.Scale = mgl32.Vec3{2, 2, 2}

	local := NewTransform()
	local.Position = mgl32.Vec3{1, 0, 0}

	world := Compose(parent, local)
	assertVecNear(t, mgl32.Vec3{1, 0, -2}, world.Position, 1e-5, "got %v", world.Position)
	assert.Equal(t, mgl32.Vec3{2, 2, 2}, world.Scale)

	// the matrix form agrees with the propagated components
	p := world.ObjectToWorld().Mul4x1(mgl32.Vec4{0, 0, 0, 1})
	assertVecNear(t, world.Position, p.Vec3(), 1e-5)
	x := world.ObjectToWorld().Mul4x1(mgl32.Vec4{1, 0, 0, 1})
	assertVecNear(t, mgl32.Vec3{1, 0, -4}, x.Vec3(), 1e-5, "got %v", x)
}

func TestObject_Hierarchy(t *testing.T) {
	a, b, c := NewGroup("a"), NewGroup("b"), NewGroup("c")
	a.Add(c)
	b.Add(c)

	assert.Empty(t, a.Children())
	assert.Equal(t, b, c.ParentObject())
	assert.Same(t, c, b.Find("c"))
	assert.Nil(t, a.Find("c"))

	c.Detach()
	assert.Nil(t, c.Parent())
	assert.Nil(t, c.ParentObject())
	assert.False(t, b.Remove(c))
}

func TestObject_ParentIsUntypedNil(t *testing.T) {
	var target lightviz.Target = NewGroup("target")
	assert.True(t, target.Parent() == nil)
}

func TestObject_UpdateWorldMatrix(t *testing.T) {
	root, child := NewGroup("root"), NewGroup("child")
	root.Add(child)
	root.SetLocalPosition(mgl32.Vec3{0, 5, 0})
	child.SetLocalPosition(mgl32.Vec3{1, 0, 0})

	assert.Equal(t, mgl32.Vec3{}, child.World().Position)
	child.UpdateWorldMatrix()
	assert.Equal(t, mgl32.Vec3{1, 5, 0}, child.World().Position)
	assert.Equal(t, mgl32.Vec3{1, 5, 0}, child.ComputeWorld().Position)
}

func TestLight_TargetNilForPoint(t *testing.T) {
	l := NewPointLight([3]float32{1, 1, 1}, 1)
	assert.True(t, l.Target() == nil)
	assert.False(t, l.Snapshot().HasTarget)
	assert.Nil(t, l.Snapshot().Map)
}

func TestLight_SnapshotIsWorldSpace(t *testing.T) {
	group := NewGroup("rig")
	group.SetLocalPosition(mgl32.Vec3{0, 2, 0})
	l := NewDirectionalLight([3]float32{1, 1, 1}, 1)
	group.Add(l.Object)
	l.SetLocalPosition(mgl32.Vec3{1, 0, 0})
	l.TargetObject().SetLocalPosition(mgl32.Vec3{1, -3, 0})

	snap := l.Snapshot()
	assert.Equal(t, mgl32.Vec3{1, 2, 0}, snap.Position)
	assert.True(t, snap.HasTarget)
	assert.Equal(t, mgl32.Vec3{1, -3, 0}, snap.TargetPosition)
}

func TestEngine_NilTextureStaysNil(t *testing.T) {
	e := NewEngine(assets.NewServer(""), nil)
	sprite := e.CreateBillboardSprite(nil, 1).(*Sprite)
	assert.Nil(t, sprite.Texture)

	_, err := e.LoadTexture("missing.png")
	assert.Error(t, err)
}

func TestScene_PointLightHelper(t *testing.T) {
	s, _ := newTestScene(t)
	l := NewPointLight([3]float32{1, 0, 0}, 4)
	l.SetLocalPosition(mgl32.Vec3{0, 1, 0})

	h, err := s.AddLight(l, testOpts()...)
	require.NoError(t, err)
	s.Update()

	var dl DrawList
	s.Collect(&dl)
	require.Len(t, dl.Rings, 1)
	assert.Equal(t, mgl32.Vec3{0, 1, 0}, dl.Rings[0].Center)
	assert.InDelta(t, 2.0, dl.Rings[0].Size, 1e-6)
	assert.Equal(t, [3]float32{1, 0, 0}, dl.Rings[0].Params.Color)

	require.Len(t, dl.Sprites, 1)
	assert.True(t, dl.Sprites[0].Billboard)
	assert.Equal(t, float32(1), dl.Sprites[0].Color[3], "opacity above 1 is clamped")
	assert.Empty(t, dl.Gizmos)
	assert.Empty(t, dl.Overlay)
	assert.Equal(t, float32(4), h.Opacity())

	_, err = s.AddLight(l, testOpts()...)
	assert.Error(t, err)
}

func TestScene_UnsupportedLight(t *testing.T) {
	s, _ := newTestScene(t)
	_, err := s.AddLight(NewLight(lightviz.LightTypeAmbient, [3]float32{1, 1, 1}, 1), testOpts()...)
	assert.ErrorIs(t, err, lightviz.ErrUnsupportedLight)
}

func TestScene_DirectionalLightTracksTarget(t *testing.T) {
	s, _ := newTestScene(t)
	rig := NewGroup("rig")
	s.Add(rig)

	l := NewDirectionalLight([3]float32{1, 1, 1}, 1)
	l.SetLocalPosition(mgl32.Vec3{0, 3, 0})
	rig.Add(l.TargetObject())

	h, err := s.AddLight(l, append(testOpts(), lightviz.WithOverrides(&lightviz.Overrides{
		TrackTarget: lightviz.Bool(true),
	}))...)
	require.NoError(t, err)
	require.True(t, h.HasIndicator())
	require.True(t, h.HasTracker())

	markers := 0
	for _, c := range rig.Children() {
		if _, ok := c.drawable.(*Marker); ok {
			markers++
		}
	}
	assert.Equal(t, 1, markers)

	l.TargetObject().SetLocalPosition(mgl32.Vec3{3, 3, 0})
	s.Update()
	assertVecNear(t, mgl32.Vec3{1, 0, 0}, h.Direction(), 1e-5, "direction %v", h.Direction())

	var dl DrawList
	s.Collect(&dl)
	var circles int
	for _, g := range dl.Gizmos {
		if g.Type == GizmoCircle {
			circles++
			assertVecNear(t, mgl32.Vec3{3, 3, 0}, g.ModelMatrix.Col(3).Vec3(), 1e-5)
		}
	}
	assert.Equal(t, 1, circles)

	// the shaft runs from the light towards the target
	var shaft *Gizmo
	for i, g := range dl.Gizmos {
		if g.Type == GizmoLine && vecNear(g.P1, mgl32.Vec3{0, 3, 0}, 1e-5) {
			shaft = &dl.Gizmos[i]
			break
		}
	}
	require.NotNil(t, shaft)
	// length is the effective radius at construction, minus the head
	assert.InDelta(t, 0.95, float64(shaft.P2.X()), 1e-4)
	assert.InDelta(t, 3.0, float64(shaft.P2.Y()), 1e-4)

	s.RemoveLight(l)
	assert.Empty(t, rig.Children()[1:], "tracker marker is removed with the helper")
	assert.Len(t, s.Lights(), 0)
	assert.True(t, h.Disposed())
}

func TestScene_SpotLightAboveAll(t *testing.T) {
	s, server := newTestScene(t)
	l := NewSpotLight([3]float32{0, 1, 0}, 1, mgl32.DegToRad(30), 0)
	l.SetLocalPosition(mgl32.Vec3{0, 2, 0})
	l.Map = server.CreateChecker(4, 2, color.RGBA{A: 255}, color.RGBA{255, 255, 255, 255})

	h, err := s.AddLight(l, append(testOpts(), lightviz.WithOverrides(&lightviz.Overrides{
		RenderAboveAll: lightviz.Bool(true),
	}))...)
	require.NoError(t, err)
	require.True(t, h.HasMapPlane())
	s.Update()

	var dl DrawList
	s.Collect(&dl)
	// only the target marker stays depth tested
	require.Len(t, dl.Gizmos, 1)
	assert.Equal(t, GizmoCircle, dl.Gizmos[0].Type)
	// arrow: shaft + 4 offset shaft lines + 4 head lines; cone: 2 lines per segment
	assert.Len(t, dl.Overlay, 9+2*4)

	var planes int
	for _, sp := range dl.Sprites {
		if !sp.Billboard {
			planes++
			assert.Same(t, l.Map, sp.Texture)
		}
	}
	assert.Equal(t, 1, planes)

	dl.Reset()
	assert.Empty(t, dl.Overlay)
	assert.Empty(t, dl.Sprites)
}

func TestScene_HiddenSubtreeIsSkipped(t *testing.T) {
	s, _ := newTestScene(t)
	l := NewPointLight([3]float32{1, 1, 1}, 1)
	h, err := s.AddLight(l, testOpts()...)
	require.NoError(t, err)
	s.Update()

	objectOf(h.Node()).Visible = false
	var dl DrawList
	s.Collect(&dl)
	assert.Empty(t, dl.Rings)
	assert.Empty(t, dl.Sprites)
}

func TestCone_BasePoints(t *testing.T) {
	c := NewCone(2, 3, 1, [3]float32{1, 1, 1}, [3]float32{1, 0, 0})
	pts := c.BasePoints()
	require.Len(t, pts, 3)
	for _, p := range pts {
		assert.InDelta(t, 3.0, p.Y(), 1e-6)
		assert.InDelta(t, 2.0, mgl32.Vec2{p.X(), p.Z()}.Len(), 1e-5)
	}
}

func TestCamera(t *testing.T) {
	c := NewCamera()
	c.Orbit(0, 10)
	assert.Less(t, c.Pitch, float32(1.6))

	fwd := c.GetForward()
	assert.InDelta(t, 1.0, fwd.Len(), 1e-5)
	assert.InDelta(t, 0.0, fwd.Dot(c.GetRight()), 1e-5)
	assert.InDelta(t, 0.0, fwd.Dot(c.GetUp()), 1e-5)

	before := c.Distance
	c.Zoom(0.5)
	assert.InDelta(t, before*0.5, c.Distance, 1e-5)
}
