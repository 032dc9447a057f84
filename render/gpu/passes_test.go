package gpu

import (
	"testing"
	"unsafe"

	"github.com/gekko3d/lightviz"
	"github.com/gekko3d/lightviz/assets"
	"github.com/gekko3d/lightviz/scene"
	"github.com/go-gl/mathgl/mgl32"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func line(p1, p2 mgl32.Vec3) scene.Gizmo {
	return scene.Gizmo{
		Type:        scene.GizmoLine,
		Color:       [4]float32{1, 0, 0, 1},
		EndColor:    [4]float32{0, 0, 1, 1},
		ModelMatrix: mgl32.Ident4(),
		P1:          p1,
		P2:          p2,
	}
}

func circle(m mgl32.Mat4) scene.Gizmo {
	return scene.Gizmo{Type: scene.GizmoCircle, Color: [4]float32{0, 1, 0, 1}, ModelMatrix: m}
}

func TestInstanceLayouts(t *testing.T) {
	assert.Equal(t, uintptr(96), unsafe.Sizeof(GizmoInstance{}))
	assert.Equal(t, uintptr(96), unsafe.Sizeof(SpriteInstance{}))
	assert.Equal(t, uintptr(48), unsafe.Sizeof(RingInstance{}))
	assert.Equal(t, uint64(112), cameraUniformSize)
}

func TestGizmoInstanceStretchesUnitLine(t *testing.T) {
	inst, ok := gizmoInstance(line(mgl32.Vec3{1, 2, 3}, mgl32.Vec3{1, 2, 7}))
	require.True(t, ok)

	start := inst.ModelMat.Mul4x1(mgl32.Vec4{0, 0, 0, 1})
	end := inst.ModelMat.Mul4x1(mgl32.Vec4{0, 0, 1, 1})
	assert.InDeltaSlice(t, []float32{1, 2, 3, 1}, start[:], 1e-5)
	assert.InDeltaSlice(t, []float32{1, 2, 7, 1}, end[:], 1e-5)
	assert.Equal(t, [4]float32{1, 0, 0, 1}, inst.Color)
	assert.Equal(t, [4]float32{0, 0, 1, 1}, inst.EndColor)
}

func TestGizmoInstanceAppliesModelMatrix(t *testing.T) {
	g := line(mgl32.Vec3{0, 0, 0}, mgl32.Vec3{1, 0, 0})
	g.ModelMatrix = mgl32.Translate3D(0, 5, 0)

	inst, ok := gizmoInstance(g)
	require.True(t, ok)
	end := inst.ModelMat.Mul4x1(mgl32.Vec4{0, 0, 1, 1})
	assert.InDeltaSlice(t, []float32{1, 5, 0, 1}, end[:], 1e-5)
}

func TestGizmoInstanceSkipsDegenerateLine(t *testing.T) {
	_, ok := gizmoInstance(line(mgl32.Vec3{1, 1, 1}, mgl32.Vec3{1, 1, 1}))
	assert.False(t, ok)
}

func TestGizmoInstanceCircleKeepsModel(t *testing.T) {
	m := mgl32.Translate3D(3, 3, 0).Mul4(mgl32.Scale3D(0.2, 0.2, 0.2))
	inst, ok := gizmoInstance(circle(m))
	require.True(t, ok)
	assert.Equal(t, m, inst.ModelMat)
}

func TestPackGizmosGroupsByShape(t *testing.T) {
	gizmos := []scene.Gizmo{
		circle(mgl32.Ident4()),
		line(mgl32.Vec3{}, mgl32.Vec3{0, 1, 0}),
		line(mgl32.Vec3{}, mgl32.Vec3{}),
		line(mgl32.Vec3{}, mgl32.Vec3{1, 0, 0}),
	}

	out, ranges := packGizmos(nil, gizmos)
	require.Len(t, out, 3)
	require.Len(t, ranges, 2)
	assert.Equal(t, gizmoRange{shape: scene.GizmoLine, first: 0, count: 2}, ranges[0])
	assert.Equal(t, gizmoRange{shape: scene.GizmoCircle, first: 2, count: 1}, ranges[1])

	// a second batch appends after the first
	out, ranges = packGizmos(out, []scene.Gizmo{circle(mgl32.Ident4())})
	require.Len(t, out, 4)
	assert.Equal(t, []gizmoRange{{shape: scene.GizmoCircle, first: 3, count: 1}}, ranges)
}

func TestPackGizmosEmpty(t *testing.T) {
	out, ranges := packGizmos(nil, nil)
	assert.Empty(t, out)
	assert.Empty(t, ranges)
}

func TestRingInstance(t *testing.T) {
	inst := ringInstance(scene.RingDraw{
		Center: mgl32.Vec3{1, 2, 3},
		Size:   4,
		Params: lightviz.RingParams{
			InnerRadius:     0.3,
			OuterRadius:     0.48,
			Color:           [3]float32{1, 0.5, 0.25},
			IntensityFactor: 0.7,
		},
	})
	assert.Equal(t, [4]float32{1, 2, 3, 4}, inst.CenterSize)
	assert.Equal(t, [4]float32{1, 0.5, 0.25, 0.7}, inst.ColorIntensity)
	assert.Equal(t, [4]float32{0.3, 0.48, 0, 0}, inst.Radii)
}

func TestRingInstanceKeepsBrightIntensity(t *testing.T) {
	inst := ringInstance(scene.RingDraw{Params: lightviz.RingParams{Color: [3]float32{1, 1, 1}, IntensityFactor: 3}})
	assert.Equal(t, float32(3), inst.ColorIntensity[3])
}

func TestBatchSpritesByTexture(t *testing.T) {
	server := assets.NewServer("")
	a := server.CreateTexture(make([]uint8, 4), 1, 1, assets.TextureFormatRGBA8Unorm)
	b := server.CreateTexture(make([]uint8, 4), 1, 1, assets.TextureFormatRGBA8Unorm)

	draws := []scene.SpriteDraw{
		{Texture: a, Model: mgl32.Translate3D(1, 0, 0), Billboard: true},
		{Texture: b, Model: mgl32.Translate3D(2, 0, 0)},
		{Texture: nil},
		{Texture: a, Model: mgl32.Translate3D(3, 0, 0), Billboard: true},
	}

	out, batches := batchSprites(nil, draws)
	require.Len(t, out, 3)
	require.Len(t, batches, 2)

	assert.Same(t, a, batches[0].texture)
	assert.Equal(t, uint32(0), batches[0].first)
	assert.Equal(t, uint32(2), batches[0].count)
	assert.Same(t, b, batches[1].texture)
	assert.Equal(t, uint32(2), batches[1].first)
	assert.Equal(t, uint32(1), batches[1].count)

	assert.Equal(t, float32(3), out[1].Model.At(0, 3))
	assert.Equal(t, float32(1), out[1].Flags[0])
	assert.Equal(t, float32(0), out[2].Flags[0])
}

func TestCameraUniformBasis(t *testing.T) {
	cam := scene.NewCamera()
	u := NewCameraUniform(cam, 16.0/9.0)

	right := mgl32.Vec3{u.Right[0], u.Right[1], u.Right[2]}
	up := mgl32.Vec3{u.Up[0], u.Up[1], u.Up[2]}
	assert.InDelta(t, 1, right.Len(), 1e-5)
	assert.InDelta(t, 1, up.Len(), 1e-5)
	assert.InDelta(t, 0, right.Dot(up), 1e-5)
	assert.Equal(t, float32(1), u.Position[3])

	// the orbit center projects to the middle of the screen within [0,1] depth
	clip := u.ViewProj.Mul4x1(cam.Center.Vec4(1))
	ndc := clip.Vec3().Mul(1 / clip.W())
	assert.InDelta(t, 0, ndc.X(), 1e-4)
	assert.InDelta(t, 0, ndc.Y(), 1e-4)
	assert.Greater(t, ndc.Z(), float32(0))
	assert.Less(t, ndc.Z(), float32(1))
}

func TestAsBytes(t *testing.T) {
	assert.Nil(t, asBytes[RingInstance](nil))
	b := asBytes([]RingInstance{{}, {}})
	assert.Len(t, b, 96)
}
