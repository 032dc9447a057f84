package lightviz

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestResolve_NilOverrides(t *testing.T) {
	d := SpotDefaults()
	assert.Equal(t, d, Resolve(d, nil))
	assert.Equal(t, d, Resolve(d, &Overrides{}))
}

func TestResolve_PresentKeysWin(t *testing.T) {
	d := DirectionalDefaults()
	c := Resolve(d, &Overrides{
		TrackTarget:    Bool(true),
		RenderDirArrow: Bool(false),
		PThickness:     Float(40),
	})

	assert.True(t, c.TrackTarget)
	assert.False(t, c.RenderDirArrow)
	assert.Equal(t, float32(40), c.PThickness)

	// untouched keys keep their defaults
	assert.Equal(t, d.LightIconScale, c.LightIconScale)
	assert.Equal(t, d.EnableEffectiveRadius, c.EnableEffectiveRadius)
	assert.Equal(t, d.DisableTargetMatrixUpdate, c.DisableTargetMatrixUpdate)
}

func TestResolve_Idempotent(t *testing.T) {
	overrides := []*Overrides{
		nil,
		{},
		{MinOpacity: Float(0.5)},
		{EnableMap: Bool(false), ConeRadialSegments: Int(12), RenderAboveAll: Bool(true)},
		{PThickness: Float(150), ReferenceIntensity: Float(-1)},
	}
	for _, d := range []Config{PointDefaults(), DirectionalDefaults(), SpotDefaults()} {
		for _, o := range overrides {
			once := Resolve(d, o)
			twice := Resolve(d, once.Overrides())
			assert.Equal(t, once, twice)
		}
	}
}

func TestDefaults_PerKind(t *testing.T) {
	p := PointDefaults()
	assert.Equal(t, float32(0.15), p.LightIconScale)
	assert.True(t, p.EnableEffectiveRadius)
	assert.True(t, p.EnableLightColor)
	assert.Equal(t, float32(0.25), p.MinOpacity)

	d := DirectionalDefaults()
	assert.True(t, d.RenderDirArrow)
	assert.False(t, d.TrackTarget)
	assert.False(t, d.DisableTargetMatrixUpdate)

	s := SpotDefaults()
	assert.True(t, s.RenderDirArrow)
	assert.False(t, s.RenderAboveAll)
	assert.Equal(t, 4, s.ConeRadialSegments)
	assert.True(t, s.EnableMap)
}

func TestConfig_ClampedAccessors(t *testing.T) {
	c := Config{ConeRadialSegments: 1, LightIconScale: -2}
	assert.Equal(t, 3, c.coneSegments())
	assert.Equal(t, float32(0), c.iconScale())
}

func TestParseOverrideSet(t *testing.T) {
	doc := []byte(`
point:
  minOpacity: 0.5
  lightIconScale: 0.3
directional:
  trackTarget: true
spot:
  enableMap: false
  coneRadialSegments: 16
`)
	set, err := ParseOverrideSet(doc)
	require.NoError(t, err)

	p := Resolve(PointDefaults(), set.For(LightTypePoint))
	assert.Equal(t, float32(0.5), p.MinOpacity)
	assert.Equal(t, float32(0.3), p.LightIconScale)
	assert.True(t, p.EnableEffectiveRadius)

	d := Resolve(DirectionalDefaults(), set.For(LightTypeDirectional))
	assert.True(t, d.TrackTarget)

	s := Resolve(SpotDefaults(), set.For(LightTypeSpot))
	assert.False(t, s.EnableMap)
	assert.Equal(t, 16, s.ConeRadialSegments)

	assert.Nil(t, set.For(LightTypeAmbient))
}

func TestParseOverrideSet_Invalid(t *testing.T) {
	_, err := ParseOverrideSet([]byte("point: [1, 2"))
	assert.Error(t, err)

	_, err = ParseOverrideSet([]byte("point:\n  minOpacity: lots\n"))
	assert.Error(t, err)
}

func TestLoadOverrideSet(t *testing.T) {
	path := filepath.Join(t.TempDir(), "helpers.yaml")
	require.NoError(t, os.WriteFile(path, []byte("spot:\n  renderAboveAll: true\n"), 0o644))

	set, err := LoadOverrideSet(path)
	require.NoError(t, err)
	require.NotNil(t, set.Spot)
	assert.True(t, *set.Spot.RenderAboveAll)
	assert.Nil(t, set.Point)

	_, err = LoadOverrideSet(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.Error(t, err)
}

func TestOverrideSet_NilReceiver(t *testing.T) {
	var set *OverrideSet
	assert.Nil(t, set.For(LightTypePoint))
}
