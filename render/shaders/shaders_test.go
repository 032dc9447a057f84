package shaders

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestShadersEmbedded(t *testing.T) {
	for name, src := range map[string]string{"gizmo": GizmoWGSL, "ring": RingWGSL, "sprite": SpriteWGSL} {
		assert.Contains(t, src, "fn vs_main", name)
		assert.Contains(t, src, "fn fs_main", name)
	}
}

func TestRingIntensityScalesColor(t *testing.T) {
	assert.Contains(t, RingWGSL, "in.color_intensity.rgb * in.color_intensity.w, mask)")
	assert.NotContains(t, RingWGSL, "clamp(in.color_intensity.w")
}
