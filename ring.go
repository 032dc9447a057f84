package lightviz

const (
	// RingOuterRadius is the outer edge in the overlay's normalized space.
	RingOuterRadius float32 = 1.0
	// RingEdgeWidth matches the smoothstep width of the ring shader; the
	// band is never thinner than this.
	RingEdgeWidth float32 = 0.01
)

var white = [3]float32{1, 1, 1}

// RingParams are the shader inputs of a ring overlay. Radii live in the
// overlay's unit space; the overlay geometry itself is sized to the
// effective radius.
type RingParams struct {
	InnerRadius     float32
	OuterRadius     float32
	Color           [3]float32
	IntensityFactor float32
}

// BuildRingParams derives ring shader inputs. thicknessPercent is clamped to
// [0,100] and the inner radius to [0, outer-RingEdgeWidth].
func BuildRingParams(cfg Config, lightColor [3]float32, intensity, thicknessPercent float32) RingParams {
	t := clamp(thicknessPercent, 0, 100)
	outer := RingOuterRadius
	inner := clamp(outer*(100-t)/100, 0, outer-RingEdgeWidth)

	color := white
	if cfg.EnableLightColor {
		color = lightColor
	}

	return RingParams{
		InnerRadius:     inner,
		OuterRadius:     outer,
		Color:           color,
		IntensityFactor: SpriteOpacity(intensity, cfg.MinOpacity),
	}
}

// clamp maps NaN to lo.
func clamp(v, lo, hi float32) float32 {
	if !(v > lo) {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
