package lightviz

import "math"

const (
	// DefaultReferenceIntensity is the intensity deemed visually negligible.
	DefaultReferenceIntensity float32 = 0.01
	// DefaultRadiusScale converts falloff distance into scene units.
	DefaultRadiusScale float32 = 10
)

// EffectiveRadius is the distance at which inverse-square falloff brings the
// light down to referenceIntensity, divided by scale:
//
//	r = sqrt(intensity / referenceIntensity) / scale
//
// Non-positive or NaN intensity gives 0. Non-positive reference intensity or
// scale fall back to the defaults.
func EffectiveRadius(intensity, referenceIntensity, scale float32) float32 {
	if !(intensity > 0) {
		return 0
	}
	if !(referenceIntensity > 0) {
		referenceIntensity = DefaultReferenceIntensity
	}
	if !(scale > 0) {
		scale = DefaultRadiusScale
	}
	return float32(math.Sqrt(float64(intensity/referenceIntensity))) / scale
}

// SpriteOpacity floors intensity at minOpacity.
func SpriteOpacity(intensity, minOpacity float32) float32 {
	if intensity > minOpacity {
		return intensity
	}
	return minOpacity
}
