package lightviz

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// Config is the fully resolved set of visual options of one helper. It is
// fixed at construction; changing it means building a new helper.
//
// Out-of-range values are accepted here and clamped where they are used.
type Config struct {
	LightIconScale            float32 `yaml:"lightIconScale"`
	EnableEffectiveRadius     bool    `yaml:"enableEffectiveRadius"`
	EnableLightColor          bool    `yaml:"enableLightColor"`
	RenderDirArrow            bool    `yaml:"renderDirArrow"`
	RenderAboveAll            bool    `yaml:"renderAboveAll"`
	TrackTarget               bool    `yaml:"trackTarget"`
	DisableTargetMatrixUpdate bool    `yaml:"disableTargetMatrixUpdate"`
	// PThickness is the ring band width in percent of its radius:
	// 0 draws a hairline, 100 a filled disk.
	PThickness         float32 `yaml:"pthickness"`
	MinOpacity         float32 `yaml:"minOpacity"`
	ConeRadialSegments int     `yaml:"coneRadialSegments"`
	EnableMap          bool    `yaml:"enableMap"`
	EnableBadges       bool    `yaml:"enableBadges"`
	ReferenceIntensity float32 `yaml:"referenceIntensity"`
	RadiusScale        float32 `yaml:"radiusScale"`
}

// Overrides is a partial Config. Nil fields keep the default.
type Overrides struct {
	LightIconScale            *float32 `yaml:"lightIconScale,omitempty"`
	EnableEffectiveRadius     *bool    `yaml:"enableEffectiveRadius,omitempty"`
	EnableLightColor          *bool    `yaml:"enableLightColor,omitempty"`
	RenderDirArrow            *bool    `yaml:"renderDirArrow,omitempty"`
	RenderAboveAll            *bool    `yaml:"renderAboveAll,omitempty"`
	TrackTarget               *bool    `yaml:"trackTarget,omitempty"`
	DisableTargetMatrixUpdate *bool    `yaml:"disableTargetMatrixUpdate,omitempty"`
	PThickness                *float32 `yaml:"pthickness,omitempty"`
	MinOpacity                *float32 `yaml:"minOpacity,omitempty"`
	ConeRadialSegments        *int     `yaml:"coneRadialSegments,omitempty"`
	EnableMap                 *bool    `yaml:"enableMap,omitempty"`
	EnableBadges              *bool    `yaml:"enableBadges,omitempty"`
	ReferenceIntensity        *float32 `yaml:"referenceIntensity,omitempty"`
	RadiusScale               *float32 `yaml:"radiusScale,omitempty"`
}

func Bool(v bool) *bool        { return &v }
func Float(v float32) *float32 { return &v }
func Int(v int) *int           { return &v }

func baseDefaults() Config {
	return Config{
		LightIconScale:        0.15,
		EnableEffectiveRadius: true,
		EnableLightColor:      true,
		PThickness:            1,
		MinOpacity:            0.25,
		EnableBadges:          true,
		ReferenceIntensity:    DefaultReferenceIntensity,
		RadiusScale:           DefaultRadiusScale,
	}
}

func PointDefaults() Config {
	return baseDefaults()
}

func DirectionalDefaults() Config {
	c := baseDefaults()
	c.RenderDirArrow = true
	return c
}

func SpotDefaults() Config {
	c := baseDefaults()
	c.RenderDirArrow = true
	c.ConeRadialSegments = 4
	c.EnableMap = true
	return c
}

// Resolve merges overrides over defaults key by key. A nil overrides pointer
// returns defaults unchanged.
func Resolve(defaults Config, overrides *Overrides) Config {
	c := defaults
	if overrides == nil {
		return c
	}
	o := overrides
	setF(&c.LightIconScale, o.LightIconScale)
	setB(&c.EnableEffectiveRadius, o.EnableEffectiveRadius)
	setB(&c.EnableLightColor, o.EnableLightColor)
	setB(&c.RenderDirArrow, o.RenderDirArrow)
	setB(&c.RenderAboveAll, o.RenderAboveAll)
	setB(&c.TrackTarget, o.TrackTarget)
	setB(&c.DisableTargetMatrixUpdate, o.DisableTargetMatrixUpdate)
	setF(&c.PThickness, o.PThickness)
	setF(&c.MinOpacity, o.MinOpacity)
	if o.ConeRadialSegments != nil {
		c.ConeRadialSegments = *o.ConeRadialSegments
	}
	setB(&c.EnableMap, o.EnableMap)
	setB(&c.EnableBadges, o.EnableBadges)
	setF(&c.ReferenceIntensity, o.ReferenceIntensity)
	setF(&c.RadiusScale, o.RadiusScale)
	return c
}

func setF(dst *float32, src *float32) {
	if src != nil {
		*dst = *src
	}
}

func setB(dst *bool, src *bool) {
	if src != nil {
		*dst = *src
	}
}

// Overrides returns an Overrides with every key set to c's value, so that
// resolving it against any defaults reproduces c.
func (c Config) Overrides() *Overrides {
	return &Overrides{
		LightIconScale:            Float(c.LightIconScale),
		EnableEffectiveRadius:     Bool(c.EnableEffectiveRadius),
		EnableLightColor:          Bool(c.EnableLightColor),
		RenderDirArrow:            Bool(c.RenderDirArrow),
		RenderAboveAll:            Bool(c.RenderAboveAll),
		TrackTarget:               Bool(c.TrackTarget),
		DisableTargetMatrixUpdate: Bool(c.DisableTargetMatrixUpdate),
		PThickness:                Float(c.PThickness),
		MinOpacity:                Float(c.MinOpacity),
		ConeRadialSegments:        Int(c.ConeRadialSegments),
		EnableMap:                 Bool(c.EnableMap),
		EnableBadges:              Bool(c.EnableBadges),
		ReferenceIntensity:        Float(c.ReferenceIntensity),
		RadiusScale:               Float(c.RadiusScale),
	}
}

// coneSegments clamps the radial segment count to something drawable.
func (c Config) coneSegments() int {
	if c.ConeRadialSegments < 3 {
		return 3
	}
	return c.ConeRadialSegments
}

func (c Config) iconScale() float32 {
	if !(c.LightIconScale > 0) {
		return 0
	}
	return c.LightIconScale
}

// OverrideSet holds per-kind overrides as read from a YAML document:
//
//	point:
//	  minOpacity: 0.5
//	spot:
//	  enableMap: false
type OverrideSet struct {
	Point       *Overrides `yaml:"point,omitempty"`
	Directional *Overrides `yaml:"directional,omitempty"`
	Spot        *Overrides `yaml:"spot,omitempty"`
}

// For returns the overrides for a light type, or nil.
func (s *OverrideSet) For(t LightType) *Overrides {
	if s == nil {
		return nil
	}
	switch t {
	case LightTypePoint:
		return s.Point
	case LightTypeDirectional:
		return s.Directional
	case LightTypeSpot:
		return s.Spot
	}
	return nil
}

func ParseOverrideSet(data []byte) (*OverrideSet, error) {
	var set OverrideSet
	if err := yaml.Unmarshal(data, &set); err != nil {
		return nil, fmt.Errorf("failed to parse helper overrides: %w", err)
	}
	return &set, nil
}

func LoadOverrideSet(path string) (*OverrideSet, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read helper overrides: %w", err)
	}
	return ParseOverrideSet(data)
}
