package lightviz

import "github.com/go-gl/mathgl/mgl32"

type LightType uint32

const (
	LightTypePoint       LightType = 0
	LightTypeDirectional LightType = 1
	LightTypeSpot        LightType = 2
	LightTypeAmbient     LightType = 3
)

func (t LightType) String() string {
	switch t {
	case LightTypePoint:
		return "point"
	case LightTypeDirectional:
		return "directional"
	case LightTypeSpot:
		return "spot"
	case LightTypeAmbient:
		return "ambient"
	}
	return "unknown"
}

// LightSnapshot is the state of a host light read once per frame.
type LightSnapshot struct {
	Type      LightType
	Position  mgl32.Vec3 // world
	Rotation  mgl32.Quat // world
	Color     [3]float32 // RGB
	Intensity float32

	// HasTarget is set when the light has a target, attached or not.
	HasTarget      bool
	TargetPosition mgl32.Vec3 // world

	CastShadow bool
	Map        Texture // projected texture, spot only; may be nil
	Angle      float32 // cone angle in radians, spot only
	Distance   float32 // cutoff distance, 0 means unbounded
}

// Capabilities describes which optional visual features a light kind can carry.
type Capabilities struct {
	HasTarget          bool // direction indicator, target badge and tracker
	HasCone            bool // wireframe cone and projected-map plane
	HasDistanceFalloff bool // icon opacity follows intensity
}

// Icon names a texture by logical cache key and the path it is loaded from.
type Icon struct {
	Key  string
	Path string
}

var (
	PointIcon       = Icon{Key: "point-light", Path: "icons/pointlight.png"}
	DirectionalIcon = Icon{Key: "directional-light", Path: "icons/dirlight.png"}
	SpotIcon        = Icon{Key: "spot-light", Path: "icons/spotlight.png"}
	ShadowBadgeIcon = Icon{Key: "badge-shadows", Path: "icons/has_shadows_indicator.png"}
	TargetBadgeIcon = Icon{Key: "badge-target", Path: "icons/has_added_target.png"}
)

// Kind bundles everything the generic Helper needs to know about one light type.
type Kind struct {
	Type     LightType
	Name     string // root node name
	Icon     Icon
	Caps     Capabilities
	Defaults Config
}

var (
	PointKind = Kind{
		Type:     LightTypePoint,
		Name:     "POINTLIGHTHELPER",
		Icon:     PointIcon,
		Caps:     Capabilities{HasDistanceFalloff: true},
		Defaults: PointDefaults(),
	}
	DirectionalKind = Kind{
		Type:     LightTypeDirectional,
		Name:     "DIRLIGHTHELPER",
		Icon:     DirectionalIcon,
		Caps:     Capabilities{HasTarget: true},
		Defaults: DirectionalDefaults(),
	}
	SpotKind = Kind{
		Type:     LightTypeSpot,
		Name:     "SPLIGHTHELPER",
		Icon:     SpotIcon,
		Caps:     Capabilities{HasTarget: true, HasCone: true},
		Defaults: SpotDefaults(),
	}
)

// KindOf returns the helper kind for a light type. Ambient lights have none.
func KindOf(t LightType) (Kind, bool) {
	switch t {
	case LightTypePoint:
		return PointKind, true
	case LightTypeDirectional:
		return DirectionalKind, true
	case LightTypeSpot:
		return SpotKind, true
	}
	return Kind{}, false
}
