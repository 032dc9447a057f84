package scene

import (
	"github.com/gekko3d/lightviz"
	"github.com/gekko3d/lightviz/assets"
)

// Light is a scene light. Directional and spot lights aim at Target, which
// must be part of the scene for the light to have a direction.
type Light struct {
	*Object
	Type       lightviz.LightType
	Color      [3]float32
	Intensity  float32
	CastShadow bool

	// spot only
	Angle    float32
	Distance float32
	Map      *assets.Texture

	target *Object
}

func NewLight(t lightviz.LightType, color [3]float32, intensity float32) *Light {
	return &Light{
		Object:    NewGroup(t.String() + "-light"),
		Type:      t,
		Color:     color,
		Intensity: intensity,
	}
}

func NewPointLight(color [3]float32, intensity float32) *Light {
	return NewLight(lightviz.LightTypePoint, color, intensity)
}

// NewDirectionalLight creates the light with a fresh, detached target object.
func NewDirectionalLight(color [3]float32, intensity float32) *Light {
	l := NewLight(lightviz.LightTypeDirectional, color, intensity)
	l.target = NewGroup("target")
	return l
}

func NewSpotLight(color [3]float32, intensity, angle, distance float32) *Light {
	l := NewLight(lightviz.LightTypeSpot, color, intensity)
	l.Angle = angle
	l.Distance = distance
	l.target = NewGroup("target")
	return l
}

func (l *Light) TargetObject() *Object { return l.target }

func (l *Light) SetTargetObject(target *Object) { l.target = target }

func (l *Light) Target() lightviz.Target {
	if l.target == nil {
		return nil
	}
	return l.target
}

// Snapshot reads world-space state by walking the parent chains, so it is
// valid even before this frame's UpdateWorld.
func (l *Light) Snapshot() lightviz.LightSnapshot {
	world := l.ComputeWorld()
	snap := lightviz.LightSnapshot{
		Type:       l.Type,
		Position:   world.Position,
		Rotation:   world.Rotation,
		Color:      l.Color,
		Intensity:  l.Intensity,
		CastShadow: l.CastShadow,
		Angle:      l.Angle,
		Distance:   l.Distance,
	}
	if l.Map != nil {
		snap.Map = l.Map
	}
	if l.target != nil {
		snap.HasTarget = true
		snap.TargetPosition = l.target.ComputeWorld().Position
	}
	return snap
}
