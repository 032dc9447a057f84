package lightviz

import (
	"errors"
	"fmt"
	"math"

	"github.com/go-gl/mathgl/mgl32"
)

var ErrUnsupportedLight = errors.New("lightviz: unsupported light type")

const (
	badgeOffset        float32 = 0.25
	trackerRadius      float32 = 0.1
	arrowHeadSize      float32 = 0.05
	dirArrowThickness  float32 = 0.0075
	spotArrowLength    float32 = 0.75
	spotArrowThickness float32 = 0.005
	maxConeAngle               = math.Pi/2 - 0.01
)

// trackedTint marks the target badge of helpers that track their target.
var trackedTint = [4]float32{117.0 / 255, 180.0 / 255, 252.0 / 255, 1}

type helperState int

const (
	stateConstructed helperState = iota
	stateActive
	stateDisposed
)

func (s helperState) String() string {
	switch s {
	case stateConstructed:
		return "constructed"
	case stateActive:
		return "active"
	case stateDisposed:
		return "disposed"
	}
	return "unknown"
}

type options struct {
	overrides *Overrides
	logger    Logger
	cache     *TextureCache
}

// Option configures a Helper at construction.
type Option func(*options)

// WithOverrides layers o over the kind's default config.
func WithOverrides(o *Overrides) Option {
	return func(opts *options) {
		opts.overrides = o
	}
}

func WithLogger(l Logger) Option {
	return func(opts *options) {
		opts.logger = l
	}
}

// WithTextureCache replaces the process-wide icon cache, mostly for tests.
func WithTextureCache(c *TextureCache) Option {
	return func(opts *options) {
		opts.cache = c
	}
}

// Helper visualizes one light: an icon, an optional falloff ring, optional
// badges and, for lights with a target, a direction indicator and a target
// tracker. All nodes are created by New; Update only mutates them.
type Helper struct {
	kind   Kind
	config Config
	light  LightRef
	target Target
	engine Engine
	logger Logger
	cache  *TextureCache
	state  helperState

	root     Node
	icon     Sprite
	ring     RingOverlay
	arrow    DirectionIndicator
	cone     Node
	mapPlane Node
	badges   []Sprite
	tracker  *targetTracker

	targetAttached bool
	radius         float32
	opacity        float32
	ringParams     RingParams
	direction      mgl32.Vec3
	orientation    mgl32.Quat
}

// New builds the helper for light. Missing optional features (no target,
// no projected map, unloadable icons) are skipped; only a light type without
// a helper kind is an error.
func New(engine Engine, light LightRef, opts ...Option) (*Helper, error) {
	o := options{cache: DefaultTextureCache()}
	for _, opt := range opts {
		opt(&o)
	}

	snap := light.Snapshot()
	kind, ok := KindOf(snap.Type)
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrUnsupportedLight, snap.Type)
	}
	if o.cache == nil {
		o.cache = DefaultTextureCache()
	}

	h := &Helper{
		kind:        kind,
		config:      Resolve(kind.Defaults, o.overrides),
		light:       light,
		engine:      engine,
		logger:      orNop(o.logger),
		cache:       o.cache,
		state:       stateConstructed,
		opacity:     1,
		direction:   Up,
		orientation: mgl32.QuatIdent(),
	}

	if kind.Caps.HasTarget {
		h.target = light.Target()
		h.targetAttached = h.target != nil && h.target.Parent() != nil
	}
	h.radius = h.effectiveRadius(snap.Intensity)

	h.root = engine.CreateGroup(kind.Name)
	h.createIcon(snap)
	h.createRing(snap)
	h.createBadges(snap)
	h.createDirection(snap)
	h.createTracker()

	h.logger.Debugf("%s helper constructed (ring=%t indicator=%t tracker=%t icons cached=%d)",
		kind.Type, h.ring != nil, h.arrow != nil, h.tracker != nil, h.cache.Len())
	return h, nil
}

func (h *Helper) effectiveRadius(intensity float32) float32 {
	return EffectiveRadius(intensity, h.config.ReferenceIntensity, h.config.RadiusScale)
}

func (h *Helper) loadIcon(icon Icon) Texture {
	tex, err := h.cache.Load(h.engine, icon)
	if err != nil {
		h.logger.Warnf("icon %q unavailable, drawing a blank sprite: %v", icon.Key, err)
		return nil
	}
	return tex
}

func (h *Helper) newSprite(icon Icon) Sprite {
	sprite := h.engine.CreateBillboardSprite(h.loadIcon(icon), h.config.iconScale())
	h.engine.AttachChild(h.root, sprite)
	return sprite
}

func (h *Helper) createIcon(snap LightSnapshot) {
	h.icon = h.newSprite(h.kind.Icon)
	if h.kind.Caps.HasDistanceFalloff {
		h.opacity = SpriteOpacity(snap.Intensity, h.config.MinOpacity)
	}
	h.icon.SetOpacity(h.opacity)
}

func (h *Helper) createRing(snap LightSnapshot) {
	if !h.config.EnableEffectiveRadius {
		return
	}
	h.ringParams = BuildRingParams(h.config, snap.Color, snap.Intensity, h.config.PThickness)
	h.ring = h.engine.CreateRingOverlay(h.radius, h.ringParams)
	h.engine.AttachChild(h.root, h.ring)
}

func (h *Helper) createBadges(snap LightSnapshot) {
	if !h.config.EnableBadges {
		return
	}
	if snap.CastShadow {
		badge := h.newSprite(ShadowBadgeIcon)
		badge.SetLocalPosition(mgl32.Vec3{0, -badgeOffset, 0})
		h.badges = append(h.badges, badge)
	}
	if h.targetAttached {
		badge := h.newSprite(TargetBadgeIcon)
		if h.config.TrackTarget {
			badge.SetTint(trackedTint)
		}
		badge.SetLocalPosition(mgl32.Vec3{0, badgeOffset, 0})
		h.badges = append(h.badges, badge)
	}
}

func (h *Helper) createDirection(snap LightSnapshot) {
	if !h.kind.Caps.HasTarget {
		return
	}
	if !h.targetAttached {
		h.logger.Debugf("%s light has no attached target, skipping direction indicator", h.kind.Type)
		return
	}

	length, thickness := h.radius, dirArrowThickness
	if h.kind.Caps.HasCone {
		length, thickness = spotArrowLength, spotArrowThickness
	}
	h.arrow = h.engine.CreateDirectionIndicator(length, arrowHeadSize, thickness)
	h.arrow.SetArrowVisible(h.config.RenderDirArrow)
	h.arrow.SetDepthTest(!h.config.RenderAboveAll)
	h.engine.AttachChild(h.root, h.arrow)

	if h.kind.Caps.HasCone {
		h.createCone(snap)
	}
}

// createCone hangs the spot cone, and the projected map at its base, off the
// indicator so both turn with it.
func (h *Helper) createCone(snap LightSnapshot) {
	height := h.radius
	if snap.Distance > 0 && snap.Distance < height {
		height = snap.Distance
	}
	angle := float64(clamp(snap.Angle, 0, maxConeAngle))
	radius := height * float32(math.Tan(angle))

	base := white
	if h.config.EnableLightColor {
		base = snap.Color
	}
	h.cone = h.engine.CreateCone(radius, height, h.config.coneSegments(), white, base)
	h.engine.AttachChild(h.arrow, h.cone)

	if !h.config.EnableMap {
		return
	}
	if snap.Map == nil {
		h.logger.Debugf("spot light has no projected texture, skipping map plane")
		return
	}
	h.mapPlane = h.engine.CreateTexturePlane(snap.Map, 2*radius)
	h.mapPlane.SetLocalPosition(mgl32.Vec3{0, height, 0})
	h.mapPlane.SetLocalRotation(mgl32.QuatRotate(math.Pi/2, mgl32.Vec3{1, 0, 0}))
	h.engine.AttachChild(h.arrow, h.mapPlane)
}

func (h *Helper) createTracker() {
	if !h.targetAttached {
		return
	}
	h.tracker = newTargetTracker(h.engine, h.target, trackerRadius)
}

// Update syncs the helper with the light. It reads one snapshot and derives
// everything from it, so calling it again with unchanged light state changes
// nothing. It is a no-op once the helper is disposed.
func (h *Helper) Update() {
	if h.state == stateDisposed {
		return
	}
	h.state = stateActive

	snap := h.light.Snapshot()
	rotation := normalizedRotation(snap.Rotation)
	h.root.SetLocalPosition(snap.Position)
	h.root.SetLocalRotation(rotation)

	h.radius = h.effectiveRadius(snap.Intensity)
	if h.ring != nil {
		h.ringParams = BuildRingParams(h.config, snap.Color, snap.Intensity, h.config.PThickness)
		h.ring.SetSize(h.radius)
		h.ring.SetParams(h.ringParams)
	}

	if h.kind.Caps.HasDistanceFalloff {
		h.opacity = SpriteOpacity(snap.Intensity, h.config.MinOpacity)
		h.icon.SetOpacity(h.opacity)
	}

	if h.arrow != nil && snap.HasTarget {
		h.direction, h.orientation = AlignDirection(snap.Position, snap.TargetPosition)
		// the indicator sits under the root, which already carries the light rotation
		h.arrow.SetOrientation(rotation.Inverse().Mul(h.orientation).Normalize())
	}

	if h.tracker != nil && h.config.TrackTarget {
		h.tracker.follow()
	}

	if h.target != nil && !h.config.DisableTargetMatrixUpdate {
		h.target.UpdateWorldMatrix()
	}
}

// Dispose removes the target tracker from the target's parent. The helper's
// own node is removed from the scene by the caller.
func (h *Helper) Dispose() {
	if h.state == stateDisposed {
		return
	}
	if h.tracker != nil {
		h.tracker.detach()
		h.tracker = nil
	}
	h.state = stateDisposed
	h.logger.Debugf("%s helper disposed", h.kind.Type)
}

func normalizedRotation(q mgl32.Quat) mgl32.Quat {
	if l := q.Len(); l == 0 || isNaN32(l) {
		return mgl32.QuatIdent()
	}
	return q.Normalize()
}

// Node is the helper's root; add it to the scene next to the light.
func (h *Helper) Node() Node              { return h.root }
func (h *Helper) Kind() Kind              { return h.kind }
func (h *Helper) Config() Config          { return h.config }
func (h *Helper) Direction() mgl32.Vec3   { return h.direction }
func (h *Helper) Orientation() mgl32.Quat { return h.orientation }
func (h *Helper) Opacity() float32        { return h.opacity }
func (h *Helper) Radius() float32         { return h.radius }
func (h *Helper) RingParams() RingParams  { return h.ringParams }
func (h *Helper) HasRing() bool           { return h.ring != nil }
func (h *Helper) HasIndicator() bool      { return h.arrow != nil }
func (h *Helper) HasCone() bool           { return h.cone != nil }
func (h *Helper) HasMapPlane() bool       { return h.mapPlane != nil }
func (h *Helper) HasTracker() bool        { return h.tracker != nil }
func (h *Helper) Badges() int             { return len(h.badges) }
func (h *Helper) Disposed() bool          { return h.state == stateDisposed }
func (h *Helper) String() string          { return fmt.Sprintf("%s helper (%s)", h.kind.Type, h.state) }
