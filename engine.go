package lightviz

import "github.com/go-gl/mathgl/mgl32"

// Texture is a host-engine texture handle. A nil Texture renders blank.
type Texture interface {
	Size() (width, height uint32)
}

// Node is a host scene graph node owned by the engine.
type Node interface {
	SetLocalPosition(p mgl32.Vec3)
	SetLocalRotation(q mgl32.Quat)
}

// Sprite is a camera-facing textured quad.
type Sprite interface {
	Node
	SetOpacity(opacity float32)
	SetTint(rgba [4]float32)
}

// RingOverlay is the billboarded falloff ring.
type RingOverlay interface {
	Node
	// SetSize sets the world-space radius that the unit ring space maps to:
	// the quad spans [-size, size] around the node.
	SetSize(size float32)
	SetParams(p RingParams)
}

// DirectionIndicator is an arrow modelled along Up.
type DirectionIndicator interface {
	Node
	SetOrientation(q mgl32.Quat)
	SetArrowVisible(visible bool)
	SetDepthTest(enabled bool)
}

// TextureLoader loads textures by path.
type TextureLoader interface {
	LoadTexture(path string) (Texture, error)
}

// Engine is everything the helpers need from the host engine. Helpers only
// call it at construction; Update mutates the returned handles in place.
type Engine interface {
	TextureLoader

	CreateGroup(name string) Node
	CreateBillboardSprite(tex Texture, scale float32) Sprite
	CreateRingOverlay(size float32, params RingParams) RingOverlay
	CreateDirectionIndicator(length, headSize, thickness float32) DirectionIndicator
	// CreateCone builds a wireframe cone along Up with its apex at the origin.
	CreateCone(radius, height float32, segments int, apexColor, baseColor [3]float32) Node
	CreateTexturePlane(tex Texture, size float32) Node
	CreateTargetMarker(radius float32) Node

	AttachChild(parent, child Node)
	RemoveChild(parent, child Node)
}

// LightRef is a non-owning reference to a host light.
type LightRef interface {
	Snapshot() LightSnapshot
	// Target returns nil for lights without a target.
	Target() Target
}

// Target is the node a directional or spot light points at.
type Target interface {
	// Parent returns nil while the target is not attached to the scene.
	Parent() Node
	LocalPosition() mgl32.Vec3
	UpdateWorldMatrix()
}
