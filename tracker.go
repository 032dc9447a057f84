package lightviz

import (
	"math"

	"github.com/go-gl/mathgl/mgl32"
)

// targetTracker is a marker living under the target's parent rather than
// under the helper, so it follows the target wherever the target moves.
// The parent owns it; it survives helper removal until detach is called.
type targetTracker struct {
	engine Engine
	target Target
	parent Node
	marker Node
}

func newTargetTracker(engine Engine, target Target, radius float32) *targetTracker {
	parent := target.Parent()
	if parent == nil {
		return nil
	}

	marker := engine.CreateTargetMarker(radius)
	// lay the marker flat on the parent's XZ plane
	marker.SetLocalRotation(mgl32.QuatRotate(math.Pi/2, mgl32.Vec3{1, 0, 0}))
	engine.AttachChild(parent, marker)

	t := &targetTracker{
		engine: engine,
		target: target,
		parent: parent,
		marker: marker,
	}
	t.follow()
	return t
}

func (t *targetTracker) follow() {
	t.marker.SetLocalPosition(t.target.LocalPosition())
}

func (t *targetTracker) detach() {
	t.engine.RemoveChild(t.parent, t.marker)
}
