package scene

import (
	"github.com/gekko3d/lightviz"
	"github.com/go-gl/mathgl/mgl32"
)

// drawable is implemented by every object type that emits draw items.
type drawable interface {
	collect(world Transform, overlay bool, dl *DrawList) (childOverlay bool)
}

// Object is a node of the scene tree. Plain groups have no drawable; sprites,
// rings, arrows and the other debug shapes embed an Object and register
// themselves as its drawable.
type Object struct {
	Name      string
	Transform Transform
	Visible   bool

	world    Transform
	parent   *Object
	children []*Object
	drawable drawable
}

func NewGroup(name string) *Object {
	return &Object{
		Name:      name,
		Transform: NewTransform(),
		Visible:   true,
		world:     NewTransform(),
	}
}

func (o *Object) object() *Object { return o }

func (o *Object) SetLocalPosition(p mgl32.Vec3) { o.Transform.Position = p }
func (o *Object) SetLocalRotation(q mgl32.Quat) { o.Transform.Rotation = q }
func (o *Object) LocalPosition() mgl32.Vec3     { return o.Transform.Position }

// Parent returns nil for root and detached objects.
func (o *Object) Parent() lightviz.Node {
	if o.parent == nil {
		return nil
	}
	return o.parent
}

func (o *Object) ParentObject() *Object { return o.parent }

func (o *Object) Children() []*Object { return o.children }

// Add reparents child under o.
func (o *Object) Add(child *Object) {
	if child == nil || child == o {
		return
	}
	child.Detach()
	child.parent = o
	o.children = append(o.children, child)
}

func (o *Object) Remove(child *Object) bool {
	for i, c := range o.children {
		if c == child {
			o.children = append(o.children[:i], o.children[i+1:]...)
			child.parent = nil
			return true
		}
	}
	return false
}

func (o *Object) Detach() {
	if o.parent != nil {
		o.parent.Remove(o)
	}
}

// World is the world transform as of the last UpdateWorld or
// UpdateWorldMatrix.
func (o *Object) World() Transform { return o.world }

// ComputeWorld walks up the parent chain without touching cached state.
func (o *Object) ComputeWorld() Transform {
	if o.parent == nil {
		return o.Transform
	}
	return Compose(o.parent.ComputeWorld(), o.Transform)
}

// UpdateWorldMatrix refreshes the cached world transform of o and its
// subtree from the current parent chain.
func (o *Object) UpdateWorldMatrix() {
	var parent *Transform
	if o.parent != nil {
		pw := o.parent.ComputeWorld()
		parent = &pw
	}
	o.updateWorld(parent)
}

func (o *Object) updateWorld(parent *Transform) {
	if parent == nil {
		o.world = o.Transform
	} else {
		o.world = Compose(*parent, o.Transform)
	}
	for _, c := range o.children {
		c.updateWorld(&o.world)
	}
}

// Walk visits o and its descendants depth first. Returning false from fn
// skips the subtree.
func (o *Object) Walk(fn func(*Object) bool) {
	if !fn(o) {
		return
	}
	for _, c := range o.children {
		c.Walk(fn)
	}
}

// Find returns the first descendant (or o itself) with the given name.
func (o *Object) Find(name string) *Object {
	var found *Object
	o.Walk(func(obj *Object) bool {
		if found != nil {
			return false
		}
		if obj.Name == name {
			found = obj
			return false
		}
		return true
	})
	return found
}

type objectHolder interface {
	object() *Object
}

// objectOf unwraps a node handed out by Engine.
func objectOf(n lightviz.Node) *Object {
	if h, ok := n.(objectHolder); ok {
		return h.object()
	}
	return nil
}
