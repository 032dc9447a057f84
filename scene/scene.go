package scene

import (
	"fmt"

	"github.com/gekko3d/lightviz"
)

type Scene struct {
	Root   *Object
	Engine *Engine

	helpers map[*Light]*lightviz.Helper
	order   []*Light
	logger  lightviz.Logger
}

func New(engine *Engine, logger lightviz.Logger) *Scene {
	if logger == nil {
		logger = lightviz.NewNopLogger()
	}
	return &Scene{
		Root:    NewGroup("root"),
		Engine:  engine,
		helpers: make(map[*Light]*lightviz.Helper),
		logger:  logger,
	}
}

func (s *Scene) Add(obj *Object) {
	s.Root.Add(obj)
}

func (s *Scene) Remove(obj *Object) {
	obj.Detach()
}

// AddLight puts l in the scene and gives it a debug helper. Directional and
// spot targets that are still detached are added to the scene root first.
func (s *Scene) AddLight(l *Light, opts ...lightviz.Option) (*lightviz.Helper, error) {
	if _, ok := s.helpers[l]; ok {
		return nil, fmt.Errorf("light %s already has a helper", l.Name)
	}
	if l.ParentObject() == nil {
		s.Add(l.Object)
	}
	if t := l.TargetObject(); t != nil && t.ParentObject() == nil {
		s.Add(t)
	}

	h, err := lightviz.New(s.Engine, l, opts...)
	if err != nil {
		return nil, fmt.Errorf("create helper for %s: %w", l.Name, err)
	}
	s.Root.Add(objectOf(h.Node()))
	s.helpers[l] = h
	s.order = append(s.order, l)
	s.logger.Debugf("added %s with %s", l.Name, h)
	return h, nil
}

// RemoveLight disposes the light's helper and takes both out of the scene.
func (s *Scene) RemoveLight(l *Light) {
	h, ok := s.helpers[l]
	if !ok {
		return
	}
	h.Dispose()
	if obj := objectOf(h.Node()); obj != nil {
		obj.Detach()
	}
	l.Detach()
	delete(s.helpers, l)
	for i, o := range s.order {
		if o == l {
			s.order = append(s.order[:i], s.order[i+1:]...)
			break
		}
	}
}

func (s *Scene) Helper(l *Light) (*lightviz.Helper, bool) {
	h, ok := s.helpers[l]
	return h, ok
}

func (s *Scene) Lights() []*Light { return s.order }

// Update syncs every helper with its light, then refreshes world transforms.
func (s *Scene) Update() {
	for _, l := range s.order {
		s.helpers[l].Update()
	}
	s.UpdateWorld()
}

func (s *Scene) UpdateWorld() {
	s.Root.updateWorld(nil)
}

// Collect appends this frame's draw items to dl. Call after UpdateWorld.
func (s *Scene) Collect(dl *DrawList) {
	collectObject(s.Root, false, dl)
}

func collectObject(o *Object, overlay bool, dl *DrawList) {
	if !o.Visible {
		return
	}
	if o.drawable != nil {
		overlay = o.drawable.collect(o.world, overlay, dl)
	}
	for _, c := range o.children {
		collectObject(c, overlay, dl)
	}
}
