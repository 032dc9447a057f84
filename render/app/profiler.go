package app

import (
	"fmt"
	"slices"
	"sort"
	"strings"
	"time"

	"github.com/gekko3d/lightviz/scene"
)

// Profiler records the CPU time of named frame stages and per-frame draw
// counts. Stages print in the order they were first seen.
type Profiler struct {
	Scopes map[string]time.Duration
	Counts map[string]int
	Order  []string

	starts map[string]time.Time
	now    func() time.Time
}

func NewProfiler() *Profiler {
	return &Profiler{
		Scopes: make(map[string]time.Duration),
		Counts: make(map[string]int),
		starts: make(map[string]time.Time),
		now:    time.Now,
	}
}

func (p *Profiler) BeginScope(name string) {
	p.starts[name] = p.now()
	if !slices.Contains(p.Order, name) {
		p.Order = append(p.Order, name)
	}
}

func (p *Profiler) EndScope(name string) {
	if start, ok := p.starts[name]; ok {
		p.Scopes[name] = p.now().Sub(start)
		delete(p.starts, name)
	}
}

// Measure runs fn inside a scope.
func (p *Profiler) Measure(name string, fn func()) {
	p.BeginScope(name)
	fn()
	p.EndScope(name)
}

func (p *Profiler) SetCount(name string, count int) {
	p.Counts[name] = count
}

// CountDrawList records the size of each draw list bucket.
func (p *Profiler) CountDrawList(dl *scene.DrawList) {
	p.SetCount("sprites", len(dl.Sprites))
	p.SetCount("rings", len(dl.Rings))
	p.SetCount("gizmos", len(dl.Gizmos))
	p.SetCount("overlay", len(dl.Overlay))
}

// Reset zeroes timings and keeps the stage order.
func (p *Profiler) Reset() {
	for k := range p.Scopes {
		p.Scopes[k] = 0
	}
}

func (p *Profiler) String() string {
	var sb strings.Builder

	sb.WriteString("timings (CPU):")
	for _, name := range p.Order {
		ms := float64(p.Scopes[name].Microseconds()) / 1000.0
		fmt.Fprintf(&sb, " %s=%.2fms", name, ms)
	}

	keys := make([]string, 0, len(p.Counts))
	for k := range p.Counts {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	sb.WriteString(" counts:")
	for _, k := range keys {
		fmt.Fprintf(&sb, " %s=%d", k, p.Counts[k])
	}
	return sb.String()
}
