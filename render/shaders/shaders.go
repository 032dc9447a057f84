package shaders

import (
	_ "embed"
)

//go:embed gizmo.wgsl
var GizmoWGSL string

//go:embed ring.wgsl
var RingWGSL string

//go:embed sprite.wgsl
var SpriteWGSL string
