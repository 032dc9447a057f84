package lightviz

import (
	"math"

	"github.com/go-gl/mathgl/mgl32"
)

// Up is the canonical axis arrows and cones are modelled along.
var Up = mgl32.Vec3{0, 1, 0}

// minAlignDistance below which two points are treated as coincident.
const minAlignDistance = 1e-6

// AlignDirection returns the unit direction from one point to another and the
// shortest-arc rotation taking Up onto it. Coincident points, and
// displacements that are not finite, yield Up and the identity rotation.
func AlignDirection(from, to mgl32.Vec3) (mgl32.Vec3, mgl32.Quat) {
	// float64 so displacements past ~1.8e19 do not square to +Inf
	dx := float64(to.X()) - float64(from.X())
	dy := float64(to.Y()) - float64(from.Y())
	dz := float64(to.Z()) - float64(from.Z())
	dist := math.Sqrt(dx*dx + dy*dy + dz*dz)
	if !(dist >= minAlignDistance) || math.IsInf(dist, 0) {
		return Up, mgl32.QuatIdent()
	}

	dir := mgl32.Vec3{float32(dx / dist), float32(dy / dist), float32(dz / dist)}
	// QuatBetweenVectors picks a perpendicular axis when dir is -Up
	return dir, mgl32.QuatBetweenVectors(Up, dir).Normalize()
}

func isNaN32(f float32) bool {
	return f != f
}
