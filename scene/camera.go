package scene

import (
	"math"

	"github.com/go-gl/mathgl/mgl32"
)

// Camera orbits Center at Distance. The scene is Y-up.
type Camera struct {
	Center   mgl32.Vec3
	Distance float32
	Yaw      float32
	Pitch    float32
	Fov      float32 // vertical, degrees
	Near     float32
	Far      float32
}

func NewCamera() *Camera {
	return &Camera{
		Center:   mgl32.Vec3{0, 0, 0},
		Distance: 8,
		Yaw:      0.6,
		Pitch:    0.45,
		Fov:      60,
		Near:     0.05,
		Far:      200,
	}
}

func (c *Camera) Position() mgl32.Vec3 {
	cp := float32(math.Cos(float64(c.Pitch)))
	offset := mgl32.Vec3{
		cp * float32(math.Sin(float64(c.Yaw))),
		float32(math.Sin(float64(c.Pitch))),
		cp * float32(math.Cos(float64(c.Yaw))),
	}
	return c.Center.Add(offset.Mul(c.Distance))
}

func (c *Camera) GetForward() mgl32.Vec3 {
	return c.Center.Sub(c.Position()).Normalize()
}

func (c *Camera) GetRight() mgl32.Vec3 {
	return c.GetForward().Cross(mgl32.Vec3{0, 1, 0}).Normalize()
}

func (c *Camera) GetUp() mgl32.Vec3 {
	return c.GetRight().Cross(c.GetForward())
}

func (c *Camera) GetViewMatrix() mgl32.Mat4 {
	return mgl32.LookAtV(c.Position(), c.Center, mgl32.Vec3{0, 1, 0})
}

func (c *Camera) GetProjectionMatrix(aspect float32) mgl32.Mat4 {
	if !(aspect > 0) {
		aspect = 1
	}
	return mgl32.Perspective(mgl32.DegToRad(c.Fov), aspect, c.Near, c.Far)
}

// Orbit rotates the camera, keeping pitch short of the poles.
func (c *Camera) Orbit(dYaw, dPitch float32) {
	const limit = math.Pi/2 - 0.05
	c.Yaw += dYaw
	c.Pitch = mgl32.Clamp(c.Pitch+dPitch, -limit, limit)
}

func (c *Camera) Zoom(factor float32) {
	c.Distance = mgl32.Clamp(c.Distance*factor, c.Near*2, c.Far/2)
}
