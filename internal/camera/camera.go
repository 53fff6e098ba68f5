// Package camera is the view/projection supporting utility for the
// rendering host: a Gram-Schmidt look-at basis, a scale-unhinge projection
// with the GL depth remap, and yaw/pitch/translate controls.
package camera

import (
	"math"

	"github.com/go-gl/mathgl/mgl32"
)

// Camera holds the eye position and viewing frame. Look does not need to be
// unit length; the basis is renormalized whenever a matrix is built.
type Camera struct {
	Eye  mgl32.Vec3
	Look mgl32.Vec3
	Up   mgl32.Vec3

	FovyRad float32
	Aspect  float32
	Near    float32
	Far     float32
}

// New returns a camera at eye looking along look.
func New(eye, look, up mgl32.Vec3, fovyRad, aspect, near, far float32) *Camera {
	return &Camera{Eye: eye, Look: look, Up: up, FovyRad: fovyRad, Aspect: aspect, Near: near, Far: far}
}

// View builds the world-to-camera matrix. The camera basis comes from
// Gram-Schmidt: w opposes the look direction, v is up with its w component
// removed, u completes the right-handed frame.
func (c *Camera) View() mgl32.Mat4 {
	w := c.Look.Mul(-1).Normalize()
	v := c.Up.Sub(w.Mul(c.Up.Dot(w))).Normalize()
	u := v.Cross(w)

	return mgl32.Mat4{
		u.X(), v.X(), w.X(), 0,
		u.Y(), v.Y(), w.Y(), 0,
		u.Z(), v.Z(), w.Z(), 0,
		-u.Dot(c.Eye), -v.Dot(c.Eye), -w.Dot(c.Eye), 1,
	}
}

// Proj builds the projection as GLZFix * Unhinge * Scale. Near and far are
// forced positive and ordered before use.
func (c *Camera) Proj() mgl32.Mat4 {
	near := c.Near
	far := c.Far
	if near < 1e-4 {
		near = 1e-4
	}
	if far <= near {
		far = near + 1e-4
	}

	tanHalf := float32(math.Tan(float64(c.FovyRad) / 2))
	scale := mgl32.Diag4(mgl32.Vec4{
		1 / (far * c.Aspect * tanHalf),
		1 / (far * tanHalf),
		1 / far,
		1,
	})

	// unhinge the scaled frustum into the canonical box
	ch := -near / far
	unhinge := mgl32.Mat4{
		1, 0, 0, 0,
		0, 1, 0, 0,
		0, 0, 1 / (1 + ch), -1,
		0, 0, -ch / (1 + ch), 0,
	}

	// remap z from [-1, 0] to GL's [-1, 1] clip range
	glZFix := mgl32.Mat4{
		1, 0, 0, 0,
		0, 1, 0, 0,
		0, 0, -2, 0,
		0, 0, -1, 1,
	}

	return glZFix.Mul4(unhinge).Mul4(scale)
}

// Yaw rotates the viewing frame about the world up axis.
func (c *Camera) Yaw(rad float32) {
	rot := rodrigues(mgl32.Vec3{0, 1, 0}, rad)
	c.Look = rot.Mul4x1(c.Look.Vec4(0)).Vec3()
	c.Up = rot.Mul4x1(c.Up.Vec4(0)).Vec3()
}

// Pitch rotates the viewing frame about the camera's right axis and
// re-orthogonalizes up against the new look direction.
func (c *Camera) Pitch(rad float32) {
	right := c.Look.Cross(c.Up)
	if right.Len() < 1e-6 {
		return
	}
	rot := rodrigues(right.Normalize(), rad)
	c.Look = rot.Mul4x1(c.Look.Vec4(0)).Vec3()

	up := right.Cross(c.Look)
	if up.Len() < 1e-6 {
		return
	}
	c.Up = up.Normalize()
}

// TranslateWorld moves the eye by a world-space delta.
func (c *Camera) TranslateWorld(d mgl32.Vec3) {
	c.Eye = c.Eye.Add(d)
}

// rodrigues builds an explicit axis-angle rotation matrix about a unit axis.
func rodrigues(axis mgl32.Vec3, rad float32) mgl32.Mat4 {
	sin := float32(math.Sin(float64(rad)))
	cos := float32(math.Cos(float64(rad)))
	oneMinus := 1 - cos
	x, y, z := axis.X(), axis.Y(), axis.Z()

	return mgl32.Mat4{
		cos + x*x*oneMinus, y*x*oneMinus + z*sin, z*x*oneMinus - y*sin, 0,
		x*y*oneMinus - z*sin, cos + y*y*oneMinus, z*y*oneMinus + x*sin, 0,
		x*z*oneMinus + y*sin, y*z*oneMinus - x*sin, cos + z*z*oneMinus, 0,
		0, 0, 0, 1,
	}
}
