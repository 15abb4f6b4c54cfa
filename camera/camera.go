// Package camera provides an upright perspective camera for the 3D
// scene: it can pan side to side and tilt up and down, but cannot roll.
package camera

import (
	"math"

	"gonum.org/v1/gonum/spatial/r3"
)

// With zero pan and tilt the camera looks down the -Z axis with +Y as
// its up vector and +X extending to the right. Pan rotates about +Y,
// tilt about the panned +X.
type Camera struct {
	// Location is the focal point of the camera.
	Location r3.Vec
	// Pan is the horizontal facing angle in [0, 2*pi).
	Pan float64
	// Tilt is the vertical angle, clamped to [MinTilt, MaxTilt].
	Tilt float64
	// FovY is the vertical field of view in radians.
	FovY float64
	// Aspect is the viewport width/height ratio.
	Aspect float64
	// Near and Far are the clipping plane distances.
	Near, Far float64
	// Tilt limits.
	MinTilt, MaxTilt float64
}

// New creates a camera with tilt limited to straight up / straight down.
func New(location r3.Vec, pan, tilt, fovY, aspect, near, far float64) *Camera {
	return &Camera{
		Location: location,
		Pan:      pan,
		Tilt:     tilt,
		FovY:     fovY,
		Aspect:   aspect,
		Near:     near,
		Far:      far,
		MinTilt:  -math.Pi / 2,
		MaxTilt:  math.Pi / 2,
	}
}

// PanAndTilt rotates the camera by the given deltas. Pan wraps modulo
// a full turn; tilt clamps to the configured range. Wrapping and
// clamping are the whole contract - there is no error case.
func (c *Camera) PanAndTilt(dPan, dTilt float64) {
	c.Pan = math.Mod(c.Pan+dPan, 2*math.Pi)
	c.Tilt += dTilt
	if c.Tilt > c.MaxTilt {
		c.Tilt = c.MaxTilt
	} else if c.Tilt < c.MinTilt {
		c.Tilt = c.MinTilt
	}
}

// MoveRelativeToPan translates the camera by a vector rotated by the
// current pan angle only. Tilt is deliberately excluded so the camera
// walks on a level plane instead of flying toward where it looks.
func (c *Camera) MoveRelativeToPan(forward, right, up float64) {
	sin, cos := math.Sincos(c.Pan)
	// Rotate (right, up, -forward) about +Y by pan.
	c.Location = r3.Add(c.Location, r3.Vec{
		X: right*cos - forward*sin,
		Y: up,
		Z: -right*sin - forward*cos,
	})
}

// Forward returns the unit view direction for the current pan and tilt.
func (c *Camera) Forward() r3.Vec {
	return c.rotate(r3.Vec{Z: -1})
}

// Up returns the camera's unit up vector.
func (c *Camera) Up() r3.Vec {
	return c.rotate(r3.Vec{Y: 1})
}

// rotate applies pan about +Y then tilt about the panned +X axis.
func (c *Camera) rotate(v r3.Vec) r3.Vec {
	st, ct := math.Sincos(c.Tilt)
	v = r3.Vec{X: v.X, Y: v.Y*ct - v.Z*st, Z: v.Y*st + v.Z*ct}
	sp, cp := math.Sincos(c.Pan)
	return r3.Vec{X: v.X*cp + v.Z*sp, Y: v.Y, Z: -v.X*sp + v.Z*cp}
}

// ViewProjection returns the combined view-projection matrix for the
// current state. It is a pure function of the camera fields and cheap
// enough to recompute every tick.
func (c *Camera) ViewProjection() Mat4 {
	return c.projection().Mul(c.view())
}

// view builds a right-handed look-to matrix from the camera pose.
func (c *Camera) view() Mat4 {
	f := c.Forward()
	s := r3.Unit(r3.Cross(f, c.Up()))
	u := r3.Cross(s, f)
	eye := c.Location
	return Mat4{
		s.X, u.X, -f.X, 0,
		s.Y, u.Y, -f.Y, 0,
		s.Z, u.Z, -f.Z, 0,
		-r3.Dot(s, eye), -r3.Dot(u, eye), r3.Dot(f, eye), 1,
	}
}

// projection builds an OpenGL-convention perspective matrix (clip Z in
// [-1, 1]).
func (c *Camera) projection() Mat4 {
	t := 1 / math.Tan(c.FovY/2)
	n, f := c.Near, c.Far
	return Mat4{
		t / c.Aspect, 0, 0, 0,
		0, t, 0, 0,
		0, 0, (f + n) / (n - f), -1,
		0, 0, 2 * f * n / (n - f), 0,
	}
}
