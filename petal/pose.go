// Package petal implements the falling-petals motion model: the petal
// store, the shared procedural motion field, and the per-tick update
// with toroidal wrapping and back-to-front depth ordering.
package petal

import (
	"math"
	"math/rand/v2"

	"gonum.org/v1/gonum/num/quat"
	"gonum.org/v1/gonum/spatial/r3"
	"gonum.org/v1/gonum/stat/distuv"
)

// Pose is the placement of one petal in world space.
type Pose struct {
	Position r3.Vec
	// Orientation is always unit-norm; it is renormalized whenever it
	// is composed with another rotation.
	Orientation quat.Number
	// AspectRatio is width/height of the petal's source rectangle.
	AspectRatio float64
	Scale       float64
}

// Petal is one independently animated sprite instance.
type Petal struct {
	Pose    Pose
	Variant int
	// Spin is the constant per-tick rotation increment: a fixed-angle
	// rotation about a fixed random axis chosen at creation.
	Spin quat.Number
}

// Variant maps a petal variant to a source texture and a UV rectangle
// within it. Immutable after load.
type Variant struct {
	Texture    int
	U, V, W, H float64
	// ScaleMul is the per-texture scale multiplier from configuration.
	ScaleMul float64
}

// Aspect returns the width/height ratio of the variant's source rect.
func (v Variant) Aspect() float64 { return v.W / v.H }

// unit renormalizes a quaternion. Composing unit quaternions drifts
// off unit norm in floating point, so every composition goes through
// here.
func unit(q quat.Number) quat.Number {
	return quat.Scale(1/quat.Abs(q), q)
}

// axisAngle builds the unit quaternion rotating by angle radians about
// the given axis.
func axisAngle(axis r3.Vec, angle float64) quat.Number {
	sin, cos := math.Sincos(angle / 2)
	axis = r3.Scale(sin, r3.Unit(axis))
	return quat.Number{Real: cos, Imag: axis.X, Jmag: axis.Y, Kmag: axis.Z}
}

// randomOrientation draws a uniformly distributed 3D rotation by
// normalizing a 4-component standard-normal sample.
func randomOrientation(rng *rand.Rand) quat.Number {
	normal := distuv.Normal{Mu: 0, Sigma: 1, Src: rng}
	return unit(quat.Number{
		Real: normal.Rand(),
		Imag: normal.Rand(),
		Jmag: normal.Rand(),
		Kmag: normal.Rand(),
	})
}

// randomSpin draws a constant per-tick rotation about a uniformly
// random axis, with the angle uniform in [minAngle, maxAngle] radians.
func randomSpin(rng *rand.Rand, minAngle, maxAngle float64) quat.Number {
	normal := distuv.Normal{Mu: 0, Sigma: 1, Src: rng}
	axis := r3.Vec{X: normal.Rand(), Y: normal.Rand(), Z: normal.Rand()}
	for r3.Norm(axis) == 0 {
		axis = r3.Vec{X: normal.Rand(), Y: normal.Rand(), Z: normal.Rand()}
	}
	angle := minAngle + (maxAngle-minAngle)*rng.Float64()
	return axisAngle(axis, angle)
}
