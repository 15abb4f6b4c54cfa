package petal

import (
	"cmp"
	"math/rand/v2"
	"slices"

	"gonum.org/v1/gonum/num/quat"
	"gonum.org/v1/gonum/spatial/r3"
)

// Params holds the creation parameters for a petal store.
type Params struct {
	Count              int
	MinScale, MaxScale float64
	// FallSpeed is subtracted from Y every tick.
	FallSpeed float64
	// MinRotation and MaxRotation bound the per-petal constant spin,
	// in radians per tick.
	MinRotation, MaxRotation float64
	// Bounds are the volume half-extents; coordinates wrap toroidally
	// over [-bound, +bound] per axis.
	Bounds r3.Vec
}

// Store owns the petal collection and advances it one tick at a time.
// It is exclusively owned by the simulation loop; the renderer only
// reads the slice returned by Petals between ticks.
type Store struct {
	petals    []Petal
	field     Field
	bounds    r3.Vec
	fallSpeed float64
	tick      int
}

// NewStore creates Count petals with uniformly random positions inside
// the volume, uniformly random orientations, and random variants, and
// sorts them back to front.
func NewStore(rng *rand.Rand, p Params, variants []Variant, field Field) *Store {
	petals := make([]Petal, p.Count)
	for i := range petals {
		variant := rng.IntN(len(variants))
		v := variants[variant]
		petals[i] = Petal{
			Pose: Pose{
				Position: r3.Vec{
					X: (2*rng.Float64() - 1) * p.Bounds.X,
					Y: (2*rng.Float64() - 1) * p.Bounds.Y,
					Z: (2*rng.Float64() - 1) * p.Bounds.Z,
				},
				Orientation: randomOrientation(rng),
				AspectRatio: v.Aspect(),
				Scale:       v.ScaleMul * (p.MinScale + (p.MaxScale-p.MinScale)*rng.Float64()),
			},
			Variant: variant,
			Spin:    randomSpin(rng, p.MinRotation, p.MaxRotation),
		}
	}

	s := &Store{
		petals:    petals,
		field:     field,
		bounds:    p.Bounds,
		fallSpeed: p.FallSpeed,
	}
	s.sortByDepth()
	return s
}

// Step advances every petal by one tick: compose the constant spin
// into the orientation, apply fall and the shared motion field, wrap
// into the volume, then re-sort the collection by depth.
func (s *Store) Step() {
	d := s.field.At(s.tick)
	for i := range s.petals {
		p := &s.petals[i]

		p.Pose.Orientation = unit(quat.Mul(p.Spin, p.Pose.Orientation))

		pos := &p.Pose.Position
		pos.Y -= s.fallSpeed
		pos.X += d.X
		pos.Y += d.Y
		pos.Z += d.Z

		pos.X = wrap(pos.X, s.bounds.X)
		pos.Y = wrap(pos.Y, s.bounds.Y)
		pos.Z = wrap(pos.Z, s.bounds.Z)
	}

	s.sortByDepth()
	s.tick++
}

// sortByDepth orders petals by world-space Z ascending, so that with
// the camera on the +Z side of the volume the renderer draws back to
// front and premultiplied-alpha blending composites correctly.
//
// Sorting uses world Z rather than camera-relative Z: if the camera is
// moved to view the volume from the -Z side, blending artifacts
// reappear at sprite overlaps. The camera is expected to stay on the
// +Z side.
func (s *Store) sortByDepth() {
	slices.SortFunc(s.petals, func(a, b Petal) int {
		return cmp.Compare(a.Pose.Position.Z, b.Pose.Position.Z)
	})
}

// Petals returns the collection in draw order. The slice is only valid
// until the next Step call.
func (s *Store) Petals() []Petal { return s.petals }

// Tick returns the number of completed steps.
func (s *Store) Tick() int { return s.tick }

// wrap folds v into [-bound, +bound]. A value past one face re-enters
// through the opposite face; per-tick displacement is assumed smaller
// than the volume, so one fold is enough.
func wrap(v, bound float64) float64 {
	if v > bound {
		return v - 2*bound
	}
	if v < -bound {
		return v + 2*bound
	}
	return v
}
