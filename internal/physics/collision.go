package physics

import "math"

type Vec3 struct {
	X float64
	Y float64
	Z float64
}

func (v Vec3) Add(o Vec3) Vec3 {
	return Vec3{X: v.X + o.X, Y: v.Y + o.Y, Z: v.Z + o.Z}
}

func (v Vec3) Scale(s float64) Vec3 {
	return Vec3{X: v.X * s, Y: v.Y * s, Z: v.Z * s}
}

func (v Vec3) LengthSquared() float64 {
	return v.X*v.X + v.Y*v.Y + v.Z*v.Z
}

// Normalize returns the zero vector unchanged.
func (v Vec3) Normalize() Vec3 {
	l2 := v.LengthSquared()
	if l2 == 0 {
		return v
	}
	return v.Scale(1 / math.Sqrt(l2))
}

// Pillar is the horizontal center of a square obstacle of unbounded height.
type Pillar struct {
	X float64
	Z float64
}

// Colliders is the static obstacle set of a level. Every pillar shares the
// same half-extent.
type Colliders struct {
	Pillars    []Pillar
	HalfExtent float64
}

// Blocked reports whether a player standing at p overlaps any pillar. The
// player radius is folded into the pillar footprint and both axes are tested
// independently, so near corners this is a square test rather than a
// circular one. Level geometry is tuned against that shape.
func (c Colliders) Blocked(p Vec3, playerRadius float64) bool {
	reach := playerRadius + c.HalfExtent
	for _, pillar := range c.Pillars {
		if overlaps(p, pillar, reach) {
			return true
		}
	}
	return false
}

func overlaps(p Vec3, pillar Pillar, reach float64) bool {
	return math.Abs(p.X-pillar.X) < reach && math.Abs(p.Z-pillar.Z) < reach
}
