package geometry

import (
	"math"

	"seehuhn.de/go/geom/vec"
)

const (
	// parallelEpsilon bounds |sin| between two unit directions below which
	// offset lines are treated as parallel.
	parallelEpsilon = 1e-9
	lengthEpsilon   = 1e-9
)

// unit returns v scaled to length one. ok is false for a zero vector.
func unit(v vec.Vec2) (vec.Vec2, bool) {
	l := v.Length()
	if l < lengthEpsilon {
		return vec.Vec2{}, false
	}
	return vec.Vec2{X: v.X / l, Y: v.Y / l}, true
}

// leftNormal is v rotated by +90°.
func leftNormal(v vec.Vec2) vec.Vec2 {
	return vec.Vec2{X: -v.Y, Y: v.X}
}

func cross(a, b vec.Vec2) float64 {
	return a.X*b.Y - a.Y*b.X
}

// ccwAngle returns the counter-clockwise angle from a to b in [0, 2π).
func ccwAngle(a, b vec.Vec2) float64 {
	theta := math.Atan2(cross(a, b), a.Dot(b))
	if theta < 0 {
		theta += 2 * math.Pi
	}
	return theta
}

func midpoint(a, b vec.Vec2) vec.Vec2 {
	return a.Add(b).Mul(0.5)
}
