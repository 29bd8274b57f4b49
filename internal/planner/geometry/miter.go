package geometry

import (
	"log/slog"
	"math"

	"planner/internal/planner/graph"

	"seehuhn.de/go/geom/vec"
)

// Line is an infinite line through Origin along Dir.
type Line struct {
	Origin vec.Vec2
	Dir    vec.Vec2
}

// Intersect solves the 2x2 system Origin_a + t*Dir_a = Origin_b + s*Dir_b.
// ok is false when the lines are parallel (near-zero determinant).
//
// This is the only miter primitive in the package: wall quads and room
// interior polygons are both built from it.
func Intersect(a, b Line) (vec.Vec2, bool) {
	det := cross(a.Dir, b.Dir)
	if math.Abs(det) <= parallelEpsilon*a.Dir.Length()*b.Dir.Length() {
		return vec.Vec2{}, false
	}
	t := cross(b.Origin.Sub(a.Origin), b.Dir) / det
	return a.Origin.Add(a.Dir.Mul(t)), true
}

// Segment is one wall as seen by the miter calculator. It carries positions
// by value so that preview walls which are not part of the graph can be
// passed in as well.
type Segment struct {
	Wall        graph.WallID
	StartCorner graph.CornerID
	EndCorner   graph.CornerID
	Start       vec.Vec2
	End         vec.Vec2
	Thickness   float64
}

// Quad is the rendered extent of a wall after miter adjustment. Left is the
// side of the +90° normal of the start->end direction.
type Quad struct {
	StartLeft  vec.Vec2
	StartRight vec.Vec2
	EndLeft    vec.Vec2
	EndRight   vec.Vec2
}

// Polygon returns the quad as a closed-order outline.
func (q Quad) Polygon() []vec.Vec2 {
	return []vec.Vec2{q.StartLeft, q.EndLeft, q.EndRight, q.StartRight}
}

// offsetLines returns the lines at ±half thickness along the segment.
func (s Segment) offsetLines() (left, right Line, ok bool) {
	d, ok := unit(s.End.Sub(s.Start))
	if !ok {
		return Line{}, Line{}, false
	}
	n := leftNormal(d).Mul(s.Thickness / 2)
	return Line{Origin: s.Start.Add(n), Dir: d}, Line{Origin: s.Start.Sub(n), Dir: d}, true
}

// Boundary computes the mitered quad of seg. atStart and atEnd hold the
// other walls sharing seg's start and end corner. An end with no neighbours
// keeps the plain perpendicular offset. ok is false for a zero-length wall.
func Boundary(seg Segment, atStart, atEnd []Segment) (Quad, bool) {
	left, right, ok := seg.offsetLines()
	if !ok {
		return Quad{}, false
	}
	n := left.Origin.Sub(seg.Start)

	q := Quad{
		StartLeft:  seg.Start.Add(n),
		StartRight: seg.Start.Sub(n),
		EndLeft:    seg.End.Add(n),
		EndRight:   seg.End.Sub(n),
	}
	q.StartLeft, q.StartRight = miterEnd(seg, seg.StartCorner, left, right, q.StartLeft, q.StartRight, seg.End, atStart)
	q.EndLeft, q.EndRight = miterEnd(seg, seg.EndCorner, left, right, q.EndLeft, q.EndRight, seg.Start, atEnd)
	return q, true
}

// miterEnd resolves one end of seg against every neighbour at that corner and
// keeps, per side, the candidate closest to the far endpoint.
func miterEnd(seg Segment, corner graph.CornerID, left, right Line, defLeft, defRight, far vec.Vec2, neighbors []Segment) (vec.Vec2, vec.Vec2) {
	bestLeft, bestRight := defLeft, defRight
	distLeft, distRight := math.Inf(1), math.Inf(1)

	for _, nb := range neighbors {
		if nb.Wall == seg.Wall {
			continue
		}
		nbLeft, nbRight, ok := nb.offsetLines()
		if !ok {
			Logger().Debug("miter: zero-length neighbour ignored",
				slog.Int("wall", int(seg.Wall)), slog.Int("neighbour", int(nb.Wall)))
			continue
		}

		var sameSide bool
		switch {
		case seg.EndCorner == corner && nb.StartCorner == corner,
			seg.StartCorner == corner && nb.EndCorner == corner:
			sameSide = true
		case seg.StartCorner == corner && nb.StartCorner == corner,
			seg.EndCorner == corner && nb.EndCorner == corner:
			sameSide = false
		default:
			Logger().Warn("miter: neighbour does not share the corner",
				slog.Int("wall", int(seg.Wall)), slog.Int("neighbour", int(nb.Wall)), slog.Int("corner", int(corner)))
			continue
		}

		leftMate, rightMate := nbLeft, nbRight
		if !sameSide {
			leftMate, rightMate = nbRight, nbLeft
		}

		candLeft, ok := Intersect(left, leftMate)
		if !ok {
			candLeft = defLeft
		}
		candRight, ok := Intersect(right, rightMate)
		if !ok {
			candRight = defRight
		}

		if d := candLeft.Sub(far).Length(); d < distLeft {
			bestLeft, distLeft = candLeft, d
		}
		if d := candRight.Sub(far).Length(); d < distRight {
			bestRight, distRight = candRight, d
		}
	}

	return bestLeft, bestRight
}

// ============================================================
// Graph adapters
// ============================================================

// SegmentOf resolves a wall's endpoints. ok is false when a corner is missing.
func SegmentOf(g *graph.Graph, w graph.Wall) (Segment, bool) {
	a, ok1 := g.Corner(w.Start)
	b, ok2 := g.Corner(w.End)
	if !ok1 || !ok2 {
		return Segment{}, false
	}
	return Segment{
		Wall:        w.ID,
		StartCorner: w.Start,
		EndCorner:   w.End,
		Start:       a.Pos,
		End:         b.Pos,
		Thickness:   w.Thickness,
	}, true
}

// WallBoundary computes the quad of a wall in g using the walls that share
// its corners. Walls with a missing corner or zero length are skipped.
func WallBoundary(g *graph.Graph, id graph.WallID) (Quad, bool) {
	w, ok := g.Wall(id)
	if !ok {
		return Quad{}, false
	}
	seg, ok := SegmentOf(g, w)
	if !ok {
		Logger().Warn("boundary: wall references a missing corner",
			slog.Int("wall", int(id)), slog.Int("start", int(w.Start)), slog.Int("end", int(w.End)))
		return Quad{}, false
	}
	if graph.IsZeroLength(seg.Start, seg.End) {
		Logger().Warn("boundary: zero-length wall skipped", slog.Int("wall", int(id)))
		return Quad{}, false
	}

	return Boundary(seg, neighbours(g, id, w.Start), neighbours(g, id, w.End))
}

func neighbours(g *graph.Graph, self graph.WallID, corner graph.CornerID) []Segment {
	var out []Segment
	for _, wid := range g.WallsAt(corner) {
		if wid == self {
			continue
		}
		w, _ := g.Wall(wid)
		seg, ok := SegmentOf(g, w)
		if !ok {
			continue
		}
		out = append(out, seg)
	}
	return out
}
