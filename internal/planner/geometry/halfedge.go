package geometry

import (
	"log/slog"
	"math"
	"strconv"

	"planner/internal/planner/graph"

	"seehuhn.de/go/geom/vec"
)

// DefaultMiterLimit bounds how far a room interior point may sit from its
// corner, in multiples of the larger half thickness.
const DefaultMiterLimit = 10.0

// HalfEdge is one oriented traversal of a wall inside a loop. Next and Prev
// are indices into the owning HalfEdgeLoop.Edges.
type HalfEdge struct {
	Wall    graph.WallID
	Forward bool // traversed from the wall's start to its end
	Offset  float64
	Start   graph.CornerID
	End     graph.CornerID
	Next    int
	Prev    int

	InteriorStart vec.Vec2
	InteriorEnd   vec.Vec2
	ExteriorStart vec.Vec2
	ExteriorEnd   vec.Vec2
}

// HalfEdgeLoop is the circular half-edge list of a room, or the two-edge
// pairing of an orphan wall. Following Next from any edge returns to it
// after len(Edges) steps.
type HalfEdgeLoop struct {
	ID    string
	Edges []HalfEdge
}

// InteriorPolygon returns the interior points in loop order.
func (l HalfEdgeLoop) InteriorPolygon() []vec.Vec2 {
	out := make([]vec.Vec2, len(l.Edges))
	for i, e := range l.Edges {
		out[i] = e.InteriorStart
	}
	return out
}

// ExteriorPolygon returns the exterior points in loop order.
func (l HalfEdgeLoop) ExteriorPolygon() []vec.Vec2 {
	out := make([]vec.Vec2, len(l.Edges))
	for i, e := range l.Edges {
		out[i] = e.ExteriorStart
	}
	return out
}

// Walk follows Next links from edge from until it returns there.
// It stops after len(Edges) steps even if the links are broken.
func (l HalfEdgeLoop) Walk(from int) []int {
	if from < 0 || from >= len(l.Edges) {
		return nil
	}
	out := []int{from}
	for i, cur := 0, l.Edges[from].Next; cur != from && i < len(l.Edges); i, cur = i+1, l.Edges[cur].Next {
		out = append(out, cur)
	}
	return out
}

// BuildHalfEdges assembles the circular half-edge list around room and
// computes interior (left of the counter-clockwise traversal) and exterior
// offset points at each corner by intersecting the offset lines of
// consecutive half-edges.
//
// Nearly colinear neighbours fall back to the perpendicular offset; an
// intersection farther than miterLimit times the larger half thickness is
// clamped to the midpoint of both perpendicular offsets.
func BuildHalfEdges(g *graph.Graph, room Room, miterLimit float64) (HalfEdgeLoop, bool) {
	n := len(room.Corners)
	if n < 3 {
		return HalfEdgeLoop{}, false
	}
	if miterLimit <= 0 {
		miterLimit = DefaultMiterLimit
	}

	pos := make([]vec.Vec2, n)
	for i, id := range room.Corners {
		c, ok := g.Corner(id)
		if !ok {
			Logger().Warn("halfedge: room corner missing", slog.String("room", room.ID), slog.Int("corner", int(id)))
			return HalfEdgeLoop{}, false
		}
		pos[i] = c.Pos
	}

	edges := make([]HalfEdge, n)
	dirs := make([]vec.Vec2, n)
	for i := range edges {
		a, b := room.Corners[i], room.Corners[(i+1)%n]
		w, ok := g.WallBetween(a, b)
		if !ok {
			Logger().Warn("halfedge: no wall between room corners",
				slog.String("room", room.ID), slog.Int("from", int(a)), slog.Int("to", int(b)))
			return HalfEdgeLoop{}, false
		}
		d, ok := unit(pos[(i+1)%n].Sub(pos[i]))
		if !ok {
			return HalfEdgeLoop{}, false
		}
		dirs[i] = d
		edges[i] = HalfEdge{
			Wall:    w.ID,
			Forward: w.Start == a,
			Offset:  w.Thickness / 2,
			Start:   a,
			End:     b,
			Next:    (i + 1) % n,
			Prev:    (i + n - 1) % n,
		}
	}

	for i := range edges {
		p := (i + n - 1) % n
		corner := pos[i]
		nPrev := leftNormal(dirs[p]).Mul(edges[p].Offset)
		nCur := leftNormal(dirs[i]).Mul(edges[i].Offset)
		limit := miterLimit * math.Max(edges[p].Offset, edges[i].Offset)

		edges[i].InteriorStart = joinPoint(
			Line{Origin: corner.Add(nPrev), Dir: dirs[p]},
			Line{Origin: corner.Add(nCur), Dir: dirs[i]},
			corner, corner.Add(nPrev), corner.Add(nCur), limit)
		edges[i].ExteriorStart = joinPoint(
			Line{Origin: corner.Sub(nPrev), Dir: dirs[p]},
			Line{Origin: corner.Sub(nCur), Dir: dirs[i]},
			corner, corner.Sub(nPrev), corner.Sub(nCur), limit)
	}
	for i := range edges {
		next := edges[i].Next
		edges[i].InteriorEnd = edges[next].InteriorStart
		edges[i].ExteriorEnd = edges[next].ExteriorStart
	}

	return HalfEdgeLoop{ID: room.ID, Edges: edges}, true
}

func joinPoint(prev, cur Line, corner, prevPerp, curPerp vec.Vec2, limit float64) vec.Vec2 {
	p, ok := Intersect(prev, cur)
	if !ok {
		return midpoint(prevPerp, curPerp)
	}
	if p.Sub(corner).Length() > limit {
		Logger().Debug("halfedge: miter clamped", slog.Float64("x", corner.X), slog.Float64("y", corner.Y))
		return midpoint(prevPerp, curPerp)
	}
	return p
}

// OrphanHalfEdges pairs every wall that belongs to no room with its reverse
// traversal. Offsets are plain perpendicular offsets.
func OrphanHalfEdges(g *graph.Graph, rooms []Room) []HalfEdgeLoop {
	inRoom := make(map[graph.WallID]struct{})
	for _, r := range rooms {
		for _, id := range r.Walls {
			inRoom[id] = struct{}{}
		}
	}

	var out []HalfEdgeLoop
	for _, w := range g.Walls() {
		if _, ok := inRoom[w.ID]; ok {
			continue
		}
		seg, ok := SegmentOf(g, w)
		if !ok {
			continue
		}
		d, ok := unit(seg.End.Sub(seg.Start))
		if !ok {
			continue
		}
		h := w.Thickness / 2
		n := leftNormal(d).Mul(h)

		forward := HalfEdge{
			Wall: w.ID, Forward: true, Offset: h,
			Start: w.Start, End: w.End, Next: 1, Prev: 1,
			InteriorStart: seg.Start.Add(n), InteriorEnd: seg.End.Add(n),
			ExteriorStart: seg.Start.Sub(n), ExteriorEnd: seg.End.Sub(n),
		}
		backward := HalfEdge{
			Wall: w.ID, Forward: false, Offset: h,
			Start: w.End, End: w.Start, Next: 0, Prev: 0,
			InteriorStart: seg.End.Sub(n), InteriorEnd: seg.Start.Sub(n),
			ExteriorStart: seg.End.Add(n), ExteriorEnd: seg.Start.Add(n),
		}
		out = append(out, HalfEdgeLoop{
			ID:    "orphan-" + strconv.Itoa(int(w.ID)),
			Edges: []HalfEdge{forward, backward},
		})
	}
	return out
}
