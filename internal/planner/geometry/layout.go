package geometry

import (
	"log/slog"

	"planner/internal/planner/graph"

	"seehuhn.de/go/geom/vec"
)

type Options struct {
	MiterLimit float64
	Rooms      RoomOptions
}

func DefaultOptions() Options {
	return Options{MiterLimit: DefaultMiterLimit}
}

// Layout is the derived geometry of one graph version. It is computed from
// scratch and never updated in place; a newer graph version gets a new
// Layout.
type Layout struct {
	Version    uint64
	Rooms      []Room
	Boundaries map[graph.WallID]Quad
	Interiors  map[string]HalfEdgeLoop
	Orphans    []HalfEdgeLoop
}

// Compute derives rooms, wall quads and half-edge loops from g. The result
// shares no memory with g.
func Compute(g *graph.Graph, opts Options) *Layout {
	l := &Layout{
		Version:    g.Version(),
		Rooms:      DetectRooms(g, opts.Rooms),
		Boundaries: make(map[graph.WallID]Quad),
		Interiors:  make(map[string]HalfEdgeLoop),
	}

	for _, w := range g.Walls() {
		if q, ok := WallBoundary(g, w.ID); ok {
			l.Boundaries[w.ID] = q
		}
	}

	for _, r := range l.Rooms {
		if loop, ok := BuildHalfEdges(g, r, opts.MiterLimit); ok {
			l.Interiors[r.ID] = loop
		}
	}
	l.Orphans = OrphanHalfEdges(g, l.Rooms)

	Logger().Debug("layout computed",
		slog.Uint64("version", l.Version),
		slog.Int("rooms", len(l.Rooms)),
		slog.Int("boundaries", len(l.Boundaries)),
		slog.Int("orphans", len(l.Orphans)))
	return l
}

func (l *Layout) Room(id string) (Room, bool) {
	for _, r := range l.Rooms {
		if r.ID == id {
			return r, true
		}
	}
	return Room{}, false
}

func (l *Layout) WallBoundary(id graph.WallID) (Quad, bool) {
	q, ok := l.Boundaries[id]
	return q, ok
}

// RoomInteriorBoundary returns the ordered interior points of a room.
func (l *Layout) RoomInteriorBoundary(id string) ([]vec.Vec2, bool) {
	loop, ok := l.Interiors[id]
	if !ok {
		return nil, false
	}
	return loop.InteriorPolygon(), true
}

// ============================================================
// Plan
// ============================================================

// Plan pairs a graph with its derived layout. The layout is stale as soon as
// the graph version moves and is recomputed on the next Layout call.
type Plan struct {
	graph  *graph.Graph
	opts   Options
	cached *Layout
}

func NewPlan(g *graph.Graph, opts Options) *Plan {
	if g == nil {
		g = graph.New()
	}
	return &Plan{graph: g, opts: opts}
}

func (p *Plan) Graph() *graph.Graph {
	return p.graph
}

func (p *Plan) Stale() bool {
	return p.cached == nil || p.cached.Version != p.graph.Version()
}

// Layout returns the layout of the current graph version. The returned value
// must be treated as read-only.
func (p *Plan) Layout() *Layout {
	if p.Stale() {
		p.cached = Compute(p.graph, p.opts)
	}
	return p.cached
}
