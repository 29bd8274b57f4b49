package geometry

import (
	"testing"

	"planner/internal/planner/graph"

	"seehuhn.de/go/geom/vec"
)

func onlyRoom(t *testing.T, g *graph.Graph) Room {
	t.Helper()
	rooms := DetectRooms(g, RoomOptions{})
	if len(rooms) != 1 {
		t.Fatalf("got %d rooms, want 1", len(rooms))
	}
	return rooms[0]
}

func TestBuildHalfEdges_Square(t *testing.T) {
	g := squareGraph(t)
	loop, ok := BuildHalfEdges(g, onlyRoom(t, g), DefaultMiterLimit)
	if !ok {
		t.Fatal("loop not built")
	}
	if loop.ID != "room-1-2-3-4" || len(loop.Edges) != 4 {
		t.Fatalf("loop = %s with %d edges", loop.ID, len(loop.Edges))
	}

	interior := []vec.Vec2{{X: 100, Y: 100}, {X: 3900, Y: 100}, {X: 3900, Y: 3900}, {X: 100, Y: 3900}}
	exterior := []vec.Vec2{{X: -100, Y: -100}, {X: 4100, Y: -100}, {X: 4100, Y: 4100}, {X: -100, Y: 4100}}
	for i, p := range loop.InteriorPolygon() {
		if !near(p, interior[i]) {
			t.Errorf("interior[%d] = %v, want %v", i, p, interior[i])
		}
	}
	for i, p := range loop.ExteriorPolygon() {
		if !near(p, exterior[i]) {
			t.Errorf("exterior[%d] = %v, want %v", i, p, exterior[i])
		}
	}

	for i, e := range loop.Edges {
		if !e.Forward {
			t.Errorf("edge %d: want forward traversal", i)
		}
		if e.Offset != 100 {
			t.Errorf("edge %d: offset = %v, want 100", i, e.Offset)
		}
		if !near(e.InteriorEnd, loop.Edges[e.Next].InteriorStart) {
			t.Errorf("edge %d: interior end does not meet the next edge", i)
		}
		if loop.Edges[e.Next].Prev != i {
			t.Errorf("edge %d: next.prev = %d", i, loop.Edges[e.Next].Prev)
		}
	}
}

func TestHalfEdgeLoop_WalkReturnsToStart(t *testing.T) {
	g := squareGraph(t)
	loop, ok := BuildHalfEdges(g, onlyRoom(t, g), DefaultMiterLimit)
	if !ok {
		t.Fatal("loop not built")
	}

	for start := range loop.Edges {
		path := loop.Walk(start)
		if len(path) != len(loop.Edges) {
			t.Fatalf("walk from %d visited %d edges, want %d", start, len(path), len(loop.Edges))
		}
		if last := path[len(path)-1]; loop.Edges[last].Next != start {
			t.Errorf("walk from %d does not close", start)
		}
		seen := make(map[int]bool)
		for _, i := range path {
			if seen[i] {
				t.Errorf("walk from %d repeats edge %d", start, i)
			}
			seen[i] = true
		}
	}
	if loop.Walk(-1) != nil || loop.Walk(len(loop.Edges)) != nil {
		t.Error("out-of-range walk must be empty")
	}
}

func TestBuildHalfEdges_ReversedWall(t *testing.T) {
	g := squareGraph(t)
	if _, err := g.RemoveWall(2); err != nil {
		t.Fatal(err)
	}
	if _, err := g.InsertWall(2, 3, 2, 200, 2700); err != nil {
		t.Fatal(err)
	}

	loop, ok := BuildHalfEdges(g, onlyRoom(t, g), DefaultMiterLimit)
	if !ok {
		t.Fatal("loop not built")
	}
	e := loop.Edges[1]
	if e.Wall != 2 || e.Forward {
		t.Errorf("edge 1 = wall %d forward=%v, want wall 2 backward", e.Wall, e.Forward)
	}
	if e.Start != 2 || e.End != 3 {
		t.Errorf("edge 1 runs %d->%d, want 2->3", e.Start, e.End)
	}
	if !near(e.InteriorStart, vec.Vec2{X: 3900, Y: 100}) {
		t.Errorf("interior start = %v", e.InteriorStart)
	}
}

func TestBuildHalfEdges_UnequalThickness(t *testing.T) {
	g := squareGraph(t)
	if _, err := g.RemoveWall(1); err != nil {
		t.Fatal(err)
	}
	if _, err := g.InsertWall(1, 1, 2, 100, 2700); err != nil {
		t.Fatal(err)
	}

	loop, ok := BuildHalfEdges(g, onlyRoom(t, g), DefaultMiterLimit)
	if !ok {
		t.Fatal("loop not built")
	}
	if got := loop.Edges[0].InteriorStart; !near(got, vec.Vec2{X: 100, Y: 50}) {
		t.Errorf("interior at corner 1 = %v, want (100, 50)", got)
	}
	if got := loop.Edges[1].InteriorStart; !near(got, vec.Vec2{X: 3900, Y: 50}) {
		t.Errorf("interior at corner 2 = %v, want (3900, 50)", got)
	}
}

func TestBuildHalfEdges_ColinearCorner(t *testing.T) {
	g := buildGraph(t,
		[]vec.Vec2{{X: 0, Y: 0}, {X: 2000, Y: 0}, {X: 4000, Y: 0}, {X: 4000, Y: 4000}, {X: 0, Y: 4000}},
		[][2]int{{1, 2}, {2, 3}, {3, 4}, {4, 5}, {5, 1}},
		200)

	loop, ok := BuildHalfEdges(g, onlyRoom(t, g), DefaultMiterLimit)
	if !ok {
		t.Fatal("loop not built")
	}
	if got := loop.Edges[1].InteriorStart; !near(got, vec.Vec2{X: 2000, Y: 100}) {
		t.Errorf("interior at the straight corner = %v, want (2000, 100)", got)
	}
}

func TestBuildHalfEdges_MiterLimitClamps(t *testing.T) {
	g := graph.New()
	pts := []vec.Vec2{{X: 0, Y: 0}, {X: 2000, Y: 0}, {X: 4000, Y: 1}, {X: 4000, Y: 4000}, {X: 0, Y: 4000}}
	for i, p := range pts {
		if _, err := g.InsertCorner(graph.CornerID(i+1), p); err != nil {
			t.Fatal(err)
		}
	}
	walls := []struct {
		a, b      graph.CornerID
		thickness float64
	}{
		{1, 2, 200}, {2, 3, 100}, {3, 4, 200}, {4, 5, 200}, {5, 1, 200},
	}
	for i, w := range walls {
		if _, err := g.InsertWall(graph.WallID(i+1), w.a, w.b, w.thickness, 2700); err != nil {
			t.Fatal(err)
		}
	}

	loop, ok := BuildHalfEdges(g, onlyRoom(t, g), DefaultMiterLimit)
	if !ok {
		t.Fatal("loop not built")
	}
	p := loop.Edges[1].InteriorStart
	if d := p.Sub(pts[1]).Length(); d > DefaultMiterLimit*100 {
		t.Errorf("interior point %v is %v away from its corner", p, d)
	}
	if p.Y < 50 || p.Y > 100 {
		t.Errorf("clamped point %v should lie between both offsets", p)
	}
}

func TestBuildHalfEdges_Rejects(t *testing.T) {
	g := squareGraph(t)
	room := onlyRoom(t, g)

	if _, ok := BuildHalfEdges(g, Room{ID: "x", Corners: []graph.CornerID{1, 2}}, 0); ok {
		t.Error("two-corner room must be rejected")
	}

	if _, err := g.RemoveWall(3); err != nil {
		t.Fatal(err)
	}
	if _, ok := BuildHalfEdges(g, room, 0); ok {
		t.Error("room with a missing wall must be rejected")
	}
}

func TestOrphanHalfEdges(t *testing.T) {
	g := buildGraph(t,
		[]vec.Vec2{{X: 0, Y: 0}, {X: 1000, Y: 0}},
		[][2]int{{1, 2}},
		200)

	loops := OrphanHalfEdges(g, nil)
	if len(loops) != 1 {
		t.Fatalf("got %d orphan loops, want 1", len(loops))
	}
	l := loops[0]
	if l.ID != "orphan-1" || len(l.Edges) != 2 {
		t.Fatalf("loop = %s with %d edges", l.ID, len(l.Edges))
	}
	fwd, back := l.Edges[0], l.Edges[1]
	if fwd.Next != 1 || back.Next != 0 {
		t.Errorf("pair links = %d/%d, want 1/0", fwd.Next, back.Next)
	}
	if !fwd.Forward || back.Forward {
		t.Error("first edge must be the forward traversal")
	}
	if !near(fwd.InteriorStart, vec.Vec2{X: 0, Y: 100}) || !near(fwd.InteriorEnd, vec.Vec2{X: 1000, Y: 100}) {
		t.Errorf("forward interior = %v -> %v", fwd.InteriorStart, fwd.InteriorEnd)
	}
	if !near(back.InteriorStart, vec.Vec2{X: 1000, Y: -100}) || !near(back.InteriorEnd, vec.Vec2{X: 0, Y: -100}) {
		t.Errorf("backward interior = %v -> %v", back.InteriorStart, back.InteriorEnd)
	}
	if got := l.Walk(0); len(got) != 2 {
		t.Errorf("walk = %v, want two edges", got)
	}
}

func TestOrphanHalfEdges_RoomWallsExcluded(t *testing.T) {
	g := squareGraph(t)
	spur, _ := g.AddCorner(vec.Vec2{X: 6000, Y: 0})
	spurWall, _, err := g.AddWall(2, spur, 200, 2700)
	if err != nil {
		t.Fatal(err)
	}

	loops := OrphanHalfEdges(g, DetectRooms(g, RoomOptions{}))
	if len(loops) != 1 {
		t.Fatalf("got %d orphan loops, want 1", len(loops))
	}
	if loops[0].Edges[0].Wall != spurWall {
		t.Errorf("orphan wall = %d, want %d", loops[0].Edges[0].Wall, spurWall)
	}
}
