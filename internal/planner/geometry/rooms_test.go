package geometry

import (
	"math"
	"reflect"
	"testing"

	"planner/internal/planner/graph"

	"seehuhn.de/go/geom/vec"
)

// buildGraph creates corners with ids 1..len(pts) and a wall per pair.
func buildGraph(t *testing.T, pts []vec.Vec2, pairs [][2]int, thickness float64) *graph.Graph {
	t.Helper()
	g := graph.New()
	for i, p := range pts {
		if _, err := g.InsertCorner(graph.CornerID(i+1), p); err != nil {
			t.Fatal(err)
		}
	}
	for i, pr := range pairs {
		if _, err := g.InsertWall(graph.WallID(i+1), graph.CornerID(pr[0]), graph.CornerID(pr[1]), thickness, 2700); err != nil {
			t.Fatal(err)
		}
	}
	return g
}

func near(a, b vec.Vec2) bool {
	return math.Abs(a.X-b.X) < 1e-6 && math.Abs(a.Y-b.Y) < 1e-6
}

func squareGraph(t *testing.T) *graph.Graph {
	return buildGraph(t,
		[]vec.Vec2{{X: 0, Y: 0}, {X: 4000, Y: 0}, {X: 4000, Y: 4000}, {X: 0, Y: 4000}},
		[][2]int{{1, 2}, {2, 3}, {3, 4}, {4, 1}},
		200)
}

func TestDetectRooms_ClosedSquare(t *testing.T) {
	g := squareGraph(t)

	rooms := DetectRooms(g, RoomOptions{})
	if len(rooms) != 1 {
		t.Fatalf("got %d rooms, want 1", len(rooms))
	}

	r := rooms[0]
	want := []graph.CornerID{1, 2, 3, 4}
	if !reflect.DeepEqual(r.Corners, want) {
		t.Errorf("corners = %v, want %v", r.Corners, want)
	}
	if r.ID != "room-1-2-3-4" {
		t.Errorf("id = %q", r.ID)
	}
	if r.Area != 16_000_000 {
		t.Errorf("area = %v, want 16000000", r.Area)
	}
	if !reflect.DeepEqual(r.Walls, []graph.WallID{1, 2, 3, 4}) {
		t.Errorf("walls = %v", r.Walls)
	}
	if !near(r.Centroid, vec.Vec2{X: 2000, Y: 2000}) {
		t.Errorf("centroid = %v, want (2000, 2000)", r.Centroid)
	}
	if r.Bounds.Min[0] != 0 || r.Bounds.Max[1] != 4000 {
		t.Errorf("bounds = %v", r.Bounds)
	}
}

func TestDetectRooms_SeedDoesNotMatter(t *testing.T) {
	g := squareGraph(t)
	base := DetectRooms(g, RoomOptions{})

	for seed := graph.CornerID(1); seed <= 4; seed++ {
		got := DetectRooms(g, RoomOptions{Seed: &seed})
		if !reflect.DeepEqual(got, base) {
			t.Errorf("seed %d: rooms = %+v, want %+v", seed, got, base)
		}
	}
}

func TestDetectRooms_SeedFromCornerZero(t *testing.T) {
	g := graph.New()
	pts := []vec.Vec2{{X: 0, Y: 0}, {X: 10, Y: 0}, {X: 10, Y: 10}, {X: 0, Y: 10}}
	for i, p := range pts {
		if _, err := g.InsertCorner(graph.CornerID(i), p); err != nil {
			t.Fatal(err)
		}
	}
	for i := range pts {
		if _, err := g.InsertWall(graph.WallID(i+1), graph.CornerID(i), graph.CornerID((i+1)%4), 1, 10); err != nil {
			t.Fatal(err)
		}
	}

	base := DetectRooms(g, RoomOptions{})
	for _, seed := range []graph.CornerID{0, 2, 99} {
		got := DetectRooms(g, RoomOptions{Seed: &seed})
		if !reflect.DeepEqual(got, base) {
			t.Errorf("seed %d: rooms = %+v, want %+v", seed, got, base)
		}
	}
	if len(base) != 1 || base[0].ID != "room-0-1-2-3" {
		t.Errorf("rooms = %+v", base)
	}
}

func TestDetectRooms_TJunctionHasNoRoom(t *testing.T) {
	g := buildGraph(t,
		[]vec.Vec2{{X: 0, Y: 0}, {X: -3000, Y: 0}, {X: 3000, Y: 0}, {X: 0, Y: 3000}},
		[][2]int{{1, 2}, {1, 3}, {4, 1}},
		200)

	if rooms := DetectRooms(g, RoomOptions{}); len(rooms) != 0 {
		t.Errorf("got rooms %+v, want none", rooms)
	}
}

func TestDetectRooms_TwoRoomsShareAWall(t *testing.T) {
	g := buildGraph(t,
		[]vec.Vec2{
			{X: 0, Y: 0}, {X: 4, Y: 0}, {X: 8, Y: 0},
			{X: 8, Y: 4}, {X: 4, Y: 4}, {X: 0, Y: 4},
		},
		[][2]int{{1, 2}, {2, 3}, {3, 4}, {4, 5}, {5, 6}, {6, 1}, {2, 5}},
		0.2)

	rooms := DetectRooms(g, RoomOptions{})
	if len(rooms) != 2 {
		t.Fatalf("got %d rooms, want 2: %+v", len(rooms), rooms)
	}
	if !reflect.DeepEqual(rooms[0].Corners, []graph.CornerID{1, 2, 5, 6}) {
		t.Errorf("left room = %v", rooms[0].Corners)
	}
	if !reflect.DeepEqual(rooms[1].Corners, []graph.CornerID{2, 3, 4, 5}) {
		t.Errorf("right room = %v", rooms[1].Corners)
	}
	for _, r := range rooms {
		if r.Area != 16 {
			t.Errorf("%s area = %v, want 16", r.ID, r.Area)
		}
	}
}

func TestDetectRooms_DeadEndSpurIsSkipped(t *testing.T) {
	// Квадрат с тупиковой стеной внутрь из угла 2.
	g := buildGraph(t,
		[]vec.Vec2{{X: 0, Y: 0}, {X: 10, Y: 0}, {X: 10, Y: 10}, {X: 0, Y: 10}, {X: 5, Y: 5}},
		[][2]int{{1, 2}, {2, 3}, {3, 4}, {4, 1}, {2, 5}},
		1)

	rooms := DetectRooms(g, RoomOptions{})
	if len(rooms) != 1 {
		t.Fatalf("got %d rooms, want 1", len(rooms))
	}
	if !reflect.DeepEqual(rooms[0].Corners, []graph.CornerID{1, 2, 3, 4}) {
		t.Errorf("corners = %v", rooms[0].Corners)
	}
}

func TestDetectRooms_RemoveAndReAddWall(t *testing.T) {
	g := squareGraph(t)
	before := DetectRooms(g, RoomOptions{})

	w, _ := g.Wall(2)
	if _, err := g.RemoveWall(2); err != nil {
		t.Fatal(err)
	}
	if rooms := DetectRooms(g, RoomOptions{}); len(rooms) != 0 {
		t.Fatalf("after removal got %d rooms, want 0", len(rooms))
	}

	if _, err := g.InsertWall(w.ID, w.Start, w.End, w.Thickness, w.Height); err != nil {
		t.Fatal(err)
	}
	after := DetectRooms(g, RoomOptions{})
	if !reflect.DeepEqual(after, before) {
		t.Errorf("after re-adding rooms = %+v, want %+v", after, before)
	}
}

func TestDetectRooms_SkipsMalformedWalls(t *testing.T) {
	g := squareGraph(t)

	// Нулевая стена между совпадающими углами.
	dup, _ := g.AddCorner(vec.Vec2{X: 0, Y: 0})
	if _, _, err := g.AddWall(1, dup, 200, 2700); err != nil {
		t.Fatal(err)
	}
	if rooms := DetectRooms(g, RoomOptions{}); len(rooms) != 1 {
		t.Errorf("zero-length wall: got %d rooms, want 1", len(rooms))
	}

	// Стена, ссылающаяся на удалённый угол.
	if _, err := g.RemoveCorner(4); err != nil {
		t.Fatal(err)
	}
	if rooms := DetectRooms(g, RoomOptions{}); len(rooms) != 0 {
		t.Errorf("dangling walls: got %d rooms, want 0", len(rooms))
	}
}

func TestDetectRooms_StepBudget(t *testing.T) {
	g := squareGraph(t)
	if rooms := DetectRooms(g, RoomOptions{MaxSteps: 2}); len(rooms) != 0 {
		t.Errorf("got %d rooms with an exhausted budget, want 0", len(rooms))
	}
	if rooms := DetectRooms(g, RoomOptions{MaxSteps: 4}); len(rooms) != 1 {
		t.Errorf("got %d rooms with a sufficient budget, want 1", len(rooms))
	}
}

func TestDetectRooms_EmptyGraph(t *testing.T) {
	if rooms := DetectRooms(graph.New(), RoomOptions{}); len(rooms) != 0 {
		t.Errorf("got %d rooms, want 0", len(rooms))
	}
}

// gridGraph builds an n x n grid of square cells with side 1000:
// (n+1)^2 corners and 2n(n+1) walls.
func gridGraph(tb testing.TB, n int) *graph.Graph {
	tb.Helper()
	g := graph.New()
	ids := make([][]graph.CornerID, n+1)
	for y := 0; y <= n; y++ {
		ids[y] = make([]graph.CornerID, n+1)
		for x := 0; x <= n; x++ {
			ids[y][x], _ = g.AddCorner(vec.Vec2{X: float64(x) * 1000, Y: float64(y) * 1000})
		}
	}
	for y := 0; y <= n; y++ {
		for x := 0; x <= n; x++ {
			if x < n {
				if _, _, err := g.AddWall(ids[y][x], ids[y][x+1], 100, 2700); err != nil {
					tb.Fatal(err)
				}
			}
			if y < n {
				if _, _, err := g.AddWall(ids[y][x], ids[y+1][x], 100, 2700); err != nil {
					tb.Fatal(err)
				}
			}
		}
	}
	return g
}

func TestDetectRooms_Grid(t *testing.T) {
	for _, n := range []int{3, 10, 15} {
		g := gridGraph(t, n)
		rooms := DetectRooms(g, RoomOptions{})
		if len(rooms) != n*n {
			t.Errorf("n=%d: got %d rooms, want %d", n, len(rooms), n*n)
			continue
		}
		for _, r := range rooms {
			if len(r.Corners) != 4 || len(r.Walls) != 4 || math.Abs(r.Area-1e6) > 1e-6 {
				t.Errorf("n=%d: room %s corners=%v walls=%v area=%v", n, r.ID, r.Corners, r.Walls, r.Area)
				break
			}
		}
	}
}

func benchmarkDetectRooms(b *testing.B, n int) {
	g := gridGraph(b, n)
	b.ReportAllocs()
	for b.Loop() {
		DetectRooms(g, RoomOptions{})
	}
}

// 220 walls
func BenchmarkDetectRooms_Grid10(b *testing.B) { benchmarkDetectRooms(b, 10) }

// 480 walls
func BenchmarkDetectRooms_Grid15(b *testing.B) { benchmarkDetectRooms(b, 15) }

func TestSameLoop(t *testing.T) {
	a := []graph.CornerID{3, 4, 1, 2}
	b := []graph.CornerID{1, 2, 3, 4}
	if !SameLoop(a, b) {
		t.Error("rotations should be the same loop")
	}
	if SameLoop(b, []graph.CornerID{1, 4, 3, 2}) {
		t.Error("reversed loop should differ")
	}
}
