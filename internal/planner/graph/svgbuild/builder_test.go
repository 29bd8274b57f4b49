package svgbuild

import (
	"testing"

	"planner/internal/planner/graph"
	"planner/internal/planner/models"
)

func TestBuilder_SplitsTJunction(t *testing.T) {
	walls := []models.SVGElement{
		{ID: "Wall_1", Type: "wall", Geometry: models.RectGeometry{X: 0, Y: 0, Width: 400, Height: 20}},
		{ID: "Wall_2", Type: "wall", Geometry: models.RectGeometry{X: 190, Y: 10, Width: 20, Height: 300}},
	}

	b := NewBuilder()
	g, err := b.BuildFromWalls(walls)
	if err != nil {
		t.Fatalf("BuildFromWalls() error = %v", err)
	}

	corners, ws := g.Len()
	if corners != 4 {
		t.Errorf("corners = %d, want 4", corners)
	}
	if ws != 3 {
		t.Errorf("walls = %d, want 3 (horizontal wall split at the junction)", ws)
	}

	var junction graph.CornerID
	for _, c := range g.Corners() {
		if len(g.WallsAt(c.ID)) == 3 {
			junction = c.ID
		}
	}
	if junction == 0 {
		t.Fatal("no corner with three walls")
	}
	pos, _ := g.Corner(junction)
	if pos.Pos.X != 200 || pos.Pos.Y != 10 {
		t.Errorf("junction at %v, want (200, 10)", pos.Pos)
	}

	for _, w := range g.Walls() {
		if w.Thickness != 20 {
			t.Errorf("wall %d thickness = %v, want 20", w.ID, w.Thickness)
		}
		if w.Height != graph.DefaultWallHeight {
			t.Errorf("wall %d height = %v, want %v", w.ID, w.Height, graph.DefaultWallHeight)
		}
	}

	sources := b.Sources()
	if len(sources) != 3 {
		t.Errorf("sources = %v, want 3 entries", sources)
	}
}

func TestBuilder_MergesCloseEndpointsAndSnaps(t *testing.T) {
	walls := []models.SVGElement{
		{ID: "Wall_a", Type: "wall", Geometry: models.LineGeometry{X1: 0, Y1: 0, X2: 300, Y2: 1, Width: 10}},
		{ID: "Wall_b", Type: "wall", Geometry: models.LineGeometry{X1: 303, Y1: 3, X2: 300, Y2: 200, Width: 10}},
	}

	g, err := NewBuilder().BuildFromWalls(walls)
	if err != nil {
		t.Fatalf("BuildFromWalls() error = %v", err)
	}

	if corners, ws := g.Len(); corners != 3 || ws != 2 {
		t.Fatalf("got %d corners / %d walls, want 3 / 2", corners, ws)
	}

	for _, w := range g.Walls() {
		a, _ := g.Corner(w.Start)
		b, _ := g.Corner(w.End)
		if a.Pos.X != b.Pos.X && a.Pos.Y != b.Pos.Y {
			t.Errorf("wall %d not axis aligned: %v -> %v", w.ID, a.Pos, b.Pos)
		}
	}
}

func TestBuilder_TransformApplied(t *testing.T) {
	b := NewBuilder()
	b.SetTransform(func(p models.Point) models.Point { return models.Point{X: p.X, Y: -p.Y} })

	g, err := b.BuildFromWalls([]models.SVGElement{
		{ID: "Wall_1", Type: "wall", Geometry: models.RectGeometry{X: 0, Y: 90, Width: 100, Height: 20}},
	})
	if err != nil {
		t.Fatal(err)
	}
	for _, c := range g.Corners() {
		if c.Pos.Y != -100 {
			t.Errorf("corner %d y = %v, want -100", c.ID, c.Pos.Y)
		}
	}
}
