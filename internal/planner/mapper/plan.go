package mapper

import (
	"errors"
	"fmt"

	"planner/internal/planner/graph"
	"planner/internal/planner/models"

	"seehuhn.de/go/geom/vec"
)

// ============================================================
// Plan payload <-> Graph
// ============================================================

// DefaultUnit - единица измерения плана, если клиент её не передал.
const DefaultUnit = "cm"

var ErrNegativeThickness = errors.New("wall thickness must not be negative")

// PlanToGraph собирает граф из payload, сохраняя id углов и стен.
// Стена с отсутствующим углом, петля или повтор id - ошибка клиента.
func PlanToGraph(p models.Plan) (*graph.Graph, error) {
	g := graph.New()

	for _, c := range p.Corners {
		if _, err := g.InsertCorner(graph.CornerID(c.ID), vec.Vec2{X: c.X, Y: c.Y}); err != nil {
			return nil, fmt.Errorf("corner %d: %w", c.ID, err)
		}
	}
	for _, w := range p.Walls {
		if w.Thickness < 0 {
			return nil, fmt.Errorf("wall %d: %w", w.ID, ErrNegativeThickness)
		}
		height := w.Height
		if height <= 0 {
			height = graph.DefaultWallHeight
		}
		_, err := g.InsertWall(graph.WallID(w.ID),
			graph.CornerID(w.StartCornerID), graph.CornerID(w.EndCornerID),
			w.Thickness, height)
		if err != nil {
			return nil, fmt.Errorf("wall %d: %w", w.ID, err)
		}
	}
	return g, nil
}

// GraphToPlan переносит углы и стены графа в payload. Метаданные (id, имя,
// единица, даты) берутся из meta.
func GraphToPlan(g *graph.Graph, meta models.Plan) models.Plan {
	out := meta
	if out.Unit == "" {
		out.Unit = DefaultUnit
	}

	corners := g.Corners()
	out.Corners = make([]models.Corner, 0, len(corners))
	for _, c := range corners {
		out.Corners = append(out.Corners, models.Corner{ID: int(c.ID), X: c.Pos.X, Y: c.Pos.Y})
	}

	walls := g.Walls()
	out.Walls = make([]models.Wall, 0, len(walls))
	for _, w := range walls {
		out.Walls = append(out.Walls, models.Wall{
			ID:            int(w.ID),
			StartCornerID: int(w.Start),
			EndCornerID:   int(w.End),
			Thickness:     w.Thickness,
			Height:        w.Height,
		})
	}
	return out
}
