package handlers

import (
	"fmt"
	"log/slog"

	"planner/internal/planner/graph"
	"planner/internal/planner/mapper"
	"planner/internal/planner/models"

	"github.com/gofiber/fiber/v3"
	"seehuhn.de/go/geom/vec"
)

// ============================================================
// Graph mutations
// ============================================================

// mutate применяет fn к графу плана, сохраняет результат и отвечает
// {change, layout} с пересчитанной геометрией.
func (h *PlanHandler) mutate(c fiber.Ctx, status int, fn func(g *graph.Graph) (graph.Change, error)) error {
	id := c.Params("id")

	h.mu.Lock()
	defer h.mu.Unlock()

	e, err := h.load(c.Context(), id)
	if err != nil {
		return h.fail(c, err)
	}
	change, err := fn(e.plan.Graph())
	if err != nil {
		return h.fail(c, err)
	}
	if err := h.save(c.Context(), id, e); err != nil {
		return h.fail(c, err)
	}

	h.log.Debug("plan mutated",
		slog.String("id", id),
		slog.String("kind", string(change.Kind)),
		slog.Uint64("version", change.Version))
	return c.Status(status).JSON(fiber.Map{
		"change": change,
		"layout": mapper.LayoutPayload(e.plan.Layout()),
	})
}

func (h *PlanHandler) AddCorner(c fiber.Ctx) error {
	var in models.CornerInput
	if err := decodeBody(c, &in); err != nil {
		return h.fail(c, err)
	}
	return h.mutate(c, fiber.StatusCreated, func(g *graph.Graph) (graph.Change, error) {
		_, change := g.AddCorner(vec.Vec2{X: in.X, Y: in.Y})
		return change, nil
	})
}

func (h *PlanHandler) MoveCorner(c fiber.Ctx) error {
	id, err := intParam(c, "cornerId")
	if err != nil {
		return h.fail(c, err)
	}
	var in models.CornerInput
	if err := decodeBody(c, &in); err != nil {
		return h.fail(c, err)
	}
	return h.mutate(c, fiber.StatusOK, func(g *graph.Graph) (graph.Change, error) {
		return g.MoveCorner(graph.CornerID(id), vec.Vec2{X: in.X, Y: in.Y})
	})
}

// DeleteCorner удаляет угол вместе со всеми его стенами, чтобы в
// сохранённом плане не оставалось висячих ссылок.
func (h *PlanHandler) DeleteCorner(c fiber.Ctx) error {
	id, err := intParam(c, "cornerId")
	if err != nil {
		return h.fail(c, err)
	}
	return h.mutate(c, fiber.StatusOK, func(g *graph.Graph) (graph.Change, error) {
		cid := graph.CornerID(id)
		if _, ok := g.Corner(cid); !ok {
			return graph.Change{}, fmt.Errorf("corner %d: %w", id, graph.ErrCornerNotFound)
		}

		walls := g.WallsAt(cid)
		for _, wid := range walls {
			if _, err := g.RemoveWall(wid); err != nil {
				return graph.Change{}, err
			}
		}
		change, err := g.RemoveCorner(cid)
		if err != nil {
			return graph.Change{}, err
		}
		change.Walls = walls
		return change, nil
	})
}

func (h *PlanHandler) AddWall(c fiber.Ctx) error {
	var in models.WallInput
	if err := decodeBody(c, &in); err != nil {
		return h.fail(c, err)
	}
	if in.Thickness < 0 {
		return h.fail(c, mapper.ErrNegativeThickness)
	}
	height := in.Height
	if height <= 0 {
		height = graph.DefaultWallHeight
	}

	return h.mutate(c, fiber.StatusCreated, func(g *graph.Graph) (graph.Change, error) {
		_, change, err := g.AddWall(graph.CornerID(in.StartCornerID), graph.CornerID(in.EndCornerID), in.Thickness, height)
		if err != nil {
			return graph.Change{}, fmt.Errorf("%w: %w", errInvalidPlan, err)
		}
		return change, nil
	})
}

func (h *PlanHandler) DeleteWall(c fiber.Ctx) error {
	id, err := intParam(c, "wallId")
	if err != nil {
		return h.fail(c, err)
	}
	return h.mutate(c, fiber.StatusOK, func(g *graph.Graph) (graph.Change, error) {
		return g.RemoveWall(graph.WallID(id))
	})
}
