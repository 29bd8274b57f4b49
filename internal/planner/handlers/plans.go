package handlers

import (
	"fmt"
	"log/slog"

	"planner/internal/planner/geometry"
	"planner/internal/planner/graph"
	"planner/internal/planner/mapper"
	"planner/internal/planner/models"

	"github.com/gofiber/fiber/v3"
)

// ============================================================
// Plans CRUD
// ============================================================

func (h *PlanHandler) CreatePlan(c fiber.Ctx) error {
	p, g, err := decodePlan(c)
	if err != nil {
		return h.fail(c, err)
	}
	meta := metaOf(p)
	meta.ID = ""

	created, err := h.store.Create(c.Context(), mapper.GraphToPlan(g, meta))
	if err != nil {
		return h.fail(c, err)
	}
	h.log.Info("plan created", slog.String("id", created.ID), slog.Int("walls", len(created.Walls)))
	return c.Status(fiber.StatusCreated).JSON(created)
}

func (h *PlanHandler) ListPlans(c fiber.Ctx) error {
	plans, err := h.store.List(c.Context())
	if err != nil {
		return h.fail(c, err)
	}
	return c.JSON(plans)
}

func (h *PlanHandler) GetPlan(c fiber.Ctx) error {
	p, err := h.store.Get(c.Context(), c.Params("id"))
	if err != nil {
		return h.fail(c, err)
	}
	return c.JSON(p)
}

// UpdatePlan заменяет углы и стены плана целиком.
func (h *PlanHandler) UpdatePlan(c fiber.Ctx) error {
	id := c.Params("id")
	p, g, err := decodePlan(c)
	if err != nil {
		return h.fail(c, err)
	}

	h.mu.Lock()
	defer h.mu.Unlock()

	current, err := h.store.Get(c.Context(), id)
	if err != nil {
		return h.fail(c, err)
	}
	meta := metaOf(*current)
	if p.Name != "" {
		meta.Name = p.Name
	}
	if p.Unit != "" {
		meta.Unit = p.Unit
	}

	updated, err := h.store.Update(c.Context(), mapper.GraphToPlan(g, meta))
	delete(h.cache, id)
	if err != nil {
		return h.fail(c, err)
	}
	return c.JSON(updated)
}

func (h *PlanHandler) DeletePlan(c fiber.Ctx) error {
	id := c.Params("id")

	h.mu.Lock()
	defer h.mu.Unlock()

	if err := h.store.Delete(c.Context(), id); err != nil {
		return h.fail(c, err)
	}
	delete(h.cache, id)
	return c.SendStatus(fiber.StatusNoContent)
}

// ============================================================
// Derived geometry
// ============================================================

// withLayout выполняет fn над актуальной геометрией плана.
func (h *PlanHandler) withLayout(c fiber.Ctx, fn func(g *graph.Graph, l *geometry.Layout) error) error {
	h.mu.Lock()
	defer h.mu.Unlock()

	e, err := h.load(c.Context(), c.Params("id"))
	if err != nil {
		return h.fail(c, err)
	}
	return fn(e.plan.Graph(), e.plan.Layout())
}

func (h *PlanHandler) GetLayout(c fiber.Ctx) error {
	return h.withLayout(c, func(_ *graph.Graph, l *geometry.Layout) error {
		return c.JSON(mapper.LayoutPayload(l))
	})
}

func (h *PlanHandler) ListRooms(c fiber.Ctx) error {
	return h.withLayout(c, func(_ *graph.Graph, l *geometry.Layout) error {
		rooms := make([]models.Room, 0, len(l.Rooms))
		for _, r := range l.Rooms {
			rooms = append(rooms, mapper.RoomPayload(l, r))
		}
		return c.JSON(rooms)
	})
}

func (h *PlanHandler) GetRoomInterior(c fiber.Ctx) error {
	roomID := c.Params("roomId")
	return h.withLayout(c, func(_ *graph.Graph, l *geometry.Layout) error {
		loop, ok := l.Interiors[roomID]
		if !ok {
			return h.fail(c, fmt.Errorf("%w: %s", errRoomNotFound, roomID))
		}
		return c.JSON(mapper.InteriorPayload(loop))
	})
}

func (h *PlanHandler) GetWallBoundary(c fiber.Ctx) error {
	id, err := intParam(c, "wallId")
	if err != nil {
		return h.fail(c, err)
	}
	return h.withLayout(c, func(g *graph.Graph, l *geometry.Layout) error {
		wid := graph.WallID(id)
		if _, ok := g.Wall(wid); !ok {
			return h.fail(c, fmt.Errorf("wall %d: %w", id, graph.ErrWallNotFound))
		}
		q, ok := l.WallBoundary(wid)
		if !ok {
			return c.Status(fiber.StatusUnprocessableEntity).JSON(fiber.Map{
				"error": fmt.Sprintf("wall %d has no boundary (zero length or missing corner)", id),
			})
		}
		return c.JSON(mapper.BoundaryPayload(wid, q))
	})
}

func (h *PlanHandler) GetPlanSVG(c fiber.Ctx) error {
	return h.withLayout(c, func(g *graph.Graph, l *geometry.Layout) error {
		svg, err := mapper.NewRenderer().Render(g, l)
		if err != nil {
			return h.fail(c, err)
		}
		c.Set(fiber.HeaderContentType, "image/svg+xml")
		return c.SendString(svg)
	})
}
