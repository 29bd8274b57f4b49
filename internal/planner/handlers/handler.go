package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"strconv"
	"sync"

	"planner/internal/planner/geometry"
	"planner/internal/planner/graph"
	"planner/internal/planner/mapper"
	"planner/internal/planner/models"
	"planner/internal/planner/repository"

	"github.com/gofiber/fiber/v3"
)

// ============================================================
// Plan Handler
// ============================================================

var (
	errInvalidPlan  = errors.New("invalid plan")
	errCorruptPlan  = errors.New("stored plan is inconsistent")
	errRoomNotFound = errors.New("room not found")
	errBadParam     = errors.New("bad path parameter")
	errEmptyBody    = errors.New("body required")
)

// Store - хранилище снимков планов.
type Store interface {
	Create(ctx context.Context, p models.Plan) (*models.Plan, error)
	Get(ctx context.Context, id string) (*models.Plan, error)
	List(ctx context.Context) ([]models.Plan, error)
	Update(ctx context.Context, p models.Plan) (*models.Plan, error)
	Delete(ctx context.Context, id string) error
	Ping(ctx context.Context) error
}

// PlanHandler обслуживает планы. Геометрическое ядро однопоточное, поэтому
// все операции над графами идут под одним мьютексом; производная геометрия
// кешируется до следующего изменения плана.
type PlanHandler struct {
	store Store
	opts  geometry.Options
	log   *slog.Logger

	mu    sync.Mutex
	cache map[string]*cachedPlan
}

type cachedPlan struct {
	meta models.Plan
	plan *geometry.Plan
}

func NewPlanHandler(store Store, opts geometry.Options, log *slog.Logger) *PlanHandler {
	if log == nil {
		log = slog.Default()
	}
	return &PlanHandler{
		store: store,
		opts:  opts,
		log:   log,
		cache: make(map[string]*cachedPlan),
	}
}

// load читает план из хранилища и переиспользует кешированный граф, если
// план с тех пор не менялся. Вызывать под h.mu.
func (h *PlanHandler) load(ctx context.Context, id string) (*cachedPlan, error) {
	p, err := h.store.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if e, ok := h.cache[id]; ok && e.meta.UpdatedAt == p.UpdatedAt {
		return e, nil
	}

	g, err := mapper.PlanToGraph(*p)
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %v", errCorruptPlan, id, err)
	}
	e := &cachedPlan{meta: metaOf(*p), plan: geometry.NewPlan(g, h.opts)}
	h.cache[id] = e
	return e, nil
}

// save записывает текущий граф плана. При ошибке кеш плана сбрасывается,
// чтобы следующий запрос перечитал хранилище.
func (h *PlanHandler) save(ctx context.Context, id string, e *cachedPlan) error {
	saved, err := h.store.Update(ctx, mapper.GraphToPlan(e.plan.Graph(), e.meta))
	if err != nil {
		delete(h.cache, id)
		return err
	}
	e.meta = metaOf(*saved)
	return nil
}

func metaOf(p models.Plan) models.Plan {
	p.Corners, p.Walls = nil, nil
	return p
}

// ============================================================
// Request helpers
// ============================================================

func decodePlan(c fiber.Ctx) (models.Plan, *graph.Graph, error) {
	var p models.Plan
	if len(c.Body()) == 0 {
		return p, nil, errEmptyBody
	}
	if err := json.Unmarshal(c.Body(), &p); err != nil {
		return p, nil, fmt.Errorf("%w: invalid JSON payload", errInvalidPlan)
	}
	g, err := mapper.PlanToGraph(p)
	if err != nil {
		return p, nil, fmt.Errorf("%w: %w", errInvalidPlan, err)
	}
	return p, g, nil
}

func decodeBody(c fiber.Ctx, v any) error {
	if len(c.Body()) == 0 {
		return errEmptyBody
	}
	if err := json.Unmarshal(c.Body(), v); err != nil {
		return fmt.Errorf("%w: invalid JSON payload", errInvalidPlan)
	}
	return nil
}

func intParam(c fiber.Ctx, name string) (int, error) {
	v, err := strconv.Atoi(c.Params(name))
	if err != nil {
		return 0, fmt.Errorf("%w: %s", errBadParam, name)
	}
	return v, nil
}

// ============================================================
// Error mapping
// ============================================================

func statusFor(err error) int {
	switch {
	case errors.Is(err, errInvalidPlan),
		errors.Is(err, errBadParam),
		errors.Is(err, errEmptyBody):
		return fiber.StatusBadRequest
	case errors.Is(err, repository.ErrNotFound),
		errors.Is(err, errRoomNotFound),
		errors.Is(err, graph.ErrCornerNotFound),
		errors.Is(err, graph.ErrWallNotFound):
		return fiber.StatusNotFound
	case errors.Is(err, graph.ErrSelfLoop),
		errors.Is(err, graph.ErrDuplicateID),
		errors.Is(err, mapper.ErrNegativeThickness):
		return fiber.StatusBadRequest
	}
	return fiber.StatusInternalServerError
}

func (h *PlanHandler) fail(c fiber.Ctx, err error) error {
	status := statusFor(err)
	if status >= fiber.StatusInternalServerError {
		h.log.Error("request failed", slog.String("path", c.Path()), slog.Any("error", err))
	}
	return c.Status(status).JSON(fiber.Map{
		"error": err.Error(),
	})
}
