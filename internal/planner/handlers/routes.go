package handlers

import (
	"github.com/gofiber/fiber/v3"
)

// ============================================================
// Routes
// ============================================================

// Register вешает все маршруты сервиса планировщика на router.
func (h *PlanHandler) Register(r fiber.Router) {
	r.Get("/health/live", LivenessProbe)
	r.Get("/health/ready", h.ReadinessProbe)

	r.Get("/docs", SwaggerUI)
	r.Get("/docs/openapi.yaml", OpenAPIDoc)

	r.Post("/convert", h.ConvertSVG)
	r.Post("/render", h.RenderSVG)
	r.Post("/layout", h.ComputeLayout)

	plans := r.Group("/plans")
	plans.Post("/", h.CreatePlan)
	plans.Get("/", h.ListPlans)
	plans.Get("/:id", h.GetPlan)
	plans.Put("/:id", h.UpdatePlan)
	plans.Delete("/:id", h.DeletePlan)

	plans.Get("/:id/layout", h.GetLayout)
	plans.Get("/:id/rooms", h.ListRooms)
	plans.Get("/:id/rooms/:roomId/interior", h.GetRoomInterior)
	plans.Get("/:id/walls/:wallId/boundary", h.GetWallBoundary)
	plans.Get("/:id/svg", h.GetPlanSVG)

	plans.Post("/:id/corners", h.AddCorner)
	plans.Patch("/:id/corners/:cornerId", h.MoveCorner)
	plans.Delete("/:id/corners/:cornerId", h.DeleteCorner)
	plans.Post("/:id/walls", h.AddWall)
	plans.Delete("/:id/walls/:wallId", h.DeleteWall)
}
