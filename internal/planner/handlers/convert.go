package handlers

import (
	"bytes"
	"io"
	"log/slog"

	"planner/internal/planner/geometry"
	"planner/internal/planner/mapper"

	"github.com/gofiber/fiber/v3"
)

// ============================================================
// Stateless Handlers
// ============================================================

// ConvertSVG импортирует SVG (multipart, поле file) в план с геометрией.
func (h *PlanHandler) ConvertSVG(c fiber.Ctx) error {
	file, err := c.FormFile("file")
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "file required in multipart/form-data",
		})
	}

	f, err := file.Open()
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "failed to open file",
		})
	}
	defer f.Close()

	data, err := io.ReadAll(f)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "failed to read file",
		})
	}

	h.log.Info("converting svg", slog.String("file", file.Filename), slog.Int("bytes", len(data)))
	res, _, err := mapper.New(h.opts).Convert(bytes.NewReader(data))
	if err != nil {
		return c.Status(fiber.StatusUnprocessableEntity).JSON(fiber.Map{
			"error": err.Error(),
		})
	}
	return c.JSON(res)
}

// RenderSVG рисует план из тела запроса в SVG.
func (h *PlanHandler) RenderSVG(c fiber.Ctx) error {
	_, g, err := decodePlan(c)
	if err != nil {
		return h.fail(c, err)
	}

	svg, err := mapper.NewRenderer().Render(g, geometry.Compute(g, h.opts))
	if err != nil {
		return h.fail(c, err)
	}
	c.Set(fiber.HeaderContentType, "image/svg+xml")
	return c.SendString(svg)
}

// ComputeLayout считает комнаты и контуры стен для плана из тела запроса.
func (h *PlanHandler) ComputeLayout(c fiber.Ctx) error {
	_, g, err := decodePlan(c)
	if err != nil {
		return h.fail(c, err)
	}
	return c.JSON(mapper.LayoutPayload(geometry.Compute(g, h.opts)))
}
