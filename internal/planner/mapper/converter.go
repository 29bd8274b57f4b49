package mapper

import (
	"fmt"
	"io"
	"log/slog"

	"planner/internal/planner/geometry"
	"planner/internal/planner/graph"
	"planner/internal/planner/graph/svgbuild"
	"planner/internal/planner/models"
	"planner/internal/planner/parser"
)

// ============================================================
// Converter (SVG -> Plan)
// ============================================================

type Converter struct {
	builder *svgbuild.Builder
	opts    geometry.Options
}

// Converted - результат импорта: план, его геометрия и исходные SVG id стен.
type Converted struct {
	Plan    models.Plan    `json:"plan"`
	Layout  models.Layout  `json:"layout"`
	Sources map[int]string `json:"sources"`
	Ignored []string       `json:"ignored"`
}

func New(opts geometry.Options) *Converter {
	return &Converter{
		builder: svgbuild.NewBuilder(),
		opts:    opts,
	}
}

// SetTransform задает трансформацию координат SVG перед построением графа.
func (c *Converter) SetTransform(f func(models.Point) models.Point) {
	c.builder.SetTransform(f)
}

// Convert SVG -> план. Комнаты из SVG не переносятся: они выводятся из
// графа стен. Двери, окна и балконы пропускаются.
func (c *Converter) Convert(r io.Reader) (*Converted, *graph.Graph, error) {
	elements, err := parser.ParseSVG(r)
	if err != nil {
		return nil, nil, fmt.Errorf("parse SVG: %w", err)
	}

	var walls []models.SVGElement
	ignored := []string{}
	for _, elem := range elements {
		if elem.Type == "wall" {
			walls = append(walls, elem)
			continue
		}
		ignored = append(ignored, elem.ID)
	}
	if len(walls) == 0 {
		return nil, nil, fmt.Errorf("no walls found in SVG")
	}

	g, err := c.builder.BuildFromWalls(walls)
	if err != nil {
		return nil, nil, fmt.Errorf("build walls graph: %w", err)
	}

	sources := make(map[int]string)
	for id, src := range c.builder.Sources() {
		sources[int(id)] = src
	}

	layout := geometry.Compute(g, c.opts)
	corners, ws := g.Len()
	slog.Debug("svg converted",
		slog.Int("elements", len(elements)),
		slog.Int("corners", corners),
		slog.Int("walls", ws),
		slog.Int("rooms", len(layout.Rooms)),
		slog.Int("ignored", len(ignored)))

	return &Converted{
		Plan:    GraphToPlan(g, models.Plan{Unit: DefaultUnit}),
		Layout:  LayoutPayload(layout),
		Sources: sources,
		Ignored: ignored,
	}, g, nil
}
