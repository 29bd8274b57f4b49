package mapper

import (
	"fmt"
	"sort"
	"strconv"
	"strings"

	"planner/internal/planner/geometry"
	"planner/internal/planner/graph"

	"github.com/paulmach/orb"
	"seehuhn.de/go/geom/vec"
)

// ============================================================
// Renderer (Plan -> SVG)
// ============================================================

const (
	viewPadding  = 10.0
	defaultView  = 1000.0
	roomFill     = "#F5F5F5"
	wallFill     = "#444"
	orphanStroke = "#d62728"
)

type Renderer struct{}

func NewRenderer() *Renderer {
	return &Renderer{}
}

// Render рисует план: полы комнат по внутреннему контуру, стены - по
// контурам с учётом стыков.
func (r *Renderer) Render(g *graph.Graph, l *geometry.Layout) (string, error) {
	if g == nil || l == nil {
		return "", fmt.Errorf("plan is nil")
	}

	var elements []string
	elements = append(elements, r.renderRooms(g, l)...)
	elements = append(elements, r.renderWalls(l)...)

	minX, minY, width, height := r.viewBox(g, l)

	var builder strings.Builder
	builder.WriteString(`<?xml version="1.0" encoding="UTF-8"?>` + "\n")
	builder.WriteString(fmt.Sprintf(`<svg xmlns="http://www.w3.org/2000/svg" width="%s" height="%s" viewBox="%s %s %s %s">`,
		formatFloat(width), formatFloat(height),
		formatFloat(minX), formatFloat(minY), formatFloat(width), formatFloat(height)))
	builder.WriteString("\n")

	for _, elem := range elements {
		builder.WriteString("  ")
		builder.WriteString(elem)
		builder.WriteString("\n")
	}

	builder.WriteString(`</svg>`)
	return builder.String(), nil
}

// ============================================================
// Sizing
// ============================================================

func (r *Renderer) viewBox(g *graph.Graph, l *geometry.Layout) (minX, minY, width, height float64) {
	var mp orb.MultiPoint
	for _, q := range l.Boundaries {
		for _, p := range q.Polygon() {
			mp = append(mp, orb.Point{p.X, p.Y})
		}
	}
	for _, c := range g.Corners() {
		mp = append(mp, orb.Point{c.Pos.X, c.Pos.Y})
	}
	if len(mp) == 0 {
		return 0, 0, defaultView, defaultView
	}

	b := mp.Bound().Pad(viewPadding)
	return b.Min[0], b.Min[1], b.Max[0] - b.Min[0], b.Max[1] - b.Min[1]
}

// ============================================================
// Element renderers
// ============================================================

func (r *Renderer) renderRooms(g *graph.Graph, l *geometry.Layout) []string {
	var out []string
	for _, room := range l.Rooms {
		points, ok := l.RoomInteriorBoundary(room.ID)
		if !ok {
			points = room.Points(g)
		}
		if len(points) < 3 {
			continue
		}
		out = append(out, polygonPath(room.ID, points,
			fmt.Sprintf(`fill="%s" stroke="none"`, roomFill)))
	}
	return out
}

func (r *Renderer) renderWalls(l *geometry.Layout) []string {
	orphan := make(map[graph.WallID]bool, len(l.Orphans))
	for _, o := range l.Orphans {
		if len(o.Edges) > 0 {
			orphan[o.Edges[0].Wall] = true
		}
	}

	var out []string
	for _, w := range sortedWallIDs(l.Boundaries) {
		stroke := "#000"
		if orphan[w] {
			stroke = orphanStroke
		}
		out = append(out, polygonPath("wall-"+strconv.Itoa(int(w)), l.Boundaries[w].Polygon(),
			fmt.Sprintf(`fill="%s" stroke="%s"`, wallFill, stroke)))
	}
	return out
}

// ============================================================
// Formatting helpers
// ============================================================

func polygonPath(id string, points []vec.Vec2, attrs string) string {
	var path strings.Builder
	path.WriteString(`<path id="`)
	path.WriteString(id)
	path.WriteString(`" d="M `)
	path.WriteString(formatPoint(points[0]))
	for _, p := range points[1:] {
		path.WriteString(" L ")
		path.WriteString(formatPoint(p))
	}
	path.WriteString(` Z" `)
	path.WriteString(attrs)
	path.WriteString(` />`)
	return path.String()
}

func sortedWallIDs(m map[graph.WallID]geometry.Quad) []graph.WallID {
	ids := make([]graph.WallID, 0, len(m))
	for id := range m {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })
	return ids
}

func formatFloat(val float64) string {
	return strconv.FormatFloat(val, 'f', -1, 64)
}

func formatPoint(p vec.Vec2) string {
	return formatFloat(p.X) + " " + formatFloat(p.Y)
}
