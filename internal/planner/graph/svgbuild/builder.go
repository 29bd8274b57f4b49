package svgbuild

import (
	"fmt"
	"math"
	"sort"

	"planner/internal/planner/graph"
	"planner/internal/planner/models"
	"planner/internal/planner/parser"

	"seehuhn.de/go/geom/vec"
)

// ============================================================
// Graph Builder (SVG walls -> Graph)
// ============================================================

const tolerance = 2.0         // Tolerance для объединения близких точек
const connectTolerance = 15   // Допуск для поиска пересечения и снаппинга
const mergeTolerance = 8.0    // Радиус склейки близких вершин после разрезания сегментов
const axisSnapTolerance = 4.0 // Насколько расходиться от оси, чтобы зафиксировать координату

type Builder struct {
	vertices  []vec.Vec2
	segments  []wallSegment
	sources   map[graph.WallID]string
	transform func(models.Point) models.Point
}

type wallSegment struct {
	id        string
	p1        vec.Vec2
	p2        vec.Vec2
	thickness float64
}

func NewBuilder() *Builder {
	return &Builder{
		sources:   make(map[graph.WallID]string),
		transform: func(p models.Point) models.Point { return p },
	}
}

// SetTransform задает функцию трансформации координат (например, зеркалирование).
func (b *Builder) SetTransform(f func(models.Point) models.Point) {
	if f == nil {
		b.transform = func(p models.Point) models.Point { return p }
		return
	}
	b.transform = f
}

// BuildFromWalls создает граф из SVG-стен. Пересекающиеся горизонтальные и
// вертикальные стены разрезаются в точке пересечения, близкие концы
// склеиваются в один угол.
func (b *Builder) BuildFromWalls(walls []models.SVGElement) (*graph.Graph, error) {
	b.reset()

	for _, wall := range walls {
		if err := b.addWall(wall); err != nil {
			return nil, fmt.Errorf("wall %s: %w", wall.ID, err)
		}
	}

	return b.buildConnectedGraph()
}

// Sources возвращает исходный SVG id для каждой построенной стены.
func (b *Builder) Sources() map[graph.WallID]string {
	out := make(map[graph.WallID]string, len(b.sources))
	for k, v := range b.sources {
		out[k] = v
	}
	return out
}

func (b *Builder) reset() {
	b.vertices = b.vertices[:0]
	b.segments = b.segments[:0]
	b.sources = make(map[graph.WallID]string)
}

func (b *Builder) addWall(wall models.SVGElement) error {
	switch geom := wall.Geometry.(type) {
	case models.RectGeometry:
		b.addRectWall(wall.ID, geom)
	case models.PathGeometry:
		return b.addPathWall(wall.ID, geom)
	case models.LineGeometry:
		b.addSegment(wall.ID,
			models.Point{X: geom.X1, Y: geom.Y1},
			models.Point{X: geom.X2, Y: geom.Y2},
			geom.Width)
	}
	return nil
}

func (b *Builder) addRectWall(id string, rect models.RectGeometry) {
	// Rect преобразуем в линию (используем длинную сторону)
	thickness := math.Min(rect.Width, rect.Height)

	var p1, p2 models.Point
	if rect.Width > rect.Height {
		p1 = models.Point{X: rect.X, Y: rect.Y + rect.Height/2}
		p2 = models.Point{X: rect.X + rect.Width, Y: rect.Y + rect.Height/2}
	} else {
		p1 = models.Point{X: rect.X + rect.Width/2, Y: rect.Y}
		p2 = models.Point{X: rect.X + rect.Width/2, Y: rect.Y + rect.Height}
	}
	b.addSegment(id, p1, p2, thickness)
}

func (b *Builder) addPathWall(id string, path models.PathGeometry) error {
	points, err := parser.ParsePath(path.D)
	if err != nil {
		return err
	}
	if len(points) < 2 {
		return nil
	}

	// Для path берем центр длинной стороны bounding box
	minX, maxX := points[0].X, points[0].X
	minY, maxY := points[0].Y, points[0].Y
	for _, p := range points {
		minX, maxX = math.Min(minX, p.X), math.Max(maxX, p.X)
		minY, maxY = math.Min(minY, p.Y), math.Max(maxY, p.Y)
	}

	width := maxX - minX
	height := maxY - minY
	thickness := math.Min(width, height)

	var p1, p2 models.Point
	switch {
	case width == 0 && height == 0:
		p1, p2 = points[0], points[len(points)-1]
	case width >= height:
		midY := minY + height/2
		p1 = models.Point{X: minX, Y: midY}
		p2 = models.Point{X: maxX, Y: midY}
	default:
		midX := minX + width/2
		p1 = models.Point{X: midX, Y: minY}
		p2 = models.Point{X: midX, Y: maxY}
	}
	b.addSegment(id, p1, p2, thickness)
	return nil
}

func (b *Builder) addSegment(id string, p1, p2 models.Point, thickness float64) {
	p1 = b.transform(p1)
	p2 = b.transform(p2)
	b.segments = append(b.segments, wallSegment{
		id:        id,
		p1:        vec.Vec2{X: p1.X, Y: p1.Y},
		p2:        vec.Vec2{X: p2.X, Y: p2.Y},
		thickness: thickness,
	})
}

// ============================================================
// Wall segments connection
// ============================================================

type segmentInfo struct {
	segment     wallSegment
	horizontal  bool
	start       float64
	end         float64
	constant    float64
	splitPoints []float64
}

func (b *Builder) buildConnectedGraph() (*graph.Graph, error) {
	segments := splitSegments(b.segments)

	type edge struct {
		v1, v2 int
		seg    wallSegment
	}
	edges := make([]edge, 0, len(segments))
	for _, seg := range segments {
		edges = append(edges, edge{
			v1:  b.findOrCreateVertex(seg.p1),
			v2:  b.findOrCreateVertex(seg.p2),
			seg: seg,
		})
	}

	rep := b.mergeCloseVertices()

	g := graph.New()
	cornerOf := make(map[int]graph.CornerID)
	for idx, p := range b.vertices {
		if rep[idx] != idx {
			continue
		}
		id, _ := g.AddCorner(p)
		cornerOf[idx] = id
	}

	type pair struct{ a, b graph.CornerID }
	seen := make(map[pair]struct{})
	for _, e := range edges {
		c1, c2 := cornerOf[rep[e.v1]], cornerOf[rep[e.v2]]
		if c1 == c2 {
			continue
		}
		key := pair{min(c1, c2), max(c1, c2)}
		if _, dup := seen[key]; dup {
			continue
		}
		seen[key] = struct{}{}

		id, _, err := g.AddWall(c1, c2, e.seg.thickness, graph.DefaultWallHeight)
		if err != nil {
			return nil, err
		}
		b.sources[id] = e.seg.id
	}

	snapAxisAligned(g)
	return g, nil
}

func splitSegments(segments []wallSegment) []wallSegment {
	if len(segments) == 0 {
		return nil
	}

	infos := make([]*segmentInfo, 0, len(segments))
	var diagonal []wallSegment
	for _, seg := range segments {
		dx := math.Abs(seg.p1.X - seg.p2.X)
		dy := math.Abs(seg.p1.Y - seg.p2.Y)
		if dx > axisSnapTolerance && dy > axisSnapTolerance {
			// Наклонные стены не режем: ядро не разрезает пересечения.
			diagonal = append(diagonal, seg)
			continue
		}

		horizontal := dy <= dx
		start, end := seg.p1.X, seg.p2.X
		constant := seg.p1.Y
		if !horizontal {
			start, end = seg.p1.Y, seg.p2.Y
			constant = seg.p1.X
		}
		if start > end {
			start, end = end, start
		}

		infos = append(infos, &segmentInfo{
			segment:     seg,
			horizontal:  horizontal,
			start:       start,
			end:         end,
			constant:    constant,
			splitPoints: []float64{start, end},
		})
	}

	for i := 0; i < len(infos); i++ {
		for j := i + 1; j < len(infos); j++ {
			a, c := infos[i], infos[j]
			if a.horizontal == c.horizontal {
				continue
			}
			if a.horizontal {
				tryAddIntersection(a, c)
			} else {
				tryAddIntersection(c, a)
			}
		}
	}

	counter := make(map[string]int)
	var result []wallSegment

	for _, info := range infos {
		points := append([]float64{}, info.splitPoints...)
		sort.Float64s(points)
		points = uniquePoints(points)
		if len(points) < 2 {
			continue
		}

		parts := len(points) - 1
		for idx := 0; idx < parts; idx++ {
			start, end := points[idx], points[idx+1]
			if almostEqual(start, end) {
				continue
			}

			var p1, p2 vec.Vec2
			if info.horizontal {
				p1 = vec.Vec2{X: start, Y: info.constant}
				p2 = vec.Vec2{X: end, Y: info.constant}
			} else {
				p1 = vec.Vec2{X: info.constant, Y: start}
				p2 = vec.Vec2{X: info.constant, Y: end}
			}

			counter[info.segment.id]++
			id := info.segment.id
			if parts > 1 {
				id = fmt.Sprintf("%s_%d", info.segment.id, counter[info.segment.id])
			}

			result = append(result, wallSegment{
				id:        id,
				p1:        p1,
				p2:        p2,
				thickness: info.segment.thickness,
			})
		}
	}

	return append(result, diagonal...)
}

func tryAddIntersection(h, v *segmentInfo) {
	vx := v.constant
	hy := h.constant

	if vx < h.start-connectTolerance || vx > h.end+connectTolerance {
		return
	}
	if hy < v.start-connectTolerance || hy > v.end+connectTolerance {
		return
	}

	h.splitPoints = append(h.splitPoints, clamp(vx, h.start, h.end))
	v.splitPoints = append(v.splitPoints, clamp(hy, v.start, v.end))
}

func (b *Builder) findOrCreateVertex(p vec.Vec2) int {
	for idx, v := range b.vertices {
		if p.Sub(v).Length() < tolerance {
			return idx
		}
	}
	b.vertices = append(b.vertices, p)
	return len(b.vertices) - 1
}

// mergeCloseVertices склеивает вершины, которые оказались совсем рядом после
// разрезания сегментов. Возвращает представителя для каждой вершины.
func (b *Builder) mergeCloseVertices() []int {
	rep := make([]int, len(b.vertices))
	for i := range rep {
		rep[i] = -1
	}
	for i := range b.vertices {
		if rep[i] != -1 {
			continue
		}
		rep[i] = i
		for j := i + 1; j < len(b.vertices); j++ {
			if rep[j] != -1 {
				continue
			}
			if b.vertices[i].Sub(b.vertices[j]).Length() <= mergeTolerance {
				rep[j] = i
			}
		}
	}
	return rep
}

// snapAxisAligned фиксирует координаты углов по осям для почти
// горизонтальных/вертикальных стен.
func snapAxisAligned(g *graph.Graph) {
	type agg struct {
		sumX float64
		cntX int
		sumY float64
		cntY int
	}
	aggMap := make(map[graph.CornerID]*agg)
	get := func(id graph.CornerID) *agg {
		a := aggMap[id]
		if a == nil {
			a = &agg{}
			aggMap[id] = a
		}
		return a
	}

	for _, w := range g.Walls() {
		v1, _ := g.Corner(w.Start)
		v2, _ := g.Corner(w.End)
		dx := v1.Pos.X - v2.Pos.X
		dy := v1.Pos.Y - v2.Pos.Y

		if math.Abs(dy) <= axisSnapTolerance {
			targetY := (v1.Pos.Y + v2.Pos.Y) / 2
			for _, id := range []graph.CornerID{w.Start, w.End} {
				a := get(id)
				a.sumY += targetY
				a.cntY++
			}
		} else if math.Abs(dx) <= axisSnapTolerance {
			targetX := (v1.Pos.X + v2.Pos.X) / 2
			for _, id := range []graph.CornerID{w.Start, w.End} {
				a := get(id)
				a.sumX += targetX
				a.cntX++
			}
		}
	}

	ids := make([]graph.CornerID, 0, len(aggMap))
	for id := range aggMap {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })

	for _, id := range ids {
		a := aggMap[id]
		c, _ := g.Corner(id)
		pos := c.Pos
		if a.cntX > 0 {
			pos.X = a.sumX / float64(a.cntX)
		}
		if a.cntY > 0 {
			pos.Y = a.sumY / float64(a.cntY)
		}
		g.MoveCorner(id, pos)
	}
}

// ============================================================
// Helpers
// ============================================================

func uniquePoints(points []float64) []float64 {
	if len(points) == 0 {
		return points
	}
	out := points[:1]
	for i := 1; i < len(points); i++ {
		if !almostEqual(points[i], points[i-1]) {
			out = append(out, points[i])
		}
	}
	return out
}

func almostEqual(a, b float64) bool {
	return math.Abs(a-b) < 1e-6
}

func clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
