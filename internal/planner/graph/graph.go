package graph

import (
	"errors"
	"fmt"
	"math"
	"sort"

	"seehuhn.de/go/geom/vec"
)

// ============================================================
// Graph Model
// ============================================================

var (
	ErrCornerNotFound = errors.New("corner not found")
	ErrWallNotFound   = errors.New("wall not found")
	ErrSelfLoop       = errors.New("wall start and end corner are the same")
	ErrDuplicateID    = errors.New("id already in use")
)

// DefaultWallHeight - высота стены, если источник её не задаёт.
const DefaultWallHeight = 300.0

type CornerID int

type WallID int

// Corner - вершина плана. Списки стен ведёт только Graph.
type Corner struct {
	ID  CornerID
	Pos vec.Vec2

	starts map[WallID]struct{}
	ends   map[WallID]struct{}
}

// Wall - ребро плана между двумя разными углами.
type Wall struct {
	ID        WallID
	Start     CornerID
	End       CornerID
	Thickness float64
	Height    float64
}

// Graph хранит углы и стены в плоских коллекциях по id.
// Все перекрёстные ссылки - это id, а не указатели.
//
// Graph предполагает планарную укладку: две стены, которые геометрически
// пересекаются без общего угла, здесь не разрезаются.
type Graph struct {
	corners map[CornerID]*Corner
	walls   map[WallID]*Wall

	nextCorner CornerID
	nextWall   WallID
	version    uint64
}

func New() *Graph {
	return &Graph{
		corners:    make(map[CornerID]*Corner),
		walls:      make(map[WallID]*Wall),
		nextCorner: 1,
		nextWall:   1,
	}
}

// Version увеличивается при каждой мутации. Производные данные,
// посчитанные для другой версии, считаются устаревшими.
func (g *Graph) Version() uint64 {
	return g.version
}

// ============================================================
// Mutations
// ============================================================

// AddCorner добавляет угол с новым id.
func (g *Graph) AddCorner(pos vec.Vec2) (CornerID, Change) {
	id := g.nextCorner
	g.insertCorner(id, pos)
	return id, g.change(ChangeCornerAdded, []CornerID{id}, nil)
}

// InsertCorner добавляет угол с id, выданным вызывающей стороной.
func (g *Graph) InsertCorner(id CornerID, pos vec.Vec2) (Change, error) {
	if _, ok := g.corners[id]; ok {
		return Change{}, fmt.Errorf("corner %d: %w", id, ErrDuplicateID)
	}
	g.insertCorner(id, pos)
	return g.change(ChangeCornerAdded, []CornerID{id}, nil), nil
}

func (g *Graph) insertCorner(id CornerID, pos vec.Vec2) {
	g.corners[id] = &Corner{
		ID:     id,
		Pos:    pos,
		starts: make(map[WallID]struct{}),
		ends:   make(map[WallID]struct{}),
	}
	if id >= g.nextCorner {
		g.nextCorner = id + 1
	}
}

// AddWall соединяет два существующих угла новой стеной.
func (g *Graph) AddWall(start, end CornerID, thickness, height float64) (WallID, Change, error) {
	id := g.nextWall
	if err := g.insertWall(id, start, end, thickness, height); err != nil {
		return 0, Change{}, err
	}
	return id, g.change(ChangeWallAdded, []CornerID{start, end}, []WallID{id}), nil
}

// InsertWall добавляет стену с id, выданным вызывающей стороной.
func (g *Graph) InsertWall(id WallID, start, end CornerID, thickness, height float64) (Change, error) {
	if _, ok := g.walls[id]; ok {
		return Change{}, fmt.Errorf("wall %d: %w", id, ErrDuplicateID)
	}
	if err := g.insertWall(id, start, end, thickness, height); err != nil {
		return Change{}, err
	}
	return g.change(ChangeWallAdded, []CornerID{start, end}, []WallID{id}), nil
}

func (g *Graph) insertWall(id WallID, start, end CornerID, thickness, height float64) error {
	if start == end {
		return fmt.Errorf("wall %d at corner %d: %w", id, start, ErrSelfLoop)
	}
	sc, ok := g.corners[start]
	if !ok {
		return fmt.Errorf("wall %d start %d: %w", id, start, ErrCornerNotFound)
	}
	ec, ok := g.corners[end]
	if !ok {
		return fmt.Errorf("wall %d end %d: %w", id, end, ErrCornerNotFound)
	}

	g.walls[id] = &Wall{
		ID:        id,
		Start:     start,
		End:       end,
		Thickness: thickness,
		Height:    height,
	}
	sc.starts[id] = struct{}{}
	ec.ends[id] = struct{}{}

	if id >= g.nextWall {
		g.nextWall = id + 1
	}
	return nil
}

// RemoveWall отсоединяет стену от обоих углов и удаляет её.
func (g *Graph) RemoveWall(id WallID) (Change, error) {
	w, ok := g.walls[id]
	if !ok {
		return Change{}, fmt.Errorf("wall %d: %w", id, ErrWallNotFound)
	}
	if c, ok := g.corners[w.Start]; ok {
		delete(c.starts, id)
	}
	if c, ok := g.corners[w.End]; ok {
		delete(c.ends, id)
	}
	delete(g.walls, id)
	return g.change(ChangeWallRemoved, []CornerID{w.Start, w.End}, []WallID{id}), nil
}

// RemoveCorner удаляет угол. Стены, которые на него ссылаются, не удаляются:
// вызывающая сторона должна удалить их сама. До этого такие стены
// пропускаются всеми геометрическими расчётами.
func (g *Graph) RemoveCorner(id CornerID) (Change, error) {
	c, ok := g.corners[id]
	if !ok {
		return Change{}, fmt.Errorf("corner %d: %w", id, ErrCornerNotFound)
	}
	dangling := append(sortedWallIDs(c.starts), sortedWallIDs(c.ends)...)
	delete(g.corners, id)
	return g.change(ChangeCornerRemoved, []CornerID{id}, dangling), nil
}

// MoveCorner меняет позицию угла. Затронуты все стены в этом углу.
func (g *Graph) MoveCorner(id CornerID, pos vec.Vec2) (Change, error) {
	c, ok := g.corners[id]
	if !ok {
		return Change{}, fmt.Errorf("corner %d: %w", id, ErrCornerNotFound)
	}
	c.Pos = pos
	return g.change(ChangeCornerMoved, []CornerID{id}, g.wallsAt(c)), nil
}

// ============================================================
// Queries
// ============================================================

func (g *Graph) Corner(id CornerID) (Corner, bool) {
	c, ok := g.corners[id]
	if !ok {
		return Corner{}, false
	}
	return Corner{ID: c.ID, Pos: c.Pos}, true
}

func (g *Graph) Wall(id WallID) (Wall, bool) {
	w, ok := g.walls[id]
	if !ok {
		return Wall{}, false
	}
	return *w, true
}

// Corners возвращает копии всех углов, отсортированные по id.
func (g *Graph) Corners() []Corner {
	out := make([]Corner, 0, len(g.corners))
	for _, c := range g.corners {
		out = append(out, Corner{ID: c.ID, Pos: c.Pos})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}

// Walls возвращает копии всех стен, отсортированные по id.
func (g *Graph) Walls() []Wall {
	out := make([]Wall, 0, len(g.walls))
	for _, w := range g.walls {
		out = append(out, *w)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}

// WallsStartingAt и WallsEndingAt возвращают списки смежности угла.
func (g *Graph) WallsStartingAt(id CornerID) []WallID {
	c, ok := g.corners[id]
	if !ok {
		return nil
	}
	return sortedWallIDs(c.starts)
}

func (g *Graph) WallsEndingAt(id CornerID) []WallID {
	c, ok := g.corners[id]
	if !ok {
		return nil
	}
	return sortedWallIDs(c.ends)
}

// WallsAt возвращает все стены, которые начинаются или заканчиваются в углу.
func (g *Graph) WallsAt(id CornerID) []WallID {
	c, ok := g.corners[id]
	if !ok {
		return nil
	}
	return g.wallsAt(c)
}

func (g *Graph) wallsAt(c *Corner) []WallID {
	ids := make([]WallID, 0, len(c.starts)+len(c.ends))
	for id := range c.starts {
		ids = append(ids, id)
	}
	for id := range c.ends {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })
	return ids
}

// AdjacentCorners возвращает соседей угла через его стены.
// Соседи, которых уже нет в графе, не возвращаются.
func (g *Graph) AdjacentCorners(id CornerID) []CornerID {
	c, ok := g.corners[id]
	if !ok {
		return nil
	}

	seen := make(map[CornerID]struct{}, len(c.starts)+len(c.ends))
	var out []CornerID
	add := func(other CornerID) {
		if _, ok := g.corners[other]; !ok {
			return
		}
		if _, dup := seen[other]; dup {
			return
		}
		seen[other] = struct{}{}
		out = append(out, other)
	}
	for wid := range c.starts {
		add(g.walls[wid].End)
	}
	for wid := range c.ends {
		add(g.walls[wid].Start)
	}
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	return out
}

// WallBetween ищет стену между двумя углами в любом направлении.
// При нескольких параллельных стенах возвращает стену с меньшим id.
func (g *Graph) WallBetween(a, b CornerID) (Wall, bool) {
	c, ok := g.corners[a]
	if !ok {
		return Wall{}, false
	}
	var best *Wall
	for wid := range c.starts {
		if w := g.walls[wid]; w.End == b && (best == nil || w.ID < best.ID) {
			best = w
		}
	}
	for wid := range c.ends {
		if w := g.walls[wid]; w.Start == b && (best == nil || w.ID < best.ID) {
			best = w
		}
	}
	if best == nil {
		return Wall{}, false
	}
	return *best, true
}

// Distance - расстояние между двумя углами.
func (g *Graph) Distance(a, b CornerID) (float64, bool) {
	ca, ok1 := g.corners[a]
	cb, ok2 := g.corners[b]
	if !ok1 || !ok2 {
		return 0, false
	}
	return ca.Pos.Sub(cb.Pos).Length(), true
}

// Len возвращает количество углов и стен.
func (g *Graph) Len() (corners, walls int) {
	return len(g.corners), len(g.walls)
}

// Clone делает независимую копию графа, включая версию и счётчики id.
func (g *Graph) Clone() *Graph {
	out := &Graph{
		corners:    make(map[CornerID]*Corner, len(g.corners)),
		walls:      make(map[WallID]*Wall, len(g.walls)),
		nextCorner: g.nextCorner,
		nextWall:   g.nextWall,
		version:    g.version,
	}
	for id, c := range g.corners {
		cp := &Corner{
			ID:     c.ID,
			Pos:    c.Pos,
			starts: make(map[WallID]struct{}, len(c.starts)),
			ends:   make(map[WallID]struct{}, len(c.ends)),
		}
		for wid := range c.starts {
			cp.starts[wid] = struct{}{}
		}
		for wid := range c.ends {
			cp.ends[wid] = struct{}{}
		}
		out.corners[id] = cp
	}
	for id, w := range g.walls {
		cp := *w
		out.walls[id] = &cp
	}
	return out
}

// ============================================================
// Helpers
// ============================================================

func sortedWallIDs(set map[WallID]struct{}) []WallID {
	ids := make([]WallID, 0, len(set))
	for id := range set {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })
	return ids
}

// IsZeroLength сообщает, что стена вырождена (концы совпадают).
func IsZeroLength(a, b vec.Vec2) bool {
	return math.Abs(a.X-b.X) < epsilon && math.Abs(a.Y-b.Y) < epsilon
}

const epsilon = 1e-9
