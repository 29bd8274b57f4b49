package geometry

import (
	"cmp"
	"log/slog"
	"math"
	"slices"
	"sort"
	"strconv"
	"strings"

	"planner/internal/planner/graph"

	"github.com/paulmach/orb"
	"github.com/paulmach/orb/planar"
	"seehuhn.de/go/geom/vec"
)

// Room is a detected simple counter-clockwise loop of corners. Rooms have no
// identity beyond their corner sequence: ID is derived from the sequence
// rotated so that the smallest corner id comes first.
type Room struct {
	ID       string
	Corners  []graph.CornerID
	Walls    []graph.WallID
	Area     float64
	Centroid vec.Vec2
	Bounds   orb.Bound
}

// Points returns the corner positions of the room in loop order.
func (r Room) Points(g *graph.Graph) []vec.Vec2 {
	out := make([]vec.Vec2, 0, len(r.Corners))
	for _, id := range r.Corners {
		c, ok := g.Corner(id)
		if !ok {
			continue
		}
		out = append(out, c.Pos)
	}
	return out
}

type RoomOptions struct {
	// MaxSteps caps the stack pops of a single seed walk. Zero selects
	// 64 + 8*(corners+walls). A walk that runs out of budget yields no loop.
	MaxSteps int
	// Seed is the corner the seed iteration starts from; nil starts from the
	// smallest id. The result does not depend on it; it exists so callers can
	// check exactly that.
	Seed *graph.CornerID
	// HighDegreeWarn logs corners with more walls than this before the
	// search starts. Zero selects 8, negative disables the warning.
	HighDegreeWarn int
}

// topology is the read-only view of the graph the detector walks. Corners
// are addressed by dense index in ascending id order. Only walls with both
// corners present and non-zero length take part in adj; starts keeps every
// wall with both corners present, indexed by its start corner.
type topology struct {
	ids    []graph.CornerID
	pos    []vec.Vec2
	adj    [][]int
	starts [][]incidentWall

	// буферы обхода, переиспользуются между seed-обходами
	visited []uint32
	gen     uint32
	member  []uint32
	mgen    uint32
	nodes   []walkNode
	stack   []int
	cands   []candidate
}

type incidentWall struct {
	id  graph.WallID
	end int
}

func newTopology(g *graph.Graph) *topology {
	corners := g.Corners()
	n := len(corners)
	t := &topology{
		ids:     make([]graph.CornerID, n),
		pos:     make([]vec.Vec2, n),
		adj:     make([][]int, n),
		starts:  make([][]incidentWall, n),
		visited: make([]uint32, n),
		member:  make([]uint32, n),
	}
	index := make(map[graph.CornerID]int, n)
	for i, c := range corners {
		t.ids[i] = c.ID
		t.pos[i] = c.Pos
		index[c.ID] = i
	}

	type pair struct{ a, b int }
	seen := make(map[pair]struct{})
	for _, w := range g.Walls() {
		a, ok1 := index[w.Start]
		b, ok2 := index[w.End]
		if !ok1 || !ok2 {
			Logger().Warn("rooms: wall references a missing corner, skipped",
				slog.Int("wall", int(w.ID)), slog.Int("start", int(w.Start)), slog.Int("end", int(w.End)))
			continue
		}
		t.starts[a] = append(t.starts[a], incidentWall{id: w.ID, end: b})

		if graph.IsZeroLength(t.pos[a], t.pos[b]) {
			Logger().Warn("rooms: zero-length wall skipped", slog.Int("wall", int(w.ID)))
			continue
		}
		key := pair{min(a, b), max(a, b)}
		if _, dup := seen[key]; dup {
			continue
		}
		seen[key] = struct{}{}
		t.adj[a] = append(t.adj[a], b)
		t.adj[b] = append(t.adj[b], a)
	}
	for _, nbs := range t.adj {
		slices.Sort(nbs)
	}
	return t
}

func (t *topology) cornerIDs(loop []int) []graph.CornerID {
	out := make([]graph.CornerID, len(loop))
	for i, idx := range loop {
		out[i] = t.ids[idx]
	}
	return out
}

// DetectRooms enumerates the minimal enclosed loops of g.
//
// For every directed wall (first -> second) a walk follows the tightest turn
// until it returns to first; candidate loops are deduplicated under rotation
// and clockwise loops (the unbounded face) are dropped.
//
// The graph must be a planar embedding: walls that cross without sharing a
// corner are not split here.
func DetectRooms(g *graph.Graph, opts RoomOptions) []Room {
	t := newTopology(g)
	corners, walls := g.Len()
	n := len(t.ids)

	budget := opts.MaxSteps
	if budget <= 0 {
		budget = 64 + 8*(corners+walls)
	}
	warnDegree := opts.HighDegreeWarn
	if warnDegree == 0 {
		warnDegree = 8
	}

	start := 0
	if opts.Seed != nil {
		if i, ok := slices.BinarySearch(t.ids, *opts.Seed); ok {
			start = i
		}
	}

	if warnDegree > 0 {
		for i, nbs := range t.adj {
			if d := len(nbs); d > warnDegree {
				Logger().Warn("rooms: high-degree corner, candidate walks may grow",
					slog.Int("corner", int(t.ids[i])), slog.Int("degree", d))
			}
		}
	}

	seen := make(map[string]struct{})
	var rooms []Room
	for k := range n {
		first := (start + k) % n
		for _, second := range t.adj[first] {
			loop, ok := t.traceLoop(first, second, budget)
			if !ok {
				continue
			}
			canon := canonicalLoop(loop)
			ids := t.cornerIDs(canon)
			key := loopKey(ids)
			if _, dup := seen[key]; dup {
				continue
			}
			seen[key] = struct{}{}

			room, ok := t.buildRoom(key, canon, ids)
			if !ok {
				continue
			}
			rooms = append(rooms, room)
		}
	}

	sort.Slice(rooms, func(i, j int) bool { return lessLoop(rooms[i].Corners, rooms[j].Corners) })

	Logger().Debug("rooms: detection finished",
		slog.Int("corners", corners), slog.Int("walls", walls), slog.Int("rooms", len(rooms)))
	return rooms
}

type walkNode struct {
	corner int
	parent int
}

type candidate struct {
	corner int
	turn   float64
}

// before orders candidates by ascending turn; on equal turns the larger
// corner goes first so the smaller one is popped first.
func (c candidate) before(o candidate) bool {
	if c.turn != o.turn {
		return c.turn < o.turn
	}
	return c.corner > o.corner
}

// traceLoop walks from first via second using an explicit stack. Candidates
// are pushed in ascending turn order so the largest turn is popped first.
// The turn at cur is the full counter-clockwise angle from the reversed
// incoming direction (cur->prev) to the outgoing one (cur->next).
func (t *topology) traceLoop(first, second, budget int) ([]int, bool) {
	t.gen++
	if t.gen == 0 {
		clear(t.visited)
		t.gen = 1
	}
	nodes := append(t.nodes[:0], walkNode{corner: first, parent: -1}, walkNode{corner: second, parent: 0})
	stack := append(t.stack[:0], 1)
	defer func() { t.nodes, t.stack = nodes, stack }()
	t.visited[first] = t.gen

	for steps := 0; len(stack) > 0; steps++ {
		if steps >= budget {
			Logger().Warn("rooms: walk budget exhausted",
				slog.Int("first", int(t.ids[first])), slog.Int("second", int(t.ids[second])), slog.Int("budget", budget))
			return nil, false
		}

		idx := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		node := nodes[idx]
		cur := node.corner
		t.visited[cur] = t.gen

		if cur == first {
			loop := pathTo(nodes, node.parent)
			if len(loop) >= 3 {
				return loop, true
			}
			continue
		}

		cands := t.cands[:0]
		for _, nb := range t.adj[cur] {
			if t.visited[nb] == t.gen && !(nb == first && cur != second) {
				continue
			}
			cands = append(cands, candidate{corner: nb})
		}

		if len(cands) > 1 {
			c := t.pos[cur]
			back := t.pos[nodes[node.parent].corner].Sub(c)
			for i := range cands {
				cands[i].turn = ccwAngle(back, t.pos[cands[i].corner].Sub(c))
			}
			for i := 1; i < len(cands); i++ {
				for j := i; j > 0 && cands[j].before(cands[j-1]); j-- {
					cands[j], cands[j-1] = cands[j-1], cands[j]
				}
			}
		}

		for _, cand := range cands {
			nodes = append(nodes, walkNode{corner: cand.corner, parent: idx})
			stack = append(stack, len(nodes)-1)
		}
		t.cands = cands
	}
	return nil, false
}

func pathTo(nodes []walkNode, idx int) []int {
	n := 0
	for i := idx; i >= 0; i = nodes[i].parent {
		n++
	}
	out := make([]int, n)
	for i := idx; i >= 0; i = nodes[i].parent {
		n--
		out[n] = nodes[i].corner
	}
	return out
}

// buildRoom keeps only counter-clockwise loops with a non-zero area. Room
// walls are all walls whose both corners lie on the loop.
func (t *topology) buildRoom(key string, loop []int, ids []graph.CornerID) (Room, bool) {
	ring := make(orb.Ring, 0, len(loop)+1)
	for _, idx := range loop {
		p := t.pos[idx]
		ring = append(ring, orb.Point{p.X, p.Y})
	}
	ring = append(ring, ring[0])

	if ring.Orientation() != orb.CCW {
		return Room{}, false
	}
	centroid, area := planar.CentroidArea(ring)
	area = math.Abs(area)
	if area < lengthEpsilon {
		return Room{}, false
	}

	t.mgen++
	if t.mgen == 0 {
		clear(t.member)
		t.mgen = 1
	}
	for _, idx := range loop {
		t.member[idx] = t.mgen
	}
	var walls []graph.WallID
	for _, idx := range loop {
		for _, w := range t.starts[idx] {
			if t.member[w.end] == t.mgen {
				walls = append(walls, w.id)
			}
		}
	}
	slices.Sort(walls)

	return Room{
		ID:       key,
		Corners:  ids,
		Walls:    walls,
		Area:     area,
		Centroid: vec.Vec2{X: centroid[0], Y: centroid[1]},
		Bounds:   ring.Bound(),
	}, true
}

// ============================================================
// Loop identity
// ============================================================

// canonicalLoop rotates loop so that its smallest element comes first. The
// traversal direction is kept.
func canonicalLoop[T cmp.Ordered](loop []T) []T {
	start := 0
	for i, id := range loop {
		if id < loop[start] {
			start = i
		}
	}
	out := make([]T, 0, len(loop))
	out = append(out, loop[start:]...)
	return append(out, loop[:start]...)
}

// SameLoop reports whether a and b are the same cyclic corner sequence.
func SameLoop(a, b []graph.CornerID) bool {
	if len(a) != len(b) {
		return false
	}
	return loopKey(canonicalLoop(a)) == loopKey(canonicalLoop(b))
}

func loopKey(canon []graph.CornerID) string {
	var sb strings.Builder
	sb.WriteString("room")
	for _, id := range canon {
		sb.WriteByte('-')
		sb.WriteString(strconv.Itoa(int(id)))
	}
	return sb.String()
}

func lessLoop(a, b []graph.CornerID) bool {
	for i := 0; i < len(a) && i < len(b); i++ {
		if a[i] != b[i] {
			return a[i] < b[i]
		}
	}
	return len(a) < len(b)
}
