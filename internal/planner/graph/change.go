package graph

// ============================================================
// Change
// ============================================================

type ChangeKind string

const (
	ChangeCornerAdded   ChangeKind = "corner_added"
	ChangeCornerMoved   ChangeKind = "corner_moved"
	ChangeCornerRemoved ChangeKind = "corner_removed"
	ChangeWallAdded     ChangeKind = "wall_added"
	ChangeWallRemoved   ChangeKind = "wall_removed"
)

// Change описывает, что затронула мутация. Его возвращает каждая
// мутирующая операция вместо рассылки событий подписчикам; комнаты и
// контуры стен после любого Change пересчитываются целиком.
type Change struct {
	Kind    ChangeKind `json:"kind"`
	Corners []CornerID `json:"corners"`
	Walls   []WallID   `json:"walls"`
	Version uint64     `json:"version"`
}

func (g *Graph) change(kind ChangeKind, corners []CornerID, walls []WallID) Change {
	g.version++
	if corners == nil {
		corners = []CornerID{}
	}
	if walls == nil {
		walls = []WallID{}
	}
	return Change{
		Kind:    kind,
		Corners: corners,
		Walls:   walls,
		Version: g.version,
	}
}
