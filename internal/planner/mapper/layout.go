package mapper

import (
	"planner/internal/planner/geometry"
	"planner/internal/planner/graph"
	"planner/internal/planner/models"

	"seehuhn.de/go/geom/vec"
)

// ============================================================
// Layout -> payload
// ============================================================

func LayoutPayload(l *geometry.Layout) models.Layout {
	out := models.Layout{
		Version: l.Version,
		Rooms:   make([]models.Room, 0, len(l.Rooms)),
		Walls:   make([]models.WallBoundary, 0, len(l.Boundaries)),
		Orphans: make([]int, 0, len(l.Orphans)),
	}

	for _, r := range l.Rooms {
		out.Rooms = append(out.Rooms, RoomPayload(l, r))
	}

	for _, id := range sortedWallIDs(l.Boundaries) {
		out.Walls = append(out.Walls, BoundaryPayload(id, l.Boundaries[id]))
	}

	for _, o := range l.Orphans {
		if len(o.Edges) > 0 {
			out.Orphans = append(out.Orphans, int(o.Edges[0].Wall))
		}
	}
	return out
}

// RoomPayload includes the interior polygon when the room's half-edge loop
// could be built.
func RoomPayload(l *geometry.Layout, r geometry.Room) models.Room {
	out := models.Room{
		ID:                    r.ID,
		OrderedCornerIDs:      make([]int, len(r.Corners)),
		WallIDs:               make([]int, len(r.Walls)),
		InteriorPolygonPoints: []models.Point{},
		AreaInSquareUnits:     r.Area,
		Centroid:              point(r.Centroid),
	}
	for i, id := range r.Corners {
		out.OrderedCornerIDs[i] = int(id)
	}
	for i, id := range r.Walls {
		out.WallIDs[i] = int(id)
	}
	if pts, ok := l.RoomInteriorBoundary(r.ID); ok {
		out.InteriorPolygonPoints = points(pts)
	}
	return out
}

func BoundaryPayload(id graph.WallID, q geometry.Quad) models.WallBoundary {
	return models.WallBoundary{
		WallID:     int(id),
		StartLeft:  point(q.StartLeft),
		StartRight: point(q.StartRight),
		EndLeft:    point(q.EndLeft),
		EndRight:   point(q.EndRight),
	}
}

func InteriorPayload(loop geometry.HalfEdgeLoop) models.RoomInterior {
	out := models.RoomInterior{
		RoomID:    loop.ID,
		Points:    points(loop.InteriorPolygon()),
		HalfEdges: make([]models.HalfEdge, 0, len(loop.Edges)),
	}
	for _, e := range loop.Edges {
		out.HalfEdges = append(out.HalfEdges, models.HalfEdge{
			WallID:        int(e.Wall),
			Forward:       e.Forward,
			Offset:        e.Offset,
			StartCornerID: int(e.Start),
			EndCornerID:   int(e.End),
			Next:          e.Next,
			Prev:          e.Prev,
			InteriorStart: point(e.InteriorStart),
			InteriorEnd:   point(e.InteriorEnd),
			ExteriorStart: point(e.ExteriorStart),
			ExteriorEnd:   point(e.ExteriorEnd),
		})
	}
	return out
}

func point(v vec.Vec2) models.Point {
	return models.Point{X: v.X, Y: v.Y}
}

func points(vs []vec.Vec2) []models.Point {
	out := make([]models.Point, len(vs))
	for i, v := range vs {
		out[i] = point(v)
	}
	return out
}
