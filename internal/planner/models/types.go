package models

// ============================================================
// SVG Elements
// ============================================================

type SVGElement struct {
	ID       string
	Type     string // wall, door, window, room, balcony
	Geometry interface{}
}

type RectGeometry struct {
	X      float64
	Y      float64
	Width  float64
	Height float64
}

type PathGeometry struct {
	D string
}

type LineGeometry struct {
	X1, Y1 float64
	X2, Y2 float64
	Width  float64
}

// ============================================================
// Geometry primitives
// ============================================================

type Point struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

// ============================================================
// Plan (граница с редактором)
// ============================================================

type Corner struct {
	ID int     `json:"id"`
	X  float64 `json:"x"`
	Y  float64 `json:"y"`
}

type Wall struct {
	ID            int     `json:"id"`
	StartCornerID int     `json:"startCornerId"`
	EndCornerID   int     `json:"endCornerId"`
	Thickness     float64 `json:"thickness"`
	Height        float64 `json:"height"`
}

type Plan struct {
	ID        string   `json:"id,omitempty"`
	Name      string   `json:"name"`
	Unit      string   `json:"unit"`
	Corners   []Corner `json:"corners"`
	Walls     []Wall   `json:"walls"`
	CreatedAt string   `json:"createdAt,omitempty"`
	UpdatedAt string   `json:"updatedAt,omitempty"`
}

// ============================================================
// Derived geometry
// ============================================================

type Room struct {
	ID                    string  `json:"id"`
	OrderedCornerIDs      []int   `json:"orderedCornerIds"`
	WallIDs               []int   `json:"wallIds"`
	InteriorPolygonPoints []Point `json:"interiorPolygonPoints"`
	AreaInSquareUnits     float64 `json:"areaInSquareUnits"`
	Centroid              Point   `json:"centroid"`
}

type WallBoundary struct {
	WallID     int   `json:"wallId"`
	StartLeft  Point `json:"startLeft"`
	StartRight Point `json:"startRight"`
	EndLeft    Point `json:"endLeft"`
	EndRight   Point `json:"endRight"`
}

type HalfEdge struct {
	WallID        int     `json:"wallId"`
	Forward       bool    `json:"forward"`
	Offset        float64 `json:"offset"`
	StartCornerID int     `json:"startCornerId"`
	EndCornerID   int     `json:"endCornerId"`
	Next          int     `json:"next"`
	Prev          int     `json:"prev"`
	InteriorStart Point   `json:"interiorStart"`
	InteriorEnd   Point   `json:"interiorEnd"`
	ExteriorStart Point   `json:"exteriorStart"`
	ExteriorEnd   Point   `json:"exteriorEnd"`
}

type RoomInterior struct {
	RoomID    string     `json:"roomId"`
	Points    []Point    `json:"points"`
	HalfEdges []HalfEdge `json:"halfEdges"`
}

type Layout struct {
	Version uint64         `json:"version"`
	Rooms   []Room         `json:"rooms"`
	Walls   []WallBoundary `json:"walls"`
	Orphans []int          `json:"orphanWallIds"`
}

// ============================================================
// Mutation requests
// ============================================================

type CornerInput struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

type WallInput struct {
	StartCornerID int     `json:"startCornerId"`
	EndCornerID   int     `json:"endCornerId"`
	Thickness     float64 `json:"thickness"`
	Height        float64 `json:"height"`
}
