package parser

import (
	"encoding/xml"
	"io"
	"strings"

	"planner/internal/planner/models"
)

// ============================================================
// XML Structures
// ============================================================

type SVG struct {
	XMLName xml.Name `xml:"svg"`
	Rects   []Rect   `xml:"rect"`
	Paths   []Path   `xml:"path"`
	Lines   []Line   `xml:"line"`
	Groups  []Group  `xml:"g"`
}

// Group - <g>; редакторы часто заворачивают стены в слои.
type Group struct {
	Rects  []Rect  `xml:"rect"`
	Paths  []Path  `xml:"path"`
	Lines  []Line  `xml:"line"`
	Groups []Group `xml:"g"`
}

type Rect struct {
	ID     string  `xml:"id,attr"`
	X      float64 `xml:"x,attr"`
	Y      float64 `xml:"y,attr"`
	Width  float64 `xml:"width,attr"`
	Height float64 `xml:"height,attr"`
}

type Path struct {
	ID string `xml:"id,attr"`
	D  string `xml:"d,attr"`
}

type Line struct {
	ID          string  `xml:"id,attr"`
	X1          float64 `xml:"x1,attr"`
	Y1          float64 `xml:"y1,attr"`
	X2          float64 `xml:"x2,attr"`
	Y2          float64 `xml:"y2,attr"`
	StrokeWidth float64 `xml:"stroke-width,attr"`
}

// ============================================================
// Parser
// ============================================================

// ParseSVG читает SVG и возвращает элементы, распознанные по id.
func ParseSVG(r io.Reader) ([]models.SVGElement, error) {
	var svg SVG
	decoder := xml.NewDecoder(r)
	if err := decoder.Decode(&svg); err != nil {
		return nil, err
	}

	var elements []models.SVGElement
	collect(&elements, svg.Rects, svg.Paths, svg.Lines)

	groups := svg.Groups
	for len(groups) > 0 {
		g := groups[0]
		groups = append(groups[1:], g.Groups...)
		collect(&elements, g.Rects, g.Paths, g.Lines)
	}

	return elements, nil
}

func collect(out *[]models.SVGElement, rects []Rect, paths []Path, lines []Line) {
	for _, rect := range rects {
		elemType := classifyElementByID(rect.ID)
		if elemType == "" {
			continue
		}
		*out = append(*out, models.SVGElement{
			ID:   rect.ID,
			Type: elemType,
			Geometry: models.RectGeometry{
				X:      rect.X,
				Y:      rect.Y,
				Width:  rect.Width,
				Height: rect.Height,
			},
		})
	}

	for _, path := range paths {
		elemType := classifyElementByID(path.ID)
		if elemType == "" {
			continue
		}
		*out = append(*out, models.SVGElement{
			ID:       path.ID,
			Type:     elemType,
			Geometry: models.PathGeometry{D: path.D},
		})
	}

	for _, line := range lines {
		elemType := classifyElementByID(line.ID)
		if elemType == "" {
			continue
		}
		*out = append(*out, models.SVGElement{
			ID:   line.ID,
			Type: elemType,
			Geometry: models.LineGeometry{
				X1: line.X1, Y1: line.Y1,
				X2: line.X2, Y2: line.Y2,
				Width: line.StrokeWidth,
			},
		})
	}
}

func classifyElementByID(id string) string {
	switch {
	case strings.HasPrefix(id, "Wall_"), strings.HasPrefix(id, "Hui_Wall_"):
		return "wall"
	case strings.HasPrefix(id, "Door_"):
		return "door"
	case strings.HasPrefix(id, "Window_"):
		return "window"
	case strings.HasPrefix(id, "Room_"),
		strings.HasSuffix(id, "_room"), // Hall_room, Toilet_room
		strings.HasSuffix(id, "_Room"):
		return "room"
	case strings.HasPrefix(id, "Balcony"):
		return "balcony"
	}
	return ""
}
