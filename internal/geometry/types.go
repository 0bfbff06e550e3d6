package geometry

// Point is a 2D coordinate in the source coordinate space (points).
type Point struct {
	X float64 `json:"x" yaml:"x"`
	Y float64 `json:"y" yaml:"y"`
}

// BoundingBox is an axis-aligned rectangle in the source coordinate space.
type BoundingBox struct {
	X      float64 `json:"x" yaml:"x"`
	Y      float64 `json:"y" yaml:"y"`
	Width  float64 `json:"width" yaml:"width"`
	Height float64 `json:"height" yaml:"height"`
}

// Area returns the rectangle area.
func (b BoundingBox) Area() float64 {
	return b.Width * b.Height
}

// AspectRatio returns width/height, or 0 when height is zero.
func (b BoundingBox) AspectRatio() float64 {
	if b.Height == 0 {
		return 0
	}
	return b.Width / b.Height
}

// Center returns the midpoint of the rectangle.
func (b BoundingBox) Center() Point {
	return Point{X: b.X + b.Width/2, Y: b.Y + b.Height/2}
}

// Contains reports whether the point lies within the rectangle (inclusive).
func (b BoundingBox) Contains(p Point) bool {
	return p.X >= b.X && p.X <= b.X+b.Width &&
		p.Y >= b.Y && p.Y <= b.Y+b.Height
}

// PathElement is one vector path on a page. Elements are supplied by the
// caller and never mutated by the pipeline.
type PathElement struct {
	// D is the geometric command string (SVG-style path data).
	D string `json:"d" yaml:"d"`
	// Stroke is the stroke color, hex or named, empty if unset.
	Stroke string `json:"stroke,omitempty" yaml:"stroke,omitempty"`
	// Box is the element's bounding box in source units.
	Box BoundingBox `json:"box" yaml:"box"`
}

// TextElement is one text run on a page.
type TextElement struct {
	Content  string `json:"content" yaml:"content"`
	Position Point  `json:"position" yaml:"position"`
}

// Page holds the geometry of a single design page as provided by the
// upstream document model.
type Page struct {
	Paths []PathElement `json:"paths" yaml:"paths"`
	Texts []TextElement `json:"texts" yaml:"texts"`
}
