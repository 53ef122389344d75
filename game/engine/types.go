package engine

// Direction is a dog's facing, encoded as the single character the API
// uses on the wire.
type Direction string

const (
	North Direction = "U"
	South Direction = "D"
	West  Direction = "L"
	East  Direction = "R"
)

// RoadHalfWidth is how far a road corridor extends perpendicular to the
// road axis, and past each endpoint along it.
const RoadHalfWidth = 0.5

// Point is an integer map coordinate. Positive y points south.
type Point struct {
	X int `json:"x"`
	Y int `json:"y"`
}

// Size is integer cell dimensions.
type Size struct {
	Width  int `json:"w"`
	Height int `json:"h"`
}

// Rectangle is an integer-aligned area on the map.
type Rectangle struct {
	Position Point
	Size     Size
}

// Offset is a displacement in cells.
type Offset struct {
	DX int `json:"offsetX"`
	DY int `json:"offsetY"`
}

// Building occupies the half-open interior [x, x+w) x [y, y+h).
// A dog's target position may never land inside it.
type Building struct {
	bounds Rectangle
}

// NewBuilding creates a building covering bounds.
func NewBuilding(bounds Rectangle) Building {
	return Building{bounds: bounds}
}

// Bounds returns the building's rectangle.
func (b Building) Bounds() Rectangle {
	return b.bounds
}

// Contains reports whether (x, y) lies in the half-open interior.
func (b Building) Contains(x, y float64) bool {
	pos, size := b.bounds.Position, b.bounds.Size
	return x >= float64(pos.X) && x < float64(pos.X+size.Width) &&
		y >= float64(pos.Y) && y < float64(pos.Y+size.Height)
}

// Office is a tagged delivery point on a map.
type Office struct {
	id       string
	position Point
	offset   Offset
}

// NewOffice creates an office with the given id, position and delivery
// offset.
func NewOffice(id string, position Point, offset Offset) Office {
	return Office{id: id, position: position, offset: offset}
}

// ID returns the office identifier, unique within its map.
func (o Office) ID() string { return o.id }

// Position returns the office position.
func (o Office) Position() Point { return o.position }

// Offset returns the delivery offset.
func (o Office) Offset() Offset { return o.offset }
