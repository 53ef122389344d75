package engine

// Road is an axis-aligned segment of the road graph. Start and end
// always share one coordinate; a road is either horizontal or vertical.
type Road struct {
	start Point
	end   Point
}

// NewHorizontalRoad creates a road from start to (endX, start.Y).
func NewHorizontalRoad(start Point, endX int) Road {
	return Road{start: start, end: Point{X: endX, Y: start.Y}}
}

// NewVerticalRoad creates a road from start to (start.X, endY).
func NewVerticalRoad(start Point, endY int) Road {
	return Road{start: start, end: Point{X: start.X, Y: endY}}
}

// Start returns the road's start point.
func (r Road) Start() Point { return r.start }

// End returns the road's end point.
func (r Road) End() Point { return r.end }

// IsHorizontal reports whether the road runs along the x axis.
func (r Road) IsHorizontal() bool {
	return r.start.Y == r.end.Y
}

// IsVertical reports whether the road runs along the y axis.
func (r Road) IsVertical() bool {
	return r.start.X == r.end.X
}

// axisBounds returns the min and max coordinate along the road's axis.
func (r Road) axisBounds() (int, int) {
	if r.IsHorizontal() {
		return minInt(r.start.X, r.end.X), maxInt(r.start.X, r.end.X)
	}
	return minInt(r.start.Y, r.end.Y), maxInt(r.start.Y, r.end.Y)
}

// containsCorridor reports whether (x, y) lies inside the road's
// corridor: within RoadHalfWidth of the axis, and within RoadHalfWidth
// past either endpoint along it.
func (r Road) containsCorridor(x, y float64) bool {
	lo, hi := r.axisBounds()
	if r.IsHorizontal() {
		return abs(y-float64(r.start.Y)) < RoadHalfWidth &&
			x >= float64(lo)-RoadHalfWidth && x <= float64(hi)+RoadHalfWidth
	}
	return abs(x-float64(r.start.X)) < RoadHalfWidth &&
		y >= float64(lo)-RoadHalfWidth && y <= float64(hi)+RoadHalfWidth
}

// clampToCorridor projects (x, y) onto the nearest point of the road's
// corridor: the perpendicular coordinate snaps to the axis, the axis
// coordinate is clamped to the corridor span.
func (r Road) clampToCorridor(x, y float64) (float64, float64) {
	lo, hi := r.axisBounds()
	if r.IsHorizontal() {
		return clampFloat(x, float64(lo)-RoadHalfWidth, float64(hi)+RoadHalfWidth), float64(r.start.Y)
	}
	return float64(r.start.X), clampFloat(y, float64(lo)-RoadHalfWidth, float64(hi)+RoadHalfWidth)
}

func minInt(a, b int) int {
	if a < b {
		return a
	}
	return b
}

func maxInt(a, b int) int {
	if a > b {
		return a
	}
	return b
}

func abs(v float64) float64 {
	if v < 0 {
		return -v
	}
	return v
}

func clampFloat(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
