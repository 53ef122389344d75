package engine

// Dog is the kinematic avatar a player controls. It holds a non-owning
// reference to the map it lives on; the map outlives every dog and is
// immutable, so the reference is read-only.
//
// Dog is not safe for concurrent use. All calls must come from the
// game's serialization domain.
type Dog struct {
	id   string
	name string
	posX float64
	posY float64
	velX float64
	velY float64
	dir  Direction
	m    *Map
}

// NewDog creates a stationary dog at the spawn point, facing north.
func NewDog(id, name string, spawn Point) *Dog {
	return &Dog{
		id:   id,
		name: name,
		posX: float64(spawn.X),
		posY: float64(spawn.Y),
		dir:  North,
	}
}

// ID returns the dog identifier.
func (d *Dog) ID() string { return d.id }

// Name returns the display name.
func (d *Dog) Name() string { return d.name }

// Position returns the current position.
func (d *Dog) Position() (float64, float64) { return d.posX, d.posY }

// Speed returns the current velocity.
func (d *Dog) Speed() (float64, float64) { return d.velX, d.velY }

// Direction returns the current facing.
func (d *Dog) Direction() Direction { return d.dir }

// Map returns the map the dog lives on, or nil.
func (d *Dog) Map() *Map { return d.m }

// SetMap binds the dog to a map.
func (d *Dog) SetMap(m *Map) { d.m = m }

// SetPosition places the dog at (x, y) without clamping.
func (d *Dog) SetPosition(x, y float64) {
	d.posX, d.posY = x, y
}

// SetSpeed stores the velocity. A non-zero velocity also updates the
// facing: the axis with the larger magnitude wins, east/west by the
// sign of vx, south/north by the sign of vy.
func (d *Dog) SetSpeed(vx, vy float64) {
	d.velX, d.velY = vx, vy
	if vx == 0 && vy == 0 {
		return
	}
	if abs(vx) > abs(vy) {
		if vx > 0 {
			d.dir = East
		} else {
			d.dir = West
		}
	} else {
		if vy > 0 {
			d.dir = South
		} else {
			d.dir = North
		}
	}
}

// SetDirection updates the facing without touching the velocity.
func (d *Dog) SetDirection(dir Direction) {
	d.dir = dir
}

// UpdatePosition integrates the dog's motion over deltaMillis. The
// candidate position is clamped against the dog's map; when the clamp
// changes the candidate the dog has hit a wall or road end and its
// velocity clears to zero.
func (d *Dog) UpdatePosition(deltaMillis int64) {
	if d.velX == 0 && d.velY == 0 {
		return
	}

	dt := float64(deltaMillis) / 1000.0
	newX := d.posX + d.velX*dt
	newY := d.posY + d.velY*dt

	if d.m == nil {
		d.posX, d.posY = newX, newY
		return
	}

	clampedX, clampedY := d.m.ClampPosition(d.posX, d.posY, newX, newY)
	if clampedX != newX || clampedY != newY {
		d.SetSpeed(0, 0)
	}
	d.posX, d.posY = clampedX, clampedY
}
