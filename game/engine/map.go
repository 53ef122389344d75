package engine

import (
	"errors"
	"fmt"
)

// ErrDuplicateOffice is returned when an office id collides with one
// already on the map.
var ErrDuplicateOffice = errors.New("duplicate office id")

// Map is the immutable spatial graph dogs move on. Roads, buildings
// and offices are appended during construction and never change
// afterwards; insertion order is observable (spawn point, clamping
// tie-breaks, serialization order).
type Map struct {
	id        string
	name      string
	dogSpeed  float64
	roads     []Road
	buildings []Building
	offices   []Office
	officeIdx map[string]int
}

// NewMap creates an empty map with the given identity and dog speed.
func NewMap(id, name string, dogSpeed float64) *Map {
	return &Map{
		id:        id,
		name:      name,
		dogSpeed:  dogSpeed,
		officeIdx: make(map[string]int),
	}
}

// ID returns the map identifier, unique within a Game.
func (m *Map) ID() string { return m.id }

// Name returns the display name.
func (m *Map) Name() string { return m.name }

// DogSpeed returns the speed dogs move at on this map, in cells per
// second.
func (m *Map) DogSpeed() float64 { return m.dogSpeed }

// Roads returns the roads in insertion order.
func (m *Map) Roads() []Road { return m.roads }

// Buildings returns the buildings in insertion order.
func (m *Map) Buildings() []Building { return m.buildings }

// Offices returns the offices in insertion order.
func (m *Map) Offices() []Office { return m.offices }

// AddRoad appends a road.
func (m *Map) AddRoad(road Road) {
	m.roads = append(m.roads, road)
}

// AddBuilding appends a building.
func (m *Map) AddBuilding(building Building) {
	m.buildings = append(m.buildings, building)
}

// AddOffice appends an office. It fails if the office id is already
// present on this map.
func (m *Map) AddOffice(office Office) error {
	if _, exists := m.officeIdx[office.ID()]; exists {
		return fmt.Errorf("%w: %q on map %q", ErrDuplicateOffice, office.ID(), m.id)
	}
	m.officeIdx[office.ID()] = len(m.offices)
	m.offices = append(m.offices, office)
	return nil
}

// SpawnPoint returns the start of road 0, or (0,0) for a road-less map.
func (m *Map) SpawnPoint() Point {
	if len(m.roads) == 0 {
		return Point{}
	}
	return m.roads[0].Start()
}

// ClampPosition constrains a movement from (oldX, oldY) to
// (newX, newY) against the road graph and buildings:
//
//  1. A map without roads accepts the candidate unchanged.
//  2. A candidate inside a building reverts to the old position.
//  3. The first road (insertion order) whose corridor contains the
//     candidate accepts it, with the perpendicular coordinate snapped
//     to the road axis.
//  4. Otherwise the candidate left every corridor: it is pulled back
//     onto the corridor of the first road containing the old position,
//     so a dog walking off a road end stops at the half-unit overshoot
//     rather than where it stood last tick.
//  5. With no containing road at all, the old position stands.
func (m *Map) ClampPosition(oldX, oldY, newX, newY float64) (float64, float64) {
	if len(m.roads) == 0 {
		return newX, newY
	}

	for _, b := range m.buildings {
		if b.Contains(newX, newY) {
			return oldX, oldY
		}
	}

	for _, road := range m.roads {
		if road.containsCorridor(newX, newY) {
			if road.IsHorizontal() {
				return newX, float64(road.Start().Y)
			}
			return float64(road.Start().X), newY
		}
	}

	for _, road := range m.roads {
		if road.containsCorridor(oldX, oldY) {
			return road.clampToCorridor(newX, newY)
		}
	}

	return oldX, oldY
}
