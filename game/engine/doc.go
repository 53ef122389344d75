// Package engine provides the world model for the dog walk server.
//
// The engine package implements the immutable map topology and the
// kinematics of the dogs that move on it:
//   - Axis-aligned roads with half-unit corridors
//   - Buildings with half-open forbidden interiors
//   - Tagged delivery offices
//   - Road-graph clamping of dog movement
//
// Core Types:
//
// Map owns the roads, buildings and offices of one named world and
// answers ClampPosition queries. Dog is a kinematic entity bound to a
// Map: it integrates position from velocity on every tick and stops
// (velocity cleared) when the clamp rejects its candidate position.
//
// Usage:
//
//	m := engine.NewMap("m1", "Town", 4.0)
//	m.AddRoad(engine.NewHorizontalRoad(engine.Point{X: 0, Y: 0}, 40))
//
//	dog := engine.NewDog("0", "rex", m.SpawnPoint())
//	dog.SetMap(m)
//	dog.SetSpeed(m.DogSpeed(), 0)
//	dog.UpdatePosition(1000)
//
// Coordinates:
//
// Map coordinates are integers; dog positions and velocities are
// floats in the same cell units. Positive y points south, so facing
// "U" (north) means negative y velocity. A dog's position is always
// inside some road corridor of its map: within 0.5 units of a road
// axis and at most 0.5 units past a road end.
//
// Nothing in this package locks. Maps are immutable after
// construction and dogs are mutated only from the game's
// serialization domain.
package engine
