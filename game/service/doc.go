// Package service implements the game aggregate behind the HTTP API.
//
// GameService is the single entry point for every world operation:
// map listings, joining, per-token queries, movement commands and
// ticks. The implementation holds all mutable state (maps catalog,
// player registry, spawn policy) behind one mutex, the serialization
// domain, so world operations observe a total order while HTTP
// handlers run in parallel.
//
// Ticker drives the world clock in auto-tick mode by submitting
// Tick(period) at a fixed cadence. In manual-tick mode the tick
// endpoint calls the same method.
package service
