// Package websocket pushes live game state to browser clients.
//
// The Hub keeps one room of subscribers per map. After every world
// tick the server hands the hub a per-map state snapshot, which fans
// out to that map's room as a JSON text message:
//
//	{"event":"state","players":{"0":{"pos":[2,0],"speed":[2,0],"dir":"R"}}}
//
// Clients authenticate with their bearer token before the upgrade (the
// API server resolves the token to a map id); the socket itself is
// read-only. Slow subscribers are dropped rather than allowed to block
// the broadcast loop.
package websocket
