// Package api provides the HTTP surface of the dog walk server.
//
// The api package implements:
//   - The versioned game API under /api/v1
//   - Bearer-token authentication
//   - The static-file responder for everything outside /api/
//   - WebSocket subscription to live game state at /ws
//
// Endpoints:
//
// Maps:
//   - GET/HEAD /api/v1/maps        - list map ids and names
//   - GET/HEAD /api/v1/maps/{id}   - full map description
//
// Game:
//   - POST     /api/v1/game/join           - {userName, mapId} -> {authToken, playerId}
//   - GET/HEAD /api/v1/game/players        - names on the caller's map (bearer)
//   - GET/HEAD /api/v1/game/state          - dog positions on the caller's map (bearer)
//   - POST     /api/v1/game/player/action  - {move: "L"|"R"|"U"|"D"|""} (bearer)
//   - POST     /api/v1/game/tick           - {timeDelta} in manual-tick mode only
//
// Error Handling:
//
// API errors are always {"code":..., "message":...} JSON. Requests
// with verbs other than GET, HEAD and POST get 405 invalidMethod; a
// known endpoint hit with the wrong one of those gets 405 with an
// Allow header. Unknown /api/ targets get 400 badRequest. Every API
// response carries Content-Type: application/json and Cache-Control:
// no-cache.
//
// Static files:
//
// Non-API targets resolve under the configured www-root. Directories
// serve their index.html; path escapes answer 400 and missing files
// 404, both as text/plain. Content types come from a closed extension
// table with an octet-stream fallback.
package api
