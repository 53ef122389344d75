package service

import (
	"context"
	"errors"
)

var (
	ErrMapNotFound  = errors.New("map not found")
	ErrDuplicateMap = errors.New("duplicate map id")
	ErrUnknownToken = errors.New("unknown token")
	ErrInvalidMove  = errors.New("invalid move value")
	ErrInvalidDelta = errors.New("time delta must be positive")
)

// GameService defines every world operation the transports expose.
// Implementations serialize all calls internally, so handlers may call
// from any goroutine.
type GameService interface {
	// Maps catalog
	Maps(ctx context.Context) []MapSummary
	MapByID(ctx context.Context, id string) (MapDetail, error)

	// Session lifecycle
	Join(ctx context.Context, userName, mapID string) (*JoinResult, error)

	// Per-token queries
	PlayersOnMap(ctx context.Context, token string) (map[string]PlayerName, error)
	State(ctx context.Context, token string) (*GameState, error)
	MapIDOf(ctx context.Context, token string) (string, error)

	// Mutations
	Action(ctx context.Context, token, move string) error
	Tick(ctx context.Context, deltaMillis int64) error

	// StateByMap snapshots the game state of every map that has
	// players, keyed by map id. Used for broadcast after a tick.
	StateByMap(ctx context.Context) map[string]*GameState
}
