package service

import "github.com/avolkov/dogwalk/game/config"

// MapSummary is one row of the maps listing.
type MapSummary struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

// MapDetail is the full map description returned by the map-detail
// endpoint; it reuses the config schema so responses match the file
// the map was loaded from.
type MapDetail = config.MapConfig

// JoinResult is the response to a successful join.
type JoinResult struct {
	AuthToken string `json:"authToken"`
	PlayerID  int    `json:"playerId"`
}

// PlayerName is one entry of the players listing.
type PlayerName struct {
	Name string `json:"name"`
}

// DogState is the observable state of one dog.
type DogState struct {
	Pos   [2]float64 `json:"pos"`
	Speed [2]float64 `json:"speed"`
	Dir   string     `json:"dir"`
}

// GameState is the game-state response: dogs keyed by the decimal
// player id, filtered to one map.
type GameState struct {
	Players map[string]DogState `json:"players"`
}
