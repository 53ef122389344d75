package service

import (
	"context"
	"fmt"
	"math/rand"
	"strconv"
	"sync"
	"time"

	"github.com/finnbear/moderation"

	"github.com/avolkov/dogwalk/game/config"
	"github.com/avolkov/dogwalk/game/engine"
	"github.com/avolkov/dogwalk/game/session"
)

// gameServiceImpl owns all mutable world state. The single mutex is
// the serialization domain: every operation that touches maps, dogs or
// players runs to completion under it, so a tick and a player action
// never interleave.
type gameServiceImpl struct {
	mu sync.Mutex

	maps     []*engine.Map
	mapIndex map[string]int

	registry *session.Registry
	tokens   *session.TokenGenerator

	randomSpawn bool
	rng         *rand.Rand
}

// NewGameService builds the world from a parsed config. Duplicate map
// ids fail construction. When randomSpawn is set, joined dogs start at
// a uniform integer point of a uniformly chosen road instead of the
// map's spawn point.
func NewGameService(cfg *config.Config, randomSpawn bool) (GameService, error) {
	s := &gameServiceImpl{
		mapIndex:    make(map[string]int),
		registry:    session.NewRegistry(),
		tokens:      session.NewTokenGenerator(),
		randomSpawn: randomSpawn,
		rng:         rand.New(rand.NewSource(time.Now().UnixNano())),
	}

	defaultSpeed := cfg.DogSpeed()
	for _, mc := range cfg.Maps {
		m, err := config.BuildMap(mc, defaultSpeed)
		if err != nil {
			return nil, err
		}
		if err := s.addMap(m); err != nil {
			return nil, err
		}
	}
	return s, nil
}

func (s *gameServiceImpl) addMap(m *engine.Map) error {
	if _, exists := s.mapIndex[m.ID()]; exists {
		return fmt.Errorf("%w: %q", ErrDuplicateMap, m.ID())
	}
	s.mapIndex[m.ID()] = len(s.maps)
	s.maps = append(s.maps, m)
	return nil
}

func (s *gameServiceImpl) findMap(id string) *engine.Map {
	if idx, ok := s.mapIndex[id]; ok {
		return s.maps[idx]
	}
	return nil
}

// Maps lists all maps in load order.
func (s *gameServiceImpl) Maps(ctx context.Context) []MapSummary {
	s.mu.Lock()
	defer s.mu.Unlock()

	summaries := make([]MapSummary, 0, len(s.maps))
	for _, m := range s.maps {
		summaries = append(summaries, MapSummary{ID: m.ID(), Name: m.Name()})
	}
	return summaries
}

// MapByID returns the full description of one map.
func (s *gameServiceImpl) MapByID(ctx context.Context, id string) (MapDetail, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	m := s.findMap(id)
	if m == nil {
		return MapDetail{}, ErrMapNotFound
	}
	return config.DescribeMap(m), nil
}

// Join creates a player with a fresh dog on the named map and hands
// back the bearer token. Inappropriate display names are censored the
// same way they would be in chat.
func (s *gameServiceImpl) Join(ctx context.Context, userName, mapID string) (*JoinResult, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	m := s.findMap(mapID)
	if m == nil {
		return nil, ErrMapNotFound
	}

	if moderation.Scan(userName).Is(moderation.Inappropriate) {
		userName, _ = moderation.Censor(userName, moderation.Inappropriate)
	}

	spawn := m.SpawnPoint()
	if s.randomSpawn {
		spawn = s.randomSpawnPoint(m)
	}

	// The player id doubles as the dog id; it is unique by
	// construction.
	dogID := strconv.Itoa(s.registry.Len())
	dog := engine.NewDog(dogID, userName, spawn)
	dog.SetMap(m)

	player := s.registry.Add(userName, dog)
	token := s.tokens.Generate()
	s.registry.AssignToken(player, token)

	return &JoinResult{AuthToken: token, PlayerID: player.ID()}, nil
}

// randomSpawnPoint picks a uniform road, then a uniform integer point
// along its axis. Road-less maps fall back to the origin.
func (s *gameServiceImpl) randomSpawnPoint(m *engine.Map) engine.Point {
	roads := m.Roads()
	if len(roads) == 0 {
		return engine.Point{}
	}

	road := roads[s.rng.Intn(len(roads))]
	if road.IsHorizontal() {
		lo := minInt(road.Start().X, road.End().X)
		hi := maxInt(road.Start().X, road.End().X)
		return engine.Point{X: lo + s.rng.Intn(hi-lo+1), Y: road.Start().Y}
	}
	lo := minInt(road.Start().Y, road.End().Y)
	hi := maxInt(road.Start().Y, road.End().Y)
	return engine.Point{X: road.Start().X, Y: lo + s.rng.Intn(hi-lo+1)}
}

// PlayersOnMap lists the players sharing the caller's map, keyed by
// decimal player id.
func (s *gameServiceImpl) PlayersOnMap(ctx context.Context, token string) (map[string]PlayerName, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	caller := s.registry.FindByToken(token)
	if caller == nil {
		return nil, ErrUnknownToken
	}

	names := make(map[string]PlayerName)
	for _, p := range s.registry.List() {
		if p.Dog().Map() == caller.Dog().Map() {
			names[strconv.Itoa(p.ID())] = PlayerName{Name: p.Name()}
		}
	}
	return names, nil
}

// State snapshots the dogs on the caller's map.
func (s *gameServiceImpl) State(ctx context.Context, token string) (*GameState, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	caller := s.registry.FindByToken(token)
	if caller == nil {
		return nil, ErrUnknownToken
	}
	return s.mapState(caller.Dog().Map()), nil
}

// mapState renders one map's dogs; callers hold the mutex.
func (s *gameServiceImpl) mapState(m *engine.Map) *GameState {
	state := &GameState{Players: make(map[string]DogState)}
	for _, p := range s.registry.List() {
		if p.Dog().Map() != m {
			continue
		}
		dog := p.Dog()
		x, y := dog.Position()
		vx, vy := dog.Speed()
		state.Players[strconv.Itoa(p.ID())] = DogState{
			Pos:   [2]float64{x, y},
			Speed: [2]float64{vx, vy},
			Dir:   string(dog.Direction()),
		}
	}
	return state
}

// MapIDOf resolves a token to the id of the map its player is on.
// Used to place websocket subscribers into the right room.
func (s *gameServiceImpl) MapIDOf(ctx context.Context, token string) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	caller := s.registry.FindByToken(token)
	if caller == nil {
		return "", ErrUnknownToken
	}
	return caller.Dog().Map().ID(), nil
}

// Action applies a movement command to the caller's dog. The empty
// move stops the dog without changing its facing.
func (s *gameServiceImpl) Action(ctx context.Context, token, move string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	caller := s.registry.FindByToken(token)
	if caller == nil {
		return ErrUnknownToken
	}

	dog := caller.Dog()
	speed := dog.Map().DogSpeed()

	switch move {
	case "L":
		dog.SetDirection(engine.West)
		dog.SetSpeed(-speed, 0)
	case "R":
		dog.SetDirection(engine.East)
		dog.SetSpeed(speed, 0)
	case "U":
		dog.SetDirection(engine.North)
		dog.SetSpeed(0, -speed)
	case "D":
		dog.SetDirection(engine.South)
		dog.SetSpeed(0, speed)
	case "":
		dog.SetSpeed(0, 0)
	default:
		return ErrInvalidMove
	}
	return nil
}

// Tick advances every dog by deltaMillis. Dogs do not interact, so
// iteration order is irrelevant.
func (s *gameServiceImpl) Tick(ctx context.Context, deltaMillis int64) error {
	if deltaMillis <= 0 {
		return ErrInvalidDelta
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	for _, p := range s.registry.List() {
		p.Dog().UpdatePosition(deltaMillis)
	}
	return nil
}

// StateByMap snapshots every populated map for broadcast.
func (s *gameServiceImpl) StateByMap(ctx context.Context) map[string]*GameState {
	s.mu.Lock()
	defer s.mu.Unlock()

	populated := make(map[string]*engine.Map)
	for _, p := range s.registry.List() {
		if m := p.Dog().Map(); m != nil {
			populated[m.ID()] = m
		}
	}

	states := make(map[string]*GameState, len(populated))
	for id, m := range populated {
		states[id] = s.mapState(m)
	}
	return states
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
