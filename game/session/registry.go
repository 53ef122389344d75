package session

import "github.com/avolkov/dogwalk/game/engine"

// Registry holds every player in join order (slice index == player id)
// with lookup tables by token and by dog id. Both tables are
// bijections onto the player list.
//
// The registry does no locking of its own; every call happens on the
// game's serialization domain.
type Registry struct {
	players []*Player
	byToken map[string]*Player
	byDogID map[string]*Player
}

// NewRegistry creates an empty registry.
func NewRegistry() *Registry {
	return &Registry{
		byToken: make(map[string]*Player),
		byDogID: make(map[string]*Player),
	}
}

// Add appends a player owning dog. The new player's id is the current
// registry size; its token is empty until AssignToken.
func (r *Registry) Add(name string, dog *engine.Dog) *Player {
	p := &Player{
		id:   len(r.players),
		name: name,
		dog:  dog,
	}
	r.players = append(r.players, p)
	r.byDogID[dog.ID()] = p
	return p
}

// AssignToken sets the player's token and indexes it.
func (r *Registry) AssignToken(p *Player, token string) {
	p.token = token
	r.byToken[token] = p
}

// FindByToken returns the player holding token, or nil.
func (r *Registry) FindByToken(token string) *Player {
	return r.byToken[token]
}

// FindByDogID returns the player owning the dog, or nil.
func (r *Registry) FindByDogID(dogID string) *Player {
	return r.byDogID[dogID]
}

// List returns players in join order.
func (r *Registry) List() []*Player {
	return r.players
}

// Len returns the number of players.
func (r *Registry) Len() int {
	return len(r.players)
}
