package session

import "github.com/avolkov/dogwalk/game/engine"

// Player ties a display name, an owned dog and a bearer token to a
// numeric id. Ids are assigned monotonically from 0 by the Registry.
type Player struct {
	id    int
	name  string
	dog   *engine.Dog
	token string
}

// ID returns the player id.
func (p *Player) ID() int { return p.id }

// Name returns the display name.
func (p *Player) Name() string { return p.name }

// Dog returns the player's dog.
func (p *Player) Dog() *engine.Dog { return p.dog }

// Token returns the player's bearer token, empty until assigned.
func (p *Player) Token() string { return p.token }
