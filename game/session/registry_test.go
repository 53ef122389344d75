package session

import (
	"strconv"
	"testing"

	"github.com/avolkov/dogwalk/game/engine"
)

func TestRegistry_AddAssignsSequentialIDs(t *testing.T) {
	r := NewRegistry()

	for i := 0; i < 5; i++ {
		dog := engine.NewDog(strconv.Itoa(i), "dog", engine.Point{})
		p := r.Add("player", dog)
		if p.ID() != i {
			t.Errorf("Expected player id %d, got %d", i, p.ID())
		}
	}
	if r.Len() != 5 {
		t.Errorf("Expected 5 players, got %d", r.Len())
	}
}

func TestRegistry_FindByToken(t *testing.T) {
	r := NewRegistry()
	dog := engine.NewDog("0", "Sharik", engine.Point{})
	p := r.Add("Harry", dog)
	r.AssignToken(p, "6516861d89ebfff147bf2eb2b5153ae1")

	if got := r.FindByToken("6516861d89ebfff147bf2eb2b5153ae1"); got != p {
		t.Errorf("Expected player %v, got %v", p, got)
	}
	if got := r.FindByToken("00000000000000000000000000000000"); got != nil {
		t.Errorf("Expected nil for unknown token, got %v", got)
	}
	if p.Token() != "6516861d89ebfff147bf2eb2b5153ae1" {
		t.Errorf("Expected token stored on player, got %q", p.Token())
	}
}

func TestRegistry_FindByDogID(t *testing.T) {
	r := NewRegistry()
	p0 := r.Add("a", engine.NewDog("0", "a", engine.Point{}))
	p1 := r.Add("b", engine.NewDog("1", "b", engine.Point{}))

	if got := r.FindByDogID("0"); got != p0 {
		t.Errorf("Expected first player, got %v", got)
	}
	if got := r.FindByDogID("1"); got != p1 {
		t.Errorf("Expected second player, got %v", got)
	}
	if got := r.FindByDogID("2"); got != nil {
		t.Errorf("Expected nil for unknown dog, got %v", got)
	}
}

func TestRegistry_ListPreservesJoinOrder(t *testing.T) {
	r := NewRegistry()
	names := []string{"first", "second", "third"}
	for i, name := range names {
		r.Add(name, engine.NewDog(strconv.Itoa(i), name, engine.Point{}))
	}

	list := r.List()
	if len(list) != len(names) {
		t.Fatalf("Expected %d players, got %d", len(names), len(list))
	}
	for i, p := range list {
		if p.Name() != names[i] {
			t.Errorf("Position %d: expected %q, got %q", i, names[i], p.Name())
		}
	}
}
