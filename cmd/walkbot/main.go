// Command walkbot is a headless load client for the dog walk server. It
// joins a map with a generated name, then walks the dog in random
// directions, printing the observed state after every move. Useful for
// smoke-testing a running server and for populating a map during
// frontend work.
package main

import (
	"bytes"
	"flag"
	"fmt"
	"io"
	"math/rand"
	"net/http"
	"os"
	"time"

	jsoniter "github.com/json-iterator/go"
)

var json = jsoniter.ConfigCompatibleWithStandardLibrary

type joinResponse struct {
	AuthToken string `json:"authToken"`
	PlayerID  int    `json:"playerId"`
}

type dogState struct {
	Pos   [2]float64 `json:"pos"`
	Speed [2]float64 `json:"speed"`
	Dir   string     `json:"dir"`
}

type stateResponse struct {
	Players map[string]dogState `json:"players"`
}

type apiError struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

var moves = []string{"L", "R", "U", "D", ""}

func main() {
	var (
		serverURL = flag.String("server", "http://localhost:8080", "server base URL")
		mapID     = flag.String("map", "map1", "map to join")
		name      = flag.String("name", "", "dog name (random when empty)")
		interval  = flag.Duration("interval", time.Second, "delay between moves")
		count     = flag.Int("count", 20, "number of moves to make, 0 for unlimited")
	)
	flag.Parse()

	rng := rand.New(rand.NewSource(time.Now().UnixNano()))

	dogName := *name
	if dogName == "" {
		dogName = fmt.Sprintf("bot-%04d", rng.Intn(10000))
	}

	bot := &bot{
		baseURL: *serverURL,
		client:  &http.Client{Timeout: 10 * time.Second},
		rng:     rng,
	}

	join, err := bot.join(dogName, *mapID)
	if err != nil {
		fmt.Printf("Join failed: %v\n", err)
		os.Exit(1)
	}
	bot.token = join.AuthToken
	fmt.Printf("Joined map %s as %s (player %d)\n", *mapID, dogName, join.PlayerID)

	for i := 0; *count == 0 || i < *count; i++ {
		move := moves[bot.rng.Intn(len(moves))]
		if err := bot.act(move); err != nil {
			fmt.Printf("Move failed: %v\n", err)
			os.Exit(1)
		}

		time.Sleep(*interval)

		state, err := bot.state()
		if err != nil {
			fmt.Printf("State failed: %v\n", err)
			os.Exit(1)
		}
		me, ok := state.Players[fmt.Sprint(join.PlayerID)]
		if !ok {
			fmt.Println("Player missing from state")
			os.Exit(1)
		}
		fmt.Printf("move=%-2q pos=[%.2f %.2f] speed=[%.1f %.1f] dir=%s\n",
			move, me.Pos[0], me.Pos[1], me.Speed[0], me.Speed[1], me.Dir)
	}
}

type bot struct {
	baseURL string
	client  *http.Client
	token   string
	rng     *rand.Rand
}

func (b *bot) join(name, mapID string) (*joinResponse, error) {
	body, _ := json.Marshal(map[string]string{"userName": name, "mapId": mapID})
	req, err := http.NewRequest(http.MethodPost, b.baseURL+"/api/v1/game/join", bytes.NewReader(body))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/json")

	var result joinResponse
	if err := b.do(req, &result); err != nil {
		return nil, err
	}
	return &result, nil
}

func (b *bot) act(move string) error {
	body, _ := json.Marshal(map[string]string{"move": move})
	req, err := http.NewRequest(http.MethodPost, b.baseURL+"/api/v1/game/player/action", bytes.NewReader(body))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+b.token)
	return b.do(req, &struct{}{})
}

func (b *bot) state() (*stateResponse, error) {
	req, err := http.NewRequest(http.MethodGet, b.baseURL+"/api/v1/game/state", nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Authorization", "Bearer "+b.token)

	var result stateResponse
	if err := b.do(req, &result); err != nil {
		return nil, err
	}
	return &result, nil
}

func (b *bot) do(req *http.Request, result interface{}) error {
	resp, err := b.client.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return err
	}
	if resp.StatusCode != http.StatusOK {
		var apiErr apiError
		if err := json.Unmarshal(data, &apiErr); err == nil && apiErr.Code != "" {
			return fmt.Errorf("%s: %s (HTTP %d)", apiErr.Code, apiErr.Message, resp.StatusCode)
		}
		return fmt.Errorf("HTTP %d: %s", resp.StatusCode, data)
	}
	return json.Unmarshal(data, result)
}
