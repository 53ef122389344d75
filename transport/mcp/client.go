package mcp

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"sort"
	"time"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"
)

// Client is a thin MCP server that proxies every tool call to the
// REST API, so tool-driven agents play through exactly the same
// surface as browsers.
type Client struct {
	baseURL    string
	httpClient *http.Client
	mcpServer  *server.MCPServer
}

// NewClient creates an MCP client proxying to the REST API at baseURL.
func NewClient(baseURL string) *Client {
	c := &Client{
		baseURL: baseURL,
		httpClient: &http.Client{
			Timeout: 10 * time.Second,
		},
	}

	c.initMCPServer()
	return c
}

// GetMCPServer exposes the underlying MCP server for HTTP mounting.
func (c *Client) GetMCPServer() *server.MCPServer {
	return c.mcpServer
}

func (c *Client) initMCPServer() {
	c.mcpServer = server.NewMCPServer(
		"Dog Walk Server",
		"1.0.0",
		server.WithToolCapabilities(true),
		server.WithInstructions(`Dog Walk Server - MCP Interface

This is a thin client that proxies all requests to the REST API server.

Join a map with join_game to receive an authToken, then steer your dog
with player_action and watch the world with game_state. In manual-tick
mode, advance time with the tick tool.

AVAILABLE TOOLS:
- list_maps: List the available maps
- get_map: Full description of one map (roads, buildings, offices)
- join_game: Join a map, returns authToken and playerId
- list_players: Players on your map
- game_state: Dog positions, velocities and directions on your map
- player_action: Move your dog (L/R/U/D, empty string stops)
- tick: Advance the world clock (manual-tick servers only)`),
	)

	c.registerTools()
}

func (c *Client) registerTools() {
	c.mcpServer.AddTool(mcp.Tool{
		Name:        "list_maps",
		Description: "List the available maps",
		InputSchema: mcp.ToolInputSchema{
			Type:       "object",
			Properties: map[string]interface{}{},
		},
	}, c.handleListMaps)

	c.mcpServer.AddTool(mcp.Tool{
		Name:        "get_map",
		Description: "Get the full description of one map",
		InputSchema: mcp.ToolInputSchema{
			Type: "object",
			Properties: map[string]interface{}{
				"map_id": map[string]interface{}{
					"type":        "string",
					"description": "Id of the map",
				},
			},
			Required: []string{"map_id"},
		},
	}, c.handleGetMap)

	c.mcpServer.AddTool(mcp.Tool{
		Name:        "join_game",
		Description: "Join a map with a display name; returns authToken and playerId",
		InputSchema: mcp.ToolInputSchema{
			Type: "object",
			Properties: map[string]interface{}{
				"user_name": map[string]interface{}{
					"type":        "string",
					"description": "Display name for the player",
				},
				"map_id": map[string]interface{}{
					"type":        "string",
					"description": "Id of the map to join",
				},
			},
			Required: []string{"user_name", "map_id"},
		},
	}, c.handleJoinGame)

	c.mcpServer.AddTool(mcp.Tool{
		Name:        "list_players",
		Description: "List the players on your map",
		InputSchema: authTokenSchema(),
	}, c.handleListPlayers)

	c.mcpServer.AddTool(mcp.Tool{
		Name:        "game_state",
		Description: "Get dog positions, velocities and directions on your map",
		InputSchema: authTokenSchema(),
	}, c.handleGameState)

	c.mcpServer.AddTool(mcp.Tool{
		Name:        "player_action",
		Description: "Move your dog: L, R, U, D, or empty string to stop",
		InputSchema: mcp.ToolInputSchema{
			Type: "object",
			Properties: map[string]interface{}{
				"auth_token": map[string]interface{}{
					"type":        "string",
					"description": "Bearer token from join_game",
				},
				"move": map[string]interface{}{
					"type":        "string",
					"description": `One of "L", "R", "U", "D" or "" (stop)`,
				},
			},
			Required: []string{"auth_token", "move"},
		},
	}, c.handlePlayerAction)

	c.mcpServer.AddTool(mcp.Tool{
		Name:        "tick",
		Description: "Advance the world clock by timeDelta milliseconds (manual-tick servers only)",
		InputSchema: mcp.ToolInputSchema{
			Type: "object",
			Properties: map[string]interface{}{
				"time_delta": map[string]interface{}{
					"type":        "number",
					"description": "Milliseconds to advance, must be positive",
				},
			},
			Required: []string{"time_delta"},
		},
	}, c.handleTick)
}

func authTokenSchema() mcp.ToolInputSchema {
	return mcp.ToolInputSchema{
		Type: "object",
		Properties: map[string]interface{}{
			"auth_token": map[string]interface{}{
				"type":        "string",
				"description": "Bearer token from join_game",
			},
		},
		Required: []string{"auth_token"},
	}
}

// apiCall performs one REST round trip. API errors surface as Go
// errors carrying the server's message.
func (c *Client) apiCall(method, path, token string, body, result interface{}) error {
	var reader io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return err
		}
		reader = bytes.NewReader(data)
	}

	req, err := http.NewRequest(method, c.baseURL+path, reader)
	if err != nil {
		return err
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 400 {
		var errResp struct {
			Code    string `json:"code"`
			Message string `json:"message"`
		}
		json.NewDecoder(resp.Body).Decode(&errResp)
		if errResp.Message != "" {
			return fmt.Errorf("%s: %s", errResp.Code, errResp.Message)
		}
		return fmt.Errorf("API error: %d", resp.StatusCode)
	}

	if result != nil {
		return json.NewDecoder(resp.Body).Decode(result)
	}
	return nil
}

// Tool handlers

func (c *Client) handleListMaps(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	var maps []struct {
		ID   string `json:"id"`
		Name string `json:"name"`
	}
	if err := c.apiCall("GET", "/api/v1/maps", "", nil, &maps); err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	result := fmt.Sprintf("Maps (%d):\n", len(maps))
	for _, m := range maps {
		result += fmt.Sprintf("- %s: %s\n", m.ID, m.Name)
	}
	return mcp.NewToolResultText(result), nil
}

func (c *Client) handleGetMap(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	args := request.Params.Arguments.(map[string]interface{})
	mapID, _ := args["map_id"].(string)

	var detail map[string]interface{}
	if err := c.apiCall("GET", "/api/v1/maps/"+mapID, "", nil, &detail); err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	data, err := json.MarshalIndent(detail, "", "  ")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	return mcp.NewToolResultText(string(data)), nil
}

func (c *Client) handleJoinGame(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	args := request.Params.Arguments.(map[string]interface{})
	userName, _ := args["user_name"].(string)
	mapID, _ := args["map_id"].(string)

	var joined struct {
		AuthToken string `json:"authToken"`
		PlayerID  int    `json:"playerId"`
	}
	body := map[string]string{"userName": userName, "mapId": mapID}
	if err := c.apiCall("POST", "/api/v1/game/join", "", body, &joined); err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	result := fmt.Sprintf("Joined map %s as player %d\nauthToken: %s\n",
		mapID, joined.PlayerID, joined.AuthToken)
	return mcp.NewToolResultText(result), nil
}

func (c *Client) handleListPlayers(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	args := request.Params.Arguments.(map[string]interface{})
	token, _ := args["auth_token"].(string)

	var players map[string]struct {
		Name string `json:"name"`
	}
	if err := c.apiCall("GET", "/api/v1/game/players", token, nil, &players); err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	ids := make([]string, 0, len(players))
	for id := range players {
		ids = append(ids, id)
	}
	sort.Strings(ids)

	result := fmt.Sprintf("Players on your map (%d):\n", len(players))
	for _, id := range ids {
		result += fmt.Sprintf("- %s: %s\n", id, players[id].Name)
	}
	return mcp.NewToolResultText(result), nil
}

func (c *Client) handleGameState(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	args := request.Params.Arguments.(map[string]interface{})
	token, _ := args["auth_token"].(string)

	var state struct {
		Players map[string]struct {
			Pos   [2]float64 `json:"pos"`
			Speed [2]float64 `json:"speed"`
			Dir   string     `json:"dir"`
		} `json:"players"`
	}
	if err := c.apiCall("GET", "/api/v1/game/state", token, nil, &state); err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	ids := make([]string, 0, len(state.Players))
	for id := range state.Players {
		ids = append(ids, id)
	}
	sort.Strings(ids)

	result := fmt.Sprintf("Dogs on your map (%d):\n", len(state.Players))
	for _, id := range ids {
		p := state.Players[id]
		result += fmt.Sprintf("- %s: pos (%.2f, %.2f), speed (%.2f, %.2f), facing %s\n",
			id, p.Pos[0], p.Pos[1], p.Speed[0], p.Speed[1], p.Dir)
	}
	return mcp.NewToolResultText(result), nil
}

func (c *Client) handlePlayerAction(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	args := request.Params.Arguments.(map[string]interface{})
	token, _ := args["auth_token"].(string)
	move, _ := args["move"].(string)

	body := map[string]string{"move": move}
	if err := c.apiCall("POST", "/api/v1/game/player/action", token, body, nil); err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	if move == "" {
		return mcp.NewToolResultText("Dog stopped"), nil
	}
	return mcp.NewToolResultText(fmt.Sprintf("Dog moving %s", move)), nil
}

func (c *Client) handleTick(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	args := request.Params.Arguments.(map[string]interface{})
	delta, _ := args["time_delta"].(float64)

	body := map[string]int64{"timeDelta": int64(delta)}
	if err := c.apiCall("POST", "/api/v1/game/tick", "", body, nil); err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	return mcp.NewToolResultText(fmt.Sprintf("World advanced by %d ms", int64(delta))), nil
}
