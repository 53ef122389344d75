package mcp

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
)

func TestNewClient(t *testing.T) {
	baseURL := "http://localhost:8080"
	client := NewClient(baseURL)

	if client == nil {
		t.Fatal("Expected client to be created")
	}
	if client.baseURL != baseURL {
		t.Errorf("Expected baseURL %s, got %s", baseURL, client.baseURL)
	}
	if client.httpClient == nil {
		t.Error("Expected HTTP client to be initialized")
	}
	if client.mcpServer == nil {
		t.Error("Expected MCP server to be initialized")
	}
}

func TestClient_apiCall(t *testing.T) {
	var gotAuth, gotContentType string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotAuth = r.Header.Get("Authorization")
		gotContentType = r.Header.Get("Content-Type")
		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(map[string]interface{}{
			"authToken": "6516861d89ebfff147bf2eb2b5153ae1",
			"playerId":  3,
		})
	}))
	defer server.Close()

	client := NewClient(server.URL)

	var response struct {
		AuthToken string `json:"authToken"`
		PlayerID  int    `json:"playerId"`
	}
	body := map[string]string{"userName": "Scooby", "mapId": "map1"}
	err := client.apiCall("POST", "/api/v1/game/join", "sometoken", body, &response)
	if err != nil {
		t.Fatalf("apiCall failed: %v", err)
	}

	if response.AuthToken != "6516861d89ebfff147bf2eb2b5153ae1" || response.PlayerID != 3 {
		t.Errorf("Unexpected response: %+v", response)
	}
	if gotAuth != "Bearer sometoken" {
		t.Errorf("Expected bearer header, got %q", gotAuth)
	}
	if gotContentType != "application/json" {
		t.Errorf("Expected application/json, got %q", gotContentType)
	}
}

func TestClient_apiCall_SurfacesAPIErrors(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusNotFound)
		json.NewEncoder(w).Encode(map[string]string{
			"code":    "mapNotFound",
			"message": "Map not found",
		})
	}))
	defer server.Close()

	client := NewClient(server.URL)

	err := client.apiCall("GET", "/api/v1/maps/nope", "", nil, nil)
	if err == nil {
		t.Fatal("Expected error for 404 response")
	}
	if !strings.Contains(err.Error(), "mapNotFound") || !strings.Contains(err.Error(), "Map not found") {
		t.Errorf("Expected the API error code and message, got %q", err.Error())
	}
}

func TestClient_apiCall_ConnectionError(t *testing.T) {
	client := NewClient("http://127.0.0.1:1")

	if err := client.apiCall("GET", "/api/v1/maps", "", nil, nil); err == nil {
		t.Error("Expected error for unreachable server")
	}
}
