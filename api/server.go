package api

import (
	"context"
	"errors"
	"log"
	"mime"
	"net/http"
	"strings"

	"github.com/gorilla/mux"
	jsoniter "github.com/json-iterator/go"

	"github.com/avolkov/dogwalk/game/service"
	"github.com/avolkov/dogwalk/game/session"
	"github.com/avolkov/dogwalk/transport/websocket"
)

var json = jsoniter.ConfigCompatibleWithStandardLibrary

const bearerPrefix = "Bearer "

// Server routes HTTP requests into world operations and serves the
// static frontend.
type Server struct {
	service    service.GameService
	hub        *websocket.Hub
	router     *mux.Router
	staticRoot string
	autoTick   bool
	debug      bool
}

// Options configures a Server beyond its service.
type Options struct {
	// Hub receives per-map state broadcasts; nil disables /ws.
	Hub *websocket.Hub

	// StaticRoot is the www-root directory for non-API requests.
	StaticRoot string

	// AutoTick marks the server as running an automatic ticker, which
	// disables the manual tick endpoint.
	AutoTick bool

	// Debug enables per-request logging.
	Debug bool
}

// NewServer creates the API server.
func NewServer(gameService service.GameService, opts Options) *Server {
	s := &Server{
		service:    gameService,
		hub:        opts.Hub,
		router:     mux.NewRouter(),
		staticRoot: opts.StaticRoot,
		autoTick:   opts.AutoTick,
		debug:      opts.Debug,
	}

	s.setupRoutes()
	return s
}

// setupRoutes configures all routes. The API subrouter ends with a
// catch-all so unknown /api/ targets answer 400 instead of falling
// through to the static handler.
func (s *Server) setupRoutes() {
	s.router.Use(s.methodFilter)
	if s.debug {
		s.router.Use(s.requestLogger)
	}

	api := s.router.PathPrefix("/api/").Subrouter()
	api.HandleFunc("/v1/maps", s.handleMaps)
	api.HandleFunc("/v1/maps/{id}", s.handleMapByID)
	api.HandleFunc("/v1/game/join", s.handleJoin)
	api.HandleFunc("/v1/game/players", s.handlePlayers)
	api.HandleFunc("/v1/game/state", s.handleState)
	api.HandleFunc("/v1/game/player/action", s.handleAction)
	api.HandleFunc("/v1/game/tick", s.handleTick)
	api.PathPrefix("/").HandlerFunc(s.handleUnknownAPI)

	if s.hub != nil {
		s.router.HandleFunc("/ws", s.handleWebSocket)
	}

	s.router.PathPrefix("/").HandlerFunc(s.handleStatic)
}

// ServeHTTP implements http.Handler.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.router.ServeHTTP(w, r)
}

// methodFilter rejects every verb except GET, HEAD and POST before
// routing happens.
func (s *Server) methodFilter(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.Method {
		case http.MethodGet, http.MethodHead, http.MethodPost:
			next.ServeHTTP(w, r)
		default:
			s.writeError(w, r, http.StatusMethodNotAllowed,
				"invalidMethod", "Only GET, HEAD and POST methods are expected")
		}
	})
}

func (s *Server) requestLogger(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		log.Printf("%s %s", r.Method, r.URL.Path)
		next.ServeHTTP(w, r)
	})
}

// allowedMethods returns the Allow header value for a known API
// target, or "".
func allowedMethods(target string) string {
	switch target {
	case "/api/v1/game/join", "/api/v1/game/player/action", "/api/v1/game/tick":
		return "POST"
	case "/api/v1/game/players", "/api/v1/game/state":
		return "GET, HEAD"
	}
	if strings.HasPrefix(target, "/api/v1/maps") {
		return "GET, HEAD"
	}
	return ""
}

type errorBody struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// writeJSON serializes payload with the standard API headers. HEAD
// responses carry headers only.
func (s *Server) writeJSON(w http.ResponseWriter, r *http.Request, status int, payload interface{}) {
	data, err := json.Marshal(payload)
	if err != nil {
		log.Printf("response marshal failed: %v", err)
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.Header().Set("Cache-Control", "no-cache")
	w.WriteHeader(status)
	if r.Method != http.MethodHead {
		w.Write(data)
	}
}

func (s *Server) writeError(w http.ResponseWriter, r *http.Request, status int, code, message string) {
	if status == http.StatusMethodNotAllowed {
		if allow := allowedMethods(r.URL.Path); allow != "" {
			w.Header().Set("Allow", allow)
		}
	}
	s.writeJSON(w, r, status, errorBody{Code: code, Message: message})
}

// requireJSON enforces the Content-Type discipline on POST bodies.
func (s *Server) requireJSON(w http.ResponseWriter, r *http.Request) bool {
	mediaType, _, err := mime.ParseMediaType(r.Header.Get("Content-Type"))
	if err != nil || mediaType != "application/json" {
		s.writeError(w, r, http.StatusBadRequest, "invalidArgument", "Invalid content type")
		return false
	}
	return true
}

// bearerToken extracts and validates the Authorization header. A
// missing header, wrong scheme or malformed token writes 401
// invalidToken and returns ok=false.
func (s *Server) bearerToken(w http.ResponseWriter, r *http.Request) (string, bool) {
	auth := r.Header.Get("Authorization")
	if !strings.HasPrefix(auth, bearerPrefix) {
		s.writeError(w, r, http.StatusUnauthorized, "invalidToken", "Authorization header is missing")
		return "", false
	}

	token := auth[len(bearerPrefix):]
	if !session.IsWellFormedToken(token) {
		s.writeError(w, r, http.StatusUnauthorized, "invalidToken", "Invalid authorization token")
		return "", false
	}
	return token, true
}

func (s *Server) requireMethods(w http.ResponseWriter, r *http.Request, methods ...string) bool {
	for _, m := range methods {
		if r.Method == m {
			return true
		}
	}

	message := "Only POST method is allowed"
	if methods[0] == http.MethodGet {
		message = "Only GET and HEAD methods are allowed"
	}
	s.writeError(w, r, http.StatusMethodNotAllowed, "invalidMethod", message)
	return false
}

// GET/HEAD /api/v1/maps
func (s *Server) handleMaps(w http.ResponseWriter, r *http.Request) {
	if !s.requireMethods(w, r, http.MethodGet, http.MethodHead) {
		return
	}
	s.writeJSON(w, r, http.StatusOK, s.service.Maps(r.Context()))
}

// GET/HEAD /api/v1/maps/{id}
func (s *Server) handleMapByID(w http.ResponseWriter, r *http.Request) {
	if !s.requireMethods(w, r, http.MethodGet, http.MethodHead) {
		return
	}

	id := mux.Vars(r)["id"]
	detail, err := s.service.MapByID(r.Context(), id)
	if err != nil {
		s.writeError(w, r, http.StatusNotFound, "mapNotFound", "Map not found")
		return
	}
	s.writeJSON(w, r, http.StatusOK, detail)
}

// POST /api/v1/game/join
func (s *Server) handleJoin(w http.ResponseWriter, r *http.Request) {
	if !s.requireMethods(w, r, http.MethodPost) {
		return
	}
	if !s.requireJSON(w, r) {
		return
	}

	var req struct {
		UserName *string `json:"userName"`
		MapID    *string `json:"mapId"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.UserName == nil || req.MapID == nil {
		s.writeError(w, r, http.StatusBadRequest, "invalidArgument", "Join game request parse error")
		return
	}
	if *req.UserName == "" {
		s.writeError(w, r, http.StatusBadRequest, "invalidArgument", "Invalid name")
		return
	}

	result, err := s.service.Join(r.Context(), *req.UserName, *req.MapID)
	if err != nil {
		if errors.Is(err, service.ErrMapNotFound) {
			s.writeError(w, r, http.StatusNotFound, "mapNotFound", "Map not found")
			return
		}
		s.writeError(w, r, http.StatusInternalServerError, "internalError", "Join failed")
		return
	}
	s.writeJSON(w, r, http.StatusOK, result)
}

// GET/HEAD /api/v1/game/players
func (s *Server) handlePlayers(w http.ResponseWriter, r *http.Request) {
	if !s.requireMethods(w, r, http.MethodGet, http.MethodHead) {
		return
	}

	token, ok := s.bearerToken(w, r)
	if !ok {
		return
	}

	players, err := s.service.PlayersOnMap(r.Context(), token)
	if err != nil {
		s.writeError(w, r, http.StatusUnauthorized, "unknownToken", "Player token has not been found")
		return
	}
	s.writeJSON(w, r, http.StatusOK, players)
}

// GET/HEAD /api/v1/game/state
func (s *Server) handleState(w http.ResponseWriter, r *http.Request) {
	if !s.requireMethods(w, r, http.MethodGet, http.MethodHead) {
		return
	}

	token, ok := s.bearerToken(w, r)
	if !ok {
		return
	}

	state, err := s.service.State(r.Context(), token)
	if err != nil {
		s.writeError(w, r, http.StatusUnauthorized, "unknownToken", "Player token has not been found")
		return
	}
	s.writeJSON(w, r, http.StatusOK, state)
}

// POST /api/v1/game/player/action
func (s *Server) handleAction(w http.ResponseWriter, r *http.Request) {
	if !s.requireMethods(w, r, http.MethodPost) {
		return
	}
	if !s.requireJSON(w, r) {
		return
	}

	token, ok := s.bearerToken(w, r)
	if !ok {
		return
	}

	var req struct {
		Move *string `json:"move"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.Move == nil {
		s.writeError(w, r, http.StatusBadRequest, "invalidArgument", "Failed to parse action")
		return
	}

	if err := s.service.Action(r.Context(), token, *req.Move); err != nil {
		switch {
		case errors.Is(err, service.ErrUnknownToken):
			s.writeError(w, r, http.StatusUnauthorized, "unknownToken", "Player token has not been found")
		case errors.Is(err, service.ErrInvalidMove):
			s.writeError(w, r, http.StatusBadRequest, "invalidArgument", "Invalid move value")
		default:
			s.writeError(w, r, http.StatusInternalServerError, "internalError", "Action failed")
		}
		return
	}
	s.writeJSON(w, r, http.StatusOK, struct{}{})
}

// POST /api/v1/game/tick
func (s *Server) handleTick(w http.ResponseWriter, r *http.Request) {
	if s.autoTick {
		s.writeError(w, r, http.StatusBadRequest, "badRequest", "Manual tick is disabled in auto-tick mode")
		return
	}
	if !s.requireMethods(w, r, http.MethodPost) {
		return
	}
	if !s.requireJSON(w, r) {
		return
	}

	var req struct {
		TimeDelta *int64 `json:"timeDelta"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.TimeDelta == nil {
		s.writeError(w, r, http.StatusBadRequest, "invalidArgument", "Failed to parse tick request JSON")
		return
	}
	if *req.TimeDelta <= 0 {
		s.writeError(w, r, http.StatusBadRequest, "invalidArgument", "timeDelta must be positive")
		return
	}

	if err := s.service.Tick(r.Context(), *req.TimeDelta); err != nil {
		s.writeError(w, r, http.StatusBadRequest, "invalidArgument", "timeDelta must be positive")
		return
	}

	s.BroadcastState()
	s.writeJSON(w, r, http.StatusOK, struct{}{})
}

// handleUnknownAPI answers any /api/ target without a route.
func (s *Server) handleUnknownAPI(w http.ResponseWriter, r *http.Request) {
	s.writeError(w, r, http.StatusBadRequest, "badRequest", "Bad request")
}

// handleWebSocket subscribes an authenticated client to its map room.
// The token travels in the query string because browsers cannot set
// headers on websocket dials.
func (s *Server) handleWebSocket(w http.ResponseWriter, r *http.Request) {
	token := r.URL.Query().Get("authToken")
	if !session.IsWellFormedToken(token) {
		s.writeError(w, r, http.StatusUnauthorized, "invalidToken", "Invalid authorization token")
		return
	}

	mapID, err := s.service.MapIDOf(r.Context(), token)
	if err != nil {
		s.writeError(w, r, http.StatusUnauthorized, "unknownToken", "Player token has not been found")
		return
	}

	s.hub.ServeWS(w, r, mapID)
}

// BroadcastState pushes current per-map snapshots to the hub. It runs
// after every tick, manual or automatic.
func (s *Server) BroadcastState() {
	if s.hub == nil {
		return
	}
	for mapID, state := range s.service.StateByMap(context.Background()) {
		s.hub.BroadcastState(mapID, state)
	}
}
