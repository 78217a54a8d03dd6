package api

import (
	"encoding/json"
	"net/http"

	"github.com/google/uuid"
	"github.com/gorilla/mux"

	"jawla/game/service"
	"jawla/transport/websocket"
)

// Server is the HTTP surface: status and lobby diagnostics plus the
// WebSocket upgrade endpoint. Gameplay itself happens over the socket.
type Server struct {
	service service.GameService
	hub     *websocket.Hub
	router  *mux.Router
}

// NewServer creates the HTTP server around the game service and hub.
func NewServer(gameService service.GameService, hub *websocket.Hub) *Server {
	s := &Server{
		service: gameService,
		hub:     hub,
		router:  mux.NewRouter(),
	}

	s.setupRoutes()
	return s
}

func (s *Server) setupRoutes() {
	s.router.HandleFunc("/status", s.handleStatus).Methods("GET")
	s.router.HandleFunc("/rooms", s.handleRooms).Methods("GET")
	s.router.HandleFunc("/ws", s.handleWebSocket)

	// Client bundle
	s.router.PathPrefix("/").Handler(http.FileServer(http.Dir("./static/")))
}

// ServeHTTP implements http.Handler
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.router.ServeHTTP(w, r)
}

func respondJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(data)
}

// handleStatus reports the aggregate counters.
func (s *Server) handleStatus(w http.ResponseWriter, r *http.Request) {
	status := s.service.Status()
	respondJSON(w, http.StatusOK, map[string]interface{}{
		"status":         "ok",
		"sessions":       status.Sessions,
		"playing":        status.Playing,
		"queue_depth":    status.QueueDepth,
		"connections":    s.hub.ConnectionCount(),
		"uptime_seconds": status.UptimeSeconds,
		"timestamp":      status.Timestamp,
	})
}

// handleRooms lists joinable waiting rooms.
func (s *Server) handleRooms(w http.ResponseWriter, r *http.Request) {
	rooms := s.service.ListOpenRooms()
	respondJSON(w, http.StatusOK, map[string]interface{}{
		"rooms": rooms,
		"total": len(rooms),
	})
}

// handleWebSocket mints the per-connection participant identifier and
// hands the request to the hub. Identity is transient: a new connection
// is a new participant.
func (s *Server) handleWebSocket(w http.ResponseWriter, r *http.Request) {
	playerID := uuid.NewString()
	s.hub.ServeWS(w, r, playerID)
}
