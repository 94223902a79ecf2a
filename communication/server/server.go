package server

import (
	"encoding/json"
	"net/http"
	"sync"

	"checkers/communication"
	"checkers/game"
	"checkers/player"

	"github.com/pkg/errors"
	"github.com/rs/zerolog/log"
)

// Server exposes a player as an HTTP agent. Requests are served one at a
// time because players keep per-game state.
type Server struct {
	game   *game.Game
	player player.Player
	mutex  sync.Mutex
}

func NewServer(g *game.Game, p player.Player) *Server {
	return &Server{game: g, player: p}
}

func (s *Server) Handler() http.Handler {
	// Create a local mux rather than using the global DefaultServeMux
	mux := http.NewServeMux()
	mux.HandleFunc("POST "+communication.DecidePath, s.handleDecide)
	mux.HandleFunc("POST "+communication.ResetPath, s.handleReset)
	return mux
}

// ListenAndServe blocks serving the agent on addr.
func (s *Server) ListenAndServe(addr string) error {
	log.Info().Msgf("serving %s on %s", s.player.Name(), addr)
	return errors.Wrap(http.ListenAndServe(addr, s.Handler()), "agent server stopped")
}

func (s *Server) handleDecide(w http.ResponseWriter, r *http.Request) {
	var request communication.DecideRequest
	if err := json.NewDecoder(r.Body).Decode(&request); err != nil {
		http.Error(w, "bad request: "+err.Error(), http.StatusBadRequest)
		return
	}
	state, err := s.game.Replay(request.History)
	if err != nil {
		http.Error(w, "bad history: "+err.Error(), http.StatusBadRequest)
		return
	}
	if s.game.Outcome(state, state.Player()) != game.Ongoing {
		http.Error(w, "game is over", http.StatusConflict)
		return
	}

	s.mutex.Lock()
	action, err := s.player.Decide(state)
	s.mutex.Unlock()
	if err != nil {
		log.Error().Err(err).Msgf("%s failed to decide at ply %d", s.player.Name(), len(request.History))
		http.Error(w, "failed to decide: "+err.Error(), http.StatusInternalServerError)
		return
	}
	log.Debug().Msgf("%s decided %d at ply %d", s.player.Name(), action, len(request.History))

	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(communication.DecideResponse{Action: action}); err != nil {
		http.Error(w, "failed to encode action: "+err.Error(), http.StatusInternalServerError)
	}
}

func (s *Server) handleReset(w http.ResponseWriter, r *http.Request) {
	if resetter, ok := s.player.(player.Resetter); ok {
		s.mutex.Lock()
		resetter.Reset()
		s.mutex.Unlock()
	}
	w.WriteHeader(http.StatusOK)
}
