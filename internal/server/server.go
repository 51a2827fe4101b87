// Package server exposes the conversation core to the UI collaborator over
// HTTP. The collaborator renders the reply text, switches displayed media per
// the media signal, and feeds audio_text to its speech-synthesis service —
// all of that stays outside the core.
package server

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/companionkit/mira/internal/chat"
	"github.com/companionkit/mira/internal/memory"
	"github.com/companionkit/mira/internal/shop"
)

// Server holds the handler dependencies.
type Server struct {
	session *chat.Session
	catalog []shop.Item
	store   memory.Log
	logger  *slog.Logger
}

// New creates a Server around one session.
func New(session *chat.Session, catalog []shop.Item, store memory.Log, logger *slog.Logger) *Server {
	if logger == nil {
		logger = slog.Default()
	}
	return &Server{session: session, catalog: catalog, store: store, logger: logger}
}

// Routes builds the HTTP router with the given middleware settings.
func (s *Server) Routes(corsOrigins []string, passphrase string) http.Handler {
	r := chi.NewRouter()
	r.Use(CORS(corsOrigins))
	r.Use(Passphrase(passphrase))

	r.Post("/chat", s.handleChat)
	r.Get("/nudge", s.handleNudge)
	r.Get("/state", s.handleState)
	r.Get("/memory", s.handleMemory)
	r.Get("/shop", s.handleShop)
	r.Post("/shop/buy", s.handleBuy)

	return r
}

// JSON writes a JSON response with the given status code.
func JSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		http.Error(w, `{"error": "failed to encode response"}`, http.StatusInternalServerError)
	}
}

// Error writes a JSON error response.
func Error(w http.ResponseWriter, status int, message string) {
	JSON(w, status, map[string]string{"error": message})
}

type chatRequest struct {
	Message string `json:"message"`
}

type chatResponse struct {
	chat.Reply
	Balance int `json:"balance"`
}

func (s *Server) handleChat(w http.ResponseWriter, r *http.Request) {
	var req chatRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		Error(w, http.StatusBadRequest, "invalid request body")
		return
	}

	reply, err := s.session.Handle(r.Context(), req.Message)
	if err != nil {
		if errors.Is(err, chat.ErrEmptyMessage) {
			Error(w, http.StatusBadRequest, "message must not be empty")
			return
		}
		s.logger.Error("chat request failed", "err", err)
		Error(w, http.StatusInternalServerError, "internal error")
		return
	}

	JSON(w, http.StatusOK, chatResponse{Reply: reply, Balance: s.session.State().Balance})
}

func (s *Server) handleNudge(w http.ResponseWriter, r *http.Request) {
	reply, due := s.session.IdleNudge(time.Now())
	if !due {
		w.WriteHeader(http.StatusNoContent)
		return
	}
	JSON(w, http.StatusOK, reply)
}

func (s *Server) handleState(w http.ResponseWriter, r *http.Request) {
	JSON(w, http.StatusOK, s.session.State())
}

// handleMemory returns records in storage order (oldest first); newest-first
// display ordering is the UI's concern.
func (s *Server) handleMemory(w http.ResponseWriter, r *http.Request) {
	records, err := s.store.LoadAll(r.Context())
	if err != nil {
		s.logger.Error("memory load failed", "err", err)
		Error(w, http.StatusInternalServerError, "internal error")
		return
	}
	if records == nil {
		records = []memory.Record{}
	}
	JSON(w, http.StatusOK, records)
}

func (s *Server) handleShop(w http.ResponseWriter, r *http.Request) {
	JSON(w, http.StatusOK, s.catalog)
}

type buyRequest struct {
	Item string `json:"item"`
}

func (s *Server) handleBuy(w http.ResponseWriter, r *http.Request) {
	var req buyRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		Error(w, http.StatusBadRequest, "invalid request body")
		return
	}

	reply, err := s.session.Purchase(r.Context(), req.Item)
	switch {
	case errors.Is(err, chat.ErrUnknownItem):
		Error(w, http.StatusNotFound, "unknown shop item")
		return
	case errors.Is(err, shop.ErrInsufficientFunds):
		// The one business error surfaced verbatim: user-actionable, not a fault.
		Error(w, http.StatusPaymentRequired, shop.ErrInsufficientFunds.Error())
		return
	case err != nil:
		s.logger.Error("purchase failed", "err", err)
		Error(w, http.StatusInternalServerError, "internal error")
		return
	}

	JSON(w, http.StatusOK, chatResponse{Reply: reply, Balance: s.session.State().Balance})
}
