// Package widget serves the JSON API the embeddable chat widget talks to.
package widget

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"github.com/oddshoes/birdie/internal/chat"
	"github.com/oddshoes/birdie/internal/dispatch"
	"github.com/oddshoes/birdie/internal/session"
)

const maxRequestBytes = 64 << 10

type Handler struct {
	svc *dispatch.Service
	log *zap.Logger
}

func NewHandler(svc *dispatch.Service, log *zap.Logger) *Handler {
	if log == nil {
		log = zap.NewNop()
	}
	return &Handler{svc: svc, log: log}
}

// Routes mounts the widget endpoints on r.
func (h *Handler) Routes(r chi.Router) {
	r.Post("/session", h.HandleStart)
	r.Post("/message", h.HandleMessage)
	r.Post("/email", h.HandleEmail)
	r.Post("/reset", h.HandleReset)
	r.Get("/history", h.HandleHistory)
}

type sessionResponse struct {
	SessionID string `json:"session_id"`
}

type messageRequest struct {
	SessionID string          `json:"session_id"`
	Message   json.RawMessage `json:"message"`
}

// text returns the message as a string. Anything that is not a JSON string
// reads as empty.
func (m messageRequest) text() string {
	var s string
	if err := json.Unmarshal(m.Message, &s); err != nil {
		return ""
	}
	return s
}

type messageResponse struct {
	SessionID string     `json:"session_id"`
	Reply     chat.Reply `json:"reply"`
}

type emailRequest struct {
	SessionID string `json:"session_id"`
	Email     string `json:"email"`
}

type emailResponse struct {
	Success bool `json:"success"`
}

type historyResponse struct {
	SessionID string      `json:"session_id"`
	Messages  []chat.Turn `json:"messages"`
}

func (h *Handler) HandleStart(w http.ResponseWriter, r *http.Request) {
	conv := h.svc.StartConversation()
	writeJSON(w, http.StatusCreated, sessionResponse{SessionID: conv.ID()})
}

func (h *Handler) HandleMessage(w http.ResponseWriter, r *http.Request) {
	var req messageRequest
	if !decode(w, r, &req) {
		return
	}

	conv := h.svc.OpenConversation(req.SessionID)
	reply, err := h.svc.SendMessage(r.Context(), conv, req.text())
	switch {
	case errors.Is(err, dispatch.ErrBusy):
		writeError(w, http.StatusConflict, "a reply is still on its way")
		return
	case errors.Is(err, dispatch.ErrRateLimited):
		writeError(w, http.StatusTooManyRequests, "too many messages, slow down a little")
		return
	case err != nil:
		h.log.Error("widget: send failed", zap.String("session_id", conv.ID()), zap.Error(err))
		writeError(w, http.StatusInternalServerError, "internal error")
		return
	}

	writeJSON(w, http.StatusOK, messageResponse{SessionID: conv.ID(), Reply: reply})
}

func (h *Handler) HandleEmail(w http.ResponseWriter, r *http.Request) {
	var req emailRequest
	if !decode(w, r, &req) {
		return
	}

	conv, ok := h.lookup(w, req.SessionID)
	if !ok {
		return
	}

	success, err := h.svc.SubmitEmail(r.Context(), conv, req.Email)
	if errors.Is(err, dispatch.ErrInvalidEmail) {
		writeError(w, http.StatusBadRequest, "please enter a valid email address")
		return
	}
	if err != nil {
		h.log.Error("widget: email submission failed", zap.String("session_id", conv.ID()), zap.Error(err))
		writeError(w, http.StatusInternalServerError, "internal error")
		return
	}

	writeJSON(w, http.StatusOK, emailResponse{Success: success})
}

func (h *Handler) HandleReset(w http.ResponseWriter, r *http.Request) {
	var req sessionResponse
	if !decode(w, r, &req) {
		return
	}

	fresh := h.svc.ResetConversation(h.svc.OpenConversation(req.SessionID))
	writeJSON(w, http.StatusOK, sessionResponse{SessionID: fresh.ID()})
}

func (h *Handler) HandleHistory(w http.ResponseWriter, r *http.Request) {
	conv, ok := h.lookup(w, r.URL.Query().Get("session_id"))
	if !ok {
		return
	}
	writeJSON(w, http.StatusOK, historyResponse{SessionID: conv.ID(), Messages: conv.History()})
}

func (h *Handler) lookup(w http.ResponseWriter, id string) (*session.Conversation, bool) {
	conv, err := h.svc.Conversation(id)
	if err != nil {
		writeError(w, http.StatusNotFound, "unknown session")
		return nil, false
	}
	return conv, true
}

func decode(w http.ResponseWriter, r *http.Request, v any) bool {
	if err := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxRequestBytes)).Decode(v); err != nil {
		writeError(w, http.StatusBadRequest, "malformed JSON body")
		return false
	}
	return true
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"error": msg})
}
