// Package relay is a thin CORS-enabled pass-through from the browser widget
// to the chat webhook, for deployments that cannot call it directly.
package relay

import (
	"context"
	"encoding/json"
	"io"
	"net/http"

	"go.uber.org/zap"

	"github.com/oddshoes/birdie/internal/chat"
	"github.com/oddshoes/birdie/internal/metrics"
	"github.com/oddshoes/birdie/internal/webhook"
)

const maxRequestBytes = 1 << 20

var fallbackOutput = "Something went wrong connecting to the AI. Please try again or email " + chat.ContactEmail + " 🙏"

// Forwarder posts a body upstream and returns the JSON response body.
type Forwarder interface {
	Forward(ctx context.Context, url string, body []byte) ([]byte, error)
}

type Handler struct {
	target  string
	fwd     Forwarder
	log     *zap.Logger
	metrics *metrics.Metrics
}

func NewHandler(target string, fwd Forwarder, log *zap.Logger, m *metrics.Metrics) *Handler {
	if log == nil {
		log = zap.NewNop()
	}
	return &Handler{target: target, fwd: fwd, log: log, metrics: m}
}

func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Access-Control-Allow-Origin", "*")
	w.Header().Set("Access-Control-Allow-Methods", "POST, OPTIONS")
	w.Header().Set("Access-Control-Allow-Headers", "Content-Type")

	switch r.Method {
	case http.MethodOptions:
		w.WriteHeader(http.StatusOK)
		return
	case http.MethodPost:
	default:
		writeJSON(w, http.StatusMethodNotAllowed, map[string]string{"error": "Method not allowed"})
		return
	}

	body, err := io.ReadAll(io.LimitReader(r.Body, maxRequestBytes))
	if err != nil {
		h.fail(w, "read", err)
		return
	}

	resp, err := h.fwd.Forward(r.Context(), h.target, body)
	if err != nil {
		h.fail(w, string(webhook.ClassifyError(err).Type), err)
		return
	}

	h.metrics.ObserveRelay("ok")
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	w.Write(resp)
}

// fail answers with the apology payload. The widget renders any 200 body, so
// upstream problems never surface as HTTP errors.
func (h *Handler) fail(w http.ResponseWriter, reason string, err error) {
	h.log.Error("relay: forwarding failed", zap.String("reason", reason), zap.Error(err))
	h.metrics.ObserveRelay(reason)
	writeJSON(w, http.StatusOK, map[string]string{"output": fallbackOutput})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}
