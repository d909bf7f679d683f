package dispatch

import (
	"context"
	"time"

	"go.uber.org/zap"

	"github.com/oddshoes/birdie/internal/metrics"
	"github.com/oddshoes/birdie/internal/store"
	"github.com/oddshoes/birdie/internal/webhook"
)

// EmailSink delivers a captured address somewhere a human will see it.
type EmailSink interface {
	Name() string
	Submit(ctx context.Context, email, sessionID string) (bool, error)
}

// EmailSender is the part of the webhook client WebhookSink needs.
type EmailSender interface {
	SubmitEmail(ctx context.Context, email, source string) (bool, error)
}

type WebhookSink struct {
	client  EmailSender
	source  string
	metrics *metrics.Metrics
}

func NewWebhookSink(client EmailSender, source string, m *metrics.Metrics) *WebhookSink {
	return &WebhookSink{client: client, source: source, metrics: m}
}

func (w *WebhookSink) Name() string { return "webhook" }

func (w *WebhookSink) Submit(ctx context.Context, email, _ string) (bool, error) {
	start := time.Now()
	ok, err := w.client.SubmitEmail(ctx, email, w.source)
	w.metrics.ObserveWebhookLatency("email", time.Since(start).Seconds())
	return ok, err
}

// JournalSink logs the address and, when a store is configured, appends it to
// the lead journal.
type JournalSink struct {
	leads  store.Store
	source string
	log    *zap.Logger
}

func NewJournalSink(leads store.Store, source string, log *zap.Logger) *JournalSink {
	if log == nil {
		log = zap.NewNop()
	}
	return &JournalSink{leads: leads, source: source, log: log}
}

func (j *JournalSink) Name() string { return "journal" }

func (j *JournalSink) Submit(_ context.Context, email, sessionID string) (bool, error) {
	j.log.Info("dispatch: lead captured",
		zap.String("email", email),
		zap.String("source", j.source),
		zap.String("session_id", sessionID),
	)
	if j.leads == nil {
		return true, nil
	}
	err := j.leads.SaveLead(store.Lead{
		Email:      email,
		Source:     j.source,
		SessionID:  sessionID,
		CapturedAt: time.Now().UTC(),
	})
	if err != nil {
		return false, err
	}
	return true, nil
}

var (
	_ EmailSink   = (*WebhookSink)(nil)
	_ EmailSink   = (*JournalSink)(nil)
	_ EmailSender = (*webhook.Client)(nil)
)
