package dispatch

import (
	"context"
	"time"

	"github.com/oddshoes/birdie/internal/chat"
	"github.com/oddshoes/birdie/internal/engine"
	"github.com/oddshoes/birdie/internal/metrics"
	"github.com/oddshoes/birdie/internal/webhook"
)

// Strategy produces the reply to one visitor message. It receives the
// conversation's current state and returns the advanced one.
type Strategy interface {
	Name() string
	Reply(ctx context.Context, sessionID, text string, s engine.State) (chat.Reply, engine.State, error)
}

// Local answers from the scripted engine. It never fails.
type Local struct {
	engine *engine.Engine
}

func NewLocal(e *engine.Engine) *Local {
	if e == nil {
		e = engine.New(nil, nil)
	}
	return &Local{engine: e}
}

func (l *Local) Name() string { return "local" }

func (l *Local) Reply(_ context.Context, _ string, text string, s engine.State) (chat.Reply, engine.State, error) {
	reply, next := l.engine.Reply(text, s)
	return reply, next, nil
}

// ChatSender is the part of the webhook client Remote needs.
type ChatSender interface {
	SendChat(ctx context.Context, text, sessionID string) (chat.Reply, error)
}

// Remote forwards every message to the chat webhook. Intent classification
// happens upstream, so only the turn count advances locally.
type Remote struct {
	client  ChatSender
	metrics *metrics.Metrics
}

func NewRemote(client ChatSender, m *metrics.Metrics) *Remote {
	return &Remote{client: client, metrics: m}
}

func (r *Remote) Name() string { return "remote" }

func (r *Remote) Reply(ctx context.Context, sessionID, text string, s engine.State) (chat.Reply, engine.State, error) {
	start := time.Now()
	reply, err := r.client.SendChat(ctx, text, sessionID)
	r.metrics.ObserveWebhookLatency("chat", time.Since(start).Seconds())
	if err != nil {
		return chat.Reply{}, s, err
	}
	s.TurnCount++
	if reply.QuickReplies == nil {
		reply.QuickReplies = []string{}
	}
	return reply, s, nil
}

var (
	_ Strategy   = (*Local)(nil)
	_ Strategy   = (*Remote)(nil)
	_ ChatSender = (*webhook.Client)(nil)
)
