// Package dispatch routes visitor messages to the configured reply strategy
// and captured emails to the configured sink.
package dispatch

import (
	"context"
	"errors"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/oddshoes/birdie/internal/brand"
	"github.com/oddshoes/birdie/internal/chat"
	"github.com/oddshoes/birdie/internal/config"
	"github.com/oddshoes/birdie/internal/engine"
	"github.com/oddshoes/birdie/internal/intent"
	"github.com/oddshoes/birdie/internal/metrics"
	"github.com/oddshoes/birdie/internal/session"
	"github.com/oddshoes/birdie/internal/store"
	"github.com/oddshoes/birdie/internal/webhook"
)

var (
	ErrBusy         = errors.New("dispatch: a message is already being answered")
	ErrRateLimited  = errors.New("dispatch: too many messages")
	ErrInvalidEmail = errors.New("dispatch: email address must contain @")
)

type Service struct {
	strategy Strategy
	sink     EmailSink
	sessions *session.Manager
	log      *zap.Logger
	metrics  *metrics.Metrics
}

// Options carries the collaborators New wires into the chosen strategy and
// sink. Zero values fall back to in-memory defaults.
type Options struct {
	Sessions  *session.Manager
	Knowledge *brand.Knowledge
	Leads     store.Store
	Coin      webhook.Coin
	Logger    *zap.Logger
	Metrics   *metrics.Metrics
}

// New picks the reply strategy and email sink once from cfg: the chat webhook
// when CHAT_WEBHOOK_URL is set, the local engine otherwise, and likewise for
// EMAIL_WEBHOOK_URL.
func New(cfg *config.Config, opts Options) *Service {
	client := webhook.NewClient(webhook.Options{
		ChatURL:  cfg.ChatWebhookURL,
		EmailURL: cfg.EmailWebhookURL,
		Timeout:  cfg.WebhookTimeout,
		Parser:   webhook.NewParser(opts.Coin),
	})

	var strategy Strategy
	if cfg.Remote() {
		strategy = NewRemote(client, opts.Metrics)
	} else {
		classifier := intent.NewClassifier(nil)
		strategy = NewLocal(engine.New(classifier, engine.NewComposer(opts.Knowledge)))

		labels := make([]string, 0, len(classifier.Labels())+1)
		for _, l := range classifier.Labels() {
			labels = append(labels, string(l))
		}
		opts.Metrics.InitMessages(strategy.Name(), append(labels, string(intent.Unknown)))
	}

	var sink EmailSink
	if cfg.EmailWebhookURL != "" {
		sink = NewWebhookSink(client, cfg.EmailSource, opts.Metrics)
	} else {
		sink = NewJournalSink(opts.Leads, cfg.EmailSource, opts.Logger)
	}

	return NewService(strategy, sink, opts.Sessions, opts.Logger, opts.Metrics)
}

func NewService(strategy Strategy, sink EmailSink, sessions *session.Manager, log *zap.Logger, m *metrics.Metrics) *Service {
	if sessions == nil {
		sessions = session.NewManager(0)
	}
	if log == nil {
		log = zap.NewNop()
	}
	return &Service{
		strategy: strategy,
		sink:     sink,
		sessions: sessions,
		log:      log,
		metrics:  m,
	}
}

func (s *Service) StrategyName() string { return s.strategy.Name() }

func (s *Service) StartConversation() *session.Conversation {
	conv := s.sessions.Create()
	s.metrics.SetActiveSessions(s.sessions.Len())
	return conv
}

func (s *Service) Conversation(id string) (*session.Conversation, error) {
	return s.sessions.Get(id)
}

// OpenConversation returns the conversation for id, or a new one when id is
// empty or has expired.
func (s *Service) OpenConversation(id string) *session.Conversation {
	conv := s.sessions.GetOrCreate(id)
	s.metrics.SetActiveSessions(s.sessions.Len())
	return conv
}

// SendMessage answers one visitor message. Only ErrBusy and ErrRateLimited
// are returned; any strategy failure becomes the apology reply.
func (s *Service) SendMessage(ctx context.Context, conv *session.Conversation, text string) (chat.Reply, error) {
	if !conv.TryBeginSend() {
		return chat.Reply{}, ErrBusy
	}
	defer conv.EndSend()

	if !conv.Allow() {
		s.log.Warn("dispatch: rate limit exceeded", zap.String("session_id", conv.ID()))
		return chat.Reply{}, ErrRateLimited
	}

	current := conv.State()
	reply, next, err := s.strategy.Reply(ctx, conv.ID(), text, current)
	if err != nil {
		we := webhook.ClassifyError(err)
		s.log.Error("dispatch: reply failed, sending fallback",
			zap.String("session_id", conv.ID()),
			zap.String("strategy", s.strategy.Name()),
			zap.String("error_type", string(we.Type)),
			zap.Bool("retryable", we.Retryable),
			zap.Error(err),
		)
		s.metrics.ObserveFallback(string(we.Type))
		reply = chat.Apology()
		next = current
		next.TurnCount++
	}

	conv.Update(func(latest engine.State) engine.State {
		// An email may have been captured while the reply was in flight.
		if latest.EmailCollected {
			next = engine.MarkEmailCollected(next)
		}
		return next
	})
	conv.Record(
		chat.Turn{Role: chat.RoleUser, Text: text},
		chat.Turn{Role: chat.RoleAssistant, Text: reply.Text},
	)

	label := string(next.LastIntent)
	if label == "" {
		label = "none"
	}
	s.metrics.ObserveMessage(s.strategy.Name(), label)
	return reply, nil
}

// SubmitEmail hands a visitor address to the sink. Addresses without "@" are
// rejected before any delivery attempt. Sink failures are logged and reported
// as false.
func (s *Service) SubmitEmail(ctx context.Context, conv *session.Conversation, email string) (bool, error) {
	email = strings.TrimSpace(email)
	if !strings.Contains(email, "@") {
		return false, ErrInvalidEmail
	}

	ok, err := s.sink.Submit(ctx, email, conv.ID())
	if err != nil {
		s.log.Error("dispatch: email submission failed",
			zap.String("session_id", conv.ID()),
			zap.String("sink", s.sink.Name()),
			zap.Error(err),
		)
		ok = false
	}
	s.metrics.ObserveEmail(s.sink.Name(), ok)
	if !ok {
		return false, nil
	}

	conv.Update(engine.MarkEmailCollected)
	s.log.Info("dispatch: email collected", zap.String("session_id", conv.ID()), zap.String("sink", s.sink.Name()))
	return true, nil
}

// ResetConversation discards conv and returns a fresh one with a new token.
func (s *Service) ResetConversation(conv *session.Conversation) *session.Conversation {
	fresh := s.sessions.Reset(conv.ID())
	s.metrics.SetActiveSessions(s.sessions.Len())
	return fresh
}

// Cleanup evicts conversations idle longer than maxAge.
func (s *Service) Cleanup(maxAge time.Duration) int {
	removed := s.sessions.Cleanup(maxAge)
	if removed > 0 {
		s.log.Info("dispatch: evicted idle conversations", zap.Int("count", removed))
	}
	s.metrics.SetActiveSessions(s.sessions.Len())
	return removed
}
