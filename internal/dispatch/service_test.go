package dispatch

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"

	"github.com/oddshoes/birdie/internal/chat"
	"github.com/oddshoes/birdie/internal/config"
	"github.com/oddshoes/birdie/internal/engine"
	"github.com/oddshoes/birdie/internal/intent"
	"github.com/oddshoes/birdie/internal/metrics"
	"github.com/oddshoes/birdie/internal/session"
	"github.com/oddshoes/birdie/internal/store"
	"github.com/oddshoes/birdie/internal/webhook"
)

type fakeSender struct {
	reply   chat.Reply
	err     error
	block   chan struct{}
	entered chan struct{}
}

func (f *fakeSender) SendChat(ctx context.Context, text, sessionID string) (chat.Reply, error) {
	if f.entered != nil {
		f.entered <- struct{}{}
	}
	if f.block != nil {
		<-f.block
	}
	return f.reply, f.err
}

type fakeSink struct {
	mu    sync.Mutex
	ok    bool
	err   error
	calls []string
}

func (f *fakeSink) Name() string { return "fake" }

func (f *fakeSink) Submit(_ context.Context, email, _ string) (bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls = append(f.calls, email)
	return f.ok, f.err
}

func newLocalService(sink EmailSink) *Service {
	return NewService(NewLocal(nil), sink, session.NewManager(0), zap.NewNop(), nil)
}

func TestSendMessage_LocalAdvancesState(t *testing.T) {
	svc := newLocalService(&fakeSink{ok: true})
	conv := svc.StartConversation()

	reply, err := svc.SendMessage(context.Background(), conv, "hi")
	require.NoError(t, err)

	assert.NotEmpty(t, reply.Text)
	st := conv.State()
	assert.Equal(t, 1, st.TurnCount)
	assert.True(t, st.HasGreeted)
	assert.Equal(t, intent.Greeting, st.LastIntent)

	h := conv.History()
	require.Len(t, h, 2)
	assert.Equal(t, chat.Turn{Role: chat.RoleUser, Text: "hi"}, h[0])
	assert.Equal(t, chat.RoleAssistant, h[1].Role)
	assert.Equal(t, reply.Text, h[1].Text)
}

func TestSendMessage_RemoteFailureFallsBack(t *testing.T) {
	core, logs := observer.New(zapcore.InfoLevel)
	sender := &fakeSender{err: &webhook.Error{Type: webhook.ErrTimeout, Op: "chat", Err: context.DeadlineExceeded}}
	svc := NewService(NewRemote(sender, nil), &fakeSink{}, nil, zap.New(core), nil)
	conv := svc.StartConversation()

	reply, err := svc.SendMessage(context.Background(), conv, "hello?")
	require.NoError(t, err)

	assert.Equal(t, chat.Apology(), reply)
	assert.Equal(t, "mailto:"+chat.ContactEmail, reply.CTA.URL)
	assert.Equal(t, 1, conv.State().TurnCount)

	entries := logs.FilterMessage("dispatch: reply failed, sending fallback").All()
	require.Len(t, entries, 1)
	assert.Equal(t, "timeout", entries[0].ContextMap()["error_type"])
}

func TestSendMessage_RemoteSuccess(t *testing.T) {
	sender := &fakeSender{reply: chat.Reply{Text: "From upstream", QuickReplies: []string{"A"}}}
	svc := NewService(NewRemote(sender, nil), &fakeSink{}, nil, nil, nil)
	conv := svc.StartConversation()

	reply, err := svc.SendMessage(context.Background(), conv, "hi")
	require.NoError(t, err)
	assert.Equal(t, "From upstream", reply.Text)
	assert.Equal(t, 1, conv.State().TurnCount)
	assert.Equal(t, "remote", svc.StrategyName())
}

func TestSendMessage_RejectsConcurrentSend(t *testing.T) {
	sender := &fakeSender{
		reply:   chat.Reply{Text: "slow"},
		block:   make(chan struct{}),
		entered: make(chan struct{}, 1),
	}
	svc := NewService(NewRemote(sender, nil), &fakeSink{}, nil, nil, nil)
	conv := svc.StartConversation()

	done := make(chan error, 1)
	go func() {
		_, err := svc.SendMessage(context.Background(), conv, "first")
		done <- err
	}()
	<-sender.entered

	_, err := svc.SendMessage(context.Background(), conv, "second")
	assert.ErrorIs(t, err, ErrBusy)

	close(sender.block)
	require.NoError(t, <-done)
	assert.Equal(t, 1, conv.State().TurnCount)
}

func TestSendMessage_RateLimited(t *testing.T) {
	svc := NewService(NewLocal(nil), &fakeSink{}, session.NewManager(1), nil, nil)
	conv := svc.StartConversation()

	_, err := svc.SendMessage(context.Background(), conv, "hi")
	require.NoError(t, err)
	_, err = svc.SendMessage(context.Background(), conv, "hi again")
	assert.ErrorIs(t, err, ErrRateLimited)
	assert.Equal(t, 1, conv.State().TurnCount)
}

func TestSubmitEmail_InvalidRejectedBeforeSink(t *testing.T) {
	sink := &fakeSink{ok: true}
	svc := newLocalService(sink)
	conv := svc.StartConversation()

	ok, err := svc.SubmitEmail(context.Background(), conv, "not-an-email")
	assert.ErrorIs(t, err, ErrInvalidEmail)
	assert.False(t, ok)
	assert.Empty(t, sink.calls)
	assert.False(t, conv.State().EmailCollected)
}

func TestSubmitEmail_MarksCollected(t *testing.T) {
	sink := &fakeSink{ok: true}
	svc := newLocalService(sink)
	conv := svc.StartConversation()

	ok, err := svc.SubmitEmail(context.Background(), conv, "  ana@example.com ")
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, []string{"ana@example.com"}, sink.calls)
	assert.True(t, conv.State().EmailCollected)

	// No automatic nudge once the address is known.
	for range 3 {
		reply, err := svc.SendMessage(context.Background(), conv, "team")
		require.NoError(t, err)
		assert.False(t, reply.CollectEmail)
	}
}

func TestSubmitEmail_SinkFailure(t *testing.T) {
	for name, sink := range map[string]*fakeSink{
		"refused": {ok: false},
		"errored": {err: errors.New("boom")},
	} {
		t.Run(name, func(t *testing.T) {
			svc := newLocalService(sink)
			conv := svc.StartConversation()

			ok, err := svc.SubmitEmail(context.Background(), conv, "a@b.co")
			require.NoError(t, err)
			assert.False(t, ok)
			assert.False(t, conv.State().EmailCollected)
		})
	}
}

func TestResetConversation(t *testing.T) {
	svc := newLocalService(&fakeSink{ok: true})
	conv := svc.StartConversation()
	_, err := svc.SendMessage(context.Background(), conv, "hi")
	require.NoError(t, err)

	fresh := svc.ResetConversation(conv)

	assert.NotEqual(t, conv.ID(), fresh.ID())
	assert.Equal(t, engine.State{}, fresh.State())
	_, err = svc.Conversation(conv.ID())
	assert.ErrorIs(t, err, session.ErrNotFound)
}

func TestOpenConversation(t *testing.T) {
	svc := newLocalService(&fakeSink{})
	conv := svc.StartConversation()

	assert.Same(t, conv, svc.OpenConversation(conv.ID()))
	assert.NotSame(t, conv, svc.OpenConversation("os-gone"))
}

func TestCleanup(t *testing.T) {
	svc := newLocalService(&fakeSink{})
	svc.StartConversation()
	assert.Equal(t, 0, svc.Cleanup(time.Hour))
	time.Sleep(5 * time.Millisecond)
	assert.Equal(t, 1, svc.Cleanup(time.Millisecond))
}

func TestJournalSink_SavesLead(t *testing.T) {
	leads, err := store.NewBoltStore(filepath.Join(t.TempDir(), "leads.db"))
	require.NoError(t, err)
	defer leads.Close()

	sink := NewJournalSink(leads, "chatbot", nil)
	ok, err := sink.Submit(context.Background(), "a@b.co", "os-1")
	require.NoError(t, err)
	assert.True(t, ok)

	saved, err := leads.ListLeads()
	require.NoError(t, err)
	require.Len(t, saved, 1)
	assert.Equal(t, "a@b.co", saved[0].Email)
	assert.Equal(t, "chatbot", saved[0].Source)
	assert.Equal(t, "os-1", saved[0].SessionID)
}

func TestJournalSink_LogOnly(t *testing.T) {
	core, logs := observer.New(zapcore.InfoLevel)
	sink := NewJournalSink(nil, "chatbot", zap.New(core))

	ok, err := sink.Submit(context.Background(), "a@b.co", "os-1")
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, 1, logs.FilterMessage("dispatch: lead captured").Len())
}

func TestNew_LocalInitializesIntentSeries(t *testing.T) {
	reg := prometheus.NewRegistry()
	New(&config.Config{WebhookTimeout: time.Second}, Options{Metrics: metrics.New(reg)})

	n, err := testutil.GatherAndCount(reg, "birdie_chat_messages_total")
	require.NoError(t, err)
	assert.Equal(t, len(intent.DefaultTable)+1, n)
}

func TestNew_ChoosesStrategyFromConfig(t *testing.T) {
	var emailHits atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/chat":
			w.Write([]byte(`{"output":"remote says hi"}`))
		case "/email":
			emailHits.Add(1)
			w.Write([]byte(`{"success":true}`))
		}
	}))
	defer srv.Close()

	local := New(&config.Config{WebhookTimeout: time.Second, EmailSource: "chatbot"}, Options{})
	assert.Equal(t, "local", local.StrategyName())

	remote := New(&config.Config{
		ChatWebhookURL:  srv.URL + "/chat",
		EmailWebhookURL: srv.URL + "/email",
		WebhookTimeout:  time.Second,
		EmailSource:     "chatbot",
	}, Options{Coin: webhook.NewSeededCoin(1)})
	assert.Equal(t, "remote", remote.StrategyName())

	conv := remote.StartConversation()
	reply, err := remote.SendMessage(context.Background(), conv, "hi")
	require.NoError(t, err)
	assert.Equal(t, "remote says hi", reply.Text)

	ok, err := remote.SubmitEmail(context.Background(), conv, "a@b.co")
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, int32(1), emailHits.Load())
}
