package webhook

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/oddshoes/birdie/internal/chat"
)

func newTestClient(t *testing.T, handler http.HandlerFunc) *Client {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)
	return NewClient(Options{
		ChatURL:  srv.URL + "/chat",
		EmailURL: srv.URL + "/email",
		Timeout:  2 * time.Second,
		Parser:   NewParser(fixedCoin(0)),
	})
}

func TestSendChat_SendsChatInputAndSessionID(t *testing.T) {
	var got ChatRequest
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "application/json", r.Header.Get("Content-Type"))
		assert.NoError(t, json.NewDecoder(r.Body).Decode(&got))
		w.Write([]byte(`{"output":"Hello\n---SUGGESTIONS---\n[\"A\",\"B\"]\n---END---"}`))
	})

	reply, err := c.SendChat(context.Background(), "hi there", "os-123")
	require.NoError(t, err)

	assert.Equal(t, ChatRequest{ChatInput: "hi there", SessionID: "os-123"}, got)
	assert.Equal(t, "Hello", reply.Text)
	assert.Equal(t, []string{"A", "B"}, reply.QuickReplies)
}

func TestSendChat_PreShapedReply(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"text":"Shaped","quickReplies":["X"],"collectEmail":true,"cta":{"label":"Go","url":"https://x.example"}}`))
	})

	reply, err := c.SendChat(context.Background(), "hi", "s")
	require.NoError(t, err)

	assert.Equal(t, "Shaped", reply.Text)
	assert.Equal(t, []string{"X"}, reply.QuickReplies)
	assert.True(t, reply.CollectEmail)
	require.NotNil(t, reply.CTA)
	assert.Equal(t, "Go", reply.CTA.Label)
}

func TestSendChat_PreShapedDefaultsMissingFields(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"text":"Only text","quickReplies":[]}`))
	})

	reply, err := c.SendChat(context.Background(), "hi", "s")
	require.NoError(t, err)

	assert.Equal(t, chat.DefaultQuickReplies(), reply.QuickReplies)
	assert.False(t, reply.CollectEmail)
	assert.Nil(t, reply.CTA)
}

func TestSendChat_PlainTextField(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"text":"Plain answer"}`))
	})

	reply, err := c.SendChat(context.Background(), "hi", "s")
	require.NoError(t, err)
	assert.Equal(t, "Plain answer", reply.Text)
	assert.Equal(t, chat.DefaultQuickReplies(), reply.QuickReplies)
}

func TestSendChat_UnwrapsArray(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`[{"output":"From array"}]`))
	})

	reply, err := c.SendChat(context.Background(), "hi", "s")
	require.NoError(t, err)
	assert.Equal(t, "From array", reply.Text)
}

func TestSendChat_StatusError(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "boom", http.StatusBadGateway)
	})

	_, err := c.SendChat(context.Background(), "hi", "s")
	require.Error(t, err)

	we := ClassifyError(err)
	assert.Equal(t, ErrStatus, we.Type)
	assert.Equal(t, http.StatusBadGateway, we.StatusCode)
	assert.True(t, we.Retryable)
	assert.Equal(t, "chat", we.Op)
}

func TestSendChat_DecodeErrors(t *testing.T) {
	for name, body := range map[string]string{
		"not json":    `<html>oops</html>`,
		"empty array": `[]`,
	} {
		t.Run(name, func(t *testing.T) {
			c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
				w.Write([]byte(body))
			})
			_, err := c.SendChat(context.Background(), "hi", "s")
			require.Error(t, err)
			assert.Equal(t, ErrDecode, ClassifyError(err).Type)
		})
	}
}

func TestSendChat_UnknownShapeParsedAsText(t *testing.T) {
	for name, body := range map[string]string{
		"other field": `{"response":"Hello from the workflow"}`,
		"empty":       `{}`,
		"no text":     `{"quickReplies":["X"]}`,
	} {
		t.Run(name, func(t *testing.T) {
			c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
				w.Write([]byte(body))
			})
			reply, err := c.SendChat(context.Background(), "hi", "s")
			require.NoError(t, err)
			assert.Equal(t, body, reply.Text)
			assert.Equal(t, chat.DefaultQuickReplies(), reply.QuickReplies)
		})
	}
}

func TestSendChat_Timeout(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		<-r.Context().Done()
	}))
	defer srv.Close()

	c := NewClient(Options{ChatURL: srv.URL, Timeout: 50 * time.Millisecond})
	_, err := c.SendChat(context.Background(), "hi", "s")
	require.Error(t, err)
	assert.Equal(t, ErrTimeout, ClassifyError(err).Type)
}

func TestSendChat_TransportError(t *testing.T) {
	srv := httptest.NewServer(http.NotFoundHandler())
	url := srv.URL
	srv.Close()

	c := NewClient(Options{ChatURL: url})
	_, err := c.SendChat(context.Background(), "hi", "s")
	require.Error(t, err)
	assert.Equal(t, ErrTransport, ClassifyError(err).Type)
}

func TestSubmitEmail(t *testing.T) {
	tests := []struct {
		name string
		body string
		want bool
	}{
		{"explicit success", `{"success":true}`, true},
		{"explicit failure", `{"success":false}`, false},
		{"no success field", `{"ok":1}`, true},
		{"non json body", `Workflow was started`, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var got EmailRequest
			c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
				assert.NoError(t, json.NewDecoder(r.Body).Decode(&got))
				w.Write([]byte(tt.body))
			})
			ok, err := c.SubmitEmail(context.Background(), "a@b.co", "chatbot")
			require.NoError(t, err)
			assert.Equal(t, tt.want, ok)
			assert.Equal(t, EmailRequest{Email: "a@b.co", Source: "chatbot"}, got)
		})
	}
}

func TestSubmitEmail_StatusError(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	})
	ok, err := c.SubmitEmail(context.Background(), "a@b.co", "chatbot")
	assert.False(t, ok)
	assert.Equal(t, ErrStatus, ClassifyError(err).Type)
}

func TestUnconfiguredURLs(t *testing.T) {
	c := NewClient(Options{})
	_, err := c.SendChat(context.Background(), "hi", "s")
	assert.Error(t, err)
	_, err = c.SubmitEmail(context.Background(), "a@b.co", "x")
	assert.Error(t, err)
}

func TestForward_Verbatim(t *testing.T) {
	var gotBody []byte
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotBody, _ = io.ReadAll(r.Body)
		w.Write([]byte(`{"output":"upstream"}`))
	}))
	defer srv.Close()

	c := NewClient(Options{})
	resp, err := c.Forward(context.Background(), srv.URL, []byte(`{"chatInput":"hi","sessionId":"x"}`))
	require.NoError(t, err)
	assert.JSONEq(t, `{"chatInput":"hi","sessionId":"x"}`, string(gotBody))
	assert.JSONEq(t, `{"output":"upstream"}`, string(resp))
}

func TestForward_NonJSONIsDecodeError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("nope"))
	}))
	defer srv.Close()

	_, err := NewClient(Options{}).Forward(context.Background(), srv.URL, []byte(`{}`))
	assert.Equal(t, ErrDecode, ClassifyError(err).Type)
}

func TestClassifyError(t *testing.T) {
	assert.Nil(t, ClassifyError(nil))
	assert.Equal(t, ErrTimeout, ClassifyError(context.DeadlineExceeded).Type)
	assert.Equal(t, ErrTransport, ClassifyError(errors.New("connection reset")).Type)
	assert.False(t, ClassifyError(context.Canceled).Retryable)
}
