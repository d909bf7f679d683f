// Package webhook talks to the remote workflow-automation endpoints that can
// stand in for the local reply engine.
package webhook

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/oddshoes/birdie/internal/chat"
)

const (
	defaultTimeout = 15 * time.Second
	maxBodyBytes   = 1 << 20
)

type Client struct {
	chatURL  string
	emailURL string
	parser   *Parser
	http     *http.Client
}

// Options configures a Client. Empty URLs disable the matching call.
type Options struct {
	ChatURL  string
	EmailURL string
	Timeout  time.Duration
	Parser   *Parser
}

func NewClient(opts Options) *Client {
	if opts.Timeout <= 0 {
		opts.Timeout = defaultTimeout
	}
	if opts.Parser == nil {
		opts.Parser = NewParser(nil)
	}
	return &Client{
		chatURL:  opts.ChatURL,
		emailURL: opts.EmailURL,
		parser:   opts.Parser,
		http:     &http.Client{Timeout: opts.Timeout},
	}
}

// SendChat posts one visitor message and converts the answer into a Reply.
func (c *Client) SendChat(ctx context.Context, text, sessionID string) (chat.Reply, error) {
	if c.chatURL == "" {
		return chat.Reply{}, errors.New("webhook: chat URL not configured")
	}
	body, err := c.postJSON(ctx, "chat", c.chatURL, ChatRequest{ChatInput: text, SessionID: sessionID})
	if err != nil {
		return chat.Reply{}, err
	}
	return c.decodeChat(body)
}

// SubmitEmail posts a captured address. Any 2xx answer counts as success
// unless its body says "success": false.
func (c *Client) SubmitEmail(ctx context.Context, email, source string) (bool, error) {
	if c.emailURL == "" {
		return false, errors.New("webhook: email URL not configured")
	}
	body, err := c.postJSON(ctx, "email", c.emailURL, EmailRequest{Email: email, Source: source})
	if err != nil {
		return false, err
	}
	var resp emailResponse
	if json.Unmarshal(body, &resp) == nil && resp.Success != nil {
		return *resp.Success, nil
	}
	return true, nil
}

// Forward posts body verbatim to url and returns the response body, which
// must be JSON.
func (c *Client) Forward(ctx context.Context, url string, body []byte) ([]byte, error) {
	resp, err := c.post(ctx, "forward", url, body)
	if err != nil {
		return nil, err
	}
	if !json.Valid(resp) {
		return nil, decodeError("forward", errors.New("response is not JSON"))
	}
	return resp, nil
}

func (c *Client) decodeChat(body []byte) (chat.Reply, error) {
	body = bytes.TrimSpace(body)
	if len(body) > 0 && body[0] == '[' {
		var items []json.RawMessage
		if err := json.Unmarshal(body, &items); err != nil {
			return chat.Reply{}, decodeError("chat", err)
		}
		if len(items) == 0 {
			return chat.Reply{}, decodeError("chat", errors.New("empty response array"))
		}
		body = items[0]
	}

	var resp chatResponse
	if err := json.Unmarshal(body, &resp); err != nil {
		return chat.Reply{}, decodeError("chat", err)
	}

	switch {
	case resp.Output != "":
		return c.parser.Parse(resp.Output), nil
	case resp.preShaped() && resp.Text != "":
		reply := chat.Reply{
			Text:         resp.Text,
			QuickReplies: resp.QuickReplies,
			CTA:          resp.CTA,
		}
		if len(reply.QuickReplies) == 0 {
			reply.QuickReplies = chat.DefaultQuickReplies()
		}
		if resp.CollectEmail != nil {
			reply.CollectEmail = *resp.CollectEmail
		}
		if reply.CTA != nil && reply.CTA.URL == "" {
			reply.CTA = nil
		}
		return reply, nil
	case resp.Text != "":
		return c.parser.Parse(resp.Text), nil
	default:
		// Unrecognized shape: show the body itself rather than an apology.
		return c.parser.Parse(string(body)), nil
	}
}

func (c *Client) postJSON(ctx context.Context, op, url string, payload any) ([]byte, error) {
	data, err := json.Marshal(payload)
	if err != nil {
		return nil, fmt.Errorf("marshaling %s request: %w", op, err)
	}
	return c.post(ctx, op, url, data)
}

func (c *Client) post(ctx context.Context, op, url string, payload []byte) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(payload))
	if err != nil {
		return nil, fmt.Errorf("building %s request: %w", op, err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		we := ClassifyError(err)
		we.Op = op
		return nil, we
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxBodyBytes))
	if err != nil {
		we := ClassifyError(err)
		we.Op = op
		return nil, we
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, statusError(op, resp.StatusCode, body)
	}
	return body, nil
}
