// Package console runs a chat conversation in the terminal.
package console

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/oddshoes/birdie/internal/chat"
	"github.com/oddshoes/birdie/internal/dispatch"
	"github.com/oddshoes/birdie/internal/session"
)

const helpText = `Type a message and press enter.
  1-9            pick a suggested reply
  /email ADDR    leave your email address
  /reset         start over
  /quit          leave`

type REPL struct {
	svc    *dispatch.Service
	out    io.Writer
	render Renderer

	conv        *session.Conversation
	suggestions []string
}

func NewREPL(svc *dispatch.Service, out io.Writer, render Renderer) *REPL {
	if render == nil {
		render = Plain{}
	}
	return &REPL{svc: svc, out: out, render: render}
}

// Run reads lines from in until EOF, /quit or ctx is done. A cancelled ctx
// ends Run even while a read is blocked.
func (r *REPL) Run(ctx context.Context, in io.Reader) error {
	r.conv = r.svc.StartConversation()
	fmt.Fprintln(r.out, helpText)

	lines, readErr := readLines(ctx, in)
	for {
		fmt.Fprint(r.out, "\n> ")
		var raw string
		select {
		case <-ctx.Done():
			fmt.Fprintln(r.out)
			return ctx.Err()
		case l, ok := <-lines:
			if !ok {
				fmt.Fprintln(r.out)
				return <-readErr
			}
			raw = l
		}

		line := strings.TrimSpace(raw)
		switch {
		case line == "/quit" || line == "/exit":
			return nil
		case line == "/help":
			fmt.Fprintln(r.out, helpText)
		case line == "/reset":
			r.conv = r.svc.ResetConversation(r.conv)
			r.suggestions = nil
			fmt.Fprintln(r.out, "Conversation reset.")
		case strings.HasPrefix(line, "/email"):
			r.submitEmail(ctx, strings.TrimSpace(strings.TrimPrefix(line, "/email")))
		default:
			r.send(ctx, r.pick(line))
		}
	}
}

// readLines scans in on its own goroutine. The error channel receives the
// scan result before lines is closed.
func readLines(ctx context.Context, in io.Reader) (<-chan string, <-chan error) {
	lines := make(chan string)
	errc := make(chan error, 1)
	go func() {
		defer close(lines)
		scanner := bufio.NewScanner(in)
		for scanner.Scan() {
			select {
			case lines <- scanner.Text():
			case <-ctx.Done():
				errc <- ctx.Err()
				return
			}
		}
		errc <- scanner.Err()
	}()
	return lines, errc
}

// pick maps a suggestion number to its text.
func (r *REPL) pick(line string) string {
	n, err := strconv.Atoi(line)
	if err != nil || n < 1 || n > len(r.suggestions) {
		return line
	}
	return r.suggestions[n-1]
}

func (r *REPL) send(ctx context.Context, text string) {
	reply, err := r.svc.SendMessage(ctx, r.conv, text)
	switch {
	case errors.Is(err, dispatch.ErrRateLimited):
		fmt.Fprintln(r.out, "Slow down a little, then try again.")
		return
	case err != nil:
		fmt.Fprintf(r.out, "error: %v\n", err)
		return
	}
	r.show(reply)
}

func (r *REPL) submitEmail(ctx context.Context, email string) {
	ok, err := r.svc.SubmitEmail(ctx, r.conv, email)
	switch {
	case errors.Is(err, dispatch.ErrInvalidEmail):
		fmt.Fprintln(r.out, "That does not look like an email address.")
	case err != nil || !ok:
		fmt.Fprintf(r.out, "Could not save your email. Write to %s instead.\n", chat.ContactEmail)
	default:
		fmt.Fprintln(r.out, "Thanks! We'll be in touch soon. 🙌")
	}
}

func (r *REPL) show(reply chat.Reply) {
	fmt.Fprintln(r.out)
	fmt.Fprintln(r.out, r.render.Render(reply.Text))

	if reply.CTA != nil {
		fmt.Fprintf(r.out, "\n[%s] %s\n", reply.CTA.Label, reply.CTA.URL)
	}
	if reply.CollectEmail {
		fmt.Fprintln(r.out, "\n(leave your email with /email you@example.com)")
	}

	r.suggestions = reply.QuickReplies
	for i, s := range r.suggestions {
		fmt.Fprintf(r.out, "  %d. %s\n", i+1, s)
	}
}
