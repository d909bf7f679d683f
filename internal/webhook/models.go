package webhook

import "github.com/oddshoes/birdie/internal/chat"

// --- Outgoing chat request ---
// n8n chat trigger: the message goes in "chatInput", "sessionId" keys the
// workflow's conversation memory.

type ChatRequest struct {
	ChatInput string `json:"chatInput"`
	SessionID string `json:"sessionId"`
}

// --- Incoming chat response ---
// Either {"output": "<raw text>"} or a pre-shaped reply object.

type chatResponse struct {
	Output       string    `json:"output"`
	Text         string    `json:"text"`
	QuickReplies []string  `json:"quickReplies"`
	CollectEmail *bool     `json:"collectEmail"`
	CTA          *chat.CTA `json:"cta"`
}

func (r *chatResponse) preShaped() bool {
	return r.QuickReplies != nil || r.CollectEmail != nil || r.CTA != nil
}

// --- Email capture ---

type EmailRequest struct {
	Email  string `json:"email"`
	Source string `json:"source"`
}

type emailResponse struct {
	Success *bool `json:"success"`
}
