package chat

import "encoding/json"

// Reply is the structured answer rendered by the widget.
// Text uses a light markup: ## headings, **bold**, *italic*, --- rules and • bullets.
type Reply struct {
	Text         string   `json:"text"`
	QuickReplies []string `json:"quickReplies"`
	CollectEmail bool     `json:"collectEmail"`
	CTA          *CTA     `json:"cta"`
}

// CTA is a single labeled link shown under a reply.
type CTA struct {
	Label string `json:"text"`
	URL   string `json:"url"`
}

// UnmarshalJSON accepts both "text" and "label" for the link caption.
func (c *CTA) UnmarshalJSON(data []byte) error {
	var raw struct {
		Text  string `json:"text"`
		Label string `json:"label"`
		URL   string `json:"url"`
	}
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	c.Label = raw.Text
	if c.Label == "" {
		c.Label = raw.Label
	}
	c.URL = raw.URL
	return nil
}

const (
	ContactEmail = "buildit@oddshoes.dev"
	SiteURL      = "https://oddshoes.dev"
)

// DefaultQuickReplies is offered whenever a reply carries no suggestions of its own.
func DefaultQuickReplies() []string {
	return []string{"Tell me about your services", "How much does it cost?", "I want to build something"}
}

// EmailCTA links straight to the studio inbox.
func EmailCTA() *CTA {
	return &CTA{Label: "Email " + ContactEmail, URL: "mailto:" + ContactEmail}
}

// Apology is returned whenever the remote assistant cannot be reached.
func Apology() Reply {
	return Reply{
		Text:         "Sorry, I'm having trouble connecting right now. 😔\n\nPlease try again in a moment, or email us directly at **" + ContactEmail + "** and the team will get back to you.",
		QuickReplies: DefaultQuickReplies(),
		CTA:          EmailCTA(),
	}
}

// Role of a recorded turn.
type Role string

const (
	RoleUser      Role = "user"
	RoleAssistant Role = "assistant"
)

// Turn is one recorded message of a conversation.
type Turn struct {
	Role Role   `json:"role"`
	Text string `json:"text"`
}
