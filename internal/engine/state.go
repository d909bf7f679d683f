package engine

import "github.com/oddshoes/birdie/internal/intent"

// State is the per-conversation memory the composer reads and advances.
// Flags are sticky: once true they stay true until the conversation is reset.
type State struct {
	TurnCount             int          `json:"turnCount"`
	HasGreeted            bool         `json:"hasGreeted"`
	HasAskedAboutServices bool         `json:"hasAskedAboutServices"`
	EmailCollected        bool         `json:"emailCollected"`
	LastIntent            intent.Label `json:"lastIntent,omitempty"`
}

// MarkEmailCollected records that the visitor handed over an email address.
func MarkEmailCollected(s State) State {
	s.EmailCollected = true
	return s
}
