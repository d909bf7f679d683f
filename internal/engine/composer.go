// Package engine composes scripted replies from classified intents and
// conversation state.
package engine

import (
	"github.com/oddshoes/birdie/internal/brand"
	"github.com/oddshoes/birdie/internal/chat"
	"github.com/oddshoes/birdie/internal/intent"
)

// nudgeEvery is the turn interval of the automatic lead-capture prompt.
const nudgeEvery = 3

const nudgeText = "\n\n---\n💡 *Want us to follow up? Drop your email and we'll reach out personally.*"

// Composer turns an intent into a Reply. It holds only read-only data.
type Composer struct {
	kb *brand.Knowledge
}

func NewComposer(kb *brand.Knowledge) *Composer {
	if kb == nil {
		kb = brand.Default()
	}
	return &Composer{kb: kb}
}

// Respond composes the reply for label and returns it with the advanced state.
// The input state is not modified.
func (c *Composer) Respond(label intent.Label, s State) (chat.Reply, State) {
	s.TurnCount++
	s.LastIntent = label

	var reply chat.Reply
	if fn, ok := templates[label]; ok {
		reply = fn(c.kb)
	} else {
		// Unknown: never leave the visitor at a dead end.
		if s.TurnCount <= 1 {
			reply = welcome(c.kb)
		} else {
			reply = escalate(c.kb)
		}
	}

	switch label {
	case intent.Greeting:
		s.HasGreeted = true
	case intent.Help:
		s.HasAskedAboutServices = true
	case intent.Contact, intent.GetStarted:
		if !s.EmailCollected {
			reply.CollectEmail = true
		}
	}

	if s.TurnCount >= nudgeEvery && s.TurnCount%nudgeEvery == 0 && !s.EmailCollected && !reply.CollectEmail {
		reply.Text += nudgeText
		reply.CollectEmail = true
	}

	if reply.QuickReplies == nil {
		reply.QuickReplies = []string{}
	}
	return reply, s
}

// Engine runs the full local pipeline: classify, then compose.
type Engine struct {
	classifier *intent.Classifier
	composer   *Composer
}

func New(classifier *intent.Classifier, composer *Composer) *Engine {
	if classifier == nil {
		classifier = intent.NewClassifier(nil)
	}
	if composer == nil {
		composer = NewComposer(nil)
	}
	return &Engine{classifier: classifier, composer: composer}
}

// Reply classifies message and composes the answer for state s.
func (e *Engine) Reply(message string, s State) (chat.Reply, State) {
	return e.composer.Respond(e.classifier.Classify(message), s)
}

func (e *Engine) Classify(message string) intent.Label {
	return e.classifier.Classify(message)
}

func (e *Engine) Respond(label intent.Label, s State) (chat.Reply, State) {
	return e.composer.Respond(label, s)
}
