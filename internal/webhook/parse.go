package webhook

import (
	"encoding/json"
	"math/rand/v2"
	"regexp"
	"strings"
	"sync"

	"github.com/oddshoes/birdie/internal/chat"
)

// The remote assistant appends its suggestions as
//
//	---SUGGESTIONS---
//	["...", "..."]
//	---END---
var (
	suggestionsBlock = regexp.MustCompile(`---SUGGESTIONS---\s*([\s\S]*?)\s*---END---`)
	quotedString     = regexp.MustCompile(`"([^"]+)"`)

	collectEmailHint = regexp.MustCompile(`(?i)get started|project planner|reach out|follow up|contact|email us`)

	plannerHint = regexp.MustCompile(`(?i)project planner|get started|launch`)
	workHint    = regexp.MustCompile(`(?i)portfolio|our work|projects`)
	emailHint   = regexp.MustCompile(`(?i)email|contact|reach`)
)

// Coin is the randomness source behind the email-prompt gate.
type Coin interface {
	Float64() float64
}

type globalCoin struct{}

func (globalCoin) Float64() float64 { return rand.Float64() }

// SeededCoin is a reproducible Coin safe for concurrent use.
type SeededCoin struct {
	mu  sync.Mutex
	rnd *rand.Rand
}

func NewSeededCoin(seed uint64) *SeededCoin {
	return &SeededCoin{rnd: rand.New(rand.NewPCG(seed, seed^0x9e3779b97f4a7c15))}
}

func (c *SeededCoin) Float64() float64 {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.rnd.Float64()
}

// Parser turns raw assistant output into a Reply.
type Parser struct {
	coin Coin
}

// NewParser returns a parser gated by coin, or by the process-wide source when nil.
func NewParser(coin Coin) *Parser {
	if coin == nil {
		coin = globalCoin{}
	}
	return &Parser{coin: coin}
}

// Parse extracts the suggestions block from raw and infers the email prompt
// and call-to-action from the remaining text.
func (p *Parser) Parse(raw string) chat.Reply {
	text := strings.TrimSpace(suggestionsBlock.ReplaceAllString(raw, ""))

	var quick []string
	if m := suggestionsBlock.FindStringSubmatch(raw); m != nil {
		quick = parseSuggestions(strings.TrimSpace(m[1]))
	}
	if len(quick) == 0 {
		quick = chat.DefaultQuickReplies()
	}

	return chat.Reply{
		Text:         text,
		QuickReplies: quick,
		// Only half of the hinted replies ask for an email, to avoid nagging.
		CollectEmail: collectEmailHint.MatchString(text) && p.coin.Float64() > 0.5,
		CTA:          inferCTA(text),
	}
}

// parseSuggestions reads the block as a JSON string array, falling back to
// the quoted substrings when it is not one. Blank entries are dropped.
func parseSuggestions(block string) []string {
	var decoded []string
	if err := json.Unmarshal([]byte(block), &decoded); err == nil {
		return nonBlank(decoded)
	}
	var quoted []string
	for _, m := range quotedString.FindAllStringSubmatch(block, -1) {
		quoted = append(quoted, m[1])
	}
	return nonBlank(quoted)
}

func nonBlank(items []string) []string {
	var out []string
	for _, item := range items {
		if item = strings.TrimSpace(item); item != "" {
			out = append(out, item)
		}
	}
	return out
}

func inferCTA(text string) *chat.CTA {
	switch {
	case plannerHint.MatchString(text):
		return &chat.CTA{Label: "Launch Project Planner →", URL: chat.SiteURL}
	case workHint.MatchString(text):
		return &chat.CTA{Label: "View Our Work →", URL: chat.SiteURL}
	case emailHint.MatchString(text):
		return chat.EmailCTA()
	default:
		return nil
	}
}
