// Package intent maps free-text visitor messages to a fixed set of topics.
package intent

import "strings"

// Label names one topic the assistant knows how to answer.
type Label string

const (
	Greeting   Label = "greeting"
	Farewell   Label = "farewell"
	Pricing    Label = "pricing"
	Genesis    Label = "genesis"
	Kingdom    Label = "kingdom"
	AI         Label = "ai"
	Billy      Label = "billy"
	TechStack  Label = "techstack"
	Team       Label = "team"
	About      Label = "about"
	Values     Label = "values"
	GiveHim50  Label = "givehim50"
	Portfolio  Label = "portfolio"
	Contact    Label = "contact"
	Location   Label = "location"
	Timeline   Label = "timeline"
	GetStarted Label = "getstarted"
	DontDo     Label = "dontdo"
	Process    Label = "process"
	Mobile     Label = "mobile"
	Scripture  Label = "scripture"
	Help       Label = "help"

	// Unknown is returned when no pattern matches.
	Unknown Label = "unknown"
)

// Entry pairs a label with the substrings that select it.
type Entry struct {
	Label    Label
	Patterns []string
}

// DefaultTable is the production intent table. Order is match priority:
// the first entry with any pattern contained in the message wins.
var DefaultTable = []Entry{
	{Greeting, []string{"hi", "hello", "hey", "sup", "yo", "good morning", "good afternoon", "good evening", "howdy", "greetings", "whats up", "what's up"}},
	{Farewell, []string{"bye", "goodbye", "see you", "later", "thanks bye", "ciao", "peace"}},
	{Pricing, []string{"price", "cost", "how much", "pricing", "budget", "afford", "expensive", "cheap", "fee", "rate", "charge", "payment", "pay"}},
	{Genesis, []string{"genesis", "mvp", "5 day", "5-day", "five day", "quick build", "fast build", "rapid", "quick start", "pre-revenue", "single feature"}},
	{Kingdom, []string{"kingdom builder", "kingdom build", "complete", "full product", "14 day", "fourteen day", "scale", "full stack", "fractional cto", "cto support", "ongoing support", "post-revenue"}},
	{AI, []string{"ai", "artificial intelligence", "automation", "openclaw", "chatbot", "agent", "llm", "machine learning", "custom skill", "workflow"}},
	{Billy, []string{"billy", "pods", "intern", "interns"}},
	{TechStack, []string{"tech stack", "technology", "django", "react", "laravel", "fastapi", "postgresql", "what do you use", "stack", "tools", "framework"}},
	{Team, []string{"team", "who are you", "developers", "engineers", "people", "members", "obed", "edwin", "daniel", "ian", "jonathan"}},
	{About, []string{"about", "who is odd shoes", "what is odd shoes", "tell me about", "company", "story", "history", "background", "mission", "vision"}},
	{Values, []string{"values", "faith", "christian", "believe", "principles", "what drives", "culture"}},
	{GiveHim50, []string{"give him 50", "50%", "fifty percent", "profits", "donate", "kingdom work", "generosity", "missionaries", "church plant", "tithe"}},
	{Portfolio, []string{"portfolio", "projects", "work", "case study", "clients", "examples", "built", "shipped", "instantugc", "glo sacco", "nextgenhims", "light beam"}},
	{Contact, []string{"contact", "email", "phone", "reach", "call", "book", "schedule", "talk", "meeting", "appointment"}},
	{Location, []string{"where", "location", "based", "office", "kampala", "uganda", "africa"}},
	{Timeline, []string{"how long", "timeline", "duration", "delivery", "turnaround", "when", "deadline", "time frame", "how fast"}},
	{GetStarted, []string{"get started", "start", "begin", "sign up", "work with", "hire", "engage", "ready", "lets go", "let's go", "interested", "want to build", "need an app", "need a website", "build my", "create my"}},
	{DontDo, []string{"don't do", "dont do", "decline", "reject", "not accept", "restrictions", "limitations", "gambling", "equity"}},
	{Process, []string{"process", "how it works", "how do you work", "workflow", "steps", "methodology", "approach"}},
	{Mobile, []string{"mobile", "app", "ios", "android", "react native", "phone"}},
	{Scripture, []string{"bible", "verse", "scripture", "colossians", "ephesians", "word of god"}},
	{Help, []string{"help", "what can you do", "options", "menu", "services", "offerings", "what do you offer"}},
}

// Classifier performs first-match substring classification over an ordered table.
type Classifier struct {
	table []Entry
}

// NewClassifier returns a classifier over table, or DefaultTable when table is nil.
func NewClassifier(table []Entry) *Classifier {
	if table == nil {
		table = DefaultTable
	}
	return &Classifier{table: table}
}

// Classify returns the first label whose pattern occurs in the lower-cased,
// trimmed message. Blank input is always Unknown.
func (c *Classifier) Classify(message string) Label {
	lower := strings.ToLower(strings.TrimSpace(message))
	if lower == "" {
		return Unknown
	}
	for _, e := range c.table {
		for _, p := range e.Patterns {
			if strings.Contains(lower, p) {
				return e.Label
			}
		}
	}
	return Unknown
}

// Labels lists the table's labels in priority order.
func (c *Classifier) Labels() []Label {
	out := make([]Label, len(c.table))
	for i, e := range c.table {
		out[i] = e.Label
	}
	return out
}
