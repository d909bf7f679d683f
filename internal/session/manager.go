package session

import (
	"errors"
	"sync"
	"time"

	"github.com/google/uuid"
	"golang.org/x/time/rate"

	"github.com/oddshoes/birdie/internal/chat"
	"github.com/oddshoes/birdie/internal/engine"
)

const (
	tokenPrefix = "os-"
	maxTurns    = 50
)

var ErrNotFound = errors.New("session: conversation not found")

// Conversation is one visitor's chat: its opaque token, engine state and
// recorded turns. Sends are serialized by TryBeginSend; everything else is
// guarded by mu.
type Conversation struct {
	id      string
	limiter *rate.Limiter
	sending sync.Mutex

	mu       sync.Mutex
	state    engine.State
	history  []chat.Turn
	lastUsed time.Time
}

func (c *Conversation) ID() string { return c.id }

// TryBeginSend claims the conversation for one outbound message. It returns
// false while another send is still in flight; callers must call EndSend.
func (c *Conversation) TryBeginSend() bool {
	if !c.sending.TryLock() {
		return false
	}
	c.touch()
	return true
}

func (c *Conversation) EndSend() { c.sending.Unlock() }

// Allow reports whether the conversation is within its message rate.
func (c *Conversation) Allow() bool {
	return c.limiter == nil || c.limiter.Allow()
}

func (c *Conversation) State() engine.State {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.state
}

// Update applies fn to the state atomically.
func (c *Conversation) Update(fn func(engine.State) engine.State) engine.State {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.state = fn(c.state)
	c.lastUsed = time.Now()
	return c.state
}

// Record appends turns, keeping the most recent maxTurns.
func (c *Conversation) Record(turns ...chat.Turn) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.history = append(c.history, turns...)
	if len(c.history) > maxTurns {
		c.history = append([]chat.Turn(nil), c.history[len(c.history)-maxTurns:]...)
	}
}

func (c *Conversation) History() []chat.Turn {
	c.mu.Lock()
	defer c.mu.Unlock()
	return append([]chat.Turn(nil), c.history...)
}

func (c *Conversation) touch() {
	c.mu.Lock()
	c.lastUsed = time.Now()
	c.mu.Unlock()
}

func (c *Conversation) idleSince() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.lastUsed
}

// Manager owns every live conversation. Different conversations never share state.
type Manager struct {
	mu            sync.Mutex
	conversations map[string]*Conversation
	perMinute     int
}

// NewManager returns a registry whose conversations may send perMinute
// messages per minute; zero disables the limit.
func NewManager(perMinute int) *Manager {
	return &Manager{
		conversations: make(map[string]*Conversation),
		perMinute:     perMinute,
	}
}

// Create starts a new conversation with a fresh token and zero state.
func (m *Manager) Create() *Conversation {
	c := &Conversation{
		id:       newToken(),
		lastUsed: time.Now(),
	}
	if m.perMinute > 0 {
		c.limiter = rate.NewLimiter(rate.Every(time.Minute/time.Duration(m.perMinute)), m.perMinute)
	}

	m.mu.Lock()
	m.conversations[c.id] = c
	m.mu.Unlock()
	return c
}

func (m *Manager) Get(id string) (*Conversation, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	c, ok := m.conversations[id]
	if !ok {
		return nil, ErrNotFound
	}
	return c, nil
}

// GetOrCreate returns the conversation for id, starting a new one when id is
// empty or unknown.
func (m *Manager) GetOrCreate(id string) *Conversation {
	if id != "" {
		if c, err := m.Get(id); err == nil {
			return c
		}
	}
	return m.Create()
}

// Reset drops the conversation for id and starts a new one with a new token.
func (m *Manager) Reset(id string) *Conversation {
	m.mu.Lock()
	delete(m.conversations, id)
	m.mu.Unlock()
	return m.Create()
}

func (m *Manager) Len() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.conversations)
}

// Cleanup removes conversations not used within maxAge and returns how many
// were dropped.
func (m *Manager) Cleanup(maxAge time.Duration) int {
	m.mu.Lock()
	defer m.mu.Unlock()

	now := time.Now()
	removed := 0
	for id, c := range m.conversations {
		if now.Sub(c.idleSince()) > maxAge {
			delete(m.conversations, id)
			removed++
		}
	}
	return removed
}

func newToken() string {
	return tokenPrefix + uuid.NewString()
}
