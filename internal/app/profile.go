package app

import (
	"log/slog"
	"sync"
	"time"

	"quiz-arena/internal/domain"
)

// ProfileRepository abstracts where player profiles live (in-memory, Redis).
type ProfileRepository interface {
	GetOrCreate(id string) (*Profile, error)
	// Acquire is GetOrCreate plus Subscribe as one step with respect to
	// DeleteIfEmpty.
	Acquire(id string) (*Profile, <-chan Update, func(), error)
	Get(id string) (*Profile, bool)
	DeleteIfEmpty(id string)
}

// ProfileBuilder assembles the game of a profile over that profile's prefs.
type ProfileBuilder struct {
	Rules           GameRules
	Source          QuestionSource
	HistoryCapacity int
	Logger          *slog.Logger
	Clock           func() time.Time
}

// Build returns a profile whose game, history and settings persist into prefs.
func (b ProfileBuilder) Build(id string, prefs PrefsStore) *Profile {
	log := loggerOr(b.Logger).With("profile", id)
	opts := []GameOption{WithLogger(log)}
	if b.Clock != nil {
		opts = append(opts, WithClock(b.Clock))
	}
	history := NewHistoryStore(prefs, b.HistoryCapacity, log)
	return NewProfile(id, NewGame(b.Rules, b.Source, prefs, history, opts...))
}

// Update is what a profile broadcasts after each action.
type Update struct {
	Commands []domain.Command `json:"commands"`
	Snapshot Snapshot         `json:"snapshot"`
}

// Profile serialises access to one player's game and fans updates out to
// every connection watching it.
type Profile struct {
	id          string
	mu          sync.Mutex
	game        *Game
	lastTick    time.Time
	subscribers map[chan Update]struct{}
}

func NewProfile(id string, game *Game) *Profile {
	return &Profile{
		id:          id,
		game:        game,
		subscribers: make(map[chan Update]struct{}),
	}
}

func (p *Profile) ID() string { return p.id }

// Do runs fn against the game under the profile lock. Non-empty command
// lists are broadcast to subscribers together with a fresh snapshot.
func (p *Profile) Do(fn func(g *Game) ([]domain.Command, error)) (Update, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	before := p.game.Snapshot().RunID
	u, err := p.doLocked(fn)
	if err == nil && u.Snapshot.RunID != before {
		// idle time before a run starts must not count against it
		p.lastTick = time.Time{}
	}
	return u, err
}

func (p *Profile) doLocked(fn func(g *Game) ([]domain.Command, error)) (Update, error) {
	cmds, err := fn(p.game)
	if err != nil {
		return Update{}, err
	}
	u := Update{Commands: cmds, Snapshot: p.game.Snapshot()}
	if len(cmds) > 0 {
		p.broadcastLocked(u)
	}
	return u, nil
}

// Elapse advances the game by the wall time since the previous call, so any
// number of connections ticking the same profile keep one clock. The first
// call only sets the baseline.
func (p *Profile) Elapse(now time.Time) Update {
	p.mu.Lock()
	defer p.mu.Unlock()
	u, _ := p.doLocked(func(g *Game) ([]domain.Command, error) {
		if p.lastTick.IsZero() || now.Before(p.lastTick) {
			p.lastTick = now
			return nil, nil
		}
		dt := now.Sub(p.lastTick)
		p.lastTick = now
		return g.Advance(dt), nil
	})
	return u
}

// View runs fn under the profile lock without broadcasting.
func (p *Profile) View(fn func(g *Game)) {
	p.mu.Lock()
	defer p.mu.Unlock()
	fn(p.game)
}

// Subscribe registers a listener. The returned func unregisters it and
// closes the channel.
func (p *Profile) Subscribe() (<-chan Update, func()) {
	ch := make(chan Update, 16)

	p.mu.Lock()
	p.subscribers[ch] = struct{}{}
	p.mu.Unlock()

	cancel := func() {
		p.mu.Lock()
		if _, ok := p.subscribers[ch]; ok {
			delete(p.subscribers, ch)
			close(ch)
		}
		p.mu.Unlock()
	}
	return ch, cancel
}

// AbandonIfIdle abandons the active run when nobody is watching the profile.
func (p *Profile) AbandonIfIdle() {
	p.mu.Lock()
	defer p.mu.Unlock()
	if len(p.subscribers) == 0 && p.game.Active() != nil {
		p.game.Abandon()
	}
}

// IsEmpty reports whether nobody is watching the profile.
func (p *Profile) IsEmpty() bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	return len(p.subscribers) == 0
}

func (p *Profile) broadcastLocked(u Update) {
	for ch := range p.subscribers {
		select {
		case ch <- u:
		default:
			// slow reader: drop its oldest update, the snapshot resyncs it
			select {
			case <-ch:
			default:
			}
			ch <- u
		}
	}
}
