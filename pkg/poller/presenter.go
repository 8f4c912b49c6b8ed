// Package poller keeps one mounted conversation view fresh by re-fetching
// its feed on a fixed cadence, and serializes sends for that view.
package poller

import (
	"context"
	"errors"
	"strings"
	"sync"
	"time"

	"classechat/pkg/client"
	"classechat/pkg/logger"
	"classechat/pkg/metrics"
	"classechat/pkg/models"
)

// FeedSource is the slice of the API client the presenter needs.
// *client.Client satisfies it.
type FeedSource interface {
	FetchFeed(ctx context.Context, sess models.Session, key models.ConversationKey) ([]models.Message, error)
	Send(ctx context.Context, sess models.Session, key models.ConversationKey, body string) (models.Message, error)
}

// State is the lifecycle of a mounted view.
type State int

const (
	StateIdle State = iota
	StateLoading
	StateReady
)

func (s State) String() string {
	switch s {
	case StateIdle:
		return "idle"
	case StateLoading:
		return "loading"
	case StateReady:
		return "ready"
	}
	return "unknown"
}

var (
	ErrAlreadyStarted = errors.New("presenter already started")
	ErrSendInFlight   = errors.New("a send is already in flight")
	ErrInvalidKey     = errors.New("invalid conversation key")
)

// DefaultInterval is the poll cadence when none is configured.
const DefaultInterval = 5 * time.Second

// Snapshot is a copy of the view's rendered state at one instant.
// Messages are newest first, matching the server's feed order.
type Snapshot struct {
	Key        models.ConversationKey
	State      State
	Messages   []models.Message
	Sending    bool
	Refreshing bool
	Err        error
}

// Config configures a Presenter.
type Config struct {
	Source   FeedSource
	Session  models.Session
	Key      models.ConversationKey
	Interval time.Duration
	// OnChange fires (outside the presenter's lock) whenever the rendered
	// message count changes, and once on the first successful fetch. The
	// renderer moves focus to the newest message.
	OnChange func(Snapshot)
}

// Presenter owns exactly one view: its poll timer, its in-flight-send flag
// and its rendered message list. Nothing is shared between presenters.
type Presenter struct {
	source   FeedSource
	sess     models.Session
	interval time.Duration
	onChange func(Snapshot)

	mu          sync.Mutex
	parent      context.Context
	cancel      context.CancelFunc
	key         models.ConversationKey
	gen         uint64
	lastStarted uint64
	state       State
	msgs        []models.Message
	pending     []models.Message
	sending     bool
	refreshing  bool
	committed   bool
	lastErr     error
}

func New(cfg Config) (*Presenter, error) {
	if cfg.Source == nil {
		return nil, errors.New("nil feed source")
	}
	if !cfg.Key.Valid() {
		return nil, ErrInvalidKey
	}
	interval := cfg.Interval
	if interval <= 0 {
		interval = DefaultInterval
	}
	return &Presenter{
		source:   cfg.Source,
		sess:     cfg.Session,
		interval: interval,
		onChange: cfg.OnChange,
		key:      cfg.Key,
		state:    StateIdle,
	}, nil
}

// Start performs the initial fetch and begins polling. The presenter stops
// when ctx is cancelled or Stop is called.
func (p *Presenter) Start(ctx context.Context) error {
	p.mu.Lock()
	if p.cancel != nil {
		p.mu.Unlock()
		return ErrAlreadyStarted
	}
	p.parent = ctx
	cctx, cancel := context.WithCancel(ctx)
	p.cancel = cancel
	p.state = StateLoading
	key, gen := p.key, p.gen
	p.mu.Unlock()

	go p.run(cctx, key, gen)
	return nil
}

// Stop cancels the poll timer. Idempotent.
func (p *Presenter) Stop() {
	p.mu.Lock()
	cancel := p.cancel
	p.cancel = nil
	p.state = StateIdle
	// Outstanding results from the torn-down run can no longer commit.
	p.gen++
	p.lastStarted = 0
	p.mu.Unlock()
	if cancel != nil {
		cancel()
	}
}

// SwitchKey tears down the current view and restarts polling against the
// new conversation. Results from the old key can no longer commit.
func (p *Presenter) SwitchKey(newKey models.ConversationKey) error {
	if !newKey.Valid() {
		return ErrInvalidKey
	}
	p.mu.Lock()
	if newKey == p.key {
		p.mu.Unlock()
		return nil
	}
	old := p.cancel
	p.gen++
	gen := p.gen
	p.key = newKey
	p.lastStarted = 0
	p.msgs = nil
	p.pending = nil
	p.committed = false
	p.refreshing = false
	p.lastErr = nil
	if old == nil {
		// Not started yet; just retarget.
		p.mu.Unlock()
		return nil
	}
	p.state = StateLoading
	cctx, cancel := context.WithCancel(p.parent)
	p.cancel = cancel
	p.mu.Unlock()

	old()
	go p.run(cctx, newKey, gen)
	return nil
}

// Send posts body to the current conversation, prepends the server's
// returned message so it is visible before the next poll, and refuses a
// second send while one is in flight.
func (p *Presenter) Send(ctx context.Context, body string) error {
	trimmed := strings.TrimSpace(body)
	if trimmed == "" {
		metrics.Sends.WithLabelValues("rejected").Inc()
		return client.ErrEmptyBody
	}

	p.mu.Lock()
	if p.sending {
		p.mu.Unlock()
		metrics.Sends.WithLabelValues("rejected").Inc()
		return ErrSendInFlight
	}
	p.sending = true
	key, gen := p.key, p.gen
	p.mu.Unlock()

	msg, err := p.source.Send(ctx, p.sess, key, trimmed)

	p.mu.Lock()
	p.sending = false
	if err != nil {
		p.mu.Unlock()
		metrics.Sends.WithLabelValues("error").Inc()
		return err
	}
	var snap Snapshot
	changed := false
	if gen == p.gen && !p.hasLocked(msg.ID) {
		p.pending = append([]models.Message{msg}, p.pending...)
		p.msgs = append([]models.Message{msg}, p.msgs...)
		changed = true
		snap = p.snapshotLocked()
	}
	p.mu.Unlock()

	metrics.Sends.WithLabelValues("ok").Inc()
	if changed && p.onChange != nil {
		p.onChange(snap)
	}
	return nil
}

// Snapshot returns a copy of the current view state.
func (p *Presenter) Snapshot() Snapshot {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.snapshotLocked()
}

func (p *Presenter) run(ctx context.Context, key models.ConversationKey, gen uint64) {
	go p.fetchOnce(ctx, key, gen)
	t := time.NewTicker(p.interval)
	defer t.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-t.C:
			// Ticks fire at the fixed cadence regardless of prior fetch
			// completion; stale results are discarded on commit.
			go p.fetchOnce(ctx, key, gen)
		}
	}
}

func (p *Presenter) fetchOnce(ctx context.Context, key models.ConversationKey, gen uint64) {
	p.mu.Lock()
	if gen != p.gen {
		p.mu.Unlock()
		return
	}
	p.lastStarted++
	seq := p.lastStarted
	if p.state == StateReady {
		p.refreshing = true
	}
	p.mu.Unlock()

	msgs, err := p.source.FetchFeed(ctx, p.sess, key)

	p.mu.Lock()
	if gen != p.gen {
		p.mu.Unlock()
		return
	}
	p.refreshing = false
	if err != nil {
		// Keep the stale-but-valid list on screen; this cycle just skips.
		p.lastErr = err
		p.state = StateReady
		p.mu.Unlock()
		metrics.Polls.WithLabelValues("error").Inc()
		if ctx.Err() == nil {
			logger.Log.Warn("feed poll failed", "key", key.String(), "err", err)
		}
		return
	}
	if seq != p.lastStarted {
		// A newer fetch started while this one was in flight.
		p.mu.Unlock()
		metrics.StaleFetches.Inc()
		return
	}
	snap, changed := p.commitLocked(msgs)
	p.mu.Unlock()

	metrics.Polls.WithLabelValues("ok").Inc()
	if changed && p.onChange != nil {
		p.onChange(snap)
	}
}

// commitLocked installs a fetched feed as the rendered list, re-applying
// any optimistic sends the server has not echoed back yet.
func (p *Presenter) commitLocked(server []models.Message) (Snapshot, bool) {
	prev := len(p.msgs)
	first := !p.committed

	ids := make(map[int64]struct{}, len(server))
	for _, m := range server {
		ids[m.ID] = struct{}{}
	}
	var still []models.Message
	for _, m := range p.pending {
		if _, ok := ids[m.ID]; !ok {
			still = append(still, m)
		}
	}
	p.pending = still

	merged := make([]models.Message, 0, len(still)+len(server))
	merged = append(merged, still...)
	merged = append(merged, server...)
	p.msgs = merged
	p.state = StateReady
	p.lastErr = nil
	p.committed = true

	changed := first || len(merged) != prev
	return p.snapshotLocked(), changed
}

func (p *Presenter) hasLocked(id int64) bool {
	for _, m := range p.msgs {
		if m.ID == id {
			return true
		}
	}
	return false
}

func (p *Presenter) snapshotLocked() Snapshot {
	return Snapshot{
		Key:        p.key,
		State:      p.state,
		Messages:   append([]models.Message(nil), p.msgs...),
		Sending:    p.sending,
		Refreshing: p.refreshing,
		Err:        p.lastErr,
	}
}
