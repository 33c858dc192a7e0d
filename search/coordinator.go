package search

import (
	"context"
	"fmt"
	"strings"
	"sync"

	"github.com/rs/zerolog"

	"github.com/iw2rmb/tokenfield/internal/sentinel"
)

// Provider answers a normalized query. It runs off the owner goroutine and
// may take as long as it likes; only the newest matching answer is kept.
type Provider func(ctx context.Context, query string) ([]any, error)

// Batch is one finished provider call.
type Batch struct {
	Seq   uint64
	Query string
	Items []any
	Err   error
}

// Config configures a Coordinator.
type Config struct {
	// Source is the candidate list for local filtering. Ignored when
	// Provider is set.
	Source   []any
	Provider Provider
	Labels   Labels

	// ForcePick makes an empty query list every candidate.
	ForcePick            bool
	ShowAlreadyTokenized bool
	DisableSubtitles     bool

	// IsTokenized reports whether an object is already represented by a
	// token in the field. Only consulted by the local filter.
	IsTokenized func(object any) bool

	// OnResults is called with a copy of the results every time they are
	// replaced by a search or an accepted batch.
	OnResults func(results []any)

	// Deliver receives finished provider batches on the provider goroutine.
	// Hosts that own a UI thread forward the batch there and call Accept.
	// Nil calls Accept directly.
	Deliver func(b Batch)

	// Context is passed to every provider call. Nil means Background.
	Context context.Context
	Logger  *zerolog.Logger
}

// Coordinator owns the results buffer of one token field.
type Coordinator struct {
	mu sync.Mutex

	source               []any
	provider             Provider
	labels               Labels
	forcePick            bool
	showAlreadyTokenized bool
	subtitles            bool
	isTokenized          func(any) bool
	onResults            func([]any)
	deliver              func(Batch)
	ctx                  context.Context
	log                  zerolog.Logger

	live    string
	seq     uint64
	pending int
	results []any
}

func New(cfg Config) *Coordinator {
	c := &Coordinator{
		source:               cloneItems(cfg.Source),
		provider:             cfg.Provider,
		labels:               cfg.Labels,
		forcePick:            cfg.ForcePick,
		showAlreadyTokenized: cfg.ShowAlreadyTokenized,
		subtitles:            !cfg.DisableSubtitles,
		isTokenized:          cfg.IsTokenized,
		onResults:            cfg.OnResults,
		deliver:              cfg.Deliver,
		ctx:                  cfg.Context,
		log:                  zerolog.Nop(),
	}
	if c.ctx == nil {
		c.ctx = context.Background()
	}
	if cfg.Logger != nil {
		c.log = cfg.Logger.With().Str("component", "search").Logger()
	}
	if c.deliver == nil {
		c.deliver = func(b Batch) { c.Accept(b) }
	}
	return c
}

// Normalize strips sentinels, trims and lower-cases text.
func Normalize(text string) string {
	return strings.ToLower(strings.TrimSpace(sentinel.Strip(text)))
}

// Track records the live buffer text that incoming batches are checked
// against.
func (c *Coordinator) Track(text string) {
	c.mu.Lock()
	c.live = text
	c.mu.Unlock()
}

// Search tracks text and starts a search for it.
//
// With a provider the call returns false immediately; results arrive through
// Deliver and Accept. Without one the source is filtered synchronously and
// Search reports whether anything matched.
func (c *Coordinator) Search(text string) (found bool) {
	defer c.guard("search", func() { found = false })

	c.mu.Lock()
	c.live = text
	query := Normalize(text)

	if provider := c.provider; provider != nil {
		c.seq++
		b := Batch{Seq: c.seq, Query: query}
		c.pending++
		ctx, deliver := c.ctx, c.deliver
		c.mu.Unlock()

		go c.run(ctx, provider, deliver, b)
		return false
	}

	in := filterInput{
		query:                query,
		source:               c.source,
		labels:               c.labels,
		forcePick:            c.forcePick,
		showAlreadyTokenized: c.showAlreadyTokenized,
		subtitles:            c.subtitles,
		isTokenized:          c.isTokenized,
	}
	c.mu.Unlock()

	items := filterLocal(in)

	c.mu.Lock()
	c.results = items
	c.mu.Unlock()

	c.publish(items)
	return len(items) > 0
}

func (c *Coordinator) run(ctx context.Context, provider Provider, deliver func(Batch), b Batch) {
	b.Items, b.Err = callProvider(ctx, provider, b.Query)

	c.mu.Lock()
	c.pending--
	c.mu.Unlock()

	defer c.guard("deliver", nil)
	deliver(b)
}

func callProvider(ctx context.Context, provider Provider, query string) (items []any, err error) {
	defer func() {
		if r := recover(); r != nil {
			items, err = nil, fmt.Errorf("search: provider panic: %v", r)
		}
	}()
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return provider(ctx, query)
}

// Accept installs a finished batch if the live text still asks for it.
// Failed and superseded batches are dropped.
func (c *Coordinator) Accept(b Batch) (accepted bool) {
	defer c.guard("accept", func() { accepted = false })

	if b.Err != nil {
		c.log.Warn().Err(b.Err).Uint64("seq", b.Seq).Str("query", b.Query).Msg("provider failed")
		return false
	}

	c.mu.Lock()
	live := Normalize(c.live)
	if live != b.Query {
		c.mu.Unlock()
		c.log.Debug().Uint64("seq", b.Seq).Str("query", b.Query).Str("live", live).Msg("stale results dropped")
		return false
	}
	items := cloneItems(b.Items)
	c.results = items
	c.mu.Unlock()

	c.publish(items)
	return true
}

// Results returns a copy of the current results.
func (c *Coordinator) Results() []any {
	c.mu.Lock()
	defer c.mu.Unlock()
	return cloneItems(c.results)
}

// Clear empties the results without publishing.
func (c *Coordinator) Clear() {
	c.mu.Lock()
	c.results = nil
	c.mu.Unlock()
}

func (c *Coordinator) SetSource(source []any) {
	c.mu.Lock()
	c.source = cloneItems(source)
	c.mu.Unlock()
}

func (c *Coordinator) SetProvider(p Provider) {
	c.mu.Lock()
	c.provider = p
	c.mu.Unlock()
}

func (c *Coordinator) SetForcePick(v bool) {
	c.mu.Lock()
	c.forcePick = v
	c.mu.Unlock()
}

func (c *Coordinator) SetShowAlreadyTokenized(v bool) {
	c.mu.Lock()
	c.showAlreadyTokenized = v
	c.mu.Unlock()
}

func (c *Coordinator) Labels() Labels {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.labels
}

// Pending returns the number of provider calls still running.
func (c *Coordinator) Pending() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.pending
}

func (c *Coordinator) publish(items []any) {
	if c.onResults == nil {
		return
	}
	c.onResults(cloneItems(items))
}

func (c *Coordinator) guard(op string, fail func()) {
	if r := recover(); r != nil {
		c.log.Error().Str("op", op).Interface("panic", r).Msg("recovered")
		if fail != nil {
			fail()
		}
	}
}

func cloneItems(items []any) []any {
	if len(items) == 0 {
		return nil
	}
	out := make([]any, len(items))
	copy(out, items)
	return out
}
