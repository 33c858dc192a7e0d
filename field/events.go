package field

import (
	"sync"

	"github.com/iw2rmb/tokenfield/token"
)

// Hooks are the notifications a field emits. Nil members are permissive: a
// missing Will* hook accepts, a missing Did* hook is skipped.
type Hooks struct {
	// WillAdd and WillRemove may veto the change by returning false.
	WillAdd    func(t *token.Token) bool
	DidAdd     func(t *token.Token)
	WillRemove func(t *token.Token) bool
	DidRemove  func(t *token.Token)

	SearchCompleted func(results []any)

	DidBeginEditing func()
	DidEndEditing   func()

	// WillResize and DidResize report every layout change of the field
	// height, in that order, once the new layout is in place.
	WillResize func(from, to int)
	DidResize  func(from, to int)
}

type observer struct {
	id    uint64
	hooks Hooks
}

// Bus delivers hooks to the delegate first and then to observers in
// registration order. A Will* chain stops at the first veto.
type Bus struct {
	mu        sync.Mutex
	delegate  Hooks
	nextID    uint64
	observers []observer
}

func newBus(delegate Hooks) *Bus {
	return &Bus{delegate: delegate}
}

// Observe registers h and returns a function that unregisters it.
func (b *Bus) Observe(h Hooks) (cancel func()) {
	b.mu.Lock()
	b.nextID++
	id := b.nextID
	b.observers = append(b.observers, observer{id: id, hooks: h})
	b.mu.Unlock()

	var once sync.Once
	return func() {
		once.Do(func() { b.remove(id) })
	}
}

func (b *Bus) remove(id uint64) {
	b.mu.Lock()
	defer b.mu.Unlock()
	for i, o := range b.observers {
		if o.id == id {
			b.observers = append(b.observers[:i:i], b.observers[i+1:]...)
			return
		}
	}
}

// SetDelegate replaces the delegate hooks.
func (b *Bus) SetDelegate(h Hooks) {
	b.mu.Lock()
	b.delegate = h
	b.mu.Unlock()
}

func (b *Bus) chain() []Hooks {
	b.mu.Lock()
	defer b.mu.Unlock()
	out := make([]Hooks, 0, len(b.observers)+1)
	out = append(out, b.delegate)
	for _, o := range b.observers {
		out = append(out, o.hooks)
	}
	return out
}

func (b *Bus) willAdd(t *token.Token) bool {
	for _, h := range b.chain() {
		if h.WillAdd != nil && !h.WillAdd(t) {
			return false
		}
	}
	return true
}

func (b *Bus) didAdd(t *token.Token) {
	for _, h := range b.chain() {
		if h.DidAdd != nil {
			h.DidAdd(t)
		}
	}
}

func (b *Bus) willRemove(t *token.Token) bool {
	for _, h := range b.chain() {
		if h.WillRemove != nil && !h.WillRemove(t) {
			return false
		}
	}
	return true
}

func (b *Bus) didRemove(t *token.Token) {
	for _, h := range b.chain() {
		if h.DidRemove != nil {
			h.DidRemove(t)
		}
	}
}

func (b *Bus) searchCompleted(results []any) {
	for _, h := range b.chain() {
		if h.SearchCompleted != nil {
			h.SearchCompleted(results)
		}
	}
}

func (b *Bus) didBeginEditing() {
	for _, h := range b.chain() {
		if h.DidBeginEditing != nil {
			h.DidBeginEditing()
		}
	}
}

func (b *Bus) didEndEditing() {
	for _, h := range b.chain() {
		if h.DidEndEditing != nil {
			h.DidEndEditing()
		}
	}
}

func (b *Bus) willResize(from, to int) {
	for _, h := range b.chain() {
		if h.WillResize != nil {
			h.WillResize(from, to)
		}
	}
}

func (b *Bus) didResize(from, to int) {
	for _, h := range b.chain() {
		if h.DidResize != nil {
			h.DidResize(from, to)
		}
	}
}
