package field

import (
	"strings"
	"sync"

	"github.com/charmbracelet/lipgloss"
	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/iw2rmb/tokenfield/layout"
	"github.com/iw2rmb/tokenfield/search"
	"github.com/iw2rmb/tokenfield/token"
)

// Field is a token field without a host surface.
type Field struct {
	mu sync.Mutex

	id  string
	log zerolog.Logger

	delimiters          []rune
	maxTokenWidth       int
	autoCollapse        bool
	forcePick           bool
	readOnly            bool
	tint                lipgloss.Color
	font                token.Font
	prompt              string
	placeholder         string
	width               int
	rightAccessoryWidth int
	metrics             layout.Metrics
	measurer            token.Measurer
	summaryFormat       func(int) string

	tokens   *token.Collection
	selected *token.Token
	state    TextState

	editing     bool
	collapsed   bool
	summary     string
	resultsMode bool

	layout  layout.Result
	laidOut bool

	bus    *Bus
	search *search.Coordinator

	queued      string
	searchQueue bool
	pending     []event
}

// event is a notification raised under the lock and fired after it.
type event struct {
	op   string
	fire func()
}

func New(cfg Config) *Field {
	cfg = normalizeConfig(cfg)

	f := &Field{
		id:                  uuid.NewString(),
		delimiters:          cfg.Delimiters,
		maxTokenWidth:       cfg.MaxTokenWidth,
		autoCollapse:        !cfg.DisableAutoCollapse,
		forcePick:           cfg.ForcePick,
		readOnly:            cfg.ReadOnly,
		tint:                cfg.Tint,
		font:                cfg.Font,
		prompt:              cfg.Prompt,
		placeholder:         cfg.Placeholder,
		width:               cfg.Width,
		rightAccessoryWidth: cfg.RightAccessoryWidth,
		metrics:             cfg.Metrics,
		measurer:            cfg.Measurer,
		summaryFormat:       cfg.SummaryFormat,
		tokens:              token.NewCollection(),
		bus:                 newBus(cfg.Delegate),
	}

	base := zerolog.Nop()
	if cfg.Logger != nil {
		base = *cfg.Logger
	}
	f.log = base.With().Str("field", f.id).Logger()

	f.search = search.New(search.Config{
		Source:               cfg.Source,
		Provider:             cfg.Provider,
		Labels:               cfg.Labels,
		ForcePick:            cfg.ForcePick,
		ShowAlreadyTokenized: cfg.ShowAlreadyTokenized,
		DisableSubtitles:     cfg.DisableSubtitleSearch,
		IsTokenized:          f.isTokenized,
		OnResults:            f.handleResults,
		Deliver:              cfg.Deliver,
		Context:              cfg.Context,
		Logger:               &f.log,
	})

	f.setStateLocked(TextState{Mode: Empty})
	f.relayoutLocked()
	return f
}

// mutate runs fn with the field locked, then fires the notifications fn
// raised and issues the search it queued, if any. Both run unlocked so hooks
// and results can re-enter the field.
func (f *Field) mutate(fn func()) {
	var (
		query  string
		run    bool
		events []event
	)
	func() {
		f.mu.Lock()
		defer f.mu.Unlock()
		defer func() {
			events, query, run = f.pending, f.queued, f.searchQueue
			f.pending, f.queued, f.searchQueue = nil, "", false
		}()
		fn()
	}()
	f.fire(events)
	if run {
		f.search.Search(query)
	}
}

func (f *Field) emit(op string, fire func()) {
	f.pending = append(f.pending, event{op: op, fire: fire})
}

// fire runs each event in its own recover boundary, so a failing hook
// neither skips the rest nor undoes the change that raised it.
func (f *Field) fire(events []event) {
	for _, ev := range events {
		f.fireOne(ev)
	}
}

func (f *Field) fireOne(ev event) {
	defer f.guard(ev.op, nil)
	ev.fire()
}

func (f *Field) queueSearch(text string) {
	f.queued, f.searchQueue = text, true
}

func (f *Field) guard(op string, fail func()) {
	if r := recover(); r != nil {
		f.log.Error().Str("op", op).Interface("panic", r).Msg("recovered")
		if fail != nil {
			fail()
		}
	}
}

func (f *Field) handleResults(results []any) {
	f.mu.Lock()
	if f.editing {
		f.resultsMode = len(results) > 0 || f.forcePick
	}
	f.mu.Unlock()

	f.fireOne(event{op: "search_completed", fire: func() { f.bus.searchCompleted(results) }})
}

func (f *Field) isTokenized(object any) bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, t := range f.tokens.Tokens() {
		if search.SameObject(t.Value(), object) {
			return true
		}
	}
	return false
}

func (f *Field) setStateLocked(s TextState) {
	if s.Mode == Editing && s.Text == "" {
		s.Mode = Empty
	}
	if s.Mode != Editing {
		s.Text = ""
	}
	f.state = s
	f.search.Track(Encode(s))
}

func (f *Field) setTextLocked(text string) {
	f.setStateLocked(TextState{Mode: Editing, Text: text})
}

func (f *Field) measureWidth(text string) int {
	if text == "" {
		return 0
	}
	w, _ := f.measurer.Measure(text, f.font, 0)
	return w
}

func (f *Field) relayoutLocked() {
	tokens := f.tokens.Tokens()
	if f.collapsed {
		tokens = nil
	}
	res := layout.Compute(tokens, layout.Params{
		Width:          f.width,
		LeftAccessory:  f.measureWidth(f.prompt),
		RightAccessory: f.rightAccessoryWidth,
		MaxTokenWidth:  f.maxTokenWidth,
		Font:           f.font,
		Metrics:        f.metrics,
	}, f.measurer)

	from, to := f.layout.Height, res.Height
	resized := f.laidOut && from != to
	f.layout = res
	f.laidOut = true
	if resized {
		f.emit("will_resize", func() { f.bus.willResize(from, to) })
		f.emit("did_resize", func() { f.bus.didResize(from, to) })
	}
}

func (f *Field) summaryLocked() string {
	titles := f.tokens.Titles()
	if len(titles) == 0 {
		return ""
	}
	joined := strings.Join(titles, ", ")
	avail := f.width - f.measureWidth(f.prompt) - f.rightAccessoryWidth
	if len(titles) > 1 && f.measureWidth(joined) > avail {
		return f.summaryFormat(len(titles))
	}
	return joined
}

func (f *Field) ID() string { return f.id }

func (f *Field) Bus() *Bus { return f.bus }

func (f *Field) Search() *search.Coordinator { return f.search }

func (f *Field) Tokens() []*token.Token {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.tokens.Tokens()
}

func (f *Field) Titles() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.tokens.Titles()
}

// Values returns each token's object, or its title when it has none.
func (f *Field) Values() []any {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.tokens.Values()
}

func (f *Field) Selected() *token.Token {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.selected
}

func (f *Field) State() TextState {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.state
}

// Text returns the visible user text.
func (f *Field) Text() string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.state.Text
}

// HostText returns what a host text surface should hold: the summary while
// collapsed, otherwise the encoded buffer state.
func (f *Field) HostText() string {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.collapsed {
		return f.summary
	}
	return Encode(f.state)
}

func (f *Field) Summary() string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.summary
}

func (f *Field) Collapsed() bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.collapsed
}

func (f *Field) Editing() bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.editing
}

func (f *Field) ResultsMode() bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.resultsMode
}

func (f *Field) SetResultsMode(v bool) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.resultsMode = v
}

func (f *Field) Prompt() string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.prompt
}

func (f *Field) Placeholder() string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.placeholder
}

// PlaceholderVisible reports whether the placeholder should be drawn: there
// is one, and the field has neither tokens nor text.
func (f *Field) PlaceholderVisible() bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.placeholder != "" && f.tokens.Len() == 0 && f.state.Mode == Empty
}

func (f *Field) ReadOnly() bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.readOnly
}

func (f *Field) ForcePick() bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.forcePick
}

func (f *Field) Width() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.width
}

func (f *Field) Tint() lipgloss.Color {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.tint
}

// Layout returns the last computed layout. Placements are empty while the
// field is collapsed.
func (f *Field) Layout() layout.Result {
	f.mu.Lock()
	defer f.mu.Unlock()
	res := f.layout
	res.Placements = append([]layout.Placement(nil), res.Placements...)
	return res
}

func (f *Field) NumberOfLines() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.layout.LineCount
}

func (f *Field) Height() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.layout.Height
}

func (f *Field) SetWidth(width int) {
	defer f.guard("set_width", nil)
	f.mutate(func() {
		if width <= 0 {
			width = defaultWidth
		}
		f.width = width
		f.relayoutLocked()
	})
}

func (f *Field) SetFont(font token.Font) {
	defer f.guard("set_font", nil)
	f.mutate(func() {
		if font.LineHeight <= 0 {
			font = token.CellFont()
		}
		f.font = font
		for _, t := range f.tokens.Tokens() {
			t.Font = font
		}
		f.relayoutLocked()
	})
}

func (f *Field) SetMaxTokenWidth(width int) {
	defer f.guard("set_max_token_width", nil)
	f.mutate(func() {
		if width <= 0 {
			width = token.DefaultMaxWidth
		}
		f.maxTokenWidth = width
		for _, t := range f.tokens.Tokens() {
			t.MaxWidth = width
		}
		f.relayoutLocked()
	})
}

// SetTint re-tints every token.
func (f *Field) SetTint(tint lipgloss.Color) {
	defer f.guard("set_tint", nil)
	f.mutate(func() {
		if tint == "" {
			tint = token.BlueTint
		}
		f.tint = tint
		for _, t := range f.tokens.Tokens() {
			t.Tint = tint
		}
		f.relayoutLocked()
	})
}

func (f *Field) SetPrompt(prompt string) {
	defer f.guard("set_prompt", nil)
	f.mutate(func() {
		f.prompt = prompt
		f.relayoutLocked()
	})
}

func (f *Field) SetRightAccessoryWidth(width int) {
	defer f.guard("set_right_accessory_width", nil)
	f.mutate(func() {
		if width < 0 {
			width = 0
		}
		f.rightAccessoryWidth = width
		f.relayoutLocked()
	})
}

func (f *Field) SetPlaceholder(placeholder string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.placeholder = placeholder
}

func (f *Field) SetForcePick(v bool) {
	f.mu.Lock()
	f.forcePick = v
	f.mu.Unlock()
	f.search.SetForcePick(v)
}

func (f *Field) SetReadOnly(v bool) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.readOnly = v
}
