package field

import (
	"context"
	"fmt"

	"github.com/charmbracelet/lipgloss"
	"github.com/rs/zerolog"

	"github.com/iw2rmb/tokenfield/layout"
	"github.com/iw2rmb/tokenfield/search"
	"github.com/iw2rmb/tokenfield/token"
)

const defaultWidth = 80

// Config configures a Field. Zero values select the defaults.
type Config struct {
	// Delimiters end a token when typed or pasted. Default: ','.
	Delimiters []rune
	// MaxTokenWidth caps chip width. Default: token.DefaultMaxWidth.
	MaxTokenWidth int

	DisableAutoCollapse bool
	// ForcePick restricts tokens to search results: typed text is never
	// tokenized and an empty query lists every candidate.
	ForcePick             bool
	ShowAlreadyTokenized  bool
	DisableSubtitleSearch bool
	ReadOnly              bool

	Tint        lipgloss.Color
	Font        token.Font
	Prompt      string
	Placeholder string

	Width               int
	RightAccessoryWidth int
	Metrics             layout.Metrics
	Measurer            token.Measurer

	// SummaryFormat renders the collapsed summary when the joined titles do
	// not fit. Default: "%d recipients".
	SummaryFormat func(n int) string

	Source   []any
	Provider search.Provider
	Labels   search.Labels
	Deliver  func(search.Batch)
	// Context bounds provider calls.
	Context context.Context

	Delegate Hooks
	Logger   *zerolog.Logger
}

func normalizeConfig(cfg Config) Config {
	cfg.Delimiters = normalizeDelimiters(cfg.Delimiters)
	if cfg.MaxTokenWidth <= 0 {
		cfg.MaxTokenWidth = token.DefaultMaxWidth
	}
	if cfg.Tint == "" {
		cfg.Tint = token.BlueTint
	}
	if cfg.Font.LineHeight <= 0 {
		cfg.Font = token.CellFont()
	}
	if cfg.Width <= 0 {
		cfg.Width = defaultWidth
	}
	if cfg.RightAccessoryWidth < 0 {
		cfg.RightAccessoryWidth = 0
	}
	if cfg.Metrics == (layout.Metrics{}) {
		cfg.Metrics = layout.CellMetrics()
	}
	if cfg.Measurer == nil {
		cfg.Measurer = token.CellMeasurer{MaxLines: 1}
	}
	if cfg.SummaryFormat == nil {
		cfg.SummaryFormat = defaultSummary
	}
	return cfg
}

func normalizeDelimiters(delims []rune) []rune {
	if len(delims) == 0 {
		return []rune{','}
	}
	return append([]rune(nil), delims...)
}

func defaultSummary(n int) string { return fmt.Sprintf("%d recipients", n) }
