// Package config loads host settings for the demo program.
package config

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/BurntSushi/toml"
	"github.com/fsnotify/fsnotify"
	"gopkg.in/yaml.v3"

	"github.com/iw2rmb/tokenfield/field"
)

const debounceDelay = 100 * time.Millisecond

// Recipient is one candidate offered by the search list.
type Recipient struct {
	Name  string `toml:"name" yaml:"name"`
	Email string `toml:"email" yaml:"email"`
	Group string `toml:"group" yaml:"group"`
}

// Settings is the on-disk demo configuration.
type Settings struct {
	Prompt                string      `toml:"prompt" yaml:"prompt"`
	Placeholder           string      `toml:"placeholder" yaml:"placeholder"`
	Delimiters            string      `toml:"delimiters" yaml:"delimiters"`
	MaxTokenWidth         int         `toml:"max_token_width" yaml:"max_token_width"`
	ForcePick             bool        `toml:"force_pick" yaml:"force_pick"`
	ShowAlreadyTokenized  bool        `toml:"show_already_tokenized" yaml:"show_already_tokenized"`
	DisableAutoCollapse   bool        `toml:"disable_auto_collapse" yaml:"disable_auto_collapse"`
	DisableSubtitleSearch bool        `toml:"disable_subtitle_search" yaml:"disable_subtitle_search"`
	LatencyMS             int         `toml:"latency_ms" yaml:"latency_ms"`
	Recipients            []Recipient `toml:"recipients" yaml:"recipients"`
}

func Default() Settings {
	return Settings{
		Prompt:      "To:",
		Placeholder: "Type a name",
		Delimiters:  ",",
	}
}

// Load reads settings from path, choosing the decoder by extension. A missing
// file yields the defaults.
func Load(path string) (Settings, error) {
	s := Default()

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return s, nil
		}
		return Settings{}, fmt.Errorf("read settings: %w", err)
	}

	switch ext := strings.ToLower(filepath.Ext(path)); ext {
	case ".toml":
		if _, err := toml.Decode(string(data), &s); err != nil {
			return Settings{}, fmt.Errorf("decode TOML: %w", err)
		}
	case ".yaml", ".yml":
		if err := yaml.Unmarshal(data, &s); err != nil {
			return Settings{}, fmt.Errorf("decode YAML: %w", err)
		}
	default:
		return Settings{}, fmt.Errorf("unsupported settings format %q", ext)
	}
	return s, nil
}

// Latency is the artificial provider delay, zero for local search.
func (s Settings) Latency() time.Duration {
	if s.LatencyMS <= 0 {
		return 0
	}
	return time.Duration(s.LatencyMS) * time.Millisecond
}

// Source returns the recipients as search candidates.
func (s Settings) Source() []any {
	out := make([]any, len(s.Recipients))
	for i, r := range s.Recipients {
		out[i] = r
	}
	return out
}

// Apply copies the field options in s onto cfg.
func (s Settings) Apply(cfg field.Config) field.Config {
	cfg.Prompt = s.Prompt
	cfg.Placeholder = s.Placeholder
	cfg.Delimiters = []rune(s.Delimiters)
	cfg.MaxTokenWidth = s.MaxTokenWidth
	cfg.ForcePick = s.ForcePick
	cfg.ShowAlreadyTokenized = s.ShowAlreadyTokenized
	cfg.DisableAutoCollapse = s.DisableAutoCollapse
	cfg.DisableSubtitleSearch = s.DisableSubtitleSearch
	return cfg
}

// Watch reloads path whenever it is written or recreated and passes the new
// settings to onChange. Reload failures go to onError. Watch blocks until ctx
// is done.
func Watch(ctx context.Context, path string, onChange func(Settings), onError func(error)) error {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("create watcher: %w", err)
	}
	defer watcher.Close()

	// Editors often replace the file, so watch its directory.
	if err := watcher.Add(filepath.Dir(path)); err != nil {
		return fmt.Errorf("watch directory: %w", err)
	}

	reload := func() {
		s, err := Load(path)
		if err != nil {
			if onError != nil {
				onError(fmt.Errorf("reload settings: %w", err))
			}
			return
		}
		onChange(s)
	}

	var debounce *time.Timer
	defer func() {
		if debounce != nil {
			debounce.Stop()
		}
	}()

	for {
		select {
		case <-ctx.Done():
			return nil

		case event, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			if filepath.Base(event.Name) != filepath.Base(path) {
				continue
			}
			if event.Op&(fsnotify.Write|fsnotify.Create) == 0 {
				continue
			}
			if debounce != nil {
				debounce.Stop()
			}
			debounce = time.AfterFunc(debounceDelay, reload)

		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			if onError != nil {
				onError(err)
			}
		}
	}
}
