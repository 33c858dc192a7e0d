package search

import (
	"slices"
	"strings"
)

type filterInput struct {
	query                string
	source               []any
	labels               Labels
	forcePick            bool
	showAlreadyTokenized bool
	subtitles            bool
	isTokenized          func(any) bool
}

// filterLocal matches source objects against an already normalized query and
// returns them sorted by title.
func filterLocal(in filterInput) []any {
	if in.query == "" && !in.forcePick {
		return nil
	}

	out := make([]any, 0, len(in.source))
	seen := make(map[any]struct{}, len(in.source))
	for _, obj := range in.source {
		if obj == nil || !matches(in, obj) {
			continue
		}

		if key, ok := identityKey(obj); ok {
			if _, dup := seen[key]; dup {
				continue
			}
			seen[key] = struct{}{}
		}

		if !in.showAlreadyTokenized && in.isTokenized != nil && in.isTokenized(obj) {
			continue
		}
		out = append(out, obj)
	}

	if len(out) == 0 {
		return nil
	}

	type titled struct {
		obj   any
		title string
	}
	ordered := make([]titled, len(out))
	for i, obj := range out {
		ordered[i] = titled{obj: obj, title: in.labels.TitleString(obj)}
	}
	slices.SortStableFunc(ordered, func(a, b titled) int {
		return strings.Compare(a.title, b.title)
	})

	for i := range ordered {
		out[i] = ordered[i].obj
	}
	return out
}

func matches(in filterInput, obj any) bool {
	if in.query == "" {
		return in.forcePick
	}
	if containsFold(in.labels.TitleString(obj), in.query) {
		return true
	}
	if !in.subtitles {
		return false
	}
	sub, ok := in.labels.SubtitleString(obj)
	return ok && sub != "" && containsFold(sub, in.query)
}

func containsFold(s, lowerQuery string) bool {
	return strings.Contains(strings.ToLower(s), lowerQuery)
}
