// Package recents keeps the bounded most-recently-opened list of window
// configurations and persists it across restarts.
package recents

import (
	"github.com/1broseidon/panehost/internal/window"
)

// DefaultLimit caps the list length.
const DefaultLimit = 10

// List is an MRU list of window configs, most recent first, holding at most
// one entry per content URL. It is not safe for concurrent use; the registry
// guards it.
type List struct {
	items []window.Config
	limit int
}

// NewList returns a list capped at limit entries (DefaultLimit when <= 0),
// seeded with items in order.
func NewList(limit int, items []window.Config) *List {
	if limit <= 0 {
		limit = DefaultLimit
	}
	l := &List{limit: limit}
	// Oldest first so the head of items ends up most recent.
	for i := len(items) - 1; i >= 0; i-- {
		if items[i].ContentURL == "" {
			continue
		}
		l.Push(items[i])
	}
	return l
}

// Push moves cfg to the front, dropping any older entry for the same URL and
// trimming to the cap.
func (l *List) Push(cfg window.Config) {
	next := make([]window.Config, 0, len(l.items)+1)
	next = append(next, cfg.Clone())
	for _, it := range l.items {
		if it.SameContent(cfg) {
			continue
		}
		next = append(next, it)
	}
	if len(next) > l.limit {
		next = next[:l.limit]
	}
	l.items = next
}

// Remove drops the entry for url. It reports whether anything changed.
func (l *List) Remove(url string) bool {
	for i, it := range l.items {
		if it.ContentURL == url {
			l.items = append(l.items[:i:i], l.items[i+1:]...)
			return true
		}
	}
	return false
}

// Clear empties the list.
func (l *List) Clear() {
	l.items = nil
}

// Items returns a copy of the entries, most recent first.
func (l *List) Items() []window.Config {
	out := make([]window.Config, len(l.items))
	for i, it := range l.items {
		out[i] = it.Clone()
	}
	return out
}

// Len returns the number of entries.
func (l *List) Len() int {
	return len(l.items)
}

// Limit returns the cap.
func (l *List) Limit() int {
	return l.limit
}
