// Package querystate keeps the filter state of the data table in sync with a
// URL query string.
package querystate

import (
	"fmt"
	"net/url"
	"sync"
	"time"
)

// Location is the URL the filter state is serialized into
type Location interface {
	// Query returns a copy of the current query parameters
	Query() url.Values
	// Replace rewrites the query in place without adding a history entry
	Replace(q url.Values) error
	// Push navigates to the query, adding a history entry
	Push(q url.Values) error
}

// NavigationMode tells how a location change happened
type NavigationMode string

const (
	ModeReplace  NavigationMode = "replace"
	ModePush     NavigationMode = "push"
	ModeBack     NavigationMode = "back"
	ModeNavigate NavigationMode = "navigate"
)

// Navigation describes one change of the location
type Navigation struct {
	Mode NavigationMode
	URL  string
	At   time.Time
}

// MemoryLocation is an in-process Location with a back stack
type MemoryLocation struct {
	mu        sync.Mutex
	current   *url.URL
	back      []*url.URL
	observers []func(Navigation)
	reloads   []func(*url.URL)
	now       func() time.Time
}

// NewMemoryLocation creates a location positioned at rawURL
func NewMemoryLocation(rawURL string) (*MemoryLocation, error) {
	u, err := url.Parse(rawURL)
	if err != nil {
		return nil, fmt.Errorf("failed to parse location %q: %w", rawURL, err)
	}
	return &MemoryLocation{current: u, now: time.Now}, nil
}

// String returns the current URL
func (l *MemoryLocation) String() string {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.current.String()
}

// Query implements Location
func (l *MemoryLocation) Query() url.Values {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.current.Query()
}

// Replace implements Location
func (l *MemoryLocation) Replace(q url.Values) error {
	l.mu.Lock()
	next := *l.current
	next.RawQuery = q.Encode()
	l.current = &next
	nav := l.navigation(ModeReplace)
	observers := append([]func(Navigation){}, l.observers...)
	l.mu.Unlock()

	for _, fn := range observers {
		fn(nav)
	}
	return nil
}

// Push implements Location. Reload listeners are notified.
func (l *MemoryLocation) Push(q url.Values) error {
	l.mu.Lock()
	next := *l.current
	next.RawQuery = q.Encode()
	l.mu.Unlock()
	l.navigateTo(&next, ModePush)
	return nil
}

// Navigate moves to rawURL as a new history entry
func (l *MemoryLocation) Navigate(rawURL string) error {
	u, err := url.Parse(rawURL)
	if err != nil {
		return fmt.Errorf("failed to parse location %q: %w", rawURL, err)
	}
	l.navigateTo(u, ModeNavigate)
	return nil
}

// Back returns to the previous history entry. It reports false when there is
// nothing to go back to.
func (l *MemoryLocation) Back() bool {
	l.mu.Lock()
	if len(l.back) == 0 {
		l.mu.Unlock()
		return false
	}
	l.current = l.back[len(l.back)-1]
	l.back = l.back[:len(l.back)-1]
	nav := l.navigation(ModeBack)
	observers := append([]func(Navigation){}, l.observers...)
	reloads := append([]func(*url.URL){}, l.reloads...)
	current := *l.current
	l.mu.Unlock()

	for _, fn := range observers {
		fn(nav)
	}
	for _, fn := range reloads {
		fn(&current)
	}
	return true
}

// CanGoBack reports whether Back would change the location
func (l *MemoryLocation) CanGoBack() bool {
	l.mu.Lock()
	defer l.mu.Unlock()
	return len(l.back) > 0
}

// Observe registers fn for every change, including in-place replaces
func (l *MemoryLocation) Observe(fn func(Navigation)) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.observers = append(l.observers, fn)
}

// OnNavigate registers fn for changes that load a new page: push, navigate
// and back
func (l *MemoryLocation) OnNavigate(fn func(*url.URL)) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.reloads = append(l.reloads, fn)
}

func (l *MemoryLocation) navigateTo(next *url.URL, mode NavigationMode) {
	l.mu.Lock()
	l.back = append(l.back, l.current)
	l.current = next
	nav := l.navigation(mode)
	observers := append([]func(Navigation){}, l.observers...)
	reloads := append([]func(*url.URL){}, l.reloads...)
	current := *l.current
	l.mu.Unlock()

	for _, fn := range observers {
		fn(nav)
	}
	for _, fn := range reloads {
		fn(&current)
	}
}

// navigation must be called with l.mu held
func (l *MemoryLocation) navigation(mode NavigationMode) Navigation {
	return Navigation{Mode: mode, URL: l.current.String(), At: l.now()}
}
