package querystate

import (
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/dafoggo/klinh-admin/internal/filter"
	"github.com/dafoggo/klinh-admin/internal/logging"
	"github.com/dafoggo/klinh-admin/internal/models"
)

// ErrUnknownFilter is returned when no entry carries the given filter id
var ErrUnknownFilter = errors.New("unknown filter")

const (
	DefaultQueryKey = "filters"
	DefaultDebounce = 300 * time.Millisecond
	DefaultThrottle = 50 * time.Millisecond
)

// Options configures a Store
type Options struct {
	// Key is the query parameter holding the serialized filters
	Key string
	// Shallow writes replace the location in place; otherwise every write
	// pushes a history entry and reloads
	Shallow  bool
	Debounce time.Duration
	Throttle time.Duration
	Clock    filter.Clock
	Logger   logging.Logger
}

// DefaultOptions returns the options used when nothing is configured
func DefaultOptions() Options {
	return Options{
		Key:      DefaultQueryKey,
		Shallow:  true,
		Debounce: DefaultDebounce,
		Throttle: DefaultThrottle,
	}
}

// Store holds the active filters of one table. The in-memory list is the
// source of truth; every mutation is serialized back into the Location.
type Store struct {
	loc    Location
	parser *filter.Parser
	opts   Options
	log    logging.Logger

	debouncer *filter.Debouncer
	throttle  *throttler

	mu        sync.Mutex
	filters   []models.FilterEntry
	pending   map[string]filter.Patch
	listeners []func([]models.FilterEntry)
	closed    bool
}

// NewStore creates a store and hydrates it from the location
func NewStore(loc Location, parser *filter.Parser, opts Options) *Store {
	if opts.Key == "" {
		opts.Key = DefaultQueryKey
	}
	if opts.Clock == nil {
		opts.Clock = filter.RealClock()
	}
	if opts.Logger == nil {
		opts.Logger = logging.NewNop()
	}

	s := &Store{
		loc:       loc,
		parser:    parser,
		opts:      opts,
		log:       opts.Logger,
		debouncer: filter.NewDebouncer(opts.Clock, opts.Debounce),
		throttle:  newThrottler(opts.Clock, opts.Throttle),
		pending:   make(map[string]filter.Patch),
	}
	s.filters = s.read()
	return s
}

// Key returns the query parameter the store writes
func (s *Store) Key() string {
	return s.opts.Key
}

// Filters returns a copy of the current list
func (s *Store) Filters() []models.FilterEntry {
	s.mu.Lock()
	defer s.mu.Unlock()
	return models.CloneEntries(s.filters)
}

// OnChange registers fn to receive the list after every change
func (s *Store) OnChange(fn func([]models.FilterEntry)) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.listeners = append(s.listeners, fn)
}

// SetFilters replaces the whole list
func (s *Store) SetFilters(entries []models.FilterEntry) error {
	for _, e := range entries {
		if err := s.parser.Validate(e); err != nil {
			return fmt.Errorf("invalid filter %q: %w", e.FilterID, err)
		}
	}
	s.mutate(func(list []models.FilterEntry) []models.FilterEntry {
		next := models.CloneEntries(entries)
		if next == nil {
			next = []models.FilterEntry{}
		}
		return next
	})
	return nil
}

// Add appends a new entry
func (s *Store) Add(entry models.FilterEntry) error {
	if err := s.parser.Validate(entry); err != nil {
		return fmt.Errorf("invalid filter: %w", err)
	}
	s.mutate(func(list []models.FilterEntry) []models.FilterEntry {
		return append(list, entry.Clone())
	})
	s.log.Debug("filter added", "filterId", entry.FilterID, "column", entry.ID)
	return nil
}

// Update applies patch to the entry right away
func (s *Store) Update(filterID string, patch filter.Patch) error {
	var found bool
	s.mutate(func(list []models.FilterEntry) []models.FilterEntry {
		i := filter.FindEntry(list, filterID)
		if i < 0 {
			return nil
		}
		found = true
		list[i] = patch.Apply(list[i])
		return list
	})
	if !found {
		return fmt.Errorf("%w: %s", ErrUnknownFilter, filterID)
	}
	return nil
}

// UpdateDebounced merges patch into the pending patch of the entry and
// applies it once the entry has been quiet for the debounce delay. The patch
// is applied to the list as it is at that moment.
func (s *Store) UpdateDebounced(filterID string, patch filter.Patch) {
	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return
	}
	s.pending[filterID] = s.pending[filterID].Merge(patch)
	s.mu.Unlock()

	s.debouncer.Call(filterID, func() {
		s.applyPending(filterID)
	})
}

func (s *Store) applyPending(filterID string) {
	s.mu.Lock()
	patch, ok := s.pending[filterID]
	delete(s.pending, filterID)
	s.mu.Unlock()
	if !ok || patch.IsZero() {
		return
	}

	if err := s.Update(filterID, patch); err != nil {
		s.log.Debug("dropping debounced update", "filterId", filterID, "error", err)
	}
}

// Remove deletes the entry with the given id
func (s *Store) Remove(filterID string) error {
	var found bool
	s.mutate(func(list []models.FilterEntry) []models.FilterEntry {
		i := filter.FindEntry(list, filterID)
		if i < 0 {
			return nil
		}
		found = true
		return append(list[:i], list[i+1:]...)
	})
	if !found {
		return fmt.Errorf("%w: %s", ErrUnknownFilter, filterID)
	}
	s.dropPending(filterID)
	return nil
}

// RemoveLast deletes the most recently appended entry
func (s *Store) RemoveLast() (models.FilterEntry, bool) {
	var removed models.FilterEntry
	var found bool
	s.mutate(func(list []models.FilterEntry) []models.FilterEntry {
		if len(list) == 0 {
			return nil
		}
		found = true
		removed = list[len(list)-1]
		return list[:len(list)-1]
	})
	if found {
		s.dropPending(removed.FilterID)
	}
	return removed, found
}

// Reset removes every filter. The query parameter is removed from the location.
func (s *Store) Reset() {
	s.mu.Lock()
	for id := range s.pending {
		s.debouncer.Cancel(id)
	}
	s.pending = make(map[string]filter.Patch)
	s.mu.Unlock()

	s.mutate(func(list []models.FilterEntry) []models.FilterEntry {
		return []models.FilterEntry{}
	})
}

// Sync replaces the list with what the location currently holds. It is used
// after navigation the store did not cause.
func (s *Store) Sync() {
	entries := s.read()

	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return
	}
	s.filters = entries
	snapshot := models.CloneEntries(entries)
	listeners := append([]func([]models.FilterEntry){}, s.listeners...)
	s.mu.Unlock()

	for _, fn := range listeners {
		fn(snapshot)
	}
}

// Flush applies pending debounced patches and writes the latest state now
func (s *Store) Flush() {
	s.debouncer.Flush()
	s.throttle.Flush()
}

// Close stops all timers. Pending work is dropped; call Flush first to keep it.
func (s *Store) Close() {
	s.mu.Lock()
	s.closed = true
	s.pending = make(map[string]filter.Patch)
	s.mu.Unlock()

	s.debouncer.Stop()
	s.throttle.Stop()
}

func (s *Store) dropPending(filterID string) {
	s.debouncer.Cancel(filterID)
	s.mu.Lock()
	delete(s.pending, filterID)
	s.mu.Unlock()
}

// mutate runs fn on a copy of the list. A nil result means nothing changed.
func (s *Store) mutate(fn func([]models.FilterEntry) []models.FilterEntry) {
	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return
	}
	next := fn(models.CloneEntries(s.filters))
	if next == nil {
		s.mu.Unlock()
		return
	}
	s.filters = next
	snapshot := models.CloneEntries(next)
	listeners := append([]func([]models.FilterEntry){}, s.listeners...)
	s.mu.Unlock()

	s.throttle.Do(s.write)
	for _, fn := range listeners {
		fn(snapshot)
	}
}

func (s *Store) read() []models.FilterEntry {
	return s.parser.Parse(s.loc.Query().Get(s.opts.Key))
}

// write serializes the latest list into the location
func (s *Store) write() {
	s.mu.Lock()
	entries := models.CloneEntries(s.filters)
	s.mu.Unlock()

	raw, remove := s.parser.Serialize(entries)
	q := s.loc.Query()
	if remove {
		q.Del(s.opts.Key)
	} else {
		q.Set(s.opts.Key, raw)
	}

	var err error
	if s.opts.Shallow {
		err = s.loc.Replace(q)
	} else {
		err = s.loc.Push(q)
	}
	if err != nil {
		s.log.Error("failed to write filter state", "error", err)
	}
}
