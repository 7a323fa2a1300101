// Package catalog provides a file-backed item collection. A TOML catalog
// declares facet controls and items; the Store serves them to the filter
// controller and announces reloads, and the Watcher refreshes the Store when
// the file changes on disk.
package catalog

import (
	"errors"
	"fmt"
	"maps"
	"os"
	"slices"
	"sync"
	"time"

	"github.com/pelletier/go-toml/v2"
	"github.com/rs/zerolog"

	"facetgrip/internal/domain"
)

// Entry is one catalog item
type Entry struct {
	ID    string
	Title string
	Text  []string
	Tags  map[string][]string
}

// SearchFragments returns the title followed by the text fragments
func (e *Entry) SearchFragments() []string {
	fragments := make([]string, 0, len(e.Text)+1)
	if e.Title != "" {
		fragments = append(fragments, e.Title)
	}
	return append(fragments, e.Text...)
}

// String returns the title, or the id for untitled entries
func (e *Entry) String() string {
	if e.Title != "" {
		return e.Title
	}
	return e.ID
}

// FacetTags returns the tags the entry carries for a facet key
func (e *Entry) FacetTags(key string) []string {
	return e.Tags[key]
}

func (e *Entry) sameContent(other *Entry) bool {
	return e.ID == other.ID &&
		e.Title == other.Title &&
		slices.Equal(e.Text, other.Text) &&
		maps.EqualFunc(e.Tags, other.Tags, slices.Equal[[]string])
}

type catalogFile struct {
	Facets []facetDoc `toml:"facet"`
	Items  []itemDoc  `toml:"item"`
}

type facetDoc struct {
	Key  string   `toml:"key"`
	Name string   `toml:"name"`
	Tags []tagDoc `toml:"tag"`
}

type tagDoc struct {
	Value string `toml:"value"`
	Label string `toml:"label"`
}

type itemDoc struct {
	ID    string              `toml:"id"`
	Title string              `toml:"title"`
	Text  []string            `toml:"text"`
	Tags  map[string][]string `toml:"tags"`
}

// Parse decodes and validates a catalog document
func Parse(data []byte) ([]*Entry, []domain.FacetControl, error) {
	var doc catalogFile
	if err := toml.Unmarshal(data, &doc); err != nil {
		return nil, nil, &ParseError{Err: err}
	}

	facets := make([]domain.FacetControl, 0, len(doc.Facets))
	facetKeys := make(map[string]struct{}, len(doc.Facets))
	for i, f := range doc.Facets {
		if f.Key == "" {
			return nil, nil, NewValidationError(fmt.Sprintf("facet[%d].key", i), "key is required")
		}
		if _, dup := facetKeys[f.Key]; dup {
			return nil, nil, NewValidationError(fmt.Sprintf("facet[%d].key", i), fmt.Sprintf("duplicate facet key '%s'", f.Key))
		}
		facetKeys[f.Key] = struct{}{}

		control := domain.FacetControl{Key: f.Key, Name: f.Name}
		if control.Name == "" {
			control.Name = f.Key
		}
		for _, tag := range f.Tags {
			if tag.Value == "" {
				continue
			}
			control.Tags = append(control.Tags, domain.TagControl{Value: tag.Value, Label: tag.Label})
		}
		facets = append(facets, control)
	}

	entries := make([]*Entry, 0, len(doc.Items))
	ids := make(map[string]struct{}, len(doc.Items))
	for i, it := range doc.Items {
		if it.ID == "" {
			return nil, nil, NewValidationError(fmt.Sprintf("item[%d].id", i), "id is required")
		}
		if _, dup := ids[it.ID]; dup {
			return nil, nil, NewValidationError(fmt.Sprintf("item[%d].id", i), fmt.Sprintf("duplicate item id '%s'", it.ID))
		}
		ids[it.ID] = struct{}{}
		entries = append(entries, &Entry{ID: it.ID, Title: it.Title, Text: it.Text, Tags: it.Tags})
	}

	return entries, facets, nil
}

// Store serves a catalog file. Enumeration re-stats the file and reloads it
// when it changed on disk, so a poll over Count notices edits even when no
// file event was delivered. Entries whose content did not change keep their
// handle across reloads; listeners hear about every successful reload.
type Store struct {
	path   string
	logger zerolog.Logger

	mu      sync.RWMutex
	entries []*Entry
	byID    map[string]*Entry
	facets  []domain.FacetControl
	modTime time.Time
	size    int64

	listenersMu sync.Mutex
	listeners   map[uint64]func()
	nextID      uint64
}

// Option configures a Store
type Option func(*Store)

// WithLogger sets the logger
func WithLogger(logger zerolog.Logger) Option {
	return func(s *Store) { s.logger = logger }
}

// Open loads the catalog at path
func Open(path string, opts ...Option) (*Store, error) {
	s := &Store{path: path, logger: zerolog.Nop(), listeners: make(map[uint64]func())}
	for _, opt := range opts {
		opt(s)
	}
	if err := s.Refresh(); err != nil {
		return nil, err
	}
	return s, nil
}

// Path returns the catalog file path
func (s *Store) Path() string {
	return s.path
}

// Refresh reloads the catalog unconditionally
func (s *Store) Refresh() error {
	info, err := os.Stat(s.path)
	if errors.Is(err, os.ErrNotExist) {
		return fmt.Errorf("%w: %s", ErrCatalogNotFound, s.path)
	}
	if err != nil {
		return fmt.Errorf("failed to stat catalog: %w", err)
	}
	return s.load(info)
}

// Items returns the current entries as item handles
func (s *Store) Items() []domain.Item {
	s.reloadIfStale()

	s.mu.RLock()
	defer s.mu.RUnlock()
	items := make([]domain.Item, len(s.entries))
	for i, e := range s.entries {
		items[i] = e
	}
	return items
}

// Count returns the number of entries
func (s *Store) Count() int {
	s.reloadIfStale()

	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.entries)
}

// Facets returns the declared facet controls in declaration order
func (s *Store) Facets() []domain.FacetControl {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return append([]domain.FacetControl(nil), s.facets...)
}

// Subscribe registers a listener called after each successful reload.
// Reloads can happen inside Items and Count, so listeners run on their own
// goroutine and may call back into whoever is enumerating.
func (s *Store) Subscribe(listener func()) func() {
	s.listenersMu.Lock()
	defer s.listenersMu.Unlock()

	id := s.nextID
	s.nextID++
	s.listeners[id] = listener

	return func() {
		s.listenersMu.Lock()
		defer s.listenersMu.Unlock()
		delete(s.listeners, id)
	}
}

func (s *Store) notify() {
	s.listenersMu.Lock()
	listeners := make([]func(), 0, len(s.listeners))
	for _, l := range s.listeners {
		listeners = append(listeners, l)
	}
	s.listenersMu.Unlock()

	for _, l := range listeners {
		go l()
	}
}

func (s *Store) reloadIfStale() {
	info, err := os.Stat(s.path)
	if err != nil {
		// Keep serving the last good catalog
		s.logger.Debug().Err(err).Str("path", s.path).Msg("catalog stat failed")
		return
	}

	s.mu.RLock()
	stale := !info.ModTime().Equal(s.modTime) || info.Size() != s.size
	s.mu.RUnlock()
	if !stale {
		return
	}

	if err := s.load(info); err != nil {
		s.logger.Warn().Err(err).Str("path", s.path).Msg("catalog reload failed, keeping previous contents")
	}
}

func (s *Store) load(info os.FileInfo) error {
	data, err := os.ReadFile(s.path)
	if err != nil {
		return fmt.Errorf("failed to read catalog: %w", err)
	}

	entries, facets, err := Parse(data)
	if err != nil {
		var parseErr *ParseError
		if errors.As(err, &parseErr) {
			parseErr.Path = s.path
		}
		// Remember the stamp so a broken file is not re-parsed on every poll
		s.mu.Lock()
		s.modTime, s.size = info.ModTime(), info.Size()
		s.mu.Unlock()
		return err
	}

	s.mu.Lock()
	byID := make(map[string]*Entry, len(entries))
	reused := 0
	for i, e := range entries {
		if old, ok := s.byID[e.ID]; ok && old.sameContent(e) {
			entries[i] = old
			reused++
		}
		byID[e.ID] = entries[i]
	}
	s.entries = entries
	s.byID = byID
	s.facets = facets
	s.modTime, s.size = info.ModTime(), info.Size()
	s.mu.Unlock()

	s.logger.Debug().
		Str("path", s.path).
		Int("items", len(entries)).
		Int("unchanged", reused).
		Int("facets", len(facets)).
		Msg("catalog loaded")
	s.notify()
	return nil
}
