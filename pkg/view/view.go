/*
Package view keeps a sorted, filtered projection of an item source and
controls which field drives the ordering.

A View reads its items through the [Source] it was created with. Every change
of mode, pattern or source contents runs one full pass: the source is
snapshotted, filtered with the current pattern and stably sorted with the
comparator of the current mode. Queries observe the result of the last
complete pass; a pass never runs concurrently with a query.

	v := view.New(cat, view.WithMode(order.Alphabetic))
	v.SetPattern(match.Pattern{Text: "q,n"})
	for row := 0; row < v.Len(); row++ {
		fmt.Println(v.At(row).Name)
	}

Listeners registered with [View.Subscribe] are told about mode switches,
re-sorts and pattern changes after the pass has finished.
*/
package view

import (
	"slices"
	"sync"

	"github.com/charmbracelet/log"

	"github.com/bastiangx/appsort/internal/utils"
	"github.com/bastiangx/appsort/pkg/catalog"
	"github.com/bastiangx/appsort/pkg/match"
	"github.com/bastiangx/appsort/pkg/order"
)

// Source is the item collection a view projects.
type Source interface {
	Len() int
	At(i int) catalog.Item
}

// snapshotter is implemented by sources that can copy their items atomically.
type snapshotter interface {
	Snapshot() []catalog.Item
}

// versionedSource is implemented by sources with a generation counter and a
// transliteration prefix index, like [catalog.Catalog].
type versionedSource interface {
	Versioned() ([]catalog.Item, uint64)
	WithPrefixAt(prefix string, gen uint64) ([]int, bool)
}

// EventKind identifies a view notification.
type EventKind int

const (
	// EventModeChanged is sent when the sort field changed.
	EventModeChanged EventKind = iota
	// EventLayoutChanged is sent after every full re-sort.
	EventLayoutChanged
	// EventFilterChanged is sent after the pattern was replaced.
	EventFilterChanged
)

func (k EventKind) String() string {
	switch k {
	case EventModeChanged:
		return "mode-changed"
	case EventLayoutChanged:
		return "layout-changed"
	case EventFilterChanged:
		return "filter-changed"
	default:
		return "unknown"
	}
}

// Event is delivered to listeners.
type Event struct {
	Kind EventKind
	Mode order.Mode
	Rows int
}

// View is the mode controller. It is safe for concurrent use.
type View struct {
	src     Source
	field   order.Field
	matcher *match.Matcher
	items   []catalog.Item
	gen     uint64
	rows    []int
	mu      sync.RWMutex

	listeners map[int]func(Event)
	nextID    int
	lmu       sync.Mutex
}

// Option configures a View.
type Option func(*View)

// WithMode sets the initial ordering mode.
func WithMode(mode order.Mode) Option {
	return func(v *View) {
		v.field = order.FieldFor(mode)
	}
}

// WithPattern sets the initial filter pattern. An invalid pattern is logged
// and rejects every item, as with [View.SetPattern].
func WithPattern(p match.Pattern) Option {
	return func(v *View) {
		v.setMatcher(p)
	}
}

// New creates a view over src and runs the first pass.
func New(src Source, opts ...Option) *View {
	v := &View{
		src:       src,
		field:     order.FieldTransliterated,
		listeners: make(map[int]func(Event)),
	}
	v.setMatcher(match.Pattern{})
	for _, opt := range opts {
		opt(v)
	}
	v.refresh()
	return v
}

// SetMode switches the sort field. A mode-changed event is sent only when the
// field actually changed; the full re-sort and its layout event happen on
// every call.
func (v *View) SetMode(mode order.Mode) {
	v.mu.Lock()
	old := v.field
	v.field = order.FieldFor(mode)
	changed := old != v.field
	v.resort()
	rows := len(v.rows)
	v.mu.Unlock()

	if changed {
		log.Debugf("Sort role changed: %s -> %s", old, order.FieldFor(mode))
		v.emit(Event{Kind: EventModeChanged, Mode: mode, Rows: rows})
	}
	v.emit(Event{Kind: EventLayoutChanged, Mode: mode, Rows: rows})
}

// Mode returns the mode derived from the active sort field.
func (v *View) Mode() order.Mode {
	v.mu.RLock()
	defer v.mu.RUnlock()
	return order.ModeFor(v.field)
}

// SortRoleName returns the name of the active sort field.
func (v *View) SortRoleName() string {
	v.mu.RLock()
	defer v.mu.RUnlock()
	return v.field.String()
}

// SetPattern replaces the filter pattern and re-runs the pass. When the
// pattern does not compile the view shows no rows and the error is returned.
func (v *View) SetPattern(p match.Pattern) error {
	v.mu.Lock()
	err := v.setMatcher(p)
	v.refresh()
	mode, rows := order.ModeFor(v.field), len(v.rows)
	v.mu.Unlock()

	v.emit(Event{Kind: EventFilterChanged, Mode: mode, Rows: rows})
	return err
}

// Pattern returns the current filter pattern.
func (v *View) Pattern() match.Pattern {
	v.mu.RLock()
	defer v.mu.RUnlock()
	return v.matcher.Pattern()
}

// Invalidate re-reads the source and re-runs the pass. Call it after the
// source changed.
func (v *View) Invalidate() {
	v.mu.Lock()
	v.refresh()
	mode, rows := order.ModeFor(v.field), len(v.rows)
	v.mu.Unlock()

	v.emit(Event{Kind: EventLayoutChanged, Mode: mode, Rows: rows})
}

// Len returns the number of rows in view.
func (v *View) Len() int {
	v.mu.RLock()
	defer v.mu.RUnlock()
	return len(v.rows)
}

// At returns the item shown at row.
func (v *View) At(row int) catalog.Item {
	v.mu.RLock()
	defer v.mu.RUnlock()
	return v.items[v.rows[row]]
}

// SourceIndex returns the source position of the item shown at row.
func (v *View) SourceIndex(row int) int {
	v.mu.RLock()
	defer v.mu.RUnlock()
	return v.rows[row]
}

// Rows returns the items in view order.
func (v *View) Rows() []catalog.Item {
	v.mu.RLock()
	defer v.mu.RUnlock()
	out := make([]catalog.Item, len(v.rows))
	for i, pos := range v.rows {
		out[i] = v.items[pos]
	}
	return out
}

// SectionKeys returns the distinct uppercased first runes of the active sort
// field over the rows in view, skipping empty fields. Keys are returned in
// ascending order.
func (v *View) SectionKeys() []rune {
	v.mu.RLock()
	defer v.mu.RUnlock()

	mode := order.ModeFor(v.field)
	seen := make(map[rune]struct{})
	for _, pos := range v.rows {
		field := v.items[pos].SortField(mode)
		if field == "" {
			continue
		}
		seen[order.SectionRune(field)] = struct{}{}
	}

	keys := make([]rune, 0, len(seen))
	for r := range seen {
		keys = append(keys, r)
	}
	slices.Sort(keys)
	return keys
}

// Locate returns the first row whose transliteration (or display name, when
// there is none) starts with prefix, case-insensitively, or -1. Rows are
// those of the last pass; a source changed since then is not consulted.
func (v *View) Locate(prefix string) int {
	v.mu.RLock()
	defer v.mu.RUnlock()

	if src, ok := v.src.(versionedSource); ok {
		if positions, current := src.WithPrefixAt(prefix, v.gen); current {
			for row, pos := range v.rows {
				if _, found := slices.BinarySearch(positions, pos); found {
					return row
				}
			}
			return -1
		}
		log.Debugf("Source changed since last pass, scanning %d rows", len(v.rows))
	}

	for row, pos := range v.rows {
		it := v.items[pos]
		key := it.Transliterated
		if key == "" {
			key = it.Name
		}
		if utils.HasPrefixIgnoreCase(key, prefix) {
			return row
		}
	}
	return -1
}

// Subscribe registers fn for view events and returns a function removing it.
func (v *View) Subscribe(fn func(Event)) func() {
	v.lmu.Lock()
	defer v.lmu.Unlock()
	id := v.nextID
	v.nextID++
	v.listeners[id] = fn
	return func() {
		v.lmu.Lock()
		defer v.lmu.Unlock()
		delete(v.listeners, id)
	}
}

func (v *View) emit(ev Event) {
	v.lmu.Lock()
	ids := make([]int, 0, len(v.listeners))
	for id := range v.listeners {
		ids = append(ids, id)
	}
	slices.Sort(ids)
	fns := make([]func(Event), 0, len(ids))
	for _, id := range ids {
		fns = append(fns, v.listeners[id])
	}
	v.lmu.Unlock()

	for _, fn := range fns {
		fn(ev)
	}
}

// setMatcher must be called with mu held or before the view is shared.
func (v *View) setMatcher(p match.Pattern) error {
	m, err := match.Compile(p)
	if err != nil {
		log.Warnf("Filter pattern rejected: %v", err)
	}
	v.matcher = m
	return err
}

// refresh snapshots the source, filters and sorts. Callers hold mu.
func (v *View) refresh() {
	v.items, v.gen = snapshot(v.src)
	v.rows = v.rows[:0]
	for pos, it := range v.items {
		if v.matcher.Accepts(it.Candidate()) {
			v.rows = append(v.rows, pos)
		}
	}
	v.sortRows()
	log.Debugf("View refreshed: %d/%d rows, pattern=%q", len(v.rows), len(v.items), v.matcher.Pattern().Text)
}

// resort re-sorts all rows from source order. Callers hold mu.
func (v *View) resort() {
	slices.Sort(v.rows)
	v.sortRows()
}

func (v *View) sortRows() {
	mode := order.ModeFor(v.field)
	order.SortStable(v.rows, func(pos int) order.Keys {
		return v.items[pos].Keys()
	}, mode)
}

func snapshot(src Source) ([]catalog.Item, uint64) {
	switch s := src.(type) {
	case versionedSource:
		return s.Versioned()
	case snapshotter:
		return s.Snapshot(), 0
	}
	n := src.Len()
	items := make([]catalog.Item, n)
	for i := 0; i < n; i++ {
		items[i] = src.At(i)
	}
	return items, 0
}
