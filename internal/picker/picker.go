// Package picker implements a generic filterable/sortable list engine
// shared by every selection surface — theme, provider, model, character,
// persona, preset. Callers parameterize a single role-agnostic engine
// with a list of Items rather than hardcoding one picker per kind;
// sahilm/fuzzy provides ranked filtering.
package picker

import (
	"sort"
	"strings"

	"github.com/sahilm/fuzzy"
)

// Item is one entry in a Picker: an identity, a display label, and an
// opaque metadata payload the caller can type-assert in Inspect/apply
// callbacks.
type Item struct {
	ID       string
	Display  string
	Metadata any
}

// Picker is a stateless-filter, stateful-cursor list engine. It owns no
// domain knowledge: ApplySessionFunc/ApplyPersistFunc/InspectFunc are
// supplied by the caller (a mode) to give Enter/Alt+Enter/Ctrl+O meaning.
type Picker struct {
	items    []Item
	filtered []Item
	cursor   int
	query    string
	sortAsc  bool
	loading  bool

	ApplySessionFunc func(Item) error
	ApplyPersistFunc func(Item) error
	InspectFunc      func(Item)
}

// New returns a Picker over items, unfiltered, cursor at the first item
// whose ID equals selectedID (or 0 if selectedID is empty/not found).
func New(items []Item, selectedID string) *Picker {
	p := &Picker{items: items, filtered: items}
	if selectedID != "" {
		for i, it := range p.filtered {
			if it.ID == selectedID {
				p.cursor = i
				break
			}
		}
	}
	return p
}

// SetLoading toggles the loading state, shown by the caller as a spinner
// row while an asynchronous metadata fetch (e.g. model/provider lists)
// is in flight.
func (p *Picker) SetLoading(v bool) { p.loading = v }

// Loading reports whether an asynchronous metadata fetch is in flight.
func (p *Picker) Loading() bool { return p.loading }

// SetItems replaces the item set (e.g. once an asynchronous fetch
// resolves), preserving the current query and, where possible, the
// cursor's selected ID.
func (p *Picker) SetItems(items []Item) {
	selectedID := ""
	if sel := p.Selected(); sel != nil {
		selectedID = sel.ID
	}
	p.items = items
	p.refilter(selectedID)
}

// Query returns the current filter text.
func (p *Picker) Query() string { return p.query }

// SetQuery re-filters by substring match (case-insensitive), ranked by
// sahilm/fuzzy when the query is non-empty. Selection is preserved
// across the filter change when the previously selected item still
// matches.
func (p *Picker) SetQuery(query string) {
	selectedID := ""
	if sel := p.Selected(); sel != nil {
		selectedID = sel.ID
	}
	p.query = query
	p.refilter(selectedID)
}

func (p *Picker) refilter(preserveID string) {
	if p.query == "" {
		p.filtered = append([]Item(nil), p.items...)
	} else {
		displays := make([]string, len(p.items))
		for i, it := range p.items {
			displays[i] = it.Display
		}
		matches := fuzzy.Find(p.query, displays)
		p.filtered = make([]Item, 0, len(matches))
		lower := strings.ToLower(p.query)
		for _, m := range matches {
			if !strings.Contains(strings.ToLower(m.Str), lower) {
				continue
			}
			p.filtered = append(p.filtered, p.items[m.Index])
		}
	}
	if p.sortAsc {
		p.applySort()
	}

	p.cursor = 0
	if preserveID != "" {
		for i, it := range p.filtered {
			if it.ID == preserveID {
				p.cursor = i
				break
			}
		}
	}
}

// ToggleSort flips between registration order (the default) and
// alphabetical-by-display order.
func (p *Picker) ToggleSort() {
	p.sortAsc = !p.sortAsc
	selectedID := ""
	if sel := p.Selected(); sel != nil {
		selectedID = sel.ID
	}
	if p.sortAsc {
		p.applySort()
	} else {
		p.refilter(selectedID)
		return
	}
	p.cursor = 0
	if selectedID != "" {
		for i, it := range p.filtered {
			if it.ID == selectedID {
				p.cursor = i
				break
			}
		}
	}
}

func (p *Picker) applySort() {
	sort.SliceStable(p.filtered, func(i, j int) bool {
		return p.filtered[i].Display < p.filtered[j].Display
	})
}

// Items returns the filtered, possibly-sorted list currently shown.
func (p *Picker) Items() []Item { return p.filtered }

// Cursor returns the current cursor position into Items().
func (p *Picker) Cursor() int { return p.cursor }

// CursorUp/CursorDown move the cursor, clamping at the ends (no wrap).
func (p *Picker) CursorUp() {
	if p.cursor > 0 {
		p.cursor--
	}
}

func (p *Picker) CursorDown() {
	if p.cursor < len(p.filtered)-1 {
		p.cursor++
	}
}

// Selected returns the highlighted item, or nil if the filtered list is
// empty.
func (p *Picker) Selected() *Item {
	if len(p.filtered) == 0 {
		return nil
	}
	if p.cursor >= len(p.filtered) {
		p.cursor = len(p.filtered) - 1
	}
	return &p.filtered[p.cursor]
}

// ApplySession applies the selected item for this session only (Enter).
func (p *Picker) ApplySession() error {
	sel := p.Selected()
	if sel == nil || p.ApplySessionFunc == nil {
		return nil
	}
	return p.ApplySessionFunc(*sel)
}

// ApplyPersist applies the selected item and persists it to config
// (Alt+Enter/Ctrl+J).
func (p *Picker) ApplyPersist() error {
	sel := p.Selected()
	if sel == nil || p.ApplyPersistFunc == nil {
		return nil
	}
	return p.ApplyPersistFunc(*sel)
}

// Inspect opens the Inspect overlay (Ctrl+O) for the selected item.
func (p *Picker) Inspect() {
	sel := p.Selected()
	if sel == nil || p.InspectFunc == nil {
		return
	}
	p.InspectFunc(*sel)
}
