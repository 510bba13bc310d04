package discovery

import (
	"strconv"
	"strings"
)

// State is the fog-of-war condition of one grid cell.
type State uint8

const (
	// Shroud marks a cell light has never reached.
	Shroud State = iota
	// Explored marks a discovered cell that is not currently lit.
	Explored
	// Visible marks a currently lit cell.
	Visible
)

// Fog tracks per-cell discovery for one grid. While persistence is enabled
// (the default), discovery only accumulates: a cell that was ever Visible
// never falls back past Explored.
//
// Fog is not safe for concurrent use; responses are applied on the frame
// loop that reads it.
type Fog struct {
	Rows, Cols int

	cells   []State
	persist bool
}

// NewFog creates an all-shroud grid with persistence enabled.
func NewFog(cols, rows int) *Fog {
	if cols < 0 {
		cols = 0
	}
	if rows < 0 {
		rows = 0
	}
	return &Fog{
		Rows:    rows,
		Cols:    cols,
		cells:   make([]State, cols*rows),
		persist: true,
	}
}

// SetPersistence controls whether discovery outlives current visibility.
// With persistence off, cells drop back to shroud as light moves away.
func (f *Fog) SetPersistence(on bool) {
	f.persist = on
}

// At returns the state of one cell. Out-of-range coordinates read as shroud.
func (f *Fog) At(col, row int) State {
	if col < 0 || col >= f.Cols || row < 0 || row >= f.Rows {
		return Shroud
	}
	return f.cells[row*f.Cols+col]
}

// Discovered reports whether light has ever reached the cell.
func (f *Fog) Discovered(col, row int) bool {
	return f.At(col, row) != Shroud
}

// DiscoveredCount returns how many cells have ever been lit.
func (f *Fog) DiscoveredCount() int {
	count := 0
	for _, s := range f.cells {
		if s != Shroud {
			count++
		}
	}
	return count
}

// Apply merges one sampling response. Previously visible cells demote to
// explored (or shroud without persistence), then the response's cells become
// visible. Applying responses in any order yields the same discovered set.
func (f *Fog) Apply(resp Response) {
	demoted := Explored
	if !f.persist {
		demoted = Shroud
	}
	for i, s := range f.cells {
		if s == Visible {
			f.cells[i] = demoted
		}
	}

	for _, key := range resp.Visible {
		col, row, ok := parseKey(key)
		if !ok || col < 0 || col >= f.Cols || row < 0 || row >= f.Rows {
			continue
		}
		f.cells[row*f.Cols+col] = Visible
	}
}

// parseKey splits a "col,row" cell key. Malformed keys are skipped by the
// caller rather than reported.
func parseKey(key string) (col, row int, ok bool) {
	comma := strings.IndexByte(key, ',')
	if comma < 0 {
		return 0, 0, false
	}
	col, err := strconv.Atoi(key[:comma])
	if err != nil {
		return 0, 0, false
	}
	row, err = strconv.Atoi(key[comma+1:])
	if err != nil {
		return 0, 0, false
	}
	return col, row, true
}
