// Package store holds the single active flow dataset and the cursor state
// built on top of it: the active filter, the last materialized result set and
// the analyst's notes.
package store

import (
	"FlowScope/internal/filter"
	"FlowScope/internal/model"
)

// Store is the process-wide engine state. It is a single-writer object: the
// dispatching caller invokes one operation at a time, so the store itself
// carries no locking. Operations that may run off the dispatch goroutine must
// work on a Snapshot instead.
type Store struct {
	path       string
	records    []*model.Flow
	active     filter.Node
	lastResult []*model.Flow
	notes      []string
}

// Snapshot is an immutable view of the record sequence and active filter,
// safe to hand to a background scan while ingestion may replace the live
// sequence.
type Snapshot struct {
	Records []*model.Flow
	Filter  filter.Node
}

// New creates an empty store whose active filter matches all flows.
func New() *Store {
	return &Store{active: filter.All}
}

// SetPath remembers the flow table a subsequent build will read.
func (s *Store) SetPath(path string) { s.path = path }

// Path returns the loaded flow table path, or "" when none is loaded.
func (s *Store) Path() string { return s.path }

// ClearRecords discards the record sequence. A failed load leaves the store
// in this state.
func (s *Store) ClearRecords() {
	s.records = nil
}

// Replace installs a freshly ingested record sequence. The previous sequence
// is discarded, not merged, and the active filter resets to match-all.
func (s *Store) Replace(records []*model.Flow) {
	s.records = records
	s.active = filter.All
}

// Records returns the live record sequence. Callers must not mutate it.
func (s *Store) Records() []*model.Flow { return s.records }

// Len returns the number of loaded records.
func (s *Store) Len() int { return len(s.records) }

// SetFilter installs a new active filter. It persists across operations
// until explicitly replaced.
func (s *Store) SetFilter(n filter.Node) { s.active = n }

// Filter returns the active filter.
func (s *Store) Filter() filter.Node { return s.active }

// SetResult overwrites the last result set with a copy of r. Only
// query-style reads call this; pure reporting reads leave it untouched.
func (s *Store) SetResult(r []*model.Flow) {
	s.lastResult = make([]*model.Flow, len(r))
	copy(s.lastResult, r)
}

// LastResult returns the most recent explicit query/graph match list, the
// input to export.
func (s *Store) LastResult() []*model.Flow { return s.lastResult }

// AddNote appends a free-text annotation. Notes accumulate for the process
// lifetime; there is no deletion.
func (s *Store) AddNote(text string) { s.notes = append(s.notes, text) }

// Notes returns all annotations in insertion order.
func (s *Store) Notes() []string { return s.notes }

// Snapshot copies the record sequence slice and captures the active filter.
// Flow records are immutable, so the snapshot shares them.
func (s *Store) Snapshot() Snapshot {
	records := make([]*model.Flow, len(s.records))
	copy(records, s.records)
	return Snapshot{Records: records, Filter: s.active}
}
