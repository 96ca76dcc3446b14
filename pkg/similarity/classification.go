package similarity

import (
	"fmt"
	"maps"
	"sync"
)

// Unclassified is reported for elements that were never assigned to a
// similarity set.
const Unclassified = -1

// ElementKey identifies an element across submissions. Authoring ids are only
// unique within a single diagram, so the submission is part of the key.
type ElementKey struct {
	SubmissionID int64
	ElementID    string
}

// ClassificationTable records which similarity set an element was assigned
// to. The table is written by the assessment process and read through
// immutable snapshots by comparisons, which keeps the diagrams themselves
// read-only.
type ClassificationTable struct {
	mu  sync.RWMutex
	ids map[ElementKey]int
}

// NewClassificationTable returns an empty table.
func NewClassificationTable() *ClassificationTable {
	return &ClassificationTable{ids: make(map[ElementKey]int)}
}

// Stamp assigns the similarity set id to all given elements.
func (t *ClassificationTable) Stamp(id int, keys ...ElementKey) error {
	if id < 0 {
		return fmt.Errorf("invalid similarity id %d", id)
	}

	t.mu.Lock()
	defer t.mu.Unlock()
	for _, k := range keys {
		t.ids[k] = id
	}
	return nil
}

// Forget removes the classification of all elements of a submission.
func (t *ClassificationTable) Forget(submissionID int64) {
	t.mu.Lock()
	defer t.mu.Unlock()
	for k := range t.ids {
		if k.SubmissionID == submissionID {
			delete(t.ids, k)
		}
	}
}

// Lookup returns the similarity set id of an element.
func (t *ClassificationTable) Lookup(key ElementKey) (int, bool) {
	t.mu.RLock()
	defer t.mu.RUnlock()
	id, ok := t.ids[key]
	return id, ok
}

// Len returns the number of classified elements.
func (t *ClassificationTable) Len() int {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return len(t.ids)
}

// Snapshot copies the current state. Later Stamp calls do not affect it.
func (t *ClassificationTable) Snapshot() Classifications {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return Classifications{ids: maps.Clone(t.ids)}
}

// Entries returns a copy of every classification.
func (t *ClassificationTable) Entries() map[ElementKey]int {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return maps.Clone(t.ids)
}

// Classifications is an immutable view of a ClassificationTable. The zero
// value classifies nothing.
type Classifications struct {
	ids map[ElementKey]int
}

// NewClassifications builds a view from stored assignments.
func NewClassifications(ids map[ElementKey]int) Classifications {
	return Classifications{ids: maps.Clone(ids)}
}

// Lookup returns the similarity set id of an element.
func (c Classifications) Lookup(submissionID int64, elementID string) (int, bool) {
	id, ok := c.ids[ElementKey{SubmissionID: submissionID, ElementID: elementID}]
	if !ok || id < 0 {
		return Unclassified, false
	}
	return id, true
}
