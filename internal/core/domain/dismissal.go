package domain

import (
	"encoding/json"
	"sort"
)

// DismissedSet holds the candidate ids a reviewer has marked as reviewed.
// It is session state owned by the caller, not part of the snapshot.
type DismissedSet map[CandidateID]struct{}

// NewDismissedSet builds a set from the given ids.
func NewDismissedSet(ids ...CandidateID) DismissedSet {
	set := make(DismissedSet, len(ids))
	for _, id := range ids {
		set[id] = struct{}{}
	}
	return set
}

// Dismiss adds id to the set. Dismissing twice is a no-op.
func (d DismissedSet) Dismiss(id CandidateID) {
	d[id] = struct{}{}
}

// Restore removes id from the set.
func (d DismissedSet) Restore(id CandidateID) {
	delete(d, id)
}

// Has reports whether id has been dismissed. A nil set has nothing dismissed.
func (d DismissedSet) Has(id CandidateID) bool {
	_, ok := d[id]
	return ok
}

// Clone returns an independent copy.
func (d DismissedSet) Clone() DismissedSet {
	out := make(DismissedSet, len(d))
	for id := range d {
		out[id] = struct{}{}
	}
	return out
}

// IDs returns the dismissed ids in lexical order.
func (d DismissedSet) IDs() []CandidateID {
	ids := make([]CandidateID, 0, len(d))
	for id := range d {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })
	return ids
}

// MarshalJSON encodes the set as a sorted array of ids.
func (d DismissedSet) MarshalJSON() ([]byte, error) {
	return json.Marshal(d.IDs())
}

// UnmarshalJSON decodes an array of ids.
func (d *DismissedSet) UnmarshalJSON(data []byte) error {
	var ids []CandidateID
	if err := json.Unmarshal(data, &ids); err != nil {
		return err
	}
	*d = NewDismissedSet(ids...)
	return nil
}
