package api

import "encoding/json"

type (
	// SnapshotRecord is the exported form of a single record slot. The
	// value is the raw JSON encoding of the stored value and is omitted
	// entirely for unset records
	SnapshotRecord struct {
		Key   Name            `json:"key"`
		State State           `json:"dependency_state,omitempty"`
		Value json.RawMessage `json:"value,omitempty"`
	}

	// Snapshot is the exported form of a full context, one entry per
	// record key in declaration order, unset records included
	Snapshot []*SnapshotRecord
)

// HasValue returns whether the snapshot record carries a value
func (r *SnapshotRecord) HasValue() bool {
	return len(r.Value) > 0
}
