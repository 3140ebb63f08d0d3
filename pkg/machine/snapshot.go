package machine

import (
	"encoding/json"
	"errors"
	"fmt"

	"github.com/tidwall/gjson"

	"github.com/kode4food/ratchet/internal/util"
	"github.com/kode4food/ratchet/pkg/api"
)

var (
	ErrSnapshotEncode    = errors.New("failed to encode record value")
	ErrSnapshotDecode    = errors.New("failed to decode record value")
	ErrSnapshotKey       = errors.New("snapshot key not in schema")
	ErrSnapshotState     = errors.New("snapshot dependency state mismatch")
	ErrSnapshotConflict  = errors.New("snapshot target record already set")
	ErrSnapshotDuplicate = errors.New("snapshot key duplicated")
)

// Export produces the snapshot form of the context: one entry per
// record key in declaration order, unset records included with no value
func (c *Context) Export() (api.Snapshot, error) {
	res := make(api.Snapshot, 0, len(c.order))
	for _, r := range c.order {
		sr := &api.SnapshotRecord{Key: r.key.Name, State: r.key.State}
		if r.present {
			data, err := json.Marshal(r.value)
			if err != nil {
				return nil, fmt.Errorf("%w: %s: %w",
					ErrSnapshotEncode, r.key.Name, err)
			}
			sr.Value = data
		}
		res = append(res, sr)
	}
	return res, nil
}

// Import writes a snapshot's values into the context through the same
// single-assignment path used by Set. The whole import fails closed on
// an unknown or duplicated key, a dependency state differing from the
// schema's declaration, a value not matching the key's type, or a
// target record that already holds a value; nothing is written until
// every entry has been validated
func (c *Context) Import(snap api.Snapshot) error {
	seen := util.SetOf[api.Name]()
	for _, sr := range snap {
		r, ok := c.records[sr.Key]
		if !ok {
			return fmt.Errorf("%w: %s", ErrSnapshotKey, sr.Key)
		}
		if seen.Contains(sr.Key) {
			return fmt.Errorf("%w: %s", ErrSnapshotDuplicate, sr.Key)
		}
		seen.Add(sr.Key)
		if r.key.State != sr.State {
			return fmt.Errorf("%w: %s declares %q, snapshot has %q",
				ErrSnapshotState, sr.Key, r.key.State, sr.State)
		}
		if !sr.HasValue() {
			continue
		}
		if r.present {
			return fmt.Errorf("%w: %s", ErrSnapshotConflict, sr.Key)
		}
		if err := api.CheckJSON(string(sr.Value), r.key.Type); err != nil {
			return fmt.Errorf("%s: %w", sr.Key, err)
		}
		// records can never hold nil, so catch null before writing
		if gjson.ParseBytes(sr.Value).Type == gjson.Null {
			return fmt.Errorf("%w: %s", ErrNilValue, sr.Key)
		}
	}

	for _, sr := range snap {
		if !sr.HasValue() {
			continue
		}
		var value any
		if err := json.Unmarshal(sr.Value, &value); err != nil {
			return fmt.Errorf("%w: %s: %w", ErrSnapshotDecode, sr.Key, err)
		}
		if err := c.records[sr.Key].Set(value, c.mutated(sr.Key)); err != nil {
			return err
		}
	}
	return nil
}
