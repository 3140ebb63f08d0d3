package machine

import (
	"errors"
	"fmt"
	"log/slog"
	"slices"
	"strings"

	"github.com/kode4food/ratchet/pkg/api"
	"github.com/kode4food/ratchet/pkg/log"
)

type (
	// Context owns the full set of records for one machine instance,
	// partitioned into the init set and one bucket per declared state.
	// It enforces write-time dependency checks and advance-time
	// completeness checks
	Context struct {
		schema  *Schema
		records map[api.Name]*Record
		byState map[api.State][]*Record
		order   []*Record
		init    []*Record
		logger  *slog.Logger
		current int
		loop    uint64
	}

	// MissingRecordsError reports every record bound to a state that
	// still lacks a value
	MissingRecordsError struct {
		State api.State
		Keys  []api.Name
	}
)

var (
	ErrUnknownKey      = errors.New("unknown record key")
	ErrDependencyState = errors.New("record bound to another state")
	ErrRecordsMissing  = errors.New("records missing values")
)

func (e *MissingRecordsError) Error() string {
	return fmt.Sprintf("%s: state %s: %s",
		ErrRecordsMissing, e.State, joinNames(e.Keys))
}

func (e *MissingRecordsError) Unwrap() error {
	return ErrRecordsMissing
}

func newContext(schema *Schema, logger *slog.Logger) *Context {
	res := &Context{
		schema:  schema,
		records: make(map[api.Name]*Record, len(schema.keys)),
		byState: map[api.State][]*Record{},
		logger:  logger,
	}
	for _, k := range schema.keys {
		res.track(newRecord(k))
	}
	return res
}

func (c *Context) track(r *Record) {
	c.records[r.key.Name] = r
	c.order = append(c.order, r)
	if r.key.IsInit() {
		c.init = append(c.init, r)
		return
	}
	c.byState[r.key.State] = append(c.byState[r.key.State], r)
}

// CurrentState returns the state the context currently occupies
func (c *Context) CurrentState() api.State {
	return c.schema.states[c.current]
}

// Loop returns the number of completed cycles
func (c *Context) Loop() uint64 {
	return c.loop
}

// Set stores a value for the named record. A record bound to a
// dependency state may only be written while the context occupies that
// state; writes are single-assignment per cycle
func (c *Context) Set(name api.Name, value any) error {
	r, ok := c.records[name]
	if !ok {
		return fmt.Errorf("%w: %s", ErrUnknownKey, name)
	}
	if s := r.key.State; s != "" && s != c.CurrentState() {
		return fmt.Errorf("%w: %s requires state %s, current is %s",
			ErrDependencyState, name, s, c.CurrentState())
	}
	return r.Set(value, c.mutated(name))
}

// Get returns the stored value for the named record, failing for
// unknown keys and unset records
func (c *Context) Get(name api.Name) (any, error) {
	r, ok := c.records[name]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrUnknownKey, name)
	}
	return r.Value()
}

// TryGet returns the stored value for the named record, or false when
// the key is unknown or the record is unset
func (c *Context) TryGet(name api.Name) (any, bool) {
	r, ok := c.records[name]
	if !ok || !r.present {
		return nil, false
	}
	return r.value, true
}

// Advance moves the context to the next state in cyclic order. It fails
// without changing state while any record bound to the current state is
// unset, reporting the full missing set. Wrapping past the last state
// resets every record and increments the loop counter
func (c *Context) Advance() error {
	cur := c.CurrentState()
	if missing := c.missingFor(cur); len(missing) > 0 {
		return &MissingRecordsError{State: cur, Keys: missing}
	}

	c.current++
	if c.current >= len(c.schema.states) {
		c.resetAll()
		c.current = 0
		c.loop++
		c.logger.Info("cycle complete",
			log.Loop(c.loop), log.State(c.CurrentState()))
	}
	return nil
}

// CheckInitialized returns true iff every init record holds a value
func (c *Context) CheckInitialized() bool {
	return len(c.MissingInit()) == 0
}

// MissingInit returns the sorted names of all unset init records
func (c *Context) MissingInit() []api.Name {
	return missingNames(c.init)
}

// Fork produces a fully independent copy of the context. With reset,
// every cloned record is cleared and the copy starts at the first
// declared state; otherwise values, current state, and loop counter
// carry over
func (c *Context) Fork(reset bool) *Context {
	res := &Context{
		schema:  c.schema,
		records: make(map[api.Name]*Record, len(c.records)),
		byState: map[api.State][]*Record{},
		logger:  c.logger,
	}
	for _, r := range c.order {
		nr := r.clone()
		if reset {
			nr.Reset()
		}
		res.track(nr)
	}
	if !reset {
		res.current = c.current
		res.loop = c.loop
	}
	return res
}

func (c *Context) missingFor(s api.State) []api.Name {
	return missingNames(c.byState[s])
}

func (c *Context) resetAll() {
	for _, r := range c.order {
		r.Reset()
	}
}

func (c *Context) mutated(name api.Name) func() {
	return func() {
		c.logger.Debug("record value mutated after set",
			log.Record(name), log.State(c.CurrentState()))
	}
}

func missingNames(records []*Record) []api.Name {
	var missing []api.Name
	for _, r := range records {
		if !r.present {
			missing = append(missing, r.key.Name)
		}
	}
	slices.Sort(missing)
	return missing
}

func joinNames(names []api.Name) string {
	strs := make([]string, len(names))
	for i, n := range names {
		strs[i] = string(n)
	}
	return strings.Join(strs, ", ")
}
