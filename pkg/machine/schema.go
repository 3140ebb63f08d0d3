package machine

import (
	"errors"
	"fmt"
	"log/slog"
	"maps"
	"slices"

	"github.com/kode4food/ratchet/internal/util"
	"github.com/kode4food/ratchet/pkg/api"
)

type (
	// Registry accumulates a machine kind's declared states, record
	// keys, and operations until finalized. Registration after
	// finalization fails
	Registry struct {
		ops    map[api.State]Operation
		names  util.Set[api.Name]
		states []api.State
		keys   []*api.Key
		final  bool
	}

	// Schema is the immutable result of finalizing a Registry. One
	// schema is built per machine kind and shared by every instance
	// stamped out from it
	Schema struct {
		ops      map[api.State]Operation
		template *Context
		states   []api.State
		keys     []*api.Key
		logger   *slog.Logger
	}
)

var (
	ErrNoStates         = errors.New("schema requires at least one state")
	ErrDuplicateState   = errors.New("duplicate state")
	ErrUnknownState     = errors.New("unknown state")
	ErrDuplicateKey     = errors.New("duplicate record key")
	ErrNilOperation     = errors.New("operation must not be nil")
	ErrOperationBound   = errors.New("operation already bound to state")
	ErrOperationMissing = errors.New("state has no bound operation")
	ErrFinalized        = errors.New("registry already finalized")
)

// NewRegistry creates a registry over the given states. Declaration
// order defines the forward-transition sequence; the first state is the
// wrap target
func NewRegistry(states ...api.State) (*Registry, error) {
	if len(states) == 0 {
		return nil, ErrNoStates
	}
	seen := util.SetOf[api.State]()
	for _, s := range states {
		if seen.Contains(s) {
			return nil, fmt.Errorf("%w: %s", ErrDuplicateState, s)
		}
		seen.Add(s)
	}
	return &Registry{
		states: slices.Clone(states),
		names:  util.SetOf[api.Name](),
		ops:    map[api.State]Operation{},
	}, nil
}

// RegisterKey adds a record key to the schema under assembly. Key names
// are globally unique and a dependency state must be declared
func (r *Registry) RegisterKey(key *api.Key) error {
	if r.final {
		return ErrFinalized
	}
	if err := key.Validate(); err != nil {
		return err
	}
	if r.names.Contains(key.Name) {
		return fmt.Errorf("%w: %s", ErrDuplicateKey, key.Name)
	}
	if !key.IsInit() && !slices.Contains(r.states, key.State) {
		return fmt.Errorf("%w: %s for record %q",
			ErrUnknownState, key.State, key.Name)
	}

	// the registry owns an immutable copy
	k := *key
	r.keys = append(r.keys, &k)
	r.names.Add(k.Name)
	return nil
}

// RegisterOperation binds an operation to a declared state, at most one
// per state
func (r *Registry) RegisterOperation(s api.State, op Operation) error {
	if r.final {
		return ErrFinalized
	}
	if op == nil {
		return fmt.Errorf("%w: state %s", ErrNilOperation, s)
	}
	if !slices.Contains(r.states, s) {
		return fmt.Errorf("%w: %s", ErrUnknownState, s)
	}
	if _, ok := r.ops[s]; ok {
		return fmt.Errorf("%w: %s", ErrOperationBound, s)
	}
	r.ops[s] = op
	return nil
}

// Finalize validates the assembled schema and freezes the registry.
// Every state lacking an operation is reported in one joined error
func (r *Registry) Finalize() (*Schema, error) {
	if r.final {
		return nil, ErrFinalized
	}

	var errs []error
	for _, s := range r.states {
		if _, ok := r.ops[s]; !ok {
			errs = append(errs, fmt.Errorf("%w: %s", ErrOperationMissing, s))
		}
	}
	if len(errs) > 0 {
		return nil, errors.Join(errs...)
	}

	r.final = true
	res := &Schema{
		states: slices.Clone(r.states),
		keys:   slices.Clone(r.keys),
		ops:    maps.Clone(r.ops),
		logger: slog.Default(),
	}
	res.template = newContext(res, res.logger)
	return res, nil
}

// States returns the declared states in transition order
func (s *Schema) States() []api.State {
	return slices.Clone(s.states)
}

// Keys returns the declared record keys in declaration order
func (s *Schema) Keys() []*api.Key {
	return slices.Clone(s.keys)
}

// Operation returns the operation bound to a state
func (s *Schema) Operation(state api.State) (Operation, bool) {
	op, ok := s.ops[state]
	return op, ok
}
