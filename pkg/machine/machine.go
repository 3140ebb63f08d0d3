package machine

import (
	"errors"
	"fmt"
	"log/slog"
	"sync/atomic"

	"github.com/google/uuid"

	"github.com/kode4food/ratchet/pkg/api"
	"github.com/kode4food/ratchet/pkg/log"
)

type (
	// Machine drives a context through its declared states by invoking
	// the operation bound to each state. Instances are not safe for
	// concurrent use; independent instances stamped out from one schema
	// may run concurrently
	Machine struct {
		schema *Schema
		ctx    *Context
		logger *slog.Logger
		uid    string
		serial uint64
		ready  bool
	}

	// Option configures a machine at construction
	Option func(*Machine)
)

// serials orders machine construction process-wide, for external
// correlation only
var serials atomic.Uint64

var (
	ErrNotInitialized = errors.New("machine not initialized")
	ErrNotInitRecord  = errors.New("record is bound to a state")
	ErrInitIncomplete = errors.New("init records missing values")
	ErrPreconditions  = errors.New("operation preconditions unmet")
	ErrInvalidResult  = errors.New("invalid operation result")
)

// WithLogger routes the machine's diagnostics to the provided logger
func WithLogger(logger *slog.Logger) Option {
	return func(m *Machine) {
		m.logger = logger
	}
}

// NewMachine stamps out an independent machine instance from the
// schema's template context
func (s *Schema) NewMachine(opts ...Option) *Machine {
	m := &Machine{
		schema: s,
		serial: serials.Add(1),
		uid:    uuid.NewString(),
		logger: s.logger,
	}
	for _, opt := range opts {
		opt(m)
	}
	m.ctx = s.template.Fork(true)
	m.ctx.logger = m.logger
	m.logger.Debug("machine created",
		log.MachineID(m.uid), log.Serial(m.serial),
		log.State(m.ctx.CurrentState()))
	return m
}

// UID returns the machine's correlation identifier
func (m *Machine) UID() string {
	return m.uid
}

// Serial returns the machine's process-wide construction ordinal
func (m *Machine) Serial() uint64 {
	return m.serial
}

// Context returns the machine's context
func (m *Machine) Context() *Context {
	return m.ctx
}

// CurrentState mirrors the context's current state
func (m *Machine) CurrentState() api.State {
	return m.ctx.CurrentState()
}

// Loop mirrors the context's completed-cycle counter
func (m *Machine) Loop() uint64 {
	return m.ctx.Loop()
}

// InitState seeds an init record before the machine is initialized
func (m *Machine) InitState(name api.Name, value any) error {
	r, ok := m.ctx.records[name]
	if !ok {
		return fmt.Errorf("%w: %s", ErrUnknownKey, name)
	}
	if !r.key.IsInit() {
		return fmt.Errorf("%w: %s requires state %s",
			ErrNotInitRecord, name, r.key.State)
	}
	return m.ctx.Set(name, value)
}

// Initialize validates that the machine is ready to run: every declared
// state has a bound operation, every init record holds a value, and
// every operation's own precondition passes. All violations are
// reported in one joined error. Initialize must succeed before the
// first MoveNext
func (m *Machine) Initialize() error {
	var errs []error
	for _, s := range m.schema.states {
		if _, ok := m.schema.ops[s]; !ok {
			errs = append(errs, fmt.Errorf("%w: %s", ErrOperationMissing, s))
		}
	}
	if missing := m.ctx.MissingInit(); len(missing) > 0 {
		errs = append(errs, fmt.Errorf("%w: %s",
			ErrInitIncomplete, joinNames(missing)))
	}
	for _, s := range m.schema.states {
		op, ok := m.schema.ops[s]
		if !ok {
			continue
		}
		if ok, missing := op.CheckInitialized(m.ctx); !ok {
			errs = append(errs, fmt.Errorf("%w: state %s: %s",
				ErrPreconditions, s, joinNames(missing)))
		}
	}
	if len(errs) > 0 {
		return errors.Join(errs...)
	}

	m.ready = true
	m.logger.Info("machine initialized",
		log.MachineID(m.uid), log.State(m.ctx.CurrentState()))
	return nil
}

// MoveNext runs the operation bound to the current state and, on
// success, advances to the next state in cyclic order. Retry holds the
// state and returns verbatim; the caller owns all waiting policy. An
// operation that reports success without producing its state's records
// is surfaced as an error with the full missing set
func (m *Machine) MoveNext() (api.Result, error) {
	if !m.ready {
		return api.ResultError, ErrNotInitialized
	}

	cur := m.ctx.CurrentState()
	res := m.schema.ops[cur].Run(m.ctx)

	switch res.Status {
	case api.ResultRetry:
		m.logger.Debug("operation deferred",
			log.MachineID(m.uid), log.State(cur),
			slog.String("message", res.Message))
		return api.ResultRetry, nil

	case api.ResultError:
		m.logger.Warn("operation failed",
			log.MachineID(m.uid), log.State(cur),
			slog.String("message", res.Message))
		return api.ResultError, fmt.Errorf("state %s: %s", cur, res.Message)

	case api.ResultSuccess:
		if err := m.ctx.Advance(); err != nil {
			m.logger.Warn("operation succeeded without required records",
				log.MachineID(m.uid), log.State(cur), log.Error(err))
			return api.ResultError, fmt.Errorf("state %s: %w", cur, err)
		}
		m.logger.Debug("state advanced",
			log.MachineID(m.uid), log.State(m.ctx.CurrentState()),
			slog.String("from", string(cur)))
		return api.ResultSuccess, nil

	default:
		return api.ResultError, fmt.Errorf("state %s: %w: %q",
			cur, ErrInvalidResult, res.Status)
	}
}

// Reset forces the machine back to the first declared state and clears
// every record, independent of a natural wrap. The loop counter is left
// untouched
func (m *Machine) Reset() {
	m.ctx.resetAll()
	m.ctx.current = 0
	m.logger.Info("machine reset",
		log.MachineID(m.uid), log.State(m.ctx.CurrentState()))
}

// Fork produces a new machine with a fresh identity, sharing the
// immutable schema but owning an independently forked context. A
// non-reset fork of an initialized machine is itself initialized
func (m *Machine) Fork(reset bool) *Machine {
	res := &Machine{
		schema: m.schema,
		ctx:    m.ctx.Fork(reset),
		serial: serials.Add(1),
		uid:    uuid.NewString(),
		logger: m.logger,
		ready:  m.ready && !reset,
	}
	m.logger.Debug("machine forked",
		log.MachineID(res.uid), log.Serial(res.serial),
		slog.String("from", m.uid), slog.Bool("reset", reset))
	return res
}
