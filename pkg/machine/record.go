package machine

import (
	"errors"
	"fmt"

	"github.com/kode4food/ratchet/pkg/api"
)

type (
	// Mutable is implemented by record values that can report internal
	// mutation after being stored. The context subscribes a diagnostic
	// callback when such a value is set and cancels the subscription on
	// reset. Subscriptions are never carried across a clone
	Mutable interface {
		Subscribe(func()) (cancel func())
	}

	// Record is a single-assignment slot for one schema key. A record
	// may be written at most once between resets
	Record struct {
		key     *api.Key
		value   any
		cancel  func()
		present bool
	}
)

var (
	ErrNilValue        = errors.New("record value must not be nil")
	ErrValueAlreadySet = errors.New("record value already set")
	ErrValueNotSet     = errors.New("record value not set")
)

func newRecord(key *api.Key) *Record {
	return &Record{key: key}
}

// Key returns the schema key this record is bound to
func (r *Record) Key() *api.Key {
	return r.key
}

// HasValue returns whether the record currently holds a value
func (r *Record) HasValue() bool {
	return r.present
}

// Set stores a value in the record. It fails if the record already
// holds a value, if the value is nil, or if the value does not satisfy
// the key's declared type. A non-nil onMutate callback is subscribed
// when the value implements Mutable
func (r *Record) Set(value any, onMutate func()) error {
	if r.present {
		return fmt.Errorf("%w: %s", ErrValueAlreadySet, r.key.Name)
	}
	if value == nil {
		return fmt.Errorf("%w: %s", ErrNilValue, r.key.Name)
	}
	if err := api.CheckValue(value, r.key.Type); err != nil {
		return fmt.Errorf("%s: %w", r.key.Name, err)
	}

	r.value = value
	r.present = true

	if m, ok := value.(Mutable); ok && onMutate != nil {
		r.cancel = m.Subscribe(onMutate)
	}
	return nil
}

// Value returns the stored value or fails if the record is unset
func (r *Record) Value() (any, error) {
	if !r.present {
		return nil, fmt.Errorf("%w: %s", ErrValueNotSet, r.key.Name)
	}
	return r.value, nil
}

// Reset clears the record's value and presence and detaches any
// mutation subscription
func (r *Record) Reset() {
	if r.cancel != nil {
		r.cancel()
		r.cancel = nil
	}
	r.value = nil
	r.present = false
}

func (r *Record) clone() *Record {
	return &Record{
		key:     r.key,
		value:   r.value,
		present: r.present,
	}
}
