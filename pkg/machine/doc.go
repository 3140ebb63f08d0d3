// Package machine implements the cyclic record-gated state machine
//
// A machine kind is assembled once through a Registry: declared states,
// typed record keys, and one Operation per state. Finalizing the
// Registry yields an immutable Schema from which independent Machine
// instances are stamped out by forking. A machine may not leave a state
// until every record bound to that state holds a value; wrapping past
// the last state clears all records and begins the next cycle
package machine
