package machine

import "github.com/kode4food/ratchet/pkg/api"

type (
	// Operation is one state's unit of work, contributed by the
	// embedding application and bound to exactly one declared state
	Operation interface {
		// CheckInitialized reports any extra precondition beyond the
		// generic per-state completeness check, returning the names of
		// the records it finds wanting
		CheckInitialized(*Context) (bool, []api.Name)

		// Run performs the state's work, typically writing the records
		// bound to the current state. It must never advance the machine
		// itself; that happens only after Run reports success
		Run(*Context) api.RunResult
	}

	// OperationFunc adapts a bare run function into an Operation with an
	// always-ok precondition
	OperationFunc func(*Context) api.RunResult
)

func (f OperationFunc) CheckInitialized(*Context) (bool, []api.Name) {
	return true, nil
}

func (f OperationFunc) Run(c *Context) api.RunResult {
	return f(c)
}
