package machine_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kode4food/ratchet/pkg/api"
	"github.com/kode4food/ratchet/pkg/machine"
)

func TestNewRegistry(t *testing.T) {
	_, err := machine.NewRegistry()
	assert.ErrorIs(t, err, machine.ErrNoStates)

	_, err = machine.NewRegistry(alpha, beta, alpha)
	assert.ErrorIs(t, err, machine.ErrDuplicateState)

	reg, err := machine.NewRegistry(alpha, beta)
	require.NoError(t, err)
	assert.NotNil(t, reg)
}

func TestRegisterKeyErrors(t *testing.T) {
	reg := testRegistry(t)

	err := reg.RegisterKey(&api.Key{Name: "seed", Type: api.TypeString})
	assert.ErrorIs(t, err, machine.ErrDuplicateKey)

	err = reg.RegisterKey(&api.Key{Name: "stray", State: "delta"})
	assert.ErrorIs(t, err, machine.ErrUnknownState)

	err = reg.RegisterKey(&api.Key{Type: api.TypeString})
	assert.ErrorIs(t, err, api.ErrKeyNameEmpty)

	err = reg.RegisterKey(&api.Key{Name: "bad", Type: "integer"})
	assert.ErrorIs(t, err, api.ErrInvalidValueType)
}

func TestRegisterOperationErrors(t *testing.T) {
	reg := testRegistry(t)
	op := setOp(nil)

	assert.ErrorIs(t, reg.RegisterOperation("delta", op),
		machine.ErrUnknownState)
	assert.ErrorIs(t, reg.RegisterOperation(alpha, nil),
		machine.ErrNilOperation)

	require.NoError(t, reg.RegisterOperation(alpha, op))
	assert.ErrorIs(t, reg.RegisterOperation(alpha, op),
		machine.ErrOperationBound)
}

func TestFinalizeReportsAllMissingOps(t *testing.T) {
	reg := testRegistry(t)
	require.NoError(t, reg.RegisterOperation(alpha, setOp(nil)))

	_, err := reg.Finalize()
	require.ErrorIs(t, err, machine.ErrOperationMissing)
	assert.Contains(t, err.Error(), "beta")
	assert.Contains(t, err.Error(), "gamma")
}

func TestFinalizeLocksRegistry(t *testing.T) {
	reg := testRegistry(t)
	bindTestOps(t, reg)

	_, err := reg.Finalize()
	require.NoError(t, err)

	err = reg.RegisterKey(&api.Key{Name: "late", Type: api.TypeString})
	assert.ErrorIs(t, err, machine.ErrFinalized)
	assert.ErrorIs(t, reg.RegisterOperation(alpha, setOp(nil)),
		machine.ErrFinalized)

	_, err = reg.Finalize()
	assert.ErrorIs(t, err, machine.ErrFinalized)
}

func TestSchemaAccessors(t *testing.T) {
	schema := testSchema(t)

	assert.Equal(t, []api.State{alpha, beta, gamma}, schema.States())
	assert.Len(t, schema.Keys(), 6)

	op, ok := schema.Operation(beta)
	assert.True(t, ok)
	assert.NotNil(t, op)

	_, ok = schema.Operation("delta")
	assert.False(t, ok)
}
