package machine_test

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/kode4food/ratchet/pkg/api"
	"github.com/kode4food/ratchet/pkg/machine"
)

const (
	alpha api.State = "alpha"
	beta  api.State = "beta"
	gamma api.State = "gamma"
)

func testRegistry(t *testing.T) *machine.Registry {
	t.Helper()
	reg, err := machine.NewRegistry(alpha, beta, gamma)
	require.NoError(t, err)
	keys := []*api.Key{
		{Name: "seed", Type: api.TypeString},
		{Name: "blob"},
		{Name: "a1", Type: api.TypeString, State: alpha},
		{Name: "b1", Type: api.TypeNumber, State: beta},
		{Name: "b2", Type: api.TypeBoolean, State: beta},
		{Name: "g1", State: gamma},
	}
	for _, k := range keys {
		require.NoError(t, reg.RegisterKey(k))
	}
	return reg
}

func setOp(values map[api.Name]any) machine.OperationFunc {
	return func(c *machine.Context) api.RunResult {
		for n, v := range values {
			if err := c.Set(n, v); err != nil {
				return api.Failf("%s", err)
			}
		}
		return api.OK()
	}
}

func bindTestOps(t *testing.T, reg *machine.Registry) {
	t.Helper()
	require.NoError(t, reg.RegisterOperation(alpha,
		setOp(map[api.Name]any{"a1": "done"})))
	require.NoError(t, reg.RegisterOperation(beta,
		setOp(map[api.Name]any{"b1": 42, "b2": true})))
	require.NoError(t, reg.RegisterOperation(gamma,
		setOp(map[api.Name]any{"g1": "fin"})))
}

func testSchema(t *testing.T) *machine.Schema {
	t.Helper()
	reg := testRegistry(t)
	bindTestOps(t, reg)
	schema, err := reg.Finalize()
	require.NoError(t, err)
	return schema
}

func testMachine(t *testing.T) *machine.Machine {
	t.Helper()
	m := testSchema(t).NewMachine()
	require.NoError(t, m.InitState("seed", "s0"))
	require.NoError(t, m.InitState("blob", "anything"))
	require.NoError(t, m.Initialize())
	return m
}
