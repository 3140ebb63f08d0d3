package machine_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kode4food/ratchet/pkg/api"
	"github.com/kode4food/ratchet/pkg/machine"
)

// Full device bring-up scenario: each state's operation writes the one
// record that allows leaving that state
func TestDeviceOnboarding(t *testing.T) {
	const (
		initState       api.State = "Init"
		selfCheck       api.State = "SelfCheck"
		loadMaterial    api.State = "LoadMaterial"
		startProduction api.State = "StartProduction"
		finish          api.State = "Finish"
	)

	reg, err := machine.NewRegistry(
		initState, selfCheck, loadMaterial, startProduction, finish)
	require.NoError(t, err)

	keys := []*api.Key{
		{Name: "ip", Type: api.TypeString},
		{Name: "port", Type: api.TypeNumber},
		{Name: "device_name", Type: api.TypeString},
		{Name: "connected", Type: api.TypeBoolean, State: initState},
		{Name: "self_check_result", Type: api.TypeBoolean, State: selfCheck},
		{Name: "material_batch", Type: api.TypeString, State: loadMaterial},
		{Name: "production_order", Type: api.TypeString,
			State: startProduction},
		{Name: "report", Type: api.TypeObject, State: finish},
	}
	for _, k := range keys {
		require.NoError(t, reg.RegisterKey(k))
	}

	bind := func(s api.State, name api.Name, value any) {
		err := reg.RegisterOperation(s, setOp(map[api.Name]any{name: value}))
		require.NoError(t, err)
	}
	bind(initState, "connected", true)
	bind(selfCheck, "self_check_result", true)
	bind(loadMaterial, "material_batch", "batch-42")
	bind(startProduction, "production_order", "po-7")
	bind(finish, "report", map[string]any{"ok": true})

	schema, err := reg.Finalize()
	require.NoError(t, err)

	m := schema.NewMachine()
	require.NoError(t, m.InitState("ip", "1.2.3.4"))
	require.NoError(t, m.InitState("port", 9000))
	require.NoError(t, m.InitState("device_name", "D1"))
	require.NoError(t, m.Initialize())

	expected := []api.State{selfCheck, loadMaterial, startProduction, finish}
	for _, want := range expected {
		res, err := m.MoveNext()
		require.NoError(t, err)
		require.Equal(t, api.ResultSuccess, res)
		assert.Equal(t, want, m.CurrentState())
	}
	assert.Equal(t, uint64(0), m.Loop())

	result, ok := m.Context().TryGet("self_check_result")
	require.True(t, ok)
	assert.Equal(t, true, result)

	// leaving Finish wraps to Init and starts the next cycle clean
	res, err := m.MoveNext()
	require.NoError(t, err)
	require.Equal(t, api.ResultSuccess, res)
	assert.Equal(t, initState, m.CurrentState())
	assert.Equal(t, uint64(1), m.Loop())
	_, ok = m.Context().TryGet("ip")
	assert.False(t, ok)
}
