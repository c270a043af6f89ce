package ai_test

import (
	"context"
	"encoding/json"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hearthfin/hearth_backend/internal/ai"
)

func echoTool(name string) ai.Tool {
	return ai.Tool{
		Name:        name,
		Description: "echoes its input",
		InputSchema: json.RawMessage(`{"type":"object"}`),
		Handler: func(ctx context.Context, input json.RawMessage) (any, error) {
			return map[string]string{"echo": string(input)}, nil
		},
	}
}

func TestRegistry_Register(t *testing.T) {
	registry := ai.NewRegistry()

	require.NoError(t, registry.Register(echoTool("get_balance")))

	err := registry.Register(echoTool("get_balance"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "already registered")

	err = registry.Register(echoTool(""))
	require.Error(t, err)

	err = registry.Register(ai.Tool{Name: "no_handler"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "no handler")
}

func TestRegistry_SpecsPreserveRegistrationOrder(t *testing.T) {
	registry := ai.NewRegistry()
	names := []string{"get_net_worth", "list_accounts", "search_transactions"}
	for _, name := range names {
		require.NoError(t, registry.Register(echoTool(name)))
	}

	specs := registry.Specs()
	require.Len(t, specs, len(names))
	for i, name := range names {
		assert.Equal(t, name, specs[i].Name)
	}
}

func TestRegistry_Dispatch(t *testing.T) {
	registry := ai.NewRegistry()
	require.NoError(t, registry.Register(echoTool("echo")))
	require.NoError(t, registry.Register(ai.Tool{
		Name:        "always_fails",
		Description: "fails",
		Handler: func(ctx context.Context, input json.RawMessage) (any, error) {
			return nil, errors.New("account not found")
		},
	}))

	result := registry.Dispatch(context.Background(), "echo", json.RawMessage(`{"accountID":"acc-1"}`))
	var echoed map[string]string
	require.NoError(t, json.Unmarshal([]byte(result), &echoed))
	assert.JSONEq(t, `{"accountID":"acc-1"}`, echoed["echo"])

	// Failures come back as payloads the model can read, never as Go errors.
	result = registry.Dispatch(context.Background(), "always_fails", nil)
	assert.JSONEq(t, `{"error":"account not found"}`, result)

	result = registry.Dispatch(context.Background(), "no_such_tool", nil)
	assert.JSONEq(t, `{"error":"unknown tool: no_such_tool"}`, result)
}
