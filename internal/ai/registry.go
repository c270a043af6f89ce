// Package ai hosts the assistant boundary: the tool registry the model can
// call into and the conversation loop driving it.
package ai

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"

	aiport "github.com/hearthfin/hearth_backend/internal/core/ports/ai"
)

// Handler executes one tool call. The returned value is marshaled to JSON
// before going back to the model.
type Handler func(ctx context.Context, input json.RawMessage) (any, error)

// Tool is one registered capability: metadata for the model plus the typed
// handler that serves it.
type Tool struct {
	Name        string
	Description string
	InputSchema json.RawMessage
	Handler     Handler
}

// Registry maps tool names to handlers. Registration happens once at wiring
// time; dispatch is concurrent.
type Registry struct {
	mu    sync.RWMutex
	tools map[string]Tool
	order []string
}

// NewRegistry creates an empty Registry.
func NewRegistry() *Registry {
	return &Registry{tools: make(map[string]Tool)}
}

// Register adds a tool. Re-registering a name is a wiring bug and fails.
func (r *Registry) Register(tool Tool) error {
	if tool.Name == "" {
		return fmt.Errorf("tool name must not be empty")
	}
	if tool.Handler == nil {
		return fmt.Errorf("tool %q has no handler", tool.Name)
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	if _, exists := r.tools[tool.Name]; exists {
		return fmt.Errorf("tool %q already registered", tool.Name)
	}
	r.tools[tool.Name] = tool
	r.order = append(r.order, tool.Name)
	return nil
}

// Specs returns the tool descriptions in registration order, shaped for the
// chat client.
func (r *Registry) Specs() []aiport.ToolSpec {
	r.mu.RLock()
	defer r.mu.RUnlock()

	specs := make([]aiport.ToolSpec, 0, len(r.order))
	for _, name := range r.order {
		tool := r.tools[name]
		specs = append(specs, aiport.ToolSpec{
			Name:        tool.Name,
			Description: tool.Description,
			InputSchema: tool.InputSchema,
		})
	}
	return specs
}

// Dispatch runs the named tool and returns its result as a JSON string. An
// unknown name or a handler failure comes back as an error JSON payload, not
// a Go error: the model should see what went wrong and carry on.
func (r *Registry) Dispatch(ctx context.Context, name string, input json.RawMessage) string {
	r.mu.RLock()
	tool, ok := r.tools[name]
	r.mu.RUnlock()

	if !ok {
		return errorPayload(fmt.Sprintf("unknown tool: %s", name))
	}

	result, err := tool.Handler(ctx, input)
	if err != nil {
		return errorPayload(err.Error())
	}

	encoded, err := json.Marshal(result)
	if err != nil {
		return errorPayload(fmt.Sprintf("failed to encode tool result: %v", err))
	}
	return string(encoded)
}

func errorPayload(message string) string {
	encoded, _ := json.Marshal(map[string]string{"error": message})
	return string(encoded)
}
