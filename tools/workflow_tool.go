package tools

import (
	"context"
	"encoding/json"
	"fmt"

	wf "github.com/forgeai/agent-cookbook/workflow"
)

// WorkflowTool exposes a prebuilt workflow as a tool, so an agent can kick
// off a whole pipeline from one tool call. JSON input becomes the workflow
// payload; non-JSON input is passed through as a string.
type WorkflowTool struct {
	NameStr string
	Desc    string
	WF      *wf.Workflow
}

func (w *WorkflowTool) Name() string {
	return w.NameStr
}

func (w *WorkflowTool) Description() string {
	return w.Desc
}

func (w *WorkflowTool) Schema() map[string]interface{} {
	return map[string]interface{}{
		"type": "object",
		"properties": map[string]interface{}{
			"input": map[string]interface{}{
				"type":        "string",
				"description": "JSON payload for workflow input",
			},
		},
		"required": []string{"input"},
	}
}

// decodePayload interprets the tool input. A valid JSON document keeps its
// structure; anything else rides along as a raw string.
func decodePayload(input string) interface{} {
	if input == "" {
		return nil
	}
	var decoded any
	if err := json.Unmarshal([]byte(input), &decoded); err != nil {
		return input
	}
	return decoded
}

func (w *WorkflowTool) Execute(ctx context.Context, input string) (string, error) {
	if w.WF == nil {
		return "", fmt.Errorf("nil workflow")
	}

	out, err := w.WF.Run(ctx, decodePayload(input))
	if err != nil {
		return "", err
	}
	encoded, err := json.Marshal(out)
	if err != nil {
		return "", fmt.Errorf("encode workflow output: %w", err)
	}
	return string(encoded), nil
}

var _ Tool = (*WorkflowTool)(nil)
