// Package agentcookbook is a cookbook of LLM-agent example programs with the
// compact framework layer they run on. The framework lives in subpackages
// (`llm`, `agent`, `memory`, `rag`, `tools`, `workflow`, `server`,
// `observability`), each example lives under `examples/<name>` with a runnable
// main in `cmd/<name>`, and `cmd/cookbookctl` lists and serves the examples.
//
// Importers typically depend on the subpackages directly, for example:
//
//	import (
//	  "github.com/forgeai/agent-cookbook/llm"
//	  "github.com/forgeai/agent-cookbook/agent/core"
//	  "github.com/forgeai/agent-cookbook/examples/frauddetection"
//	)
//
// The root package intentionally keeps a small surface area to avoid
// stuttering and to keep subpackages composable.
package agentcookbook
