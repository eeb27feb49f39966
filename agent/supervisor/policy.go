package supervisor

import (
	"context"
	"sync"

	core "github.com/forgeai/agent-cookbook/agent/core"
)

// Policy is a strategy for running a prompt through a group of agents.
type Policy interface {
	Execute(ctx context.Context, prompt string, agents []core.Agent) (string, error)
}

// SequentialPolicy chains agents: each one receives the previous agent's
// output as its input, and the last output wins.
type SequentialPolicy struct{}

func (SequentialPolicy) Execute(ctx context.Context, prompt string, agents []core.Agent) (string, error) {
	input := prompt
	for _, a := range agents {
		out, err := a.Run(ctx, core.Message{Role: "user", Content: input})
		if err != nil {
			return "", err
		}
		input = out.Content
	}
	return input, nil
}

// FanOutFirst runs every agent in parallel on the same prompt and returns
// the first successful answer. If all fail, the last error is returned.
type FanOutFirst struct{}

func (FanOutFirst) Execute(ctx context.Context, prompt string, agents []core.Agent) (string, error) {
	type result struct {
		content string
		err     error
	}
	ch := make(chan result, len(agents))
	var wg sync.WaitGroup
	for _, a := range agents {
		wg.Add(1)
		go func(ag core.Agent) {
			defer wg.Done()
			out, err := ag.Run(ctx, core.Message{Role: "user", Content: prompt})
			if err != nil {
				ch <- result{err: err}
				return
			}
			ch <- result{content: out.Content}
		}(a)
	}

	var lastErr error
	for i := 0; i < len(agents); i++ {
		r := <-ch
		if r.err == nil {
			return r.content, nil
		}
		lastErr = r.err
	}
	wg.Wait()
	return "", lastErr
}
