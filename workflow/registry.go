package workflow

import (
	"fmt"
	"sort"
	"sync"
)

// catalog is a named workflow index. The package keeps one default instance
// that cookbookctl uses to look up and diagram pipelines.
type catalog struct {
	mu        sync.RWMutex
	workflows map[string]*Workflow
}

func newCatalog() *catalog {
	return &catalog{workflows: make(map[string]*Workflow)}
}

func (c *catalog) register(name string, wf *Workflow) error {
	if wf == nil {
		return fmt.Errorf("nil workflow")
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	if _, exists := c.workflows[name]; exists {
		return fmt.Errorf("workflow %q already registered", name)
	}
	c.workflows[name] = wf
	return nil
}

func (c *catalog) get(name string) (*Workflow, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	wf, ok := c.workflows[name]
	return wf, ok
}

func (c *catalog) names() []string {
	c.mu.RLock()
	defer c.mu.RUnlock()
	out := make([]string, 0, len(c.workflows))
	for name := range c.workflows {
		out = append(out, name)
	}
	sort.Strings(out)
	return out
}

var defaultCatalog = newCatalog()

// Register adds a workflow under a name. Duplicate names and nil workflows
// are rejected.
func Register(name string, wf *Workflow) error {
	return defaultCatalog.register(name, wf)
}

// Get returns a registered workflow by name.
func Get(name string) (*Workflow, bool) {
	return defaultCatalog.get(name)
}

// List returns the registered workflow names, sorted.
func List() []string {
	return defaultCatalog.names()
}
