// Package workflow provides a small step pipeline for orchestrated examples:
// linear chains, conditional branches fanned out from a step, and a merge
// node that combines branch outputs before the chain continues.
package workflow

import (
	"context"
	"time"
)

// StepFunc executes one step. It receives the previous step's output and
// returns the next value on the chain.
type StepFunc func(ctx context.Context, input any) (any, error)

// ConditionFunc gates a step or a branch edge.
type ConditionFunc func(ctx context.Context, input any, previousOutput any) bool

// MergeFunc combines the outputs of the branches that actually ran.
type MergeFunc func(ctx context.Context, inputs []any) (any, error)

// Event is one execution event, streamed during Run when requested.
type Event struct {
	Type      string    `json:"type"` // "start_step", "end_step", "error"
	Step      string    `json:"step"`
	Status    string    `json:"status"` // "ok" or "error"
	Timestamp time.Time `json:"timestamp"`
	Output    any       `json:"output,omitempty"`
	Error     string    `json:"error,omitempty"`
}

// Option configures a Run.
type Option func(*runConfig)

type runConfig struct {
	events chan<- Event
}

// WithEvents streams execution events to the channel during Run. Sends are
// non-blocking; a full channel drops events rather than stalling the run.
func WithEvents(events chan<- Event) Option { return func(rc *runConfig) { rc.events = events } }

type step struct {
	name        string
	fn          StepFunc
	silent      bool
	cond        ConditionFunc
	next        *step
	branches    []*step
	branchConds []ConditionFunc
	merge       *mergeStep
}

type mergeStep struct {
	name string
	fn   MergeFunc
	next *step
}

// Builder assembles a workflow graph through a fluent API.
type Builder struct {
	root         *step
	current      *step
	branchParent *step
	onBranchEdge bool
	branchEdge   int
}

// New creates an empty builder.
func New() *Builder { return &Builder{} }

// Branch starts a standalone branch builder rooted at a single step. The
// result is attached to a parent workflow via Builder.Branch.
func Branch(name string, fn StepFunc) *Builder {
	return New().Step(name, fn)
}

// Step appends a step. The first step becomes the root.
func (b *Builder) Step(name string, fn StepFunc) *Builder {
	s := &step{name: name, fn: fn}
	if b.root == nil {
		b.root = s
	} else {
		b.current.next = s
	}
	b.current = s
	b.branchParent = nil
	b.onBranchEdge = false
	return b
}

// Then is an alias for Step.
func (b *Builder) Then(name string, fn StepFunc) *Builder { return b.Step(name, fn) }

// When conditions the most recently added edge. After Branch it gates the
// last attached branch edge; after Step or Then it gates the current step.
func (b *Builder) When(cond ConditionFunc) *Builder {
	if cond == nil {
		return b
	}
	if b.onBranchEdge && b.branchParent != nil && b.branchEdge >= 0 {
		parent := b.branchParent
		if b.branchEdge < len(parent.branches) {
			if len(parent.branchConds) == 0 {
				parent.branchConds = make([]ConditionFunc, len(parent.branches))
			}
			parent.branchConds[b.branchEdge] = cond
		}
		return b
	}
	if b.current != nil {
		b.current.cond = cond
	}
	return b
}

// Branch fans the given branch builders out from the current step. Follow
// with Merge to combine their outputs.
func (b *Builder) Branch(branches ...*Builder) *Builder {
	if b.current == nil {
		return b
	}
	parent := b.current
	for _, child := range branches {
		if child == nil || child.root == nil {
			continue
		}
		parent.branches = append(parent.branches, child.root)
		b.branchParent = parent
		b.onBranchEdge = true
		b.branchEdge = len(parent.branches) - 1
	}
	return b
}

// Merge attaches a merge step that receives every executed branch output.
// Further Then calls chain after the merge.
func (b *Builder) Merge(name string, fn MergeFunc) *Builder {
	if b.current == nil || b.current.merge != nil {
		return b
	}
	b.current.merge = &mergeStep{name: name, fn: fn}

	// Passthrough node so the chain can continue after the merge. The merge
	// step already reports events under this name, so the passthrough stays
	// silent.
	pass := &step{name: name, silent: true, fn: func(ctx context.Context, in any) (any, error) { return in, nil }}
	b.current.merge.next = pass
	b.current = pass
	b.branchParent = nil
	b.onBranchEdge = false
	return b
}

// Build finalizes the graph.
func (b *Builder) Build() *Workflow { return &Workflow{root: b.root} }

// Workflow executes a built graph.
type Workflow struct {
	root *step
}

// Run walks the graph from the root. A nil or empty workflow passes the
// input through unchanged.
func (w *Workflow) Run(ctx context.Context, input any, opts ...Option) (any, error) {
	rc := &runConfig{}
	for _, o := range opts {
		o(rc)
	}
	if w == nil || w.root == nil {
		return input, nil
	}
	return w.exec(ctx, w.root, input, rc)
}

func (w *Workflow) exec(ctx context.Context, s *step, in any, rc *runConfig) (any, error) {
	cur := s
	prev := in
	for cur != nil {
		if cur.cond != nil && !cur.cond(ctx, in, prev) {
			// Skipped step: carry the previous output forward.
			if cur.next == nil && len(cur.branches) == 0 {
				return prev, nil
			}
			in = prev
			cur = cur.next
			continue
		}

		if !cur.silent {
			emit(rc, Event{Type: "start_step", Step: cur.name, Status: "ok", Timestamp: time.Now()})
		}
		out, err := cur.fn(ctx, prev)
		if err != nil {
			emit(rc, Event{Type: "error", Step: cur.name, Status: "error", Timestamp: time.Now(), Error: err.Error()})
			return nil, err
		}
		if !cur.silent {
			emit(rc, Event{Type: "end_step", Step: cur.name, Status: "ok", Timestamp: time.Now(), Output: out})
		}

		if len(cur.branches) > 0 {
			results := make([]any, 0, len(cur.branches))
			for i, child := range cur.branches {
				if len(cur.branchConds) > i && cur.branchConds[i] != nil {
					if !cur.branchConds[i](ctx, out, out) {
						continue
					}
				}
				childOut, err := w.exec(ctx, child, out, rc)
				if err != nil {
					return nil, err
				}
				results = append(results, childOut)
			}

			if cur.merge != nil {
				emit(rc, Event{Type: "start_step", Step: cur.merge.name, Status: "ok", Timestamp: time.Now()})
				merged, err := cur.merge.fn(ctx, results)
				if err != nil {
					emit(rc, Event{Type: "error", Step: cur.merge.name, Status: "error", Timestamp: time.Now(), Error: err.Error()})
					return nil, err
				}
				emit(rc, Event{Type: "end_step", Step: cur.merge.name, Status: "ok", Timestamp: time.Now(), Output: merged})
				prev = merged
				cur = cur.merge.next
				continue
			}

			// No merge: the last executed branch wins.
			if len(results) > 0 {
				return results[len(results)-1], nil
			}
			return out, nil
		}

		prev = out
		cur = cur.next
	}
	return prev, nil
}

func emit(rc *runConfig, e Event) {
	if rc == nil || rc.events == nil {
		return
	}
	select {
	case rc.events <- e:
	default:
	}
}
