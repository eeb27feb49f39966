package workflow

import (
	"fmt"
	"sort"
	"strings"
)

// MermaidOption configures Mermaid rendering.
type MermaidOption func(*mermaidConfig)

type mermaidConfig struct {
	direction      string // TD, LR, BT, RL
	edgeConditions bool   // label edges that carry a condition
}

// WithDirection sets the graph direction ("TD", "LR", "BT" or "RL").
func WithDirection(dir string) MermaidOption {
	return func(c *mermaidConfig) {
		dir = strings.TrimSpace(strings.ToUpper(dir))
		switch dir {
		case "TD", "LR", "BT", "RL":
			c.direction = dir
		}
	}
}

// WithConditionIndicators labels conditioned edges with a generic "cond"
// marker. The condition itself is a function and cannot be rendered.
func WithConditionIndicators(enabled bool) MermaidOption {
	return func(c *mermaidConfig) { c.edgeConditions = enabled }
}

// MermaidFlowchart renders the workflow graph as a Mermaid flowchart
// definition, starting with `graph TD` by default.
func (w *Workflow) MermaidFlowchart(opts ...MermaidOption) string {
	if w == nil || w.root == nil {
		return "graph TD\n"
	}

	cfg := mermaidConfig{direction: "TD"}
	for _, o := range opts {
		o(&cfg)
	}

	type edge struct {
		from  string
		to    string
		label string
	}
	nodes := make(map[string]string) // id -> display label
	edges := make([]edge, 0)

	// Compact ids per node pointer keep duplicate step names distinct.
	stepIDs := make(map[*step]string)
	mergeIDs := make(map[*mergeStep]string)
	idSeq := 0
	nextID := func() string {
		idSeq++
		return fmt.Sprintf("n%d", idSeq)
	}

	ensureStep := func(s *step) string {
		if s == nil {
			return ""
		}
		if id, ok := stepIDs[s]; ok {
			return id
		}
		id := nextID()
		stepIDs[s] = id
		nodes[id] = s.name
		return id
	}
	ensureMerge := func(m *mergeStep) string {
		if m == nil {
			return ""
		}
		if id, ok := mergeIDs[m]; ok {
			return id
		}
		id := nextID()
		mergeIDs[m] = id
		nodes[id] = m.name
		return id
	}

	visitedSteps := make(map[*step]bool)
	visitedMerges := make(map[*mergeStep]bool)

	// tails collects the terminal steps of a branch so merge edges can be
	// drawn from where each branch actually ends.
	var tails func(s *step, accum map[*step]struct{})
	tails = func(s *step, accum map[*step]struct{}) {
		cur := s
		for cur != nil {
			if len(cur.branches) == 0 && cur.next == nil {
				accum[cur] = struct{}{}
				return
			}
			if len(cur.branches) > 0 {
				for _, child := range cur.branches {
					tails(child, accum)
				}
				return
			}
			cur = cur.next
		}
	}

	var walk func(s *step)
	walk = func(s *step) {
		if s == nil || visitedSteps[s] {
			return
		}
		visitedSteps[s] = true

		sid := ensureStep(s)

		if s.next != nil {
			tid := ensureStep(s.next)
			label := ""
			if cfg.edgeConditions && s.next.cond != nil {
				label = "cond"
			}
			edges = append(edges, edge{from: sid, to: tid, label: label})
		}

		if len(s.branches) > 0 {
			for i, child := range s.branches {
				tid := ensureStep(child)
				label := ""
				if cfg.edgeConditions && len(s.branchConds) > i && s.branchConds[i] != nil {
					label = "cond"
				}
				edges = append(edges, edge{from: sid, to: tid, label: label})
			}
			if s.merge != nil {
				mid := ensureMerge(s.merge)
				ends := make(map[*step]struct{})
				for _, child := range s.branches {
					tails(child, ends)
				}
				for t := range ends {
					edges = append(edges, edge{from: ensureStep(t), to: mid})
				}
				if s.merge.next != nil {
					edges = append(edges, edge{from: mid, to: ensureStep(s.merge.next)})
				}
			}
		}

		walk(s.next)
		for _, child := range s.branches {
			walk(child)
		}
		if s.merge != nil && !visitedMerges[s.merge] {
			visitedMerges[s.merge] = true
			walk(s.merge.next)
		}
	}

	walk(w.root)

	nodeIDs := make([]string, 0, len(nodes))
	for id := range nodes {
		nodeIDs = append(nodeIDs, id)
	}
	sort.Strings(nodeIDs)
	sort.Slice(edges, func(i, j int) bool {
		if edges[i].from != edges[j].from {
			return edges[i].from < edges[j].from
		}
		if edges[i].to != edges[j].to {
			return edges[i].to < edges[j].to
		}
		return edges[i].label < edges[j].label
	})

	var b strings.Builder
	fmt.Fprintf(&b, "graph %s\n", cfg.direction)
	for _, id := range nodeIDs {
		label := strings.ReplaceAll(nodes[id], "\"", "\\\"")
		fmt.Fprintf(&b, "%s[\"%s\"]\n", id, label)
	}
	for _, e := range edges {
		if e.label != "" {
			fmt.Fprintf(&b, "%s -->|%s| %s\n", e.from, e.label, e.to)
		} else {
			fmt.Fprintf(&b, "%s --> %s\n", e.from, e.to)
		}
	}
	return b.String()
}
