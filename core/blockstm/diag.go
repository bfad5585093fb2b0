package blockstm

import (
	"fmt"
	"strings"
	"sync"

	"github.com/heimdalr/dag"

	"github.com/0xPolygon/txstatus/log"
)

// StallGraph is optional instrumentation a caller may attach alongside an
// ExecutionStatuses collection: a cumulative record of which transaction
// asked for a stall on which other transaction. Edges are only ever added;
// a later RemoveStall is not reflected in the graph.
// It has no bearing on coordinator correctness (the coordinator does not
// itself suspend workers, per spec.md §1) — it exists purely so an operator
// can see, after the fact, which dependency chain of stalls dominated a
// slow block, the same way the teacher's dag.go reports the longest
// execution path through a DAG of read/write conflicts.
type StallGraph struct {
	mu  sync.Mutex
	d   *dag.DAG
	ids map[int]string
}

// NewStallGraph returns an empty stall-dependency graph.
func NewStallGraph() *StallGraph {
	return &StallGraph{d: dag.NewDAG(), ids: make(map[int]string)}
}

func (g *StallGraph) vertex(idx int) string {
	if id, ok := g.ids[idx]; ok {
		return id
	}
	id, _ := g.d.AddVertex(idx)
	g.ids[idx] = id
	return id
}

// RecordStall records that requestedBy called AddStall(stalled) — i.e.
// requestedBy depends on stalled and is asking the coordinator to withhold
// stalled's scheduling until requestedBy calls RemoveStall. Call this
// alongside a successful ExecutionStatuses.AddStall.
func (g *StallGraph) RecordStall(stalled, requestedBy int) {
	g.mu.Lock()
	defer g.mu.Unlock()

	from := g.vertex(requestedBy)
	to := g.vertex(stalled)

	if err := g.d.AddEdge(from, to); err != nil {
		log.Warn("failed to add stall edge", "requestedBy", requestedBy, "stalled", stalled, "err", err)
	}
}

// LongestChain returns the longest stall-dependency chain recorded so far,
// ordered from the transaction that originated the stall pressure to the
// one furthest downstream, adapted from the teacher's DAG.LongestPath
// (core/blockstm/dag.go) with edge weight fixed at 1 (we have no per-stall
// timing to weigh by, unlike the teacher's execution-time weighted path).
func (g *StallGraph) LongestChain() []int {
	g.mu.Lock()
	defer g.mu.Unlock()

	vertices := g.d.GetVertices()
	depth := make(map[string]int, len(vertices))
	prev := make(map[string]string, len(vertices))

	order := make([]string, 0, len(vertices))
	for id := range vertices {
		order = append(order, id)
	}

	// Relax repeatedly until fixed point; the graph is a DAG (heimdalr/dag
	// rejects cycle-forming edges), so this terminates in at most
	// len(order) passes.
	for pass := 0; pass < len(order); pass++ {
		changed := false
		for _, id := range order {
			parents, _ := g.d.GetParents(id)
			for pid := range parents {
				if depth[pid]+1 > depth[id] {
					depth[id] = depth[pid] + 1
					prev[id] = pid
					changed = true
				}
			}
		}
		if !changed {
			break
		}
	}

	bestID, bestDepth := "", -1
	for id, d := range depth {
		if d > bestDepth {
			bestID, bestDepth = id, d
		}
	}
	if bestID == "" {
		return nil
	}

	var chain []string
	for id := bestID; id != ""; id = prev[id] {
		chain = append(chain, id)
	}

	result := make([]int, len(chain))
	for i, id := range chain {
		result[len(chain)-1-i] = vertices[id].(int)
	}

	return result
}

// Report renders the longest recorded stall chain as a human-readable line,
// in the style of the teacher's DAG.Report.
func (g *StallGraph) Report(out func(string)) {
	chain := g.LongestChain()
	if len(chain) == 0 {
		out("No stall dependencies recorded.")
		return
	}

	strs := make([]string, len(chain))
	for i, idx := range chain {
		strs[i] = fmt.Sprint(idx)
	}

	out(fmt.Sprintf("Longest stall chain (%d): %v", len(chain), strings.Join(strs, "->")))
}
