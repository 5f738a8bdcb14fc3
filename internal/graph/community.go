package graph

import "sort"

// community is a working cluster during greedy modularity merging.
type community struct {
	members []int // node indices, ascending
	degree  int   // sum of member degrees
}

// minIdx returns the community's lowest node-insertion index, used as the
// deterministic tie-break identity.
func (c *community) minIdx() int { return c.members[0] }

// Communities detects communities by greedy modularity maximization:
// communities start as singletons and the edge merge with the largest
// modularity gain is applied until no merge improves modularity. Ties are
// broken by the lowest pair of community minimum-insertion indices, so
// results are reproducible for a given insertion order. Communities are
// returned largest first (size ties again by insertion index), members in
// insertion order. Graphs with fewer than 2 nodes yield nil.
func (g *Graph) Communities() [][]string {
	n := len(g.nodes)
	if n < 2 {
		return nil
	}

	comms := make([]*community, n)
	belongs := make([]int, n) // node index -> position in comms (or merged target)
	for i := 0; i < n; i++ {
		comms[i] = &community{members: []int{i}, degree: len(g.adj[i])}
		belongs[i] = i
	}

	m := float64(g.edges)
	if m > 0 {
		for {
			best, ok := g.bestMerge(comms, belongs, m)
			if !ok {
				break
			}
			g.merge(comms, belongs, best.a, best.b)
		}
	}

	var out [][]string
	for _, c := range comms {
		if c == nil {
			continue
		}
		members := make([]string, len(c.members))
		for k, idx := range c.members {
			members[k] = g.nodes[idx].ID
		}
		out = append(out, members)
	}
	sort.SliceStable(out, func(a, b int) bool {
		if len(out[a]) != len(out[b]) {
			return len(out[a]) > len(out[b])
		}
		return g.index[out[a][0]] < g.index[out[b][0]]
	})
	return out
}

// mergeCandidate identifies a pair of community slots to merge.
type mergeCandidate struct {
	a, b int
	gain float64
}

// bestMerge finds the connected community pair whose merge yields the largest
// positive modularity gain. For communities i, j with E_ij inter-edges and
// degree sums D_i, D_j over m total edges:
//
//	deltaQ = E_ij/m - D_i*D_j/(2*m*m)
func (g *Graph) bestMerge(comms []*community, belongs []int, m float64) (mergeCandidate, bool) {
	// Count inter-community edges by walking the adjacency once.
	interEdges := make(map[[2]int]int)
	for i := 0; i < len(g.adj); i++ {
		ci := resolve(belongs, i)
		for j := range g.adj[i] {
			if j <= i {
				continue
			}
			cj := resolve(belongs, j)
			if ci == cj {
				continue
			}
			key := pairKey(ci, cj)
			interEdges[key]++
		}
	}

	best := mergeCandidate{a: -1, b: -1}
	for key, e := range interEdges {
		ca, cb := comms[key[0]], comms[key[1]]
		gain := float64(e)/m - float64(ca.degree)*float64(cb.degree)/(2*m*m)
		if gain <= 0 {
			continue
		}
		if best.a == -1 || gain > best.gain || (gain == best.gain && lessPair(comms, key, best)) {
			best = mergeCandidate{a: key[0], b: key[1], gain: gain}
		}
	}
	if best.a == -1 {
		return best, false
	}
	return best, true
}

// lessPair orders candidate pairs by their communities' lowest insertion
// indices, lexicographically.
func lessPair(comms []*community, key [2]int, cur mergeCandidate) bool {
	aLo, aHi := orderedMin(comms[key[0]].minIdx(), comms[key[1]].minIdx())
	bLo, bHi := orderedMin(comms[cur.a].minIdx(), comms[cur.b].minIdx())
	if aLo != bLo {
		return aLo < bLo
	}
	return aHi < bHi
}

func orderedMin(a, b int) (int, int) {
	if a < b {
		return a, b
	}
	return b, a
}

// merge folds community slot b into slot a.
func (g *Graph) merge(comms []*community, belongs []int, a, b int) {
	ca, cb := comms[a], comms[b]
	merged := make([]int, 0, len(ca.members)+len(cb.members))
	merged = append(merged, ca.members...)
	merged = append(merged, cb.members...)
	sort.Ints(merged)
	ca.members = merged
	ca.degree += cb.degree
	for _, idx := range cb.members {
		belongs[idx] = a
	}
	comms[b] = nil
}

// resolve maps a node index to its current community slot.
func resolve(belongs []int, i int) int {
	return belongs[i]
}

func pairKey(a, b int) [2]int {
	if b < a {
		a, b = b, a
	}
	return [2]int{a, b}
}
