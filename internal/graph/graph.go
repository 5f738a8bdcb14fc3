// Package graph builds the undirected bipartite file/tag relationship graph
// and computes degree centrality and modularity-based communities.
package graph

import (
	"sort"

	"github.com/forensica/triage/internal/models"
)

// NodeKind distinguishes file nodes from tag nodes.
type NodeKind string

const (
	// KindFile is a file-path node.
	KindFile NodeKind = "file"
	// KindTag is a tag node.
	KindTag NodeKind = "tag"
)

// Node is one graph node. Files carry their record type and threat label.
type Node struct {
	ID       string
	Kind     NodeKind
	FileType string
	IsThreat bool
}

// Graph is an undirected graph with insertion-ordered nodes. Edges connect
// files to tags only; duplicate edges and self-loops are ignored.
type Graph struct {
	nodes []Node
	index map[string]int
	adj   []map[int]struct{}
	edges int
}

// New returns an empty graph.
func New() *Graph {
	return &Graph{index: make(map[string]int)}
}

// AddFileNode adds a file node. Adding an existing ID is a no-op.
func (g *Graph) AddFileNode(path, fileType string, isThreat bool) {
	g.addNode(Node{ID: path, Kind: KindFile, FileType: fileType, IsThreat: isThreat})
}

// AddTagNode adds a tag node. Adding an existing ID is a no-op.
func (g *Graph) AddTagNode(name string) {
	g.addNode(Node{ID: name, Kind: KindTag})
}

func (g *Graph) addNode(n Node) {
	if _, ok := g.index[n.ID]; ok {
		return
	}
	g.index[n.ID] = len(g.nodes)
	g.nodes = append(g.nodes, n)
	g.adj = append(g.adj, make(map[int]struct{}))
}

// Has reports whether a node with the given ID exists.
func (g *Graph) Has(id string) bool {
	_, ok := g.index[id]
	return ok
}

// AddEdge connects two existing nodes. Unknown endpoints, self-loops, and
// duplicate edges are ignored.
func (g *Graph) AddEdge(a, b string) {
	i, ok := g.index[a]
	if !ok {
		return
	}
	j, ok := g.index[b]
	if !ok || i == j {
		return
	}
	if _, dup := g.adj[i][j]; dup {
		return
	}
	g.adj[i][j] = struct{}{}
	g.adj[j][i] = struct{}{}
	g.edges++
}

// NodeCount returns the number of nodes.
func (g *Graph) NodeCount() int { return len(g.nodes) }

// EdgeCount returns the number of edges.
func (g *Graph) EdgeCount() int { return g.edges }

// Nodes returns the nodes in insertion order.
func (g *Graph) Nodes() []Node {
	out := make([]Node, len(g.nodes))
	copy(out, g.nodes)
	return out
}

// Edges returns each undirected edge once as an ID pair, ordered by the
// insertion index of the lower endpoint then the higher.
func (g *Graph) Edges() [][2]string {
	out := make([][2]string, 0, g.edges)
	for i := range g.nodes {
		idxs := make([]int, 0, len(g.adj[i]))
		for j := range g.adj[i] {
			if j > i {
				idxs = append(idxs, j)
			}
		}
		sort.Ints(idxs)
		for _, j := range idxs {
			out = append(out, [2]string{g.nodes[i].ID, g.nodes[j].ID})
		}
	}
	return out
}

// Neighbors returns the IDs adjacent to id, in insertion order.
func (g *Graph) Neighbors(id string) []string {
	i, ok := g.index[id]
	if !ok {
		return nil
	}
	idxs := make([]int, 0, len(g.adj[i]))
	for j := range g.adj[i] {
		idxs = append(idxs, j)
	}
	sort.Ints(idxs)
	out := make([]string, len(idxs))
	for k, j := range idxs {
		out[k] = g.nodes[j].ID
	}
	return out
}

// Degree returns the degree of the node with the given ID, or 0 if unknown.
func (g *Graph) Degree(id string) int {
	i, ok := g.index[id]
	if !ok {
		return 0
	}
	return len(g.adj[i])
}

// DegreeCentrality returns each node's degree divided by (node count - 1).
// Graphs with fewer than 2 nodes yield an empty map.
func (g *Graph) DegreeCentrality() map[string]float64 {
	n := len(g.nodes)
	out := make(map[string]float64)
	if n < 2 {
		return out
	}
	for i, node := range g.nodes {
		out[node.ID] = float64(len(g.adj[i])) / float64(n-1)
	}
	return out
}

// TopCentral returns up to n nodes ranked by degree centrality, descending.
// Ties rank by node insertion order so results are reproducible.
func (g *Graph) TopCentral(n int) []models.CentralNode {
	centrality := g.DegreeCentrality()
	if len(centrality) == 0 || n <= 0 {
		return nil
	}
	order := make([]int, len(g.nodes))
	for i := range order {
		order[i] = i
	}
	sort.SliceStable(order, func(a, b int) bool {
		return centrality[g.nodes[order[a]].ID] > centrality[g.nodes[order[b]].ID]
	})
	if n > len(order) {
		n = len(order)
	}
	out := make([]models.CentralNode, n)
	for k := 0; k < n; k++ {
		id := g.nodes[order[k]].ID
		out[k] = models.CentralNode{Node: id, Centrality: centrality[id]}
	}
	return out
}

// Stats computes the graph summary reported in threat reports. Graphs with
// fewer than 2 nodes report zero communities and no centrality ranking.
func (g *Graph) Stats(topN int) models.GraphStats {
	stats := models.GraphStats{
		Nodes: g.NodeCount(),
		Edges: g.EdgeCount(),
	}
	if g.NodeCount() < 2 {
		return stats
	}
	stats.TopCentralNodes = g.TopCentral(topN)
	communities := g.Communities()
	stats.Communities = len(communities)
	if len(communities) > 0 {
		stats.LargestCommunitySize = len(communities[0])
	}
	return stats
}

// Build constructs the relationship graph for a record set. For each record,
// the file node is added first, then its tag nodes and file-tag edges, in
// input order; this insertion order is the community-detection tie-break.
func Build(records []models.Record, isThreat func(i int) bool) *Graph {
	g := New()
	for i := range records {
		g.AddFileNode(records[i].Path, records[i].Type, isThreat != nil && isThreat(i))
		for _, tag := range records[i].Tags {
			if !g.Has(tag) {
				g.AddTagNode(tag)
			}
			g.AddEdge(records[i].Path, tag)
		}
	}
	return g
}
