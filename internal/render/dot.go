// Package render emits visual artifacts for a relationship graph.
package render

import (
	"fmt"
	"io"
	"strings"

	"github.com/forensica/triage/internal/graph"
)

// Node fill colors matching the triage color code: threat files red,
// safe files green, tags blue.
const (
	colorThreatFile = "indianred1"
	colorSafeFile   = "palegreen"
	colorTag        = "lightblue"
)

// WriteDOT writes g as a Graphviz DOT document.
func WriteDOT(w io.Writer, g *graph.Graph) error {
	var b strings.Builder
	b.WriteString("graph evidence {\n")
	b.WriteString("  layout=neato;\n")
	b.WriteString("  overlap=false;\n")
	b.WriteString("  node [style=filled, fontsize=10];\n")

	for _, n := range g.Nodes() {
		shape := "ellipse"
		color := colorTag
		if n.Kind == graph.KindFile {
			shape = "box"
			if n.IsThreat {
				color = colorThreatFile
			} else {
				color = colorSafeFile
			}
		}
		fmt.Fprintf(&b, "  %s [shape=%s, fillcolor=%q];\n", quoteID(n.ID), shape, color)
	}

	for _, e := range g.Edges() {
		fmt.Fprintf(&b, "  %s -- %s;\n", quoteID(e[0]), quoteID(e[1]))
	}

	b.WriteString("}\n")
	_, err := io.WriteString(w, b.String())
	return err
}

// quoteID quotes a DOT node identifier, escaping embedded quotes.
func quoteID(id string) string {
	return `"` + strings.ReplaceAll(id, `"`, `\"`) + `"`
}
