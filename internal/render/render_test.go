package render

import (
	"bytes"
	"image/png"
	"strings"
	"testing"

	"github.com/forensica/triage/internal/graph"
)

func buildTestGraph() *graph.Graph {
	g := graph.New()
	g.AddFileNode("a_threat.txt", "file", true)
	g.AddFileNode("b_safe.txt", "file", false)
	g.AddTagNode("rifle")
	g.AddEdge("a_threat.txt", "rifle")
	g.AddEdge("b_safe.txt", "rifle")
	return g
}

func TestWriteDOT(t *testing.T) {
	var buf bytes.Buffer
	if err := WriteDOT(&buf, buildTestGraph()); err != nil {
		t.Fatalf("WriteDOT: %v", err)
	}
	out := buf.String()

	for _, want := range []string{
		"graph evidence {",
		`"a_threat.txt" [shape=box, fillcolor="indianred1"];`,
		`"b_safe.txt" [shape=box, fillcolor="palegreen"];`,
		`"rifle" [shape=ellipse, fillcolor="lightblue"];`,
		`"a_threat.txt" -- "rifle";`,
		`"b_safe.txt" -- "rifle";`,
	} {
		if !strings.Contains(out, want) {
			t.Errorf("DOT output missing %q:\n%s", want, out)
		}
	}
}

func TestWriteDOT_escapesQuotes(t *testing.T) {
	g := graph.New()
	g.AddTagNode(`say "hi"`)
	var buf bytes.Buffer
	if err := WriteDOT(&buf, g); err != nil {
		t.Fatalf("WriteDOT: %v", err)
	}
	if !strings.Contains(buf.String(), `"say \"hi\""`) {
		t.Errorf("quotes not escaped:\n%s", buf.String())
	}
}

func TestWritePNG(t *testing.T) {
	var buf bytes.Buffer
	if err := WritePNG(&buf, buildTestGraph(), 200); err != nil {
		t.Fatalf("WritePNG: %v", err)
	}
	img, err := png.Decode(&buf)
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	bounds := img.Bounds()
	if bounds.Dx() != 200 || bounds.Dy() != 200 {
		t.Errorf("bounds = %v, want 200x200", bounds)
	}
}

func TestWritePNG_emptyGraph(t *testing.T) {
	var buf bytes.Buffer
	if err := WritePNG(&buf, graph.New(), 0); err != nil {
		t.Fatalf("WritePNG: %v", err)
	}
	if _, err := png.Decode(&buf); err != nil {
		t.Fatalf("decode: %v", err)
	}
}
