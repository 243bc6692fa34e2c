package graph

import (
	"os"
	"strconv"

	"github.com/awalterschulze/gographviz"
	"github.com/pkg/errors"
)

// GraphvizEdges renders the given edges with their end nodes, edges in
// highlight are drawn green.
func (g *Graph) GraphvizEdges(edges []uint32, highlight map[uint32]bool) string {
	gv := gographviz.NewGraph()
	gv.SetName("G")
	gv.SetDir(true)
	gv.SetStrict(false)
	added := make(map[uint32]bool)
	addNode := func(v uint32) {
		if added[v] {
			return
		}
		added[v] = true
		attr := make(map[string]string)
		attr["color"] = "Black"
		attr["shape"] = "circle"
		attr["label"] = "\"" + strconv.Itoa(int(v)) + "\""
		gv.AddNode("G", strconv.Itoa(int(v)), attr)
	}
	for _, eID := range edges {
		e := g.Edge(eID)
		if e == nil {
			continue
		}
		addNode(e.StartNID)
		addNode(e.EndNID)
		attr := make(map[string]string)
		attr["color"] = "Blue"
		if highlight[eID] {
			attr["color"] = "Green"
			attr["penwidth"] = "3"
		}
		attr["label"] = "\"ID:" + strconv.Itoa(int(e.ID)) + " len:" + strconv.Itoa(g.Length(eID)) + "\""
		gv.AddEdge(strconv.Itoa(int(e.StartNID)), strconv.Itoa(int(e.EndNID)), true, attr)
	}
	return gv.String()
}

func (g *Graph) WriteGraphviz(edges []uint32, highlight map[uint32]bool, graphfn string) error {
	gfp, err := os.Create(graphfn)
	if err != nil {
		return errors.Wrapf(err, "[WriteGraphviz] create file: %s", graphfn)
	}
	defer gfp.Close()
	if _, err := gfp.WriteString(g.GraphvizEdges(edges, highlight)); err != nil {
		return errors.Wrapf(err, "[WriteGraphviz] write file: %s", graphfn)
	}
	return nil
}
