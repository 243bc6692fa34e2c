package graph

import (
	"fmt"

	"github.com/pkg/errors"
)

// IDs below MinID are reserved, 0 marks an absent node or edge.
const MinID = 2

type DBGNode struct {
	ID       uint32
	Conj     uint32   // conjugate node ID
	Incoming []uint32 // IDs of edges ending at the node
	Outgoing []uint32 // IDs of edges starting at the node
	Ks       []byte   // (k)-mer shared by all adjacent edges, nil until the first edge is attached
	Data     VertexData
}

func (n *DBGNode) String() string {
	return fmt.Sprintf("ID:%d Conj:%d Incoming:%v Outgoing:%v\n", n.ID, n.Conj, n.Incoming, n.Outgoing)
}

type DBGEdge struct {
	ID       uint32
	StartNID uint32 // start node ID
	EndNID   uint32 // end node ID
	Conj     uint32 // reverse complement edge ID
	Ks       []byte
}

func (e *DBGEdge) String() string {
	return fmt.Sprintf("eID:%d StartNID:%d EndNID:%d Conj:%d el:%d\n", e.ID, e.StartNID, e.EndNID, e.Conj, len(e.Ks))
}

func (e *DBGEdge) GetSeqLen() int {
	return len(e.Ks)
}

// Graph is a conjugate de Bruijn graph: every node and edge has a
// reverse complement partner, consecutive edges overlap by K bases.
// It is read-only once loaded.
type Graph struct {
	DataMaster
	nodesArr []DBGNode
	edgesArr []DBGEdge
	nodeNum  int
	edgeNum  int
}

func NewGraph(k int) *Graph {
	g := &Graph{DataMaster: DataMaster{K: k}}
	g.nodesArr = make([]DBGNode, MinID)
	g.edgesArr = make([]DBGEdge, MinID)
	return g
}

func (g *Graph) Node(v uint32) *DBGNode {
	if int(v) >= len(g.nodesArr) || g.nodesArr[v].ID == 0 {
		return nil
	}
	return &g.nodesArr[v]
}

func (g *Graph) Edge(e uint32) *DBGEdge {
	if int(e) >= len(g.edgesArr) || g.edgesArr[e].ID == 0 {
		return nil
	}
	return &g.edgesArr[e]
}

func (g *Graph) mustEdge(e uint32) *DBGEdge {
	ed := g.Edge(e)
	if ed == nil {
		panic(fmt.Sprintf("[Graph] edge %d not found", e))
	}
	return ed
}

func (g *Graph) Start(e uint32) uint32 { return g.mustEdge(e).StartNID }
func (g *Graph) End(e uint32) uint32   { return g.mustEdge(e).EndNID }
func (g *Graph) Seq(e uint32) []byte   { return g.mustEdge(e).Ks }

// Length is the number of k+1-mers of the edge, len(seq) - K.
func (g *Graph) Length(e uint32) int {
	return g.DataMaster.Length(g.mustEdge(e).Ks)
}

func (g *Graph) Conjugate(e uint32) uint32 { return g.mustEdge(e).Conj }

func (g *Graph) ConjugateNode(v uint32) uint32 {
	nd := g.Node(v)
	if nd == nil {
		panic(fmt.Sprintf("[ConjugateNode] node %d not found", v))
	}
	return nd.Conj
}

func (g *Graph) Outgoing(v uint32) []uint32 {
	if nd := g.Node(v); nd != nil {
		return nd.Outgoing
	}
	return nil
}

func (g *Graph) Incoming(v uint32) []uint32 {
	if nd := g.Node(v); nd != nil {
		return nd.Incoming
	}
	return nil
}

func (g *Graph) NodeNum() int { return g.nodeNum }
func (g *Graph) EdgeNum() int { return g.edgeNum }

// Edges returns all edge IDs, conjugates included, in increasing order.
func (g *Graph) Edges() []uint32 {
	arr := make([]uint32, 0, g.edgeNum)
	for i := MinID; i < len(g.edgesArr); i++ {
		if g.edgesArr[i].ID != 0 {
			arr = append(arr, g.edgesArr[i].ID)
		}
	}
	return arr
}

// Nodes returns all node IDs, conjugates included, in increasing order.
func (g *Graph) Nodes() []uint32 {
	arr := make([]uint32, 0, g.nodeNum)
	for i := MinID; i < len(g.nodesArr); i++ {
		if g.nodesArr[i].ID != 0 {
			arr = append(arr, g.nodesArr[i].ID)
		}
	}
	return arr
}

// IsForward reports whether e is the representative of its conjugate pair.
func (g *Graph) IsForward(e uint32) bool {
	ed := g.mustEdge(e)
	return ed.ID <= ed.Conj
}

func (g *Graph) IsForwardNode(v uint32) bool {
	return v <= g.ConjugateNode(v)
}

func (g *Graph) growNodes(id uint32) {
	for int(id) >= len(g.nodesArr) {
		g.nodesArr = append(g.nodesArr, DBGNode{})
	}
}

func (g *Graph) growEdges(id uint32) {
	for int(id) >= len(g.edgesArr) {
		g.edgesArr = append(g.edgesArr, DBGEdge{})
	}
}

// AddVertexWithID adds the node pair (id, conj). An existing pair is kept.
func (g *Graph) AddVertexWithID(id, conj uint32) error {
	if id < MinID || conj < MinID {
		return errors.Errorf("[AddVertexWithID] node IDs must be >= %d, got %d/%d", MinID, id, conj)
	}
	if nd := g.Node(id); nd != nil {
		if nd.Conj != conj {
			return errors.Errorf("[AddVertexWithID] node %d already paired with %d, not %d", id, nd.Conj, conj)
		}
		return nil
	}
	g.growNodes(id)
	g.growNodes(conj)
	g.nodesArr[id] = DBGNode{ID: id, Conj: conj, Data: NewVertexData(uint32(g.K))}
	g.nodeNum++
	if conj != id {
		g.nodesArr[conj] = DBGNode{ID: conj, Conj: id, Data: NewVertexData(uint32(g.K))}
		g.nodeNum++
	}
	return nil
}

// AddVertex adds a fresh node pair and returns the forward node ID.
func (g *Graph) AddVertex() uint32 {
	id := uint32(len(g.nodesArr))
	if err := g.AddVertexWithID(id, id+1); err != nil {
		panic(err)
	}
	return id
}

func (g *Graph) attach(v uint32, kmer []byte) error {
	nd := g.Node(v)
	if nd.Ks == nil {
		nd.Ks = append([]byte(nil), kmer...)
		return nil
	}
	if string(nd.Ks) != string(kmer) {
		return errors.Errorf("[attach] node %d k-mer %s differs from edge k-mer %s", v, nd.Ks, kmer)
	}
	return nil
}

// AddEdgeWithID adds edge id from start to end with sequence seq and its
// reverse complement conj between the conjugate nodes.
func (g *Graph) AddEdgeWithID(id, conj, start, end uint32, seq []byte) error {
	if id < MinID || conj < MinID || id == conj {
		return errors.Errorf("[AddEdgeWithID] bad edge IDs %d/%d", id, conj)
	}
	if g.Edge(id) != nil || g.Edge(conj) != nil {
		return errors.Errorf("[AddEdgeWithID] edge %d or %d already exists", id, conj)
	}
	if len(seq) <= g.K {
		return errors.Errorf("[AddEdgeWithID] edge %d seq length %d must be > k(%d)", id, len(seq), g.K)
	}
	sn, en := g.Node(start), g.Node(end)
	if sn == nil || en == nil {
		return errors.Errorf("[AddEdgeWithID] edge %d refers to missing node %d or %d", id, start, end)
	}
	rc := g.ConjugateData(seq)
	if err := g.attach(start, seq[:g.K]); err != nil {
		return errors.Wrapf(err, "edge %d", id)
	}
	if err := g.attach(end, seq[len(seq)-g.K:]); err != nil {
		return errors.Wrapf(err, "edge %d", id)
	}
	cstart, cend := en.Conj, sn.Conj
	if err := g.attach(cstart, rc[:g.K]); err != nil {
		return errors.Wrapf(err, "edge %d", conj)
	}
	if err := g.attach(cend, rc[len(rc)-g.K:]); err != nil {
		return errors.Wrapf(err, "edge %d", conj)
	}

	g.growEdges(id)
	g.growEdges(conj)
	g.edgesArr[id] = DBGEdge{ID: id, StartNID: start, EndNID: end, Conj: conj, Ks: seq}
	g.edgesArr[conj] = DBGEdge{ID: conj, StartNID: cstart, EndNID: cend, Conj: id, Ks: rc}
	g.nodesArr[start].Outgoing = append(g.nodesArr[start].Outgoing, id)
	g.nodesArr[end].Incoming = append(g.nodesArr[end].Incoming, id)
	g.nodesArr[cstart].Outgoing = append(g.nodesArr[cstart].Outgoing, conj)
	g.nodesArr[cend].Incoming = append(g.nodesArr[cend].Incoming, conj)
	g.edgeNum += 2
	return nil
}

// AddEdge adds an edge pair with fresh IDs and returns the forward ID.
func (g *Graph) AddEdge(start, end uint32, seq []byte) (uint32, error) {
	id := uint32(len(g.edgesArr))
	if err := g.AddEdgeWithID(id, id+1, start, end, seq); err != nil {
		return 0, err
	}
	return id, nil
}

// IsAdjacent reports whether e2 can follow e1 in a path.
func (g *Graph) IsAdjacent(e1, e2 uint32) bool {
	return g.End(e1) == g.Start(e2)
}
