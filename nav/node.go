package nav

import "github.com/arl/gogeo/f32/d3"

// NodeState flags a search node's membership in the A* open/closed sets,
// mirroring detour's NodeFlags (node.go): Free (the zero value),
// nodeOpen or nodeClosed.
type nodeState uint8

const (
	nodeOpen nodeState = 1 << iota
	nodeClosed
)

// nodeID identifies a single search-graph vertex: either a SpaceGrid vertex
// or a SpaceMesh face, scoped to its owning space. Grounded on DESIGN NOTES
// §9 ("cross-space references become (SpaceId, u16) pairs").
type nodeID struct {
	Space SpaceID
	Local uint32
}

// searchNode is a single A* node, grounded on detour.Node (position, cost,
// total, parent index, flags). Parent is a direct pointer rather than a
// pool index + unsafe.Sizeof arithmetic: Go's GC makes the teacher's
// hand-rolled index pool (and its "use of unsafe in MemUsed" escape hatch)
// unnecessary.
type searchNode struct {
	ID     nodeID
	Pos    d3.Vec3
	Cost   float32 // cost from the start node to this node (g)
	Total  float32 // g + heuristic (f)
	Parent *searchNode
	State  nodeState
}

// nodePool tracks one searchNode per nodeID visited during a search, ported
// from detour.NodePool's "allocate once, find-or-create" behaviour but
// backed by a Go map instead of a manual hash-bucket array, since Go gives
// us amortised O(1) map access without the pointer-arithmetic NodeIdx()
// trick detour needs in C-derived Go.
type nodePool struct {
	nodes map[nodeID]*searchNode
}

func newNodePool() *nodePool {
	return &nodePool{nodes: make(map[nodeID]*searchNode)}
}

func (p *nodePool) clear() {
	p.nodes = make(map[nodeID]*searchNode)
}

// node returns the existing node for id, or allocates a fresh Free one.
func (p *nodePool) node(id nodeID) *searchNode {
	if n, ok := p.nodes[id]; ok {
		return n
	}
	n := &searchNode{ID: id, Pos: d3.NewVec3()}
	p.nodes[id] = n
	return n
}

// find returns the node for id if it has been visited, else nil.
func (p *nodePool) find(id nodeID) *searchNode {
	return p.nodes[id]
}
