package nav

import "github.com/arl/gogeo/f32/d3"

// pathFinderNavGrid is A* over a SpaceGrid's vertex/edge graph (§4.8).
// Grounded directly on detour.NavMeshQuery.FindPath (detour/findpath.go),
// reusing this package's nodePool/nodeQueue; the heuristic and edge-cost
// formulas are generalised from navmesh-polygon adjacency to grid
// vertex/edge adjacency and cross-space GridLinks.
type pathFinderNavGrid struct{}

func (pf *pathFinderNavGrid) findPath(n *Navigator, start, goal d3.Vec3, out *Path) Status {
	layer := n.World.Layer(n.LayerNum)

	startSpace, startVert, startDist, startOK := layer.GridVertexClosestTo(start)
	goalSpace, goalVert, goalDist, goalOK := layer.GridVertexClosestTo(goal)
	if !startOK || !goalOK {
		return Success // OutsideNavigation: surfaced as an empty path, not an error
	}
	if n.MaxOutsideDistance > 0 && (startDist > n.MaxOutsideDistance || goalDist > n.MaxOutsideDistance) {
		return Success
	}

	startID := nodeID{Space: startSpace, Local: uint32(startVert)}
	goalID := nodeID{Space: goalSpace, Local: uint32(goalVert)}

	pool := newNodePool()
	queue := newNodeQueue()

	goalWorld := layer.Spaces[goalSpace].Transform.Apply(layer.Spaces[goalSpace].Grid.Verts[goalVert].Pos)

	startNode := pool.node(startID)
	startNode.Pos = layer.Spaces[startSpace].Transform.Apply(layer.Spaces[startSpace].Grid.Verts[startVert].Pos)
	startNode.Cost = 0
	startNode.Total = startNode.Pos.Dist(goalWorld)
	startNode.State = nodeOpen
	queue.push(startNode)

	var goalNode *searchNode
	for !queue.empty() {
		cur := queue.pop()
		cur.State = nodeClosed
		if cur.ID == goalID {
			goalNode = cur
			break
		}

		space := layer.Spaces[cur.ID.Space]
		grid := space.Grid
		v := int(cur.ID.Local)
		if v >= len(grid.Verts) || !grid.Verts[v].Enabled {
			continue
		}

		for _, ei := range grid.EdgesOf(v) {
			e := &grid.Edges[ei]
			ov, typeIdx := e.Other(v)
			if !grid.Verts[ov].Enabled {
				continue
			}
			nid := nodeID{Space: cur.ID.Space, Local: uint32(ov)}
			next := pool.node(nid)
			if next.State == nodeClosed {
				continue
			}
			cost := n.costAt(typeIdx)
			g := cur.Cost + cost.FixCost + cost.CostPerMetre*e.Length
			if next.State == 0 || g < next.Cost {
				next.Pos = space.Transform.Apply(grid.Verts[ov].Pos)
				next.Cost = g
				next.Total = g + next.Pos.Dist(goalWorld)
				next.Parent = cur
				if next.Total >= n.BlockingCost {
					next.State = nodeClosed
					continue
				}
				if next.State == nodeOpen {
					queue.modify(next)
				} else {
					next.State = nodeOpen
					queue.push(next)
				}
			}
		}

		for _, link := range grid.Links {
			if link.Vert != v {
				continue
			}
			nid := nodeID{Space: link.OtherGrid, Local: uint32(link.OtherVert)}
			next := pool.node(nid)
			if next.State == nodeClosed {
				continue
			}
			// cross-space links are free edges with parent inheritance:
			// the two vertices are the same spatial point.
			if next.State == 0 || cur.Cost < next.Cost {
				next.Pos = cur.Pos
				next.Cost = cur.Cost
				next.Total = cur.Total
				next.Parent = cur.Parent
				if next.State == nodeOpen {
					queue.modify(next)
				} else if next.State != nodeClosed {
					next.State = nodeOpen
					queue.push(next)
				}
			}
		}
	}

	if goalNode == nil {
		return Success // no path found: empty path, not an error
	}

	var rev []d3.Vec3
	for nd := goalNode; nd != nil; nd = nd.Parent {
		rev = append(rev, nd.Pos)
	}
	for i := len(rev) - 1; i >= 0; i-- {
		out.Append(rev[i])
	}
	if out.Count() == 0 || out.At(out.Count()-1).Dist(goalWorld) > 1e-6 {
		out.Append(goalWorld)
	}
	return Success
}
