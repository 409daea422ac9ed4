package nav

import "github.com/arl/gogeo/f32/d3"

// EnableFunnelRefinement gates the pending-points/largest-wedge-angle
// funnel enhancement described in spec §4.9 and flagged as an open
// question in §9(a). The plain original_source funnel
// (dedaiPathFinderFunnel.cpp/dedaiPathFinderNavMesh.cpp) has no such
// mechanism; this refinement is the specification's own addition, kept
// behind a flag exactly as the spec instructs reimplementers to do ("may
// disable this refinement with a flag").
var EnableFunnelRefinement = false

// pathFinderNavMesh is A* over SpaceMesh face centres plus funnel
// string-pulling across Space boundaries (§4.9). Grounded on
// detour.NavMeshQuery.FindPath for the face-graph search and
// FindStraightPath for the funnel, generalised to cross multiple
// independently-transformed SpaceMeshes via MeshLink.
type pathFinderNavMesh struct{}

type meshFaceRef struct {
	Space SpaceID
	Face  int
}

func (pf *pathFinderNavMesh) findPath(n *Navigator, start, goal d3.Vec3, out *Path) Status {
	layer := n.World.Layer(n.LayerNum)

	startSpace, startFace, startDist, startOK := layer.MeshFaceClosestTo(start)
	goalSpace, goalFace, goalDist, goalOK := layer.MeshFaceClosestTo(goal)
	if !startOK || !goalOK {
		return Success
	}
	if n.MaxOutsideDistance > 0 && (startDist > n.MaxOutsideDistance || goalDist > n.MaxOutsideDistance) {
		return Success
	}

	startID := nodeID{Space: startSpace, Local: uint32(startFace)}
	goalID := nodeID{Space: goalSpace, Local: uint32(goalFace)}

	goalSpaceObj := layer.Spaces[goalSpace]
	goalWorld := goalSpaceObj.Transform.Apply(goalSpaceObj.Mesh.Faces[goalFace].Center)

	pool := newNodePool()
	queue := newNodeQueue()

	startSpaceObj := layer.Spaces[startSpace]
	startNode := pool.node(startID)
	startNode.Pos = startSpaceObj.Transform.Apply(startSpaceObj.Mesh.Faces[startFace].Center)
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
		mesh := space.Mesh
		fi := int(cur.ID.Local)
		if fi >= len(mesh.Faces) || !mesh.Faces[fi].Enabled {
			continue
		}
		f := &mesh.Faces[fi]

		for i := 0; i < f.CornerCount; i++ {
			c := mesh.Corners[f.FirstCorner+i]
			e := mesh.Edges[c.Edge]
			other := e.Face1
			if other == fi {
				other = e.Face2
			}
			if other != noFace && mesh.Faces[other].Enabled {
				pf.relax(n, pool, queue, cur, nodeID{Space: cur.ID.Space, Local: uint32(other)},
					space.Transform.Apply(mesh.Faces[other].Center), f.Type, mesh.Faces[other].Type, goalWorld)
			}
			if c.Link != noLink {
				link := mesh.Links[c.Link]
				otherSpace := layer.Spaces[link.OtherSpace]
				otherFace := &otherSpace.Mesh.Faces[link.OtherFace]
				otherWorld := otherSpace.Transform.Apply(otherFace.Center)
				pf.relax(n, pool, queue, cur, nodeID{Space: link.OtherSpace, Local: uint32(link.OtherFace)},
					otherWorld, f.Type, otherFace.Type, goalWorld)
			}
		}
	}

	if goalNode == nil {
		return Success
	}

	faceSeq := pf.reconstructFaces(goalNode)
	return pf.funnel(layer, faceSeq, start, goal, out)
}

func (pf *pathFinderNavMesh) relax(n *Navigator, pool *nodePool, queue *nodeQueue, cur *searchNode, nid nodeID, nextWorld d3.Vec3, curType, nextType int32, goalWorld d3.Vec3) {
	next := pool.node(nid)
	if next.State == nodeClosed {
		return
	}
	fixCost := float32(0)
	if curType != nextType {
		fixCost = n.costAt(nextType).FixCost
	}
	dist := cur.Pos.Dist(nextWorld)
	g := cur.Cost + fixCost + n.costAt(nextType).CostPerMetre*dist
	if next.State != 0 && g >= next.Cost {
		return
	}
	next.Pos = nextWorld
	next.Cost = g
	next.Total = g + nextWorld.Dist(goalWorld)
	next.Parent = cur
	next.ID = nid
	if next.Total >= n.BlockingCost {
		next.State = nodeClosed
		return
	}
	if next.State == nodeOpen {
		queue.modify(next)
	} else {
		next.State = nodeOpen
		queue.push(next)
	}
}

func (pf *pathFinderNavMesh) reconstructFaces(goal *searchNode) []meshFaceRef {
	var rev []meshFaceRef
	for nd := goal; nd != nil; nd = nd.Parent {
		rev = append(rev, meshFaceRef{Space: nd.ID.Space, Face: int(nd.ID.Local)})
	}
	out := make([]meshFaceRef, len(rev))
	for i, r := range rev {
		out[len(rev)-1-i] = r
	}
	return out
}

// funnelPortal is one edge crossed by the face sequence, expressed as a
// world-space left/right vertex pair.
type funnelPortal struct {
	Left, Right d3.Vec3
}

// funnel implements §4.9's string-pulling pass: maintains an apex and a
// left/right wedge, tightening or committing a corner on each portal.
// Grounded on detour.NavMeshQuery.FindStraightPath's portalApex/
// portalLeft/portalRight triangle-area funnel, adapted to world-space
// portals gathered across possibly-linked SpaceMeshes rather than a single
// tile's polygon chain.
func (pf *pathFinderNavMesh) funnel(layer *Layer, faces []meshFaceRef, start, goal d3.Vec3, out *Path) Status {
	if len(faces) == 0 {
		return Success
	}
	portals := pf.portalsFor(layer, faces)

	out.Append(start)
	if len(portals) == 0 {
		out.Append(goal)
		return Success
	}

	apex := start
	left := start
	right := start
	leftIdx, rightIdx := 0, 0

	var pendingLeft, pendingRight []d3.Vec3

	for i := 0; i <= len(portals); i++ {
		var pl, pr d3.Vec3
		if i < len(portals) {
			pl, pr = portals[i].Left, portals[i].Right
		} else {
			pl, pr = goal, goal
		}

		if triArea2D(apex, right, pr) <= 0 {
			if apex == right || triArea2D(apex, left, pr) > 0 {
				right = pr
				rightIdx = i
				if EnableFunnelRefinement {
					pendingRight = append(pendingRight, pr)
				}
			} else {
				out.Append(left)
				apex = left
				if EnableFunnelRefinement && len(pendingLeft) > 0 {
					apex = bestByWedgeAngle(apex, right, pendingLeft)
					out.Points[out.Count()-1] = apex
				}
				restart := leftIdx
				left = apex
				right = apex
				leftIdx, rightIdx = restart, restart
				pendingLeft, pendingRight = nil, nil
				i = restart
				continue
			}
		}

		if triArea2D(apex, left, pl) >= 0 {
			if apex == left || triArea2D(apex, right, pl) < 0 {
				left = pl
				leftIdx = i
				if EnableFunnelRefinement {
					pendingLeft = append(pendingLeft, pl)
				}
			} else {
				out.Append(right)
				apex = right
				if EnableFunnelRefinement && len(pendingRight) > 0 {
					apex = bestByWedgeAngle(apex, left, pendingRight)
					out.Points[out.Count()-1] = apex
				}
				restart := rightIdx
				left = apex
				right = apex
				leftIdx, rightIdx = restart, restart
				pendingLeft, pendingRight = nil, nil
				i = restart
				continue
			}
		}
	}

	if out.At(out.Count()-1).Dist(goal) > 1e-6 {
		out.Append(goal)
	}
	return Success
}

// bestByWedgeAngle picks, among candidates, the point that forms the
// largest wedge angle at apex relative to bound — capturing paths around
// curved corners instead of always taking the immediate commit point
// (§4.9's pending-list refinement).
func bestByWedgeAngle(apex, bound d3.Vec3, candidates []d3.Vec3) d3.Vec3 {
	best := candidates[len(candidates)-1]
	bestDot := float32(2)
	toBound := bound.Sub(apex)
	if toBound.Len() < 1e-8 {
		return best
	}
	toBound.Normalize()
	for _, c := range candidates {
		toC := c.Sub(apex)
		if toC.Len() < 1e-8 {
			continue
		}
		toC.Normalize()
		d := toBound.Dot(toC)
		if d < bestDot {
			bestDot = d
			best = c
		}
	}
	return best
}

// triArea2D computes twice the signed area of triangle (a,b,c) projected
// onto the xz-plane, ported from detour.common.go's TriArea2D.
func triArea2D(a, b, c d3.Vec3) float32 {
	abx := b[0] - a[0]
	abz := b[2] - a[2]
	acx := c[0] - a[0]
	acz := c[2] - a[2]
	return acx*abz - abx*acz
}

// portalsFor builds the world-space left/right portal for every edge
// crossed between consecutive faces in the sequence, choosing the left
// vertex relative to each face's own winding. Both portal vertices are
// taken from the current face and brought into world space with that
// face's own Space transform; a MeshLink's stored transform is not used.
func (pf *pathFinderNavMesh) portalsFor(layer *Layer, faces []meshFaceRef) []funnelPortal {
	var out []funnelPortal
	for i := 0; i+1 < len(faces); i++ {
		cur := faces[i]
		next := faces[i+1]
		space := layer.Spaces[cur.Space]
		mesh := space.Mesh
		f := &mesh.Faces[cur.Face]

		var leftLocal, rightLocal d3.Vec3
		found := false
		for k := 0; k < f.CornerCount; k++ {
			c := mesh.Corners[f.FirstCorner+k]
			e := mesh.Edges[c.Edge]
			sharesFace := (e.Face1 == next.Face || e.Face2 == next.Face) && cur.Space == next.Space
			sharesLink := c.Link != noLink && mesh.Links[c.Link].OtherSpace == next.Space && mesh.Links[c.Link].OtherFace == next.Face
			if !sharesFace && !sharesLink {
				continue
			}
			a := mesh.cornerPos(f, k)
			b := mesh.cornerPos(f, (k+1)%f.CornerCount)
			// winding is CCW; the corner's own vertex is the "left" side
			// when travelling along the face's own direction of travel.
			leftLocal, rightLocal = a, b
			found = true
			break
		}
		if !found {
			continue
		}
		out = append(out, funnelPortal{
			Left:  space.Transform.Apply(leftLocal),
			Right: space.Transform.Apply(rightLocal),
		})
	}
	return out
}
