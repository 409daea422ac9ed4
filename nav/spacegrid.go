package nav

import "github.com/arl/gogeo/f32/d3"

// GridVertex is a single vertex in a SpaceGrid: a vertex/edge graph
// representation of a Space (§3 "SpaceGrid"). Grounded on
// detour.MeshTile's parallel-array layout (vertices + a "first
// link"/"link count" pair per vertex, exactly like dtPoly.FirstLink + the
// tile's Links slice).
type GridVertex struct {
	Pos         d3.Vec3
	FirstEdge   int
	EdgeCount   int
	FirstLink   int
	LinkCount   int
	Enabled     bool
	searchState nodeState // transient path-search field
}

// GridEdge connects two vertices of the same SpaceGrid. TypeA is the user
// type index travelling from VertA to VertB, TypeB the reverse direction.
type GridEdge struct {
	VertA, VertB int
	TypeA, TypeB int32
	Length       float32
}

// GridLink is a cross-space link: this grid's vertex Vert is coincident
// with another SpaceGrid's vertex OtherVert.
type GridLink struct {
	Vert      int
	OtherGrid SpaceID
	OtherVert int
}

// AuthoredGridVertex/AuthoredGridEdge are the builder's input shape: plain
// authored data (or HeightTerrain raster-cell output) before it's copied
// into the SpaceGrid's own arrays.
type AuthoredGridVertex struct {
	Pos d3.Vec3
}

type AuthoredGridEdge struct {
	VertA, VertB int
	TypeA, TypeB int32
}

// SpaceGrid is the Grid-type representation of a Space (§4.4).
type SpaceGrid struct {
	Verts []GridVertex
	Edges []GridEdge
	Links []GridLink

	vertexEdges []int // indirection table: per-vertex edge-slot -> global edge index
}

// Build copies authored vertices/edges into the grid, translating user
// type numbers through costTable and recomputing edge length. Grounded on
// detour.MeshTile's vertex/edge copy plus a linear prefix-sum pass to build
// the per-vertex edge list (the same shape as dtPoly.FirstLink/linkCount).
func (g *SpaceGrid) Build(verts []AuthoredGridVertex, edges []AuthoredGridEdge, costTable *CostTable) Status {
	g.Verts = make([]GridVertex, len(verts))
	for i, v := range verts {
		g.Verts[i] = GridVertex{Pos: d3.NewVec3From(v.Pos), Enabled: true}
	}

	g.Edges = make([]GridEdge, len(edges))
	for i, e := range edges {
		if e.VertA < 0 || e.VertA >= len(verts) || e.VertB < 0 || e.VertB >= len(verts) {
			return Failure | InvalidParameter
		}
		g.Edges[i] = GridEdge{
			VertA:  e.VertA,
			VertB:  e.VertB,
			TypeA:  int32(costTable.IndexOfOrInsert(e.TypeA)),
			TypeB:  int32(costTable.IndexOfOrInsert(e.TypeB)),
			Length: g.Verts[e.VertA].Pos.Dist(g.Verts[e.VertB].Pos),
		}
	}

	g.buildVertexEdgeTable()
	g.Links = nil
	return Success
}

// buildVertexEdgeTable scans edges linearly and builds the prefix-summed
// per-vertex edge index table (FirstEdge/EdgeCount on each vertex, plus the
// indirection slice vertexEdges), grounded on dtNavMesh.connectIntLinks's
// single linear pass over a tile's polygons.
func (g *SpaceGrid) buildVertexEdgeTable() {
	counts := make([]int, len(g.Verts))
	for _, e := range g.Edges {
		counts[e.VertA]++
		counts[e.VertB]++
	}
	offset := 0
	for i := range g.Verts {
		g.Verts[i].FirstEdge = offset
		g.Verts[i].EdgeCount = 0
		offset += counts[i]
	}
	g.vertexEdges = make([]int, offset)
	cursor := make([]int, len(g.Verts))
	for i := range g.Verts {
		cursor[i] = g.Verts[i].FirstEdge
	}
	for ei, e := range g.Edges {
		g.vertexEdges[cursor[e.VertA]] = ei
		cursor[e.VertA]++
		g.Verts[e.VertA].EdgeCount++
		g.vertexEdges[cursor[e.VertB]] = ei
		cursor[e.VertB]++
		g.Verts[e.VertB].EdgeCount++
	}
}

// EdgesOf returns the global edge indices incident to vertex v.
func (g *SpaceGrid) EdgesOf(v int) []int {
	vv := g.Verts[v]
	return g.vertexEdges[vv.FirstEdge : vv.FirstEdge+vv.EdgeCount]
}

// Other returns the vertex at the far end of edge e from v, along with the
// directional user-type index to use when traversing from v to that
// vertex.
func (e *GridEdge) Other(v int) (int, int32) {
	if e.VertA == v {
		return e.VertB, e.TypeA
	}
	return e.VertA, e.TypeB
}

// LinkToOtherGrids finds coincident-vertex pairs between g and every other
// SpaceGrid on the same layer (within snapDistance, both transformed into a
// common frame) and records a GridLink on g for each pair; the reverse link
// is recorded on the other grid by its own LinkToOtherGrids call. Grounded on
// dtNavMesh.connectExtLinks, adapted from tile-grid adjacency (which side
// of a rectangular tile two meshes share) to an unordered spatial proximity
// test, since Spaces are arbitrary authored geometry, not a regular tile
// grid.
func (g *SpaceGrid) LinkToOtherGrids(selfID SpaceID, selfXform Transform, others map[SpaceID]*gridLinkTarget, snapDistance float32) {
	g.Links = nil
	for i := range g.Verts {
		wp := selfXform.Apply(g.Verts[i].Pos)
		for otherID, target := range others {
			if otherID == selfID {
				continue
			}
			for j := range target.Grid.Verts {
				owp := target.Xform.Apply(target.Grid.Verts[j].Pos)
				if wp.Dist(owp) <= snapDistance {
					g.Links = append(g.Links, GridLink{Vert: i, OtherGrid: otherID, OtherVert: j})
				}
			}
		}
	}
}

// gridLinkTarget bundles a candidate SpaceGrid with the transform needed to
// bring its vertices into world space.
type gridLinkTarget struct {
	Grid  *SpaceGrid
	Xform Transform
}

// UpdateBlocking rebuilds the Enabled bit on every vertex: a vertex is
// disabled if it lies strictly inside any splitter convex volume. The
// splitters are in the grid's local frame, so vertex positions are tested
// as stored. Implements §4.4's update_blocking. Per DESIGN NOTES §9(c), the
// splitter list is collected by Space.Prepare through the same helpers the
// mesh path uses (Space.AddBlockerSplitters, Space.AddSpaceBlockerSplitters)
// rather than filtered inline here (the teacher's own
// SpaceGrid::update_blocking does inline the logic; that divergence is
// flagged as a defect in spec §9 and is not reproduced here).
func (g *SpaceGrid) UpdateBlocking(selfXform Transform, splitters []*ConvexVolume) {
	for i := range g.Verts {
		g.Verts[i].Enabled = true
		for _, cv := range splitters {
			if cv.Inside(g.Verts[i].Pos) {
				g.Verts[i].Enabled = false
				break
			}
		}
	}
}
