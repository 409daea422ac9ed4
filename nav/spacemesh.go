package nav

import "github.com/arl/gogeo/f32/d3"

const noLink = -1
const noFace = -1

// meshEdgeVertexEps is the minimum allowed distance between two distinct
// vertices within a SpaceMesh (§8 universal invariant 5).
const meshEdgeVertexEps = 1e-4

// MeshVertex is a single SpaceMesh vertex, in Space-local coordinates.
type MeshVertex struct {
	Pos d3.Vec3
}

// MeshCorner is one directed-winding corner of a face: the vertex it sits
// on, the edge leaving it towards the next corner, the user type index
// travelling along that edge, and an optional cross-space Link.
type MeshCorner struct {
	Vertex  int
	Edge    int
	Type    int32
	Link    int // index into SpaceMesh.Links, or noLink
	Enabled bool
}

// MeshEdge connects two vertices and is claimed by up to two faces.
type MeshEdge struct {
	VertA, VertB int
	Face1, Face2 int // noFace if unclaimed
}

// MeshFace is a convex polygon: a contiguous run of corners, plus
// precomputed plane data used by nearest-point/collision queries.
type MeshFace struct {
	FirstCorner int
	CornerCount int
	Normal      d3.Vec3
	Center      d3.Vec3
	PlaneDist   float32
	Min, Max    d3.Vec3
	Type        int32
	Enabled     bool
	searchState nodeState
}

// MeshLink is a mutual cross-space reference: this mesh's (Face, Corner)
// corresponds to OtherMesh's (OtherFace, OtherCorner). XformToOther maps a
// point from this mesh's local frame into the other mesh's local frame.
type MeshLink struct {
	OtherSpace      SpaceID
	OtherFace       int
	OtherCorner     int
	XformToOther    Transform
}

// AuthoredMeshVertex/AuthoredMeshFace are the initial-build input shape.
type AuthoredMeshVertex struct {
	Pos d3.Vec3
}

type AuthoredMeshFace struct {
	Verts []int // indices into the authored vertex slice, CCW winding
	Type  int32
}

// SpaceMesh is the Mesh-type representation of a Space (§3/§4.5).
type SpaceMesh struct {
	Verts   []MeshVertex
	Corners []MeshCorner
	Edges   []MeshEdge
	Faces   []MeshFace
	Links   []MeshLink

	// snapshot counts used to roll back blocker cutting (§3 "static
	// count"/"blocker base").
	staticVerts, staticCorners, staticEdges, staticFaces int

	// pristine copies of the static arrays, restored verbatim at the start
	// of every Rebuild. Slicing-and-clearing in place isn't enough: a face
	// disabled by a previous cut pass would stay disabled (and its edges'
	// Face1/Face2 stay cleared) even after a later Rebuild with fewer or no
	// splitters, since truncation alone never flips Enabled back on.
	staticVertSnapshot   []MeshVertex
	staticCornerSnapshot []MeshCorner
	staticEdgeSnapshot   []MeshEdge
	staticFaceSnapshot   []MeshFace

	authored []AuthoredMeshFace // copy of Build's input faces; Rebuild restores from the snapshots above instead
}

// edgeKey is an unordered vertex pair, used to find-or-create edges by
// position identity during build and re-cut.
type edgeKey struct{ a, b int }

func makeEdgeKey(a, b int) edgeKey {
	if a > b {
		a, b = b, a
	}
	return edgeKey{a, b}
}

// Build performs the initial construction (§4.5 "Initial build"): copies
// vertices, translates face user types through costTable, computes
// per-face normal/center/plane/AABB, and links consecutive corners into
// edges, detecting non-manifold edges. Grounded on dtNavMeshCreateParams's
// build pass (recast/detour's polymesh-to-navmesh conversion), adapted
// from a fixed polygon-count build to arbitrary n-gon corner ranges.
func (m *SpaceMesh) Build(verts []AuthoredMeshVertex, faces []AuthoredMeshFace, costTable *CostTable) Status {
	*m = SpaceMesh{}
	m.Verts = make([]MeshVertex, len(verts))
	for i, v := range verts {
		m.Verts[i] = MeshVertex{Pos: d3.NewVec3From(v.Pos)}
	}

	edgeIdx := make(map[edgeKey]int)

	for _, f := range faces {
		if len(f.Verts) < 3 {
			return Failure | InvalidParameter
		}
		firstCorner := len(m.Corners)
		for i, vi := range f.Verts {
			if vi < 0 || vi >= len(m.Verts) {
				return Failure | InvalidParameter
			}
			vj := f.Verts[(i+1)%len(f.Verts)]
			if vi == vj {
				return Failure | InvalidParameter
			}
			key := makeEdgeKey(vi, vj)
			ei, ok := edgeIdx[key]
			if !ok {
				ei = len(m.Edges)
				m.Edges = append(m.Edges, MeshEdge{VertA: vi, VertB: vj, Face1: noFace, Face2: noFace})
				edgeIdx[key] = ei
			}
			faceIdx := len(m.Faces)
			e := &m.Edges[ei]
			switch {
			case e.Face1 == noFace:
				e.Face1 = faceIdx
			case e.Face2 == noFace:
				e.Face2 = faceIdx
			default:
				return Failure | InvalidParameter // non-manifold: third face claims this edge
			}
			m.Corners = append(m.Corners, MeshCorner{
				Vertex:  vi,
				Edge:    ei,
				Type:    int32(costTable.IndexOfOrInsert(f.Type)),
				Link:    noLink,
				Enabled: true,
			})
		}
		mf := MeshFace{
			FirstCorner: firstCorner,
			CornerCount: len(f.Verts),
			Type:        int32(costTable.IndexOfOrInsert(f.Type)),
			Enabled:     true,
		}
		if st := m.computeFaceGeometry(&mf); Failed(st) {
			return st
		}
		m.Faces = append(m.Faces, mf)
	}

	m.authored = append([]AuthoredMeshFace(nil), faces...)
	m.staticVerts, m.staticCorners, m.staticEdges, m.staticFaces = len(m.Verts), len(m.Corners), len(m.Edges), len(m.Faces)

	m.staticVertSnapshot = append([]MeshVertex(nil), m.Verts...)
	m.staticCornerSnapshot = append([]MeshCorner(nil), m.Corners...)
	m.staticEdgeSnapshot = append([]MeshEdge(nil), m.Edges...)
	m.staticFaceSnapshot = append([]MeshFace(nil), m.Faces...)
	return Success
}

// computeFaceGeometry derives a face's normal (from the corner pair whose
// edge has the smallest |dot| with the face's first edge, per §4.5 step 2,
// robust against collinear leading corners), center, plane distance and
// AABB.
func (m *SpaceMesh) computeFaceGeometry(f *MeshFace) Status {
	n := f.CornerCount
	if n < 3 {
		return Failure | InvalidParameter
	}
	p0 := m.cornerPos(f, 0)
	e0 := m.cornerPos(f, 1).Sub(p0)
	e0n := e0.Len()
	if e0n < 1e-8 {
		return Failure | InvalidParameter
	}
	e0 = e0.Scale(1 / e0n)

	bestDot := float32(2)
	var bestNormal d3.Vec3
	found := false
	for i := 1; i < n; i++ {
		ei := m.cornerPos(f, (i+1)%n).Sub(m.cornerPos(f, i))
		l := ei.Len()
		if l < 1e-8 {
			continue
		}
		ei = ei.Scale(1 / l)
		d := e0.Dot(ei)
		ad := d
		if ad < 0 {
			ad = -ad
		}
		cand := e0.Cross(ei)
		if cand.Len() < 1e-8 {
			continue
		}
		if ad < bestDot {
			bestDot = ad
			bestNormal = cand
			found = true
		}
	}
	if !found {
		return Failure | InvalidParameter // degenerate face, zero normal
	}
	bestNormal.Normalize()
	f.Normal = bestNormal

	center := d3.NewVec3XYZ(0, 0, 0)
	min, max := d3.NewVec3From(p0), d3.NewVec3From(p0)
	for i := 0; i < n; i++ {
		p := m.cornerPos(f, i)
		center = center.Add(p)
		expandAABB(&min, &max, p)
	}
	f.Center = center.Scale(1 / float32(n))
	f.PlaneDist = f.Normal.Dot(p0)
	f.Min, f.Max = min, max
	return Success
}

func (m *SpaceMesh) cornerPos(f *MeshFace, i int) d3.Vec3 {
	c := m.Corners[f.FirstCorner+i]
	return m.Verts[c.Vertex].Pos
}

// FaceVerts returns the world-space-independent local positions of face
// fi's corners, in winding order.
func (m *SpaceMesh) FaceVerts(fi int) []d3.Vec3 {
	f := &m.Faces[fi]
	out := make([]d3.Vec3, f.CornerCount)
	for i := 0; i < f.CornerCount; i++ {
		out[i] = m.cornerPos(f, i)
	}
	return out
}

// Rebuild restores the pristine static mesh then re-cuts every original
// face against splitters, implementing §4.5's update_blocking.
func (m *SpaceMesh) Rebuild(splitters []*ConvexVolume) {
	m.restoreStatic()
	if len(splitters) == 0 {
		return
	}
	staticFaceCount := m.staticFaces
	for fi := 0; fi < staticFaceCount; fi++ {
		m.cutFace(fi, splitters)
	}
}

// restoreStatic resets every array back to the pristine snapshot taken at
// Build time, undoing any cuts (and the disabled faces/cleared edge slots
// they left behind) from a previous Rebuild pass.
func (m *SpaceMesh) restoreStatic() {
	m.Verts = append([]MeshVertex(nil), m.staticVertSnapshot...)
	m.Corners = append([]MeshCorner(nil), m.staticCornerSnapshot...)
	m.Edges = append([]MeshEdge(nil), m.staticEdgeSnapshot...)
	m.Faces = append([]MeshFace(nil), m.staticFaceSnapshot...)
}

// cutFace implements one original face's contribution to update_blocking
// (§4.5 steps i-v): load it as a ConvexFaceList, split by every splitter,
// optimise, and either leave it untouched or disable it and append the
// resulting sub-faces.
func (m *SpaceMesh) cutFace(fi int, splitters []*ConvexVolume) {
	f := &m.Faces[fi]
	if !f.Enabled {
		return
	}
	localVerts := m.FaceVerts(fi)
	cfl := NewConvexFaceList(localVerts, f.Type, f.Normal)
	initialVerts := len(cfl.Verts)

	any := false
	for _, cv := range splitters {
		before := len(cfl.Faces)
		beforeVerts := cloneVerts(cfl.Verts)
		cfl.SplitByConvexVolume(cv)
		if len(cfl.Faces) != before || !sameVerts(beforeVerts, cfl.Verts) {
			any = true
		}
	}
	if !any {
		return
	}
	cfl.Optimise(initialVerts)

	if len(cfl.Faces) == 1 && facesMatch(cfl.Faces[0], localVerts) {
		return
	}

	m.disableFace(fi)
	for _, sub := range cfl.Faces {
		m.appendCutFace(sub, cfl.Verts)
	}
}

func cloneVerts(v []d3.Vec3) []d3.Vec3 {
	out := make([]d3.Vec3, len(v))
	for i, p := range v {
		out[i] = d3.NewVec3From(p)
	}
	return out
}

func sameVerts(a, b []d3.Vec3) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i].Dist(b[i]) > 1e-9 {
			return false
		}
	}
	return true
}

func facesMatch(f CFace, original []d3.Vec3) bool {
	return len(f.Verts) == len(original)
}

// disableFace marks a face disabled and clears its edges' face slots,
// tombstoning with noFace rather than compacting (DESIGN NOTES §9).
func (m *SpaceMesh) disableFace(fi int) {
	f := &m.Faces[fi]
	f.Enabled = false
	for i := 0; i < f.CornerCount; i++ {
		c := &m.Corners[f.FirstCorner+i]
		c.Enabled = false
		e := &m.Edges[c.Edge]
		if e.Face1 == fi {
			e.Face1 = noFace
		} else if e.Face2 == fi {
			e.Face2 = noFace
		}
	}
}

// appendCutFace finds-or-creates vertices/edges/corners by position
// identity (epsilon meshEdgeVertexEps) for a cut sub-face's vertices
// (given in the scratch ConvexFaceList's own vertex space, which is local
// to the Space since cutFace built it from local-space face verts) and
// appends the resulting face.
func (m *SpaceMesh) appendCutFace(f CFace, scratchVerts []d3.Vec3) {
	localIdx := make([]int, len(f.Verts))
	for i, vi := range f.Verts {
		localIdx[i] = m.findOrAddVertex(scratchVerts[vi])
	}
	m.appendFaceFromVertIndices(localIdx, f.Type)
}

// appendFaceFromVertIndices builds corners (find-or-creating their edges by
// vertex identity) and appends the resulting face, for a winding already
// expressed as indices into m.Verts. Shared by appendCutFace (whose
// vertices start out in scratch-space and must first be find-or-added) and
// splitFaceEdgeAt (whose vertices are already m.Verts indices bar the one
// freshly split-in vertex).
func (m *SpaceMesh) appendFaceFromVertIndices(vertIdx []int, faceType int32) {
	firstCorner := len(m.Corners)
	n := len(vertIdx)
	for i := 0; i < n; i++ {
		a, b := vertIdx[i], vertIdx[(i+1)%n]
		ei := m.findOrAddEdge(a, b, len(m.Faces))
		m.Corners = append(m.Corners, MeshCorner{Vertex: a, Edge: ei, Type: faceType, Link: noLink, Enabled: true})
	}

	mf := MeshFace{FirstCorner: firstCorner, CornerCount: n, Type: faceType, Enabled: true}
	m.computeFaceGeometry(&mf)
	m.Faces = append(m.Faces, mf)
}

// splitFaceEdgeAt widens face fi's winding by one corner, inserting a
// vertex at local position p along the boundary edge ei (between the
// corner that owns ei and its successor). Implements the vertex-insertion
// step of §4.5's single-vertex/zero-vertex link-with-split cases.
//
// The face is tombstoned and a replacement appended with the extra vertex
// spliced in, mirroring cutFace/appendCutFace's disable-and-replace
// pattern rather than shifting every subsequent corner's index range in
// place - the same non-destructive-mutation shape this file already uses
// for blocker cuts, reused here instead of a second, riskier index-shifting
// code path.
func (m *SpaceMesh) splitFaceEdgeAt(fi, ei int, p d3.Vec3) (newVert int) {
	f := &m.Faces[fi]
	newVert = m.findOrAddVertex(p)
	vertIdx := make([]int, 0, f.CornerCount+1)
	faceType := f.Type
	for i := 0; i < f.CornerCount; i++ {
		c := m.Corners[f.FirstCorner+i]
		vertIdx = append(vertIdx, c.Vertex)
		if c.Edge == ei {
			vertIdx = append(vertIdx, newVert)
		}
	}
	m.disableFace(fi)
	m.appendFaceFromVertIndices(vertIdx, faceType)
	return newVert
}

// pointOnSegmentInterior reports whether p lies within eps of the segment
// a-b, strictly between its endpoints. Points within eps's worth of
// parametric distance of either endpoint report ok=false: those are
// near-coincident vertices, handled by the exact-match link case instead
// of a split.
func pointOnSegmentInterior(p, a, b d3.Vec3, eps float32) (t float32, ok bool) {
	ab := b.Sub(a)
	abLen := ab.Len()
	if abLen < 1e-8 {
		return 0, false
	}
	t = p.Sub(a).Dot(ab) / (abLen * abLen)
	margin := eps / abLen
	if t <= margin || t >= 1-margin {
		return t, false
	}
	closest := a.Add(ab.Scale(t))
	if closest.Dist(p) > eps {
		return t, false
	}
	return t, true
}

func (m *SpaceMesh) findOrAddVertex(p d3.Vec3) int {
	for i := range m.Verts {
		if m.Verts[i].Pos.Dist(p) < meshEdgeVertexEps {
			return i
		}
	}
	m.Verts = append(m.Verts, MeshVertex{Pos: d3.NewVec3From(p)})
	return len(m.Verts) - 1
}

func (m *SpaceMesh) findOrAddEdge(a, b, face int) int {
	for i := range m.Edges {
		e := &m.Edges[i]
		if (e.VertA == a && e.VertB == b) || (e.VertA == b && e.VertB == a) {
			if e.Face1 == noFace {
				e.Face1 = face
			} else if e.Face2 == noFace {
				e.Face2 = face
			}
			return i
		}
	}
	m.Edges = append(m.Edges, MeshEdge{VertA: a, VertB: b, Face1: face, Face2: noFace})
	return len(m.Edges) - 1
}

// boundaryEdges returns the indices of enabled edges claimed by exactly
// one enabled face.
func (m *SpaceMesh) boundaryEdges() []int {
	var out []int
	for i, e := range m.Edges {
		f1ok := e.Face1 != noFace && m.Faces[e.Face1].Enabled
		f2ok := e.Face2 != noFace && m.Faces[e.Face2].Enabled
		if f1ok != f2ok {
			out = append(out, i)
		}
	}
	return out
}

// maxLinkPasses bounds LinkToOtherMeshes's split-and-retry loop. Each split
// mutates either this mesh or a target mesh's boundary-edge table, so the
// scan restarts after any split; a pass that completes without mutating
// anything means every link reachable at the current geometry has been
// made. A zero-vertex overlap needs at most two splits (one per mesh)
// before the newly-created edges exact-match on a further pass, so four
// passes of margin is generous rather than tight.
const maxLinkPasses = 4

// resetLinks clears this mesh's link table and every corner's Link field.
// addMutualLink mutates both sides of a pair, so a caller linking several
// meshes against each other must reset every participating mesh up front,
// before any of them starts scanning - resetting one mesh's own state at
// the top of its own LinkToOtherMeshes call would wipe links a peer mesh
// already wrote into it earlier in the same batch.
func (m *SpaceMesh) resetLinks() {
	m.Links = nil
	for i := range m.Corners {
		m.Corners[i].Link = noLink
	}
}

// LinkToOtherMeshes implements §4.5's link_to_other_meshes: exact-match
// linking plus the single-vertex and zero-vertex split cases. Callers
// establishing links across more than one mesh must call resetLinks on
// every participating mesh first (Layer.prepareLinks does this); a
// standalone call against freshly built meshes needs no such reset, since
// a fresh mesh already starts with no links.
func (m *SpaceMesh) LinkToOtherMeshes(selfID SpaceID, selfXform Transform, snapDistance, snapAngleCos float32, others map[SpaceID]*meshLinkTarget) {
	for pass := 0; pass < maxLinkPasses; pass++ {
		mutated := false
		for _, ei := range m.boundaryEdges() {
			if m.tryLinkEdge(selfID, selfXform, ei, snapDistance, snapAngleCos, others) {
				mutated = true
				break // edge table shifted; restart the scan
			}
		}
		if !mutated {
			break
		}
	}
}

type meshLinkTarget struct {
	Mesh  *SpaceMesh
	Xform Transform
}

// tryLinkEdge attempts the match cases of §4.5 for one boundary edge,
// preferring the cheapest (exact match) first, then the split cases:
// if either edge's far vertex projects strictly inside the other edge's
// span, that edge is split there, turning the pair into an exact match on
// a later pass. This covers both the single-vertex case (one endpoint
// pair already coincides, the other edge is longer) and the zero-vertex
// case (neither endpoint coincides but the segments overlap) uniformly,
// since the interior-projection test doesn't care whether the near end
// happens to already coincide. Returns true if it mutated a mesh (a split
// occurred), signalling the caller to restart its scan.
func (m *SpaceMesh) tryLinkEdge(selfID SpaceID, selfXform Transform, ei int, snapDistance, snapAngleCos float32, others map[SpaceID]*meshLinkTarget) bool {
	e := &m.Edges[ei]
	face := e.Face1
	if face == noFace {
		face = e.Face2
	}
	av := selfXform.Apply(m.Verts[e.VertA].Pos)
	bv := selfXform.Apply(m.Verts[e.VertB].Pos)
	selfNormal := selfXform.ApplyNormal(m.Faces[face].Normal)

	for otherID, target := range others {
		if otherID == selfID {
			continue
		}
		for _, oei := range target.Mesh.boundaryEdges() {
			oe := &target.Mesh.Edges[oei]
			oface := oe.Face1
			if oface == noFace {
				oface = oe.Face2
			}
			oav := target.Xform.Apply(target.Mesh.Verts[oe.VertA].Pos)
			obv := target.Xform.Apply(target.Mesh.Verts[oe.VertB].Pos)
			oNormal := target.Xform.ApplyNormal(target.Mesh.Faces[oface].Normal)

			if absf(selfNormal.Dot(oNormal)) < snapAngleCos {
				continue
			}

			if (av.Dist(oav) <= snapDistance && bv.Dist(obv) <= snapDistance) ||
				(av.Dist(obv) <= snapDistance && bv.Dist(oav) <= snapDistance) {
				m.addMutualLink(selfID, selfXform, face, ei, otherID, target, oface, oei)
				return false
			}

			if _, ok := pointOnSegmentInterior(obv, av, bv, snapDistance); ok {
				m.splitFaceEdgeAt(face, ei, selfXform.Inverse().Apply(obv))
				return true
			}
			if _, ok := pointOnSegmentInterior(oav, av, bv, snapDistance); ok {
				m.splitFaceEdgeAt(face, ei, selfXform.Inverse().Apply(oav))
				return true
			}
			if _, ok := pointOnSegmentInterior(av, oav, obv, snapDistance); ok {
				target.Mesh.splitFaceEdgeAt(oface, oei, target.Xform.Inverse().Apply(av))
				return true
			}
			if _, ok := pointOnSegmentInterior(bv, oav, obv, snapDistance); ok {
				target.Mesh.splitFaceEdgeAt(oface, oei, target.Xform.Inverse().Apply(bv))
				return true
			}
		}
	}
	return false
}

func absf(f float32) float32 {
	if f < 0 {
		return -f
	}
	return f
}

// addMutualLink records a cross-space link on both meshes' matching
// corners (the corner whose Vertex == the edge's first endpoint in each
// face's winding).
func (m *SpaceMesh) addMutualLink(selfID SpaceID, selfXform Transform, face, edge int, otherID SpaceID, target *meshLinkTarget, oface, oedge int) {
	cIdx := m.cornerOnEdge(face, edge)
	ocIdx := target.Mesh.cornerOnEdge(oface, oedge)
	if cIdx < 0 || ocIdx < 0 {
		return
	}
	if m.Corners[cIdx].Link != noLink {
		return // non-manifold linking: duplicate insertion rejected (§7)
	}

	toOther := selfXform.Combine(target.Xform.Inverse())
	li := len(m.Links)
	m.Links = append(m.Links, MeshLink{OtherSpace: otherID, OtherFace: oface, OtherCorner: ocIdx, XformToOther: toOther})
	m.Corners[cIdx].Link = li

	toSelf := target.Xform.Combine(selfXform.Inverse())
	oli := len(target.Mesh.Links)
	target.Mesh.Links = append(target.Mesh.Links, MeshLink{OtherSpace: selfID, OtherFace: face, OtherCorner: cIdx, XformToOther: toSelf})
	target.Mesh.Corners[ocIdx].Link = oli
}

func (m *SpaceMesh) cornerOnEdge(face, edge int) int {
	f := &m.Faces[face]
	for i := 0; i < f.CornerCount; i++ {
		ci := f.FirstCorner + i
		if m.Corners[ci].Edge == edge {
			return ci
		}
	}
	return -1
}

// FaceClosestTo implements §4.5's face_closest_to: projects p onto every
// enabled face's plane, clips the projection inside the face by pushing it
// across each edge's in-plane half-space, and returns the closest result.
func (m *SpaceMesh) FaceClosestTo(p d3.Vec3) (face int, point d3.Vec3, dist float32, ok bool) {
	best := float32(-1)
	bestFace := -1
	var bestPoint d3.Vec3
	for fi := range m.Faces {
		f := &m.Faces[fi]
		if !f.Enabled {
			continue
		}
		planeDist := f.Normal.Dot(p) - f.PlaneDist
		proj := p.Sub(f.Normal.Scale(planeDist))
		clipped := m.clipIntoFace(fi, proj)
		d := clipped.Dist(p)
		if best < 0 || d < best {
			best = d
			bestFace = fi
			bestPoint = clipped
		}
	}
	if bestFace < 0 {
		return -1, d3.NewVec3(), 0, false
	}
	return bestFace, bestPoint, best, true
}

// clipIntoFace pushes p (assumed already on face fi's plane) inside every
// edge's in-plane half-space.
func (m *SpaceMesh) clipIntoFace(fi int, p d3.Vec3) d3.Vec3 {
	f := &m.Faces[fi]
	cur := d3.NewVec3From(p)
	for i := 0; i < f.CornerCount; i++ {
		a := m.cornerPos(f, i)
		b := m.cornerPos(f, (i+1)%f.CornerCount)
		edge := b.Sub(a)
		inward := f.Normal.Cross(edge)
		inward.Normalize()
		dist := inward.Dot(cur.Sub(a))
		if dist < 0 {
			cur = cur.Sub(inward.Scale(dist))
		}
	}
	return cur
}

// NearestPoint implements §4.5's nearest_point: the same clipped
// projection as FaceClosestTo, rejected if farther than radius.
func (m *SpaceMesh) NearestPoint(p d3.Vec3, radius float32) (d3.Vec3, int32, bool) {
	face, point, dist, ok := m.FaceClosestTo(p)
	if !ok || dist > radius {
		return d3.NewVec3(), 0, false
	}
	return point, m.Faces[face].Type, true
}

// LineCollide implements §4.5's nav_mesh_line_collide: starting at the
// face closest to origin, walks the ray face-to-face until it exits
// through a true boundary edge (reporting the fractional distance) or
// terminates inside a face with no exit in the ray's direction.
//
// Grounded on detour.NavMeshQuery.Raycast (detour/raycast.go), which walks
// adjacent polygons the same way; generalised here to also follow
// cross-space MeshLinks, transforming the ray into the linked mesh's local
// frame at each hop.
func (m *SpaceMesh) LineCollide(origin, dir d3.Vec3) (dist float32, meshID SpaceID, ok bool) {
	startFace, startPoint, _, found := m.FaceClosestTo(origin)
	if !found {
		return 0, 0, false
	}
	return m.walkRay(startFace, startPoint, dir, 0)
}

// walkRay is the recursive per-mesh step of LineCollide; cur is already on
// curFace's plane, traveled is the world-space distance accumulated so far
// from the original origin (used to compute a fraction once the overall
// ray length is known by the caller via normalised dir).
func (m *SpaceMesh) walkRay(curFace int, cur, dir d3.Vec3, traveled float32) (float32, SpaceID, bool) {
	const maxHops = 256
	for hop := 0; hop < maxHops; hop++ {
		f := &m.Faces[curFace]
		rayNormal := f.Normal.Cross(dir)
		if rayNormal.Len() < 1e-8 {
			return 0, 0, false
		}
		rayNormal.Normalize()
		rd := rayNormal.Dot(cur)

		exitEdge, exitPoint, ok := m.findExitEdge(f, cur, dir, rayNormal, rd)
		if !ok {
			return 0, 0, false // ray terminates inside the face
		}
		e := &m.Edges[exitEdge]
		next := e.Face1
		if next == curFace {
			next = e.Face2
		}
		corner := m.cornerOnEdge(curFace, exitEdge)
		if corner >= 0 && m.Corners[corner].Link != noLink {
			link := m.Links[m.Corners[corner].Link]
			return exitPoint.Len(), link.OtherSpace, true
		}
		if next == noFace {
			return cur.Dist(exitPoint) + traveled, 0, true
		}
		traveled += cur.Dist(exitPoint)
		cur = exitPoint
		curFace = next
	}
	return 0, 0, false
}

// findExitEdge finds the edge of face f whose two endpoints straddle the
// ray's plane (normal = rayNormal, through cur), and returns the
// intersection point of the ray with that edge.
func (m *SpaceMesh) findExitEdge(f *MeshFace, cur, dir, rayNormal d3.Vec3, rd float32) (int, d3.Vec3, bool) {
	for i := 0; i < f.CornerCount; i++ {
		c := m.Corners[f.FirstCorner+i]
		a := m.cornerPos(f, i)
		b := m.cornerPos(f, (i+1)%f.CornerCount)
		da := rayNormal.Dot(a) - rd
		db := rayNormal.Dot(b) - rd
		if (da > 0) == (db > 0) {
			continue
		}
		// only consider the side the ray is heading towards
		toA := a.Sub(cur)
		if toA.Dot(dir) < 0 && toA.Len() > 1e-6 {
			continue
		}
		t := da / (da - db)
		p := a.Lerp(b, t)
		return c.Edge, p, true
	}
	return -1, d3.NewVec3(), false
}

// VerifyInvariants checks universal invariants 1, 2, 4 and 5 of §8 and
// returns a failure Status (with InvariantViolation set) at the first
// violation found. Invariant 1 is checked only for the first enabled face
// claiming each edge; invariant 3 needs the other Spaces and is checked by
// Layer.VerifyInvariants; invariant 6 is not checked. Layer.VerifyInvariants
// calls this for every mesh Space, and Layer.Prepare runs that check only
// when DebugVerify is set, mirroring assertgo's debug/release split.
func (m *SpaceMesh) VerifyInvariants() Status {
	seen := make(map[edgeKey]int)
	for ei, e := range m.Edges {
		f1ok := e.Face1 != noFace && m.Faces[e.Face1].Enabled
		f2ok := e.Face2 != noFace && m.Faces[e.Face2].Enabled
		if (f1ok || f2ok) && m.cornerOnEdge(pickEnabledFace(e, m), ei) < 0 {
			return Failure | InvariantViolation
		}
		key := makeEdgeKey(e.VertA, e.VertB)
		if f1ok || f2ok {
			if other, dup := seen[key]; dup && other != ei {
				return Failure | InvariantViolation
			}
			seen[key] = ei
		}
	}
	for i := range m.Verts {
		for j := i + 1; j < len(m.Verts); j++ {
			if m.Verts[i].Pos.Dist(m.Verts[j].Pos) < meshEdgeVertexEps {
				return Failure | InvariantViolation
			}
		}
	}
	for fi := range m.Faces {
		f := &m.Faces[fi]
		if !f.Enabled {
			continue
		}
		for i := 0; i < f.CornerCount; i++ {
			c := m.Corners[f.FirstCorner+i]
			e := m.Edges[c.Edge]
			nextVert := m.Corners[f.FirstCorner+(i+1)%f.CornerCount].Vertex
			if !(e.VertA == c.Vertex && e.VertB == nextVert) && !(e.VertB == c.Vertex && e.VertA == nextVert) {
				return Failure | InvariantViolation
			}
			if c.Link != noLink {
				l := m.Links[c.Link]
				_ = l // inverse-link check requires the owning World; done at Layer level
			}
		}
	}
	return Success
}

func pickEnabledFace(e MeshEdge, m *SpaceMesh) int {
	if e.Face1 != noFace && m.Faces[e.Face1].Enabled {
		return e.Face1
	}
	return e.Face2
}
