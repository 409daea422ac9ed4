package nav

import "github.com/arl/gogeo/f32/d3"

// Layer scopes all Spaces, NavBlockers and Navigators sharing a layer
// number, and owns the layer-wide CostTable (§3/§4.7). Grounded on
// dtNavMesh's per-tile-set ownership model: a Layer is the analogue of a
// whole navmesh instance, Spaces the analogue of its tiles.
type Layer struct {
	Number int32

	CostTable *CostTable
	dirty     bool

	Spaces     map[SpaceID]*Space
	Blockers   map[SpaceID]*NavBlocker
	Navigators []*Navigator
	Terrains   []*HeightTerrainNavSpace

	nextID SpaceID
}

// NewLayer constructs an empty Layer.
func NewLayer(number int32) *Layer {
	return &Layer{
		Number:    number,
		CostTable: NewCostTable(),
		Spaces:    make(map[SpaceID]*Space),
		Blockers:  make(map[SpaceID]*NavBlocker),
	}
}

// AllocID hands out a fresh SpaceID, shared between Spaces and Blockers
// since both are addressed through the same handle space (DESIGN NOTES §9
// "pointer graphs -> indices").
func (l *Layer) AllocID() SpaceID {
	l.nextID++
	return l.nextID
}

// AddSpace registers a Space and marks the layer dirty.
func (l *Layer) AddSpace(s *Space) {
	l.Spaces[s.ID] = s
	l.dirty = true
}

// RemoveSpace unregisters a Space and marks the links of every remaining
// Space dirty; links that referenced the removed Space stay in place until
// the next Layer.Prepare rebuilds the link tables.
func (l *Layer) RemoveSpace(id SpaceID) {
	delete(l.Spaces, id)
	for _, other := range l.Spaces {
		other.InvalidateLinks()
	}
}

// AddBlocker registers a NavBlocker and marks the layer dirty.
func (l *Layer) AddBlocker(b *NavBlocker) {
	l.Blockers[b.ID] = b
	l.dirty = true
}

// RemoveBlocker unregisters a NavBlocker.
func (l *Layer) RemoveBlocker(id SpaceID) {
	delete(l.Blockers, id)
	l.dirty = true
}

// AddNavigator registers a Navigator on this layer.
func (l *Layer) AddNavigator(n *Navigator) {
	l.Navigators = append(l.Navigators, n)
}

// InvalidateBlocking marks dirty every Space whose type and AABB overlap
// the given box, and implicitly their links (§4.7).
func (l *Layer) InvalidateBlocking(kind SpaceKind, min, max d3.Vec3) {
	for _, s := range l.Spaces {
		if s.Kind != kind {
			continue
		}
		smin, smax := s.WorldAABB()
		if overlapBoundsVec(smin, smax, min, max) {
			s.InvalidateBlocking()
		}
	}
}

// InvalidateLinks marks dirty every Space whose type and AABB overlap the
// given box, without forcing a blocking rebuild.
func (l *Layer) InvalidateLinks(kind SpaceKind, min, max d3.Vec3) {
	for _, s := range l.Spaces {
		if s.Kind != kind {
			continue
		}
		smin, smax := s.WorldAABB()
		if overlapBoundsVec(smin, smax, min, max) {
			s.InvalidateLinks()
		}
	}
}

// MarkDirty flags the layer for a full Prepare pass.
func (l *Layer) MarkDirty() {
	l.dirty = true
}

// Prepare implements §4.7's ordering: cost-table propagation, then
// space/terrain/blocker layout, then links, then navigator refresh.
// Idempotent: a second call with nothing changed performs no work beyond
// the dirty-bit checks themselves (and the invariant check, when
// DebugVerify is set).
func (l *Layer) Prepare() {
	if l.CostTable.Changed() {
		for _, n := range l.Navigators {
			n.CostTableDefinitionChanged()
		}
		l.CostTable.ResetChanged()
	}

	blockerList := l.blockerList()
	linksDirty := false
	for _, s := range l.Spaces {
		if s.dirty != 0 {
			linksDirty = true
		}
	}
	for _, t := range l.Terrains {
		t.Prepare(l.CostTable)
	}
	for _, s := range l.Spaces {
		s.Prepare(blockerList, l.Spaces, l.CostTable)
	}
	if linksDirty {
		l.prepareLinks()
	}
	for _, n := range l.Navigators {
		n.Prepare()
	}
	if DebugVerify {
		if st := l.VerifyInvariants(); Failed(st) {
			panic(st)
		}
	}
	l.dirty = false
}

func (l *Layer) blockerList() []*NavBlocker {
	out := make([]*NavBlocker, 0, len(l.Blockers))
	for _, b := range l.Blockers {
		out = append(out, b)
	}
	return out
}

// prepareLinks rebuilds the cross-space links of every Space on this layer,
// implementing §4.6's prepare_links. Prepare calls it only when at least one
// Space had a dirty bit set.
func (l *Layer) prepareLinks() {
	gridTargets := make(map[SpaceID]*gridLinkTarget)
	meshTargets := make(map[SpaceID]*meshLinkTarget)
	for id, s := range l.Spaces {
		switch s.Kind {
		case SpaceKindGrid:
			gridTargets[id] = &gridLinkTarget{Grid: s.Grid, Xform: s.Transform}
		default:
			meshTargets[id] = &meshLinkTarget{Mesh: s.Mesh, Xform: s.Transform}
		}
	}
	// Every mesh must start this batch with a clean link table before any
	// of them scans: addMutualLink writes into both sides of a pair, so
	// resetting mesh-by-mesh inside the scan loop below would wipe out
	// whatever an earlier mesh in this same loop already linked into it.
	for _, target := range meshTargets {
		target.Mesh.resetLinks()
	}
	for _, s := range l.Spaces {
		switch s.Kind {
		case SpaceKindGrid:
			s.Grid.LinkToOtherGrids(s.ID, s.Transform, gridTargets, s.SnapDistance)
		default:
			s.Mesh.LinkToOtherMeshes(s.ID, s.Transform, s.SnapDistance, s.SnapAngle, meshTargets)
		}
	}
}

// VerifyInvariants checks every mesh Space's own invariants (§8 universal
// invariants 1,2,4,5) plus universal invariant 3 ("for every link L from A
// to B, the inverse link from B to A exists and is mutually consistent"),
// which needs layer-wide visibility across Spaces and so can't be checked
// by a single SpaceMesh in isolation.
func (l *Layer) VerifyInvariants() Status {
	for id, s := range l.Spaces {
		if s.Kind != SpaceKindMesh || s.Mesh == nil {
			continue
		}
		if st := s.Mesh.VerifyInvariants(); Failed(st) {
			return st
		}
		for ci, c := range s.Mesh.Corners {
			if c.Link == noLink {
				continue
			}
			link := s.Mesh.Links[c.Link]
			other, ok := l.Spaces[link.OtherSpace]
			if !ok || other.Kind != SpaceKindMesh || other.Mesh == nil {
				return Failure | InvariantViolation
			}
			if link.OtherCorner < 0 || link.OtherCorner >= len(other.Mesh.Corners) {
				return Failure | InvariantViolation
			}
			back := other.Mesh.Corners[link.OtherCorner]
			if back.Link == noLink {
				return Failure | InvariantViolation
			}
			backLink := other.Mesh.Links[back.Link]
			if backLink.OtherSpace != id || backLink.OtherCorner != ci {
				return Failure | InvariantViolation
			}
		}
	}
	return Success
}

// GridVertexClosestTo scans every grid Space on this layer for the vertex
// closest to p.
func (l *Layer) GridVertexClosestTo(p d3.Vec3) (space SpaceID, vertex int, dist float32, ok bool) {
	best := float32(-1)
	for id, s := range l.Spaces {
		if s.Kind != SpaceKindGrid {
			continue
		}
		local := s.Transform.Inverse().Apply(p)
		for vi, v := range s.Grid.Verts {
			if !v.Enabled {
				continue
			}
			d := local.Dist(v.Pos)
			if best < 0 || d < best {
				best, space, vertex, ok = d, id, vi, true
			}
		}
	}
	return space, vertex, best, ok
}

// MeshFaceClosestTo scans every mesh Space on this layer for the face
// closest to p.
func (l *Layer) MeshFaceClosestTo(p d3.Vec3) (space SpaceID, face int, dist float32, ok bool) {
	best := float32(-1)
	for id, s := range l.Spaces {
		if s.Kind != SpaceKindMesh {
			continue
		}
		local := s.Transform.Inverse().Apply(p)
		fi, _, d, found := s.Mesh.FaceClosestTo(local)
		if found && (best < 0 || d < best) {
			best, space, face, ok = d, id, fi, true
		}
	}
	return space, face, best, ok
}
