package nav

import "github.com/arl/gogeo/f32/d3"

// SpaceID identifies a Space within a World. Grounded on detour's PolyRef
// (common.go): a small integer handle into a flat owning table, used
// instead of a pointer so Spaces can be freely reordered/reused without
// invalidating references held by links or in-flight searches.
type SpaceID uint32

// SpaceKind tags which concrete representation a Space wraps: a
// SpaceGrid (vertex/edge graph) or a SpaceMesh (navmesh polygons).
// Grounded on DESIGN NOTES §9(a): "NavSpace/HeightTerrainNavSpace
// inheritance becomes a tagged sum type switching on a Kind field".
type SpaceKind uint8

const (
	SpaceKindGrid SpaceKind = iota
	SpaceKindMesh
)

// Space dirty bits, checked and cleared by Prepare in a fixed order
// (links depend on blocking, blocking depends on nothing else).
const (
	dirtyBlocking uint8 = 1 << iota
	dirtyLinks
)

// Space couples one navigation representation (a SpaceGrid or a
// SpaceMesh) with its placement in the world and its blocking
// configuration. Grounded on dtMeshTile (header + geometry + per-tile
// dirty/salt bookkeeping), generalised from "one rectangular tile" to
// "one arbitrarily placed, arbitrarily shaped authored region".
type Space struct {
	ID    SpaceID
	Layer int32
	Kind  SpaceKind

	Grid *SpaceGrid
	Mesh *SpaceMesh

	Transform    Transform
	SnapDistance float32
	SnapAngle    float32

	// BlockingPriority: only NavBlockers (and other Spaces' own
	// BlockerVolumes, see below) whose priority is >= this value cut this
	// space's geometry (§4.1).
	BlockingPriority int32

	// BlockerShapes/BlockerVolumes are this Space's own optional
	// blocker-shape list (§3's "optional blocker convex-volume list" Space
	// attribute), distinct from the Layer's NavBlocker resources: set via
	// SetBlockerShapes, contributed as splitters to every *other*
	// same-layer Space through AddSpaceBlockerSplitters (§4.4/§4.5/§4.6's
	// add_space_blocker_splitters), never to this Space itself.
	BlockerShapes        []Shape
	BlockerVolumes       []*ConvexVolume
	SpaceBlockerPriority int32

	dirty uint8
}

// SetBlockerShapes tessellates shapes into this Space's own BlockerVolumes
// list, replacing whatever was set before. Callers must invalidate blocking
// on overlapping same-layer Spaces afterwards (Layer.InvalidateBlocking),
// same as updating a NavBlocker's shapes.
func (s *Space) SetBlockerShapes(shapes []Shape) Status {
	volumes := make([]*ConvexVolume, 0, len(shapes))
	for _, sh := range shapes {
		cv, st := Tessellate(Identity(), sh)
		if Failed(st) {
			return st
		}
		volumes = append(volumes, &cv)
	}
	s.BlockerShapes = shapes
	s.BlockerVolumes = volumes
	return Success
}

// NewGridSpace constructs a Space wrapping a fresh SpaceGrid.
func NewGridSpace(id SpaceID, layer int32, xform Transform) *Space {
	return &Space{
		ID: id, Layer: layer, Kind: SpaceKindGrid,
		Grid: &SpaceGrid{}, Transform: xform,
		SnapDistance: 0.1, SnapAngle: 0.707,
		dirty: dirtyBlocking | dirtyLinks,
	}
}

// NewMeshSpace constructs a Space wrapping a fresh SpaceMesh.
func NewMeshSpace(id SpaceID, layer int32, xform Transform) *Space {
	return &Space{
		ID: id, Layer: layer, Kind: SpaceKindMesh,
		Mesh: &SpaceMesh{}, Transform: xform,
		SnapDistance: 0.1, SnapAngle: 0.707,
		dirty: dirtyBlocking | dirtyLinks,
	}
}

// InvalidateBlocking marks this space's blocking-derived geometry dirty;
// implicitly also invalidates links, since cutting can change vertex/face
// counts that links reference.
func (s *Space) InvalidateBlocking() {
	s.dirty |= dirtyBlocking | dirtyLinks
}

// InvalidateLinks marks only the cross-space link table dirty.
func (s *Space) InvalidateLinks() {
	s.dirty |= dirtyLinks
}

// Dirty reports whether any rebuild is pending.
func (s *Space) Dirty() bool {
	return s.dirty != 0
}

// WorldAABB returns a conservative world-space bounding box of this
// space's authored geometry, used to cull NavBlockers and neighbouring
// Spaces before the more expensive per-vertex/per-face tests.
func (s *Space) WorldAABB() (min, max d3.Vec3) {
	switch s.Kind {
	case SpaceKindGrid:
		return boundVerts(s.Transform, vertsOfGrid(s.Grid))
	default:
		return boundVerts(s.Transform, s.Mesh.Verts)
	}
}

func vertsOfGrid(g *SpaceGrid) []d3.Vec3 {
	out := make([]d3.Vec3, len(g.Verts))
	for i, v := range g.Verts {
		out[i] = v.Pos
	}
	return out
}

func boundVerts(xform Transform, verts []d3.Vec3) (min, max d3.Vec3) {
	if len(verts) == 0 {
		return d3.NewVec3(), d3.NewVec3()
	}
	wp := xform.Apply(verts[0])
	min, max = d3.NewVec3From(wp), d3.NewVec3From(wp)
	for _, v := range verts[1:] {
		wp := xform.Apply(v)
		expandAABB(&min, &max, wp)
	}
	return min, max
}

// AddBlockerSplitters collects the convex volumes (in this space's local
// frame) of every enabled NavBlocker whose priority meets this space's
// BlockingPriority and whose world AABB overlaps the space's. Implements
// the blocker-selection half of §4.1/§4.5's "add_blocker_splitters".
func (s *Space) AddBlockerSplitters(blockers []*NavBlocker) []*ConvexVolume {
	var out []*ConvexVolume
	smin, smax := s.WorldAABB()
	inv := s.Transform.Inverse()
	for _, b := range blockers {
		if !b.Enabled || b.Priority < s.BlockingPriority || b.Layer != s.Layer || b.SpaceType != s.Kind {
			continue
		}
		for _, cv := range b.Volumes {
			wmin, wmax := b.Xform.Apply(cv.Min), b.Xform.Apply(cv.Max)
			wmin, wmax = minVec(wmin, wmax), maxVec(wmin, wmax)
			if !overlapBoundsVec(smin, smax, wmin, wmax) {
				continue
			}
			out = append(out, localiseVolume(cv, b.Xform, inv))
		}
	}
	return out
}

// AddSpaceBlockerSplitters collects the convex volumes (in this space's
// local frame) of every *other* same-layer Space's own BlockerVolumes list
// whose contributed priority meets this space's BlockingPriority and whose
// world AABB overlaps this space's, implementing §4.4/§4.5/§4.6's
// add_space_blocker_splitters - the Space-sourced sibling of
// AddBlockerSplitters's NavBlocker-sourced list. A Space never cuts itself
// with its own BlockerVolumes.
func (s *Space) AddSpaceBlockerSplitters(spaces map[SpaceID]*Space) []*ConvexVolume {
	var out []*ConvexVolume
	smin, smax := s.WorldAABB()
	inv := s.Transform.Inverse()
	for id, other := range spaces {
		if id == s.ID || other.Layer != s.Layer || other.SpaceBlockerPriority < s.BlockingPriority {
			continue
		}
		for _, cv := range other.BlockerVolumes {
			wmin, wmax := other.Transform.Apply(cv.Min), other.Transform.Apply(cv.Max)
			wmin, wmax = minVec(wmin, wmax), maxVec(wmin, wmax)
			if !overlapBoundsVec(smin, smax, wmin, wmax) {
				continue
			}
			out = append(out, localiseVolume(cv, other.Transform, inv))
		}
	}
	return out
}

// localiseVolume re-expresses a convex volume's planes and AABB in a new
// frame: world = fromXform.Apply(local), target local' = toXform.Apply(world).
func localiseVolume(cv *ConvexVolume, fromXform, toXform Transform) *ConvexVolume {
	combine := fromXform.Combine(toXform)
	out := &ConvexVolume{
		Normals: make([]d3.Vec3, len(cv.Normals)),
		Dists:   make([]float32, len(cv.Dists)),
	}
	for i := range cv.Normals {
		n := combine.ApplyNormal(cv.Normals[i])
		// recover a point on the original plane, then re-derive d in the
		// new frame: p0 = normal * dist (plane through origin offset)
		p0 := cv.Normals[i].Scale(cv.Dists[i])
		wp0 := combine.Apply(p0)
		out.Normals[i] = n
		out.Dists[i] = n.Dot(wp0)
	}
	out.Min = combine.Apply(cv.Min)
	out.Max = combine.Apply(cv.Max)
	out.Min, out.Max = minVec(out.Min, out.Max), maxVec(out.Min, out.Max)
	return out
}

func minVec(a, b d3.Vec3) d3.Vec3 {
	return d3.NewVec3XYZ(minf(a[0], b[0]), minf(a[1], b[1]), minf(a[2], b[2]))
}

func maxVec(a, b d3.Vec3) d3.Vec3 {
	return d3.NewVec3XYZ(maxf(a[0], b[0]), maxf(a[1], b[1]), maxf(a[2], b[2]))
}

func minf(a, b float32) float32 {
	if a < b {
		return a
	}
	return b
}

func maxf(a, b float32) float32 {
	if a > b {
		return a
	}
	return b
}

// Prepare re-cuts blocking when the blocking bit is set and then clears
// both dirty bits. Links are not rebuilt here: Layer.Prepare runs
// Layer.prepareLinks after every Space has prepared, which keeps §4.7/§5's
// ordering requirement ("a Layer never rebuilds links against stale
// blocking"). Splitters come from two sources: NavBlocker resources
// (AddBlockerSplitters) and every other same-layer Space's own
// BlockerVolumes (AddSpaceBlockerSplitters).
func (s *Space) Prepare(blockers []*NavBlocker, spaces map[SpaceID]*Space, costTable *CostTable) {
	if s.dirty&dirtyBlocking != 0 {
		splitters := s.AddBlockerSplitters(blockers)
		splitters = append(splitters, s.AddSpaceBlockerSplitters(spaces)...)
		switch s.Kind {
		case SpaceKindGrid:
			s.Grid.UpdateBlocking(s.Transform, splitters)
		default:
			s.Mesh.Rebuild(splitters)
		}
		s.dirty &^= dirtyBlocking
		s.dirty |= dirtyLinks
	}
	if s.dirty&dirtyLinks != 0 {
		s.dirty &^= dirtyLinks
	}
}
