package nav

import "github.com/arl/gogeo/f32/d3"

// TypeCost is a per-user-type traversal cost policy (§3 "Navigator").
type TypeCost struct {
	TypeNumber  int32
	FixCost     float32
	CostPerMetre float32
}

// Path is the caller-provided path object result of FindPath (§6
// "Navigator result"): clear/append/count/at, backed by a plain slice.
type Path struct {
	Points []d3.Vec3
}

func (p *Path) Clear()              { p.Points = p.Points[:0] }
func (p *Path) Append(pt d3.Vec3)   { p.Points = append(p.Points, pt) }
func (p *Path) Count() int          { return len(p.Points) }
func (p *Path) At(i int) d3.Vec3    { return p.Points[i] }

// Navigator is the user-facing query object (§4.10): a layer number, a
// target space-type, a per-type cost policy, and the cached index-parallel
// cost table rebuilt whenever the Layer's CostTable changes.
type Navigator struct {
	World     *World
	LayerNum  int32
	SpaceType SpaceKind

	DefaultFixCost      float32
	DefaultCostPerMetre float32
	TypeCosts           []TypeCost

	MaxOutsideDistance float32
	BlockingCost       float32

	// costIndex[i] is the (fix, per-metre) pair for CostTable index i,
	// rebuilt by Prepare whenever CostTableDefinitionChanged fired.
	costIndex      []TypeCost
	costIndexDirty bool

	grid *pathFinderNavGrid
	mesh *pathFinderNavMesh
}

// NewNavigator constructs a Navigator bound to a World/Layer.
func NewNavigator(w *World, layer int32, spaceType SpaceKind) *Navigator {
	return &Navigator{
		World: w, LayerNum: layer, SpaceType: spaceType,
		DefaultCostPerMetre: 1,
		MaxOutsideDistance:  0,
		BlockingCost:        1e9,
		costIndexDirty:      true,
		grid:                &pathFinderNavGrid{},
		mesh:                &pathFinderNavMesh{},
	}
}

// CostTableDefinitionChanged marks the cached cost-index stale; called by
// Layer.Prepare whenever the CostTable grew.
func (n *Navigator) CostTableDefinitionChanged() {
	n.costIndexDirty = true
}

// Prepare rebuilds the index-parallel cost cache if stale (§4.7 step 4).
func (n *Navigator) Prepare() {
	if !n.costIndexDirty {
		return
	}
	layer := n.layer()
	count := layer.CostTable.Count()
	n.costIndex = make([]TypeCost, count)
	for i := 0; i < count; i++ {
		n.costIndex[i] = TypeCost{TypeNumber: layer.CostTable.TypeAt(i), FixCost: n.DefaultFixCost, CostPerMetre: n.DefaultCostPerMetre}
	}
	for _, tc := range n.TypeCosts {
		idx := layer.CostTable.IndexOf(int32(tc.TypeNumber), -1)
		if idx >= 0 && idx < len(n.costIndex) {
			n.costIndex[idx] = tc
		}
	}
	n.costIndexDirty = false
}

func (n *Navigator) layer() *Layer {
	return n.World.Layer(n.LayerNum)
}

func (n *Navigator) costAt(typeIndex int32) TypeCost {
	if int(typeIndex) < len(n.costIndex) {
		return n.costIndex[typeIndex]
	}
	return TypeCost{FixCost: n.DefaultFixCost, CostPerMetre: n.DefaultCostPerMetre}
}

// FindPath dispatches to the grid or mesh pathfinder by space-type (§4.10).
func (n *Navigator) FindPath(start, goal d3.Vec3, out *Path) Status {
	n.World.Layer(n.LayerNum).Prepare()
	out.Clear()
	switch n.SpaceType {
	case SpaceKindGrid:
		return n.grid.findPath(n, start, goal, out)
	default:
		return n.mesh.findPath(n, start, goal, out)
	}
}

// NearestPoint defers to the Layer's grid or mesh nearest-point helper.
func (n *Navigator) NearestPoint(p d3.Vec3, radius float32) (d3.Vec3, int32, bool) {
	n.World.Layer(n.LayerNum).Prepare()
	layer := n.layer()
	switch n.SpaceType {
	case SpaceKindGrid:
		id, vi, dist, ok := layer.GridVertexClosestTo(p)
		if !ok || dist > radius {
			return d3.NewVec3(), 0, false
		}
		s := layer.Spaces[id]
		return s.Transform.Apply(s.Grid.Verts[vi].Pos), 0, true
	default:
		id, fi, dist, ok := layer.MeshFaceClosestTo(p)
		if !ok || dist > radius {
			return d3.NewVec3(), 0, false
		}
		s := layer.Spaces[id]
		local := s.Transform.Inverse().Apply(p)
		pt, typ, found := s.Mesh.NearestPoint(local, radius)
		if !found {
			return d3.NewVec3(), 0, false
		}
		_ = fi
		return s.Transform.Apply(pt), typ, true
	}
}

// LineCollide is mesh-only; on a grid Navigator it fails Unsupported
// (§4.10).
func (n *Navigator) LineCollide(origin, dir d3.Vec3) (float32, bool, Status) {
	if n.SpaceType != SpaceKindMesh {
		return 0, false, Failure | Unsupported
	}
	n.World.Layer(n.LayerNum).Prepare()
	layer := n.layer()
	id, fi, _, ok := layer.MeshFaceClosestTo(origin)
	if !ok {
		return 0, false, Success
	}
	_ = fi
	s := layer.Spaces[id]
	local := s.Transform.Inverse().Apply(origin)
	localDir := s.Transform.Inverse().ApplyNormal(dir)
	dist, _, hit := s.Mesh.LineCollide(local, localDir)
	return dist, hit, Success
}

// Collider is the narrow shape interface path_collide_ray/path_collide_shape
// sweep against; consumed as an external value library per spec §1.
type Collider interface {
	// Intersects reports whether the segment a->b hits the collider,
	// returning the fractional distance along the segment if so.
	Intersects(a, b d3.Vec3) (fraction float32, hit bool)
}

// PathCollideRay walks path (or the sub-range [start,len(path)) when start
// > 0) as a sequence of ray segments against collider, implementing
// §4.10's path_collide_ray. The original source increments its fallthrough
// index by i+i in one branch; DESIGN NOTES §9(b) calls this out as a bug,
// fixed here to i+1.
func (n *Navigator) PathCollideRay(path *Path, collider Collider, start int) (afterPoint d3.Vec3, fraction float32, ok bool) {
	if path.Count() < 2 {
		return d3.NewVec3(), 0, false
	}
	if start < 0 {
		start = 0
	}
	for i := start; i+1 < path.Count(); i = i + 1 {
		a, b := path.At(i), path.At(i+1)
		if frac, hit := collider.Intersects(a, b); hit {
			return a.Lerp(b, frac), frac, true
		}
	}
	return d3.NewVec3(), 0, false
}

// AgentCollider sweeps a shape collider along a segment, used by
// PathCollideShape; a thin variant of Collider that also receives the
// moving agent's shape.
type AgentCollider interface {
	SweepIntersects(a, b d3.Vec3, agent Shape) (fraction float32, hit bool)
}

// PathCollideShape is path_collide_ray's sibling that sweeps an agent
// collider rather than a point ray along each path segment (§4.10).
func (n *Navigator) PathCollideShape(path *Path, collider AgentCollider, agent Shape, start int) (afterPoint d3.Vec3, fraction float32, ok bool) {
	if path.Count() < 2 {
		return d3.NewVec3(), 0, false
	}
	if start < 0 {
		start = 0
	}
	for i := start; i+1 < path.Count(); i++ {
		a, b := path.At(i), path.At(i+1)
		if frac, hit := collider.SweepIntersects(a, b, agent); hit {
			return a.Lerp(b, frac), frac, true
		}
	}
	return d3.NewVec3(), 0, false
}
