package nav

import "github.com/arl/gogeo/f32/d3"

// NavBlocker is a transformed convex-volume list that invalidates
// overlapping Spaces whenever it changes. Grounded on recast.ConvexVolume
// (inputgeom.go) plus dtNavMeshCreateParams's "off-mesh connection" list
// idiom for owning a small user-authored collection alongside a build.
type NavBlocker struct {
	ID SpaceID // reuses the handle space World hands out

	Xform    Transform
	Shapes   []Shape
	Volumes  []*ConvexVolume
	Priority int32
	Layer    int32
	Enabled  bool
	// SpaceType restricts which Space kind this blocker affects (§3).
	SpaceType SpaceKind
}

// NewNavBlocker tessellates shapes into convex volumes and returns a
// blocker ready to register with a World.
func NewNavBlocker(xform Transform, shapes []Shape, priority, layer int32, spaceType SpaceKind) (*NavBlocker, Status) {
	b := &NavBlocker{Xform: xform, Shapes: shapes, Priority: priority, Layer: layer, Enabled: true, SpaceType: spaceType}
	for _, s := range shapes {
		cv, st := Tessellate(Identity(), s)
		if Failed(st) {
			return nil, st
		}
		b.Volumes = append(b.Volumes, &cv)
	}
	return b, Success
}

// WorldAABB returns the union of this blocker's volumes' AABBs, in world
// space.
func (b *NavBlocker) WorldAABB() (min, max d3.Vec3) {
	if len(b.Volumes) == 0 {
		return d3.NewVec3(), d3.NewVec3()
	}
	first := true
	for _, cv := range b.Volumes {
		wmin, wmax := b.Xform.Apply(cv.Min), b.Xform.Apply(cv.Max)
		wmin, wmax = minVec(wmin, wmax), maxVec(wmin, wmax)
		if first {
			min, max = wmin, wmax
			first = false
			continue
		}
		min, max = minVec(min, wmin), maxVec(max, wmax)
	}
	return min, max
}

// SetEnabled toggles the blocker; callers are expected to invalidate
// affected Spaces' blocking state afterwards (Layer.InvalidateBlocking).
func (b *NavBlocker) SetEnabled(enabled bool) {
	b.Enabled = enabled
}
