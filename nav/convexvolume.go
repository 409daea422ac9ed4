package nav

import (
	"github.com/arl/gogeo/f32/d3"
	"github.com/arl/math32"
)

// ShapeKind enumerates the primitive shape variants that can be tessellated
// into a ConvexVolume by a blocker. The variant set mirrors the teacher's
// ConvexVolume (recast/inputgeom.go), generalised from "an array of
// already-tessellated verts plus hmin/hmax" into "a shape description plus
// a tessellation step", since NavBlocker shapes are defined by the host
// engine's shape library rather than authored as raw polygons.
type ShapeKind int

const (
	ShapeSphere ShapeKind = iota
	ShapeBox
	ShapeCylinder
	ShapeCapsule
	ShapeHull
)

// Shape is a single primitive volume in the (external) shape library this
// subsystem consumes as a value type. Fields are interpreted according to
// Kind:
//
//   - Sphere: Center, Radius.
//   - Box: Center, HalfExtents (local, unrotated).
//   - Cylinder, Capsule: Center, Radius, HalfHeight.
//   - Hull: Points holds the convex hull vertices directly.
type Shape struct {
	Kind        ShapeKind
	Center      d3.Vec3
	HalfExtents d3.Vec3
	Radius      float32
	HalfHeight  float32
	Points      []d3.Vec3

	// RingCount/SegmentCount tune sphere tessellation. Zero means "use the
	// default" (9 rings, 20 segments), per spec.
	RingCount    int
	SegmentCount int
}

// ConvexVolume is a tessellated convex volume: a set of bounding planes
// derived from the face list of a tessellated shape, used by
// ConvexFaceList.SplitByConvexVolume to cut navigation geometry.
//
// Grounded on recast.ConvexVolume (inputgeom.go): that type stores a flat
// vertex ring plus hmin/hmax for a vertical prism. Ours generalises to an
// arbitrary closed set of faces (each a plane + winding), since navigation
// blockers are full 3D shapes (sphere, box, ...) rather than always-vertical
// extruded footprints.
type ConvexVolume struct {
	// Faces are the bounding planes of the volume, each defined by a
	// normal (outward) and a plane distance: a point p is inside the
	// volume iff Normal[i].Dot(p) <= Dist[i] for every face i.
	Normals []d3.Vec3
	Dists   []float32
	// AABB bounds every vertex of the tessellated shape; used for cheap
	// overlap rejection before the more expensive per-face clip tests.
	Min, Max d3.Vec3
}

// Inside reports whether p lies strictly inside every bounding plane of cv.
func (cv *ConvexVolume) Inside(p d3.Vec3) bool {
	for i := range cv.Normals {
		if cv.Normals[i].Dot(p) >= cv.Dists[i] {
			return false
		}
	}
	return len(cv.Normals) > 0
}

// Overlaps reports whether cv's AABB overlaps the given AABB.
//
// Grounded on detour.OverlapBounds (common.go), adapted to take d3.Vec3
// directly since that's what callers already hold.
func (cv *ConvexVolume) Overlaps(min, max d3.Vec3) bool {
	return overlapBoundsVec(cv.Min, cv.Max, min, max)
}

func overlapBoundsVec(amin, amax, bmin, bmax d3.Vec3) bool {
	return !(amin[0] > bmax[0] || amax[0] < bmin[0] ||
		amin[1] > bmax[1] || amax[1] < bmin[1] ||
		amin[2] > bmax[2] || amax[2] < bmin[2])
}

const (
	defaultSphereRings    = 9
	defaultSphereSegments = 20
	minSphereRings        = 2
	minSphereSegments     = 8
)

// Tessellate dispatches on Kind (plain type switch, following the teacher's
// style of preferring a switch over an interface+visitor for a small closed
// set - see Poly.Type()/Poly.SetType()) and returns the resulting
// ConvexVolume.
func Tessellate(transform Transform, s Shape) (ConvexVolume, Status) {
	var verts []d3.Vec3
	var faces [][]int // each face is a CCW loop of indices into verts

	switch s.Kind {
	case ShapeSphere:
		verts, faces = tessellateSphere(s)
	case ShapeBox:
		verts, faces = tessellateBox(s)
	case ShapeCylinder, ShapeCapsule:
		// Reserved: not yet implemented, per spec §4.3 ("others: reserved").
		return ConvexVolume{}, Failure | Unsupported
	case ShapeHull:
		verts, faces = s.Points, nil
		if len(verts) < 4 {
			return ConvexVolume{}, Failure | InvalidParameter
		}
	default:
		return ConvexVolume{}, Failure | InvalidParameter
	}

	cv := ConvexVolume{Min: d3.NewVec3XYZ(math32.MaxFloat32, math32.MaxFloat32, math32.MaxFloat32),
		Max: d3.NewVec3XYZ(-math32.MaxFloat32, -math32.MaxFloat32, -math32.MaxFloat32)}
	wv := make([]d3.Vec3, len(verts))
	for i, v := range verts {
		wv[i] = transform.Apply(v)
		expandAABB(&cv.Min, &cv.Max, wv[i])
	}

	for _, f := range faces {
		if len(f) < 3 {
			continue
		}
		n := faceNormal(wv[f[0]], wv[f[1]], wv[f[2]])
		if n.Len() < 1e-8 {
			continue
		}
		n.Normalize()
		cv.Normals = append(cv.Normals, n)
		cv.Dists = append(cv.Dists, n.Dot(wv[f[0]]))
	}
	return cv, Success
}

func expandAABB(min, max *d3.Vec3, p d3.Vec3) {
	for i := 0; i < 3; i++ {
		if p[i] < (*min)[i] {
			(*min)[i] = p[i]
		}
		if p[i] > (*max)[i] {
			(*max)[i] = p[i]
		}
	}
}

// faceNormal derives a face's normal from its first three vertices in
// winding order. Used by Tessellate; SpaceMesh faces get their normal from
// computeFaceGeometry instead.
func faceNormal(a, b, c d3.Vec3) d3.Vec3 {
	return b.Sub(a).Cross(c.Sub(a))
}

func tessellateBox(s Shape) ([]d3.Vec3, [][]int) {
	hx, hy, hz := s.HalfExtents[0], s.HalfExtents[1], s.HalfExtents[2]
	c := s.Center
	verts := []d3.Vec3{
		d3.NewVec3XYZ(c[0]-hx, c[1]-hy, c[2]-hz), // 0
		d3.NewVec3XYZ(c[0]+hx, c[1]-hy, c[2]-hz), // 1
		d3.NewVec3XYZ(c[0]+hx, c[1]-hy, c[2]+hz), // 2
		d3.NewVec3XYZ(c[0]-hx, c[1]-hy, c[2]+hz), // 3
		d3.NewVec3XYZ(c[0]-hx, c[1]+hy, c[2]-hz), // 4
		d3.NewVec3XYZ(c[0]+hx, c[1]+hy, c[2]-hz), // 5
		d3.NewVec3XYZ(c[0]+hx, c[1]+hy, c[2]+hz), // 6
		d3.NewVec3XYZ(c[0]-hx, c[1]+hy, c[2]+hz), // 7
	}
	faces := [][]int{
		{0, 1, 2, 3}, // bottom
		{7, 6, 5, 4}, // top
		{4, 5, 1, 0}, // -z
		{5, 6, 2, 1}, // +x
		{6, 7, 3, 2}, // +z
		{7, 4, 0, 3}, // -x
	}
	return verts, faces
}

func tessellateSphere(s Shape) ([]d3.Vec3, [][]int) {
	rings := s.RingCount
	if rings < minSphereRings {
		rings = defaultSphereRings
	}
	segs := s.SegmentCount
	if segs < minSphereSegments {
		segs = defaultSphereSegments
	}
	r := s.Radius
	c := s.Center

	var verts []d3.Vec3
	verts = append(verts, d3.NewVec3XYZ(c[0], c[1]+r, c[2])) // north pole: index 0
	for ring := 1; ring < rings; ring++ {
		phi := math32.Pi * float32(ring) / float32(rings)
		y := r * math32.Cos(phi)
		rad := r * math32.Sin(phi)
		for seg := 0; seg < segs; seg++ {
			theta := 2 * math32.Pi * float32(seg) / float32(segs)
			x := rad * math32.Cos(theta)
			z := rad * math32.Sin(theta)
			verts = append(verts, d3.NewVec3XYZ(c[0]+x, c[1]+y, c[2]+z))
		}
	}
	verts = append(verts, d3.NewVec3XYZ(c[0], c[1]-r, c[2])) // south pole
	southIdx := len(verts) - 1

	var faces [][]int
	ringStart := func(ring int) int { return 1 + (ring-1)*segs }

	// top cap
	for seg := 0; seg < segs; seg++ {
		faces = append(faces, []int{0, ringStart(1) + (seg+1)%segs, ringStart(1) + seg})
	}
	// middle bands
	for ring := 1; ring < rings-1; ring++ {
		r0, r1 := ringStart(ring), ringStart(ring+1)
		for seg := 0; seg < segs; seg++ {
			a := r0 + seg
			b := r0 + (seg+1)%segs
			cc := r1 + seg
			d := r1 + (seg+1)%segs
			faces = append(faces, []int{a, b, d, cc})
		}
	}
	// bottom cap
	lastRing := ringStart(rings - 1)
	for seg := 0; seg < segs; seg++ {
		faces = append(faces, []int{southIdx, lastRing + seg, lastRing + (seg+1)%segs})
	}
	return verts, faces
}
