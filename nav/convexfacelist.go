package nav

import (
	"github.com/arl/gogeo/f32/d3"
	"github.com/arl/math32"
)

// cfaceVertexMergeEps is the distance below which a vertex introduced by
// cutting collapses into the centroid of a degenerate face.
const cfaceVertexMergeEps = 1e-3

// cfaceColinearDot is the optimise tolerance: a cut vertex is colinear with
// its neighbours when the dot product of its two normalised edge directions
// is within this of 1, and isConvex lets a vertex lie up to this far on the
// outer side of an edge.
const cfaceColinearDot = 0.005

// ConvexFaceList holds a shared vertex table and a list of convex polygon
// faces addressing into it. Used both as the scratch structure a single
// SpaceMesh face is loaded into before cutting (§4.5) and, generalised,
// wherever a convex polygon needs clipping against a set of blocker
// volumes (§4.2).
//
// Grounded on the teacher's IntersectSegmentPoly2D/TriArea2D clipping
// primitives (detour/common.go), generalised from "clip a segment against
// a polygon" to "clip a polygon against a convex volume's planes".
type ConvexFaceList struct {
	Verts []d3.Vec3
	Faces []CFace
}

// CFace is one convex polygon: indices into ConvexFaceList.Verts in CCW
// winding (xz-plane convention matching the space's own winding), plus the
// user type carried over from the face it was cut from.
type CFace struct {
	Verts  []int
	Type   int32
	Normal d3.Vec3
}

// NewConvexFaceList builds a ConvexFaceList containing a single face with
// the given vertices (in winding order) and user type.
func NewConvexFaceList(verts []d3.Vec3, typ int32, normal d3.Vec3) *ConvexFaceList {
	cfl := &ConvexFaceList{}
	idx := make([]int, len(verts))
	for i, v := range verts {
		idx[i] = len(cfl.Verts)
		cfl.Verts = append(cfl.Verts, d3.NewVec3From(v))
	}
	cfl.Faces = append(cfl.Faces, CFace{Verts: idx, Type: typ, Normal: normal})
	return cfl
}

// SplitByConvexVolume cuts every face of cfl by every bounding plane of cv,
// then removes faces whose center lies strictly behind every plane of cv
// (the part of the geometry swallowed by the blocker).
//
// Implements spec §4.2: for each face F, for each bounding plane P of V,
// split F into the side behind P (kept) and the side in front (candidate
// for removal); after all planes, remove faces fully inside V.
func (cfl *ConvexFaceList) SplitByConvexVolume(cv *ConvexVolume) {
	if len(cv.Normals) == 0 {
		return
	}

	faces := cfl.Faces
	cfl.Faces = nil
	for _, f := range faces {
		cfl.Faces = append(cfl.Faces, cfl.splitFaceByVolume(f, cv)...)
	}

	kept := cfl.Faces[:0]
	for _, f := range cfl.Faces {
		if cfl.faceInsideVolume(f, cv) {
			continue
		}
		kept = append(kept, f)
	}
	cfl.Faces = kept
}

// splitFaceByVolume cuts face f sequentially by every plane of cv, yielding
// one or more sub-faces that together cover f (possibly including pieces
// fully inside cv, which SplitByConvexVolume removes afterwards).
func (cfl *ConvexFaceList) splitFaceByVolume(f CFace, cv *ConvexVolume) []CFace {
	pieces := []CFace{f}
	for i := range cv.Normals {
		n, d := cv.Normals[i], cv.Dists[i]
		var next []CFace
		for _, p := range pieces {
			next = append(next, cfl.clipFace(p, n, d)...)
		}
		pieces = next
	}
	return pieces
}

// clipFace splits a single convex face against the plane n.Dot(x) == d,
// returning its pieces (at most 2: one on each side). A face entirely on
// one side is returned unmodified as that single piece.
func (cfl *ConvexFaceList) clipFace(f CFace, n d3.Vec3, d float32) []CFace {
	nv := len(f.Verts)
	if nv < 3 {
		return nil
	}
	side := make([]float32, nv)
	for i, vi := range f.Verts {
		side[i] = n.Dot(cfl.Verts[vi]) - d
	}

	anyFront, anyBack := false, false
	for _, s := range side {
		if s > 1e-6 {
			anyFront = true
		}
		if s < -1e-6 {
			anyBack = true
		}
	}
	if !anyFront || !anyBack {
		return []CFace{f}
	}

	var front, back []int
	for i := 0; i < nv; i++ {
		j := (i + 1) % nv
		si, sj := side[i], side[j]
		vi, vj := f.Verts[i], f.Verts[j]
		if si <= 0 {
			back = append(back, vi)
		} else {
			front = append(front, vi)
		}
		if (si > 0) != (sj > 0) {
			t := si / (si - sj)
			cut := cfl.Verts[vi].Lerp(cfl.Verts[vj], t)
			idx := len(cfl.Verts)
			cfl.Verts = append(cfl.Verts, cut)
			front = append(front, idx)
			back = append(back, idx)
		}
	}

	var out []CFace
	if len(back) >= 3 {
		out = append(out, cfl.dropDegenerate(CFace{Verts: back, Type: f.Type, Normal: f.Normal})...)
	}
	if len(front) >= 3 {
		out = append(out, cfl.dropDegenerate(CFace{Verts: front, Type: f.Type, Normal: f.Normal})...)
	}
	return out
}

// dropDegenerate discards a face with fewer than 3 vertices, or whose
// vertices all collapse within cfaceVertexMergeEps of the centroid.
func (cfl *ConvexFaceList) dropDegenerate(f CFace) []CFace {
	if len(f.Verts) < 3 {
		return nil
	}
	center := cfl.faceCenter(f)
	collapsed := true
	for _, vi := range f.Verts {
		if cfl.Verts[vi].Dist(center) > cfaceVertexMergeEps {
			collapsed = false
			break
		}
	}
	if collapsed {
		return nil
	}
	return []CFace{f}
}

func (cfl *ConvexFaceList) faceCenter(f CFace) d3.Vec3 {
	c := d3.NewVec3XYZ(0, 0, 0)
	for _, vi := range f.Verts {
		c = c.Add(cfl.Verts[vi])
	}
	return c.Scale(1.0 / float32(len(f.Verts)))
}

// faceInsideVolume reports whether a face's center lies strictly inside
// every bounding plane of cv (i.e. the face was entirely swallowed by the
// blocker volume).
func (cfl *ConvexFaceList) faceInsideVolume(f CFace, cv *ConvexVolume) bool {
	c := cfl.faceCenter(f)
	for i := range cv.Normals {
		if cv.Normals[i].Dot(c)-cv.Dists[i] >= -1e-6 {
			return false
		}
	}
	return true
}

// Optimise collapses colinear vertex chains and merges adjacent faces
// across convex-preserving edges. Only vertices at index >= initialVerts
// (introduced by cutting) are eligible for removal, per spec §4.2. Iterates
// until no further simplification is possible.
func (cfl *ConvexFaceList) Optimise(initialVerts int) {
	for {
		changed := cfl.collapseColinear(initialVerts)
		changed = cfl.mergeConvexNeighbours(initialVerts) || changed
		if !changed {
			return
		}
	}
}

// collapseColinear removes, from every face, any cut vertex whose two
// neighbouring edges are colinear within cfaceColinearDot.
func (cfl *ConvexFaceList) collapseColinear(initialVerts int) bool {
	changed := false
	for fi, f := range cfl.Faces {
		nv := len(f.Verts)
		if nv <= 3 {
			continue
		}
		var out []int
		for i := 0; i < nv; i++ {
			vi := f.Verts[i]
			if vi < initialVerts {
				out = append(out, vi)
				continue
			}
			prev := cfl.Verts[f.Verts[(i-1+nv)%nv]]
			cur := cfl.Verts[vi]
			next := cfl.Verts[f.Verts[(i+1)%nv]]
			a := cur.Sub(prev)
			b := next.Sub(cur)
			if a.Len() < 1e-8 || b.Len() < 1e-8 {
				changed = true
				continue
			}
			a.Normalize()
			b.Normalize()
			if math32.Abs(a.Dot(b)-1) < cfaceColinearDot {
				// colinear: drop the intermediate vertex
				changed = true
				continue
			}
			out = append(out, vi)
		}
		if len(out) >= 3 {
			cfl.Faces[fi].Verts = out
		}
	}
	return changed
}

// mergeConvexNeighbours looks for a shared edge between two faces whose
// removal leaves a single convex face, and merges them. Only edges with at
// least one cut vertex endpoint are considered, since original authored
// edges must be preserved as-is.
func (cfl *ConvexFaceList) mergeConvexNeighbours(initialVerts int) bool {
	for i := 0; i < len(cfl.Faces); i++ {
		for j := i + 1; j < len(cfl.Faces); j++ {
			if cfl.Faces[i].Type != cfl.Faces[j].Type {
				continue
			}
			if merged, ok := cfl.tryMerge(cfl.Faces[i], cfl.Faces[j], initialVerts); ok {
				cfl.Faces[i] = merged
				cfl.Faces = append(cfl.Faces[:j], cfl.Faces[j+1:]...)
				return true
			}
		}
	}
	return false
}

// tryMerge attempts to merge a and b across a shared edge (v, w) with at
// least one cut-introduced endpoint, returning the merged face if the
// result is convex.
func (cfl *ConvexFaceList) tryMerge(a, b CFace, initialVerts int) (CFace, bool) {
	na, nb := len(a.Verts), len(b.Verts)
	for ia := 0; ia < na; ia++ {
		v, w := a.Verts[ia], a.Verts[(ia+1)%na]
		if v < initialVerts && w < initialVerts {
			continue // original edge, never merge across it
		}
		for ib := 0; ib < nb; ib++ {
			// b must traverse the same edge in opposite winding: w -> v
			if b.Verts[ib] != w || b.Verts[(ib+1)%nb] != v {
				continue
			}
			var merged []int
			for k := 1; k <= na; k++ {
				merged = append(merged, a.Verts[(ia+k)%na])
			}
			merged = merged[:len(merged)-1] // drop duplicate v at the seam, re-added below
			merged = append(merged, a.Verts[ia])
			for k := 2; k < nb; k++ {
				merged = append(merged, b.Verts[(ib+k)%nb])
			}
			if !cfl.isConvex(merged, a.Normal) {
				continue
			}
			return CFace{Verts: merged, Type: a.Type, Normal: a.Normal}, true
		}
	}
	return CFace{}, false
}

// isConvex reports whether the polygon described by verts (indices into
// cfl.Verts) is convex with respect to normal, within cfaceColinearDot
// tolerance: every vertex must be on the non-negative side of the inward
// normal of each edge.
func (cfl *ConvexFaceList) isConvex(verts []int, normal d3.Vec3) bool {
	nv := len(verts)
	if nv < 3 {
		return false
	}
	for i := 0; i < nv; i++ {
		a := cfl.Verts[verts[i]]
		b := cfl.Verts[verts[(i+1)%nv]]
		edge := b.Sub(a)
		inward := normal.Cross(edge)
		for k := 0; k < nv; k++ {
			if k == i || k == (i+1)%nv {
				continue
			}
			p := cfl.Verts[verts[k]]
			if inward.Dot(p.Sub(a)) < -cfaceColinearDot {
				return false
			}
		}
	}
	return true
}
