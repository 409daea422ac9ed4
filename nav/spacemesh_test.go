package nav

import (
	"testing"

	"github.com/arl/gogeo/f32/d3"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// squareMeshVerts/squareMeshFace build a single upward-facing quad on the
// xz-plane: winding [A,D,C,B] makes the computed normal point +y (verified
// by hand via the same smallest-|dot| corner-pair rule computeFaceGeometry
// uses).
func squareMeshVerts() []AuthoredMeshVertex {
	return []AuthoredMeshVertex{
		{Pos: d3.NewVec3XYZ(0, 0, 0)},  // A
		{Pos: d3.NewVec3XYZ(10, 0, 0)}, // B
		{Pos: d3.NewVec3XYZ(10, 0, 10)}, // C
		{Pos: d3.NewVec3XYZ(0, 0, 10)}, // D
	}
}

func buildSquareMesh(t *testing.T) (*SpaceMesh, *CostTable) {
	t.Helper()
	m := &SpaceMesh{}
	ct := NewCostTable()
	st := m.Build(squareMeshVerts(), []AuthoredMeshFace{{Verts: []int{0, 3, 2, 1}, Type: 1}}, ct)
	require.False(t, Failed(st))
	return m, ct
}

func TestSpaceMeshBuildComputesUpwardNormal(t *testing.T) {
	m, _ := buildSquareMesh(t)
	require.Len(t, m.Faces, 1)
	n := m.Faces[0].Normal
	assert.InDelta(t, float32(0), n[0], 1e-5)
	assert.InDelta(t, float32(1), n[1], 1e-5)
	assert.InDelta(t, float32(0), n[2], 1e-5)
}

func TestSpaceMeshBuildRejectsNonManifoldEdge(t *testing.T) {
	m := &SpaceMesh{}
	ct := NewCostTable()
	verts := []AuthoredMeshVertex{
		{Pos: d3.NewVec3XYZ(0, 0, 0)},
		{Pos: d3.NewVec3XYZ(1, 0, 0)},
		{Pos: d3.NewVec3XYZ(0, 0, 1)},
		{Pos: d3.NewVec3XYZ(0, 1, 1)},
	}
	faces := []AuthoredMeshFace{
		{Verts: []int{0, 1, 2}},
		{Verts: []int{1, 0, 2}}, // shares edge (0,1) with face 0 as its second face
		{Verts: []int{0, 1, 3}}, // third face claiming edge (0,1): non-manifold
	}
	st := m.Build(verts, faces, ct)
	assert.True(t, Failed(st))
}

func TestSpaceMeshVerifyInvariantsOnFreshBuild(t *testing.T) {
	m, _ := buildSquareMesh(t)
	assert.False(t, Failed(m.VerifyInvariants()))
}

func TestSpaceMeshFaceClosestToClipsOutsidePointIntoFace(t *testing.T) {
	m, _ := buildSquareMesh(t)
	fi, pt, _, ok := m.FaceClosestTo(d3.NewVec3XYZ(-5, 3, 5))
	require.True(t, ok)
	assert.Equal(t, 0, fi)
	assert.InDelta(t, float32(0), pt[0], 1e-4, "clipped onto the face's x=0 boundary")
	assert.InDelta(t, float32(5), pt[2], 1e-4)
}

func TestSpaceMeshNearestPointRejectsBeyondRadius(t *testing.T) {
	m, _ := buildSquareMesh(t)
	_, _, ok := m.NearestPoint(d3.NewVec3XYZ(5, 100, 5), 1)
	assert.False(t, ok)

	pt, typ, ok := m.NearestPoint(d3.NewVec3XYZ(5, 0.01, 5), 1)
	require.True(t, ok)
	assert.Equal(t, int32(0), typ)
	assert.InDelta(t, float32(5), pt[0], 1e-4)
}

func TestSpaceMeshRebuildCutsFaceAroundBlocker(t *testing.T) {
	m, _ := buildSquareMesh(t)

	box, st := Tessellate(Identity(), Shape{Kind: ShapeBox, Center: d3.NewVec3XYZ(2, 0, 2), HalfExtents: d3.NewVec3XYZ(1, 5, 1)})
	require.False(t, Failed(st))

	m.Rebuild([]*ConvexVolume{&box})

	enabledCount := 0
	for _, f := range m.Faces {
		if f.Enabled {
			enabledCount++
		}
	}
	assert.Greater(t, enabledCount, 1, "blocker should split the single face into several enabled pieces")
	assert.False(t, Failed(m.VerifyInvariants()))

	// rebuilding again with no splitters restores the original single face.
	m.Rebuild(nil)
	require.Len(t, m.Faces, 1)
	assert.True(t, m.Faces[0].Enabled)
}

func TestSpaceMeshLinkToOtherMeshesExactMatch(t *testing.T) {
	a, ct := buildSquareMesh(t)
	b := &SpaceMesh{}
	// b is a,b,c,d in its own local frame, placed so it shares the edge
	// x=10 (from (10,0,0) to (10,0,10)) with a once translated by (10,0,0).
	st := b.Build([]AuthoredMeshVertex{
		{Pos: d3.NewVec3XYZ(0, 0, 0)},
		{Pos: d3.NewVec3XYZ(10, 0, 0)},
		{Pos: d3.NewVec3XYZ(10, 0, 10)},
		{Pos: d3.NewVec3XYZ(0, 0, 10)},
	}, []AuthoredMeshFace{{Verts: []int{0, 3, 2, 1}, Type: 1}}, ct)
	require.False(t, Failed(st))

	bXform := Translation(d3.NewVec3XYZ(10, 0, 0))
	targets := map[SpaceID]*meshLinkTarget{
		1: {Mesh: a, Xform: Identity()},
		2: {Mesh: b, Xform: bXform},
	}
	a.LinkToOtherMeshes(1, Identity(), 0.05, 0.9, targets)

	require.Len(t, a.Links, 1)
	link := a.Links[0]
	assert.Equal(t, SpaceID(2), link.OtherSpace)
	require.Len(t, b.Links, 1)
	assert.Equal(t, SpaceID(1), b.Links[0].OtherSpace)
}

func TestSpaceMeshLinkToOtherMeshesLinkWithSplit(t *testing.T) {
	a, ct := buildSquareMesh(t)
	require.Len(t, a.Verts, 4)

	// b is a half-size quad sharing only the first half (z in [0,5]) of
	// a's x=10 edge (which spans z in [0,10] the full way): only a's
	// (10,0,0) endpoint coincides with one of b's, and b's (10,0,5) lies
	// inside a's edge, so linking needs a split of a's edge rather than an
	// exact match.
	b := &SpaceMesh{}
	st := b.Build([]AuthoredMeshVertex{
		{Pos: d3.NewVec3XYZ(0, 0, 0)},
		{Pos: d3.NewVec3XYZ(5, 0, 0)},
		{Pos: d3.NewVec3XYZ(5, 0, 5)},
		{Pos: d3.NewVec3XYZ(0, 0, 5)},
	}, []AuthoredMeshFace{{Verts: []int{0, 3, 2, 1}, Type: 1}}, ct)
	require.False(t, Failed(st))

	bXform := Translation(d3.NewVec3XYZ(10, 0, 0))
	targets := map[SpaceID]*meshLinkTarget{
		1: {Mesh: a, Xform: Identity()},
		2: {Mesh: b, Xform: bXform},
	}
	a.LinkToOtherMeshes(1, Identity(), 0.05, 0.9, targets)

	// a gained a split vertex at (10,0,5), the point where b's shorter
	// edge ends partway along a's longer one.
	require.Len(t, a.Verts, 5)
	found := false
	for _, v := range a.Verts {
		if v.Pos.Dist(d3.NewVec3XYZ(10, 0, 5)) < 1e-4 {
			found = true
		}
	}
	assert.True(t, found, "expected a split vertex at (10,0,5)")

	require.Len(t, a.Links, 1)
	assert.Equal(t, SpaceID(2), a.Links[0].OtherSpace)
	require.Len(t, b.Links, 1)
	assert.Equal(t, SpaceID(1), b.Links[0].OtherSpace)
}
