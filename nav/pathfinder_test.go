package nav

import (
	"testing"

	"github.com/arl/gogeo/f32/d3"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// buildTwoMeshWorld assembles a World with two square mesh Spaces side by
// side on layer 0, linked along their shared edge, plus a mesh Navigator.
// Space A spans local x in [0,10]; Space B is translated by (10,0,0), so
// together they cover world x in [0,20].
func buildTwoMeshWorld(t *testing.T) (*World, *Navigator) {
	t.Helper()
	w := NewWorld()
	layer := w.Layer(0)

	idA := layer.AllocID()
	spaceA := NewMeshSpace(idA, 0, Identity())
	st := spaceA.Mesh.Build(squareMeshVerts(), []AuthoredMeshFace{{Verts: []int{0, 3, 2, 1}, Type: 1}}, layer.CostTable)
	require.False(t, Failed(st))
	layer.AddSpace(spaceA)

	idB := layer.AllocID()
	spaceB := NewMeshSpace(idB, 0, Translation(d3.NewVec3XYZ(10, 0, 0)))
	st = spaceB.Mesh.Build(squareMeshVerts(), []AuthoredMeshFace{{Verts: []int{0, 3, 2, 1}, Type: 1}}, layer.CostTable)
	require.False(t, Failed(st))
	layer.AddSpace(spaceB)

	navr := NewNavigator(w, 0, SpaceKindMesh)
	layer.AddNavigator(navr)
	return w, navr
}

func TestFindPathMeshCrossesLinkedSpaces(t *testing.T) {
	w, navr := buildTwoMeshWorld(t)
	w.PrepareAll()

	var path Path
	st := navr.FindPath(d3.NewVec3XYZ(2, 0, 5), d3.NewVec3XYZ(15, 0, 5), &path)
	require.False(t, Failed(st))
	require.Greater(t, path.Count(), 0, "expected a non-empty path across the linked meshes")

	last := path.At(path.Count() - 1)
	assert.InDelta(t, float32(15), last[0], 1e-3)
	assert.InDelta(t, float32(5), last[2], 1e-3)
}

func TestFindPathMeshWithinSingleSpace(t *testing.T) {
	w, navr := buildTwoMeshWorld(t)
	w.PrepareAll()

	var path Path
	st := navr.FindPath(d3.NewVec3XYZ(1, 0, 1), d3.NewVec3XYZ(9, 0, 9), &path)
	require.False(t, Failed(st))
	require.Greater(t, path.Count(), 0)
	last := path.At(path.Count() - 1)
	assert.InDelta(t, float32(9), last[0], 1e-3)
	assert.InDelta(t, float32(9), last[2], 1e-3)
}

func TestFindPathGridAcrossLinkedSpaces(t *testing.T) {
	w := NewWorld()
	layer := w.Layer(0)

	idA := layer.AllocID()
	spaceA := NewGridSpace(idA, 0, Identity())
	st := spaceA.Grid.Build(
		[]AuthoredGridVertex{{Pos: d3.NewVec3XYZ(0, 0, 0)}, {Pos: d3.NewVec3XYZ(1, 0, 0)}},
		[]AuthoredGridEdge{{VertA: 0, VertB: 1, TypeA: 1, TypeB: 1}}, layer.CostTable)
	require.False(t, Failed(st))
	layer.AddSpace(spaceA)

	idB := layer.AllocID()
	spaceB := NewGridSpace(idB, 0, Translation(d3.NewVec3XYZ(1, 0, 0)))
	st = spaceB.Grid.Build(
		[]AuthoredGridVertex{{Pos: d3.NewVec3XYZ(0, 0, 0)}, {Pos: d3.NewVec3XYZ(1, 0, 0)}},
		[]AuthoredGridEdge{{VertA: 0, VertB: 1, TypeA: 1, TypeB: 1}}, layer.CostTable)
	require.False(t, Failed(st))
	layer.AddSpace(spaceB)

	navr := NewNavigator(w, 0, SpaceKindGrid)
	layer.AddNavigator(navr)
	w.PrepareAll()

	var path Path
	st = navr.FindPath(d3.NewVec3XYZ(0, 0, 0), d3.NewVec3XYZ(2, 0, 0), &path)
	require.False(t, Failed(st))
	require.Greater(t, path.Count(), 0)
	last := path.At(path.Count() - 1)
	assert.InDelta(t, float32(2), last[0], 1e-3)
}

func TestFindPathOutsideMaxDistanceReturnsEmptyPath(t *testing.T) {
	w, navr := buildTwoMeshWorld(t)
	navr.MaxOutsideDistance = 1
	w.PrepareAll()

	var path Path
	st := navr.FindPath(d3.NewVec3XYZ(2, 0, 5), d3.NewVec3XYZ(200, 50, 200), &path)
	assert.False(t, Failed(st))
	assert.Equal(t, 0, path.Count())
}
