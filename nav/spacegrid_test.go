package nav

import (
	"testing"

	"github.com/arl/gogeo/f32/d3"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func buildLineGrid(t *testing.T) (*SpaceGrid, *CostTable) {
	t.Helper()
	g := &SpaceGrid{}
	ct := NewCostTable()
	verts := []AuthoredGridVertex{
		{Pos: d3.NewVec3XYZ(0, 0, 0)},
		{Pos: d3.NewVec3XYZ(1, 0, 0)},
		{Pos: d3.NewVec3XYZ(2, 0, 0)},
	}
	edges := []AuthoredGridEdge{
		{VertA: 0, VertB: 1, TypeA: 1, TypeB: 1},
		{VertA: 1, VertB: 2, TypeA: 1, TypeB: 1},
	}
	st := g.Build(verts, edges, ct)
	require.False(t, Failed(st))
	return g, ct
}

func TestSpaceGridBuildVertexEdgeTable(t *testing.T) {
	g, _ := buildLineGrid(t)

	assert.Equal(t, 1, g.Verts[0].EdgeCount)
	assert.Equal(t, 2, g.Verts[1].EdgeCount)
	assert.Equal(t, 1, g.Verts[2].EdgeCount)

	// vertex 1 is incident to both edges, in some order.
	edges1 := g.EdgesOf(1)
	require.Len(t, edges1, 2)
	assert.ElementsMatch(t, []int{0, 1}, edges1)

	other, typ := g.Edges[0].Other(0)
	assert.Equal(t, 1, other)
	assert.Equal(t, int32(0), typ) // first registered type number maps to index 0
}

func TestSpaceGridBuildRejectsOutOfRangeEdge(t *testing.T) {
	g := &SpaceGrid{}
	ct := NewCostTable()
	verts := []AuthoredGridVertex{{Pos: d3.NewVec3XYZ(0, 0, 0)}}
	edges := []AuthoredGridEdge{{VertA: 0, VertB: 5}}
	st := g.Build(verts, edges, ct)
	assert.True(t, Failed(st))
}

func TestSpaceGridUpdateBlockingDisablesInteriorVertex(t *testing.T) {
	g, _ := buildLineGrid(t)
	box, st := Tessellate(Identity(), Shape{Kind: ShapeBox, Center: d3.NewVec3XYZ(1, 0, 0), HalfExtents: d3.NewVec3XYZ(0.25, 5, 5)})
	require.False(t, Failed(st))

	g.UpdateBlocking(Identity(), []*ConvexVolume{&box})

	assert.True(t, g.Verts[0].Enabled)
	assert.False(t, g.Verts[1].Enabled, "vertex at (1,0,0) sits inside the blocker box")
	assert.True(t, g.Verts[2].Enabled)
}

func TestSpaceGridUpdateBlockingNoSplittersEnablesAll(t *testing.T) {
	g, _ := buildLineGrid(t)
	g.Verts[1].Enabled = false
	g.UpdateBlocking(Identity(), nil)
	for _, v := range g.Verts {
		assert.True(t, v.Enabled)
	}
}

func TestSpaceGridLinkToOtherGridsFindsCoincidentVertex(t *testing.T) {
	a, ct := buildLineGrid(t)
	b := &SpaceGrid{}
	st := b.Build([]AuthoredGridVertex{{Pos: d3.NewVec3XYZ(0, 0, 0)}, {Pos: d3.NewVec3XYZ(-1, 0, 5)}},
		[]AuthoredGridEdge{{VertA: 0, VertB: 1, TypeA: 1, TypeB: 1}}, ct)
	require.False(t, Failed(st))

	// place b so its vertex 0 coincides with a's vertex 2 (world (2,0,0)).
	bXform := Translation(d3.NewVec3XYZ(2, 0, 0))
	targets := map[SpaceID]*gridLinkTarget{
		1: {Grid: a, Xform: Identity()},
		2: {Grid: b, Xform: bXform},
	}
	a.LinkToOtherGrids(1, Identity(), targets, 0.01)

	require.Len(t, a.Links, 1)
	assert.Equal(t, 2, a.Links[0].Vert)
	assert.Equal(t, SpaceID(2), a.Links[0].OtherGrid)
	assert.Equal(t, 0, a.Links[0].OtherVert)
}
