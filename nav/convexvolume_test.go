package nav

import (
	"testing"

	"github.com/arl/gogeo/f32/d3"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTessellateBoxProducesSixOutwardFaces(t *testing.T) {
	cv, st := Tessellate(Identity(), Shape{Kind: ShapeBox, Center: d3.NewVec3XYZ(0, 0, 0), HalfExtents: d3.NewVec3XYZ(1, 1, 1)})
	require.False(t, Failed(st))
	require.Len(t, cv.Normals, 6)

	assert.True(t, cv.Inside(d3.NewVec3XYZ(0, 0, 0)))
	assert.False(t, cv.Inside(d3.NewVec3XYZ(2, 0, 0)), "outside +x face")
	assert.False(t, cv.Inside(d3.NewVec3XYZ(0, -1, 0)), "exactly on the bottom face is not strictly inside")
	assert.False(t, cv.Inside(d3.NewVec3XYZ(0, -1.01, 0)), "past the bottom face")

	assert.InDelta(t, float32(-1), cv.Min[0], 1e-5)
	assert.InDelta(t, float32(1), cv.Max[0], 1e-5)
}

func TestTessellateBoxAppliesTransform(t *testing.T) {
	cv, st := Tessellate(Translation(d3.NewVec3XYZ(5, 0, 0)), Shape{Kind: ShapeBox, Center: d3.NewVec3XYZ(0, 0, 0), HalfExtents: d3.NewVec3XYZ(1, 1, 1)})
	require.False(t, Failed(st))
	assert.True(t, cv.Inside(d3.NewVec3XYZ(5, 0, 0)))
	assert.False(t, cv.Inside(d3.NewVec3XYZ(0, 0, 0)))
}

func TestTessellateUnsupportedShapeKindFails(t *testing.T) {
	_, st := Tessellate(Identity(), Shape{Kind: ShapeCylinder})
	assert.True(t, Failed(st))
	assert.True(t, st&Unsupported != 0)
}

func TestTessellateHullRejectsFewerThanFourPoints(t *testing.T) {
	_, st := Tessellate(Identity(), Shape{Kind: ShapeHull, Points: []d3.Vec3{d3.NewVec3(), d3.NewVec3(), d3.NewVec3()}})
	assert.True(t, Failed(st))
}

func TestConvexVolumeOverlapsChecksAABBOnly(t *testing.T) {
	cv, st := Tessellate(Identity(), Shape{Kind: ShapeBox, Center: d3.NewVec3XYZ(0, 0, 0), HalfExtents: d3.NewVec3XYZ(1, 1, 1)})
	require.False(t, Failed(st))
	assert.True(t, cv.Overlaps(d3.NewVec3XYZ(0.5, 0.5, 0.5), d3.NewVec3XYZ(5, 5, 5)))
	assert.False(t, cv.Overlaps(d3.NewVec3XYZ(10, 10, 10), d3.NewVec3XYZ(20, 20, 20)))
}

func TestNewNavBlockerTessellatesAndComputesWorldAABB(t *testing.T) {
	b, st := NewNavBlocker(Translation(d3.NewVec3XYZ(10, 0, 0)),
		[]Shape{{Kind: ShapeBox, Center: d3.NewVec3XYZ(0, 0, 0), HalfExtents: d3.NewVec3XYZ(1, 2, 1)}},
		0, 0, SpaceKindMesh)
	require.False(t, Failed(st))
	require.Len(t, b.Volumes, 1)

	min, max := b.WorldAABB()
	assert.InDelta(t, float32(9), min[0], 1e-5)
	assert.InDelta(t, float32(11), max[0], 1e-5)
	assert.InDelta(t, float32(-2), min[1], 1e-5)
	assert.InDelta(t, float32(2), max[1], 1e-5)
}

func TestNewNavBlockerPropagatesTessellationFailure(t *testing.T) {
	_, st := NewNavBlocker(Identity(), []Shape{{Kind: ShapeCapsule}}, 0, 0, SpaceKindMesh)
	assert.True(t, Failed(st))
}
