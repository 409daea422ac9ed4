package nav

import (
	"testing"

	"github.com/arl/gogeo/f32/d3"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func squareFace() []d3.Vec3 {
	return []d3.Vec3{
		d3.NewVec3XYZ(0, 0, 0),
		d3.NewVec3XYZ(10, 0, 0),
		d3.NewVec3XYZ(10, 0, 10),
		d3.NewVec3XYZ(0, 0, 10),
	}
}

// shoelaceXZ returns twice the (unsigned) area of a polygon projected onto
// the xz-plane.
func shoelaceXZ(cfl *ConvexFaceList, f CFace) float32 {
	var sum float32
	n := len(f.Verts)
	for i := 0; i < n; i++ {
		a := cfl.Verts[f.Verts[i]]
		b := cfl.Verts[f.Verts[(i+1)%n]]
		sum += a[0]*b[2] - b[0]*a[2]
	}
	if sum < 0 {
		sum = -sum
	}
	return sum
}

func TestSplitByConvexVolumeNoOverlapLeavesFaceUnchanged(t *testing.T) {
	cfl := NewConvexFaceList(squareFace(), 1, d3.NewVec3XYZ(0, 1, 0))
	box, st := Tessellate(Identity(), Shape{Kind: ShapeBox, Center: d3.NewVec3XYZ(100, 0, 100), HalfExtents: d3.NewVec3XYZ(1, 1, 1)})
	require.False(t, Failed(st))

	cfl.SplitByConvexVolume(&box)
	require.Len(t, cfl.Faces, 1)
	assert.Len(t, cfl.Faces[0].Verts, 4)
}

func TestSplitByConvexVolumeFullyContainingFaceRemovesIt(t *testing.T) {
	cfl := NewConvexFaceList(squareFace(), 1, d3.NewVec3XYZ(0, 1, 0))
	box, st := Tessellate(Identity(), Shape{Kind: ShapeBox, Center: d3.NewVec3XYZ(5, 0, 5), HalfExtents: d3.NewVec3XYZ(20, 20, 20)})
	require.False(t, Failed(st))

	cfl.SplitByConvexVolume(&box)
	assert.Empty(t, cfl.Faces)
}

func TestSplitByConvexVolumeCarvesInteriorHole(t *testing.T) {
	cfl := NewConvexFaceList(squareFace(), 1, d3.NewVec3XYZ(0, 1, 0))
	initialVerts := len(cfl.Verts)
	box, st := Tessellate(Identity(), Shape{Kind: ShapeBox, Center: d3.NewVec3XYZ(2, 0, 2), HalfExtents: d3.NewVec3XYZ(1, 0.5, 1)})
	require.False(t, Failed(st))

	cfl.SplitByConvexVolume(&box)
	cfl.Optimise(initialVerts)

	require.NotEmpty(t, cfl.Faces)

	var total float32
	for _, f := range cfl.Faces {
		total += shoelaceXZ(cfl, f)
		center := cfl.faceCenter(f)
		assert.False(t, box.Inside(center), "surviving face must not be inside the carved volume")
	}
	// area of the 10x10 square minus the 2x2 box footprint, doubled to
	// match shoelaceXZ's "twice the area" convention.
	assert.InDelta(t, float32(2*(100-4)), total, 1e-3)
}

func TestConvexFaceListOptimiseCollapsesColinearCutVertex(t *testing.T) {
	// squareFace winds clockwise seen from +y, so its winding normal is -y.
	cfl := NewConvexFaceList(squareFace(), 1, d3.NewVec3XYZ(0, -1, 0))
	initialVerts := len(cfl.Verts)
	// a box biting the x<5, z<5 corner off the square: the x=5 and z=5
	// planes leave the x>5 strip in two pieces, which Optimise merges; the
	// cut vertices (10,0,5) and (5,0,5) are then colinear with their
	// neighbours on the merged strip and must be collapsed, leaving quads.
	bite, st := Tessellate(Identity(), Shape{Kind: ShapeBox, Center: d3.NewVec3XYZ(-2.5, 0, -7.5), HalfExtents: d3.NewVec3XYZ(7.5, 20, 12.5)})
	require.False(t, Failed(st))

	cfl.SplitByConvexVolume(&bite)
	cfl.Optimise(initialVerts)

	require.Len(t, cfl.Faces, 2)
	for _, f := range cfl.Faces {
		assert.GreaterOrEqual(t, len(f.Verts), 3)
		assert.Len(t, f.Verts, 4)
	}
}
