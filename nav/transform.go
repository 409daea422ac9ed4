package nav

import "github.com/arl/gogeo/f32/d3"

// Transform is a rigid world-space transform: a position plus an
// orthonormal rotation basis. Spec §3 treats world-space coordinate/matrix
// primitives as a value library consumed (not implemented) by this
// subsystem; none of the retrieved example repos ships a matrix type
// alongside gogeo's Vec3/Rectangle, so this is the minimal concrete value
// type needed to compile Space/NavBlocker/cross-space-link transforms
// against - see DESIGN.md.
type Transform struct {
	Position d3.Vec3
	// Basis rows are the transformed X, Y and Z axes.
	Basis [3]d3.Vec3
}

// Identity returns the identity transform.
func Identity() Transform {
	return Transform{
		Position: d3.NewVec3XYZ(0, 0, 0),
		Basis: [3]d3.Vec3{
			d3.NewVec3XYZ(1, 0, 0),
			d3.NewVec3XYZ(0, 1, 0),
			d3.NewVec3XYZ(0, 0, 1),
		},
	}
}

// Translation returns a transform with no rotation at the given position.
func Translation(pos d3.Vec3) Transform {
	t := Identity()
	t.Position = d3.NewVec3From(pos)
	return t
}

// Apply maps a local-space point into world space.
func (t Transform) Apply(local d3.Vec3) d3.Vec3 {
	return d3.NewVec3XYZ(
		t.Position[0]+local[0]*t.Basis[0][0]+local[1]*t.Basis[1][0]+local[2]*t.Basis[2][0],
		t.Position[1]+local[0]*t.Basis[0][1]+local[1]*t.Basis[1][1]+local[2]*t.Basis[2][1],
		t.Position[2]+local[0]*t.Basis[0][2]+local[1]*t.Basis[1][2]+local[2]*t.Basis[2][2],
	)
}

// ApplyNormal rotates (without translating) a local-space direction into
// world space.
func (t Transform) ApplyNormal(local d3.Vec3) d3.Vec3 {
	return d3.NewVec3XYZ(
		local[0]*t.Basis[0][0]+local[1]*t.Basis[1][0]+local[2]*t.Basis[2][0],
		local[0]*t.Basis[0][1]+local[1]*t.Basis[1][1]+local[2]*t.Basis[2][1],
		local[0]*t.Basis[0][2]+local[1]*t.Basis[1][2]+local[2]*t.Basis[2][2],
	)
}

// Inverse returns the inverse of an orthonormal rigid transform.
func (t Transform) Inverse() Transform {
	var inv Transform
	// transpose of an orthonormal basis is its inverse
	inv.Basis[0] = d3.NewVec3XYZ(t.Basis[0][0], t.Basis[1][0], t.Basis[2][0])
	inv.Basis[1] = d3.NewVec3XYZ(t.Basis[0][1], t.Basis[1][1], t.Basis[2][1])
	inv.Basis[2] = d3.NewVec3XYZ(t.Basis[0][2], t.Basis[1][2], t.Basis[2][2])
	p := t.Position
	inv.Position = d3.NewVec3XYZ(
		-(p[0]*inv.Basis[0][0] + p[1]*inv.Basis[1][0] + p[2]*inv.Basis[2][0]),
		-(p[0]*inv.Basis[0][1] + p[1]*inv.Basis[1][1] + p[2]*inv.Basis[2][1]),
		-(p[0]*inv.Basis[0][2] + p[1]*inv.Basis[1][2] + p[2]*inv.Basis[2][2]),
	)
	return inv
}

// Combine returns the transform that first applies t, then other
// (other.Apply(t.Apply(p)) == t.Combine(other).Apply(p)).
func (t Transform) Combine(other Transform) Transform {
	var out Transform
	for i := 0; i < 3; i++ {
		out.Basis[i] = other.ApplyNormal(t.Basis[i])
	}
	out.Position = other.Apply(t.Position)
	return out
}
