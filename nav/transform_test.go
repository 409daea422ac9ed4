package nav

import (
	"testing"

	"github.com/arl/gogeo/f32/d3"
	"github.com/stretchr/testify/assert"
)

func vecApprox(t *testing.T, want, got d3.Vec3, eps float32) {
	t.Helper()
	assert.InDeltaf(t, want[0], got[0], float64(eps), "x")
	assert.InDeltaf(t, want[1], got[1], float64(eps), "y")
	assert.InDeltaf(t, want[2], got[2], float64(eps), "z")
}

func TestTransformIdentityApply(t *testing.T) {
	id := Identity()
	p := d3.NewVec3XYZ(1, 2, 3)
	vecApprox(t, p, id.Apply(p), 1e-6)
}

func TestTransformTranslationRoundTrip(t *testing.T) {
	tr := Translation(d3.NewVec3XYZ(10, 0, -5))
	p := d3.NewVec3XYZ(1, 2, 3)
	world := tr.Apply(p)
	vecApprox(t, d3.NewVec3XYZ(11, 2, -2), world, 1e-6)

	back := tr.Inverse().Apply(world)
	vecApprox(t, p, back, 1e-5)
}

func TestTransformCombineMatchesSequentialApply(t *testing.T) {
	a := Translation(d3.NewVec3XYZ(1, 0, 0))
	b := Translation(d3.NewVec3XYZ(0, 5, 0))
	p := d3.NewVec3XYZ(2, 2, 2)

	sequential := b.Apply(a.Apply(p))
	combined := a.Combine(b).Apply(p)
	vecApprox(t, sequential, combined, 1e-5)
}

func TestTransformInverseOfIdentityIsIdentity(t *testing.T) {
	inv := Identity().Inverse()
	p := d3.NewVec3XYZ(4, -1, 2)
	vecApprox(t, p, inv.Apply(p), 1e-6)
}
