package nav

import (
	"testing"

	"github.com/arl/gogeo/f32/d3"
	"github.com/stretchr/testify/assert"
)

func TestNoopDebugDrawHandsOutDistinctHandles(t *testing.T) {
	var d NoopDebugDraw
	h1 := d.AddFace([]d3.Vec3{d3.NewVec3()}, 0xffffff)
	h2 := d.AddFace([]d3.Vec3{d3.NewVec3()}, 0xffffff)
	assert.NotEqual(t, h1, h2)

	// update/remove are no-ops; must not panic on an already-removed handle.
	d.UpdateFace(h1, []d3.Vec3{d3.NewVec3()}, 0x000000)
	d.RemoveShape(h1)
	d.RemoveShape(h1)
}

func TestNewDevModeStateDefaultsHilightCostTypeToNoSelection(t *testing.T) {
	st := newDevModeState()
	assert.Equal(t, int32(-1), st.HilightCostType)
	assert.False(t, st.Enabled)
	_, ok := st.Draw.(*NoopDebugDraw)
	assert.True(t, ok)
}
