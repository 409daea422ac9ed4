package nav

import "github.com/arl/gogeo/f32/d3"

// DebugDraw is the narrow collaborator interface the subsystem draws
// through (§1 "the debug-draw service (consumed only through a narrow
// interface)", §6). Handles are owned by whichever Space/Blocker/Navigator
// allocated them and are released when visualisation is disabled or the
// owner is destroyed.
type DebugDraw interface {
	AddFace(verts []d3.Vec3, fillColor uint32) DebugHandle
	UpdateFace(h DebugHandle, verts []d3.Vec3, fillColor uint32)
	RemoveShape(h DebugHandle)
}

// DebugHandle is an opaque reference to a drawn shape.
type DebugHandle uint32

// NoopDebugDraw discards every call; the default when developer mode is
// disabled.
type NoopDebugDraw struct {
	next DebugHandle
}

func (d *NoopDebugDraw) AddFace(verts []d3.Vec3, fillColor uint32) DebugHandle {
	d.next++
	return d.next
}

func (d *NoopDebugDraw) UpdateFace(h DebugHandle, verts []d3.Vec3, fillColor uint32) {}

func (d *NoopDebugDraw) RemoveShape(h DebugHandle) {}

// devModeState is the developer-mode toggle set (DESIGN NOTES §9 "global
// state -> owned field"): all dm_* commands are no-ops until Enabled is
// set.
type devModeState struct {
	Enabled bool

	ShowSpaces      bool
	ShowSpaceLinks  bool
	ShowBlockers    bool
	ShowPath        bool
	ShowPathFaces   bool
	HilightCostType int32
	QuickDebug      int32

	Draw DebugDraw
}

func newDevModeState() devModeState {
	return devModeState{HilightCostType: -1, Draw: &NoopDebugDraw{}}
}
