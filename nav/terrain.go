package nav

import "github.com/arl/gogeo/f32/d3"

// Sector is one rectangular tile of a HeightTerrain's raster, holding a
// height sample grid and the navigation topology (passable/impassable
// cells plus per-cell user type) derived from it. Grounded on
// recast.Heightfield's span-grid layout (recast/heightfield.go), adapted
// from voxel spans to a dense 2D height sample per §6's coordinate
// mapping, since this subsystem consumes already-authored raster
// navigation data rather than generating it from collision geometry
// (non-goal, §1).
type Sector struct {
	OriginX, OriginZ int // cell coordinates of this sector's (0,0) in the terrain
	Width, Depth     int
	Heights          []float32 // row-major, len == Width*Depth
	CellType         []int32   // row-major user type per cell, -1 = impassable
}

func (s *Sector) at(x, z int) (float32, int32, bool) {
	if x < 0 || x >= s.Width || z < 0 || z >= s.Depth {
		return 0, 0, false
	}
	i := z*s.Width + x
	return s.Heights[i], s.CellType[i], s.CellType[i] >= 0
}

// HeightTerrain owns the world-space scale/offset used to map raster
// (x,y) into world (x,y,z) per §6: world = (x*scale - offset, height,
// offset - y*scale).
type HeightTerrain struct {
	Scale  float32
	Offset float32

	Sectors []*Sector
}

// HeightTerrainNavSpace is the bridge adapter (§2 component 8) that turns
// one HeightTerrain Sector into a SpaceGrid-backed Space: each passable
// cell becomes a vertex, each passable-to-passable 4-neighbour adjacency
// becomes an edge. Implements the "Terrain" arm of DESIGN NOTES §9's
// Authored/Terrain tagged-variant split; the other arm (an authored
// NavSpace) is just SpaceGrid.Build or SpaceMesh.Build called directly
// with user geometry.
type HeightTerrainNavSpace struct {
	Terrain *HeightTerrain
	Sector  *Sector
	Space   *Space

	built bool
}

// NewHeightTerrainNavSpace constructs the adapter and the Space it drives.
// buildFromSector already bakes the §6 scale/offset mapping into each
// vertex's local position, so the owned Space itself sits at the identity
// transform - applying a second translation here would double-count the
// offset.
func NewHeightTerrainNavSpace(id SpaceID, layer int32, terrain *HeightTerrain, sector *Sector) *HeightTerrainNavSpace {
	return &HeightTerrainNavSpace{
		Terrain: terrain,
		Sector:  sector,
		Space:   NewGridSpace(id, layer, Identity()),
	}
}

// Prepare builds the SpaceGrid from the sector's height samples on the
// first call only. Later calls do nothing, even if Sector has been replaced
// or its samples changed, and Prepare never calls the owned Space's own
// Prepare.
func (h *HeightTerrainNavSpace) Prepare(costTable *CostTable) {
	if !h.built {
		h.buildFromSector(costTable)
		h.built = true
	}
}

func (h *HeightTerrainNavSpace) buildFromSector(costTable *CostTable) {
	sec := h.Sector
	scale := h.Terrain.Scale
	vertIdx := make(map[int]int, sec.Width*sec.Depth)
	var verts []AuthoredGridVertex
	for z := 0; z < sec.Depth; z++ {
		for x := 0; x < sec.Width; x++ {
			height, _, passable := sec.at(x, z)
			if !passable {
				continue
			}
			wx := float32(sec.OriginX+x)*scale - h.Terrain.Offset
			wz := h.Terrain.Offset - float32(sec.OriginZ+z)*scale
			vertIdx[z*sec.Width+x] = len(verts)
			verts = append(verts, AuthoredGridVertex{Pos: d3.NewVec3XYZ(wx, height, wz)})
		}
	}

	var edges []AuthoredGridEdge
	for z := 0; z < sec.Depth; z++ {
		for x := 0; x < sec.Width; x++ {
			_, typ, passable := sec.at(x, z)
			if !passable {
				continue
			}
			vi := vertIdx[z*sec.Width+x]
			if _, rtyp, rok := sec.at(x+1, z); rok {
				edges = append(edges, AuthoredGridEdge{VertA: vi, VertB: vertIdx[z*sec.Width+x+1], TypeA: typ, TypeB: rtyp})
			}
			if _, dtyp, dok := sec.at(x, z+1); dok {
				edges = append(edges, AuthoredGridEdge{VertA: vi, VertB: vertIdx[(z+1)*sec.Width+x], TypeA: typ, TypeB: dtyp})
			}
		}
	}

	h.Space.Grid.Build(verts, edges, costTable)
}
