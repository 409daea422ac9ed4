package nav

import (
	"github.com/arl/gobj"
	"github.com/arl/gogeo/f32/d3"
)

// LoadMeshFromOBJ reads an authored mesh fixture from an OBJ file, every
// face getting the same user type number. Intended for tests and
// cmd/navctl's "build" subcommand, where hand-authored navigation meshes
// are most conveniently kept as .obj files rather than inline Go literals.
func LoadMeshFromOBJ(path string, typeNumber int32) ([]AuthoredMeshVertex, []AuthoredMeshFace, error) {
	of, err := gobj.Load(path)
	if err != nil {
		return nil, nil, err
	}

	verts := make([]AuthoredMeshVertex, len(of.Verts()))
	for i, v := range of.Verts() {
		verts[i] = AuthoredMeshVertex{Pos: d3.NewVec3XYZ(float32(v.X()), float32(v.Y()), float32(v.Z()))}
	}

	// gobj.Polygon stores each face as its own vertex copies rather than
	// indices, so faces are rebuilt here by matching positions back to
	// the dedup'd vertex slice.
	faces := make([]AuthoredMeshFace, 0, len(of.Polys()))
	for _, poly := range of.Polys() {
		f := AuthoredMeshFace{Type: typeNumber}
		for _, pv := range poly {
			target := d3.NewVec3XYZ(float32(pv.X()), float32(pv.Y()), float32(pv.Z()))
			f.Verts = append(f.Verts, closestVertIndex(verts, target))
		}
		faces = append(faces, f)
	}
	return verts, faces, nil
}

func closestVertIndex(verts []AuthoredMeshVertex, p d3.Vec3) int {
	best, bestDist := 0, float32(-1)
	for i, v := range verts {
		d := v.Pos.Dist(p)
		if bestDist < 0 || d < bestDist {
			best, bestDist = i, d
		}
	}
	return best
}
