package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/arl/gogeo/f32/d3"
	"github.com/dragonlabs/nav/nav"
)

var buildCfgPath string

var buildCmd = &cobra.Command{
	Use:   "build",
	Short: "load a world config and report its space/face counts",
	Long: `Build a nav.World from a world config file (authored OBJ meshes
plus a navigator), run an initial Prepare pass, and print per-space
vertex/face counts.`,
	Run: func(cmd *cobra.Command, args []string) {
		world, _, err := buildWorld(buildCfgPath)
		if err != nil {
			fmt.Println("error:", err)
			return
		}
		layer := world.Layers()
		for _, n := range layer {
			l := world.Layer(n)
			fmt.Printf("layer %d: %d spaces, %d blockers\n", n, len(l.Spaces), len(l.Blockers))
			for id, s := range l.Spaces {
				if s.Kind == nav.SpaceKindMesh {
					fmt.Printf("  space %d: %d verts, %d faces\n", id, len(s.Mesh.Verts), len(s.Mesh.Faces))
				} else {
					fmt.Printf("  space %d: %d verts\n", id, len(s.Grid.Verts))
				}
			}
		}
	},
}

func init() {
	RootCmd.AddCommand(buildCmd)
	buildCmd.Flags().StringVar(&buildCfgPath, "config", "navctl.yml", "world config file")
}

// buildWorld loads cfgPath, constructs every configured Space from its OBJ
// fixture, registers a single Navigator, and runs one Prepare pass.
func buildWorld(cfgPath string) (*nav.World, *nav.Navigator, error) {
	cfg, err := loadWorldConfig(cfgPath)
	if err != nil {
		return nil, nil, err
	}

	world := nav.NewWorld()
	layer := world.Layer(cfg.Layer)

	for _, sc := range cfg.Spaces {
		verts, faces, err := nav.LoadMeshFromOBJ(sc.OBJPath, sc.Type)
		if err != nil {
			return nil, nil, fmt.Errorf("loading %s: %w", sc.OBJPath, err)
		}
		id := layer.AllocID()
		xform := nav.Translation(d3.NewVec3XYZ(sc.PosX, sc.PosY, sc.PosZ))
		space := nav.NewMeshSpace(id, cfg.Layer, xform)
		space.BlockingPriority = sc.Priority
		if st := space.Mesh.Build(verts, faces, layer.CostTable); nav.Failed(st) {
			return nil, nil, fmt.Errorf("building space from %s: %w", sc.OBJPath, st)
		}
		layer.AddSpace(space)
	}

	navr := nav.NewNavigator(world, cfg.Layer, nav.SpaceKindMesh)
	navr.DefaultCostPerMetre = cfg.Navigator.DefaultCostPerMetre
	navr.MaxOutsideDistance = cfg.Navigator.MaxOutsideDistance
	navr.BlockingCost = cfg.Navigator.BlockingCost
	layer.AddNavigator(navr)

	world.PrepareAll()
	return world, navr, nil
}
