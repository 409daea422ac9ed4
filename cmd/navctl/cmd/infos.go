package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/dragonlabs/nav/nav"
)

var infosCfgPath string

var infosCmd = &cobra.Command{
	Use:   "infos",
	Short: "print per-space invariant-check results",
	Long: `Build a nav.World from --config and run each mesh Space's
invariant check, printing a pass/fail line per space.`,
	Run: func(cmd *cobra.Command, args []string) {
		world, _, err := buildWorld(infosCfgPath)
		if err != nil {
			fmt.Println("error:", err)
			return
		}
		for _, n := range world.Layers() {
			l := world.Layer(n)
			if st := l.VerifyInvariants(); nav.Failed(st) {
				fmt.Printf("layer %d: %s\n", n, st)
				continue
			}
			for id, s := range l.Spaces {
				if s.Mesh == nil {
					continue
				}
				fmt.Printf("space %d: ok (%d verts, %d faces)\n", id, len(s.Mesh.Verts), len(s.Mesh.Faces))
			}
		}
	},
}

func init() {
	RootCmd.AddCommand(infosCmd)
	infosCmd.Flags().StringVar(&infosCfgPath, "config", "navctl.yml", "world config file")
}
