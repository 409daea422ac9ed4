package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/arl/gogeo/f32/d3"
	"github.com/dragonlabs/nav/nav"
)

var (
	queryCfgPath string
	queryFrom    []float32
	queryTo      []float32
)

var queryCmd = &cobra.Command{
	Use:   "query",
	Short: "run a find-path query against a world config",
	Long: `Build a nav.World from --config, then run find_path(--from,
--to) against it and print the resulting point list.`,
	Run: func(cmd *cobra.Command, args []string) {
		if len(queryFrom) != 3 || len(queryTo) != 3 {
			fmt.Println("error: --from and --to each need exactly 3 components")
			return
		}
		_, navr, err := buildWorld(queryCfgPath)
		if err != nil {
			fmt.Println("error:", err)
			return
		}
		var path nav.Path
		st := navr.FindPath(d3.NewVec3XYZ(queryFrom[0], queryFrom[1], queryFrom[2]),
			d3.NewVec3XYZ(queryTo[0], queryTo[1], queryTo[2]), &path)
		if nav.Failed(st) {
			fmt.Println("error:", st)
			return
		}
		if path.Count() == 0 {
			fmt.Println("no path found")
			return
		}
		for i := 0; i < path.Count(); i++ {
			p := path.At(i)
			fmt.Printf("%d: (%.3f, %.3f, %.3f)\n", i, p[0], p[1], p[2])
		}
	},
}

func init() {
	RootCmd.AddCommand(queryCmd)
	queryCmd.Flags().StringVar(&queryCfgPath, "config", "navctl.yml", "world config file")
	queryCmd.Flags().Float32SliceVar(&queryFrom, "from", nil, "start point, 'x,y,z'")
	queryCmd.Flags().Float32SliceVar(&queryTo, "to", nil, "goal point, 'x,y,z'")
}
