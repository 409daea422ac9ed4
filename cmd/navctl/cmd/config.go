package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v2"
)

// WorldConfig is the YAML shape navctl build/query read: one entry per
// authored Space plus the navigator used for queries. Grounded on the
// teacher's recast.yml build-settings idiom (cmd/recast/cmd/config.go),
// generalised from "one navmesh's voxelisation parameters" to "one
// World's layer/space/navigator layout".
type WorldConfig struct {
	Layer int32 `yaml:"layer"`
	Spaces []SpaceConfig `yaml:"spaces"`
	Navigator NavigatorConfig `yaml:"navigator"`
}

// SpaceConfig describes one authored mesh Space to load.
type SpaceConfig struct {
	OBJPath  string  `yaml:"obj_path"`
	Type     int32   `yaml:"type"`
	PosX     float32 `yaml:"pos_x"`
	PosY     float32 `yaml:"pos_y"`
	PosZ     float32 `yaml:"pos_z"`
	Priority int32   `yaml:"blocking_priority"`
}

// NavigatorConfig describes the single Navigator navctl queries with.
type NavigatorConfig struct {
	DefaultCostPerMetre float32 `yaml:"default_cost_per_metre"`
	MaxOutsideDistance  float32 `yaml:"max_outside_distance"`
	BlockingCost        float32 `yaml:"blocking_cost"`
}

// DefaultWorldConfig returns config prefilled with sane defaults, written
// out by the config subcommand.
func DefaultWorldConfig() WorldConfig {
	return WorldConfig{
		Layer: 0,
		Navigator: NavigatorConfig{
			DefaultCostPerMetre: 1,
			MaxOutsideDistance:  0.5,
			BlockingCost:        1e9,
		},
	}
}

var configCmd = &cobra.Command{
	Use:   "config FILE",
	Short: "create a world config file",
	Long: `Create a world config file in YAML format, prefilled with default
values. If FILE is not provided, 'navctl.yml' is used.`,
	Run: func(cmd *cobra.Command, args []string) {
		path := "navctl.yml"
		if len(args) >= 1 {
			path = args[0]
		}
		out, err := yaml.Marshal(DefaultWorldConfig())
		if err != nil {
			fmt.Println("error:", err)
			return
		}
		if err := os.WriteFile(path, out, 0644); err != nil {
			fmt.Println("error:", err)
			return
		}
		fmt.Printf("world config written to '%s'\n", path)
	},
}

func init() {
	RootCmd.AddCommand(configCmd)
}

func loadWorldConfig(path string) (WorldConfig, error) {
	var cfg WorldConfig
	data, err := os.ReadFile(path)
	if err != nil {
		return cfg, err
	}
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return cfg, err
	}
	return cfg, nil
}
