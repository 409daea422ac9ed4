package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

// RootCmd is the base command when navctl is called without subcommands.
var RootCmd = &cobra.Command{
	Use:   "navctl",
	Short: "build and query navigation worlds",
	Long: `navctl is the command-line companion to the nav package:
	- load authored OBJ meshes into a nav.World,
	- apply a YAML config describing one layer's mesh spaces and its navigator,
	- run find-path queries against it,
	- print the resulting world's layer/space/mesh counts.`,
}

// Execute runs RootCmd, exiting the process on error. Called once from
// main.main.
func Execute() {
	if err := RootCmd.Execute(); err != nil {
		fmt.Println(err)
		os.Exit(1)
	}
}
