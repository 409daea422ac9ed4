// Command navctl builds and queries nav.World fixtures from the command
// line: authored OBJ meshes in, pathfinding/nearest-point answers out.
package main

import "github.com/dragonlabs/nav/cmd/navctl/cmd"

func main() {
	cmd.Execute()
}
