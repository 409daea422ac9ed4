// Package nav implements the navigation subsystem of a 3D game engine AI
// module: a runtime that accepts static and dynamic navigation geometry and
// answers pathfinding queries against it.
//
// A World owns Layers; a Layer owns a CostTable and scopes the Spaces,
// NavBlockers and Navigators that share a layer number. Queries are issued
// through a Navigator, which prepares its Layer (rebuilding only the pieces
// whose dirty bits are set) before dispatching to the grid or mesh
// pathfinder.
package nav
