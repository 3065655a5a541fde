package main

import (
	"fmt"
	"os"

	"github.com/philipparndt/meshcut/version"
	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "meshcut",
	Short: "Cut closed triangle meshes with a plane",
	Long: `meshcut splits a closed triangle mesh into the parts below and above a plane.
Both halves are closed again with caps along the cut, so they stay watertight
and their volumes add up to the volume of the input.

Meshes are read from ASCII or binary STL files, rendered from OpenSCAD sources,
or generated from built-in primitives.`,
	Version:       version.GetFullVersion(),
	SilenceUsage:  true,
	SilenceErrors: true,
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
