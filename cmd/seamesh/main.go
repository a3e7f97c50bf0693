package main

import (
	"fmt"
	"os"

	"github.com/arl/seamesh/config"
	"github.com/arl/seamesh/errs"
	"github.com/arl/seamesh/internal/buildlog"
	"github.com/arl/seamesh/pipeline"
	"github.com/spf13/cobra"
)

var verbose bool

// rootCmd builds a mesh from a single configuration file, the one
// operation this CLI exposes.
var rootCmd = &cobra.Command{
	Use:   "seamesh CONFIG",
	Short: "generate a triangulated ocean/lake mesh from a bathymetry raster and a region polygon",
	Long: `seamesh reads a JSON/YAML/TOML configuration file describing a
bathymetry raster, a region polygon, a target resolution and a
triangulator, and writes the resulting mesh (and any requested
intermediate artifacts) to the paths the configuration names.`,
	Args: cobra.ExactArgs(1),
	RunE: runSeamesh,
}

func runSeamesh(cmd *cobra.Command, args []string) error {
	cfg, err := config.Load(args[0])
	if err != nil {
		return err
	}

	ctx := buildlog.New(verbose)
	res, err := pipeline.Run(ctx, cfg)
	if err != nil {
		return err
	}

	if verbose {
		for _, e := range ctx.Entries() {
			fmt.Fprintf(os.Stderr, "[%s] %s\n", e.Category, e.Message)
		}
	}
	fmt.Printf("seamesh: wrote mesh with %d vertices, %d faces\n", res.Mesh.NumVertices(), res.Mesh.NumFaces())
	return nil
}

func init() {
	rootCmd.Flags().BoolVarP(&verbose, "verbose", "v", false, "print progress, warnings and errors to stderr")
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "seamesh:", err)
		os.Exit(errs.ExitCode(err))
	}
}
