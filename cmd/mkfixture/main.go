// Command mkfixture writes small reference surfaces for trying out gosolid.
//
// The shape is selected with --shape and written as STL or OBJ depending on
// the extension of --output.
package main

import (
	"fmt"
	"math"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/philipparndt/gosolid/internal/fixture"
	"github.com/philipparndt/gosolid/pkg/mesh"
	"github.com/philipparndt/gosolid/pkg/meshio"
)

var (
	shape      string
	outputPath string
	size       float64
	amplitude  float64
	cells      int
)

var rootCmd = &cobra.Command{
	Use:   "mkfixture",
	Short: "Write a reference surface mesh",
	Long: `mkfixture writes a small open surface (square, grid, terrain or annulus)
as STL or OBJ, chosen by the extension of --output.`,
	Args:          cobra.NoArgs,
	SilenceUsage:  true,
	SilenceErrors: true,
	RunE:          runMkfixture,
}

func init() {
	flags := rootCmd.Flags()
	flags.StringVar(&shape, "shape", "terrain", "Shape to write: square, grid, terrain or annulus")
	flags.StringVarP(&outputPath, "output", "o", "surface.stl", "Output .stl or .obj file")
	flags.Float64Var(&size, "size", 100, "Edge length of the surface")
	flags.Float64Var(&amplitude, "amplitude", 10, "Height of the terrain bumps")
	flags.IntVar(&cells, "cells", 32, "Grid cells per side")
}

func runMkfixture(cmd *cobra.Command, args []string) error {
	m, err := build(shape, size, amplitude, cells)
	if err != nil {
		return err
	}

	format, err := meshio.DetectFormat(outputPath)
	if err != nil {
		return err
	}
	fsys := meshio.OSFileSystem{}
	if format == meshio.FormatOBJ {
		err = meshio.SaveOBJ(fsys, outputPath, m)
	} else {
		err = meshio.SaveSTL(fsys, outputPath, m)
	}
	if err != nil {
		return fmt.Errorf("failed to write %s: %w", outputPath, err)
	}
	fmt.Fprintf(cmd.OutOrStdout(), "wrote %s: %d vertices, %d faces\n", outputPath, m.VertexCount(), m.FaceCount())
	return nil
}

func build(shape string, size, amplitude float64, cells int) (*mesh.Mesh, error) {
	if cells < 1 {
		return nil, fmt.Errorf("cells must be positive, got %d", cells)
	}
	switch strings.ToLower(shape) {
	case "square":
		return fixture.Square(size, 0), nil
	case "grid":
		return fixture.Grid(cells, size, nil), nil
	case "terrain":
		k := 2 * math.Pi / size
		m := fixture.Grid(cells, size, func(x, y float64) float64 {
			return amplitude * (math.Sin(k*x)*math.Cos(k*y) + 1) / 2
		})
		m.Name = "terrain"
		return m, nil
	case "annulus":
		return fixture.Annulus(size, size/2), nil
	}
	return nil, fmt.Errorf("unknown shape %q", shape)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
