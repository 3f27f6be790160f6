package main

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/philipparndt/gosolid/pkg/analysis"
	"github.com/philipparndt/gosolid/pkg/meshio"
	"github.com/philipparndt/gosolid/pkg/solidcheck"
)

var infoCmd = &cobra.Command{
	Use:   "info [file]",
	Short: "Display general information about an STL or OBJ file",
	Long:  "Show counts, bounds, surface area, edge statistics and whether each object is a closed solid.",
	Args:  cobra.ExactArgs(1),
	RunE:  runInfo,
}

func init() {
	rootCmd.AddCommand(infoCmd)
}

func runInfo(cmd *cobra.Command, args []string) error {
	filename := args[0]

	scene, err := meshio.Load(meshio.OSFileSystem{}, filename)
	if err != nil {
		return fmt.Errorf("failed to load %s: %w", filename, err)
	}

	out := cmd.OutOrStdout()
	fmt.Fprintln(out, "Mesh File Information")
	fmt.Fprintln(out, "=====================")
	fmt.Fprintf(out, "File: %s\n", filename)
	fmt.Fprintf(out, "Objects: %d\n", len(scene.Objects))

	for i, result := range analysis.AnalyzeScene(scene) {
		fmt.Fprintln(out)
		printInfo(out, result, solidcheck.Check(scene.Objects[i]))
	}
	return nil
}

func printInfo(out io.Writer, result *analysis.MeasurementResult, check solidcheck.Report) {
	if result.Name != "" {
		fmt.Fprintf(out, "Object: %s\n", result.Name)
	}

	fmt.Fprintln(out, "Model Statistics:")
	fmt.Fprintf(out, "  Vertices: %d\n", result.VertexCount)
	fmt.Fprintf(out, "  Faces: %d\n", result.FaceCount)
	fmt.Fprintf(out, "  Triangles: %d\n", result.TriangleCount)
	fmt.Fprintf(out, "  Edges: %d (%d boundary, %d non-manifold)\n", result.EdgeCount, result.BoundaryEdges, result.NonManifoldEdges)
	fmt.Fprintf(out, "  Surface Area: %.6f square units\n\n", result.SurfaceArea)

	fmt.Fprintln(out, "Bounding Box:")
	if result.BoundingBox.Empty() {
		fmt.Fprintln(out, "  (empty)")
	} else {
		fmt.Fprintf(out, "  Min: %s\n", analysis.FormatVector(result.BoundingBox.Min))
		fmt.Fprintf(out, "  Max: %s\n", analysis.FormatVector(result.BoundingBox.Max))
		fmt.Fprintf(out, "  Center: %s\n", analysis.FormatVector(result.BoundingBox.Center()))
	}
	fmt.Fprintln(out)

	fmt.Fprintln(out, "Dimensions:")
	fmt.Fprintf(out, "  Width (X): %.6f units\n", result.Dimensions.X)
	fmt.Fprintf(out, "  Depth (Y): %.6f units\n", result.Dimensions.Y)
	fmt.Fprintf(out, "  Height (Z): %.6f units\n\n", result.Dimensions.Z)

	fmt.Fprintln(out, "Edge Lengths:")
	fmt.Fprintf(out, "  Minimum: %.6f units\n", result.MinEdgeLength)
	fmt.Fprintf(out, "  Maximum: %.6f units\n", result.MaxEdgeLength)
	fmt.Fprintf(out, "  Average: %.6f units\n", result.AvgEdgeLength)
	fmt.Fprintf(out, "  Std Dev: %.6f units\n\n", result.StdDevEdgeLength)

	fmt.Fprintln(out, "Solid:")
	fmt.Fprintf(out, "  Closed: %t\n", check.Closed)
	fmt.Fprintf(out, "  Watertight: %t\n", check.Watertight)
	if result.Closed {
		fmt.Fprintf(out, "  Volume: %.6f cubic units\n", result.Volume)
	}
}
