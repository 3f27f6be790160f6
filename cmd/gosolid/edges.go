package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/philipparndt/gosolid/pkg/analysis"
	"github.com/philipparndt/gosolid/pkg/meshio"
)

var (
	edgesCount     int
	edgesLongest   bool
	edgesShortest  bool
	edgesBoundary  bool
	edgesMinLength float64
	edgesMaxLength float64
)

var edgesCmd = &cobra.Command{
	Use:   "edges [file]",
	Short: "List edges of the first object in a mesh file",
	Long: `Find and measure edges, including longest, shortest, edges within a length
range, or the open boundary edges that gosolid extrudes.`,
	Args: cobra.ExactArgs(1),
	RunE: runEdges,
}

func init() {
	rootCmd.AddCommand(edgesCmd)

	edgesCmd.Flags().IntVarP(&edgesCount, "count", "n", 10, "Number of edges to display")
	edgesCmd.Flags().BoolVarP(&edgesLongest, "longest", "l", false, "Show longest edges")
	edgesCmd.Flags().BoolVarP(&edgesShortest, "shortest", "s", false, "Show shortest edges")
	edgesCmd.Flags().BoolVarP(&edgesBoundary, "boundary", "b", false, "Show boundary edges")
	edgesCmd.Flags().Float64Var(&edgesMinLength, "min", 0.0, "Minimum edge length filter")
	edgesCmd.Flags().Float64Var(&edgesMaxLength, "max", 0.0, "Maximum edge length filter")
	edgesCmd.MarkFlagsMutuallyExclusive("longest", "shortest", "boundary")
}

func runEdges(cmd *cobra.Command, args []string) error {
	filename := args[0]

	scene, err := meshio.Load(meshio.OSFileSystem{}, filename)
	if err != nil {
		return fmt.Errorf("failed to load %s: %w", filename, err)
	}
	target, ok := scene.Target()
	if !ok {
		return fmt.Errorf("%s contains no mesh object", filename)
	}

	result := analysis.AnalyzeMesh(target)

	var edges []analysis.EdgeInfo
	var title string

	switch {
	case edgesLongest:
		edges = analysis.FindLongestEdges(result, edgesCount)
		title = fmt.Sprintf("Top %d Longest Edges", len(edges))
	case edgesShortest:
		edges = analysis.FindShortestEdges(result, edgesCount)
		title = fmt.Sprintf("Top %d Shortest Edges", len(edges))
	case edgesBoundary:
		edges = analysis.FindBoundaryEdges(result)
		title = fmt.Sprintf("Boundary Edges (found %d)", len(edges))
	case edgesMaxLength > 0:
		edges = analysis.FindEdgesByLength(result, edgesMinLength, edgesMaxLength)
		title = fmt.Sprintf("Edges between %.6f and %.6f units (found %d)", edgesMinLength, edgesMaxLength, len(edges))
	default:
		edges = result.AllEdges
		title = fmt.Sprintf("All Edges (showing first %d of %d)", min(edgesCount, len(edges)), len(edges))
	}
	if len(edges) > edgesCount {
		edges = edges[:edgesCount]
	}

	out := cmd.OutOrStdout()
	fmt.Fprintln(out, title)
	fmt.Fprintln(out, "====================")
	fmt.Fprintf(out, "Total edges in model: %d\n", result.EdgeCount)
	fmt.Fprintf(out, "Min edge length: %.6f units\n", result.MinEdgeLength)
	fmt.Fprintf(out, "Max edge length: %.6f units\n", result.MaxEdgeLength)
	fmt.Fprintf(out, "Avg edge length: %.6f units\n\n", result.AvgEdgeLength)

	if len(edges) == 0 {
		fmt.Fprintln(out, "No edges found matching the criteria.")
		return nil
	}

	fmt.Fprintf(out, "%-6s %-35s %-35s %-15s %-5s\n", "Index", "Start", "End", "Length", "Faces")
	fmt.Fprintln(out, "-----------------------------------------------------------------------------------------------------------------")
	for i, edge := range edges {
		fmt.Fprintf(out, "%-6d %-35s %-35s %-15.6f %-5d\n",
			i+1,
			analysis.FormatVector(edge.Start),
			analysis.FormatVector(edge.End),
			edge.Length,
			edge.Faces)
	}
	return nil
}
