package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/philipparndt/gosolid/internal/config"
	"github.com/philipparndt/gosolid/internal/logging"
	"github.com/philipparndt/gosolid/internal/picker"
	"github.com/philipparndt/gosolid/pkg/analysis"
	"github.com/philipparndt/gosolid/pkg/meshio"
	"github.com/philipparndt/gosolid/pkg/solidify"
	"github.com/philipparndt/gosolid/pkg/watcher"
	"github.com/philipparndt/gosolid/version"
)

var (
	configPath      string
	offsetFlag      []float64
	axisFlag        string
	autoDepth       bool
	simplifyFlag    bool
	normalThreshold float64
	angleLimit      float64
	watchFlag       bool
	quietFlag       bool
)

var rootCmd = &cobra.Command{
	Use:   "gosolid [file]",
	Short: "Turn a surface mesh into a printable solid",
	Long: `gosolid extrudes the boundary of a surface mesh (STL or OBJ) down to a
flat base, closing it into a solid, and writes the result next to the input
as <name>-3D.stl.

Without a file argument a file picker is opened.`,
	Args:          cobra.MaximumNArgs(1),
	Version:       version.GetFullVersion(),
	SilenceUsage:  true,
	SilenceErrors: true,
	RunE:          runSolidify,
}

func init() {
	flags := rootCmd.Flags()
	flags.StringVar(&configPath, "config", "", "JSON options file")
	flags.Float64SliceVar(&offsetFlag, "offset", []float64{0, 0, -solidify.DefaultDepth}, "Extrusion offset as x,y,z")
	flags.StringVar(&axisFlag, "axis", "z", "Axis to measure and flatten (x, y or z)")
	flags.BoolVar(&autoDepth, "auto-depth", false, "Size the extrusion from the surface span instead of --offset")
	flags.BoolVar(&simplifyFlag, "simplify", false, "Dissolve coplanar downward-facing faces")
	flags.Float64Var(&normalThreshold, "normal-threshold", solidify.DefaultNormalThreshold, "Minimum dot product with -Z for a face to count as downward")
	flags.Float64Var(&angleLimit, "angle-limit", solidify.DefaultAngleLimitDegrees, "Dissolve angle limit in degrees")
	flags.BoolVarP(&watchFlag, "watch", "w", false, "Re-run whenever the input file is saved")
	flags.BoolVarP(&quietFlag, "quiet", "q", false, "Suppress progress logging")
}

// resolveOptions layers the flags that were set on top of the config file
func resolveOptions(cmd *cobra.Command) (*config.Options, error) {
	cfg := &config.Options{}
	if configPath != "" {
		loaded, err := config.Load(configPath)
		if err != nil {
			return nil, err
		}
		cfg = loaded
	}

	flags := cmd.Flags()
	if flags.Changed("offset") {
		if len(offsetFlag) != 3 {
			return nil, fmt.Errorf("--offset needs 3 values, got %d", len(offsetFlag))
		}
		cfg.Offset = &[3]float64{offsetFlag[0], offsetFlag[1], offsetFlag[2]}
	}
	if flags.Changed("axis") {
		cfg.Axis = config.Ptr(axisFlag)
	}
	if flags.Changed("auto-depth") {
		cfg.AutoDepth = config.Ptr(autoDepth)
	}
	if flags.Changed("simplify") {
		cfg.Simplify = config.Ptr(simplifyFlag)
	}
	if flags.Changed("normal-threshold") {
		cfg.NormalThreshold = config.Ptr(normalThreshold)
	}
	if flags.Changed("angle-limit") {
		cfg.AngleLimitDegrees = config.Ptr(angleLimit)
	}
	if flags.Changed("watch") {
		cfg.Watch = config.Ptr(watchFlag)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid options: %w", err)
	}
	return cfg, nil
}

func runSolidify(cmd *cobra.Command, args []string) error {
	if quietFlag {
		logging.SetLogger(nil)
	}

	cfg, err := resolveOptions(cmd)
	if err != nil {
		return err
	}

	var path string
	if len(args) == 1 {
		path = args[0]
	} else {
		path, err = picker.PickFile("gosolid - select a surface mesh")
		if err != nil {
			return err
		}
	}

	pipeline, err := solidify.New(meshio.OSFileSystem{}, cfg.PipelineOptions())
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	out := cmd.OutOrStdout()
	res, err := pipeline.Run(ctx, path)
	printResult(out, res)
	if !cfg.GetWatch() {
		return err
	}
	return watch(ctx, out, pipeline, path, cfg.GetWatchDebounce())
}

func watch(ctx context.Context, out io.Writer, pipeline *solidify.Pipeline, path string, debounce time.Duration) error {
	fw, err := watcher.NewFileWatcher(debounce)
	if err != nil {
		return err
	}
	defer fw.Close()

	if err := fw.Watch(path, func(changed string) {
		res, err := pipeline.Run(ctx, changed)
		printResult(out, res)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		}
	}); err != nil {
		return err
	}

	fmt.Fprintf(out, "Watching %s (Ctrl+C to stop)\n", path)
	if err := fw.Run(ctx); err != nil && ctx.Err() == nil {
		return err
	}
	return nil
}

func printResult(w io.Writer, res *solidify.Result) {
	if res == nil {
		return
	}
	switch res.State {
	case solidify.StateRejected:
		fmt.Fprintf(w, "Skipped %s: not an STL or OBJ file\n", res.InputPath)
		return
	case solidify.StateAborted:
		fmt.Fprintf(w, "Failed %s after %s\n", res.InputPath, res.Elapsed.Round(time.Millisecond))
		return
	}

	fmt.Fprintf(w, "Wrote %s\n", res.OutputPath)
	fmt.Fprintf(w, "  Objects: %d\n", res.Objects)
	fmt.Fprintf(w, "  Extent: %.6f .. %.6f (span %.6f)\n", res.ExtentMin, res.ExtentMax, res.Span)
	fmt.Fprintf(w, "  Offset: %s\n", analysis.FormatVector(res.Offset))
	fmt.Fprintf(w, "  Base: %s\n", analysis.FormatVector(res.Pivot))
	fmt.Fprintf(w, "  Vertices: %d -> %d\n", res.VerticesBefore, res.VerticesAfter)
	fmt.Fprintf(w, "  Faces: %d -> %d\n", res.FacesBefore, res.FacesAfter)
	if res.Simplify != nil {
		fmt.Fprintf(w, "  Dissolved: %d downward faces in %d groups\n", res.Simplify.Selected, res.Simplify.Groups)
	}
	fmt.Fprintf(w, "  Solid: %t (%s)\n", res.Check.OK(), res.Check)
	fmt.Fprintf(w, "  Time: %s\n", res.Elapsed.Round(time.Millisecond))
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
