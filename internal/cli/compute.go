package cli

import (
	"context"
	"fmt"
	"math"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/matzehuels/chartcore/pkg/core/plot"
	"github.com/matzehuels/chartcore/pkg/pipeline"
	"github.com/matzehuels/chartcore/pkg/snapshot"
)

// computeOpts holds the command-line flags for the compute command.
type computeOpts struct {
	inputOpts
	output  string // snapshot file path
	noCache bool   // bypass the snapshot cache entirely
	refresh bool   // recompute and overwrite the cached snapshot
	quiet   bool   // skip the summary table
}

// computeCommand creates the compute command.
func (c *CLI) computeCommand() *cobra.Command {
	var opts computeOpts

	cmd := &cobra.Command{
		Use:   "compute <spec> [data]",
		Short: "Compute a chart snapshot from a spec and a dataset",
		Long: `Compute reads a chart spec (TOML, YAML or JSON) and a dataset, runs the
charting pipeline and writes the resulting snapshot document as JSON.`,
		Args:              cobra.RangeArgs(1, 2),
		ValidArgsFunction: completeInputFiles,
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.runCompute(cmd.Context(), args[0], dataArg(args), opts)
		},
	}

	opts.register(cmd)
	cmd.Flags().StringVarP(&opts.output, "output", "o", "", "output file (default: <spec>.snapshot.json)")
	cmd.Flags().BoolVar(&opts.noCache, "no-cache", false, "disable the snapshot cache")
	cmd.Flags().BoolVar(&opts.refresh, "refresh", false, "recompute even when a cached snapshot exists")
	cmd.Flags().BoolVarP(&opts.quiet, "quiet", "q", false, "do not print the series summary")

	return cmd
}

func (c *CLI) runCompute(ctx context.Context, specPath, dataPath string, opts computeOpts) error {
	spec, data, err := opts.load(specPath, dataPath)
	if err != nil {
		return err
	}
	runner, err := c.newRunner(opts.noCache)
	if err != nil {
		return err
	}
	defer runner.Close()

	prog := newProgress(c.Logger)
	res, err := runner.Execute(ctx, pipeline.Options{Spec: spec, Data: data, Refresh: opts.refresh})
	if err != nil {
		return err
	}
	prog.done("Computed snapshot", "series", len(res.Document.Series), "cached", res.CacheHit)

	out := opts.output
	if out == "" {
		out = snapshotPath(specPath)
	}
	if err := snapshot.WriteFile(res.Document, out); err != nil {
		return err
	}

	printSuccess("Snapshot written")
	printFile(out)
	printStats(res.Stats.SeriesCount, res.Stats.DatumCount, res.CacheHit)
	if !opts.quiet {
		printNewline()
		printSeriesTable(res.Document)
		printAxesTable(res.Document)
	}
	printNewline()
	printNextStep("Inspect the focus state at a point", fmt.Sprintf("%s focus %s --x 100 --y 100", appName, specPath))
	return nil
}

// snapshotPath derives the default output file from the spec path.
func snapshotPath(specPath string) string {
	base := strings.TrimSuffix(specPath, filepath.Ext(specPath))
	return base + ".snapshot.json"
}

// =============================================================================
// Focus
// =============================================================================

// focusOpts holds the command-line flags for the focus command.
type focusOpts struct {
	inputOpts
	x        float64
	y        float64
	released bool
	sourceX  float64
	output   string
}

// focusCommand creates the focus command.
func (c *CLI) focusCommand() *cobra.Command {
	opts := focusOpts{sourceX: math.NaN()}

	cmd := &cobra.Command{
		Use:   "focus <spec> [data]",
		Short: "Resolve hover, tooltip and cursor state for a pointer position",
		Long: `Focus computes the chart, places the pointer at (--x, --y) in grid pixels
and reports the hovered group, the tooltip anchor and the cursor values.

Pass --released together with --source-x to resolve a brush selection.`,
		Args:              cobra.RangeArgs(1, 2),
		ValidArgsFunction: completeInputFiles,
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.runFocus(cmd.Context(), args[0], dataArg(args), opts)
		},
	}

	opts.register(cmd)
	cmd.Flags().Float64Var(&opts.x, "x", 0, "pointer x in grid pixels")
	cmd.Flags().Float64Var(&opts.y, "y", 0, "pointer y in grid pixels")
	cmd.Flags().BoolVar(&opts.released, "released", false, "mark the pointer update as the end of a drag")
	cmd.Flags().Float64Var(&opts.sourceX, "source-x", opts.sourceX, "x where the drag started")
	cmd.Flags().StringVarP(&opts.output, "output", "o", "", "also write the snapshot document to this file")
	_ = cmd.MarkFlagRequired("x")
	_ = cmd.MarkFlagRequired("y")

	return cmd
}

// pointer builds the pointer described by the flags.
func (o focusOpts) pointer() plot.Pointer {
	p := plot.Pointer{X: o.x, Y: o.y, Active: true, Released: o.released}
	if !math.IsNaN(o.sourceX) {
		src := o.sourceX
		p.SourceX = &src
	}
	return p
}

func (c *CLI) runFocus(ctx context.Context, specPath, dataPath string, opts focusOpts) error {
	spec, data, err := opts.load(specPath, dataPath)
	if err != nil {
		return err
	}
	runner, err := c.newRunner(true)
	if err != nil {
		return err
	}
	defer runner.Close()

	p := opts.pointer()
	res, err := runner.Execute(ctx, pipeline.Options{Spec: spec, Data: data, Pointer: &p, Hover: true})
	if err != nil {
		return err
	}
	doc := res.Document

	if opts.output != "" {
		if err := snapshot.WriteFile(doc, opts.output); err != nil {
			return err
		}
		printSuccess("Snapshot written")
		printFile(opts.output)
	}
	printFocus(doc)
	return nil
}
