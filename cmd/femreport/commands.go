package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"slices"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/san-kum/femreport/internal/analysis"
	"github.com/san-kum/femreport/internal/batch"
	"github.com/san-kum/femreport/internal/config"
	"github.com/san-kum/femreport/internal/export"
	"github.com/san-kum/femreport/internal/metrics"
	"github.com/san-kum/femreport/internal/storage"
	"github.com/san-kum/femreport/internal/viz"
)

var checkKinds = []string{"patch", "shear", "cantilever", "cook"}

var errCheckFailed = errors.New("check failed")

func checkArgs(cmd *cobra.Command, args []string) error {
	if len(args) != 2 {
		return fmt.Errorf("expected <kind> <report.out>, got %d arguments", len(args))
	}
	if err := cobra.OnlyValidArgs(cmd, args[:1]); err != nil {
		return err
	}
	if !isReportPath(args[1]) {
		return errUsage
	}
	return nil
}

func parseReport(cmd *cobra.Command, args []string) error {
	res, _, err := loadResult(cmd, args[0])
	if err != nil {
		return err
	}
	out := cmd.OutOrStdout()

	title := res.Title
	if title == "" {
		title = res.Source
	}
	fmt.Fprintln(out, viz.Heading.Render(title))
	fmt.Fprintln(out, viz.KV("nodes", len(res.Nodes)))
	fmt.Fprintln(out, viz.KV("elements", len(res.Elements)))
	if len(res.Coordinates) > 0 {
		fmt.Fprintln(out, viz.KV("coordinates", len(res.Coordinates)))
	}
	if len(res.Connectivity) > 0 {
		fmt.Fprintln(out, viz.KV("connectivity", len(res.Connectivity)))
	}
	if n := len(res.Diagnostics); n > 0 {
		fmt.Fprintln(out, viz.Warn.Render(fmt.Sprintf("%d rows skipped (use --verbose for details)", n)))
	}

	if ext, err := analysis.FindExtremes(res); err == nil {
		if ext.DisplacementAt >= 0 {
			fmt.Fprintln(out, viz.KV("max |u|", fmt.Sprintf("%.6e at node %d", ext.MaxDisplacement, ext.DisplacementAt)))
		}
		if ext.VonMisesAt >= 0 {
			fmt.Fprintln(out, viz.KV("max von Mises", fmt.Sprintf("%.6e at element %d", ext.MaxVonMises, ext.VonMisesAt)))
		}
	} else {
		fmt.Fprintln(out, viz.Subtle.Render("no displacement or stress data"))
	}

	if noSave {
		return nil
	}
	st := storage.New(dataDir)
	runID, err := st.Save(res)
	if err != nil {
		return err
	}
	fmt.Fprintf(out, "saved: %s\n", runID)
	fmt.Fprintln(out, viz.KV("summary", st.SummaryPath(runID)))
	return nil
}

func printSummary(cmd *cobra.Command, args []string) error {
	res, _, err := loadResult(cmd, args[0])
	if err != nil {
		return err
	}
	return export.WriteSummary(cmd.OutOrStdout(), res, export.DefaultOptions())
}

func runCheck(cmd *cobra.Command, args []string) error {
	res, cfg, err := loadResult(cmd, args[1])
	if err != nil {
		return err
	}
	out := cmd.OutOrStdout()

	var pass bool
	switch args[0] {
	case "patch":
		tol, err := flagOr(cmd, "tol", tolerance, cfg.Checks.Tolerance)
		if err != nil {
			return err
		}
		r, err := analysis.ConstantStrain(res, tol)
		if err != nil {
			return err
		}
		fmt.Fprintf(out, "constant strain patch test (%d elements, tol %g)\n", r.Elements, tol)
		for _, c := range []struct {
			name string
			c    metrics.Consistency
		}{{"sxx", r.SXX}, {"syy", r.SYY}, {"sxy", r.SXY}} {
			fmt.Fprintf(out, "  std(%s) = %.6e  %s\n", c.name, c.c.StdDev, viz.Verdict(c.c.Pass))
		}
		pass = r.Pass

	case "shear":
		tol, err := flagOr(cmd, "tol", tolerance, cfg.Checks.ShearTolerance)
		if err != nil {
			return err
		}
		r, err := analysis.PureShear(res, tol)
		if err != nil {
			return err
		}
		fmt.Fprintf(out, "pure shear (%d elements, tol %g)\n", r.Elements, tol)
		fmt.Fprintf(out, "  max normal stress = %.6e at element %d\n", r.MaxNormalStress, r.Element)
		pass = r.Pass

	case "cantilever":
		acc, err := flagOr(cmd, "acceptable", acceptable, cfg.Checks.AcceptableError)
		if err != nil {
			return err
		}
		r, err := analysis.CantileverTip(res, cfg.Beam, acc)
		if errors.Is(err, metrics.ErrZeroReference) {
			fmt.Fprintln(out, "relative error: undefined (zero reference)")
			return errCheckFailed
		}
		if err != nil {
			return err
		}
		fmt.Fprintf(out, "cantilever tip (node %d)\n", r.Node)
		fmt.Fprintf(out, "  numerical   = %.6e\n  theoretical = %.6e\n", r.Numerical, r.Theoretical)
		fmt.Fprintf(out, "  error       = %.2f%% (acceptable %.0f%%)\n", r.RelativeError, r.Acceptable)
		pass = r.Pass

	case "cook":
		r, err := analysis.CookMembrane(res)
		if err != nil {
			return err
		}
		fmt.Fprintf(out, "cook membrane\n  max |ux|+|uy| = %.6e at node %d\n  upper edge nodes: %v\n",
			r.MaxDisplacement, r.MaxNode, r.UpperNodes)
		pass = r.Pass
	}

	fmt.Fprintln(out, viz.Verdict(pass))
	if !pass {
		return errCheckFailed
	}
	return nil
}

// flagOr returns the flag value when it was set on the command line and
// fallback otherwise. The result must be positive.
func flagOr(cmd *cobra.Command, name string, flagVal, fallback float64) (float64, error) {
	v := fallback
	if cmd.Flags().Changed(name) {
		v = flagVal
	}
	if v <= 0 {
		return 0, fmt.Errorf("--%s must be positive, got %g", name, v)
	}
	return v, nil
}

func runConverge(cmd *cobra.Command, args []string) error {
	cfg, err := loadSettings(cmd)
	if err != nil {
		return err
	}
	conv := cfg.Convergence
	if cmd.Flags().Changed("h") {
		conv.MeshSizes = meshSizes
		conv.Levels = nil
	}
	if cmd.Flags().Changed("values") {
		conv.Numerical = values
	}
	if cmd.Flags().Changed("theory") {
		conv.Theoretical = theory
	}
	if len(conv.MeshSizes) == 0 {
		return fmt.Errorf("no convergence data: pass --h, --values and --theory or use --preset t3-convergence")
	}

	study, err := metrics.ConvergenceStudy(conv.MeshSizes, conv.Numerical, conv.Theoretical)
	if errors.Is(err, metrics.ErrZeroReference) {
		return fmt.Errorf("relative error undefined: %w", err)
	}
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	w := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "LEVEL\tH\tVALUE\tABS ERR\tREL ERR\tREDUCTION")
	for i, h := range study.MeshSizes {
		level := fmt.Sprintf("%d", i+1)
		if i < len(conv.Levels) {
			level = conv.Levels[i]
		}
		reduction := "-"
		if i > 0 {
			reduction = fmt.Sprintf("%.2f", study.Reductions[i-1])
		}
		fmt.Fprintf(w, "%s\t%g\t%g\t%.4f\t%.2f%%\t%s\n",
			level, h, study.Numerical[i], study.AbsErrors[i], study.RelErrors[i], reduction)
	}
	if err := w.Flush(); err != nil {
		return err
	}

	fmt.Fprintln(out)
	fmt.Fprintln(out, viz.KV("theoretical", study.Theoretical))
	fmt.Fprintln(out, viz.KV("convergence rate", fmt.Sprintf("%.4f", study.Fit.Rate)))
	fmt.Fprintln(out, viz.KV("constant C", fmt.Sprintf("%.4f", study.Fit.Constant)))
	fmt.Fprintln(out, viz.KV("R²", fmt.Sprintf("%.4f", study.Fit.R2)))

	if showPlot {
		fmt.Fprintln(out)
		fmt.Fprintln(out, viz.ConvergencePlot(study, 60, 10))
	}
	return nil
}

func plotReport(cmd *cobra.Command, args []string) error {
	res, _, err := loadResult(cmd, args[0])
	if err != nil {
		return err
	}
	out := cmd.OutOrStdout()

	if len(res.Nodes) == 0 {
		fmt.Fprintln(out, "no displacement data")
	} else {
		graph, err := viz.DisplacementPlot(res, dispComponent, plotWidth, plotHeight)
		if err != nil {
			return err
		}
		fmt.Fprintln(out, graph)
		fmt.Fprintln(out)
	}

	if len(res.Elements) == 0 {
		fmt.Fprintln(out, "no stress data")
	} else {
		graph, err := viz.StressPlot(res, stressComponent, plotWidth, plotHeight)
		if err != nil {
			return err
		}
		fmt.Fprintln(out, graph)
		fmt.Fprintln(out)
	}

	if mesh := viz.MeshPlot(res, plotWidth/2, plotHeight, deformScale); mesh != "" {
		fmt.Fprintln(out, viz.Subtle.Render("mesh"))
		fmt.Fprint(out, mesh)
	}

	if nodes := viz.NodeMap(res, plotWidth/2, plotHeight); nodes != "" {
		fmt.Fprintln(out, viz.Subtle.Render("nodes (▲ fixed)"))
		fmt.Fprint(out, nodes)
	}

	if svgPath != "" {
		svg := export.MeshSVG(res, 800, 600, deformScale)
		if svg == "" {
			return fmt.Errorf("no mesh data for svg")
		}
		if err := os.WriteFile(svgPath, []byte(svg), 0644); err != nil {
			return err
		}
		fmt.Fprintf(out, "wrote %s\n", svgPath)
	}
	return nil
}

func runBatch(cmd *cobra.Command, args []string) error {
	parser, _, err := newParser(cmd)
	if err != nil {
		return err
	}
	files, err := batch.Discover(args[0], config.DefaultExtension)
	if err != nil {
		return err
	}
	if len(files) == 0 {
		fmt.Fprintf(cmd.OutOrStdout(), "no %s files in %s\n", config.DefaultExtension, args[0])
		return nil
	}

	log := newLogger(cmd)
	items := batch.Run(context.Background(), files, parser.ParseFile, workers)
	st := storage.New(dataDir)

	out := cmd.OutOrStdout()
	w := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "FILE\tNODES\tELEMENTS\tSKIPPED\tMAX VON MISES\tRUN")
	var peaks []float64
	for _, it := range items {
		name := filepath.Base(it.Path)
		if it.Err != nil {
			log.Error().Err(it.Err).Str("file", it.Path).Msg("parse failed")
			fmt.Fprintf(w, "%s\t-\t-\t-\t-\tfailed\n", name)
			continue
		}

		peak := "-"
		if ext, err := analysis.FindExtremes(it.Result); err == nil && ext.VonMisesAt >= 0 {
			peak = fmt.Sprintf("%.4e", ext.MaxVonMises)
			peaks = append(peaks, ext.MaxVonMises)
		}

		runID := "-"
		if !noSave {
			if runID, err = st.Save(it.Result); err != nil {
				log.Error().Err(err).Str("file", it.Path).Msg("save failed")
				runID = "unsaved"
			}
		}
		fmt.Fprintf(w, "%s\t%d\t%d\t%d\t%s\t%s\n",
			name, len(it.Result.Nodes), len(it.Result.Elements), len(it.Result.Diagnostics), peak, runID)
	}
	if err := w.Flush(); err != nil {
		return err
	}

	t := batch.Summarize(items)
	fmt.Fprintf(out, "\n%d files, %d failed, %d nodes, %d elements, %d rows skipped\n",
		t.Files, t.Failed, t.Nodes, t.Elements, t.Diagnostics)
	if len(peaks) > 1 {
		fmt.Fprintln(out, viz.KV("peak stress", viz.Sparkline(peaks, 40)))
	}
	if t.Failed > 0 {
		return fmt.Errorf("%d of %d reports failed", t.Failed, t.Files)
	}
	return nil
}

func listRuns(cmd *cobra.Command, args []string) error {
	st := storage.New(dataDir)
	runs, err := st.List()
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	if len(runs) == 0 {
		fmt.Fprintln(out, "no runs found")
		return nil
	}

	w := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "ID\tSOURCE\tTIME\tNODES\tELEMENTS\tSKIPPED\tTITLE")
	for _, run := range runs {
		fmt.Fprintf(w, "%s\t%s\t%s\t%d\t%d\t%d\t%s\n",
			run.ID,
			run.Source,
			run.Timestamp.Format("2006-01-02 15:04:05"),
			run.Nodes,
			run.Elements,
			run.Diagnostics,
			run.Title,
		)
	}
	return w.Flush()
}

var exportFormats = []string{"json", "summary", "nodes-csv", "elements-csv", "svg"}

func exportRun(cmd *cobra.Command, args []string) error {
	if !slices.Contains(exportFormats, format) {
		return fmt.Errorf("unknown format: %s (available: %v)", format, exportFormats)
	}
	res, err := storage.New(dataDir).LoadResult(args[0])
	if err != nil {
		return err
	}

	write := func(w io.Writer) error {
		switch format {
		case "json":
			return export.WriteJSON(w, res)
		case "summary":
			return export.WriteSummary(w, res, export.DefaultOptions())
		case "nodes-csv":
			return export.WriteNodesCSV(w, res)
		case "elements-csv":
			return export.WriteElementsCSV(w, res)
		default:
			svg := export.MeshSVG(res, 800, 600, 0)
			if svg == "" {
				return fmt.Errorf("no mesh data for svg")
			}
			_, err := io.WriteString(w, svg)
			return err
		}
	}

	if outPath == "" {
		return write(cmd.OutOrStdout())
	}
	if err := writeFile(outPath, write); err != nil {
		return err
	}
	fmt.Fprintf(cmd.OutOrStdout(), "wrote %s\n", outPath)
	return nil
}

// writeFile creates path and hands it to write. The file is closed
// before returning and a failed close is reported.
func writeFile(path string, write func(io.Writer) error) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	if err := write(f); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}

func browseReport(cmd *cobra.Command, args []string) error {
	res, _, err := loadResult(cmd, args[0])
	if err != nil {
		return err
	}
	return viz.NewBrowser(res).Run()
}

func listLayouts(cmd *cobra.Command, args []string) error {
	out := cmd.OutOrStdout()
	if dumpLayout != "" {
		cfg, err := loadSettings(cmd)
		if err != nil {
			return err
		}
		l, err := cfg.ResolveLayout()
		if err != nil {
			return err
		}
		if err := config.SaveLayout(dumpLayout, l); err != nil {
			return err
		}
		fmt.Fprintf(out, "wrote %s (%s)\n", dumpLayout, l.Name)
		return nil
	}

	for _, name := range config.ListLayouts() {
		l := config.MustLayout(name)
		fmt.Fprintf(out, "%-12s displacements %q, stresses %q\n", name, l.Displacements.Header, l.Stresses.Header)
	}
	return nil
}

func listPresets(cmd *cobra.Command, args []string) error {
	out := cmd.OutOrStdout()
	if dumpConfig != "" {
		cfg, err := loadSettings(cmd)
		if err != nil {
			return err
		}
		if err := config.Save(dumpConfig, cfg); err != nil {
			return err
		}
		fmt.Fprintf(out, "wrote %s\n", dumpConfig)
		return nil
	}

	for _, name := range config.ListPresets() {
		p := config.GetPreset(name)
		fmt.Fprintf(out, "%-16s case=%s layout=%s\n", name, p.Case, p.LayoutName)
	}
	return nil
}
