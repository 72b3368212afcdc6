package main

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/san-kum/femreport/internal/config"
	"github.com/san-kum/femreport/internal/logging"
	"github.com/san-kum/femreport/internal/report"
	"github.com/san-kum/femreport/internal/storage"
)

var (
	dataDir    string
	layoutName string
	configFile string
	preset     string
	verbose    bool
	logJSON    bool

	noSave bool

	// check
	tolerance  float64
	acceptable float64

	// converge
	meshSizes []float64
	values    []float64
	theory    float64
	showPlot  bool

	// plot
	dispComponent   string
	stressComponent string
	deformScale     float64
	svgPath         string
	plotWidth       int
	plotHeight      int

	// batch
	workers int

	// export
	format  string
	outPath string

	// layouts
	dumpLayout string

	// presets
	dumpConfig string
)

var errUsage = errors.New("expected exactly one report file ending in " + config.DefaultExtension)

func main() {
	rootCmd := newRootCmd()
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		if errors.Is(err, errUsage) {
			fmt.Fprintf(os.Stderr, "usage: %s\n", rootCmd.UseLine())
		}
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:           "femreport <report.out>",
		Short:         "parse finite element text reports and check the results",
		Args:          reportArg,
		RunE:          parseReport,
		SilenceErrors: true,
		SilenceUsage:  true,
	}

	pf := rootCmd.PersistentFlags()
	pf.StringVar(&dataDir, "data", config.DefaultDataDir, "data directory")
	pf.StringVar(&layoutName, "layout", config.DefaultLayout, "report layout (built-in name or yaml file)")
	pf.StringVar(&configFile, "config", "", "config file path (yaml)")
	pf.StringVar(&preset, "preset", "", "use preset configuration")
	pf.BoolVarP(&verbose, "verbose", "v", false, "log skipped rows")
	pf.BoolVar(&logJSON, "log-json", false, "write logs as json lines")

	rootCmd.Flags().BoolVar(&noSave, "no-save", false, "do not store the parse")

	parseCmd := &cobra.Command{
		Use:   "parse <report.out>",
		Short: "parse a report, print counts and store it",
		Args:  reportArg,
		RunE:  parseReport,
	}
	parseCmd.Flags().BoolVar(&noSave, "no-save", false, "do not store the parse")

	summaryCmd := &cobra.Command{
		Use:   "summary <report.out>",
		Short: "print the text summary of a report",
		Args:  reportArg,
		RunE:  printSummary,
	}

	checkCmd := &cobra.Command{
		Use:       "check <patch|shear|cantilever|cook> <report.out>",
		Short:     "run a verification check against a report",
		Args:      checkArgs,
		ValidArgs: checkKinds,
		RunE:      runCheck,
	}
	checkCmd.Flags().Float64Var(&tolerance, "tol", 0, "tolerance (default from config)")
	checkCmd.Flags().Float64Var(&acceptable, "acceptable", 0, "acceptable relative error in percent (cantilever)")

	convergeCmd := &cobra.Command{
		Use:   "converge",
		Short: "fit the convergence rate of a mesh refinement study",
		Args:  cobra.NoArgs,
		RunE:  runConverge,
	}
	convergeCmd.Flags().Float64SliceVar(&meshSizes, "h", nil, "mesh sizes, coarse to fine")
	convergeCmd.Flags().Float64SliceVar(&values, "values", nil, "numerical results per level")
	convergeCmd.Flags().Float64Var(&theory, "theory", 0, "closed-form reference value")
	convergeCmd.Flags().BoolVar(&showPlot, "plot", false, "plot the errors")

	plotCmd := &cobra.Command{
		Use:   "plot <report.out|run_id>",
		Short: "plot displacements, stresses and the mesh",
		Args:  cobra.ExactArgs(1),
		RunE:  plotReport,
	}
	plotCmd.Flags().StringVar(&dispComponent, "disp", "uy", "displacement component (ux, uy, uz, mag)")
	plotCmd.Flags().StringVar(&stressComponent, "stress", "mises", "stress component (sxx, syy, sxy, mises)")
	plotCmd.Flags().Float64Var(&deformScale, "scale", 0, "displacement magnification for the mesh view")
	plotCmd.Flags().StringVar(&svgPath, "svg", "", "also write the mesh as svg")
	plotCmd.Flags().IntVar(&plotWidth, "width", 60, "chart width")
	plotCmd.Flags().IntVar(&plotHeight, "height", 10, "chart height")

	batchCmd := &cobra.Command{
		Use:   "batch <dir>",
		Short: "parse every report in a directory",
		Args:  cobra.ExactArgs(1),
		RunE:  runBatch,
	}
	batchCmd.Flags().IntVar(&workers, "workers", 1, "parallel parses")
	batchCmd.Flags().BoolVar(&noSave, "no-save", false, "do not store the parses")

	listCmd := &cobra.Command{
		Use:   "list",
		Short: "list stored runs",
		Args:  cobra.NoArgs,
		RunE:  listRuns,
	}

	exportCmd := &cobra.Command{
		Use:   "export <run_id>",
		Short: "export a stored run",
		Args:  cobra.ExactArgs(1),
		RunE:  exportRun,
	}
	exportCmd.Flags().StringVar(&format, "format", "json", "json, summary, nodes-csv, elements-csv or svg")
	exportCmd.Flags().StringVarP(&outPath, "out", "o", "", "output file (default stdout)")

	browseCmd := &cobra.Command{
		Use:   "browse <report.out|run_id>",
		Short: "browse node and element tables interactively",
		Args:  cobra.ExactArgs(1),
		RunE:  browseReport,
	}

	layoutsCmd := &cobra.Command{
		Use:   "layouts",
		Short: "list built-in layouts",
		Args:  cobra.NoArgs,
		RunE:  listLayouts,
	}
	layoutsCmd.Flags().StringVar(&dumpLayout, "dump", "", "write the selected layout as yaml to this file")

	presetsCmd := &cobra.Command{
		Use:   "presets",
		Short: "list preset configurations",
		Args:  cobra.NoArgs,
		RunE:  listPresets,
	}
	presetsCmd.Flags().StringVar(&dumpConfig, "dump", "", "write the effective configuration as yaml to this file")

	rootCmd.AddCommand(parseCmd, summaryCmd, checkCmd, convergeCmd, plotCmd, batchCmd,
		listCmd, exportCmd, browseCmd, layoutsCmd, presetsCmd)
	return rootCmd
}

func reportArg(cmd *cobra.Command, args []string) error {
	if len(args) != 1 || !isReportPath(args[0]) {
		return errUsage
	}
	return nil
}

func isReportPath(p string) bool {
	return strings.HasSuffix(strings.ToLower(p), config.DefaultExtension)
}

func newLogger(cmd *cobra.Command) zerolog.Logger {
	if logJSON {
		return logging.JSON(cmd.ErrOrStderr(), verbose)
	}
	return logging.New(cmd.ErrOrStderr(), verbose)
}

// loadSettings layers defaults, preset, config file and flags, in that order.
func loadSettings(cmd *cobra.Command) (*config.Config, error) {
	cfg := config.DefaultConfig()
	if preset != "" {
		p := config.GetPreset(preset)
		if p == nil {
			return nil, fmt.Errorf("unknown preset: %s (available: %v)", preset, config.ListPresets())
		}
		c := *p
		cfg = &c
	}
	if configFile != "" {
		loaded, err := config.Load(configFile)
		if err != nil {
			return nil, fmt.Errorf("load config: %w", err)
		}
		cfg = loaded
	}
	if cmd.Flags().Changed("layout") {
		cfg.LayoutName = layoutName
		cfg.Layout = nil
		if strings.HasSuffix(layoutName, ".yaml") || strings.HasSuffix(layoutName, ".yml") {
			l, err := config.LoadLayout(layoutName)
			if err != nil {
				return nil, fmt.Errorf("load layout: %w", err)
			}
			cfg.Layout = &l
		}
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func newParser(cmd *cobra.Command) (*report.Parser, *config.Config, error) {
	cfg, err := loadSettings(cmd)
	if err != nil {
		return nil, nil, err
	}
	layout, err := cfg.ResolveLayout()
	if err != nil {
		return nil, nil, err
	}
	return report.NewParser(layout, report.WithLogger(newLogger(cmd))), cfg, nil
}

// loadResult parses a report file, or loads a stored run when arg is not
// a report path.
func loadResult(cmd *cobra.Command, arg string) (*report.Result, *config.Config, error) {
	parser, cfg, err := newParser(cmd)
	if err != nil {
		return nil, nil, err
	}
	if !isReportPath(arg) {
		res, err := storage.New(dataDir).LoadResult(arg)
		return res, cfg, err
	}
	res, err := parser.ParseFile(arg)
	return res, cfg, err
}
