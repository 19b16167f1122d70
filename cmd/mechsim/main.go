package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"text/tabwriter"

	"github.com/guptarohit/asciigraph"
	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/san-kum/mechsim/internal/analysis"
	"github.com/san-kum/mechsim/internal/config"
	"github.com/san-kum/mechsim/internal/export"
	"github.com/san-kum/mechsim/internal/importer"
	"github.com/san-kum/mechsim/internal/integrators"
	"github.com/san-kum/mechsim/internal/mech"
	"github.com/san-kum/mechsim/internal/metrics"
	"github.com/san-kum/mechsim/internal/runner"
	"github.com/san-kum/mechsim/internal/storage"
	"github.com/san-kum/mechsim/internal/viz"
)

var (
	dataRoot   string
	runsDir    string
	configFile string
	verbose    bool

	preset     string
	scene      string
	backend    string
	integrator string
	theme      string
	step       float64
	frames     int
	fps        int
	record     bool
	ground     bool
	snapshot   string

	svgBody string
	svgOut  string

	logger = slog.New(slog.NewTextHandler(os.Stderr, nil))
)

// main registers the commands and runs the CAD demo when no subcommand is
// given. It exits with status 1 on error.
func main() {
	rootCmd := &cobra.Command{
		Use:           "mechsim",
		Short:         "run mechanisms exported from CAD tools",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			level := slog.LevelInfo
			if verbose {
				level = slog.LevelDebug
			}
			logger = slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))
		},
		RunE: runDemo,
	}

	rootCmd.PersistentFlags().StringVar(&dataRoot, "data", "", "asset data root (overrides "+config.DataPathEnv+")")
	rootCmd.PersistentFlags().StringVar(&runsDir, "runs", ".mechsim", "directory of recorded runs")
	rootCmd.PersistentFlags().StringVar(&configFile, "config", "", "config file path (yaml)")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "debug logging")
	addRunFlags(rootCmd)

	runCmd := &cobra.Command{
		Use:   "run",
		Short: "run the demo",
		Args:  cobra.NoArgs,
		RunE:  runDemo,
	}
	addRunFlags(runCmd)

	itemsCmd := &cobra.Command{
		Use:   "items [scene]",
		Short: "list the items of a scene",
		Args:  cobra.MaximumNArgs(1),
		RunE:  listItems,
	}

	listCmd := &cobra.Command{
		Use:   "list",
		Short: "list recorded runs",
		RunE:  listRuns,
	}

	plotCmd := &cobra.Command{
		Use:   "plot [run_id]",
		Short: "plot body heights of a recorded run",
		Args:  cobra.ExactArgs(1),
		RunE:  plotRun,
	}

	exportCmd := &cobra.Command{
		Use:   "export-json [run_id]",
		Short: "print a recorded run as JSON",
		Args:  cobra.ExactArgs(1),
		RunE:  exportJSON,
	}

	analyzeCmd := &cobra.Command{
		Use:   "analyze [run_id]",
		Short: "dominant frequency of every recorded coordinate",
		Args:  cobra.ExactArgs(1),
		RunE:  analyzeRun,
	}

	svgCmd := &cobra.Command{
		Use:   "export-svg [run_id]",
		Short: "draw the x-y trajectory of a body as SVG",
		Args:  cobra.ExactArgs(1),
		RunE:  exportSVG,
	}
	svgCmd.Flags().StringVar(&svgBody, "body", "", "body to draw (default: first moving body)")
	svgCmd.Flags().StringVarP(&svgOut, "out", "o", "", "output file (default: stdout)")

	presetsCmd := &cobra.Command{
		Use:   "presets",
		Short: "list configuration presets",
		Run: func(cmd *cobra.Command, args []string) {
			for _, name := range config.ListPresets() {
				fmt.Fprintln(cmd.OutOrStdout(), name)
			}
		},
	}

	configCmd := &cobra.Command{
		Use:   "config",
		Short: "print the effective configuration",
		RunE:  printConfig,
	}
	addRunFlags(configCmd)

	rootCmd.AddCommand(runCmd, itemsCmd, listCmd, plotCmd, exportCmd, analyzeCmd, svgCmd, presetsCmd, configCmd)

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		os.Exit(1)
	}
}

func addRunFlags(cmd *cobra.Command) {
	cmd.Flags().StringVar(&preset, "preset", "", "use preset configuration")
	cmd.Flags().StringVar(&scene, "scene", config.DefaultScene, "scene path relative to the data root")
	cmd.Flags().StringVar(&backend, "backend", "terminal", "window backend: terminal, interactive, headless")
	cmd.Flags().StringVar(&integrator, "integrator", "rk4", "integrator: "+strings.Join(integrators.Names(), ", ")+" (euler diverges on stiff scenes)")
	cmd.Flags().StringVar(&theme, "theme", "minimal", "color theme: "+strings.Join(viz.ThemeNames(), ", "))
	cmd.Flags().Float64Var(&step, "step", config.DefaultStep, "time step")
	cmd.Flags().IntVar(&frames, "frames", 0, "stop a headless run after this many frames")
	cmd.Flags().IntVar(&fps, "fps", config.DefaultFPS, "frame rate limit, 0 for none")
	cmd.Flags().BoolVar(&record, "record", false, "record the run")
	cmd.Flags().BoolVar(&ground, "ground", false, "enable the ground plane")
	cmd.Flags().StringVar(&snapshot, "snapshot", "", "write the last frame as SVG")
}

// loadConfig layers defaults, config file, preset, environment and flags,
// in that order.
func loadConfig(cmd *cobra.Command) (*config.Config, error) {
	cfg := config.DefaultConfig()
	if configFile != "" {
		loaded, err := config.Load(configFile)
		if err != nil {
			return nil, err
		}
		cfg = loaded
	}
	if cmd.Flags().Lookup("preset") != nil && preset != "" {
		apply, ok := config.Presets[preset]
		if !ok {
			return nil, fmt.Errorf("unknown preset: %s (available: %s)", preset, strings.Join(config.ListPresets(), ", "))
		}
		apply(cfg)
	}
	cfg.ApplyEnv()

	if dataRoot != "" {
		cfg.DataRoot = dataRoot
	}
	flags := cmd.Flags()
	if flags.Changed("scene") {
		cfg.Scene = scene
	}
	if flags.Changed("backend") {
		cfg.Backend = backend
	}
	if flags.Changed("integrator") {
		cfg.Integrator = integrator
	}
	if flags.Changed("theme") {
		cfg.Theme = theme
	}
	if flags.Changed("step") {
		cfg.Step = step
	}
	if flags.Changed("frames") {
		cfg.Frames = frames
	}
	if flags.Changed("fps") {
		cfg.FPS = fps
	}
	if flags.Changed("record") {
		cfg.Record = record
	}
	if flags.Changed("ground") {
		cfg.Collision.Ground = ground
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func newSystem(cfg *config.Config) (*mech.System, error) {
	integ, err := integrators.New(cfg.Integrator)
	if err != nil {
		return nil, err
	}
	settings := mech.DefaultSettings()
	settings.CollisionEnvelope = cfg.Collision.Envelope
	settings.CollisionMargin = cfg.Collision.Margin
	settings.Ground = cfg.Collision.Ground
	settings.GroundY = cfg.Collision.GroundY

	sys := mech.NewSystem(settings, integ)
	sys.SetMaxPenetrationRecoverySpeed(cfg.MaxPenetrationRecoverySpeed)
	return sys, nil
}

func newDriver(ctx context.Context, cfg *config.Config) viz.Driver {
	switch cfg.Backend {
	case "interactive":
		return viz.NewInteractive(ctx, cfg.FPS)
	case "headless":
		return viz.NewHeadless(ctx, cfg.Frames)
	default:
		return viz.NewTerminal(ctx, os.Stdout, cfg.FPS)
	}
}

func runDemo(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	sys, err := newSystem(cfg)
	if err != nil {
		return err
	}
	set := metrics.Default()
	sys.AddObserver(set)

	var rec *storage.Recorder
	if cfg.Record {
		rec = storage.NewRecorder(cfg.RecordEvery)
		sys.AddObserver(rec)
	}

	win := viz.NewWindow(sys, newDriver(ctx, cfg))
	win.SetTheme(cfg.Theme)

	r := &runner.Runner{
		Sim:      sys,
		Importer: runner.ImportFunc(importer.Import),
		Vis:      win,
		Out:      cmd.OutOrStdout(),
		Logger:   logger,
	}
	logger.Debug("starting", "scene", cfg.ScenePath(), "backend", cfg.Backend, "integrator", cfg.Integrator)

	rep, runErr := r.Run(runner.NewPlan(cfg))
	if err := errors.Join(runErr, win.Err(), win.Close()); err != nil {
		return err
	}

	if snapshot != "" {
		svg := export.CanvasToSVG(win.Canvas(), 4, win.Theme())
		if err := os.WriteFile(snapshot, []byte(svg), 0644); err != nil {
			return fmt.Errorf("write snapshot: %w", err)
		}
		logger.Info("snapshot written", "path", snapshot)
	}

	values := set.Values()
	logger.Info("run finished",
		"frames", rep.Frames,
		"sim_time", sys.Time(),
		"kinetic_energy", values["kinetic_energy"],
		"energy_drift", values["energy_drift"],
		"link_violation", values["link_violation"],
	)

	if rec == nil {
		return nil
	}
	st := storage.New(runsDir)
	if err := st.Init(); err != nil {
		return err
	}
	runID, err := st.Save(storage.RunMetadata{
		Scene:       cfg.Scene,
		Dt:          cfg.Step,
		Steps:       rep.Steps,
		Duration:    sys.Time(),
		Integrator:  cfg.Integrator,
		RecordEvery: cfg.RecordEvery,
		Metrics:     values,
	}, rec)
	if err != nil {
		return fmt.Errorf("save run: %w", err)
	}
	fmt.Fprintf(cmd.OutOrStdout(), "saved: %s\n", runID)
	return nil
}

func listItems(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	path := cfg.ScenePath()
	if len(args) == 1 {
		path = cfg.DataFile(args[0])
	}

	items, err := importer.Import(path)
	if err != nil {
		return err
	}

	w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "NAME\tKIND\tDETAILS")
	for _, it := range items {
		switch it := it.(type) {
		case *mech.Body:
			details := fmt.Sprintf("mass=%g pos=%v", it.Mass, it.Pos)
			if it.Fixed {
				details = fmt.Sprintf("fixed pos=%v", it.Pos)
			}
			fmt.Fprintf(w, "%s\tbody\t%s\n", it.ID, details)
		case *mech.Link:
			fmt.Fprintf(w, "%s\t%s\t%s-%s\n", it.ID, it.Kind, it.Body1, it.Body2)
		default:
			fmt.Fprintf(w, "%s\t?\t\n", it.Name())
		}
	}
	return w.Flush()
}

func listRuns(cmd *cobra.Command, args []string) error {
	st := storage.New(runsDir)
	runs, err := st.List()
	if err != nil {
		return err
	}

	if len(runs) == 0 {
		fmt.Fprintln(cmd.OutOrStdout(), "no runs found")
		return nil
	}

	w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "ID\tSCENE\tTIME\tDURATION\tDT\tINTEG\tSTEPS")

	for _, run := range runs {
		fmt.Fprintf(w, "%s\t%s\t%s\t%.2fs\t%.4fs\t%s\t%d\n",
			run.ID,
			run.Scene,
			run.Timestamp.Format("2006-01-02 15:04:05"),
			run.Duration,
			run.Dt,
			run.Integrator,
			run.Steps,
		)
	}

	return w.Flush()
}

func plotRun(cmd *cobra.Command, args []string) error {
	runID := args[0]

	st := storage.New(runsDir)
	meta, err := st.Load(runID)
	if err != nil {
		return err
	}

	states, _, err := st.LoadStates(runID)
	if err != nil {
		return err
	}

	if len(states) == 0 {
		return fmt.Errorf("no data to plot")
	}

	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "run: %s\n", meta.ID)
	fmt.Fprintf(out, "scene: %s\n", meta.Scene)
	fmt.Fprintf(out, "samples: %d\n\n", len(states))

	const maxPlots = 6
	plotted := 0
	for col, name := range meta.Columns {
		if !strings.HasSuffix(name, ".y") || plotted == maxPlots {
			continue
		}
		data := make([]float64, len(states))
		for i := range states {
			if col < len(states[i]) {
				data[i] = states[i][col]
			}
		}

		graph := asciigraph.Plot(data,
			asciigraph.Height(10),
			asciigraph.Width(80),
			asciigraph.Caption(name+" vs time"),
		)
		fmt.Fprintln(out, graph)
		fmt.Fprintln(out)
		plotted++
	}

	if len(meta.Metrics) > 0 {
		fmt.Fprintln(out, "metrics:")
		for k, v := range meta.Metrics {
			fmt.Fprintf(out, "  %s: %.6f\n", k, v)
		}
	}

	return nil
}

func exportJSON(cmd *cobra.Command, args []string) error {
	return storage.New(runsDir).ExportJSON(cmd.OutOrStdout(), args[0])
}

func analyzeRun(cmd *cobra.Command, args []string) error {
	st := storage.New(runsDir)
	meta, err := st.Load(args[0])
	if err != nil {
		return err
	}
	states, times, err := st.LoadStates(args[0])
	if err != nil {
		return err
	}
	if len(times) < 4 {
		return fmt.Errorf("run %s has too few samples (%d)", meta.ID, len(times))
	}
	sampleDt := (times[len(times)-1] - times[0]) / float64(len(times)-1)

	w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "COLUMN\tFREQ (Hz)\tPERIOD (s)")
	for col, name := range meta.Columns {
		data := make([]float64, len(states))
		for i := range states {
			if col < len(states[i]) {
				data[i] = states[i][col]
			}
		}
		f := analysis.DominantFrequency(data, sampleDt)
		if f == 0 {
			continue
		}
		fmt.Fprintf(w, "%s\t%.3f\t%.4f\n", name, f, 1/f)
	}
	return w.Flush()
}

func exportSVG(cmd *cobra.Command, args []string) error {
	st := storage.New(runsDir)
	meta, err := st.Load(args[0])
	if err != nil {
		return err
	}
	states, _, err := st.LoadStates(args[0])
	if err != nil {
		return err
	}

	body := -1
	for i, name := range meta.Bodies {
		if name == svgBody || (svgBody == "" && moved(states, 3*i)) {
			body = i
			break
		}
	}
	if body < 0 {
		return fmt.Errorf("no body %q in run %s", svgBody, meta.ID)
	}

	points := make([]export.Point, 0, len(states))
	for _, s := range states {
		if 3*body+1 < len(s) {
			points = append(points, export.Point{X: s[3*body], Y: s[3*body+1]})
		}
	}
	svg := export.TrajectoryToSVG(points, 800, 600, "#00ffff")
	if svg == "" {
		return fmt.Errorf("not enough samples to draw")
	}
	if svgOut == "" {
		_, err := fmt.Fprintln(cmd.OutOrStdout(), svg)
		return err
	}
	return os.WriteFile(svgOut, []byte(svg), 0644)
}

// moved reports whether the x or y column at col changes over the run.
func moved(states [][]float64, col int) bool {
	for _, s := range states[min(1, len(states)):] {
		if col+1 < len(s) && (s[col] != states[0][col] || s[col+1] != states[0][col+1]) {
			return true
		}
	}
	return false
}

func printConfig(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	enc := yaml.NewEncoder(cmd.OutOrStdout())
	enc.SetIndent(2)
	if err := enc.Encode(cfg); err != nil {
		return err
	}
	return enc.Close()
}
