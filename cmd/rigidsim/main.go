package main

import (
	"context"
	"fmt"
	"maps"
	"math"
	"os"
	"os/signal"
	"slices"
	"strconv"

	"github.com/charmbracelet/log"
	"github.com/guptarohit/asciigraph"
	"github.com/spf13/cobra"

	"github.com/san-kum/rigidsim/internal/automation"
	"github.com/san-kum/rigidsim/internal/config"
	"github.com/san-kum/rigidsim/internal/export"
	"github.com/san-kum/rigidsim/internal/integrators"
	"github.com/san-kum/rigidsim/internal/metrics"
	"github.com/san-kum/rigidsim/internal/optim"
	"github.com/san-kum/rigidsim/internal/sim"
	"github.com/san-kum/rigidsim/internal/storage"
	"github.com/san-kum/rigidsim/internal/viz"
)

var (
	dataDir     string
	logLevel    string
	configFile  string
	dt          float64
	duration    float64
	integrator  string
	accumulate  bool
	recordEvery int
	boundsLimit float64
	bodyID      uint64
	frameRate   int
	svgOut      string
	svgWidth    int
	svgHeight   int
	compareDts  []float64
	tuneCtrl    int
	tuneKp      []float64
	tuneKi      []float64
	tuneKd      []float64
)

var logger = log.NewWithOptions(os.Stderr, log.Options{
	ReportTimestamp: true,
	Prefix:          "rigidsim",
})

func main() {
	rootCmd := &cobra.Command{
		Use:           "rigidsim",
		Short:         "2d rigid body simulation lab",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			lvl, err := log.ParseLevel(logLevel)
			if err != nil {
				return err
			}
			logger.SetLevel(lvl)
			return nil
		},
	}

	rootCmd.PersistentFlags().StringVar(&dataDir, "data", ".rigidsim", "data directory")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "info", "log level (debug, info, warn, error)")

	runCmd := &cobra.Command{
		Use:   "run [preset]",
		Short: "run a scene and store the result",
		Args:  cobra.MaximumNArgs(1),
		RunE:  runScene,
	}
	addSceneFlags(runCmd)
	runCmd.Flags().IntVar(&recordEvery, "record-every", 1, "keep one frame every n steps")
	runCmd.Flags().Float64Var(&boundsLimit, "bounds", 1000, "half-width of the in_bounds metric square")

	liveCmd := &cobra.Command{
		Use:   "live [preset]",
		Short: "run a scene with a live terminal view",
		Args:  cobra.MaximumNArgs(1),
		RunE:  runLive,
	}
	addSceneFlags(liveCmd)
	liveCmd.Flags().IntVar(&frameRate, "fps", 30, "frame rate")

	listCmd := &cobra.Command{
		Use:   "list",
		Short: "list stored runs",
		RunE:  listRuns,
	}

	plotCmd := &cobra.Command{
		Use:   "plot [run_id]",
		Short: "plot a body's height and speed",
		Args:  cobra.ExactArgs(1),
		RunE:  plotRun,
	}
	plotCmd.Flags().Uint64Var(&bodyID, "body", 0, "body id (default: first body)")

	exportCmd := &cobra.Command{
		Use:   "export [run_id]",
		Short: "export a run as JSON",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return storage.New(dataDir).ExportJSON(cmd.OutOrStdout(), args[0])
		},
	}

	svgCmd := &cobra.Command{
		Use:   "svg [run_id]",
		Short: "render body trajectories as SVG",
		Args:  cobra.ExactArgs(1),
		RunE:  svgRun,
	}
	svgCmd.Flags().StringVarP(&svgOut, "out", "o", "", "output file (default: stdout)")
	svgCmd.Flags().IntVar(&svgWidth, "width", 800, "image width")
	svgCmd.Flags().IntVar(&svgHeight, "height", 600, "image height")

	compareCmd := &cobra.Command{
		Use:   "compare [preset] [integrators...]",
		Short: "run a scene under several integrators or timesteps",
		Long: "Runs the scene once per integrator (default: all) at the scene dt,\n" +
			"or once per --dts value with the scene integrator, and reports how far\n" +
			"each run ends from the first.",
		Args: cobra.ArbitraryArgs,
		RunE: compareRuns,
	}
	addSceneFlags(compareCmd)
	compareCmd.Flags().Float64SliceVar(&compareDts, "dts", nil, "timesteps to compare (e.g. 0.1,0.01,0.001)")

	tuneCmd := &cobra.Command{
		Use:   "tune [preset]",
		Short: "grid-search PID gains of a hold controller",
		Args:  cobra.MaximumNArgs(1),
		RunE:  tuneGains,
	}
	addSceneFlags(tuneCmd)
	tuneCmd.Flags().IntVar(&tuneCtrl, "controller", 0, "controller index in the scene")
	tuneCmd.Flags().Float64SliceVar(&tuneKp, "kp", []float64{4, 8, 16, 32}, "proportional gains")
	tuneCmd.Flags().Float64SliceVar(&tuneKi, "ki", nil, "integral gains (default: scene value)")
	tuneCmd.Flags().Float64SliceVar(&tuneKd, "kd", []float64{2, 4, 8}, "derivative gains")

	presetsCmd := &cobra.Command{
		Use:   "presets",
		Short: "list built-in scenes",
		RunE: func(cmd *cobra.Command, args []string) error {
			rows := make([][]string, 0)
			for _, name := range config.ListPresets() {
				p := config.GetPreset(name)
				rows = append(rows, []string{
					name,
					p.Integrator,
					p.Policy,
					strconv.Itoa(len(p.Bodies)),
					strconv.FormatFloat(p.Duration, 'f', -1, 64),
				})
			}
			fmt.Fprintln(cmd.OutOrStdout(), viz.Table([]string{"preset", "integrator", "policy", "bodies", "duration"}, rows))
			return nil
		},
	}

	rootCmd.AddCommand(runCmd, liveCmd, compareCmd, tuneCmd, listCmd, plotCmd, exportCmd, svgCmd, presetsCmd)

	if err := rootCmd.Execute(); err != nil {
		logger.Error(err)
		os.Exit(1)
	}
}

func addSceneFlags(cmd *cobra.Command) {
	cmd.Flags().StringVar(&configFile, "config", "", "scene file path (yaml)")
	cmd.Flags().Float64Var(&dt, "dt", config.DefaultDt, "timestep")
	cmd.Flags().Float64Var(&duration, "time", config.DefaultDuration, "duration")
	cmd.Flags().StringVar(&integrator, "integrator", config.DefaultIntegrator, fmt.Sprintf("integrator %v", integrators.Names()))
	cmd.Flags().BoolVar(&accumulate, "accumulate", false, "never clear applied forces between steps")
}

// loadScene resolves the scene from --config or a preset name, then applies
// any flags the user set explicitly.
func loadScene(cmd *cobra.Command, args []string) (*config.Scene, error) {
	var scene *config.Scene
	switch {
	case configFile != "":
		s, err := config.Load(configFile)
		if err != nil {
			return nil, fmt.Errorf("failed to load config: %w", err)
		}
		scene = s
	default:
		name := "drop"
		if len(args) > 0 {
			name = args[0]
		}
		scene = config.GetPreset(name)
		if scene == nil {
			return nil, fmt.Errorf("unknown preset: %s (available: %v)", name, config.ListPresets())
		}
	}

	flags := cmd.Flags()
	if flags.Changed("dt") {
		scene.Dt = dt
	}
	if flags.Changed("time") {
		scene.Duration = duration
	}
	if flags.Changed("integrator") {
		scene.Integrator = integrator
	}
	if flags.Changed("accumulate") && accumulate {
		scene.Policy = "accumulate"
	}
	if flags.Changed("record-every") {
		scene.RecordEvery = recordEvery
	}
	return scene, scene.Validate()
}

func runScene(cmd *cobra.Command, args []string) error {
	scene, err := loadScene(cmd, args)
	if err != nil {
		return err
	}

	eng, ids, err := scene.Build()
	if err != nil {
		return err
	}
	ctrls, err := scene.BuildControllers(ids)
	if err != nil {
		return err
	}
	logger.Info("scene built", "scene", scene.Name, "bodies", len(ids), "integrator", scene.Integrator, "policy", scene.Policy)

	st := storage.New(dataDir)
	if err := st.Init(); err != nil {
		return err
	}

	s := sim.New(eng)
	s.SetLogger(logger)
	for _, c := range ctrls {
		s.AddController(c)
	}
	s.AddMetric(metrics.NewKineticEnergy())
	s.AddMetric(metrics.NewMaxSpeed())
	s.AddMetric(metrics.NewBounds(boundsLimit))

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	result, runErr := s.Run(ctx, scene.SimConfig())
	if result == nil {
		return runErr
	}

	runID, err := st.Save(storage.RunMetadata{
		Scene:      scene.Name,
		Dt:         scene.Dt,
		Duration:   scene.Duration,
		Integrator: scene.Integrator,
		Policy:     scene.Policy,
	}, result)
	if err != nil {
		return err
	}
	logger.Info("run saved", "id", runID, "steps", result.StepsTaken, "frames", len(result.Frames))

	out := cmd.OutOrStdout()
	rows := [][]string{}
	for _, name := range slices.Sorted(maps.Keys(result.Metrics)) {
		rows = append(rows, []string{name, fmt.Sprintf("%.6f", result.Metrics[name])})
	}
	fmt.Fprintln(out, viz.Table([]string{"metric", "value"}, rows))

	rows = make([][]string, 0, eng.Len())
	for _, b := range eng.Snapshot() {
		rows = append(rows, []string{
			b.ID.String(),
			fmt.Sprint(b.Shape),
			fmt.Sprintf("%.3f, %.3f", b.Position.X, b.Position.Y),
			fmt.Sprintf("%.3f, %.3f", b.Velocity.X, b.Velocity.Y),
			fmt.Sprintf("%.3f", b.Angle),
		})
	}
	fmt.Fprintln(out, viz.Table([]string{"body", "shape", "position", "velocity", "angle"}, rows))
	fmt.Fprintf(out, "run id: %s\n", runID)

	return runErr
}

func compareRuns(cmd *cobra.Command, args []string) error {
	scene, err := loadScene(cmd, args[:min(len(args), 1)])
	if err != nil {
		return err
	}

	var variants []automation.Variant
	switch {
	case len(compareDts) > 0:
		variants = automation.DtVariants(scene.Integrator, compareDts)
	case len(args) > 1:
		variants = automation.IntegratorVariants(args[1:], scene.Dt)
	default:
		variants = automation.IntegratorVariants(integrators.Names(), scene.Dt)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	outcomes, err := automation.Run(ctx, automation.Sweep{Scene: scene, Variants: variants, Logger: logger})
	if err != nil {
		return err
	}

	rows := make([][]string, 0, len(outcomes))
	for _, o := range outcomes {
		status := "ok"
		if !o.Stable {
			status = "unstable"
		}
		rows = append(rows, []string{
			o.Label(),
			strconv.Itoa(o.Steps),
			fmt.Sprintf("%.6f", o.MeanEnergy),
			fmt.Sprintf("%.6f", o.FinalEnergy),
			fmt.Sprintf("%.4f", o.MaxSpeed),
			fmt.Sprintf("%.6f", o.Divergence),
			status,
		})
	}
	fmt.Fprintln(cmd.OutOrStdout(), viz.Table(
		[]string{"variant", "steps", "mean ke", "final ke", "max speed", "divergence", "status"}, rows))
	return nil
}

func tuneGains(cmd *cobra.Command, args []string) error {
	name := "hover"
	if len(args) > 0 {
		name = args[0]
	}
	scene, err := loadScene(cmd, []string{name})
	if err != nil {
		return err
	}

	names := []string{"kp", "kd"}
	ranges := [][]float64{tuneKp, tuneKd}
	if len(tuneKi) > 0 {
		names = append(names, "ki")
		ranges = append(ranges, tuneKi)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	logger.Info("tuning", "scene", scene.Name, "controller", tuneCtrl, "params", names)
	best, val, err := optim.NewGridSearch(names, ranges).Search(ctx, optim.HoldObjective(scene, tuneCtrl))
	if err != nil {
		return err
	}

	rows := make([][]string, 0, len(best)+1)
	for _, k := range slices.Sorted(maps.Keys(best)) {
		rows = append(rows, []string{k, strconv.FormatFloat(best[k], 'g', -1, 64)})
	}
	rows = append(rows, []string{"tracking_error", fmt.Sprintf("%.6f", val)})
	fmt.Fprintln(cmd.OutOrStdout(), viz.Table([]string{"param", "best"}, rows))
	return nil
}

func runLive(cmd *cobra.Command, args []string) error {
	scene, err := loadScene(cmd, args)
	if err != nil {
		return err
	}
	eng, ids, err := scene.Build()
	if err != nil {
		return err
	}
	ctrls, err := scene.BuildControllers(ids)
	if err != nil {
		return err
	}
	return viz.Run(viz.NewModel(scene.Name, eng, ids, scene.Dt, frameRate).WithControllers(ctrls...))
}

func listRuns(cmd *cobra.Command, args []string) error {
	runs, err := storage.New(dataDir).List()
	if err != nil {
		return err
	}
	if len(runs) == 0 {
		fmt.Fprintln(cmd.OutOrStdout(), "no runs")
		return nil
	}

	rows := make([][]string, 0, len(runs))
	for _, r := range runs {
		rows = append(rows, []string{
			r.ID,
			r.Scene,
			r.Integrator,
			r.Policy,
			strconv.Itoa(r.Steps),
			r.Timestamp.Format("2006-01-02 15:04:05"),
		})
	}
	fmt.Fprintln(cmd.OutOrStdout(), viz.Table([]string{"id", "scene", "integrator", "policy", "steps", "time"}, rows))
	return nil
}

func plotRun(cmd *cobra.Command, args []string) error {
	tracks, err := storage.New(dataDir).LoadTracks(args[0])
	if err != nil {
		return err
	}
	if len(tracks) == 0 {
		return fmt.Errorf("no data to plot")
	}

	track := tracks[0]
	if bodyID != 0 {
		found := false
		for _, tr := range tracks {
			if tr.ID == bodyID {
				track, found = tr, true
				break
			}
		}
		if !found {
			return fmt.Errorf("body %d not in run %s", bodyID, args[0])
		}
	}
	if len(track.Samples) < 2 {
		return fmt.Errorf("body %d has too few samples to plot", track.ID)
	}

	height := make([]float64, len(track.Samples))
	speed := make([]float64, len(track.Samples))
	for i, s := range track.Samples {
		// plot height upward, the world is y-down
		height[i] = -s.Y
		speed[i] = math.Hypot(s.VX, s.VY)
	}

	out := cmd.OutOrStdout()
	fmt.Fprintln(out, asciigraph.Plot(height,
		asciigraph.Height(10),
		asciigraph.Width(80),
		asciigraph.Caption(fmt.Sprintf("body %d height (-y)", track.ID)),
	))
	fmt.Fprintln(out)
	fmt.Fprintln(out, asciigraph.Plot(speed,
		asciigraph.Height(10),
		asciigraph.Width(80),
		asciigraph.Caption(fmt.Sprintf("body %d speed", track.ID)),
	))
	return nil
}

func svgRun(cmd *cobra.Command, args []string) error {
	tracks, err := storage.New(dataDir).LoadTracks(args[0])
	if err != nil {
		return err
	}
	svg := export.TracksSVG(tracks, svgWidth, svgHeight)
	if svg == "" {
		return fmt.Errorf("no data to render")
	}
	if svgOut == "" {
		_, err := fmt.Fprintln(cmd.OutOrStdout(), svg)
		return err
	}
	if err := os.WriteFile(svgOut, []byte(svg), 0644); err != nil {
		return err
	}
	logger.Info("svg written", "path", svgOut, "bodies", len(tracks))
	return nil
}
