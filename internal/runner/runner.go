// Package runner drives the demo: import a mechanism, register its items,
// set up the window and step the system once per rendered frame.
package runner

import (
	"fmt"
	"io"
	"log/slog"

	"github.com/san-kum/mechsim/internal/config"
	"github.com/san-kum/mechsim/internal/geom"
	"github.com/san-kum/mechsim/internal/mech"
)

// Simulation is the part of mech.System the runner drives.
type Simulation interface {
	Add(item mech.Item) error
	DoStepDynamics(dt float64) error
}

type Importer interface {
	Import(path string) ([]mech.Item, error)
}

// ImportFunc adapts a function such as importer.Import to Importer.
type ImportFunc func(path string) ([]mech.Item, error)

func (f ImportFunc) Import(path string) ([]mech.Item, error) { return f(path) }

// Visual is the part of viz.Window the runner drives.
type Visual interface {
	SetWindowSize(width, height int)
	SetWindowTitle(title string)
	Initialize() error
	AddLogo(path string) error
	AddSkyBox()
	AddCamera(pos, target geom.Vec3)
	AddTypicalLights()
	Run() bool
	BeginScene()
	DrawAll()
	EndScene()
}

type Plan struct {
	ScenePath    string
	LogoPath     string // optional
	Width        int
	Height       int
	Title        string
	CameraPos    geom.Vec3
	CameraTarget geom.Vec3
	Step         float64
}

func NewPlan(cfg *config.Config) Plan {
	return Plan{
		ScenePath:    cfg.ScenePath(),
		LogoPath:     cfg.LogoPath(),
		Width:        cfg.Window.Width,
		Height:       cfg.Window.Height,
		Title:        cfg.Window.Title,
		CameraPos:    cfg.Camera.Position,
		CameraTarget: cfg.Camera.Target,
		Step:         cfg.Step,
	}
}

type Report struct {
	Items  []string
	Frames int
	Steps  int
}

type Runner struct {
	Sim      Simulation
	Importer Importer
	Vis      Visual
	Out      io.Writer
	Logger   *slog.Logger
}

// Run executes the demo until the window stops running. The report is
// returned even when a step fails.
func (r *Runner) Run(p Plan) (*Report, error) {
	log := r.Logger
	if log == nil {
		log = slog.New(slog.DiscardHandler)
	}
	out := r.Out
	if out == nil {
		out = io.Discard
	}
	rep := &Report{}

	fmt.Fprintln(out, "Loading mechanism scene...")
	items, err := r.Importer.Import(p.ScenePath)
	fmt.Fprintln(out, "...done!")
	if err != nil {
		return rep, fmt.Errorf("import %s: %w", p.ScenePath, err)
	}
	for _, it := range items {
		fmt.Fprintln(out, it.Name())
		rep.Items = append(rep.Items, it.Name())
	}
	log.Debug("imported scene", "path", p.ScenePath, "items", len(items))

	for _, it := range items {
		if err := r.Sim.Add(it); err != nil {
			return rep, fmt.Errorf("add %s: %w", it.Name(), err)
		}
	}

	r.Vis.SetWindowSize(p.Width, p.Height)
	r.Vis.SetWindowTitle(p.Title)
	if err := r.Vis.Initialize(); err != nil {
		return rep, fmt.Errorf("initialize window: %w", err)
	}
	if p.LogoPath != "" {
		if err := r.Vis.AddLogo(p.LogoPath); err != nil {
			log.Warn("logo not shown", "path", p.LogoPath, "err", err)
		}
	}
	r.Vis.AddSkyBox()
	r.Vis.AddCamera(p.CameraPos, p.CameraTarget)
	r.Vis.AddTypicalLights()

	log.Info("simulation started", "step", p.Step, "window", fmt.Sprintf("%dx%d", p.Width, p.Height))
	for r.Vis.Run() {
		r.Vis.BeginScene()
		r.Vis.DrawAll()
		r.Vis.EndScene()
		rep.Frames++
		if err := r.Sim.DoStepDynamics(p.Step); err != nil {
			return rep, fmt.Errorf("step %d: %w", rep.Steps, err)
		}
		rep.Steps++
	}
	log.Info("simulation stopped", "frames", rep.Frames, "steps", rep.Steps)
	return rep, nil
}
