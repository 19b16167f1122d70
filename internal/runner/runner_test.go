package runner_test

import (
	"bytes"
	"context"
	"errors"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/san-kum/mechsim/internal/config"
	"github.com/san-kum/mechsim/internal/geom"
	"github.com/san-kum/mechsim/internal/importer"
	"github.com/san-kum/mechsim/internal/mech"
	"github.com/san-kum/mechsim/internal/runner"
	"github.com/san-kum/mechsim/internal/viz"
)

func indexOf(calls []string, call string) int {
	for i, c := range calls {
		if c == call {
			return i
		}
	}
	return -1
}

var _ = Describe("Runner", func() {
	var (
		j    *journal
		imp  *fakeImporter
		sim  *fakeSim
		vis  *fakeVis
		out  *bytes.Buffer
		r    *runner.Runner
		plan runner.Plan
	)

	BeforeEach(func() {
		j = &journal{}
		imp = &fakeImporter{j: j, items: []mech.Item{fakeItem("frame"), fakeItem("wheel"), fakeItem("pivot")}}
		sim = &fakeSim{j: j}
		vis = &fakeVis{j: j, frames: 3}
		out = &bytes.Buffer{}
		r = &runner.Runner{Sim: sim, Importer: imp, Vis: vis, Out: out}
		plan = runner.Plan{
			ScenePath: "data/solid_works/swiss_escapement",
			LogoPath:  "data/logo.png",
			Width:     1024,
			Height:    768,
			Title:     "demo",
			CameraPos: geom.V(0.3, 0.3, 0.4),
			Step:      0.002,
		}
	})

	It("prints progress around the import and then every item name", func() {
		_, err := r.Run(plan)
		Expect(err).NotTo(HaveOccurred())
		Expect(out.String()).To(Equal("Loading mechanism scene...\n...done!\nframe\nwheel\npivot\n"))
	})

	It("imports before registering any item", func() {
		_, err := r.Run(plan)
		Expect(err).NotTo(HaveOccurred())
		Expect(j.calls[0]).To(Equal("import data/solid_works/swiss_escapement"))
		Expect(indexOf(j.calls, "import data/solid_works/swiss_escapement")).To(BeNumerically("<", indexOf(j.calls, "add frame")))
	})

	It("registers every item exactly once in import order", func() {
		rep, err := r.Run(plan)
		Expect(err).NotTo(HaveOccurred())
		Expect(sim.added).To(Equal(imp.items))
		Expect(rep.Items).To(Equal([]string{"frame", "wheel", "pivot"}))
	})

	It("configures the window after registration and before the loop", func() {
		_, err := r.Run(plan)
		Expect(err).NotTo(HaveOccurred())
		Expect(j.calls[4:12]).To(Equal([]string{
			"size 1024x768",
			"title demo",
			"initialize",
			"logo data/logo.png",
			"skybox",
			"camera (0.3, 0.3, 0.4)",
			"lights",
			"run",
		}))
	})

	It("follows each rendered frame with exactly one step", func() {
		rep, err := r.Run(plan)
		Expect(err).NotTo(HaveOccurred())

		loop := j.calls[indexOf(j.calls, "lights")+1:]
		frame := []string{"run", "begin", "draw", "end", "step 0.002"}
		expected := append(append(append([]string{}, frame...), frame...), frame...)
		expected = append(expected, "run")
		Expect(loop).To(Equal(expected))
		Expect(sim.steps).To(HaveLen(3))
		Expect(sim.steps).To(HaveEach(0.002))
		Expect(rep.Frames).To(Equal(3))
		Expect(rep.Steps).To(Equal(3))
	})

	It("stops only when the window stops running", func() {
		vis.frames = 0
		rep, err := r.Run(plan)
		Expect(err).NotTo(HaveOccurred())
		Expect(rep.Frames).To(BeZero())
		Expect(sim.steps).To(BeEmpty())
		Expect(vis.polls).To(Equal(1))
	})

	It("skips the logo when none is configured", func() {
		plan.LogoPath = ""
		_, err := r.Run(plan)
		Expect(err).NotTo(HaveOccurred())
		Expect(j.calls).NotTo(ContainElement(HavePrefix("logo")))
	})

	It("keeps going when the logo cannot be loaded", func() {
		vis.logoErr = errors.New("no such file")
		rep, err := r.Run(plan)
		Expect(err).NotTo(HaveOccurred())
		Expect(rep.Frames).To(Equal(3))
	})

	Context("when a collaborator fails", func() {
		It("returns the import error after the progress lines", func() {
			imp.err = importer.ErrSceneNotFound
			_, err := r.Run(plan)
			Expect(err).To(MatchError(importer.ErrSceneNotFound))
			Expect(out.String()).To(Equal("Loading mechanism scene...\n...done!\n"))
			Expect(sim.added).To(BeEmpty())
		})

		It("returns the registration error", func() {
			sim.addErr = mech.ErrDuplicateItem
			_, err := r.Run(plan)
			Expect(err).To(MatchError(mech.ErrDuplicateItem))
			Expect(j.calls).NotTo(ContainElement("initialize"))
		})

		It("returns the window error before entering the loop", func() {
			vis.initErr = viz.ErrNoSystem
			_, err := r.Run(plan)
			Expect(err).To(MatchError(viz.ErrNoSystem))
			Expect(vis.polls).To(BeZero())
		})

		It("returns the step error with the frames so far", func() {
			sim.stepErr = errors.New("diverged")
			rep, err := r.Run(plan)
			Expect(err).To(MatchError(ContainSubstring("diverged")))
			Expect(rep.Frames).To(Equal(1))
			Expect(rep.Steps).To(BeZero())
		})
	})

	Describe("NewPlan", func() {
		It("resolves scene and logo against the data root", func() {
			cfg := config.DefaultConfig()
			cfg.DataRoot = "/assets"
			p := runner.NewPlan(cfg)
			Expect(p.ScenePath).To(Equal("/assets/solid_works/swiss_escapement"))
			Expect(p.LogoPath).To(Equal("/assets/logo_mechsim_alpha.png"))
			Expect(p.Width).To(Equal(1024))
			Expect(p.Height).To(Equal(768))
			Expect(p.Step).To(Equal(0.002))
			Expect(p.CameraPos).To(Equal(geom.V(0.3, 0.3, 0.4)))
		})
	})

	Describe("with the real collaborators", func() {
		It("runs the escapement scene headless", func() {
			cfg := config.DefaultConfig()
			cfg.DataRoot = "../../data"

			settings := mech.DefaultSettings()
			settings.CollisionEnvelope = cfg.Collision.Envelope
			settings.CollisionMargin = cfg.Collision.Margin
			sys := mech.NewSystem(settings, nil)
			sys.SetMaxPenetrationRecoverySpeed(cfg.MaxPenetrationRecoverySpeed)

			driver := viz.NewHeadless(context.Background(), 20)
			win := viz.NewWindow(sys, driver)
			demo := &runner.Runner{
				Sim:      sys,
				Importer: runner.ImportFunc(importer.Import),
				Vis:      win,
				Out:      out,
			}

			rep, err := demo.Run(runner.NewPlan(cfg))
			Expect(err).NotTo(HaveOccurred())
			Expect(rep.Frames).To(Equal(20))
			Expect(sys.StepCount()).To(Equal(20))
			Expect(sys.Time()).To(BeNumerically("~", 0.04, 1e-9))
			Expect(sys.Items()).To(HaveLen(len(rep.Items)))
			Expect(driver.Title()).To(Equal(config.DefaultTitle))
			Expect(win.Close()).To(Succeed())
		})

		It("lands the drive weight on the ground with the drop preset", func() {
			cfg := config.GetPreset("drop")
			cfg.DataRoot = "../../data"

			settings := mech.DefaultSettings()
			settings.CollisionEnvelope = cfg.Collision.Envelope
			settings.CollisionMargin = cfg.Collision.Margin
			settings.Ground = cfg.Collision.Ground
			settings.GroundY = cfg.Collision.GroundY
			sys := mech.NewSystem(settings, nil)
			sys.SetMaxPenetrationRecoverySpeed(cfg.MaxPenetrationRecoverySpeed)
			contacts := &contactLog{}
			sys.AddObserver(contacts)

			win := viz.NewWindow(sys, viz.NewHeadless(context.Background(), 1000))
			demo := &runner.Runner{
				Sim:      sys,
				Importer: runner.ImportFunc(importer.Import),
				Vis:      win,
				Out:      out,
			}

			_, err := demo.Run(runner.NewPlan(cfg))
			Expect(err).NotTo(HaveOccurred())
			Expect(contacts.most).To(BeNumerically(">=", 1))
			Expect(contacts.deepest).To(BeNumerically("<", 5e-3))
			Expect(win.Close()).To(Succeed())
		})
	})
})
