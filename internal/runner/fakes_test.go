package runner_test

import (
	"fmt"

	"github.com/san-kum/mechsim/internal/geom"
	"github.com/san-kum/mechsim/internal/mech"
)

// journal records every collaborator call in order.
type journal struct{ calls []string }

func (j *journal) log(format string, args ...any) {
	j.calls = append(j.calls, fmt.Sprintf(format, args...))
}

type fakeItem string

func (f fakeItem) Name() string { return string(f) }

type fakeImporter struct {
	j     *journal
	items []mech.Item
	err   error
}

func (f *fakeImporter) Import(path string) ([]mech.Item, error) {
	f.j.log("import %s", path)
	return f.items, f.err
}

type fakeSim struct {
	j       *journal
	added   []mech.Item
	steps   []float64
	addErr  error
	stepErr error
}

func (f *fakeSim) Add(item mech.Item) error {
	f.j.log("add %s", item.Name())
	f.added = append(f.added, item)
	return f.addErr
}

func (f *fakeSim) DoStepDynamics(dt float64) error {
	f.j.log("step %g", dt)
	f.steps = append(f.steps, dt)
	return f.stepErr
}

// fakeVis runs for frames iterations.
type fakeVis struct {
	j       *journal
	frames  int
	polls   int
	initErr error
	logoErr error
}

func (f *fakeVis) SetWindowSize(w, h int)   { f.j.log("size %dx%d", w, h) }
func (f *fakeVis) SetWindowTitle(t string)  { f.j.log("title %s", t) }
func (f *fakeVis) Initialize() error        { f.j.log("initialize"); return f.initErr }
func (f *fakeVis) AddLogo(p string) error   { f.j.log("logo %s", p); return f.logoErr }
func (f *fakeVis) AddSkyBox()               { f.j.log("skybox") }
func (f *fakeVis) AddCamera(p, t geom.Vec3) { f.j.log("camera %v", p) }
func (f *fakeVis) AddTypicalLights()        { f.j.log("lights") }
func (f *fakeVis) BeginScene()              { f.j.log("begin") }
func (f *fakeVis) DrawAll()                 { f.j.log("draw") }
func (f *fakeVis) EndScene()                { f.j.log("end") }

func (f *fakeVis) Run() bool {
	f.polls++
	f.j.log("run")
	return f.polls <= f.frames
}

// contactLog keeps the most bodies seen on the ground and the deepest
// penetration of any colliding body.
type contactLog struct {
	most    int
	deepest float64
}

func (c *contactLog) OnStep(sys *mech.System) {
	c.most = max(c.most, sys.Contacts())
	ground := sys.Settings().GroundY
	for _, b := range sys.Bodies() {
		if b.Collide && !b.Fixed {
			c.deepest = max(c.deepest, ground-(b.Pos.Y-b.Size.Y))
		}
	}
}
