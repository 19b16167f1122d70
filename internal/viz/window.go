package viz

import (
	"errors"
	"fmt"
	"math"
	"strings"

	"github.com/san-kum/mechsim/internal/geom"
	"github.com/san-kum/mechsim/internal/mech"
)

var (
	ErrNoSystem       = errors.New("viz: window has no system attached")
	ErrNotInitialized = errors.New("viz: window not initialized")
)

const (
	CellWidth  = 8  // window pixels per terminal column
	CellHeight = 16 // window pixels per terminal row

	DefaultWidth  = 1024
	DefaultHeight = 768
)

// Light is a point light. Intensity is in [0, 1].
type Light struct {
	Pos       geom.Vec3
	Intensity float64
}

// Window renders a mechanical system through a Driver. Configure it, call
// Initialize, then drive it with Run/BeginScene/DrawAll/EndScene.
type Window struct {
	sys    *mech.System
	driver Driver

	width, height int
	title         string
	theme         Theme

	camera  *Camera
	logo    *Canvas
	skybox  bool
	lights  []Light
	ambient float64

	canvas *Canvas
	wire   *Wireframe

	initialized bool
	closed      bool
	inScene     bool
	frames      int
	err         error
}

func NewWindow(sys *mech.System, driver Driver) *Window {
	return &Window{
		sys:    sys,
		driver: driver,
		width:  DefaultWidth,
		height: DefaultHeight,
		theme:  ThemeMinimal,
		wire:   NewWireframe(),
	}
}

func (w *Window) SetWindowSize(width, height int) {
	w.width, w.height = width, height
}

func (w *Window) SetWindowTitle(title string) { w.title = title }

func (w *Window) SetTheme(name string) { w.theme = GetTheme(name) }

func (w *Window) Title() string { return w.title }

// Size returns the terminal grid the window maps to.
func (w *Window) Size() (cols, rows int) {
	return max(w.width/CellWidth, 1), max(w.height/CellHeight, 3)
}

// Initialize opens the driver. It must follow the size and title setters.
func (w *Window) Initialize() error {
	if w.sys == nil {
		return ErrNoSystem
	}
	if w.driver == nil {
		return fmt.Errorf("%w: no driver", ErrNotInitialized)
	}
	cols, rows := w.Size()
	if err := w.driver.Open(w.title, cols, rows); err != nil {
		return fmt.Errorf("viz: open window: %w", err)
	}
	// Header and status line take one row each.
	w.canvas = NewCanvas(cols, rows-2)
	w.initialized = true
	return nil
}

// AddLogo loads an image shown in the top-right corner of every frame.
func (w *Window) AddLogo(path string) error {
	logo, err := LoadLogo(path)
	if err != nil {
		return fmt.Errorf("viz: add logo: %w", err)
	}
	w.logo = logo
	return nil
}

// AddSkyBox fills the background and draws a ground grid under the scene.
func (w *Window) AddSkyBox() { w.skybox = true }

func (w *Window) AddCamera(pos, target geom.Vec3) {
	w.camera = NewCamera(pos, target)
}

func (w *Window) Camera() *Camera { return w.camera }

// AddTypicalLights adds two overhead lights and an ambient term. Without
// lights every body is drawn flat.
func (w *Window) AddTypicalLights() {
	w.lights = []Light{
		{Pos: geom.V(30, 80, 30), Intensity: 0.7},
		{Pos: geom.V(30, 80, -30), Intensity: 0.5},
	}
	w.ambient = 0.2
}

func (w *Window) Lights() []Light { return w.lights }

// Run reports whether the render loop should go on.
func (w *Window) Run() bool {
	return w.initialized && !w.closed && w.err == nil && w.driver.Running()
}

func (w *Window) BeginScene() {
	if !w.initialized {
		return
	}
	w.canvas.Clear()
	w.wire.Clear()
	w.inScene = true
	if w.skybox {
		w.addGround()
	}
}

// DrawAll adds every body and link of the system to the scene.
func (w *Window) DrawAll() {
	if !w.inScene {
		return
	}
	cam := w.activeCamera()
	for _, b := range w.sys.Bodies() {
		shade := w.shade(b.Pos, cam)
		if b.Size == (geom.Vec3{}) {
			w.wire.AddMarker(b.Pos, w.markerSize(), shade)
			continue
		}
		w.wire.AddBox(b.Pos, b.Size, shade)
	}
	for _, l := range w.sys.Links() {
		a, b := l.Ends()
		pa, pb := l.WorldAnchors()
		w.wire.AddEdge(a.Pos, pa, ShadeDark)
		w.wire.AddEdge(b.Pos, pb, ShadeDark)
		if l.Kind == mech.LinkDistance {
			w.wire.AddEdge(pa, pb, ShadeMid)
		} else {
			w.wire.AddMarker(pa, w.markerSize()/2, ShadeLit)
		}
	}
}

// EndScene renders the scene and presents it.
func (w *Window) EndScene() {
	if !w.inScene {
		return
	}
	w.inScene = false

	Render3D(w.canvas, w.wire, w.activeCamera())
	if w.logo != nil {
		w.canvas.Overlay(w.logo, w.canvas.Width-w.logo.Width-1, 0, ShadeLogo)
	}

	cols, _ := w.Size()
	var b strings.Builder
	b.WriteString(header(w.title, cols, w.theme))
	b.WriteByte('\n')
	b.WriteString(w.canvas.Render(w.theme, w.skybox))
	b.WriteString(statusLine(w.frames, w.sys.Time(), len(w.sys.Bodies()), len(w.sys.Links()), w.sys.Contacts()))
	b.WriteByte('\n')

	f := Frame{
		Index: w.frames,
		Time:  w.sys.Time(),
		Cols:  w.canvas.Width,
		Rows:  w.canvas.Height,
		Text:  b.String(),
		Plain: w.canvas.String(),
	}
	if err := w.driver.Present(f); err != nil {
		w.err = fmt.Errorf("viz: present frame %d: %w", w.frames, err)
		return
	}
	w.frames++
}

func (w *Window) Frames() int { return w.frames }

// Canvas is the last rendered scene, nil before Initialize.
func (w *Window) Canvas() *Canvas { return w.canvas }

func (w *Window) Theme() Theme { return w.theme }

// Err returns the error that stopped the window, if any.
func (w *Window) Err() error { return w.err }

func (w *Window) Close() error {
	if w.closed {
		return nil
	}
	w.closed = true
	if !w.initialized {
		return nil
	}
	return w.driver.Close()
}

func (w *Window) activeCamera() *Camera {
	if w.camera == nil {
		w.camera = NewCamera(geom.V(0.3, 0.3, 0.4), geom.Vec3{})
	}
	return w.camera
}

// shade maps the light reaching a point, as seen from cam, to a shade level.
func (w *Window) shade(p geom.Vec3, cam *Camera) uint8 {
	if len(w.lights) == 0 {
		return ShadeMid
	}
	view := cam.Position.Sub(p).Normalize()
	lum := w.ambient
	for _, l := range w.lights {
		lum += l.Intensity * math.Max(0, l.Pos.Sub(p).Normalize().Dot(view))
	}
	switch {
	case lum >= 0.75:
		return ShadeLit
	case lum >= 0.4:
		return ShadeMid
	default:
		return ShadeDark
	}
}

// extent returns the center and radius of the bounding box of all bodies.
func (w *Window) extent() (geom.Vec3, float64) {
	bodies := w.sys.Bodies()
	if len(bodies) == 0 {
		return geom.Vec3{}, 0.1
	}
	lo, hi := bodies[0].Pos.Sub(bodies[0].Size), bodies[0].Pos.Add(bodies[0].Size)
	for _, b := range bodies[1:] {
		l, h := b.Pos.Sub(b.Size), b.Pos.Add(b.Size)
		lo = geom.V(math.Min(lo.X, l.X), math.Min(lo.Y, l.Y), math.Min(lo.Z, l.Z))
		hi = geom.V(math.Max(hi.X, h.X), math.Max(hi.Y, h.Y), math.Max(hi.Z, h.Z))
	}
	return lo.Lerp(hi, 0.5), math.Max(hi.Sub(lo).Length()/2, 0.01)
}

func (w *Window) markerSize() float64 {
	_, r := w.extent()
	return r / 20
}

const gridLines = 9

// addGround lays a grid on the ground plane, or under the lowest body when
// the system has no ground.
func (w *Window) addGround() {
	center, r := w.extent()
	y := center.Y - r
	if s := w.sys.Settings(); s.Ground {
		y = s.GroundY
	} else {
		for _, b := range w.sys.Bodies() {
			y = math.Min(y, b.Pos.Y-b.Size.Y)
		}
	}
	half := 2 * r
	step := 2 * half / (gridLines - 1)
	for i := 0; i < gridLines; i++ {
		o := -half + float64(i)*step
		w.wire.AddEdge(geom.V(center.X+o, y, center.Z-half), geom.V(center.X+o, y, center.Z+half), ShadeGrid)
		w.wire.AddEdge(geom.V(center.X-half, y, center.Z+o), geom.V(center.X+half, y, center.Z+o), ShadeGrid)
	}
}
