package viz

import (
	"math"
	"sort"

	"github.com/san-kum/mechsim/internal/geom"
)

// Camera is a perspective camera looking from Position at Target.
type Camera struct {
	Position, Target, Up geom.Vec3
	FOV, Near            float64
}

func NewCamera(pos, target geom.Vec3) *Camera {
	return &Camera{Position: pos, Target: target, Up: geom.V(0, 1, 0), FOV: math.Pi / 4, Near: 1e-4}
}

// basis returns the right, up and forward axes of the view.
func (c *Camera) basis() (r, u, f geom.Vec3) {
	f = c.Target.Sub(c.Position).Normalize()
	r = f.Cross(c.Up).Normalize()
	if r == (geom.Vec3{}) {
		// Looking along Up.
		r = f.Cross(geom.V(0, 0, 1)).Normalize()
	}
	u = r.Cross(f)
	return r, u, f
}

// Project converts world coordinates to screen coordinates on a sw x sh
// surface. Returns x, y, depth, and visibility.
func (c *Camera) Project(p geom.Vec3, sw, sh int) (int, int, float64, bool) {
	r, u, f := c.basis()
	d := p.Sub(c.Position)
	z := d.Dot(f)
	if z <= c.Near {
		return 0, 0, z, false
	}
	minDim := math.Min(float64(sw), float64(sh))
	focal := minDim / 2 / math.Tan(c.FOV/2)
	sx := int(math.Round(float64(sw)/2 + d.Dot(r)/z*focal))
	sy := int(math.Round(float64(sh)/2 - d.Dot(u)/z*focal))
	return sx, sy, z, sx >= 0 && sx < sw && sy >= 0 && sy < sh
}

type Edge struct {
	Start, End geom.Vec3
	Shade      uint8
}

type Wireframe struct{ Edges []Edge }

func NewWireframe() *Wireframe                        { return &Wireframe{Edges: make([]Edge, 0)} }
func (w *Wireframe) AddEdge(s, e geom.Vec3, sh uint8) { w.Edges = append(w.Edges, Edge{s, e, sh}) }
func (w *Wireframe) Clear()                           { w.Edges = w.Edges[:0] }

var boxEdges = [12][2]int{{0, 1}, {1, 2}, {2, 3}, {3, 0}, {4, 5}, {5, 6}, {6, 7}, {7, 4}, {0, 4}, {1, 5}, {2, 6}, {3, 7}}

// AddBox adds the edges of an axis-aligned box with the given half extents.
func (w *Wireframe) AddBox(center, half geom.Vec3, sh uint8) {
	x, y, z := half.X, half.Y, half.Z
	v := [8]geom.Vec3{
		{X: -x, Y: -y, Z: -z}, {X: x, Y: -y, Z: -z}, {X: x, Y: y, Z: -z}, {X: -x, Y: y, Z: -z},
		{X: -x, Y: -y, Z: z}, {X: x, Y: -y, Z: z}, {X: x, Y: y, Z: z}, {X: -x, Y: y, Z: z},
	}
	for _, e := range boxEdges {
		w.AddEdge(center.Add(v[e[0]]), center.Add(v[e[1]]), sh)
	}
}

// AddMarker adds a small three-axis cross.
func (w *Wireframe) AddMarker(p geom.Vec3, size float64, sh uint8) {
	w.AddEdge(p.Sub(geom.V(size, 0, 0)), p.Add(geom.V(size, 0, 0)), sh)
	w.AddEdge(p.Sub(geom.V(0, size, 0)), p.Add(geom.V(0, size, 0)), sh)
	w.AddEdge(p.Sub(geom.V(0, 0, size)), p.Add(geom.V(0, 0, size)), sh)
}

type ProjectedEdge struct {
	X1, Y1, X2, Y2 int
	Depth          float64
	Shade          uint8
}

// Render3D draws the wireframe to the canvas using a simple painter's
// algorithm, farthest edges first.
func Render3D(c *Canvas, w *Wireframe, cam *Camera) {
	if c == nil || w == nil || cam == nil {
		return
	}
	sw, sh := c.Width*2, c.Height*4
	proj := make([]ProjectedEdge, 0, len(w.Edges))
	for _, e := range w.Edges {
		x1, y1, d1, v1 := cam.Project(e.Start, sw, sh)
		x2, y2, d2, v2 := cam.Project(e.End, sw, sh)
		// Edges crossing the near plane are dropped rather than clipped.
		if d1 <= cam.Near || d2 <= cam.Near || !(v1 || v2) {
			continue
		}
		if !nearScreen(x1, y1, sw, sh) || !nearScreen(x2, y2, sw, sh) {
			continue
		}
		proj = append(proj, ProjectedEdge{x1, y1, x2, y2, (d1 + d2) / 2, e.Shade})
	}
	sort.SliceStable(proj, func(i, j int) bool { return proj[i].Depth > proj[j].Depth })
	for _, e := range proj {
		if e.X1 == e.X2 && e.Y1 == e.Y2 {
			c.SetShade(e.X1, e.Y1, e.Shade)
		} else {
			c.DrawLine(e.X1, e.Y1, e.X2, e.Y2, e.Shade)
		}
	}
}

// nearScreen bounds the work Bresenham does for edges leaving the view.
func nearScreen(x, y, sw, sh int) bool {
	return absInt(x) <= 4*sw && absInt(y) <= 4*sh
}
