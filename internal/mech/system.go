package mech

import (
	"fmt"
	"math"

	"github.com/san-kum/mechsim/internal/dynamo"
	"github.com/san-kum/mechsim/internal/geom"
	"github.com/san-kum/mechsim/internal/integrators"
)

// Observer is notified after every completed step.
type Observer interface {
	OnStep(sys *System)
}

// System is the simulation context: the registered bodies and links, the
// global tolerances and the simulated clock.
type System struct {
	settings   Settings
	integrator dynamo.Integrator

	items  []Item
	names  map[string]Item
	bodies []*Body
	links  []*Link
	free   []*Body

	observers []Observer

	t        float64
	steps    int
	contacts int
}

// NewSystem creates an empty system. A nil integrator selects RK4.
func NewSystem(settings Settings, integrator dynamo.Integrator) *System {
	if integrator == nil {
		integrator = integrators.NewRK4()
	}
	return &System{
		settings:   settings,
		integrator: integrator,
		names:      make(map[string]Item),
	}
}

func (s *System) Settings() Settings { return s.settings }

func (s *System) SetMaxPenetrationRecoverySpeed(v float64) {
	s.settings.MaxPenetrationRecoverySpeed = v
}

func (s *System) AddObserver(o Observer) { s.observers = append(s.observers, o) }

// Add registers an item. The system keeps the pointer and mutates bodies in
// place while stepping.
func (s *System) Add(item Item) error {
	var add func() error
	switch it := item.(type) {
	case nil:
		return ErrNilItem
	case *Body:
		if it == nil {
			return ErrNilItem
		}
		add = func() error { return s.addBody(it) }
	case *Link:
		if it == nil {
			return ErrNilItem
		}
		add = func() error { return s.addLink(it) }
	default:
		return fmt.Errorf("%w: %T", ErrUnsupportedItem, item)
	}

	name := item.Name()
	if _, ok := s.names[name]; ok {
		return fmt.Errorf("%w: %q", ErrDuplicateItem, name)
	}
	if err := add(); err != nil {
		return err
	}

	s.items = append(s.items, item)
	s.names[name] = item
	return nil
}

func (s *System) addBody(b *Body) error {
	if !b.Fixed && b.Mass <= 0 {
		return fmt.Errorf("%w: %q has mass %g", ErrInvalidMass, b.ID, b.Mass)
	}
	b.idx = -1
	if !b.Fixed {
		b.idx = len(s.free)
		s.free = append(s.free, b)
	}
	s.bodies = append(s.bodies, b)
	return nil
}

func (s *System) addLink(l *Link) error {
	if _, err := ParseLinkKind(string(l.Kind)); err != nil {
		return fmt.Errorf("link %q: %w", l.ID, err)
	}
	if l.Body1 == l.Body2 {
		return fmt.Errorf("%w: %q joins %q to itself", ErrInvalidLink, l.ID, l.Body1)
	}
	if l.Stiffness < 0 || l.Damping < 0 || l.Distance < 0 {
		return fmt.Errorf("%w: %q has negative stiffness, damping or distance", ErrInvalidLink, l.ID)
	}
	a, ok := s.names[l.Body1].(*Body)
	if !ok {
		return fmt.Errorf("%w: %q in link %q", ErrUnknownBody, l.Body1, l.ID)
	}
	b, ok := s.names[l.Body2].(*Body)
	if !ok {
		return fmt.Errorf("%w: %q in link %q", ErrUnknownBody, l.Body2, l.ID)
	}
	l.a, l.b = a, b
	s.links = append(s.links, l)
	return nil
}

// Items returns every registered item in registration order.
func (s *System) Items() []Item {
	out := make([]Item, len(s.items))
	copy(out, s.items)
	return out
}

func (s *System) Bodies() []*Body { return s.bodies }
func (s *System) Links() []*Link  { return s.links }

func (s *System) Body(name string) (*Body, bool) {
	b, ok := s.names[name].(*Body)
	return b, ok
}

func (s *System) Time() float64  { return s.t }
func (s *System) StepCount() int { return s.steps }

// Contacts is the number of bodies touching the ground after the last step.
func (s *System) Contacts() int { return s.contacts }

// DoStepDynamics advances the system by dt.
func (s *System) DoStepDynamics(dt float64) error {
	if dt <= 0 || math.IsNaN(dt) {
		return fmt.Errorf("%w: got %g", dynamo.ErrInvalidStep, dt)
	}

	if len(s.free) > 0 {
		x := s.pack()
		next := s.integrator.Step(s, x, nil, s.t, dt)
		if len(next) != len(x) {
			return &dynamo.SimulationError{Step: s.steps, Time: s.t, Wrapped: dynamo.ErrDimensionMismatch}
		}
		if !next.IsValid() {
			return &dynamo.SimulationError{Step: s.steps, Time: s.t, Wrapped: dynamo.ErrInvalidState}
		}
		s.unpack(next)
	}

	s.contacts = s.resolveContacts(dt)
	s.t += dt
	s.steps++

	for _, o := range s.observers {
		o.OnStep(s)
	}
	return nil
}

// pack lays out all free positions followed by all free velocities.
func (s *System) pack() dynamo.State {
	n := len(s.free)
	x := make(dynamo.State, 6*n)
	for i, b := range s.free {
		x[3*i], x[3*i+1], x[3*i+2] = b.Pos.X, b.Pos.Y, b.Pos.Z
		v := 3*n + 3*i
		x[v], x[v+1], x[v+2] = b.Vel.X, b.Vel.Y, b.Vel.Z
	}
	return x
}

func (s *System) unpack(x dynamo.State) {
	n := len(s.free)
	for i, b := range s.free {
		b.Pos = geom.V(x[3*i], x[3*i+1], x[3*i+2])
		v := 3*n + 3*i
		b.Vel = geom.V(x[v], x[v+1], x[v+2])
	}
}

func (s *System) StateDim() int   { return 6 * len(s.free) }
func (s *System) ControlDim() int { return 0 }

func (s *System) posVel(b *Body, x dynamo.State) (geom.Vec3, geom.Vec3) {
	if b.idx < 0 {
		return b.Pos, geom.Vec3{}
	}
	n := len(s.free)
	p := geom.V(x[3*b.idx], x[3*b.idx+1], x[3*b.idx+2])
	v := 3*n + 3*b.idx
	return p, geom.V(x[v], x[v+1], x[v+2])
}

// Derive implements dynamo.System over the packed free-body state.
func (s *System) Derive(x dynamo.State, u dynamo.Control, t float64) dynamo.State {
	n := len(s.free)
	dx := make(dynamo.State, 6*n)
	copy(dx[:3*n], x[3*n:])

	acc := make([]geom.Vec3, n)
	for i := range s.free {
		acc[i] = s.settings.Gravity
	}

	for _, l := range s.links {
		f := s.linkForce(l, x)
		if l.a.idx >= 0 {
			acc[l.a.idx] = acc[l.a.idx].Add(f.Scale(1 / l.a.Mass))
		}
		if l.b.idx >= 0 {
			acc[l.b.idx] = acc[l.b.idx].Sub(f.Scale(1 / l.b.Mass))
		}
	}

	for i, a := range acc {
		b := s.free[i]
		if s.touchingGround(b, x[3*i+1]) {
			// The ground supports the body: no motion or acceleration into it.
			if dx[3*i+1] < 0 {
				dx[3*i+1] = 0
			}
			if a.Y < 0 {
				a.Y = 0
			}
		}
		j := 3*n + 3*i
		dx[j], dx[j+1], dx[j+2] = a.X, a.Y, a.Z
	}
	return dx
}

// linkForce is the force the link applies to its first body; the second
// body receives the opposite.
func (s *System) linkForce(l *Link, x dynamo.State) geom.Vec3 {
	pa, va := s.posVel(l.a, x)
	pb, vb := s.posVel(l.b, x)
	d := pb.Add(l.Anchor2).Sub(pa.Add(l.Anchor1))
	dv := vb.Sub(va)

	if l.Kind != LinkDistance {
		return d.Scale(l.Stiffness).Add(dv.Scale(l.Damping))
	}

	length := d.Length()
	if length == 0 {
		return geom.Vec3{}
	}
	dir := d.Scale(1 / length)
	stretch := length - l.Distance
	return dir.Scale(l.Stiffness*stretch + l.Damping*dv.Dot(dir))
}

// violation is how far a link is from being satisfied.
func (s *System) violation(l *Link, x dynamo.State) float64 {
	pa, _ := s.posVel(l.a, x)
	pb, _ := s.posVel(l.b, x)
	d := pb.Add(l.Anchor2).Sub(pa.Add(l.Anchor1)).Length()
	if l.Kind == LinkDistance {
		return math.Abs(d - l.Distance)
	}
	return d
}

func (s *System) LinkViolation(l *Link) float64 {
	if l.a == nil || l.b == nil {
		return 0
	}
	return s.violation(l, s.pack())
}

func (s *System) MaxLinkViolation() float64 {
	x := s.pack()
	worst := 0.0
	for _, l := range s.links {
		worst = math.Max(worst, s.violation(l, x))
	}
	return worst
}
