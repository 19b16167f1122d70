package mech

import (
	"testing"

	"github.com/san-kum/mechsim/internal/geom"
)

func groundSettings() Settings {
	s := DefaultSettings()
	s.Ground = true
	return s
}

func TestRestingBodyStaysPut(t *testing.T) {
	sys := NewSystem(groundSettings(), nil)
	box := &Body{ID: "box", Mass: 1, Pos: geom.V(0, 0.05, 0), Size: geom.V(0.05, 0.05, 0.05), Collide: true}
	if err := sys.Add(box); err != nil {
		t.Fatal(err)
	}

	for i := 0; i < 1000; i++ {
		if err := sys.DoStepDynamics(0.002); err != nil {
			t.Fatal(err)
		}
	}
	if box.Pos.Y != 0.05 || box.Vel.Y != 0 {
		t.Errorf("resting box drifted: pos=%v vel=%v", box.Pos, box.Vel)
	}
	if sys.Contacts() != 1 {
		t.Errorf("expected 1 contact, got %d", sys.Contacts())
	}
}

func TestDroppedBodyLands(t *testing.T) {
	settings := groundSettings()
	sys := NewSystem(settings, nil)
	box := &Body{ID: "box", Mass: 1, Pos: geom.V(0, 0.5, 0), Size: geom.V(0.05, 0.05, 0.05), Collide: true}
	if err := sys.Add(box); err != nil {
		t.Fatal(err)
	}

	for i := 0; i < 3000; i++ {
		if err := sys.DoStepDynamics(0.001); err != nil {
			t.Fatal(err)
		}
	}

	gap := box.Pos.Y - box.Size.Y
	if gap < -2*settings.CollisionMargin || gap >= settings.CollisionEnvelope {
		t.Errorf("expected box resting on the ground, gap=%f", gap)
	}
	if sys.Contacts() != 1 {
		t.Errorf("expected 1 contact, got %d", sys.Contacts())
	}
}

func TestNonCollidingBodyFallsThrough(t *testing.T) {
	sys := NewSystem(groundSettings(), nil)
	ghost := &Body{ID: "ghost", Mass: 1, Pos: geom.V(0, 0.05, 0), Size: geom.V(0.05, 0.05, 0.05)}
	if err := sys.Add(ghost); err != nil {
		t.Fatal(err)
	}
	for i := 0; i < 100; i++ {
		if err := sys.DoStepDynamics(0.01); err != nil {
			t.Fatal(err)
		}
	}
	if ghost.Pos.Y > -1 {
		t.Errorf("expected ghost to fall through, y=%f", ghost.Pos.Y)
	}
	if sys.Contacts() != 0 {
		t.Errorf("expected no contacts, got %d", sys.Contacts())
	}
}

func TestPenetrationRecovery(t *testing.T) {
	tests := []struct {
		name       string
		gap        float64
		maxRecover float64
		want       float64
	}{
		{"deep is capped", -0.1, 0.5, 0.5},
		{"recovery disabled", -0.1, 0, 0},
		{"within margin", -0.005, 0.5, 0},
		{"slow correction", -0.011, 0.5, 0.1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			settings := groundSettings()
			settings.Gravity = geom.Vec3{}
			settings.CollisionMargin = 0.01
			settings.MaxPenetrationRecoverySpeed = tt.maxRecover
			sys := NewSystem(settings, nil)

			box := &Body{ID: "box", Mass: 1, Pos: geom.V(0, 0.05+tt.gap, 0), Size: geom.V(0.05, 0.05, 0.05), Collide: true}
			if err := sys.Add(box); err != nil {
				t.Fatal(err)
			}
			if err := sys.DoStepDynamics(0.01); err != nil {
				t.Fatal(err)
			}
			if diff := box.Vel.Y - tt.want; diff > 1e-9 || diff < -1e-9 {
				t.Errorf("expected recovery speed %f, got %f", tt.want, box.Vel.Y)
			}
		})
	}
}
