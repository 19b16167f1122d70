package importer

import (
	"errors"
	"math"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/san-kum/mechsim/internal/geom"
	"github.com/san-kum/mechsim/internal/mech"
)

func names(items []mech.Item) []string {
	out := make([]string, len(items))
	for i, it := range items {
		out[i] = it.Name()
	}
	return out
}

func TestImportYAML(t *testing.T) {
	items, err := Import("testdata/pendulum.yaml")
	if err != nil {
		t.Fatalf("import failed: %v", err)
	}

	got := strings.Join(names(items), ",")
	if got != "ground,bob,rod,pin" {
		t.Fatalf("unexpected item order: %s", got)
	}

	bob := items[1].(*mech.Body)
	if bob.Mass != 1.5 || bob.Pos != geom.V(0, -0.2, 0) {
		t.Errorf("unexpected bob: %+v", bob)
	}

	rod := items[2].(*mech.Link)
	if rod.Kind != mech.LinkDistance {
		t.Errorf("expected distance link, got %s", rod.Kind)
	}
	if math.Abs(rod.Distance-0.2) > 1e-12 {
		t.Errorf("expected rest distance from initial pose 0.2, got %f", rod.Distance)
	}
	if rod.Stiffness != mech.DefaultLinkStiffness || rod.Damping != mech.DefaultLinkDamping {
		t.Errorf("expected default stiffness/damping, got %f/%f", rod.Stiffness, rod.Damping)
	}

	pin := items[3].(*mech.Link)
	if pin.Anchor1 != geom.V(0, -0.1, 0) {
		t.Errorf("anchor1 = %v", pin.Anchor1)
	}
	if d := pin.Anchor2.Sub(geom.V(0, 0.1, 0)).Length(); d > 1e-12 {
		t.Errorf("anchor2 = %v", pin.Anchor2)
	}
	if pin.Stiffness != 500 || pin.Damping != 1 {
		t.Errorf("explicit stiffness/damping lost: %f/%f", pin.Stiffness, pin.Damping)
	}
}

func TestImportJSON(t *testing.T) {
	items, err := Import("testdata/pendulum.json")
	if err != nil {
		t.Fatalf("import failed: %v", err)
	}
	if len(items) != 3 {
		t.Fatalf("expected 3 items, got %d", len(items))
	}
	if rod := items[2].(*mech.Link); rod.Distance != 0.25 {
		t.Errorf("expected explicit distance 0.25, got %f", rod.Distance)
	}
}

func TestResolveAddsExtension(t *testing.T) {
	path, err := Resolve("testdata/pendulum")
	if err != nil {
		t.Fatalf("resolve failed: %v", err)
	}
	if path != "testdata/pendulum.yaml" {
		t.Errorf("expected .yaml to win, got %s", path)
	}
}

func TestImportMissingFile(t *testing.T) {
	_, err := Import("testdata/does_not_exist")
	if !errors.Is(err, ErrSceneNotFound) {
		t.Fatalf("expected ErrSceneNotFound, got %v", err)
	}
	if !errors.Is(err, os.ErrNotExist) {
		t.Errorf("expected wrapped os.ErrNotExist, got %v", err)
	}
}

func TestDecodeRejectsBadScenes(t *testing.T) {
	tests := []struct {
		name string
		doc  string
	}{
		{"empty", ""},
		{"not yaml", "bodies: [\n"},
		{"no bodies", "name: x\nbodies: []\n"},
		{"unknown key", "bodies:\n  - name: a\n    fixed: true\n    colour: red\n"},
		{"unnamed body", "bodies:\n  - mass: 1\n"},
		{"massless free body", "bodies:\n  - name: a\n"},
		{"negative mass", "bodies:\n  - name: a\n    mass: -1\n"},
		{"bad vector", "bodies:\n  - name: a\n    mass: 1\n    position: [1, 2]\n"},
		{"duplicate body", "bodies:\n  - {name: a, mass: 1}\n  - {name: a, mass: 1}\n"},
		{"duplicate link name", "bodies:\n  - {name: a, mass: 1}\n  - {name: b, mass: 1}\nlinks:\n  - {name: a, type: lock, body1: a, body2: b}\n"},
		{"unknown link type", "bodies:\n  - {name: a, mass: 1}\n  - {name: b, mass: 1}\nlinks:\n  - {name: l, type: weld, body1: a, body2: b}\n"},
		{"unknown link body", "bodies:\n  - {name: a, mass: 1}\nlinks:\n  - {name: l, type: lock, body1: a, body2: z}\n"},
		{"self link", "bodies:\n  - {name: a, mass: 1}\nlinks:\n  - {name: l, type: lock, body1: a, body2: a}\n"},
		{"negative damping", "bodies:\n  - {name: a, mass: 1}\n  - {name: b, mass: 1}\nlinks:\n  - {name: l, type: lock, body1: a, body2: b, damping: -1}\n"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Decode(strings.NewReader(tt.doc))
			if !errors.Is(err, ErrMalformedScene) {
				t.Errorf("expected ErrMalformedScene, got %v", err)
			}
		})
	}
}

func TestEscapementSceneRegisters(t *testing.T) {
	items, err := Import(filepath.Join("..", "..", "data", "solid_works", "swiss_escapement"))
	if err != nil {
		t.Fatalf("import failed: %v", err)
	}
	if len(items) != 11 {
		t.Fatalf("expected 11 items, got %d", len(items))
	}

	sys := mech.NewSystem(mech.DefaultSettings(), nil)
	for _, it := range items {
		if err := sys.Add(it); err != nil {
			t.Fatalf("add %s: %v", it.Name(), err)
		}
	}
	if v := sys.MaxLinkViolation(); v > 1e-12 {
		t.Errorf("exported joints should start satisfied, violation %g", v)
	}
	for i := 0; i < 500; i++ {
		if err := sys.DoStepDynamics(0.002); err != nil {
			t.Fatalf("step %d: %v", i, err)
		}
	}
}
