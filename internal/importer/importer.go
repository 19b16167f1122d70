// Package importer loads mechanism descriptions exported from CAD tools.
//
// A description is a YAML (or JSON) document listing bodies and the links
// between them:
//
//	name: swiss_escapement
//	bodies:
//	  - name: frame
//	    fixed: true
//	    size: [0.03, 0.002, 0.03]
//	  - name: escape_wheel
//	    mass: 0.004
//	    position: [0, 0.01, 0]
//	links:
//	  - name: wheel_pivot
//	    type: revolute
//	    body1: frame
//	    body2: escape_wheel
//	    point: [0, 0.01, 0]
//
// Items come back bodies first, then links, each in file order.
package importer

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/go-playground/validator/v10"
	"gopkg.in/yaml.v3"

	"github.com/san-kum/mechsim/internal/geom"
	"github.com/san-kum/mechsim/internal/mech"
)

var (
	ErrSceneNotFound  = errors.New("importer: scene file not found")
	ErrMalformedScene = errors.New("importer: malformed scene")
)

// Extensions tried, in order, when a path without extension does not exist.
var Extensions = []string{".yaml", ".yml", ".json"}

var validate = validator.New()

type sceneFile struct {
	Name   string     `yaml:"name"`
	Bodies []bodySpec `yaml:"bodies" validate:"min=1,dive"`
	Links  []linkSpec `yaml:"links" validate:"dive"`
}

type bodySpec struct {
	Name     string    `yaml:"name" validate:"required"`
	Mass     float64   `yaml:"mass" validate:"gte=0"`
	Position geom.Vec3 `yaml:"position"`
	Velocity geom.Vec3 `yaml:"velocity"`
	Size     geom.Vec3 `yaml:"size"`
	Fixed    bool      `yaml:"fixed"`
	Collide  bool      `yaml:"collide"`
	Material string    `yaml:"material"`
}

type linkSpec struct {
	Name      string     `yaml:"name" validate:"required"`
	Type      string     `yaml:"type" validate:"required,oneof=lock revolute spherical distance"`
	Body1     string     `yaml:"body1" validate:"required"`
	Body2     string     `yaml:"body2" validate:"required,nefield=Body1"`
	Point     *geom.Vec3 `yaml:"point"`
	Anchor1   geom.Vec3  `yaml:"anchor1"`
	Anchor2   geom.Vec3  `yaml:"anchor2"`
	Distance  *float64   `yaml:"distance" validate:"omitempty,gte=0"`
	Stiffness float64    `yaml:"stiffness" validate:"gte=0"`
	Damping   float64    `yaml:"damping" validate:"gte=0"`
}

// Resolve finds the file a scene path refers to. A path without extension
// that does not exist is retried with each of Extensions.
func Resolve(path string) (string, error) {
	_, err := os.Stat(path)
	if err == nil {
		return path, nil
	}
	if !errors.Is(err, os.ErrNotExist) {
		return "", err
	}
	if filepath.Ext(path) == "" {
		for _, ext := range Extensions {
			if _, serr := os.Stat(path + ext); serr == nil {
				return path + ext, nil
			}
		}
	}
	return "", fmt.Errorf("%w: %s: %w", ErrSceneNotFound, path, err)
}

// Import reads a scene file and returns its items.
func Import(path string) ([]mech.Item, error) {
	resolved, err := Resolve(path)
	if err != nil {
		return nil, err
	}
	data, err := os.ReadFile(resolved)
	if err != nil {
		return nil, fmt.Errorf("importer: read %s: %w", resolved, err)
	}
	items, err := Decode(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("%s: %w", resolved, err)
	}
	return items, nil
}

// Decode parses a scene document. Unknown keys are rejected.
func Decode(r io.Reader) ([]mech.Item, error) {
	var scene sceneFile
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)
	if err := dec.Decode(&scene); err != nil {
		if errors.Is(err, io.EOF) {
			return nil, fmt.Errorf("%w: empty document", ErrMalformedScene)
		}
		return nil, fmt.Errorf("%w: %v", ErrMalformedScene, err)
	}
	if err := validate.Struct(&scene); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformedScene, err)
	}
	return scene.items()
}

func (s *sceneFile) items() ([]mech.Item, error) {
	seen := make(map[string]bool, len(s.Bodies)+len(s.Links))
	bodies := make(map[string]*mech.Body, len(s.Bodies))
	items := make([]mech.Item, 0, len(s.Bodies)+len(s.Links))

	for _, spec := range s.Bodies {
		if seen[spec.Name] {
			return nil, fmt.Errorf("%w: duplicate name %q", ErrMalformedScene, spec.Name)
		}
		seen[spec.Name] = true
		if !spec.Fixed && spec.Mass <= 0 {
			return nil, fmt.Errorf("%w: body %q is free but has no mass", ErrMalformedScene, spec.Name)
		}
		b := &mech.Body{
			ID:       spec.Name,
			Mass:     spec.Mass,
			Pos:      spec.Position,
			Vel:      spec.Velocity,
			Size:     spec.Size,
			Fixed:    spec.Fixed,
			Collide:  spec.Collide,
			Material: spec.Material,
		}
		bodies[spec.Name] = b
		items = append(items, b)
	}

	for _, spec := range s.Links {
		if seen[spec.Name] {
			return nil, fmt.Errorf("%w: duplicate name %q", ErrMalformedScene, spec.Name)
		}
		seen[spec.Name] = true
		l, err := spec.link(bodies)
		if err != nil {
			return nil, err
		}
		items = append(items, l)
	}
	return items, nil
}

func (spec linkSpec) link(bodies map[string]*mech.Body) (*mech.Link, error) {
	a, ok := bodies[spec.Body1]
	if !ok {
		return nil, fmt.Errorf("%w: link %q references unknown body %q", ErrMalformedScene, spec.Name, spec.Body1)
	}
	b, ok := bodies[spec.Body2]
	if !ok {
		return nil, fmt.Errorf("%w: link %q references unknown body %q", ErrMalformedScene, spec.Name, spec.Body2)
	}
	kind, err := mech.ParseLinkKind(spec.Type)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformedScene, err)
	}

	l := &mech.Link{
		ID:        spec.Name,
		Kind:      kind,
		Body1:     spec.Body1,
		Body2:     spec.Body2,
		Anchor1:   spec.Anchor1,
		Anchor2:   spec.Anchor2,
		Stiffness: spec.Stiffness,
		Damping:   spec.Damping,
	}
	// Exporters write joint frames in world coordinates.
	if spec.Point != nil {
		l.Anchor1 = spec.Point.Sub(a.Pos)
		l.Anchor2 = spec.Point.Sub(b.Pos)
	}
	if l.Stiffness == 0 {
		l.Stiffness = mech.DefaultLinkStiffness
	}
	if l.Damping == 0 {
		l.Damping = mech.DefaultLinkDamping
	}
	if kind == mech.LinkDistance {
		if spec.Distance != nil {
			l.Distance = *spec.Distance
		} else {
			l.Distance = b.Pos.Add(l.Anchor2).Sub(a.Pos.Add(l.Anchor1)).Length()
		}
	}
	return l, nil
}
