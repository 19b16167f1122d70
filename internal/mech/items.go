package mech

import (
	"fmt"

	"github.com/san-kum/mechsim/internal/geom"
)

// Item is anything that can be registered into a System.
type Item interface {
	Name() string
}

// Body is a rigid part of the mechanism.
type Body struct {
	ID       string
	Mass     float64
	Pos      geom.Vec3
	Vel      geom.Vec3
	Size     geom.Vec3 // half extents
	Fixed    bool
	Collide  bool
	Material string

	idx int // slot in the packed state, -1 when fixed
}

func (b *Body) Name() string { return b.ID }

type LinkKind string

const (
	LinkLock      LinkKind = "lock"
	LinkRevolute  LinkKind = "revolute"
	LinkSpherical LinkKind = "spherical"
	LinkDistance  LinkKind = "distance"
)

func ParseLinkKind(s string) (LinkKind, error) {
	switch k := LinkKind(s); k {
	case LinkLock, LinkRevolute, LinkSpherical, LinkDistance:
		return k, nil
	}
	return "", fmt.Errorf("%w: unknown kind %q", ErrInvalidLink, s)
}

const (
	DefaultLinkStiffness = 1e3
	DefaultLinkDamping   = 2.0
)

// Link joins two bodies at anchor points given in each body's local frame.
type Link struct {
	ID        string
	Kind      LinkKind
	Body1     string
	Body2     string
	Anchor1   geom.Vec3
	Anchor2   geom.Vec3
	Distance  float64 // rest separation for LinkDistance
	Stiffness float64
	Damping   float64

	a, b *Body
}

func (l *Link) Name() string { return l.ID }

// Ends returns the bodies the link was resolved to when registered.
func (l *Link) Ends() (*Body, *Body) { return l.a, l.b }

// WorldAnchors returns the two anchor points in world space.
func (l *Link) WorldAnchors() (geom.Vec3, geom.Vec3) {
	if l.a == nil || l.b == nil {
		return l.Anchor1, l.Anchor2
	}
	return l.a.Pos.Add(l.Anchor1), l.b.Pos.Add(l.Anchor2)
}
