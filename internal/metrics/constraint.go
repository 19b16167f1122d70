package metrics

import (
	"math"

	"github.com/san-kum/mechsim/internal/mech"
)

// LinkViolation is the worst link violation seen, in meters.
type LinkViolation struct {
	name  string
	worst float64
}

func NewLinkViolation() *LinkViolation {
	return &LinkViolation{name: "link_violation"}
}

func (l *LinkViolation) Name() string { return l.name }

func (l *LinkViolation) OnStep(sys *mech.System) {
	l.worst = math.Max(l.worst, sys.MaxLinkViolation())
}

func (l *LinkViolation) Value() float64 { return l.worst }

func (l *LinkViolation) Reset() { l.worst = 0 }

// ContactRatio is the fraction of steps that ended with a body on the ground.
type ContactRatio struct {
	name     string
	touching int
	samples  int
}

func NewContactRatio() *ContactRatio {
	return &ContactRatio{name: "contact_ratio"}
}

func (c *ContactRatio) Name() string { return c.name }

func (c *ContactRatio) OnStep(sys *mech.System) {
	c.samples++
	if sys.Contacts() > 0 {
		c.touching++
	}
}

func (c *ContactRatio) Value() float64 {
	if c.samples == 0 {
		return 0
	}
	return float64(c.touching) / float64(c.samples)
}

func (c *ContactRatio) Reset() {
	c.touching = 0
	c.samples = 0
}
