package mech

import "github.com/san-kum/mechsim/internal/geom"

const (
	DefaultEnvelope         = 0.03
	DefaultMargin           = 0.01
	DefaultMaxRecoverySpeed = 0.6
	DefaultGravity          = -9.81
)

// Settings are the global tolerances of a System.
type Settings struct {
	// CollisionEnvelope is the distance outside a shape at which contact
	// starts to act.
	CollisionEnvelope float64
	// CollisionMargin is the penetration depth tolerated without correction.
	CollisionMargin float64
	// MaxPenetrationRecoverySpeed caps the velocity used to push bodies out
	// of deeper penetrations. Zero disables recovery.
	MaxPenetrationRecoverySpeed float64
	Gravity                     geom.Vec3
	Ground                      bool
	GroundY                     float64
}

func DefaultSettings() Settings {
	return Settings{
		CollisionEnvelope:           DefaultEnvelope,
		CollisionMargin:             DefaultMargin,
		MaxPenetrationRecoverySpeed: DefaultMaxRecoverySpeed,
		Gravity:                     geom.V(0, DefaultGravity, 0),
	}
}
