package mech

import "math"

// gap is the signed distance from the bottom face of b to the ground.
func (s *System) gap(b *Body, y float64) float64 {
	return y - b.Size.Y - s.settings.GroundY
}

// touchingGround reports whether b, at height y, rests on or in the ground.
func (s *System) touchingGround(b *Body, y float64) bool {
	return s.settings.Ground && b.Collide && s.gap(b, y) <= 0
}

// resolveContacts applies the ground plane to colliding free bodies at the
// velocity level and returns the number of bodies within the envelope.
//
// Inside the envelope the approaching speed is limited so the body cannot
// cross the ground during the next step. Penetration deeper than the margin
// is recovered with an upward velocity capped by MaxPenetrationRecoverySpeed.
func (s *System) resolveContacts(dt float64) int {
	if !s.settings.Ground {
		return 0
	}
	margin := s.settings.CollisionMargin
	maxRecover := s.settings.MaxPenetrationRecoverySpeed

	touching := 0
	for _, b := range s.free {
		if !b.Collide {
			continue
		}
		gap := s.gap(b, b.Pos.Y)
		if gap >= s.settings.CollisionEnvelope {
			continue
		}
		touching++

		if gap > 0 {
			b.Vel.Y = math.Max(b.Vel.Y, -gap/dt)
			continue
		}
		if b.Vel.Y < 0 {
			b.Vel.Y = 0
		}
		if depth := -gap - margin; depth > 0 && maxRecover > 0 {
			b.Vel.Y = math.Max(b.Vel.Y, math.Min(depth/dt, maxRecover))
		}
	}
	return touching
}
