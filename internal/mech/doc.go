// Package mech holds the simulation context for imported mechanisms.
//
// A [System] owns a set of [Body] and [Link] items together with global
// tolerances ([Settings]). Bodies are translational point masses with a box
// extent; links are penalty spring-dampers that pull anchor points together
// (lock, revolute, spherical) or hold them at a fixed separation (distance).
// Rotational degrees of freedom are not modelled.
//
// A System is not safe for concurrent use.
package mech
