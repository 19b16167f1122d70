// Package analysis extracts frequencies from recorded motion.
//
// The beat of an escapement shows up as the dominant frequency of the
// balance wheel's position:
//
//	f := analysis.DominantFrequency(heights, sampleDt)
package analysis
