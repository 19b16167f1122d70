// Package viz draws mechanical systems in the terminal.
//
// A [Window] projects the bodies and links of a mech.System through a
// look-at [Camera] onto a braille [Canvas] and hands each frame to a
// [Driver]:
//
//   - [Terminal]: ANSI frames written to any io.Writer
//   - [Interactive]: a Bubble Tea program on the alternate screen
//   - [Headless]: frames kept in memory, for tests and batch runs
//
// The window is sized in pixels and mapped onto a grid of 8x16 pixel cells,
// each holding 2x4 braille dots.
//
// # Key Bindings
//
//	Q, Esc, Ctrl+C - Close the interactive window
package viz
