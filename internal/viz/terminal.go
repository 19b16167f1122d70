package viz

import (
	"context"
	"fmt"
	"io"

	"golang.org/x/time/rate"
)

const (
	ansiHideCursor = "\x1b[?25l"
	ansiShowCursor = "\x1b[?25h"
	ansiClear      = "\x1b[2J"
	ansiHome       = "\x1b[H"
	ansiAltScreen  = "\x1b[?1049h"
	ansiMainScreen = "\x1b[?1049l"
)

// Terminal writes ANSI frames to Out, at most FPS per second. It stops when
// ctx is done. Frames go to the alternate screen so whatever was printed
// before Open is still there after Close.
type Terminal struct {
	Out io.Writer
	FPS int

	ctx     context.Context
	limiter *rate.Limiter
	open    bool
}

func NewTerminal(ctx context.Context, out io.Writer, fps int) *Terminal {
	return &Terminal{Out: out, FPS: fps, ctx: ctx}
}

func (t *Terminal) Open(title string, cols, rows int) error {
	if t.ctx == nil {
		t.ctx = context.Background()
	}
	t.limiter = newLimiter(t.FPS)
	if _, err := fmt.Fprint(t.Out, ansiAltScreen+ansiHideCursor+ansiClear+ansiHome); err != nil {
		return fmt.Errorf("terminal: %w", err)
	}
	t.open = true
	return nil
}

func (t *Terminal) Running() bool { return t.open && t.ctx.Err() == nil }

func (t *Terminal) Present(f Frame) error {
	if !pace(t.ctx, t.limiter) {
		return nil
	}
	if _, err := fmt.Fprint(t.Out, ansiHome+f.Text); err != nil {
		return fmt.Errorf("terminal: %w", err)
	}
	return nil
}

func (t *Terminal) Close() error {
	if !t.open {
		return nil
	}
	t.open = false
	_, err := fmt.Fprint(t.Out, ansiShowCursor+ansiMainScreen)
	return err
}

// newLimiter allows fps frames per second; fps <= 0 means unpaced.
func newLimiter(fps int) *rate.Limiter {
	if fps <= 0 {
		return nil
	}
	return rate.NewLimiter(rate.Limit(fps), 1)
}

// pace waits for the next frame slot. It reports false if ctx ended first.
func pace(ctx context.Context, l *rate.Limiter) bool {
	if l == nil {
		return ctx.Err() == nil
	}
	return l.Wait(ctx) == nil
}
