package viz

import (
	"context"
	"sync"
)

// Frame is one rendered image of the scene.
type Frame struct {
	Index int
	Time  float64
	Cols  int
	Rows  int
	Text  string // styled for a terminal
	Plain string // braille only, no styling
}

// Driver puts frames in front of the user. Running reports whether the
// device is still open; it turns false when the user closes it.
type Driver interface {
	Open(title string, cols, rows int) error
	Running() bool
	Present(f Frame) error
	Close() error
}

// Headless keeps frames in memory. It stops after MaxFrames presents, when
// ctx is done, or runs until closed when MaxFrames is zero.
type Headless struct {
	MaxFrames int

	ctx       context.Context
	mu        sync.Mutex
	open      bool
	title     string
	presented int
	last      Frame
}

func NewHeadless(ctx context.Context, maxFrames int) *Headless {
	return &Headless{MaxFrames: maxFrames, ctx: ctx}
}

func (h *Headless) Open(title string, cols, rows int) error {
	h.mu.Lock()
	defer h.mu.Unlock()
	if h.ctx == nil {
		h.ctx = context.Background()
	}
	h.open, h.title = true, title
	return nil
}

func (h *Headless) Running() bool {
	h.mu.Lock()
	defer h.mu.Unlock()
	if !h.open || h.ctx.Err() != nil {
		return false
	}
	return h.MaxFrames == 0 || h.presented < h.MaxFrames
}

func (h *Headless) Present(f Frame) error {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.last = f
	h.presented++
	return nil
}

func (h *Headless) Close() error {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.open = false
	return nil
}

func (h *Headless) Title() string {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.title
}

func (h *Headless) Presented() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.presented
}

func (h *Headless) LastFrame() Frame {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.last
}
