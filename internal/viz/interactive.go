package viz

import (
	"context"
	"errors"
	"sync"

	tea "github.com/charmbracelet/bubbletea"
	"golang.org/x/time/rate"
)

type frameMsg Frame

type frameModel struct {
	title         string
	frame         Frame
	width, height int
}

func (m frameModel) Init() tea.Cmd { return nil }

func (m frameModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "q", "ctrl+c", "esc":
			return m, tea.Quit
		}
	case tea.WindowSizeMsg:
		m.width, m.height = msg.Width, msg.Height
	case frameMsg:
		m.frame = Frame(msg)
	}
	return m, nil
}

func (m frameModel) View() string {
	if m.frame.Text == "" {
		return m.title + "\n"
	}
	return m.frame.Text + KeyHint.Render("q quit")
}

// Interactive shows frames in a bubbletea program on the alternate screen.
// The window closes when the user quits or ctx is done.
type Interactive struct {
	FPS  int
	Opts []tea.ProgramOption

	ctx     context.Context
	limiter *rate.Limiter

	mu   sync.Mutex
	prog *tea.Program
	done chan struct{}
	err  error
}

func NewInteractive(ctx context.Context, fps int, opts ...tea.ProgramOption) *Interactive {
	return &Interactive{FPS: fps, Opts: opts, ctx: ctx}
}

func (d *Interactive) Open(title string, cols, rows int) error {
	if d.ctx == nil {
		d.ctx = context.Background()
	}
	opts := append([]tea.ProgramOption{tea.WithAltScreen(), tea.WithContext(d.ctx)}, d.Opts...)
	d.prog = tea.NewProgram(frameModel{title: title, width: cols, height: rows}, opts...)
	d.limiter = newLimiter(d.FPS)
	d.done = make(chan struct{})

	go func() {
		defer close(d.done)
		_, err := d.prog.Run()
		if errors.Is(err, tea.ErrProgramKilled) {
			err = nil
		}
		d.mu.Lock()
		d.err = err
		d.mu.Unlock()
	}()
	return nil
}

func (d *Interactive) Running() bool {
	if d.done == nil {
		return false
	}
	select {
	case <-d.done:
		return false
	default:
		return true
	}
}

func (d *Interactive) Present(f Frame) error {
	if !pace(d.ctx, d.limiter) {
		return nil
	}
	// Send returns once the program has stopped, so a quit during a frame
	// does not block the caller.
	d.prog.Send(frameMsg(f))
	return nil
}

func (d *Interactive) Close() error {
	if d.prog == nil {
		return nil
	}
	d.prog.Quit()
	<-d.done
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.err
}
