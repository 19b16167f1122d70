package storage

import "github.com/san-kum/mechsim/internal/mech"

// Recorder samples the positions of every body each Every steps. Columns are
// fixed by the first sample.
type Recorder struct {
	every   int
	bodies  []string
	columns []string
	times   []float64
	states  [][]float64
}

func NewRecorder(every int) *Recorder {
	if every < 1 {
		every = 1
	}
	return &Recorder{every: every}
}

func (r *Recorder) Every() int { return r.every }

func (r *Recorder) OnStep(sys *mech.System) {
	if sys.StepCount()%r.every == 0 {
		r.Sample(sys)
	}
}

// Sample records the current state regardless of the interval. Bodies added
// after the first sample are not recorded.
func (r *Recorder) Sample(sys *mech.System) {
	bodies := sys.Bodies()
	if r.columns == nil {
		r.columns = make([]string, 0, 3*len(bodies))
		for _, b := range bodies {
			r.bodies = append(r.bodies, b.ID)
			r.columns = append(r.columns, b.ID+".x", b.ID+".y", b.ID+".z")
		}
	}
	row := make([]float64, 0, 3*len(r.bodies))
	for _, b := range bodies[:len(r.bodies)] {
		row = append(row, b.Pos.X, b.Pos.Y, b.Pos.Z)
	}
	r.times = append(r.times, sys.Time())
	r.states = append(r.states, row)
}

func (r *Recorder) Bodies() []string  { return r.bodies }
func (r *Recorder) Columns() []string { return r.columns }

func (r *Recorder) Samples() ([]float64, [][]float64) { return r.times, r.states }
