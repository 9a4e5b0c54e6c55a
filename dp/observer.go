package dp

import (
	"fmt"
	"io"

	"github.com/sanity-io/litter"
	"github.com/sirupsen/logrus"
	"github.com/sw965/mdp"
)

type Phase string

const (
	PhaseEvaluation     Phase = "evaluation"
	PhaseValueIteration Phase = "value-iteration"
)

// Sweep is reported after every full pass over the states.
// Iteration is the policy iteration round, 0 outside of PolicyIteration.
type Sweep struct {
	Phase     Phase
	Iteration int
	Sweep     int
	Delta     float64
	V         []float64
}

// Improvement is reported after every improvement step of PolicyIteration.
// Changed is the number of states whose greedy action changed.
type Improvement struct {
	Iteration int
	Changed   int
	Policy    mdp.Policy
	V         []float64
}

// Observer receives snapshots owned by the callee. Nil funcs are skipped.
type Observer struct {
	OnSweep   func(Sweep)
	OnImprove func(Improvement)
}

func (o Observer) sweep(f func() Sweep) {
	if o.OnSweep != nil {
		o.OnSweep(f())
	}
}

func (o Observer) improve(f func() Improvement) {
	if o.OnImprove != nil {
		o.OnImprove(f())
	}
}

// Join returns an Observer forwarding to every observer in obs.
func Join(obs ...Observer) Observer {
	return Observer{
		OnSweep: func(s Sweep) {
			for _, o := range obs {
				if o.OnSweep != nil {
					o.OnSweep(s)
				}
			}
		},
		OnImprove: func(i Improvement) {
			for _, o := range obs {
				if o.OnImprove != nil {
					o.OnImprove(i)
				}
			}
		},
	}
}

// NewLogObserver logs sweeps at debug level and improvements at info level.
func NewLogObserver(logger logrus.FieldLogger) Observer {
	return Observer{
		OnSweep: func(s Sweep) {
			logger.WithFields(logrus.Fields{
				"phase":     s.Phase,
				"iteration": s.Iteration,
				"sweep":     s.Sweep,
				"delta":     s.Delta,
			}).Debug("sweep done")
		},
		OnImprove: func(i Improvement) {
			logger.WithFields(logrus.Fields{
				"iteration": i.Iteration,
				"changed":   i.Changed,
			}).Info("policy improved")
		},
	}
}

// NewDumpObserver writes a litter dump of every snapshot to w.
func NewDumpObserver(w io.Writer) Observer {
	opts := litter.Options{Compact: true, StripPackageNames: true}
	return Observer{
		OnSweep: func(s Sweep) {
			fmt.Fprintf(w, "%s iteration=%d sweep=%d delta=%g\n%s\n", s.Phase, s.Iteration, s.Sweep, s.Delta, opts.Sdump(s.V))
		},
		OnImprove: func(i Improvement) {
			fmt.Fprintf(w, "improvement iteration=%d changed=%d\n%s\n", i.Iteration, i.Changed, opts.Sdump(i.Policy.Greedy()))
		},
	}
}
