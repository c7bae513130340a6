package model

import (
	"math"

	"github.com/pkg/errors"

	"github.com/gromgull/model1/common"
	"github.com/gromgull/model1/core/corpus"
	"github.com/gromgull/model1/core/event"
	"github.com/gromgull/model1/core/vocab"
)

// ErrConsistency marks a zero normalization denominator during an E-step.
// With a support built by InitUniform from the same corpus it cannot occur;
// seeing it means the table was corrupted, so training aborts rather than
// silently skewing probabilities.
var ErrConsistency = errors.New("translation table consistency violation")

type Options struct {
	MaxIterations int
	Tolerance     float64 // 0 disables early stopping
	IncludeNull   bool
}

type Result struct {
	Iterations    int
	Converged     bool // tolerance reached within the iteration budget
	LogLikelihood float64
	Delta         float64 // L-infinity change of the last completed M-step
}

type trainerState int

const (
	stateUninitialized trainerState = iota
	stateReady
	stateIterating
	stateDone
)

// Trainer drives EM over a fixed corpus. It is the sole writer of its
// table: each Run iteration rebuilds the expected counts and renormalizes
// in place, and every completed iteration leaves the table usable.
type Trainer struct {
	data  *corpus.Corpus
	table *TTable
	opts  Options
	bus   *event.Bus
	state trainerState
	log   common.Logger
}

func NewTrainer(data *corpus.Corpus, opts Options) *Trainer {
	if opts.MaxIterations < 0 {
		opts.MaxIterations = 0
	}
	return &Trainer{
		data:  data,
		table: NewTTable(),
		opts:  opts,
		log:   common.GetLogger(common.MODULE_TRAINER),
	}
}

// SetBus attaches a progress bus; events fire between iterations.
func (tr *Trainer) SetBus(bus *event.Bus) { tr.bus = bus }

// SetLogger swaps the logger, mainly for tests.
func (tr *Trainer) SetLogger(l common.Logger) { tr.log = l }

func (tr *Trainer) Table() *TTable { return tr.table }

// Run initializes the table uniformly and iterates until the iteration
// budget is spent or the L-infinity delta of an M-step falls below the
// tolerance. A budget of 0 yields exactly the uniform table. Exhausting the
// budget without reaching tolerance is not an error; Converged reports it.
func (tr *Trainer) Run() (*Result, error) {
	if tr.state != stateUninitialized {
		return nil, errors.New("trainer already ran")
	}
	tr.table.InitUniform(tr.data, tr.opts.IncludeNull)
	tr.state = stateReady
	tr.log.Infof("table initialized, %d supported pairs", tr.table.Len())

	res := &Result{}
	for i := 1; i <= tr.opts.MaxIterations; i++ {
		tr.state = stateIterating
		ll, delta, err := tr.step()
		if err != nil {
			return nil, err
		}
		res.Iterations = i
		res.Delta = delta

		tr.log.Infof("iteration %d, likelihood %.6f, delta %.6g", i, ll, delta)
		if tr.bus != nil {
			tr.bus.Publish(&event.Iteration{Number: i, LogLikelihood: ll, Delta: delta})
		}

		if tr.opts.Tolerance > 0 && delta < tr.opts.Tolerance {
			res.Converged = true
			break
		}
	}
	tr.state = stateDone

	res.LogLikelihood = tr.Likelihood()
	return res, nil
}

// step is one E-step plus M-step pass. The returned likelihood is the
// corpus log-likelihood under the table the pass started from; it falls out
// of the E-step denominators for free.
func (tr *Trainer) step() (float64, float64, error) {
	acc := newCounts()
	ll := 0.0

	for pi, p := range tr.data.Pairs {
		fs, es := tr.augment(p)
		logLenF := math.Log(float64(len(fs)))

		for _, e := range es {
			z := 0.0
			for _, f := range fs {
				z += tr.table.Get(f, e)
			}
			if z == 0 {
				return 0, 0, errors.Wrapf(ErrConsistency,
					"zero denominator for target word %q in pair %d",
					tr.data.Target.Word(e), pi+1)
			}
			ll += math.Log(z) - logLenF

			for _, f := range fs {
				if w := tr.table.Get(f, e); w > 0 {
					acc.add(f, e, w/z)
				}
			}
		}
	}

	delta := tr.table.renormalize(acc)
	return ll, delta, nil
}

// Likelihood computes the corpus log-likelihood under the current table,
// including the uniform alignment term per target word.
func (tr *Trainer) Likelihood() float64 {
	ll := 0.0
	for _, p := range tr.data.Pairs {
		fs, es := tr.augment(p)
		logLenF := math.Log(float64(len(fs)))
		for _, e := range es {
			z := 0.0
			for _, f := range fs {
				z += tr.table.Get(f, e)
			}
			if z > 0 {
				ll += math.Log(z) - logLenF
			}
		}
	}
	return ll
}

// augment prepends the NULL identity to both sides when enabled. Sentences
// never store NULL themselves.
func (tr *Trainer) augment(p corpus.Pair) ([]vocab.ID, []vocab.ID) {
	if !tr.opts.IncludeNull {
		return p.F, p.E
	}
	fs := make([]vocab.ID, 0, len(p.F)+1)
	fs = append(fs, vocab.Null)
	fs = append(fs, p.F...)
	es := make([]vocab.ID, 0, len(p.E)+1)
	es = append(es, vocab.Null)
	es = append(es, p.E...)
	return fs, es
}
