package model

import (
	"strings"
	"testing"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gromgull/model1/core/corpus"
	"github.com/gromgull/model1/core/event"
	"github.com/gromgull/model1/test/mock"
)

type iterCollector struct {
	evs []event.Iteration
}

func (c *iterCollector) HandleTrainEvent(ev *event.Iteration) {
	c.evs = append(c.evs, *ev)
}

func newTestTrainer(t *testing.T, c *corpus.Corpus, opts Options) *Trainer {
	t.Helper()
	tr := NewTrainer(c, opts)
	tr.SetLogger(mock.GetMockLogger("trainer"))
	return tr
}

func TestTrainerDegenerateConcentration(t *testing.T) {
	c, err := corpus.Load(strings.NewReader("maison\n"), strings.NewReader("house\n"))
	require.NoError(t, err)

	tr := newTestTrainer(t, c, Options{MaxIterations: 1})
	res, err := tr.Run()
	require.NoError(t, err)
	require.Equal(t, 1, res.Iterations)

	f := c.Source.Lookup("maison")
	e := c.Target.Lookup("house")
	assert.Equal(t, 1.0, tr.Table().Get(f, e))
}

func TestTrainerZeroIterationsIsUniform(t *testing.T) {
	c := chatChienCorpus(t)

	tr := newTestTrainer(t, c, Options{MaxIterations: 0, IncludeNull: true})
	res, err := tr.Run()
	require.NoError(t, err)
	assert.Equal(t, 0, res.Iterations)
	assert.False(t, res.Converged)

	want := NewTTable()
	want.InitUniform(c, true)
	require.Equal(t, want.Len(), tr.Table().Len())
	for _, f := range want.Sources() {
		for e, p := range want.Row(f) {
			assert.Equal(t, p, tr.Table().Get(f, e))
		}
	}
}

func TestTrainerRowSumsAfterEveryMStep(t *testing.T) {
	c := chatChienCorpus(t)
	for n := 1; n <= 3; n++ {
		tr := newTestTrainer(t, c, Options{MaxIterations: n, IncludeNull: true})
		_, err := tr.Run()
		require.NoError(t, err)

		tbl := tr.Table()
		for _, f := range tbl.Sources() {
			sum := 0.0
			for _, p := range tbl.Row(f) {
				sum += p
			}
			assert.InDelta(t, 1.0, sum, 1e-9, "row sum for source %d after %d iterations", f, n)
		}
	}
}

func TestTrainerLikelihoodMonotone(t *testing.T) {
	c := chatChienCorpus(t)

	tr := newTestTrainer(t, c, Options{MaxIterations: 8, IncludeNull: true})
	bus := event.NewBus()
	col := &iterCollector{}
	bus.Register(col)
	tr.SetBus(bus)

	res, err := tr.Run()
	require.NoError(t, err)
	require.Len(t, col.evs, 8)

	for i := 1; i < len(col.evs); i++ {
		assert.GreaterOrEqual(t, col.evs[i].LogLikelihood+1e-12, col.evs[i-1].LogLikelihood,
			"likelihood dropped at iteration %d", col.evs[i].Number)
	}
	// Likelihood of the final table is at least the last E-step's
	assert.GreaterOrEqual(t, res.LogLikelihood+1e-12, col.evs[len(col.evs)-1].LogLikelihood)
}

func TestTrainerDeterminism(t *testing.T) {
	run := func() *TTable {
		c := chatChienCorpus(t)
		tr := newTestTrainer(t, c, Options{MaxIterations: 5, IncludeNull: true})
		_, err := tr.Run()
		require.NoError(t, err)
		return tr.Table()
	}

	a := run()
	b := run()
	require.Equal(t, a.Len(), b.Len())
	for _, f := range a.Sources() {
		for e, p := range a.Row(f) {
			assert.Equal(t, p, b.Get(f, e), "entry (%d,%d) differs between runs", f, e)
		}
	}
}

func TestTrainerDiscriminatesSharedWord(t *testing.T) {
	// "le" appears with "the" in both pairs, with "cat"/"dog" in one each
	c := chatChienCorpus(t)
	tr := newTestTrainer(t, c, Options{MaxIterations: 5, IncludeNull: true})
	_, err := tr.Run()
	require.NoError(t, err)

	tbl := tr.Table()
	le := c.Source.Lookup("le")
	the := c.Target.Lookup("the")
	cat := c.Target.Lookup("cat")
	dog := c.Target.Lookup("dog")

	assert.Greater(t, tbl.Get(le, the), tbl.Get(le, cat))
	assert.Greater(t, tbl.Get(le, the), tbl.Get(le, dog))
}

func TestTrainerEarlyStop(t *testing.T) {
	c := chatChienCorpus(t)
	tr := newTestTrainer(t, c, Options{MaxIterations: 100, Tolerance: 0.5, IncludeNull: true})
	res, err := tr.Run()
	require.NoError(t, err)

	assert.True(t, res.Converged)
	assert.Less(t, res.Iterations, 100)
	assert.Less(t, res.Delta, 0.5)
}

func TestTrainerRunsOnce(t *testing.T) {
	c := chatChienCorpus(t)
	tr := newTestTrainer(t, c, Options{MaxIterations: 1, IncludeNull: true})
	_, err := tr.Run()
	require.NoError(t, err)
	_, err = tr.Run()
	require.Error(t, err)
}

func TestTrainerConsistencyError(t *testing.T) {
	c, err := corpus.Load(strings.NewReader("maison\n"), strings.NewReader("house\n"))
	require.NoError(t, err)

	tr := newTestTrainer(t, c, Options{MaxIterations: 1})
	tr.table.InitUniform(c, false)

	// wipe the only row so every denominator for "house" is zero
	f := c.Source.Lookup("maison")
	for e := range tr.table.rows[f] {
		tr.table.rows[f][e] = 0
	}

	_, _, err = tr.step()
	require.Error(t, err)
	assert.Equal(t, ErrConsistency, errors.Cause(err))
	assert.Contains(t, err.Error(), "house")
}
