package model

import (
	"bytes"
	"encoding/gob"
	"sort"

	"github.com/gromgull/model1/core/corpus"
	"github.com/gromgull/model1/core/vocab"
)

// TTable is the sparse translation probability table t(e|f). Rows are keyed
// by source identity, columns by target identity. A pair that never
// co-occurs in the corpus has no entry and probability 0; the set of
// entries is fixed by InitUniform and never grows during a run.
type TTable struct {
	rows map[vocab.ID]map[vocab.ID]float64
}

func NewTTable() *TTable {
	return &TTable{rows: make(map[vocab.ID]map[vocab.ID]float64)}
}

// Get returns t(e|f), or 0 for pairs outside the support.
func (t *TTable) Get(f, e vocab.ID) float64 {
	row, ok := t.rows[f]
	if !ok {
		return 0
	}
	return row[e]
}

// Len returns the number of supported (f, e) pairs.
func (t *TTable) Len() int {
	n := 0
	for _, row := range t.rows {
		n += len(row)
	}
	return n
}

// Sources returns the supported source identities in ascending order.
func (t *TTable) Sources() []vocab.ID {
	fs := make([]vocab.ID, 0, len(t.rows))
	for f := range t.rows {
		fs = append(fs, f)
	}
	sort.Slice(fs, func(i, j int) bool { return fs[i] < fs[j] })
	return fs
}

// Row returns the live row for f, nil if f is unsupported. Callers must not
// mutate it.
func (t *TTable) Row(f vocab.ID) map[vocab.ID]float64 {
	return t.rows[f]
}

// InitUniform builds the support of the table from corpus co-occurrence and
// assigns each row a uniform distribution. For every source word f the row
// holds exactly the target words co-occurring with f in some pair, plus
// NULL when enabled, each at 1/|row|. When enabled, NULL also gets a source
// row covering every target word.
func (t *TTable) InitUniform(c *corpus.Corpus, includeNull bool) {
	t.rows = make(map[vocab.ID]map[vocab.ID]float64)

	for _, p := range c.Pairs {
		fs := p.F
		es := p.E
		if includeNull {
			fs = append([]vocab.ID{vocab.Null}, p.F...)
			es = append([]vocab.ID{vocab.Null}, p.E...)
		}
		for _, f := range fs {
			row, ok := t.rows[f]
			if !ok {
				row = make(map[vocab.ID]float64)
				t.rows[f] = row
			}
			for _, e := range es {
				row[e] = 0
			}
		}
	}

	for _, row := range t.rows {
		p := 1.0 / float64(len(row))
		for e := range row {
			row[e] = p
		}
	}
}

// counts is the ephemeral expected-count accumulator of one EM iteration,
// rebuilt by every E-step and discarded after the M-step it feeds.
type counts struct {
	pair  map[vocab.ID]map[vocab.ID]float64
	total map[vocab.ID]float64
}

func newCounts() *counts {
	return &counts{
		pair:  make(map[vocab.ID]map[vocab.ID]float64),
		total: make(map[vocab.ID]float64),
	}
}

// add accumulates weight w onto the (f, e) expected count and the f total.
func (a *counts) add(f, e vocab.ID, w float64) {
	row, ok := a.pair[f]
	if !ok {
		row = make(map[vocab.ID]float64)
		a.pair[f] = row
	}
	row[e] += w
	a.total[f] += w
}

// renormalize is the M-step: replaces every visited entry with its expected
// count divided by the source total, and reports the largest absolute
// change across entries. Entries the accumulator never visited keep their
// previous value; with a support built from the full corpus that cannot
// happen.
func (t *TTable) renormalize(a *counts) float64 {
	delta := 0.0
	for f, crow := range a.pair {
		z := a.total[f]
		if z == 0 {
			continue
		}
		row := t.rows[f]
		for e, c := range crow {
			p := c / z
			if d := p - row[e]; d > delta {
				delta = d
			} else if -d > delta {
				delta = -d
			}
			row[e] = p
		}
	}
	return delta
}

type tableEntry struct {
	F, E vocab.ID
	P    float64
}

func (t *TTable) MarshalBinary() ([]byte, error) {
	entries := make([]tableEntry, 0, t.Len())
	for _, f := range t.Sources() {
		row := t.rows[f]
		es := make([]vocab.ID, 0, len(row))
		for e := range row {
			es = append(es, e)
		}
		sort.Slice(es, func(i, j int) bool { return es[i] < es[j] })
		for _, e := range es {
			entries = append(entries, tableEntry{F: f, E: e, P: row[e]})
		}
	}
	var buf bytes.Buffer
	if err := gob.NewEncoder(&buf).Encode(entries); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func (t *TTable) UnmarshalBinary(data []byte) error {
	var entries []tableEntry
	if err := gob.NewDecoder(bytes.NewReader(data)).Decode(&entries); err != nil {
		return err
	}
	t.rows = make(map[vocab.ID]map[vocab.ID]float64)
	for _, en := range entries {
		row, ok := t.rows[en.F]
		if !ok {
			row = make(map[vocab.ID]float64)
			t.rows[en.F] = row
		}
		row[en.E] = en.P
	}
	return nil
}
