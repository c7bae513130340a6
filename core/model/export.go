package model

import (
	"bufio"
	"fmt"
	"io"
	"sort"

	"github.com/gromgull/model1/core/vocab"
)

// Entry is one exported (source word, target word, probability) triple.
type Entry struct {
	Source string
	Target string
	Prob   float64
}

// Export flattens the table into triples for an external formatter. Order
// is deterministic: source identity ascending, then probability descending,
// ties broken by target identity ascending. topN > 0 keeps only the best
// topN targets per source word; minProb drops entries below the floor
// before the top-N cut.
func Export(t *TTable, source, target *vocab.Vocab, topN int, minProb float64) []Entry {
	var out []Entry
	for _, f := range t.Sources() {
		row := t.Row(f)

		es := make([]vocab.ID, 0, len(row))
		for e := range row {
			if row[e] < minProb {
				continue
			}
			es = append(es, e)
		}
		sort.Slice(es, func(i, j int) bool {
			if row[es[i]] != row[es[j]] {
				return row[es[i]] > row[es[j]]
			}
			return es[i] < es[j]
		})
		if topN > 0 && len(es) > topN {
			es = es[:topN]
		}

		for _, e := range es {
			out = append(out, Entry{
				Source: source.Word(f),
				Target: target.Word(e),
				Prob:   row[e],
			})
		}
	}
	return out
}

// WriteEntries writes one tab-separated triple per line.
func WriteEntries(w io.Writer, entries []Entry) error {
	bw := bufio.NewWriter(w)
	for _, en := range entries {
		if _, err := fmt.Fprintf(bw, "%s\t%s\t%.6f\n", en.Source, en.Target, en.Prob); err != nil {
			return err
		}
	}
	return bw.Flush()
}
