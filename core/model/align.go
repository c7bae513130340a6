package model

import "github.com/gromgull/model1/core/vocab"

// BestAlignment maps every source position to the target position whose
// word maximizes t(e|f) within the pair, or -1 when no candidate has
// positive probability. Ties keep the earliest target position.
func (t *TTable) BestAlignment(f, e []vocab.ID) []int {
	out := make([]int, len(f))
	for i, fw := range f {
		bestP := 0.0
		bestA := -1
		row := t.rows[fw]
		for j, ew := range e {
			if p := row[ew]; p > bestP {
				bestP = p
				bestA = j
			}
		}
		out[i] = bestA
	}
	return out
}
