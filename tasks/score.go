// Copyright (c) 2019, The Emergent Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package tasks

import (
	"github.com/emer/etable/etensor"
	"github.com/pkg/errors"
	"gonum.org/v1/gonum/floats"
)

// Decisions returns, for every batch element, the choice channel (>= 1)
// with the largest value at time step t.
func Decisions(sq *etensor.Float32, t int) []int {
	nb, nc := sq.Dim(1), sq.Dim(2)
	dec := make([]int, nb)
	vals := make([]float64, nc-1)
	for b := 0; b < nb; b++ {
		off := (t*nb + b) * nc
		for c := 1; c < nc; c++ {
			vals[c-1] = float64(sq.Values[off+c])
		}
		dec[b] = 1 + floats.MaxIdx(vals)
	}
	return dec
}

// Score returns the fraction of batch elements for which the decision of out
// matches that of target on the last step, where every task is answering.
func Score(out, target *etensor.Float32) (float64, error) {
	if out.NumDims() != 3 || target.NumDims() != 3 {
		return 0, errors.Errorf("tasks: Score needs [Time, Batch, Chan] tensors, got %v and %v", out.Shapes(), target.Shapes())
	}
	for d := 0; d < 3; d++ {
		if out.Dim(d) != target.Dim(d) {
			return 0, errors.Errorf("tasks: Score shapes differ: %v vs %v", out.Shapes(), target.Shapes())
		}
	}
	if out.Dim(2) < 2 || out.Dim(0) == 0 || out.Dim(1) == 0 {
		return 0, errors.Errorf("tasks: Score needs at least one step, batch element and choice channel: %v", out.Shapes())
	}
	last := out.Dim(0) - 1
	pred := Decisions(out, last)
	cor := Decisions(target, last)
	n := 0
	for b := range pred {
		if pred[b] == cor[b] {
			n++
		}
	}
	return float64(n) / float64(len(pred)), nil
}
