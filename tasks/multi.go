// Copyright (c) 2019, The Emergent Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package tasks

import (
	"strings"

	"github.com/emer/etable/etensor"
	"github.com/goki/ki/ints"
	"github.com/pkg/errors"
)

// MultiTask mixes several tasks with the same outputs in one batch.
// Each batch element runs a randomly chosen task; its input is widened to
// the largest feature size and followed by a one-hot rule block naming the task.
// Elements of different durations are aligned with ConcatenateBatches.
// Inputs: task features (padded), rule 1 .. NTasks.
type MultiTask struct {
	Base

	// the component tasks, each generating one sequence at a time
	Tasks []Task

	// largest feature size over Tasks, where the rule block starts
	RuleStart int

	// task index of each batch element in the last generated trial
	Rules []int
}

// NewMultiTask returns a task mixing the given tasks.  All tasks must have
// the same number of outputs; their batch size is set to 1.
// cfg.Params is not used by MultiTask itself.
func NewMultiTask(tks []Task, cfg Config) (*MultiTask, error) {
	if len(tks) == 0 {
		return nil, errors.New("tasks: MultiTask needs at least one task")
	}
	_, act := tks[0].FeatureAndActSize()
	nms := make([]string, len(tks))
	maxFeat := 0
	for i, tk := range tks {
		f, a := tk.FeatureAndActSize()
		if a != act {
			return nil, errors.Errorf("tasks: MultiTask: %s has %d outputs, %s has %d", tk.Name(), a, tks[0].Name(), act)
		}
		maxFeat = ints.MaxInt(maxFeat, f)
		nms[i] = tk.Name()
		tk.SetBatchSize(1)
	}
	mt := &MultiTask{Tasks: tks, RuleStart: maxFeat}
	mt.Nm = "Multi(" + strings.Join(nms, ",") + ")"
	mt.ObSize = maxFeat + len(tks)
	mt.ActSize = act
	mt.Mode = cfg.Mode
	mt.FixDelay = cfg.FixationDelay
	mt.Batch = cfg.BatchSize
	if mt.Batch <= 0 {
		mt.Batch = 1
	}
	mt.Seed(cfg.Seed)
	mt.Pars = tks[0].Params()
	return mt, nil
}

// SetParams sets params on the MultiTask only, component tasks keep their own
func (mt *MultiTask) SetParams(p Params) error {
	mt.Pars = p
	return nil
}

// OneDataset generates one trial of a random task for every batch element
func (mt *MultiTask) OneDataset() (in, out *etensor.Float32, err error) {
	ins := make([]*etensor.Float32, mt.Batch)
	outs := make([]*etensor.Float32, mt.Batch)
	mt.Rules = make([]int, mt.Batch)
	for b := 0; b < mt.Batch; b++ {
		ri := mt.Rand.Intn(len(mt.Tasks))
		mt.Rules[b] = ri
		tin, tout, err := mt.Tasks[ri].OneDataset()
		if err != nil {
			return nil, nil, errors.Wrap(err, mt.Nm)
		}
		if tin.Dim(2) > mt.RuleStart || tout.Dim(2) != mt.ActSize {
			return nil, nil, errors.Errorf("%s: %s now has %d inputs and %d outputs, at most %d and exactly %d when the MultiTask was made", mt.Nm, mt.Tasks[ri].Name(), tin.Dim(2), tout.Dim(2), mt.RuleStart, mt.ActSize)
		}
		ins[b] = mt.addRule(tin, ri)
		outs[b] = tout
	}
	return ConcatenateBatches(ins, outs, mt.FixDelay)
}

// addRule widens task input to ObSize channels with rule ri on at every step
func (mt *MultiTask) addRule(tin *etensor.Float32, ri int) *etensor.Float32 {
	nt, nb, nf := tin.Dim(0), tin.Dim(1), tin.Dim(2)
	res := NewSeq(nt, nb, mt.ObSize)
	for t := 0; t < nt; t++ {
		for b := 0; b < nb; b++ {
			si := (t*nb + b) * nf
			di := (t*nb + b) * mt.ObSize
			copy(res.Values[di:di+nf], tin.Values[si:si+nf])
			res.Values[di+mt.RuleStart+ri] = 1
		}
	}
	return res
}

func (mt *MultiTask) Dataset(nTrials, delayBetween int) (in, out *etensor.Float32, err error) {
	return MakeDataset(mt, nTrials, delayBetween)
}
