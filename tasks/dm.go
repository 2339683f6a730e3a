// Copyright (c) 2019, The Emergent Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package tasks

import (
	"github.com/emer/etable/etensor"
	"github.com/pkg/errors"
)

// Output channels of the decision-making tasks
const (
	FixationChan = 0
	Choice1Chan  = 1
	Choice2Chan  = 2
	DMActSize    = 3
)

// TrialSteps are the durations of the periods of one trial, in steps
type TrialSteps struct {
	Stim   int
	Delay  int
	Answer int
}

// Len returns the total number of steps
func (ts TrialSteps) Len() int {
	return ts.Stim + ts.Delay + ts.Answer
}

// AnswerStart returns the first step of the answer period
func (ts TrialSteps) AnswerStart() int {
	return ts.Stim + ts.Delay
}

// SampleTrial draws the period durations for one trial
func (tb *Base) SampleTrial() TrialSteps {
	return TrialSteps{
		Stim:   tb.Pars.TrialSteps(tb.Rand),
		Delay:  tb.Pars.DelaySteps(tb.Rand),
		Answer: tb.Pars.AnswerSteps(),
	}
}

// Choice returns the output channel of the correct answer for stimulus value v:
// Choice1Chan below the middle of the value range, Choice2Chan otherwise.
func (tb *Base) Choice(v float32) int {
	vr := tb.Pars.ValueRange
	if v < 0.5*(vr.Min+vr.Max) {
		return Choice1Chan
	}
	return Choice2Chan
}

// BatchTrials generates one trial per batch element, each with its own period
// durations drawn by SampleTrial.  gen fills the single-element input and target
// sequences of element b; the elements are then left-padded to the longest
// trial and joined along the batch axis with ConcatenateBatches.
func (tb *Base) BatchTrials(gen func(b int, ts TrialSteps, in, out *etensor.Float32)) (in, out *etensor.Float32, err error) {
	ins := make([]*etensor.Float32, tb.Batch)
	outs := make([]*etensor.Float32, tb.Batch)
	for b := range ins {
		ts := tb.SampleTrial()
		ins[b] = NewSeq(ts.Len(), 1, tb.ObSize)
		outs[b] = NewSeq(ts.Len(), 1, tb.ActSize)
		gen(b, ts, ins[b], outs[b])
	}
	in, out, err = ConcatenateBatches(ins, outs, tb.FixDelay)
	if err != nil {
		return nil, nil, errors.Wrap(err, tb.Nm)
	}
	return in, out, nil
}

// SetFixation holds fixation in input and target of batch element b
// through the stimulus and delay periods.
func SetFixation(in, out *etensor.Float32, b int, ts TrialSteps) {
	for t := 0; t < ts.AnswerStart(); t++ {
		SetSeq(in, t, b, FixationChan, 1)
		SetSeq(out, t, b, FixationChan, 1)
	}
}

// SetAnswer sets channel ch of the target of batch element b during the answer period
func SetAnswer(out *etensor.Float32, b int, ts TrialSteps, ch int) {
	for t := ts.AnswerStart(); t < ts.Len(); t++ {
		SetSeq(out, t, b, ch, 1)
	}
}

// SetStim sets channel ch of the input of batch element b during the stimulus period
func SetStim(in *etensor.Float32, b int, ts TrialSteps, ch int, val float32) {
	for t := 0; t < ts.Stim; t++ {
		SetSeq(in, t, b, ch, val)
	}
}

//////////////////////////////////////////////////////////////////////////////////////
//  DMTask

// DMTask is the perceptual decision-making task: a stimulus value is shown on
// input channel 1 while fixating, and after it the subject must report whether
// the value was low (Choice1Chan) or high (Choice2Chan).
// Inputs: fixation, value.  Outputs: fixation, choice 1, choice 2.
type DMTask struct {
	Base
}

// NewDMTask returns a new decision-making task
func NewDMTask(cfg Config) (*DMTask, error) {
	tk := &DMTask{}
	if err := tk.Init(DMTaskName, cfg, 2, DMActSize); err != nil {
		return nil, err
	}
	return tk, nil
}

// OneDataset generates one trial for each batch element, see BatchTrials
func (tk *DMTask) OneDataset() (in, out *etensor.Float32, err error) {
	return tk.BatchTrials(func(b int, ts TrialSteps, in, out *etensor.Float32) {
		v := tk.Value()
		SetFixation(in, out, 0, ts)
		SetStim(in, 0, ts, 1, v)
		SetAnswer(out, 0, ts, tk.Choice(v))
	})
}

func (tk *DMTask) Dataset(nTrials, delayBetween int) (in, out *etensor.Float32, err error) {
	return MakeDataset(tk, nTrials, delayBetween)
}

//////////////////////////////////////////////////////////////////////////////////////
//  DMTaskRandomMod

// DMTaskRandomMod is the decision-making task where the stimulus appears on
// one of NMods modality channels, chosen at random for each batch element.
// Inputs: fixation, modality 1 .. NMods.  Outputs: fixation, choice 1, choice 2.
type DMTaskRandomMod struct {
	Base

	// modality index of each batch element in the last generated trial
	Mods []int
}

// NewDMTaskRandomMod returns a new random modality decision-making task
func NewDMTaskRandomMod(cfg Config) (*DMTaskRandomMod, error) {
	tk := &DMTaskRandomMod{}
	if err := tk.Init(DMTaskRandomModName, cfg, 0, DMActSize); err != nil {
		return nil, err
	}
	if tk.Pars.NMods < 1 {
		tk.Pars.NMods = 1
	}
	tk.ObSize = 1 + tk.Pars.NMods
	return tk, nil
}

// SetParams sets new params, updating the number of input channels
func (tk *DMTaskRandomMod) SetParams(p Params) error {
	if err := tk.Base.SetParams(p); err != nil {
		return err
	}
	if tk.Pars.NMods < 1 {
		tk.Pars.NMods = 1
	}
	tk.ObSize = 1 + tk.Pars.NMods
	return nil
}

func (tk *DMTaskRandomMod) OneDataset() (in, out *etensor.Float32, err error) {
	tk.Mods = make([]int, tk.Batch)
	return tk.BatchTrials(func(b int, ts TrialSteps, in, out *etensor.Float32) {
		v := tk.Value()
		mod := tk.Rand.Intn(tk.Pars.NMods)
		tk.Mods[b] = mod
		SetFixation(in, out, 0, ts)
		SetStim(in, 0, ts, 1+mod, v)
		SetAnswer(out, 0, ts, tk.Choice(v))
	})
}

func (tk *DMTaskRandomMod) Dataset(nTrials, delayBetween int) (in, out *etensor.Float32, err error) {
	return MakeDataset(tk, nTrials, delayBetween)
}

//////////////////////////////////////////////////////////////////////////////////////
//  CtxDMTask

// CtxDMTask is the context-dependent decision-making task: two modalities
// carry independent values, and a one-hot context input says which modality
// the decision must be based on.
// Inputs: fixation, modality 1, modality 2, context 1, context 2.
// Outputs: fixation, choice 1, choice 2.
type CtxDMTask struct {
	Base

	// context (attended modality) of each batch element in the last generated trial
	Ctxs []int
}

// NewCtxDMTask returns a new context-dependent decision-making task
func NewCtxDMTask(cfg Config) (*CtxDMTask, error) {
	tk := &CtxDMTask{}
	if err := tk.Init(CtxDMTaskName, cfg, 5, DMActSize); err != nil {
		return nil, err
	}
	tk.Pars.NMods = 2
	return tk, nil
}

// SetParams sets new params, the task always has two modalities
func (tk *CtxDMTask) SetParams(p Params) error {
	p.NMods = 2
	return tk.Base.SetParams(p)
}

func (tk *CtxDMTask) OneDataset() (in, out *etensor.Float32, err error) {
	tk.Ctxs = make([]int, tk.Batch)
	return tk.BatchTrials(func(b int, ts TrialSteps, in, out *etensor.Float32) {
		v1 := tk.Value()
		v2 := tk.Value()
		ctx := tk.Rand.Intn(2)
		tk.Ctxs[b] = ctx
		SetFixation(in, out, 0, ts)
		SetStim(in, 0, ts, 1, v1)
		SetStim(in, 0, ts, 2, v2)
		for t := 0; t < ts.AnswerStart(); t++ {
			SetSeq(in, t, 0, 3+ctx, 1)
		}
		v := v1
		if ctx == 1 {
			v = v2
		}
		SetAnswer(out, 0, ts, tk.Choice(v))
	})
}

func (tk *CtxDMTask) Dataset(nTrials, delayBetween int) (in, out *etensor.Float32, err error) {
	return MakeDataset(tk, nTrials, delayBetween)
}
