// Copyright (c) 2019, The Emergent Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

/*
Package tasks generates synthetic cognitive task datasets for training
recurrent spiking networks.

Every dataset is a pair of etensor.Float32 sequences of shape
[Time, Batch, Chan]: the network input and the target output.
Channel 0 of both is the fixation channel: 1 while the subject must hold,
0 once it must answer.
*/
package tasks

import (
	"github.com/emer/etable/etensor"
	"github.com/goki/ki/ints"
	"github.com/pkg/errors"
	"golang.org/x/exp/rand"
)

// SeqDims are the dimension names of dataset tensors
var SeqDims = []string{"Time", "Batch", "Chan"}

// Task is a generator of input / target datasets
type Task interface {
	// Name returns the task name
	Name() string

	// OneDataset generates a single trial for every batch element
	OneDataset() (in, out *etensor.Float32, err error)

	// Dataset generates nTrials trials, see MakeDataset
	Dataset(nTrials, delayBetween int) (in, out *etensor.Float32, err error)

	// FeatureAndActSize returns the number of input and output channels
	FeatureAndActSize() (int, int)

	// Params returns the current parameters
	Params() Params

	// SetParams validates and sets new parameters
	SetParams(p Params) error

	// BatchSize returns the number of sequences generated in parallel
	BatchSize() int

	// SetBatchSize sets the number of sequences generated in parallel
	SetBatchSize(n int)

	// FixationDelay returns true if padding steps hold fixation
	FixationDelay() bool
}

// Config configures a new task.  Zero values select defaults:
// the task's DefaultParams, batch size 1, Random mode.
type Config struct {
	Params        *Params
	BatchSize     int
	Mode          Modes
	FixationDelay bool
	Seed          uint64
}

// Base holds the state shared by all reduce tasks
type Base struct {
	Nm       string     `desc:"task name"`
	Pars     Params     `desc:"timing and value parameters"`
	Batch    int        `desc:"number of sequences generated in parallel"`
	ObSize   int        `inactive:"+" desc:"number of input channels"`
	ActSize  int        `inactive:"+" desc:"number of output channels"`
	Mode     Modes      `desc:"how stimulus values are generated"`
	FixDelay bool       `desc:"padding and between-trial steps hold fixation = 1 instead of all zeros"`
	Rand     *rand.Rand `view:"-" desc:"random numbers for this task"`
}

// Init configures the base from cfg and the task's defaults
func (tb *Base) Init(name string, cfg Config, obSize, actSize int) error {
	tb.Nm = name
	tb.ObSize = obSize
	tb.ActSize = actSize
	tb.Mode = cfg.Mode
	tb.FixDelay = cfg.FixationDelay
	tb.Batch = cfg.BatchSize
	if tb.Batch <= 0 {
		tb.Batch = 1
	}
	tb.Seed(cfg.Seed)
	var p Params
	if cfg.Params != nil {
		p = *cfg.Params
	} else {
		dp, err := DefaultParams(name)
		if err != nil {
			return err
		}
		p = dp
	}
	return tb.SetParams(p)
}

// Seed resets the random number source
func (tb *Base) Seed(seed uint64) {
	tb.Rand = rand.New(rand.NewSource(seed))
}

func (tb *Base) Name() string                  { return tb.Nm }
func (tb *Base) Params() Params                { return tb.Pars }
func (tb *Base) BatchSize() int                { return tb.Batch }
func (tb *Base) SetBatchSize(n int)            { tb.Batch = n }
func (tb *Base) FeatureAndActSize() (int, int) { return tb.ObSize, tb.ActSize }
func (tb *Base) FixationDelay() bool           { return tb.FixDelay }

// SetParams validates and sets new parameters
func (tb *Base) SetParams(p Params) error {
	if err := p.Validate(); err != nil {
		return errors.Wrap(err, tb.Nm)
	}
	if tb.Mode == Value && p.Value == nil {
		return errors.Errorf("%s: Value mode requires params value", tb.Nm)
	}
	tb.Pars = p
	return nil
}

// Value returns one stimulus value according to Mode
func (tb *Base) Value() float32 {
	if tb.Mode == Value {
		return *tb.Pars.Value
	}
	vr := tb.Pars.ValueRange
	return vr.Min + tb.Rand.Float32()*(vr.Max-vr.Min)
}

// NewSeq returns a zero sequence tensor of shape [nt, nb, nc]
func NewSeq(nt, nb, nc int) *etensor.Float32 {
	return etensor.NewFloat32([]int{nt, nb, nc}, nil, SeqDims)
}

// FixSeq returns a sequence tensor of shape [nt, nb, nc], zero except
// channel 0 which is 1 if fix is true.
func FixSeq(nt, nb, nc int, fix bool) *etensor.Float32 {
	sq := NewSeq(nt, nb, nc)
	if fix {
		for i := 0; i < nt*nb; i++ {
			sq.Values[i*nc] = 1
		}
	}
	return sq
}

// SetSeq sets value at time t, batch b, channel c
func SetSeq(sq *etensor.Float32, t, b, c int, val float32) {
	nb, nc := sq.Dim(1), sq.Dim(2)
	sq.Values[(t*nb+b)*nc+c] = val
}

// ConcatTime concatenates sequences with equal batch and channel sizes along time
func ConcatTime(sqs ...*etensor.Float32) (*etensor.Float32, error) {
	if len(sqs) == 0 {
		return nil, errors.New("tasks: nothing to concatenate")
	}
	nb, nc := sqs[0].Dim(1), sqs[0].Dim(2)
	nt := 0
	for i, sq := range sqs {
		if sq.Dim(1) != nb || sq.Dim(2) != nc {
			return nil, errors.Errorf("tasks: sequence %d has shape %v, expected [*, %d, %d]", i, sq.Shapes(), nb, nc)
		}
		nt += sq.Dim(0)
	}
	res := NewSeq(nt, nb, nc)
	off := 0
	for _, sq := range sqs {
		off += copy(res.Values[off:], sq.Values)
	}
	return res, nil
}

// ConcatenateBatches joins sequences of possibly different durations along
// the batch axis.  Shorter sequences are left-padded up to the longest one,
// so that all answer periods end on the last step.  With fix, padding
// steps have the fixation channel set to 1, otherwise they are all zero.
func ConcatenateBatches(ins, outs []*etensor.Float32, fix bool) (in, out *etensor.Float32, err error) {
	if len(ins) == 0 || len(ins) != len(outs) {
		return nil, nil, errors.Errorf("tasks: need equal, non-zero numbers of inputs (%d) and outputs (%d)", len(ins), len(outs))
	}
	maxT := 0
	nb := 0
	for i := range ins {
		if ins[i].Dim(0) != outs[i].Dim(0) || ins[i].Dim(1) != outs[i].Dim(1) {
			return nil, nil, errors.Errorf("tasks: input %v and output %v of element %d differ in time or batch", ins[i].Shapes(), outs[i].Shapes(), i)
		}
		if ins[i].Dim(2) != ins[0].Dim(2) || outs[i].Dim(2) != outs[0].Dim(2) {
			return nil, nil, errors.Errorf("tasks: element %d has %d / %d channels, expected %d / %d", i, ins[i].Dim(2), outs[i].Dim(2), ins[0].Dim(2), outs[0].Dim(2))
		}
		maxT = ints.MaxInt(maxT, ins[i].Dim(0))
		nb += ins[i].Dim(1)
	}
	in = FixSeq(maxT, nb, ins[0].Dim(2), fix)
	out = FixSeq(maxT, nb, outs[0].Dim(2), fix)
	boff := 0
	for i := range ins {
		padBatch(in, ins[i], boff)
		padBatch(out, outs[i], boff)
		boff += ins[i].Dim(1)
	}
	return in, out, nil
}

// padBatch copies src into dst at batch offset boff, aligned to the end of time
func padBatch(dst, src *etensor.Float32, boff int) {
	dnt, dnb, nc := dst.Dim(0), dst.Dim(1), dst.Dim(2)
	snt, snb := src.Dim(0), src.Dim(1)
	pad := dnt - snt
	for t := 0; t < snt; t++ {
		for b := 0; b < snb; b++ {
			di := ((t+pad)*dnb + boff + b) * nc
			si := (t*snb + b) * nc
			copy(dst.Values[di:di+nc], src.Values[si:si+nc])
		}
	}
}

// MakeDataset generates nTrials trials of the task, each preceded by
// delayBetween empty steps, concatenated along time.
// Empty steps hold fixation if the task has FixationDelay on.
func MakeDataset(tk Task, nTrials, delayBetween int) (in, out *etensor.Float32, err error) {
	if nTrials < 1 {
		return nil, nil, errors.Errorf("%s: number of trials must be at least 1: %d", tk.Name(), nTrials)
	}
	if delayBetween < 0 {
		return nil, nil, errors.Errorf("%s: delay between trials must not be negative: %d", tk.Name(), delayBetween)
	}
	ins := make([]*etensor.Float32, 0, 2*nTrials)
	outs := make([]*etensor.Float32, 0, 2*nTrials)
	var zin, zout *etensor.Float32
	for i := 0; i < nTrials; i++ {
		tin, tout, err := tk.OneDataset()
		if err != nil {
			return nil, nil, err
		}
		if zin == nil {
			zin = FixSeq(delayBetween, tin.Dim(1), tin.Dim(2), tk.FixationDelay())
			zout = FixSeq(delayBetween, tout.Dim(1), tout.Dim(2), tk.FixationDelay())
		}
		ins = append(ins, zin, tin)
		outs = append(outs, zout, tout)
	}
	if in, err = ConcatTime(ins...); err != nil {
		return nil, nil, errors.Wrap(err, tk.Name())
	}
	if out, err = ConcatTime(outs...); err != nil {
		return nil, nil, errors.Wrap(err, tk.Name())
	}
	return in, out, nil
}
