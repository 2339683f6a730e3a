// Copyright (c) 2019, The Emergent Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package snn

import (
	"fmt"

	"github.com/chewxy/math32"
	"github.com/goki/mat32"
	"golang.org/x/exp/rand"
	"gonum.org/v1/gonum/stat/distuv"
)

// DefaultTauFilterInv gives a per-step decay of 0.8 at Dt = 1 msec: -ln(0.8) / 0.001
const DefaultTauFilterInv = 223.1435511314

// Readout is a linear readout of spikes followed by an exponential filter:
//
//	y_t   = W z_t + bias
//	out_0 = y_0
//	out_t = decay * out_{t-1} + y_t,  decay = exp(-Dt * TauFilterInv)
type Readout struct {
	Nm           string    `desc:"name of the readout"`
	Dt           float32   `def:"0.001" desc:"integration time step in seconds"`
	TauFilterInv float32   `def:"223.1435511314" desc:"inverse time constant of the output filter"`
	Bias         bool      `def:"true" desc:"use a bias term"`
	Prjn         *Prjn     `desc:"linear readout weights, [NOut x NIn]"`
	BiasWts      []float32 `view:"-" desc:"bias weights, [NOut]"`
	Batch        int       `inactive:"+" desc:"current batch size"`
	Out          []float32 `view:"-" desc:"filtered output of the last step, [Batch * NOut]"`

	Decay float32 `inactive:"+" view:"-" json:"-" xml:"-" desc:"exp(-Dt * TauFilterInv)"`

	started bool
	y       []float32
}

// NewReadout returns a readout from nin spiking units to nout outputs
func NewReadout(name string, nin, nout int) *Readout {
	ro := &Readout{Nm: name}
	ro.Prjn = NewPrjn(nin, nout, false)
	ro.Prjn.Build()
	ro.BiasWts = make([]float32, nout)
	ro.Defaults()
	return ro
}

func (ro *Readout) Name() string     { return ro.Nm }
func (ro *Readout) TypeName() string { return "Readout" }
func (ro *Readout) Class() string    { return "ExpFilter" }

func (ro *Readout) NIn() int  { return ro.Prjn.NSend }
func (ro *Readout) NOut() int { return ro.Prjn.NRecv }

func (ro *Readout) Defaults() {
	ro.Dt = 0.001
	ro.TauFilterInv = DefaultTauFilterInv
	ro.Bias = true
	ro.Update()
}

func (ro *Readout) Update() {
	ro.Decay = mat32.Exp(-ro.Dt * ro.TauFilterInv)
}

// InitWts draws weights and biases uniformly in +/- 1 / sqrt(NIn)
func (ro *Readout) InitWts(src rand.Source) {
	lim := float64(1 / math32.Sqrt(float32(ro.NIn())))
	dist := distuv.Uniform{Min: -lim, Max: lim, Src: src}
	wts := ro.Prjn.Wts
	for ri := 0; ri < ro.NOut(); ri++ {
		for si := 0; si < ro.NIn(); si++ {
			wts.Set(ri, si, dist.Rand())
		}
	}
	for i := range ro.BiasWts {
		if ro.Bias {
			ro.BiasWts[i] = float32(dist.Rand())
		} else {
			ro.BiasWts[i] = 0
		}
	}
}

// InitState resets the filter for given batch size
func (ro *Readout) InitState(batch int) {
	ro.Batch = batch
	no := batch * ro.NOut()
	if cap(ro.Out) >= no {
		ro.Out = ro.Out[:no]
		ro.y = ro.y[:no]
	} else {
		ro.Out = make([]float32, no)
		ro.y = make([]float32, no)
	}
	ro.started = false
}

// SetState restores the filter output from a previous run, so that the
// next Cycle continues the filter instead of starting it.
func (ro *Readout) SetState(out []float32) error {
	if len(out) != len(ro.Out) {
		return fmt.Errorf("readout %s: state has %d values, expected %d", ro.Nm, len(out), len(ro.Out))
	}
	copy(ro.Out, out)
	ro.started = true
	return nil
}

// Cycle filters the spikes z [Batch * NIn] for one step, writing
// the result into out [Batch * NOut].
func (ro *Readout) Cycle(z []float32, out []float32) {
	no := ro.NOut()
	for i := range ro.y {
		ro.y[i] = ro.BiasWts[i%no]
	}
	ro.Prjn.SendSyn(z, ro.Batch, ro.y)
	if !ro.started {
		copy(ro.Out, ro.y)
		ro.started = true
	} else {
		for i, y := range ro.y {
			ro.Out[i] = ro.Decay*ro.Out[i] + y
		}
	}
	copy(out, ro.Out)
}
