// Copyright (c) 2019, The Emergent Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

/*
Package lif provides leaky integrate-and-fire (LIF) spiking neuron dynamics,
integrated with a forward Euler step of size Dt:

	dv/dt = TauMemInv * ((VLeak - v) + i)
	di/dt = -TauSynInv * i

A spike is emitted when v exceeds the threshold, after which v is reset.
Synaptic input arriving on a step is added to the current i after the update,
so it first affects v on the following step.

Variants add an explicit refractory period (RefracParams) and an adaptive,
spike-triggered threshold (AdaptParams).
*/
package lif

// lif.Params are the parameters of the basic leaky integrate-and-fire neuron.
// Rates are given as inverse time constants, in 1/sec.
type Params struct {
	Dt        float32 `def:"0.001" desc:"integration time step in seconds"`
	TauSynInv float32 `def:"200" desc:"inverse synaptic time constant (1 / 5 msec)"`
	TauMemInv float32 `def:"100" desc:"inverse membrane time constant (1 / 10 msec)"`
	VLeak     float32 `def:"0" desc:"leak (resting) potential"`
	VTh       float32 `def:"1" desc:"spiking threshold"`
	VReset    float32 `def:"0" desc:"membrane potential right after a spike"`

	MemDt float32 `inactive:"+" view:"-" json:"-" xml:"-" yaml:"-" desc:"Dt * TauMemInv"`
	SynDt float32 `inactive:"+" view:"-" json:"-" xml:"-" yaml:"-" desc:"Dt * TauSynInv"`
}

func (lp *Params) Defaults() {
	lp.Dt = 0.001
	lp.TauSynInv = 1.0 / 5e-3
	lp.TauMemInv = 1.0 / 1e-2
	lp.VLeak = 0
	lp.VTh = 1
	lp.VReset = 0
	lp.Update()
}

// Update must be called after any changes to parameters
func (lp *Params) Update() {
	lp.MemDt = lp.Dt * lp.TauMemInv
	lp.SynDt = lp.Dt * lp.TauSynInv
}

// InitNeuron puts the neuron at rest
func (lp *Params) InitNeuron(nrn *Neuron) {
	nrn.Z = 0
	nrn.V = lp.VLeak
	nrn.I = 0
	nrn.Rho = 0
	nrn.B = lp.VTh
}

// Decay returns the decayed membrane potential and current for one step,
// without considering threshold crossing.
func (lp *Params) Decay(nrn *Neuron) (vd, id float32) {
	vd = nrn.V + lp.MemDt*((lp.VLeak-nrn.V)+nrn.I)
	id = nrn.I - lp.SynDt*nrn.I
	return
}

// Fire applies the threshold to decayed potential vd, setting Z and V.
func (lp *Params) Fire(nrn *Neuron, vd, thr float32) {
	if vd > thr {
		nrn.Z = 1
		nrn.V = lp.VReset
	} else {
		nrn.Z = 0
		nrn.V = vd
	}
}

// Step updates the neuron by one time step given synaptic input syn
// (sum of weighted input and recurrent spikes for this step).
func (lp *Params) Step(nrn *Neuron, syn float32) {
	vd, id := lp.Decay(nrn)
	lp.Fire(nrn, vd, lp.VTh)
	nrn.I = id + syn
}
