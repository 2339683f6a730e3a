// Copyright (c) 2019, The Emergent Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package lif

// AdaptParams are for the adaptive-threshold LIF neuron (ALIF, also known as LSNN):
// every spike raises the threshold B, which then relaxes back to VTh with time
// constant 1 / TauAdaptInv.
type AdaptParams struct {
	LIF         Params  `view:"inline" desc:"underlying leaky integrate-and-fire parameters"`
	TauAdaptInv float32 `def:"1.428" desc:"inverse adaptation time constant (1 / 700 msec)"`
	Beta        float32 `def:"1.8" desc:"threshold increment per spike, scaled by TauAdaptInv"`

	AdaptDt float32 `inactive:"+" view:"-" json:"-" xml:"-" yaml:"-" desc:"Dt * TauAdaptInv"`
}

func (ap *AdaptParams) Defaults() {
	ap.LIF.Defaults()
	ap.TauAdaptInv = 1.0 / 700e-3
	ap.Beta = 1.8
	ap.Update()
}

func (ap *AdaptParams) Update() {
	ap.LIF.Update()
	ap.AdaptDt = ap.LIF.Dt * ap.TauAdaptInv
}

func (ap *AdaptParams) InitNeuron(nrn *Neuron) {
	ap.LIF.InitNeuron(nrn)
}

// Step updates the neuron by one time step given synaptic input syn.
func (ap *AdaptParams) Step(nrn *Neuron, syn float32) {
	vd, id := ap.LIF.Decay(nrn)
	bd := nrn.B + ap.AdaptDt*(ap.LIF.VTh-nrn.B)
	ap.LIF.Fire(nrn, vd, bd)
	nrn.I = id + syn
	nrn.B = bd + nrn.Z*ap.TauAdaptInv*ap.Beta
}
