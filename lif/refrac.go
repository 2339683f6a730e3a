// Copyright (c) 2019, The Emergent Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package lif

import "github.com/chewxy/math32"

// RefracParams extend the LIF neuron with an explicit post-spike refractory period,
// during which Vm is held at its pre-step value and no spikes are emitted.
type RefracParams struct {
	LIF      Params  `view:"inline" desc:"underlying leaky integrate-and-fire parameters"`
	RhoReset float32 `def:"5" min:"1" desc:"refractory period in steps, counted down from this value after each spike"`
}

func (rp *RefracParams) Defaults() {
	rp.LIF.Defaults()
	rp.RhoReset = 5
}

func (rp *RefracParams) Update() {
	if rp.RhoReset < 0 {
		rp.RhoReset = 0
	}
	rp.LIF.Update()
}

func (rp *RefracParams) InitNeuron(nrn *Neuron) {
	rp.LIF.InitNeuron(nrn)
}

// Step updates the neuron by one time step given synaptic input syn.
// Current keeps integrating while refractory, only V and Z are masked.
func (rp *RefracParams) Step(nrn *Neuron, syn float32) {
	vprv := nrn.V
	refr := nrn.IsRefractory()
	rp.LIF.Step(nrn, syn)
	if refr {
		nrn.V = vprv
		nrn.Z = 0
	}
	if nrn.Z > 0 {
		nrn.Rho = rp.RhoReset
		return
	}
	if refr {
		nrn.Rho = math32.Max(nrn.Rho-1, 0)
	}
}
