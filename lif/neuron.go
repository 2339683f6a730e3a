// Copyright (c) 2019, The Emergent Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package lif

import (
	"fmt"
	"unsafe"

	"github.com/chewxy/math32"
)

// lif.Neuron holds the state variables of one leaky integrate-and-fire neuron.
// The same struct serves the plain, refractory and adaptive variants:
// variables a variant does not use stay at their initial value.
// All variables accessible via VarByName must be float32, in contiguous order.
type Neuron struct {

	// spike output on the current step (0 or 1)
	Z float32

	// membrane potential
	V float32

	// synaptic input current, integrates weighted spikes and decays with TauSynInv
	I float32

	// refractory counter in steps: > 0 means the neuron cannot fire and V is held
	Rho float32

	// adaptive firing threshold, decays toward VTh and jumps after every spike
	B float32
}

var NeuronVars = []string{"Z", "V", "I", "Rho", "B"}

var NeuronVarsMap map[string]int

func init() {
	NeuronVarsMap = make(map[string]int, len(NeuronVars))
	for i, v := range NeuronVars {
		NeuronVarsMap[v] = i
	}
}

func (nrn *Neuron) VarNames() []string {
	return NeuronVars
}

// NeuronVarIdxByName returns the index of the variable in the Neuron, or error
func NeuronVarIdxByName(varNm string) (int, error) {
	i, ok := NeuronVarsMap[varNm]
	if !ok {
		return -1, fmt.Errorf("Neuron VarByName: variable name: %v not valid", varNm)
	}
	return i, nil
}

// VarByIndex returns variable using index (0 = first variable in NeuronVars list)
func (nrn *Neuron) VarByIndex(idx int) float32 {
	fv := (*float32)(unsafe.Pointer(uintptr(unsafe.Pointer(nrn)) + uintptr(4*idx)))
	return *fv
}

// VarByName returns variable by name, or error
func (nrn *Neuron) VarByName(varNm string) (float32, error) {
	i, err := NeuronVarIdxByName(varNm)
	if err != nil {
		return math32.NaN(), err
	}
	return nrn.VarByIndex(i), nil
}

// Spiked returns true if the neuron fired on the last step
func (nrn *Neuron) Spiked() bool {
	return nrn.Z > 0
}

// IsRefractory returns true while the refractory counter is running
func (nrn *Neuron) IsRefractory() bool {
	return nrn.Rho > 0
}
