// Copyright (c) 2019, The Emergent Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package snn

import "github.com/cgtasknet/cgtasknet/lif"

// State is a snapshot of the dynamic state of a Network: neuron state of
// each layer, in layer order, and the filter output of the readout.
// It can be passed back to Network.Forward to continue a run, including
// the running time counters.
type State struct {
	Batch    int
	Layers   [][]lif.Neuron
	Readout  []float32
	CycleTot int
	Time     float32
}

// Clone returns a deep copy of the state
func (st *State) Clone() *State {
	cp := &State{Batch: st.Batch, CycleTot: st.CycleTot, Time: st.Time}
	cp.Layers = make([][]lif.Neuron, len(st.Layers))
	for li, ns := range st.Layers {
		cp.Layers[li] = make([]lif.Neuron, len(ns))
		copy(cp.Layers[li], ns)
	}
	cp.Readout = make([]float32, len(st.Readout))
	copy(cp.Readout, st.Readout)
	return cp
}

// Neuron returns the state of neuron ni of batch element bi in layer li
func (st *State) Neuron(li, bi, ni int) *lif.Neuron {
	ns := st.Layers[li]
	nn := len(ns) / st.Batch
	return &ns[bi*nn+ni]
}
