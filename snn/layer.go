// Copyright (c) 2019, The Emergent Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package snn

import (
	"fmt"

	"github.com/cgtasknet/cgtasknet/lif"
	"golang.org/x/exp/rand"
)

// Layer is a recurrent population of spiking neurons receiving
// a feedforward input projection and a recurrent projection from itself.
type Layer interface {
	// Name returns the layer name
	Name() string

	// TypeName is the params selector type name, always "Layer"
	TypeName() string

	// Class is the params selector class, the neuron type of the layer
	Class() string

	// NIn returns the number of input units
	NIn() int

	// NNeurons returns the number of neurons in the layer
	NNeurons() int

	// AsBase returns the shared layer structure
	AsBase() *LayerBase

	// Defaults sets default parameters
	Defaults()

	// UpdateParams must be called after any changes to parameters
	UpdateParams()

	// InitState initializes neuron state for given batch size
	InitState(batch int)

	// Cycle runs one time step for the whole batch: in is [batch * NIn]
	// and spikes are written into out [batch * NNeurons].
	Cycle(in []float32, out []float32)
}

// LayerBase holds the structure shared by all layer types
type LayerBase struct {
	Nm      string       `desc:"name of the layer"`
	In      int          `inactive:"+" desc:"number of input units"`
	N       int          `inactive:"+" desc:"number of neurons"`
	Batch   int          `inactive:"+" desc:"current batch size"`
	Input   *Prjn        `desc:"feedforward projection from the input"`
	Recur   *Prjn        `desc:"recurrent projection onto itself"`
	Neurons []lif.Neuron `view:"-" desc:"neuron state, [Batch * N]"`

	spk []float32
	syn []float32
}

func (ly *LayerBase) Name() string       { return ly.Nm }
func (ly *LayerBase) TypeName() string   { return "Layer" }
func (ly *LayerBase) NIn() int           { return ly.In }
func (ly *LayerBase) NNeurons() int      { return ly.N }
func (ly *LayerBase) AsBase() *LayerBase { return ly }

// Config sets the size and allocates projections
func (ly *LayerBase) Config(name string, nin, n int) {
	ly.Nm = name
	ly.In = nin
	ly.N = n
	ly.Input = NewPrjn(nin, n, false)
	ly.Recur = NewPrjn(n, n, true)
	ly.Input.Build()
	ly.Recur.Build()
}

// InitWts initializes both projections from given source
func (ly *LayerBase) InitWts(src rand.Source) {
	ly.Input.InitWts(src)
	ly.Recur.InitWts(src)
}

// allocState sizes state buffers for given batch
func (ly *LayerBase) allocState(batch int) {
	nn := batch * ly.N
	ly.Batch = batch
	if cap(ly.Neurons) >= nn {
		ly.Neurons = ly.Neurons[:nn]
	} else {
		ly.Neurons = make([]lif.Neuron, nn)
	}
	if cap(ly.spk) >= nn {
		ly.spk = ly.spk[:nn]
		ly.syn = ly.syn[:nn]
	} else {
		ly.spk = make([]float32, nn)
		ly.syn = make([]float32, nn)
	}
}

// SynFmInputs computes this step's synaptic input from the
// input and the spikes of the previous step.
func (ly *LayerBase) SynFmInputs(in []float32) []float32 {
	for i := range ly.syn {
		ly.syn[i] = 0
	}
	for i := range ly.Neurons {
		ly.spk[i] = ly.Neurons[i].Z
	}
	ly.Input.SendSyn(in, ly.Batch, ly.syn)
	ly.Recur.SendSyn(ly.spk, ly.Batch, ly.syn)
	return ly.syn
}

// SpikesOut copies current spikes into out
func (ly *LayerBase) SpikesOut(out []float32) {
	for i := range ly.Neurons {
		out[i] = ly.Neurons[i].Z
	}
}

// State returns a copy of the neuron state
func (ly *LayerBase) State() []lif.Neuron {
	st := make([]lif.Neuron, len(ly.Neurons))
	copy(st, ly.Neurons)
	return st
}

// SetState restores neuron state from a copy made by State
func (ly *LayerBase) SetState(st []lif.Neuron) error {
	if len(st) != len(ly.Neurons) {
		return fmt.Errorf("layer %s: state has %d neurons, layer has %d (batch %d)", ly.Nm, len(st), len(ly.Neurons), ly.Batch)
	}
	copy(ly.Neurons, st)
	return nil
}

// MeanVar returns the mean of the given neuron variable over the batch and layer
func (ly *LayerBase) MeanVar(varNm string) (float32, error) {
	idx, err := lif.NeuronVarIdxByName(varNm)
	if err != nil {
		return 0, err
	}
	if len(ly.Neurons) == 0 {
		return 0, nil
	}
	var sum float32
	for i := range ly.Neurons {
		sum += ly.Neurons[i].VarByIndex(idx)
	}
	return sum / float32(len(ly.Neurons)), nil
}

//////////////////////////////////////////////////////////////////////////////////////
//  LIFLayer

// LIFLayer is a recurrent layer of plain leaky integrate-and-fire neurons
type LIFLayer struct {
	LayerBase
	LIF lif.Params `view:"inline" desc:"neuron parameters"`
}

func (ly *LIFLayer) Class() string { return "LIF" }

func (ly *LIFLayer) Defaults() {
	ly.LIF.Defaults()
	ly.Input.Defaults()
	ly.Recur.Defaults()
}

func (ly *LIFLayer) UpdateParams() {
	ly.LIF.Update()
}

func (ly *LIFLayer) InitState(batch int) {
	ly.allocState(batch)
	for i := range ly.Neurons {
		ly.LIF.InitNeuron(&ly.Neurons[i])
	}
}

func (ly *LIFLayer) Cycle(in []float32, out []float32) {
	syn := ly.SynFmInputs(in)
	for i := range ly.Neurons {
		ly.LIF.Step(&ly.Neurons[i], syn[i])
	}
	ly.SpikesOut(out)
}

//////////////////////////////////////////////////////////////////////////////////////
//  RefracLayer

// RefracLayer is a recurrent layer of LIF neurons with a refractory period
type RefracLayer struct {
	LayerBase
	Refrac lif.RefracParams `view:"inline" desc:"neuron parameters"`
}

func (ly *RefracLayer) Class() string { return "LIFRefrac" }

func (ly *RefracLayer) Defaults() {
	ly.Refrac.Defaults()
	ly.Input.Defaults()
	ly.Recur.Defaults()
}

func (ly *RefracLayer) UpdateParams() {
	ly.Refrac.Update()
}

func (ly *RefracLayer) InitState(batch int) {
	ly.allocState(batch)
	for i := range ly.Neurons {
		ly.Refrac.InitNeuron(&ly.Neurons[i])
	}
}

func (ly *RefracLayer) Cycle(in []float32, out []float32) {
	syn := ly.SynFmInputs(in)
	for i := range ly.Neurons {
		ly.Refrac.Step(&ly.Neurons[i], syn[i])
	}
	ly.SpikesOut(out)
}

//////////////////////////////////////////////////////////////////////////////////////
//  AdaptLayer

// AdaptLayer is a recurrent layer of adaptive-threshold LIF (ALIF) neurons
type AdaptLayer struct {
	LayerBase
	Adapt lif.AdaptParams `view:"inline" desc:"neuron parameters"`
}

func (ly *AdaptLayer) Class() string { return "ALIF" }

func (ly *AdaptLayer) Defaults() {
	ly.Adapt.Defaults()
	ly.Input.Defaults()
	ly.Recur.Defaults()
}

func (ly *AdaptLayer) UpdateParams() {
	ly.Adapt.Update()
}

func (ly *AdaptLayer) InitState(batch int) {
	ly.allocState(batch)
	for i := range ly.Neurons {
		ly.Adapt.InitNeuron(&ly.Neurons[i])
	}
}

func (ly *AdaptLayer) Cycle(in []float32, out []float32) {
	syn := ly.SynFmInputs(in)
	for i := range ly.Neurons {
		ly.Adapt.Step(&ly.Neurons[i], syn[i])
	}
	ly.SpikesOut(out)
}
