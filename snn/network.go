// Copyright (c) 2019, The Emergent Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

/*
Package snn provides recurrent spiking neural networks built from the
lif neuron types, read out through an exponentially filtered linear layer.

Networks consume input sequences as etensor.Float32 of shape
[Time, Batch, Features] and produce [Time, Batch, Outputs].
*/
package snn

import (
	"fmt"
	"strings"
	"unsafe"

	"github.com/c2h5oh/datasize"
	"github.com/cgtasknet/cgtasknet/lif"
	"github.com/emer/emergent/params"
	"github.com/emer/etable/etensor"
	"golang.org/x/exp/rand"
)

// DefaultSeed is the random seed used to initialize weights in the constructors
const DefaultSeed = 1

// SeqDims are the dimension names of input and output sequence tensors
var SeqDims = []string{"Time", "Batch", "Chan"}

// snn.Network is a feedforward stack of recurrent spiking layers
// followed by an exponential filter readout.
type Network struct {
	Nm         string     `desc:"overall name of network"`
	Type       ModelTypes `inactive:"+" desc:"architecture of this network"`
	NFeat      int        `inactive:"+" desc:"number of input features"`
	NOut       int        `inactive:"+" desc:"number of outputs"`
	Layers     []Layer    `desc:"spiking layers, in processing order"`
	Readout    *Readout   `desc:"exponential filter readout of the last layer"`
	SaveStates bool       `desc:"if true, Forward returns the state after every step instead of only the final one"`
	Time       Time       `view:"inline" desc:"timing state"`
}

// NewNetwork returns a new network without layers
func NewNetwork(name string, typ ModelTypes, nfeat, nout int) *Network {
	nt := &Network{Nm: name, Type: typ, NFeat: nfeat, NOut: nout}
	nt.Time.Defaults()
	return nt
}

func (nt *Network) Name() string { return nt.Nm }

// AddLayer appends a layer
func (nt *Network) AddLayer(ly Layer) {
	nt.Layers = append(nt.Layers, ly)
}

// SetReadout creates the readout from the last layer of nin neurons
func (nt *Network) SetReadout(nin int, dt float32) {
	nt.Readout = NewReadout("ExpFilter", nin, nt.NOut)
	nt.Readout.Dt = dt
	nt.Readout.Update()
	nt.Time.TimePerCyc = dt
}

// LayerByName returns layer of given name, or error
func (nt *Network) LayerByName(name string) (Layer, error) {
	for _, ly := range nt.Layers {
		if ly.Name() == name {
			return ly, nil
		}
	}
	return nil, fmt.Errorf("network %s: layer named: %s not found", nt.Nm, name)
}

// Defaults sets all the default parameters for all layers and the readout
func (nt *Network) Defaults() {
	for _, ly := range nt.Layers {
		ly.Defaults()
	}
	nt.Readout.Defaults()
}

// UpdateParams updates all the derived parameters if any have changed, for all layers
func (nt *Network) UpdateParams() {
	for _, ly := range nt.Layers {
		ly.UpdateParams()
	}
	nt.Readout.Update()
}

// ApplyParams applies given parameter style Sheet to layers and readout.
// Returns true if any params were set, and error if there were any errors.
// If setMsg is true, then a message is printed to confirm each parameter that is set.
func (nt *Network) ApplyParams(pars *params.Sheet, setMsg bool) (bool, error) {
	applied := false
	var rerr error
	for _, ly := range nt.Layers {
		app, err := pars.Apply(ly, setMsg)
		if app {
			ly.UpdateParams()
			applied = true
		}
		if err != nil {
			rerr = err
		}
	}
	app, err := pars.Apply(nt.Readout, setMsg)
	if app {
		nt.Readout.Update()
		nt.Time.TimePerCyc = nt.Readout.Dt
		applied = true
	}
	if err != nil {
		rerr = err
	}
	return applied, rerr
}

// InitWts initializes all weights from a source with given seed
func (nt *Network) InitWts(seed uint64) {
	src := rand.NewSource(seed)
	for _, ly := range nt.Layers {
		ly.AsBase().InitWts(src)
	}
	nt.Readout.InitWts(src)
}

// InitState initializes neuron and filter state for given batch size
func (nt *Network) InitState(batch int) {
	for _, ly := range nt.Layers {
		ly.InitState(batch)
	}
	nt.Readout.InitState(batch)
	nt.Time.Reset()
}

// State returns a copy of the current state
func (nt *Network) State() *State {
	st := &State{Batch: nt.Readout.Batch, CycleTot: nt.Time.CycleTot, Time: nt.Time.Time}
	st.Layers = make([][]lif.Neuron, len(nt.Layers))
	for li, ly := range nt.Layers {
		st.Layers[li] = ly.AsBase().State()
	}
	st.Readout = make([]float32, len(nt.Readout.Out))
	copy(st.Readout, nt.Readout.Out)
	return st
}

// SetState restores the network to a state returned by State or Forward.
// Network must already be initialized for the state's batch size.
func (nt *Network) SetState(st *State) error {
	if len(st.Layers) != len(nt.Layers) {
		return fmt.Errorf("network %s: state has %d layers, network has %d", nt.Nm, len(st.Layers), len(nt.Layers))
	}
	for li, ly := range nt.Layers {
		if err := ly.AsBase().SetState(st.Layers[li]); err != nil {
			return err
		}
	}
	nt.Time.CycleTot = st.CycleTot
	nt.Time.Time = st.Time
	return nt.Readout.SetState(st.Readout)
}

// Forward runs the network over input sequence x of shape [Time, Batch, NFeat],
// returning the readout of shape [Time, Batch, NOut] and the states:
// the final state only, or one per step if SaveStates is set.
// If st is non-nil the run continues from that state, otherwise
// it starts from the initial state.
func (nt *Network) Forward(x *etensor.Float32, st *State) (*etensor.Float32, []*State, error) {
	if x.NumDims() != 3 {
		return nil, nil, fmt.Errorf("network %s: input must be [Time, Batch, Features], has shape: %v", nt.Nm, x.Shapes())
	}
	nT, nB, nF := x.Dim(0), x.Dim(1), x.Dim(2)
	if nF != nt.NFeat {
		return nil, nil, fmt.Errorf("network %s: input has %d features, network expects %d", nt.Nm, nF, nt.NFeat)
	}
	nt.InitState(nB)
	if st != nil {
		if st.Batch != nB {
			return nil, nil, fmt.Errorf("network %s: state batch size %d does not match input batch size %d", nt.Nm, st.Batch, nB)
		}
		if err := nt.SetState(st); err != nil {
			return nil, nil, err
		}
	}

	out := etensor.NewFloat32([]int{nT, nB, nt.NOut}, nil, SeqDims)
	spk := make([][]float32, len(nt.Layers))
	for li, ly := range nt.Layers {
		spk[li] = make([]float32, nB*ly.NNeurons())
	}
	var states []*State
	if nt.SaveStates {
		states = make([]*State, 0, nT)
	}
	inSz := nB * nF
	outSz := nB * nt.NOut
	nt.Time.SeqStart()
	for t := 0; t < nT; t++ {
		in := x.Values[t*inSz : (t+1)*inSz]
		for li, ly := range nt.Layers {
			ly.Cycle(in, spk[li])
			in = spk[li]
		}
		nt.Readout.Cycle(in, out.Values[t*outSz:(t+1)*outSz])
		nt.Time.CycleInc()
		if nt.SaveStates {
			states = append(states, nt.State())
		}
	}
	if !nt.SaveStates {
		states = []*State{nt.State()}
	}
	return out, states, nil
}

// SizeReport returns a string reporting the size of
// each layer and projection in the network, and total memory footprint.
func (nt *Network) SizeReport() string {
	var b strings.Builder
	neur := 0
	neurMem := 0
	syn := 0
	synMem := 0
	for _, ly := range nt.Layers {
		lb := ly.AsBase()
		nn := len(lb.Neurons)
		neur += lb.N
		nmem := nn * int(unsafe.Sizeof(lif.Neuron{}))
		neurMem += nmem
		ns := lb.Input.NWts() + lb.Recur.NWts()
		syn += ns
		pmem := ns * 8
		synMem += pmem
		fmt.Fprintf(&b, "%14s:\t Neurons: %d\t NeurMem: %v \t Syns: %d \t SynMem: %v\n", lb.Nm, lb.N, (datasize.ByteSize)(nmem).HumanReadable(), ns, (datasize.ByteSize)(pmem).HumanReadable())
	}
	ns := nt.Readout.Prjn.NWts() + len(nt.Readout.BiasWts)
	syn += ns
	synMem += ns * 8
	fmt.Fprintf(&b, "%14s:\t Outputs: %d\t Syns: %d \t SynMem: %v\n", nt.Readout.Nm, nt.NOut, ns, (datasize.ByteSize)(ns*8).HumanReadable())
	fmt.Fprintf(&b, "\n\n%14s:\t Neurons: %d\t NeurMem: %v \t Syns: %d \t SynMem: %v\n", nt.Nm, neur, (datasize.ByteSize)(neurMem).HumanReadable(), syn, (datasize.ByteSize)(synMem).HumanReadable())
	return b.String()
}
