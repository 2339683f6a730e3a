// Copyright (c) 2019, The Emergent Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package snn

import (
	"fmt"

	"github.com/cgtasknet/cgtasknet/lif"
	"github.com/goki/ki/kit"
)

// ModelTypes are the available spiking network architectures
type ModelTypes int

//go:generate stringer -type=ModelTypes

var KiT_ModelTypes = kit.Enums.AddEnum(ModelTypesN, false, nil)

func (ev ModelTypes) MarshalJSON() ([]byte, error)  { return kit.EnumMarshalJSON(ev) }
func (ev *ModelTypes) UnmarshalJSON(b []byte) error { return kit.EnumUnmarshalJSON(ev, b) }

const (
	// LIF is one recurrent layer of leaky integrate-and-fire neurons with an exponential filter readout
	LIF ModelTypes = iota

	// LIFRefrac is one recurrent layer of LIF neurons with a refractory period, with an exponential filter readout
	LIFRefrac

	// ALIF is a recurrent LIF layer with 60% of the hidden units feeding a recurrent
	// adaptive-threshold layer with 40% of the hidden units, with an exponential filter readout
	ALIF

	ModelTypesN
)

// ALIF layer size proportions
const (
	ALIFLIFProp   = 0.6
	ALIFAdaptProp = 0.4
)

// DefaultParams returns the neuron parameters type used by the model,
// set to defaults: *lif.Params, *lif.RefracParams or *lif.AdaptParams
func (ev ModelTypes) DefaultParams() interface{} {
	switch ev {
	case LIF:
		p := &lif.Params{}
		p.Defaults()
		return p
	case LIFRefrac:
		p := &lif.RefracParams{}
		p.Defaults()
		return p
	case ALIF:
		p := &lif.AdaptParams{}
		p.Defaults()
		return p
	}
	return nil
}

// StateVars returns the neuron state variables that the model uses
func (ev ModelTypes) StateVars() []string {
	switch ev {
	case LIFRefrac:
		return []string{"Z", "V", "I", "Rho"}
	case ALIF:
		return []string{"Z", "V", "I", "B"}
	}
	return []string{"Z", "V", "I"}
}

func checkSizes(nfeat, nhid, nout int) error {
	if nfeat <= 0 || nhid <= 0 || nout <= 0 {
		return fmt.Errorf("snn: sizes must be positive: features: %d hidden: %d outputs: %d", nfeat, nhid, nout)
	}
	return nil
}

// NewLIF returns a network with one recurrent LIF layer of nhid neurons
// read out to nout outputs.  Nil params means defaults.
func NewLIF(nfeat, nhid, nout int, p *lif.Params) (*Network, error) {
	if err := checkSizes(nfeat, nhid, nout); err != nil {
		return nil, err
	}
	nt := NewNetwork("SNNLif", LIF, nfeat, nout)
	ly := &LIFLayer{}
	ly.Config("LIF", nfeat, nhid)
	ly.Defaults()
	if p != nil {
		ly.LIF = *p
		ly.LIF.Update()
	}
	nt.AddLayer(ly)
	nt.SetReadout(nhid, ly.LIF.Dt)
	nt.InitWts(DefaultSeed)
	return nt, nil
}

// NewLIFRefrac returns a network with one recurrent layer of LIF neurons
// with refractory period.  Nil params means defaults.
func NewLIFRefrac(nfeat, nhid, nout int, p *lif.RefracParams) (*Network, error) {
	if err := checkSizes(nfeat, nhid, nout); err != nil {
		return nil, err
	}
	nt := NewNetwork("SNNLifRefrac", LIFRefrac, nfeat, nout)
	ly := &RefracLayer{}
	ly.Config("LIFRefrac", nfeat, nhid)
	ly.Defaults()
	if p != nil {
		ly.Refrac = *p
		ly.Refrac.Update()
	}
	nt.AddLayer(ly)
	nt.SetReadout(nhid, ly.Refrac.LIF.Dt)
	nt.InitWts(DefaultSeed)
	return nt, nil
}

// NewALIF returns a network with a recurrent LIF layer of 0.6 * nhid neurons
// driving a recurrent adaptive layer of 0.4 * nhid neurons, which is read out.
// The LIF layer uses p.LIF.  Nil params means defaults.
func NewALIF(nfeat, nhid, nout int, p *lif.AdaptParams) (*Network, error) {
	if err := checkSizes(nfeat, nhid, nout); err != nil {
		return nil, err
	}
	nlif := int(float64(nhid) * ALIFLIFProp)
	nada := int(float64(nhid) * ALIFAdaptProp)
	if nlif == 0 || nada == 0 {
		return nil, fmt.Errorf("snn: hidden size %d too small for ALIF layers (%d LIF, %d adaptive)", nhid, nlif, nada)
	}
	nt := NewNetwork("SNNAlif", ALIF, nfeat, nout)
	lly := &LIFLayer{}
	lly.Config("LIF", nfeat, nlif)
	lly.Defaults()
	aly := &AdaptLayer{}
	aly.Config("ALIF", nlif, nada)
	aly.Defaults()
	if p != nil {
		aly.Adapt = *p
		aly.Adapt.Update()
		lly.LIF = p.LIF
		lly.LIF.Update()
	}
	nt.AddLayer(lly)
	nt.AddLayer(aly)
	nt.SetReadout(nada, aly.Adapt.LIF.Dt)
	nt.InitWts(DefaultSeed)
	return nt, nil
}

// New returns a network of given type with default neuron parameters
func New(typ ModelTypes, nfeat, nhid, nout int) (*Network, error) {
	switch typ {
	case LIF:
		return NewLIF(nfeat, nhid, nout, nil)
	case LIFRefrac:
		return NewLIFRefrac(nfeat, nhid, nout, nil)
	case ALIF:
		return NewALIF(nfeat, nhid, nout, nil)
	}
	return nil, fmt.Errorf("snn: unknown model type: %v", typ)
}
