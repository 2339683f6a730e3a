// Copyright (c) 2019, The Emergent Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package snn

import (
	"strings"
	"testing"

	"github.com/cgtasknet/cgtasknet/lif"
	"github.com/chewxy/math32"
	"github.com/emer/emergent/params"
	"github.com/emer/etable/etensor"
	"github.com/google/go-cmp/cmp"
)

// difTol is the numerical difference tolerance for comparing vs. target values
const difTol = float32(1.0e-5)

// testInput returns a [nt, nb, nf] input with strong periodic drive
func testInput(nt, nb, nf int) *etensor.Float32 {
	x := etensor.NewFloat32([]int{nt, nb, nf}, nil, SeqDims)
	for t := 0; t < nt; t++ {
		for b := 0; b < nb; b++ {
			for f := 0; f < nf; f++ {
				if (t+b+f)%3 == 0 {
					x.Values[(t*nb+b)*nf+f] = 5
				}
			}
		}
	}
	return x
}

func TestForwardShapes(t *testing.T) {
	for typ := LIF; typ < ModelTypesN; typ++ {
		nt, err := New(typ, 5, 20, 3)
		if err != nil {
			t.Fatal(err)
		}
		out, sts, err := nt.Forward(testInput(10, 4, 5), nil)
		if err != nil {
			t.Fatal(err)
		}
		if diff := cmp.Diff([]int{10, 4, 3}, out.Shapes()); diff != "" {
			t.Errorf("%v output shape mismatch (-want +got):\n%s", typ, diff)
		}
		if len(sts) != 1 {
			t.Errorf("%v expected one final state, got: %d", typ, len(sts))
		}

		nt.SaveStates = true
		_, sts, err = nt.Forward(testInput(10, 4, 5), nil)
		if err != nil {
			t.Fatal(err)
		}
		if len(sts) != 10 {
			t.Errorf("%v expected a state per step, got: %d", typ, len(sts))
		}
		for _, st := range sts {
			if st.Batch != 4 || len(st.Layers) != len(nt.Layers) {
				t.Errorf("%v bad state: batch: %d layers: %d", typ, st.Batch, len(st.Layers))
			}
		}
	}
}

func TestZeroInputFiltersBias(t *testing.T) {
	nt, err := NewLIF(2, 8, 2, nil)
	if err != nil {
		t.Fatal(err)
	}
	x := etensor.NewFloat32([]int{5, 1, 2}, nil, SeqDims)
	out, _, err := nt.Forward(x, nil)
	if err != nil {
		t.Fatal(err)
	}
	for o := 0; o < 2; o++ {
		bias := nt.Readout.BiasWts[o]
		cor := float32(0)
		for st := 0; st < 5; st++ {
			cor = nt.Readout.Decay*cor + bias
			v := out.Value([]int{st, 0, o})
			if math32.Abs(v-cor) > difTol {
				t.Errorf("out: %d step: %d val: %v cor: %v", o, st, v, cor)
			}
		}
	}
	if math32.Abs(nt.Readout.Decay-0.8) > difTol {
		t.Errorf("default filter decay should be 0.8, got: %v", nt.Readout.Decay)
	}
}

func TestForwardContinuesState(t *testing.T) {
	for typ := LIF; typ < ModelTypesN; typ++ {
		nt, err := New(typ, 3, 10, 2)
		if err != nil {
			t.Fatal(err)
		}
		x := testInput(20, 2, 3)
		full, _, err := nt.Forward(x, nil)
		if err != nil {
			t.Fatal(err)
		}

		x1 := etensor.NewFloat32([]int{10, 2, 3}, nil, SeqDims)
		x2 := etensor.NewFloat32([]int{10, 2, 3}, nil, SeqDims)
		half := len(x.Values) / 2
		copy(x1.Values, x.Values[:half])
		copy(x2.Values, x.Values[half:])
		out1, sts, err := nt.Forward(x1, nil)
		if err != nil {
			t.Fatal(err)
		}
		out2, sts2, err := nt.Forward(x2, sts[0])
		if err != nil {
			t.Fatal(err)
		}
		if sts[0].CycleTot != 10 || sts2[0].CycleTot != 20 || nt.Time.CycleTot != 20 {
			t.Errorf("%v cycles: %d, %d, network %d, expected 10, 20, 20", typ, sts[0].CycleTot, sts2[0].CycleTot, nt.Time.CycleTot)
		}
		if math32.Abs(nt.Time.Time-0.02) > difTol || nt.Time.Cycle != 10 {
			t.Errorf("%v time: %v cycle %d, expected 0.02 and 10", typ, nt.Time.Time, nt.Time.Cycle)
		}
		got := append(append([]float32{}, out1.Values...), out2.Values...)
		if diff := cmp.Diff(full.Values, got); diff != "" {
			t.Errorf("%v split run differs from full run (-full +split):\n%s", typ, diff)
		}
	}
}

func TestSpikesOccur(t *testing.T) {
	nt, err := NewLIF(3, 10, 2, nil)
	if err != nil {
		t.Fatal(err)
	}
	nt.SaveStates = true
	_, sts, err := nt.Forward(testInput(50, 2, 3), nil)
	if err != nil {
		t.Fatal(err)
	}
	nspk := 0
	for _, st := range sts {
		for _, nrn := range st.Layers[0] {
			if nrn.Spiked() {
				nspk++
			}
		}
	}
	if nspk == 0 {
		t.Errorf("expected some spikes with strong input")
	}
}

func TestForwardErrors(t *testing.T) {
	nt, err := NewLIF(3, 10, 2, nil)
	if err != nil {
		t.Fatal(err)
	}
	if _, _, err := nt.Forward(testInput(5, 2, 4), nil); err == nil {
		t.Errorf("expected feature size error")
	}
	x := etensor.NewFloat32([]int{5, 3}, nil, nil)
	if _, _, err := nt.Forward(x, nil); err == nil {
		t.Errorf("expected dims error")
	}
	_, sts, err := nt.Forward(testInput(5, 2, 3), nil)
	if err != nil {
		t.Fatal(err)
	}
	if _, _, err := nt.Forward(testInput(5, 4, 3), sts[0]); err == nil {
		t.Errorf("expected batch mismatch error")
	}
}

func TestRecurNoAutapses(t *testing.T) {
	nt, err := NewLIF(3, 10, 2, nil)
	if err != nil {
		t.Fatal(err)
	}
	rc := nt.Layers[0].AsBase().Recur
	for i := 0; i < rc.NRecv; i++ {
		if rc.Wts.At(i, i) != 0 {
			t.Errorf("self connection %d should be zero: %v", i, rc.Wts.At(i, i))
		}
	}
}

func TestALIFSizes(t *testing.T) {
	nt, err := NewALIF(100, 100, 10, nil)
	if err != nil {
		t.Fatal(err)
	}
	if len(nt.Layers) != 2 {
		t.Fatalf("expected 2 layers, got: %d", len(nt.Layers))
	}
	if nt.Layers[0].NNeurons() != 60 || nt.Layers[1].NNeurons() != 40 {
		t.Errorf("layer sizes: %d %d", nt.Layers[0].NNeurons(), nt.Layers[1].NNeurons())
	}
	if nt.Layers[1].NIn() != 60 || nt.Readout.NIn() != 40 {
		t.Errorf("connectivity sizes: %d %d", nt.Layers[1].NIn(), nt.Readout.NIn())
	}
	if _, err := NewALIF(3, 1, 2, nil); err == nil {
		t.Errorf("expected error for too small hidden size")
	}
	if _, err := New(LIF, 0, 10, 2); err == nil {
		t.Errorf("expected error for zero features")
	}
}

func TestApplyParams(t *testing.T) {
	nt, err := NewALIF(3, 10, 2, nil)
	if err != nil {
		t.Fatal(err)
	}
	sheet := &params.Sheet{
		{Sel: ".LIF", Desc: "slower membrane",
			Params: params.Params{
				"Layer.LIF.TauMemInv": "50",
			}},
		{Sel: "#ALIF", Desc: "stronger adaptation",
			Params: params.Params{
				"Layer.Adapt.Beta": "2.5",
			}},
		{Sel: "Readout", Desc: "faster filter",
			Params: params.Params{
				"Readout.TauFilterInv": "100",
			}},
	}
	applied, err := nt.ApplyParams(sheet, false)
	if err != nil {
		t.Error(err)
	}
	if !applied {
		t.Errorf("params should have been applied")
	}
	lly := nt.Layers[0].(*LIFLayer)
	if lly.LIF.TauMemInv != 50 || math32.Abs(lly.LIF.MemDt-0.05) > difTol {
		t.Errorf("LIF params not updated: %v %v", lly.LIF.TauMemInv, lly.LIF.MemDt)
	}
	aly := nt.Layers[1].(*AdaptLayer)
	if aly.Adapt.Beta != 2.5 {
		t.Errorf("ALIF beta not set: %v", aly.Adapt.Beta)
	}
	if aly.Adapt.LIF.TauMemInv != 100 {
		t.Errorf("ALIF layer should not match .LIF: %v", aly.Adapt.LIF.TauMemInv)
	}
	if nt.Readout.TauFilterInv != 100 || math32.Abs(nt.Readout.Decay-math32.Exp(-0.1)) > difTol {
		t.Errorf("readout params not updated: %v %v", nt.Readout.TauFilterInv, nt.Readout.Decay)
	}
}

func TestSizeReport(t *testing.T) {
	nt, err := NewALIF(3, 10, 2, nil)
	if err != nil {
		t.Fatal(err)
	}
	nt.InitState(2)
	rep := nt.SizeReport()
	for _, nm := range []string{"LIF", "ALIF", "ExpFilter", "SNNAlif"} {
		if !strings.Contains(rep, nm) {
			t.Errorf("size report missing %s:\n%s", nm, rep)
		}
	}
}

func TestModelTypesString(t *testing.T) {
	for typ := LIF; typ < ModelTypesN; typ++ {
		var mt ModelTypes
		if err := mt.FromString(typ.String()); err != nil {
			t.Error(err)
		}
		if mt != typ {
			t.Errorf("FromString: %v != %v", mt, typ)
		}
		if typ.DefaultParams() == nil {
			t.Errorf("%v has no default params", typ)
		}
	}
	var mt ModelTypes
	if err := mt.FromString("Izhikevich"); err == nil {
		t.Errorf("expected error for unknown model type")
	}
}

func TestInitStateReusesBuffers(t *testing.T) {
	nt, err := NewLIF(3, 10, 2, nil)
	if err != nil {
		t.Fatal(err)
	}
	nt.InitState(4)
	lb := nt.Layers[0].AsBase()
	syn, spk, out := &lb.syn[0], &lb.spk[0], &nt.Readout.Out[0]
	nt.InitState(2)
	if &lb.syn[0] != syn || &lb.spk[0] != spk || &nt.Readout.Out[0] != out {
		t.Errorf("smaller batch should reuse state buffers")
	}
	if len(lb.syn) != 20 || len(nt.Readout.Out) != 4 {
		t.Errorf("buffer sizes: %d %d, expected 20 4", len(lb.syn), len(nt.Readout.Out))
	}
	nt.InitState(8)
	if len(lb.spk) != 80 || len(nt.Readout.Out) != 16 {
		t.Errorf("buffer sizes: %d %d, expected 80 16", len(lb.spk), len(nt.Readout.Out))
	}
}

func TestStateCloneAndNeuron(t *testing.T) {
	nt, err := NewALIF(3, 10, 2, nil)
	if err != nil {
		t.Fatal(err)
	}
	_, sts, err := nt.Forward(testInput(15, 3, 3), nil)
	if err != nil {
		t.Fatal(err)
	}
	st := sts[0]
	cp := st.Clone()
	if diff := cmp.Diff(st, cp); diff != "" {
		t.Errorf("clone differs (-orig +clone):\n%s", diff)
	}
	cp.Layers[1][0].V = 42
	cp.Readout[0] = 42
	if st.Layers[1][0].V == 42 || st.Readout[0] == 42 {
		t.Errorf("clone shares memory with original")
	}
	// layer 1 (ALIF) has 4 neurons: batch 2, neuron 3 is the last one
	if nrn := cp.Neuron(1, 2, 3); nrn != &cp.Layers[1][len(cp.Layers[1])-1] {
		t.Errorf("Neuron(1, 2, 3) is not the last neuron of layer 1")
	}
	if nrn := cp.Neuron(1, 0, 0); nrn.V != 42 {
		t.Errorf("Neuron(1, 0, 0): %v, expected 42", nrn.V)
	}
}

func TestLayerByName(t *testing.T) {
	nt, err := NewALIF(3, 10, 2, nil)
	if err != nil {
		t.Fatal(err)
	}
	for _, nm := range []string{"LIF", "ALIF"} {
		ly, err := nt.LayerByName(nm)
		if err != nil {
			t.Fatal(err)
		}
		if ly.Name() != nm {
			t.Errorf("LayerByName(%s): %s", nm, ly.Name())
		}
	}
	if _, err := nt.LayerByName("Hidden"); err == nil {
		t.Errorf("expected error for unknown layer")
	}
}

func TestStateVars(t *testing.T) {
	for typ := LIF; typ < ModelTypesN; typ++ {
		nt, err := New(typ, 3, 20, 2)
		if err != nil {
			t.Fatal(err)
		}
		nt.SaveStates = true
		_, sts, err := nt.Forward(testInput(40, 2, 3), nil)
		if err != nil {
			t.Fatal(err)
		}
		used := map[string]bool{}
		for _, vn := range typ.StateVars() {
			if _, err := lif.NeuronVarIdxByName(vn); err != nil {
				t.Errorf("%v: %v", typ, err)
			}
			used[vn] = true
		}
		// variables a model does not use stay at their initial values
		for _, st := range sts {
			for li := range st.Layers {
				for _, nrn := range st.Layers[li] {
					if !used["Rho"] && nrn.Rho != 0 {
						t.Fatalf("%v: Rho changed without refractory neurons: %v", typ, nrn.Rho)
					}
					if !used["B"] && nrn.B != 1 {
						t.Fatalf("%v: B changed without adaptive neurons: %v", typ, nrn.B)
					}
				}
			}
		}
	}
}
