// Copyright (c) 2019, The Emergent Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package tasks

import (
	"testing"

	"github.com/emer/etable/etensor"
	"github.com/google/go-cmp/cmp"
)

// rampSeq returns a [nt, 1, nc] sequence with values t+1 in every channel
func rampSeq(nt, nc int) *etensor.Float32 {
	sq := NewSeq(nt, 1, nc)
	for t := 0; t < nt; t++ {
		for c := 0; c < nc; c++ {
			SetSeq(sq, t, 0, c, float32(t+1))
		}
	}
	return sq
}

func TestConcatenateBatches(t *testing.T) {
	for _, fix := range []bool{false, true} {
		ins := []*etensor.Float32{rampSeq(3, 2), rampSeq(5, 2)}
		outs := []*etensor.Float32{rampSeq(3, 3), rampSeq(5, 3)}
		in, out, err := ConcatenateBatches(ins, outs, fix)
		if err != nil {
			t.Fatal(err)
		}
		if diff := cmp.Diff([]int{5, 2, 2}, in.Shapes()); diff != "" {
			t.Errorf("input shape (-want +got):\n%s", diff)
		}
		if diff := cmp.Diff([]int{5, 2, 3}, out.Shapes()); diff != "" {
			t.Errorf("output shape (-want +got):\n%s", diff)
		}
		padFix := float32(0)
		if fix {
			padFix = 1
		}
		for st := 0; st < 2; st++ {
			if seqVal(in, st, 0, 0) != padFix || seqVal(out, st, 0, 0) != padFix {
				t.Errorf("fix %v: padding step %d fixation: %v %v", fix, st, seqVal(in, st, 0, 0), seqVal(out, st, 0, 0))
			}
			if seqVal(in, st, 0, 1) != 0 || seqVal(out, st, 0, 2) != 0 {
				t.Errorf("fix %v: padding step %d should be empty", fix, st)
			}
		}
		for st := 2; st < 5; st++ {
			if seqVal(in, st, 0, 1) != float32(st-1) {
				t.Errorf("fix %v: short element step %d: %v, expected %v", fix, st, seqVal(in, st, 0, 1), st-1)
			}
		}
		for st := 0; st < 5; st++ {
			if seqVal(in, st, 1, 1) != float32(st+1) || seqVal(out, st, 1, 2) != float32(st+1) {
				t.Errorf("fix %v: long element step %d not copied", fix, st)
			}
		}
	}
}

func TestConcatenateBatchesErrors(t *testing.T) {
	if _, _, err := ConcatenateBatches(nil, nil, false); err == nil {
		t.Errorf("expected error for no elements")
	}
	ins := []*etensor.Float32{rampSeq(3, 2), rampSeq(5, 3)}
	outs := []*etensor.Float32{rampSeq(3, 3), rampSeq(5, 3)}
	if _, _, err := ConcatenateBatches(ins, outs, false); err == nil {
		t.Errorf("expected error for different channel sizes")
	}
	ins = []*etensor.Float32{rampSeq(3, 2)}
	outs = []*etensor.Float32{rampSeq(4, 3)}
	if _, _, err := ConcatenateBatches(ins, outs, false); err == nil {
		t.Errorf("expected error for different input / output durations")
	}
}

func TestDatasetDelayBetween(t *testing.T) {
	for _, fix := range []bool{false, true} {
		p := fixedParams(t, DMTaskName)
		tk, err := NewDMTask(Config{Params: p, BatchSize: 2, FixationDelay: fix})
		if err != nil {
			t.Fatal(err)
		}
		in, out, err := tk.Dataset(3, 5)
		if err != nil {
			t.Fatal(err)
		}
		if in.Dim(0) != 3*(5+150) || out.Dim(0) != in.Dim(0) {
			t.Fatalf("duration: %d, expected %d", in.Dim(0), 3*(5+150))
		}
		padFix := float32(0)
		if fix {
			padFix = 1
		}
		for tr := 0; tr < 3; tr++ {
			off := tr * 155
			for st := off; st < off+5; st++ {
				for b := 0; b < 2; b++ {
					if seqVal(in, st, b, 0) != padFix || seqVal(out, st, b, 0) != padFix || seqVal(in, st, b, 1) != 0 {
						t.Errorf("fix %v trial %d step %d: bad delay step", fix, tr, st)
					}
				}
			}
			if seqVal(in, off+5, 0, 0) != 1 {
				t.Errorf("fix %v trial %d: stimulus should start after delay", fix, tr)
			}
		}
	}
}

func TestDatasetErrors(t *testing.T) {
	tk, err := NewDMTask(Config{})
	if err != nil {
		t.Fatal(err)
	}
	if _, _, err := tk.Dataset(0, 0); err == nil {
		t.Errorf("expected error for zero trials")
	}
	if _, _, err := tk.Dataset(1, -1); err == nil {
		t.Errorf("expected error for negative delay")
	}
}

func TestConcatTime(t *testing.T) {
	sq, err := ConcatTime(rampSeq(2, 1), rampSeq(3, 1))
	if err != nil {
		t.Fatal(err)
	}
	if diff := cmp.Diff([]float32{1, 2, 1, 2, 3}, sq.Values); diff != "" {
		t.Errorf("values (-want +got):\n%s", diff)
	}
	if _, err := ConcatTime(rampSeq(2, 1), rampSeq(2, 2)); err == nil {
		t.Errorf("expected error for different channel sizes")
	}
}

func TestParams(t *testing.T) {
	p, err := DefaultParams(DMTaskName)
	if err != nil {
		t.Fatal(err)
	}
	if p.AnswerSteps() != 150 {
		t.Errorf("answer steps: %d, expected 150", p.AnswerSteps())
	}
	if err := p.Validate(); err != nil {
		t.Error(err)
	}
	bad := p
	bad.Dt = 0
	if bad.Validate() == nil {
		t.Errorf("expected error for zero dt")
	}
	bad = p
	bad.NegShiftTrialTime = 1
	if bad.Validate() == nil {
		t.Errorf("expected error for negative stimulus period")
	}
	bad = p
	bad.AnswerTime = 0
	if bad.Validate() == nil {
		t.Errorf("expected error for empty answer period")
	}
	if _, err := DefaultParams("NoTask"); err == nil {
		t.Errorf("expected error for unknown task")
	}
}

func TestParseMode(t *testing.T) {
	for s, cor := range map[string]Modes{"random": Random, "value": Value, "Value": Value} {
		m, err := ParseMode(s)
		if err != nil {
			t.Error(err)
		}
		if m != cor {
			t.Errorf("mode %s: %v, expected %v", s, m, cor)
		}
	}
	if _, err := ParseMode("sweep"); err == nil {
		t.Errorf("expected error for unknown mode")
	}
}
