// Copyright (c) 2019, The Emergent Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package tasks

import (
	"math"
	"strings"

	"github.com/emer/etable/minmax"
	"github.com/goki/ki/kit"
	"github.com/pkg/errors"
	"golang.org/x/exp/rand"
)

// Modes determine how stimulus values are generated
type Modes int

//go:generate stringer -type=Modes

var KiT_Modes = kit.Enums.AddEnum(ModesN, false, nil)

func (ev Modes) MarshalJSON() ([]byte, error)  { return kit.EnumMarshalJSON(ev) }
func (ev *Modes) UnmarshalJSON(b []byte) error { return kit.EnumUnmarshalJSON(ev, b) }

const (
	// Random draws a new value for every batch element from Params.ValueRange
	Random Modes = iota

	// Value uses Params.Value for every batch element
	Value

	ModesN
)

// ParseMode returns the mode named by s, ignoring case ("random", "value")
func ParseMode(s string) (Modes, error) {
	for m := Random; m < ModesN; m++ {
		if strings.EqualFold(s, m.String()) {
			return m, nil
		}
	}
	return Random, errors.Errorf("tasks: unknown mode: %q", s)
}

// Params are the timing and value parameters of a reduce task.
// All times are in seconds and are converted to steps of size Dt.
// A trial is: stimulus (TrialTime), optional delay (Delay), answer (AnswerTime).
// Trial and delay durations are drawn uniformly from
// [Time - NegShift, Time + PosShift] on every call to OneDataset.
type Params struct {
	Dt                float64    `yaml:"dt" desc:"duration of one step in seconds"`
	TrialTime         float64    `yaml:"trial_time" desc:"mean duration of the stimulus period"`
	AnswerTime        float64    `yaml:"answer_time" desc:"duration of the answer period"`
	NegShiftTrialTime float64    `yaml:"negative_shift_trial_time" desc:"max reduction of the stimulus period"`
	PosShiftTrialTime float64    `yaml:"positive_shift_trial_time" desc:"max extension of the stimulus period"`
	NegShiftDelayTime float64    `yaml:"negative_shift_delay_time" desc:"max reduction of the delay period"`
	PosShiftDelayTime float64    `yaml:"positive_shift_delay_time" desc:"max extension of the delay period"`
	Value             *float32   `yaml:"value,omitempty" desc:"stimulus value used in Value mode"`
	Delay             *float64   `yaml:"delay,omitempty" desc:"mean duration of the delay period between stimulus and answer; nil = no delay"`
	NMods             int        `yaml:"n_mods,omitempty" desc:"number of input modalities, for tasks with several"`
	ValueRange        minmax.F32 `yaml:"value_range" desc:"range of stimulus values in Random mode"`
}

// Defaults sets the parameters shared by all tasks
func (p *Params) Defaults() {
	p.Dt = 1e-3
	p.TrialTime = 0
	p.AnswerTime = 0.15
	p.NegShiftTrialTime = 0
	p.PosShiftTrialTime = 0
	p.NegShiftDelayTime = 0
	p.PosShiftDelayTime = 0
	p.Value = nil
	p.Delay = nil
	p.NMods = 0
	p.ValueRange.Set(0, 1)
}

// SetValue sets the fixed stimulus value for Value mode
func (p *Params) SetValue(v float32) {
	p.Value = &v
}

// SetDelay sets the mean delay period in seconds
func (p *Params) SetDelay(d float64) {
	p.Delay = &d
}

// Validate returns an error if the parameters cannot produce trials
func (p *Params) Validate() error {
	if p.Dt <= 0 {
		return errors.Errorf("tasks: dt must be positive: %g", p.Dt)
	}
	if p.TrialTime-p.NegShiftTrialTime < p.Dt {
		return errors.Errorf("tasks: shortest stimulus period %g is less than one step of %g", p.TrialTime-p.NegShiftTrialTime, p.Dt)
	}
	if p.AnswerTime < p.Dt {
		return errors.Errorf("tasks: answer period %g is less than one step of %g", p.AnswerTime, p.Dt)
	}
	if p.NegShiftTrialTime < 0 || p.PosShiftTrialTime < 0 || p.NegShiftDelayTime < 0 || p.PosShiftDelayTime < 0 {
		return errors.New("tasks: time shifts must not be negative")
	}
	if p.Delay != nil && *p.Delay-p.NegShiftDelayTime < 0 {
		return errors.Errorf("tasks: shortest delay period %g is negative", *p.Delay-p.NegShiftDelayTime)
	}
	if p.ValueRange.Max < p.ValueRange.Min {
		return errors.Errorf("tasks: empty value range: %v", p.ValueRange)
	}
	return nil
}

// Steps converts a duration in seconds to the nearest number of steps
func (p *Params) Steps(sec float64) int {
	return int(math.Round(sec / p.Dt))
}

// SampleSteps draws a duration uniformly from [sec - neg, sec + pos]
// and returns it in steps.
func (p *Params) SampleSteps(rnd *rand.Rand, sec, neg, pos float64) int {
	if neg == 0 && pos == 0 {
		return p.Steps(sec)
	}
	lo := sec - neg
	return p.Steps(lo + rnd.Float64()*(neg+pos))
}

// TrialSteps draws the stimulus period in steps
func (p *Params) TrialSteps(rnd *rand.Rand) int {
	return p.SampleSteps(rnd, p.TrialTime, p.NegShiftTrialTime, p.PosShiftTrialTime)
}

// DelaySteps draws the delay period in steps, 0 if there is no delay
func (p *Params) DelaySteps(rnd *rand.Rand) int {
	if p.Delay == nil {
		return 0
	}
	return p.SampleSteps(rnd, *p.Delay, p.NegShiftDelayTime, p.PosShiftDelayTime)
}

// AnswerSteps returns the answer period in steps
func (p *Params) AnswerSteps() int {
	return p.Steps(p.AnswerTime)
}
