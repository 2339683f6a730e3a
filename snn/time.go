// Copyright (c) 2019, The Emergent Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package snn

// snn.Time contains the timing state and parameters for running a network
type Time struct {

	// accumulated amount of time the network has been running,
	// in simulation-time (not real world time), in seconds.
	Time float32

	// cycle counter: number of steps run in the current Forward call.
	Cycle int

	// total cycle count. this increments continuously from whenever
	// it was last reset.
	CycleTot int

	// amount of time to increment per cycle, in seconds.
	TimePerCyc float32 `def:"0.001"`
}

// NewTime returns a new Time struct with default parameters
func NewTime() *Time {
	tm := &Time{}
	tm.Defaults()
	return tm
}

// Defaults sets default values
func (tm *Time) Defaults() {
	tm.TimePerCyc = 0.001
}

// Reset resets the counters all back to zero
func (tm *Time) Reset() {
	tm.Time = 0
	tm.Cycle = 0
	tm.CycleTot = 0
	if tm.TimePerCyc == 0 {
		tm.Defaults()
	}
}

// SeqStart starts a new input sequence
func (tm *Time) SeqStart() {
	tm.Cycle = 0
}

// CycleInc increments at the cycle level
func (tm *Time) CycleInc() {
	tm.Cycle++
	tm.CycleTot++
	tm.Time += tm.TimePerCyc
}
