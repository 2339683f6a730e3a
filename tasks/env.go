// Copyright (c) 2019, The Emergent Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package tasks

import (
	"fmt"

	"github.com/emer/emergent/env"
	"github.com/emer/etable/etensor"
)

// TaskEnv presents a Task as an emergent environment.  Each Trial is one
// dataset of NTrials task trials, which is stepped through one Tick (time step)
// at a time.  The Input and Target states hold the [Batch, Chan] values of the
// current tick; Inputs and Targets hold the whole dataset of the current trial.
type TaskEnv struct {
	Nm           string           `desc:"name of this environment"`
	Dsc          string           `desc:"description of this environment"`
	Task         Task             `desc:"the task generating the data"`
	NTrials      int              `desc:"number of task trials in each dataset"`
	DelayBetween int              `desc:"empty steps before each task trial"`
	Inputs       *etensor.Float32 `view:"-" desc:"input sequence of the current trial, [Time, Batch, Chan]"`
	Targets      *etensor.Float32 `view:"-" desc:"target sequence of the current trial, [Time, Batch, Chan]"`
	Input        etensor.Float32  `desc:"input at the current tick, [Batch, Chan]"`
	Target       etensor.Float32  `desc:"target at the current tick, [Batch, Chan]"`
	Run          env.Ctr          `view:"inline" desc:"current run of model as provided during Init"`
	Epoch        env.Ctr          `view:"inline" desc:"number of times through Trial.Max datasets"`
	Trial        env.Ctr          `view:"inline" desc:"dataset counter within epoch, Max = datasets per epoch"`
	Tick         env.Ctr          `view:"inline" desc:"time step within the current dataset"`
	Err          error            `view:"-" desc:"last error generating data -- Step returns false when set"`
}

// NewTaskEnv returns an environment for task with given datasets per epoch
func NewTaskEnv(name string, tk Task, trialsPerEpoch int) *TaskEnv {
	ev := &TaskEnv{Nm: name, Dsc: "task: " + tk.Name(), Task: tk, NTrials: 1}
	ev.Trial.Max = trialsPerEpoch
	return ev
}

func (ev *TaskEnv) Name() string { return ev.Nm }
func (ev *TaskEnv) Desc() string { return ev.Dsc }

func (ev *TaskEnv) Validate() error {
	if ev.Task == nil {
		return fmt.Errorf("TaskEnv: %v has no Task", ev.Nm)
	}
	if ev.NTrials < 1 {
		return fmt.Errorf("TaskEnv: %v NTrials must be at least 1: %d", ev.Nm, ev.NTrials)
	}
	return nil
}

func (ev *TaskEnv) Counters() []env.TimeScales {
	return []env.TimeScales{env.Run, env.Epoch, env.Trial, env.Tick}
}

func (ev *TaskEnv) States() env.Elements {
	nf, na := ev.Task.FeatureAndActSize()
	nb := ev.Task.BatchSize()
	els := env.Elements{
		{Name: "Input", Shape: []int{nb, nf}, DimNames: []string{"Batch", "Chan"}},
		{Name: "Target", Shape: []int{nb, na}, DimNames: []string{"Batch", "Chan"}},
	}
	return els
}

func (ev *TaskEnv) State(element string) etensor.Tensor {
	switch element {
	case "Input":
		return &ev.Input
	case "Target":
		return &ev.Target
	case "Inputs":
		return ev.Inputs
	case "Targets":
		return ev.Targets
	}
	return nil
}

func (ev *TaskEnv) Actions() env.Elements {
	return nil
}

func (ev *TaskEnv) Init(run int) {
	ev.Run.Scale = env.Run
	ev.Epoch.Scale = env.Epoch
	ev.Trial.Scale = env.Trial
	ev.Tick.Scale = env.Tick
	ev.Run.Init()
	ev.Epoch.Init()
	ev.Trial.Init()
	ev.Tick.Init()
	ev.Run.Cur = run
	ev.Trial.Cur = -1 // init state -- key so that first Step() = 0
	ev.Inputs = nil
	ev.Targets = nil
	ev.Err = nil
}

// NewDataset generates the dataset for a new trial
func (ev *TaskEnv) NewDataset() error {
	in, out, err := ev.Task.Dataset(ev.NTrials, ev.DelayBetween)
	if err != nil {
		return err
	}
	ev.Inputs = in
	ev.Targets = out
	ev.Tick.Max = in.Dim(0)
	ev.Tick.Cur = 0
	return nil
}

// Step advances one tick, generating a new dataset at the start of each trial.
// Returns false if the dataset could not be generated, see Err.
func (ev *TaskEnv) Step() bool {
	ev.Epoch.Same() // good idea to just reset all non-inner-most counters at start
	ev.Trial.Same()
	if ev.Inputs == nil || ev.Tick.Incr() {
		if ev.Trial.Incr() {
			ev.Epoch.Incr()
		}
		if err := ev.NewDataset(); err != nil {
			ev.Err = err
			return false
		}
	}
	ev.setTick()
	return true
}

// setTick copies the current tick of the dataset into Input and Target
func (ev *TaskEnv) setTick() {
	tickSlice(&ev.Input, ev.Inputs, ev.Tick.Cur)
	tickSlice(&ev.Target, ev.Targets, ev.Tick.Cur)
}

func tickSlice(dst, src *etensor.Float32, t int) {
	nb, nc := src.Dim(1), src.Dim(2)
	dst.SetShape([]int{nb, nc}, nil, []string{"Batch", "Chan"})
	copy(dst.Values, src.Values[t*nb*nc:(t+1)*nb*nc])
}

func (ev *TaskEnv) Action(element string, input etensor.Tensor) {
	// nop
}

func (ev *TaskEnv) Counter(scale env.TimeScales) (cur, prv int, chg bool) {
	switch scale {
	case env.Run:
		return ev.Run.Query()
	case env.Epoch:
		return ev.Epoch.Query()
	case env.Trial:
		return ev.Trial.Query()
	case env.Tick:
		return ev.Tick.Query()
	}
	return -1, -1, false
}

// Compile-time check that implements Env interface
var _ env.Env = (*TaskEnv)(nil)
