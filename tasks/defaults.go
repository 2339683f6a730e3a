// Copyright (c) 2019, The Emergent Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package tasks

import (
	"sort"

	"github.com/pkg/errors"
)

// Task names, as used by DefaultParams and New
const (
	DMTaskName          = "DMTask"
	DMTaskRandomModName = "DMTaskRandomMod"
	CtxDMTaskName       = "CtxDMTask"
)

var defaultParams = map[string]func(p *Params){
	DMTaskName: func(p *Params) {
		p.TrialTime = 0.75
		p.NegShiftTrialTime = 0.25
		p.PosShiftTrialTime = 0.25
	},
	DMTaskRandomModName: func(p *Params) {
		p.TrialTime = 0.75
		p.NegShiftTrialTime = 0.25
		p.PosShiftTrialTime = 0.25
		p.NMods = 2
	},
	CtxDMTaskName: func(p *Params) {
		p.TrialTime = 0.75
		p.NegShiftTrialTime = 0.25
		p.PosShiftTrialTime = 0.25
		p.NMods = 2
	},
}

// DefaultParams returns the default parameters of the named task
func DefaultParams(name string) (Params, error) {
	var p Params
	set, ok := defaultParams[name]
	if !ok {
		return p, errors.Errorf("tasks: no default params for task: %q, valid names: %v", name, TaskNames())
	}
	p.Defaults()
	set(&p)
	return p, nil
}

// TaskNames returns the sorted names of the tasks that have default params
func TaskNames() []string {
	nms := make([]string, 0, len(defaultParams))
	for nm := range defaultParams {
		nms = append(nms, nm)
	}
	sort.Strings(nms)
	return nms
}

// New returns the named task with given config
func New(name string, cfg Config) (Task, error) {
	switch name {
	case DMTaskName:
		return NewDMTask(cfg)
	case DMTaskRandomModName:
		return NewDMTaskRandomMod(cfg)
	case CtxDMTaskName:
		return NewCtxDMTask(cfg)
	}
	return nil, errors.Errorf("tasks: unknown task: %q, valid names: %v", name, TaskNames())
}
