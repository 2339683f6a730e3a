// Copyright (c) 2019, The Emergent Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

/*
Package cgtasknet is the overall repository for spiking network models of
cognitive tasks implemented in the Go language (golang).

This top-level of the repository has no functional code -- everything is organized
into the following sub-repositories:

* lif: leaky integrate-and-fire neuron dynamics, with optional refractory period
or adaptive threshold, advanced one time step at a time.

* snn: recurrent spiking networks built from lif layers and an exponential
filter readout, run over [Time, Batch, Chan] input sequences.  The LIF, LIFRefrac
and ALIF models are the standard configurations.

* tasks: generators of input / target datasets for decision-making tasks,
including a multi-task mixer, and an emergent env.Env that steps through them.

* examples: these compile into runnable programs.  examples/dmtask runs a
network over task data and logs its readout.
*/
package cgtasknet
