// Copyright (c) 2019, The Emergent Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package snn

import (
	"github.com/chewxy/math32"
	"golang.org/x/exp/rand"
	"gonum.org/v1/gonum/mat"
	"gonum.org/v1/gonum/stat/distuv"
)

// WtInitParams determine the initial random weight distribution:
// Gaussian with zero mean and standard deviation Gain * sqrt(2 / NRecv).
type WtInitParams struct {
	Gain float32 `def:"1" desc:"multiplier on the sqrt(2 / NRecv) standard deviation"`
	Mean float32 `def:"0" desc:"mean of the initial weights"`
}

func (wp *WtInitParams) Defaults() {
	wp.Gain = 1
	wp.Mean = 0
}

// Prjn is a dense all-to-all projection from a sending population
// of NSend units to a receiving population of NRecv units.
// Wts is [NRecv x NSend].
type Prjn struct {
	NSend    int          `inactive:"+" desc:"number of sending units"`
	NRecv    int          `inactive:"+" desc:"number of receiving units"`
	Autapses bool         `desc:"for recurrent projections, keep self-connections -- otherwise the diagonal is zero"`
	Recur    bool         `inactive:"+" desc:"projection from a layer onto itself"`
	WtInit   WtInitParams `view:"inline" desc:"initial weight distribution"`
	Wts      *mat.Dense   `view:"-" desc:"weights, [NRecv x NSend]"`

	sbuf *mat.Dense
	gbuf *mat.Dense
}

// NewPrjn returns a new projection with default params, not yet initialized
func NewPrjn(nsend, nrecv int, recur bool) *Prjn {
	pj := &Prjn{NSend: nsend, NRecv: nrecv, Recur: recur}
	pj.Defaults()
	return pj
}

func (pj *Prjn) Defaults() {
	pj.WtInit.Defaults()
}

// Build allocates the weight matrix
func (pj *Prjn) Build() {
	pj.Wts = mat.NewDense(pj.NRecv, pj.NSend, nil)
}

// InitWts draws weights from the WtInit distribution using given source
func (pj *Prjn) InitWts(src rand.Source) {
	if pj.Wts == nil {
		pj.Build()
	}
	dist := distuv.Normal{
		Mu:    float64(pj.WtInit.Mean),
		Sigma: float64(pj.WtInit.Gain * math32.Sqrt(2/float32(pj.NRecv))),
		Src:   src,
	}
	for ri := 0; ri < pj.NRecv; ri++ {
		for si := 0; si < pj.NSend; si++ {
			if pj.Recur && !pj.Autapses && ri == si {
				pj.Wts.Set(ri, si, 0)
				continue
			}
			pj.Wts.Set(ri, si, dist.Rand())
		}
	}
}

// NWts returns the number of weights
func (pj *Prjn) NWts() int {
	return pj.NSend * pj.NRecv
}

// SendSyn adds the weighted sending values snd [batch * NSend]
// into the receiving synaptic input syn [batch * NRecv].
func (pj *Prjn) SendSyn(snd []float32, batch int, syn []float32) {
	if pj.sbuf == nil || pj.sbuf.RawMatrix().Rows != batch {
		pj.sbuf = mat.NewDense(batch, pj.NSend, nil)
		pj.gbuf = mat.NewDense(batch, pj.NRecv, nil)
	}
	sraw := pj.sbuf.RawMatrix().Data
	nonz := false
	for i, v := range snd {
		sraw[i] = float64(v)
		if v != 0 {
			nonz = true
		}
	}
	if !nonz {
		return
	}
	pj.gbuf.Mul(pj.sbuf, pj.Wts.T())
	graw := pj.gbuf.RawMatrix().Data
	for i, g := range graw {
		syn[i] += float32(g)
	}
}
