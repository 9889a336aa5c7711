//  Copyright (c) 2023 Uber Technologies, Inc.
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

// Package cluster partitions a conjunctively-decomposed transition
// relation into an ordered list of BDD clusters, computes the
// early-quantification schedule for image computation, and implements
// the image and counting-image operators over the clustered form.
//
// A cluster packages a sub-relation with the two cubes of variables
// image computation may abstract immediately after conjoining it.
// Clusters are owned by exactly one list at a time; the decision-diagram
// engine is shared.
package cluster

import (
	"github.com/smckit/smckit/dd"
)

// Engine is what clustering and image computation need from the
// decision-diagram engine.
type Engine interface {
	dd.Manager
	dd.Arith
}

// A Cluster holds a sub-relation and its quantification cubes. All three
// BDDs are owned (one reference each) and released by Destroy.
type Cluster struct {
	m dd.Manager

	trans           dd.BDD
	quantState      dd.BDD
	quantStateInput dd.BDD
}

// NewCluster returns a cluster whose relation and cubes are the constant
// true.
func NewCluster(m dd.Manager) *Cluster {
	return &Cluster{
		m:               m,
		trans:           m.True(),
		quantState:      m.True(),
		quantStateInput: m.True(),
	}
}

// Trans returns the sub-relation, referenced for the caller.
func (c *Cluster) Trans() dd.BDD { return c.m.Ref(c.trans) }

// SetTrans replaces the sub-relation; the cluster takes its own
// reference of t.
func (c *Cluster) SetTrans(t dd.BDD) {
	c.m.RecursiveDeref(c.trans)
	c.trans = c.m.Ref(t)
}

// QuantState returns the cube of state variables abstracted right after
// this cluster is conjoined, referenced for the caller.
func (c *Cluster) QuantState() dd.BDD { return c.m.Ref(c.quantState) }

// SetQuantState replaces the state quantification cube.
func (c *Cluster) SetQuantState(cube dd.BDD) {
	c.m.RecursiveDeref(c.quantState)
	c.quantState = c.m.Ref(cube)
}

// QuantStateInput returns the cube of state and input variables
// abstracted right after this cluster is conjoined, referenced for the
// caller.
func (c *Cluster) QuantStateInput() dd.BDD { return c.m.Ref(c.quantStateInput) }

// SetQuantStateInput replaces the state-and-input quantification cube.
func (c *Cluster) SetQuantStateInput(cube dd.BDD) {
	c.m.RecursiveDeref(c.quantStateInput)
	c.quantStateInput = c.m.Ref(cube)
}

// IsEqual reports cluster equality: identity of the trans BDD.
func (c *Cluster) IsEqual(other *Cluster) bool { return c.trans == other.trans }

// Copy returns a cluster holding fresh references to the same BDDs.
func (c *Cluster) Copy() *Cluster {
	return &Cluster{
		m:               c.m,
		trans:           c.m.Ref(c.trans),
		quantState:      c.m.Ref(c.quantState),
		quantStateInput: c.m.Ref(c.quantStateInput),
	}
}

// Destroy releases the held references; the cluster must not be used
// afterwards.
func (c *Cluster) Destroy() {
	c.m.RecursiveDeref(c.trans)
	c.m.RecursiveDeref(c.quantState)
	c.m.RecursiveDeref(c.quantStateInput)
	c.trans, c.quantState, c.quantStateInput = nil, nil, nil
}
