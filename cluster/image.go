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

package cluster

import (
	"github.com/smckit/smckit/dd"
)

// ImageState computes the image of the state set s, abstracting each
// cluster's state-and-input cube immediately after conjoining it. The
// result is referenced; s is borrowed.
func (l *List) ImageState(s dd.BDD) dd.BDD {
	return l.image(s, (*Cluster).QuantStateInput)
}

// ImageStateInput computes the image of s keeping input variables live:
// only the state cubes are abstracted along the way.
func (l *List) ImageStateInput(s dd.BDD) dd.BDD {
	return l.image(s, (*Cluster).QuantState)
}

// image conjoins s with every cluster in list order, abstracting the
// cube picked by getCube right after each conjunction. This is the early
// quantification the schedule was built for.
func (l *List) image(s dd.BDD, getCube func(*Cluster) dd.BDD) dd.BDD {
	cur := l.m.Ref(s)
	for _, c := range l.clusters {
		t := c.Trans()
		ex := getCube(c)
		next := l.m.AndAbstract(cur, t, ex)
		l.m.RecursiveDeref(ex)
		l.m.RecursiveDeref(t)
		l.m.RecursiveDeref(cur)
		cur = next
	}
	return cur
}

// KImageState computes the set of assignments reachable from s by at
// least k distinct transitions, abstracting state and input variables.
func (l *List) KImageState(s dd.BDD, k int) dd.BDD {
	return l.kImage(s, k, (*Cluster).QuantStateInput)
}

// KImageStateInput is KImageState keeping input variables live.
func (l *List) KImageStateInput(s dd.BDD, k int) dd.BDD {
	return l.kImage(s, k, (*Cluster).QuantState)
}

// kImage runs the image over 0/1 ADDs: conjunction becomes pointwise
// product, abstraction becomes summation, and the final threshold keeps
// exactly the inputs with at least k transitions.
func (l *List) kImage(s dd.BDD, k int, getCube func(*Cluster) dd.BDD) dd.BDD {
	cur := l.m.ToADD(s)
	for _, c := range l.clusters {
		t := c.Trans()
		ta := l.m.ToADD(t)
		l.m.RecursiveDeref(t)

		prod := l.m.Times(cur, ta)
		l.m.DerefADD(ta)
		l.m.DerefADD(cur)

		ex := getCube(c)
		cur = l.m.ExistAbstract(prod, ex)
		l.m.DerefADD(prod)
		l.m.RecursiveDeref(ex)
	}

	result := l.m.ToBDDStrictThreshold(cur, int64(k)-1)
	l.m.DerefADD(cur)
	return result
}
