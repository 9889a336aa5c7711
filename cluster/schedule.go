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

// BuildSchedule computes the early-quantification cubes of every
// cluster. Walking the list right-to-left, a variable may be abstracted
// at cluster i exactly when no cluster after i mentions it; the cubes
// stored on each cluster are the state-only and state-plus-input
// variants of that set.
func (l *List) BuildSchedule(stateCube, inputCube dd.BDD) {
	siCube := l.m.And(stateCube, inputCube)
	sCube := l.m.Ref(stateCube)

	// Support of the suffix already visited.
	accS := l.m.True()
	accSI := l.m.True()

	for i := len(l.clusters) - 1; i >= 0; i-- {
		c := l.clusters[i]

		s := l.m.CubeDiff(sCube, accS)
		si := l.m.CubeDiff(siCube, accSI)
		c.SetQuantState(s)
		c.SetQuantStateInput(si)
		l.m.RecursiveDeref(s)
		l.m.RecursiveDeref(si)

		t := c.Trans()
		supp := l.m.Support(t)
		nextS := l.m.And(accS, supp)
		nextSI := l.m.And(accSI, supp)
		l.m.RecursiveDeref(accS)
		l.m.RecursiveDeref(accSI)
		l.m.RecursiveDeref(supp)
		l.m.RecursiveDeref(t)
		accS, accSI = nextS, nextSI
	}

	l.m.RecursiveDeref(accS)
	l.m.RecursiveDeref(accSI)
	l.m.RecursiveDeref(sCube)
	l.m.RecursiveDeref(siCube)
}

// CheckSchedule verifies the schedule invariant: for every i < j, the
// support of cluster j's relation is disjoint from cluster i's
// state-input quantification cube.
func (l *List) CheckSchedule() bool {
	for i, ci := range l.clusters {
		siCi := ci.QuantStateInput()

		ok := true
		for _, cj := range l.clusters[i+1:] {
			tj := cj.Trans()
			suppJ := l.m.Support(tj)
			l.m.RecursiveDeref(tj)

			// No variable of siCi may appear in suppJ.
			rest := l.m.CubeDiff(siCi, suppJ)
			ok = rest == siCi
			l.m.RecursiveDeref(rest)
			l.m.RecursiveDeref(suppJ)
			if !ok {
				break
			}
		}

		l.m.RecursiveDeref(siCi)
		if !ok {
			return false
		}
	}
	return true
}
