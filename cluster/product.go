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

// ApplySynchronousProduct appends deep copies of other's clusters to the
// receiver and rebuilds the schedule from scratch over the union of both
// lists' variables. Both lists must already carry a schedule; other is
// unchanged.
func (l *List) ApplySynchronousProduct(other *List) {
	stateCube := l.m.True()
	siCube := l.m.True()

	collect := func(list *List) {
		for _, c := range list.clusters {
			s := c.QuantState()
			next := l.m.And(stateCube, s)
			l.m.RecursiveDeref(stateCube)
			l.m.RecursiveDeref(s)
			stateCube = next

			si := c.QuantStateInput()
			next = l.m.And(siCube, si)
			l.m.RecursiveDeref(siCube)
			l.m.RecursiveDeref(si)
			siCube = next
		}
	}
	collect(l)
	collect(other)

	// The pure input cube is whatever the state-input cubes carry beyond
	// the state variables.
	inputCube := l.m.CubeDiff(siCube, stateCube)
	l.m.RecursiveDeref(siCube)

	for _, c := range other.clusters {
		l.Append(c.Copy())
	}

	l.BuildSchedule(stateCube, inputCube)
	l.m.RecursiveDeref(stateCube)
	l.m.RecursiveDeref(inputCube)
}

// VarsCube conjoins the given variables into a positive cube. The
// result is referenced.
func VarsCube(m dd.Manager, vars ...dd.BDD) dd.BDD {
	cube := m.True()
	for _, v := range vars {
		next := m.And(cube, v)
		m.RecursiveDeref(cube)
		cube = next
	}
	return cube
}
