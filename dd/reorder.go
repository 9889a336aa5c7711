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

package dd

import "fmt"

// A ReorderMethod names a dynamic-reordering algorithm of the engine.
type ReorderMethod int

// The reordering methods, mirroring the engine's catalogue.
const (
	ReorderSame ReorderMethod = iota
	ReorderNone
	ReorderSift
	ReorderSiftConverge
	ReorderSymmetrySift
	ReorderSymmetrySiftConverge
	ReorderWindow2
	ReorderWindow3
	ReorderWindow4
	ReorderWindow2Converge
	ReorderWindow3Converge
	ReorderWindow4Converge
	ReorderAnnealing
	ReorderGenetic
	ReorderExact
	ReorderLinear
	ReorderLinearConverge
)

var reorderNames = map[ReorderMethod]string{
	ReorderSame:                 "same",
	ReorderNone:                 "none",
	ReorderSift:                 "sift",
	ReorderSiftConverge:         "sift_converge",
	ReorderSymmetrySift:         "symmetry_sift",
	ReorderSymmetrySiftConverge: "symmetry_sift_converge",
	ReorderWindow2:              "window2",
	ReorderWindow3:              "window3",
	ReorderWindow4:              "window4",
	ReorderWindow2Converge:      "window2_converge",
	ReorderWindow3Converge:      "window3_converge",
	ReorderWindow4Converge:      "window4_converge",
	ReorderAnnealing:            "annealing",
	ReorderGenetic:              "genetic",
	ReorderExact:                "exact",
	ReorderLinear:               "linear",
	ReorderLinearConverge:       "linear_converge",
}

// String returns the method's canonical name.
func (m ReorderMethod) String() string {
	if s, ok := reorderNames[m]; ok {
		return s
	}
	return fmt.Sprintf("reorder(%d)", int(m))
}

// ReorderMethodFromName parses a canonical method name.
func ReorderMethodFromName(name string) (ReorderMethod, error) {
	for m, s := range reorderNames {
		if s == name {
			return m, nil
		}
	}
	return ReorderNone, fmt.Errorf("dd: unknown reordering method %q", name)
}

// Reorderer groups the variable-order controls of the engine.
type Reorderer interface {
	// AutodynEnable turns on dynamic reordering with the given method;
	// AutodynDisable turns it off.
	AutodynEnable(method ReorderMethod)
	AutodynDisable()

	// ReduceHeap triggers one reordering pass; ShuffleHeap imposes an
	// explicit order permutation.
	ReduceHeap(method ReorderMethod, minsize int) error
	ShuffleHeap(permutation []int) error

	// NewVarBlock groups [low, low+size) for group sifting; FreeVarBlock
	// dissolves the group.
	NewVarBlock(low, size int, fixed bool) error
	FreeVarBlock(low, size int) error
}
