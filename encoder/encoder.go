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

// Package encoder declares the contract higher-level code uses to lift
// expressions into decision diagrams. The implementations (boolean
// encoders over variable orderings) live with the model-checking
// algorithms, outside this module; only the shape matters here.
package encoder

import (
	"errors"
	"fmt"

	"github.com/smckit/smckit/dd"
	"github.com/smckit/smckit/node"
	"github.com/smckit/smckit/symbol"
)

// ErrInfinitePrecision reports a variable whose type cannot be finitely
// encoded; it is detected before any boolean relation is built and is
// fatal.
var ErrInfinitePrecision = errors.New("infinite-precision variable in boolean FSM")

// A BddEncoder lifts flattened, untimed expressions into BDDs over the
// encoder's variable layout. Every returned BDD is referenced for the
// caller.
type BddEncoder interface {
	// ExprToBdd encodes a boolean expression in the given context.
	ExprToBdd(e, context *node.Node) (dd.BDD, error)

	// StateVarsCube, InputVarsCube and NextStateVarsCube return the
	// cubes image computation quantifies over.
	StateVarsCube() dd.BDD
	InputVarsCube() dd.BDD
	NextStateVarsCube() dd.BDD

	// StateToNextState renames current-state variables to their primed
	// counterparts.
	StateToNextState(f dd.BDD) dd.BDD
}

// CheckFiniteEncoding verifies that none of the given variables has an
// infinite-precision type. Encoders call it before building any boolean
// relation; a failure is fatal.
func CheckFiniteEncoding(st symbol.Table, vars []*node.Node) error {
	for _, v := range vars {
		typ := st.VarType(v)
		if typ != nil && typ.IsInfinitePrecision() {
			return fmt.Errorf("%w: %s", ErrInfinitePrecision, node.Sprint(v))
		}
	}
	return nil
}

// A WordEncoder booleanizes word expressions into per-bit boolean
// expressions (the bit-blasting step preceding BddEncoder for word
// types).
type WordEncoder interface {
	// BitOf returns the boolean expression of the i-th bit of the word
	// expression e.
	BitOf(e *node.Node, i int) (*node.Node, error)

	// Width returns the bit width of the word expression e.
	Width(e *node.Node) (int, error)
}
