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

package cnf

import (
	"errors"
	"fmt"

	"github.com/smckit/smckit/node"
	"github.com/smckit/smckit/util/orderedmap"
)

// The selectable conversion algorithms.
const (
	AlgorithmTseitin  = "tseitin"
	AlgorithmSheridan = "sheridan"
)

// ErrNotBoolean reports an expression outside the boolean fragment the
// materializer accepts.
var ErrNotBoolean = errors.New("expression is not a boolean formula")

// Convert materializes the boolean expression in CNF using the named
// algorithm. Tseitin introduces one variable with both implication
// directions per internal connective; Sheridan only emits the clauses
// of the polarities under which each connective is actually observed.
func Convert(e *node.Node, algorithm string) (*Cnf, error) {
	var polarized bool
	switch algorithm {
	case AlgorithmTseitin:
		polarized = false
	case AlgorithmSheridan:
		polarized = true
	default:
		return nil, fmt.Errorf("cnf: unknown algorithm %q", algorithm)
	}

	c := &Cnf{
		original:  e,
		varToNode: orderedmap.New[int, *node.Node](),
		nodeToVar: make(map[*node.Node]int),
	}
	conv := &converter{c: c, polarized: polarized}

	lit, err := conv.literal(e)
	if err != nil {
		return nil, err
	}
	c.formulaLiteral = lit
	return c, nil
}

type converter struct {
	c         *Cnf
	polarized bool
	// emitted tracks which polarities of which nodes have had their
	// defining clauses written: 1 = positive, 2 = negative.
	emitted map[*node.Node]int
}

// freshVar allocates (or reuses) the CNF variable of n. Independent
// variables, the ones encoding atomic inputs rather than connectives,
// are recorded in the variable list.
func (cv *converter) freshVar(n *node.Node, independent bool) int {
	if v, ok := cv.c.nodeToVar[n]; ok {
		return v
	}
	cv.c.maxVar++
	v := cv.c.maxVar
	cv.c.nodeToVar[n] = v
	cv.c.varToNode.Store(v, n)
	if independent {
		cv.c.vars = append(cv.c.vars, v)
	}
	return v
}

// literal returns the CNF literal equisatisfiable with e, emitting the
// defining clauses for every connective below it.
func (cv *converter) literal(e *node.Node) (int, error) {
	if cv.emitted == nil {
		cv.emitted = make(map[*node.Node]int)
	}
	lit, err := cv.walk(e, true)
	if err != nil {
		return 0, err
	}
	return lit, nil
}

// walk returns the literal of e observed under the given polarity. For
// plain Tseitin the polarity is ignored and both directions are emitted
// once.
func (cv *converter) walk(e *node.Node, positive bool) (int, error) {
	switch e.Tag() {
	case node.TagTrue:
		return TrueLiteral, nil
	case node.TagFalse:
		return -TrueLiteral, nil

	case node.TagNot:
		inner, err := cv.walk(e.Left(), !positive)
		if err != nil {
			return 0, err
		}
		return -inner, nil

	case node.TagDot, node.TagBit, node.TagArray, node.TagAtom,
		node.TagEqual, node.TagNotEqual, node.TagLt, node.TagLe,
		node.TagGt, node.TagGe, node.TagSetIn:
		// Atomic: predicates and names become input variables.
		return cv.freshVar(e, true), nil

	case node.TagAnd, node.TagOr:
		return cv.binary(e, positive)

	case node.TagImplies, node.TagIff, node.TagXor, node.TagXnor:
		return cv.binary(e, positive)

	case node.TagIfThenElse, node.TagCase:
		return cv.ite(e, positive)

	default:
		return 0, fmt.Errorf("%w: operator %d", ErrNotBoolean, int(e.Tag()))
	}
}

// need reports whether the defining clauses of e still have to be
// emitted for the polarity, and marks them emitted.
func (cv *converter) need(e *node.Node, positive bool) bool {
	mask := 1
	if !positive {
		mask = 2
	}
	if cv.emitted[e]&mask == mask {
		return false
	}
	cv.emitted[e] |= mask
	return true
}

// binary encodes one two-operand connective as a fresh variable with
// its defining clauses.
func (cv *converter) binary(e *node.Node, positive bool) (int, error) {
	// Operand polarities under which this connective observes them.
	leftPos, rightPos := positive, positive
	switch e.Tag() {
	case node.TagImplies:
		leftPos = !positive
	case node.TagIff, node.TagXor, node.TagXnor:
		// Equivalences observe both polarities of both operands.
	}

	a, err := cv.walk(e.Left(), leftPos)
	if err != nil {
		return 0, err
	}
	b, err := cv.walk(e.Right(), rightPos)
	if err != nil {
		return 0, err
	}
	if cv.polarized && (e.Tag() == node.TagIff || e.Tag() == node.TagXor || e.Tag() == node.TagXnor) {
		if _, err = cv.walk(e.Left(), !leftPos); err != nil {
			return 0, err
		}
		if _, err = cv.walk(e.Right(), !rightPos); err != nil {
			return 0, err
		}
	}
	v := cv.freshVar(e, false)

	var emitPos, emitNeg bool
	if cv.polarized {
		// Only the observed polarity gets its defining clauses.
		if positive {
			emitPos = cv.need(e, true)
		} else {
			emitNeg = cv.need(e, false)
		}
	} else {
		emitPos = cv.need(e, true)
		emitNeg = cv.need(e, false)
	}

	switch e.Tag() {
	case node.TagAnd:
		if emitPos {
			// v -> a, v -> b.
			cv.emitBinClause(-v, a)
			cv.emitBinClause(-v, b)
		}
		if emitNeg {
			// a & b -> v.
			cv.emitTernClause(-a, -b, v)
		}
	case node.TagOr:
		if emitPos {
			cv.emitTernClause(-v, a, b)
		}
		if emitNeg {
			cv.emitBinClause(-a, v)
			cv.emitBinClause(-b, v)
		}
	case node.TagImplies:
		if emitPos {
			cv.emitTernClause(-v, -a, b)
		}
		if emitNeg {
			cv.emitBinClause(a, v)
			cv.emitBinClause(-b, v)
		}
	case node.TagIff, node.TagXnor:
		if emitPos {
			cv.emitTernClause(-v, -a, b)
			cv.emitTernClause(-v, a, -b)
		}
		if emitNeg {
			cv.emitTernClause(v, a, b)
			cv.emitTernClause(v, -a, -b)
		}
	case node.TagXor:
		if emitPos {
			cv.emitTernClause(-v, a, b)
			cv.emitTernClause(-v, -a, -b)
		}
		if emitNeg {
			cv.emitTernClause(v, -a, b)
			cv.emitTernClause(v, a, -b)
		}
	}
	return v, nil
}

// ite encodes case(c, t, e) through a fresh variable.
func (cv *converter) ite(e *node.Node, positive bool) (int, error) {
	colon := e.Left()
	if colon == nil || colon.Tag() != node.TagColon {
		return 0, fmt.Errorf("%w: malformed case expression", ErrNotBoolean)
	}
	c, err := cv.walk(colon.Left(), positive)
	if err != nil {
		return 0, err
	}
	// The condition is observed under both polarities.
	if cv.polarized {
		if _, err = cv.walk(colon.Left(), !positive); err != nil {
			return 0, err
		}
	}
	t, err := cv.walk(colon.Right(), positive)
	if err != nil {
		return 0, err
	}
	el, err := cv.walk(e.Right(), positive)
	if err != nil {
		return 0, err
	}
	v := cv.freshVar(e, false)

	var emitPos, emitNeg bool
	if cv.polarized {
		// Only the observed polarity gets its defining clauses.
		if positive {
			emitPos = cv.need(e, true)
		} else {
			emitNeg = cv.need(e, false)
		}
	} else {
		emitPos = cv.need(e, true)
		emitNeg = cv.need(e, false)
	}
	if emitPos {
		cv.emitTernClause(-v, -c, t)
		cv.emitTernClause(-v, c, el)
	}
	if emitNeg {
		cv.emitTernClause(v, -c, -t)
		cv.emitTernClause(v, c, -el)
	}
	return v, nil
}

// emitBinClause and emitTernClause drop constant literals: a clause
// holding the true literal is a tautology and is skipped, the false
// literal disappears from its clause.
func (cv *converter) emitBinClause(a, b int) {
	cv.emitClause([]int{a, b})
}

func (cv *converter) emitTernClause(a, b, c int) {
	cv.emitClause([]int{a, b, c})
}

func (cv *converter) emitClause(lits []int) {
	out := lits[:0]
	for _, l := range lits {
		if l == TrueLiteral {
			return
		}
		if l == -TrueLiteral {
			continue
		}
		out = append(out, l)
	}
	cv.c.clauses = append(cv.c.clauses, out)
}
