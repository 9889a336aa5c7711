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

// Package cnf materializes boolean expressions in conjunctive normal
// form for SAT-based analyses: a clause list, the auxiliary variables
// introduced by the encoding, the maximum variable index, and the
// polarity-signed literal the whole formula is encoded as. Variables map
// bidirectionally to the expression-graph nodes they encode.
package cnf

import (
	"fmt"
	"io"

	"golang.org/x/tools/container/intsets"

	"github.com/smckit/smckit/node"
	"github.com/smckit/smckit/util/orderedmap"
)

// TrueLiteral is the formula literal of a constantly true formula; its
// negation encodes a constantly false one. No clause ever mentions it.
const TrueLiteral = int(^uint(0) >> 1)

// A Cnf is the CNF materialization of one boolean expression. Positive
// integers are variables, negative ones their negations; clauses never
// contain zero.
type Cnf struct {
	original *node.Node

	vars    []int
	clauses [][]int
	maxVar  int

	// formulaLiteral is the literal equisatisfiable with the whole
	// formula; its sign carries the polarity.
	formulaLiteral int

	varToNode *orderedmap.OrderedMap[int, *node.Node]
	nodeToVar map[*node.Node]int
}

// Original returns the expression this CNF encodes (an unowned
// back-reference).
func (c *Cnf) Original() *node.Node { return c.original }

// FormulaLiteral returns the literal assigned to the whole formula.
func (c *Cnf) FormulaLiteral() int { return c.formulaLiteral }

// MaxVar returns the largest CNF variable index in use.
func (c *Cnf) MaxVar() int { return c.maxVar }

// Vars returns the independent variables introduced by the encoding.
func (c *Cnf) Vars() []int { return c.vars }

// VarsNumber returns the number of introduced variables.
func (c *Cnf) VarsNumber() int { return len(c.vars) }

// Clauses returns the clause list. Callers must treat it as read-only.
func (c *Cnf) Clauses() [][]int { return c.clauses }

// ClausesNumber returns the number of clauses.
func (c *Cnf) ClausesNumber() int { return len(c.clauses) }

// VarToNode returns the expression node encoded by the given CNF
// variable, or nil.
func (c *Cnf) VarToNode(v int) *node.Node { return c.varToNode.Value(v) }

// NodeToVar returns the CNF variable encoding the given node, or 0.
func (c *Cnf) NodeToVar(n *node.Node) int { return c.nodeToVar[n] }

// RemoveDuplicateLiterals removes repeated literals within each clause,
// in place. It is idempotent.
func (c *Cnf) RemoveDuplicateLiterals() {
	var seen intsets.Sparse
	for i, clause := range c.clauses {
		seen.Clear()
		out := clause[:0]
		for _, lit := range clause {
			// Sparse sets hold non-negative ints; fold the sign into an
			// even/odd encoding.
			key := 2 * lit
			if lit < 0 {
				key = -2*lit + 1
			}
			if seen.Has(key) {
				continue
			}
			seen.Insert(key)
			out = append(out, lit)
		}
		c.clauses[i] = out
	}
}

// PrintStats reports clause count, variable count, max variable index,
// and average and maximum clause size, each line prefixed as requested.
func (c *Cnf) PrintStats(w io.Writer, prefix string) {
	maxClause := 0
	sum := 0
	for _, clause := range c.clauses {
		sum += len(clause)
		if len(clause) > maxClause {
			maxClause = len(clause)
		}
	}
	avg := 0.0
	if len(c.clauses) > 0 {
		avg = float64(sum) / float64(len(c.clauses))
	}

	fmt.Fprintf(w, "%s Clause number: %d\n", prefix, c.ClausesNumber())
	fmt.Fprintf(w, "%s Var number: %d\n", prefix, c.VarsNumber())
	fmt.Fprintf(w, "%s Max var index: %d\n", prefix, c.MaxVar())
	fmt.Fprintf(w, "%s Average clause size: %.2f\n", prefix, avg)
	fmt.Fprintf(w, "%s Max clause size: %d\n", prefix, maxClause)
}
