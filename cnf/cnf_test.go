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
	"bytes"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"

	"github.com/smckit/smckit/node"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}

// evalClauses checks whether the clause set is satisfied by the given
// assignment (true literals by variable).
func evalClauses(clauses [][]int, assign map[int]bool) bool {
	for _, clause := range clauses {
		sat := false
		for _, lit := range clause {
			v := lit
			if v < 0 {
				v = -v
			}
			val, ok := assign[v]
			if !ok {
				continue
			}
			if (lit > 0) == val {
				sat = true
				break
			}
		}
		if !sat {
			return false
		}
	}
	return true
}

func TestConvertConjunction(t *testing.T) {
	t.Parallel()

	ar := node.NewArena()
	a := ar.Dot(nil, ar.Atom("a"))
	b := ar.Dot(nil, ar.Atom("b"))
	e := ar.New(node.TagAnd, a, b)

	c, err := Convert(e, AlgorithmTseitin)
	require.NoError(t, err)
	require.Same(t, e, c.Original())

	va, vb := c.NodeToVar(a), c.NodeToVar(b)
	require.NotZero(t, va)
	require.NotZero(t, vb)
	require.Same(t, a, c.VarToNode(va))

	lit := c.FormulaLiteral()
	require.Positive(t, lit)
	require.LessOrEqual(t, lit, c.MaxVar())

	// With the formula literal asserted, only a=b=1 satisfies.
	v := lit
	require.True(t, evalClauses(c.Clauses(),
		map[int]bool{v: true, va: true, vb: true}))
	require.False(t, evalClauses(c.Clauses(),
		map[int]bool{v: true, va: true, vb: false}))

	// The independent variable list holds exactly the two inputs.
	require.ElementsMatch(t, []int{va, vb}, c.Vars())
}

func TestConvertConstants(t *testing.T) {
	t.Parallel()

	ar := node.NewArena()

	c, err := Convert(ar.True(), AlgorithmTseitin)
	require.NoError(t, err)
	require.Equal(t, TrueLiteral, c.FormulaLiteral())
	require.Zero(t, c.ClausesNumber())

	c, err = Convert(ar.False(), AlgorithmTseitin)
	require.NoError(t, err)
	require.Equal(t, -TrueLiteral, c.FormulaLiteral())
}

func TestConvertNegationAndSharing(t *testing.T) {
	t.Parallel()

	ar := node.NewArena()
	a := ar.Dot(nil, ar.Atom("a"))
	b := ar.Dot(nil, ar.Atom("b"))
	conj := ar.New(node.TagAnd, a, b)
	// conj & !conj: the shared connective is encoded once.
	e := ar.New(node.TagAnd, conj, ar.New(node.TagNot, conj, nil))

	c, err := Convert(e, AlgorithmTseitin)
	require.NoError(t, err)

	// Whole thing is unsatisfiable once the formula literal is asserted.
	lit := c.FormulaLiteral()
	va, vb := c.NodeToVar(a), c.NodeToVar(b)
	vconj := c.NodeToVar(conj)
	for _, aVal := range []bool{false, true} {
		for _, bVal := range []bool{false, true} {
			for _, cVal := range []bool{false, true} {
				assign := map[int]bool{va: aVal, vb: bVal, vconj: cVal, lit: true}
				require.False(t, evalClauses(c.Clauses(), assign))
			}
		}
	}
}

func TestSheridanEmitsFewerClauses(t *testing.T) {
	t.Parallel()

	ar := node.NewArena()
	a := ar.Dot(nil, ar.Atom("a"))
	b := ar.Dot(nil, ar.Atom("b"))
	e := ar.New(node.TagOr, ar.New(node.TagAnd, a, b), a)

	full, err := Convert(e, AlgorithmTseitin)
	require.NoError(t, err)
	lean, err := Convert(e, AlgorithmSheridan)
	require.NoError(t, err)

	require.Less(t, lean.ClausesNumber(), full.ClausesNumber())

	// Positive-polarity satisfiability agrees.
	va, vb := lean.NodeToVar(a), lean.NodeToVar(b)
	inner := lean.NodeToVar(e.Left())
	assign := map[int]bool{va: true, vb: true, inner: true, lean.FormulaLiteral(): true}
	require.True(t, evalClauses(lean.Clauses(), assign))
}

func TestConvertRejectsNonBoolean(t *testing.T) {
	t.Parallel()

	ar := node.NewArena()
	e := ar.New(node.TagPlus, ar.Number(1), ar.Number(2))
	_, err := Convert(e, AlgorithmTseitin)
	require.ErrorIs(t, err, ErrNotBoolean)

	_, err = Convert(ar.True(), "unknown")
	require.Error(t, err)
}

func TestRemoveDuplicateLiterals(t *testing.T) {
	t.Parallel()

	c := &Cnf{
		clauses: [][]int{{1, -2, 1, 3, -2}, {4, 4, 4}, {-5}},
		maxVar:  5,
	}
	c.RemoveDuplicateLiterals()
	require.Equal(t, [][]int{{1, -2, 3}, {4}, {-5}}, c.clauses)

	// Idempotent.
	c.RemoveDuplicateLiterals()
	require.Equal(t, [][]int{{1, -2, 3}, {4}, {-5}}, c.clauses)
}

func TestPrintStats(t *testing.T) {
	t.Parallel()

	c := &Cnf{
		vars:    []int{1, 2},
		clauses: [][]int{{1, 2}, {-1, -2, 3}},
		maxVar:  3,
	}
	var sb strings.Builder
	c.PrintStats(&sb, "--")
	out := sb.String()
	require.Contains(t, out, "-- Clause number: 2")
	require.Contains(t, out, "-- Var number: 2")
	require.Contains(t, out, "-- Max var index: 3")
	require.Contains(t, out, "-- Average clause size: 2.50")
	require.Contains(t, out, "-- Max clause size: 3")
}

func TestDimacsAndArtifactRoundTrip(t *testing.T) {
	t.Parallel()

	ar := node.NewArena()
	a := ar.Dot(nil, ar.Atom("a"))
	b := ar.Dot(nil, ar.Atom("b"))
	c, err := Convert(ar.New(node.TagOr, a, b), AlgorithmTseitin)
	require.NoError(t, err)

	var dimacs bytes.Buffer
	require.NoError(t, c.WriteDimacs(&dimacs))
	require.True(t, strings.HasPrefix(dimacs.String(), "p cnf "))
	require.Contains(t, dimacs.String(), " 0\n")

	var buf bytes.Buffer
	require.NoError(t, WriteArtifact(&buf, c.Artifact()))

	back, err := ReadArtifact(&buf)
	require.NoError(t, err)
	if diff := cmp.Diff(c.Artifact(), back); diff != "" {
		t.Errorf("artifact changed across the round trip (-want +got):\n%s", diff)
	}
}
