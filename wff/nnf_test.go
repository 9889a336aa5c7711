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

package wff

import (
	"testing"

	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"

	"github.com/smckit/smckit/node"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}

// requireNNF walks the formula checking the normal-form property: no
// implication-style connectives or cases survive, and every negation
// sits directly above an atomic subformula.
func requireNNF(t *testing.T, n *node.Node) {
	t.Helper()
	if n == nil {
		return
	}
	switch n.Tag() {
	case node.TagImplies, node.TagIff, node.TagXor, node.TagXnor,
		node.TagCase, node.TagIfThenElse:
		t.Fatalf("connective %d left in NNF output", int(n.Tag()))
	case node.TagNot:
		child := n.Left()
		switch child.Tag() {
		case node.TagBit, node.TagDot, node.TagArray,
			node.TagEqual, node.TagNotEqual, node.TagLt, node.TagLe,
			node.TagGt, node.TagGe, node.TagSetIn:
		default:
			t.Fatalf("negation above non-atomic %d", int(child.Tag()))
		}
		return
	}
	if n.Tag().IsLeaf() {
		return
	}
	requireNNF(t, n.Left())
	requireNNF(t, n.Right())
}

func name(ar *node.Arena, s string) *node.Node {
	return ar.Dot(nil, ar.Atom(s))
}

func TestUntilDuality(t *testing.T) {
	t.Parallel()

	ar := node.NewArena()
	r := New(ar)
	a, b := name(ar, "a"), name(ar, "b")

	// !(a U b) becomes (!a R !b).
	in := ar.New(node.TagNot, ar.New(node.TagUntil, a, b), nil)
	out, err := r.ToNNF(in)
	require.NoError(t, err)
	require.Equal(t, node.TagReleases, out.Tag())
	require.Equal(t, node.TagNot, out.Left().Tag())
	require.Same(t, a, out.Left().Left())
	require.Equal(t, node.TagNot, out.Right().Tag())
	require.Same(t, b, out.Right().Left())
	requireNNF(t, out)
}

func TestPastDualities(t *testing.T) {
	t.Parallel()

	ar := node.NewArena()
	r := New(ar)
	a, b := name(ar, "a"), name(ar, "b")

	tests := []struct {
		in   node.Tag
		want node.Tag
	}{
		{node.TagOpPrec, node.TagOpNotPrecNot},
		{node.TagOpNotPrecNot, node.TagOpPrec},
		{node.TagOpHistorical, node.TagOpOnce},
		{node.TagOpOnce, node.TagOpHistorical},
		{node.TagOpGlobal, node.TagOpFuture},
		{node.TagOpFuture, node.TagOpGlobal},
	}
	for _, tt := range tests {
		in := ar.New(node.TagNot, ar.New(tt.in, a, nil), nil)
		out, err := r.ToNNF(in)
		require.NoError(t, err)
		require.Equal(t, tt.want, out.Tag(), "dual of %d", int(tt.in))
		requireNNF(t, out)
	}

	// !(a S b) becomes (!a T !b) and vice versa.
	in := ar.New(node.TagNot, ar.New(node.TagSince, a, b), nil)
	out, err := r.ToNNF(in)
	require.NoError(t, err)
	require.Equal(t, node.TagTriggered, out.Tag())

	in = ar.New(node.TagNot, ar.New(node.TagTriggered, a, b), nil)
	out, err = r.ToNNF(in)
	require.NoError(t, err)
	require.Equal(t, node.TagSince, out.Tag())
}

func TestBooleanExpansion(t *testing.T) {
	t.Parallel()

	ar := node.NewArena()
	r := New(ar)
	a, b := name(ar, "a"), name(ar, "b")

	// iff expands into the conjunction of two disjunctions.
	out, err := r.ToNNF(ar.New(node.TagIff, a, b))
	require.NoError(t, err)
	require.Equal(t, node.TagAnd, out.Tag())
	requireNNF(t, out)

	// Negated iff expands into the disjunction of two conjunctions.
	out, err = r.ToNNF(ar.New(node.TagNot, ar.New(node.TagIff, a, b), nil))
	require.NoError(t, err)
	require.Equal(t, node.TagOr, out.Tag())
	requireNNF(t, out)

	// Implication expands to !a | b.
	out, err = r.ToNNF(ar.New(node.TagImplies, a, b))
	require.NoError(t, err)
	require.Equal(t, node.TagOr, out.Tag())
	require.Equal(t, node.TagNot, out.Left().Tag())
	require.Same(t, b, out.Right())

	// Double negation cancels.
	out, err = r.ToNNF(ar.New(node.TagNot, ar.New(node.TagNot, a, nil), nil))
	require.NoError(t, err)
	require.Same(t, a, out)

	// X is self-dual.
	out, err = r.ToNNF(ar.New(node.TagNot, ar.New(node.TagOpNext, a, nil), nil))
	require.NoError(t, err)
	require.Equal(t, node.TagOpNext, out.Tag())
	require.Equal(t, node.TagNot, out.Left().Tag())
}

func TestCaseExpansion(t *testing.T) {
	t.Parallel()

	ar := node.NewArena()
	r := New(ar)
	c, x, y := name(ar, "c"), name(ar, "x"), name(ar, "y")

	in := ar.New(node.TagCase, ar.New(node.TagColon, c, x), y)
	out, err := r.ToNNF(in)
	require.NoError(t, err)
	// (c & x) | (!c & y).
	require.Equal(t, node.TagOr, out.Tag())
	require.Equal(t, node.TagAnd, out.Left().Tag())
	require.Equal(t, node.TagAnd, out.Right().Tag())
	requireNNF(t, out)

	// A statically-true condition short-circuits.
	in = ar.New(node.TagCase, ar.New(node.TagColon, ar.True(), x), y)
	out, err = r.ToNNF(in)
	require.NoError(t, err)
	require.Same(t, x, out)

	// A failure fall-off branch defaults to true, so the case with a
	// false condition is the constant.
	fail := ar.NewFailure(node.FailureCaseNotExhaustive, "case conditions are not exhaustive", 12)
	in = ar.New(node.TagCase, ar.New(node.TagColon, ar.False(), x), fail)
	out, err = r.ToNNF(in)
	require.NoError(t, err)
	require.True(t, out.IsTrue())
}

func TestPredicatesAreAtomic(t *testing.T) {
	t.Parallel()

	ar := node.NewArena()
	r := New(ar)
	a, b := name(ar, "a"), name(ar, "b")

	lt := ar.New(node.TagLt, a, b)
	out, err := r.ToNNF(ar.New(node.TagNot, lt, nil))
	require.NoError(t, err)
	require.Equal(t, node.TagNot, out.Tag())
	require.Same(t, lt, out.Left())
}

func TestRejectsIllFormedInput(t *testing.T) {
	t.Parallel()

	ar := node.NewArena()
	r := New(ar)
	a := name(ar, "a")

	// The transition-relation next operator is not an LTL operator.
	_, err := r.ToNNF(ar.New(node.TagNext, a, nil))
	require.ErrorIs(t, err, ErrBadFormula)

	// Bare atoms must have been flattened away.
	_, err = r.ToNNF(ar.Atom("loose"))
	require.ErrorIs(t, err, ErrBadFormula)

	_, err = r.ToNNF(ar.New(node.TagMod, a, a))
	require.ErrorIs(t, err, ErrBadFormula)
}

func TestMemoization(t *testing.T) {
	t.Parallel()

	ar := node.NewArena()
	r := New(ar)
	a, b := name(ar, "a"), name(ar, "b")

	f := ar.New(node.TagUntil, a, b)
	big := ar.New(node.TagAnd, f, ar.New(node.TagNot, f, nil))

	out1, err := r.ToNNF(big)
	require.NoError(t, err)
	out2, err := r.ToNNF(big)
	require.NoError(t, err)
	require.Same(t, out1, out2)

	r.Clear()
	out3, err := r.ToNNF(big)
	require.NoError(t, err)
	require.Same(t, out1, out3)
}
