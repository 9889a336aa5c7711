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

package expr_test

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/smckit/smckit/expr"
	"github.com/smckit/smckit/node"
	"github.com/smckit/smckit/symbol/symboltest"
)

func TestAtTimeUnwrapsConstants(t *testing.T) {
	t.Parallel()

	b, ar, st := newBuilder()
	red := ar.Atom("red")
	st.DeclareConstant(red)

	require.Same(t, ar.True(), b.AtTime(ar.True(), 3))
	require.Same(t, ar.Number(5), b.AtTime(ar.Number(5), 3))
	require.Same(t, red, b.AtTime(red, 3))

	x := ar.Dot(nil, ar.Atom("x"))
	timed := b.AtTime(x, 3)
	require.Equal(t, node.TagAtTime, timed.Tag())
	require.Same(t, x, expr.AtTimeBody(timed))
	require.Equal(t, 3, expr.AtTimeStamp(timed))
}

func TestGetTime(t *testing.T) {
	t.Parallel()

	b, ar, st := newBuilder()

	x := ar.Dot(nil, ar.Atom("x"))
	y := ar.Dot(nil, ar.Atom("y"))
	st.DeclareStateVar(x, symboltest.Type{Kind: symboltest.Boolean})
	st.DeclareStateVar(y, symboltest.Type{Kind: symboltest.Boolean})

	// Untimed leaves are current.
	tm, err := b.GetTime(x)
	require.NoError(t, err)
	require.True(t, expr.TimeIsCurrent(tm))

	// The current time of a conjunction is the minimum child time.
	e := ar.New(node.TagAnd, b.AtTime(x, 2), b.AtTime(y, 5))
	tm, err = b.GetTime(e)
	require.NoError(t, err)
	require.Equal(t, 2, tm)

	// Frozen variables are time-agnostic.
	f := ar.Dot(nil, ar.Atom("frozen"))
	st.DeclareFrozenVar(f, symboltest.Type{Kind: symboltest.Boolean})
	tm, err = b.GetTime(f)
	require.NoError(t, err)
	require.True(t, expr.TimeIsDontCare(tm))

	tm, err = b.GetTime(ar.New(node.TagAnd, f, b.AtTime(x, 4)))
	require.NoError(t, err)
	require.Equal(t, 4, tm)

	// Nested at-time aborts.
	nested := ar.New(node.TagAtTime, b.AtTime(x, 2), ar.Number(3))
	_, err = b.GetTime(nested)
	require.ErrorIs(t, err, expr.ErrNestedTime)
}

func TestUntimed(t *testing.T) {
	t.Parallel()

	b, ar, st := newBuilder()

	x := ar.Dot(nil, ar.Atom("x"))
	y := ar.Dot(nil, ar.Atom("y"))
	st.DeclareStateVar(x, symboltest.Type{Kind: symboltest.Boolean})
	st.DeclareStateVar(y, symboltest.Type{Kind: symboltest.Boolean})

	// x@2 & y@3 relative to time 2: strip the @2, turn @3 into next.
	e := ar.New(node.TagAnd, b.AtTime(x, 2), b.AtTime(y, 3))
	res, err := b.Untimed(e)
	require.NoError(t, err)
	require.Equal(t, node.TagAnd, res.Tag())
	require.Same(t, x, res.Left())
	require.Equal(t, node.TagNext, res.Right().Tag())
	require.Same(t, y, res.Right().Left())

	// A frozen variable matches any stamp.
	f := ar.Dot(nil, ar.Atom("frozen"))
	st.DeclareFrozenVar(f, symboltest.Type{Kind: symboltest.Boolean})
	timedFrozen := ar.New(node.TagAtTime, f, ar.Number(9))
	res, err = b.UntimedExplicit(timedFrozen, 2)
	require.NoError(t, err)
	require.Same(t, f, res)

	// next under next is a defect.
	bad := ar.New(node.TagNext, ar.New(node.TagNext, x, nil), nil)
	_, err = b.UntimedExplicit(bad, 0)
	require.ErrorIs(t, err, expr.ErrNestedTime)
}

func TestIsTimed(t *testing.T) {
	t.Parallel()

	b, ar, st := newBuilder()
	x := ar.Dot(nil, ar.Atom("x"))
	st.DeclareStateVar(x, symboltest.Type{Kind: symboltest.Boolean})

	require.False(t, expr.IsTimed(x))
	require.True(t, expr.IsTimed(b.AtTime(x, 1)))
	// next does not count as timed.
	require.False(t, expr.IsTimed(ar.New(node.TagNext, x, nil)))
	require.True(t, expr.IsTimed(ar.New(node.TagAnd, x, b.AtTime(x, 1))))
}
