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

package ddtest

import (
	"testing"

	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"

	"github.com/smckit/smckit/dd"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}

func TestBooleanAlgebra(t *testing.T) {
	t.Parallel()

	m := New()
	x := m.NewVarWithIndex(0)
	y := m.NewVarWithIndex(1)

	// Canonicity: equal functions are equal handles.
	require.Equal(t, m.And(x, y), m.And(y, x))
	require.Equal(t, m.Not(m.Not(x)), x)
	require.Equal(t, m.Or(x, m.Not(x)), m.True())
	require.Equal(t, m.And(x, m.Not(x)), m.False())
	require.Equal(t, m.Xor(x, y), m.Not(m.Xnor(x, y)))
	require.Equal(t, m.Imply(x, y), m.Or(m.Not(x), y))
	require.Equal(t, m.ITE(x, y, m.False()), m.And(x, y))
}

func TestAbstraction(t *testing.T) {
	t.Parallel()

	m := New()
	x := m.NewVarWithIndex(0)
	y := m.NewVarWithIndex(1)

	f := m.And(x, y)
	// Exists x. x & y == y.
	require.Equal(t, y, m.Exists(f, x))
	// Forall x. x & y == false.
	require.Equal(t, m.False(), m.Forall(f, x))
	// AndAbstract fuses the two steps.
	require.Equal(t, y, m.AndAbstract(x, y, x))
}

func TestSupportAndCubes(t *testing.T) {
	t.Parallel()

	m := New()
	x := m.NewVarWithIndex(0)
	y := m.NewVarWithIndex(1)
	z := m.NewVarWithIndex(2)

	f := m.Or(m.And(x, y), z)
	supp := m.Support(f)
	require.Equal(t, m.And(x, m.And(y, z)), supp)

	xy := m.And(x, y)
	yz := m.And(y, z)
	require.Equal(t, x, m.CubeDiff(xy, yz))
	require.Equal(t, y, m.CubeIntersection(xy, yz))
	require.Equal(t, m.And(x, yz), m.CubeUnion(xy, yz))

	require.Equal(t, 0, m.LowestIndex(xy))
	require.Equal(t, 1, m.LowestIndex(yz))
	require.Equal(t, -1, m.LowestIndex(m.True()))
}

func TestCounting(t *testing.T) {
	t.Parallel()

	m := New()
	x := m.NewVarWithIndex(0)
	y := m.NewVarWithIndex(1)

	require.Equal(t, 2.0, m.CountMinterms(x, 2))
	require.Equal(t, 1.0, m.CountMinterms(m.And(x, y), 2))
	require.Equal(t, 4.0, m.CountMinterms(m.True(), 2))
	require.Equal(t, 3, m.Size(x))
}

func TestPermuteAndSwap(t *testing.T) {
	t.Parallel()

	m := New()
	x := m.NewVarWithIndex(0)
	y := m.NewVarWithIndex(1)

	moved := m.Permute(x, []int{1, 0})
	require.Equal(t, y, moved)

	f := m.And(x, m.Not(y))
	swapped := m.SwapVariables(f, []dd.BDD{x}, []dd.BDD{y})
	require.Equal(t, m.And(y, m.Not(x)), swapped)
}

func TestADDRoundTrip(t *testing.T) {
	t.Parallel()

	m := New()
	x := m.NewVarWithIndex(0)
	y := m.NewVarWithIndex(1)

	a := m.ToADD(m.Or(x, y))
	b := m.ToADD(m.And(x, y))
	prod := m.Times(a, b)

	// (x|y)*(x&y) is the 0/1 ADD of x&y.
	require.Equal(t, b, prod)

	// Summing out both variables of x&y yields the single count 1, of
	// x|y the count 3.
	cube := m.And(x, y)
	require.Equal(t, m.True(), m.ToBDDStrictThreshold(m.ExistAbstract(b, cube), 0))
	require.Equal(t, m.False(), m.ToBDDStrictThreshold(m.ExistAbstract(b, cube), 1))
	require.Equal(t, m.True(), m.ToBDDStrictThreshold(m.ExistAbstract(a, cube), 2))
	require.Equal(t, m.False(), m.ToBDDStrictThreshold(m.ExistAbstract(a, cube), 3))
}

func TestRefCounting(t *testing.T) {
	t.Parallel()

	m := New()
	x := m.NewVarWithIndex(0)
	base := m.RefCount(x)

	m.Ref(x)
	require.Equal(t, base+1, m.RefCount(x))
	m.Deref(x)
	m.RecursiveDeref(x)
	require.Equal(t, base-1, m.RefCount(x))
}
