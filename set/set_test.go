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

package set

import (
	"testing"

	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"

	"github.com/smckit/smckit/node"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}

func TestAddRemoveOrder(t *testing.T) {
	t.Parallel()

	a := node.NewArena()
	x, y, z := a.Atom("x"), a.Atom("y"), a.Atom("z")

	var s *Set
	require.True(t, s.IsEmpty())
	s = s.AddMember(x).AddMember(y).AddMember(x).AddMember(z)

	require.Equal(t, 3, s.Cardinality())
	require.Equal(t, []*node.Node{x, y, z}, s.Elements())
	require.True(t, s.IsMember(y))

	s = s.RemoveMember(y)
	require.Equal(t, []*node.Node{x, z}, s.Elements())
	require.False(t, s.IsMember(y))

	s = s.RemoveMember(x).RemoveMember(z)
	require.True(t, s.IsEmpty())
	require.Nil(t, s)
}

func TestUnionIntersectionDifference(t *testing.T) {
	t.Parallel()

	ar := node.NewArena()
	x, y, z := ar.Atom("x"), ar.Atom("y"), ar.Atom("z")

	a := MakeSingleton(x).AddMember(y).Freeze()
	b := MakeSingleton(y).AddMember(z).Freeze()

	u := a.Copy().Union(b)
	require.True(t, u.Contains(a))
	require.True(t, u.Contains(b))
	require.Equal(t, 3, u.Cardinality())

	// union(A, A) == A and intersection(A, A) == A element-wise.
	require.True(t, a.Copy().Union(a).Equals(a))
	require.True(t, a.Copy().Intersection(a).Equals(a))

	i := a.Copy().Intersection(b)
	require.Equal(t, []*node.Node{y}, i.Elements())

	d := a.Copy().Difference(b)
	require.Equal(t, []*node.Node{x}, d.Elements())

	require.True(t, a.Intersects(b))
	require.False(t, MakeSingleton(x).Intersects(MakeSingleton(z)))
}

func TestFrozenCopyOnWrite(t *testing.T) {
	t.Parallel()

	ar := node.NewArena()
	x, y := ar.Atom("x"), ar.Atom("y")

	frozen := MakeSingleton(x).Freeze()
	grown := frozen.AddMember(y)

	require.NotSame(t, frozen, grown)
	require.Equal(t, 1, frozen.Cardinality())
	require.Equal(t, 2, grown.Cardinality())
	require.False(t, grown.IsFrozen())

	// Copying a frozen set shares it.
	require.Same(t, frozen, frozen.Copy())
}

func TestMakeFromUnion(t *testing.T) {
	t.Parallel()

	ar := node.NewArena()
	x, y, z := ar.Atom("x"), ar.Atom("y"), ar.Atom("z")

	u := ar.New(node.TagUnion, ar.New(node.TagUnion, x, y), ar.New(node.TagUnion, y, z))
	s := MakeFromUnion(u)
	require.Equal(t, []*node.Node{x, y, z}, s.Elements())

	// A non-union expression is its own singleton.
	require.Equal(t, []*node.Node{x}, MakeFromUnion(x).Elements())
}

func TestMakeFromConsList(t *testing.T) {
	t.Parallel()

	ar := node.NewArena()
	l := ar.ConsList(ar.Number(1), ar.Number(2), ar.Number(1))
	s := Make(l)
	require.Equal(t, 2, s.Cardinality())
	require.Same(t, ar.Number(1), s.First())
}
