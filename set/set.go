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

// Package set implements finite ordered sets of interned nodes. Elements
// are deduplicated on insert and keep insertion order; membership is node
// identity. A set is either owned (mutable in place) or frozen (shared,
// immutable); mutating a frozen set transparently copies it first. The
// nil *Set is the empty set.
package set

import (
	"github.com/smckit/smckit/node"
)

// A Set is an ordered, deduplicated sequence of interned nodes.
type Set struct {
	elems  []*node.Node
	index  map[*node.Node]int
	frozen bool
	refs   int
}

// MakeEmpty returns the empty set.
func MakeEmpty() *Set { return nil }

// MakeSingleton returns a fresh owned set holding the one element.
func MakeSingleton(el *node.Node) *Set {
	s := newSet()
	return s.AddMember(el)
}

// Make builds a set from a CONS list, preserving order.
func Make(l *node.Node) *Set {
	var s *Set
	for ; l != nil; l = l.Right() {
		s = s.AddMember(l.Left())
	}
	return s
}

// MakeFromUnion flattens a (possibly nested) UNION expression into a set
// of its leaves. A non-union expression yields its singleton.
func MakeFromUnion(n *node.Node) *Set {
	var s *Set
	var walk func(n *node.Node)
	walk = func(n *node.Node) {
		if n == nil {
			return
		}
		if n.Tag() == node.TagUnion {
			walk(n.Left())
			walk(n.Right())
			return
		}
		s = s.AddMember(n)
	}
	walk(n)
	return s
}

func newSet() *Set {
	return &Set{index: make(map[*node.Node]int)}
}

// Copy returns a set usable independently of the receiver. Frozen sets
// are shared by reference counting; owned sets are copied element-wise.
func (s *Set) Copy() *Set {
	if s == nil {
		return nil
	}
	if s.frozen {
		s.refs++
		return s
	}
	return s.copyActual()
}

func (s *Set) copyActual() *Set {
	c := newSet()
	c.elems = append(c.elems, s.elems...)
	for i, el := range c.elems {
		c.index[el] = i
	}
	return c
}

// Release gives up one reference to the set. Owned sets and the last
// reference of a frozen set become garbage.
func (s *Set) Release() {
	if s == nil {
		return
	}
	if s.frozen && s.refs > 0 {
		s.refs--
	}
}

// checkFrozen returns the receiver if it may be mutated in place, or a
// fresh owned copy when the receiver is frozen.
func (s *Set) checkFrozen() *Set {
	if s == nil {
		return newSet()
	}
	if !s.frozen {
		return s
	}
	s.Release()
	return s.copyActual()
}

// Freeze makes the set immutable and shareable. Returns the receiver.
func (s *Set) Freeze() *Set {
	if s != nil && !s.frozen {
		s.frozen = true
		s.refs = 1
	}
	return s
}

// IsFrozen reports whether the set is shared and immutable.
func (s *Set) IsFrozen() bool { return s != nil && s.frozen }

// IsEmpty reports whether the set has no elements.
func (s *Set) IsEmpty() bool { return s == nil || len(s.elems) == 0 }

// Cardinality returns the number of elements.
func (s *Set) Cardinality() int {
	if s == nil {
		return 0
	}
	return len(s.elems)
}

// IsMember reports whether el is in the set.
func (s *Set) IsMember(el *node.Node) bool {
	if s == nil {
		return false
	}
	_, ok := s.index[el]
	return ok
}

// Elements returns the elements in insertion order. The returned slice is
// owned by the set and must not be modified.
func (s *Set) Elements() []*node.Node {
	if s == nil {
		return nil
	}
	return s.elems
}

// First returns the first element of a non-empty set.
func (s *Set) First() *node.Node {
	if s.IsEmpty() {
		panic("set: First on empty set")
	}
	return s.elems[0]
}

// AddMember inserts el, keeping order and uniqueness, and returns the set
// holding the result (a copy if the receiver was frozen).
func (s *Set) AddMember(el *node.Node) *Set {
	if s.IsMember(el) {
		return s
	}
	t := s.checkFrozen()
	t.index[el] = len(t.elems)
	t.elems = append(t.elems, el)
	return t
}

// RemoveMember removes el if present and returns the set holding the
// result. Removing the last element yields the empty set.
func (s *Set) RemoveMember(el *node.Node) *Set {
	if !s.IsMember(el) {
		return s
	}
	if s.Cardinality() == 1 {
		s.Release()
		return nil
	}
	t := s.checkFrozen()
	i := t.index[el]
	t.elems = append(t.elems[:i], t.elems[i+1:]...)
	delete(t.index, el)
	for j := i; j < len(t.elems); j++ {
		t.index[t.elems[j]] = j
	}
	return t
}

// Contains reports whether every element of other is in the set.
func (s *Set) Contains(other *Set) bool {
	if other.IsEmpty() {
		return true
	}
	if s.Cardinality() < other.Cardinality() {
		return false
	}
	for _, el := range other.elems {
		if !s.IsMember(el) {
			return false
		}
	}
	return true
}

// Equals reports whether the two sets hold the same elements.
func (s *Set) Equals(other *Set) bool {
	return s.Cardinality() == other.Cardinality() && s.Contains(other)
}

// Intersects reports whether the sets share at least one element.
func (s *Set) Intersects(other *Set) bool {
	if s.IsEmpty() || other.IsEmpty() {
		return false
	}
	for _, el := range other.elems {
		if s.IsMember(el) {
			return true
		}
	}
	return false
}

// Union adds every element of other and returns the set holding the
// result.
func (s *Set) Union(other *Set) *Set {
	if other.IsEmpty() {
		return s
	}
	t := s
	for _, el := range other.elems {
		t = t.AddMember(el)
	}
	return t
}

// Intersection removes every element not in other and returns the set
// holding the result.
func (s *Set) Intersection(other *Set) *Set {
	if s.IsEmpty() {
		return s
	}
	if other.IsEmpty() {
		s.Release()
		return nil
	}
	t := s
	for _, el := range append([]*node.Node(nil), s.elems...) {
		if !other.IsMember(el) {
			t = t.RemoveMember(el)
		}
	}
	return t
}

// Difference removes every element of other and returns the set holding
// the result.
func (s *Set) Difference(other *Set) *Set {
	if s.IsEmpty() || other.IsEmpty() {
		return s
	}
	t := s
	for _, el := range other.elems {
		t = t.RemoveMember(el)
	}
	return t
}
