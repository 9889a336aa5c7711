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

package expr

import (
	"github.com/smckit/smckit/node"
	sets "github.com/smckit/smckit/set"
)

// Union builds a set union. A nil operand passes the other through, and
// a union that normalizes to a single element collapses to it.
func (b *Builder) Union(a, c *node.Node) *node.Node {
	if a == nil {
		return c
	}
	if c == nil {
		return a
	}
	if a == c {
		return a
	}
	res := b.ar.New(node.TagUnion, a, c)
	s := sets.MakeFromUnion(res)
	defer s.Release()
	if s.Cardinality() == 1 {
		return s.First()
	}
	return res
}

// Range builds an integer range; a range with equal constant bounds
// collapses to the bound.
func (b *Builder) Range(a, c *node.Node) *node.Node {
	if a == nil {
		return c
	}
	if c == nil {
		return a
	}
	if a == c {
		return a
	}
	if a.Tag() == node.TagNumber && c.Tag() == node.TagNumber && a.Int() == c.Int() {
		return a
	}
	return b.ar.New(node.TagTwoDots, a, c)
}

// SetIn builds the set-membership predicate. Syntactic containment of the
// left set in the right resolves to true; two all-constant sets without
// containment resolve to false.
func (b *Builder) SetIn(a, c *node.Node) *node.Node {
	sa := sets.MakeFromUnion(a)
	sc := sets.MakeFromUnion(c)
	defer sa.Release()
	defer sc.Release()

	if sc.Contains(sa) {
		return b.True()
	}
	if b.st != nil {
		allConst := true
		for _, el := range sa.Elements() {
			if !b.isConstantElement(el) {
				allConst = false
				break
			}
		}
		if allConst {
			for _, el := range sc.Elements() {
				if !b.isConstantElement(el) {
					allConst = false
					break
				}
			}
		}
		if allConst {
			// Only constants on both sides and no containment: the
			// membership cannot hold.
			return b.False()
		}
	}
	return b.ar.New(node.TagSetIn, a, c)
}

// isConstantElement reports whether a set element is a literal or a
// declared constant.
func (b *Builder) isConstantElement(el *node.Node) bool {
	switch el.Tag() {
	case node.TagNumber, node.TagNumberUnsignedWord, node.TagNumberSignedWord,
		node.TagTrue, node.TagFalse:
		return true
	}
	return b.st != nil && b.st.IsConstant(el)
}

// Function builds an uninterpreted function application; params is a
// CONS list.
func (b *Builder) Function(name, params *node.Node) *node.Node {
	return b.ar.New(node.TagNFunction, name, params)
}
