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
	"fmt"

	"github.com/smckit/smckit/dd"
)

func asA(f dd.ADD) *anode {
	n, ok := f.(*anode)
	if !ok {
		panic(fmt.Sprintf("ddtest: foreign ADD handle %T", f))
	}
	return n
}

func (m *Manager) leaf(v float64) *anode {
	if n, ok := m.leaves[v]; ok {
		return n
	}
	n := &anode{index: -1, value: v, id: m.id()}
	m.leaves[v] = n
	return n
}

func (m *Manager) amk(index int, then, els *anode) *anode {
	if then == els {
		return then
	}
	k := akey{index, then, els}
	if n, ok := m.auniq[k]; ok {
		return n
	}
	n := &anode{index: index, then: then, els: els, id: m.id()}
	m.auniq[k] = n
	return n
}

// ToADD implements dd.Arith: the 0/1 ADD of a BDD.
func (m *Manager) ToADD(f dd.BDD) dd.ADD {
	memo := make(map[*bnode]*anode)
	var rec func(n *bnode) *anode
	rec = func(n *bnode) *anode {
		if n.index < 0 {
			if n.value {
				return m.leaf(1)
			}
			return m.leaf(0)
		}
		if r, ok := memo[n]; ok {
			return r
		}
		r := m.amk(n.index, rec(n.then), rec(n.els))
		memo[n] = r
		return r
	}
	return rec(asB(f))
}

// apply combines two ADDs pointwise.
func (m *Manager) apply(op string, fn func(a, b float64) float64, f, g *anode) *anode {
	k := [3]any{op, f, g}
	if r, ok := m.aapply[k]; ok {
		return r
	}
	var res *anode
	if f.index < 0 && g.index < 0 {
		res = m.leaf(fn(f.value, g.value))
	} else {
		top := f.index
		if top < 0 || (g.index >= 0 && g.index < top) {
			top = g.index
		}
		cof := func(n *anode, hi bool) *anode {
			if n.index != top {
				return n
			}
			if hi {
				return n.then
			}
			return n.els
		}
		res = m.amk(top,
			m.apply(op, fn, cof(f, true), cof(g, true)),
			m.apply(op, fn, cof(f, false), cof(g, false)))
	}
	m.aapply[k] = res
	return res
}

// Times implements dd.Arith.
func (m *Manager) Times(a, b dd.ADD) dd.ADD {
	return m.apply("times", func(x, y float64) float64 { return x * y }, asA(a), asA(b))
}

// ExistAbstract implements dd.Arith: sums out the cube's variables.
func (m *Manager) ExistAbstract(a dd.ADD, cube dd.BDD) dd.ADD {
	plus := func(x, y float64) float64 { return x + y }
	var rec func(n *anode, cube *bnode) *anode
	rec = func(n *anode, cube *bnode) *anode {
		if n.index < 0 {
			// Remaining cube variables each double the sum.
			for cube.index >= 0 {
				n = m.leaf(n.value * 2)
				cube = cube.then
			}
			return n
		}
		if cube.index >= 0 && cube.index < n.index {
			// An abstracted variable the ADD does not mention doubles the
			// sum.
			return m.apply("plus", plus, rec(n, cube.then), rec(n, cube.then))
		}
		if cube.index < 0 {
			return n
		}
		if cube.index == n.index {
			return m.apply("plus", plus, rec(n.then, cube.then), rec(n.els, cube.then))
		}
		return m.amk(n.index, rec(n.then, cube), rec(n.els, cube))
	}
	return rec(asA(a), asB(cube))
}

// ToBDDStrictThreshold implements dd.Arith: keeps the inputs whose value
// is strictly above bound.
func (m *Manager) ToBDDStrictThreshold(a dd.ADD, bound int64) dd.BDD {
	memo := make(map[*anode]*bnode)
	var rec func(n *anode) *bnode
	rec = func(n *anode) *bnode {
		if n.index < 0 {
			if n.value > float64(bound) {
				return m.one
			}
			return m.zero
		}
		if r, ok := memo[n]; ok {
			return r
		}
		r := m.mk(n.index, rec(n.then), rec(n.els))
		memo[n] = r
		return r
	}
	return m.ref(rec(asA(a)))
}

// DerefADD implements dd.Arith.
func (m *Manager) DerefADD(a dd.ADD) { m.refs[asA(a)]-- }

// SizeADD implements dd.Arith.
func (m *Manager) SizeADD(a dd.ADD) int {
	seen := make(map[*anode]bool)
	var count func(n *anode)
	count = func(n *anode) {
		if seen[n] {
			return
		}
		seen[n] = true
		if n.index >= 0 {
			count(n.then)
			count(n.els)
		}
	}
	count(asA(a))
	return len(seen)
}

// IsConstantNode implements dd.Walker.
func (m *Manager) IsConstantNode(f dd.BDD) bool { return asB(f).index < 0 }

// NodeIndex implements dd.Walker.
func (m *Manager) NodeIndex(f dd.BDD) int { return asB(f).index }

// Then implements dd.Walker.
func (m *Manager) Then(f dd.BDD) dd.BDD { return asB(f).then }

// Else implements dd.Walker.
func (m *Manager) Else(f dd.BDD) dd.BDD { return asB(f).els }

// IsComplement implements dd.Walker; this engine has no complement arcs.
func (m *Manager) IsComplement(dd.BDD) bool { return false }

// Regular implements dd.Walker.
func (m *Manager) Regular(f dd.BDD) dd.BDD { return f }

// NodeID implements dd.Walker.
func (m *Manager) NodeID(f dd.BDD) uint64 { return asB(f).id }
