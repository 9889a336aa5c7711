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

// Package ddtest implements a deliberately small decision-diagram engine
// satisfying dd.Manager, dd.Arith and dd.Walker, for use in tests of the
// packages that consume the engine. It has no garbage collection, no
// complement arcs and no reordering; the variable order is the index
// order. It is test tooling, not an engine.
package ddtest

import (
	"fmt"
	"math"
	"sort"

	"github.com/smckit/smckit/dd"
)

type bnode struct {
	index     int // -1 for terminals
	value     bool
	then, els *bnode
	id        uint64
}

type anode struct {
	index     int // -1 for leaves
	value     float64
	then, els *anode
	id        uint64
}

type bkey struct {
	index     int
	then, els *bnode
}

type akey struct {
	index     int
	then, els *anode
}

type iteKey struct{ f, g, h *bnode }

// Manager is the reference engine. The zero value is not usable; call
// New.
type Manager struct {
	one, zero   *bnode
	unique      map[bkey]*bnode
	iteCache    map[iteKey]*bnode
	existsCache map[[2]*bnode]*bnode

	leaves  map[float64]*anode
	auniq   map[akey]*anode
	aapply  map[[3]any]*anode

	refs    map[any]int
	nextID  uint64
	numVars int
}

var (
	_ dd.Manager = (*Manager)(nil)
	_ dd.Arith   = (*Manager)(nil)
	_ dd.Walker  = (*Manager)(nil)
)

// New returns a fresh manager.
func New() *Manager {
	m := &Manager{
		unique:      make(map[bkey]*bnode),
		iteCache:    make(map[iteKey]*bnode),
		existsCache: make(map[[2]*bnode]*bnode),
		leaves:      make(map[float64]*anode),
		auniq:       make(map[akey]*anode),
		aapply:      make(map[[3]any]*anode),
		refs:        make(map[any]int),
	}
	m.one = &bnode{index: -1, value: true, id: m.id()}
	m.zero = &bnode{index: -1, value: false, id: m.id()}
	return m
}

func (m *Manager) id() uint64 {
	m.nextID++
	return m.nextID
}

func (m *Manager) mk(index int, then, els *bnode) *bnode {
	if then == els {
		return then
	}
	k := bkey{index, then, els}
	if n, ok := m.unique[k]; ok {
		return n
	}
	n := &bnode{index: index, then: then, els: els, id: m.id()}
	m.unique[k] = n
	return n
}

func asB(f dd.BDD) *bnode {
	n, ok := f.(*bnode)
	if !ok {
		panic(fmt.Sprintf("ddtest: foreign BDD handle %T", f))
	}
	return n
}

// True implements dd.Manager.
func (m *Manager) True() dd.BDD { return m.ref(m.one) }

// False implements dd.Manager.
func (m *Manager) False() dd.BDD { return m.ref(m.zero) }

// IsTrue implements dd.Manager.
func (m *Manager) IsTrue(f dd.BDD) bool { return asB(f) == m.one }

// IsFalse implements dd.Manager.
func (m *Manager) IsFalse(f dd.BDD) bool { return asB(f) == m.zero }

func (m *Manager) ref(n *bnode) *bnode {
	m.refs[n]++
	return n
}

// Ref implements dd.Manager.
func (m *Manager) Ref(f dd.BDD) dd.BDD { return m.ref(asB(f)) }

// Deref implements dd.Manager.
func (m *Manager) Deref(f dd.BDD) { m.refs[asB(f)]-- }

// RecursiveDeref implements dd.Manager.
func (m *Manager) RecursiveDeref(f dd.BDD) { m.refs[asB(f)]-- }

// RefCount returns the external reference balance of f; tests use it to
// verify ownership transfers.
func (m *Manager) RefCount(f dd.BDD) int { return m.refs[asB(f)] }

func (m *Manager) ite(f, g, h *bnode) *bnode {
	if f == m.one {
		return g
	}
	if f == m.zero {
		return h
	}
	if g == h {
		return g
	}
	if g == m.one && h == m.zero {
		return f
	}
	k := iteKey{f, g, h}
	if n, ok := m.iteCache[k]; ok {
		return n
	}

	top := f.index
	if g.index >= 0 && (top < 0 || g.index < top) {
		top = g.index
	}
	if h.index >= 0 && (top < 0 || h.index < top) {
		top = h.index
	}
	cof := func(n *bnode, hi bool) *bnode {
		if n.index != top {
			return n
		}
		if hi {
			return n.then
		}
		return n.els
	}
	res := m.mk(top,
		m.ite(cof(f, true), cof(g, true), cof(h, true)),
		m.ite(cof(f, false), cof(g, false), cof(h, false)))
	m.iteCache[k] = res
	return res
}

// Not implements dd.Manager.
func (m *Manager) Not(f dd.BDD) dd.BDD { return m.ref(m.ite(asB(f), m.zero, m.one)) }

// And implements dd.Manager.
func (m *Manager) And(f, g dd.BDD) dd.BDD { return m.ref(m.ite(asB(f), asB(g), m.zero)) }

// Or implements dd.Manager.
func (m *Manager) Or(f, g dd.BDD) dd.BDD { return m.ref(m.ite(asB(f), m.one, asB(g))) }

// Xor implements dd.Manager.
func (m *Manager) Xor(f, g dd.BDD) dd.BDD {
	return m.ref(m.ite(asB(f), m.ite(asB(g), m.zero, m.one), asB(g)))
}

// Xnor implements dd.Manager.
func (m *Manager) Xnor(f, g dd.BDD) dd.BDD {
	return m.ref(m.ite(asB(f), asB(g), m.ite(asB(g), m.zero, m.one)))
}

// Imply implements dd.Manager.
func (m *Manager) Imply(f, g dd.BDD) dd.BDD { return m.ref(m.ite(asB(f), asB(g), m.one)) }

// ITE implements dd.Manager.
func (m *Manager) ITE(f, g, h dd.BDD) dd.BDD { return m.ref(m.ite(asB(f), asB(g), asB(h))) }

func (m *Manager) exists(f, cube *bnode) *bnode {
	if f.index < 0 {
		return f
	}
	for cube.index >= 0 && cube.index < f.index {
		cube = cube.then
	}
	if cube.index < 0 {
		return f
	}
	k := [2]*bnode{f, cube}
	if n, ok := m.existsCache[k]; ok {
		return n
	}
	var res *bnode
	if cube.index == f.index {
		res = m.ite(m.exists(f.then, cube.then), m.one, m.exists(f.els, cube.then))
	} else {
		res = m.mk(f.index, m.exists(f.then, cube), m.exists(f.els, cube))
	}
	m.existsCache[k] = res
	return res
}

// Exists implements dd.Manager.
func (m *Manager) Exists(f, cube dd.BDD) dd.BDD { return m.ref(m.exists(asB(f), asB(cube))) }

// Forall implements dd.Manager.
func (m *Manager) Forall(f, cube dd.BDD) dd.BDD {
	neg := m.ite(asB(f), m.zero, m.one)
	return m.ref(m.ite(m.exists(neg, asB(cube)), m.zero, m.one))
}

// AndAbstract implements dd.Manager.
func (m *Manager) AndAbstract(f, g, cube dd.BDD) dd.BDD {
	return m.ref(m.exists(m.ite(asB(f), asB(g), m.zero), asB(cube)))
}

func (m *Manager) supportIndexes(f *bnode, into map[int]bool, seen map[*bnode]bool) {
	if f.index < 0 || seen[f] {
		return
	}
	seen[f] = true
	into[f.index] = true
	m.supportIndexes(f.then, into, seen)
	m.supportIndexes(f.els, into, seen)
}

func (m *Manager) cubeFromIndexes(idx map[int]bool) *bnode {
	var sorted []int
	for i := range idx {
		sorted = append(sorted, i)
	}
	sort.Sort(sort.Reverse(sort.IntSlice(sorted)))
	cube := m.one
	for _, i := range sorted {
		cube = m.mk(i, cube, m.zero)
	}
	return cube
}

func (m *Manager) cubeIndexes(cube *bnode) map[int]bool {
	idx := make(map[int]bool)
	for cube.index >= 0 {
		idx[cube.index] = true
		cube = cube.then
	}
	return idx
}

// Support implements dd.Manager.
func (m *Manager) Support(f dd.BDD) dd.BDD {
	idx := make(map[int]bool)
	m.supportIndexes(asB(f), idx, make(map[*bnode]bool))
	return m.ref(m.cubeFromIndexes(idx))
}

// CubeDiff implements dd.Manager.
func (m *Manager) CubeDiff(a, b dd.BDD) dd.BDD {
	ia, ib := m.cubeIndexes(asB(a)), m.cubeIndexes(asB(b))
	for i := range ib {
		delete(ia, i)
	}
	return m.ref(m.cubeFromIndexes(ia))
}

// CubeIntersection implements dd.Manager.
func (m *Manager) CubeIntersection(a, b dd.BDD) dd.BDD {
	ia, ib := m.cubeIndexes(asB(a)), m.cubeIndexes(asB(b))
	out := make(map[int]bool)
	for i := range ia {
		if ib[i] {
			out[i] = true
		}
	}
	return m.ref(m.cubeFromIndexes(out))
}

// CubeUnion implements dd.Manager.
func (m *Manager) CubeUnion(a, b dd.BDD) dd.BDD {
	ia, ib := m.cubeIndexes(asB(a)), m.cubeIndexes(asB(b))
	for i := range ib {
		ia[i] = true
	}
	return m.ref(m.cubeFromIndexes(ia))
}

// Size implements dd.Manager.
func (m *Manager) Size(f dd.BDD) int {
	seen := make(map[*bnode]bool)
	var count func(n *bnode)
	count = func(n *bnode) {
		if seen[n] {
			return
		}
		seen[n] = true
		if n.index >= 0 {
			count(n.then)
			count(n.els)
		}
	}
	count(asB(f))
	return len(seen)
}

// CountMinterms implements dd.Manager.
func (m *Manager) CountMinterms(f dd.BDD, nvars int) float64 {
	memo := make(map[*bnode]float64)
	var count func(n *bnode) float64
	count = func(n *bnode) float64 {
		if n == m.one {
			return 1
		}
		if n == m.zero {
			return 0
		}
		if v, ok := memo[n]; ok {
			return v
		}
		v := (count(n.then) + count(n.els)) / 2
		memo[n] = v
		return v
	}
	return count(asB(f)) * math.Pow(2, float64(nvars))
}

// LowestIndex implements dd.Manager.
func (m *Manager) LowestIndex(f dd.BDD) int { return asB(f).index }

// Permute implements dd.Manager.
func (m *Manager) Permute(f dd.BDD, permutation []int) dd.BDD {
	memo := make(map[*bnode]*bnode)
	var rec func(n *bnode) *bnode
	rec = func(n *bnode) *bnode {
		if n.index < 0 {
			return n
		}
		if r, ok := memo[n]; ok {
			return r
		}
		target := n.index
		if target < len(permutation) {
			target = permutation[target]
		}
		v := m.mk(target, m.one, m.zero)
		r := m.ite(v, rec(n.then), rec(n.els))
		memo[n] = r
		return r
	}
	return m.ref(rec(asB(f)))
}

// SwapVariables implements dd.Manager.
func (m *Manager) SwapVariables(f dd.BDD, x, y []dd.BDD) dd.BDD {
	perm := make([]int, m.numVars)
	for i := range perm {
		perm[i] = i
	}
	grow := func(i int) {
		for len(perm) <= i {
			perm = append(perm, len(perm))
		}
	}
	for i := range x {
		xi, yi := asB(x[i]).index, asB(y[i]).index
		grow(xi)
		grow(yi)
		perm[xi], perm[yi] = yi, xi
	}
	return m.Permute(f, perm)
}

// NewVarWithIndex implements dd.Manager.
func (m *Manager) NewVarWithIndex(index int) dd.BDD {
	if index >= m.numVars {
		m.numVars = index + 1
	}
	return m.ref(m.mk(index, m.one, m.zero))
}

// NewVarAtLevel implements dd.Manager. Levels coincide with indexes in
// this engine.
func (m *Manager) NewVarAtLevel(level int) dd.BDD { return m.NewVarWithIndex(level) }

// VarCount implements dd.Manager.
func (m *Manager) VarCount() int { return m.numVars }
