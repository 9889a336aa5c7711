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

// Package fairness implements ordered collections of fairness
// constraints over BDD state sets: justice lists hold single sets that
// must hold infinitely often, compassion lists hold (premise,
// conclusion) pairs. Lists own one reference to every held BDD and
// release them on Destroy.
package fairness

import (
	"github.com/smckit/smckit/dd"
)

// A Justice is an ordered list of justice constraints.
type Justice struct {
	m     dd.Manager
	items []dd.BDD
}

// NewJustice returns an empty justice list over the manager.
func NewJustice(m dd.Manager) *Justice {
	return &Justice{m: m}
}

// Len returns the number of constraints.
func (j *Justice) Len() int { return len(j.items) }

// IsEmpty reports whether the list holds no constraint.
func (j *Justice) IsEmpty() bool { return len(j.items) == 0 }

// Append adds p to the list; the list takes its own reference.
func (j *Justice) Append(p dd.BDD) {
	j.items = append(j.items, j.m.Ref(p))
}

// At returns the i-th constraint, referenced for the caller.
func (j *Justice) At(i int) dd.BDD {
	return j.m.Ref(j.items[i])
}

// Copy returns a deep copy of the list structure sharing the BDDs via
// fresh references.
func (j *Justice) Copy() *Justice {
	c := NewJustice(j.m)
	for _, p := range j.items {
		c.Append(p)
	}
	return c
}

// AppendProduct appends every constraint of other, building the fairness
// side of a synchronous product. other is not changed.
func (j *Justice) AppendProduct(other *Justice) {
	for _, p := range other.items {
		j.Append(p)
	}
}

// Destroy releases every held reference; the list must not be used
// afterwards.
func (j *Justice) Destroy() {
	for _, p := range j.items {
		j.m.RecursiveDeref(p)
	}
	j.items = nil
}

// A CompassionPair is a (premise, conclusion) constraint: infinitely
// often premise implies infinitely often conclusion.
type CompassionPair struct {
	P, Q dd.BDD
}

// A Compassion is an ordered list of compassion constraints.
type Compassion struct {
	m     dd.Manager
	pairs []CompassionPair
}

// NewCompassion returns an empty compassion list over the manager.
func NewCompassion(m dd.Manager) *Compassion {
	return &Compassion{m: m}
}

// Len returns the number of constraints.
func (c *Compassion) Len() int { return len(c.pairs) }

// IsEmpty reports whether the list holds no constraint.
func (c *Compassion) IsEmpty() bool { return len(c.pairs) == 0 }

// Append adds the pair (p, q); the list takes one reference to each.
func (c *Compassion) Append(p, q dd.BDD) {
	c.pairs = append(c.pairs, CompassionPair{P: c.m.Ref(p), Q: c.m.Ref(q)})
}

// At returns the i-th pair, both sides referenced for the caller.
func (c *Compassion) At(i int) CompassionPair {
	pair := c.pairs[i]
	return CompassionPair{P: c.m.Ref(pair.P), Q: c.m.Ref(pair.Q)}
}

// Copy returns a deep copy of the list structure sharing the BDDs via
// fresh references.
func (c *Compassion) Copy() *Compassion {
	cp := NewCompassion(c.m)
	for _, pair := range c.pairs {
		cp.Append(pair.P, pair.Q)
	}
	return cp
}

// AppendProduct appends every pair of other; other is not changed.
func (c *Compassion) AppendProduct(other *Compassion) {
	for _, pair := range other.pairs {
		c.Append(pair.P, pair.Q)
	}
}

// Destroy releases every held reference; the list must not be used
// afterwards.
func (c *Compassion) Destroy() {
	for _, pair := range c.pairs {
		c.m.RecursiveDeref(pair.P)
		c.m.RecursiveDeref(pair.Q)
	}
	c.pairs = nil
}
