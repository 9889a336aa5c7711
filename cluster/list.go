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

package cluster

import (
	"fmt"
	"io"

	"github.com/smckit/smckit/dd"
)

// A List is an ordered sequence of clusters. The order is semantically
// significant: it is the schedule of conjunctions during image
// computation. The list owns its clusters; mutators transfer ownership
// in, Destroy releases everything.
type List struct {
	m        Engine
	clusters []*Cluster
}

// NewList returns an empty list over the engine.
func NewList(m Engine) *List {
	return &List{m: m}
}

// Engine returns the decision-diagram engine the list runs on.
func (l *List) Engine() Engine { return l.m }

// Len returns the number of clusters.
func (l *List) Len() int { return len(l.clusters) }

// At returns the i-th cluster. The list keeps ownership.
func (l *List) At(i int) *Cluster { return l.clusters[i] }

// Append adds c at the tail, taking ownership.
func (l *List) Append(c *Cluster) { l.clusters = append(l.clusters, c) }

// Prepend adds c at the head, taking ownership.
func (l *List) Prepend(c *Cluster) {
	l.clusters = append([]*Cluster{c}, l.clusters...)
}

// Reverse flips the order in place.
func (l *List) Reverse() {
	for i, j := 0, len(l.clusters)-1; i < j; i, j = i+1, j-1 {
		l.clusters[i], l.clusters[j] = l.clusters[j], l.clusters[i]
	}
}

// Remove unlinks every cluster whose relation equals c's, returning how
// many were removed. Ownership of the removed clusters passes back to
// the caller; the list does not release them.
func (l *List) Remove(c *Cluster) int {
	removed := 0
	kept := l.clusters[:0]
	for _, el := range l.clusters {
		if el.IsEqual(c) {
			removed++
			continue
		}
		kept = append(kept, el)
	}
	l.clusters = kept
	return removed
}

// Copy returns a list of copies of every cluster, in order.
func (l *List) Copy() *List {
	c := NewList(l.m)
	for _, el := range l.clusters {
		c.Append(el.Copy())
	}
	return c
}

// weakCopy shares the clusters; the result must be released with
// destroyWeak, never Destroy.
func (l *List) weakCopy() *List {
	c := NewList(l.m)
	c.clusters = append(c.clusters, l.clusters...)
	return c
}

func (l *List) destroyWeak() { l.clusters = nil }

// Destroy releases every cluster; the list must not be used afterwards.
func (l *List) Destroy() {
	for _, el := range l.clusters {
		el.Destroy()
	}
	l.clusters = nil
}

// MonolithicBDD conjoins every cluster's relation. The result is
// referenced for the caller.
func (l *List) MonolithicBDD() dd.BDD {
	result := l.m.True()
	for _, el := range l.clusters {
		t := el.Trans()
		next := l.m.And(result, t)
		l.m.RecursiveDeref(result)
		l.m.RecursiveDeref(t)
		result = next
	}
	return result
}

// ClustersCube conjoins the supports of every cluster's relation, for
// the ordering heuristics. The result is referenced for the caller.
func (l *List) ClustersCube() dd.BDD {
	result := l.m.True()
	for _, el := range l.clusters {
		t := el.Trans()
		supp := l.m.Support(t)
		next := l.m.And(result, supp)
		l.m.RecursiveDeref(result)
		l.m.RecursiveDeref(supp)
		l.m.RecursiveDeref(t)
		result = next
	}
	return result
}

// ApplyMonolithic returns a single-cluster list holding the monolithic
// relation.
func (l *List) ApplyMonolithic() *List {
	result := NewList(l.m)
	mono := l.MonolithicBDD()
	c := NewCluster(l.m)
	c.SetTrans(mono)
	l.m.RecursiveDeref(mono)
	result.Append(c)
	return result
}

// CheckEquality reports whether two lists denote the same monolithic
// relation.
func (l *List) CheckEquality(other *List) bool {
	a := l.MonolithicBDD()
	b := other.MonolithicBDD()
	eq := a == b
	l.m.RecursiveDeref(a)
	l.m.RecursiveDeref(b)
	return eq
}

// PrintShortInfo writes the size of every cluster's relation.
func (l *List) PrintShortInfo(w io.Writer) {
	for i, el := range l.clusters {
		t := el.Trans()
		fmt.Fprintf(w, "cluster %d: %d BDD nodes\n", i+1, l.m.Size(t))
		l.m.RecursiveDeref(t)
	}
}
