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
	"container/heap"

	"github.com/smckit/smckit/dd"
)

// SizeInhibitAffinity is the input length beyond which affinity
// clustering is not attempted: the pair heap grows as C(N,2), so large
// inputs fall back to plain threshold clustering.
const SizeInhibitAffinity = 100

// An affinity entry tracks one small cluster still alive in the merge
// pool; merged entries are tombstoned instead of removed so stale heap
// pairs can be discarded lazily.
type affEntry struct {
	cluster *Cluster
	owns    bool
	alive   bool
}

func (e *affEntry) drop(m dd.Manager) {
	e.alive = false
	if e.owns {
		e.cluster.Destroy()
		e.cluster = nil
		e.owns = false
	}
}

type affPair struct {
	c1, c2   *affEntry
	affinity float64
}

type pairHeap []*affPair

func (h pairHeap) Len() int           { return len(h) }
func (h pairHeap) Less(i, j int) bool { return h[i].affinity > h[j].affinity }
func (h pairHeap) Swap(i, j int)      { h[i], h[j] = h[j], h[i] }
func (h *pairHeap) Push(x any)        { *h = append(*h, x.(*affPair)) }
func (h *pairHeap) Pop() any {
	old := *h
	n := len(old)
	x := old[n-1]
	*h = old[:n-1]
	return x
}

// affinity scores how much structure two relations share: the size of
// their conjunction over the sum of their sizes. Higher means more
// similar.
func (l *List) affinity(a, b dd.BDD) float64 {
	sum := float64(l.m.Size(a) + l.m.Size(b))
	c := l.m.And(a, b)
	res := float64(l.m.Size(c)) / sum
	l.m.RecursiveDeref(c)
	return res
}

// addToPool inserts a cluster into the merge pool and seeds heap pairs
// against every still-live entry.
func (l *List) addToPool(pool []*affEntry, h *pairHeap, c *Cluster, owns bool) []*affEntry {
	entry := &affEntry{cluster: c, owns: owns, alive: true}

	t1 := c.Trans()
	for _, other := range pool {
		if !other.alive {
			continue
		}
		t2 := other.cluster.Trans()
		heap.Push(h, &affPair{c1: entry, c2: other, affinity: l.affinity(t1, t2)})
		l.m.RecursiveDeref(t2)
	}
	l.m.RecursiveDeref(t1)

	return append(pool, entry)
}

// ApplyThresholdAffinity aggregates clusters by repeatedly conjoining
// the pair with the highest affinity until the merge exceeds the
// threshold. Clusters already over the threshold pass through unchanged.
// The receiver is not modified.
func (l *List) ApplyThresholdAffinity(threshold int, append bool) *List {
	result := NewList(l.m)
	h := &pairHeap{}
	var pool []*affEntry

	commit := func(c *Cluster) {
		if append {
			result.Append(c)
		} else {
			result.Prepend(c)
		}
	}

	// Move over-threshold clusters straight to the result; pool the rest.
	n := 0
	for _, c := range l.clusters {
		t := c.Trans()
		if l.m.Size(t) > threshold {
			nc := NewCluster(l.m)
			nc.SetTrans(t)
			commit(nc)
		} else {
			pool = l.addToPool(pool, h, c, false)
			n++
		}
		l.m.RecursiveDeref(t)
	}

	for n > 1 {
		pair := heap.Pop(h).(*affPair)
		if !pair.c1.alive || !pair.c2.alive {
			continue
		}

		t1 := pair.c1.cluster.Trans()
		t2 := pair.c2.cluster.Trans()
		merged := l.m.And(t1, t2)
		l.m.RecursiveDeref(t2)
		l.m.RecursiveDeref(t1)
		pair.c1.drop(l.m)
		pair.c2.drop(l.m)

		nc := NewCluster(l.m)
		nc.SetTrans(merged)

		if l.m.Size(merged) > threshold {
			commit(nc)
			n -= 2
		} else {
			pool = l.addToPool(pool, h, nc, true)
			n--
		}
		l.m.RecursiveDeref(merged)
	}

	// A last small cluster may survive the merging.
	if n == 1 {
		for _, e := range pool {
			if !e.alive {
				continue
			}
			t := e.cluster.Trans()
			nc := NewCluster(l.m)
			nc.SetTrans(t)
			l.m.RecursiveDeref(t)
			commit(nc)
			break
		}
	}

	for _, e := range pool {
		if e.alive {
			e.drop(l.m)
		}
	}
	return result
}
