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

// ApplyThreshold forms clusters by conjoining the relations in order
// while both the accumulator and the next relation stay within the
// threshold; exceeding either bound commits the accumulator and starts a
// fresh one. The receiver is not modified. append controls whether
// committed clusters go to the tail or the head of the result.
func (l *List) ApplyThreshold(threshold int, append bool) *List {
	if threshold < 0 {
		panic("cluster: negative threshold")
	}

	result := NewList(l.m)
	acc := l.m.True()
	first := true

	commit := func() {
		c := NewCluster(l.m)
		c.SetTrans(acc)
		l.m.RecursiveDeref(acc)
		if append {
			result.Append(c)
		} else {
			result.Prepend(c)
		}
	}

	for i := 0; i < len(l.clusters); {
		relation := l.clusters[i].Trans()

		canAccumulate := first ||
			(l.m.Size(acc) <= threshold && l.m.Size(relation) <= threshold)

		if canAccumulate {
			next := l.m.And(acc, relation)
			l.m.RecursiveDeref(acc)
			acc = next
			first = false
			i++
		} else {
			commit()
			acc = l.m.True()
			first = true
		}
		l.m.RecursiveDeref(relation)
	}
	if !first {
		commit()
	} else {
		l.m.RecursiveDeref(acc)
	}
	return result
}
