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

// Package smckit is the core compilation and symbolic-reasoning pipeline
// of a symbolic model checker: a hash-consed expression algebra with a
// canonicalizing simplifier (expr, node, word, set), symbol resolution
// (symbol), negation-normal-form rewriting for LTL/PTL (wff),
// quantification-scheduled transition-relation clustering with image
// operators (cluster), fairness constraint lists (fairness), and a CNF
// materializer for SAT back-ends (cnf). The decision-diagram engine is
// consumed through the dd interfaces, never implemented here.
package smckit

import (
	"github.com/smckit/smckit/cluster"
	"github.com/smckit/smckit/config"
	"github.com/smckit/smckit/dd"
)

// CompileClusteredTrans partitions the conjunctively-decomposed
// transition relation into an ordered, quantification-scheduled cluster
// list ready for image computation: IWLS95 partitioning over the given
// variable cubes followed by schedule construction. The relations are
// borrowed; the returned list is owned by the caller.
func CompileClusteredTrans(m cluster.Engine, relations []dd.BDD,
	stateCube, inputCube, nextStateCube dd.BDD,
	opts *config.ClusterOptions) *cluster.List {

	if opts == nil {
		opts = config.NewClusterOptions()
	}

	flat := cluster.NewList(m)
	for _, r := range relations {
		c := cluster.NewCluster(m)
		c.SetTrans(r)
		flat.Append(c)
	}

	result := flat.ApplyIwls95Partition(stateCube, inputCube, nextStateCube, opts)
	flat.Destroy()

	result.BuildSchedule(stateCube, inputCube)
	return result
}

// CompileMonolithicTrans collapses the relations into a single
// scheduled cluster, the fallback when partitioned image computation is
// not wanted.
func CompileMonolithicTrans(m cluster.Engine, relations []dd.BDD,
	stateCube, inputCube dd.BDD) *cluster.List {

	flat := cluster.NewList(m)
	for _, r := range relations {
		c := cluster.NewCluster(m)
		c.SetTrans(r)
		flat.Append(c)
	}

	result := flat.ApplyMonolithic()
	flat.Destroy()

	result.BuildSchedule(stateCube, inputCube)
	return result
}
