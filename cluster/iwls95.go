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
	"github.com/tliron/commonlog"

	"github.com/smckit/smckit/config"
	"github.com/smckit/smckit/dd"
)

var log = commonlog.GetLogger("smckit.cluster")

// iwlsFeatures are the per-cluster quantities the IWLS95 benefit is
// computed from, clamped at zero. The global normalizers xC, zC and maxC
// are shared by every cluster of one round.
type iwlsFeatures struct {
	xI, wI, zI, pI float64
	xC, zC, maxC   float64
	stateInput     dd.BDD // quantifiable state-input vars, owned
}

func clamp(v int) float64 {
	if v < 0 {
		return 0
	}
	return float64(v)
}

// benefit combines the features per the IWLS95 heuristic; the weights
// come from the options and every ratio is guarded against a zero
// normalizer.
func (f *iwlsFeatures) benefit(w [6]float64) float64 {
	var total float64
	if f.xC != 0 {
		total += w[0] * f.xI / f.xC
		total += w[1] * f.wI / f.xC
	}
	if f.zC != 0 {
		total -= w[2] * f.zI / f.zC
	}
	if f.maxC != 0 {
		total -= w[3] * f.pI / f.maxC
	}
	total += w[4] * f.xI
	total -= w[5] * f.zI
	return total
}

// collectFeatures computes the features of every cluster of the list
// against the given variable cubes. The caller releases each entry's
// stateInput cube.
func (l *List) collectFeatures(stateCube, inputCube, nextCube dd.BDD) []iwlsFeatures {
	pspi := l.m.And(stateCube, inputCube)

	acc := l.ClustersCube()
	accPspi := l.m.CubeIntersection(acc, pspi)
	accNext := l.m.CubeIntersection(acc, nextCube)
	xC := float64(l.m.Size(accPspi))
	zC := float64(l.m.Size(accNext))
	maxC := float64(l.m.LowestIndex(accPspi))
	l.m.RecursiveDeref(acc)
	l.m.RecursiveDeref(accPspi)
	l.m.RecursiveDeref(accNext)

	features := make([]iwlsFeatures, 0, len(l.clusters))
	for _, c := range l.clusters {
		ti := c.Trans()
		sti := l.m.Support(ti)
		stiPspi := l.m.CubeIntersection(sti, pspi)
		stiNext := l.m.CubeIntersection(sti, nextCube)

		suppRest := l.supportOfOthers(c)
		stateInput := l.m.CubeDiff(stiPspi, suppRest)

		features = append(features, iwlsFeatures{
			xI:         clamp(l.m.Size(stateInput) - 1),
			wI:         clamp(l.m.Size(stiPspi) - 1),
			zI:         clamp(l.m.Size(stiNext) - 1),
			pI:         clamp(l.m.LowestIndex(stiPspi)),
			xC:         xC,
			zC:         zC,
			maxC:       maxC,
			stateInput: stateInput,
		})

		l.m.RecursiveDeref(stiNext)
		l.m.RecursiveDeref(stiPspi)
		l.m.RecursiveDeref(sti)
		l.m.RecursiveDeref(ti)
	}

	l.m.RecursiveDeref(pspi)
	return features
}

// supportOfOthers conjoins the supports of every cluster but c. The
// result is referenced.
func (l *List) supportOfOthers(c *Cluster) dd.BDD {
	result := l.m.True()
	for _, other := range l.clusters {
		if other.IsEqual(c) {
			continue
		}
		t := other.Trans()
		supp := l.m.Support(t)
		next := l.m.And(result, supp)
		l.m.RecursiveDeref(result)
		l.m.RecursiveDeref(supp)
		l.m.RecursiveDeref(t)
		result = next
	}
	return result
}

// iwls95Order returns a new list ordered by repeatedly extracting the
// cluster with the highest benefit. The receiver is unchanged.
func (l *List) iwls95Order(stateCube, inputCube, nextCube dd.BDD, opts *config.ClusterOptions) *List {
	work := l.weakCopy()
	defer work.destroyWeak()

	result := NewList(l.m)
	for work.Len() > 0 {
		features := work.collectFeatures(stateCube, inputCube, nextCube)

		best := 0
		bestBenefit := features[0].benefit(opts.Iwls95Weights)
		for i := 1; i < len(features); i++ {
			if b := features[i].benefit(opts.Iwls95Weights); b > bestBenefit {
				bestBenefit = b
				best = i
			}
		}

		chosen := work.At(best)
		picked := chosen.Copy()
		picked.SetQuantStateInput(features[best].stateInput)
		result.Append(picked)

		work.Remove(chosen)

		for i := range features {
			l.m.RecursiveDeref(features[i].stateInput)
		}
	}
	return result
}

// ApplyIwls95Partition runs the IWLS95 pipeline: an optional preorder,
// threshold (or, for small inputs, affinity) clustering, and a final
// ordering pass. The receiver is unchanged; the caller builds the
// schedule on the result.
func (l *List) ApplyIwls95Partition(stateCube, inputCube, nextCube dd.BDD,
	opts *config.ClusterOptions) *List {

	source := l
	if opts.Iwls95Preorder {
		log.Debug("performing clusters preordering")
		source = l.iwls95Order(stateCube, inputCube, nextCube, opts)
	}

	var clustered *List
	if l.Len() <= SizeInhibitAffinity && opts.Affinity {
		clustered = source.ApplyThresholdAffinity(opts.ClusterSize, opts.Append)
	} else {
		clustered = source.ApplyThreshold(opts.ClusterSize, opts.Append)
	}
	if source != l {
		source.Destroy()
	}

	log.Debug("ordering clusters")
	result := clustered.iwls95Order(stateCube, inputCube, nextCube, opts)
	clustered.Destroy()
	return result
}
