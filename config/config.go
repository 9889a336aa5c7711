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

// Package config hosts the tunables of the compilation pipeline. Unknown
// option names and ill-typed values are warned about and ignored; they
// never abort a run.
package config

import (
	"strconv"

	"github.com/tliron/commonlog"
)

var log = commonlog.GetLogger("smckit.config")

// Default values of the clustering options.
const (
	DefaultThreshold   = 1000
	DefaultClusterSize = 1000
)

// DefaultIwls95Weights are the benefit weights used when none are
// configured.
var DefaultIwls95Weights = [6]float64{6, 1, 3, 2, 0, 0}

// ClusterOptions configures transition-relation clustering and the
// IWLS95 ordering heuristic.
type ClusterOptions struct {
	// Threshold bounds cluster growth during threshold clustering.
	Threshold int
	// ClusterSize bounds the final cluster size in the IWLS95 pipeline.
	ClusterSize int
	// Affinity selects affinity-based merging for small inputs.
	Affinity bool
	// Append controls whether formed clusters are appended or prepended.
	Append bool
	// Iwls95Preorder enables the optional ordering pass before
	// clustering.
	Iwls95Preorder bool
	// Iwls95Weights are the six benefit weights.
	Iwls95Weights [6]float64
}

// NewClusterOptions returns the defaults.
func NewClusterOptions() *ClusterOptions {
	return &ClusterOptions{
		Threshold:     DefaultThreshold,
		ClusterSize:   DefaultClusterSize,
		Affinity:      true,
		Append:        true,
		Iwls95Weights: DefaultIwls95Weights,
	}
}

// Set assigns one option by name. Unknown names and unparsable values
// are reported on the log and ignored; it returns whether the option was
// applied.
func (o *ClusterOptions) Set(name, value string) bool {
	switch name {
	case "threshold":
		return o.setPositiveInt(name, value, &o.Threshold)
	case "cluster_size":
		return o.setPositiveInt(name, value, &o.ClusterSize)
	case "affinity":
		return o.setBool(name, value, &o.Affinity)
	case "append_clusters":
		return o.setBool(name, value, &o.Append)
	case "iwls95_preorder":
		return o.setBool(name, value, &o.Iwls95Preorder)
	case "image_w1", "image_w2", "image_w3", "image_w4", "image_w5", "image_w6":
		idx := int(name[len(name)-1] - '1')
		f, err := strconv.ParseFloat(value, 64)
		if err != nil {
			log.Warningf("invalid value %q for option %q, ignored", value, name)
			return false
		}
		o.Iwls95Weights[idx] = f
		return true
	default:
		log.Warningf("unknown option %q, ignored", name)
		return false
	}
}

func (o *ClusterOptions) setPositiveInt(name, value string, into *int) bool {
	v, err := strconv.Atoi(value)
	if err != nil || v <= 0 {
		log.Warningf("invalid value %q for option %q, ignored", value, name)
		return false
	}
	*into = v
	return true
}

func (o *ClusterOptions) setBool(name, value string, into *bool) bool {
	v, err := strconv.ParseBool(value)
	if err != nil {
		log.Warningf("invalid value %q for option %q, ignored", value, name)
		return false
	}
	*into = v
	return true
}
