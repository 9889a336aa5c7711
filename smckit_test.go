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

package smckit_test

import (
	"testing"

	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"

	"github.com/smckit/smckit"
	"github.com/smckit/smckit/cluster"
	"github.com/smckit/smckit/config"
	"github.com/smckit/smckit/dd"
	"github.com/smckit/smckit/dd/ddtest"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}

func relationFixture(m *ddtest.Manager) (relations []dd.BDD, state, input, next dd.BDD) {
	x := m.NewVarWithIndex(0)
	y := m.NewVarWithIndex(1)
	nx := m.NewVarWithIndex(2)
	ny := m.NewVarWithIndex(3)

	r1 := m.Xnor(x, nx)
	yy := m.Xnor(y, ny)
	r2 := m.And(yy, nx)
	m.RecursiveDeref(yy)

	return []dd.BDD{r1, r2},
		cluster.VarsCube(m, x, y),
		m.True(),
		cluster.VarsCube(m, nx, ny)
}

func TestCompileClusteredTrans(t *testing.T) {
	t.Parallel()

	m := ddtest.New()
	relations, state, input, next := relationFixture(m)

	opts := config.NewClusterOptions()
	opts.ClusterSize = 1

	list := smckit.CompileClusteredTrans(m, relations, state, input, next, opts)
	require.True(t, list.CheckSchedule())

	want := m.And(relations[0], relations[1])
	mono := list.MonolithicBDD()
	require.Equal(t, want, mono)
}

func TestCompileMonolithicTrans(t *testing.T) {
	t.Parallel()

	m := ddtest.New()
	relations, state, input, _ := relationFixture(m)

	list := smckit.CompileMonolithicTrans(m, relations, state, input)
	require.Equal(t, 1, list.Len())
	require.True(t, list.CheckSchedule())

	want := m.And(relations[0], relations[1])
	mono := list.MonolithicBDD()
	require.Equal(t, want, mono)
}
