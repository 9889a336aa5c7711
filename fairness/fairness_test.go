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

package fairness_test

import (
	"testing"

	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"

	"github.com/smckit/smckit/dd/ddtest"
	"github.com/smckit/smckit/fairness"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}

func TestJusticeOwnership(t *testing.T) {
	t.Parallel()

	m := ddtest.New()
	p := m.NewVarWithIndex(0)
	baseline := m.RefCount(p)

	j := fairness.NewJustice(m)
	require.True(t, j.IsEmpty())

	j.Append(p)
	require.Equal(t, 1, j.Len())
	require.Equal(t, baseline+1, m.RefCount(p))

	// At hands out a referenced copy owned by the caller.
	got := j.At(0)
	require.Equal(t, p, got)
	require.Equal(t, baseline+2, m.RefCount(p))
	m.RecursiveDeref(got)

	j.Destroy()
	require.Equal(t, baseline, m.RefCount(p))
}

func TestJusticeProductAndCopy(t *testing.T) {
	t.Parallel()

	m := ddtest.New()
	p := m.NewVarWithIndex(0)
	q := m.NewVarWithIndex(1)

	a := fairness.NewJustice(m)
	a.Append(p)
	b := fairness.NewJustice(m)
	b.Append(q)

	a.AppendProduct(b)
	require.Equal(t, 2, a.Len())
	require.Equal(t, 1, b.Len())

	c := a.Copy()
	require.Equal(t, 2, c.Len())
	got := c.At(1)
	require.Equal(t, q, got)
	m.RecursiveDeref(got)

	c.Destroy()
	a.Destroy()
	b.Destroy()
}

func TestCompassionPairs(t *testing.T) {
	t.Parallel()

	m := ddtest.New()
	p := m.NewVarWithIndex(0)
	q := m.NewVarWithIndex(1)
	basP, basQ := m.RefCount(p), m.RefCount(q)

	c := fairness.NewCompassion(m)
	c.Append(p, q)
	require.Equal(t, 1, c.Len())
	require.Equal(t, basP+1, m.RefCount(p))
	require.Equal(t, basQ+1, m.RefCount(q))

	pair := c.At(0)
	require.Equal(t, p, pair.P)
	require.Equal(t, q, pair.Q)
	m.RecursiveDeref(pair.P)
	m.RecursiveDeref(pair.Q)

	other := fairness.NewCompassion(m)
	other.Append(q, p)
	c.AppendProduct(other)
	require.Equal(t, 2, c.Len())

	c.Destroy()
	other.Destroy()
	require.Equal(t, basP, m.RefCount(p))
	require.Equal(t, basQ, m.RefCount(q))
}
