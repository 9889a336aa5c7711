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

package expr

import (
	"errors"
	"fmt"

	"github.com/smckit/smckit/node"
	"github.com/smckit/smckit/symbol"
)

// Symbolic times of an untimed expression. The ordering used when
// combining children is UntimedCurrent < UntimedNext < 0 <= t;
// UntimedDontCare (frozen variables) is neutral on both sides: combined
// with any other time it yields that other time.
const (
	UntimedDontCare = -3
	UntimedCurrent  = -2
	UntimedNext     = -1
)

// ErrNestedTime reports an at-time or next operator nested inside
// another; well-formed flattened input never contains one.
var ErrNestedTime = errors.New("invalid nested time operator")

// AtTime stamps an expression with an absolute time t >= 0. Constants and
// constant sets are returned unwrapped.
func (b *Builder) AtTime(e *node.Node, t int) *node.Node {
	if b.isConstantish(e) {
		return e
	}
	return b.ar.New(node.TagAtTime, e, b.ar.Number(int64(t)))
}

// AtTimeStamp returns the stamp of an at-time node.
func AtTimeStamp(e *node.Node) int {
	if e.Tag() != node.TagAtTime {
		panic("expr: AtTimeStamp on non-attime node")
	}
	return int(e.Right().Int())
}

// AtTimeBody returns the wrapped expression of an at-time node.
func AtTimeBody(e *node.Node) *node.Node {
	if e.Tag() != node.TagAtTime {
		panic("expr: AtTimeBody on non-attime node")
	}
	return e.Left()
}

// TimeIsDontCare reports a frozen-only time.
func TimeIsDontCare(t int) bool { return t == UntimedDontCare }

// TimeIsCurrent reports the untimed current time.
func TimeIsCurrent(t int) bool { return t == UntimedCurrent }

// TimeIsNext reports the untimed next time.
func TimeIsNext(t int) bool { return t == UntimedNext }

// GetTime computes the current time of an expression as the minimum over
// its leaves. Nested at-time stamps are a defect of the input and abort
// with ErrNestedTime.
func (b *Builder) GetTime(e *node.Node) (int, error) {
	cache := make(map[*node.Node]int)
	return b.getTime(e, cache)
}

func (b *Builder) getTime(e *node.Node, cache map[*node.Node]int) (int, error) {
	if e == nil {
		return UntimedDontCare, nil
	}
	if t, ok := cache[e]; ok {
		return t, nil
	}

	var res int
	switch e.Tag() {
	case node.TagDot, node.TagAtom:
		// Frozen variables are time compatible with everything.
		if b.st != nil {
			r := symbol.Resolve(b.ar, b.st, e, nil)
			if b.st.IsFrozenVar(r.ResolvedName()) {
				return UntimedDontCare, nil
			}
		}
		return UntimedCurrent, nil

	case node.TagFailure, node.TagArray, node.TagBit,
		node.TagNumberSignedWord, node.TagNumberUnsignedWord,
		node.TagUwConst, node.TagSwConst, node.TagWordArray,
		node.TagNumber, node.TagNumberReal, node.TagNumberFrac,
		node.TagNumberExp, node.TagTrue, node.TagFalse:
		return UntimedCurrent, nil

	case node.TagAtTime:
		stamp := int(e.Right().Int())
		inner, err := b.getTime(e.Left(), cache)
		if err != nil {
			return 0, err
		}
		switch {
		case inner == UntimedDontCare:
			res = UntimedDontCare
		case inner == UntimedCurrent:
			res = stamp
		default:
			return 0, fmt.Errorf("%w: %s", ErrNestedTime, node.Sprint(e))
		}

	default:
		t1, err := b.getTime(e.Left(), cache)
		if err != nil {
			return 0, err
		}
		t2, err := b.getTime(e.Right(), cache)
		if err != nil {
			return 0, err
		}
		switch {
		case t1 == UntimedDontCare:
			res = t2
		case t2 == UntimedDontCare:
			res = t1
		case t1 < t2:
			res = t1
		default:
			res = t2
		}
	}

	cache[e] = res
	return res, nil
}

// Untimed strips at-time wrappers relative to the expression's own
// current time.
func (b *Builder) Untimed(e *node.Node) (*node.Node, error) {
	t, err := b.GetTime(e)
	if err != nil {
		return nil, err
	}
	return b.UntimedExplicit(e, t)
}

// UntimedExplicit rewrites a timed expression against the given current
// time: stamps equal to it are dropped, stamps one past it become a next
// wrapper, and frozen variables match any stamp. Anything else is a
// defect.
func (b *Builder) UntimedExplicit(e *node.Node, currTime int) (*node.Node, error) {
	type memoKey struct {
		n      *node.Node
		inNext bool
	}
	cache := make(map[memoKey]*node.Node)

	var rec func(e *node.Node, inNext bool) (*node.Node, error)
	rec = func(e *node.Node, inNext bool) (*node.Node, error) {
		if e == nil {
			return nil, nil
		}
		k := memoKey{e, inNext}
		if res, ok := cache[k]; ok {
			return res, nil
		}

		var res *node.Node
		switch e.Tag() {
		case node.TagFailure, node.TagArray, node.TagBit, node.TagDot,
			node.TagAtom, node.TagNumberSignedWord, node.TagNumberUnsignedWord,
			node.TagUwConst, node.TagSwConst, node.TagWordArray,
			node.TagNumber, node.TagNumberReal, node.TagNumberFrac,
			node.TagNumberExp, node.TagTrue, node.TagFalse:
			res = e

		case node.TagAtTime:
			stamp := int(e.Right().Int())
			if b.st != nil && b.st.IsFrozenVar(e.Left()) {
				stamp = currTime
			}
			switch {
			case stamp == UntimedCurrent || stamp == currTime:
				inner, err := rec(e.Left(), inNext)
				if err != nil {
					return nil, err
				}
				res = inner
			case stamp == UntimedNext || stamp == currTime+1:
				if inNext {
					return nil, fmt.Errorf("%w: %s", ErrNestedTime, node.Sprint(e))
				}
				inner, err := rec(e.Left(), true)
				if err != nil {
					return nil, err
				}
				res = b.ar.New(node.TagNext, inner, nil)
			default:
				return nil, fmt.Errorf("%w: at-time stamp %d against time %d",
					ErrNestedTime, stamp, currTime)
			}

		case node.TagNext:
			if inNext {
				return nil, fmt.Errorf("%w: %s", ErrNestedTime, node.Sprint(e))
			}
			inner, err := rec(e.Left(), true)
			if err != nil {
				return nil, err
			}
			res = b.ar.New(node.TagNext, inner, nil)

		default:
			lt, err := rec(e.Left(), inNext)
			if err != nil {
				return nil, err
			}
			rt, err := rec(e.Right(), inNext)
			if err != nil {
				return nil, err
			}
			res = b.ar.New(e.Tag(), lt, rt)
		}

		cache[k] = res
		return res, nil
	}
	return rec(e, false)
}

// IsTimed reports whether the expression contains an at-time wrapper.
func IsTimed(e *node.Node) bool {
	cache := make(map[*node.Node]bool)
	var rec func(e *node.Node) bool
	rec = func(e *node.Node) bool {
		if e == nil || e.Tag().IsLeaf() {
			return false
		}
		if v, ok := cache[e]; ok {
			return v
		}
		var res bool
		switch e.Tag() {
		case node.TagAtTime:
			res = true
		case node.TagNext:
			res = false
		default:
			res = rec(e.Left()) || rec(e.Right())
		}
		cache[e] = res
		return res
	}
	return rec(e)
}
