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

// Package wff rewrites linear-temporal and past-linear-temporal formulas
// into negation normal form: negations end up directly above atomic
// subformulas only. Case expressions are expanded first; the traversal is
// parameterized by polarity and memoized by (formula, polarity) for the
// lifetime of one rewriter.
package wff

import (
	"errors"
	"fmt"

	"github.com/tliron/commonlog"

	"github.com/smckit/smckit/node"
)

var log = commonlog.GetLogger("smckit.wff")

// ErrBadFormula reports input outside the LTL/PTL fragment: the
// transition-relation next operator, unflattened atoms, or numeric
// leaves.
var ErrBadFormula = errors.New("formula is not a well-formed LTL/PTL input")

// A Rewriter converts formulas to NNF over one arena. The memoization
// table lives as long as the rewriter; drop or Clear it after a compile
// step.
type Rewriter struct {
	ar   *node.Arena
	memo map[memoKey]*node.Node
}

type memoKey struct {
	wff *node.Node
	pol bool
}

// New returns a rewriter over the given arena.
func New(ar *node.Arena) *Rewriter {
	return &Rewriter{ar: ar, memo: make(map[memoKey]*node.Node)}
}

// Clear drops the memoization table.
func (r *Rewriter) Clear() {
	r.memo = make(map[memoKey]*node.Node)
}

// ToNNF rewrites the formula to negation normal form under positive
// polarity.
func (r *Rewriter) ToNNF(wff *node.Node) (*node.Node, error) {
	return r.mkNNF(wff, true)
}

// truth-aware conjunction and disjunction used while rebuilding.
func (r *Rewriter) and(a, b *node.Node) *node.Node {
	if a.IsTrue() {
		return b
	}
	if b.IsTrue() {
		return a
	}
	if a.IsFalse() || b.IsFalse() {
		return r.ar.False()
	}
	return r.ar.New(node.TagAnd, a, b)
}

func (r *Rewriter) or(a, b *node.Node) *node.Node {
	if a.IsFalse() {
		return b
	}
	if b.IsFalse() {
		return a
	}
	if a.IsTrue() || b.IsTrue() {
		return r.ar.True()
	}
	return r.ar.New(node.TagOr, a, b)
}

func (r *Rewriter) not(a *node.Node) *node.Node {
	return r.ar.New(node.TagNot, a, nil)
}

func (r *Rewriter) unary(tag node.Tag, a *node.Node) *node.Node {
	return r.ar.New(tag, a, nil)
}

// expandCase rewrites case(c, t, e) into (c & t) | (!c & e), with
// short-circuiting on constant conditions. A failure fall-off branch is
// recovered as true so the surrounding formula still type-checks; this
// is the compiler's recovery policy, and it warns.
func (r *Rewriter) expandCase(wff *node.Node) (*node.Node, error) {
	if t := wff.Tag(); t != node.TagCase && t != node.TagIfThenElse {
		if wff.Tag() == node.TagFailure {
			f := wff.FailureInfo()
			switch f.Kind {
			case node.FailureCaseNotExhaustive,
				node.FailureDivByZero,
				node.FailureArrayOutOfBounds:
				log.Warningf("line %d: %s: %s (defaulted to TRUE)", f.Line, f.Kind, f.Msg)
				return r.ar.True(), nil
			default:
				return nil, fmt.Errorf("%w: %s", ErrBadFormula, f.Msg)
			}
		}
		return wff, nil
	}

	colon := wff.Left()
	cond, then, rest := colon.Left(), colon.Right(), wff.Right()

	if cond.IsTrue() {
		return then, nil
	}
	if cond.IsFalse() {
		return r.expandCase(rest)
	}
	expanded, err := r.expandCase(rest)
	if err != nil {
		return nil, err
	}
	return r.or(r.and(cond, then), r.and(r.not(cond), expanded)), nil
}

func (r *Rewriter) mkNNF(wff *node.Node, pol bool) (*node.Node, error) {
	if wff == nil {
		return nil, nil
	}
	// Only the temporal X is legal here; the transition-relation next
	// operator must have been eliminated by the booleanizer.
	if wff.Tag() == node.TagNext {
		return nil, fmt.Errorf("%w: unexpected next operator", ErrBadFormula)
	}

	if res, ok := r.memo[memoKey{wff, pol}]; ok {
		return res, nil
	}

	var res *node.Node
	var err error

	// rec recurses with the same polarity, negRec with the flipped one.
	rec := func(n *node.Node) *node.Node {
		if err != nil {
			return nil
		}
		var sub *node.Node
		sub, err = r.mkNNF(n, pol)
		return sub
	}
	negRec := func(n *node.Node) *node.Node {
		if err != nil {
			return nil
		}
		var sub *node.Node
		sub, err = r.mkNNF(n, !pol)
		return sub
	}

	switch wff.Tag() {
	case node.TagTrue:
		if pol {
			res = r.ar.True()
		} else {
			res = r.ar.False()
		}

	case node.TagFalse:
		if pol {
			res = r.ar.False()
		} else {
			res = r.ar.True()
		}

	case node.TagNot:
		res, err = r.mkNNF(wff.Left(), !pol)

	case node.TagAnd:
		if pol {
			res = r.and(rec(wff.Left()), rec(wff.Right()))
		} else {
			res = r.or(rec(wff.Left()), rec(wff.Right()))
		}

	case node.TagOr:
		if pol {
			res = r.or(rec(wff.Left()), rec(wff.Right()))
		} else {
			res = r.and(rec(wff.Left()), rec(wff.Right()))
		}

	case node.TagImplies:
		if pol {
			res = r.or(negRec(wff.Left()), rec(wff.Right()))
		} else {
			// !(a -> b) <-> a & !b; under negative polarity rec flips for
			// us, so the operands swap roles.
			res = r.and(negRec(wff.Left()), rec(wff.Right()))
		}

	case node.TagIff:
		a, b := wff.Left(), wff.Right()
		if pol {
			res = r.and(
				r.or(negRec(a), rec(b)),
				r.or(rec(a), negRec(b)))
		} else {
			res = r.or(
				r.and(negRec(a), rec(b)),
				r.and(rec(a), negRec(b)))
		}

	case node.TagXor:
		a, b := wff.Left(), wff.Right()
		if pol {
			res = r.or(
				r.and(rec(a), negRec(b)),
				r.and(negRec(a), rec(b)))
		} else {
			res = r.and(
				r.or(negRec(a), rec(b)),
				r.or(rec(a), negRec(b)))
		}

	case node.TagXnor:
		a, b := wff.Left(), wff.Right()
		if pol {
			res = r.and(
				r.or(negRec(a), rec(b)),
				r.or(rec(a), negRec(b)))
		} else {
			res = r.or(
				r.and(negRec(a), rec(b)),
				r.and(rec(a), negRec(b)))
		}

	case node.TagOpNext:
		// X is self-dual: !X a <-> X !a.
		res = r.unary(node.TagOpNext, rec(wff.Left()))

	case node.TagOpPrec:
		if pol {
			res = r.unary(node.TagOpPrec, rec(wff.Left()))
		} else {
			res = r.unary(node.TagOpNotPrecNot, rec(wff.Left()))
		}

	case node.TagOpNotPrecNot:
		if pol {
			res = r.unary(node.TagOpNotPrecNot, rec(wff.Left()))
		} else {
			res = r.unary(node.TagOpPrec, rec(wff.Left()))
		}

	case node.TagOpGlobal:
		if pol {
			res = r.unary(node.TagOpGlobal, rec(wff.Left()))
		} else {
			res = r.unary(node.TagOpFuture, rec(wff.Left()))
		}

	case node.TagOpFuture:
		if pol {
			res = r.unary(node.TagOpFuture, rec(wff.Left()))
		} else {
			res = r.unary(node.TagOpGlobal, rec(wff.Left()))
		}

	case node.TagOpHistorical:
		if pol {
			res = r.unary(node.TagOpHistorical, rec(wff.Left()))
		} else {
			res = r.unary(node.TagOpOnce, rec(wff.Left()))
		}

	case node.TagOpOnce:
		if pol {
			res = r.unary(node.TagOpOnce, rec(wff.Left()))
		} else {
			res = r.unary(node.TagOpHistorical, rec(wff.Left()))
		}

	case node.TagUntil:
		tag := node.TagUntil
		if !pol {
			tag = node.TagReleases
		}
		res = r.ar.New(tag, rec(wff.Left()), rec(wff.Right()))

	case node.TagReleases:
		tag := node.TagReleases
		if !pol {
			tag = node.TagUntil
		}
		res = r.ar.New(tag, rec(wff.Left()), rec(wff.Right()))

	case node.TagSince:
		tag := node.TagSince
		if !pol {
			tag = node.TagTriggered
		}
		res = r.ar.New(tag, rec(wff.Left()), rec(wff.Right()))

	case node.TagTriggered:
		tag := node.TagTriggered
		if !pol {
			tag = node.TagSince
		}
		res = r.ar.New(tag, rec(wff.Left()), rec(wff.Right()))

	case node.TagIfThenElse, node.TagCase:
		var expanded *node.Node
		expanded, err = r.expandCase(wff)
		if err == nil {
			res, err = r.mkNNF(expanded, pol)
		}

	case node.TagBit, node.TagDot, node.TagArray:
		if pol {
			res = wff
		} else {
			res = r.not(wff)
		}

	case node.TagLe, node.TagLt, node.TagGe, node.TagGt,
		node.TagEqual, node.TagNotEqual, node.TagSetIn:
		// Predicates are atomic: recursion stops here.
		if pol {
			res = wff
		} else {
			res = r.not(wff)
		}

	case node.TagAtom, node.TagNumber, node.TagNumberUnsignedWord,
		node.TagNumberSignedWord, node.TagNumberFrac, node.TagNumberReal,
		node.TagNumberExp:
		err = fmt.Errorf("%w: unflattened leaf %s", ErrBadFormula, node.Sprint(wff))

	case node.TagMod:
		err = fmt.Errorf("%w: unexpected mod operator", ErrBadFormula)

	default:
		err = fmt.Errorf("%w: unexpected operator %d", ErrBadFormula, int(wff.Tag()))
	}

	if err != nil {
		return nil, err
	}
	r.memo[memoKey{wff, pol}] = res
	return res, nil
}
