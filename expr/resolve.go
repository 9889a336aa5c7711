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
	"github.com/smckit/smckit/node"
	"github.com/smckit/smckit/symbol"
)

// Resolve applies the smart constructor for tag to already-simplified
// operands. It does not traverse the operands; it only combines them,
// which is what the post-order simplifier needs at each node.
func (b *Builder) Resolve(tag node.Tag, left, right *node.Node) *node.Node {
	switch tag {
	case node.TagTrue:
		return b.True()
	case node.TagFalse:
		return b.False()

	// Name shapes pass through re-interned; payload leaves have no
	// children and must be passed around as nodes, not rebuilt here.
	case node.TagBit, node.TagDot, node.TagArray:
		return b.ar.New(tag, left, right)

	case node.TagUwConst, node.TagSwConst:
		return b.WordConstant(tag, left, right)
	case node.TagWSizeof:
		return b.WSizeof(left)
	case node.TagCastToInt:
		return b.CastToInt(left)
	case node.TagWResize:
		return b.Resize(left, right)

	case node.TagAnd:
		return b.And(left, right)
	case node.TagOr:
		return b.Or(left, right)
	case node.TagNot:
		return b.Not(left)
	case node.TagImplies:
		return b.Implies(left, right)
	case node.TagIff:
		return b.Iff(left, right)
	case node.TagXor:
		return b.Xor(left, right)
	case node.TagXnor:
		return b.Xnor(left, right)

	case node.TagEqual:
		return b.Equal(left, right)
	case node.TagNotEqual:
		return b.NotEqual(left, right)
	case node.TagLt:
		return b.Lt(left, right)
	case node.TagLe:
		return b.Le(left, right)
	case node.TagGt:
		return b.Gt(left, right)
	case node.TagGe:
		return b.Ge(left, right)

	case node.TagIfThenElse, node.TagCase:
		if left.Tag() != node.TagColon {
			panic("expr: case without a colon branch")
		}
		return b.Ite(left.Left(), left.Right(), right)

	case node.TagNext:
		return b.Next(left)

	case node.TagUMinus:
		return b.UnaryMinus(left)
	case node.TagPlus:
		return b.Plus(left, right)
	case node.TagMinus:
		return b.Minus(left, right)
	case node.TagTimes:
		return b.Times(left, right)
	case node.TagDivide:
		return b.Divide(left, right)
	case node.TagMod:
		return b.Mod(left, right)

	case node.TagCastWord1:
		return b.CastWord1(left)
	case node.TagCastBool:
		return b.CastBool(left)
	case node.TagCastSigned:
		return b.CastSigned(left)
	case node.TagCastUnsigned:
		return b.CastUnsigned(left)
	case node.TagExtend:
		return b.Extend(left, right)
	case node.TagLShift:
		return b.LeftShift(left, right)
	case node.TagRShift:
		return b.RightShift(left, right)
	case node.TagLRotate:
		return b.LeftRotate(left, right)
	case node.TagRRotate:
		return b.RightRotate(left, right)
	case node.TagBitSelection:
		return b.SimplifyBitSelect(left, right)
	case node.TagConcatenation:
		return b.Concat(left, right)

	case node.TagAtTime:
		if right.Tag() != node.TagNumber {
			panic("expr: attime without a literal time")
		}
		return b.AtTime(left, int(right.Int()))

	case node.TagUnion:
		return b.Union(left, right)
	case node.TagSetIn:
		return b.SetIn(left, right)
	case node.TagTwoDots:
		return b.Range(left, right)

	default:
		// Temporal operators, EQDEF, CONS, CONTEXT and everything else
		// pass through without simplification.
		return b.ar.New(tag, left, right)
	}
}

// Simplify evaluates constants and syntactically simplifies the
// expression bottom-up. Results are memoized in the symbol table's cache
// (which the table clears on layer changes); conjunction, disjunction and
// implication are lazy in their right operand.
func (b *Builder) Simplify(e *node.Node) *node.Node {
	var cache *symbol.Cache
	if b.st != nil {
		cache = b.st.SimplificationCache()
	} else {
		cache = symbol.NewCache()
	}
	return b.simplify(e, cache)
}

func (b *Builder) simplify(e *node.Node, cache *symbol.Cache) *node.Node {
	if e == nil {
		return nil
	}
	if res := cache.Lookup(e); res != nil {
		return res
	}

	var res *node.Node
	tag := e.Tag()
	switch tag {
	case node.TagTrue:
		return b.True()
	case node.TagFalse:
		return b.False()

	case node.TagAtom, node.TagNumber, node.TagNumberUnsignedWord,
		node.TagNumberSignedWord, node.TagNumberFrac, node.TagNumberReal,
		node.TagNumberExp, node.TagFailure:
		return e

	case node.TagBit:
		return e

	case node.TagDot, node.TagArray:
		// Array indexes may be expressions; names pass through unchanged.
		return b.ar.New(tag, b.simplify(e.Left(), cache), b.simplify(e.Right(), cache))

	case node.TagUwConst, node.TagSwConst, node.TagWResize:
		res = b.Resolve(tag, b.simplify(e.Left(), cache), b.simplify(e.Right(), cache))

	case node.TagNot, node.TagNext, node.TagUMinus, node.TagWSizeof,
		node.TagCastToInt, node.TagCastWord1, node.TagCastBool,
		node.TagCastSigned, node.TagCastUnsigned:
		res = b.Resolve(tag, b.simplify(e.Left(), cache), nil)

	case node.TagAnd:
		left := b.simplify(e.Left(), cache)
		if left.IsFalse() {
			res = left
		} else {
			res = b.Resolve(tag, left, b.simplify(e.Right(), cache))
		}

	case node.TagOr:
		left := b.simplify(e.Left(), cache)
		if left.IsTrue() {
			res = left
		} else {
			res = b.Resolve(tag, left, b.simplify(e.Right(), cache))
		}

	case node.TagImplies:
		left := b.simplify(e.Left(), cache)
		if left.IsFalse() {
			res = b.True()
		} else {
			res = b.Resolve(tag, left, b.simplify(e.Right(), cache))
		}

	case node.TagIff, node.TagXor, node.TagXnor,
		node.TagEqual, node.TagNotEqual,
		node.TagLt, node.TagLe, node.TagGt, node.TagGe,
		node.TagPlus, node.TagMinus, node.TagTimes, node.TagDivide, node.TagMod,
		node.TagExtend, node.TagLShift, node.TagRShift,
		node.TagLRotate, node.TagRRotate,
		node.TagBitSelection, node.TagConcatenation,
		node.TagSetIn, node.TagUnion, node.TagTwoDots:
		res = b.Resolve(tag, b.simplify(e.Left(), cache), b.simplify(e.Right(), cache))

	case node.TagIfThenElse, node.TagCase:
		// Lazy on the condition: only the live branch is visited when the
		// condition is constant.
		cond := b.simplify(e.Left().Left(), cache)
		var then, els *node.Node
		switch {
		case cond.IsTrue():
			then = b.simplify(e.Left().Right(), cache)
			els = e.Right()
		case cond.IsFalse():
			then = e.Left().Right()
			els = b.simplify(e.Right(), cache)
		default:
			then = b.simplify(e.Left().Right(), cache)
			els = b.simplify(e.Right(), cache)
		}
		res = b.Resolve(tag, b.ar.New(node.TagColon, cond, then), els)

	case node.TagEBF, node.TagABF, node.TagEBG, node.TagABG,
		node.TagEBU, node.TagABU:
		// The bound (a TWODOTS) must not be resolved: a range with equal
		// bounds would collapse to a number and break the formula.
		res = b.Resolve(tag, b.simplify(e.Left(), cache), e.Right())

	default:
		res = b.ar.New(tag, b.simplify(e.Left(), cache), b.simplify(e.Right(), cache))
	}

	cache.Insert(e, res)
	return res
}
