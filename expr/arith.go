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
	"github.com/smckit/smckit/word"
)

// boolConst returns the boolean constant for v.
func (b *Builder) boolConst(v bool) *node.Node {
	if v {
		return b.True()
	}
	return b.False()
}

// isIntZero reports a zero integer literal.
func isIntZero(n *node.Node) bool { return n.Tag() == node.TagNumber && n.Int() == 0 }

// isWordZero reports an all-zero word constant.
func isWordZero(n *node.Node) bool { return n.Tag().IsWordConstant() && n.Word().IsZero() }

// Equal builds the equality predicate over booleans, scalars and words.
func (b *Builder) Equal(a, c *node.Node) *node.Node {
	if a == c {
		return b.True()
	}
	if isBoolConst(a) && isBoolConst(c) {
		return b.boolConst(a.Tag() == c.Tag())
	}
	if complementary(a, c) {
		return b.False()
	}
	if a.Tag() == node.TagNumber && c.Tag() == node.TagNumber {
		return b.boolConst(a.Int() == c.Int())
	}
	if anyWordConstant(a, c) && bothWordConstants(a, c) &&
		a.Word().Width() == c.Word().Width() {
		return b.boolConst(a.Word().Equal(c.Word()))
	}

	if b.st != nil {
		// Two declared enumeration constants compare by identity.
		if b.st.IsConstant(a) && b.st.IsConstant(c) {
			return b.boolConst(a == c)
		}
		tc := b.st.TypeChecker()
		isBool := func(n *node.Node) bool {
			t := tc.ExpressionType(n, nil)
			return t != nil && t.IsBoolean()
		}
		switch {
		case a.IsTrue() && isBool(c):
			return c
		case c.IsTrue() && isBool(a):
			return a
		case a.IsFalse() && isBool(c):
			return b.Not(c)
		case c.IsFalse() && isBool(a):
			return b.Not(a)
		}
	}

	x, y := ordered(a, c)
	return b.ar.New(node.TagEqual, x, y)
}

// NotEqual builds the disequality predicate.
func (b *Builder) NotEqual(a, c *node.Node) *node.Node {
	if a == c {
		return b.False()
	}
	if isBoolConst(a) && isBoolConst(c) {
		return b.boolConst(a.Tag() != c.Tag())
	}
	if complementary(a, c) {
		return b.True()
	}
	if a.Tag() == node.TagNumber && c.Tag() == node.TagNumber {
		return b.boolConst(a.Int() != c.Int())
	}
	if bothWordConstants(a, c) && a.Word().Width() == c.Word().Width() {
		return b.boolConst(!a.Word().Equal(c.Word()))
	}

	if b.st != nil {
		if b.st.IsConstant(a) && b.st.IsConstant(c) {
			return b.boolConst(a != c)
		}
		tc := b.st.TypeChecker()
		isBool := func(n *node.Node) bool {
			t := tc.ExpressionType(n, nil)
			return t != nil && t.IsBoolean()
		}
		switch {
		case a.IsTrue() && isBool(c):
			return b.Not(c)
		case c.IsTrue() && isBool(a):
			return b.Not(a)
		case a.IsFalse() && isBool(c):
			return c
		case c.IsFalse() && isBool(a):
			return a
		}
	}

	x, y := ordered(a, c)
	return b.ar.New(node.TagNotEqual, x, y)
}

// wordUpperBound reports whether the constant is the largest value of its
// width under its own signedness reading.
func wordUpperBound(n *node.Node) bool {
	if !n.Tag().IsWordConstant() {
		return false
	}
	w := n.Word()
	if n.Tag() == node.TagNumberUnsignedWord {
		return w.Uint() == word.MaxUnsigned(w.Width())
	}
	return w.Int() == word.MaxSigned(w.Width())
}

func isUnsignedWordConst(n *node.Node) bool { return n.Tag() == node.TagNumberUnsignedWord }

// cmpWordConsts folds a comparison of two word constants of the same
// kind.
func (b *Builder) cmpWordConsts(a, c *node.Node, unsigned, signed func(x, y word.Word) bool) *node.Node {
	x, y := a.Word(), c.Word()
	if a.Tag() == node.TagNumberUnsignedWord {
		return b.boolConst(unsigned(x, y))
	}
	return b.boolConst(signed(x, y))
}

// Lt builds the less-than predicate.
func (b *Builder) Lt(a, c *node.Node) *node.Node {
	if a == c {
		return b.False()
	}
	if a.Tag() == node.TagNumber && c.Tag() == node.TagNumber {
		return b.boolConst(a.Int() < c.Int())
	}
	if anyWordConstant(a, c) {
		if bothWordConstants(a, c) && a.Word().Width() == c.Word().Width() {
			return b.cmpWordConsts(a, c, word.Word.LessUnsigned, word.Word.LessSigned)
		}
		// expr < 0 and MAX < expr cannot hold.
		if (isUnsignedWordConst(c) && c.Word().IsZero()) || wordUpperBound(a) {
			return b.False()
		}
	}
	return b.ar.New(node.TagLt, a, c)
}

// Le builds the less-than-or-equal predicate.
func (b *Builder) Le(a, c *node.Node) *node.Node {
	if a == c {
		return b.True()
	}
	if a.Tag() == node.TagNumber && c.Tag() == node.TagNumber {
		return b.boolConst(a.Int() <= c.Int())
	}
	if anyWordConstant(a, c) {
		if bothWordConstants(a, c) && a.Word().Width() == c.Word().Width() {
			return b.cmpWordConsts(a, c, word.Word.LessEqUnsigned, word.Word.LessEqSigned)
		}
		// expr <= 0 collapses to equality with zero.
		if isUnsignedWordConst(c) && c.Word().IsZero() {
			return b.Equal(a, c)
		}
		// 0 <= expr and expr <= MAX always hold.
		if (isUnsignedWordConst(a) && a.Word().IsZero()) || wordUpperBound(c) {
			return b.True()
		}
	}
	return b.ar.New(node.TagLe, a, c)
}

// Gt builds the greater-than predicate.
func (b *Builder) Gt(a, c *node.Node) *node.Node {
	if a == c {
		return b.False()
	}
	if a.Tag() == node.TagNumber && c.Tag() == node.TagNumber {
		return b.boolConst(a.Int() > c.Int())
	}
	if anyWordConstant(a, c) {
		if bothWordConstants(a, c) && a.Word().Width() == c.Word().Width() {
			return b.cmpWordConsts(a, c, word.Word.GreaterUnsigned, word.Word.GreaterSigned)
		}
		// 0 > expr and expr > MAX cannot hold.
		if (isUnsignedWordConst(a) && a.Word().IsZero()) || wordUpperBound(c) {
			return b.False()
		}
	}
	return b.ar.New(node.TagGt, a, c)
}

// Ge builds the greater-than-or-equal predicate.
func (b *Builder) Ge(a, c *node.Node) *node.Node {
	if a == c {
		return b.True()
	}
	if a.Tag() == node.TagNumber && c.Tag() == node.TagNumber {
		return b.boolConst(a.Int() >= c.Int())
	}
	if anyWordConstant(a, c) {
		if bothWordConstants(a, c) && a.Word().Width() == c.Word().Width() {
			return b.cmpWordConsts(a, c, word.Word.GreaterEqUnsigned, word.Word.GreaterEqSigned)
		}
		// 0 >= expr collapses to equality with zero.
		if isUnsignedWordConst(a) && a.Word().IsZero() {
			return b.Equal(a, c)
		}
		// expr >= 0 and MAX >= expr always hold.
		if (isUnsignedWordConst(c) && c.Word().IsZero()) || wordUpperBound(a) {
			return b.True()
		}
	}
	return b.ar.New(node.TagGe, a, c)
}

// Plus builds the sum.
func (b *Builder) Plus(a, c *node.Node) *node.Node {
	if a.Tag() == node.TagNumber && c.Tag() == node.TagNumber {
		return b.ar.Number(a.Int() + c.Int())
	}
	if bothWordConstants(a, c) {
		x, y := ordered(a, c)
		return b.ar.WordConst(x.Word().Add(y.Word()))
	}
	if isIntZero(a) || isWordZero(a) {
		return c
	}
	if isIntZero(c) || isWordZero(c) {
		return a
	}
	x, y := ordered(a, c)
	return b.ar.New(node.TagPlus, x, y)
}

// Minus builds the difference.
func (b *Builder) Minus(a, c *node.Node) *node.Node {
	if a.Tag() == node.TagNumber && c.Tag() == node.TagNumber {
		return b.ar.Number(a.Int() - c.Int())
	}
	if bothWordConstants(a, c) {
		return b.ar.WordConst(a.Word().Sub(c.Word()))
	}
	if isIntZero(a) || isWordZero(a) {
		return b.UnaryMinus(c)
	}
	if isIntZero(c) || isWordZero(c) {
		return a
	}
	return b.ar.New(node.TagMinus, a, c)
}

// Times builds the product.
func (b *Builder) Times(a, c *node.Node) *node.Node {
	if a.Tag() == node.TagNumber && c.Tag() == node.TagNumber {
		return b.ar.Number(a.Int() * c.Int())
	}
	if bothWordConstants(a, c) {
		x, y := ordered(a, c)
		return b.ar.WordConst(x.Word().Mul(y.Word()))
	}
	if isIntZero(a) || isIntZero(c) {
		return b.ar.Number(0)
	}
	// A word zero annihilates, keeping its width.
	if isWordZero(a) {
		return a
	}
	if isWordZero(c) {
		return c
	}
	x, y := ordered(a, c)
	return b.ar.New(node.TagTimes, x, y)
}

// Divide builds the quotient. Division by a constant zero is deferred as
// a failure node.
func (b *Builder) Divide(a, c *node.Node) *node.Node {
	if a.Tag() == node.TagNumber && c.Tag() == node.TagNumber {
		if c.Int() == 0 {
			return b.divByZero(c)
		}
		return b.ar.Number(a.Int() / c.Int())
	}
	if bothWordConstants(a, c) {
		if c.Word().IsZero() {
			return b.divByZero(c)
		}
		var q word.Word
		var err error
		if a.Tag() == node.TagNumberUnsignedWord {
			q, err = a.Word().DivUnsigned(c.Word())
		} else {
			q, err = a.Word().DivSigned(c.Word())
		}
		if err != nil {
			return b.divByZero(c)
		}
		return b.ar.WordConst(q)
	}
	return b.ar.New(node.TagDivide, a, c)
}

// Mod builds the remainder, with the same zero-divisor policy as Divide.
func (b *Builder) Mod(a, c *node.Node) *node.Node {
	if a.Tag() == node.TagNumber && c.Tag() == node.TagNumber {
		if c.Int() == 0 {
			return b.divByZero(c)
		}
		return b.ar.Number(a.Int() % c.Int())
	}
	if bothWordConstants(a, c) {
		if c.Word().IsZero() {
			return b.divByZero(c)
		}
		var r word.Word
		var err error
		if a.Tag() == node.TagNumberUnsignedWord {
			r, err = a.Word().ModUnsigned(c.Word())
		} else {
			r, err = a.Word().ModSigned(c.Word())
		}
		if err != nil {
			return b.divByZero(c)
		}
		return b.ar.WordConst(r)
	}
	return b.ar.New(node.TagMod, a, c)
}

func (b *Builder) divByZero(at *node.Node) *node.Node {
	return b.ar.NewFailure(node.FailureDivByZero, "division by zero", at.Line())
}

// UnaryMinus builds the arithmetic negation.
func (b *Builder) UnaryMinus(a *node.Node) *node.Node {
	switch a.Tag() {
	case node.TagNumber:
		return b.ar.Number(-a.Int())
	case node.TagNumberUnsignedWord, node.TagNumberSignedWord:
		return b.ar.WordConst(a.Word().Neg())
	}
	return b.ar.New(node.TagUMinus, a, nil)
}
