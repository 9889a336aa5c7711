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

// Package expr implements the expression algebra: every operator is a
// smart constructor that inspects its interned operands and may return a
// simplified node instead of the literal application. Simplification is
// local and deterministic; commutative operators order their children by
// arena id so that op(a,b) and op(b,a) intern to the same node, which
// multiplies sharing across the whole expression graph.
//
// Constant-evaluation errors (division by zero, out-of-range shifts) are
// deferred as failure nodes so that dead branches of case expressions do
// not abort compilation; dropping such a branch emits a warning.
package expr

import (
	"github.com/tliron/commonlog"

	"github.com/smckit/smckit/node"
	sets "github.com/smckit/smckit/set"
	"github.com/smckit/smckit/symbol"
)

var log = commonlog.GetLogger("smckit.expr")

// A Builder constructs expressions over one arena, optionally consulting
// a symbol table for type-directed simplifications. A nil table disables
// only those rules that need type or constant-hood information.
type Builder struct {
	ar *node.Arena
	st symbol.Table
}

// NewBuilder returns a builder over the given arena. st may be nil.
func NewBuilder(ar *node.Arena, st symbol.Table) *Builder {
	return &Builder{ar: ar, st: st}
}

// Arena returns the arena the builder interns into.
func (b *Builder) Arena() *node.Arena { return b.ar }

// Table returns the symbol table, or nil.
func (b *Builder) Table() symbol.Table { return b.st }

// True returns the boolean constant true.
func (b *Builder) True() *node.Node { return b.ar.True() }

// False returns the boolean constant false.
func (b *Builder) False() *node.Node { return b.ar.False() }

// isBoolConst reports whether the node is TRUE or FALSE.
func isBoolConst(n *node.Node) bool { return n.IsTrue() || n.IsFalse() }

// ordered returns the operands sorted by arena id, for commutative
// constructors.
func ordered(a, c *node.Node) (*node.Node, *node.Node) {
	if a.ID() > c.ID() {
		return c, a
	}
	return a, c
}

// complementary reports whether one operand is the negation of the other.
func complementary(a, c *node.Node) bool {
	return (a.Tag() == node.TagNot && a.Left() == c) ||
		(c.Tag() == node.TagNot && c.Left() == a)
}

// warnFailure logs the recovery of a dropped failure branch.
func warnFailure(n *node.Node) {
	f := n.FailureInfo()
	log.Warningf("line %d: %s: %s (branch dropped)", f.Line, f.Kind, f.Msg)
}

// And builds the logical or bitwise conjunction. A nil operand counts as
// true.
func (b *Builder) And(a, c *node.Node) *node.Node {
	if a == nil && c == nil {
		return b.True()
	}
	if a == nil || a.IsTrue() {
		return c
	}
	if c == nil || c.IsTrue() {
		return a
	}
	if a.IsFalse() {
		return a
	}
	if c.IsFalse() {
		return c
	}
	if a == c {
		return a
	}
	if complementary(a, c) {
		return b.False()
	}
	if bothWordConstants(a, c) {
		x, y := ordered(a, c)
		return b.ar.WordConst(x.Word().And(y.Word()))
	}
	x, y := ordered(a, c)
	return b.ar.New(node.TagAnd, x, y)
}

// AndFromList conjoins every element of a CONS list, treating nil as
// true.
func (b *Builder) AndFromList(l *node.Node) *node.Node {
	if l == nil {
		return b.True()
	}
	if t := l.Tag(); t != node.TagCons && t != node.TagAnd {
		return b.Resolve(t, l.Left(), l.Right())
	}
	return b.And(l.Left(), b.AndFromList(l.Right()))
}

// Not builds the logical or bitwise negation.
func (b *Builder) Not(a *node.Node) *node.Node {
	if a.IsTrue() {
		return b.False()
	}
	if a.IsFalse() {
		return b.True()
	}
	if a.Tag() == node.TagNot {
		return a.Left()
	}
	if a.Tag().IsWordConstant() {
		return b.ar.WordConst(a.Word().Not())
	}
	return b.ar.New(node.TagNot, a, nil)
}

// Or builds the logical or bitwise disjunction.
func (b *Builder) Or(a, c *node.Node) *node.Node {
	if a.IsTrue() {
		return a
	}
	if c.IsTrue() {
		return c
	}
	if a.IsFalse() {
		return c
	}
	if c.IsFalse() {
		return a
	}
	if a == c {
		return a
	}
	if complementary(a, c) {
		return b.True()
	}

	// Resolution on conjunctions: (A & B) | (A & !B) collapses to the
	// shared literal, in any of the four operand arrangements.
	if a.Tag() == node.TagAnd && c.Tag() == node.TagAnd {
		if shared := resolveDisjunction(a, c); shared != nil {
			return shared
		}
	}

	if bothWordConstants(a, c) {
		x, y := ordered(a, c)
		return b.ar.WordConst(x.Word().Or(y.Word()))
	}
	x, y := ordered(a, c)
	return b.ar.New(node.TagOr, x, y)
}

// resolveDisjunction detects (A & B) | (A & !B) style pairs and returns
// the shared conjunct, or nil.
func resolveDisjunction(a, c *node.Node) *node.Node {
	isNotOf := func(n, of *node.Node) bool {
		return n.Tag() == node.TagNot && n.Left() == of
	}
	switch {
	case a.Left() == c.Left() &&
		(isNotOf(c.Right(), a.Right()) || isNotOf(a.Right(), c.Right())):
		return a.Left()
	case a.Right() == c.Right() &&
		(isNotOf(c.Left(), a.Left()) || isNotOf(a.Left(), c.Left())):
		return a.Right()
	case a.Right() == c.Left() &&
		(isNotOf(c.Right(), a.Left()) || isNotOf(a.Left(), c.Right())):
		return a.Right()
	case a.Left() == c.Right() &&
		(isNotOf(c.Left(), a.Right()) || isNotOf(a.Right(), c.Left())):
		return a.Left()
	}
	return nil
}

// Xor builds the logical or bitwise exclusive disjunction.
func (b *Builder) Xor(a, c *node.Node) *node.Node {
	if a.IsTrue() {
		return b.Not(c)
	}
	if c.IsTrue() {
		return b.Not(a)
	}
	if a.IsFalse() {
		return c
	}
	if c.IsFalse() {
		return a
	}
	if a == c {
		return b.False()
	}
	if complementary(a, c) {
		return b.True()
	}
	if bothWordConstants(a, c) {
		x, y := ordered(a, c)
		return b.ar.WordConst(x.Word().Xor(y.Word()))
	}
	x, y := ordered(a, c)
	return b.ar.New(node.TagXor, x, y)
}

// Xnor builds the complemented exclusive disjunction.
func (b *Builder) Xnor(a, c *node.Node) *node.Node {
	if a.IsTrue() {
		return c
	}
	if c.IsTrue() {
		return a
	}
	if a.IsFalse() {
		return b.Not(c)
	}
	if c.IsFalse() {
		return b.Not(a)
	}
	if a == c {
		return b.True()
	}
	if complementary(a, c) {
		return b.False()
	}
	if bothWordConstants(a, c) {
		x, y := ordered(a, c)
		return b.ar.WordConst(x.Word().Xnor(y.Word()))
	}
	x, y := ordered(a, c)
	return b.ar.New(node.TagXnor, x, y)
}

// Iff builds the equivalence. With a symbol table available, a <-> a on
// non-word operands folds to true (bitwise IFF on equal words is not the
// boolean constant).
func (b *Builder) Iff(a, c *node.Node) *node.Node {
	if a.IsTrue() {
		return c
	}
	if c.IsTrue() {
		return a
	}
	if a.IsFalse() {
		return b.Not(c)
	}
	if c.IsFalse() {
		return b.Not(a)
	}
	if complementary(a, c) {
		return b.False()
	}
	if bothWordConstants(a, c) {
		x, y := ordered(a, c)
		return b.ar.WordConst(x.Word().Iff(y.Word()))
	}
	if a == c && b.st != nil {
		tc := b.st.TypeChecker()
		at := tc.ExpressionType(a, nil)
		ct := tc.ExpressionType(c, nil)
		if (at == nil || !at.IsWord()) || (ct == nil || !ct.IsWord()) {
			return b.True()
		}
	}
	x, y := ordered(a, c)
	return b.ar.New(node.TagIff, x, y)
}

// Implies builds the implication; without a constant operand it lowers to
// !a | c.
func (b *Builder) Implies(a, c *node.Node) *node.Node {
	if a.IsTrue() {
		return c
	}
	if a.IsFalse() {
		return b.True()
	}
	if c.IsTrue() {
		return b.True()
	}
	if c.IsFalse() {
		return b.Not(a)
	}
	if complementary(a, c) {
		return c
	}
	if bothWordConstants(a, c) {
		return b.ar.WordConst(a.Word().Implies(c.Word()))
	}
	return b.Or(b.Not(a), c)
}

// Ite builds the if-then-else (a one-branch CASE). Set-typed branches
// block the boolean lowerings because only case expressions may carry
// sets. A failure branch is dropped with a warning: it cannot fire in a
// well-typed program.
func (b *Builder) Ite(cond, t, e *node.Node) *node.Node {
	if cond.IsTrue() {
		return t
	}
	if cond.IsFalse() {
		return e
	}
	if t == e {
		return t
	}
	if t.IsTrue() && e.IsFalse() {
		return cond
	}
	if t.IsFalse() && e.IsTrue() {
		return b.Not(cond)
	}

	if t.IsFalse() {
		if e.Tag() == node.TagFailure {
			warnFailure(e)
			return b.Not(cond)
		}
		if !b.isSetTyped(e) {
			return b.And(b.Not(cond), e)
		}
	}
	if t.IsTrue() {
		if e.Tag() == node.TagFailure {
			warnFailure(e)
			return cond
		}
		if !b.isSetTyped(e) {
			return b.Or(cond, e)
		}
	}
	if e.IsFalse() && !b.isSetTyped(t) {
		return b.And(cond, t)
	}
	if e.IsTrue() && !b.isSetTyped(t) {
		return b.Or(b.Not(cond), t)
	}

	// Adjacent branches with the same result merge their conditions:
	//   case c1 : r; c2 : r; rest  --->  case c1|c2 : r; rest
	if e.Tag() == node.TagCase || e.Tag() == node.TagIfThenElse {
		colon := e.Left()
		if colon.Right() == t {
			return b.Ite(b.Or(cond, colon.Left()), t, e.Right())
		}
	}

	// A nested case repeating the outer condition collapses to its first
	// branch.
	colonThen := t
	if (t.Tag() == node.TagCase || t.Tag() == node.TagIfThenElse) &&
		cond == t.Left().Left() {
		colonThen = t.Left().Right()
	}
	return b.ar.New(node.TagCase, b.ar.New(node.TagColon, cond, colonThen), e)
}

// isSetTyped reports whether the expression has a set type; without a
// table the conservative answer is true, disabling the lowering.
func (b *Builder) isSetTyped(e *node.Node) bool {
	if b.st == nil {
		return true
	}
	typ := b.st.TypeChecker().ExpressionType(e, nil)
	return typ == nil || typ.IsSet()
}

// Next wraps the expression in the transition-relation next operator.
// Constants and sets of constants stay unwrapped.
func (b *Builder) Next(a *node.Node) *node.Node {
	if b.isConstantish(a) {
		return a
	}
	return b.ar.New(node.TagNext, a, nil)
}

// isConstantish reports whether the expression denotes a constant value:
// a literal, a constant range, a declared enumeration constant, or a
// union of such constants.
func (b *Builder) isConstantish(a *node.Node) bool {
	if isBoolConst(a) {
		return true
	}
	switch a.Tag() {
	case node.TagNumber, node.TagNumberUnsignedWord, node.TagNumberSignedWord:
		return true
	case node.TagTwoDots:
		return a.Left().Tag() == node.TagNumber && a.Right().Tag() == node.TagNumber
	case node.TagUnion:
		if b.st == nil {
			return false
		}
		s := sets.MakeFromUnion(a)
		defer s.Release()
		for _, el := range s.Elements() {
			if !b.st.IsConstant(el) {
				return false
			}
		}
		return true
	default:
		return b.st != nil && b.st.IsConstant(a)
	}
}

func bothWordConstants(a, c *node.Node) bool {
	return (a.Tag() == node.TagNumberUnsignedWord && c.Tag() == node.TagNumberUnsignedWord) ||
		(a.Tag() == node.TagNumberSignedWord && c.Tag() == node.TagNumberSignedWord)
}

func anyWordConstant(a, c *node.Node) bool {
	return a.Tag().IsWordConstant() || c.Tag().IsWordConstant()
}
