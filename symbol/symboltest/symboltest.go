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

// Package symboltest provides a map-backed symbol.Table for tests.
// Declarations are registered programmatically; there is no flattener
// behind it.
package symboltest

import (
	"github.com/smckit/smckit/node"
	"github.com/smckit/smckit/symbol"
)

// Kind enumerates the fake type kinds.
type Kind int

// The fake type kinds.
const (
	Boolean Kind = iota
	Integer
	UnsignedWord
	SignedWord
	SetOf
	Symbolic
	InfiniteInteger
)

// Type is a trivial symbol.Type.
type Type struct {
	Kind  Kind
	Width int
}

// IsBoolean implements symbol.Type.
func (t Type) IsBoolean() bool { return t.Kind == Boolean }

// IsWord implements symbol.Type.
func (t Type) IsWord() bool { return t.Kind == UnsignedWord || t.Kind == SignedWord }

// IsUnsignedWord implements symbol.Type.
func (t Type) IsUnsignedWord() bool { return t.Kind == UnsignedWord }

// IsSignedWord implements symbol.Type.
func (t Type) IsSignedWord() bool { return t.Kind == SignedWord }

// IsSet implements symbol.Type.
func (t Type) IsSet() bool { return t.Kind == SetOf }

// IsInfinitePrecision implements symbol.Type.
func (t Type) IsInfinitePrecision() bool { return t.Kind == InfiniteInteger }

// WordWidth implements symbol.Type.
func (t Type) WordWidth() int { return t.Width }

// Table is an in-memory symbol.Table.
type Table struct {
	stateVars  map[*node.Node]Type
	inputVars  map[*node.Node]Type
	frozenVars map[*node.Node]Type
	defines    map[*node.Node]bool
	arrayDefs  map[*node.Node]bool
	varArrays  map[*node.Node]bool
	params     map[*node.Node]*node.Node
	constants  map[*node.Node]bool
	functions  map[*node.Node]bool

	exprTypes map[*node.Node]symbol.Type
	cache     *symbol.Cache
}

var _ symbol.Table = (*Table)(nil)

// New returns an empty table.
func New() *Table {
	return &Table{
		stateVars:  make(map[*node.Node]Type),
		inputVars:  make(map[*node.Node]Type),
		frozenVars: make(map[*node.Node]Type),
		defines:    make(map[*node.Node]bool),
		arrayDefs:  make(map[*node.Node]bool),
		varArrays:  make(map[*node.Node]bool),
		params:     make(map[*node.Node]*node.Node),
		constants:  make(map[*node.Node]bool),
		functions:  make(map[*node.Node]bool),
		exprTypes:  make(map[*node.Node]symbol.Type),
		cache:      symbol.NewCache(),
	}
}

// DeclareStateVar registers a state variable of the given type.
func (t *Table) DeclareStateVar(name *node.Node, typ Type) { t.stateVars[name] = typ }

// DeclareInputVar registers an input variable.
func (t *Table) DeclareInputVar(name *node.Node, typ Type) { t.inputVars[name] = typ }

// DeclareFrozenVar registers a frozen variable.
func (t *Table) DeclareFrozenVar(name *node.Node, typ Type) { t.frozenVars[name] = typ }

// DeclareDefine registers a define.
func (t *Table) DeclareDefine(name *node.Node) { t.defines[name] = true }

// DeclareArrayDefine registers an array define.
func (t *Table) DeclareArrayDefine(name *node.Node) { t.arrayDefs[name] = true }

// DeclareVariableArray registers a variable array.
func (t *Table) DeclareVariableArray(name *node.Node) { t.varArrays[name] = true }

// DeclareParameter registers a module parameter and its actual argument
// (used for both the unflattened and flattened lookups).
func (t *Table) DeclareParameter(name, actual *node.Node) { t.params[name] = actual }

// DeclareConstant registers a global-scope constant.
func (t *Table) DeclareConstant(name *node.Node) { t.constants[name] = true }

// DeclareFunction registers an uninterpreted function.
func (t *Table) DeclareFunction(name *node.Node) { t.functions[name] = true }

// SetExpressionType pins the type the checker reports for expr.
func (t *Table) SetExpressionType(expr *node.Node, typ symbol.Type) { t.exprTypes[expr] = typ }

// BumpLayer simulates a layer change: the simplification cache is
// cleared.
func (t *Table) BumpLayer() { t.cache.Clear() }

// IsVar implements symbol.Table.
func (t *Table) IsVar(n *node.Node) bool {
	return t.IsStateVar(n) || t.IsInputVar(n) || t.IsFrozenVar(n)
}

// IsStateVar implements symbol.Table.
func (t *Table) IsStateVar(n *node.Node) bool { _, ok := t.stateVars[n]; return ok }

// IsInputVar implements symbol.Table.
func (t *Table) IsInputVar(n *node.Node) bool { _, ok := t.inputVars[n]; return ok }

// IsFrozenVar implements symbol.Table.
func (t *Table) IsFrozenVar(n *node.Node) bool { _, ok := t.frozenVars[n]; return ok }

// IsDefine implements symbol.Table.
func (t *Table) IsDefine(n *node.Node) bool { return t.defines[n] }

// IsArrayDefine implements symbol.Table.
func (t *Table) IsArrayDefine(n *node.Node) bool { return t.arrayDefs[n] }

// IsVariableArray implements symbol.Table.
func (t *Table) IsVariableArray(n *node.Node) bool { return t.varArrays[n] }

// IsParameter implements symbol.Table.
func (t *Table) IsParameter(n *node.Node) bool { _, ok := t.params[n]; return ok }

// IsConstant implements symbol.Table.
func (t *Table) IsConstant(n *node.Node) bool { return n != nil && t.constants[n] }

// IsFunction implements symbol.Table.
func (t *Table) IsFunction(n *node.Node) bool { return t.functions[n] }

// IsDeclared implements symbol.Table.
func (t *Table) IsDeclared(n *node.Node) bool {
	return t.IsVar(n) || t.IsDefine(n) || t.IsArrayDefine(n) ||
		t.IsVariableArray(n) || t.IsParameter(n) || t.IsConstant(n) ||
		t.IsFunction(n)
}

// ActualParameter implements symbol.Table.
func (t *Table) ActualParameter(n *node.Node) *node.Node { return t.params[n] }

// FlattenActualParameter implements symbol.Table.
func (t *Table) FlattenActualParameter(n *node.Node) *node.Node { return t.params[n] }

// VarType implements symbol.Table.
func (t *Table) VarType(n *node.Node) symbol.Type {
	if typ, ok := t.stateVars[n]; ok {
		return typ
	}
	if typ, ok := t.inputVars[n]; ok {
		return typ
	}
	if typ, ok := t.frozenVars[n]; ok {
		return typ
	}
	return nil
}

// TypeChecker implements symbol.Table.
func (t *Table) TypeChecker() symbol.TypeChecker { return checker{t} }

// SimplificationCache implements symbol.Table.
func (t *Table) SimplificationCache() *symbol.Cache { return t.cache }

type checker struct{ t *Table }

// ExpressionType consults the pinned types first and falls back on what
// the node shape gives away.
func (c checker) ExpressionType(expr, _ *node.Node) symbol.Type {
	if expr == nil {
		return nil
	}
	if typ, ok := c.t.exprTypes[expr]; ok {
		return typ
	}
	if typ := c.t.VarType(expr); typ != nil {
		return typ
	}
	switch expr.Tag() {
	case node.TagTrue, node.TagFalse,
		node.TagAnd, node.TagOr, node.TagNot, node.TagImplies, node.TagIff,
		node.TagXor, node.TagXnor,
		node.TagEqual, node.TagNotEqual, node.TagLt, node.TagLe,
		node.TagGt, node.TagGe, node.TagSetIn:
		return Type{Kind: Boolean}
	case node.TagNumber:
		return Type{Kind: Integer}
	case node.TagNumberUnsignedWord:
		return Type{Kind: UnsignedWord, Width: expr.Word().Width()}
	case node.TagNumberSignedWord:
		return Type{Kind: SignedWord, Width: expr.Word().Width()}
	case node.TagUnion, node.TagTwoDots:
		return Type{Kind: SetOf}
	}
	return nil
}
