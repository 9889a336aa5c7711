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

// Package symbol defines the query interface of the symbol table the core
// consumes, and the resolver that normalizes syntactic identifiers into
// canonical fully-qualified names classified against it. The table itself
// is maintained by the flattener, outside this module; package
// symboltest provides a map-backed implementation for tests.
package symbol

import (
	"github.com/smckit/smckit/node"
)

// A Type describes the declared or inferred type of an expression.
type Type interface {
	IsBoolean() bool
	IsWord() bool
	IsUnsignedWord() bool
	IsSignedWord() bool
	IsSet() bool
	// IsInfinitePrecision reports whether the type cannot be finitely
	// encoded; such variables are rejected before boolean compilation.
	IsInfinitePrecision() bool
	// WordWidth returns the bit width of a word type, 0 otherwise.
	WordWidth() int
}

// A TypeChecker resolves the type of an expression in a context.
type TypeChecker interface {
	// ExpressionType returns the type of expr in context ctx, or nil when
	// no type can be derived.
	ExpressionType(expr, ctx *node.Node) Type
}

// A Table classifies canonical names. Every query takes an interned name
// node (typically a DOT chain); implementations must treat names by
// identity.
type Table interface {
	IsVar(name *node.Node) bool
	IsStateVar(name *node.Node) bool
	IsInputVar(name *node.Node) bool
	IsFrozenVar(name *node.Node) bool
	IsDefine(name *node.Node) bool
	IsArrayDefine(name *node.Node) bool
	IsVariableArray(name *node.Node) bool
	IsParameter(name *node.Node) bool
	IsConstant(name *node.Node) bool
	IsFunction(name *node.Node) bool
	IsDeclared(name *node.Node) bool

	// ActualParameter returns the unflattened actual argument bound to a
	// module parameter, FlattenActualParameter the flattened one.
	ActualParameter(name *node.Node) *node.Node
	FlattenActualParameter(name *node.Node) *node.Node

	// VarType returns the declared type of a variable.
	VarType(name *node.Node) Type

	TypeChecker() TypeChecker

	// SimplificationCache returns the memoization table owned by this
	// symbol table. Implementations must hand out a cleared cache after
	// any layer change.
	SimplificationCache() *Cache
}

// A Cache memoizes node-to-node rewrites for the lifetime of a symbol
// table layer set.
type Cache struct {
	m map[*node.Node]*node.Node
}

// NewCache returns an empty cache.
func NewCache() *Cache {
	return &Cache{m: make(map[*node.Node]*node.Node)}
}

// Lookup returns the memoized result for n, or nil.
func (c *Cache) Lookup(n *node.Node) *node.Node { return c.m[n] }

// Insert memoizes res for n.
func (c *Cache) Insert(n, res *node.Node) { c.m[n] = res }

// Clear drops every memoized entry.
func (c *Cache) Clear() {
	for k := range c.m {
		delete(c.m, k)
	}
}

// Len returns the number of memoized entries.
func (c *Cache) Len() int { return len(c.m) }
