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

package symbol

import (
	"fmt"

	"github.com/smckit/smckit/node"
)

// A Resolution classifies a resolved identifier. The flags are
// independent: a symbol is undefined when all are false and ambiguous
// when two or more are true. The two constant flags record whether the
// simple or the fully-qualified form named a global-scope constant; when
// exactly one of them holds the symbol is a constant and the resolved
// name follows the matching form.
type Resolution struct {
	resolvedName *node.Node
	name         *node.Node
	context      *node.Node

	isVar             bool
	isDefine          bool
	isArrayDef        bool
	isArray           bool
	isParameter       bool
	isConstantSimple  bool
	isConstantComplex bool
	isFunction        bool
}

// Resolve normalizes name against context and classifies it via st. It
// never fails: unresolvable names come back with every flag cleared and a
// nil resolved name.
func Resolve(ar *node.Arena, st Table, name, context *node.Node) *Resolution {
	if name == nil {
		panic("symbol: Resolve with nil name")
	}

	r := &Resolution{name: name, context: context}

	var complexName *node.Node
	if name.Tag() == node.TagAtom {
		// Parameters can only be simple atoms prefixed with the context
		// name; the general normalization would expand them too early.
		complexName = ar.Dot(context, name)
	} else {
		complexName = resolveName(ar, st, name, context)
	}

	r.isVar = st.IsVar(complexName)
	r.isDefine = st.IsDefine(complexName)
	r.isArray = st.IsVariableArray(complexName)
	r.isArrayDef = st.IsArrayDefine(complexName)
	r.isParameter = st.IsParameter(complexName)
	r.isFunction = st.IsFunction(complexName)

	// Constants have global scope: the tail atom of the complex name may
	// name one even when the qualified form does not.
	if complexName != nil {
		tail := complexName
		for tail.Tag() == node.TagDot {
			tail = tail.Right()
		}
		if tail.Tag() == node.TagAtom {
			r.isConstantSimple = st.IsConstant(tail)
		}
	}
	// The simple and complex names can coincide (a constant declared at
	// top scope); checking the same node twice must not look ambiguous.
	if name != complexName {
		r.isConstantSimple = r.isConstantSimple || st.IsConstant(name)
	}
	r.isConstantComplex = st.IsConstant(complexName)

	if r.isConstantSimple {
		r.resolvedName = name
	} else {
		r.resolvedName = complexName
	}
	return r
}

// resolveName normalizes an identifier expression, expanding module
// parameters encountered on the way. It returns nil for expressions that
// are not identifiers.
func resolveName(ar *node.Arena, st Table, n, context *node.Node) *node.Node {
	if n == nil {
		return nil
	}

	switch n.Tag() {
	case node.TagContext:
		return resolveName(ar, st, n.Right(), n.Left())

	case node.TagAtom:
		return ar.Dot(context, n)

	case node.TagNumber:
		return n

	case node.TagBit:
		base := resolveName(ar, st, n.Left(), context)
		if base == nil {
			return nil
		}
		return ar.New(node.TagBit, base, n.Right())

	case node.TagDot:
		var lhs *node.Node
		if n.Left() != nil {
			lhs = resolveName(ar, st, n.Left(), context)
			lhs = expandParameter(ar, st, lhs)
			if lhs == nil {
				return nil
			}
		}
		// On the right of a DOT only an atom can appear.
		if n.Right() == nil || n.Right().Tag() != node.TagAtom {
			return nil
		}
		return ar.Dot(lhs, n.Right())

	case node.TagArray:
		base := resolveName(ar, st, n.Left(), context)
		if base == nil {
			return nil
		}
		base = expandParameter(ar, st, base)

		// Only constant indexes are normalized; anything else is an
		// expression and is kept verbatim.
		index := n.Right()
		if index != nil {
			switch {
			case index.Tag() == node.TagNumber:
				index = ar.Number(index.Int())
			case index.Tag() == node.TagUMinus && index.Left() != nil &&
				index.Left().Tag() == node.TagNumber:
				index = ar.Number(-index.Left().Int())
			}
		}
		return ar.New(node.TagArray, base, index)

	case node.TagBitSelection:
		base := resolveName(ar, st, n.Left(), context)
		if base == nil {
			return nil
		}
		colon := n.Right()
		if colon == nil || colon.Tag() != node.TagColon {
			return nil
		}
		hi := resolveName(ar, st, colon.Left(), context)
		if hi == nil {
			return nil
		}
		lo := resolveName(ar, st, colon.Right(), context)
		if lo == nil {
			return nil
		}
		return ar.New(node.TagBitSelection, base, ar.New(node.TagColon, hi, lo))

	case node.TagSelf:
		return context

	default:
		return nil
	}
}

// expandParameter substitutes a module parameter by its flattened actual
// argument, repeatedly, so that modules passed as parameters resolve.
func expandParameter(ar *node.Arena, st Table, name *node.Node) *node.Node {
	for name != nil && st.IsParameter(name) {
		name = resolveName(ar, st, st.FlattenActualParameter(name), nil)
	}
	return name
}

// ResolvedName returns the canonical name, or nil when undefined.
func (r *Resolution) ResolvedName() *node.Node { return r.resolvedName }

// Name returns the simple name the resolution started from.
func (r *Resolution) Name() *node.Node { return r.name }

// Context returns the context the resolution ran in.
func (r *Resolution) Context() *node.Node { return r.context }

func (r *Resolution) flagCount() int {
	n := 0
	for _, f := range [...]bool{
		r.isVar, r.isDefine, r.isArrayDef, r.isArray,
		r.isParameter, r.isConstantSimple, r.isConstantComplex, r.isFunction,
	} {
		if f {
			n++
		}
	}
	return n
}

// IsUndefined reports that no declaration matched.
func (r *Resolution) IsUndefined() bool { return r.flagCount() == 0 }

// IsDefined reports that at least one declaration matched.
func (r *Resolution) IsDefined() bool { return r.flagCount() != 0 }

// IsAmbiguous reports that more than one declaration matched.
func (r *Resolution) IsAmbiguous() bool { return r.flagCount() > 1 }

// IsVar reports whether the symbol is a variable.
func (r *Resolution) IsVar() bool { return r.isVar }

// IsDefine reports whether the symbol is a define.
func (r *Resolution) IsDefine() bool { return r.isDefine }

// IsArrayDefine reports whether the symbol is an array define.
func (r *Resolution) IsArrayDefine() bool { return r.isArrayDef }

// IsArray reports whether the symbol is a variable array.
func (r *Resolution) IsArray() bool { return r.isArray }

// IsParameter reports whether the symbol is a formal module parameter.
func (r *Resolution) IsParameter() bool { return r.isParameter }

// IsFunction reports whether the symbol is an uninterpreted function.
func (r *Resolution) IsFunction() bool { return r.isFunction }

// IsConstant reports whether exactly one of the two constant lookups
// matched.
func (r *Resolution) IsConstant() bool {
	return r.isConstantSimple != r.isConstantComplex
}

// IsError reports whether the resolution is unusable: undefined or
// ambiguous.
func (r *Resolution) IsError() bool { return r.IsUndefined() || r.IsAmbiguous() }

// Err returns the resolution error, or nil. The messages follow the
// compiler's historical templates.
func (r *Resolution) Err() error {
	switch {
	case r.IsUndefined():
		return fmt.Errorf("%q undefined", node.Sprint(r.resolvedName))
	case r.IsAmbiguous():
		return fmt.Errorf("Symbol %q is ambiguous in %q",
			node.Sprint(r.name), node.Sprint(r.context))
	default:
		return nil
	}
}
