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
	"fmt"

	"github.com/smckit/smckit/node"
	"github.com/smckit/smckit/word"
)

// shiftAmount extracts a constant shift or rotate amount, or -1.
func shiftAmount(c *node.Node) int64 {
	switch c.Tag() {
	case node.TagNumber:
		return c.Int()
	case node.TagNumberUnsignedWord:
		return int64(c.Word().Uint())
	case node.TagNumberSignedWord:
		return c.Word().Int()
	default:
		return -1
	}
}

// shiftLike folds a shift or rotate with a constant amount via apply,
// deferring out-of-range amounts as failure nodes.
func (b *Builder) shiftLike(tag node.Tag, a, c *node.Node, what string,
	apply func(w word.Word, k int) (word.Word, error)) *node.Node {
	if a.Tag().IsWordConstant() {
		bits := shiftAmount(c)
		if bits == 0 {
			return a
		}
		if bits > 0 {
			if bits > int64(a.Word().Width()) {
				return b.ar.NewFailure(node.FailureUnspecified,
					fmt.Sprintf("right operand of %s is out of range", what), c.Line())
			}
			res, err := apply(a.Word(), int(bits))
			if err != nil {
				return b.ar.NewFailure(node.FailureUnspecified, err.Error(), c.Line())
			}
			return b.ar.WordConst(res)
		}
	}
	return b.ar.New(tag, a, c)
}

// LeftShift builds the logical left shift of a word.
func (b *Builder) LeftShift(a, c *node.Node) *node.Node {
	return b.shiftLike(node.TagLShift, a, c, "shift", word.Word.LShift)
}

// RightShift builds the right shift; the signedness of the word picks
// the logical or arithmetic variant.
func (b *Builder) RightShift(a, c *node.Node) *node.Node {
	return b.shiftLike(node.TagRShift, a, c, "shift",
		func(w word.Word, k int) (word.Word, error) {
			if w.Signed() {
				return w.RShiftSigned(k)
			}
			return w.RShiftUnsigned(k)
		})
}

// LeftRotate builds the left rotation of a word.
func (b *Builder) LeftRotate(a, c *node.Node) *node.Node {
	return b.shiftLike(node.TagLRotate, a, c, "rotate", word.Word.LRotate)
}

// RightRotate builds the right rotation of a word.
func (b *Builder) RightRotate(a, c *node.Node) *node.Node {
	return b.shiftLike(node.TagRRotate, a, c, "rotate", word.Word.RRotate)
}

// colonRange extracts the constant bounds of a COLON node, if both are
// integer literals.
func colonRange(r *node.Node) (hi, lo int64, ok bool) {
	if r == nil || r.Tag() != node.TagColon {
		return 0, 0, false
	}
	if r.Left().Tag() != node.TagNumber || r.Right().Tag() != node.TagNumber {
		return 0, 0, false
	}
	return r.Left().Int(), r.Right().Int(), true
}

// BitSelect builds the bit-selection of a word; on a word constant with a
// constant range it evaluates statically.
func (b *Builder) BitSelect(w, r *node.Node) *node.Node {
	if hi, lo, ok := colonRange(r); ok && w.Tag().IsWordConstant() {
		sel, err := w.Word().BitSelect(int(hi), int(lo))
		if err != nil {
			return b.ar.NewFailure(node.FailureUnspecified, err.Error(), w.Line())
		}
		return b.ar.WordConst(sel)
	}
	return b.ar.New(node.TagBitSelection, w, r)
}

// SimplifyBitSelect is BitSelect with the type-directed rewrites: a
// full-width selection disappears, and a selection on an extended
// unsigned word pushes down past the extension.
func (b *Builder) SimplifyBitSelect(w, r *node.Node) *node.Node {
	hi, lo, ok := colonRange(r)
	if !ok || b.st == nil {
		return b.BitSelect(w, r)
	}
	wt := b.st.TypeChecker().ExpressionType(w, nil)
	if wt == nil || !wt.IsUnsignedWord() {
		return b.BitSelect(w, r)
	}
	width := int64(wt.WordWidth())

	if lo == 0 && hi == width-1 {
		return w
	}

	if w.Tag() == node.TagExtend {
		base := w.Left()
		bt := b.st.TypeChecker().ExpressionType(base, nil)
		if bt != nil && bt.WordWidth() > 0 {
			pivot := int64(bt.WordWidth())
			switch {
			case lo >= pivot:
				// Entirely inside the zero padding.
				return b.ar.WordConst(word.MustUint(0, int(hi-lo+1)))
			case hi < pivot:
				// Entirely inside the original bits.
				return b.SimplifyBitSelect(base, r)
			default:
				// Straddling: extend a narrower selection of the base.
				inner := b.SimplifyBitSelect(base,
					b.ar.New(node.TagColon, b.ar.Number(pivot-1), b.ar.Number(lo)))
				return b.Extend(inner, b.ar.Number(hi-pivot+1))
			}
		}
	}
	return b.BitSelect(w, r)
}

// Concat joins two words, the first operand most significant; constants
// fold to an unsigned constant.
func (b *Builder) Concat(a, c *node.Node) *node.Node {
	if a.Tag().IsWordConstant() && c.Tag().IsWordConstant() {
		res, err := a.Word().ToUnsigned().Concat(c.Word())
		if err != nil {
			return b.ar.NewFailure(node.FailureUnspecified, err.Error(), a.Line())
		}
		return b.ar.WordConst(res)
	}
	return b.ar.New(node.TagConcatenation, a, c)
}

// CastBool lowers a width-1 word to a boolean.
func (b *Builder) CastBool(w *node.Node) *node.Node {
	if w.Tag().IsWordConstant() {
		return b.boolConst(w.Word().Uint() != 0)
	}
	return b.ar.New(node.TagCastBool, w, nil)
}

// CastWord1 lifts a boolean to a width-1 unsigned word.
func (b *Builder) CastWord1(a *node.Node) *node.Node {
	if a.IsTrue() {
		return b.ar.WordConst(word.MustUint(1, 1))
	}
	if a.IsFalse() {
		return b.ar.WordConst(word.MustUint(0, 1))
	}
	return b.ar.New(node.TagCastWord1, a, nil)
}

// CastSigned reinterprets an unsigned word as signed.
func (b *Builder) CastSigned(w *node.Node) *node.Node {
	if w.Tag() == node.TagNumberUnsignedWord {
		return b.ar.WordConst(w.Word().ToSigned())
	}
	return b.ar.New(node.TagCastSigned, w, nil)
}

// CastUnsigned reinterprets a signed word as unsigned.
func (b *Builder) CastUnsigned(w *node.Node) *node.Node {
	if w.Tag() == node.TagNumberSignedWord {
		return b.ar.WordConst(w.Word().ToUnsigned())
	}
	return b.ar.New(node.TagCastUnsigned, w, nil)
}

// Extend widens a word by a constant number of bits, replicating the
// sign bit for signed words.
func (b *Builder) Extend(w, i *node.Node) *node.Node {
	if i == nil || i.Tag() != node.TagNumber {
		return b.ar.New(node.TagExtend, w, i)
	}
	if w.Tag().IsWordConstant() {
		var res word.Word
		var err error
		if w.Tag() == node.TagNumberSignedWord {
			res, err = w.Word().ExtendSigned(int(i.Int()))
		} else {
			res, err = w.Word().ExtendUnsigned(int(i.Int()))
		}
		if err != nil {
			return b.ar.NewFailure(node.FailureUnspecified, err.Error(), w.Line())
		}
		return b.ar.WordConst(res)
	}
	return b.ar.New(node.TagExtend, w, i)
}

// Resize changes a word's width: an identity at the current width, an
// extension when growing, a low-bits selection (sign bit preserved for
// signed words) when shrinking.
func (b *Builder) Resize(w, i *node.Node) *node.Node {
	if i != nil && i.Tag() == node.TagNumber && w.Tag().IsWordConstant() {
		n := int(i.Int())
		if n <= 0 {
			return b.ar.NewFailure(node.FailureUnspecified,
				fmt.Sprintf("resize to non-positive width %d", n), w.Line())
		}
		res, err := w.Word().Resize(n)
		if err != nil {
			return b.ar.NewFailure(node.FailureUnspecified, err.Error(), w.Line())
		}
		return b.ar.WordConst(res)
	}
	return b.ar.New(node.TagWResize, w, i)
}

// WordConstant resolves a UWCONST or SWCONST application into a word
// constant when both the value and the size are integer literals.
// Out-of-range sizes and non-representable values are deferred as
// failure nodes.
func (b *Builder) WordConstant(tag node.Tag, value, size *node.Node) *node.Node {
	if tag != node.TagUwConst && tag != node.TagSwConst {
		panic(fmt.Sprintf("expr: WordConstant on %v", tag))
	}
	if value == nil || size == nil ||
		value.Tag() != node.TagNumber || size.Tag() != node.TagNumber {
		return b.ar.New(tag, value, size)
	}

	w := size.Int()
	if w <= 0 || w > word.MaxWidth {
		return b.ar.NewFailure(node.FailureUnspecified,
			fmt.Sprintf("size specifier is out of range [1, %d]", word.MaxWidth), size.Line())
	}
	v := value.Int()

	var res word.Word
	var err error
	if tag == node.TagUwConst {
		if v < 0 {
			if res, err = word.FromInt(v, int(w)); err == nil {
				res = res.ToUnsigned()
			}
		} else {
			res, err = word.FromUint(uint64(v), int(w))
		}
	} else {
		res, err = word.FromInt(v, int(w))
	}
	if err != nil {
		return b.ar.NewFailure(node.FailureUnspecified,
			"value specifier is not representable with provided width", value.Line())
	}
	return b.ar.WordConst(res)
}

// WSizeof resolves the width of a word constant to an integer literal.
func (b *Builder) WSizeof(l *node.Node) *node.Node {
	if l.Tag().IsWordConstant() {
		return b.ar.Number(int64(l.Word().Width()))
	}
	return b.ar.New(node.TagWSizeof, l, nil)
}

// CastToInt is the integer coercion; integer literals pass through.
func (b *Builder) CastToInt(l *node.Node) *node.Node {
	if l.Tag() == node.TagNumber {
		return l
	}
	return b.ar.New(node.TagCastToInt, l, nil)
}
