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

package word

import (
	"testing"

	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}

func TestConstructors(t *testing.T) {
	t.Parallel()

	w := MustUint(11, 4)
	require.Equal(t, 4, w.Width())
	require.False(t, w.Signed())
	require.Equal(t, uint64(11), w.Uint())
	require.Equal(t, "0ud4_11", w.String())

	s := MustInt(-1, 4)
	require.True(t, s.Signed())
	require.Equal(t, int64(-1), s.Int())
	require.Equal(t, uint64(0xf), s.Uint())
	require.Equal(t, "0sd4_-1", s.String())

	_, err := FromUint(16, 4)
	require.ErrorIs(t, err, ErrValueRange)
	_, err = FromInt(8, 4)
	require.ErrorIs(t, err, ErrValueRange)
	_, err = FromUint(0, 0)
	require.ErrorIs(t, err, ErrWidthRange)
	_, err = FromUint(0, 65)
	require.ErrorIs(t, err, ErrWidthRange)
}

// TestArithmeticAgainstReference cross-checks every arithmetic operator
// against a naive computation modulo 2^w over all 4-bit operand pairs.
func TestArithmeticAgainstReference(t *testing.T) {
	t.Parallel()

	const w = 4
	m := uint64(1)<<w - 1
	for a := uint64(0); a <= m; a++ {
		for b := uint64(0); b <= m; b++ {
			x, y := MustUint(a, w), MustUint(b, w)
			require.Equal(t, (a+b)&m, x.Add(y).Uint())
			require.Equal(t, (a-b)&m, x.Sub(y).Uint())
			require.Equal(t, (a*b)&m, x.Mul(y).Uint())
			require.Equal(t, a&b, x.And(y).Uint())
			require.Equal(t, a|b, x.Or(y).Uint())
			require.Equal(t, a^b, x.Xor(y).Uint())
			require.Equal(t, (^(a ^ b))&m, x.Xnor(y).Uint())
			require.Equal(t, ((^a)|b)&m, x.Implies(y).Uint())
			require.Equal(t, a < b, x.LessUnsigned(y))
			require.Equal(t, a >= b, x.GreaterEqUnsigned(y))

			if b != 0 {
				q, err := x.DivUnsigned(y)
				require.NoError(t, err)
				require.Equal(t, a/b, q.Uint())
				r, err := x.ModUnsigned(y)
				require.NoError(t, err)
				require.Equal(t, a%b, r.Uint())
			} else {
				_, err := x.DivUnsigned(y)
				require.ErrorIs(t, err, ErrDivByZero)
			}
		}
	}
}

func TestSignedDivision(t *testing.T) {
	t.Parallel()

	// Quotient sign is the xor of the operand signs, remainder carries the
	// dividend's sign.
	tests := []struct {
		a, b, q, r int64
	}{
		{7, 2, 3, 1},
		{-7, 2, -3, -1},
		{7, -2, -3, 1},
		{-7, -2, 3, -1},
		{6, 3, 2, 0},
		{-8, 1, -8, 0},
	}
	for _, tt := range tests {
		x, y := MustInt(tt.a, 8), MustInt(tt.b, 8)
		q, err := x.DivSigned(y)
		require.NoError(t, err)
		require.Equal(t, tt.q, q.Int(), "%d / %d", tt.a, tt.b)
		r, err := x.ModSigned(y)
		require.NoError(t, err)
		require.Equal(t, tt.r, r.Int(), "%d mod %d", tt.a, tt.b)
	}

	_, err := MustInt(1, 8).DivSigned(MustInt(0, 8))
	require.ErrorIs(t, err, ErrDivByZero)
}

func TestSignedComparisons(t *testing.T) {
	t.Parallel()

	minus1 := MustInt(-1, 4)
	one := MustInt(1, 4)
	require.True(t, minus1.LessSigned(one))
	require.True(t, one.GreaterSigned(minus1))
	require.True(t, minus1.LessEqSigned(minus1))
	// The same bit patterns compare the other way around unsigned.
	require.True(t, one.ToUnsigned().LessUnsigned(minus1.ToUnsigned()))
}

func TestShiftsAndRotates(t *testing.T) {
	t.Parallel()

	w := MustUint(0b1001, 4)

	ls, err := w.LShift(1)
	require.NoError(t, err)
	require.Equal(t, uint64(0b0010), ls.Uint())

	rs, err := w.RShiftUnsigned(1)
	require.NoError(t, err)
	require.Equal(t, uint64(0b0100), rs.Uint())

	ars, err := MustInt(-8, 4).RShiftSigned(2)
	require.NoError(t, err)
	require.Equal(t, int64(-2), ars.Int())

	lr, err := w.LRotate(1)
	require.NoError(t, err)
	require.Equal(t, uint64(0b0011), lr.Uint())

	rr, err := w.RRotate(1)
	require.NoError(t, err)
	require.Equal(t, uint64(0b1100), rr.Uint())

	full, err := w.RRotate(4)
	require.NoError(t, err)
	require.Equal(t, w.Uint(), full.Uint())

	_, err = w.LShift(5)
	require.ErrorIs(t, err, ErrShiftRange)
	_, err = w.RRotate(-1)
	require.ErrorIs(t, err, ErrShiftRange)
}

func TestSelectExtendConcatResize(t *testing.T) {
	t.Parallel()

	w := MustUint(0b1010, 4)

	sel, err := w.BitSelect(3, 2)
	require.NoError(t, err)
	require.Equal(t, MustUint(0b10, 2), sel)
	_, err = w.BitSelect(4, 0)
	require.ErrorIs(t, err, ErrSelRange)

	ext, err := w.ExtendUnsigned(4)
	require.NoError(t, err)
	require.Equal(t, MustUint(0b1010, 8), ext)

	sext, err := MustInt(-2, 4).ExtendSigned(4)
	require.NoError(t, err)
	require.Equal(t, int64(-2), sext.Int())
	require.Equal(t, 8, sext.Width())

	cat, err := MustUint(0b11, 2).Concat(MustUint(0b00, 2))
	require.NoError(t, err)
	require.Equal(t, MustUint(0b1100, 4), cat)

	// Resize: identity, grow, shrink for both signednesses.
	same, err := w.Resize(4)
	require.NoError(t, err)
	require.Equal(t, w, same)

	grown, err := w.Resize(6)
	require.NoError(t, err)
	require.Equal(t, MustUint(0b1010, 6), grown)

	shrunk, err := w.Resize(3)
	require.NoError(t, err)
	require.Equal(t, MustUint(0b010, 3), shrunk)

	sshrunk, err := MustInt(-6, 4).Resize(3)
	require.NoError(t, err)
	require.True(t, sshrunk.Signed())
	require.Equal(t, 3, sshrunk.Width())
	// sign bit kept, low two bits kept: 1010 -> 1 ++ 10.
	require.Equal(t, uint64(0b110), sshrunk.Uint())
}

func TestBounds(t *testing.T) {
	t.Parallel()

	require.Equal(t, uint64(15), MaxUnsigned(4))
	require.Equal(t, int64(7), MaxSigned(4))
	require.Equal(t, ^uint64(0), MaxUnsigned(64))
}
