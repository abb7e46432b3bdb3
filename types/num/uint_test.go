package num_test

import (
	"fmt"
	"math/big"
	"testing"

	"code.ballastprotocol.io/ballast/types/num"

	"github.com/stretchr/testify/assert"
)

func TestUint256Constructors(t *testing.T) {
	var expected uint64 = 42

	t.Run("test from uint64", func(t *testing.T) {
		n := num.NewUint(expected)
		assert.Equal(t, expected, n.Uint64())
	})

	t.Run("test zero", func(t *testing.T) {
		assert.True(t, num.Zero().IsZero())
	})

	t.Run("test from string", func(t *testing.T) {
		n, fail := num.UintFromString("42", 10)
		assert.False(t, fail)
		assert.Equal(t, expected, n.Uint64())
	})

	t.Run("test from bad string", func(t *testing.T) {
		n, fail := num.UintFromString("not a number", 10)
		assert.True(t, fail)
		assert.True(t, n.IsZero())
	})

	t.Run("test from big", func(t *testing.T) {
		n, fail := num.UintFromBig(big.NewInt(int64(expected)))
		assert.False(t, fail)
		assert.Equal(t, expected, n.Uint64())
	})

	t.Run("test from too big a big", func(t *testing.T) {
		b := new(big.Int).Lsh(big.NewInt(1), 256)
		n, fail := num.UintFromBig(b)
		assert.True(t, fail)
		assert.True(t, n.IsZero())
	})

	t.Run("test must from string", func(t *testing.T) {
		n := num.MustUintFromString("1000000000000000000000")
		assert.Equal(t, "1000000000000000000000", n.String())
	})
}

func TestUint256Clone(t *testing.T) {
	var (
		expect1 uint64 = 42
		expect2 uint64 = 84
		first          = num.NewUint(expect1)
		second         = first.Clone()
	)

	assert.Equal(t, expect1, first.Uint64())
	assert.Equal(t, expect1, second.Uint64())

	// mutating the clone must leave the original alone
	second.Add(second, num.NewUint(42))

	assert.Equal(t, expect1, first.Uint64())
	assert.Equal(t, expect2, second.Uint64())
}

func TestUint256Copy(t *testing.T) {
	var (
		expect1 uint64 = 42
		expect2 uint64 = 84
		first          = num.NewUint(expect1)
		second         = num.NewUint(expect2)
	)

	second.Copy(first)

	assert.Equal(t, expect1, first.Uint64())
	assert.Equal(t, expect1, second.Uint64())

	// updating the source must not touch the copy
	first.SetUint64(expect2)
	assert.Equal(t, expect2, first.Uint64())
	assert.Equal(t, expect1, second.Uint64())
}

func TestUint256CheckedArithmetic(t *testing.T) {
	t.Run("add overflow", func(t *testing.T) {
		n, overflow := num.Zero().AddOverflow(num.MaxUint(), num.NewUint(1))
		assert.True(t, overflow)
		// wrapped result, still reported
		assert.True(t, n.IsZero())

		_, overflow = num.Zero().AddOverflow(num.NewUint(40), num.NewUint(2))
		assert.False(t, overflow)
	})

	t.Run("sub underflow", func(t *testing.T) {
		_, underflow := num.Zero().SubOverflow(num.NewUint(1), num.NewUint(2))
		assert.True(t, underflow)

		n, underflow := num.Zero().SubOverflow(num.NewUint(44), num.NewUint(2))
		assert.False(t, underflow)
		assert.Equal(t, uint64(42), n.Uint64())
	})

	t.Run("mul overflow", func(t *testing.T) {
		_, overflow := num.Zero().MulOverflow(num.MaxUint(), num.NewUint(2))
		assert.True(t, overflow)

		n, overflow := num.Zero().MulOverflow(num.NewUint(21), num.NewUint(2))
		assert.False(t, overflow)
		assert.Equal(t, uint64(42), n.Uint64())
	})

	t.Run("div truncates", func(t *testing.T) {
		n := num.Zero().Div(num.NewUint(500), num.NewUint(1800))
		assert.True(t, n.IsZero())

		n = num.Zero().Div(num.NewUint(4200), num.NewUint(1000))
		assert.Equal(t, uint64(4), n.Uint64())
	})
}

func TestUint256Delta(t *testing.T) {
	n, neg := num.Zero().Delta(num.NewUint(40), num.NewUint(2))
	assert.False(t, neg)
	assert.Equal(t, uint64(38), n.Uint64())

	n, neg = num.Zero().Delta(num.NewUint(2), num.NewUint(40))
	assert.True(t, neg)
	assert.Equal(t, uint64(38), n.Uint64())
}

func TestUint256SumMinMax(t *testing.T) {
	var (
		small  = num.NewUint(10)
		larger = num.NewUint(20)
	)
	assert.Equal(t, uint64(42), num.Sum(num.NewUint(10), num.NewUint(12), num.NewUint(20)).Uint64())
	assert.Equal(t, small, num.Min(small, larger))
	assert.Equal(t, larger, num.Max(small, larger))
}

func TestUint256Compare(t *testing.T) {
	var (
		small  = num.NewUint(41)
		larger = num.NewUint(42)
	)
	assert.True(t, small.LT(larger))
	assert.True(t, small.LTE(small.Clone()))
	assert.True(t, larger.GT(small))
	assert.True(t, larger.GTE(larger.Clone()))
	assert.True(t, larger.EQ(num.NewUint(42)))
	assert.True(t, larger.NEQ(small))
	assert.True(t, larger.GTUint64(41))
	assert.True(t, small.LTUint64(42))
	assert.True(t, larger.EQUint64(42))
}

func TestUint256MaxUint(t *testing.T) {
	m := num.MaxUint()
	assert.True(t, m.GT(num.MustUintFromString("115792089237316195423570985008687907853269984665640564039457584007913129639934")))
	_, overflow := m.AddOverflow(m, num.NewUint(1))
	assert.True(t, overflow)
}

func TestUint256Print(t *testing.T) {
	n := num.NewUint(42)
	assert.Equal(t, "42", fmt.Sprintf("%v", n))
	assert.Equal(t, "42", n.String())
}

func TestDeferDoCopy(t *testing.T) {
	var (
		expected1 uint64 = 42
		expected2 uint64 = 84
		n1               = num.NewUint(42)
	)

	n2 := *n1

	assert.Equal(t, expected1, n1.Uint64())
	assert.Equal(t, expected1, n2.Uint64())

	n2.SetUint64(expected2)
	assert.Equal(t, expected1, n1.Uint64())
	assert.Equal(t, expected2, n2.Uint64())
}

func TestUintToDecimal(t *testing.T) {
	n := num.MustUintFromString("2000000000000000000000")
	assert.Equal(t, "2000000000000000000000", n.ToDecimal().String())

	back, fail := num.UintFromDecimal(n.ToDecimal())
	assert.False(t, fail)
	assert.True(t, back.EQ(n))
}
