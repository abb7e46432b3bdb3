package num

import (
	"math/big"

	"github.com/shopspring/decimal"
)

// Decimal is an arbitrary precision decimal, used for display and
// test tolerances only. The solvency and valuation path is integer
// arithmetic on Uint end to end.
type Decimal = decimal.Decimal

var (
	dzero      = decimal.Zero
	done       = decimal.NewFromInt(1)
	maxDecimal = decimal.NewFromBigInt(maxU256, 0)
)

func DecimalZero() Decimal {
	return dzero
}

func DecimalOne() Decimal {
	return done
}

// MaxDecimal returns the largest value representable in a Uint as a
// Decimal.
func MaxDecimal() Decimal {
	return maxDecimal
}

func DecimalFromUint(u *Uint) Decimal {
	return decimal.NewFromBigInt(u.BigInt(), 0)
}

func DecimalFromInt(i *Int) Decimal {
	d := DecimalFromUint(i.U)
	if i.IsNegative() {
		return d.Neg()
	}
	return d
}

func DecimalFromInt64(i int64) Decimal {
	return decimal.NewFromInt(i)
}

func DecimalFromFloat(f float64) Decimal {
	return decimal.NewFromFloat(f)
}

func DecimalFromString(s string) (Decimal, error) {
	return decimal.NewFromString(s)
}

// MustDecimalFromString parses s and panics if it is not a valid
// decimal. For use with trusted, hard-coded inputs only.
func MustDecimalFromString(s string) Decimal {
	d, err := DecimalFromString(s)
	if err != nil {
		panic(err)
	}
	return d
}

func NewDecimalFromBigInt(value *big.Int, exp int32) Decimal {
	return decimal.NewFromBigInt(value, exp)
}

func MaxD(a, b Decimal) Decimal {
	if a.GreaterThan(b) {
		return a
	}
	return b
}

func MinD(a, b Decimal) Decimal {
	if a.LessThan(b) {
		return a
	}
	return b
}
