package num

import (
	"fmt"
	"math/big"

	"github.com/holiman/uint256"
)

// maxU256 is 2^256 - 1, the largest value representable in a Uint.
var maxU256 = new(big.Int).Sub(
	new(big.Int).Lsh(big.NewInt(1), 256), big.NewInt(1),
)

// Uint is an unsigned 256 bit integer, the base type for all balance
// and valuation arithmetic. The zero value is ready to use and equals 0.
type Uint struct {
	u uint256.Int
}

// NewUint returns a new Uint holding the given uint64 value.
func NewUint(val uint64) *Uint {
	return &Uint{*uint256.NewInt(val)}
}

// Zero returns a new Uint set to 0.
func Zero() *Uint {
	return NewUint(0)
}

// MaxUint returns a new Uint set to the maximum representable value.
func MaxUint() *Uint {
	u, _ := UintFromBig(maxU256)
	return u
}

// Min returns the smaller of the two values.
func Min(a, b *Uint) *Uint {
	if a.LT(b) {
		return a
	}
	return b
}

// Max returns the larger of the two values.
func Max(a, b *Uint) *Uint {
	if a.GT(b) {
		return a
	}
	return b
}

// UintFromBig builds a Uint from a big.Int, the second return value
// is true if the big.Int did not fit in 256 bits.
func UintFromBig(b *big.Int) (*Uint, bool) {
	u, overflow := uint256.FromBig(b)
	if overflow {
		return Zero(), true
	}
	return &Uint{*u}, false
}

// UintFromDecimal builds a Uint from the integer part of a Decimal,
// the second return value is true on overflow.
func UintFromDecimal(d Decimal) (*Uint, bool) {
	return UintFromBig(d.BigInt())
}

// UintFromString builds a Uint from a string in the given base. The
// string is parsed through big.Int, so all its parsing rules apply.
// The second return value is true if parsing failed or the value
// overflowed.
func UintFromString(str string, base int) (*Uint, bool) {
	b, ok := big.NewInt(0).SetString(str, base)
	if !ok {
		return Zero(), true
	}
	return UintFromBig(b)
}

// MustUintFromString builds a Uint from a base 10 string and panics
// if the string is not a valid in-range value. For use with trusted,
// hard-coded inputs only.
func MustUintFromString(str string) *Uint {
	u, fail := UintFromString(str, 10)
	if fail {
		panic(fmt.Sprintf("invalid uint string %q", str))
	}
	return u
}

// Sum returns a new Uint equal to the sum of all given values.
func Sum(vals ...*Uint) *Uint {
	return Zero().AddSum(vals...)
}

// Set copies oth into z and returns z.
func (z *Uint) Set(oth *Uint) *Uint {
	z.u.Set(&oth.u)
	return z
}

// SetUint64 sets z to the given uint64 value and returns z.
func (z *Uint) SetUint64(val uint64) *Uint {
	z.u.SetUint64(val)
	return z
}

// Uint64 returns the low 64 bits of z.
func (z Uint) Uint64() uint64 {
	return z.u.Uint64()
}

// BigInt returns the value of z as a big.Int.
func (z Uint) BigInt() *big.Int {
	return z.u.ToBig()
}

// ToDecimal returns the value of z as a Decimal.
func (z Uint) ToDecimal() Decimal {
	return DecimalFromUint(&z)
}

// Float64 returns an approximation of z as a float64. Never use the
// result in balance or valuation arithmetic.
func (z Uint) Float64() float64 {
	f, _ := DecimalFromUint(&z).Float64()
	return f
}

// Add sets z to x + y and returns z. The result wraps on overflow,
// use AddOverflow where that matters.
func (z *Uint) Add(x, y *Uint) *Uint {
	z.u.Add(&x.u, &y.u)
	return z
}

// AddSum adds all the given values to z, so x.AddSum(y, z) is
// equivalent to x + y + z.
func (z *Uint) AddSum(vals ...*Uint) *Uint {
	for _, x := range vals {
		z.u.Add(&z.u, &x.u)
	}
	return z
}

// AddOverflow sets z to x + y and returns z along with a flag that
// is true if the addition overflowed.
func (z *Uint) AddOverflow(x, y *Uint) (*Uint, bool) {
	_, overflow := z.u.AddOverflow(&x.u, &y.u)
	return z, overflow
}

// Sub sets z to x - y and returns z. The result wraps on underflow,
// use SubOverflow where that matters.
func (z *Uint) Sub(x, y *Uint) *Uint {
	z.u.Sub(&x.u, &y.u)
	return z
}

// SubOverflow sets z to x - y and returns z along with a flag that
// is true if the subtraction underflowed.
func (z *Uint) SubOverflow(x, y *Uint) (*Uint, bool) {
	_, underflow := z.u.SubOverflow(&x.u, &y.u)
	return z, underflow
}

// Delta sets z to the absolute difference of x and y. The second
// return value is true when y > x, i.e. when x - y would have been
// negative.
func (z *Uint) Delta(x, y *Uint) (*Uint, bool) {
	if y.GT(x) {
		_ = z.Sub(y, x)
		return z, true
	}
	_ = z.Sub(x, y)
	return z, false
}

// Mul sets z to x * y and returns z. The result wraps on overflow,
// use MulOverflow where that matters.
func (z *Uint) Mul(x, y *Uint) *Uint {
	z.u.Mul(&x.u, &y.u)
	return z
}

// MulOverflow sets z to x * y and returns z along with a flag that
// is true if the product overflowed 256 bits.
func (z *Uint) MulOverflow(x, y *Uint) (*Uint, bool) {
	_, overflow := z.u.MulOverflow(&x.u, &y.u)
	return z, overflow
}

// Div sets z to x / y, truncated towards zero, and returns z.
// Division by zero yields 0.
func (z *Uint) Div(x, y *Uint) *Uint {
	z.u.Div(&x.u, &y.u)
	return z
}

// LT returns true if z < oth.
func (z Uint) LT(oth *Uint) bool {
	return z.u.Lt(&oth.u)
}

// LTUint64 returns true if z < oth.
func (z Uint) LTUint64(oth uint64) bool {
	return z.u.LtUint64(oth)
}

// LTE returns true if z <= oth.
func (z Uint) LTE(oth *Uint) bool {
	return z.u.Lt(&oth.u) || z.u.Eq(&oth.u)
}

// EQ returns true if z == oth.
func (z Uint) EQ(oth *Uint) bool {
	return z.u.Eq(&oth.u)
}

// EQUint64 returns true if z == oth.
func (z Uint) EQUint64(oth uint64) bool {
	return z.u.Eq(uint256.NewInt(oth))
}

// NEQ returns true if z != oth.
func (z Uint) NEQ(oth *Uint) bool {
	return !z.u.Eq(&oth.u)
}

// GT returns true if z > oth.
func (z Uint) GT(oth *Uint) bool {
	return z.u.Gt(&oth.u)
}

// GTUint64 returns true if z > oth.
func (z Uint) GTUint64(oth uint64) bool {
	return z.u.GtUint64(oth)
}

// GTE returns true if z >= oth.
func (z Uint) GTE(oth *Uint) bool {
	return z.u.Gt(&oth.u) || z.u.Eq(&oth.u)
}

// IsZero returns true if z == 0.
func (z Uint) IsZero() bool {
	return z.u.IsZero()
}

// Copy copies x into z and returns z, leaving x untouched.
func (z *Uint) Copy(x *Uint) *Uint {
	z.u = x.u
	return z
}

// Clone returns a new Uint with the same value as z.
func (z Uint) Clone() *Uint {
	return &Uint{z.u}
}

// Hex returns the hexadecimal representation of z.
func (z Uint) Hex() string {
	return z.u.Hex()
}

// String returns the decimal representation of z.
func (z Uint) String() string {
	return z.u.ToBig().String()
}

// Format implements fmt.Formatter.
func (z Uint) Format(s fmt.State, ch rune) {
	z.u.Format(s, ch)
}

// Bytes returns z as a big endian [32]byte array.
func (z Uint) Bytes() [32]byte {
	return z.u.Bytes32()
}
