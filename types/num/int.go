package num

// Int is a signed 256 bit integer, stored as an unsigned magnitude
// plus a sign flag. It exists for values that arrive signed from the
// outside world (price feeds chiefly) and need to be judged before
// they enter unsigned balance arithmetic.
type Int struct {
	// U is the magnitude of the value, always positive.
	U *Uint
	// s is the sign, true for positive, false for negative. The sign
	// of a zero value is meaningless.
	s bool
}

// NewInt returns a new Int holding the given int64 value.
func NewInt(val int64) *Int {
	if val < 0 {
		return &Int{
			U: NewUint(uint64(-val)),
			s: false,
		}
	}
	return &Int{
		U: NewUint(uint64(val)),
		s: true,
	}
}

// IntFromUint builds an Int from a Uint magnitude and a sign, true
// for positive.
func IntFromUint(u *Uint, s bool) *Int {
	return &Int{
		U: u.Clone(),
		s: s,
	}
}

// IsPositive returns true if the value is strictly greater than zero.
func (i Int) IsPositive() bool {
	return i.s && !i.IsZero()
}

// IsNegative returns true if the value is strictly less than zero.
func (i Int) IsNegative() bool {
	return !i.s && !i.IsZero()
}

// IsZero returns true if the value is zero.
func (i Int) IsZero() bool {
	return i.U.IsZero()
}

// FlipSign inverts the sign of the value.
func (i *Int) FlipSign() {
	i.s = !i.s
}

// Clone returns a new Int with the same value as i.
func (i Int) Clone() *Int {
	return &Int{
		U: i.U.Clone(),
		s: i.s,
	}
}

// GT returns true if i > oth.
func (i *Int) GT(oth *Int) bool {
	if i.IsNegative() {
		if !oth.IsNegative() {
			return false
		}
		return i.U.LT(oth.U)
	}
	if i.IsZero() {
		return oth.IsNegative()
	}
	if oth.IsPositive() {
		return i.U.GT(oth.U)
	}
	return true
}

// LT returns true if i < oth.
func (i *Int) LT(oth *Int) bool {
	return oth.GT(i)
}

// Add adds oth to i, handling any sign flip, and returns i.
func (i *Int) Add(oth *Int) *Int {
	if i.s == oth.s {
		i.U.Add(i.U, oth.U)
		return i
	}
	if oth.U.GT(i.U) {
		i.U.Sub(oth.U, i.U)
		i.s = oth.s
		return i
	}
	i.U.Sub(i.U, oth.U)
	return i
}

// AddSum adds all the given values to i and returns i.
func (i *Int) AddSum(vals ...*Int) *Int {
	for _, x := range vals {
		i.Add(x)
	}
	return i
}

// Sub subtracts oth from i and returns i.
func (i *Int) Sub(oth *Int) *Int {
	flipped := oth.Clone()
	flipped.FlipSign()
	return i.Add(flipped)
}

// SubSum subtracts all the given values from i and returns i.
func (i *Int) SubSum(vals ...*Int) *Int {
	for _, x := range vals {
		i.Sub(x)
	}
	return i
}

// Int64 returns the value of i as an int64, assuming it fits.
func (i Int) Int64() int64 {
	v := int64(i.U.Uint64())
	if i.IsNegative() {
		return -v
	}
	return v
}

// String returns the decimal representation of i.
func (i Int) String() string {
	if i.IsNegative() {
		return "-" + i.U.String()
	}
	return i.U.String()
}
