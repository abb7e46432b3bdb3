package num

import "golang.org/x/exp/constraints"

// Num is any primitive numeric type.
type Num interface {
	constraints.Integer | constraints.Float
}

// Signed is any primitive numeric type that can hold negative values.
type Signed interface {
	constraints.Signed | constraints.Float
}

// MaxV returns the larger of two primitive numeric values.
func MaxV[T Num](a, b T) T {
	if a > b {
		return a
	}
	return b
}

// MinV returns the smaller of two primitive numeric values.
func MinV[T Num](a, b T) T {
	if a > b {
		return b
	}
	return a
}

// AbsV returns the absolute value of a signed primitive.
func AbsV[T Signed](a T) T {
	var zero T
	if a < zero {
		return -a
	}
	return a
}
