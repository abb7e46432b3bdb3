package logging

import (
	"time"

	"code.ballastprotocol.io/ballast/types/num"

	"go.uber.org/zap"
)

// Field aliases zap.Field so callers never import zap directly.
type Field = zap.Field

func String(key, val string) Field {
	return zap.String(key, val)
}

func Strings(key string, val []string) Field {
	return zap.Strings(key, val)
}

func Bool(key string, val bool) Field {
	return zap.Bool(key, val)
}

func Int(key string, val int) Field {
	return zap.Int(key, val)
}

func Int64(key string, val int64) Field {
	return zap.Int64(key, val)
}

func Uint8(key string, val uint8) Field {
	return zap.Uint8(key, val)
}

func Uint64(key string, val uint64) Field {
	return zap.Uint64(key, val)
}

func Float64(key string, val float64) Field {
	return zap.Float64(key, val)
}

func Duration(key string, val time.Duration) Field {
	return zap.Duration(key, val)
}

func Time(key string, val time.Time) Field {
	return zap.Time(key, val)
}

func Error(val error) Field {
	return zap.Error(val)
}

// BigUint logs an unsigned 256 bit value as a decimal string.
func BigUint(key string, val *num.Uint) Field {
	if val == nil {
		return zap.String(key, "nil")
	}
	return zap.String(key, val.String())
}

// BigInt logs a signed 256 bit value as a decimal string.
func BigInt(key string, val *num.Int) Field {
	if val == nil {
		return zap.String(key, "nil")
	}
	return zap.String(key, val.String())
}

// Decimal logs an arbitrary precision decimal as a string.
func Decimal(key string, val num.Decimal) Field {
	return zap.String(key, val.String())
}
