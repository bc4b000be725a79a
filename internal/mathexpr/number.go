package mathexpr

import (
	"math"
	"strconv"
	"strings"
)

// Number is an evaluation result. Integer arithmetic stays integral until it
// overflows; anything involving a float, true division or a float-returning
// function produces a float.
type Number struct {
	i       int64
	f       float64
	isFloat bool
}

// Int returns an integral Number.
func Int(v int64) Number {
	return Number{i: v}
}

// Float returns a floating point Number.
func Float(v float64) Number {
	return Number{f: v, isFloat: true}
}

// IsInt reports whether the number is integral.
func (n Number) IsInt() bool {
	return !n.isFloat
}

// Int64 returns the integer value. It is only meaningful when IsInt is true.
func (n Number) Int64() int64 {
	return n.i
}

// Float64 returns the value as a float64.
func (n Number) Float64() float64 {
	if n.isFloat {
		return n.f
	}
	return float64(n.i)
}

// String renders integers plainly and floats in shortest round-trip form,
// always with a fractional part or an exponent ("4", "4.0", "0.1", "1e+16").
func (n Number) String() string {
	if !n.isFloat {
		return strconv.FormatInt(n.i, 10)
	}
	return formatFloat(n.f)
}

func formatFloat(f float64) string {
	switch {
	case math.IsNaN(f):
		return "nan"
	case math.IsInf(f, 1):
		return "inf"
	case math.IsInf(f, -1):
		return "-inf"
	}

	abs := math.Abs(f)
	if abs != 0 && (abs < 1e-4 || abs >= 1e16) {
		return strconv.FormatFloat(f, 'e', -1, 64)
	}

	s := strconv.FormatFloat(f, 'f', -1, 64)
	if !strings.ContainsRune(s, '.') {
		s += ".0"
	}
	return s
}

// fromFloat converts an integral float back to an Int when it fits.
func fromFloat(f float64) Number {
	if f >= -(1<<63) && f < 1<<63 {
		return Int(int64(f))
	}
	return Float(f)
}
