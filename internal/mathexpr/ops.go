package mathexpr

import "math"

type binaryOp func(a, b Number) (Number, error)

var binaryOps = map[string]binaryOp{
	"+":  add,
	"-":  sub,
	"*":  mul,
	"/":  div,
	"%":  mod,
	"**": pow,
	"^":  pow,
}

func negate(a Number) Number {
	if a.isFloat {
		return Float(-a.f)
	}
	if a.i == math.MinInt64 {
		return Float(-float64(a.i))
	}
	return Int(-a.i)
}

func add(a, b Number) (Number, error) {
	if a.isFloat || b.isFloat {
		return Float(a.Float64() + b.Float64()), nil
	}
	s := a.i + b.i
	if (a.i > 0 && b.i > 0 && s < 0) || (a.i < 0 && b.i < 0 && s >= 0) {
		return Float(float64(a.i) + float64(b.i)), nil
	}
	return Int(s), nil
}

func sub(a, b Number) (Number, error) {
	return add(a, negate(b))
}

func mul(a, b Number) (Number, error) {
	if a.isFloat || b.isFloat {
		return Float(a.Float64() * b.Float64()), nil
	}
	if p, ok := mulInt(a.i, b.i); ok {
		return Int(p), nil
	}
	return Float(float64(a.i) * float64(b.i)), nil
}

func mulInt(a, b int64) (int64, bool) {
	if a == 0 || b == 0 {
		return 0, true
	}
	p := a * b
	if p/b != a || (a == -1 && b == math.MinInt64) || (b == -1 && a == math.MinInt64) {
		return 0, false
	}
	return p, true
}

func div(a, b Number) (Number, error) {
	if b.Float64() == 0 {
		return Number{}, evalErr("division by zero")
	}
	return Float(a.Float64() / b.Float64()), nil
}

// mod follows floored division: the result takes the sign of the divisor.
func mod(a, b Number) (Number, error) {
	if a.isFloat || b.isFloat {
		y := b.Float64()
		if y == 0 {
			return Number{}, evalErr("float modulo")
		}
		r := math.Mod(a.Float64(), y)
		if r != 0 && (r < 0) != (y < 0) {
			r += y
		}
		return Float(r), nil
	}
	if b.i == 0 {
		return Number{}, evalErr("integer division or modulo by zero")
	}
	if b.i == -1 {
		return Int(0), nil
	}
	r := a.i % b.i
	if r != 0 && (r < 0) != (b.i < 0) {
		r += b.i
	}
	return Int(r), nil
}

func pow(a, b Number) (Number, error) {
	if !a.isFloat && !b.isFloat && b.i >= 0 {
		if p, ok := powInt(a.i, b.i); ok {
			return Int(p), nil
		}
		return Float(math.Pow(float64(a.i), float64(b.i))), nil
	}

	x, y := a.Float64(), b.Float64()
	if x == 0 && y < 0 {
		return Number{}, evalErr("0.0 cannot be raised to a negative power")
	}
	if x < 0 && y != math.Trunc(y) {
		return Number{}, evalErr("math domain error")
	}
	return Float(math.Pow(x, y)), nil
}

func powInt(base, exp int64) (int64, bool) {
	result := int64(1)
	for exp > 0 {
		if exp&1 == 1 {
			r, ok := mulInt(result, base)
			if !ok {
				return 0, false
			}
			result = r
		}
		exp >>= 1
		if exp > 0 {
			b, ok := mulInt(base, base)
			if !ok {
				return 0, false
			}
			base = b
		}
	}
	return result, true
}
