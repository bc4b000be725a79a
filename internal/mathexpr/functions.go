package mathexpr

import (
	"math"
	"sort"
)

type function struct {
	minArgs int
	maxArgs int // -1 means variadic
	call    func(args []Number) (Number, error)
}

// functions is the complete set of callable names.
var functions = map[string]function{
	"sin":   unary(math.Sin),
	"cos":   unary(math.Cos),
	"tan":   unary(math.Tan),
	"asin":  unaryDomain(math.Asin, func(x float64) bool { return x >= -1 && x <= 1 }),
	"acos":  unaryDomain(math.Acos, func(x float64) bool { return x >= -1 && x <= 1 }),
	"atan":  unary(math.Atan),
	"sinh":  unary(math.Sinh),
	"cosh":  unary(math.Cosh),
	"tanh":  unary(math.Tanh),
	"asinh": unary(math.Asinh),
	"acosh": unaryDomain(math.Acosh, func(x float64) bool { return x >= 1 }),
	"atanh": unaryDomain(math.Atanh, func(x float64) bool { return x > -1 && x < 1 }),
	"sqrt":  unaryDomain(math.Sqrt, func(x float64) bool { return x >= 0 }),
	"cbrt":  unary(math.Cbrt),
	"exp":   unary(math.Exp),
	"expm1": unary(math.Expm1),
	"log2":  unaryDomain(math.Log2, positive),
	"log10": unaryDomain(math.Log10, positive),
	"log1p": unaryDomain(math.Log1p, func(x float64) bool { return x > -1 }),
	"fabs":  unary(math.Abs),

	"degrees": unary(func(x float64) float64 { return x * 180 / math.Pi }),
	"radians": unary(func(x float64) float64 { return x * math.Pi / 180 }),

	"atan2":    binary(math.Atan2),
	"pow":      {2, 2, powFloat},
	"copysign": binary(math.Copysign),
	"fmod":     {2, 2, fmod},
	"log":      {1, 2, logFn},
	"hypot":    {0, -1, hypot},

	"abs":       {1, 1, absFn},
	"floor":     toInt(math.Floor),
	"ceil":      toInt(math.Ceil),
	"trunc":     toInt(math.Trunc),
	"round":     {1, 2, roundFn},
	"max":       {1, -1, maxFn},
	"min":       {1, -1, minFn},
	"factorial": {1, 1, factorial},
	"gcd":       {0, -1, gcd},
}

// Functions returns the callable names in sorted order.
func Functions() []string {
	names := make([]string, 0, len(functions))
	for name := range functions {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// IsFunction reports whether name is a callable function.
func IsFunction(name string) bool {
	_, ok := functions[name]
	return ok
}

func positive(x float64) bool { return x > 0 }

func unary(f func(float64) float64) function {
	return function{1, 1, func(args []Number) (Number, error) {
		return Float(f(args[0].Float64())), nil
	}}
}

func unaryDomain(f func(float64) float64, inDomain func(float64) bool) function {
	return function{1, 1, func(args []Number) (Number, error) {
		x := args[0].Float64()
		if !inDomain(x) {
			return Number{}, evalErr("math domain error")
		}
		return Float(f(x)), nil
	}}
}

func binary(f func(float64, float64) float64) function {
	return function{2, 2, func(args []Number) (Number, error) {
		return Float(f(args[0].Float64(), args[1].Float64())), nil
	}}
}

func toInt(f func(float64) float64) function {
	return function{1, 1, func(args []Number) (Number, error) {
		if args[0].IsInt() {
			return args[0], nil
		}
		x := args[0].Float64()
		if math.IsNaN(x) || math.IsInf(x, 0) {
			return Number{}, evalErr("cannot convert non-finite float to integer")
		}
		return fromFloat(f(x)), nil
	}}
}

func powFloat(args []Number) (Number, error) {
	x, y := args[0].Float64(), args[1].Float64()
	if (x == 0 && y < 0) || (x < 0 && y != math.Trunc(y)) {
		return Number{}, evalErr("math domain error")
	}
	return Float(math.Pow(x, y)), nil
}

func fmod(args []Number) (Number, error) {
	y := args[1].Float64()
	if y == 0 {
		return Number{}, evalErr("math domain error")
	}
	return Float(math.Mod(args[0].Float64(), y)), nil
}

func logFn(args []Number) (Number, error) {
	x := args[0].Float64()
	if x <= 0 {
		return Number{}, evalErr("math domain error")
	}
	if len(args) == 1 {
		return Float(math.Log(x)), nil
	}
	base := args[1].Float64()
	if base <= 0 {
		return Number{}, evalErr("math domain error")
	}
	if base == 1 {
		return Number{}, evalErr("division by zero")
	}
	return Float(math.Log(x) / math.Log(base)), nil
}

func hypot(args []Number) (Number, error) {
	var sum float64
	for _, a := range args {
		x := a.Float64()
		sum += x * x
	}
	return Float(math.Sqrt(sum)), nil
}

func absFn(args []Number) (Number, error) {
	a := args[0]
	if a.isFloat {
		return Float(math.Abs(a.f)), nil
	}
	if a.i < 0 {
		return negate(a), nil
	}
	return a, nil
}

// roundFn rounds half to even. With one argument the result is an integer.
func roundFn(args []Number) (Number, error) {
	a := args[0]
	if len(args) == 1 {
		if a.IsInt() {
			return a, nil
		}
		if math.IsNaN(a.f) || math.IsInf(a.f, 0) {
			return Number{}, evalErr("cannot convert non-finite float to integer")
		}
		return fromFloat(math.RoundToEven(a.f)), nil
	}
	if !args[1].IsInt() {
		return Number{}, evalErr("round() ndigits must be an integer")
	}
	if a.IsInt() {
		if args[1].i >= 0 {
			return a, nil
		}
		if n, ok := roundInt(a.i, -args[1].i); ok {
			return n, nil
		}
	}
	scale := math.Pow(10, float64(args[1].i))
	if math.IsInf(scale, 0) || scale == 0 {
		return Float(a.Float64()), nil
	}
	return Float(math.RoundToEven(a.Float64()*scale) / scale), nil
}

// roundInt rounds v to a multiple of 10^digits, half to even. It reports
// false when the result does not fit an int64.
func roundInt(v, digits int64) (Number, bool) {
	if digits > 18 {
		return Number{}, false
	}
	p := int64(1)
	for range digits {
		p *= 10
	}
	q, r := v/p, v%p
	if r < 0 {
		q--
		r += p
	}
	if 2*r > p || (2*r == p && q%2 != 0) {
		q++
	}
	result, ok := mulInt(q, p)
	if !ok {
		return Number{}, false
	}
	return Int(result), true
}

func less(a, b Number) bool {
	if a.IsInt() && b.IsInt() {
		return a.i < b.i
	}
	return a.Float64() < b.Float64()
}

func maxFn(args []Number) (Number, error) {
	best := args[0]
	for _, a := range args[1:] {
		if less(best, a) {
			best = a
		}
	}
	return best, nil
}

func minFn(args []Number) (Number, error) {
	best := args[0]
	for _, a := range args[1:] {
		if less(a, best) {
			best = a
		}
	}
	return best, nil
}

func factorial(args []Number) (Number, error) {
	a := args[0]
	if !a.IsInt() {
		return Number{}, evalErr("factorial() only accepts integral values")
	}
	if a.i < 0 {
		return Number{}, evalErr("factorial() not defined for negative values")
	}
	if a.i > 170 {
		return Number{}, evalErr("math range error")
	}
	result := int64(1)
	for k := int64(2); k <= a.i; k++ {
		r, ok := mulInt(result, k)
		if !ok {
			f := float64(result)
			for ; k <= a.i; k++ {
				f *= float64(k)
			}
			return Float(f), nil
		}
		result = r
	}
	return Int(result), nil
}

func gcd(args []Number) (Number, error) {
	var g int64
	for _, a := range args {
		if !a.IsInt() {
			return Number{}, evalErr("gcd() only accepts integers")
		}
		x := a.i
		if x < 0 {
			x = -x
		}
		for x != 0 {
			g, x = x, g%x
		}
	}
	return Int(g), nil
}
