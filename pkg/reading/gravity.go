package reading

import (
	"fmt"
	"math"
	"strings"

	"github.com/expr-lang/expr"
	"github.com/expr-lang/expr/vm"
)

// Calculator evaluates a user-supplied calibration polynomial mapping tilt
// angle and temperature to specific gravity. The expression is determined
// experimentally per physical device and arrives as an opaque config string,
// e.g. "0.5013885598189161 + 0.019948730468857152*tilt".
type Calculator struct {
	src     string
	program *vm.Program
}

type gravityEnv struct {
	Tilt float64 `expr:"tilt"`
	Temp float64 `expr:"temp"`
}

// NewCalculator compiles a polynomial with tilt and temp as the free
// variables. A compile error carries the offending position in its message;
// callers log it and carry on without gravity.
func NewCalculator(polynomial string) (*Calculator, error) {
	src := strings.TrimSpace(polynomial)
	if src == "" {
		return nil, fmt.Errorf("empty polynomial")
	}
	program, err := expr.Compile(src, expr.Env(gravityEnv{}), expr.AsFloat64())
	if err != nil {
		return nil, fmt.Errorf("compile polynomial: %w", err)
	}
	return &Calculator{src: src, program: program}, nil
}

// Evaluate computes gravity for a tilt/temp pair, rounded to three decimal
// places half away from zero.
func (c *Calculator) Evaluate(tilt, temp float64) (float64, error) {
	out, err := expr.Run(c.program, gravityEnv{Tilt: tilt, Temp: temp})
	if err != nil {
		return 0, fmt.Errorf("evaluate polynomial: %w", err)
	}
	g, ok := out.(float64)
	if !ok {
		return 0, fmt.Errorf("polynomial returned %T, want float64", out)
	}
	return Round3(g), nil
}

// String returns the source expression, for logs.
func (c *Calculator) String() string { return c.src }

// Round3 rounds to three decimal places, half away from zero.
func Round3(v float64) float64 {
	return math.Round(v*1000) / 1000
}
