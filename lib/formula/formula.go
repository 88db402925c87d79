// Package formula evaluates manager supplied scoring and penalty formulas.
package formula

import (
	"errors"
	"fmt"
)

// ErrInvalidFormula is returned when a formula can not be parsed or
// references a variable outside the allowed set.
var ErrInvalidFormula = errors.New("invalid formula")

// errDivisionByZero never leaves this package. A formula dividing by zero
// evaluates to 0, so one degenerate team can not break a whole scoreboard.
var errDivisionByZero = errors.New("division by zero")

// Evaluate parses formula and computes it against vars.
// Referencing a variable absent from vars is an ErrInvalidFormula.
// Division by zero yields 0 without an error.
func Evaluate(formula string, vars map[string]float64) (float64, error) {
	root, err := parse(formula)
	if err != nil {
		return 0, err
	}
	value, err := root.eval(vars)
	if err != nil {
		if errors.Is(err, errDivisionByZero) {
			return 0, nil
		}
		return 0, err
	}
	return value, nil
}

// Validate parses formula and checks that it only references allowed
// variable names. It is meant to run at scoreboard setting edit time.
func Validate(formula string, allowed []string) error {
	root, err := parse(formula)
	if err != nil {
		return err
	}

	allowedSet := make(map[string]struct{}, len(allowed))
	for _, name := range allowed {
		allowedSet[name] = struct{}{}
	}

	used := make(map[string]struct{})
	variables(root, used)
	for name := range used {
		if _, ok := allowedSet[name]; !ok {
			return fmt.Errorf("%w: variable %q is not allowed", ErrInvalidFormula, name)
		}
	}
	return nil
}
