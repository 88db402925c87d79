package formula

import "fmt"

type node interface {
	eval(vars map[string]float64) (float64, error)
}

type numberNode struct {
	value float64
}

func (n *numberNode) eval(map[string]float64) (float64, error) {
	return n.value, nil
}

type variableNode struct {
	name string
}

func (n *variableNode) eval(vars map[string]float64) (float64, error) {
	value, ok := vars[n.name]
	if !ok {
		return 0, fmt.Errorf("%w: unknown variable %q", ErrInvalidFormula, n.name)
	}
	return value, nil
}

type unaryNode struct {
	operand node
}

func (n *unaryNode) eval(vars map[string]float64) (float64, error) {
	value, err := n.operand.eval(vars)
	if err != nil {
		return 0, err
	}
	return -value, nil
}

type binaryNode struct {
	op          byte
	left, right node
}

func (n *binaryNode) eval(vars map[string]float64) (float64, error) {
	left, err := n.left.eval(vars)
	if err != nil {
		return 0, err
	}
	right, err := n.right.eval(vars)
	if err != nil {
		return 0, err
	}
	switch n.op {
	case '+':
		return left + right, nil
	case '-':
		return left - right, nil
	case '*':
		return left * right, nil
	case '/':
		if right == 0 {
			return 0, errDivisionByZero
		}
		return left / right, nil
	default:
		return 0, fmt.Errorf("%w: unknown operator %q", ErrInvalidFormula, string(n.op))
	}
}

// variables collects every variable name referenced by the subtree.
func variables(n node, out map[string]struct{}) {
	switch v := n.(type) {
	case *variableNode:
		out[v.name] = struct{}{}
	case *unaryNode:
		variables(v.operand, out)
	case *binaryNode:
		variables(v.left, out)
		variables(v.right, out)
	}
}
