package mruntime

import (
	"github.com/gosuda/minic/ast"
)

func (vm *VM) evalExpr(e ast.Expr) (Value, error) {
	switch ex := e.(type) {
	case ast.IntLit:
		return Int(ex.Value), nil
	case ast.Ident:
		return vm.getVar(ex.Name)
	case ast.BinaryExpr:
		left, err := vm.evalExpr(ex.Left)
		if err != nil {
			return Value{}, err
		}
		right, err := vm.evalExpr(ex.Right)
		if err != nil {
			return Value{}, err
		}
		return evalBinary(ex.Op, left, right)
	case ast.CallExpr:
		// input is matched by name before user functions; its arguments
		// are never evaluated.
		if ex.Name == "input" {
			return vm.readInteger(InputRequest{})
		}
		return vm.callFunction(ex.Name, ex.Args)
	default:
		return Value{}, errorf(UnknownNodeKind, "unknown expression %T", e)
	}
}

func evalBinary(op string, left, right Value) (Value, error) {
	l, r := left.Int64(), right.Int64()
	switch op {
	case "+":
		return Int(l + r), nil
	case "-":
		return Int(l - r), nil
	case "*":
		return Int(l * r), nil
	case "/":
		if r == 0 {
			return Value{}, errorf(DivisionByZero, "division by zero")
		}
		return Int(floorDiv(l, r)), nil
	case "==":
		return Bool(l == r), nil
	case "!=":
		return Bool(l != r), nil
	case "<":
		return Bool(l < r), nil
	case "<=":
		return Bool(l <= r), nil
	case ">":
		return Bool(l > r), nil
	case ">=":
		return Bool(l >= r), nil
	default:
		return Value{}, errorf(UnknownNodeKind, "unknown operator %q", op)
	}
}

// floorDiv rounds toward negative infinity: -7 / 2 == -4.
func floorDiv(a, b int64) int64 {
	q := a / b
	if a%b != 0 && (a < 0) != (b < 0) {
		q--
	}
	return q
}
