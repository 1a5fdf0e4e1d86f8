package hello

import (
	"context"
	"errors"

	"github.com/littletreezlx/learn-x/internal/ir"
	"github.com/littletreezlx/learn-x/internal/registry"
)

// CalculatorNamespace is the namespace of CalculatorMethods.
const CalculatorNamespace = "com.example.Calculator"

// ErrDivideByZero is returned by divide when the divisor is zero.
var ErrDivideByZero = errors.New("division by zero")

// CalculatorMethods returns com.example.Calculator's callables.
func CalculatorMethods() []registry.Method {
	return []registry.Method{
		{
			Name:   "add",
			Params: []ir.ParamType{ir.TypeLong, ir.TypeLong},
			Call: func(_ context.Context, args []any) (any, error) {
				return args[0].(int64) + args[1].(int64), nil
			},
		},
		{
			Name:   "divide",
			Params: []ir.ParamType{ir.TypeDouble, ir.TypeDouble},
			Call: func(_ context.Context, args []any) (any, error) {
				divisor := args[1].(float64)
				if divisor == 0 {
					return nil, ErrDivideByZero
				}
				return args[0].(float64) / divisor, nil
			},
		},
		{
			Name:   "scale",
			Params: []ir.ParamType{ir.TypeFloat, ir.TypeInt},
			Call: func(_ context.Context, args []any) (any, error) {
				return args[0].(float32) * float32(args[1].(int32)), nil
			},
		},
		{
			Name:   "negate",
			Params: []ir.ParamType{ir.TypeBoolean},
			Call: func(_ context.Context, args []any) (any, error) {
				return !args[0].(bool), nil
			},
		},
		{
			Name: "crash",
			Call: func(context.Context, []any) (any, error) {
				panic("calculator: crash requested")
			},
		},
	}
}
