// Package calculator evaluates the arithmetic expressions of aperture macros:
// numbers, $n variables, unary signs, + - x X / and parentheses.
package calculator

import (
	"errors"
	"fmt"
	"maps"
	"strconv"
	"strings"
)

var (
	ErrSyntax         = errors.New("calculator: syntax error")
	ErrUndefined      = errors.New("calculator: undefined variable")
	ErrDivisionByZero = errors.New("calculator: division by zero")
)

type OpCode int

const (
	Nop OpCode = iota
	Add OpCode = iota + 1
	Sub
	Mul
	Div
	Neg
	Plus
)

func (oc OpCode) String() string {
	switch oc {
	case Add, Plus:
		return "+ "
	case Sub, Neg:
		return "- "
	case Mul:
		return "x "
	case Div:
		return "/ "
	case Nop:
		return "<nop> "
	default:
		return "bad OpCode "
	}
}

type Stack struct {
	data []int
}

func NewStack() *Stack {
	return &Stack{}
}

func (stack *Stack) Push(val int) {
	stack.data = append(stack.data, val)
}

func (stack *Stack) Pop() (int, error) {
	slen := len(stack.data)
	if slen == 0 {
		return 0, errors.New("stack is empty")
	}
	retVal := stack.data[slen-1]
	stack.data = stack.data[:slen-1]
	return retVal, nil
}

func (stack *Stack) Len() int {
	return len(stack.data)
}

// CalcExpression evaluates an expression without variables.
func CalcExpression(str string) (float64, error) {
	return Eval(str, nil)
}

// Eval evaluates str. Variables are looked up in vars by their full name,
// e.g. "$1". vars is not modified.
//
// The innermost parenthesised sub-expression is evaluated first and replaced
// by a temporary "$$n" variable until nothing but that variable is left.
func Eval(str string, vars map[string]float64) (float64, error) {
	varStorage := make(map[string]float64, len(vars)+4)
	maps.Copy(varStorage, vars)

	src := str
	tempVarId := 0
	valName := ""
	str = "(" + str + ")"
	for {
		stack := NewStack()
		reduced := false
		for i := 0; i < len(str) && !reduced; i++ {
			switch str[i] {
			case '(':
				stack.Push(i)
			case ')':
				lPar, err := stack.Pop()
				if err != nil {
					return 0, fmt.Errorf("%w: unbalanced ')' in %q", ErrSyntax, src)
				}
				tf, err := TokenizeFormulae(str[lPar+1:i], varStorage)
				if err != nil {
					return 0, fmt.Errorf("%w in %q", err, src)
				}
				valName = "$$" + strconv.Itoa(tempVarId)
				tempVarId++
				varStorage[valName] = CalcTokenizedFormulae(tf)
				str = str[:lPar] + valName + str[i+1:]
				reduced = true
			}
		}
		if !reduced {
			return 0, fmt.Errorf("%w: unbalanced '(' in %q", ErrSyntax, src)
		}
		if str == valName {
			return varStorage[valName], nil
		}
	}
}

type TokenizedFormula struct {
	value     float64
	operation OpCode
}

func (tf *TokenizedFormula) String() string {
	return strconv.FormatFloat(tf.value, 'f', 10, 64) + " " + tf.operation.String()
}

// TokenizeFormulae turns a parenthesis free expression into a list of
// operands, each with the operation joining it to the next one.
// Subtraction is folded into addition of a negated operand and
// division into multiplication by the inverse.
func TokenizeFormulae(str string, varStorage map[string]float64) ([]TokenizedFormula, error) {
	retVal := make([]TokenizedFormula, 0)
	var (
		operand     strings.Builder
		unaryNeg    bool
		needNegNext bool
		needInvNext bool
	)
	flush := func(op OpCode) error {
		val, err := operandValue(operand.String(), varStorage)
		if err != nil {
			return err
		}
		if unaryNeg != needNegNext {
			val = -val
		}
		if needInvNext {
			if val == 0 {
				return ErrDivisionByZero
			}
			val = 1 / val
		}
		retVal = append(retVal, TokenizedFormula{val, op})
		operand.Reset()
		unaryNeg = false
		return nil
	}

	for i := 0; i < len(str); i++ {
		c := str[i]
		switch {
		case c == ' ' || c == '\t' || c == '\r' || c == '\n':
			continue
		case (c == '+' || c == '-') && operand.Len() == 0:
			if c == '-' {
				unaryNeg = !unaryNeg
			}
			continue
		case c == '+' || c == '-' || c == 'x' || c == 'X' || c == '/':
		default:
			operand.WriteByte(c)
			continue
		}
		op := Add
		if c == 'x' || c == 'X' || c == '/' {
			op = Mul
		}
		if err := flush(op); err != nil {
			return nil, err
		}
		needNegNext = c == '-'
		needInvNext = c == '/'
	}
	// last token ...
	if err := flush(Nop); err != nil {
		return nil, err
	}
	return retVal, nil
}

func operandValue(s string, varStorage map[string]float64) (float64, error) {
	if len(s) == 0 {
		return 0, fmt.Errorf("%w: missing operand", ErrSyntax)
	}
	if s[0] == '$' {
		val, ok := varStorage[s]
		if !ok {
			return 0, fmt.Errorf("%w %s", ErrUndefined, s)
		}
		return val, nil
	}
	val, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, fmt.Errorf("%w: bad number %q", ErrSyntax, s)
	}
	return val, nil
}

// CalcTokenizedFormulae sums the products of consecutive Mul-joined operands.
func CalcTokenizedFormulae(tf []TokenizedFormula) float64 {
	retVal := 0.0
	mulVal := 1.0
	for i := range tf {
		mulVal *= tf[i].value
		if tf[i].operation != Mul {
			retVal += mulVal
			mulVal = 1.0
		}
	}
	return retVal
}
