package coerce

import (
	"errors"
	"fmt"
	"math"
	"strconv"
	"strings"

	"golang.org/x/text/cases"

	"github.com/littletreezlx/learn-x/internal/ir"
)

// ErrorKind categorizes coercion failures.
type ErrorKind string

// NotANumber indicates a numeric target received a non-numeric or
// out-of-range token.
const NotANumber ErrorKind = "NOT_A_NUMBER"

// Error reports a token that could not be converted to its target type.
type Error struct {
	Kind ErrorKind
	// Token is the offending input.
	Token string
	// Type is the declared target type.
	Type ir.ParamType
	// Position is the argument index, or -1 when coercing a lone token.
	Position int
	// Err is the underlying parse error.
	Err error
}

// Error implements the error interface.
func (e *Error) Error() string {
	if e.Position >= 0 {
		return fmt.Sprintf("%s: argument %d: cannot convert %q to %s", e.Kind, e.Position, e.Token, e.Type)
	}
	return fmt.Sprintf("%s: cannot convert %q to %s", e.Kind, e.Token, e.Type)
}

// Unwrap returns the underlying parse error.
func (e *Error) Unwrap() error {
	return e.Err
}

// IsNotANumber reports whether err is a NotANumber coercion error.
// Uses errors.As to handle wrapped errors.
func IsNotANumber(err error) bool {
	var ce *Error
	if errors.As(err, &ce) {
		return ce.Kind == NotANumber
	}
	return false
}

// Coerce converts token into a value of type t.
//
// Result types: string, int32 (Int), int64 (Long), float64 (Double),
// float32 (Float), bool (Boolean).
func Coerce(token string, t ir.ParamType) (any, error) {
	switch t {
	case ir.TypeString:
		return token, nil

	case ir.TypeInt:
		n, err := strconv.ParseInt(token, 10, 32)
		if err != nil {
			return nil, notANumber(token, t, err)
		}
		return int32(n), nil

	case ir.TypeLong:
		n, err := strconv.ParseInt(token, 10, 64)
		if err != nil {
			return nil, notANumber(token, t, err)
		}
		return n, nil

	case ir.TypeDouble:
		f, err := parseFloat(token, 64)
		if err != nil {
			return nil, notANumber(token, t, err)
		}
		return f, nil

	case ir.TypeFloat:
		f, err := parseFloat(token, 32)
		if err != nil {
			return nil, notANumber(token, t, err)
		}
		return float32(f), nil

	case ir.TypeBoolean:
		return parseBool(token), nil

	default:
		return nil, fmt.Errorf("unsupported parameter type %s", t)
	}
}

// Zero returns the value used for a declared parameter with no token.
func Zero(t ir.ParamType) any {
	switch t {
	case ir.TypeString:
		return ""
	case ir.TypeInt:
		return int32(0)
	case ir.TypeLong:
		return int64(0)
	case ir.TypeDouble:
		return float64(0)
	case ir.TypeFloat:
		return float32(0)
	case ir.TypeBoolean:
		return false
	default:
		return nil
	}
}

// Args coerces tokens positionally against params.
//
// Tokens beyond len(params) are ignored; params beyond len(tokens) get
// Zero. The first failing position is returned as an *Error with its
// Position set; later positions are not examined.
func Args(tokens []string, params []ir.ParameterDescriptor) ([]any, error) {
	values := make([]any, len(params))
	for i, p := range params {
		if i >= len(tokens) {
			values[i] = Zero(p.Type)
			continue
		}
		v, err := Coerce(tokens[i], p.Type)
		if err != nil {
			var ce *Error
			if errors.As(err, &ce) {
				ce.Position = i
				return nil, ce
			}
			return nil, fmt.Errorf("argument %d: %w", i, err)
		}
		values[i] = v
	}
	return values, nil
}

// parseFloat parses a decimal floating-point token. Surrounding control
// and space characters are trimmed and one trailing f, F, d or D type
// suffix is allowed. The only non-numeric spellings accepted are an
// optionally signed "NaN" and "Infinity"; strconv's "inf", "nan" and
// digit underscores are rejected. Overflow saturates to ±Inf.
func parseFloat(token string, bitSize int) (float64, error) {
	s := strings.TrimFunc(token, func(r rune) bool { return r <= ' ' })

	body, negative := s, false
	if body != "" && (body[0] == '+' || body[0] == '-') {
		negative = body[0] == '-'
		body = body[1:]
	}

	switch body {
	case "NaN":
		return math.NaN(), nil
	case "Infinity":
		if negative {
			return math.Inf(-1), nil
		}
		return math.Inf(1), nil
	}

	lower := strings.ToLower(body)
	if strings.Contains(lower, "inf") || strings.Contains(lower, "nan") || strings.Contains(body, "_") {
		return 0, strconv.ErrSyntax
	}
	if n := len(s); n > 1 && strings.IndexByte("fFdD", s[n-1]) >= 0 {
		s = s[:n-1]
	}

	f, err := strconv.ParseFloat(s, bitSize)
	if err != nil && errors.Is(err, strconv.ErrRange) {
		return f, nil
	}
	return f, err
}

func parseBool(token string) bool {
	// Caser is stateful, so one per call.
	return cases.Fold().String(token) == "true"
}

func notANumber(token string, t ir.ParamType, err error) *Error {
	return &Error{Kind: NotANumber, Token: token, Type: t, Position: -1, Err: err}
}
