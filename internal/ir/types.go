package ir

import (
	"fmt"
	"strings"
)

// ParamType is the declared type of a callable parameter.
type ParamType int

const (
	// TypeString accepts the token as-is.
	TypeString ParamType = iota + 1
	// TypeInt is a 32-bit signed integer.
	TypeInt
	// TypeLong is a 64-bit signed integer.
	TypeLong
	// TypeDouble is a 64-bit float.
	TypeDouble
	// TypeFloat is a 32-bit float.
	TypeFloat
	// TypeBoolean is a lenient boolean (only "true" is true).
	TypeBoolean
)

var paramTypeNames = map[ParamType]string{
	TypeString:  "string",
	TypeInt:     "int",
	TypeLong:    "long",
	TypeDouble:  "double",
	TypeFloat:   "float",
	TypeBoolean: "boolean",
}

// String returns the lower-case type name used in listings and manifests.
func (t ParamType) String() string {
	if name, ok := paramTypeNames[t]; ok {
		return name
	}
	return fmt.Sprintf("ParamType(%d)", int(t))
}

// Valid reports whether t is one of the declared parameter types.
func (t ParamType) Valid() bool {
	_, ok := paramTypeNames[t]
	return ok
}

// ParseParamType parses a type name ("string", "int", ...). Matching is
// case-insensitive so manifests may use "String" or "INT".
func ParseParamType(name string) (ParamType, error) {
	lower := strings.ToLower(strings.TrimSpace(name))
	for t, n := range paramTypeNames {
		if n == lower {
			return t, nil
		}
	}
	return 0, fmt.Errorf("unknown parameter type %q", name)
}

// MarshalText implements encoding.TextMarshaler.
func (t ParamType) MarshalText() ([]byte, error) {
	if !t.Valid() {
		return nil, fmt.Errorf("invalid parameter type %d", int(t))
	}
	return []byte(t.String()), nil
}

// ParameterDescriptor describes one positional parameter of a callable.
type ParameterDescriptor struct {
	Position int       `json:"position"`
	Type     ParamType `json:"type"`
}

// Describe builds positional descriptors for the given types.
func Describe(types ...ParamType) []ParameterDescriptor {
	params := make([]ParameterDescriptor, len(types))
	for i, t := range types {
		params[i] = ParameterDescriptor{Position: i, Type: t}
	}
	return params
}

// Signature renders descriptors as "(string, int)".
func Signature(params []ParameterDescriptor) string {
	names := make([]string, len(params))
	for i, p := range params {
		names[i] = p.Type.String()
	}
	return "(" + strings.Join(names, ", ") + ")"
}

// InvocationRequest names a callable and carries its string-encoded arguments.
// Build it with NewRequest; the zero value is an empty request.
type InvocationRequest struct {
	Namespace string   `json:"namespace"`
	Method    string   `json:"method"`
	Args      []string `json:"args"`
}

// NewRequest creates a request owning a private copy of args.
func NewRequest(namespace, method string, args ...string) InvocationRequest {
	var argsCopy []string
	if len(args) > 0 {
		argsCopy = make([]string, len(args))
		copy(argsCopy, args)
	}
	return InvocationRequest{
		Namespace: namespace,
		Method:    method,
		Args:      argsCopy,
	}
}

// Target returns "namespace.method".
func (r InvocationRequest) Target() string {
	return r.Namespace + "." + r.Method
}
