package manifest

import (
	"fmt"
	"os"

	"cuelang.org/go/cue"
	"cuelang.org/go/cue/cuecontext"
	cueerrors "cuelang.org/go/cue/errors"
	"cuelang.org/go/cue/token"

	"github.com/littletreezlx/learn-x/internal/ir"
)

// Return kinds accepted in a method's returns field.
const (
	ReturnsValue = "value"
	ReturnsVoid  = "void"
)

// schema is unified with every manifest before it is read.
const schema = `
#Method: {
	params:  *[] | [...string]
	returns: *"value" | "void"
}

namespace: [string]: method: [string]: #Method
`

// Manifest is the expected surface of a host, in declaration order.
type Manifest struct {
	Source     string
	Namespaces []Namespace
}

// Namespace is one expected namespace.
type Namespace struct {
	Name    string
	Methods []Method
	Pos     token.Pos
}

// Method is one expected method signature.
type Method struct {
	Name   string
	Params []ir.ParamType
	Void   bool
	Pos    token.Pos
}

// Signature renders "name(type, ...)" like registry.Handle.Signature.
func (m Method) Signature() string {
	return m.Name + ir.Signature(ir.Describe(m.Params...))
}

// MethodCount returns the number of methods across all namespaces.
func (m *Manifest) MethodCount() int {
	n := 0
	for _, ns := range m.Namespaces {
		n += len(ns.Methods)
	}
	return n
}

// Load reads and parses the manifest file at path.
func Load(path string) (*Manifest, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read manifest: %w", err)
	}
	return ParseBytes(path, data)
}

// ParseBytes compiles data as CUE and parses it. filename is used in
// error positions.
func ParseBytes(filename string, data []byte) (*Manifest, error) {
	ctx := cuecontext.New()

	v := ctx.CompileBytes(data, cue.Filename(filename))
	if err := v.Err(); err != nil {
		return nil, formatCUEError(err)
	}

	m, err := Parse(v)
	if err != nil {
		return nil, err
	}
	m.Source = filename
	return m, nil
}

// Parse reads a manifest out of an already compiled CUE value. The value is
// unified with the manifest schema; positions are taken from v itself.
func Parse(v cue.Value) (*Manifest, error) {
	s := v.Context().CompileString(schema, cue.Filename("manifest-schema.cue"))
	if err := s.Err(); err != nil {
		return nil, formatCUEError(err)
	}
	u := s.Unify(v)
	if err := u.Validate(); err != nil {
		return nil, formatCUEError(err)
	}

	m := &Manifest{}

	nsVal := v.LookupPath(cue.ParsePath("namespace"))
	if !nsVal.Exists() {
		return nil, &Error{
			Field:   "namespace",
			Message: "at least one namespace is required",
			Pos:     v.Pos(),
		}
	}

	iter, err := nsVal.Fields()
	if err != nil {
		return nil, formatCUEError(err)
	}
	for iter.Next() {
		sel := iter.Selector()
		if !sel.IsString() {
			continue
		}
		ns, err := parseNamespace(u, sel.Unquoted(), iter.Value())
		if err != nil {
			return nil, err
		}
		m.Namespaces = append(m.Namespaces, ns)
	}

	if len(m.Namespaces) == 0 {
		return nil, &Error{
			Field:   "namespace",
			Message: "at least one namespace is required",
			Pos:     nsVal.Pos(),
		}
	}
	return m, nil
}

func parseNamespace(u cue.Value, name string, v cue.Value) (Namespace, error) {
	ns := Namespace{Name: name, Pos: fieldPos(v, "method")}

	methodsVal := v.LookupPath(cue.ParsePath("method"))
	if !methodsVal.Exists() {
		return ns, nil
	}

	iter, err := methodsVal.Fields()
	if err != nil {
		return ns, formatCUEError(err)
	}
	for iter.Next() {
		sel := iter.Selector()
		if !sel.IsString() {
			continue
		}
		method := Method{Name: sel.Unquoted(), Pos: fieldPos(iter.Value(), "params", "returns")}
		resolved := u.LookupPath(cue.MakePath(cue.Str("namespace"), cue.Str(name), cue.Str("method"), cue.Str(method.Name)))
		if err := parseMethod(&method, "namespace."+name+".method."+method.Name, resolved); err != nil {
			return ns, err
		}
		ns.Methods = append(ns.Methods, method)
	}
	return ns, nil
}

// parseMethod fills params and returns from the schema-unified value v,
// where absent fields already carry their defaults.
func parseMethod(method *Method, field string, v cue.Value) error {
	paramsVal, _ := v.LookupPath(cue.ParsePath("params")).Default()
	list, err := paramsVal.List()
	if err != nil {
		return &Error{Field: field + ".params", Message: "params must be a list of type names", Pos: method.Pos}
	}
	for list.Next() {
		typeName, err := list.Value().String()
		if err != nil {
			return &Error{Field: field + ".params", Message: "parameter type must be a string", Pos: method.Pos}
		}
		t, err := ir.ParseParamType(typeName)
		if err != nil {
			return &Error{Field: field + ".params", Message: err.Error(), Pos: method.Pos}
		}
		method.Params = append(method.Params, t)
	}

	returnsVal, _ := v.LookupPath(cue.ParsePath("returns")).Default()
	returns, err := returnsVal.String()
	if err != nil {
		return &Error{Field: field + ".returns", Message: `returns must be "value" or "void"`, Pos: method.Pos}
	}
	method.Void = returns == ReturnsVoid
	return nil
}

// fieldPos returns v's position, falling back to the first of its named
// fields that has one. Shorthand fields such as `f: params: [...]` carry no
// position of their own.
func fieldPos(v cue.Value, fields ...string) token.Pos {
	if p := v.Pos(); p.IsValid() {
		return p
	}
	for _, f := range fields {
		if p := v.LookupPath(cue.ParsePath(f)).Pos(); p.IsValid() {
			return p
		}
	}
	return token.NoPos
}

// Error is a manifest load error with source position.
type Error struct {
	Field   string
	Message string
	Pos     token.Pos
}

func (e *Error) Error() string {
	if e.Pos.IsValid() {
		return fmt.Sprintf("%s:%d:%d: %s: %s",
			e.Pos.Filename(), e.Pos.Line(), e.Pos.Column(),
			e.Field, e.Message)
	}
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

// formatCUEError extracts position info from CUE errors.
func formatCUEError(err error) error {
	if err == nil {
		return nil
	}

	errs := cueerrors.Errors(err)
	if len(errs) == 0 {
		return err
	}

	first := errs[0]
	positions := cueerrors.Positions(first)
	if len(positions) > 0 {
		return &Error{
			Field:   "cue",
			Message: first.Error(),
			Pos:     positions[0],
		}
	}
	return &Error{Field: "cue", Message: first.Error()}
}
