// Package registry maps (namespace, method) names to invocable handles.
//
// The registry is populated at startup and replaces run-time type
// introspection: each namespace lists its callables explicitly, in
// registration order, with declared parameter types.
//
// Resolution semantics:
//   - unknown namespace is ClassNotFound
//   - the FIRST method whose name matches wins; there is no overload
//     disambiguation by arity or parameter types
//   - unknown method in a known namespace is MethodNotFound
//
// Thread-safety: Registry is safe for concurrent use. Resolve takes a read
// lock, Register takes a write lock.
package registry

import (
	"context"
	"errors"
	"fmt"
	"slices"
	"sync"

	"github.com/littletreezlx/learn-x/internal/ir"
)

// Callable is the behavior behind a method. Args arrive already coerced,
// one value per declared parameter.
type Callable func(ctx context.Context, args []any) (any, error)

// Method declares one named callable of a namespace.
type Method struct {
	Name   string
	Params []ir.ParamType
	// Void marks callables whose result is discarded.
	Void bool
	Call Callable
}

// Handle is a resolved, invocable reference to a method.
// Handles are built per Resolve call and are never cached.
type Handle struct {
	Namespace string
	Method    string
	Params    []ir.ParameterDescriptor
	Void      bool
	call      Callable
}

// Invoke runs the callable with coerced arguments.
func (h *Handle) Invoke(ctx context.Context, args []any) (any, error) {
	return h.call(ctx, args)
}

// Signature renders "name(type, ...)".
func (h *Handle) Signature() string {
	return h.Method + ir.Signature(h.Params)
}

// Registry holds namespaces and their methods in registration order.
type Registry struct {
	mu         sync.RWMutex
	namespaces map[string][]Method
}

// New creates an empty registry.
func New() *Registry {
	return &Registry{namespaces: make(map[string][]Method)}
}

// Register appends methods to namespace, creating it if needed.
//
// Duplicate method names are accepted; Resolve returns the earliest one.
// Validation is all-or-nothing: on error nothing is registered.
func (r *Registry) Register(namespace string, methods ...Method) error {
	if namespace == "" {
		return fmt.Errorf("namespace is required")
	}
	for i, m := range methods {
		if m.Name == "" {
			return fmt.Errorf("namespace %s: method %d: name is required", namespace, i)
		}
		if m.Call == nil {
			return fmt.Errorf("namespace %s: method %s: callable is required", namespace, m.Name)
		}
		for pos, pt := range m.Params {
			if !pt.Valid() {
				return fmt.Errorf("namespace %s: method %s: parameter %d: invalid type %s", namespace, m.Name, pos, pt)
			}
		}
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	for _, m := range methods {
		// Copy params to prevent external mutation of registered signatures.
		m.Params = slices.Clone(m.Params)
		r.namespaces[namespace] = append(r.namespaces[namespace], m)
	}
	if _, ok := r.namespaces[namespace]; !ok {
		r.namespaces[namespace] = nil
	}
	return nil
}

// Resolve returns a fresh handle for the first method named method in
// namespace.
func (r *Registry) Resolve(namespace, method string) (*Handle, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	methods, ok := r.namespaces[namespace]
	if !ok {
		return nil, newClassNotFound(namespace)
	}

	for _, m := range methods {
		if m.Name == method {
			return &Handle{
				Namespace: namespace,
				Method:    m.Name,
				Params:    ir.Describe(m.Params...),
				Void:      m.Void,
				call:      m.Call,
			}, nil
		}
	}
	return nil, newMethodNotFound(namespace, method)
}

// Namespaces returns registered namespace names in sorted order.
func (r *Registry) Namespaces() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()

	names := make([]string, 0, len(r.namespaces))
	for ns := range r.namespaces {
		names = append(names, ns)
	}
	slices.Sort(names)
	return names
}

// Methods returns the methods of namespace in registration order.
// The returned slice is a copy.
func (r *Registry) Methods(namespace string) ([]Method, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	methods, ok := r.namespaces[namespace]
	if !ok {
		return nil, newClassNotFound(namespace)
	}
	out := make([]Method, len(methods))
	for i, m := range methods {
		m.Params = slices.Clone(m.Params)
		out[i] = m
	}
	return out, nil
}

// ErrorKind categorizes resolution failures.
type ErrorKind string

const (
	// ClassNotFound indicates no namespace with the given name.
	ClassNotFound ErrorKind = "CLASS_NOT_FOUND"

	// MethodNotFound indicates the namespace exposes no method with the name.
	MethodNotFound ErrorKind = "METHOD_NOT_FOUND"
)

// Error is returned by Resolve and Methods.
type Error struct {
	Kind      ErrorKind
	Namespace string
	Method    string
}

// Error implements the error interface.
func (e *Error) Error() string {
	if e.Kind == MethodNotFound {
		return fmt.Sprintf("method not found: %s (namespace %s)", e.Method, e.Namespace)
	}
	return fmt.Sprintf("class not found: %s", e.Namespace)
}

// IsClassNotFound reports whether err is a ClassNotFound resolution error.
func IsClassNotFound(err error) bool {
	var re *Error
	if errors.As(err, &re) {
		return re.Kind == ClassNotFound
	}
	return false
}

// IsMethodNotFound reports whether err is a MethodNotFound resolution error.
func IsMethodNotFound(err error) bool {
	var re *Error
	if errors.As(err, &re) {
		return re.Kind == MethodNotFound
	}
	return false
}

func newClassNotFound(namespace string) *Error {
	return &Error{Kind: ClassNotFound, Namespace: namespace}
}

func newMethodNotFound(namespace, method string) *Error {
	return &Error{Kind: MethodNotFound, Namespace: namespace, Method: method}
}
