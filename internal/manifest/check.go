package manifest

import (
	"fmt"

	"github.com/littletreezlx/learn-x/internal/ir"
	"github.com/littletreezlx/learn-x/internal/registry"
)

// Source lists registered methods. *registry.Registry implements it.
type Source interface {
	Methods(namespace string) ([]registry.Method, error)
}

// Mismatch is one difference between a manifest and a registry.
type Mismatch struct {
	Namespace string `json:"namespace"`
	Method    string `json:"method,omitempty"`
	Message   string `json:"message"`
	Line      int    `json:"line,omitempty"`
}

func (m Mismatch) String() string {
	target := m.Namespace
	if m.Method != "" {
		target += "." + m.Method
	}
	if m.Line > 0 {
		return fmt.Sprintf("line %d: %s: %s", m.Line, target, m.Message)
	}
	return target + ": " + m.Message
}

// Check compares every expected method with what src resolves to.
// Methods are matched by first name, the same rule Resolve applies, so a
// manifest cannot describe a shadowed duplicate. Mismatches come back in
// manifest order; nil means the registry satisfies the manifest.
func Check(m *Manifest, src Source) []Mismatch {
	var out []Mismatch

	for _, ns := range m.Namespaces {
		registered, err := src.Methods(ns.Name)
		if err != nil {
			out = append(out, Mismatch{
				Namespace: ns.Name,
				Message:   "namespace not registered",
				Line:      ns.Pos.Line(),
			})
			continue
		}

		for _, want := range ns.Methods {
			got, ok := firstByName(registered, want.Name)
			if !ok {
				out = append(out, Mismatch{
					Namespace: ns.Name,
					Method:    want.Name,
					Message:   "method not registered",
					Line:      want.Pos.Line(),
				})
				continue
			}

			wantSig := ir.Signature(ir.Describe(want.Params...))
			gotSig := ir.Signature(ir.Describe(got.Params...))
			if wantSig != gotSig {
				out = append(out, Mismatch{
					Namespace: ns.Name,
					Method:    want.Name,
					Message:   fmt.Sprintf("params: expected %s, registered %s", wantSig, gotSig),
					Line:      want.Pos.Line(),
				})
			}
			if want.Void != got.Void {
				out = append(out, Mismatch{
					Namespace: ns.Name,
					Method:    want.Name,
					Message:   fmt.Sprintf("returns: expected %s, registered %s", returnsName(want.Void), returnsName(got.Void)),
					Line:      want.Pos.Line(),
				})
			}
		}
	}
	return out
}

func firstByName(methods []registry.Method, name string) (registry.Method, bool) {
	for _, m := range methods {
		if m.Name == name {
			return m, true
		}
	}
	return registry.Method{}, false
}

func returnsName(void bool) string {
	if void {
		return ReturnsVoid
	}
	return ReturnsValue
}
