package graph

import "reflect"

// Symbol is the marker interface for vertex handles.  A lambda parameter
// whose static type implements Symbol denotes "handle to another vertex": a
// lambda whose first duty is routing between vertices rather than local
// computation.
type Symbol interface {
	SymbolHandle()
}

var symbolType = reflect.TypeOf((*Symbol)(nil)).Elem()

// IsSymbolType reports whether the given static type is a Symbol handle
// type.
func IsSymbolType(t reflect.Type) bool {
	return t != nil && t.Implements(symbolType)
}
