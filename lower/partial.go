package lower

import (
	"reflect"

	"github.com/imzhenyu/rDSN.dist.service.flow/expr"
)

// evalClosed partially evaluates a closed member access: a member read that
// does not depend on any lambda parameter.  The member is resolved against
// the node's captured owner value by reflection, trying an exported field
// first and then a nullary method.
//
// This is the only point at which the pass runs user-reachable code.  Any
// panic raised by that code is swallowed here: a failed evaluation reports as
// an unsupported expression at the call site, never as an evaluation error.
func evalClosed(m *expr.Member) (val interface{}, ok bool) {
	defer func() {
		if recover() != nil {
			val, ok = nil, false
		}
	}()

	owner := m.Static
	if !owner.IsValid() {
		return nil, false
	}

	if f := fieldByName(owner, m.Name); f.IsValid() && f.CanInterface() {
		return f.Interface(), true
	}

	if meth := owner.MethodByName(m.Name); meth.IsValid() {
		if meth.Type().NumIn() != 0 || meth.Type().NumOut() == 0 {
			return nil, false
		}

		return meth.Call(nil)[0].Interface(), true
	}

	return nil, false
}

// fieldByName resolves a struct field through any pointer indirections.  The
// zero Value is returned when the owner is not a struct or has no such
// field.
func fieldByName(owner reflect.Value, name string) reflect.Value {
	for owner.Kind() == reflect.Ptr {
		if owner.IsNil() {
			return reflect.Value{}
		}

		owner = owner.Elem()
	}

	if owner.Kind() != reflect.Struct {
		return reflect.Value{}
	}

	return owner.FieldByName(name)
}
