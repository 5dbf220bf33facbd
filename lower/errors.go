package lower

import (
	"fmt"

	"github.com/imzhenyu/rDSN.dist.service.flow/expr"
)

// UnsupportedExpressionError is raised when the pass encounters an expression
// node of a kind it does not translate.  The error is fatal: lowering of the
// entire graph is aborted and any partially built instruction maps must be
// considered invalid.
type UnsupportedExpressionError struct {
	// Kind is the kind tag of the offending node.
	Kind expr.Kind

	// Node is the offending node.  When the offense is a sub-structure (a
	// rejected member binding or element initializer), it is the enclosing
	// initializer node.
	Node expr.Expr
}

func (e *UnsupportedExpressionError) Error() string {
	if e.Node != nil {
		return fmt.Sprintf("unsupported expression kind %s: %s", e.Kind, e.Node.Repr())
	}

	return fmt.Sprintf("unsupported expression kind %s", e.Kind)
}

// MalformedNodeError is raised when a node is missing a required child.
type MalformedNodeError struct {
	Kind    expr.Kind
	Missing string
}

func (e *MalformedNodeError) Error() string {
	return fmt.Sprintf("malformed %s node: missing %s", e.Kind, e.Missing)
}

// -----------------------------------------------------------------------------

// unsupported raises an unsupported-expression error that aborts the walk of
// the current graph.
// NB: All raised errors must be caught by a deferred `catch`.
func unsupported(node expr.Expr) {
	panic(&UnsupportedExpressionError{Kind: node.Kind(), Node: node})
}

// unsupportedKind raises an unsupported-expression error for a kind tag that
// has no standalone node, such as a rejected member binding.
func unsupportedKind(kind expr.Kind, node expr.Expr) {
	panic(&UnsupportedExpressionError{Kind: kind, Node: node})
}

// malformed raises a malformed-node error.
func malformed(kind expr.Kind, missing string) {
	panic(&MalformedNodeError{Kind: kind, Missing: missing})
}

// catch recovers a raised lowering error into *err.  Any other panic value
// resumes unwinding.
func catch(err *error) {
	if x := recover(); x != nil {
		switch v := x.(type) {
		case *UnsupportedExpressionError:
			*err = v
		case *MalformedNodeError:
			*err = v
		default:
			panic(x)
		}
	}
}
