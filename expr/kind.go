package expr

// Kind identifies the kind of an expression node.  The kind of an operator
// application node is the operator itself: eg. a binary addition node has kind
// Add, not some generic "binary" kind.
type Kind int

// Enumeration of expression kinds.
const (
	// Leaf and structural kinds.
	KindParameter Kind = iota
	KindConstant
	KindMemberAccess
	KindConditional
	KindCall
	KindNew
	KindNewArrayInit
	KindNewArrayBounds
	KindMemberInit
	KindListInit
	KindLambda
	KindIndex

	// Binary operator kinds.
	KindAdd
	KindSubtract
	KindMultiply
	KindDivide
	KindModulo
	KindPower
	KindAnd
	KindOr
	KindExclusiveOr
	KindLeftShift
	KindRightShift
	KindAndAlso
	KindOrElse
	KindEqual
	KindNotEqual
	KindLessThan
	KindLessThanOrEqual
	KindGreaterThan
	KindGreaterThanOrEqual
	KindArrayIndex
	KindAssign
	KindAddAssign
	KindSubtractAssign
	KindMultiplyAssign
	KindDivideAssign
	KindModuloAssign
	KindPowerAssign
	KindAndAssign
	KindOrAssign
	KindExclusiveOrAssign
	KindLeftShiftAssign
	KindRightShiftAssign

	// Unary operator kinds.
	KindNegate
	KindNegateChecked
	KindUnaryPlus
	KindNot
	KindOnesComplement
	KindIncrement
	KindDecrement
	KindPreIncrementAssign
	KindPreDecrementAssign
	KindPostIncrementAssign
	KindPostDecrementAssign
	KindConvert
	KindConvertChecked
	KindTypeAs
	KindQuote

	// Kinds the lowering pass rejects.  The frontend schema admits them so
	// that rejection can be reported with the real kind tag.
	KindBlock
	KindSwitch
	KindLoop
	KindGoto
	KindLabel
	KindTry
	KindTypeIs
	KindInvoke
	KindDynamic
	KindDebugInfo
	KindDefault
	KindElementInit
)

// Table of kind names.
var kindNames = []string{
	"Parameter",
	"Constant",
	"MemberAccess",
	"Conditional",
	"Call",
	"New",
	"NewArrayInit",
	"NewArrayBounds",
	"MemberInit",
	"ListInit",
	"Lambda",
	"Index",

	"Add",
	"Subtract",
	"Multiply",
	"Divide",
	"Modulo",
	"Power",
	"And",
	"Or",
	"ExclusiveOr",
	"LeftShift",
	"RightShift",
	"AndAlso",
	"OrElse",
	"Equal",
	"NotEqual",
	"LessThan",
	"LessThanOrEqual",
	"GreaterThan",
	"GreaterThanOrEqual",
	"ArrayIndex",
	"Assign",
	"AddAssign",
	"SubtractAssign",
	"MultiplyAssign",
	"DivideAssign",
	"ModuloAssign",
	"PowerAssign",
	"AndAssign",
	"OrAssign",
	"ExclusiveOrAssign",
	"LeftShiftAssign",
	"RightShiftAssign",

	"Negate",
	"NegateChecked",
	"UnaryPlus",
	"Not",
	"OnesComplement",
	"Increment",
	"Decrement",
	"PreIncrementAssign",
	"PreDecrementAssign",
	"PostIncrementAssign",
	"PostDecrementAssign",
	"Convert",
	"ConvertChecked",
	"TypeAs",
	"Quote",

	"Block",
	"Switch",
	"Loop",
	"Goto",
	"Label",
	"Try",
	"TypeIs",
	"Invoke",
	"Dynamic",
	"DebugInfo",
	"Default",
	"ElementInit",
}

func (k Kind) String() string {
	if 0 <= int(k) && int(k) < len(kindNames) {
		return kindNames[k]
	}

	return "Unknown"
}
