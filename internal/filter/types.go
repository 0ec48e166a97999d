package filter

// Logic operators for combining condition masks
const (
	LogicAnd = "AND"
	LogicOr  = "OR"
)

// Operand type tags
const (
	OperandColumn    = "column"
	OperandIndicator = "indicator"
	OperandConstant  = "constant"
)

// Condition count bounds for a single expression
const (
	MinConditions = 1
	MaxConditions = 50
)

// Expression is a parsed filter: a single logic operator over a flat list
// of conditions. The grammar is deliberately flat; nested boolean sub-trees
// are not part of it.
type Expression struct {
	Logic      string      `json:"logic"`
	Conditions []Condition `json:"conditions"`
}

// Condition compares two operands with a single comparison operator
type Condition struct {
	Left     Operand `json:"left"`
	Operator string  `json:"operator"` // ">", "<", ">=", "<=", "==", "!="
	Right    Operand `json:"right"`
}

// Operand is a tagged union over the three operand variants, selected by
// Type. Required fields differ per variant:
//   - column: Name (dataset column), optional Offset
//   - indicator: Name (indicator), Column (source column), Params, optional Offset
//   - constant: Value
//
// Offset counts rows into the past within the operand's symbol group:
// offset N resolves row i to the value at row i-N. Rows without N
// predecessors in their group resolve as unavailable.
type Operand struct {
	Type   string    `json:"type"`
	Name   string    `json:"name,omitempty"`
	Column string    `json:"column,omitempty"`
	Params []float64 `json:"params,omitempty"`
	Offset int       `json:"offset,omitempty"`
	Value  float64   `json:"value,omitempty"`
}

// IsConstant reports whether the operand is the constant variant
func (o *Operand) IsConstant() bool {
	return o.Type == OperandConstant
}

// validOperators is the full set of supported comparison operators
var validOperators = map[string]bool{
	">":  true,
	"<":  true,
	">=": true,
	"<=": true,
	"==": true,
	"!=": true,
}

// ValidOperator reports whether op is a supported comparison operator
func ValidOperator(op string) bool {
	return validOperators[op]
}

// ValidLogic reports whether logic is a supported combination operator
func ValidLogic(logic string) bool {
	return logic == LogicAnd || logic == LogicOr
}
