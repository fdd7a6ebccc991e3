package nodes

import "strings"

// Operand is a logical comparison kind. Each kind maps to a fixed SQL
// operator token via SQL.
type Operand int

const (
	OpEqual Operand = iota
	OpNotEqual
	OpLessThan
	OpLessThanOrEqual
	OpGreaterThan
	OpGreaterThanOrEqual
)

// Operator SQL strings for Operand values.
var operandSQL = [...]string{
	OpEqual:              "=",
	OpNotEqual:           "<>",
	OpLessThan:           "<",
	OpLessThanOrEqual:    "<=",
	OpGreaterThan:        ">",
	OpGreaterThanOrEqual: ">=",
}

var operandNames = [...]string{
	OpEqual:              "Equal",
	OpNotEqual:           "NotEqual",
	OpLessThan:           "LessThan",
	OpLessThanOrEqual:    "LessThanOrEqual",
	OpGreaterThan:        "GreaterThan",
	OpGreaterThanOrEqual: "GreaterThanOrEqual",
}

func (o Operand) valid() bool {
	return o >= 0 && int(o) < len(operandSQL)
}

// SQL returns the operator token, or "" for an unknown operand.
func (o Operand) SQL() string {
	if !o.valid() {
		return ""
	}
	return operandSQL[o]
}

func (o Operand) String() string {
	if !o.valid() {
		return "Operand(?)"
	}
	return operandNames[o]
}

// ParseOperand maps an operator token to its Operand. Besides the tokens
// returned by SQL it accepts "==" and "!=".
func ParseOperand(token string) (Operand, bool) {
	switch strings.TrimSpace(token) {
	case "=", "==":
		return OpEqual, true
	case "<>", "!=":
		return OpNotEqual, true
	case "<":
		return OpLessThan, true
	case "<=":
		return OpLessThanOrEqual, true
	case ">":
		return OpGreaterThan, true
	case ">=":
		return OpGreaterThanOrEqual, true
	}
	return 0, false
}

// Operands returns all operand kinds in declaration order.
func Operands() []Operand {
	out := make([]Operand, len(operandSQL))
	for i := range out {
		out[i] = Operand(i)
	}
	return out
}
