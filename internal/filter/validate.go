package filter

import (
	"encoding/json"
	"fmt"
	"math"
)

// Diagnostic describes a single schema violation, tagged with the JSON
// path of the offending field (e.g. "conditions[2].left.name")
type Diagnostic struct {
	Path    string `json:"path"`
	Message string `json:"message"`
}

func (d Diagnostic) String() string {
	if d.Path == "" {
		return d.Message
	}
	return fmt.Sprintf("%s: %s", d.Path, d.Message)
}

// Validate checks a filter document against the grammar and decodes it.
// It collects every violation found rather than stopping at the first one;
// the expression is non-nil only when the diagnostics slice is empty.
// Validate is pure: it never touches a dataset or an indicator provider.
func Validate(data []byte) (*Expression, []Diagnostic) {
	var diags []Diagnostic

	var top map[string]json.RawMessage
	if err := json.Unmarshal(data, &top); err != nil {
		return nil, []Diagnostic{{Path: "", Message: "filter must be a JSON object"}}
	}

	diags = append(diags, validateLogic(top)...)
	diags = append(diags, validateConditions(top)...)

	if len(diags) > 0 {
		return nil, diags
	}

	var expr Expression
	if err := json.Unmarshal(data, &expr); err != nil {
		// Field types were already checked above; a decode failure here
		// indicates a gap in the walker, surfaced as a diagnostic rather
		// than a panic.
		return nil, []Diagnostic{{Path: "", Message: fmt.Sprintf("failed to decode filter: %v", err)}}
	}

	return &expr, nil
}

func validateLogic(top map[string]json.RawMessage) []Diagnostic {
	raw, ok := top["logic"]
	if !ok {
		return []Diagnostic{{Path: "logic", Message: "required field is missing"}}
	}

	var logic string
	if err := json.Unmarshal(raw, &logic); err != nil {
		return []Diagnostic{{Path: "logic", Message: "must be a string"}}
	}
	if !ValidLogic(logic) {
		return []Diagnostic{{
			Path:    "logic",
			Message: fmt.Sprintf("unsupported logic %q (supported: %s, %s)", logic, LogicAnd, LogicOr),
		}}
	}
	return nil
}

func validateConditions(top map[string]json.RawMessage) []Diagnostic {
	raw, ok := top["conditions"]
	if !ok {
		return []Diagnostic{{Path: "conditions", Message: "required field is missing"}}
	}

	var conds []json.RawMessage
	if err := json.Unmarshal(raw, &conds); err != nil {
		return []Diagnostic{{Path: "conditions", Message: "must be an array"}}
	}
	if len(conds) < MinConditions || len(conds) > MaxConditions {
		return []Diagnostic{{
			Path:    "conditions",
			Message: fmt.Sprintf("must contain between %d and %d conditions, got %d", MinConditions, MaxConditions, len(conds)),
		}}
	}

	var diags []Diagnostic
	for i, rawCond := range conds {
		diags = append(diags, validateCondition(rawCond, fmt.Sprintf("conditions[%d]", i))...)
	}
	return diags
}

func validateCondition(raw json.RawMessage, path string) []Diagnostic {
	var cond map[string]json.RawMessage
	if err := json.Unmarshal(raw, &cond); err != nil {
		return []Diagnostic{{Path: path, Message: "must be an object"}}
	}

	var diags []Diagnostic

	if rawOp, ok := cond["operator"]; !ok {
		diags = append(diags, Diagnostic{Path: path + ".operator", Message: "required field is missing"})
	} else {
		var op string
		if err := json.Unmarshal(rawOp, &op); err != nil {
			diags = append(diags, Diagnostic{Path: path + ".operator", Message: "must be a string"})
		} else if !ValidOperator(op) {
			diags = append(diags, Diagnostic{
				Path:    path + ".operator",
				Message: fmt.Sprintf("unsupported operator %q (supported: >, <, >=, <=, ==, !=)", op),
			})
		}
	}

	for _, side := range []string{"left", "right"} {
		rawOperand, ok := cond[side]
		if !ok {
			diags = append(diags, Diagnostic{Path: path + "." + side, Message: "required field is missing"})
			continue
		}
		diags = append(diags, validateOperand(rawOperand, path+"."+side)...)
	}

	return diags
}

func validateOperand(raw json.RawMessage, path string) []Diagnostic {
	var operand map[string]json.RawMessage
	if err := json.Unmarshal(raw, &operand); err != nil {
		return []Diagnostic{{Path: path, Message: "must be an object"}}
	}

	rawType, ok := operand["type"]
	if !ok {
		return []Diagnostic{{Path: path + ".type", Message: "required field is missing"}}
	}
	var typ string
	if err := json.Unmarshal(rawType, &typ); err != nil {
		return []Diagnostic{{Path: path + ".type", Message: "must be a string"}}
	}

	// Unrecognized tags are rejected here, at validation time, so the
	// resolver only ever sees the three known variants.
	switch typ {
	case OperandColumn:
		return validateColumnOperand(operand, path)
	case OperandIndicator:
		return validateIndicatorOperand(operand, path)
	case OperandConstant:
		return validateConstantOperand(operand, path)
	default:
		return []Diagnostic{{
			Path:    path + ".type",
			Message: fmt.Sprintf("unknown operand type %q (supported: column, indicator, constant)", typ),
		}}
	}
}

func validateColumnOperand(operand map[string]json.RawMessage, path string) []Diagnostic {
	var diags []Diagnostic
	diags = append(diags, validateNameField(operand, path, "name")...)
	diags = append(diags, validateOffsetField(operand, path)...)
	return diags
}

func validateIndicatorOperand(operand map[string]json.RawMessage, path string) []Diagnostic {
	var diags []Diagnostic
	diags = append(diags, validateNameField(operand, path, "name")...)
	diags = append(diags, validateNameField(operand, path, "column")...)

	if rawParams, ok := operand["params"]; ok {
		var params []float64
		if err := json.Unmarshal(rawParams, &params); err != nil {
			diags = append(diags, Diagnostic{Path: path + ".params", Message: "must be an array of numbers"})
		}
	}

	diags = append(diags, validateOffsetField(operand, path)...)
	return diags
}

func validateConstantOperand(operand map[string]json.RawMessage, path string) []Diagnostic {
	rawValue, ok := operand["value"]
	if !ok {
		return []Diagnostic{{Path: path + ".value", Message: "required field is missing"}}
	}
	var value float64
	if err := json.Unmarshal(rawValue, &value); err != nil {
		return []Diagnostic{{Path: path + ".value", Message: "must be a number"}}
	}
	return nil
}

func validateNameField(operand map[string]json.RawMessage, path, field string) []Diagnostic {
	raw, ok := operand[field]
	if !ok {
		return []Diagnostic{{Path: path + "." + field, Message: "required field is missing"}}
	}
	var name string
	if err := json.Unmarshal(raw, &name); err != nil {
		return []Diagnostic{{Path: path + "." + field, Message: "must be a string"}}
	}
	if name == "" {
		return []Diagnostic{{Path: path + "." + field, Message: "must not be empty"}}
	}
	return nil
}

func validateOffsetField(operand map[string]json.RawMessage, path string) []Diagnostic {
	raw, ok := operand["offset"]
	if !ok {
		return nil // offset is optional, defaulting to 0
	}
	var offset float64
	if err := json.Unmarshal(raw, &offset); err != nil {
		return []Diagnostic{{Path: path + ".offset", Message: "must be a number"}}
	}
	if offset < 0 || offset != math.Trunc(offset) {
		return []Diagnostic{{Path: path + ".offset", Message: "must be a non-negative integer"}}
	}
	// The float64 walk above cannot tell MaxInt64 apart from values just
	// beyond it; a strict integer decode catches out-of-range offsets here,
	// with a field path, instead of in the final typed decode.
	var exact int64
	if err := json.Unmarshal(raw, &exact); err != nil {
		return []Diagnostic{{Path: path + ".offset", Message: "must be an integer within the 64-bit range"}}
	}
	return nil
}
