package filter

import "testing"

func TestHash_FieldOrderIndependent(t *testing.T) {
	a := `{"logic": "AND", "conditions": [{"left": {"type": "column", "name": "close", "offset": 1}, "operator": ">", "right": {"type": "constant", "value": 25}}]}`
	b := `{"conditions": [{"right": {"value": 25, "type": "constant"}, "operator": ">", "left": {"offset": 1, "name": "close", "type": "column"}}], "logic": "AND"}`

	exprA, diags := Validate([]byte(a))
	if len(diags) != 0 {
		t.Fatalf("filter a failed validation: %v", diags)
	}
	exprB, diags := Validate([]byte(b))
	if len(diags) != 0 {
		t.Fatalf("filter b failed validation: %v", diags)
	}

	if Hash(exprA) != Hash(exprB) {
		t.Errorf("Hash differs for reordered fields: %s vs %s", Hash(exprA), Hash(exprB))
	}
}

func TestHash_DistinguishesFilters(t *testing.T) {
	base := `{"logic": "AND", "conditions": [{"left": {"type": "column", "name": "close"}, "operator": ">", "right": {"type": "constant", "value": 25}}]}`
	variants := []string{
		`{"logic": "OR", "conditions": [{"left": {"type": "column", "name": "close"}, "operator": ">", "right": {"type": "constant", "value": 25}}]}`,
		`{"logic": "AND", "conditions": [{"left": {"type": "column", "name": "close"}, "operator": "<", "right": {"type": "constant", "value": 25}}]}`,
		`{"logic": "AND", "conditions": [{"left": {"type": "column", "name": "close"}, "operator": ">", "right": {"type": "constant", "value": 26}}]}`,
		`{"logic": "AND", "conditions": [{"left": {"type": "column", "name": "open"}, "operator": ">", "right": {"type": "constant", "value": 25}}]}`,
		`{"logic": "AND", "conditions": [{"left": {"type": "column", "name": "close", "offset": 1}, "operator": ">", "right": {"type": "constant", "value": 25}}]}`,
	}

	exprBase, diags := Validate([]byte(base))
	if len(diags) != 0 {
		t.Fatalf("base filter failed validation: %v", diags)
	}
	baseHash := Hash(exprBase)

	for i, v := range variants {
		expr, diags := Validate([]byte(v))
		if len(diags) != 0 {
			t.Fatalf("variant %d failed validation: %v", i, diags)
		}
		if Hash(expr) == baseHash {
			t.Errorf("variant %d hashes identically to base", i)
		}
	}
}

func TestHash_Stable(t *testing.T) {
	data := `{"logic": "AND", "conditions": [{"left": {"type": "indicator", "name": "sma", "column": "close", "params": [20]}, "operator": ">=", "right": {"type": "constant", "value": 0}}]}`
	expr, diags := Validate([]byte(data))
	if len(diags) != 0 {
		t.Fatalf("filter failed validation: %v", diags)
	}
	if Hash(expr) != Hash(expr) {
		t.Error("Hash is not deterministic")
	}
}
