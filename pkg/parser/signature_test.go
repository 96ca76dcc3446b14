package parser

import (
	"slices"
	"testing"
)

func TestSplitAttribute(t *testing.T) {
	tests := []struct {
		in       string
		name     string
		attrType string
	}{
		{"+ name: String", "name", "String"},
		{"-age:int", "age", "int"},
		{"# items : List<Item>", "items", "List<Item>"},
		{"counter", "counter", ""},
		{"age = 42", "age = 42", ""},
		{"", "", ""},
	}

	for _, tc := range tests {
		name, typ := splitAttribute(tc.in)
		if name != tc.name || typ != tc.attrType {
			t.Fatalf("splitAttribute(%q) = %q, %q, want %q, %q", tc.in, name, typ, tc.name, tc.attrType)
		}
	}
}

func TestSplitMethod(t *testing.T) {
	tests := []struct {
		in     string
		name   string
		params []string
		ret    string
	}{
		{"+ order(item: Item, qty:  int): boolean", "order", []string{"item: Item", "qty: int"}, "boolean"},
		{"- reset()", "reset", []string{}, ""},
		{"~ compute(a,b)", "compute", []string{"a", "b"}, ""},
		{"getName: String", "getName", []string{}, "String"},
		{"broken(", "broken(", []string{}, ""},
	}

	for _, tc := range tests {
		name, params, ret := splitMethod(tc.in)
		if name != tc.name || !slices.Equal(params, tc.params) || ret != tc.ret {
			t.Fatalf("splitMethod(%q) = %q, %q, %q, want %q, %q, %q", tc.in, name, params, ret, tc.name, tc.params, tc.ret)
		}
	}
}
