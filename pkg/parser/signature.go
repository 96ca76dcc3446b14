package parser

import "strings"

// stripVisibility removes a leading UML visibility marker.
func stripVisibility(s string) string {
	s = strings.TrimSpace(s)
	if s != "" && strings.ContainsRune("+-#~", rune(s[0])) {
		s = strings.TrimSpace(s[1:])
	}
	return s
}

// splitAttribute splits "+ name: Type" into name and type.
func splitAttribute(raw string) (name, typ string) {
	s := stripVisibility(raw)
	before, after, found := strings.Cut(s, ":")
	if !found {
		return s, ""
	}
	return strings.TrimSpace(before), strings.TrimSpace(after)
}

// splitMethod splits "+ name(p1: A, p2): R" into name, parameters and return
// type. Parameters keep their declared text with whitespace collapsed.
func splitMethod(raw string) (name string, params []string, ret string) {
	s := stripVisibility(raw)
	open := strings.IndexByte(s, '(')
	end := strings.LastIndexByte(s, ')')
	if open < 0 || end < open {
		name, ret = splitAttribute(s)
		return name, []string{}, ret
	}

	name = strings.TrimSpace(s[:open])
	params = []string{}
	for _, p := range strings.Split(s[open+1:end], ",") {
		if p = strings.Join(strings.Fields(p), " "); p != "" {
			params = append(params, p)
		}
	}
	if rest, ok := strings.CutPrefix(strings.TrimSpace(s[end+1:]), ":"); ok {
		ret = strings.TrimSpace(rest)
	}
	return name, params, ret
}
