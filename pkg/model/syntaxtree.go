package model

// SyntaxTreeNode is a terminal or nonterminal symbol.
type SyntaxTreeNode struct {
	ElementBase
}

type SyntaxTreeLink struct {
	ElementBase
	Connection
}

func (l *SyntaxTreeLink) Symmetric() bool { return false }
