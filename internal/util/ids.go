package util

import gonanoid "github.com/matoous/go-nanoid/v2"

const nanoidLength = 21

const nanoidAlphabet = "_-0123456789abcdefghijklmnopqrstuvwxyzABCDEFGHIJKLMNOPQRSTUVWXYZ"

// NewID returns a random nanoid used for job and lock tokens.
func NewID() (string, error) {
	return gonanoid.New()
}

// IsNanoid reports whether s has the shape of an id produced by NewID.
func IsNanoid(s string) bool {
	if len(s) != nanoidLength {
		return false
	}
	for i := 0; i < len(s); i++ {
		if !isNanoidByte(s[i]) {
			return false
		}
	}
	return true
}

func isNanoidByte(c byte) bool {
	switch {
	case c >= '0' && c <= '9', c >= 'a' && c <= 'z', c >= 'A' && c <= 'Z':
		return true
	case c == '_' || c == '-':
		return true
	}
	return false
}
