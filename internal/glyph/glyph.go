// Package glyph supplies the symbols drawn by falling particles.
package glyph

import "math/rand"

const symbols = "アイウエオカキクケコサシスセソタチツテトナニヌネノハヒフヘホマミムメモヤユヨラリルレロワヲン0123456789ABCDEFGHIJKLMNOPQRSTUVWXYZ"

var alphabet = []rune(symbols)

// Next returns the next glyph to display. In data mode it is a fair bit,
// otherwise a uniform pick from the symbol alphabet.
func Next(rng *rand.Rand, dataMode bool) rune {
	if dataMode {
		if rng.Float64() < 0.5 {
			return '0'
		}
		return '1'
	}
	return alphabet[rng.Intn(len(alphabet))]
}

// Symbols returns a copy of the ordered symbol alphabet.
func Symbols() []rune {
	out := make([]rune, len(alphabet))
	copy(out, alphabet)
	return out
}

func IsSymbol(r rune) bool {
	for _, s := range alphabet {
		if s == r {
			return true
		}
	}
	return false
}

func IsBit(r rune) bool { return r == '0' || r == '1' }

// Valid reports whether r belongs to the alphabet selected by dataMode.
func Valid(r rune, dataMode bool) bool {
	if dataMode {
		return IsBit(r)
	}
	return IsSymbol(r)
}
