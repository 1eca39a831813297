package render

import "errors"

var (
	// ErrFontUnavailable indicates a font file could not be read or parsed.
	ErrFontUnavailable = errors.New("render: font unavailable")
)
