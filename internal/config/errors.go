package config

import "errors"

var (
	ErrInvalidDensity  = errors.New("config: density must be >= 0")
	ErrInvalidFontSize = errors.New("config: font size must be positive")
	ErrInvalidInterval = errors.New("config: tick interval must be positive")
	ErrInvalidTuning   = errors.New("config: tuning value out of range")
	ErrInvalidCanvas   = errors.New("config: invalid canvas size")
)
