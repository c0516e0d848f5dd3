package base

import "errors"

var (
	// ErrCustomSettingsUnsupported used when custom settings are supplied to
	// a strategy that takes none
	ErrCustomSettingsUnsupported = errors.New("custom settings not supported")
	// ErrInvalidCustomSettings used when a custom setting fails to parse
	ErrInvalidCustomSettings = errors.New("invalid custom settings in config")
)

// Strategy is the base implementation shared by all strategies
type Strategy struct{}
