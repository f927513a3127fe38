package config

import "errors"

// ErrInvalidConfig is returned by Config.Validate for any out-of-range
// or malformed setting.
var ErrInvalidConfig = errors.New("invalid config")
