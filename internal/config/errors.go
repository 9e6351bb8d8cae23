package config

import (
	"errors"
)

var (
	// ErrInvalidConfig wraps every Validate failure.
	ErrInvalidConfig = errors.New("invalid config")
	// ErrLoadConfig wraps .env, file, env and decode failures in Load.
	ErrLoadConfig = errors.New("load config failed")
)
