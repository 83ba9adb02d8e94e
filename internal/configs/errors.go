package configs

import "errors"

var (
	ErrNotFound      = errors.New("configuration not found")
	ErrInvalid       = errors.New("invalid configuration")
	ErrDuplicateName = errors.New("configuration name already exists")
)
