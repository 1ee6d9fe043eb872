package feeders

import (
	"errors"
)

// Static error definitions for feeders

// File feeder errors
var (
	ErrFilePathEmpty          = errors.New("file path is empty")
	ErrInvalidStructureTarget = errors.New("expected pointer to struct")
)

// Env feeder errors
var (
	ErrEnvInvalidStructure     = errors.New("env: invalid structure")
	ErrEnvEmptyPrefixAndSuffix = errors.New("env: prefix or suffix cannot be empty")
	ErrEnvFieldCannotBeSet     = errors.New("env: field cannot be set")
)
