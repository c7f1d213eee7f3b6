package apperr

import "errors"

var (
	ErrNotFound           = errors.New("not found")
	ErrAlreadyExists      = errors.New("already exists")
	ErrReservedCategory   = errors.New("reserved category")
	ErrInvalidImport      = errors.New("invalid import")
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrLocked             = errors.New("locked")
)
