package load

import "errors"

var (
	ErrLoadNotFound     = errors.New("load not found")
	ErrLoadNumberExists = errors.New("load number already exists")
	ErrInvalidStatus    = errors.New("invalid load status")
)
