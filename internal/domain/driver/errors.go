package driver

import "errors"

var (
	ErrDriverNotFound    = errors.New("driver not found")
	ErrDriverNameExists  = errors.New("an active driver with this name already exists")
	ErrDriverInUse       = errors.New("driver is referenced by loads, fuel, fees or advances")
	ErrInvalidDriverType = errors.New("invalid driver type")
	ErrInvalidStatus     = errors.New("invalid driver status")
)
