package driver

import "errors"

var ErrInsufficientStock = errors.New("insufficient stock")
