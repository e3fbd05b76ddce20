package files

import "errors"

var ErrNotFound = errors.New("not found")
