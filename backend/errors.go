package backend

import "errors"

var ErrUnknownKind = errors.New("backend: unknown kind")
