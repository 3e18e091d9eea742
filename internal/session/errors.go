package session

import "errors"

var ErrClosed = errors.New("session controller closed")
