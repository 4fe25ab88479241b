package report

import "errors"

var ErrAlreadyClosed = errors.New("report already closed")
