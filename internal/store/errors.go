package store

import "errors"

var errHubClosed = errors.New("change feed closed")
