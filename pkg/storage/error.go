package storage

import "errors"

// ErrUnavailable marks a storage backend outage. Drivers wrap infrastructure
// failures around this sentinel so callers can distinguish a hard service
// error from the soft not-found cases, which are never errors.
var ErrUnavailable = errors.New("storage unavailable")
