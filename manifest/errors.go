package manifest

import "errors"

// ErrMalformed reports a descriptor whose fields do not match its mode.
var ErrMalformed = errors.New("malformed resizing descriptor")
