package chain

import "errors"

// ErrCannotParse is returned when an RPC response that's supposed to be
// a hex-encoded 32-byte hash decodes to the wrong length or isn't valid
// hex (spec.md §4.5).
var ErrCannotParse = errors.New("chain: cannot parse response as a 32-byte hash")
