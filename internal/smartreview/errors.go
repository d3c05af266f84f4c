package smartreview

import "github.com/pkg/errors"

// ErrNotFound covers absent entities and ownership misses alike, so a caller
// cannot distinguish "someone else's question" from "no such question".
var ErrNotFound = errors.New("not found")

// ErrValidation covers malformed input: ratings outside 1-5, empty section
// lists. Rejected before any state change.
var ErrValidation = errors.New("invalid request")
