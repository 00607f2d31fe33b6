package pattern

import "errors"

// ErrSyntax reports a malformed pattern. Wrapped errors carry the specific
// defect ("missing ')'", "nothing before '*'", ...).
var ErrSyntax = errors.New("invalid pattern syntax")

// ErrTooComplex reports that normalization did not stabilize within its
// rewrite-pass bound. It marks a pattern the engine refuses to analyze,
// not a malformed one.
var ErrTooComplex = errors.New("pattern too complex")
