package typespec

import "errors"

// ErrTypeViolation is the sentinel callers outside this package wrap when a
// value fails Matches against a declared Descriptor — graph-construction
// type mismatches (petrinet.ErrGraphInvalid) and deposit-time mismatches
// (firing.ErrFiringInvalid) both chain through this so a caller can test
// errors.Is(err, typespec.ErrTypeViolation) regardless of which stage caught
// it.
var ErrTypeViolation = errors.New("typespec: value does not match declared type")
