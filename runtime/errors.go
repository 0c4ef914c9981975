package runtime

import "errors"

// ErrConfigInvalid reports an Options value the loop cannot honor: today
// that is only TokenHistorySize > 0 without AllowCopying (spec.md §7's
// ConfigInvalid), but a failing Recorder is also folded under this sentinel
// since it too is a caller-supplied configuration problem rather than a
// property of the graph or firing itself.
var ErrConfigInvalid = errors.New("runtime: invalid execution options")
