package gesture

import "errors"

// ErrDeferToHost means the point lies on a host dialog and the host's own handling
// must win, even if a tab container could be found.
var ErrDeferToHost = errors.New("point is on a host dialog")
