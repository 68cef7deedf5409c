package batch

import "time"

// now is indirected so tests can substitute a deterministic clock, mirroring
// the timeNow var pattern used for the same reason in catrate.
var now = time.Now
