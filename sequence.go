package tierstore

import "sync/atomic"

// process-wide access counter; 0 is never handed out.
var sequence atomic.Uint64

// NextSequence returns the next value of the process-wide access counter.
// Values are strictly increasing and never repeat, so two touches never tie.
func NextSequence() uint64 { return sequence.Add(1) }
