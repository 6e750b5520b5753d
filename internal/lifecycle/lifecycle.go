package lifecycle

import "sync/atomic"

var (
	shuttingDown atomic.Bool
	ready        atomic.Bool
)

// SetShuttingDown marks the process as draining. Health reports 503 while true.
func SetShuttingDown(v bool) {
	shuttingDown.Store(v)
}

func IsShuttingDown() bool {
	return shuttingDown.Load()
}

// SetReady marks the initial session check and first load as complete.
func SetReady(v bool) {
	ready.Store(v)
}

// IsReady reports whether startup has finished. Health reports "starting" until then.
func IsReady() bool {
	return ready.Load()
}
