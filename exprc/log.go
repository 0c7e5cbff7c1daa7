package exprc

import "github.com/golang/glog"

// Fatalf logs a formatted message at FATAL severity and terminates the
// process. Every call site using it marks a condition an earlier pass
// should have already ruled out — not a user-facing compile error, which
// is always returned as an error value instead.
func Fatalf(format string, args ...any) {
	glog.Fatalf(format, args...)
}

// Tracef logs a formatted message at V(1), used after the parse, translate,
// schedule and allocate passes for a one-line summary (statement counts,
// instruction counts, step counts, device counts) for anyone running with
// -v=1.
func Tracef(format string, args ...any) {
	glog.V(1).Infof(format, args...)
}
