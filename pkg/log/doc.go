// Package log provides the logging abstraction used by tweetsim.
//
// Library code logs through the [Logger] interface so callers can plug in
// their own logging. A zerolog adapter and a no-op logger are provided:
//
//	logger := log.NewZerologAdapter(os.Stderr, "debug")
//
//	logger := log.NewNoopLogger()
package log
