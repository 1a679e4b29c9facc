// Package log is a thin, leveled wrapper over the standard log
// package. The kernel has no syslog, no structured sink, and no
// collaborator for log shipping — everything goes to the logging sink
// collaborator, modeled here as stdlib log's default writer. Debug
// output is gated by Verbose so steady-state scheduling stays quiet.
package log

import "log"

// Verbose gates Debugf output. Set it from Config.Verbose at boot.
var Verbose bool

func Debugf(format string, args ...interface{}) {
	if Verbose {
		log.Printf("[debug] "+format, args...)
	}
}

func Infof(format string, args ...interface{}) {
	log.Printf("[info] "+format, args...)
}

func Warnf(format string, args ...interface{}) {
	log.Printf("[warn] "+format, args...)
}
