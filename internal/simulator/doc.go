// Package simulator runs the external circuit simulator for one deck. The
// simulator is opaque: it is handed a deck path, its combined stdout and
// stderr are captured into a log file, and only its exit status and wall
// clock duration are reported back.
package simulator
