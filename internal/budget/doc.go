// Package budget enforces the optional token ceiling on content headed for
// paid analysis.
//
// The estimate is a rough one token per four characters, rounded down. The
// gate only blocks when the estimate strictly exceeds the configured budget;
// a malformed budget value downgrades to a warning and never blocks an
// otherwise valid run.
package budget
