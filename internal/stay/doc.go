// Package stay computes and classifies length-of-stay durations for
// occupied beds.
//
// The package is pure: Classify derives a fixed-format dd:hh:mm:ss clock
// string and a triage severity grade from two instants and nothing else, so
// consumers may poll it at any cadence. Negative spans caused by clock skew
// clamp to zero rather than producing negative fields.
package stay
