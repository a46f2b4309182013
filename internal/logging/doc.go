// Package logging constructs slog loggers from application configuration.
//
// Output goes to stdout and, when a log directory is configured, to
// ewms.log inside it. Format is text or json; level parsing accepts the
// usual four names.
package logging
