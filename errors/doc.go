// Package errors provides the structured error surface of scopekit.
// Every failure raised by the container carries a machine-readable code,
// a human-readable message and structured details (type, key, cycle trace,
// per-entry validation failures) so callers can branch on the kind of
// failure with errors.Is instead of parsing messages.
package errors
