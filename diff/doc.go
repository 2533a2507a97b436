package diff

// Package diff implements the contract compatibility engine: it compares two
// immutable contract snapshots and classifies every difference as Info,
// Warning, or Breaking according to what can fail a previously-passing
// consumer. Severity is asymmetric: the same structural edit classifies
// differently on the request and response sides.
