package schema

// Package schema implements the validation engine at the heart of kontrakt: a
// closed tagged-union Node describing expected JSON shape, a recursive
// preorder validator producing ordered kontrakt.Violations, matcher leaves
// validated by rule instead of structure, and sample generation for mock
// responses.
//
// Nodes are built once, by an upstream loader or directly through the
// constructors here, and never mutated afterwards; validation reads only its
// immutable inputs and writes only call-local results, so trees may be shared
// across any number of goroutines.
